// Package props loads attribute documents and drives their values through the
// clone, compare and re-render cycle of the attribute pipeline.
package props

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/conneroisu/istring/internal/errors"
	"github.com/conneroisu/istring/pkg/attr"
	"github.com/conneroisu/istring/pkg/istring"
	"gopkg.in/yaml.v3"
)

// Entry is one attribute of a document.
type Entry struct {
	Name   string          `yaml:"name"`
	Value  istring.IString `yaml:"value"`
	Static bool            `yaml:"static"`
}

// Document is an element with an ordered list of attributes, decoded from YAML:
//
//	element: button
//	attributes:
//	  - name: class
//	    value: btn primary
//	    static: true
//	  - name: title
//	    value: Save
//
// Static entries are interned and become static values; the others stay
// shared.
type Document struct {
	Element    string  `yaml:"element"`
	Attributes []Entry `yaml:"attributes"`

	Path string `yaml:"-"`
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := errors.ErrCodeReadFailed
		if os.IsNotExist(err) {
			code = errors.ErrCodeFileNotFound
		}
		return nil, errors.NewIOError(code, "cannot read document", err).WithLocation(path, 0)
	}
	return Parse(data, path)
}

// Parse decodes a document. path is only used in error messages.
func Parse(data []byte, path string) (*Document, error) {
	doc := &Document{Path: path}
	if err := yaml.Unmarshal(data, doc); err != nil {
		doc.Release()
		return nil, errors.Wrap(err, errors.ErrorTypeValidation, errors.ErrCodeInvalidDocument, "cannot decode document").
			WithLocation(path, 0)
	}

	for i, e := range doc.Attributes {
		if !attr.ValidName(e.Name) {
			doc.Release()
			return nil, errors.NewValidationError(errors.ErrCodeInvalidName,
				fmt.Sprintf("attribute %d has invalid name %q", i, e.Name)).
				WithLocation(path, 0).
				WithContext("index", i)
		}
	}

	return doc, nil
}

// Set builds the attribute slots of the document. The Set shares the
// document's values, so the document may be released independently.
func (d *Document) Set() (*attr.Set, error) {
	set := attr.NewSet()
	for _, e := range d.Attributes {
		var err error
		if e.Static {
			err = set.Put(e.Name, istring.Static(intern(e.Value.String())).Attr())
		} else {
			err = set.PutFrom(e.Name, e.Value)
		}
		if err != nil {
			set.Release()
			return nil, errors.Wrap(err, errors.ErrorTypeValidation, errors.ErrCodeInvalidName, "cannot build attributes").
				WithLocation(d.Path, 0)
		}
	}
	return set, nil
}

// Release releases the values decoded into the document.
func (d *Document) Release() {
	for _, e := range d.Attributes {
		e.Value.Release()
	}
	d.Attributes = nil
}

// maxInterned bounds the intern table. A long watch session edits static
// values many times; once full the table starts over, and texts already handed
// out stay valid because the garbage collector keeps them alive.
const maxInterned = 4096

var (
	internMu sync.RWMutex
	interned = make(map[string]string)
)

// intern returns a canonical copy of s shared by every equal static entry.
func intern(s string) string {
	if s == "" {
		return ""
	}

	internMu.RLock()
	v, ok := interned[s]
	internMu.RUnlock()
	if ok {
		return v
	}

	internMu.Lock()
	defer internMu.Unlock()
	if v, ok := interned[s]; ok {
		return v
	}
	if len(interned) >= maxInterned {
		clear(interned)
	}
	v = strings.Clone(s)
	interned[v] = v
	return v
}
