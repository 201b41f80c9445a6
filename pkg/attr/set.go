package attr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// ErrInvalidName is returned for attribute and element names that cannot be rendered.
var ErrInvalidName = errors.New("attr: invalid name")

// Set is an ordered collection of attribute slots.
//
// A Set owns its values. Values returned by Get are borrowed and must be
// cloned to outlive the slot.
type Set struct {
	names  []string
	values map[string]Value
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{values: make(map[string]Value)}
}

// ValidName reports whether name is usable as an attribute or element name.
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i == 0:
			return false
		case c >= '0' && c <= '9', c == '-', c == '_', c == ':', c == '.':
		default:
			return false
		}
	}
	return true
}

// Put stores v under name, releasing any value it replaces.
// On success the Set owns v; on error ownership stays with the caller.
func (s *Set) Put(name string, v Value) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if old, ok := s.values[name]; ok {
		old.Release()
	} else {
		s.names = append(s.names, name)
	}
	s.values[name] = v
	return nil
}

// PutFrom converts from and stores the result under name.
func (s *Set) PutFrom(name string, from Into) error {
	if !ValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return s.Put(name, from.IntoAttr())
}

// Get returns the borrowed value stored under name.
func (s *Set) Get(name string) (Value, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Delete releases and removes the value under name.
func (s *Set) Delete(name string) bool {
	v, ok := s.values[name]
	if !ok {
		return false
	}
	v.Release()
	delete(s.values, name)
	for i, n := range s.names {
		if n == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of slots.
func (s *Set) Len() int {
	return len(s.names)
}

// Names returns the slot names in insertion order.
func (s *Set) Names() []string {
	return append([]string(nil), s.names...)
}

// Clone returns a Set sharing every value of s.
func (s *Set) Clone() *Set {
	c := &Set{
		names:  s.Names(),
		values: make(map[string]Value, len(s.values)),
	}
	for name, v := range s.values {
		c.values[name] = v.Clone()
	}
	return c
}

// Release releases every value and empties the Set.
func (s *Set) Release() {
	for _, v := range s.values {
		v.Release()
	}
	s.names = nil
	s.values = make(map[string]Value)
}

// Changed returns the names whose content differs between prev and s:
// names added or changed in s first, then names removed from prev.
func (s *Set) Changed(prev *Set) []string {
	if prev == nil {
		return s.Names()
	}
	var changed []string
	for _, name := range s.names {
		old, ok := prev.values[name]
		if !ok || !old.Equal(s.values[name]) {
			changed = append(changed, name)
		}
	}
	for _, name := range prev.names {
		if _, ok := s.values[name]; !ok {
			changed = append(changed, name)
		}
	}
	return changed
}

// Attributes returns the slots as templ attributes in insertion order.
// The values are the slot texts and stay readable after the Set is released.
func (s *Set) Attributes() templ.OrderedAttributes {
	attrs := make(templ.OrderedAttributes, 0, len(s.names))
	for _, name := range s.names {
		attrs = append(attrs, templ.KeyValue[string, any]{Key: name, Value: s.values[name].String()})
	}
	return attrs
}

// Component renders an empty element with the slots as attributes, in
// insertion order. The Set must not be released before rendering.
func (s *Set) Component(tag string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if !ValidName(tag) {
			return fmt.Errorf("%w: element %q", ErrInvalidName, tag)
		}
		var b strings.Builder
		b.WriteString("<" + tag)
		if err := templ.RenderAttributes(ctx, &b, s.Attributes()); err != nil {
			return err
		}
		b.WriteString("></" + tag + ">")
		_, err := io.WriteString(w, b.String())
		return err
	})
}
