package props

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/conneroisu/istring/internal/errors"
	"github.com/conneroisu/istring/internal/logging"
	"github.com/conneroisu/istring/pkg/attr"
	"github.com/conneroisu/istring/pkg/rc"
)

// Output formats understood by the pipeline.
const (
	FormatHTML = "html"
	FormatJSON = "json"
)

// Result describes one render.
type Result struct {
	Output  string
	Changed []string
	Stats   rc.Stats
}

// Options configures a Pipeline.
type Options struct {
	// Element is used when a document does not name one.
	Element string
	// Format is FormatHTML or FormatJSON.
	Format string
	// Pool is the pool whose stats are reported, rc.Default when nil.
	Pool   *rc.Pool
	Logger logging.Logger
}

// Pipeline keeps the last rendered attribute set and re-renders documents
// against it. It is not safe for concurrent use.
type Pipeline struct {
	element string
	format  string
	pool    *rc.Pool
	logger  logging.Logger
	current *attr.Set
	renders int
}

// NewPipeline creates a pipeline.
func NewPipeline(opts Options) *Pipeline {
	p := &Pipeline{
		element: opts.Element,
		format:  opts.Format,
		pool:    opts.Pool,
		logger:  opts.Logger,
	}
	if p.element == "" {
		p.element = "div"
	}
	if p.format == "" {
		p.format = FormatHTML
	}
	if p.pool == nil {
		p.pool = rc.Default
	}
	if p.logger == nil {
		p.logger = logging.Nop()
	}
	p.logger = p.logger.WithComponent("pipeline")
	return p
}

// Update renders doc. On success the new attribute set replaces the previous
// one, which is released. On failure the previous set is kept.
func (p *Pipeline) Update(ctx context.Context, doc *Document) (Result, error) {
	next, err := doc.Set()
	if err != nil {
		return Result{}, err
	}

	element := doc.Element
	if element == "" {
		element = p.element
	}

	output, err := p.render(ctx, element, next)
	if err != nil {
		next.Release()
		return Result{}, errors.NewRenderError(errors.ErrCodeRenderFailed, "cannot render document", err).
			WithLocation(doc.Path, 0)
	}

	changed := next.Changed(p.current)
	if p.current != nil {
		p.current.Release()
	}
	p.current = next
	p.renders++

	stats := p.pool.Stats()
	p.logger.Debug(ctx, "Rendered attributes",
		"element", element,
		"render", p.renders,
		"changed", changed,
		"live_buffers", stats.Live)

	return Result{Output: output, Changed: changed, Stats: stats}, nil
}

// Current returns the borrowed attribute set of the last render, nil before the first.
func (p *Pipeline) Current() *attr.Set {
	return p.current
}

// Renders returns the number of successful updates.
func (p *Pipeline) Renders() int {
	return p.renders
}

// Close releases the current set and reports buffers that are still live.
func (p *Pipeline) Close(ctx context.Context) rc.Stats {
	if p.current != nil {
		p.current.Release()
		p.current = nil
	}

	stats := p.pool.Stats()
	if stats.Live > 0 {
		p.logger.Warn(ctx, fmt.Errorf("%d shared buffers still referenced", stats.Live),
			"Pipeline closed with live buffers",
			"allocated", stats.Allocated,
			"freed", stats.Freed)
	}
	return stats
}

type jsonAttribute struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Kind  string `json:"kind"`
}

type jsonElement struct {
	Element    string          `json:"element"`
	Attributes []jsonAttribute `json:"attributes"`
}

func (p *Pipeline) render(ctx context.Context, element string, set *attr.Set) (string, error) {
	switch p.format {
	case FormatHTML:
		var b strings.Builder
		if err := set.Component(element).Render(ctx, &b); err != nil {
			return "", err
		}
		return b.String(), nil
	case FormatJSON:
		if !attr.ValidName(element) {
			return "", fmt.Errorf("%w: element %q", attr.ErrInvalidName, element)
		}
		out := jsonElement{Element: element, Attributes: make([]jsonAttribute, 0, set.Len())}
		for _, name := range set.Names() {
			v, _ := set.Get(name)
			out.Attributes = append(out.Attributes, jsonAttribute{Name: name, Value: v.String(), Kind: v.Kind().String()})
		}
		data, err := json.Marshal(out)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported format %q", p.format)
	}
}
