package components

import (
	"context"
	"io"
	"maps"

	"github.com/a-h/templ"

	"github.com/pthm/pokedex/internal/hx"
)

// markup writes HTML in sequence and keeps the first error, the way
// generated templ code does.
type markup struct {
	ctx context.Context
	w   io.Writer
	err error
}

func (m *markup) raw(s string) {
	if m.err == nil {
		_, m.err = io.WriteString(m.w, s)
	}
}

func (m *markup) text(s string) {
	m.raw(templ.EscapeString(s))
}

func (m *markup) attrs(a templ.Attributes) {
	if m.err == nil {
		m.err = hx.RenderAttrs(m.w, a)
	}
}

// open writes a start tag with the given attributes.
func (m *markup) open(tag string, a templ.Attributes) {
	m.raw("<" + tag)
	m.attrs(a)
	m.raw(">")
}

func (m *markup) render(c templ.Component) {
	if m.err == nil {
		m.err = c.Render(m.ctx, m.w)
	}
}

func component(fn func(m *markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &markup{ctx: ctx, w: w}
		fn(m)
		return m.err
	})
}

// merge returns a copy of base with extra laid over it.
func merge(base templ.Attributes, extra templ.Attributes) templ.Attributes {
	out := make(templ.Attributes, len(base)+len(extra))
	maps.Copy(out, base)
	maps.Copy(out, extra)
	return out
}
