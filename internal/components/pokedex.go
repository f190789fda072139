package components

import (
	"context"
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/pthm/pokedex/internal/hx"
	"github.com/pthm/pokedex/internal/mount"
	"github.com/pthm/pokedex/internal/pokedex"
)

// PokedexProps identifies the mount shown and carries its headline.
type PokedexProps struct {
	MountID  string
	Headline string

	view     pokedex.AggregatorView
	panel    FilterPanelProps
	gridOnly bool
}

// HXEncode implements hx.Encodable.
func (p PokedexProps) HXEncode() map[string]any {
	m := map[string]any{"m": p.MountID}
	if p.Headline != "" {
		m["h"] = p.Headline
	}
	return m
}

// HXDecode implements hx.Decodable.
func (p *PokedexProps) HXDecode(m map[string]any) error {
	id, ok := m["m"].(string)
	if !ok {
		return fmt.Errorf("pokedex props: missing mount id")
	}
	p.MountID = id
	p.Headline, _ = m["h"].(string)
	return nil
}

// Pokedex shows the hydrated records of a mount next to its filter panel.
type Pokedex struct {
	*hx.Component[PokedexProps]
	mounts *mount.Store
	panel  *FilterPanel
	log    *zap.Logger
}

// NewPokedex creates the Pokedex component. panel renders the embedded
// filter panel.
func NewPokedex(mounts *mount.Store, panel *FilterPanel, log *zap.Logger) *Pokedex {
	c := &Pokedex{
		Component: hx.New[PokedexProps]("pokedex"),
		mounts:    mounts,
		panel:     panel,
		log:       log,
	}
	c.Bind(c)
	c.Action("grid", c.handleGrid).Method(http.MethodGet)
	return c
}

// Hydrate loads the grid and panel state of the mount.
func (c *Pokedex) Hydrate(ctx context.Context, props *PokedexProps) error {
	m, err := c.mounts.Get(props.MountID)
	if err != nil {
		return fmt.Errorf("%w: %w", hx.ErrNotFound, err)
	}
	props.view = m.Grid.View()
	props.panel = FilterPanelProps{MountID: m.ID, view: m.Panel.View()}
	return nil
}

// Render produces the loading indicator, the error or the full pokedex.
func (c *Pokedex) Render(ctx context.Context, props PokedexProps) templ.Component {
	if props.gridOnly {
		return gridTemplate(c, props)
	}
	return pokedexTemplate(c, props)
}

// handleGrid re-renders just the card grid after a filter change.
func (c *Pokedex) handleGrid(ctx context.Context, props PokedexProps, r *http.Request) hx.Result[PokedexProps] {
	props.gridOnly = true
	c.log.Debug("grid refresh", zap.String("mount", props.MountID), zap.Int("visible", len(props.view.Visible)))
	return hx.OK(props)
}

// Mounted renders a placeholder that loads the pokedex of m once the page
// has loaded.
func (c *Pokedex) Mounted(m *mount.Mount) templ.Component {
	props := PokedexProps{MountID: m.ID, Headline: m.Headline}
	return c.Defer(props, component(func(mk *markup) {
		mk.raw(`<div class="loading">Loading...</div>`)
	}))
}

func pokedexID(mountID string) string {
	return "pokedex-" + mountID
}

func gridID(mountID string) string {
	return "grid-" + mountID
}

func pokedexTemplate(c *Pokedex, props PokedexProps) templ.Component {
	return component(func(m *markup) {
		id := pokedexID(props.MountID)
		v := props.view

		if v.Loading {
			m.open("section", merge(templ.Attributes{"id": id, "class": "pokedex"},
				c.Refresh(props).Every(pollInterval).Attrs()))
			m.raw(`<div class="loading">Loading...</div></section>`)
			return
		}
		if v.Err != "" {
			m.open("section", templ.Attributes{"id": id, "class": "pokedex"})
			m.raw(`<div class="error">Error: `)
			m.text(v.Err)
			m.raw(`</div></section>`)
			return
		}

		m.open("section", templ.Attributes{"id": id, "class": "pokedex"})
		if props.Headline != "" {
			m.raw(`<h2>`)
			m.text(props.Headline)
			m.raw(`</h2>`)
		}
		m.raw(`<div class="pokedex-container">`)
		m.render(c.panel.Render(m.ctx, props.panel))
		m.render(gridTemplate(c, props))
		m.raw(`</div></section>`)
	})
}

func gridTemplate(c *Pokedex, props PokedexProps) templ.Component {
	return component(func(m *markup) {
		listen := c.Call("grid", PokedexProps{MountID: props.MountID, Headline: props.Headline}).
			OnEvent(FilterChangedEvent).
			Attrs()
		m.open("ul", merge(listen, templ.Attributes{"id": gridID(props.MountID), "class": "grid"}))
		for _, r := range props.view.Visible {
			m.raw(`<li>`)
			m.render(DetailCard(pokedex.NewCardView(r)))
			m.raw(`</li>`)
		}
		m.raw(`</ul>`)
	})
}
