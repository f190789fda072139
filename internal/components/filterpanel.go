package components

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/pthm/pokedex/internal/hx"
	"github.com/pthm/pokedex/internal/mount"
	"github.com/pthm/pokedex/internal/pokedex"
)

// FilterChangedEvent is emitted with the complete selection whenever the
// panel's checkboxes change.
const FilterChangedEvent = "filter:changed"

// pollInterval is how often a loading component asks for its state again.
const pollInterval = 500 * time.Millisecond

// FilterPanelProps identifies the mount whose panel is shown.
type FilterPanelProps struct {
	MountID string

	view pokedex.PanelView
}

// HXEncode implements hx.Encodable.
func (p FilterPanelProps) HXEncode() map[string]any {
	return map[string]any{"m": p.MountID}
}

// HXDecode implements hx.Decodable.
func (p *FilterPanelProps) HXDecode(m map[string]any) error {
	id, ok := m["m"].(string)
	if !ok {
		return fmt.Errorf("filter panel props: missing mount id")
	}
	p.MountID = id
	return nil
}

// FilterPanel lists the type catalog as checkboxes.
type FilterPanel struct {
	*hx.Component[FilterPanelProps]
	mounts *mount.Store
	log    *zap.Logger
}

// NewFilterPanel creates the FilterPanel component.
func NewFilterPanel(mounts *mount.Store, log *zap.Logger) *FilterPanel {
	c := &FilterPanel{
		Component: hx.New[FilterPanelProps]("filterpanel"),
		mounts:    mounts,
		log:       log,
	}
	c.Bind(c)
	c.Action("toggle", c.handleToggle)
	c.Action("clear", c.handleClear)
	return c
}

// Hydrate loads the panel state of the mount.
func (c *FilterPanel) Hydrate(ctx context.Context, props *FilterPanelProps) error {
	m, err := c.mounts.Get(props.MountID)
	if err != nil {
		return fmt.Errorf("%w: %w", hx.ErrNotFound, err)
	}
	props.view = m.Panel.View()
	return nil
}

// Render produces the panel for its current phase.
func (c *FilterPanel) Render(ctx context.Context, props FilterPanelProps) templ.Component {
	return filterPanelTemplate(c, props)
}

func (c *FilterPanel) handleToggle(ctx context.Context, props FilterPanelProps, r *http.Request) hx.Result[FilterPanelProps] {
	category := r.FormValue("category")
	checked := r.FormValue("checked") == "on"
	return c.apply(props, func(p *pokedex.FilterPanel) ([]string, error) {
		return p.Toggle(category, checked)
	})
}

func (c *FilterPanel) handleClear(ctx context.Context, props FilterPanelProps, r *http.Request) hx.Result[FilterPanelProps] {
	res := c.apply(props, (*pokedex.FilterPanel).Clear)
	if res.GetErr() != nil {
		return res
	}
	return res.Flash(hx.FlashInfo, "Filters cleared")
}

// apply changes the selection, which the mount delivers to its grid, and
// announces the new selection to the page.
func (c *FilterPanel) apply(props FilterPanelProps, change func(*pokedex.FilterPanel) ([]string, error)) hx.Result[FilterPanelProps] {
	m, err := c.mounts.Get(props.MountID)
	if err != nil {
		return hx.Err(props, fmt.Errorf("%w: %w", hx.ErrNotFound, err))
	}

	selected, err := change(m.Panel)
	switch {
	case errors.Is(err, pokedex.ErrUnknownCategory), errors.Is(err, pokedex.ErrNotReady):
		return hx.Err(props, fmt.Errorf("%w: %w", hx.ErrBadRequest, err))
	case err != nil:
		return hx.Err(props, err)
	}

	c.log.Debug("selection changed", zap.String("mount", m.ID), zap.Strings("selected", selected))
	props.view = m.Panel.View()
	return hx.OK(props).Trigger(FilterChangedEvent, map[string]any{"selected": selected})
}

func panelID(mountID string) string {
	return "filter-" + mountID
}

func filterPanelTemplate(c *FilterPanel, props FilterPanelProps) templ.Component {
	return component(func(m *markup) {
		id := panelID(props.MountID)
		v := props.view

		switch v.Phase {
		case pokedex.PhaseLoading:
			m.open("aside", merge(templ.Attributes{"id": id, "class": "filter"},
				c.Refresh(props).Every(pollInterval).Attrs()))
			m.raw(`<div class="loading">Loading...</div></aside>`)
			return
		case pokedex.PhaseError:
			m.open("aside", templ.Attributes{"id": id, "class": "filter"})
			m.raw(`<div class="error">Error: `)
			m.text(v.Err)
			m.raw(`</div></aside>`)
			return
		}

		m.open("aside", templ.Attributes{"id": id, "class": "filter"})
		m.raw(`<h2 class="filter-title">Filter</h2><span class="types-title">Types</span><ul>`)
		for _, cat := range v.Categories {
			toggle := c.Call("toggle", props).
				Vals(map[string]any{"category": cat.Name}).
				Trigger("change").
				Target("#" + id).
				Attrs()
			m.raw(`<li><label>`)
			m.open("input", merge(toggle, templ.Attributes{
				"type":    "checkbox",
				"name":    "checked",
				"checked": v.IsSelected(cat.Name),
			}))
			m.raw(" ")
			m.text(pokedex.Capitalize(cat.Name))
			m.raw(`</label></li>`)
		}
		m.raw(`</ul>`)
		if len(v.Selected) > 0 {
			m.open("button", merge(c.Call("clear", props).Target("#"+id).Attrs(),
				templ.Attributes{"type": "button", "class": "clear"}))
			m.raw(`Clear</button>`)
		}
		m.raw(`</aside>`)
	})
}
