package components

import (
	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/pthm/pokedex/internal/hx"
	"github.com/pthm/pokedex/internal/mount"
)

const htmxScript = "https://unpkg.com/htmx.org@2.0.4"

const styles = `
body { font-family: system-ui, sans-serif; margin: 0; padding: 32px; display: flex; }
#toasts { position: fixed; top: 16px; right: 16px; display: flex; flex-direction: column; gap: 8px; }
.toast { padding: 8px 16px; border-radius: 8px; background: #333; color: #fff; }
.pokedex { flex: 1; display: flex; flex-direction: column; border: solid 1px gray; border-radius: 8px; padding: 32px; }
.pokedex h2 { margin-top: 0; }
.pokedex-container { display: flex; flex: 1; gap: 16px; flex-direction: row; }
.filter { display: flex; flex-direction: column; border: 1px solid #ccc; padding: 32px; border-radius: 8px; min-width: 180px; align-self: baseline; }
.filter-title { margin-top: 0; margin-bottom: 8px; }
.types-title { font-weight: bold; margin-bottom: 8px; }
.filter ul { list-style-type: none; padding: 0; margin: 0; }
.grid { flex: 1; align-self: baseline; margin: 0; padding: 0; list-style-type: none; display: grid; grid-template-columns: repeat(auto-fill, minmax(214px, 1fr)); gap: 16px; }
.grid li { aspect-ratio: 1 / 1; }
.card { position: relative; height: 100%; box-sizing: border-box; display: flex; flex-direction: column; align-items: center; justify-content: center; border: 1px solid #ccc; padding: 16px; border-radius: 8px; text-align: center; color: inherit; text-decoration: none; }
.card:hover { box-shadow: 0 4px 8px rgba(0, 0, 0, 0.3); transform: translateY(-4px); transition: all 0.2s ease-in-out; background-color: rgba(0, 0, 0, 0.05); }
.card .index { position: absolute; top: 16px; right: 16px; font-weight: bold; }
.card img { width: 120px; height: 120px; }
`

// Page renders the full HTML document around content.
func Page(title string, content templ.Component) templ.Component {
	if title == "" {
		title = "Pokedex"
	}
	return component(func(m *markup) {
		m.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		m.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		m.text(title)
		m.raw(`</title>`)
		m.open("script", templ.Attributes{"src": htmxScript})
		m.raw(`</script><style>` + styles + `</style></head><body>`)
		m.render(content)
		m.render(hx.ToastContainer())
		m.raw(`</body></html>`)
	})
}

// Set holds the registered components.
type Set struct {
	Pokedex     *Pokedex
	FilterPanel *FilterPanel
}

// Init creates every component and registers it with reg.
func Init(reg *hx.Registry, mounts *mount.Store, log *zap.Logger) *Set {
	if log == nil {
		log = zap.NewNop()
	}
	panel := NewFilterPanel(mounts, log)
	set := &Set{
		Pokedex:     NewPokedex(mounts, panel, log),
		FilterPanel: panel,
	}
	reg.Add(set.Pokedex, set.FilterPanel)
	return set
}
