package components

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/pthm/pokedex/internal/pokedex"
)

// DetailCard renders one record. The card opens the record's reference
// page in a new tab.
func DetailCard(v pokedex.CardView) templ.Component {
	return component(func(m *markup) {
		m.open("a", templ.Attributes{
			"class":  "card",
			"id":     "pokemon-" + strconv.Itoa(v.ID),
			"href":   v.ReferenceURL,
			"target": "_blank",
			"rel":    "noopener noreferrer",
		})
		m.raw(`<span class="index">`)
		m.text(v.Label)
		m.raw(`</span>`)
		m.open("img", templ.Attributes{
			"src":     v.SpriteURL,
			"alt":     v.Name + " sprite",
			"loading": "lazy",
		})
		m.raw(`<h2>`)
		m.text(v.Title)
		m.raw(`</h2></a>`)
	})
}
