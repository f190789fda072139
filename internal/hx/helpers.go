package hx

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/a-h/templ"
)

// Render writes a templ component to the response as HTML.
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsHTMX reports whether the request was sent by htmx.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// IsBoosted reports whether the request is a boosted navigation.
func IsBoosted(r *http.Request) bool {
	return r.Header.Get("HX-Boosted") == "true"
}

// CurrentURL returns the browser URL from the HX-Current-URL header.
func CurrentURL(r *http.Request) string {
	return r.Header.Get("HX-Current-URL")
}

// TriggerID returns the id of the element that triggered the request.
func TriggerID(r *http.Request) string {
	return r.Header.Get("HX-Trigger")
}

// TargetID returns the id of the element receiving the response.
func TargetID(r *http.Request) string {
	return r.Header.Get("HX-Target")
}

// BuildTriggerHeader formats an HX-Trigger value. An event without data is
// sent by name; with data it becomes {"event": data} so listeners see the
// data as evt.detail.
func BuildTriggerHeader(trigger string, data map[string]any) string {
	if trigger == "" {
		return ""
	}
	if data == nil {
		return trigger
	}
	b, err := json.Marshal(map[string]any{trigger: data})
	if err != nil {
		return trigger
	}
	return string(b)
}

// RenderAttrs writes attrs as HTML attributes in key order. String values
// are escaped; boolean true renders the bare key and false omits it.
func RenderAttrs(w io.Writer, attrs templ.Attributes) error {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var sb strings.Builder
	for _, k := range keys {
		switch v := attrs[k].(type) {
		case bool:
			if v {
				sb.WriteString(" " + templ.EscapeString(k))
			}
		case string:
			sb.WriteString(" " + templ.EscapeString(k) + `="` + templ.EscapeString(v) + `"`)
		default:
			sb.WriteString(" " + templ.EscapeString(k) + `="` + templ.EscapeString(fmt.Sprint(v)) + `"`)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
