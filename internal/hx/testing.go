package hx

import (
	"bytes"
	"context"
	"encoding/json"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
)

// TestResult is the recorded outcome of a component request in tests.
type TestResult struct {
	HTML            string
	StatusCode      int
	Headers         http.Header
	TriggeredEvents []string
	EventData       map[string]map[string]any
	Flashes         []Flash
	RedirectURL     string
}

// TestRender hydrates and renders comp directly, without HTTP or props
// encoding.
func TestRender[P any](ctx context.Context, comp Lifecycle[P], props P) (*TestResult, error) {
	if err := comp.Hydrate(ctx, &props); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := comp.Render(ctx, props).Render(ctx, &buf); err != nil {
		return nil, err
	}
	return &TestResult{
		HTML:       buf.String(),
		StatusCode: http.StatusOK,
		Headers:    make(http.Header),
	}, nil
}

// TestAction sends an htmx request through comp's full lifecycle.
func TestAction(comp HXComponent, method, target string, form url.Values) *TestResult {
	var body *strings.Reader
	if len(form) > 0 {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("HX-Request", "true")
	if len(form) > 0 {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	rec := httptest.NewRecorder()
	comp.HXServeHTTP(rec, req)

	result := &TestResult{
		HTML:        rec.Body.String(),
		StatusCode:  rec.Code,
		Headers:     rec.Header(),
		RedirectURL: rec.Header().Get("HX-Redirect"),
		Flashes:     parseFlashesFromHTML(rec.Body.String()),
	}
	result.TriggeredEvents, result.EventData = parseTriggerHeader(rec.Header().Get("HX-Trigger"))
	return result
}

// TestGet renders comp at target.
func TestGet(comp HXComponent, target string) *TestResult {
	return TestAction(comp, http.MethodGet, target, nil)
}

// TestPost posts form to target.
func TestPost(comp HXComponent, target string, form url.Values) *TestResult {
	return TestAction(comp, http.MethodPost, target, form)
}

// HTMLContains checks if the HTML contains substr.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HasEvent checks if event was triggered.
func (r *TestResult) HasEvent(event string) bool {
	return slices.Contains(r.TriggeredEvents, event)
}

// HasFlash checks for a flash with the given level and message.
func (r *TestResult) HasFlash(level, message string) bool {
	return slices.Contains(r.Flashes, Flash{Level: level, Message: message})
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// parseTriggerHeader splits an HX-Trigger value into event names and the
// data attached to each.
func parseTriggerHeader(trigger string) ([]string, map[string]map[string]any) {
	trigger = strings.TrimSpace(trigger)
	if trigger == "" {
		return nil, nil
	}

	if strings.HasPrefix(trigger, "{") {
		var raw map[string]any
		if err := json.Unmarshal([]byte(trigger), &raw); err != nil {
			return nil, nil
		}
		events := make([]string, 0, len(raw))
		data := make(map[string]map[string]any, len(raw))
		for name, v := range raw {
			events = append(events, name)
			if m, ok := v.(map[string]any); ok {
				data[name] = m
			}
		}
		slices.Sort(events)
		return events, data
	}

	var events []string
	for _, p := range strings.Split(trigger, ",") {
		if p = strings.TrimSpace(p); p != "" {
			events = append(events, p)
		}
	}
	return events, nil
}

// parseFlashesFromHTML extracts toasts rendered by RenderFlashesOOB.
func parseFlashesFromHTML(body string) []Flash {
	const prefix = `<div class="toast toast-`
	var flashes []Flash
	rest := body
	for {
		_, after, ok := strings.Cut(rest, prefix)
		if !ok {
			return flashes
		}
		level, after, ok := strings.Cut(after, `"`)
		if !ok {
			return flashes
		}
		_, after, ok = strings.Cut(after, ">")
		if !ok {
			return flashes
		}
		message, after, ok := strings.Cut(after, "</div>")
		if !ok {
			return flashes
		}
		flashes = append(flashes, Flash{Level: level, Message: html.UnescapeString(message)})
		rest = after
	}
}
