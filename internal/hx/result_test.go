package hx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResultBuilders(t *testing.T) {
	props := counterProps{ID: "a"}

	r := OK(props).
		Flash(FlashInfo, "one").
		Flash(FlashError, "two").
		Trigger("filter:changed", map[string]any{"selected": []string{"fire"}}).
		Header("X-Test", "1").
		Status(http.StatusAccepted)

	if r.GetProps() != props {
		t.Errorf("GetProps() = %+v", r.GetProps())
	}
	want := []Flash{{FlashInfo, "one"}, {FlashError, "two"}}
	if diff := cmp.Diff(want, r.GetFlashes()); diff != "" {
		t.Errorf("GetFlashes() mismatch (-want +got):\n%s", diff)
	}
	if r.GetTrigger() != "filter:changed" || r.GetTriggerData() == nil {
		t.Errorf("trigger = %q %v", r.GetTrigger(), r.GetTriggerData())
	}
	if r.GetHeaders()["X-Test"] != "1" || r.GetStatus() != http.StatusAccepted {
		t.Errorf("headers = %v status = %d", r.GetHeaders(), r.GetStatus())
	}
	if r.ShouldSkip() || r.GetErr() != nil || r.GetRedirect() != "" {
		t.Errorf("unexpected state %+v", r)
	}
}

func TestResultIsValueTyped(t *testing.T) {
	base := OK(counterProps{})
	flashed := base.Flash(FlashInfo, "x")
	if len(base.GetFlashes()) != 0 || len(flashed.GetFlashes()) != 1 {
		t.Errorf("Flash mutated the receiver: base=%v flashed=%v", base.GetFlashes(), flashed.GetFlashes())
	}
}

func TestErrSkipRedirect(t *testing.T) {
	err := errors.New("nope")
	if got := Err(counterProps{}, err).GetErr(); !errors.Is(got, err) {
		t.Errorf("Err().GetErr() = %v", got)
	}
	if !Skip[counterProps]().ShouldSkip() {
		t.Error("Skip().ShouldSkip() = false")
	}
	if got := Redirect[counterProps]("/x").GetRedirect(); got != "/x" {
		t.Errorf("Redirect().GetRedirect() = %q", got)
	}
}

func TestBuildTriggerHeader(t *testing.T) {
	tests := []struct {
		name    string
		trigger string
		data    map[string]any
		want    string
	}{
		{"empty", "", nil, ""},
		{"name only", "grid:refresh", nil, "grid:refresh"},
		{"with data", "filter:changed", map[string]any{"selected": []string{"fire", "flying"}}, `{"filter:changed":{"selected":["fire","flying"]}}`},
		{"empty data", "filter:changed", map[string]any{}, `{"filter:changed":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildTriggerHeader(tt.trigger, tt.data); got != tt.want {
				t.Errorf("BuildTriggerHeader() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTriggerHeader(t *testing.T) {
	events, data := parseTriggerHeader(`{"b":{"x":1},"a":true}`)
	if diff := cmp.Diff([]string{"a", "b"}, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if data["b"]["x"] != float64(1) {
		t.Errorf("data = %v", data)
	}

	events, _ = parseTriggerHeader("one, two")
	if diff := cmp.Diff([]string{"one", "two"}, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderFlashesOOB(t *testing.T) {
	if got := RenderFlashesOOB(nil); got != "" {
		t.Errorf("RenderFlashesOOB(nil) = %q", got)
	}

	out := RenderFlashesOOB([]Flash{{FlashInfo, "Filters cleared"}, {FlashError, "<b>bad</b>"}})
	for _, want := range []string{
		`<div id="toasts" hx-swap-oob="beforeend">`,
		`<div class="toast toast-info" data-auto-dismiss="3000">Filters cleared</div>`,
		`&lt;b&gt;bad&lt;/b&gt;`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}

	got := parseFlashesFromHTML(out)
	want := []Flash{{FlashInfo, "Filters cleared"}, {FlashError, "<b>bad</b>"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("parseFlashesFromHTML() mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderAttrs(t *testing.T) {
	var sb strings.Builder
	err := RenderAttrs(&sb, map[string]any{
		"hx-get":   "/x?p=a&b",
		"checked":  true,
		"disabled": false,
		"data-n":   3,
	})
	if err != nil {
		t.Fatalf("RenderAttrs() error = %v", err)
	}
	want := ` checked data-n="3" hx-get="/x?p=a&amp;b"`
	if sb.String() != want {
		t.Errorf("RenderAttrs() = %q, want %q", sb.String(), want)
	}
}

func TestRequestHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if IsHTMX(r) || IsBoosted(r) {
		t.Error("plain request reported as htmx")
	}
	r.Header.Set("HX-Request", "true")
	r.Header.Set("HX-Boosted", "true")
	r.Header.Set("HX-Target", "grid")
	r.Header.Set("HX-Trigger", "btn")
	r.Header.Set("HX-Current-URL", "http://localhost/")
	if !IsHTMX(r) || !IsBoosted(r) {
		t.Error("htmx headers not detected")
	}
	if TargetID(r) != "grid" || TriggerID(r) != "btn" || CurrentURL(r) != "http://localhost/" {
		t.Errorf("helpers = %q %q %q", TargetID(r), TriggerID(r), CurrentURL(r))
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		err        error
		notFound   bool
		badRequest bool
	}{
		{ErrNotFound, true, false},
		{ErrSignatureInvalid, false, true},
		{ErrDecryptFailed, false, true},
		{ErrInvalidFormat, false, true},
		{fmt.Errorf("%w: unknown category", ErrBadRequest), false, true},
		{ErrHydrationFailed, false, false},
		{errors.New("other"), false, false},
	}
	for _, tt := range tests {
		if got := IsNotFound(tt.err); got != tt.notFound {
			t.Errorf("IsNotFound(%v) = %t", tt.err, got)
		}
		if got := IsBadRequest(tt.err); got != tt.badRequest {
			t.Errorf("IsBadRequest(%v) = %t", tt.err, got)
		}
	}
	if WrapDecodeError(nil) != nil {
		t.Error("WrapDecodeError(nil) != nil")
	}
}

func TestErrorComponent(t *testing.T) {
	var sb strings.Builder
	if err := ErrorComponent(errors.New("HTTP error 500")).Render(t.Context(), &sb); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(sb.String(), "Error: HTTP error 500") {
		t.Errorf("ErrorComponent = %q", sb.String())
	}
}
