package hxecho

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/pthm/pokedex/internal/hx"
)

type pingProps struct {
	Name string
}

func (p pingProps) HXEncode() map[string]any { return map[string]any{"n": p.Name} }

func (p *pingProps) HXDecode(m map[string]any) error {
	p.Name, _ = m["n"].(string)
	return nil
}

type ping struct {
	*hx.Component[pingProps]
}

func newPing() *ping {
	c := &ping{Component: hx.New[pingProps]("ping")}
	c.Bind(c)
	c.Action("pong", func(ctx context.Context, props pingProps, r *http.Request) hx.Result[pingProps] {
		props.Name = "pong"
		return hx.OK(props)
	})
	return c
}

func (c *ping) Hydrate(context.Context, *pingProps) error { return nil }

func (c *ping) Render(_ context.Context, props pingProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>"+templ.EscapeString(props.Name)+"</p>")
		return err
	})
}

func TestMountServesComponents(t *testing.T) {
	e := echo.New()
	reg := Mount(e, WithKey([]byte("test-key")))
	c := newPing()
	reg.Add(c)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, c.Refresh(pingProps{Name: "hello"}).URL, nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "<p>hello</p>" {
		t.Errorf("GET = %d %q", rec.Code, rec.Body.String())
	}
}

func TestMountGroup(t *testing.T) {
	e := echo.New()
	var hits int
	g := e.Group("", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			hits++
			return next(c)
		}
	})
	reg := MountGroup(g)
	c := newPing()
	reg.Add(c)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, c.Refresh(pingProps{Name: "x"}).URL, nil))
	if rec.Code != http.StatusOK {
		t.Errorf("GET = %d", rec.Code)
	}
	if hits != 1 {
		t.Errorf("group middleware ran %d times, want 1", hits)
	}
}

func TestCSRFProtection(t *testing.T) {
	e := echo.New()
	reg := Mount(e)
	c := newPing()
	reg.Add(c)

	action := c.Call("pong", pingProps{})
	req := httptest.NewRequest(http.MethodPost, action.URL, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("POST without HX-Request = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, action.URL, nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "pong") {
		t.Errorf("POST with HX-Request = %d %q", rec.Code, rec.Body.String())
	}
}

func TestGETAllowedWithoutHeader(t *testing.T) {
	e := echo.New()
	Mount(e)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/_c/unknown", nil))
	if rec.Code == http.StatusForbidden {
		t.Error("GET required HX-Request")
	}
}

func TestRender(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	if err := Render(ctx, templ.Raw("<b>hi</b>")); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := rec.Header().Get(echo.HeaderContentType); got != echo.MIMETextHTMLCharsetUTF8 {
		t.Errorf("Content-Type = %q", got)
	}
	if rec.Body.String() != "<b>hi</b>" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
