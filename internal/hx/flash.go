package hx

import (
	"context"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Flash levels for toast notifications.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// Flash is a one-time notification rendered as a toast.
type Flash struct {
	Level   string
	Message string
}

// RenderFlashesOOB renders flashes as an out-of-band swap that appends to
// the #toasts container.
func RenderFlashesOOB(flashes []Flash) string {
	if len(flashes) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div id="toasts" hx-swap-oob="beforeend">`)
	for _, f := range flashes {
		sb.WriteString(`<div class="toast toast-`)
		sb.WriteString(html.EscapeString(f.Level))
		sb.WriteString(`" data-auto-dismiss="3000">`)
		sb.WriteString(html.EscapeString(f.Message))
		sb.WriteString(`</div>`)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

// ToastContainer renders the element flashes are appended to. Place it
// once per page.
func ToastContainer() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, `<div id="toasts" class="toast-container" aria-live="polite"></div>`)
		return err
	})
}
