package hx

import (
	"context"
	"errors"
	"io"

	"github.com/a-h/templ"
	"github.com/pthm/pokedex/internal/hx/encoding"
)

// Sentinel errors for component requests.
var (
	ErrNotFound         = errors.New("hx: resource not found")
	ErrDecryptFailed    = errors.New("hx: parameter decryption failed")
	ErrSignatureInvalid = errors.New("hx: signature verification failed")
	ErrInvalidFormat    = errors.New("hx: invalid parameter format")
	ErrHydrationFailed  = errors.New("hx: hydration failed")
	ErrNotBound         = errors.New("hx: component has no lifecycle bound")
	ErrBadRequest       = errors.New("hx: bad request")
)

// IsNotFound checks if err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDecryptionError checks if err is a decryption or signature error.
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryptFailed) || errors.Is(err, ErrSignatureInvalid)
}

// IsBadRequest reports whether err was caused by the request parameters.
func IsBadRequest(err error) bool {
	return IsDecryptionError(err) || errors.Is(err, ErrInvalidFormat) || errors.Is(err, ErrBadRequest)
}

// WrapDecodeError maps encoding errors onto the hx sentinels.
func WrapDecodeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, encoding.ErrInvalidFormat):
		return ErrInvalidFormat
	case errors.Is(err, encoding.ErrSignatureInvalid):
		return ErrSignatureInvalid
	case errors.Is(err, encoding.ErrDecryptFailed):
		return ErrDecryptFailed
	default:
		return err
	}
}

// ErrorComponent renders an inline error fragment.
func ErrorComponent(err error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		msg := "unknown error"
		if err != nil {
			msg = err.Error()
		}
		_, werr := io.WriteString(w, `<div class="hx-error" role="alert">Error: `+templ.EscapeString(msg)+`</div>`)
		return werr
	})
}
