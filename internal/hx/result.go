package hx

// Result is returned from action handlers to control rendering and side
// effects:
//
//	return hx.OK(props)
//	return hx.OK(props).Flash(hx.FlashInfo, "Filters cleared")
//	return hx.OK(props).Trigger("filter:changed", map[string]any{"selected": names})
//	return hx.Err(props, err)
type Result[P any] struct {
	props       P
	err         error
	redirect    string
	flashes     []Flash
	trigger     string
	triggerData map[string]any
	headers     map[string]string
	status      int
	skip        bool
}

// OK creates a success result that renders the component with props.
func OK[P any](props P) Result[P] {
	return Result[P]{props: props}
}

// Err creates an error result handled by the registry's error handler.
func Err[P any](props P, err error) Result[P] {
	return Result[P]{props: props, err: err}
}

// Skip creates a result for a handler that wrote its own response.
func Skip[P any]() Result[P] {
	return Result[P]{skip: true}
}

// Redirect creates a result that navigates the browser via HX-Redirect.
func Redirect[P any](url string) Result[P] {
	return Result[P]{redirect: url}
}

// Flash adds a toast to the response.
func (r Result[P]) Flash(level, message string) Result[P] {
	r.flashes = append(r.flashes, Flash{Level: level, Message: message})
	return r
}

// Trigger emits event through the HX-Trigger header. Data, if given,
// becomes the event detail.
func (r Result[P]) Trigger(event string, data ...map[string]any) Result[P] {
	r.trigger = event
	if len(data) > 0 {
		r.triggerData = data[0]
	}
	return r
}

// Header sets a response header.
func (r Result[P]) Header(key, value string) Result[P] {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
	return r
}

// Status sets the response status code.
func (r Result[P]) Status(code int) Result[P] {
	r.status = code
	return r
}

// GetProps returns the props from the result.
func (r Result[P]) GetProps() P {
	return r.props
}

// GetErr returns the error from the result.
func (r Result[P]) GetErr() error {
	return r.err
}

// GetRedirect returns the redirect URL.
func (r Result[P]) GetRedirect() string {
	return r.redirect
}

// GetFlashes returns the flash messages.
func (r Result[P]) GetFlashes() []Flash {
	return r.flashes
}

// GetTrigger returns the trigger event name.
func (r Result[P]) GetTrigger() string {
	return r.trigger
}

// GetTriggerData returns the trigger event data.
func (r Result[P]) GetTriggerData() map[string]any {
	return r.triggerData
}

// GetHeaders returns the response headers.
func (r Result[P]) GetHeaders() map[string]string {
	return r.headers
}

// GetStatus returns the status code, 0 meaning the default 200.
func (r Result[P]) GetStatus() int {
	return r.status
}

// ShouldSkip returns whether the handler wrote its own response.
func (r Result[P]) ShouldSkip() bool {
	return r.skip
}
