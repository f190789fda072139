package hx

// SwapMode is an hx-swap strategy. The default is SwapOuter.
type SwapMode string

const (
	// SwapOuter replaces the whole target element.
	SwapOuter SwapMode = "outerHTML"

	// SwapInner replaces the target's children.
	SwapInner SwapMode = "innerHTML"

	// SwapBeforeEnd appends to the target's children.
	SwapBeforeEnd SwapMode = "beforeend"

	// SwapAfterBegin prepends to the target's children.
	SwapAfterBegin SwapMode = "afterbegin"

	// SwapNone discards the response body. Headers such as HX-Trigger
	// still apply.
	SwapNone SwapMode = "none"
)
