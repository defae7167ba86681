package ramp

// HookPos defines the enum of possible hooking positions.
type HookPos struct {
	Name string
}

// HookPosViewChange is triggered after a controller's view state changes.
var HookPosViewChange = &HookPos{Name: "ViewChange"}

// HookCtx holds the information about the site where a hook is triggered.
type HookCtx struct {
	Domain interface{}
	Pos    *HookPos
	Item   interface{}
}

// A Hook is a short piece of program that a hookable object invokes.
// Observers such as the monitor and the data recorder attach hooks; the
// controller itself has no dependency on what they do.
type Hook interface {
	Func(ctx HookCtx)
}

// Hookable defines an object that accepts hooks.
type Hookable interface {
	AcceptHook(hook Hook)
}

// A HookableBase provides hook registration and invocation for types that
// implement Hookable.
type HookableBase struct {
	Hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// InvokeHook triggers the registered hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}

// ViewTransition is the Item carried by HookPosViewChange.
type ViewTransition struct {
	Cavity string
	From   ViewState
	To     ViewState
}
