package sim

// HookPos defines the enum of possible hooking positions
type HookPos struct {
	Name string
}

// HookPosBeforeEvent triggers before an event is dispatched. Item is the *Event.
var HookPosBeforeEvent = &HookPos{Name: "BeforeEvent"}

// HookPosAfterEvent triggers after an event has been dispatched. Item is the *Event.
var HookPosAfterEvent = &HookPos{Name: "AfterEvent"}

// HookPosStateChange triggers whenever an entity changes state. Item is the
// *Entity (already in its new state) and Detail is the previous EntityState.
var HookPosStateChange = &HookPos{Name: "StateChange"}

// HookCtx holds the information about the site where a hook is triggered.
type HookCtx struct {
	Sim    *Simulator
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hook is a short piece of program invoked by the simulator at fixed positions.
// Hooks observe; they must not schedule events or touch the resource.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) { f(ctx) }

// HookableBase stores hooks and invokes them in registration order.
type HookableBase struct {
	Hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// NumHooks returns the number of registered hooks.
func (h *HookableBase) NumHooks() int {
	return len(h.Hooks)
}

// InvokeHook triggers the registered hooks.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}
