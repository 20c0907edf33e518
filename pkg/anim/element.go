package anim

import "time"

// ElementGroup is the capability set the scheduler needs from a rendering
// surface. A group represents one or more independent items (for example
// every dealt card); Item narrows it to a single one.
type ElementGroup interface {
	// Len returns the number of items in the group.
	Len() int
	// Bind attaches one datum per item. len(data) must equal Len.
	Bind(data []any) error
	// Apply writes params[i] to item i instantly, without a transition.
	Apply(params []Params)
	// Transition starts an eased, timed transition of item i towards
	// params[i] and returns a signal that resolves when all items finish.
	Transition(params []Params, ease Ease, d time.Duration) *Signal
	// Item returns the single-item group at index i.
	Item(i int) ElementGroup
}
