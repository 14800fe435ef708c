package analysis

import (
	"errors"
	"fmt"

	"github.com/vk/buildgrid/internal/action"
	"github.com/vk/buildgrid/internal/label"
)

// ErrActionsUnavailable is returned by Value.Actions when the value was
// reconstructed from a snapshot and no longer carries its action payload.
// Hitting it means the caller should have analyzed fresh instead of loading
// a snapshot; it is a contract violation, not a recoverable condition.
var ErrActionsUnavailable = errors.New("actions are not available on a restored analysis value")

// Value is the immutable analysis result of one build target. It owns the
// ordered sequence of action descriptors that produce the target's outputs.
//
// The action sequence is either present (fixed at construction, possibly
// empty) or absent (the value went through a snapshot round-trip). Absence
// is distinct from emptiness: a filegroup-like target legitimately has zero
// actions, while a restored value has none at all.
type Value struct {
	label   label.Label
	actions []action.Descriptor
	// present is fixed at construction time and never mutated afterwards,
	// which is what makes a Value safe for concurrent reads.
	present bool
}

// New constructs a value owning the given action sequence. The slice is
// copied so later mutation by the caller cannot reach the value. A nil
// slice yields a present-but-empty sequence, not an absent one.
func New(l label.Label, actions []action.Descriptor) *Value {
	owned := make([]action.Descriptor, len(actions))
	copy(owned, actions)
	return &Value{label: l, actions: owned, present: true}
}

// Restored constructs the absent variant, used when reconstructing a value
// from a snapshot that stripped the action payload.
func Restored(l label.Label) *Value {
	return &Value{label: l, present: false}
}

// Label returns the label of the target this value was analyzed from.
func (v *Value) Label() label.Label {
	return v.label
}

// Actions returns the owned action sequence. The returned slice is
// read-only; callers must not modify it. It fails with
// ErrActionsUnavailable if this value was restored from a snapshot.
func (v *Value) Actions() ([]action.Descriptor, error) {
	if !v.present {
		return nil, fmt.Errorf("%s: %w", v.label, ErrActionsUnavailable)
	}
	return v.actions, nil
}

// NumActions returns the length of the action sequence, or 0 if the
// sequence is absent. It never fails, which makes it the one accessor safe
// to call on restored values, e.g. for statistics and store bookkeeping.
func (v *Value) NumActions() int {
	if !v.present {
		return 0
	}
	return len(v.actions)
}

// String renders a diagnostic representation including the absence marker.
// It is for debugging only; nothing may depend on its exact format.
func (v *Value) String() string {
	if !v.present {
		return fmt.Sprintf("Value{label: %s, actions: <absent>}", v.label)
	}
	return fmt.Sprintf("Value{label: %s, actions: %v}", v.label, v.actions)
}
