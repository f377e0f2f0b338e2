package manager

import "github.com/dshills/shortcuts/internal/input/key"

// WindowID identifies a top-level window owning actions.
type WindowID uint64

// NoWindow is the zero WindowID.
const NoWindow WindowID = 0

// Action is a live, user-triggerable command whose key sequence the
// manager controls. Implementations must be comparable (pointer types
// are) since actions are tracked by identity.
type Action interface {
	KeySequence() key.Sequence
	SetKeySequence(key.Sequence)

	Enabled() bool
	SetEnabled(bool)

	// Text, ToolTip and IconPath are used when no asset file describes
	// the action.
	Text() string
	ToolTip() string
	IconPath() string

	// Window returns the top-level window the action belongs to.
	Window() WindowID

	// OnDestroy registers fn to be called when the action goes away.
	OnDestroy(fn func())
}
