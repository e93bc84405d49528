package hybrid

import (
	herrors "github.com/vango-dev/hybrids/internal/errors"
)

// Sentinel errors for errors.Is. HybridErrors compare by code, so any
// error produced by this package with the same code matches.
var (
	// ErrInvalidMatch reports a parent property with an unusable match spec.
	ErrInvalidMatch error = herrors.New("E101")

	// ErrCircular reports a computed property that re-entered its own evaluation.
	ErrCircular error = herrors.New("E102")

	// ErrUnknownProperty reports a read or write of an undeclared property.
	ErrUnknownProperty error = herrors.New("E103")

	// ErrReadOnly reports a write to a parent link or a setter-less computed.
	ErrReadOnly error = herrors.New("E104")

	// ErrAlreadyDefined reports a second Define for the same tag.
	ErrAlreadyDefined error = herrors.New("E105")

	// ErrInvalidTag reports a tag name that is not a valid custom element name.
	ErrInvalidTag error = herrors.New("E106")

	// ErrInvalidDescriptor reports an inconsistent property descriptor.
	ErrInvalidDescriptor error = herrors.New("E107")

	// ErrGetter reports a computed getter that returned an error or panicked.
	ErrGetter error = herrors.New("E108")

	// ErrNilHost reports a property access through a nil *Host.
	ErrNilHost error = herrors.New("E109")

	// ErrUndefinedTag reports Create or Upgrade for a tag without definition.
	ErrUndefinedTag error = herrors.New("E110")
)

func errUndefinedTag(tag string) error {
	return herrors.New("E110").WithDetailf("<%s>", tag)
}
