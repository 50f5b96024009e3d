package spatial

import "errors"

// Sentinel errors returned by strict mutators. Callers branch with
// errors.Is; mutators wrap these with position and item context.
var (
	// ErrDuplicateItem reports an Add of an item the map already holds.
	ErrDuplicateItem = errors.New("item already present")

	// ErrPositionOccupied reports an Add or Move onto a single-occupancy
	// position that already holds a different item.
	ErrPositionOccupied = errors.New("position occupied")

	// ErrItemNotFound reports a Move or Remove of an item the map does
	// not hold.
	ErrItemNotFound = errors.New("item not found")

	// ErrNoOpMove reports a move whose source and target are the same
	// position where the variant forbids it.
	ErrNoOpMove = errors.New("move to current position")

	// ErrNothingToMove reports a MoveAll from an empty position.
	ErrNothingToMove = errors.New("nothing to move")

	// ErrLayerOutOfRange reports an operation routed to a layer the
	// layered map does not manage.
	ErrLayerOutOfRange = errors.New("layer out of range")
)
