// internal/app/errors.go
package app

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrStateError        = errors.New("not allowed in the current state")
	ErrPlacementRejected = errors.New("placement rejected")
	// ErrPathUnreachable is raised by the placement simulation only.
	ErrPathUnreachable = errors.New("path unreachable")
)

// PlacementReason says why a placement was refused.
type PlacementReason string

const (
	InsufficientFunds PlacementReason = "InsufficientFunds"
	InvalidLocation   PlacementReason = "InvalidLocation"
	LimitReached      PlacementReason = "LimitReached"
	PathBlocked       PlacementReason = "PathBlocked"
)

// PlacementError is returned by PlaceTower. It matches ErrPlacementRejected,
// and ErrInvalidArgument too when the footprint leaves the grid.
type PlacementError struct {
	Reason  PlacementReason
	TowerID string
	X, Y    int

	outOfBounds bool
	err         error
}

func (e *PlacementError) Error() string {
	msg := fmt.Sprintf("place %s at (%d,%d): %s", e.TowerID, e.X, e.Y, e.Reason)
	if e.err != nil {
		msg += ": " + e.err.Error()
	}
	return msg
}

func (e *PlacementError) Is(target error) bool {
	return target == ErrPlacementRejected || (e.outOfBounds && target == ErrInvalidArgument)
}

func (e *PlacementError) Unwrap() error { return e.err }

// SellReason says why a sale was refused.
type SellReason string

const (
	NotAllowedDuringWave SellReason = "NotAllowedDuringWave"
	NoTowerThere         SellReason = "NoTowerThere"
)

// SellError is returned by SellTowerAt.
type SellError struct {
	Reason SellReason
	X, Y   int
}

func (e *SellError) Error() string {
	return fmt.Sprintf("sell at (%d,%d): %s", e.X, e.Y, e.Reason)
}

func (e *SellError) Is(target error) bool {
	switch e.Reason {
	case NotAllowedDuringWave:
		return target == ErrStateError
	case NoTowerThere:
		return target == ErrInvalidArgument
	}
	return false
}
