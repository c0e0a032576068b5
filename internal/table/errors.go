package table

import (
	"errors"
	"fmt"
)

var (
	// ErrNegativeIndex is reported when a negative row or column index is given.
	ErrNegativeIndex = errors.New("negative index")
	// ErrRulePosition is reported when a cell is written to a rule marker.
	ErrRulePosition = errors.New("position holds a horizontal rule")
)

// StructuralError describes a write that was ignored or clamped because it
// would have left the column bookkeeping inconsistent.
type StructuralError struct {
	Slot   Slot
	Column int
	Err    error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("table %s, column %d: %v", e.Slot, e.Column, e.Err)
}

func (e *StructuralError) Unwrap() error {
	return e.Err
}
