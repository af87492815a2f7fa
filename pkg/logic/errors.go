package logic

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCyclicStructure is returned when the criteria subtree loops back on
// itself.
var ErrCyclicStructure = errors.New("cyclic criteria structure")

// CycleError records the path of logic node ids that closes a cycle. The
// last element repeats an earlier one.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCyclicStructure, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrCyclicStructure
}
