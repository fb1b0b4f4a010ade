package lmyield

import (
	"errors"
	"fmt"
)

var (
	// ErrStructure reports a template whose blocks are missing or misordered.
	ErrStructure = errors.New("lmyield: invalid template structure")

	// ErrEmptyYield reports a yield block without any gen marker.
	ErrEmptyYield = errors.New("lmyield: yield block has no gen instruction")

	// ErrDuplicateVariable reports two gen markers sharing a variable name.
	ErrDuplicateVariable = errors.New("lmyield: duplicate yield variable")

	// ErrGenerationExhausted reports a session that ran out of attempts.
	ErrGenerationExhausted = errors.New("lmyield: generation exhausted")
)

// StructureError describes why a template failed to compile.
type StructureError struct {
	Reason string
}

func (e *StructureError) Error() string {
	return "lmyield: " + e.Reason
}

func (e *StructureError) Is(target error) bool {
	return target == ErrStructure
}

type DuplicateVariableError struct {
	Name string
}

func (e *DuplicateVariableError) Error() string {
	return fmt.Sprintf("lmyield: each yield must have a different name: %q", e.Name)
}

func (e *DuplicateVariableError) Is(target error) bool {
	return target == ErrDuplicateVariable
}

// GenerationExhaustedError is returned when every attempt of a session ended
// without confirming all values. Last is the reason the final attempt was
// abandoned.
type GenerationExhaustedError struct {
	Attempts int
	Last     error
}

func (e *GenerationExhaustedError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("lmyield: generation exhausted after %d attempts", e.Attempts)
	}
	return fmt.Sprintf("lmyield: generation exhausted after %d attempts: %v", e.Attempts, e.Last)
}

func (e *GenerationExhaustedError) Is(target error) bool {
	return target == ErrGenerationExhausted
}

func (e *GenerationExhaustedError) Unwrap() error {
	return e.Last
}
