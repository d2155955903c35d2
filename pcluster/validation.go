package pcluster

import (
	"fmt"
	"pcluster/pcui/wizard"
)

// ValidationError reports invalid input for a single field.
type ValidationError struct {
	Field string
	Kind  wizard.ErrorKind
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Kind)
}
