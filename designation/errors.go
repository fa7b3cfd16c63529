package designation

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// DesignationNotFoundError is returned when a designation name is not part
// of the catalog.
type DesignationNotFoundError struct {
	Name string
}

func (e *DesignationNotFoundError) Error() string {
	return fmt.Sprintf("no designation found with name %q", e.Name)
}

// IsNotFound returns true if the cause of err is a DesignationNotFoundError.
func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*DesignationNotFoundError)
	return ok
}

// ValidationError lists all problems of an invalid catalog.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid catalog: " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) add(format string, args ...interface{}) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}
