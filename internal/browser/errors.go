// File: internal/browser/errors.go
package browser

import (
	"fmt"
	"strings"
	"time"
)

// NotFoundError reports an element that never became visible within its wait
// window. It carries the element's logical name so a failing step reads as a
// contract violation, not a raw selector dump.
type NotFoundError struct {
	Name      string
	Selectors []string
	Timeout   time.Duration
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("element %q not visible after %s (tried selectors: %s)",
		e.Name, e.Timeout, strings.Join(e.Selectors, ", "))
}
