package wells

import (
	"fmt"
	"strings"
)

// NotFoundError reports a lookup for a well or series that does not
// exist, listing what is available so callers can report precisely.
type NotFoundError struct {
	Kind      string // "well" or "series"
	Name      string
	Scope     string // owning well for series lookups
	Available []string
}

func (e *NotFoundError) Error() string {
	available := "none"
	if len(e.Available) > 0 {
		available = strings.Join(e.Available, ", ")
	}
	if e.Scope != "" {
		return fmt.Sprintf("%s %q not found in well %q (available: %s)",
			e.Kind, e.Name, e.Scope, available)
	}
	return fmt.Sprintf("%s %q not found (available: %s)", e.Kind, e.Name, available)
}
