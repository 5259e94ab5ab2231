package store

import (
	"fmt"
	"strings"
)

// NotFoundError reports a name lookup that matched nothing. Suggestions
// hold close catalog names when any exist.
type NotFoundError struct {
	Kind        string // "exercise" or "workout"
	Query       string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("no %s matching %q", e.Kind, e.Query)
	if len(e.Suggestions) > 0 {
		msg += "; did you mean: " + strings.Join(e.Suggestions, ", ")
	}
	return msg
}

// AmbiguousError reports a name lookup that matched more than one row.
type AmbiguousError struct {
	Kind    string
	Query   string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous %s %q: matches %s",
		e.Kind, e.Query, strings.Join(e.Matches, ", "))
}
