package datasets

import (
	"fmt"
	"strings"
)

// NotFoundError reports that no dataset survived filtering. The message
// names the most specific filter stage that eliminated everything.
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

func notFoundf(format string, args ...any) *NotFoundError {
	return &NotFoundError{msg: fmt.Sprintf(format, args...)}
}

// AmbiguousDatasetError reports that a name matched event datasets with
// more than one distinct common name.
type AmbiguousDatasetError struct {
	Name        string
	CommonNames []string
}

func (e *AmbiguousDatasetError) Error() string {
	return fmt.Sprintf("multiple event datasets matched for %q: %s",
		e.Name, strings.Join(e.CommonNames, ", "))
}
