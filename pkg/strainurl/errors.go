package strainurl

import (
	"fmt"
	"strings"
)

// FormatError reports a file name that does not follow the archive
// naming grammar.
type FormatError struct {
	Name string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("file name %q does not match the archive naming convention", e.Name)
}

// UnknownCriterionError reports a sieve criterion that does not name a
// file record attribute.
type UnknownCriterionError struct {
	Key string
}

func (e *UnknownCriterionError) Error() string {
	return fmt.Sprintf("unrecognised match parameter: %q", e.Key)
}

// AmbiguousTagError reports that matched URLs carry more than one
// distinct tag and the caller did not pin one. Tags label different
// data products of the same interval and must never be mixed silently.
type AmbiguousTagError struct {
	Tags []string
}

func (e *AmbiguousTagError) Error() string {
	quoted := make([]string, len(e.Tags))
	for i, tag := range e.Tags {
		quoted[i] = fmt.Sprintf("%q", tag)
	}
	return fmt.Sprintf("multiple URL tags discovered in dataset, please select one of: %s",
		strings.Join(quoted, ", "))
}
