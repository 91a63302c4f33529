package cutsheet

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingColumns = errors.New("missing required columns")
	ErrEmptyInput     = errors.New("no valid order numbers in input")
	ErrInvalidOption  = errors.New("invalid option")
)

// MissingColumnError aborts a run when a grouping column is absent.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingColumns, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnError) Unwrap() error { return ErrMissingColumns }

// EmptyInputError is returned when an order range was required but no row
// carried a usable order number.
type EmptyInputError struct {
	Rows int
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%v (%d rows read)", ErrEmptyInput, e.Rows)
}

func (e *EmptyInputError) Unwrap() error { return ErrEmptyInput }

// IssueKind classifies recoverable problems found during a run.
type IssueKind string

const (
	IssueInvalidNumeric IssueKind = "invalid_numeric"
	IssueUnknownBrand   IssueKind = "unknown_brand"
	IssueEmptyCategory  IssueKind = "empty_category"
	IssueMissingColumn  IssueKind = "missing_column"
	IssueParseWarning   IssueKind = "parse_warning"
)

// Issue is a recovered row- or column-level problem. The run continued
// after dropping the row or nulling the field.
type Issue struct {
	Kind    IssueKind `json:"kind"`
	Line    int       `json:"line,omitempty"`
	Column  string    `json:"column,omitempty"`
	Value   string    `json:"value,omitempty"`
	Message string    `json:"message"`
}

// CountIssues tallies issues by kind.
func CountIssues(issues []Issue) map[IssueKind]int {
	counts := make(map[IssueKind]int)
	for _, is := range issues {
		counts[is.Kind]++
	}
	return counts
}
