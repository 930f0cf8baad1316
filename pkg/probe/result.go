package probe

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Preview lengths for response bodies and error messages.
const (
	previewLimit      = 200
	shortPreviewLimit = 150
)

// Result is the outcome of one probe step. It is printed as soon as the step
// completes and then discarded.
type Result struct {
	// Step is the 1-based position in the probe sequence.
	Step int
	// Name labels the step in the report.
	Name string
	// Kind is the classified outcome, already folded to the kinds this step
	// reports distinctly.
	Kind Kind
	// Summary is the text of the success line.
	Summary string
	// Details are printed indented below the result line.
	Details []string
	// Hint is printed after a failure to suggest a likely cause.
	Hint string
	// Err is the underlying error for failed steps.
	Err error
	// Status is the HTTP status code for HTTP steps that got a response.
	Status int
	// Elapsed is how long the step took.
	Elapsed time.Duration
	// Timeout is the deadline the step ran under.
	Timeout time.Duration
	// Limit caps the length of error text; zero means the default.
	Limit int
}

// OK reports whether the step succeeded.
func (r Result) OK() bool {
	return r.Kind == KindSuccess
}

func (r Result) limit() int {
	if r.Limit > 0 {
		return r.Limit
	}
	return previewLimit
}

// truncate returns at most n runes of s with runs of whitespace collapsed,
// so a multi-line body stays on one console line.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// errorType names the most specific typed error in err's chain, skipping
// the anonymous wrappers produced by errors.New and fmt.Errorf.
func errorType(err error) string {
	name := strings.TrimPrefix(fmt.Sprintf("%T", err), "*")
	for e := err; e != nil; e = errors.Unwrap(e) {
		t := strings.TrimPrefix(fmt.Sprintf("%T", e), "*")
		switch t {
		case "errors.errorString", "fmt.wrapError", "fmt.wrapErrors":
			continue
		}
		name = t
	}
	return name
}
