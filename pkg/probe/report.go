package probe

import (
	"fmt"
	"io"
	"strings"

	"mercator-hq/egressprobe/pkg/telemetry/logging"
)

const ruleWidth = 60

// Reporter writes the human-readable diagnostic report. Every line passes
// through the redactor so configured tokens never reach the console.
type Reporter struct {
	w        io.Writer
	redactor *logging.Redactor
}

// NewReporter creates a Reporter writing to w. A nil redactor disables
// masking.
func NewReporter(w io.Writer, redactor *logging.Redactor) *Reporter {
	return &Reporter{w: w, redactor: redactor}
}

// Printf writes one formatted line.
func (p *Reporter) Printf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	fmt.Fprintln(p.w, p.redactor.RedactString(line))
}

// Banner writes a title framed by separator rules.
func (p *Reporter) Banner(title string) {
	rule := strings.Repeat("=", ruleWidth)
	p.Printf("")
	p.Printf("%s", rule)
	p.Printf("%s", title)
	p.Printf("%s", rule)
}

// Section writes a bracketed section header such as "[ENV CHECK]".
func (p *Reporter) Section(title string) {
	p.Printf("")
	p.Printf("[%s]", title)
}

// Step writes the header of a probe step.
func (p *Reporter) Step(n int, label string) {
	p.Printf("")
	p.Printf("[STEP %d] %s...", n, label)
}

// Skipped writes the line for a service that is not fully configured.
func (p *Reporter) Skipped(service string) {
	p.Printf("")
	p.Printf("⚠ Skipping %s test - missing URL or token", service)
}

// Result writes the outcome of a step.
func (p *Reporter) Result(res Result) {
	if res.OK() {
		p.Printf("  ✓ %s", res.Summary)
	} else {
		p.Printf("  ✗ %s", failureLine(res))
	}
	for _, d := range res.Details {
		p.Printf("    %s", d)
	}
	if res.Hint != "" {
		p.Printf("    Hint: %s", res.Hint)
	}
}

func failureLine(res Result) string {
	msg := "unknown error"
	if res.Err != nil {
		msg = truncate(res.Err.Error(), res.limit())
	}

	switch res.Kind {
	case KindTimeout:
		return fmt.Sprintf("TIMEOUT after %s: %s", res.Timeout, msg)
	case KindConnection:
		return fmt.Sprintf("CONNECTION ERROR: %s: %s", errorType(res.Err), msg)
	case KindTLS:
		return fmt.Sprintf("SSL ERROR: %s", msg)
	default:
		if res.Err == nil {
			return fmt.Sprintf("ERROR: %s", res.Summary)
		}
		return fmt.Sprintf("ERROR: %s: %s", errorType(res.Err), msg)
	}
}
