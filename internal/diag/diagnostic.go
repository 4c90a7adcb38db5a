package diag

import (
	"fmt"

	"github.com/dan-zheng/GPIR/internal/source"
)

// Note attaches supplementary context to a Diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single lexer/parser/verifier finding.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func (d *Diagnostic) String() string {
	return fmt.Sprintf("%s[%d]: %s (%s)", d.Severity, d.Code, d.Message, d.Primary)
}

// Error implements error so a Diagnostic can be returned directly.
func (d *Diagnostic) Error() string { return d.String() }
