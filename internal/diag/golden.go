package diag

import (
	"fmt"
	"sort"
	"strings"
)

// FormatGolden renders diagnostics into a stable, single-line-per-entry
// representation suitable for golden test fixtures, mirroring the teacher's
// internal/diag.FormatGoldenDiagnostics.
func FormatGolden(diags []*Diagnostic) string {
	if len(diags) == 0 {
		return ""
	}
	lines := make([]string, 0, len(diags))
	for _, d := range diags {
		lines = append(lines, fmt.Sprintf("%s[%04d] %d-%d: %s", d.Severity, d.Code, d.Primary.Start, d.Primary.End, d.Message))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
