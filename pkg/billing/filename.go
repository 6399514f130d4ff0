// pkg/billing/filename.go

package billing

import (
	"fmt"
	"regexp"
	"time"
)

var (
	unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)
	dashRuns    = regexp.MustCompile(`-+`)
)

// SafeName replaces characters outside [A-Za-z0-9-_.] with '-' and
// collapses repeated dashes.
func SafeName(s string) string {
	return dashRuns.ReplaceAllString(unsafeChars.ReplaceAllString(s, "-"), "-")
}

// Filename names the bill file for an invoice rendered at t.
func Filename(invoiceID string, t time.Time) string {
	return fmt.Sprintf("Bill_%s_%d.pdf", SafeName(invoiceID), t.UnixMilli())
}
