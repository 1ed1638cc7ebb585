// Package ui renders CLI output: colored status lines and tabular
// job/run listings.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/muesli/termenv"

	"jobsearch-engine/internal/domain"
	"jobsearch-engine/internal/store"
)

type UI struct {
	Out          io.Writer
	Err          io.Writer
	Output       *termenv.Output
	ErrOutput    *termenv.Output
	ColorEnabled bool
}

func New(out, errw io.Writer, noColor bool) *UI {
	output := termenv.NewOutput(out)
	errOutput := termenv.NewOutput(errw)
	enabled := !noColor
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		enabled = false
	}
	if enabled && output.ColorProfile() == termenv.Ascii {
		enabled = false
	}
	return &UI{Out: out, Err: errw, Output: output, ErrOutput: errOutput, ColorEnabled: enabled}
}

func (u *UI) Errorf(format string, args ...any) {
	u.fprintln(u.Err, u.ErrOutput, "1", format, args...)
}

func (u *UI) Warnf(format string, args ...any) {
	u.fprintln(u.Err, u.ErrOutput, "3", format, args...)
}

func (u *UI) Infof(format string, args ...any) {
	u.fprintln(u.Out, u.Output, "4", format, args...)
}

func (u *UI) Successf(format string, args ...any) {
	u.fprintln(u.Out, u.Output, "2", format, args...)
}

func (u *UI) fprintln(w io.Writer, out *termenv.Output, color, format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	if u.ColorEnabled {
		msg = out.String(msg).Foreground(out.Color(color)).String()
	}
	fmt.Fprintln(w, msg)
}

// RunSummary prints one closed summary as a status line. Failed runs go
// red, partial yellow, clean green.
func (u *UI) RunSummary(s domain.RunSummary) {
	line := fmt.Sprintf("%-12s %-8s found=%d new=%d dupes=%d excluded=%d malformed=%d",
		s.Source, s.Status, s.Found, s.New, s.Dupes, s.Excluded, s.Malformed)
	if s.DryRun {
		line += " (dry run)"
	}
	switch s.Status {
	case domain.RunFailed:
		u.Errorf("%s", line)
	case domain.RunPartial:
		u.Warnf("%s", line)
	default:
		u.Successf("%s", line)
	}
	for _, e := range s.Errors {
		u.Errorf("  %s", e)
	}
}

// JobTable prints stored jobs in aligned columns.
func (u *UI) JobTable(jobs []store.JobRow) {
	tw := tabwriter.NewWriter(u.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSOURCE\tTITLE\tCOMPANY\tLOCATION\tURL")
	for _, j := range jobs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			j.ID, j.Source, clip(j.Title, 48), clip(j.Company, 28), clip(j.Location, 28), j.URL)
	}
	_ = tw.Flush()
}

// RunTable prints run history in aligned columns.
func (u *UI) RunTable(runs []store.RunRow) {
	tw := tabwriter.NewWriter(u.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSOURCE\tTRIGGER\tSTATUS\tFOUND\tNEW\tDUPES\tEXCLUDED\tSTARTED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.ID, r.Source, r.Trigger, r.Status, r.Found, r.New, r.Dupes, r.Excluded, r.StartedAt)
	}
	_ = tw.Flush()
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
