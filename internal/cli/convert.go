package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/chazz/internal/presentation/tui"
	"github.com/aretw0/chazz/pkg/convert"
)

// ErrDocumentsFailed is returned by RunConvert when failures should fail the command.
var ErrDocumentsFailed = errors.New("one or more documents failed")

// RunConvert performs one batch conversion and prints a summary to out.
// Per-document failures only produce an error when failOnError is set.
func RunConvert(ctx context.Context, p *Pipeline, out io.Writer, failOnError bool) (*convert.Report, error) {
	report, err := p.Converter.Run(ctx)
	if report != nil {
		PrintReport(out, report)
	}
	if err != nil {
		return report, err
	}

	if failOnError && len(report.Failures) > 0 {
		return report, fmt.Errorf("%w: %d of %d", ErrDocumentsFailed, len(report.Failures), report.Total())
	}
	return report, nil
}

// PrintReport writes a human summary of report.
func PrintReport(out io.Writer, report *convert.Report) {
	tui.PrintSystemMessage(out, "Converted %d documents (%d written, %d skipped, %d failed) in %s.",
		report.Total(), len(report.Written), len(report.Skipped), len(report.Failures),
		report.Duration.Round(time.Millisecond))
	for _, f := range report.Failures {
		fmt.Fprintf(out, "    ! %s\n", f.Error())
	}
}
