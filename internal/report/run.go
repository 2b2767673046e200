// Package report runs a scan without the TUI and prints or saves the outcome.
package report

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lumipallolabs/dupedive/internal/core"
	"github.com/lumipallolabs/dupedive/internal/remover"
	"github.com/schollz/progressbar/v3"
)

// Options controls report mode
type Options struct {
	Out          io.Writer // summary, defaults to stdout
	Progress     io.Writer // progress bars, defaults to stderr
	ShowProgress bool
	JSONPath     string // also write a JSON report here, "-" for Out
	DeleteAll    bool   // delete all but one copy per group afterwards
	Keep         remover.Policy
}

// Run scans with c, prints the summary and applies the requested actions
func Run(ctx context.Context, c *core.Controller, opts Options) (*core.ScanResult, error) {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Progress == nil {
		opts.Progress = os.Stderr
	}
	// With the report on Out, text moves to Progress so Out holds only JSON
	jsonOut := opts.Out
	if opts.JSONPath == "-" {
		opts.Out = opts.Progress
	}

	fmt.Fprintf(opts.Out, "Scanning %s...\n", c.Root())

	events, err := c.StartScan(ctx)
	if err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	var result *core.ScanResult
	var scanErr error
	for ev := range events {
		switch e := ev.(type) {
		case core.ScanStartedEvent:
			bar = newBar(opts, -1, "Scanning files")
		case core.ScanPhaseChangedEvent:
			if bar != nil {
				_ = bar.Finish()
			}
			if e.Phase == core.PhaseHashing {
				st := c.ScanState()
				fmt.Fprintf(opts.Progress, "\n")
				fmt.Fprintf(opts.Out, "Found %d files, analyzing for duplicates...\n", st.FilesScanned)
				total := st.Candidates
				if total == 0 {
					total = -1
				}
				bar = newBar(opts, total, "Hashing candidates")
			} else {
				bar = nil
			}
		case core.ScanProgressEvent:
			if bar == nil {
				continue
			}
			if e.Phase == core.PhaseHashing {
				_ = bar.Set64(e.Hashed)
			} else {
				_ = bar.Set64(e.FilesScanned)
			}
		case core.ScanCompletedEvent:
			result, scanErr = e.Result, e.Err
		}
	}
	c.FinalizeScan()
	if bar != nil {
		_ = bar.Finish()
	}
	if scanErr != nil {
		return nil, scanErr
	}

	PrintSummary(opts.Out, result)

	if opts.JSONPath != "" {
		if err := WriteJSON(opts.JSONPath, jsonOut, Build(result, time.Now())); err != nil {
			return result, err
		}
	}

	if opts.DeleteAll && len(result.Groups) > 0 {
		fmt.Fprintf(opts.Out, "\nDeleting duplicates, %s\n\n", opts.Keep.Describe())
		report, err := c.DeleteAllDuplicates(result.Groups, opts.Keep)
		PrintDeletions(opts.Out, report)
		if err != nil {
			return result, err
		}
	}

	return result, nil
}

// newBar mirrors the scanner progress style: a spinner when the total is unknown
func newBar(opts Options, max int64, desc string) *progressbar.ProgressBar {
	options := []progressbar.Option{
		progressbar.OptionSetWriter(opts.Progress),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowCount(),
		progressbar.OptionSetVisibility(opts.ShowProgress),
		progressbar.OptionFullWidth(),
	}
	if max < 0 {
		options = append(options, progressbar.OptionSpinnerType(14))
	} else {
		options = append(options, progressbar.OptionSetPredictTime(true))
	}
	return progressbar.NewOptions64(max, options...)
}
