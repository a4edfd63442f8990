package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/followups-tracker/constants"
	"github.com/joseph-ayodele/followups-tracker/internal/app"
	"github.com/joseph-ayodele/followups-tracker/internal/export"
	"github.com/joseph-ayodele/followups-tracker/internal/ingest"
	"github.com/joseph-ayodele/followups-tracker/internal/pipeline"
	"github.com/joseph-ayodele/followups-tracker/internal/review"
)

type outputFlags struct {
	xlsx string
	pdf  string
	save bool
}

func (f *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.xlsx, "xlsx", "", "write the records to this XLSX file")
	cmd.Flags().StringVar(&f.pdf, "pdf", "", "write the records to this PDF file")
	cmd.Flags().BoolVar(&f.save, "save", false, "append the records to the history")
}

func newExtractCmd(root *rootOptions) *cobra.Command {
	var (
		text   string
		source string
		files  []string
		dir    string
		out    outputFlags
	)
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Classify report text, report files or a directory of reports",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if text == "" && len(files) == 0 && dir == "" {
				return errors.New("one of --text, --file or --dir is required")
			}
			ctx := cmd.Context()
			a, err := root.openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			var results []pipeline.Result
			if text != "" {
				src, ok := constants.ParseReportSource(source)
				if !ok {
					return fmt.Errorf("unknown --source %q", source)
				}
				res, err := a.Processor.ProcessText(ctx, text, src)
				if err != nil {
					return err
				}
				results = append(results, res)
			}
			if dir != "" {
				found, err := ingest.CollectFiles(dir, true)
				if err != nil {
					return err
				}
				files = append(files, found...)
			}
			if len(files) > 0 {
				res, err := a.Processor.ProcessFiles(ctx, files)
				if err != nil {
					return err
				}
				results = append(results, res...)
			}

			session := review.NewSession()
			for _, r := range results {
				printResult(cmd.OutOrStdout(), r)
				session.Add(r.Tasks...)
			}
			return writeOutputs(ctx, cmd.OutOrStdout(), a, session, out)
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "report text to classify")
	cmd.Flags().StringVar(&source, "source", string(constants.SourceManual), "origin of --text (manual, pdf, image, txt)")
	cmd.Flags().StringSliceVar(&files, "file", nil, "report file to classify (repeatable)")
	cmd.Flags().StringVar(&dir, "dir", "", "classify every supported report file under this directory")
	out.register(cmd)
	return cmd
}

func printResult(w io.Writer, r pipeline.Result) {
	label := r.Report.Path
	if label == "" {
		label = "Bericht " + r.Report.ID.String()[:8]
	}
	switch {
	case r.Err != nil:
		fmt.Fprintf(w, "%s: Fehler: %v\n", label, r.Err)
		return
	case r.NeedsManualEntry:
		fmt.Fprintf(w, "%s: Keine Standardarbeit erkannt, bitte manuell erfassen (followups manual)\n", label)
		return
	}
	if r.Method != "" {
		fmt.Fprintf(w, "%s (%s):\n", label, r.Method)
	} else {
		fmt.Fprintf(w, "%s:\n", label)
	}
	for _, t := range r.Tasks {
		fmt.Fprintf(w, "  %s\n", export.PrintLine(t))
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "  Hinweis: %s\n", warn)
	}
}

// writeOutputs exports the session rows and persists them as requested.
func writeOutputs(ctx context.Context, w io.Writer, a *app.App, session *review.Session, f outputFlags) error {
	if session.Len() == 0 {
		return nil
	}
	rows := session.Rows()
	if f.xlsx != "" {
		data, err := a.Exporter.XLSX(ctx, rows)
		if err != nil {
			return err
		}
		if err := os.WriteFile(f.xlsx, data, 0o644); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
		fmt.Fprintf(w, "XLSX gespeichert: %s\n", f.xlsx)
	}
	if f.pdf != "" {
		data, err := a.Exporter.PDF(ctx, rows)
		if err != nil {
			return err
		}
		if err := os.WriteFile(f.pdf, data, 0o644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		fmt.Fprintf(w, "PDF gespeichert: %s\n", f.pdf)
	}
	if f.save {
		all, err := a.Processor.Save(ctx, session.HistoryRecords())
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Historie aktualisiert: %d Einträge\n", len(all))
	}
	return nil
}
