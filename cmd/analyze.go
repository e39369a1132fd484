package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"meta_debug_web/internal/domain/models"
	"meta_debug_web/internal/http"
	"meta_debug_web/internal/http/handlers"
	"meta_debug_web/internal/pkg/errors"
	"meta_debug_web/internal/pkg/worker_pool"
	"meta_debug_web/internal/report"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze URL...",
	Short: "Analyze one or more URLs",
	Long: `Runs one independent analysis per URL.

A single URL prints the HTML report unless --json is given. Several URLs
print one JSON object per line, in argument order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyzeCmd,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().Int("workers", 4, "maximum concurrent analyses")
	analyzeCmd.Flags().Bool("json", false, "print JSON lines even for a single URL")
	analyzeCmd.Flags().Bool("stop-on-error", false, "skip the remaining URLs after the first failure")
}

type analyzeOptions struct {
	workers     int
	jsonOutput  bool
	stopOnError bool
}

// analysisLine is one line of the JSON output.
type analysisLine struct {
	URL    string                 `json:"url"`
	Result *models.AnalysisResult `json:"result,omitempty"`
	Error  string                 `json:"error,omitempty"`
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	var opts analyzeOptions
	opts.workers, _ = cmd.Flags().GetInt("workers")
	opts.jsonOutput, _ = cmd.Flags().GetBool("json")
	opts.stopOnError, _ = cmd.Flags().GetBool("stop-on-error")

	return runAnalyze(cmd.Context(), cmd.OutOrStdout(), http.NewAnalyzer(appCfg, logger), args, opts)
}

func runAnalyze(ctx context.Context, out io.Writer, analyzer handlers.PageAnalyzer, urls []string, opts analyzeOptions) error {
	if len(urls) == 1 && !opts.jsonOutput {
		return analyzeToHTML(ctx, out, analyzer, strings.TrimSpace(urls[0]))
	}

	tasks := make([]worker_pool.Task[*models.AnalysisResult], 0, len(urls))
	for _, u := range urls {
		target := strings.TrimSpace(u)
		tasks = append(tasks, worker_pool.Task[*models.AnalysisResult]{
			ID: target,
			Fn: func(ctx context.Context) (*models.AnalysisResult, error) {
				return analyzer.Analyze(ctx, target)
			},
		})
	}

	pool := worker_pool.NewWorkerPool(opts.workers, opts.stopOnError, logger)
	results := worker_pool.Run(ctx, pool, tasks)

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	failed := 0
	for _, res := range results {
		line := analysisLine{URL: res.ID, Result: res.Result}
		if res.Err != nil {
			failed++
			line.Result = nil
			line.Error = res.Err.Error()
		}
		if err := enc.Encode(line); err != nil {
			return errors.Wrap(err, `failed to write result`)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d analyses failed", failed, len(results))
	}
	return nil
}

func analyzeToHTML(ctx context.Context, out io.Writer, analyzer handlers.PageAnalyzer, target string) error {
	renderer, err := report.NewRenderer()
	if err != nil {
		return err
	}

	result, err := analyzer.Analyze(ctx, target)
	if err != nil {
		var fetchErr *errors.FetchError
		if errors.As(err, &fetchErr) {
			if rerr := renderer.Error(out, target, fetchErr.Error()); rerr != nil {
				return rerr
			}
			return err
		}
		if derr := report.Diagnostic(out, err); derr != nil {
			return derr
		}
		return err
	}

	var buf bytes.Buffer
	if err := renderer.Report(&buf, target, result); err != nil {
		return err
	}
	_, err = buf.WriteTo(out)
	return err
}
