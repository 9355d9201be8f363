package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/revulabs/revu-cli/internal/advisor"
	"github.com/revulabs/revu-cli/internal/analyzer"
	"github.com/revulabs/revu-cli/internal/review"
	"github.com/revulabs/revu-cli/internal/sandbox"
	sharederrors "github.com/revulabs/revu-cli/internal/shared/errors"
	"github.com/revulabs/revu-cli/internal/store"
)

var reviewFormats = []string{"table", "json", "csv"}

var reviewCmd = &cobra.Command{
	Use:   "review [file]",
	Short: "Analyze a Python snippet with the full tool chain and print a merged report",
	Long: `Run the configured analyzers against a source file (or stdin) and
merge their findings into one report.

The pipeline runs:
- syntax and AST validation
- ruff (lint)
- mypy (static typing, strict)
- bandit (security)
- black and isort (formatting)
- pydocstyle (docstring conventions)

Tools that are not installed are reported as unavailable and the rest of
the report is produced anyway. Pass --smoke to also execute the snippet
in an isolated interpreter, and --advise to append hosted-model
suggestions.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReview,
}

func runReview(cmd *cobra.Command, args []string) error {
	appCtx := getAppContext(cmd)
	runtimeCfg := cliConfig.Review

	if !isSupportedFormat(runtimeCfg.Format) {
		return &UnsupportedFormatError{Format: runtimeCfg.Format, Supported: reviewFormats}
	}

	code, filename, err := readReviewInput(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			fmt.Fprintf(os.Stderr, "\n%s Received %s, cancelling review...\n", colorWarn("!"), sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	svc, err := newReviewService(appCtx, runtimeCfg)
	if err != nil {
		return err
	}
	if runtimeCfg.Advise && svc.Advisor == nil {
		fmt.Fprintf(os.Stderr, "%s advisor disabled: no API key configured (set OPENAI_API_KEY)\n", colorWarn("Warning:"))
	}

	var progress *progressPrinter
	var observe analyzer.ObserveFunc
	if runtimeCfg.ProgressEnabled && runtimeCfg.Format == "table" {
		total := len(svc.Registry.Analyzers())
		if runtimeCfg.Smoke {
			total++
		}
		progress = newProgressPrinter(total, "review")
		progress.Start()
		observe = func(name string, result analyzer.Result, duration float64) error {
			progress.Observe(result, duration)
			return nil
		}
	}

	startAll := time.Now()
	rev, err := svc.Review(ctx, review.Request{
		Code:             code,
		Filename:         filename,
		Language:         runtimeCfg.Language,
		Reviewer:         appCtx.Reviewer,
		Smoke:            runtimeCfg.Smoke,
		WarningsAsErrors: runtimeCfg.WarningsAsErrors,
		Advise:           runtimeCfg.Advise,
		Observe:          observe,
	})
	if progress != nil {
		progress.Stop()
	}
	if err != nil {
		return describeReviewError(err)
	}

	if runtimeCfg.Save {
		st, err := store.New(appCtx.DataDir)
		if err != nil {
			return fmt.Errorf("open review store: %w", err)
		}
		if err := st.Save(ctx, rev); err != nil {
			return fmt.Errorf("save review: %w", err)
		}
		fmt.Printf("%s %s\n", colorInfo("Saved:"), filepath.Join(appCtx.DataDir, rev.ID))
	}

	if err := printReview(rev, runtimeCfg.Format); err != nil {
		return err
	}

	if runtimeCfg.TelemetryEnabled {
		if err := recordTelemetry(appCtx, rev, time.Since(startAll)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to record telemetry: %v\n", err)
		}
	}

	return nil
}

// newReviewService assembles the pipeline from runtime configuration. It is
// shared by the review command and the HTTP server.
func newReviewService(appCtx *AppContext, runtimeCfg ReviewRuntimeConfig) (*review.Service, error) {
	registry := analyzer.NewRegistry(runtimeCfg.Python)
	runner := &analyzer.Runner{
		Concurrency: runtimeCfg.Concurrency,
		RateLimit:   runtimeCfg.RateLimit,
		Timeout:     time.Duration(runtimeCfg.TimeoutSecs) * time.Second,
	}
	sb := newSandboxRunner(runtimeCfg)

	var adv *advisor.Advisor
	key := advisorAPIKey()
	if key != "" {
		a, err := advisor.New(advisorClientConfig(key, runtimeCfg))
		if err != nil && !errors.Is(err, sharederrors.ErrAdvisorDisabled) {
			return nil, fmt.Errorf("configure advisor: %w", err)
		}
		adv = a
	}

	return &review.Service{
		Registry: registry,
		Runner:   runner,
		Sandbox:  sb,
		Advisor:  adv,
		Logger:   appCtx.Logger,
	}, nil
}

// advisorClientConfig maps the advisor runtime settings onto the client config.
func advisorClientConfig(key string, runtimeCfg ReviewRuntimeConfig) advisor.Config {
	return advisor.Config{
		APIKey:      key,
		Model:       runtimeCfg.Advisor.Model,
		BaseURL:     runtimeCfg.Advisor.BaseURL,
		Temperature: runtimeCfg.Advisor.Temperature,
	}
}

func newSandboxRunner(runtimeCfg ReviewRuntimeConfig) *sandbox.Runner {
	return &sandbox.Runner{
		Options: sandbox.Options{
			Python:  runtimeCfg.Python,
			Timeout: time.Duration(runtimeCfg.SmokeTimeoutSecs) * time.Second,
		},
	}
}

func readReviewInput(args []string) (code []byte, filename string, err error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0]) // #nosec G304 -- user-supplied path is the point of the command.
		if err != nil {
			return nil, "", fmt.Errorf("read input file: %w", err)
		}
		return data, filepath.Base(args[0]), nil
	}

	stat, err := os.Stdin.Stat()
	if err == nil && (stat.Mode()&os.ModeCharDevice) != 0 {
		return nil, "", fmt.Errorf("no input: pass a file path or pipe code on stdin")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, "", fmt.Errorf("read stdin: %w", err)
	}
	return data, "", nil
}

func describeReviewError(err error) error {
	switch {
	case errors.Is(err, sharederrors.ErrEmptySnippet):
		return fmt.Errorf("nothing to review: the snippet is empty")
	case errors.Is(err, sharederrors.ErrSnippetTooLarge):
		return fmt.Errorf("snippet exceeds the size limit: %w", err)
	default:
		return err
	}
}

func printReview(rev *review.Review, format string) error {
	switch format {
	case "json":
		b, err := json.MarshalIndent(rev, "", "  ")
		if err != nil {
			return fmt.Errorf("encode review: %w", err)
		}
		fmt.Println(string(b))
		return nil
	case "csv":
		b, err := review.FindingsCSV(rev.Findings)
		if err != nil {
			return fmt.Errorf("encode findings: %w", err)
		}
		fmt.Print(string(b))
		return nil
	default:
		printReviewTable(rev)
		return nil
	}
}

func printReviewTable(rev *review.Review) {
	fmt.Println(colorInfo("Review"), rev.ID)
	if rev.Filename != "" {
		fmt.Printf("%s %s\n", colorInfo("File:"), rev.Filename)
	}
	fmt.Printf("%s %s\n", colorInfo("Language:"), rev.Language)

	fmt.Println()
	fmt.Println(colorInfo("Analyzers"))
	for _, res := range rev.Results {
		line := fmt.Sprintf("  %-12s %-12s %5.2fs", res.Analyzer, formatStatusWithColor(res.Status), res.DurationMS/1000)
		if res.Error != "" {
			line += "  " + colorError(res.Error)
		} else if res.Notes != "" && res.Analyzer != "advisor" {
			line += "  " + res.Notes
		}
		fmt.Println(line)
	}

	if len(rev.Findings) > 0 {
		fmt.Println()
		fmt.Printf("%s (%d)\n", colorInfo("Findings"), len(rev.Findings))
		for _, f := range rev.Findings {
			loc := ""
			if f.Line > 0 {
				loc = fmt.Sprintf(":%d", f.Line)
				if f.Column > 0 {
					loc += fmt.Sprintf(":%d", f.Column)
				}
			}
			rule := f.Rule
			if rule != "" {
				rule = " [" + rule + "]"
			}
			fmt.Printf("  %-10s %s%s%s %s\n", f.Source, formatSeverityWithColor(f.Severity), loc, rule, f.Message)
		}
	} else {
		fmt.Println()
		fmt.Println(colorSuccess("No findings."))
	}

	if rev.Suggestions != "" {
		fmt.Println()
		fmt.Println(colorInfo("Advisor suggestions"))
		for _, line := range strings.Split(strings.TrimSpace(rev.Suggestions), "\n") {
			fmt.Println("  " + line)
		}
	}

	fmt.Println()
	fmt.Printf("Summary: %d finding(s) across %d analyzer(s) in %.2fs",
		rev.Summary.TotalFindings, len(rev.Results), rev.Summary.DurationSeconds)
	if len(rev.Summary.Unavailable) > 0 {
		fmt.Printf(" (%d tool(s) unavailable: %s)", len(rev.Summary.Unavailable), strings.Join(rev.Summary.Unavailable, ", "))
	}
	fmt.Println()
}

func isSupportedFormat(format string) bool {
	for _, f := range reviewFormats {
		if f == format {
			return true
		}
	}
	return false
}

func init() {
	reviewCmd.Flags().IntVarP(&cliConfig.Review.Concurrency, "concurrency", "c", cliConfig.Review.Concurrency, "max concurrent analyzers")
	reviewCmd.Flags().IntVarP(&cliConfig.Review.RateLimit, "rate", "r", cliConfig.Review.RateLimit, "tool launches per second")
	reviewCmd.Flags().IntVarP(&cliConfig.Review.TimeoutSecs, "timeout", "t", cliConfig.Review.TimeoutSecs, "per-tool timeout in seconds")
	reviewCmd.Flags().StringVar(&cliConfig.Review.Python, "python", cliConfig.Review.Python, "Python interpreter used for syntax checks and the smoke test")
	reviewCmd.Flags().StringVarP(&cliConfig.Review.Language, "lang", "l", cliConfig.Review.Language, "snippet language (auto|python|other)")
	reviewCmd.Flags().BoolVar(&cliConfig.Review.Smoke, "smoke", cliConfig.Review.Smoke, "Execute the snippet in an isolated interpreter after static analysis")
	reviewCmd.Flags().BoolVar(&cliConfig.Review.WarningsAsErrors, "warnings-as-errors", cliConfig.Review.WarningsAsErrors, "Treat Python warnings as errors during the smoke test")
	reviewCmd.Flags().BoolVar(&cliConfig.Review.Advise, "advise", cliConfig.Review.Advise, "Append hosted-model suggestions to the report (requires API key)")
	reviewCmd.Flags().BoolVar(&cliConfig.Review.Save, "save", cliConfig.Review.Save, "Persist the review to the local data directory")
	reviewCmd.Flags().StringVarP(&cliConfig.Review.Format, "format", "f", cliConfig.Review.Format, "output format (table|json|csv)")
	reviewCmd.Flags().BoolVar(&cliConfig.Review.TelemetryEnabled, "telemetry", cliConfig.Review.TelemetryEnabled, "Record telemetry metrics (durations, finding counts)")
	reviewCmd.Flags().BoolVar(&cliConfig.Review.ProgressEnabled, "progress", cliConfig.Review.ProgressEnabled, "Display live progress while analyzers run")
}
