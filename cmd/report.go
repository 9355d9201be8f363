package cmd

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/spf13/cobra"

	"github.com/revulabs/revu-cli/internal/analyzer"
	"github.com/revulabs/revu-cli/internal/review"
	"github.com/revulabs/revu-cli/internal/shared/constants"
	sharederrors "github.com/revulabs/revu-cli/internal/shared/errors"
	"github.com/revulabs/revu-cli/internal/store"
)

const (
	htmlTemplatePath     = "templates/report.html"
	markdownTemplatePath = "templates/report.md"
)

//go:embed templates/report.html templates/report.md
var reportTemplateFS embed.FS

var (
	reportTemplateFuncs = template.FuncMap{
		"add":            addInts,
		"join":           strings.Join,
		"formatDuration": formatDurationLabel,
		"lower":          strings.ToLower,
		"severityClass":  severityBadgeClass,
		"statusCounts":   statusCounts,
		"seconds":        millisToSeconds,
	}

	htmlReportTemplate = template.Must(
		template.New("report.html").Funcs(reportTemplateFuncs).ParseFS(reportTemplateFS, htmlTemplatePath),
	)
	markdownReportTemplate = template.Must(
		template.New("report.md").Funcs(reportTemplateFuncs).ParseFS(reportTemplateFS, markdownTemplatePath),
	)
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate and inspect reports for saved reviews",
}

// TemplateData holds the data for HTML/PDF/Markdown template rendering
type TemplateData struct {
	Review       *review.Review
	GeneratedAt  string
	CreatedAt    string
	CompletedAt  string
	Duration     string
	CleanCount   int
	FlaggedCount int
	Status       string
	FooterDate   string
}

var reportGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a report file for a saved review",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)

		id, _ := cmd.Flags().GetString("id")
		format, _ := cmd.Flags().GetString("format")
		outDir, _ := cmd.Flags().GetString("out")

		if id == "" {
			return fmt.Errorf("--id is required")
		}

		format = strings.ToLower(format)
		if format != "json" && format != "md" && format != "html" && format != "pdf" && format != "csv" {
			return fmt.Errorf("invalid format: %s (must be json, md, html, pdf, or csv)", format)
		}

		rev, err := loadSavedReview(cmd.Context(), appCtx, id)
		if err != nil {
			return err
		}

		if outDir == "" {
			outDir = filepath.Join(appCtx.DataDir, rev.ID)
		}

		var content []byte
		var filename string

		switch format {
		case "json":
			content, err = json.MarshalIndent(rev, "", "  ")
			filename = "report.json"
		case "csv":
			content, err = review.FindingsCSV(rev.Findings)
			filename = "findings.csv"
		case "md":
			var s string
			s, err = executeReportTemplate(markdownReportTemplate, buildTemplateData(rev))
			content = []byte(s)
			filename = "report.md"
		case "html":
			var s string
			s, err = executeReportTemplate(htmlReportTemplate, buildTemplateData(rev))
			content = []byte(s)
			filename = "report.html"
		case "pdf":
			content, err = generatePDFReportBytes(buildTemplateData(rev))
			filename = "report.pdf"
		}
		if err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}

		if err := os.MkdirAll(outDir, constants.DefaultDirPerm); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		reportPath := filepath.Join(outDir, filename)
		if err := os.WriteFile(reportPath, content, constants.DefaultFilePerm); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		fmt.Printf("Report generated: %s\n", reportPath)
		fmt.Printf("Format: %s\n", format)
		fmt.Printf("Findings: %d\n", rev.Summary.TotalFindings)
		return nil
	},
}

var reportListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := store.New(appCtx.DataDir)
		if err != nil {
			return fmt.Errorf("open review store: %w", err)
		}
		summaries, err := st.List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(summaries) == 0 {
			fmt.Println(colorWarn("No saved reviews."))
			return nil
		}

		tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCREATED\tFILE\tLANGUAGE\tFINDINGS")
		for _, s := range summaries {
			file := s.Filename
			if file == "" {
				file = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", s.ID, s.CreatedAt, file, s.Language, s.TotalFindings)
		}
		if err := tw.Flush(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to flush review table: %v\n", err)
		}
		return nil
	},
}

var reportShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print a saved review to the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		id, _ := cmd.Flags().GetString("id")
		format, _ := cmd.Flags().GetString("format")

		if id == "" {
			return fmt.Errorf("--id is required")
		}
		if !isSupportedFormat(format) {
			return &UnsupportedFormatError{Format: format, Supported: reviewFormats}
		}

		rev, err := loadSavedReview(cmd.Context(), appCtx, id)
		if err != nil {
			return err
		}
		return printReview(rev, format)
	},
}

// loadSavedReview fetches a saved review from the on-disk store, surfacing
// unknown IDs as a ReviewNotFoundError so callers print the short form.
func loadSavedReview(ctx context.Context, appCtx *AppContext, id string) (*review.Review, error) {
	st, err := store.New(appCtx.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open review store: %w", err)
	}
	rev, err := st.Get(ctx, id)
	if errors.Is(err, sharederrors.ErrReviewNotFound) {
		return nil, &ReviewNotFoundError{ID: id}
	}
	if err != nil {
		return nil, err
	}
	return rev, nil
}

func buildTemplateData(rev *review.Review) TemplateData {
	cleanCount, flaggedCount, _ := summarizeStatuses(rev.Results)

	now := time.Now()
	duration := rev.CompletedAt.Sub(rev.CreatedAt)
	if duration < 0 {
		duration = 0
	}

	return TemplateData{
		Review:       rev,
		GeneratedAt:  now.Format(time.RFC3339),
		CreatedAt:    rev.CreatedAt.Format(time.RFC3339),
		CompletedAt:  rev.CompletedAt.Format(time.RFC3339),
		Duration:     duration.Round(time.Millisecond).String(),
		CleanCount:   cleanCount,
		FlaggedCount: flaggedCount,
		Status:       deriveReviewStatus(rev),
		FooterDate:   now.Format("2006-01-02 15:04:05"),
	}
}

func deriveReviewStatus(rev *review.Review) string {
	switch {
	case len(rev.Results) == 0:
		return "Empty"
	case rev.Summary.TotalFindings == 0:
		return "Clean"
	default:
		return "Findings reported"
	}
}

func addInts(a, b int) int {
	return a + b
}

func millisToSeconds(ms float64) float64 {
	return ms / 1000
}

func formatDurationLabel(seconds float64) string {
	if seconds <= 0 {
		return "0s"
	}
	if seconds < 60 {
		return fmt.Sprintf("%.1fs", seconds)
	}
	min := seconds / 60
	return fmt.Sprintf("%.1f min", min)
}

func severityBadgeClass(severity string) string {
	switch strings.ToLower(strings.TrimSpace(severity)) {
	case "high", "error":
		return "badge-high"
	case "medium", "warning":
		return "badge-medium"
	case "low", "info", "note":
		return "badge-low"
	default:
		return "badge-info"
	}
}

func generatePDFReportBytes(data TemplateData) ([]byte, error) {
	rev := data.Review

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Title
	title := "Code Review Report"
	if rev.Filename != "" {
		title = fmt.Sprintf("Code Review Report: %s", rev.Filename)
	}
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Metadata section
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Review ID: %s", rev.ID), "", 1, "", false, 0, "")
	if rev.Reviewer != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Reviewer: %s", rev.Reviewer), "", 1, "", false, 0, "")
	}
	pdf.CellFormat(0, 6, fmt.Sprintf("Language: %s", rev.Language), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Created: %s", data.CreatedAt), "", 1, "", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Completed: %s", data.CompletedAt), "", 1, "", false, 0, "")
	pdf.Ln(5)

	// Summary section
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Summary", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Status: %s | Findings: %d | Clean analyzers: %d | Flagged: %d",
		data.Status, rev.Summary.TotalFindings, data.CleanCount, data.FlaggedCount), "", 1, "", false, 0, "")
	pdf.Ln(5)

	// Analyzer table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Analyzers", "", 1, "", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	for _, res := range rev.Results {
		line := fmt.Sprintf("%s: %s (%.2fs)", res.Analyzer, res.Status, res.DurationMS/1000)
		if res.Error != "" {
			line += " - " + res.Error
		}
		pdf.MultiCell(0, 5, line, "", "", false)
	}
	pdf.Ln(3)

	// Findings section
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "Findings", "", 1, "", false, 0, "")
	pdf.Ln(2)

	maxFindings := 200
	for i, f := range rev.Findings {
		if i == maxFindings {
			pdf.SetFont("Arial", "I", 9)
			pdf.CellFormat(0, 6, fmt.Sprintf("... %d additional findings omitted ...", len(rev.Findings)-maxFindings), "", 1, "", false, 0, "")
			break
		}

		if pdf.GetY() > 260 {
			pdf.AddPage()
		}

		loc := ""
		if f.Line > 0 {
			loc = fmt.Sprintf(" line %d", f.Line)
			if f.Column > 0 {
				loc += fmt.Sprintf(":%d", f.Column)
			}
		}
		header := fmt.Sprintf("%s%s", f.Source, loc)
		if f.Rule != "" {
			header += " [" + f.Rule + "]"
		}
		if f.Severity != "" {
			header += " " + strings.ToUpper(f.Severity)
		}

		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(0, 5, header, "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 4, f.Message, "", "", false)
		pdf.Ln(1)
	}

	if len(rev.Findings) == 0 {
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(0, 5, "No findings.", "", 1, "", false, 0, "")
	}

	// Advisor suggestions
	if rev.Suggestions != "" {
		if pdf.GetY() > 240 {
			pdf.AddPage()
		}
		pdf.Ln(3)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, "Advisor Suggestions", "", 1, "", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 4, rev.Suggestions, "", "", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

func executeReportTemplate(tmpl *template.Template, data TemplateData) (string, error) {
	var buf strings.Builder
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute %s template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// statusCounts gives the markdown summary a per-status analyzer breakdown.
func statusCounts(results []analyzer.Result) map[string]int {
	counts := make(map[string]int, len(results))
	for _, res := range results {
		counts[res.Status]++
	}
	return counts
}

func init() {
	reportGenerateCmd.Flags().String("id", "", "Review ID")
	reportGenerateCmd.Flags().String("format", "md", "Output format: json|md|html|pdf|csv")
	reportGenerateCmd.Flags().String("out", "", "Output directory (defaults to the review's data directory)")
	reportListCmd.Flags().Int("limit", 20, "Number of recent reviews to list")
	reportShowCmd.Flags().String("id", "", "Review ID")
	reportShowCmd.Flags().String("format", "table", "Output format: table|json|csv")
	reportCmd.AddCommand(reportGenerateCmd)
	reportCmd.AddCommand(reportListCmd)
	reportCmd.AddCommand(reportShowCmd)
}
