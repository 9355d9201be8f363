package cmd

import (
	"strings"

	"github.com/fatih/color"

	"github.com/revulabs/revu-cli/internal/analyzer"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
)

func formatStatusWithColor(status string) string {
	switch strings.ToLower(status) {
	case analyzer.StatusOK, "pass", "available":
		return colorSuccess(status)
	case analyzer.StatusIssues, analyzer.StatusTimeout:
		return colorWarn(status)
	case analyzer.StatusError, analyzer.StatusUnavailable, "missing":
		return colorError(status)
	default:
		return status
	}
}

func formatSeverityWithColor(severity string) string {
	switch strings.ToUpper(severity) {
	case "HIGH", "ERROR":
		return colorError(severity)
	case "MEDIUM", "WARNING":
		return colorWarn(severity)
	case "LOW", "INFO", "NOTE":
		return colorInfo(severity)
	default:
		return severity
	}
}
