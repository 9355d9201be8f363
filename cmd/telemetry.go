package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/revulabs/revu-cli/internal/analyzer"
	"github.com/revulabs/revu-cli/internal/review"
	"github.com/revulabs/revu-cli/internal/shared/constants"
)

type telemetryRecord struct {
	Timestamp        time.Time `json:"timestamp"`
	Command          string    `json:"command"`
	ReviewID         string    `json:"review_id"`
	AnalyzerCount    int       `json:"analyzer_count"`
	CleanCount       int       `json:"clean_count"`
	FlaggedCount     int       `json:"flagged_count"`
	UnavailableCount int       `json:"unavailable_count"`
	FindingCount     int       `json:"finding_count"`
	CleanRate        float64   `json:"clean_rate"`
	DurationSeconds  float64   `json:"duration_seconds"`
	AvgDurationPer   float64   `json:"avg_duration_per_analyzer"`
}

func recordTelemetry(appCtx *AppContext, rev *review.Review, duration time.Duration) error {
	cleanCount, flaggedCount, unavailableCount := summarizeStatuses(rev.Results)
	total := len(rev.Results)

	cleanRate := 0.0
	if total > 0 {
		cleanRate = (float64(cleanCount) / float64(total)) * 100
	}

	avgDuration := 0.0
	if total > 0 {
		avgDuration = duration.Seconds() / float64(total)
	}

	record := telemetryRecord{
		Timestamp:        time.Now().UTC(),
		Command:          "review",
		ReviewID:         rev.ID,
		AnalyzerCount:    total,
		CleanCount:       cleanCount,
		FlaggedCount:     flaggedCount,
		UnavailableCount: unavailableCount,
		FindingCount:     rev.Summary.TotalFindings,
		CleanRate:        cleanRate,
		DurationSeconds:  duration.Seconds(),
		AvgDurationPer:   avgDuration,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal telemetry: %w", err)
	}

	telemetryPath := ""
	if appCtx != nil && appCtx.DataDir != "" {
		telemetryPath = filepath.Join(appCtx.DataDir, "telemetry.jsonl")
	} else {
		var err error
		telemetryPath, err = getTelemetryPath()
		if err != nil {
			return err
		}
	}
	f, err := os.OpenFile(telemetryPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, constants.DefaultFilePerm)
	if err != nil {
		return fmt.Errorf("open telemetry file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write telemetry: %w", err)
	}

	return nil
}

func summarizeStatuses(results []analyzer.Result) (cleanCount, flaggedCount, unavailableCount int) {
	for _, r := range results {
		switch r.Status {
		case analyzer.StatusOK:
			cleanCount++
		case analyzer.StatusUnavailable:
			unavailableCount++
		default:
			flaggedCount++
		}
	}
	return cleanCount, flaggedCount, unavailableCount
}
