// Package normalize maps raw engine payloads onto the dashboard's execution records.
package normalize

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dukex/flowbit/pkg/models"
)

// ParseTimestamp reads an engine timestamp. Both engines report ISO-8601 instants;
// Langflow sometimes omits the zone, in which case UTC is assumed.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// FormatStartTime renders an instant as dd.MM.yyyy HH:mm:ss in the given location.
// An unparseable timestamp renders as an empty string.
func FormatStartTime(value string, location *time.Location) string {
	t, ok := ParseTimestamp(value)
	if !ok {
		return ""
	}

	if location == nil {
		location = time.Local
	}

	return t.In(location).Format(models.StartTimeLayout)
}

// ParseStartTime parses a formatted start time back into a comparable instant.
// No zone information survives formatting, so both engines are read in the same location.
func ParseStartTime(value string, location *time.Location) (time.Time, bool) {
	if location == nil {
		location = time.Local
	}

	t, err := time.ParseInLocation(models.StartTimeLayout, value, location)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// FormatSeconds renders seconds with one decimal and an "s" suffix. Rounding follows the
// binary value, so 0.35 (stored just below the tie) renders as 0.3; exact ties such as
// 1.25 round away from zero.
func FormatSeconds(seconds float64) string {
	return formatTenths(seconds) + "s"
}

func formatTenths(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return strconv.FormatFloat(value, 'f', -1, 64)
	}

	// value*4 is exact, so an odd integer here means value*10 ends in exactly .5
	if quarter := math.Abs(value) * 4; quarter == math.Trunc(quarter) && math.Mod(quarter, 2) == 1 {
		tenths := math.Floor(math.Abs(value)*10) + 1

		return strconv.FormatFloat(math.Copysign(tenths/10, value), 'f', 1, 64)
	}

	return strconv.FormatFloat(value, 'f', 1, 64)
}

// N8nStatus derives the status of an n8n execution.
func N8nStatus(finished bool, stoppedAt string) models.ExecutionStatus {
	switch {
	case !finished:
		return models.ExecutionStatusRunning
	case stoppedAt != "":
		return models.ExecutionStatusSuccess
	default:
		return models.ExecutionStatusError
	}
}

// N8nDuration computes the elapsed time of an n8n execution.
func N8nDuration(finished bool, startedAt, stoppedAt string) string {
	if !finished {
		return models.DurationRunning
	}

	start, okStart := ParseTimestamp(startedAt)
	stop, okStop := ParseTimestamp(stoppedAt)

	if !okStart || !okStop {
		return models.DurationUnavailable
	}

	return FormatSeconds(float64(stop.Sub(start).Milliseconds()) / 1000)
}

// LangflowStatus maps a Langflow run status.
func LangflowStatus(status string) models.ExecutionStatus {
	switch status {
	case "SUCCESS":
		return models.ExecutionStatusSuccess
	case "ERROR":
		return models.ExecutionStatusError
	default:
		return models.ExecutionStatusRunning
	}
}

// LangflowDuration formats the reported run duration. A missing or zero duration is unavailable.
func LangflowDuration(duration *float64) string {
	if duration == nil || *duration == 0 || math.IsNaN(*duration) {
		return models.DurationUnavailable
	}

	return FormatSeconds(*duration)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
