package pcluster

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const isoMillis = "2006-01-02T15:04:05.000Z"

type CostPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type CostData struct {
	Amount float64    `json:"amount"`
	Unit   string     `json:"unit"`
	Period CostPeriod `json:"period"`
}

type TimeRange struct {
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
}

// ComposeTimeRange covers the twelve months before today, both bounds at
// midnight UTC.
func ComposeTimeRange(today time.Time) TimeRange {
	today = today.UTC()
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	yearAgo := midnight.AddDate(-1, 0, 0)
	return TimeRange{
		FromDate: yearAgo.Format(isoMillis),
		ToDate:   midnight.Format(isoMillis),
	}
}

func ToFullDollarAmount(value float64) string {
	return "$" + humanize.CommafWithDigits(value, 3)
}

func ToShortDollarAmount(value float64) string {
	abs := math.Abs(value)
	switch {
	case abs >= 1e9:
		return strconv.FormatFloat(value/1e9, 'f', 1, 64) + "G"
	case abs >= 1e6:
		return strconv.FormatFloat(value/1e6, 'f', 1, 64) + "M"
	case abs >= 1e3:
		return strconv.FormatFloat(value/1e3, 'f', 1, 64) + "K"
	}
	return strconv.FormatFloat(value, 'f', 2, 64)
}

// ParseTime accepts unix timestamps in seconds or milliseconds and date or
// date-time strings. Values without a zone are UTC.
func ParseTime(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if n, err := strconv.ParseInt(input, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, input); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q", input)
}

type CostPoint struct {
	Month  string  `json:"x"`
	Amount float64 `json:"y"`
}

// CostSeries keeps the last twelve points and labels them with month names
// ending at the current month.
func CostSeries(data []CostData, today time.Time) []CostPoint {
	if len(data) > 12 {
		data = data[len(data)-12:]
	}
	months := make([]string, 12)
	current := int(today.Month())
	for i := range months {
		months[i] = time.Month((current+i)%12 + 1).String()[:3]
	}
	points := make([]CostPoint, 0, len(data))
	for i, d := range data {
		points = append(points, CostPoint{Month: months[i], Amount: d.Amount})
	}
	return points
}

func AllZeroes(data []CostData) bool {
	if len(data) > 12 {
		data = data[len(data)-12:]
	}
	for _, d := range data {
		if d.Amount != 0 {
			return false
		}
	}
	return true
}
