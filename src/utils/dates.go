package utils

import (
	"fmt"
	"strings"
	"time"
)

// Date range tokens accepted by list filters.
const (
	RangeAll        = "all"
	RangeLast7Days  = "last7days"
	RangeLast30Days = "last30days"
	RangeLast90Days = "last90days"
	RangeThisYear   = "thisYear"
)

// Timeframe tokens accepted by history charts.
const (
	Timeframe1W  = "1W"
	Timeframe1M  = "1M"
	Timeframe3M  = "3M"
	Timeframe1Y  = "1Y"
	TimeframeAll = "ALL"
)

// RangeCutoff returns the earliest instant included by a date range token. The boolean is
// false for "all" (and the empty token), meaning no date filtering applies.
func RangeCutoff(token string, now time.Time) (time.Time, bool, error) {
	switch token {
	case "", RangeAll:
		return time.Time{}, false, nil
	case RangeLast7Days:
		return now.AddDate(0, 0, -7), true, nil
	case RangeLast30Days:
		return now.AddDate(0, 0, -30), true, nil
	case RangeLast90Days:
		return now.AddDate(0, 0, -90), true, nil
	case RangeThisYear:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), true, nil
	default:
		return time.Time{}, false, fmt.Errorf("unknown date range %q", token)
	}
}

// TimeframeCutoff is the RangeCutoff counterpart for chart timeframes. Tokens are case
// insensitive.
func TimeframeCutoff(token string, now time.Time) (time.Time, bool, error) {
	switch strings.ToUpper(token) {
	case "", TimeframeAll:
		return time.Time{}, false, nil
	case Timeframe1W:
		return now.AddDate(0, 0, -7), true, nil
	case Timeframe1M:
		return now.AddDate(0, 0, -30), true, nil
	case Timeframe3M:
		return now.AddDate(0, 0, -90), true, nil
	case Timeframe1Y:
		return now.AddDate(0, 0, -365), true, nil
	default:
		return time.Time{}, false, fmt.Errorf("unknown timeframe %q", token)
	}
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse(ShortDashDateLayout, value)
}
