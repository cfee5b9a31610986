package resolver

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	// Numbers above this magnitude are epoch milliseconds, the rest epoch seconds.
	millisecondThreshold = 1e12

	// Largest representable instant, in epoch milliseconds (+/- 100,000,000 days).
	maxEpochMillis = 8.64e15
)

// Postgres timestamptz starts at 4714-11-24 00:00:00 BC (proleptic
// Gregorian); earlier instants are rejected by the job store.
var minStorableInstant = time.Date(-4713, time.November, 24, 0, 0, 0, 0, time.UTC)

// NormalizeTimestamp converts a raw timestamp candidate into a UTC instant.
// Numeric values are treated as epoch seconds or milliseconds depending on
// magnitude; anything else is parsed as a textual date. It returns false
// when raw cannot be interpreted or falls outside what the job store holds.
func NormalizeTimestamp(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return fromEpoch(n)
	}

	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return storable(t.UTC())
}

func fromEpoch(n float64) (time.Time, bool) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return time.Time{}, false
	}

	ms := n
	if math.Abs(n) <= millisecondThreshold {
		ms = n * 1000
	}
	ms = math.Trunc(ms)
	if math.Abs(ms) > maxEpochMillis {
		return time.Time{}, false
	}

	return storable(time.UnixMilli(int64(ms)).UTC())
}

func storable(t time.Time) (time.Time, bool) {
	if t.Before(minStorableInstant) {
		return time.Time{}, false
	}
	return t, true
}
