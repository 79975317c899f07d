// time.go - Formatierung von Zeitangaben
// Enthaelt: Timestamp, ParseTimestamp, HumanTime

package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Timestamp formatiert eine Videoposition in Sekunden als m:ss bzw. h:mm:ss
func Timestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		seconds = 0
	}

	total := int64(seconds)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ParseTimestamp liest "83.5", "1:23" oder "1:02:03.5" als Sekunden
func ParseTimestamp(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}

	var total float64
	for i, p := range parts {
		last := i == len(parts)-1
		var v float64
		var err error
		if last {
			v, err = strconv.ParseFloat(p, 64)
		} else {
			var n int64
			n, err = strconv.ParseInt(p, 10, 64)
			v = float64(n)
		}
		if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		if i > 0 && v >= 60 {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		total = total*60 + v
	}

	return total, nil
}

// HumanTime gibt eine relative Zeitangabe zurueck ("3 minutes ago").
// Fuer den Nullwert wird zeroValue verwendet.
func HumanTime(t time.Time, zeroValue string) string {
	return humanTime(t, zeroValue, time.Now())
}

func humanTime(t time.Time, zeroValue string, now time.Time) string {
	if t.IsZero() {
		return zeroValue
	}

	delta := now.Sub(t)
	suffix := "ago"
	if delta < 0 {
		delta = -delta
		suffix = "from now"
	}

	switch {
	case delta < time.Second:
		return "Less than a second " + suffix
	case delta < time.Minute:
		return plural(int(delta.Seconds()), "second") + " " + suffix
	case delta < time.Hour:
		return plural(int(delta.Minutes()), "minute") + " " + suffix
	case delta < 24*time.Hour:
		return plural(int(delta.Hours()), "hour") + " " + suffix
	case delta < 30*24*time.Hour:
		return plural(int(delta.Hours()/24), "day") + " " + suffix
	default:
		return t.Format("Jan 2, 2006")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
