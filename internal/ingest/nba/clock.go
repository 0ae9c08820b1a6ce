package nba

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	regulationPeriodSeconds = 720 // 12 minutes
	overtimePeriodSeconds   = 300 // 5 minutes

	// Deltas above this are feed corruption, not basketball. A single
	// possession never runs longer than two minutes of game clock.
	maxPlausibleDeltaSeconds = 120
)

// ClockNormalizer converts the feed's per-action game clock into elapsed
// seconds since the previous action. It is stateful per game and must see
// actions in chronological order.
type ClockNormalizer struct {
	prevPeriod int
	prevClock  float64
}

// NewClockNormalizer returns a normalizer positioned before tip-off.
func NewClockNormalizer() *ClockNormalizer {
	return &ClockNormalizer{prevPeriod: 0, prevClock: regulationPeriodSeconds}
}

// Advance consumes one action's period and clock string and returns the
// elapsed seconds since the previous action. clamped is true when the raw
// delta fell outside [0, 120] seconds and was zeroed.
func (n *ClockNormalizer) Advance(period int, clock string) (elapsed float64, clamped bool) {
	if period != n.prevPeriod {
		n.prevPeriod = period
		if period <= 4 {
			n.prevClock = regulationPeriodSeconds
		} else {
			n.prevClock = overtimePeriodSeconds
		}
	}

	remaining, ok := parseClock(clock)
	if !ok {
		return 0, false
	}

	elapsed = n.prevClock - remaining
	n.prevClock = remaining

	if elapsed < 0 || elapsed > maxPlausibleDeltaSeconds {
		return 0, true
	}
	return elapsed, false
}

var isoClockRe = regexp.MustCompile(`^PT(\d+)M([\d.]+)S$`)

// parseClock accepts "MM:SS" and ISO-duration style "PT11M22.00S" clock
// strings, returning seconds remaining in the period.
func parseClock(clock string) (float64, bool) {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return 0, false
	}

	if match := isoClockRe.FindStringSubmatch(clock); match != nil {
		mins, _ := strconv.Atoi(match[1])
		secs, err := strconv.ParseFloat(match[2], 64)
		if err != nil {
			return 0, false
		}
		return float64(mins)*60 + secs, true
	}

	if strings.Contains(clock, ":") {
		parts := strings.SplitN(clock, ":", 2)
		mins, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, false
		}
		secs, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return 0, false
		}
		return float64(mins)*60 + float64(int(secs)), true
	}

	return 0, false
}
