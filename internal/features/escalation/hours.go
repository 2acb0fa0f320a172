package escalation

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go-helpdesk/internal/features/ticket"
)

// thresholdSeconds normalizes a threshold and unit to seconds. Unknown units
// yield an error so the caller can fail closed.
func thresholdSeconds(threshold int, unit TimeUnit) (int64, error) {
	switch unit {
	case TimeUnitMinutes:
		return int64(threshold) * 60, nil
	case TimeUnitHours:
		return int64(threshold) * 3600, nil
	case TimeUnitDays:
		return int64(threshold) * 86400, nil
	default:
		return 0, fmt.Errorf("unknown time unit: %s", unit)
	}
}

// anchorTime selects the timestamp elapsed time is measured from. The second
// return is false when the rule's time condition does not apply to the
// ticket's current state, or the anchor is missing.
func anchorTime(cond TimeCondition, t *ticket.Ticket) (time.Time, bool) {
	switch cond {
	case TimeConditionUnassigned:
		if t.AssignedTo != nil {
			return time.Time{}, false
		}
		if t.UnassignedAt != nil {
			return *t.UnassignedAt, true
		}
		return t.CreatedAt, !t.CreatedAt.IsZero()
	case TimeConditionNoResponse:
		if t.LastResponseAt != nil {
			return *t.LastResponseAt, true
		}
		return t.CreatedAt, !t.CreatedAt.IsZero()
	case TimeConditionResolution:
		if t.ResolvedAt != nil {
			return time.Time{}, false
		}
		return t.CreatedAt, !t.CreatedAt.IsZero()
	case TimeConditionCustom:
		return t.UpdatedAt, !t.UpdatedAt.IsZero()
	default:
		return time.Time{}, false
	}
}

// parseClock parses "HH:MM" into minutes past midnight.
func parseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value: %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock value: %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock value: %q", s)
	}
	return h*60 + m, nil
}

// businessSeconds accumulates the seconds of [anchor, now] that fall inside
// the [start, end) business window on working days. It walks day by day,
// clipping each day's window against the overall interval, so an anchor and
// "now" on the same working day contribute exactly the overlap of
// [anchor, now] with that day's window.
func businessSeconds(anchor, now time.Time, startClock, endClock string, workingDays []int) (int64, error) {
	if !anchor.Before(now) {
		return 0, nil
	}
	startMin, err := parseClock(startClock)
	if err != nil {
		return 0, err
	}
	endMin, err := parseClock(endClock)
	if err != nil {
		return 0, err
	}
	if endMin <= startMin {
		return 0, fmt.Errorf("business hours end %q not after start %q", endClock, startClock)
	}

	working := make(map[time.Weekday]bool, len(workingDays))
	for _, d := range workingDays {
		working[time.Weekday(d)] = true
	}

	var total int64
	day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, anchor.Location())
	for day.Before(now) {
		if working[day.Weekday()] {
			winStart := day.Add(time.Duration(startMin) * time.Minute)
			winEnd := day.Add(time.Duration(endMin) * time.Minute)
			if winStart.Before(anchor) {
				winStart = anchor
			}
			if winEnd.After(now) {
				winEnd = now
			}
			if winStart.Before(winEnd) {
				total += int64(winEnd.Sub(winStart).Seconds())
			}
		}
		day = day.AddDate(0, 0, 1)
	}
	return total, nil
}

// elapsedExceeds reports whether the elapsed time for the rule's time
// condition has reached the rule's threshold. It fails closed: missing
// anchors or malformed configuration never trigger.
func elapsedExceeds(rule *Rule, t *ticket.Ticket, now time.Time) bool {
	anchor, ok := anchorTime(rule.TimeCondition, t)
	if !ok {
		return false
	}
	threshold, err := thresholdSeconds(rule.TimeThreshold, rule.TimeUnit)
	if err != nil {
		return false
	}

	var elapsed int64
	if rule.BusinessHoursOnly {
		elapsed, err = businessSeconds(anchor, now, rule.BusinessHoursStart, rule.BusinessHoursEnd, rule.WorkingDays)
		if err != nil {
			return false
		}
	} else {
		elapsed = int64(now.Sub(anchor).Seconds())
	}
	return elapsed >= threshold
}
