package escalation

import "time"

// shouldFire decides whether a rule that matches and has exceeded its time
// threshold may fire for a ticket, given its fire-log entry (nil when the
// pair has never fired).
//
// The per-pair state machine is Unfired -> Fired(1) -> ... ->
// Exhausted(max_repeats); without repeat_escalation, Fired(1) is terminal.
func shouldFire(rule *Rule, fire *FireLog, now time.Time) bool {
	if fire == nil {
		return true
	}
	if !rule.RepeatEscalation {
		return false
	}
	if fire.TimesFired >= rule.MaxRepeats {
		return false
	}
	interval := time.Duration(rule.RepeatInterval) * time.Minute
	return now.Sub(fire.FiredAt) >= interval
}
