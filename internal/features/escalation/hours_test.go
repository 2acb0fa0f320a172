package escalation

import (
	"testing"
	"time"

	"go-helpdesk/internal/features/ticket"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func minuteRule(threshold int) *Rule {
	return &Rule{
		Name:          "threshold rule",
		TimeCondition: TimeConditionNoResponse,
		TimeThreshold: threshold,
		TimeUnit:      TimeUnitMinutes,
	}
}

func TestThresholdSeconds(t *testing.T) {
	tests := []struct {
		threshold int
		unit      TimeUnit
		want      int64
		wantErr   bool
	}{
		{60, TimeUnitMinutes, 3600, false},
		{2, TimeUnitHours, 7200, false},
		{1, TimeUnitDays, 86400, false},
		{10, TimeUnit("weeks"), 0, true},
	}
	for _, tt := range tests {
		got, err := thresholdSeconds(tt.threshold, tt.unit)
		if (err != nil) != tt.wantErr {
			t.Errorf("thresholdSeconds(%d, %s) error = %v, wantErr %v", tt.threshold, tt.unit, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("thresholdSeconds(%d, %s) = %d, want %d", tt.threshold, tt.unit, got, tt.want)
		}
	}
}

func TestElapsedExceedsWallClockBoundary(t *testing.T) {
	now := time.Date(2024, 3, 12, 12, 0, 0, 0, time.UTC)
	rule := minuteRule(60)

	tests := []struct {
		name       string
		anchorMins int
		want       bool
	}{
		{"59 minutes does not trigger", 59, false},
		{"60 minutes exactly triggers", 60, true},
		{"61 minutes triggers", 61, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := now.Add(-time.Duration(tt.anchorMins) * time.Minute)
			tk := &ticket.Ticket{CreatedAt: created}
			if got := elapsedExceeds(rule, tk, now); got != tt.want {
				t.Errorf("elapsedExceeds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnchorSelection(t *testing.T) {
	now := time.Date(2024, 3, 12, 12, 0, 0, 0, time.UTC)
	created := now.Add(-3 * time.Hour)
	responded := now.Add(-30 * time.Minute)
	unassigned := now.Add(-45 * time.Minute)
	agent := primitive.NewObjectID()

	t.Run("unassigned_time does not apply to assigned ticket", func(t *testing.T) {
		tk := &ticket.Ticket{CreatedAt: created, AssignedTo: &agent}
		if _, ok := anchorTime(TimeConditionUnassigned, tk); ok {
			t.Error("expected no anchor for assigned ticket")
		}
	})

	t.Run("unassigned_time prefers unassigned_at over created_at", func(t *testing.T) {
		tk := &ticket.Ticket{CreatedAt: created, UnassignedAt: &unassigned}
		anchor, ok := anchorTime(TimeConditionUnassigned, tk)
		if !ok || !anchor.Equal(unassigned) {
			t.Errorf("anchor = %v, %v; want %v, true", anchor, ok, unassigned)
		}
	})

	t.Run("no_response_time falls back to created_at", func(t *testing.T) {
		tk := &ticket.Ticket{CreatedAt: created}
		anchor, ok := anchorTime(TimeConditionNoResponse, tk)
		if !ok || !anchor.Equal(created) {
			t.Errorf("anchor = %v, %v; want %v, true", anchor, ok, created)
		}
	})

	t.Run("no_response_time uses last_response_at when present", func(t *testing.T) {
		tk := &ticket.Ticket{CreatedAt: created, LastResponseAt: &responded}
		anchor, ok := anchorTime(TimeConditionNoResponse, tk)
		if !ok || !anchor.Equal(responded) {
			t.Errorf("anchor = %v, %v; want %v, true", anchor, ok, responded)
		}
	})

	t.Run("resolution_time does not apply once resolved", func(t *testing.T) {
		resolved := now.Add(-time.Hour)
		tk := &ticket.Ticket{CreatedAt: created, ResolvedAt: &resolved}
		if _, ok := anchorTime(TimeConditionResolution, tk); ok {
			t.Error("expected no anchor for resolved ticket")
		}
	})

	t.Run("custom_time anchors at last update", func(t *testing.T) {
		updated := now.Add(-20 * time.Minute)
		tk := &ticket.Ticket{CreatedAt: created, UpdatedAt: updated}
		anchor, ok := anchorTime(TimeConditionCustom, tk)
		if !ok || !anchor.Equal(updated) {
			t.Errorf("anchor = %v, %v; want %v, true", anchor, ok, updated)
		}
	})

	t.Run("missing anchor fails closed", func(t *testing.T) {
		if _, ok := anchorTime(TimeConditionNoResponse, &ticket.Ticket{}); ok {
			t.Error("expected no anchor for zero timestamps")
		}
	})
}

func TestBusinessSecondsAcrossWeekend(t *testing.T) {
	// Friday 2024-03-08 17:00 to Monday 2024-03-11 09:00, window 08:00-18:00
	// Mon-Fri: one hour on Friday plus one hour on Monday.
	anchor := time.Date(2024, 3, 8, 17, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)

	got, err := businessSeconds(anchor, now, "08:00", "18:00", []int{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("businessSeconds() error = %v", err)
	}
	if want := int64(2 * 3600); got != want {
		t.Errorf("businessSeconds() = %d, want %d", got, want)
	}
}

func TestBusinessSecondsSameDayClipping(t *testing.T) {
	// Tuesday, both ends inside the window: exact overlap of [anchor, now].
	anchor := time.Date(2024, 3, 12, 9, 30, 0, 0, time.UTC)
	now := time.Date(2024, 3, 12, 11, 0, 0, 0, time.UTC)

	got, err := businessSeconds(anchor, now, "08:00", "18:00", []int{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("businessSeconds() error = %v", err)
	}
	if want := int64(90 * 60); got != want {
		t.Errorf("businessSeconds() = %d, want %d", got, want)
	}
}

func TestBusinessSecondsOutsideWindow(t *testing.T) {
	// Entirely before the window opens: nothing accumulates.
	anchor := time.Date(2024, 3, 12, 5, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 12, 7, 0, 0, 0, time.UTC)

	got, err := businessSeconds(anchor, now, "08:00", "18:00", []int{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("businessSeconds() error = %v", err)
	}
	if got != 0 {
		t.Errorf("businessSeconds() = %d, want 0", got)
	}
}

func TestElapsedExceedsBusinessHours(t *testing.T) {
	rule := &Rule{
		Name:               "business hours rule",
		TimeCondition:      TimeConditionNoResponse,
		TimeThreshold:      2,
		TimeUnit:           TimeUnitHours,
		BusinessHoursOnly:  true,
		BusinessHoursStart: "08:00",
		BusinessHoursEnd:   "18:00",
		WorkingDays:        []int{1, 2, 3, 4, 5},
	}

	anchor := time.Date(2024, 3, 8, 17, 0, 0, 0, time.UTC) // Friday 17:00
	tk := &ticket.Ticket{CreatedAt: anchor}

	monday9 := time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC)
	if !elapsedExceeds(rule, tk, monday9) {
		t.Error("expected 2 accumulated business hours to reach the 2 hour threshold")
	}

	monday830 := time.Date(2024, 3, 11, 8, 30, 0, 0, time.UTC)
	if elapsedExceeds(rule, tk, monday830) {
		t.Error("expected 1.5 accumulated business hours to stay under the 2 hour threshold")
	}
}

func TestElapsedExceedsFailsClosedOnBadConfig(t *testing.T) {
	rule := &Rule{
		TimeCondition:      TimeConditionNoResponse,
		TimeThreshold:      1,
		TimeUnit:           TimeUnitHours,
		BusinessHoursOnly:  true,
		BusinessHoursStart: "not-a-clock",
		BusinessHoursEnd:   "18:00",
		WorkingDays:        []int{1, 2, 3, 4, 5},
	}
	tk := &ticket.Ticket{CreatedAt: time.Now().Add(-48 * time.Hour)}
	if elapsedExceeds(rule, tk, time.Now()) {
		t.Error("malformed business window must not trigger")
	}
}
