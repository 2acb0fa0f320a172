package escalation

import (
	"testing"
	"time"
)

func TestShouldFireFirstTime(t *testing.T) {
	rule := &Rule{RepeatEscalation: false}
	if !shouldFire(rule, nil, time.Now()) {
		t.Error("a pair with no fire-log entry must fire")
	}
}

func TestShouldFireNoRepeat(t *testing.T) {
	rule := &Rule{RepeatEscalation: false}
	fire := &FireLog{FiredAt: time.Now().Add(-24 * time.Hour), TimesFired: 1}
	if shouldFire(rule, fire, time.Now()) {
		t.Error("without repeat_escalation a fired pair must never fire again")
	}
}

func TestShouldFireRepeatSchedule(t *testing.T) {
	rule := &Rule{
		RepeatEscalation: true,
		RepeatInterval:   30,
		MaxRepeats:       3,
	}
	base := time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		fire *FireLog
		now  time.Time
		want bool
	}{
		{
			name: "blocked before the repeat interval elapses",
			fire: &FireLog{FiredAt: base, TimesFired: 1},
			now:  base.Add(29 * time.Minute),
			want: false,
		},
		{
			name: "fires again exactly at the repeat interval",
			fire: &FireLog{FiredAt: base, TimesFired: 1},
			now:  base.Add(30 * time.Minute),
			want: true,
		},
		{
			name: "fires while under max repeats",
			fire: &FireLog{FiredAt: base, TimesFired: 2},
			now:  base.Add(time.Hour),
			want: true,
		},
		{
			name: "exhausted at max repeats regardless of elapsed time",
			fire: &FireLog{FiredAt: base, TimesFired: 3},
			now:  base.Add(1000 * time.Hour),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldFire(rule, tt.fire, tt.now); got != tt.want {
				t.Errorf("shouldFire() = %v, want %v", got, tt.want)
			}
		})
	}
}
