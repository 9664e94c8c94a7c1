package dynamo

import (
	"testing"
	"time"
)

func TestTimelineProgress(t *testing.T) {
	start := time.Unix(100, 0)
	tl := newTimeline(3, start)

	tests := []struct {
		at       time.Duration
		wantT    float64
		wantDone bool
	}{
		{-time.Second, 0, false},
		{0, 0, false},
		{time.Second, 1.0 / 3, false},
		// Close to the end t keeps full float64 precision.
		{2999999 * time.Microsecond, (2999999 * time.Microsecond).Seconds() / 3, false},
		{3 * time.Second, 1, true},
		{5 * time.Second, 1, true},
	}
	for _, tt := range tests {
		got, done := tl.progress(start.Add(tt.at))
		if got != tt.wantT || done != tt.wantDone {
			t.Errorf("progress(%v) = %v, %v, want %v, %v", tt.at, got, done, tt.wantT, tt.wantDone)
		}
	}
}

func TestTimelineZeroDuration(t *testing.T) {
	start := time.Unix(0, 0)
	tl := newTimeline(0, start)
	if got, done := tl.progress(start); got != 1 || !done {
		t.Errorf("progress = %v, %v, want 1, true", got, done)
	}
}
