package zoxide

import (
	"testing"
	"time"
)

var now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func TestFrecencyDecay(t *testing.T) {
	cases := []struct {
		age  time.Duration
		want float64
	}{
		{30 * time.Minute, 40},
		{5 * time.Hour, 20},
		{3 * 24 * time.Hour, 5},
		{30 * 24 * time.Hour, 2.5},
	}
	for _, c := range cases {
		e := Entry{Count: 10, LastAccess: now.Add(-c.age)}
		if got := Frecency(e, now); got != c.want {
			t.Errorf("Frecency(age=%v) = %v, want %v", c.age, got, c.want)
		}
	}
}

func TestTouch(t *testing.T) {
	data := map[string]Entry{}
	Touch(data, "/home/guest", now)
	Touch(data, "/home/guest", now.Add(time.Minute))

	e := data["/home/guest"]
	if e.Count != 2 {
		t.Errorf("Count = %d, want 2", e.Count)
	}
	if !e.LastAccess.Equal(now.Add(time.Minute)) {
		t.Errorf("LastAccess not updated: %v", e.LastAccess)
	}
}

func TestRanked(t *testing.T) {
	data := map[string]Entry{
		"/stale":  {Count: 100, LastAccess: now.Add(-30 * 24 * time.Hour)}, // 25
		"/hot":    {Count: 10, LastAccess: now.Add(-10 * time.Minute)},     // 40
		"/warm":   {Count: 10, LastAccess: now.Add(-6 * time.Hour)},        // 20
		"/b-tied": {Count: 5, LastAccess: now.Add(-6 * time.Hour)},         // 10
		"/a-tied": {Count: 5, LastAccess: now.Add(-7 * time.Hour)},         // 10
	}
	got := Ranked(data, now)
	want := []string{"/hot", "/stale", "/warm", "/a-tied", "/b-tied"}
	if len(got) != len(want) {
		t.Fatalf("Ranked = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Ranked = %v, want %v", got, want)
		}
	}
}
