package core

import (
	"sync"
	"testing"
	"time"
)

func TestHourOf(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 59, 59, 0, time.UTC)
	if got := HourOf(ts); got != 9 {
		t.Errorf("HourOf() = %d, want 9", got)
	}
}

func TestHourLabel(t *testing.T) {
	tests := []struct {
		hour Hour
		want string
	}{
		{0, "12:00 AM - 12:59 AM"},
		{9, "9:00 AM - 9:59 AM"},
		{12, "12:00 PM - 12:59 PM"},
		{23, "11:00 PM - 11:59 PM"},
	}
	for _, tt := range tests {
		if got := tt.hour.Label(); got != tt.want {
			t.Errorf("Hour(%d).Label() = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestHourValid(t *testing.T) {
	for _, h := range []Hour{-1, 24, 99} {
		if h.Valid() {
			t.Errorf("Hour(%d).Valid() = true, want false", h)
		}
	}
	if !Hour(0).Valid() || !Hour(23).Valid() {
		t.Error("boundary hours should be valid")
	}
	if got := Hour(7).String(); got != "07" {
		t.Errorf("String() = %q, want %q", got, "07")
	}
}

func TestParseCondition(t *testing.T) {
	tests := []struct {
		in      string
		want    Condition
		wantErr bool
	}{
		{"", ConditionNone, false},
		{"none", ConditionNone, false},
		{"Sunny", ConditionSunny, false},
		{" foggy ", ConditionFoggy, false},
		{"stormy", ConditionNone, true},
	}
	for _, tt := range tests {
		got, err := ParseCondition(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCondition(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseCondition(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSnapshotLocation(t *testing.T) {
	s := Snapshot{City: "Lisbon", Country: "Portugal"}
	if got := s.Location(); got != "Lisbon, Portugal" {
		t.Errorf("Location() = %q", got)
	}
	if got := (Snapshot{}).Location(); got != "" {
		t.Errorf("empty Location() = %q, want empty", got)
	}
}

func TestMailboxOverwrites(t *testing.T) {
	var m Mailbox[Hour]
	if m.Pending() {
		t.Fatal("new mailbox should be empty")
	}

	m.Put(10)
	m.Put(11)
	if !m.Pending() {
		t.Fatal("Pending() = false after Put")
	}

	got, ok := m.Take()
	if !ok || got != 11 {
		t.Errorf("Take() = %d, %v, want 11, true", got, ok)
	}
	if _, ok := m.Take(); ok {
		t.Error("second Take() should find nothing")
	}
}

func TestMailboxConcurrent(t *testing.T) {
	var m Mailbox[int]
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			m.Put(v)
		}(i)
	}
	wg.Wait()

	if _, ok := m.Take(); !ok {
		t.Error("expected a pending value")
	}
	if m.Pending() {
		t.Error("mailbox should be empty after Take")
	}
}

func TestPlaylist(t *testing.T) {
	var nilList *Playlist
	if !nilList.IsEmpty() || nilList.At(0) != nil {
		t.Error("nil playlist should be empty")
	}

	p := &Playlist{Tracks: []Track{{Name: "a.mp3"}, {Name: "b.mp3", Weather: ConditionRainy}}}
	if p.Len() != 2 {
		t.Errorf("Len() = %d, want 2", p.Len())
	}
	if tr := p.At(1); tr == nil || !tr.IsWeather() {
		t.Error("At(1) should be a weather track")
	}
	if p.At(2) != nil {
		t.Error("At(2) should be nil")
	}
}

func TestStateString(t *testing.T) {
	if StateWaiting.String() != "waiting" {
		t.Errorf("StateWaiting.String() = %q", StateWaiting.String())
	}
	if State(42).String() != "unknown" {
		t.Errorf("State(42).String() = %q", State(42).String())
	}
}
