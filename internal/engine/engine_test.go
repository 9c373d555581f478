package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/tessro/chromie/internal/catalog"
	"github.com/tessro/chromie/internal/core"
	chromieerrors "github.com/tessro/chromie/internal/errors"
)

type catalogKey struct {
	hour    core.Hour
	weather core.Condition
}

type fakeCatalog struct {
	mu     sync.Mutex
	tracks map[catalogKey][]core.Track
	calls  []catalogKey
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{tracks: make(map[catalogKey][]core.Track)}
}

func (c *fakeCatalog) set(h core.Hour, w core.Condition, names ...string) {
	var tracks []core.Track
	for _, n := range names {
		tracks = append(tracks, core.Track{Path: "/music/" + h.String() + "/" + n, Name: n})
	}
	c.mu.Lock()
	c.tracks[catalogKey{h, w}] = tracks
	c.mu.Unlock()
}

func (c *fakeCatalog) SongsFor(h core.Hour, w core.Condition) []core.Track {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, catalogKey{h, w})
	return append([]core.Track(nil), c.tracks[catalogKey{h, w}]...)
}

func (c *fakeCatalog) CountsFor(h core.Hour, w core.Condition) core.Counts {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.tracks[catalogKey{h, w}])
	return core.Counts{Base: n, Total: n}
}

func (c *fakeCatalog) lastCall() catalogKey {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[len(c.calls)-1]
}

// fakePlayer records played track names and delegates to fn when set.
type fakePlayer struct {
	mu     sync.Mutex
	played []string
	fn     func(ctx context.Context, n int, t core.Track) error
}

func (p *fakePlayer) Play(ctx context.Context, t core.Track) error {
	p.mu.Lock()
	p.played = append(p.played, t.Name)
	n := len(p.played)
	fn := p.fn
	p.mu.Unlock()
	if fn != nil {
		return fn(ctx, n, t)
	}
	return nil
}

func (p *fakePlayer) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.played...)
}

type recorder struct {
	mu     sync.Mutex
	events []core.Event
	hook   func(core.Event)
}

func (r *recorder) Notify(e core.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	hook := r.hook
	r.mu.Unlock()
	if hook != nil {
		hook(e)
	}
}

func (r *recorder) ofType(t core.EventType) []core.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func run(e *Engine, ctx context.Context, h core.Hour, w core.Condition) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- e.Start(ctx, h, w)
	}()
	return done
}

func wait(t *testing.T, done <-chan error) {
	t.Helper()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Start() did not return")
	}
}

func TestStartInvalidHour(t *testing.T) {
	e := New(newFakeCatalog(), &fakePlayer{}, nil)
	for _, h := range []core.Hour{-1, 24} {
		if err := e.Start(context.Background(), h, core.ConditionNone); !errors.Is(err, chromieerrors.ErrInvalidHour) {
			t.Errorf("Start(%d) error = %v, want ErrInvalidHour", h, err)
		}
	}
}

func TestStartAlreadyRunning(t *testing.T) {
	cat := newFakeCatalog()
	cat.set(9, core.ConditionNone, "a.mp3")
	started := make(chan struct{})
	var once sync.Once
	player := &fakePlayer{fn: func(ctx context.Context, _ int, _ core.Track) error {
		once.Do(func() { close(started) })
		<-ctx.Done()
		return ctx.Err()
	}}
	e := New(cat, player, nil)

	done := run(e, context.Background(), 9, core.ConditionNone)
	<-started

	if err := e.Start(context.Background(), 9, core.ConditionNone); !errors.Is(err, chromieerrors.ErrAlreadyRunning) {
		t.Errorf("second Start() error = %v, want ErrAlreadyRunning", err)
	}
	if !e.Running() {
		t.Error("Running() = false while playing")
	}

	e.Stop()
	wait(t, done)
}

func TestStopBeforeStart(t *testing.T) {
	cat := newFakeCatalog()
	cat.set(9, core.ConditionNone, "a.mp3")
	e := New(cat, nil, nil)
	e.Stop()
	e.Stop()

	player := &fakePlayer{}
	e.player = player
	player.fn = func(_ context.Context, n int, _ core.Track) error {
		if n == 2 {
			e.Stop()
		}
		return nil
	}

	wait(t, run(e, context.Background(), 9, core.ConditionNone))

	if got := player.names(); len(got) != 2 {
		t.Errorf("played %v, want 2 tracks after an early Stop", got)
	}
	e.Stop()
}

func TestStopWhilePlaying(t *testing.T) {
	cat := newFakeCatalog()
	cat.set(9, core.ConditionNone, "a.mp3", "b.mp3")
	started := make(chan struct{})
	killed := make(chan struct{})
	player := &fakePlayer{fn: func(ctx context.Context, n int, _ core.Track) error {
		if n == 1 {
			close(started)
		}
		<-ctx.Done()
		close(killed)
		return ctx.Err()
	}}
	rec := &recorder{}
	e := New(cat, player, rec)

	done := run(e, context.Background(), 9, core.ConditionNone)
	<-started
	e.Stop()

	select {
	case <-killed:
	case <-time.After(time.Second):
		t.Fatal("track in flight was not cancelled")
	}
	wait(t, done)

	if got := player.names(); !reflect.DeepEqual(got, []string{"a.mp3"}) {
		t.Errorf("played %v, want only a.mp3", got)
	}
	if n := len(rec.ofType(core.EventTrackFailed)); n != 0 {
		t.Errorf("%d track failures reported for a stopped track, want 0", n)
	}
	if e.State() != core.StateStopped {
		t.Errorf("State() = %v, want stopped", e.State())
	}
	e.Stop()
}

func TestContextCancelStops(t *testing.T) {
	cat := newFakeCatalog()
	cat.set(9, core.ConditionNone, "a.mp3")
	player := &fakePlayer{fn: func(ctx context.Context, _ int, _ core.Track) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	e := New(cat, player, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := run(e, ctx, 9, core.ConditionNone)
	time.Sleep(20 * time.Millisecond)
	cancel()
	wait(t, done)
}

func TestPlaylistLoopsInSortedOrder(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"09/morning.mp3", "09/coffee.flac", "09/sunny/brightside.ogg"} {
		path := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	var e *Engine
	player := &fakePlayer{fn: func(_ context.Context, n int, _ core.Track) error {
		if n == 7 {
			e.Stop()
		}
		return nil
	}}
	rec := &recorder{}
	e = New(catalog.New(dir), player, rec)

	wait(t, run(e, context.Background(), 9, core.ConditionSunny))

	want := []string{
		"brightside.ogg", "coffee.flac", "morning.mp3",
		"brightside.ogg", "coffee.flac", "morning.mp3",
		"brightside.ogg",
	}
	if got := player.names(); !reflect.DeepEqual(got, want) {
		t.Errorf("played %v, want %v", got, want)
	}

	playlists := rec.ofType(core.EventPlaylist)
	if len(playlists) != 3 {
		t.Fatalf("%d playlist events, want 3", len(playlists))
	}
	if c := playlists[0].Counts; c.Base != 2 || c.Weather != 1 || c.Total != 3 {
		t.Errorf("Counts = %+v, want 2 base + 1 weather", c)
	}
	if n := len(rec.ofType(core.EventHeader)); n != 1 {
		t.Errorf("%d header events, want 1 with no hour change", n)
	}
}

func TestSingleTrackFailure(t *testing.T) {
	cat := newFakeCatalog()
	cat.set(9, core.ConditionNone, "a.mp3", "b.mp3", "c.mp3")
	boom := errors.New("decoder exploded")
	var e *Engine
	player := &fakePlayer{fn: func(_ context.Context, n int, tr core.Track) error {
		if n == 3 {
			e.Stop()
		}
		if tr.Name == "b.mp3" {
			return &chromieerrors.PlaybackError{Path: tr.Path, Err: boom}
		}
		return nil
	}}
	rec := &recorder{}
	e = New(cat, player, rec)

	wait(t, run(e, context.Background(), 9, core.ConditionNone))

	if got := player.names(); !reflect.DeepEqual(got, []string{"a.mp3", "b.mp3", "c.mp3"}) {
		t.Errorf("played %v, want a, b, c", got)
	}
	failures := rec.ofType(core.EventTrackFailed)
	if len(failures) != 1 {
		t.Fatalf("%d failures reported, want 1", len(failures))
	}
	f := failures[0]
	if f.Track == nil || f.Track.Name != "b.mp3" || f.Index != 1 {
		t.Errorf("failure = %+v, want b.mp3 at index 1", f)
	}
	if !errors.Is(f.Err, chromieerrors.ErrPlaybackFailed) || !errors.Is(f.Err, boom) {
		t.Errorf("failure Err = %v, want playback failure wrapping cause", f.Err)
	}
	if n := len(rec.ofType(core.EventPlaylist)); n != 1 {
		t.Errorf("%d playlist events, want 1 (no rebuild on failure)", n)
	}
}

func TestHourChangeFinishesCurrentTrack(t *testing.T) {
	cat := newFakeCatalog()
	cat.set(9, core.ConditionNone, "a.mp3", "b.mp3", "c.mp3")
	cat.set(10, core.ConditionNone, "x.mp3", "y.mp3")

	var e *Engine
	var firstCompleted bool
	player := &fakePlayer{fn: func(ctx context.Context, n int, _ core.Track) error {
		switch n {
		case 1:
			e.QueueHourChange(10)
			time.Sleep(10 * time.Millisecond)
			firstCompleted = ctx.Err() == nil
		case 3:
			e.Stop()
		}
		return nil
	}}
	rec := &recorder{}
	e = New(cat, player, rec)

	wait(t, run(e, context.Background(), 9, core.ConditionNone))

	if !firstCompleted {
		t.Error("track in flight was interrupted by the hour change")
	}
	if got := player.names(); !reflect.DeepEqual(got, []string{"a.mp3", "x.mp3", "y.mp3"}) {
		t.Errorf("played %v, want a then the hour 10 playlist", got)
	}

	headers := rec.ofType(core.EventHeader)
	if len(headers) != 2 || headers[0].Hour != 9 || headers[1].Hour != 10 {
		t.Errorf("headers = %+v, want hour 09 then 10", headers)
	}
	if e.Hour() != 10 {
		t.Errorf("Hour() = %v, want 10", e.Hour())
	}
}

func TestQueuedChangesCollapse(t *testing.T) {
	cat := newFakeCatalog()
	cat.set(9, core.ConditionNone, "a.mp3", "b.mp3")
	cat.set(12, core.ConditionNone, "noon.mp3")

	var e *Engine
	player := &fakePlayer{fn: func(_ context.Context, n int, _ core.Track) error {
		switch n {
		case 1:
			e.QueueHourChange(10)
			e.QueueHourChange(11)
			e.QueueHourChange(12)
		case 2:
			e.Stop()
		}
		return nil
	}}
	rec := &recorder{}
	e = New(cat, player, rec)

	wait(t, run(e, context.Background(), 9, core.ConditionNone))

	if got := player.names(); !reflect.DeepEqual(got, []string{"a.mp3", "noon.mp3"}) {
		t.Errorf("played %v, want a.mp3 then noon.mp3", got)
	}
	headers := rec.ofType(core.EventHeader)
	if len(headers) != 2 || headers[1].Hour != 12 {
		t.Errorf("headers = %+v, want one transition straight to 12", headers)
	}
}

func TestWeatherChangeRebuildsPlaylist(t *testing.T) {
	cat := newFakeCatalog()
	cat.set(9, core.ConditionSunny, "a.mp3", "b.mp3")
	cat.set(9, core.ConditionRainy, "rain.mp3")

	var e *Engine
	player := &fakePlayer{fn: func(_ context.Context, n int, _ core.Track) error {
		switch n {
		case 1:
			e.QueueWeatherChange(core.ConditionRainy)
		case 2:
			e.Stop()
		}
		return nil
	}}
	rec := &recorder{}
	e = New(cat, player, rec)

	wait(t, run(e, context.Background(), 9, core.ConditionSunny))

	if got := player.names(); !reflect.DeepEqual(got, []string{"a.mp3", "rain.mp3"}) {
		t.Errorf("played %v, want a.mp3 then rain.mp3", got)
	}
	if last := cat.lastCall(); last.weather != core.ConditionRainy {
		t.Errorf("last catalog lookup weather = %q, want rainy", last.weather)
	}

	applied := rec.ofType(core.EventWeatherApplied)
	if len(applied) != 1 {
		t.Fatalf("%d weather applied events, want 1", len(applied))
	}
	if applied[0].PrevCondition != core.ConditionSunny || applied[0].Condition != core.ConditionRainy {
		t.Errorf("weather applied = %q -> %q, want sunny -> rainy", applied[0].PrevCondition, applied[0].Condition)
	}
	if n := len(rec.ofType(core.EventHeader)); n != 1 {
		t.Errorf("%d header events, want 1 (weather alone does not redraw the header)", n)
	}
}

func TestEmptyPlaylistBacksOff(t *testing.T) {
	const backoff = 40 * time.Millisecond

	var e *Engine
	rec := &recorder{}
	rec.hook = func(ev core.Event) {
		if ev.Type == core.EventEmpty && len(rec.ofType(core.EventEmpty)) == 3 {
			e.Stop()
		}
	}
	e = New(newFakeCatalog(), &fakePlayer{}, rec, WithBackoff(backoff))

	wait(t, run(e, context.Background(), 9, core.ConditionNone))

	empties := rec.ofType(core.EventEmpty)
	if len(empties) != 3 {
		t.Fatalf("%d empty events, want 3", len(empties))
	}
	for i := 1; i < len(empties); i++ {
		if gap := empties[i].Timestamp.Sub(empties[i-1].Timestamp); gap < backoff {
			t.Errorf("rescan %d after %v, want at least %v", i, gap, backoff)
		}
	}
	if empties[0].Backoff != backoff {
		t.Errorf("Backoff = %v, want %v", empties[0].Backoff, backoff)
	}
}

func TestChangeDuringBackoffRecovers(t *testing.T) {
	const backoff = 60 * time.Millisecond

	cat := newFakeCatalog()
	cat.set(10, core.ConditionNone, "x.mp3")

	var e *Engine
	var emptyAt time.Time
	var waited time.Duration
	rec := &recorder{}
	rec.hook = func(ev core.Event) {
		if ev.Type == core.EventEmpty && emptyAt.IsZero() {
			emptyAt = ev.Timestamp
			go e.QueueHourChange(10)
		}
	}
	player := &fakePlayer{fn: func(_ context.Context, _ int, _ core.Track) error {
		waited = time.Since(emptyAt)
		e.Stop()
		return nil
	}}
	e = New(cat, player, rec, WithBackoff(backoff))

	wait(t, run(e, context.Background(), 9, core.ConditionNone))

	if got := player.names(); !reflect.DeepEqual(got, []string{"x.mp3"}) {
		t.Fatalf("played %v, want x.mp3 after the change", got)
	}
	if waited < backoff {
		t.Errorf("recovered after %v, want the full backoff %v", waited, backoff)
	}
}

func TestStopDuringBackoff(t *testing.T) {
	waiting := make(chan struct{})
	var once sync.Once
	rec := &recorder{hook: func(ev core.Event) {
		if ev.Type == core.EventEmpty {
			once.Do(func() { close(waiting) })
		}
	}}
	e := New(newFakeCatalog(), &fakePlayer{}, rec, WithBackoff(time.Hour))

	done := run(e, context.Background(), 9, core.ConditionNone)
	<-waiting
	if e.State() != core.StateWaiting {
		t.Errorf("State() = %v, want waiting", e.State())
	}
	e.Stop()
	wait(t, done)
}

func TestStopAsSoonAsRunning(t *testing.T) {
	for i := 0; i < 200; i++ {
		e := New(newFakeCatalog(), &fakePlayer{}, nil, WithBackoff(time.Hour))

		done := run(e, context.Background(), 9, core.ConditionNone)
		for !e.Running() {
			select {
			case err := <-done:
				t.Fatalf("Start() returned early: %v", err)
			default:
			}
		}
		e.Stop()
		wait(t, done)

		if e.Running() {
			t.Fatalf("iteration %d: Running() = true after Start returned", i)
		}
	}
}
