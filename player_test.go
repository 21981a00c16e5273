package sigplay

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gogpu/sigplay/clock"
)

// frameLog is a Container recording presented states.
type frameLog struct {
	mu     sync.Mutex
	frames []Frame
}

func (l *frameLog) Present(f Frame) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.frames = append(l.frames, f)
}

func (l *frameLog) states() []State {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]State, len(l.frames))
	for i, f := range l.frames {
		out[i] = f.State
	}
	return out
}

func (l *frameLog) last() Frame {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames[len(l.frames)-1]
}

func waitReady(t *testing.T, p *Player) {
	t.Helper()
	select {
	case <-p.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("player never became ready")
	}
}

func staticLoader(docs map[string]*Document) Loader {
	return LoaderFunc(func(_ context.Context, url string) (*Document, error) {
		doc, ok := docs[url]
		if !ok {
			return nil, ErrLoad
		}
		return doc, nil
	})
}

func equalStates(a, b []State) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPlayerPlays(t *testing.T) {
	doc := rendererTestDocument(t)
	clk := clock.NewManual(epoch)
	log := &frameLog{}

	p := Mount(context.Background(), log, "sig", WithClock(clk), WithLoop(false),
		WithLoader(staticLoader(map[string]*Document{"sig": doc})))
	defer p.Close()
	waitReady(t, p)

	if p.Err() != nil {
		t.Fatalf("Err() = %v", p.Err())
	}
	if p.Document() != doc {
		t.Error("Document() should return the loaded document")
	}
	f, ok := p.Snapshot()
	if !ok || f.State != Idle || len(f.Strokes) != doc.Len() {
		t.Errorf("Snapshot() = %v %v, want the idle frame", f.State, ok)
	}
	if got := log.states(); !equalStates(got, []State{Idle}) {
		t.Fatalf("frames = %v, want the idle frame only", got)
	}

	clk.Advance(DisplayDelay)
	if got := p.State(); got != fwd(0) {
		t.Errorf("State() = %v, want 0/forward", got)
	}
	if f, _ := p.Snapshot(); !f.Since.Equal(epoch.Add(DisplayDelay)) {
		t.Errorf("Snapshot().Since = %v, want epoch+500ms", f.Since)
	}

	clk.Advance(time.Minute)
	want := []State{Idle, fwd(0), fwd(1), fwd(2)}
	if got := log.states(); !equalStates(got, want) {
		t.Errorf("frames = %v, want %v", got, want)
	}
	if !p.Halted() {
		t.Error("Halted() = false, want true")
	}
	last := log.last()
	for i, s := range last.Strokes {
		wantClass := Completed
		if i == 2 {
			wantClass = Current
		}
		if s.Class != wantClass {
			t.Errorf("final stroke %d class = %v, want %v", i, s.Class, wantClass)
		}
	}
}

func TestPlayerFadesDecodedDocumentWithoutLooping(t *testing.T) {
	doc := decodeString(t, `{
		"svgInfo": {"viewBox": "0 0 60 10"},
		"paths": [
			{"id": "a", "d": "M0 0 H10 V10 H0 Z"},
			{"id": "b", "d": "M20 0 H30 V10 H20 Z"},
			{"id": "c", "d": "M40 0 H50 V10 H40 Z"}
		]
	}`)
	clk := clock.NewManual(epoch)
	log := &frameLog{}
	cfg := DefaultConfig()

	p := Mount(context.Background(), log, "sig", WithClock(clk), WithLoop(false),
		WithLoader(staticLoader(map[string]*Document{"sig": doc})))
	defer p.Close()
	waitReady(t, p)
	clk.Advance(time.Hour)

	if !p.Halted() {
		t.Fatal("Halted() = false, want true")
	}
	for i, st := range log.states() {
		if st.Direction == Backward {
			t.Errorf("frame %d = %v: strokes must never be erased", i, st)
		}
	}
	last := log.last()
	if len(last.Strokes) != 3 {
		t.Fatalf("final frame has %d strokes, want 3", len(last.Strokes))
	}
	for i, s := range last.Strokes {
		if s.Traced() {
			t.Errorf("stroke %d is traced, want faded", i)
		}
		if got := s.Opacity.At(cfg.StrokeDuration); got != 1 {
			t.Errorf("stroke %d final opacity = %v, want 1", i, got)
		}
	}
}

func TestPlayerLoadFailure(t *testing.T) {
	clk := clock.NewManual(epoch)
	log := &frameLog{}
	boom := errors.New("boom")

	p := Mount(context.Background(), log, "sig", WithClock(clk),
		WithLoader(LoaderFunc(func(context.Context, string) (*Document, error) {
			return nil, boom
		})))
	defer p.Close()
	waitReady(t, p)

	if !errors.Is(p.Err(), boom) {
		t.Errorf("Err() = %v, want %v", p.Err(), boom)
	}
	if p.State() != Idle || p.Halted() {
		t.Errorf("State() = %v Halted() = %v, want idle", p.State(), p.Halted())
	}
	if _, ok := p.Snapshot(); ok {
		t.Error("Snapshot() should report false without a document")
	}
	clk.Advance(time.Minute)
	if n := len(log.states()); n != 0 {
		t.Errorf("got %d frames, want 0", n)
	}
	if clk.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", clk.Pending())
	}
}

func TestPlayerCloseDuringLoad(t *testing.T) {
	doc := rendererTestDocument(t)
	clk := clock.NewManual(epoch)
	log := &frameLog{}
	started := make(chan struct{})
	release := make(chan struct{})

	// The loader ignores cancellation and completes after Close.
	p := Mount(context.Background(), log, "sig", WithClock(clk),
		WithLoader(LoaderFunc(func(context.Context, string) (*Document, error) {
			close(started)
			<-release
			return doc, nil
		})))
	<-started
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	close(release)
	waitReady(t, p)

	clk.Advance(time.Minute)
	if n := len(log.states()); n != 0 {
		t.Errorf("got %d frames after Close, want 0", n)
	}
	if clk.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", clk.Pending())
	}
	if p.Err() != nil {
		t.Errorf("Err() = %v, want nil for a cancelled load", p.Err())
	}
	if err := p.SetDocument("sig"); !errors.Is(err, ErrClosed) {
		t.Errorf("SetDocument() error = %v, want ErrClosed", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestPlayerCancelledLoad(t *testing.T) {
	clk := clock.NewManual(epoch)
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})

	p := Mount(ctx, nil, "sig", WithClock(clk),
		WithLoader(LoaderFunc(func(ctx context.Context, _ string) (*Document, error) {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		})))
	<-started
	cancel()
	waitReady(t, p)

	if p.Err() != nil {
		t.Errorf("Err() = %v, want nil for a cancelled load", p.Err())
	}
	if p.State() != Idle {
		t.Errorf("State() = %v, want idle", p.State())
	}
}

func TestPlayerSetDocument(t *testing.T) {
	a := rendererTestDocument(t)
	b := &Document{
		Viewport: Viewport{Width: 10, Height: 10},
		Strokes:  []Stroke{{ID: "z", Outline: MustParsePathData("M0 0 H10 V10 Z"), Fill: Black}},
	}
	clk := clock.NewManual(epoch)
	log := &frameLog{}

	p := Mount(context.Background(), log, "a", WithClock(clk),
		WithLoader(staticLoader(map[string]*Document{"a": a, "b": b})))
	defer p.Close()
	waitReady(t, p)
	clk.Advance(ms(1600))
	if p.State() != fwd(1) {
		t.Fatalf("State() = %v, want 1/forward", p.State())
	}

	if err := p.SetDocument("b"); err != nil {
		t.Fatalf("SetDocument() error = %v", err)
	}
	waitReady(t, p)

	if p.Document() != b {
		t.Fatal("Document() should return the new document")
	}
	if p.State() != Idle {
		t.Errorf("State() = %v, want idle after swap", p.State())
	}
	if clk.Pending() != 1 {
		t.Errorf("Pending() = %d, want only the new display delay", clk.Pending())
	}
	if got := log.last(); got.State != Idle || len(got.Strokes) != 1 {
		t.Errorf("last frame = %v with %d strokes, want the idle frame of b", got.State, len(got.Strokes))
	}

	clk.Advance(DisplayDelay)
	if got := log.last(); got.State != fwd(0) || got.Strokes[0].ID != "z" {
		t.Errorf("last frame = %v %q, want 0/forward of b", got.State, got.Strokes[0].ID)
	}
}

func TestPlayerClose(t *testing.T) {
	clk := clock.NewManual(epoch)
	log := &frameLog{}
	p := Mount(context.Background(), log, "a", WithClock(clk),
		WithLoader(staticLoader(map[string]*Document{"a": rendererTestDocument(t)})))
	waitReady(t, p)
	clk.Advance(DisplayDelay)

	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	n := len(log.states())
	clk.Advance(time.Minute)
	if got := len(log.states()); got != n {
		t.Errorf("got %d frames after Close, want %d", got, n)
	}
	if clk.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", clk.Pending())
	}
}

func TestPlayerContextCancelCloses(t *testing.T) {
	clk := clock.NewManual(epoch)
	ctx, cancel := context.WithCancel(context.Background())
	p := Mount(ctx, &frameLog{}, "a", WithClock(clk),
		WithLoader(staticLoader(map[string]*Document{"a": rendererTestDocument(t)})))
	waitReady(t, p)
	cancel()

	deadline := time.Now().Add(5 * time.Second)
	for {
		p.mu.Lock()
		closed := p.closed
		p.mu.Unlock()
		if closed {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("cancelling the mount context did not close the player")
		}
		time.Sleep(time.Millisecond)
	}
	// Close stops the controller after marking the player closed.
	for clk.Pending() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("timers still pending after context cancellation")
		}
		time.Sleep(time.Millisecond)
	}
}
