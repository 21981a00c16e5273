package sigplay

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Container is the host attachment point of a player. Present receives
// the full surface each time the playback state changes, strokes in
// write order.
//
// Present is called from timer goroutines, one call at a time. It must
// not call Player.Close; cancel the Mount context instead.
type Container interface {
	Present(f Frame)
}

// ContainerFunc adapts an ordinary function to the Container interface.
type ContainerFunc func(f Frame)

// Present calls f(frame).
func (f ContainerFunc) Present(frame Frame) {
	f(frame)
}

// Player plays one signature document into a Container. It is the handle
// returned by Mount; Close disposes of it.
type Player struct {
	opts      options
	container Container

	ctx       context.Context
	cancelAll context.CancelFunc
	stopAfter func() bool

	// presentMu serializes Present calls and lets Close wait for an
	// in-flight one.
	presentMu sync.Mutex

	mu         sync.Mutex
	url        string
	loadGen    uint64
	cancelLoad context.CancelFunc
	ready      chan struct{}
	err        error
	sess       *session
	frame      Frame
	closed     bool
}

// session is the playback of one loaded document.
type session struct {
	renderer *Renderer
	ctrl     *Controller
}

// Mount starts loading the document at url and plays it into container
// once loaded: after DisplayDelay the first stroke is written, then the
// controller advances on the configured cadence.
//
// Loading is asynchronous; Ready reports its completion. A failed load is
// logged, recorded in Err, and leaves the player idle for good: nothing
// is retried. Cancelling ctx disposes of the player like Close.
func Mount(ctx context.Context, container Container, url string, opts ...Option) *Player {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	o.config = o.config.normalize()

	pctx, cancel := context.WithCancel(ctx)
	p := &Player{
		opts:      o,
		container: container,
		ctx:       pctx,
		cancelAll: cancel,
	}
	p.stopAfter = context.AfterFunc(ctx, func() { _ = p.Close() })

	p.mu.Lock()
	p.load(url)
	p.mu.Unlock()
	return p
}

// SetDocument replaces the played document. The in-flight load and any
// pending transition of the previous document are cancelled before the
// new document is fetched; playback restarts from the idle state.
func (p *Player) SetDocument(url string) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	old := p.sess
	p.sess = nil
	p.load(url)
	p.mu.Unlock()

	if old != nil {
		old.ctrl.Stop()
	}
	return nil
}

// Close cancels the in-flight load and every pending timer. Once Close
// returns, the container receives no further frames. Close is idempotent.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	sess := p.sess
	url := p.url
	p.mu.Unlock()

	p.cancelAll()
	p.stopAfter()
	if sess != nil {
		sess.ctrl.Stop()
	}

	// Wait for an in-flight Present.
	p.presentMu.Lock()
	p.presentMu.Unlock()

	Logger().Info("sigplay: player closed", "url", url)
	return nil
}

// Ready returns a channel closed when the current document load has
// finished, successfully or not.
func (p *Player) Ready() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ready
}

// Err returns the error of the last document load, if it failed.
func (p *Player) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// State returns the current playback state; Idle until a document has
// loaded.
func (p *Player) State() State {
	p.mu.Lock()
	sess := p.sess
	p.mu.Unlock()
	if sess == nil {
		return Idle
	}
	return sess.ctrl.State()
}

// Halted reports whether a non-looping playback has finished.
func (p *Player) Halted() bool {
	p.mu.Lock()
	sess := p.sess
	p.mu.Unlock()
	return sess != nil && sess.ctrl.Halted()
}

// Snapshot returns the most recently presented frame. It reports false
// until a document has loaded.
func (p *Player) Snapshot() (Frame, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sess == nil {
		return Frame{}, false
	}
	return p.frame, true
}

// Document returns the loaded document, or nil.
func (p *Player) Document() *Document {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sess == nil {
		return nil
	}
	return p.sess.renderer.Document()
}

// load starts fetching url. p.mu must be held.
func (p *Player) load(url string) {
	if p.cancelLoad != nil {
		p.cancelLoad()
	}
	ctx, cancel := context.WithCancel(p.ctx)
	p.cancelLoad = cancel
	p.url = url
	p.err = nil
	p.frame = Frame{}
	p.loadGen++
	ready := make(chan struct{})
	p.ready = ready

	go p.fetch(ctx, p.loadGen, url, ready)
}

func (p *Player) fetch(ctx context.Context, gen uint64, url string, ready chan struct{}) {
	defer close(ready)

	doc, err := p.opts.loader.Load(ctx, url)

	p.mu.Lock()
	if p.closed || gen != p.loadGen || ctx.Err() != nil {
		p.mu.Unlock()
		Logger().Debug("sigplay: document load cancelled", "url", url)
		return
	}
	if err != nil {
		p.err = err
		p.mu.Unlock()
		if errors.Is(err, context.Canceled) {
			Logger().Debug("sigplay: document load cancelled", "url", url)
			return
		}
		Logger().Error("sigplay: document load failed", "url", url, "err", err)
		return
	}

	sess := &session{renderer: NewRenderer(doc, p.opts.config)}
	sess.ctrl = NewController(doc.Len(), p.opts.config, p.opts.clock, func(st State, since time.Time) {
		p.emit(sess, sess.renderer.Frame(st, since))
	})
	initial := sess.renderer.Frame(Idle, p.opts.clock.Now())
	p.sess = sess
	p.frame = initial
	p.mu.Unlock()

	Logger().Info("sigplay: document loaded", "url", url, "strokes", doc.Len())
	p.emit(sess, initial)
	sess.ctrl.Start()
}

// emit presents a frame of sess unless the player was closed or the
// session superseded.
func (p *Player) emit(sess *session, f Frame) {
	p.presentMu.Lock()
	defer p.presentMu.Unlock()

	p.mu.Lock()
	if p.closed || p.sess != sess {
		p.mu.Unlock()
		return
	}
	p.frame = f
	p.mu.Unlock()

	if p.container != nil {
		p.container.Present(f)
	}
}
