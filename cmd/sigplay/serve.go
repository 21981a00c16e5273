package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gogpu/sigplay"
	"github.com/gogpu/sigplay/recording"
	"github.com/gogpu/sigplay/recording/backends/svg"
)

//go:embed static
var staticFS embed.FS

const writeTimeout = 5 * time.Second

func runServe(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)
	var (
		play playFlags
		addr = flags.String("addr", "localhost:8080", "listen address")
		ttl  = flags.Duration("cache-ttl", 30*time.Second, "reuse the loaded document for this long (0 reloads per connection)")
	)
	play.register(flags, true)

	url, err := parse(flags, args)
	if err != nil {
		return err
	}
	play.setupLogging()

	loader := sigplay.NewCachingLoader(sigplay.DefaultLoader, 8, *ttl)
	handler, err := newPreviewHandler(url, sigplay.WithConfig(play.config()), sigplay.WithLoader(loader))
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              *addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	sigplay.Logger().Info("serving preview", "addr", *addr, "document", url)
	err = srv.ListenAndServe()
	st := loader.Stats()
	sigplay.Logger().Info("preview stopped", "cache_hits", st.Hits, "cache_misses", st.Misses)
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// previewHandler serves the preview page and, on /ws, one player per
// websocket connection streaming every frame as an SVG document.
type previewHandler struct {
	mux      *http.ServeMux
	url      string
	opts     []sigplay.Option
	upgrader websocket.Upgrader
}

func newPreviewHandler(url string, opts ...sigplay.Option) (*previewHandler, error) {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, err
	}
	h := &previewHandler{mux: http.NewServeMux(), url: url, opts: opts}
	h.mux.Handle("GET /", http.FileServer(http.FS(sub)))
	h.mux.HandleFunc("GET /ws", h.serveWS)
	return h, nil
}

func (h *previewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *previewHandler) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		sigplay.Logger().Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Frames are presented one at a time, so writes never overlap. A failed
	// write ends the connection through ctx; Present must not Close the
	// player itself.
	container := sigplay.ContainerFunc(func(f sigplay.Frame) {
		out, err := svg.Render(recording.Record(f, 0))
		if err == nil {
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err = conn.WriteMessage(websocket.TextMessage, out)
		}
		if err != nil {
			sigplay.Logger().Debug("preview write failed", "remote", r.RemoteAddr, "err", err)
			cancel()
		}
	})
	p := sigplay.Mount(ctx, container, h.url, h.opts...)
	defer p.Close()

	// The client sends nothing; reading detects the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	<-ctx.Done()
}
