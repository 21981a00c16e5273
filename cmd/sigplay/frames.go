package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gogpu/sigplay"
	"github.com/gogpu/sigplay/clock"
	"github.com/gogpu/sigplay/internal/parallel"
	"github.com/gogpu/sigplay/recording"
)

// maxFramesDuration bounds a non-looping render.
const maxFramesDuration = 10 * time.Minute

// runFrames plays the document on a virtual clock and renders a frame at
// every 1/fps step, so the sequence follows the exact playback timing no
// matter how long rendering takes. Frames are captured in order and
// encoded by a worker pool.
func runFrames(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("frames", flag.ContinueOnError)
	var (
		play     playFlags
		fps      = fs.Int("fps", 30, "frames per second")
		duration = fs.Duration("duration", 0, "length of the sequence (required with -loop)")
		dir      = fs.String("dir", "frames", "output directory")
		format   = fs.String("format", "png", "svg, png or pdf")
		width    = fs.Int("width", 800, "png width in pixels")
		workers  = fs.Int("workers", 0, "encoding goroutines (0 = GOMAXPROCS)")
	)
	play.register(fs, false)

	url, err := parse(fs, args)
	if err != nil {
		return err
	}
	play.setupLogging()

	if *fps <= 0 {
		return fmt.Errorf("invalid -fps %d", *fps)
	}
	if play.loop && *duration <= 0 {
		return errors.New("-duration is required with -loop")
	}
	if err := os.MkdirAll(*dir, 0o755); err != nil {
		return err
	}

	start := time.Unix(0, 0)
	clk := clock.NewManual(start)
	p := sigplay.Mount(ctx, nil, url,
		sigplay.WithConfig(play.config()),
		sigplay.WithClock(clk),
	)
	defer p.Close()

	select {
	case <-p.Ready():
	case <-ctx.Done():
		return ctx.Err()
	}
	if err := p.Err(); err != nil {
		return err
	}

	cfg := play.config()
	step := time.Second / time.Duration(*fps)
	limit := *duration
	if limit <= 0 {
		limit = maxFramesDuration
	}

	pool := parallel.NewWorkerPool(*workers)
	defer pool.Close()

	n := 0
	for t := time.Duration(0); t <= limit; t += step {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := pool.Err(); err != nil {
			return err
		}
		clk.AdvanceTo(start.Add(t))
		f, ok := p.Snapshot()
		if !ok {
			return errors.New("player has no frame")
		}
		elapsed := f.Elapsed(clk.Now())
		rec := recording.Record(f, elapsed)
		name := filepath.Join(*dir, fmt.Sprintf("frame-%05d.%s", n, extension(*format)))
		pool.Submit(func() error {
			return write(rec, *format, *width, name, nil)
		})
		n++

		// Without a duration, stop once playback halted and the last
		// stroke finished revealing.
		if *duration <= 0 && p.Halted() && elapsed >= cfg.StrokeDuration {
			break
		}
	}
	if err := pool.Wait(); err != nil {
		return err
	}
	sigplay.Logger().Info("frames written", slog.Int("count", n), slog.String("dir", *dir))
	return nil
}

func extension(format string) string {
	if format == "raster" {
		return "png"
	}
	return format
}
