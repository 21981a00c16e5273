// Command sigplay plays signature documents.
//
// Usage:
//
//	sigplay snapshot [flags] <document>   render one playback state
//	sigplay frames   [flags] <document>   render a frame sequence
//	sigplay serve    [flags] <document>   live preview over a websocket
//
// A document is an http(s) URL, a file:// URL or a file path.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/gogpu/sigplay"
	"github.com/gogpu/sigplay/recording"
	"github.com/gogpu/sigplay/recording/backends/pdf"
	"github.com/gogpu/sigplay/recording/backends/raster"
	"github.com/gogpu/sigplay/recording/backends/svg"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "snapshot":
		err = runSnapshot(ctx, args, os.Stdout)
	case "frames":
		err = runFrames(ctx, args)
	case "serve":
		err = runServe(ctx, args)
	case "help", "-h", "-help", "--help":
		usage(os.Stdout)
		return
	default:
		usage(os.Stderr)
		log.Fatalf("sigplay: unknown command %q", cmd)
	}
	if err != nil {
		log.Fatalf("sigplay %s: %v", os.Args[1], err)
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `usage: sigplay <command> [flags] <document>

commands:
  snapshot   render one playback state to svg, png or pdf
  frames     render the animation as a numbered frame sequence
  serve      serve a live preview of the animation

backends: %s

Run "sigplay <command> -h" for the flags of a command.
`, strings.Join(recording.Backends(), ", "))
}

// playFlags are the playback settings shared by every command.
type playFlags struct {
	verbose          bool
	loop             bool
	strokeDuration   time.Duration
	interStrokeDelay time.Duration
	postWriteDwell   time.Duration
	postEraseDwell   time.Duration
}

func (f *playFlags) register(fs *flag.FlagSet, loop bool) {
	def := sigplay.DefaultConfig()
	fs.BoolVar(&f.verbose, "v", false, "log playback transitions")
	fs.BoolVar(&f.loop, "loop", loop, "erase and rewrite the signature forever")
	fs.DurationVar(&f.strokeDuration, "stroke-duration", def.StrokeDuration, "time to reveal one stroke")
	fs.DurationVar(&f.interStrokeDelay, "inter-stroke-delay", def.InterStrokeDelay, "pause between strokes")
	fs.DurationVar(&f.postWriteDwell, "post-write-dwell", def.PostWriteDwell, "pause after the last stroke is written")
	fs.DurationVar(&f.postEraseDwell, "post-erase-dwell", def.PostEraseDwell, "pause after the first stroke is erased")
}

func (f *playFlags) config() sigplay.Config {
	return sigplay.Config{
		Loop:             f.loop,
		StrokeDuration:   f.strokeDuration,
		InterStrokeDelay: f.interStrokeDelay,
		PostWriteDwell:   f.postWriteDwell,
		PostEraseDwell:   f.postEraseDwell,
	}
}

// setupLogging installs a text logger on stderr.
func (f *playFlags) setupLogging() {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	sigplay.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// parse parses args and returns the single document argument.
func parse(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return "", fmt.Errorf("expected one document, got %d arguments", fs.NArg())
	}
	return fs.Arg(0), nil
}

// newBackend returns the backend for an output format. Formats other than
// the built-in ones are looked up in the backend registry.
func newBackend(format string, width int) (recording.Backend, error) {
	switch format {
	case "svg":
		return svg.NewBackend(), nil
	case "png", "raster":
		return raster.NewBackend(raster.WithSize(width, 0), raster.WithBackground(sigplay.White)), nil
	case "pdf":
		return pdf.NewBackend(pdf.WithTitle("signature")), nil
	}
	return recording.NewBackend(format)
}

// formatOf picks the output format from an explicit flag or the output
// file extension.
func formatOf(format, output string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	if i := strings.LastIndexByte(output, '.'); i >= 0 && output != "-" {
		return strings.ToLower(output[i+1:])
	}
	return "svg"
}

// write plays rec into a new backend and writes the result to output,
// "-" meaning w.
func write(rec *recording.Recording, format string, width int, output string, w io.Writer) error {
	b, err := newBackend(format, width)
	if err != nil {
		return err
	}
	if err := rec.Playback(b); err != nil {
		return err
	}
	if output == "-" {
		wb, ok := b.(recording.WriterBackend)
		if !ok {
			return fmt.Errorf("backend %q cannot write to stdout", format)
		}
		_, err := wb.WriteTo(w)
		return err
	}
	fb, ok := b.(recording.FileBackend)
	if !ok {
		return fmt.Errorf("backend %q cannot write files", format)
	}
	return fb.SaveToFile(output)
}
