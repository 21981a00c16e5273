package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/gogpu/sigplay"
	"github.com/gogpu/sigplay/recording"
)

func runSnapshot(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("snapshot", flag.ContinueOnError)
	var (
		play     playFlags
		step     = fs.Int("step", -1, "stroke index of the playback state (-1 is idle)")
		backward = fs.Bool("backward", false, "render the erasing direction")
		elapsed  = fs.Duration("elapsed", 0, "time spent in the state when the snapshot is taken")
		output   = fs.String("o", "-", "output file, - for stdout")
		format   = fs.String("format", "", "svg, png or pdf (default from -o extension, else svg)")
		width    = fs.Int("width", 800, "png width in pixels")
	)
	play.register(fs, true)

	url, err := parse(fs, args)
	if err != nil {
		return err
	}
	play.setupLogging()

	doc, err := sigplay.DefaultLoader.Load(ctx, url)
	if err != nil {
		return err
	}
	if *step < -1 || *step >= doc.Len() {
		return fmt.Errorf("step %d out of range [-1, %d]", *step, doc.Len()-1)
	}

	st := sigplay.State{Step: *step, Direction: sigplay.Forward}
	if *backward {
		st.Direction = sigplay.Backward
	}
	f := sigplay.NewRenderer(doc, play.config()).Frame(st, time.Time{})
	return write(recording.Record(f, *elapsed), formatOf(*format, *output), *width, *output, stdout)
}
