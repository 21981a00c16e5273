package raster

import (
	"bytes"
	"errors"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/gogpu/sigplay"
	"github.com/gogpu/sigplay/recording"
)

// frame renders a 100x50 document with one traced stroke (pen segments of
// length 30 and 10 along y=2) and one faded stroke below it.
func frame(st sigplay.State) sigplay.Frame {
	doc := &sigplay.Document{
		Viewport: sigplay.Viewport{Width: 100, Height: 50},
		Strokes: []sigplay.Stroke{
			{
				ID:      "first",
				Outline: sigplay.MustParsePathData("M0 0 H40 V5 H0 Z"),
				Fill:    sigplay.RGBA{R: 1, A: 1},
				Trace: &sigplay.PenTrace{Segments: []sigplay.TraceSegment{
					{Path: sigplay.MustParsePathData("M0 2 H30"), Width: 5},
					{Path: sigplay.MustParsePathData("M30 2 H40"), Width: 5},
				}},
			},
			{
				ID:      "second",
				Outline: sigplay.MustParsePathData("M0 10 H40 V15 H0 Z"),
				Fill:    sigplay.Black,
			},
		},
	}
	return sigplay.NewRenderer(doc, sigplay.DefaultConfig()).Frame(st, time.Time{})
}

func play(t *testing.T, f sigplay.Frame, elapsed time.Duration) *Backend {
	t.Helper()
	b := NewBackend(WithSize(200, 0))
	if err := recording.Record(f, elapsed).Playback(b); err != nil {
		t.Fatalf("Playback() error = %v", err)
	}
	return b
}

// alpha returns the alpha of the device pixel at document point (x, y);
// the test surface is scaled by 2.
func alpha(b *Backend, x, y float64) uint32 {
	_, _, _, a := b.Image().At(int(x*2), int(y*2)).RGBA()
	return a
}

func TestBackendRegistration(t *testing.T) {
	backend, err := recording.NewBackend("raster")
	if err != nil {
		t.Fatalf("NewBackend(\"raster\") error = %v", err)
	}
	if _, ok := backend.(*Backend); !ok {
		t.Errorf("NewBackend(\"raster\") = %T, want *Backend", backend)
	}
}

func TestSize(t *testing.T) {
	vp := sigplay.Viewport{Width: 100, Height: 50}
	tests := []struct {
		name         string
		opts         []Option
		wantW, wantH int
	}{
		{"default", nil, DefaultWidth, DefaultWidth / 2},
		{"derived height", []Option{WithSize(200, 0)}, 200, 100},
		{"explicit", []Option{WithSize(64, 64)}, 64, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := NewBackend(tt.opts...).Size(vp)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Size() = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestIdleFrameIsEmpty(t *testing.T) {
	b := play(t, frame(sigplay.Idle), 0)
	bounds := b.Image().Bounds()
	if bounds.Dx() != 200 || bounds.Dy() != 100 {
		t.Fatalf("image size = %v, want 200x100", bounds.Size())
	}
	for _, pt := range [][2]float64{{20, 2}, {20, 12}} {
		if a := alpha(b, pt[0], pt[1]); a != 0 {
			t.Errorf("alpha at %v = %d, want 0", pt, a)
		}
	}
}

func TestPartialReveal(t *testing.T) {
	// 375ms into the first stroke, half of the 30 unit segment is drawn.
	b := play(t, frame(sigplay.State{Step: 0, Direction: sigplay.Forward}), 375*time.Millisecond)

	if a := alpha(b, 5, 2); a < 0xff00 {
		t.Errorf("alpha inside revealed part = %#x, want opaque", a)
	}
	if a := alpha(b, 25, 2); a != 0 {
		t.Errorf("alpha beyond revealed part = %#x, want 0", a)
	}
	if a := alpha(b, 20, 12); a != 0 {
		t.Errorf("pending stroke alpha = %#x, want 0", a)
	}
	r, g, _, _ := b.Image().At(10, 4).RGBA()
	if r < 0xff00 || g != 0 {
		t.Errorf("revealed color = (%#x, %#x), want red", r, g)
	}
}

func TestRevealProgress(t *testing.T) {
	// The first 30 unit segment takes 750ms; the dash edge advances
	// linearly along y=2.
	tests := []struct {
		elapsed time.Duration
		edge    float64
	}{
		{150 * time.Millisecond, 6},
		{600 * time.Millisecond, 24},
	}
	for _, tt := range tests {
		t.Run(tt.elapsed.String(), func(t *testing.T) {
			b := play(t, frame(sigplay.State{Step: 0, Direction: sigplay.Forward}), tt.elapsed)
			if a := alpha(b, tt.edge-2, 2); a < 0xff00 {
				t.Errorf("alpha before edge = %#x, want opaque", a)
			}
			if a := alpha(b, tt.edge+3, 2); a != 0 {
				t.Errorf("alpha after edge = %#x, want 0", a)
			}
			if a := alpha(b, 35, 2); a != 0 {
				t.Errorf("second segment alpha = %#x, want 0", a)
			}
		})
	}
}

func TestCompletedFrame(t *testing.T) {
	b := play(t, frame(sigplay.State{Step: 1, Direction: sigplay.Forward}), 2*time.Second)
	for _, pt := range [][2]float64{{5, 2}, {35, 2}, {20, 12}} {
		if a := alpha(b, pt[0], pt[1]); a < 0xff00 {
			t.Errorf("alpha at %v = %#x, want opaque", pt, a)
		}
	}
}

func TestBackground(t *testing.T) {
	b := NewBackend(WithSize(20, 10), WithBackground(sigplay.White))
	if err := recording.Record(frame(sigplay.Idle), 0).Playback(b); err != nil {
		t.Fatalf("Playback() error = %v", err)
	}
	r, g, bl, a := b.Image().At(1, 1).RGBA()
	if r != 0xffff || g != 0xffff || bl != 0xffff || a != 0xffff {
		t.Errorf("background = (%#x %#x %#x %#x), want opaque white", r, g, bl, a)
	}
}

func TestPNGOutput(t *testing.T) {
	b := NewBackend()
	if _, err := b.WriteTo(&bytes.Buffer{}); !errors.Is(err, ErrNotFinished) {
		t.Errorf("WriteTo() before End error = %v, want ErrNotFinished", err)
	}
	if b.Image() != nil {
		t.Error("Image() before End should be nil")
	}

	b = play(t, frame(sigplay.Idle), 0)
	var buf bytes.Buffer
	n, err := b.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo() = %d, wrote %d bytes", n, buf.Len())
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if img.Bounds().Dx() != 200 {
		t.Errorf("decoded width = %d, want 200", img.Bounds().Dx())
	}

	if err := b.SaveToFile(filepath.Join(t.TempDir(), "frame.png")); err != nil {
		t.Errorf("SaveToFile() error = %v", err)
	}
}

func TestBeginRejectsEmptyViewport(t *testing.T) {
	if err := NewBackend().Begin(sigplay.Viewport{}, 0); !errors.Is(err, sigplay.ErrInvalidViewBox) {
		t.Errorf("Begin(empty) error = %v, want ErrInvalidViewBox", err)
	}
}
