package fractal_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/color"
	"testing"

	"github.com/rs/zerolog"

	"github.com/zephyrtronium/fractal"
)

// mustParse parses init, first, and iter.
func mustParse(t testing.TB, srcs ...string) []*fractal.Expr {
	t.Helper()
	r := make([]*fractal.Expr, len(srcs))
	for i, src := range srcs {
		a, err := fractal.ParseString(src)
		if err != nil {
			t.Fatalf("%q failed to parse: %v", src, err)
		}
		r[i] = a
	}
	return r
}

const plane = "(x/w*3 - 2) + (y/h*3 - 1.5)*i"

func TestRenderSmall(t *testing.T) {
	e := mustParse(t, "c", "c", "z*z + c")
	img, err := fractal.Render(e[0], e[1], e[2], 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("wrong bounds %v", b)
	}
	if len(img.Pix) != 4*4 {
		t.Errorf("wrong number of pixel bytes %d", len(img.Pix))
	}
	// c is 0 with derivative 1 everywhere, so z never escapes and its
	// distance is NaN, which is black.
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got := img.RGBAAt(x, y); got != (color.RGBA{A: 255}) {
				t.Errorf("pixel (%d, %d) is %v", x, y, got)
			}
		}
	}
}

func TestRenderDistance(t *testing.T) {
	// c = 1 escapes on the first iteration with z = 2, dz/dc = 3, so the
	// distance is 0.7*ln(2)*2/3 ~ 0.3235.
	e := mustParse(t, "1", "c", "z*z + c")
	for _, prec := range []uint{0, 64} {
		img, err := fractal.Render(e[0], e[1], e[2], 1, 1, fractal.Prec(prec))
		if err != nil {
			t.Fatal(err)
		}
		if got, want := img.RGBAAt(0, 0), (color.RGBA{R: 82, G: 82, B: 82, A: 255}); got != want {
			t.Errorf("prec %d: want %v, got %v", prec, want, got)
		}
	}
}

func TestRenderEscapeTime(t *testing.T) {
	cases := []struct {
		name  string
		init  string
		iters int
		want  color.RGBA
	}{
		// 0.5, 0.75, 1.0625, 1.6289, 3.1533
		{"slow", "0.5", 200, color.RGBA{R: 3, A: 255}},
		{"limited", "0.5", 3, color.RGBA{A: 255}},
		{"immediate", "1", 200, color.RGBA{A: 255}},
		{"inside", "-1", 200, color.RGBA{A: 255}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := mustParse(t, c.init, "c", "z*z + c")
			img, err := fractal.Render(e[0], e[1], e[2], 1, 1, fractal.Shading(fractal.EscapeTime), fractal.Iterations(c.iters))
			if err != nil {
				t.Fatal(err)
			}
			if got := img.RGBAAt(0, 0); got != c.want {
				t.Errorf("want %v, got %v", c.want, got)
			}
		})
	}
}

func TestRenderPixelOrder(t *testing.T) {
	// The first row stays inside the escape radius with |c| < 1, so its
	// distance is not positive. The second row escapes immediately with
	// |c| >= 2 and a large distance.
	e := mustParse(t, "x/w + 2*y*i", "0", "c")
	img, err := fractal.Render(e[0], e[1], e[2], 3, 2, fractal.Workers(2))
	if err != nil {
		t.Fatal(err)
	}
	want := []uint8{0, 0, 0, 255, 255, 255}
	for n, g := range want {
		x, y := n%3, n/3
		if got := img.RGBAAt(x, y); got.R != g {
			t.Errorf("pixel (%d, %d) is %v, want gray %d", x, y, got, g)
		}
	}
}

func TestRenderPrecision(t *testing.T) {
	// c differs between the two pixels only by 1e-19, which vanishes when
	// added to 1 in float64. The first iterate magnifies the difference so
	// that the pixels escape on different iterations.
	e := mustParse(t, "1 + x*0.0000000000000000001", "(c - 1)*10000000000000000000", "z + 1.5")
	cases := []struct {
		name string
		prec uint
		want [2]uint8
	}{
		{"float64", 0, [2]uint8{127, 127}},
		{"prec128", 128, [2]uint8{127, 0}},
		{"prec200", 200, [2]uint8{127, 0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			img, err := fractal.Render(e[0], e[1], e[2], 2, 1, fractal.Prec(c.prec), fractal.Iterations(2), fractal.Shading(fractal.EscapeTime))
			if err != nil {
				t.Fatal(err)
			}
			for x, r := range c.want {
				if got := img.RGBAAt(x, 0); got != (color.RGBA{R: r, A: 255}) {
					t.Errorf("pixel %d: want red %d, got %v", x, r, got)
				}
			}
		})
	}
}

func TestRenderPrecisionParallel(t *testing.T) {
	e := mustParse(t, plane, "c", "z*z + c")
	want, err := fractal.Render(e[0], e[1], e[2], 5, 3, fractal.Workers(1), fractal.Prec(80), fractal.Iterations(30))
	if err != nil {
		t.Fatal(err)
	}
	got, err := fractal.Render(e[0], e[1], e[2], 5, 3, fractal.Workers(4), fractal.Prec(80), fractal.Iterations(30))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got.Pix, want.Pix) {
		t.Error("parallel render differs at high precision")
	}
	_, err = fractal.Render(e[0], e[1], mustParse(t, "z/(x-x)")[0], 5, 3, fractal.Prec(80))
	var d *fractal.DivideError
	if !errors.As(err, &d) || d.Pos() != 7 {
		t.Errorf("wrong error %#v", err)
	}
}

func TestRenderLogger(t *testing.T) {
	cases := []struct {
		name   string
		init   string
		ranges int
		failed int
	}{
		{"ok", "c", 3, 0},
		// Only pixel (2, 1) divides by zero, in the last range.
		{"fail", "1/(x+y-3)", 3, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := zerolog.New(zerolog.SyncWriter(&buf)).Level(zerolog.DebugLevel)
			e := mustParse(t, c.init, "c", "z*z + c")
			fractal.Render(e[0], e[1], e[2], 3, 2, fractal.Workers(3), fractal.Logger(log))
			var ranges, failed int
			starts := make(map[int]bool)
			dec := json.NewDecoder(&buf)
			for dec.More() {
				var ev struct {
					Level   string `json:"level"`
					Message string `json:"message"`
					Start   int    `json:"start"`
					Worker  int    `json:"worker"`
					Error   string `json:"error"`
				}
				if err := dec.Decode(&ev); err != nil {
					t.Fatal(err)
				}
				if ev.Level != "debug" {
					t.Errorf("event at level %q", ev.Level)
				}
				switch ev.Message {
				case "render range":
					ranges++
					starts[ev.Start] = true
				case "range failed":
					failed++
					if ev.Worker != 2 || ev.Error != "9: divide by zero" {
						t.Errorf("wrong failure event %+v", ev)
					}
				}
			}
			if ranges != c.ranges || failed != c.failed {
				t.Errorf("want %d ranges and %d failures, got %d and %d", c.ranges, c.failed, ranges, failed)
			}
			if !starts[0] || !starts[2] || !starts[4] {
				t.Errorf("wrong range starts %v", starts)
			}
		})
	}
}

func TestRenderParallel(t *testing.T) {
	cases := []struct {
		name          string
		width, height int
	}{
		{"tiny", 2, 2},
		{"odd", 7, 5},
		{"wide", 31, 3},
		{"tall", 4, 29},
	}
	e := mustParse(t, plane, "c", "z*z + c")
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			want, err := fractal.Render(e[0], e[1], e[2], c.width, c.height, fractal.Workers(1))
			if err != nil {
				t.Fatal(err)
			}
			for _, n := range []int{2, 3, 4, 8, 64, 0} {
				for _, s := range []fractal.Shade{fractal.DistanceEstimate, fractal.EscapeTime} {
					base := want.Pix
					if s == fractal.EscapeTime {
						b, err := fractal.Render(e[0], e[1], e[2], c.width, c.height, fractal.Workers(1), fractal.Shading(s))
						if err != nil {
							t.Fatal(err)
						}
						base = b.Pix
					}
					got, err := fractal.Render(e[0], e[1], e[2], c.width, c.height, fractal.Workers(n), fractal.Shading(s))
					if err != nil {
						t.Fatal(err)
					}
					if !bytes.Equal(got.Pix, base) {
						t.Errorf("%d workers with %v shading gave a different image", n, s)
					}
				}
			}
		})
	}
}

func TestRenderError(t *testing.T) {
	cases := []struct {
		name    string
		init    string
		first   string
		iter    string
		workers int
		col     int
	}{
		{"init", "1/(x-1)", "c", "z*z + c", 3, 7},
		{"first", "c", "1/(y-1)", "z*z + c", 3, 7},
		{"iter", "c", "c", "z/(x-x)", 1, 7},
		// Pixel 0 fails at position 3 and pixel 2 at position 13; the
		// earliest range wins regardless of which worker finishes first.
		{"earliest", "1/x + 1/(x-2)", "c", "z*z + c", 3, 3},
		{"earliest-single", "1/x + 1/(x-2)", "c", "z*z + c", 1, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e := mustParse(t, c.init, c.first, c.iter)
			for i := 0; i < 20; i++ {
				img, err := fractal.Render(e[0], e[1], e[2], 3, 2, fractal.Workers(c.workers))
				if img != nil {
					t.Errorf("got image with error %v", err)
				}
				var d *fractal.DivideError
				if !errors.As(err, &d) {
					t.Fatalf("%#v is not *fractal.DivideError", err)
				}
				if d.Pos() != c.col {
					t.Fatalf("error at %d, want %d", d.Pos(), c.col)
				}
			}
		})
	}
}

func TestRenderInvalidSize(t *testing.T) {
	e := mustParse(t, "c", "c", "z")
	for _, sz := range [][2]int{{0, 1}, {1, 0}, {-1, 5}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("no panic rendering %dx%d", sz[0], sz[1])
				}
			}()
			fractal.Render(e[0], e[1], e[2], sz[0], sz[1])
		}()
	}
}

func TestShadeString(t *testing.T) {
	for _, s := range []fractal.Shade{fractal.DistanceEstimate, fractal.EscapeTime} {
		r, ok := fractal.ParseShade(s.String())
		if !ok || r != s {
			t.Errorf("%v round trips to %v, %t", s, r, ok)
		}
	}
	if _, ok := fractal.ParseShade("rainbow"); ok {
		t.Error("parsed unknown shading")
	}
}

func BenchmarkRender(b *testing.B) {
	e := mustParse(b, plane, "c", "z*z + c")
	for _, n := range []int{1, 0} {
		b.Run(map[int]string{1: "serial", 0: "parallel"}[n], func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				fractal.Render(e[0], e[1], e[2], 128, 96, fractal.Workers(n))
			}
		})
	}
}
