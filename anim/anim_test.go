package anim_test

import (
	"fmt"
	"image/color"
	"math"
	"slices"
	"testing"
	"time"

	"golang.org/x/image/colornames"

	"github.com/b97tsk/asyncgui"
	"github.com/b97tsk/asyncgui/anim"
	"github.com/b97tsk/asyncgui/clock"
)

func TestCurves(t *testing.T) {
	curves := map[string]anim.Curve{
		"Linear":    anim.Linear,
		"Ease":      anim.Ease,
		"EaseIn":    anim.EaseIn,
		"EaseOut":   anim.EaseOut,
		"EaseInOut": anim.EaseInOut,
	}
	for name, curve := range curves {
		t.Run(name, func(t *testing.T) {
			if curve(0) != 0 || curve(1) != 1 {
				t.Fatalf("endpoints: %v, %v", curve(0), curve(1))
			}
			prev := 0.0
			for i := 1; i <= 100; i++ {
				v := curve(float64(i) / 100)
				if v < prev-1e-6 {
					t.Fatalf("not monotonic at %d: %v < %v", i, v, prev)
				}
				prev = v
			}
		})
	}

	t.Run("Diagonal", func(t *testing.T) {
		curve := anim.CubicBezier(0, 0, 1, 1)
		for i := range 11 {
			x := float64(i) / 10
			if y := curve(x); math.Abs(y-x) > 1e-6 {
				t.Fatalf("curve(%v) = %v", x, y)
			}
		}
	})

	t.Run("Symmetric", func(t *testing.T) {
		if y := anim.EaseInOut(0.5); math.Abs(y-0.5) > 1e-6 {
			t.Fatalf("EaseInOut(0.5) = %v", y)
		}
	})
}

func TestLerpColor(t *testing.T) {
	got := anim.LerpColor(colornames.Black, colornames.White, 0.5)
	if want := (color.RGBA{128, 128, 128, 255}); got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
	if got := anim.LerpColor(colornames.Red, colornames.Blue, 1); got != colornames.Blue {
		t.Fatalf("got %v, want blue", got)
	}
}

func TestInterpolate(t *testing.T) {
	clk := clock.New(clock.DefaultConfig())

	var ps []float64
	task := asyncgui.StartFunc(func(co *asyncgui.Coroutine) (any, error) {
		return nil, anim.Interpolate(co, clk, time.Second, nil, func(p float64) {
			ps = append(ps, p)
		})
	})

	for range 4 {
		clk.Tick(250 * time.Millisecond)
	}

	if !task.Done() {
		t.Fatalf("task is %v, want done", task.State())
	}
	if want := []float64{0, 0.25, 0.5, 0.75, 1}; !slices.Equal(ps, want) {
		t.Fatalf("got %v, want %v", ps, want)
	}
}

func TestAnimateCancelled(t *testing.T) {
	clk := clock.New(clock.DefaultConfig())

	x := 10.0
	bg := colornames.Black
	task := asyncgui.StartFunc(func(co *asyncgui.Coroutine) (any, error) {
		return nil, anim.Animate(co, clk, time.Second, anim.Linear,
			anim.Float(&x, 20),
			anim.Color(&bg, colornames.White),
		)
	})

	clk.Tick(500 * time.Millisecond)
	task.Cancel()
	clk.Tick(time.Second)

	if !task.Cancelled() {
		t.Fatalf("task is %v, want cancelled", task.State())
	}
	if x != 15 {
		t.Fatalf("x = %v, want 15", x)
	}
	if bg.R != 128 {
		t.Fatalf("bg = %v", bg)
	}
}

func ExampleAnimate() {
	clk := clock.New(clock.DefaultConfig())

	opacity := 0.0
	asyncgui.StartFunc(func(co *asyncgui.Coroutine) (any, error) {
		err := anim.Animate(co, clk, 400*time.Millisecond, anim.Linear, anim.Float(&opacity, 1))
		fmt.Println("done")
		return nil, err
	})

	for range 4 {
		clk.Tick(100 * time.Millisecond)
		fmt.Printf("%.2f\n", opacity)
	}

	// Output:
	// 0.25
	// 0.50
	// 0.75
	// done
	// 1.00
}
