package clock_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/b97tsk/asyncgui"
	"github.com/b97tsk/asyncgui/clock"
)

func TestScheduleOrder(t *testing.T) {
	clk := clock.New(clock.DefaultConfig())

	var got []string
	note := func(s string) func(time.Duration) {
		return func(time.Duration) { got = append(got, s) }
	}

	clk.ScheduleOnce(note("b"), 2*time.Second)
	clk.ScheduleOnce(note("a"), time.Second)
	clk.ScheduleOnce(note("c"), 2*time.Second)
	cancelled := clk.ScheduleOnce(note("x"), time.Second)
	cancelled.Cancel()

	clk.Tick(500 * time.Millisecond)
	if len(got) != 0 {
		t.Fatalf("ran too early: %v", got)
	}

	clk.Tick(5 * time.Second)
	if want := []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if cancelled.Active() {
		t.Fatal("cancelled event is still active")
	}
}

func TestScheduledWhileTicking(t *testing.T) {
	clk := clock.New(clock.DefaultConfig())

	var frames []uint64
	clk.ScheduleNextFrame(func(time.Duration) {
		frames = append(frames, clk.Frame())
		clk.ScheduleNextFrame(func(time.Duration) {
			frames = append(frames, clk.Frame())
		})
	})

	clk.Tick(0)
	clk.Tick(0)
	clk.Tick(0)

	if want := []uint64{1, 2}; !slices.Equal(frames, want) {
		t.Fatalf("got %v, want %v", frames, want)
	}
}

func TestScheduleInterval(t *testing.T) {
	clk := clock.New(clock.DefaultConfig())

	var dts []time.Duration
	ev := clk.ScheduleInterval(func(dt time.Duration) bool {
		dts = append(dts, dt)
		return len(dts) < 3
	}, 100*time.Millisecond)

	for range 10 {
		clk.Tick(50 * time.Millisecond)
	}

	want := []time.Duration{100 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond}
	if !slices.Equal(dts, want) {
		t.Fatalf("got %v, want %v", dts, want)
	}
	if ev.Active() {
		t.Fatal("interval is still active")
	}
}

func TestPost(t *testing.T) {
	clk := clock.New(clock.DefaultConfig())

	done := make(chan struct{})
	ran := false
	go func() {
		defer close(done)
		clk.Post(func() { ran = true })
	}()
	<-done

	if ran {
		t.Fatal("posted function ran before tick")
	}
	clk.Tick(0)
	if !ran {
		t.Fatal("posted function did not run")
	}
}

func TestScheduledWhilePosted(t *testing.T) {
	clk := clock.New(clock.DefaultConfig())

	var frames []uint64
	clk.Post(func() {
		clk.ScheduleOnce(func(time.Duration) {
			frames = append(frames, clk.Frame())
		}, 0)
	})

	clk.Tick(0)
	if len(frames) != 0 {
		t.Fatalf("event scheduled by a posted function ran on frame %v", frames)
	}

	clk.Tick(0)
	if want := []uint64{2}; !slices.Equal(frames, want) {
		t.Fatalf("got %v, want %v", frames, want)
	}
}

func TestRun(t *testing.T) {
	cfg := clock.DefaultConfig()
	cfg.FrameInterval = time.Millisecond
	clk := clock.New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clk.ScheduleOnce(func(time.Duration) { cancel() }, 5*time.Millisecond)

	if err := clk.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if clk.Now() < 5*time.Millisecond {
		t.Fatalf("clock at %v, want at least 5ms", clk.Now())
	}
}

func TestSleepers(t *testing.T) {
	clk := clock.New(clock.DefaultConfig())

	var woke []string
	sleeper := func(name string, d time.Duration) asyncgui.Func {
		return func(co *asyncgui.Coroutine) (any, error) {
			elapsed, err := clk.Sleep(co, d)
			if err != nil {
				return nil, err
			}
			woke = append(woke, name)
			return elapsed, nil
		}
	}

	var tasks []*asyncgui.Task
	root := asyncgui.StartFunc(func(co *asyncgui.Coroutine) (any, error) {
		var err error
		tasks, err = asyncgui.WaitAll(co,
			sleeper("one", time.Second),
			sleeper("two", 2*time.Second),
			sleeper("three", 3*time.Second),
		)
		return nil, err
	})

	for i := range 3 {
		if root.Finished() {
			t.Fatalf("root finished after %d seconds", i)
		}
		clk.Tick(time.Second)
		if len(woke) != i+1 {
			t.Fatalf("after %d seconds, woke: %v", i+1, woke)
		}
	}

	if !root.Done() {
		t.Fatalf("root is %v, want done", root.State())
	}
	if want := []string{"one", "two", "three"}; !slices.Equal(woke, want) {
		t.Fatalf("got %v, want %v", woke, want)
	}
	for i, task := range tasks {
		elapsed, err := asyncgui.ResultOf[time.Duration](task)
		if err != nil {
			t.Fatal(err)
		}
		if want := time.Duration(i+1) * time.Second; elapsed != want {
			t.Errorf("task %d slept %v, want %v", i, elapsed, want)
		}
	}
}

func TestSleepCancelled(t *testing.T) {
	clk := clock.New(clock.DefaultConfig())

	var err error
	task := asyncgui.StartFunc(func(co *asyncgui.Coroutine) (any, error) {
		_, err = clk.Sleep(co, time.Second)
		return nil, err
	})

	task.Cancel()

	if !errors.Is(err, asyncgui.ErrCancelled) {
		t.Fatalf("got %v, want ErrCancelled", err)
	}
	if !task.Cancelled() || task.Err() != nil {
		t.Fatalf("task is %v with error %v", task.State(), task.Err())
	}

	clk.Tick(2 * time.Second) // The timer must be gone.
}

func TestSleepFrames(t *testing.T) {
	clk := clock.New(clock.DefaultConfig())

	task := asyncgui.StartFunc(func(co *asyncgui.Coroutine) (any, error) {
		if err := clk.SleepFrames(co, 0); err != nil {
			return nil, err
		}
		return nil, clk.SleepFrames(co, 3)
	})

	for range 2 {
		clk.Tick(0)
	}
	if task.Finished() {
		t.Fatal("task finished after 2 frames")
	}
	clk.Tick(0)
	if !task.Done() {
		t.Fatalf("task is %v, want done", task.State())
	}
}

func TestMoveOnAfter(t *testing.T) {
	clk := clock.New(clock.DefaultConfig())

	work := func(d time.Duration) asyncgui.Func {
		return func(co *asyncgui.Coroutine) (any, error) {
			_, err := clk.Sleep(co, d)
			return "finished", err
		}
	}

	t.Run("Timeout", func(t *testing.T) {
		var inner *asyncgui.Task
		root := asyncgui.StartFunc(func(co *asyncgui.Coroutine) (v any, err error) {
			inner, err = clk.MoveOnAfter(co, 2*time.Second, work(5*time.Second))
			return nil, err
		})
		clk.Tick(2 * time.Second)
		if !root.Done() {
			t.Fatalf("root is %v, want done", root.State())
		}
		if !inner.Cancelled() {
			t.Fatalf("inner is %v, want cancelled", inner.State())
		}
	})

	t.Run("InTime", func(t *testing.T) {
		var inner *asyncgui.Task
		root := asyncgui.StartFunc(func(co *asyncgui.Coroutine) (v any, err error) {
			inner, err = clk.MoveOnAfter(co, 2*time.Second, work(time.Second))
			return nil, err
		})
		clk.Tick(time.Second)
		if !root.Done() {
			t.Fatalf("root is %v, want done", root.State())
		}
		if v, err := inner.Result(); err != nil || v != "finished" {
			t.Fatalf("got %v, %v", v, err)
		}
	})
}

func TestRepeatSleeping(t *testing.T) {
	clk := clock.New(clock.DefaultConfig())

	var dts []time.Duration
	task := asyncgui.StartFunc(func(co *asyncgui.Coroutine) (any, error) {
		return nil, clk.RepeatSleeping(co, 100*time.Millisecond, func(dt time.Duration) (bool, error) {
			dts = append(dts, dt)
			return len(dts) < 3, nil
		})
	})

	for range 5 {
		clk.Tick(100 * time.Millisecond)
	}

	if !task.Done() {
		t.Fatalf("task is %v, want done", task.State())
	}
	want := []time.Duration{0, 100 * time.Millisecond, 100 * time.Millisecond}
	if !slices.Equal(dts, want) {
		t.Fatalf("got %v, want %v", dts, want)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Run("Partial", func(t *testing.T) {
		cfg, err := clock.LoadConfig(strings.NewReader("frame_interval: 10ms\nstart_time: 1s\n"))
		if err != nil {
			t.Fatal(err)
		}
		if cfg.FrameInterval != 10*time.Millisecond {
			t.Errorf("frame_interval: got %v", cfg.FrameInterval)
		}
		if cfg.MaxFrameDelta != clock.DefaultConfig().MaxFrameDelta {
			t.Errorf("max_frame_delta: got %v", cfg.MaxFrameDelta)
		}
		if clk := clock.New(cfg); clk.Now() != time.Second {
			t.Errorf("clock starts at %v", clk.Now())
		}
	})

	t.Run("Empty", func(t *testing.T) {
		cfg, err := clock.LoadConfig(strings.NewReader(""))
		if err != nil {
			t.Fatal(err)
		}
		if cfg != clock.DefaultConfig() {
			t.Fatalf("got %+v", cfg)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		if _, err := clock.LoadConfig(strings.NewReader("frame_interval: 0s\n")); err == nil {
			t.Fatal("zero frame_interval accepted")
		}
		if _, err := clock.LoadConfig(strings.NewReader("frame_interval: [\n")); err == nil {
			t.Fatal("malformed YAML accepted")
		}
	})

	t.Run("File", func(t *testing.T) {
		dir := t.TempDir()

		cfg, err := clock.LoadConfigFile(filepath.Join(dir, "missing.yaml"))
		if err != nil || cfg != clock.DefaultConfig() {
			t.Fatalf("missing file: got %+v, %v", cfg, err)
		}

		path := filepath.Join(dir, "clock.yaml")
		if err := os.WriteFile(path, []byte("max_frame_delta: 1s\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		cfg, err = clock.LoadConfigFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if cfg.MaxFrameDelta != time.Second {
			t.Fatalf("max_frame_delta: got %v", cfg.MaxFrameDelta)
		}
	})
}

func ExampleClock_Sleep() {
	clk := clock.New(clock.DefaultConfig())

	asyncgui.StartFunc(func(co *asyncgui.Coroutine) (any, error) {
		for i := 1; i <= 3; i++ {
			elapsed, err := clk.Sleep(co, time.Second)
			if err != nil {
				return nil, err
			}
			fmt.Println("tick", i, elapsed)
		}
		return nil, nil
	})

	for range 3 {
		clk.Tick(time.Second)
	}

	// Output:
	// tick 1 1s
	// tick 2 1s
	// tick 3 1s
}
