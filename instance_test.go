// SPDX-License-Identifier: EPL-2.0

package soundry

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"
)

func blockPeak(dst []float32) float64 {
	var peak float64
	for _, v := range dst {
		if a := math.Abs(float64(v)); a > peak {
			peak = a
		}
	}
	return peak
}

func TestInstance_ProgressReachesExactlyOne(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t)
	s := loadedSound(t, ctx, Config{Bytes: constWAV(1)})

	var (
		mtx      sync.Mutex
		progress []float64
	)
	var completes atomic.Int32
	p, err := s.Play(&PlayOptions{
		OnProgress: func(v float64) {
			mtx.Lock()
			progress = append(progress, v)
			mtx.Unlock()
		},
		OnComplete: func(*Instance) { completes.Add(1) },
	})
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	inst := p.Instance()

	// 1s of audio in 100ms blocks, plus slack past the end.
	renderBlocks(ctx, 12)

	if completes.Load() != 1 {
		t.Errorf("complete events = %d, want 1", completes.Load())
	}
	if inst.State() != StateDestroyed {
		t.Errorf("State() = %v, want destroyed", inst.State())
	}
	if got := len(s.Instances()); got != 0 {
		t.Errorf("active instances = %d, want 0", got)
	}

	mtx.Lock()
	defer mtx.Unlock()
	if len(progress) == 0 {
		t.Fatal("no progress events")
	}
	if last := progress[len(progress)-1]; last != 1 {
		t.Errorf("final progress = %v, want exactly 1", last)
	}
	for n := 1; n < len(progress); n++ {
		if progress[n] < progress[n-1] {
			t.Errorf("progress regressed: %v after %v", progress[n], progress[n-1])
		}
	}
}

func TestInstance_LoopNeverCompletesNaturally(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t)
	s := loadedSound(t, ctx, Config{Bytes: constWAV(1), Loop: true})

	var completes, stops atomic.Int32
	p, err := s.Play(&PlayOptions{
		End:        0.25,
		OnComplete: func(*Instance) { completes.Add(1) },
		OnStop:     func(*Instance) { stops.Add(1) },
	})
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	inst := p.Instance()

	// 2s of rendering loops the 0.25s window eight times over.
	renderBlocks(ctx, 20)

	if completes.Load() != 0 {
		t.Errorf("looping instance completed naturally %d times", completes.Load())
	}
	if inst.State() != StatePlaying {
		t.Errorf("State() = %v, want playing", inst.State())
	}
	if got := inst.Progress(); got >= 1 {
		t.Errorf("looping Progress() = %v, want < 1", got)
	}

	inst.Stop()
	inst.Stop() // terminal no-op

	if stops.Load() != 1 {
		t.Errorf("stop events = %d, want exactly 1", stops.Load())
	}
	if completes.Load() != 0 {
		t.Error("stop also fired the completion event")
	}
	if inst.State() != StateDestroyed {
		t.Errorf("State() after Stop() = %v, want destroyed", inst.State())
	}
}

func TestInstance_PauseFreezesPosition(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t)
	s := loadedSound(t, ctx, Config{Bytes: constWAV(1)})
	p, err := s.Play(nil)
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	inst := p.Instance()

	renderBlocks(ctx, 2)
	pos := inst.Position()
	if pos == 0 {
		t.Fatal("Position() = 0 after rendering")
	}

	inst.SetPaused(true)
	if inst.State() != StatePaused {
		t.Fatalf("State() = %v, want paused", inst.State())
	}
	dst := renderBlocks(ctx, 3)
	if got := blockPeak(dst); got != 0 {
		t.Errorf("paused instance rendered audio, peak %v", got)
	}
	if got := inst.Position(); got != pos {
		t.Errorf("Position() moved while paused: %v -> %v", pos, got)
	}

	inst.SetPaused(false)
	if inst.State() != StatePlaying {
		t.Fatalf("State() after resume = %v, want playing", inst.State())
	}
	dst = renderBlocks(ctx, 1)
	if got := blockPeak(dst); got == 0 {
		t.Error("resumed instance rendered silence")
	}
	if got := inst.Position(); got <= pos {
		t.Errorf("Position() did not advance after resume: %v", got)
	}
}

func TestInstance_ContextPauseIsIndependentLayer(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t)
	s := loadedSound(t, ctx, Config{Bytes: constWAV(1)})
	p, err := s.Play(nil)
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	inst := p.Instance()

	renderBlocks(ctx, 1)
	pos := inst.Position()

	ctx.SetPaused(true)
	dst := renderBlocks(ctx, 3)
	if got := blockPeak(dst); got != 0 {
		t.Errorf("paused context rendered audio, peak %v", got)
	}
	if got := inst.Position(); got != pos {
		t.Errorf("Position() moved while context paused: %v -> %v", pos, got)
	}
	// The instance itself is not paused: the layers are independent.
	if inst.State() != StatePlaying {
		t.Errorf("State() = %v under context pause, want playing", inst.State())
	}

	ctx.SetPaused(false)
	renderBlocks(ctx, 1)
	if got := inst.Position(); got <= pos {
		t.Errorf("Position() did not advance after context resume: %v", got)
	}
}

func TestInstance_FadeInRampsUp(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t)
	s := loadedSound(t, ctx, Config{Bytes: constWAV(1)})
	if _, err := s.Play(&PlayOptions{FadeIn: 0.5}); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	early := blockPeak(renderBlocks(ctx, 1))
	renderBlocks(ctx, 2)
	late := blockPeak(renderBlocks(ctx, 1))

	if early == 0 {
		t.Fatal("fade-in start is fully silent, want a ramp")
	}
	if late <= early {
		t.Errorf("fade-in did not ramp: early %v, late %v", early, late)
	}
}

func TestInstance_FadeOutRampsDown(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t)
	s := loadedSound(t, ctx, Config{Bytes: constWAV(1)})
	// 500 is read as milliseconds: the legacy dual-unit rule.
	if _, err := s.Play(&PlayOptions{FadeOut: 500}); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	renderBlocks(ctx, 4)
	mid := blockPeak(renderBlocks(ctx, 1)) // last full-volume block
	renderBlocks(ctx, 4)
	last := blockPeak(renderBlocks(ctx, 1)) // deep into the fade

	if mid == 0 {
		t.Fatal("pre-fade block is silent")
	}
	if last >= mid {
		t.Errorf("fade-out did not ramp down: mid %v, last %v", mid, last)
	}
}

func TestInstance_SpeedShortensPlayback(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t)
	s := loadedSound(t, ctx, Config{Bytes: constWAV(1)})
	p, err := s.Play(&PlayOptions{Speed: 2})
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	inst := p.Instance()

	// Double speed finishes the 1s buffer in 0.5s.
	renderBlocks(ctx, 6)
	if inst.State() != StateDestroyed {
		t.Errorf("State() after 0.6s at 2x = %v, want destroyed", inst.State())
	}
}

func TestInstance_VolumeScalesOutput(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t)
	s := loadedSound(t, ctx, Config{Bytes: constWAV(1)})

	half := 0.5
	if _, err := s.Play(&PlayOptions{Volume: &half}); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	dst := renderBlocks(ctx, 1)

	// Source samples are 0.5; at half instance volume the output is 0.25.
	if got := blockPeak(dst); math.Abs(got-0.25) > 1e-3 {
		t.Errorf("peak = %v, want ~0.25", got)
	}
}

func TestInstance_AssetVolumeScalesOutput(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t)
	s := loadedSound(t, ctx, Config{Bytes: constWAV(1)})
	s.SetVolume(0.5)

	if _, err := s.Play(nil); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	dst := renderBlocks(ctx, 1)

	if got := blockPeak(dst); math.Abs(got-0.25) > 1e-3 {
		t.Errorf("peak = %v, want ~0.25", got)
	}
}

func TestInstance_TrimWindow(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t)
	s := loadedSound(t, ctx, Config{Bytes: constWAV(2)})

	p, err := s.Play(&PlayOptions{Start: 0.5, End: 1})
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	inst := p.Instance()

	if got := inst.Position(); got != 0.5 {
		t.Errorf("initial Position() = %v, want trim start 0.5", got)
	}
	// The 0.5s window is gone after six 100ms blocks.
	renderBlocks(ctx, 6)
	if inst.State() != StateDestroyed {
		t.Errorf("State() after window elapsed = %v, want destroyed", inst.State())
	}
}

func TestInstance_OutOfRangeTrimClampsToBuffer(t *testing.T) {
	t.Parallel()

	ctx := newTestContext(t)
	s := loadedSound(t, ctx, Config{Bytes: constWAV(1)})

	p, err := s.Play(&PlayOptions{Start: -3, End: 50})
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	inst := p.Instance()
	if got := inst.Position(); got != 0 {
		t.Errorf("Position() = %v, want clamp to 0", got)
	}

	renderBlocks(ctx, 12)
	if inst.State() != StateDestroyed {
		t.Errorf("State() = %v, want destroyed at buffer end", inst.State())
	}
}

func TestState_String(t *testing.T) {
	t.Parallel()

	cases := map[State]string{
		StateCreated:   "created",
		StatePlaying:   "playing",
		StatePaused:    "paused",
		StateCompleted: "completed",
		StateStopped:   "stopped",
		StateDestroyed: "destroyed",
		State(99):      "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", int(state), got, want)
		}
	}
}
