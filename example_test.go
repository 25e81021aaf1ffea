// SPDX-License-Identifier: EPL-2.0

package soundry_test

import (
	"context"
	"fmt"

	"github.com/idank/soundry"
	"github.com/idank/soundry/internal/audiotest"
	"github.com/idank/soundry/mix"
)

// Example_basicUsage demonstrates the most common use case: registering an
// in-memory asset, playing it and pulling rendered audio from the context.
func Example_basicUsage() {
	ctx := mix.NewContext(mix.WithSampleRate(8000), mix.WithChannels(1))
	defer ctx.Close()
	lib := soundry.New(ctx)

	// One second of silence as a stand-in for a real asset.
	snd := lib.Add("beep", soundry.Config{
		Bytes: audiotest.WAVBytes(8000, 1, make([]int16, 8000)),
	})

	loaded := make(chan error, 1)
	snd.Load(func(err error) { loaded <- err })
	if err := <-loaded; err != nil {
		fmt.Println("load failed:", err)
		return
	}
	fmt.Printf("duration: %.0fs\n", snd.Duration())

	p, err := lib.Play("beep", nil)
	if err != nil {
		fmt.Println("play failed:", err)
		return
	}
	inst, _ := p.Await(context.Background())
	fmt.Println("state:", inst.State())

	// In production an output device pulls this; pulling directly works the
	// same and advances the clock by 100ms per 800-sample block.
	block := make([]float32, 800)
	ctx.Render(block)
	fmt.Printf("progress: %.1f\n", inst.Progress())

	// Output:
	// duration: 1s
	// state: playing
	// progress: 0.1
}

// Example_playThenLoad shows the deferred path: playing an asset that has
// not loaded yet returns a Pending that settles once the decode finishes.
func Example_playThenLoad() {
	ctx := mix.NewContext(mix.WithSampleRate(8000), mix.WithChannels(1))
	defer ctx.Close()
	lib := soundry.New(ctx)

	lib.Add("late", soundry.Config{
		Bytes: audiotest.WAVBytes(8000, 1, make([]int16, 4000)),
	})

	// No Load call: Play triggers it and defers the instance.
	p, err := lib.Play("late", nil)
	if err != nil {
		fmt.Println("play failed:", err)
		return
	}
	inst, err := p.Await(context.Background())
	if err != nil {
		fmt.Println("await failed:", err)
		return
	}
	fmt.Println("state:", inst.State())

	// Output:
	// state: playing
}

// Example_sprites plays a named sub-range of a longer asset.
func Example_sprites() {
	ctx := mix.NewContext(mix.WithSampleRate(8000), mix.WithChannels(1))
	defer ctx.Close()
	lib := soundry.New(ctx)

	snd := lib.Add("sheet", soundry.Config{
		Bytes: audiotest.WAVBytes(8000, 1, make([]int16, 16000)),
		Sprites: map[string]soundry.SpriteSpec{
			"intro": {Start: 0.5, End: 1.5},
		},
	})

	loaded := make(chan error, 1)
	snd.Load(func(err error) { loaded <- err })
	<-loaded

	p, err := snd.Play(&soundry.PlayOptions{Sprite: "intro"})
	if err != nil {
		fmt.Println("play failed:", err)
		return
	}
	inst := p.Instance()
	fmt.Printf("starts at: %.1fs\n", inst.Position())

	// Output:
	// starts at: 0.5s
}
