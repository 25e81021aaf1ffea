package mix

import "sync"

// Bus is the single shared mixing point: every asset chain attaches to it
// and Render sums their output additively.
type Bus struct {
	mtx    sync.Mutex
	chains []*Chain
}

func newBus() *Bus {
	return &Bus{}
}

func (b *Bus) attach(c *Chain) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.chains = append(b.chains, c)
}

func (b *Bus) detach(c *Chain) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	for i, ch := range b.chains {
		if ch == c {
			b.chains = append(b.chains[:i], b.chains[i+1:]...)
			return
		}
	}
}

func (b *Bus) detachAll() {
	b.mtx.Lock()
	chains := b.chains
	b.chains = nil
	b.mtx.Unlock()

	for _, ch := range chains {
		ch.Close()
	}
}

func (b *Bus) render(dst []float32, sampleRate, channels int) {
	b.mtx.Lock()
	chains := make([]*Chain, len(b.chains))
	copy(chains, b.chains)
	b.mtx.Unlock()

	for _, ch := range chains {
		ch.render(dst, sampleRate, channels)
	}
}
