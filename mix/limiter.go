package mix

import "math"

// Limiter is a simple peak limiter with instant attack and exponential
// release, applied to the master bus after the gain stage so summed chains
// do not clip the output device.
type Limiter struct {
	threshold float32
	release   float32 // per-sample recovery coefficient
	gain      float32 // current gain reduction envelope
}

const (
	defaultLimiterThreshold = 0.95
	defaultLimiterReleaseMs = 120
)

// NewLimiter creates a limiter for the given sample rate with the default
// threshold and release.
func NewLimiter(sampleRate int) *Limiter {
	l := &Limiter{threshold: defaultLimiterThreshold, gain: 1}
	l.SetRelease(sampleRate, defaultLimiterReleaseMs)
	return l
}

// SetThreshold sets the linear ceiling, clamped to [0.1, 1].
func (l *Limiter) SetThreshold(t float32) {
	if t < 0.1 {
		t = 0.1
	} else if t > 1 {
		t = 1
	}
	l.threshold = t
}

// SetRelease sets the recovery time in milliseconds, clamped to [1, 5000].
func (l *Limiter) SetRelease(sampleRate int, ms float64) {
	if ms < 1 {
		ms = 1
	} else if ms > 5000 {
		ms = 5000
	}
	samples := ms / 1000 * float64(sampleRate)
	// Exponential release reaching ~63% recovery over the release window.
	l.release = float32(1 - math.Exp(-1/samples))
}

// Reset clears the gain reduction envelope.
func (l *Limiter) Reset() {
	l.gain = 1
}

// Process limits buf in place.
func (l *Limiter) Process(buf []float32) {
	g := l.gain
	t := l.threshold
	r := l.release
	for i, x := range buf {
		a := x
		if a < 0 {
			a = -a
		}
		if a*g > t {
			g = t / a // instant attack
		} else {
			g += (1 - g) * r
		}
		buf[i] = x * g
	}
	l.gain = g
}
