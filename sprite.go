package soundry

// Sprite is an immutable named time-window over a parent sound's buffer,
// reusable as a play target.
type Sprite struct {
	name  string
	start float64
	end   float64
	speed float64 // 0 means inherit the sound's speed
}

func (s *Sprite) Name() string { return s.name }

// Start is the window start in seconds.
func (s *Sprite) Start() float64 { return s.start }

// End is the exclusive window end in seconds.
func (s *Sprite) End() float64 { return s.end }

// Speed is the playback speed override, or 0 when the sprite inherits the
// sound's speed.
func (s *Sprite) Speed() float64 { return s.speed }
