package snapfit

import (
	"time"
)

const DefaultSnapAnimationDuration = 150 * time.Millisecond

// SnapAnimation eases a part's displayed pose from where the player left it to
// the committed socket pose. It is cosmetic: game logic reads PartRecord.Pose.
type SnapAnimation struct {
	From     Transform
	To       Transform
	Duration time.Duration
	elapsed  time.Duration
}

func NewSnapAnimation(from, to Transform, d time.Duration) *SnapAnimation {
	return &SnapAnimation{From: from, To: to, Duration: d}
}

// Advance moves the animation forward and reports whether it has finished.
func (a *SnapAnimation) Advance(dt time.Duration) bool {
	if dt > 0 {
		a.elapsed += dt
	}
	return a.Done()
}

func (a *SnapAnimation) Done() bool {
	return a.Duration <= 0 || a.elapsed >= a.Duration
}

func (a *SnapAnimation) Current() Transform {
	if a.Done() {
		return a.To
	}
	t := float64(a.elapsed) / float64(a.Duration)
	// smoothstep
	t = t * t * (3 - 2*t)
	return LerpTransform(a.From, a.To, t)
}
