package snapfit

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Keys the controls respond to. Key1..Key9 must stay contiguous.
const (
	KeyE int = iota
	KeyG
	KeyH
	KeyO
	KeyQ
	KeyR
	KeyS
	KeyU
	KeyV
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyMinus
	KeyEqual
	KeyKPPlus
	KeyKPMinus
	KeyLeftBracket
	KeyRightBracket
	KeySemicolon
	KeyApostrophe
	KeyLeftShift
	KeyRightShift
	KeyControl
)

// Input is the per-frame keyboard snapshot. JustPressed is true only on the
// frame a key went down.
type Input struct {
	Pressed      [256]bool
	JustPressed  [256]bool
	JustReleased [256]bool
}

// SetKey records the current state of a key and derives its edges.
func (input *Input) SetKey(key int, down bool) {
	input.JustPressed[key] = false
	input.JustReleased[key] = false
	if down {
		if !input.Pressed[key] {
			input.JustPressed[key] = true
		}
		input.Pressed[key] = true
	} else {
		if input.Pressed[key] {
			input.JustReleased[key] = true
		}
		input.Pressed[key] = false
	}
}

func (input *Input) Shift() bool {
	return input.Pressed[KeyLeftShift] || input.Pressed[KeyRightShift]
}

// Controls maps key presses onto session commands.
type Controls struct {
	MoveStep         float64
	FineMoveStep     float64
	LiftStep         float64
	CoarseRotateStep float64
	ZoomStep         float64
}

func DefaultControls() Controls {
	return Controls{
		MoveStep:         0.05,
		FineMoveStep:     0.01,
		LiftStep:         0.02,
		CoarseRotateStep: 90,
		ZoomStep:         0.1,
	}
}

// Apply runs every command whose key went down this frame and returns how many
// changed the session.
func (c Controls) Apply(input *Input, s *GameSession) int {
	if input.Pressed[KeyControl] {
		return 0
	}
	handled := 0
	count := func(ok bool) {
		if ok {
			handled++
		}
	}
	pressed := func(key int) bool { return input.JustPressed[key] }
	shift := input.Shift()

	// The title screen only picks a level.
	if s.State() == StateTitle {
		for i := 0; i < 9; i++ {
			if pressed(Key1+i) && s.StartLevel(i+1) == nil {
				return 1
			}
		}
		return 0
	}

	// View and session keys work with or without a selection.
	if pressed(KeyTab) {
		if shift {
			count(s.SelectPrev())
		} else {
			count(s.SelectNext())
		}
	}
	for i := 0; i < 9; i++ {
		if pressed(Key1 + i) {
			count(s.SelectIndex(i))
		}
	}
	if pressed(KeyEqual) || pressed(KeyKPPlus) {
		s.AdjustZoom(c.ZoomStep)
		handled++
	}
	if pressed(KeyMinus) || pressed(KeyKPMinus) {
		s.AdjustZoom(-c.ZoomStep)
		handled++
	}
	if pressed(KeyV) {
		s.ToggleGhost()
		handled++
	}
	if pressed(KeyG) {
		s.ToggleGrid()
		handled++
	}
	if pressed(KeyH) {
		count(s.RequestHint())
	}
	if pressed(KeyR) {
		count(s.ResetLevel())
	}
	if pressed(KeyEscape) {
		count(s.Pause() || s.Resume())
	}

	switch s.State() {
	case StateSuccess:
		if pressed(KeyEnter) {
			count(s.NextLevel() == nil)
		}
		if pressed(KeyEscape) {
			count(s.ShowTitle())
		}
		return handled
	case StateFail:
		if pressed(KeyEscape) {
			count(s.ShowTitle())
		}
		return handled
	}

	id, ok := s.Selected()
	if !ok {
		return handled
	}
	part, _ := s.Part(id)

	if pressed(KeyEnter) {
		if part.IsGrabbed() {
			count(s.Release(id))
		} else {
			count(s.Grab(id))
		}
	}
	if pressed(KeyBackspace) {
		count(s.ResetPart(id))
	}

	step := c.MoveStep
	if shift {
		step = c.FineMoveStep
	}
	moves := []struct {
		key   int
		delta mgl64.Vec3
	}{
		{KeyUp, mgl64.Vec3{0, 0, -step}},
		{KeyDown, mgl64.Vec3{0, 0, step}},
		{KeyLeft, mgl64.Vec3{-step, 0, 0}},
		{KeyRight, mgl64.Vec3{step, 0, 0}},
		{KeyU, mgl64.Vec3{0, c.LiftStep, 0}},
		{KeyO, mgl64.Vec3{0, -c.LiftStep, 0}},
	}
	for _, m := range moves {
		if pressed(m.key) {
			count(s.Move(id, m.delta))
		}
	}

	rot := part.Config.RotationStep()
	yaw := rot
	if shift {
		yaw = c.CoarseRotateStep
	}
	rotations := []struct {
		key     int
		axis    Axis
		degrees float64
	}{
		{KeyQ, AxisY, -yaw},
		{KeyE, AxisY, yaw},
		{KeyLeftBracket, AxisZ, -rot},
		{KeyRightBracket, AxisZ, rot},
		{KeySemicolon, AxisX, -rot},
		{KeyApostrophe, AxisX, rot},
	}
	for _, r := range rotations {
		if pressed(r.key) {
			count(s.Rotate(id, r.axis, r.degrees))
		}
	}

	if pressed(KeyS) {
		_, attempted := s.AttemptSnap(id)
		count(attempted)
	}
	return handled
}
