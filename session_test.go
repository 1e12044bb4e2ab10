package snapfit

import (
	"bytes"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Part poses on level 1 that put each attach point exactly on its socket.
var level1Seated = map[string]mgl64.Vec3{
	"part1": {0, 0.25, 0},
	"part2": {0, 0.8, 0},
	"part3": {0, 1.25, 0},
}

func newTestSession(t *testing.T, levelNum int) (*GameSession, *MemoryProgressStore) {
	t.Helper()
	assets := NewAssetServer()
	RegisterFallbackModels(assets)
	progress := NewMemoryProgressStore()

	s := NewGameSession(SessionOptions{Assets: assets, Progress: progress})
	level, err := BuiltinLevel(levelNum)
	require.NoError(t, err)
	require.NoError(t, s.LoadLevel(level))
	return s, progress
}

func newCatalogSession(t *testing.T) *GameSession {
	t.Helper()
	levels, err := BuiltinLevels()
	require.NoError(t, err)
	assets := NewAssetServer()
	RegisterFallbackModels(assets)
	return NewGameSession(SessionOptions{Assets: assets, Progress: NewMemoryProgressStore(), Levels: levels})
}

// winLevel1 assembles level 1 from its start poses.
func winLevel1(t *testing.T, s *GameSession) {
	t.Helper()
	s.Update(0)
	for _, id := range []string{"part1", "part2", "part3"} {
		seat(t, s, id, level1Seated[id])
		require.True(t, snap(t, s, id).Committable(), id)
	}
	require.Equal(t, StateSuccess, s.State())
}

// seat grabs a part and moves it so that its attach point lands on target.
func seat(t *testing.T, s *GameSession, id string, target mgl64.Vec3) {
	t.Helper()
	p, ok := s.Part(id)
	require.True(t, ok)
	require.True(t, s.Grab(id))
	require.True(t, s.Move(id, target.Sub(p.Pose.Position)))
}

func snap(t *testing.T, s *GameSession, id string) SnapOutcome {
	t.Helper()
	outcome, attempted := s.AttemptSnap(id)
	require.True(t, attempted, "%s was not grabbed", id)
	return outcome
}

func TestGameSession_LoadLevel(t *testing.T) {
	s, _ := newTestSession(t, 1)

	assert.Equal(t, StatePlaying, s.State())
	parts := s.Parts()
	require.Len(t, parts, 3)
	assert.Equal(t, "part1", parts[0].ID)
	assert.Equal(t, mgl64.Vec3{-2, 0.5, 0}, parts[0].Pose.Position)
	assert.False(t, parts[0].AttachPointsLoaded())
	assert.Empty(t, s.Sockets())
	assert.Equal(t, freshStats(), s.Stats())

	s.Update(0)
	assert.Len(t, s.Sockets(), 3)
	p1, _ := s.Part("part1")
	assert.Len(t, p1.AttachPoints, 1)
}

func TestGameSession_LoadLevelRejectsInvalid(t *testing.T) {
	s := NewGameSession(SessionOptions{})
	assert.ErrorIs(t, s.LoadLevel(nil), ErrInvalidLevel)
	assert.ErrorIs(t, s.LoadLevel(&LevelConfig{ID: "empty"}), ErrInvalidLevel)
	assert.Equal(t, StateTitle, s.State())
}

func TestGameSession_LoadLevelWarnsAboutUnknownModels(t *testing.T) {
	var out, errOut bytes.Buffer
	assets := NewAssetServer()
	RegisterFallbackModels(assets)
	s := NewGameSession(SessionOptions{Logger: NewWriterLogger("snapfit", false, &out, &errOut), Assets: assets})

	level, err := BuiltinLevel(1)
	require.NoError(t, err)
	level.Parts[0].Model = "teapot"
	require.NoError(t, s.LoadLevel(level))
	assert.Contains(t, errOut.String(), `unregistered model "teapot"`)
	assert.Contains(t, out.String(), "[snapfit/session ")

	// The load still goes through and fails for that part only.
	s.Update(0)
	assert.Contains(t, errOut.String(), "load model teapot")
	p1, _ := s.Part("part1")
	assert.False(t, p1.AttachPointsLoaded())
	p2, _ := s.Part("part2")
	assert.True(t, p2.AttachPointsLoaded())
}

func TestGameSession_SnapBeforeModelsLoad(t *testing.T) {
	s, _ := newTestSession(t, 1)
	seat(t, s, "part1", level1Seated["part1"])

	outcome, attempted := s.AttemptSnap("part1")
	assert.True(t, attempted)
	assert.False(t, outcome.Success)
	fb, ok := s.Feedback()
	require.True(t, ok)
	assert.Equal(t, FeedbackNotReady, fb.Kind)

	p, _ := s.Part("part1")
	assert.True(t, p.IsGrabbed())
	assert.Zero(t, s.Stats().Mistakes)
}

func TestGameSession_AttemptSnapNeedsGrab(t *testing.T) {
	s, _ := newTestSession(t, 1)
	s.Update(0)

	_, attempted := s.AttemptSnap("part1")
	assert.False(t, attempted)
	_, ok := s.Feedback()
	assert.False(t, ok)
}

func TestGameSession_WinInAnyOrder(t *testing.T) {
	s, progress := newTestSession(t, 1)
	s.Update(0)
	s.Update(time.Second)

	for _, id := range []string{"part3", "part1", "part2"} {
		seat(t, s, id, level1Seated[id])
		outcome, attempted := s.AttemptSnap(id)
		require.True(t, attempted)
		require.True(t, outcome.Committable(), "%s: %+v", id, outcome)

		p, _ := s.Part(id)
		assert.True(t, p.IsSnapped())
		assert.Equal(t, p.Config.SnapTo, p.SnappedSocket)
	}

	assert.True(t, s.IsAssembled())
	assert.Equal(t, StateSuccess, s.State())
	assert.Equal(t, 3, s.Stats().Stars)

	saved, err := progress.LoadProgress("level_01")
	require.NoError(t, err)
	assert.True(t, saved.Completed)
	assert.Equal(t, 3, saved.BestStars)
	assert.Equal(t, time.Second, saved.BestTime)

	// The clock stops once the level is won.
	s.Update(time.Second)
	assert.Equal(t, time.Second, s.Stats().Elapsed)
	assert.False(t, s.Grab("part1"))
}

func TestGameSession_WrongSocketCountsMistake(t *testing.T) {
	s, _ := newTestSession(t, 1)
	s.Update(0)

	// part3 held where parts 1 and 2 belong.
	seat(t, s, "part3", mgl64.Vec3{0, 0.65, 0})
	outcome, _ := s.AttemptSnap("part3")

	assert.True(t, outcome.WrongSocket())
	assert.Equal(t, 1, s.Stats().Mistakes)
	fb, ok := s.Feedback()
	require.True(t, ok)
	assert.Equal(t, FeedbackWrongSocket, fb.Kind)
	assert.Equal(t, outcome, s.LastOutcome())

	p, _ := s.Part("part3")
	assert.True(t, p.IsGrabbed(), "a wrong socket never commits")
}

func TestGameSession_MissKeepsPartGrabbed(t *testing.T) {
	s, _ := newTestSession(t, 1)
	s.Update(0)

	require.True(t, s.Grab("part1"))
	outcome, attempted := s.AttemptSnap("part1")
	assert.True(t, attempted)
	assert.False(t, outcome.Success)
	fb, _ := s.Feedback()
	assert.Equal(t, FeedbackMiss, fb.Kind)
	assert.Zero(t, s.Stats().Mistakes)
}

func TestGameSession_StarPenalties(t *testing.T) {
	s, _ := newTestSession(t, 1)
	s.Update(0)

	require.True(t, s.SelectPart("part1"))
	require.True(t, s.RequestHint())

	seat(t, s, "part3", mgl64.Vec3{0, 0.65, 0})
	for i := 0; i < 3; i++ {
		outcome, _ := s.AttemptSnap("part3")
		require.True(t, outcome.WrongSocket())
	}
	require.True(t, s.Move("part3", level1Seated["part3"].Sub(mgl64.Vec3{0, 0.65, 0})))
	require.True(t, snap(t, s, "part3").Committable())

	for _, id := range []string{"part1", "part2"} {
		seat(t, s, id, level1Seated[id])
		outcome, _ := s.AttemptSnap(id)
		require.True(t, outcome.Committable())
	}

	assert.Equal(t, StateSuccess, s.State())
	assert.Equal(t, 1, s.Stats().Stars)
}

func TestGameSession_Hints(t *testing.T) {
	s, _ := newTestSession(t, 1)
	assert.False(t, s.RequestHint(), "no selection")

	require.True(t, s.SelectPart("part2"))
	require.True(t, s.RequestHint())
	h, ok := s.Hint()
	require.True(t, ok)
	assert.Equal(t, "socket2", h.Socket)
	assert.False(t, h.Located, "target not loaded yet")
	_, ok = s.HintTargetPosition()
	assert.False(t, ok)

	s.Update(0)
	require.True(t, s.RequestHint())
	pos, ok := s.HintTargetPosition()
	require.True(t, ok)
	assert.Equal(t, mgl64.Vec3{0, 0.5, 0}, pos)

	s.Update(DefaultHintDuration)
	_, ok = s.Hint()
	assert.False(t, ok, "hint clears itself")

	require.True(t, s.RequestHint())
	assert.False(t, s.RequestHint(), "budget of 3 spent")
	assert.Equal(t, 3, s.Stats().HintsUsed)
}

func TestGameSession_FeedbackExpires(t *testing.T) {
	s, _ := newTestSession(t, 1)
	s.Update(0)
	require.True(t, s.Grab("part1"))
	s.AttemptSnap("part1")

	s.Update(DefaultFeedbackDuration - time.Millisecond)
	_, ok := s.Feedback()
	assert.True(t, ok)

	// A fresh attempt restarts the timer.
	s.AttemptSnap("part1")
	s.Update(time.Second)
	_, ok = s.Feedback()
	assert.True(t, ok)

	s.Update(time.Second)
	_, ok = s.Feedback()
	assert.False(t, ok)
}

func TestGameSession_StaleFeedbackExpiryIsIgnored(t *testing.T) {
	s, _ := newTestSession(t, 1)
	s.Update(0)
	require.True(t, s.Grab("part1"))

	s.AttemptSnap("part1")
	first := s.feedback.Token()
	s.Update(1500 * time.Millisecond)
	s.AttemptSnap("part1")
	second := s.feedback.Token()
	require.NotEqual(t, first, second)
	assert.Equal(t, 2, s.timers.Pending())

	// The first message's expiry comes due here and must leave the second alone.
	s.Update(600 * time.Millisecond)
	assert.Equal(t, 1, s.timers.Pending())
	assert.Equal(t, second, s.feedback.Token())
	assert.False(t, s.feedback.Expire(first))

	s.Update(1400 * time.Millisecond)
	_, ok := s.Feedback()
	assert.False(t, ok)
	assert.Zero(t, s.timers.Pending())
}

func TestGameSession_TimeLimit(t *testing.T) {
	s, _ := newTestSession(t, 1)
	s.Update(180 * time.Second)
	assert.Equal(t, StatePlaying, s.State())

	s.Update(time.Millisecond)
	assert.Equal(t, StateFail, s.State())
	assert.False(t, s.Grab("part1"))

	require.True(t, s.ResetLevel())
	assert.Equal(t, StatePlaying, s.State())
	assert.Zero(t, s.Stats().Elapsed)
}

func TestGameSession_ResetPartAndLevel(t *testing.T) {
	s, _ := newTestSession(t, 1)
	s.Update(0)

	seat(t, s, "part1", level1Seated["part1"])
	require.True(t, snap(t, s, "part1").Committable())
	seat(t, s, "part2", mgl64.Vec3{1, 1, 1})

	require.True(t, s.ResetPart("part1"))
	p1, _ := s.Part("part1")
	assert.Equal(t, PartIdle, p1.Phase)
	assert.Equal(t, mgl64.Vec3{-2, 0.5, 0}, p1.Pose.Position)

	require.True(t, s.SelectPart("part2"))
	require.True(t, s.ResetLevel())
	for _, p := range s.Parts() {
		assert.Equal(t, PartIdle, p.Phase, p.ID)
		assert.True(t, p.AttachPointsLoaded(), p.ID)
	}
	_, ok := s.Selected()
	assert.False(t, ok)

	// Anchors survive the reset, so snapping works without another load.
	seat(t, s, "part1", level1Seated["part1"])
	outcome, _ := s.AttemptSnap("part1")
	assert.True(t, outcome.Committable())
}

func TestGameSession_Selection(t *testing.T) {
	s, _ := newTestSession(t, 1)
	_, ok := s.Selected()
	assert.False(t, ok)

	require.True(t, s.SelectNext())
	id, _ := s.Selected()
	assert.Equal(t, "part1", id)

	require.True(t, s.SelectPrev())
	id, _ = s.Selected()
	assert.Equal(t, "part3", id, "wraps backwards")

	require.True(t, s.SelectNext())
	id, _ = s.Selected()
	assert.Equal(t, "part1", id, "wraps forwards")

	require.True(t, s.SelectIndex(1))
	id, _ = s.Selected()
	assert.Equal(t, "part2", id)

	assert.False(t, s.SelectIndex(3))
	assert.False(t, s.SelectPart("ghost"))
	id, _ = s.Selected()
	assert.Equal(t, "part2", id)

	empty := NewGameSession(SessionOptions{})
	assert.False(t, empty.SelectNext())
	assert.False(t, empty.SelectPrev())
}

func TestGameSession_PauseStopsClockAndCommands(t *testing.T) {
	s, _ := newTestSession(t, 1)
	require.True(t, s.Pause())
	assert.Equal(t, StatePaused, s.State())

	s.Update(time.Minute)
	assert.Zero(t, s.Stats().Elapsed)
	assert.False(t, s.Grab("part1"))
	assert.False(t, s.Pause())

	require.True(t, s.Resume())
	assert.True(t, s.Grab("part1"))
}

func TestGameSession_DisplayPoseAnimates(t *testing.T) {
	s, _ := newTestSession(t, 1)
	s.Update(0)

	seat(t, s, "part1", mgl64.Vec3{0.03, 0.25, 0})
	require.True(t, snap(t, s, "part1").Committable())

	p, _ := s.Part("part1")
	shown, ok := s.DisplayPose("part1")
	require.True(t, ok)
	assert.False(t, shown.ApproxEqual(p.Pose, 1e-9), "animation starts at the released pose")

	s.Update(DefaultSnapAnimationDuration)
	shown, _ = s.DisplayPose("part1")
	assert.Equal(t, p.Pose, shown)

	_, ok = s.DisplayPose("ghost")
	assert.False(t, ok)
}

func TestGameSession_LevelSwitchDropsStaleModels(t *testing.T) {
	s, _ := newTestSession(t, 1)
	level2, err := BuiltinLevel(2)
	require.NoError(t, err)
	require.NoError(t, s.LoadLevel(level2))

	s.Update(0)
	assert.Len(t, s.Sockets(), 3)
	for _, p := range s.Parts() {
		assert.True(t, p.AttachPointsLoaded(), p.ID)
	}
	assert.Equal(t, "level_02", s.Level().ID)
}

func TestGameSession_ViewSettings(t *testing.T) {
	s := NewGameSession(SessionOptions{})
	v := s.View()
	assert.True(t, v.ShowGhost)
	assert.False(t, v.ShowGrid)

	s.ToggleGhost()
	s.ToggleGrid()
	assert.False(t, s.View().ShowGhost)
	assert.True(t, s.View().ShowGrid)

	s.AdjustZoom(5)
	assert.Equal(t, maxZoom, s.View().Zoom)
	s.AdjustZoom(-5)
	assert.Equal(t, minZoom, s.View().Zoom)
}

func TestGameSession_PartsAreCopies(t *testing.T) {
	s, _ := newTestSession(t, 1)
	s.Update(0)

	parts := s.Parts()
	parts[0].Pose.Position = mgl64.Vec3{9, 9, 9}
	parts[0].AttachPoints[0].Name = "mutated"

	p, _ := s.Part("part1")
	assert.Equal(t, mgl64.Vec3{-2, 0.5, 0}, p.Pose.Position)
	assert.Equal(t, "socket1", p.AttachPoints[0].Name)
}

func TestGameSession_TitleAndLevelSelection(t *testing.T) {
	s := newCatalogSession(t)
	assert.Equal(t, StateTitle, s.State())
	assert.Len(t, s.Levels(), 3)
	assert.Zero(t, s.LevelNumber())
	assert.False(t, s.ResetLevel())
	assert.ErrorIs(t, s.StartLevel(0), ErrUnknownLevel)
	assert.ErrorIs(t, s.StartLevel(4), ErrUnknownLevel)

	require.NoError(t, s.StartLevel(1))
	assert.Equal(t, StatePlaying, s.State())
	assert.Equal(t, 1, s.LevelNumber())
	assert.Equal(t, "level_01", s.Level().ID)
	assert.True(t, s.HasNextLevel())
	assert.Error(t, s.NextLevel(), "level 1 is not complete yet")

	winLevel1(t, s)
	require.NoError(t, s.NextLevel())
	assert.Equal(t, 2, s.LevelNumber())
	assert.Equal(t, "level_02", s.Level().ID)
	assert.Equal(t, StatePlaying, s.State())
	assert.Equal(t, freshStats(), s.Stats())
	assert.Empty(t, s.Sockets(), "the new target has not loaded yet")

	require.True(t, s.SelectPart("part1"))
	require.True(t, s.ShowTitle())
	assert.False(t, s.ShowTitle())
	assert.Equal(t, StateTitle, s.State())
	assert.False(t, s.Grab("part1"))
	_, ok := s.Selected()
	assert.False(t, ok)
}

func TestGameSession_LastLevelHasNoNext(t *testing.T) {
	s := newCatalogSession(t)
	require.NoError(t, s.StartLevel(3))
	assert.False(t, s.HasNextLevel())

	// Levels loaded outside the catalog have no position in it.
	level, err := BuiltinLevel(1)
	require.NoError(t, err)
	require.NoError(t, s.LoadLevel(level))
	assert.Zero(t, s.LevelNumber())
	assert.False(t, s.HasNextLevel())

	winLevel1(t, s)
	assert.ErrorIs(t, s.NextLevel(), ErrUnknownLevel)
}

func TestGameSession_ShowTitleDropsPendingExpiries(t *testing.T) {
	s := newCatalogSession(t)
	require.NoError(t, s.StartLevel(1))
	s.Update(0)
	require.True(t, s.Grab("part1"))
	s.AttemptSnap("part1")
	require.Equal(t, 1, s.timers.Pending())

	require.True(t, s.ShowTitle())
	assert.Zero(t, s.timers.Pending())
	_, ok := s.Feedback()
	assert.False(t, ok)
}
