package snapfit

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

type GameState int

const (
	StateTitle GameState = iota
	StatePlaying
	StatePaused
	StateSuccess
	StateFail
)

func (s GameState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateSuccess:
		return "success"
	case StateFail:
		return "fail"
	default:
		return "title"
	}
}

const (
	maxStars       = 3
	mistakePenalty = 3 // mistakes that cost a star
)

type Stats struct {
	Stars     int
	Elapsed   time.Duration
	HintsUsed int
	Mistakes  int
}

func freshStats() Stats {
	return Stats{Stars: maxStars}
}

type ViewSettings struct {
	ShowGhost bool
	ShowGrid  bool
	Zoom      float64
}

const (
	minZoom = 0.5
	maxZoom = 2.0
)

func defaultView() ViewSettings {
	return ViewSettings{ShowGhost: true, ShowGrid: false, Zoom: 1.0}
}

// Hint points the player at the socket the selected part belongs to.
type Hint struct {
	PartID   string
	Socket   string
	Position mgl64.Vec3
	// Located is false while the target model has not been loaded.
	Located bool
}

type SessionOptions struct {
	Logger   Logger
	Assets   *AssetServer
	Progress ProgressStore
	// Levels is the catalog offered on the title screen, in play order.
	Levels []*LevelConfig

	FeedbackDuration      time.Duration
	HintDuration          time.Duration
	SnapAnimationDuration time.Duration
}

// GameSession owns every piece of mutable game state: part records, the
// socket registry, selection, stats and timed feedback. Renderers and UI read
// it through the query methods; input drives it through the command methods.
type GameSession struct {
	id       uuid.UUID
	log      Logger
	assets   *AssetServer
	progress ProgressStore
	opts     SessionOptions

	state    GameState
	catalog  []*LevelConfig
	number   int // 1-based catalog position of level; 0 when loaded directly
	level    *LevelConfig
	parts    []*PartRecord
	index    map[string]*PartRecord
	selected string

	sockets     *SocketRegistry
	targetAsset AssetId
	partAssets  map[AssetId]string

	stats       Stats
	timers      Timers
	feedback    Timed[Feedback]
	lastOutcome SnapOutcome
	hint        Timed[Hint]
	animations  map[string]*SnapAnimation
	view        ViewSettings
}

func NewGameSession(opts SessionOptions) *GameSession {
	if opts.FeedbackDuration <= 0 {
		opts.FeedbackDuration = DefaultFeedbackDuration
	}
	if opts.HintDuration <= 0 {
		opts.HintDuration = DefaultHintDuration
	}
	if opts.SnapAnimationDuration <= 0 {
		opts.SnapAnimationDuration = DefaultSnapAnimationDuration
	}
	id := uuid.New()
	return &GameSession{
		id:         id,
		log:        orNop(opts.Logger).Named("session " + id.String()[:8]),
		assets:     opts.Assets,
		progress:   opts.Progress,
		opts:       opts,
		state:      StateTitle,
		catalog:    slices.Clone(opts.Levels),
		index:      make(map[string]*PartRecord),
		sockets:    NewSocketRegistry(),
		partAssets: make(map[AssetId]string),
		stats:      freshStats(),
		animations: make(map[string]*SnapAnimation),
		view:       defaultView(),
	}
}

// LoadLevel replaces all parts with fresh records built from the level
// config and requests its models. Anchors are unknown until the models load.
func (s *GameSession) LoadLevel(level *LevelConfig) error {
	if level == nil {
		return fmt.Errorf("%w: nil level", ErrInvalidLevel)
	}
	if err := level.Validate(); err != nil {
		return err
	}

	s.level = level
	s.number = 0
	s.parts = s.parts[:0]
	s.index = make(map[string]*PartRecord, len(level.Parts))
	for _, cfg := range level.Parts {
		part := NewPartRecord(cfg)
		s.parts = append(s.parts, part)
		s.index[cfg.ID] = part
	}
	s.sockets.Clear()
	s.restartRun()

	s.targetAsset = ""
	clear(s.partAssets)
	if s.assets != nil {
		for _, ref := range level.ModelRefs() {
			if !s.assets.HasModel(ref) {
				s.log.Warnf("level %s uses unregistered model %q", level.ID, ref)
			}
		}
		s.assets.Cancel()
		s.targetAsset = s.assets.Request(level.Target, "")
		for _, cfg := range level.Parts {
			s.partAssets[s.assets.Request(cfg.Model, cfg.ID)] = cfg.ID
		}
	}

	s.log.Infof("loaded level %s (%s) with %d parts, tolerance %+v", level.ID, level.Name, len(level.Parts), level.SnapTolerance())
	return nil
}

// Levels returns the title screen catalog.
func (s *GameSession) Levels() []*LevelConfig { return slices.Clone(s.catalog) }

// LevelNumber is the catalog position of the current level, or 0 when the
// level did not come from the catalog.
func (s *GameSession) LevelNumber() int { return s.number }

// StartLevel loads the n-th catalog level (1-based).
func (s *GameSession) StartLevel(n int) error {
	if n < 1 || n > len(s.catalog) {
		return fmt.Errorf("%w: %d", ErrUnknownLevel, n)
	}
	if err := s.LoadLevel(s.catalog[n-1]); err != nil {
		return err
	}
	s.number = n
	return nil
}

func (s *GameSession) HasNextLevel() bool {
	return s.number > 0 && s.number < len(s.catalog)
}

// NextLevel moves on from a completed catalog level.
func (s *GameSession) NextLevel() error {
	if s.state != StateSuccess {
		return fmt.Errorf("next level: current level is %s, not complete", s.state)
	}
	if !s.HasNextLevel() {
		return fmt.Errorf("%w: no level after %d", ErrUnknownLevel, s.number)
	}
	return s.StartLevel(s.number + 1)
}

// ShowTitle leaves the running level for level selection. Part commands are
// ignored until a level is started again.
func (s *GameSession) ShowTitle() bool {
	if s.state == StateTitle {
		return false
	}
	s.state = StateTitle
	s.selected = ""
	s.timers.Reset()
	s.feedback.Clear()
	s.hint.Clear()
	clear(s.animations)
	return true
}

// ResetLevel puts every part back at its start pose and restarts the clock.
// Extracted anchors are kept since the models did not change.
func (s *GameSession) ResetLevel() bool {
	if s.level == nil || s.state == StateTitle {
		return false
	}
	for _, p := range s.parts {
		p.Reset()
	}
	s.restartRun()
	s.log.Infof("level %s reset", s.level.ID)
	return true
}

func (s *GameSession) restartRun() {
	s.state = StatePlaying
	s.selected = ""
	s.stats = freshStats()
	s.timers.Reset()
	s.feedback.Clear()
	s.hint.Clear()
	s.lastOutcome = SnapOutcome{}
	clear(s.animations)
}

// OnTargetLoaded installs the socket snapshot of a freshly loaded target.
func (s *GameSession) OnTargetLoaded(root SceneNode) int {
	sockets := ExtractSockets(root)
	s.sockets.Replace(sockets)
	s.log.Infof("extracted %d sockets from target", len(sockets))
	return len(sockets)
}

// OnPartLoaded installs the attach points of a freshly loaded part model.
func (s *GameSession) OnPartLoaded(partID string, root SceneNode) (int, bool) {
	part, ok := s.index[partID]
	if !ok {
		s.log.Warnf("model loaded for unknown part %s", partID)
		return 0, false
	}
	points := ExtractAttachPoints(root)
	part.SetAttachPoints(points)
	s.log.Infof("extracted %d attach points from part %s", len(points), partID)
	return len(points), true
}

// Update advances the session by one frame.
func (s *GameSession) Update(dt time.Duration) {
	s.pollAssets()

	s.timers.Advance(dt)
	for id, anim := range s.animations {
		if anim.Advance(dt) {
			delete(s.animations, id)
		}
	}

	if s.state != StatePlaying || dt <= 0 {
		return
	}
	s.stats.Elapsed += dt
	if limit := s.timeLimit(); limit > 0 && s.stats.Elapsed > limit {
		s.state = StateFail
		s.log.Infof("level %s failed: time limit %v exceeded", s.level.ID, limit)
	}
}

func (s *GameSession) timeLimit() time.Duration {
	if s.level == nil || s.level.TimeLimitSec <= 0 {
		return 0
	}
	return time.Duration(s.level.TimeLimitSec * float64(time.Second))
}

func (s *GameSession) pollAssets() {
	if s.assets == nil {
		return
	}
	for _, lm := range s.assets.Poll() {
		if lm.Err != nil {
			s.log.Errorf("load model %s: %v", lm.Ref, lm.Err)
			continue
		}
		if lm.Id == s.targetAsset {
			s.OnTargetLoaded(lm.Root)
			continue
		}
		partID, ok := s.partAssets[lm.Id]
		if !ok {
			s.log.Debugf("dropping stale model %s (%s)", lm.Ref, lm.Id)
			continue
		}
		s.OnPartLoaded(partID, lm.Root)
	}
}

func (s *GameSession) playing() bool {
	return s.state == StatePlaying
}

func (s *GameSession) Pause() bool {
	if s.state != StatePlaying {
		return false
	}
	s.state = StatePaused
	return true
}

func (s *GameSession) Resume() bool {
	if s.state != StatePaused {
		return false
	}
	s.state = StatePlaying
	return true
}

// Selection

func (s *GameSession) SelectPart(id string) bool {
	if _, ok := s.index[id]; !ok {
		return false
	}
	s.selected = id
	return true
}

// SelectIndex selects the i-th part (0-based) in level order.
func (s *GameSession) SelectIndex(i int) bool {
	if i < 0 || i >= len(s.parts) {
		return false
	}
	s.selected = s.parts[i].ID
	return true
}

func (s *GameSession) selectedIndex() int {
	return slices.IndexFunc(s.parts, func(p *PartRecord) bool { return p.ID == s.selected })
}

func (s *GameSession) SelectNext() bool {
	if len(s.parts) == 0 {
		return false
	}
	next := (s.selectedIndex() + 1) % len(s.parts)
	s.selected = s.parts[next].ID
	return true
}

func (s *GameSession) SelectPrev() bool {
	if len(s.parts) == 0 {
		return false
	}
	cur := s.selectedIndex()
	prev := cur - 1
	if cur <= 0 {
		prev = len(s.parts) - 1
	}
	s.selected = s.parts[prev].ID
	return true
}

func (s *GameSession) Selected() (string, bool) {
	return s.selected, s.selected != ""
}

// Part commands. They are filters: anything not legal in the current state is
// ignored and reported as false.

func (s *GameSession) part(id string) *PartRecord {
	if !s.playing() {
		return nil
	}
	return s.index[id]
}

func (s *GameSession) Grab(id string) bool {
	p := s.part(id)
	return p != nil && p.Grab()
}

func (s *GameSession) Release(id string) bool {
	p := s.part(id)
	return p != nil && p.Release()
}

func (s *GameSession) Move(id string, delta mgl64.Vec3) bool {
	p := s.part(id)
	return p != nil && p.Move(delta)
}

func (s *GameSession) Rotate(id string, axis Axis, degrees float64) bool {
	p := s.part(id)
	return p != nil && p.Rotate(axis, degrees)
}

func (s *GameSession) ResetPart(id string) bool {
	p := s.part(id)
	if p == nil {
		return false
	}
	p.Reset()
	delete(s.animations, id)
	return true
}

// AttemptSnap runs the matcher for a grabbed part. The second result is false
// when no attempt was made because the part is not grabbed.
func (s *GameSession) AttemptSnap(id string) (SnapOutcome, bool) {
	p := s.part(id)
	if p == nil || !p.IsGrabbed() {
		return SnapOutcome{}, false
	}

	if !p.AttachPointsLoaded() || !s.sockets.Loaded() {
		s.log.Debugf("snap %s: models still loading", id)
		s.lastOutcome = SnapOutcome{}
		s.setFeedback(Feedback{PartID: id, Kind: FeedbackNotReady, Message: "Still loading..."})
		return SnapOutcome{}, true
	}

	outcome := TrySnap(p.SnapRequest(s.level.SnapTolerance(), s.sockets.Sockets()))
	s.lastOutcome = outcome
	s.log.Debugf("snap %s at %v: success=%v socket=%q score=%.4f correct=%v",
		id, p.Pose.Position, outcome.Success, outcome.Socket.Name, outcome.Score, outcome.IsCorrectTarget)

	switch {
	case outcome.Committable():
		from := p.Pose
		p.CommitSnap(outcome)
		s.animations[id] = NewSnapAnimation(from, p.Pose, s.opts.SnapAnimationDuration)
		s.setFeedback(Feedback{PartID: id, Kind: FeedbackSnapped, Outcome: outcome,
			Message: fmt.Sprintf("%s snapped into %s", id, outcome.Socket.Name)})
		s.log.Infof("part %s snapped to %s", id, outcome.Socket.Name)
		s.checkWin()
	case outcome.WrongSocket():
		s.stats.Mistakes++
		s.setFeedback(Feedback{PartID: id, Kind: FeedbackWrongSocket, Outcome: outcome,
			Message: fmt.Sprintf("Wrong socket: %s does not belong in %s", id, outcome.Socket.Name)})
	default:
		s.setFeedback(Feedback{PartID: id, Kind: FeedbackMiss, Outcome: outcome,
			Message: "Not aligned - move closer or rotate"})
	}
	return outcome, true
}

// setFeedback shows f and schedules its removal. A later message replaces the
// token, which turns this expiry into a no-op.
func (s *GameSession) setFeedback(f Feedback) {
	token := s.feedback.Set(f)
	s.timers.After(s.opts.FeedbackDuration, func() {
		if s.feedback.Expire(token) {
			s.log.Debugf("snap feedback %s cleared", token)
		}
	})
}

func (s *GameSession) checkWin() {
	if !s.IsAssembled() {
		return
	}
	s.state = StateSuccess
	s.stats.Stars = s.rateRun()
	s.log.Infof("level %s complete in %v with %d stars", s.level.ID, s.stats.Elapsed, s.stats.Stars)

	if s.progress == nil {
		return
	}
	run := LevelProgress{LevelID: s.level.ID, BestTime: s.stats.Elapsed, BestStars: s.stats.Stars, Completed: true}
	prev, err := s.progress.LoadProgress(s.level.ID)
	if err != nil && !errors.Is(err, ErrNoProgress) {
		s.log.Warnf("load progress: %v", err)
	}
	if err := s.progress.SaveProgress(prev.Merge(run)); err != nil {
		s.log.Errorf("save progress: %v", err)
	}
}

func (s *GameSession) rateRun() int {
	stars := maxStars
	if s.stats.HintsUsed > 0 {
		stars--
	}
	if s.stats.Mistakes >= mistakePenalty {
		stars--
	}
	return max(stars, 1)
}

// RequestHint shows where the selected part belongs, if budget remains.
func (s *GameSession) RequestHint() bool {
	if !s.playing() || s.selected == "" {
		return false
	}
	if s.stats.HintsUsed >= s.level.Hints {
		s.log.Debugf("hint refused: budget of %d spent", s.level.Hints)
		return false
	}
	p := s.index[s.selected]
	h := Hint{PartID: p.ID, Socket: p.Config.SnapTo}
	if socket, ok := s.sockets.Lookup(p.Config.SnapTo); ok {
		h.Position = socket.Transform.Position
		h.Located = true
	}
	s.stats.HintsUsed++
	token := s.hint.Set(h)
	s.timers.After(s.opts.HintDuration, func() {
		if s.hint.Expire(token) {
			s.log.Debugf("hint %s cleared", token)
		}
	})
	return true
}

// View settings

func (s *GameSession) ToggleGhost() { s.view.ShowGhost = !s.view.ShowGhost }
func (s *GameSession) ToggleGrid()  { s.view.ShowGrid = !s.view.ShowGrid }

func (s *GameSession) AdjustZoom(delta float64) {
	s.view.Zoom = mgl64.Clamp(s.view.Zoom+delta, minZoom, maxZoom)
}

// Queries

func (s *GameSession) State() GameState    { return s.state }
func (s *GameSession) Level() *LevelConfig { return s.level }
func (s *GameSession) Stats() Stats        { return s.stats }
func (s *GameSession) View() ViewSettings  { return s.view }

// Sockets returns the current socket snapshot.
func (s *GameSession) Sockets() []Anchor { return s.sockets.Sockets() }

// Parts returns copies of the part records in level order.
func (s *GameSession) Parts() []PartRecord {
	out := make([]PartRecord, len(s.parts))
	for i, p := range s.parts {
		out[i] = copyPart(p)
	}
	return out
}

func (s *GameSession) Part(id string) (PartRecord, bool) {
	p, ok := s.index[id]
	if !ok {
		return PartRecord{}, false
	}
	return copyPart(p), true
}

func copyPart(p *PartRecord) PartRecord {
	c := *p
	c.AttachPoints = slices.Clone(p.AttachPoints)
	return c
}

func (s *GameSession) SnappedCount() int {
	n := 0
	for _, p := range s.parts {
		if p.IsSnapped() {
			n++
		}
	}
	return n
}

// IsAssembled reports whether every part is snapped.
func (s *GameSession) IsAssembled() bool {
	return len(s.parts) > 0 && s.SnappedCount() == len(s.parts)
}

func (s *GameSession) Feedback() (Feedback, bool) { return s.feedback.Get() }

// LastOutcome is the most recent matcher result; unlike Feedback it does not
// expire.
func (s *GameSession) LastOutcome() SnapOutcome { return s.lastOutcome }

func (s *GameSession) Hint() (Hint, bool) { return s.hint.Get() }

// HintTargetPosition returns the socket position of the active hint.
func (s *GameSession) HintTargetPosition() (mgl64.Vec3, bool) {
	h, ok := s.hint.Get()
	if !ok || !h.Located {
		return mgl64.Vec3{}, false
	}
	return h.Position, true
}

// DisplayPose is the pose a renderer should draw, including any running snap
// animation.
func (s *GameSession) DisplayPose(id string) (Transform, bool) {
	p, ok := s.index[id]
	if !ok {
		return Transform{}, false
	}
	if anim, ok := s.animations[id]; ok {
		return anim.Current(), true
	}
	return p.Pose, true
}

// BestProgress returns the stored record of the current level.
func (s *GameSession) BestProgress() (LevelProgress, error) {
	if s.level == nil {
		return LevelProgress{}, ErrNoProgress
	}
	return s.LevelProgress(s.level.ID)
}

// LevelProgress returns the stored record of any level.
func (s *GameSession) LevelProgress(levelID string) (LevelProgress, error) {
	if s.progress == nil {
		return LevelProgress{}, ErrNoProgress
	}
	return s.progress.LoadProgress(levelID)
}
