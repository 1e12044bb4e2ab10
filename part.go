package snapfit

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

type PartPhase int

const (
	PartIdle PartPhase = iota
	PartGrabbed
	PartSnapped
)

func (p PartPhase) String() string {
	switch p {
	case PartGrabbed:
		return "grabbed"
	case PartSnapped:
		return "snapped"
	default:
		return "idle"
	}
}

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	return [...]string{"x", "y", "z"}[a]
}

// PartRecord is the runtime state of one movable part. Its transitions are
// filters: an illegal request leaves the record untouched and returns false.
type PartRecord struct {
	ID     string
	Config PartConfig

	// AttachPoints is nil until the part model has been extracted.
	AttachPoints []Anchor

	Pose  Transform
	Euler mgl64.Vec3 // accumulated XYZ angles in radians while free
	Phase PartPhase

	// SnappedSocket is the socket the part is locked to while snapped.
	SnappedSocket string
}

func NewPartRecord(cfg PartConfig) *PartRecord {
	p := &PartRecord{ID: cfg.ID, Config: cfg}
	p.restoreStart()
	return p
}

func (p *PartRecord) restoreStart() {
	p.Euler = p.Config.Start.EulerRadians()
	p.Pose = NewTransform(p.Config.Start.Position(), EulerToQuat(p.Euler))
	p.Phase = PartIdle
	p.SnappedSocket = ""
}

func (p *PartRecord) IsGrabbed() bool { return p.Phase == PartGrabbed }
func (p *PartRecord) IsSnapped() bool { return p.Phase == PartSnapped }

func (p *PartRecord) AttachPointsLoaded() bool { return p.AttachPoints != nil }

// SetAttachPoints installs a fresh extraction snapshot.
func (p *PartRecord) SetAttachPoints(points []Anchor) {
	if points == nil {
		points = []Anchor{}
	}
	p.AttachPoints = slices.Clone(points)
}

// Grab is legal only from idle.
func (p *PartRecord) Grab() bool {
	if p.Phase != PartIdle {
		return false
	}
	p.Phase = PartGrabbed
	return true
}

// Release drops a grabbed part where it is.
func (p *PartRecord) Release() bool {
	if p.Phase != PartGrabbed {
		return false
	}
	p.Phase = PartIdle
	return true
}

func (p *PartRecord) Move(delta mgl64.Vec3) bool {
	if p.Phase != PartGrabbed {
		return false
	}
	p.Pose.Position = p.Pose.Position.Add(delta)
	return true
}

// Rotate adds degrees to one Euler axis. There is no clamping; orientation
// wraps naturally.
func (p *PartRecord) Rotate(axis Axis, degrees float64) bool {
	if p.Phase != PartGrabbed || axis < AxisX || axis > AxisZ {
		return false
	}
	p.Euler[axis] += mgl64.DegToRad(degrees)
	p.Pose.Rotation = EulerToQuat(p.Euler)
	return true
}

// SnapRequest builds the matcher input for this part.
func (p *PartRecord) SnapRequest(tol Tolerance, sockets []Anchor) SnapRequest {
	return SnapRequest{
		PartPose:     p.Pose,
		AttachPoints: p.AttachPoints,
		TargetSocket: p.Config.SnapTo,
		Symmetry:     p.Config.Symmetry,
		Tolerance:    tol,
		Sockets:      sockets,
	}
}

// CommitSnap locks a grabbed part onto the socket of a committable outcome.
// The pose is assigned, not blended.
func (p *PartRecord) CommitSnap(outcome SnapOutcome) bool {
	if p.Phase != PartGrabbed || !outcome.Committable() || len(p.AttachPoints) == 0 {
		return false
	}
	p.Pose = SnappedPose(outcome.Socket.Transform, p.AttachPoints[0].Transform)
	p.Phase = PartSnapped
	p.SnappedSocket = outcome.Socket.Name
	return true
}

// Reset returns the part to its configured start pose from any phase.
func (p *PartRecord) Reset() {
	p.restoreStart()
}
