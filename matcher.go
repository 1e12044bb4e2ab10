package snapfit

import (
	"math"
)

// Tolerance is the per-level "close enough" threshold for snapping.
type Tolerance struct {
	Position float64 `yaml:"pos" json:"pos"`
	Degrees  float64 `yaml:"deg" json:"deg"`
}

func DefaultTolerance() Tolerance {
	return Tolerance{Position: 0.05, Degrees: 25}
}

// candidateRadiusFactor scales the position tolerance into the pre-filter
// radius used to pick candidate sockets.
const candidateRadiusFactor = 6

// angleScoreWeight makes the angular error a tie-breaker next to the
// positional error when ranking candidates.
const angleScoreWeight = 0.01

// SnapOutcome is the result of a snap attempt. Socket and Score are only
// meaningful when Success is true.
type SnapOutcome struct {
	Success         bool
	Socket          Anchor
	Score           float64
	IsCorrectTarget bool
}

// Committable reports whether the outcome should lock the part in place.
func (o SnapOutcome) Committable() bool {
	return o.Success && o.IsCorrectTarget
}

// WrongSocket reports a tolerance-satisfying match on a socket other than the
// requested one.
func (o SnapOutcome) WrongSocket() bool {
	return o.Success && !o.IsCorrectTarget
}

// SnapRequest bundles the inputs of TrySnap.
type SnapRequest struct {
	PartPose     Transform
	AttachPoints []Anchor
	TargetSocket string
	Symmetry     SymmetryClass
	Tolerance    Tolerance
	Sockets      []Anchor
}

// AttachPointsToWorld projects local attach points through the part pose.
func AttachPointsToWorld(pose Transform, local []Anchor) []Anchor {
	out := make([]Anchor, len(local))
	for i, ap := range local {
		out[i] = Anchor{Name: ap.Name, Role: ap.Role, Transform: ComposeWorld(ap.Transform, pose)}
	}
	return out
}

// TrySnap decides whether the part's representative attach point (the first
// one) fits a socket. Sockets named like the target are tried before all
// others and the first of them inside tolerance wins outright; otherwise the
// lowest score wins. TrySnap does not retain or modify its inputs.
func TrySnap(req SnapRequest) SnapOutcome {
	if len(req.AttachPoints) == 0 || len(req.Sockets) == 0 {
		return SnapOutcome{}
	}

	ap := AttachPointsToWorld(req.PartPose, req.AttachPoints[:1])[0].Transform
	tol := req.Tolerance

	radius := tol.Position * candidateRadiusFactor
	var correct, other []Anchor
	for _, s := range req.Sockets {
		if Distance(ap.Position, s.Transform.Position) >= radius {
			continue
		}
		if s.Name == req.TargetSocket {
			correct = append(correct, s)
		} else {
			other = append(other, s)
		}
	}

	var (
		best      Anchor
		bestScore = math.Inf(1)
		found     bool
	)

Candidates:
	for _, group := range [][]Anchor{correct, other} {
		for _, s := range group {
			posDiff := Distance(ap.Position, s.Transform.Position)
			angleDiff := AngularDistanceDegrees(ap.Rotation, s.Transform.Rotation)
			angleDiff = req.Symmetry.DiscountAngle(angleDiff, tol.Degrees)

			if posDiff >= tol.Position || angleDiff >= tol.Degrees {
				continue
			}

			score := posDiff + angleScoreWeight*angleDiff
			if score < bestScore {
				best, bestScore, found = s, score, true
				if s.Name == req.TargetSocket {
					break Candidates
				}
			}
		}
	}

	if !found {
		return SnapOutcome{}
	}
	return SnapOutcome{
		Success:         true,
		Socket:          best,
		Score:           bestScore,
		IsCorrectTarget: best.Name == req.TargetSocket,
	}
}

// SnappedPose returns the part pose that puts the local attach point exactly
// on the socket.
func SnappedPose(socket Transform, attach Transform) Transform {
	return ComposeWorld(attach.Inverse(), socket)
}
