package snapfit

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform is a rigid pose: a position and a unit orientation.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

func IdentityTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
	}
}

// NewTransform builds a transform and normalizes the rotation. A zero quaternion
// is treated as identity.
func NewTransform(pos mgl64.Vec3, rot mgl64.Quat) Transform {
	return Transform{Position: pos, Rotation: normalizeQuat(rot)}
}

func normalizeQuat(q mgl64.Quat) mgl64.Quat {
	if q.Len() == 0 {
		return mgl64.QuatIdent()
	}
	return q.Normalize()
}

// ComposeWorld expresses childLocal in the frame described by parentWorld.
//
//	WorldPos = ParentPos + ParentRot * LocalPos
//	WorldRot = ParentRot * LocalRot
func ComposeWorld(childLocal, parentWorld Transform) Transform {
	return Transform{
		Position: parentWorld.Position.Add(parentWorld.Rotation.Rotate(childLocal.Position)),
		Rotation: parentWorld.Rotation.Mul(childLocal.Rotation).Normalize(),
	}
}

// Inverse returns the transform t' such that ComposeWorld(t', t) is the identity.
func (t Transform) Inverse() Transform {
	inv := t.Rotation.Inverse()
	return Transform{
		Position: inv.Rotate(t.Position).Mul(-1),
		Rotation: inv.Normalize(),
	}
}

// ApproxEqual compares positions by absolute distance and rotations up to the
// quaternion double cover.
func (t Transform) ApproxEqual(other Transform, threshold float64) bool {
	if Distance(t.Position, other.Position) > threshold {
		return false
	}
	return math.Abs(t.Rotation.Dot(other.Rotation)) >= 1-threshold
}

// Distance is the Euclidean distance between two positions.
func Distance(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}

// AngularDistanceDegrees returns the smallest rotation angle, in [0, 180], that
// takes a onto b. q and -q describe the same orientation and compare as equal.
func AngularDistanceDegrees(a, b mgl64.Quat) float64 {
	dot := math.Abs(a.Dot(b))
	if dot > 1 {
		dot = 1
	}
	return mgl64.RadToDeg(2 * math.Acos(dot))
}

// LerpTransform interpolates position linearly and orientation spherically.
// alpha is clamped to [0, 1].
func LerpTransform(a, b Transform, alpha float64) Transform {
	alpha = mgl64.Clamp(alpha, 0, 1)
	to := b.Rotation
	// Take the short way round.
	if a.Rotation.Dot(to) < 0 {
		to = to.Scale(-1)
	}
	return Transform{
		Position: a.Position.Add(b.Position.Sub(a.Position).Mul(alpha)),
		Rotation: mgl64.QuatSlerp(a.Rotation, to, alpha).Normalize(),
	}
}

// EulerToQuat converts XYZ-ordered Euler angles (radians) into a quaternion.
func EulerToQuat(euler mgl64.Vec3) mgl64.Quat {
	return mgl64.AnglesToQuat(euler.X(), euler.Y(), euler.Z(), mgl64.XYZ).Normalize()
}

// EulerDegreesToQuat is EulerToQuat for angles authored in degrees.
func EulerDegreesToQuat(deg mgl64.Vec3) mgl64.Quat {
	return EulerToQuat(mgl64.Vec3{
		mgl64.DegToRad(deg.X()),
		mgl64.DegToRad(deg.Y()),
		mgl64.DegToRad(deg.Z()),
	})
}
