// Package spatialmath implements the rigid-body math used by the kinematics
// engine: homogeneous transforms and yaw/pitch/roll orientation conversions.
package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Transform is a 4x4 homogeneous transform describing a frame's position and
// orientation relative to another frame. The rotation block stays orthonormal
// as long as transforms are only built and composed through this package.
type Transform struct {
	mat mgl64.Mat4
}

// NewTransform returns the identity transform.
func NewTransform() *Transform {
	return &Transform{mgl64.Ident4()}
}

// NewTransformFromMat wraps an existing homogeneous matrix.
func NewTransformFromMat(mat mgl64.Mat4) *Transform {
	return &Transform{mat}
}

// NewTranslation returns a pure translation along x, y, z.
func NewTranslation(x, y, z float64) *Transform {
	return &Transform{mgl64.Translate3D(x, y, z)}
}

// NewRotationX returns a pure rotation of the given angle (radians) about x.
func NewRotationX(angle float64) *Transform {
	return &Transform{mgl64.HomogRotate3DX(angle)}
}

// NewRotationY returns a pure rotation of the given angle (radians) about y.
func NewRotationY(angle float64) *Transform {
	return &Transform{mgl64.HomogRotate3DY(angle)}
}

// NewRotationZ returns a pure rotation of the given angle (radians) about z.
func NewRotationZ(angle float64) *Transform {
	return &Transform{mgl64.HomogRotate3DZ(angle)}
}

// NewPose assembles a transform from a position and a rotation matrix.
func NewPose(point r3.Vector, rotation mgl64.Mat3) *Transform {
	t := &Transform{mgl64.Ident4()}
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			t.mat.Set(r, c, rotation.At(r, c))
		}
	}
	t.mat.Set(0, 3, point.X)
	t.mat.Set(1, 3, point.Y)
	t.mat.Set(2, 3, point.Z)
	return t
}

// Compose returns t * other, i.e. other expressed in t's parent frame.
func Compose(t, other *Transform) *Transform {
	return &Transform{t.mat.Mul4(other.mat)}
}

// Mat returns the underlying homogeneous matrix.
func (t *Transform) Mat() mgl64.Mat4 {
	return t.mat
}

// At returns the matrix entry at the given row and column.
func (t *Transform) At(row, col int) float64 {
	return t.mat.At(row, col)
}

// Point returns the translation component.
func (t *Transform) Point() r3.Vector {
	return r3.Vector{X: t.mat.At(0, 3), Y: t.mat.At(1, 3), Z: t.mat.At(2, 3)}
}

// Rotation returns the top-left 3x3 rotation block.
func (t *Transform) Rotation() mgl64.Mat3 {
	return t.mat.Mat3()
}

// AxisX returns the direction of the frame's x-axis in the parent frame.
func (t *Transform) AxisX() r3.Vector {
	return columnVector(t.mat.Mat3(), 0)
}

// AxisY returns the direction of the frame's y-axis in the parent frame.
func (t *Transform) AxisY() r3.Vector {
	return columnVector(t.mat.Mat3(), 1)
}

// AxisZ returns the direction of the frame's z-axis in the parent frame. For
// a frame produced by a DH row this is the axis its revolute joint rotates
// about.
func (t *Transform) AxisZ() r3.Vector {
	return columnVector(t.mat.Mat3(), 2)
}

// Orientation returns the transform's rotation as yaw/pitch/roll.
func (t *Transform) Orientation() *EulerAngles {
	return NewEulerAnglesFromRotation(t.Rotation())
}

// AlmostEqual returns true when every matrix entry of the two transforms is
// within tol.
func (t *Transform) AlmostEqual(other *Transform, tol float64) bool {
	return t.mat.ApproxEqualThreshold(other.mat, tol)
}

func columnVector(m mgl64.Mat3, col int) r3.Vector {
	v := m.Col(col)
	return r3.Vector{X: v.X(), Y: v.Y(), Z: v.Z()}
}
