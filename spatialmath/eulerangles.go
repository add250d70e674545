package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/urtrobotics/armkit/utils"
)

// EulerAngles is a yaw/pitch/roll orientation in radians, applied in ZYX
// order: Rz(yaw) * Ry(pitch) * Rx(roll).
type EulerAngles struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
	Roll  float64 `json:"roll"`
}

// NewEulerAngles returns the zero orientation.
func NewEulerAngles() *EulerAngles {
	return &EulerAngles{}
}

// NewEulerAnglesFromRotation extracts yaw/pitch/roll from a rotation matrix.
// Matrix entries within utils.DefaultSnapEpsilon of zero are snapped to
// exactly zero before the trig calls; without this, gimbal-lock-adjacent
// rotations pick up sign noise from the ±1e-16 residue of sin/cos.
func NewEulerAnglesFromRotation(m mgl64.Mat3) *EulerAngles {
	eps := utils.DefaultSnapEpsilon
	return &EulerAngles{
		Yaw:   math.Atan2(utils.SnapZero(m.At(1, 0), eps), utils.SnapZero(m.At(0, 0), eps)),
		Pitch: math.Asin(-utils.SnapZero(m.At(2, 0), eps)),
		Roll:  math.Atan2(utils.SnapZero(m.At(2, 1), eps), utils.SnapZero(m.At(2, 2), eps)),
	}
}

// RotationMatrix converts the angles back to a rotation matrix,
// Rz(yaw) * Ry(pitch) * Rx(roll).
func (ea *EulerAngles) RotationMatrix() mgl64.Mat3 {
	zRot := mgl64.Rotate3DZ(ea.Yaw)
	yRot := mgl64.Rotate3DY(ea.Pitch)
	xRot := mgl64.Rotate3DX(ea.Roll)
	return zRot.Mul3(yRot).Mul3(xRot)
}

// EulerAnglesDegrees is the degree-valued form used at user-facing
// boundaries.
type EulerAnglesDegrees struct {
	Yaw   float64 `json:"yaw_deg"`
	Pitch float64 `json:"pitch_deg"`
	Roll  float64 `json:"roll_deg"`
}

// Radians converts boundary degrees to the internal radian representation.
func (ead *EulerAnglesDegrees) Radians() *EulerAngles {
	return &EulerAngles{
		Yaw:   utils.DegToRad(ead.Yaw),
		Pitch: utils.DegToRad(ead.Pitch),
		Roll:  utils.DegToRad(ead.Roll),
	}
}

// Degrees converts the internal radian representation to boundary degrees.
func (ea *EulerAngles) Degrees() *EulerAnglesDegrees {
	return &EulerAnglesDegrees{
		Yaw:   utils.RadToDeg(ea.Yaw),
		Pitch: utils.RadToDeg(ea.Pitch),
		Roll:  utils.RadToDeg(ea.Roll),
	}
}
