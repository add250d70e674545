// Package arm wraps the kinematics engine in a stateful arm model: joint
// states with limits, cached Jacobians, and pose-level commands.
package arm

import (
	"math"

	"github.com/urtrobotics/armkit/utils"
)

// Limit is an allowed position range for one joint, in radians.
type Limit struct {
	Min float64
	Max float64
}

// Unbounded is the limit of a joint free to rotate continuously.
var Unbounded = Limit{Min: math.Inf(-1), Max: math.Inf(1)}

// Joint holds one revolute joint's position and velocity in radians, clamped
// to its limit. User-facing degree values convert at the setters.
type Joint struct {
	position float64
	velocity float64
	limit    Limit
}

// NewJoint returns a joint at zero with the given limit.
func NewJoint(limit Limit) *Joint {
	return &Joint{limit: limit}
}

// NewJointDegrees returns a joint whose limit is given in degrees.
func NewJointDegrees(minDeg, maxDeg float64) *Joint {
	return NewJoint(Limit{Min: utils.DegToRad(minDeg), Max: utils.DegToRad(maxDeg)})
}

// Position returns the joint angle in radians.
func (j *Joint) Position() float64 {
	return j.position
}

// Velocity returns the joint velocity in radians per second.
func (j *Joint) Velocity() float64 {
	return j.velocity
}

// Limit returns the joint's allowed range.
func (j *Joint) Limit() Limit {
	return j.limit
}

// SetPosition sets the joint angle in radians, clamped to the limit.
func (j *Joint) SetPosition(pos float64) {
	j.position = math.Min(math.Max(pos, j.limit.Min), j.limit.Max)
}

// SetPositionDegrees sets the joint angle from a degree value.
func (j *Joint) SetPositionDegrees(posDeg float64) {
	j.SetPosition(utils.DegToRad(posDeg))
}

// SetVelocity sets the joint velocity in radians per second.
func (j *Joint) SetVelocity(vel float64) {
	j.velocity = vel
}

// InLimit reports whether a candidate angle lies within the joint's range.
func (j *Joint) InLimit(pos float64) bool {
	return pos >= j.limit.Min && pos <= j.limit.Max
}
