package kinematics

import "github.com/pkg/errors"

// ErrUnreachable is the base error for targets outside the arm's reachable
// workspace. Callers such as the workspace search treat it as "this target
// doesn't work", not as a failure of the solver.
var ErrUnreachable = errors.New("target pose is outside the reachable workspace")

// ErrBaseSingularity is returned when the wrist center lies on the joint-2
// axis, where the base rotation is undefined.
var ErrBaseSingularity = errors.New("wrist center coincides with the shoulder axis, base rotation undefined")

// ErrDegenerateOrientation is returned by the 5-DOF solver when the target
// orientation is outside the two-DOF family its wrist can reach.
var ErrDegenerateOrientation = errors.New("target orientation not realizable by this wrist")

// NewUnreachableError annotates ErrUnreachable with which part of the
// solution went complex.
func NewUnreachableError(reason string) error {
	return errors.Wrap(ErrUnreachable, reason)
}

// NewFrameOutOfRangeError is returned for frame indices outside the table.
func NewFrameOutOfRangeError(fromFrame, toFrame, rows int) error {
	return errors.Errorf("frame indices out of range: from %d to %d with %d rows", fromFrame, toFrame, rows)
}

// NewFrameOrderError is returned when the start frame comes after the end
// frame.
func NewFrameOrderError(fromFrame, toFrame int) error {
	return errors.Errorf("from frame %d must not exceed to frame %d", fromFrame, toFrame)
}
