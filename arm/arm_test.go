package arm

import (
	"math"
	"testing"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/urtrobotics/armkit/dh"
	"github.com/urtrobotics/armkit/kinematics"
	"github.com/urtrobotics/armkit/spatialmath"
)

var testLinks = []float64{5, 30, 20, 7, 5}

func newTestArm(t *testing.T, limits []Limit) *Arm {
	t.Helper()
	logger := golog.NewTestLogger(t)
	a, err := New("test-arm", dh.SixDOF, testLinks, limits, 0, logger)
	test.That(t, err, test.ShouldBeNil)
	return a
}

func TestNewValidation(t *testing.T) {
	logger := golog.NewTestLogger(t)

	_, err := New("bad", dh.SixDOF, []float64{1, 2}, nil, 0, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "requires 5 link lengths")

	_, err = New("bad", dh.SixDOF, testLinks, []Limit{Unbounded}, 0, logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "joint limits")

	a := newTestArm(t, nil)
	test.That(t, a.Name(), test.ShouldEqual, "test-arm")
	test.That(t, a.DoF(), test.ShouldEqual, 6)
	test.That(t, a.Topology(), test.ShouldEqual, dh.SixDOF)
	test.That(t, a.LinkLengths(), test.ShouldResemble, testLinks)
}

func TestJointStates(t *testing.T) {
	a := newTestArm(t, nil)

	err := a.SetJointPositions([]float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a.JointPositions(), test.ShouldResemble, []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6})

	err = a.SetJointPositions([]float64{0.1})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "requires 6 joint angles")

	err = a.SetJointPositionsDegrees([]float64{90, 0, 0, 0, 0, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a.JointPositions()[0], test.ShouldAlmostEqual, math.Pi/2)

	err = a.SetJointVelocities([]float64{1, 2, 3, 4, 5, 6})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a.JointVelocities(), test.ShouldResemble, []float64{1, 2, 3, 4, 5, 6})
}

func TestJointLimitClamping(t *testing.T) {
	limits := make([]Limit, 6)
	for i := range limits {
		limits[i] = Unbounded
	}
	limits[1] = Limit{Min: -0.5, Max: 0.5}
	a := newTestArm(t, limits)

	err := a.SetJointPositions([]float64{0, 2.0, 0, 0, 0, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a.JointPositions()[1], test.ShouldEqual, 0.5)

	err = a.SetJointPositions([]float64{0, -2.0, 0, 0, 0, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, a.JointPositions()[1], test.ShouldEqual, -0.5)
}

func TestEndEffectorPose(t *testing.T) {
	a := newTestArm(t, nil)
	pose, err := a.EndEffectorPose()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.Point().Z, test.ShouldAlmostEqual, 67)

	poses, err := a.FramePoses()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, poses, test.ShouldHaveLength, 8)
	test.That(t, poses[len(poses)-1].AlmostEqual(pose, 1e-12), test.ShouldBeTrue)
}

func TestMoveToPose(t *testing.T) {
	a := newTestArm(t, nil)

	thetas := []float64{0.3, 0.4, 0.5, 0.2, 0.3, 0.1}
	err := a.SetJointPositions(thetas)
	test.That(t, err, test.ShouldBeNil)
	target, err := a.EndEffectorPose()
	test.That(t, err, test.ShouldBeNil)

	err = a.SetJointPositions(make([]float64, 6))
	test.That(t, err, test.ShouldBeNil)

	got, err := a.MoveToPose(target)
	test.That(t, err, test.ShouldBeNil)
	for i := range thetas {
		test.That(t, got[i], test.ShouldAlmostEqual, thetas[i], 1e-9)
	}
	test.That(t, a.JointPositions()[2], test.ShouldAlmostEqual, 0.5, 1e-9)
}

func TestMoveToPoseRespectsLimits(t *testing.T) {
	// Excluding positive elbow angles forces the elbow-up branch.
	limits := make([]Limit, 6)
	for i := range limits {
		limits[i] = Unbounded
	}
	limits[2] = Limit{Min: -1, Max: 0}
	a := newTestArm(t, limits)

	reference := newTestArm(t, nil)
	err := reference.SetJointPositions([]float64{0.3, 0.4, 0.5, 0.2, 0.3, 0.1})
	test.That(t, err, test.ShouldBeNil)
	target, err := reference.EndEffectorPose()
	test.That(t, err, test.ShouldBeNil)

	got, err := a.MoveToPose(target)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got[2], test.ShouldAlmostEqual, -0.5, 1e-9)

	// The elbow-up branch still reaches the same pose.
	pose, err := a.EndEffectorPose()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pose.AlmostEqual(target, 1e-9), test.ShouldBeTrue)
}

func TestMoveToPoseUnreachable(t *testing.T) {
	a := newTestArm(t, nil)
	before := a.JointPositions()

	reference := newTestArm(t, nil)
	err := reference.SetJointPositions([]float64{0.3, 0.4, 0.5, 0.2, 0.3, 0.1})
	test.That(t, err, test.ShouldBeNil)
	target, err := reference.EndEffectorPose()
	test.That(t, err, test.ShouldBeNil)
	// Push the target far outside the workspace.
	far := target.Mat()
	far.Set(0, 3, 500)

	_, err = a.MoveToPose(spatialmath.NewTransformFromMat(far))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, kinematics.ErrUnreachable), test.ShouldBeTrue)
	// The joint state is untouched on failure.
	test.That(t, a.JointPositions(), test.ShouldResemble, before)
}

func TestJacobianCaching(t *testing.T) {
	a := newTestArm(t, nil)
	jac1, err := a.Jacobian()
	test.That(t, err, test.ShouldBeNil)
	jac2, err := a.Jacobian()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, jac1, test.ShouldEqual, jac2)

	// A joint update invalidates the cache.
	err = a.SetJointPositions([]float64{0.1, 0, 0, 0, 0, 0})
	test.That(t, err, test.ShouldBeNil)
	jac3, err := a.Jacobian()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, jac3, test.ShouldNotEqual, jac1)

	inv, err := a.InverseJacobian()
	test.That(t, err, test.ShouldBeNil)
	rows, cols := inv.Dims()
	test.That(t, rows, test.ShouldEqual, 6)
	test.That(t, cols, test.ShouldEqual, 6)
}

func TestStepVelocity(t *testing.T) {
	a := newTestArm(t, nil)
	err := a.SetJointPositions([]float64{0.3, 0.4, 0.5, 0.2, 0.3, 0.1})
	test.That(t, err, test.ShouldBeNil)
	before, err := a.EndEffectorPose()
	test.That(t, err, test.ShouldBeNil)

	const dt = 1e-3
	err = a.StepVelocity([]float64{1, 0, 0, 0, 0, 0}, dt)
	test.That(t, err, test.ShouldBeNil)

	after, err := a.EndEffectorPose()
	test.That(t, err, test.ShouldBeNil)
	delta := after.Point().Sub(before.Point())
	test.That(t, delta.X, test.ShouldAlmostEqual, dt, 1e-6)
	test.That(t, delta.Y, test.ShouldAlmostEqual, 0, 1e-6)
	test.That(t, delta.Z, test.ShouldAlmostEqual, 0, 1e-6)

	err = a.StepVelocity([]float64{1, 0, 0}, dt)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "6 components")
}
