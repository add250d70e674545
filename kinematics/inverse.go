package kinematics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"

	"github.com/urtrobotics/armkit/dh"
	"github.com/urtrobotics/armkit/spatialmath"
	"github.com/urtrobotics/armkit/utils"
)

// orientationTolerance bounds the residual rotation the 5-DOF wrist is
// allowed to leave unrealized before the target counts as degenerate.
const orientationTolerance = 1e-6

// boundaryTolerance absorbs floating overshoot of the law-of-cosines argument
// at the workspace boundary, where the exact value is +-1.
const boundaryTolerance = 1e-9

// Solver maps a target end-effector pose to joint angles.
type Solver interface {
	Solve(target *spatialmath.Transform) ([]float64, error)
}

// ClosedFormSolver is the analytic inverse-kinematics solver for the arm
// variants in the dh package. It decouples the problem at the wrist center:
// the base and planar links place the wrist, and the wrist joints realize the
// residual rotation. It is a pure function of the target and the fixed link
// lengths; no state persists between calls.
type ClosedFormSolver struct {
	topo  *dh.Topology
	links []float64
}

// NewClosedFormSolver validates the link lengths against the topology and
// returns a solver.
func NewClosedFormSolver(topo *dh.Topology, links []float64) (*ClosedFormSolver, error) {
	if err := topo.ValidateLinks(links); err != nil {
		return nil, err
	}
	solver := &ClosedFormSolver{topo: topo, links: append([]float64{}, links...)}
	return solver, nil
}

// Solve returns the elbow-down solution for the target pose. Elbow-down is
// the acos branch of the planar sub-chain; the mirrored elbow-up solution is
// available through Solutions.
func (solver *ClosedFormSolver) Solve(target *spatialmath.Transform) ([]float64, error) {
	return solver.solveBranch(target, false)
}

// Solutions returns every valid solution branch, elbow-down first. For 5-DOF
// arms a target orientation may be realizable by only one elbow branch, so
// callers wanting maximum coverage should prefer this over Solve.
func (solver *ClosedFormSolver) Solutions(target *spatialmath.Transform) ([][]float64, error) {
	var solutions [][]float64
	var lastErr error
	for _, elbowUp := range []bool{false, true} {
		thetas, err := solver.solveBranch(target, elbowUp)
		if err != nil {
			lastErr = err
			continue
		}
		solutions = append(solutions, thetas)
	}
	if len(solutions) == 0 {
		return nil, lastErr
	}
	return solutions, nil
}

// SolveInverseKinematics is a convenience wrapper taking the target pose as
// cartesian coordinates plus yaw/pitch/roll, all in radians and the arm's
// linear unit.
func SolveInverseKinematics(topo *dh.Topology, x, y, z, yaw, pitch, roll float64, links []float64) ([]float64, error) {
	solver, err := NewClosedFormSolver(topo, links)
	if err != nil {
		return nil, err
	}
	ea := &spatialmath.EulerAngles{Yaw: yaw, Pitch: pitch, Roll: roll}
	target := spatialmath.NewPose(r3.Vector{X: x, Y: y, Z: z}, ea.RotationMatrix())
	return solver.Solve(target)
}

func (solver *ClosedFormSolver) solveBranch(target *spatialmath.Transform, elbowUp bool) ([]float64, error) {
	eps := utils.DefaultSnapEpsilon
	rot := target.Rotation()
	point := target.Point()
	l1, l2, l3 := solver.links[0], solver.links[1], solver.links[2]

	// Wrist center: step back from the target along the tool z-axis. The
	// coordinates are snapped so that a wrist center analytically on the base
	// axis does not pick up a noise-driven base angle.
	offset := solver.topo.WristOffset(solver.links)
	wx := utils.SnapZero(point.X-offset*rot.At(0, 2), eps)
	wy := utils.SnapZero(point.Y-offset*rot.At(1, 2), eps)
	wz := point.Z - offset*rot.At(2, 2)

	theta1 := 0.0
	if wx != 0 || wy != 0 {
		theta1 = math.Atan2(wy, wx)
	}

	radial := math.Hypot(wx, wy)
	height := wz - l1
	if radial == 0 && height == 0 {
		return nil, ErrBaseSingularity
	}

	cosTheta3 := (radial*radial + height*height - l2*l2 - l3*l3) / (2 * l2 * l3)
	switch {
	case cosTheta3 > 1 && cosTheta3 <= 1+boundaryTolerance:
		cosTheta3 = 1 // fully extended, on the workspace boundary
	case cosTheta3 < -1 && cosTheta3 >= -1-boundaryTolerance:
		cosTheta3 = -1 // fully folded
	case math.Abs(cosTheta3) > 1:
		return nil, NewUnreachableError("elbow angle has no real solution")
	}
	theta3 := math.Acos(cosTheta3)
	beta := math.Asin(l3 * math.Sin(theta3) / math.Hypot(radial, height))
	var theta2 float64
	if elbowUp {
		theta2 = math.Atan2(radial, height) + beta
		theta3 = -theta3
	} else {
		theta2 = math.Atan2(radial, height) - beta
	}
	if math.IsNaN(theta1) || math.IsNaN(theta2) || math.IsNaN(theta3) {
		return nil, NewUnreachableError("base joint angles have no real solution")
	}

	thetas := make([]float64, solver.topo.DoF())
	thetas[0], thetas[1], thetas[2] = theta1, theta2, theta3

	// Residual rotation left for the wrist once joints 1-3 are placed.
	table, err := solver.topo.BuildTable(solver.links, thetas)
	if err != nil {
		return nil, err
	}
	toShoulder, err := ChainTransform(table, 0, 3)
	if err != nil {
		return nil, err
	}
	residual := toShoulder.Rotation().Transpose().Mul3(rot)

	if solver.topo.DoF() == 6 {
		solveWrist3(residual, thetas, eps)
	} else if err := solveWrist2(residual, thetas, eps); err != nil {
		return nil, err
	}

	for _, theta := range thetas {
		if math.IsNaN(theta) || math.IsInf(theta, 0) {
			return nil, NewUnreachableError("wrist angles have no real solution")
		}
	}
	return thetas, nil
}

// solveWrist3 decomposes the residual rotation of the three-joint wrist,
// whose rows carry alternating +pi/2, -pi/2, +pi/2 twists:
// residual = Ry(-theta4) * Rz(theta5) * Rx(pi/2) * Rz(theta6).
func solveWrist3(residual mgl64.Mat3, thetas []float64, eps float64) {
	sinTheta5 := math.Hypot(residual.At(0, 2), residual.At(2, 2))
	if sinTheta5 > eps {
		// Positive-sine branch for theta5, by convention.
		thetas[3] = math.Atan2(utils.SnapZero(residual.At(2, 2), eps), utils.SnapZero(residual.At(0, 2), eps))
		thetas[4] = math.Atan2(sinTheta5, -residual.At(1, 2))
		thetas[5] = math.Atan2(utils.SnapZero(-residual.At(1, 1), eps), utils.SnapZero(residual.At(1, 0), eps))
		return
	}

	// Wrist gimbal lock: joints 4 and 6 are collinear and only their sum is
	// observable. Assign it all to joint 6.
	unrolled := residual.Mul3(mgl64.Rotate3DX(-math.Pi / 2))
	thetas[3] = 0
	if -residual.At(1, 2) > 0 {
		thetas[4] = 0
	} else {
		thetas[4] = math.Pi
	}
	thetas[5] = -math.Atan2(utils.SnapZero(unrolled.At(0, 2), eps), utils.SnapZero(unrolled.At(0, 0), eps))
}

// solveWrist2 decomposes the residual rotation of the two-joint wrist:
// residual = Ry(-theta4) * Rz(theta5). A two-joint wrist spans only a
// two-parameter family of orientations, so any remainder beyond tolerance
// means the target orientation is unrealizable from this elbow branch.
func solveWrist2(residual mgl64.Mat3, thetas []float64, eps float64) error {
	thetas[3] = math.Atan2(utils.SnapZero(-residual.At(0, 2), eps), utils.SnapZero(residual.At(2, 2), eps))
	thetas[4] = math.Atan2(utils.SnapZero(residual.At(1, 0), eps), utils.SnapZero(residual.At(1, 1), eps))
	if math.Abs(residual.At(1, 2)) > orientationTolerance {
		return ErrDegenerateOrientation
	}
	return nil
}
