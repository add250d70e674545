package arm

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/urtrobotics/armkit/dh"
	"github.com/urtrobotics/armkit/kinematics"
	"github.com/urtrobotics/armkit/spatialmath"
)

// Arm models one physical arm: a topology, its fixed link lengths, and the
// current joint states. Forward kinematics and the Jacobian are recomputed
// lazily after joint updates and cached until the next update. An Arm is not
// safe for concurrent use; batch callers should give each worker its own.
type Arm struct {
	name   string
	topo   *dh.Topology
	links  []float64
	joints []*Joint
	solver *kinematics.ClosedFormSolver
	logger golog.Logger

	damping     float64
	jacobian    *mat.Dense
	invJacobian *mat.Dense
	dirty       bool
}

// New builds an arm model. limits may be nil for unbounded joints; otherwise
// it must carry one entry per joint. A non-positive damping selects
// kinematics.DefaultDamping.
func New(name string, topo *dh.Topology, links []float64, limits []Limit, damping float64, logger golog.Logger) (*Arm, error) {
	solver, err := kinematics.NewClosedFormSolver(topo, links)
	if err != nil {
		return nil, err
	}
	if limits == nil {
		limits = make([]Limit, topo.DoF())
		for i := range limits {
			limits[i] = Unbounded
		}
	}
	if len(limits) != topo.DoF() {
		return nil, errors.Errorf("arm %s: %d joint limits for %d joints", name, len(limits), topo.DoF())
	}
	joints := make([]*Joint, 0, topo.DoF())
	for _, limit := range limits {
		joints = append(joints, NewJoint(limit))
	}
	if damping <= 0 {
		damping = kinematics.DefaultDamping
	}
	return &Arm{
		name:    name,
		topo:    topo,
		links:   append([]float64{}, links...),
		joints:  joints,
		solver:  solver,
		logger:  logger,
		damping: damping,
		dirty:   true,
	}, nil
}

// Name returns the arm's name.
func (a *Arm) Name() string {
	return a.name
}

// Topology returns the arm's variant descriptor.
func (a *Arm) Topology() *dh.Topology {
	return a.topo
}

// LinkLengths returns a copy of the arm's fixed link lengths.
func (a *Arm) LinkLengths() []float64 {
	return append([]float64{}, a.links...)
}

// DoF returns the number of revolute joints.
func (a *Arm) DoF() int {
	return len(a.joints)
}

// Joints exposes the joint states.
func (a *Arm) Joints() []*Joint {
	return a.joints
}

// JointPositions returns the current joint angles in radians.
func (a *Arm) JointPositions() []float64 {
	positions := make([]float64, 0, len(a.joints))
	for _, j := range a.joints {
		positions = append(positions, j.Position())
	}
	return positions
}

// JointVelocities returns the current joint velocities in radians per second.
func (a *Arm) JointVelocities() []float64 {
	velocities := make([]float64, 0, len(a.joints))
	for _, j := range a.joints {
		velocities = append(velocities, j.Velocity())
	}
	return velocities
}

// SetJointPositions sets all joint angles in radians, clamping each to its
// limit, and invalidates the kinematic caches.
func (a *Arm) SetJointPositions(positions []float64) error {
	if len(positions) != len(a.joints) {
		return dh.NewJointCountError(a.topo.Name(), len(a.joints), len(positions))
	}
	for i, j := range a.joints {
		j.SetPosition(positions[i])
	}
	a.dirty = true
	return nil
}

// SetJointPositionsDegrees sets all joint angles from degree values.
func (a *Arm) SetJointPositionsDegrees(positionsDeg []float64) error {
	if len(positionsDeg) != len(a.joints) {
		return dh.NewJointCountError(a.topo.Name(), len(a.joints), len(positionsDeg))
	}
	for i, j := range a.joints {
		j.SetPositionDegrees(positionsDeg[i])
	}
	a.dirty = true
	return nil
}

// SetJointVelocities sets all joint velocities in radians per second.
func (a *Arm) SetJointVelocities(velocities []float64) error {
	if len(velocities) != len(a.joints) {
		return dh.NewJointCountError(a.topo.Name(), len(a.joints), len(velocities))
	}
	for i, j := range a.joints {
		j.SetVelocity(velocities[i])
	}
	return nil
}

// Table builds the DH table for the current joint configuration.
func (a *Arm) Table() (dh.Table, error) {
	return a.topo.BuildTable(a.links, a.JointPositions())
}

// EndEffectorPose computes the current pose of the tool frame.
func (a *Arm) EndEffectorPose() (*spatialmath.Transform, error) {
	table, err := a.Table()
	if err != nil {
		return nil, err
	}
	return kinematics.EndEffectorTransform(table)
}

// FramePoses returns every frame pose of the current configuration, base
// first. Rendering layers consume this to draw the arm.
func (a *Arm) FramePoses() ([]*spatialmath.Transform, error) {
	table, err := a.Table()
	if err != nil {
		return nil, err
	}
	return kinematics.FramePoses(table), nil
}

// Jacobian returns the cached geometric Jacobian for the current
// configuration, recomputing it if a joint changed since the last call.
func (a *Arm) Jacobian() (*mat.Dense, error) {
	if err := a.update(); err != nil {
		return nil, err
	}
	return a.jacobian, nil
}

// InverseJacobian returns the cached damped pseudo-inverse of the Jacobian.
func (a *Arm) InverseJacobian() (*mat.Dense, error) {
	if err := a.update(); err != nil {
		return nil, err
	}
	return a.invJacobian, nil
}

func (a *Arm) update() error {
	if !a.dirty {
		return nil
	}
	table, err := a.Table()
	if err != nil {
		return err
	}
	jac, err := kinematics.Jacobian(table)
	if err != nil {
		return err
	}
	invJac, err := kinematics.DampedPseudoInverse(jac, a.damping)
	if err != nil {
		return err
	}
	a.jacobian = jac
	a.invJacobian = invJac
	a.dirty = false
	return nil
}

// MoveToPose solves inverse kinematics for the target and applies the first
// solution branch that respects every joint limit. The joint state is left
// untouched when no branch qualifies.
func (a *Arm) MoveToPose(target *spatialmath.Transform) ([]float64, error) {
	solutions, err := a.solver.Solutions(target)
	if err != nil {
		a.logger.Warnw("target pose not reachable", "arm", a.name, "error", err)
		return nil, err
	}
	for _, thetas := range solutions {
		if a.withinLimits(thetas) {
			if err := a.SetJointPositions(thetas); err != nil {
				return nil, err
			}
			a.logger.Debugw("moved to pose", "arm", a.name, "joints", thetas)
			return thetas, nil
		}
	}
	a.logger.Warnw("all solution branches violate joint limits", "arm", a.name)
	return nil, kinematics.NewUnreachableError("every solution branch violates a joint limit")
}

// StepVelocity advances the joint configuration by one integration step of a
// 6D task-space velocity [vx vy vz wx wy wz], mapped through the damped
// pseudo-inverse Jacobian.
func (a *Arm) StepVelocity(taskVel []float64, dt float64) error {
	if len(taskVel) != 6 {
		return errors.Errorf("task velocity must have 6 components, got %d", len(taskVel))
	}
	invJac, err := a.InverseJacobian()
	if err != nil {
		return err
	}
	velVec := mat.NewVecDense(6, taskVel)
	var jointVel mat.VecDense
	jointVel.MulVec(invJac, velVec)

	positions := a.JointPositions()
	for i := range positions {
		positions[i] += jointVel.AtVec(i) * dt
	}
	return a.SetJointPositions(positions)
}

func (a *Arm) withinLimits(thetas []float64) bool {
	for i, j := range a.joints {
		if !j.InLimit(thetas[i]) {
			return false
		}
	}
	return true
}
