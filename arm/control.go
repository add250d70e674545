package arm

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// orthonormalizeInterval is how many control cycles may pass before the
// integrated reference rotation is re-orthonormalized. Small-angle updates
// drift the matrix off the rotation manifold slowly, so doing this every
// cycle buys nothing.
const orthonormalizeInterval = 50

// TaskSpaceController tracks a task-space velocity command with a PID loop
// on the 6D pose error, producing joint velocities through the arm's damped
// pseudo-inverse Jacobian. When the commanded velocity drops to zero the
// controller freezes its reference at the current pose and holds it.
type TaskSpaceController struct {
	kp [6]float64
	ki [6]float64
	kd [6]float64

	integral [6]float64
	prevErr  [6]float64
	refPoint r3.Vector
	refRot   mgl64.Mat3
	holding  bool
	cycles   int
}

// velocityEpsilon separates an active velocity command from a released one.
const velocityEpsilon = 1e-4

// NewTaskSpaceController returns a controller with per-axis PID gains; the
// first three axes are position, the last three orientation.
func NewTaskSpaceController(kp, ki, kd [6]float64) *TaskSpaceController {
	return &TaskSpaceController{kp: kp, ki: ki, kd: kd, refRot: mgl64.Ident3()}
}

// Reset clears the PID state and the held reference.
func (c *TaskSpaceController) Reset() {
	c.integral = [6]float64{}
	c.prevErr = [6]float64{}
	c.holding = false
	c.cycles = 0
}

// Compute runs one control cycle: it integrates the desired task-space
// velocity into the reference pose (or holds the reference when the command
// is idle), forms the 6D pose error against the arm's current end-effector
// pose, and maps the PID-corrected velocity to joint velocities.
func (c *TaskSpaceController) Compute(a *Arm, desiredVel []float64, dt float64) ([]float64, error) {
	if len(desiredVel) != 6 {
		return nil, errors.Errorf("task velocity must have 6 components, got %d", len(desiredVel))
	}
	pose, err := a.EndEffectorPose()
	if err != nil {
		return nil, err
	}

	linVel := r3.Vector{X: desiredVel[0], Y: desiredVel[1], Z: desiredVel[2]}
	angVel := r3.Vector{X: desiredVel[3], Y: desiredVel[4], Z: desiredVel[5]}

	if linVel.Norm() > velocityEpsilon || angVel.Norm() > velocityEpsilon {
		c.holding = false
		c.refPoint = c.refPoint.Add(linVel.Mul(dt))
		c.refRot = integrateRotation(c.refRot, angVel, dt)
		c.cycles++
		if c.cycles%orthonormalizeInterval == 0 {
			c.refRot = orthonormalize(c.refRot)
		}
	} else if !c.holding {
		// Capture the reference once at release; it then stays frozen while
		// the PID corrects any sag.
		c.refPoint = pose.Point()
		c.refRot = pose.Rotation()
		c.holding = true
	}

	posErr := c.refPoint.Sub(pose.Point())
	oriErr := rotationError(pose.Rotation(), c.refRot)

	var poseErr [6]float64
	poseErr[0], poseErr[1], poseErr[2] = posErr.X, posErr.Y, posErr.Z
	poseErr[3], poseErr[4], poseErr[5] = oriErr.X, oriErr.Y, oriErr.Z

	command := make([]float64, 6)
	for i := 0; i < 6; i++ {
		c.integral[i] += poseErr[i] * dt
		derivative := (poseErr[i] - c.prevErr[i]) / dt
		command[i] = desiredVel[i] + c.kp[i]*poseErr[i] + c.ki[i]*c.integral[i] + c.kd[i]*derivative
		c.prevErr[i] = poseErr[i]
	}

	invJac, err := a.InverseJacobian()
	if err != nil {
		return nil, err
	}
	var jointVel mat.VecDense
	jointVel.MulVec(invJac, mat.NewVecDense(6, command))

	out := make([]float64, a.DoF())
	for i := range out {
		out[i] = jointVel.AtVec(i)
	}
	return out, nil
}

// Holding reports whether the controller is in hold mode.
func (c *TaskSpaceController) Holding() bool {
	return c.holding
}

// integrateRotation applies a world-frame small-angle update:
// R' = (I + [w]x * dt) * R.
func integrateRotation(rot mgl64.Mat3, angVel r3.Vector, dt float64) mgl64.Mat3 {
	skew := mgl64.Mat3{
		1, angVel.Z * dt, -angVel.Y * dt,
		-angVel.Z * dt, 1, angVel.X * dt,
		angVel.Y * dt, -angVel.X * dt, 1,
	}
	return skew.Mul3(rot)
}

// rotationError is the cross-product orientation error between the current
// and reference rotations, averaged over the three axes.
func rotationError(current, reference mgl64.Mat3) r3.Vector {
	var sum r3.Vector
	for col := 0; col < 3; col++ {
		cur := columnOf(current, col)
		ref := columnOf(reference, col)
		sum = sum.Add(cur.Cross(ref))
	}
	return sum.Mul(0.5)
}

// orthonormalize pulls a near-rotation matrix back onto the rotation manifold
// via the SVD: U * V^T is the nearest rotation in the Frobenius sense, so no
// column is favored over the others.
func orthonormalize(rot mgl64.Mat3) mgl64.Mat3 {
	m := mat.NewDense(3, 3, []float64{
		rot.At(0, 0), rot.At(0, 1), rot.At(0, 2),
		rot.At(1, 0), rot.At(1, 1), rot.At(1, 2),
		rot.At(2, 0), rot.At(2, 1), rot.At(2, 2),
	})
	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDThin) {
		return rot
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	var nearest mat.Dense
	nearest.Mul(&u, v.T())

	var out mgl64.Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out.Set(r, c, nearest.At(r, c))
		}
	}
	return out
}

func columnOf(m mgl64.Mat3, col int) r3.Vector {
	v := m.Col(col)
	return r3.Vector{X: v.X(), Y: v.Y(), Z: v.Z()}
}
