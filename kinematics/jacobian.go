package kinematics

import (
	"gonum.org/v1/gonum/mat"

	"github.com/urtrobotics/armkit/dh"
)

// Jacobian computes the 6xN geometric Jacobian of the arm at the
// configuration baked into the table. Rows 1-3 map joint velocities to
// end-effector linear velocity, rows 4-6 to angular velocity.
//
// All joints are revolute about their frame's local z, so column i is
// [Z_i x (P_end - P_i); Z_i] where frame i is the output of row i. The
// Jacobian is a disposable artifact of one table snapshot; recompute it after
// any joint change.
func Jacobian(table dh.Table) (*mat.Dense, error) {
	numJoints := table.NumJoints()
	end, err := ChainTransform(table, 0, len(table))
	if err != nil {
		return nil, err
	}
	pEnd := end.Point()

	jac := mat.NewDense(6, numJoints, nil)
	for i := 0; i < numJoints; i++ {
		// 1-indexed joint i+1 rotates about the z-axis of frame i+1: the Rz
		// term of its row acts after the row's alpha and d offsets.
		ti, err := ChainTransform(table, 0, i+1)
		if err != nil {
			return nil, err
		}
		zi := ti.AxisZ()
		linear := zi.Cross(pEnd.Sub(ti.Point()))

		jac.Set(0, i, linear.X)
		jac.Set(1, i, linear.Y)
		jac.Set(2, i, linear.Z)
		jac.Set(3, i, zi.X)
		jac.Set(4, i, zi.Y)
		jac.Set(5, i, zi.Z)
	}
	return jac, nil
}

// DefaultDamping is the pseudo-inverse damping factor used when a caller does
// not supply one.
const DefaultDamping = 1e-4

// DampedPseudoInverse computes the damped Moore-Penrose pseudo-inverse of a
// 6xN Jacobian. For N >= 6 it uses the right inverse Jt (J Jt + l^2 I)^-1,
// which minimizes joint velocities; for N < 6 the left inverse
// (Jt J + l^2 I)^-1 Jt, which minimizes task error. The damping keeps the
// inversion stable through singular configurations.
func DampedPseudoInverse(jac *mat.Dense, lambda float64) (*mat.Dense, error) {
	rows, cols := jac.Dims()
	jt := jac.T()

	var inner mat.Dense
	if cols >= rows {
		inner.Mul(jac, jt)
	} else {
		inner.Mul(jt, jac)
	}
	n, _ := inner.Dims()
	for i := 0; i < n; i++ {
		inner.Set(i, i, inner.At(i, i)+lambda*lambda)
	}

	var inv mat.Dense
	if err := inv.Inverse(&inner); err != nil {
		return nil, err
	}

	out := mat.NewDense(cols, rows, nil)
	if cols >= rows {
		out.Mul(jt, &inv)
	} else {
		out.Mul(&inv, jt)
	}
	return out, nil
}
