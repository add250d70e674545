// Package kinematics implements forward kinematics, geometric Jacobians and
// the closed-form inverse kinematics for arms described by dh.Table.
package kinematics

import (
	"github.com/urtrobotics/armkit/dh"
	"github.com/urtrobotics/armkit/spatialmath"
)

// RowTransform builds the homogeneous transform of a single DH row. The
// composition order Tx(a) * Rx(alpha) * Tz(d) * Rz(theta) is the convention
// the templates in the dh package are written against; changing it describes
// a different robot.
func RowTransform(row dh.Row) *spatialmath.Transform {
	t := spatialmath.NewTranslation(row.A, 0, 0)
	t = spatialmath.Compose(t, spatialmath.NewRotationX(row.Alpha))
	t = spatialmath.Compose(t, spatialmath.NewTranslation(0, 0, row.D))
	return spatialmath.Compose(t, spatialmath.NewRotationZ(row.Theta))
}

// ChainTransform composes the transform from frame fromFrame to frame
// toFrame. Frame 0 is the base; frame i is the output of row i. Equal frame
// indices yield the identity.
func ChainTransform(table dh.Table, fromFrame, toFrame int) (*spatialmath.Transform, error) {
	if err := checkFrameRange(table, fromFrame, toFrame); err != nil {
		return nil, err
	}
	composed := spatialmath.NewTransform()
	for i := fromFrame; i < toFrame; i++ {
		composed = spatialmath.Compose(composed, RowTransform(table[i]))
	}
	return composed, nil
}

// EndEffectorTransform returns the pose of the end-effector frame, after the
// fixed tool row, relative to the base.
func EndEffectorTransform(table dh.Table) (*spatialmath.Transform, error) {
	return ChainTransform(table, 0, len(table))
}

// FramePoses returns the pose of every frame 0..len(table) relative to the
// base, in order. Rendering layers use this to draw the arm as a chain of
// joint positions.
func FramePoses(table dh.Table) []*spatialmath.Transform {
	poses := make([]*spatialmath.Transform, 0, len(table)+1)
	composed := spatialmath.NewTransform()
	poses = append(poses, composed)
	for _, row := range table {
		composed = spatialmath.Compose(composed, RowTransform(row))
		poses = append(poses, composed)
	}
	return poses
}

func checkFrameRange(table dh.Table, fromFrame, toFrame int) error {
	if fromFrame < 0 || toFrame < 0 || fromFrame > len(table) || toFrame > len(table) {
		return NewFrameOutOfRangeError(fromFrame, toFrame, len(table))
	}
	if fromFrame > toFrame {
		return NewFrameOrderError(fromFrame, toFrame)
	}
	return nil
}
