// Package dh describes serial manipulators with Denavit-Hartenberg
// parameters. A Topology fixes the geometric template of an arm variant, and
// BuildTable instantiates that template for concrete link lengths and joint
// angles.
package dh

// Row holds the four DH parameters of one link/joint pair. Lengths are in
// whatever consistent linear unit the arm is defined in; angles are radians.
type Row struct {
	A     float64 `json:"a"`
	Alpha float64 `json:"alpha"`
	D     float64 `json:"d"`
	Theta float64 `json:"theta"`
}

// Table is an ordered list of DH rows from base to tip. Rows 1..N correspond
// to the arm's revolute joints; the final row is the fixed offset to the end
// effector and carries no joint angle.
type Table []Row

// NumJoints returns the number of revolute joints described by the table.
func (t Table) NumJoints() int {
	if len(t) == 0 {
		return 0
	}
	return len(t) - 1
}

// NumFrames returns the number of frames the table defines, counting the base
// frame 0.
func (t Table) NumFrames() int {
	return len(t) + 1
}
