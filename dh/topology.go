package dh

import "math"

const halfPi = math.Pi / 2

// lengthRef selects which link lengths contribute to a template entry; the
// referenced lengths are summed. An empty ref means the entry is zero.
type lengthRef []int

func (ref lengthRef) value(links []float64) float64 {
	total := 0.0
	for _, i := range ref {
		total += links[i]
	}
	return total
}

// rowSpec is one row of an arm variant's fixed DH template. The a and d
// entries are link-length references, alpha and thetaBias are constants baked
// into the robot's design, and joint is the 1-indexed joint driving the row's
// theta (0 for fixed rows such as the tool offset).
type rowSpec struct {
	a         lengthRef
	alpha     float64
	d         lengthRef
	thetaBias float64
	joint     int
}

// Topology is the tagged descriptor of one arm variant: its joint count, the
// per-row alpha and theta-bias constants of its DH template, and the
// wrist-to-tool offset its inverse kinematics decouples around. The 5-DOF and
// 6-DOF variants share formulas everywhere the templates agree, so keeping
// them as data rather than duplicated functions removes the divergence risk
// between the two.
type Topology struct {
	name        string
	linkCount   int
	rows        []rowSpec
	wristOffset lengthRef
}

// SixDOF is the six-joint arm variant. Template (l1..l5 are link lengths):
//
//	[0,    0, l1, θ1     ]
//	[0, -π/2,  0, θ2-π/2 ]
//	[l2,   0,  0, θ3+π/2 ]
//	[0,  π/2, l3, θ4     ]
//	[0, -π/2,  0, θ5     ]
//	[0,  π/2, l4, θ6     ]
//	[0,    0, l5, 0      ]
var SixDOF = &Topology{
	name:      "6dof",
	linkCount: 5,
	rows: []rowSpec{
		{d: lengthRef{0}, joint: 1},
		{alpha: -halfPi, thetaBias: -halfPi, joint: 2},
		{a: lengthRef{1}, thetaBias: halfPi, joint: 3},
		{alpha: halfPi, d: lengthRef{2}, joint: 4},
		{alpha: -halfPi, joint: 5},
		{alpha: halfPi, d: lengthRef{3}, joint: 6},
		{d: lengthRef{4}},
	},
	wristOffset: lengthRef{3, 4},
}

// FiveDOF is the five-joint arm variant: the first five rows of the six-joint
// template, then a fixed tool row combining the last two link lengths.
var FiveDOF = &Topology{
	name:      "5dof",
	linkCount: 5,
	rows: []rowSpec{
		{d: lengthRef{0}, joint: 1},
		{alpha: -halfPi, thetaBias: -halfPi, joint: 2},
		{a: lengthRef{1}, thetaBias: halfPi, joint: 3},
		{alpha: halfPi, d: lengthRef{2}, joint: 4},
		{alpha: -halfPi, joint: 5},
		{d: lengthRef{3, 4}},
	},
	wristOffset: lengthRef{3, 4},
}

// TopologyByName looks up a variant by its config name.
func TopologyByName(name string) (*Topology, error) {
	switch name {
	case SixDOF.name:
		return SixDOF, nil
	case FiveDOF.name:
		return FiveDOF, nil
	default:
		return nil, NewUnknownTopologyError(name)
	}
}

// Name returns the variant's config name.
func (topo *Topology) Name() string {
	return topo.name
}

// DoF returns the number of revolute joints.
func (topo *Topology) DoF() int {
	return len(topo.rows) - 1
}

// LinkCount returns how many link lengths the template consumes.
func (topo *Topology) LinkCount() int {
	return topo.linkCount
}

// WristOffset returns the fixed distance from the wrist center to the tool
// point along the tool z-axis.
func (topo *Topology) WristOffset(links []float64) float64 {
	return topo.wristOffset.value(links)
}

// ValidateLinks checks that a link-length slice fits the template.
func (topo *Topology) ValidateLinks(links []float64) error {
	if len(links) != topo.linkCount {
		return NewLinkCountError(topo.name, topo.linkCount, len(links))
	}
	for i, l := range links {
		if l <= 0 {
			return NewNonPositiveLinkError(i, l)
		}
	}
	return nil
}

// BuildTable instantiates the variant's DH template for the given link
// lengths and joint angles (radians).
func (topo *Topology) BuildTable(links, thetas []float64) (Table, error) {
	if err := topo.ValidateLinks(links); err != nil {
		return nil, err
	}
	if len(thetas) != topo.DoF() {
		return nil, NewJointCountError(topo.name, topo.DoF(), len(thetas))
	}
	table := make(Table, 0, len(topo.rows))
	for _, spec := range topo.rows {
		theta := spec.thetaBias
		if spec.joint > 0 {
			theta += thetas[spec.joint-1]
		}
		table = append(table, Row{
			A:     spec.a.value(links),
			Alpha: spec.alpha,
			D:     spec.d.value(links),
			Theta: theta,
		})
	}
	return table, nil
}
