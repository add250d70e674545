package dh

import (
	"math"
	"testing"

	"go.viam.com/test"
)

var testLinks = []float64{5, 30, 20, 7, 5}

func TestTopologyByName(t *testing.T) {
	topo, err := TopologyByName("6dof")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, topo, test.ShouldEqual, SixDOF)

	topo, err = TopologyByName("5dof")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, topo, test.ShouldEqual, FiveDOF)

	_, err = TopologyByName("7dof")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown arm topology")
}

func TestTopologyDescriptors(t *testing.T) {
	test.That(t, SixDOF.Name(), test.ShouldEqual, "6dof")
	test.That(t, SixDOF.DoF(), test.ShouldEqual, 6)
	test.That(t, SixDOF.LinkCount(), test.ShouldEqual, 5)
	test.That(t, SixDOF.WristOffset(testLinks), test.ShouldEqual, 12)

	test.That(t, FiveDOF.Name(), test.ShouldEqual, "5dof")
	test.That(t, FiveDOF.DoF(), test.ShouldEqual, 5)
	test.That(t, FiveDOF.LinkCount(), test.ShouldEqual, 5)
	test.That(t, FiveDOF.WristOffset(testLinks), test.ShouldEqual, 12)
}

func TestBuildTableSixDOF(t *testing.T) {
	thetas := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	table, err := SixDOF.BuildTable(testLinks, thetas)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, table, test.ShouldHaveLength, 7)
	test.That(t, table.NumJoints(), test.ShouldEqual, 6)
	test.That(t, table.NumFrames(), test.ShouldEqual, 8)

	test.That(t, table[0], test.ShouldResemble, Row{A: 0, Alpha: 0, D: 5, Theta: 0.1})
	test.That(t, table[1].Alpha, test.ShouldEqual, -math.Pi/2)
	test.That(t, table[1].Theta, test.ShouldAlmostEqual, 0.2-math.Pi/2)
	test.That(t, table[2].A, test.ShouldEqual, 30)
	test.That(t, table[2].Theta, test.ShouldAlmostEqual, 0.3+math.Pi/2)
	test.That(t, table[3].Alpha, test.ShouldEqual, math.Pi/2)
	test.That(t, table[3].D, test.ShouldEqual, 20)
	test.That(t, table[3].Theta, test.ShouldEqual, 0.4)
	test.That(t, table[4].Alpha, test.ShouldEqual, -math.Pi/2)
	test.That(t, table[4].Theta, test.ShouldEqual, 0.5)
	test.That(t, table[5].Alpha, test.ShouldEqual, math.Pi/2)
	test.That(t, table[5].D, test.ShouldEqual, 7)
	test.That(t, table[5].Theta, test.ShouldEqual, 0.6)
	// Fixed tool row carries no joint angle.
	test.That(t, table[6], test.ShouldResemble, Row{A: 0, Alpha: 0, D: 5, Theta: 0})
}

func TestBuildTableFiveDOF(t *testing.T) {
	thetas := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	table, err := FiveDOF.BuildTable(testLinks, thetas)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, table, test.ShouldHaveLength, 6)
	test.That(t, table.NumJoints(), test.ShouldEqual, 5)

	// First five rows match the six-joint template.
	test.That(t, table[0], test.ShouldResemble, Row{A: 0, Alpha: 0, D: 5, Theta: 0.1})
	test.That(t, table[2].A, test.ShouldEqual, 30)
	// The tool row combines the last two link lengths.
	test.That(t, table[5], test.ShouldResemble, Row{A: 0, Alpha: 0, D: 12, Theta: 0})
}

func TestValidation(t *testing.T) {
	err := SixDOF.ValidateLinks([]float64{1, 2, 3})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "requires 5 link lengths")

	err = SixDOF.ValidateLinks([]float64{5, 30, -20, 7, 5})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "must be positive")

	_, err = SixDOF.BuildTable(testLinks, []float64{0.1, 0.2})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "requires 6 joint angles")
}
