package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestTransformConstruction(t *testing.T) {
	ident := NewTransform()
	test.That(t, ident.Point(), test.ShouldResemble, r3.Vector{})
	test.That(t, ident.At(0, 0), test.ShouldEqual, 1)

	tr := NewTranslation(1, 2, 3)
	test.That(t, tr.Point(), test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})

	rx := NewRotationX(math.Pi / 2)
	z := rx.AxisZ()
	test.That(t, z.X, test.ShouldAlmostEqual, 0)
	test.That(t, z.Y, test.ShouldAlmostEqual, -1)
	test.That(t, z.Z, test.ShouldAlmostEqual, 0, 1e-12)
}

func TestCompose(t *testing.T) {
	// Rotating about z then translating along local x lands on the y-axis.
	composed := Compose(NewRotationZ(math.Pi/2), NewTranslation(5, 0, 0))
	point := composed.Point()
	test.That(t, point.X, test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, point.Y, test.ShouldAlmostEqual, 5)
	test.That(t, point.Z, test.ShouldAlmostEqual, 0)

	// Composition with the identity changes nothing.
	test.That(t, Compose(composed, NewTransform()).AlmostEqual(composed, 1e-12), test.ShouldBeTrue)
}

func TestNewPose(t *testing.T) {
	ea := &EulerAngles{Yaw: 0.3, Pitch: -0.2, Roll: 0.7}
	pose := NewPose(r3.Vector{X: 4, Y: -5, Z: 6}, ea.RotationMatrix())
	test.That(t, pose.Point(), test.ShouldResemble, r3.Vector{X: 4, Y: -5, Z: 6})

	got := pose.Orientation()
	test.That(t, got.Yaw, test.ShouldAlmostEqual, 0.3, 1e-12)
	test.That(t, got.Pitch, test.ShouldAlmostEqual, -0.2, 1e-12)
	test.That(t, got.Roll, test.ShouldAlmostEqual, 0.7, 1e-12)

	// Bottom row must stay homogeneous.
	test.That(t, pose.At(3, 0), test.ShouldEqual, 0)
	test.That(t, pose.At(3, 3), test.ShouldEqual, 1)
}

func TestAxes(t *testing.T) {
	rz := NewRotationZ(math.Pi / 2)
	x := rz.AxisX()
	test.That(t, x.X, test.ShouldAlmostEqual, 0, 1e-12)
	test.That(t, x.Y, test.ShouldAlmostEqual, 1)

	y := rz.AxisY()
	test.That(t, y.X, test.ShouldAlmostEqual, -1)
	test.That(t, y.Y, test.ShouldAlmostEqual, 0, 1e-12)

	z := rz.AxisZ()
	test.That(t, z.Z, test.ShouldAlmostEqual, 1)
}

func TestAlmostEqual(t *testing.T) {
	a := NewTranslation(1, 2, 3)
	b := NewTranslation(1, 2, 3+1e-10)
	test.That(t, a.AlmostEqual(b, 1e-9), test.ShouldBeTrue)
	test.That(t, a.AlmostEqual(b, 1e-12), test.ShouldBeFalse)
}
