package grid

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Pose anchors a grid in its reference frame.
type Pose struct {
	Position    r3.Vector
	Orientation quat.Number
}

// NewZeroPose returns a pose at the origin with no rotation.
func NewZeroPose() Pose {
	return Pose{Orientation: quat.Number{Real: 1}}
}

// PoseAlmostEqual will return a bool describing whether 2 poses are
// approximately the same. A quaternion and its negation describe the same
// rotation, so both signs are accepted.
func PoseAlmostEqual(a, b Pose) bool {
	const epsilon = 1e-6
	if !vectorAlmostEqual(a.Position, b.Position, epsilon) {
		return false
	}
	return quatAlmostEqual(a.Orientation, b.Orientation, epsilon) ||
		quatAlmostEqual(a.Orientation, quat.Scale(-1, b.Orientation), epsilon)
}

func vectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return a.Sub(b).Norm() < epsilon
}

func quatAlmostEqual(a, b quat.Number, epsilon float64) bool {
	return math.Abs(a.Real-b.Real) < epsilon &&
		math.Abs(a.Imag-b.Imag) < epsilon &&
		math.Abs(a.Jmag-b.Jmag) < epsilon &&
		math.Abs(a.Kmag-b.Kmag) < epsilon
}
