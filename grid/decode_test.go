package grid

import (
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
	"gonum.org/v1/gonum/num/quat"
	"google.golang.org/protobuf/types/known/structpb"
)

func mustStruct(t *testing.T, m map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	test.That(t, err, test.ShouldBeNil)
	return s
}

func TestDecodeNil(t *testing.T) {
	g := Decode(nil)
	test.That(t, g, test.ShouldNotBeNil)
	test.That(t, g.Header.FrameID, test.ShouldEqual, "")
	test.That(t, g.Header.Stamp.IsZero(), test.ShouldBeTrue)
	test.That(t, g.Metadata.Resolution, test.ShouldEqual, 0)
	test.That(t, g.Metadata.Pose, test.ShouldResemble, NewZeroPose())
	test.That(t, g.Layers, test.ShouldHaveLength, 0)
}

func TestDecodeEmpty(t *testing.T) {
	g := Decode(mustStruct(t, map[string]interface{}{}))
	test.That(t, g.Metadata.LengthX, test.ShouldEqual, 0)
	test.That(t, g.Metadata.LengthY, test.ShouldEqual, 0)
	test.That(t, g.Metadata.Pose, test.ShouldResemble, NewZeroPose())
	test.That(t, g.Layers, test.ShouldHaveLength, 0)
}

func TestDecodeFull(t *testing.T) {
	g := Decode(mustStruct(t, map[string]interface{}{
		"header": map[string]interface{}{
			"stamp":    map[string]interface{}{"secs": 100, "nsecs": 250},
			"frame_id": "map",
		},
		"info": map[string]interface{}{
			"resolution": 0.5,
			"length_x":   2.0,
			"length_y":   1.0,
			"pose": map[string]interface{}{
				"position":    map[string]interface{}{"x": 1.0, "y": 2.0, "z": 3.0},
				"orientation": map[string]interface{}{"x": 0.0, "y": 0.0, "z": 1.0, "w": 0.0},
			},
		},
		"data": []interface{}{
			map[string]interface{}{
				"label": "elevation",
				"layout": map[string]interface{}{
					"dim": []interface{}{
						map[string]interface{}{"label": "column_index", "size": 4, "stride": 8},
						map[string]interface{}{"label": "row_index", "size": 4, "stride": 4},
					},
				},
				"data": []interface{}{0.0, 1.0, 2.0, 3.0, 4.0, 5.0, 6.0, 7.0},
			},
		},
	}))

	test.That(t, g.Header.FrameID, test.ShouldEqual, "map")
	test.That(t, g.Header.Stamp, test.ShouldResemble, time.Unix(100, 250))
	test.That(t, g.Metadata.Resolution, test.ShouldEqual, 0.5)
	test.That(t, g.Metadata.LengthX, test.ShouldEqual, 2.0)
	test.That(t, g.Metadata.LengthY, test.ShouldEqual, 1.0)
	test.That(t, g.Metadata.Pose.Position, test.ShouldResemble, r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, g.Metadata.Pose.Orientation, test.ShouldResemble, quat.Number{Kmag: 1})

	test.That(t, g.Layers, test.ShouldHaveLength, 1)
	test.That(t, g.Layers[0].Label, test.ShouldEqual, "elevation")
	test.That(t, g.Layers[0].Shape, test.ShouldResemble, []int{4, 4})
	test.That(t, g.Layers[0].Data, test.ShouldHaveLength, 8)
	test.That(t, g.Layers[0].Data[7], test.ShouldEqual, 7.0)

	w, h := g.Metadata.Dimensions()
	test.That(t, w, test.ShouldEqual, 2)
	test.That(t, h, test.ShouldEqual, 4)
}

func TestDecodeDefaults(t *testing.T) {
	t.Run("missing pose is identity", func(t *testing.T) {
		g := Decode(mustStruct(t, map[string]interface{}{
			"info": map[string]interface{}{"resolution": 1.0},
		}))
		test.That(t, g.Metadata.Pose, test.ShouldResemble, NewZeroPose())
	})

	t.Run("zero quaternion stays identity", func(t *testing.T) {
		g := Decode(mustStruct(t, map[string]interface{}{
			"info": map[string]interface{}{
				"pose": map[string]interface{}{
					"orientation": map[string]interface{}{"x": 0.0, "y": 0.0, "z": 0.0, "w": 0.0},
				},
			},
		}))
		test.That(t, g.Metadata.Pose.Orientation, test.ShouldResemble, quat.Number{Real: 1})
	})

	t.Run("missing stamp is zero time", func(t *testing.T) {
		g := Decode(mustStruct(t, map[string]interface{}{
			"header": map[string]interface{}{"frame_id": "odom"},
		}))
		test.That(t, g.Header.Stamp.IsZero(), test.ShouldBeTrue)
		test.That(t, g.Header.FrameID, test.ShouldEqual, "odom")
	})

	t.Run("layer without layout or data", func(t *testing.T) {
		g := Decode(mustStruct(t, map[string]interface{}{
			"data": []interface{}{map[string]interface{}{"label": "bare"}},
		}))
		test.That(t, g.Layers, test.ShouldHaveLength, 1)
		test.That(t, g.Layers[0].Label, test.ShouldEqual, "bare")
		test.That(t, g.Layers[0].Shape, test.ShouldHaveLength, 0)
		test.That(t, g.Layers[0].Data, test.ShouldHaveLength, 0)
	})

	t.Run("non-struct data entries are skipped", func(t *testing.T) {
		g := Decode(mustStruct(t, map[string]interface{}{
			"data": []interface{}{"bogus", 3.0},
		}))
		test.That(t, g.Layers, test.ShouldHaveLength, 0)
	})
}
