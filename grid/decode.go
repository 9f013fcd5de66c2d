package grid

import (
	"time"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
	"google.golang.org/protobuf/types/known/structpb"
)

// Decode normalizes a loosely-typed grid map payload into a Grid. Every
// field may be absent: absence becomes a zero value or identity default,
// never an error. This is the single point where the untrusted wire shape
// crosses into the strict internal type; everything downstream operates on
// Grid only.
//
// The expected payload shape follows the ROS grid_map message convention:
//
//	header:  {stamp: {secs, nsecs}, frame_id}
//	info:    {resolution, length_x, length_y,
//	          pose: {position: {x, y, z}, orientation: {x, y, z, w}}}
//	data:    [{label, layout: {dim: [{label, size, stride}]}, data: [...]}]
func Decode(msg *structpb.Struct) *Grid {
	g := &Grid{
		Metadata: Metadata{Pose: NewZeroPose()},
		Layers:   []Layer{},
	}
	if msg == nil {
		return g
	}
	if header := structField(msg, "header"); header != nil {
		g.Header = decodeHeader(header)
	}
	if info := structField(msg, "info"); info != nil {
		g.Metadata = decodeMetadata(info)
	}
	if data := listField(msg, "data"); data != nil {
		for _, v := range data.Values {
			entry := v.GetStructValue()
			if entry == nil {
				continue
			}
			g.Layers = append(g.Layers, decodeLayer(entry))
		}
	}
	return g
}

func decodeHeader(s *structpb.Struct) Header {
	var h Header
	if stamp := structField(s, "stamp"); stamp != nil {
		secs := int64(numberField(stamp, "secs"))
		nsecs := int64(numberField(stamp, "nsecs"))
		if secs != 0 || nsecs != 0 {
			h.Stamp = time.Unix(secs, nsecs)
		}
	}
	h.FrameID = stringField(s, "frame_id")
	return h
}

func decodeMetadata(s *structpb.Struct) Metadata {
	m := Metadata{
		Resolution: numberField(s, "resolution"),
		LengthX:    numberField(s, "length_x"),
		LengthY:    numberField(s, "length_y"),
		Pose:       NewZeroPose(),
	}
	if pose := structField(s, "pose"); pose != nil {
		m.Pose = decodePose(pose)
	}
	return m
}

func decodePose(s *structpb.Struct) Pose {
	p := NewZeroPose()
	if pos := structField(s, "position"); pos != nil {
		p.Position = r3.Vector{
			X: numberField(pos, "x"),
			Y: numberField(pos, "y"),
			Z: numberField(pos, "z"),
		}
	}
	if o := structField(s, "orientation"); o != nil {
		q := quat.Number{
			Real: numberField(o, "w"),
			Imag: numberField(o, "x"),
			Jmag: numberField(o, "y"),
			Kmag: numberField(o, "z"),
		}
		// An all-zero quaternion is not a rotation; keep identity.
		if q != (quat.Number{}) {
			p.Orientation = q
		}
	}
	return p
}

func decodeLayer(s *structpb.Struct) Layer {
	l := Layer{Label: stringField(s, "label")}
	if layout := structField(s, "layout"); layout != nil {
		if dims := listField(layout, "dim"); dims != nil {
			l.Shape = make([]int, 0, len(dims.Values))
			for _, v := range dims.Values {
				d := v.GetStructValue()
				if d == nil {
					continue
				}
				l.Shape = append(l.Shape, int(numberField(d, "size")))
			}
		}
	}
	if data := listField(s, "data"); data != nil {
		l.Data = make([]float64, 0, len(data.Values))
		for _, v := range data.Values {
			l.Data = append(l.Data, v.GetNumberValue())
		}
	}
	return l
}

func structField(s *structpb.Struct, name string) *structpb.Struct {
	if v, ok := s.Fields[name]; ok {
		return v.GetStructValue()
	}
	return nil
}

func listField(s *structpb.Struct, name string) *structpb.ListValue {
	if v, ok := s.Fields[name]; ok {
		return v.GetListValue()
	}
	return nil
}

func numberField(s *structpb.Struct, name string) float64 {
	if v, ok := s.Fields[name]; ok {
		return v.GetNumberValue()
	}
	return 0
}

func stringField(s *structpb.Struct, name string) string {
	if v, ok := s.Fields[name]; ok {
		return v.GetStringValue()
	}
	return ""
}
