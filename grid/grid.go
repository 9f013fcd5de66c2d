// Package grid defines the strict in-memory form of a grid map message along
// with decoding from loosely-typed payloads and layer shape validation.
//
// A grid map is a stamped, pose-anchored 2D raster carrying one or more named
// numeric layers. Cell data is packed column-major with the axis roles
// swapped relative to image conventions: the X axis spans rows and the Y axis
// spans (inverted) columns. Dimensions therefore derive from the physical
// extents as height = length_x/resolution and width = length_y/resolution.
package grid

import (
	"math"
	"time"
)

// Header stamps a grid with its capture time and reference frame.
type Header struct {
	Stamp   time.Time
	FrameID string
}

// Metadata describes the physical geometry of a grid.
type Metadata struct {
	// Resolution is the edge length of one cell. Zero means the message
	// carried no geometry and the grid has no cells.
	Resolution float64
	// LengthX and LengthY are the physical extents along the grid's own
	// X and Y axes.
	LengthX float64
	LengthY float64
	// Pose anchors the grid center in the header's reference frame.
	Pose Pose
}

// Dimensions returns the cell dimensions implied by the physical extents.
// Note the axis swap: X spans rows (height), Y spans columns (width).
// Fractional ratios round to the nearest whole cell count; degenerate
// geometry yields zero rather than a negative count.
func (m Metadata) Dimensions() (width, height int) {
	if m.Resolution <= 0 {
		return 0, 0
	}
	width = int(math.Round(m.LengthY / m.Resolution))
	height = int(math.Round(m.LengthX / m.Resolution))
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return width, height
}

// Layer is one named data plane of a grid. Data holds the flattened
// column-major cell values; Shape is the declared size of each dimension
// as it arrived on the wire.
type Layer struct {
	Label string
	Shape []int
	Data  []float64
}

// Grid is an immutable snapshot of one grid map message. A new Grid is built
// for every message received; nothing mutates one in place.
type Grid struct {
	Header   Header
	Metadata Metadata
	Layers   []Layer
}

// Layer returns the layer with the given label, or the first layer when the
// label is empty. The second return is false when no such layer exists.
func (g *Grid) Layer(label string) (Layer, bool) {
	if len(g.Layers) == 0 {
		return Layer{}, false
	}
	if label == "" {
		return g.Layers[0], true
	}
	for _, l := range g.Layers {
		if l.Label == label {
			return l, true
		}
	}
	return Layer{}, false
}
