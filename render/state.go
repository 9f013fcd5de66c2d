package render

import (
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"

	"go.viam.com/gridview/grid"
)

// Transform places and scales a topic's raster in its grid's frame.
type Transform struct {
	Scale   r3.Vector
	Pose    grid.Pose
	FrameID string
}

func transformFor(g *grid.Grid) Transform {
	width, height := g.Metadata.Dimensions()
	return Transform{
		Scale: r3.Vector{
			X: g.Metadata.Resolution * float64(width),
			Y: g.Metadata.Resolution * float64(height),
			Z: 1,
		},
		Pose:    g.Metadata.Pose,
		FrameID: g.Header.FrameID,
	}
}

// renderState is one topic's exclusive working set: the active grid, the
// resolved settings, the raster buffer, and the values derived from them.
// Nothing outside the owning Manager touches it.
type renderState struct {
	grid        *grid.Grid
	receiveTime time.Time
	settings    DisplaySettings
	raster      *Raster
	transform   Transform
	// transparency is the cached blend decision; announced records whether
	// the surface has been told about it at least once.
	transparency bool
	announced    bool
}

func newRenderState(settings DisplaySettings) *renderState {
	return &renderState{
		settings:     settings,
		transparency: needsTransparency(settings),
	}
}

// recolor refills the raster from the active layer. The buffer is
// reallocated only when the grid dimensions changed; a fresh buffer starts
// zeroed so a shrinking layer can never leave stale bytes visible.
func (s *renderState) recolor(logger golog.Logger, topic string) {
	width, height := s.grid.Metadata.Dimensions()
	if s.raster == nil || s.raster.width != width || s.raster.height != height {
		s.raster = newRaster(width, height)
	}

	layer, ok := s.grid.Layer(s.settings.Layer)
	if !ok && s.settings.Layer != "" {
		layer, ok = s.grid.Layer("")
		if ok {
			logger.Debugw("selected layer not in message; falling back to first",
				"topic", topic, "layer", s.settings.Layer, "fallback", layer.Label)
		}
	}
	if !ok {
		return
	}

	r := newRamp(s.settings)
	cells := width * height
	if len(layer.Data) < cells {
		cells = len(layer.Data)
	}
	buf := s.raster.data
	for i := 0; i < cells; i++ {
		r.shade(layer.Data[i], buf[i*4:])
	}
	// a data array shorter than the cell count paints only a prefix; clear
	// the rest so bytes from the previous message cannot show through a
	// reused buffer
	for i := cells * 4; i < len(buf); i++ {
		buf[i] = 0
	}
}
