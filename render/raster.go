package render

import (
	"image"
	"image/color"
)

// Raster is one topic's colorized view of its active grid layer: a flat RGBA
// byte buffer plus its dimensions. It implements image.Image so diagnostic
// tooling can encode or inspect it directly.
type Raster struct {
	data   []byte
	width  int
	height int
}

func newRaster(width, height int) *Raster {
	return &Raster{
		data:   make([]byte, width*height*4),
		width:  width,
		height: height,
	}
}

// Width returns the raster width in cells.
func (r *Raster) Width() int {
	return r.width
}

// Height returns the raster height in cells.
func (r *Raster) Height() int {
	return r.height
}

// Bytes returns the backing RGBA buffer, 4 bytes per cell. The buffer is
// owned by the topic's render state; treat it as read-only.
func (r *Raster) Bytes() []byte {
	return r.data
}

func (r *Raster) kxy(x, y int) int {
	return (y*r.width + x) * 4
}

// ColorModel implements image.Image.
func (r *Raster) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements image.Image.
func (r *Raster) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.width, r.height)
}

// At implements image.Image.
func (r *Raster) At(x, y int) color.Color {
	k := r.kxy(x, y)
	return color.NRGBA{R: r.data[k], G: r.data[k+1], B: r.data[k+2], A: r.data[k+3]}
}
