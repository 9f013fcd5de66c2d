package grid

import "fmt"

// InsufficientDimensionsError reports a layer declaring fewer than the two
// dimensions a 2D grid requires.
type InsufficientDimensionsError struct {
	Label string
	Index int
	Dims  int
}

func (e *InsufficientDimensionsError) Error() string {
	return fmt.Sprintf("layer %q (index %d) declares %d dimension(s); at least 2 required",
		e.Label, e.Index, e.Dims)
}

// SizeMismatchError reports a layer whose declared shape disagrees with the
// grid's physical cell count.
type SizeMismatchError struct {
	Label    string
	Index    int
	Expected int
	Actual   int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("layer %q (index %d) shape size %d does not match grid size %d",
		e.Label, e.Index, e.Actual, e.Expected)
}

// ValidateShapes checks every layer's declared shape against the grid's cell
// count. Layers are checked in order and the first failure wins; one bad
// layer invalidates the whole message, so there is no point reporting the
// rest. Success confirms validity and produces nothing else.
func ValidateShapes(width, height int, layers []Layer) error {
	cells := width * height
	for i, l := range layers {
		if len(l.Shape) < 2 {
			return &InsufficientDimensionsError{Label: l.Label, Index: i, Dims: len(l.Shape)}
		}
		total := 0
		for _, size := range l.Shape {
			total += size
		}
		if total != cells {
			return &SizeMismatchError{Label: l.Label, Index: i, Expected: cells, Actual: total}
		}
	}
	return nil
}
