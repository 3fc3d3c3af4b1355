// Package letters animates flat letter shapes with 2D affine matrices. Each
// letter bounces between the top and bottom of the view, spinning a full
// turn and pulsing in scale on every leg.
package letters

// Shape is a letter outline as a triangle list in pixel units, with the
// origin at its top-left corner.
type Shape struct {
	Name     string
	Vertices []float32 // x, y pairs
}

// VertexCount returns the number of vertices in the triangle list.
func (s Shape) VertexCount() int {
	return len(s.Vertices) / 2
}

// Bounds returns the width and height covered by the shape.
func (s Shape) Bounds() (w, h float32) {
	for i := 0; i+1 < len(s.Vertices); i += 2 {
		w = max(w, s.Vertices[i])
		h = max(h, s.Vertices[i+1])
	}
	return w, h
}

// rect appends the two triangles covering [x0,x1] x [y0,y1].
func rect(dst []float32, x0, y0, x1, y1 float32) []float32 {
	return append(dst,
		x0, y0,
		x1, y0,
		x0, y1,
		x0, y1,
		x1, y0,
		x1, y1,
	)
}

// ShapeF is a 100x150 letter F.
var ShapeF = Shape{
	Name: "F",
	Vertices: rect(rect(rect(nil,
		0, 0, 30, 150), // left column
		30, 0, 100, 30), // top rung
		30, 60, 67, 90), // middle rung
}

// ShapeL is a 100x150 letter L.
var ShapeL = Shape{
	Name: "L",
	Vertices: rect(rect(nil,
		0, 0, 30, 150), // left column
		30, 120, 100, 150), // bottom rung
}

// ShapeH is a 100x150 letter H.
var ShapeH = Shape{
	Name: "H",
	Vertices: rect(rect(rect(nil,
		0, 0, 30, 150), // left column
		70, 0, 100, 150), // right column
		30, 60, 70, 90), // middle rung
}

// Alphabet returns the letters in display order.
func Alphabet() []Shape {
	return []Shape{ShapeF, ShapeL, ShapeH}
}
