package math

// Vec2 is a 2D point in pixel or clip space, as transformed by Mat3.
type Vec2 struct {
	X, Y float32
}
