package math

import "github.com/chewxy/math32"

// Mat3 is a 3x3 matrix in column-major order, used for 2D affine transforms
// in homogeneous coordinates.
// Layout: [m0 m3 m6]
//
//	[m1 m4 m7]
//	[m2 m5 m8]
type Mat3 [9]float32

// Identity3 returns a 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Projection2D maps pixel coordinates to clip space. The Y axis is flipped
// so that (0, 0) is the top-left corner and (width, height) the bottom-right.
func Projection2D(width, height float32) Mat3 {
	return Mat3{
		2 / width, 0, 0,
		0, -2 / height, 0,
		-1, 1, 1,
	}
}

// Translation2D returns a 2D translation matrix.
func Translation2D(tx, ty float32) Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		tx, ty, 1,
	}
}

// Rotation2D returns a 2D rotation matrix. angle is in radians; positive
// angles turn counter-clockwise on screen once combined with Projection2D.
func Rotation2D(angle float32) Mat3 {
	c := math32.Cos(angle)
	s := math32.Sin(angle)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// Scaling2D returns a 2D scale matrix.
func Scaling2D(sx, sy float32) Mat3 {
	return Mat3{
		sx, 0, 0,
		0, sy, 0,
		0, 0, 1,
	}
}

// Mul multiplies this matrix by another (m * other).
func (m Mat3) Mul(other Mat3) Mat3 {
	var result Mat3
	for col := 0; col < 3; col++ {
		for row := 0; row < 3; row++ {
			result[col*3+row] =
				m[0*3+row]*other[col*3+0] +
					m[1*3+row]*other[col*3+1] +
					m[2*3+row]*other[col*3+2]
		}
	}
	return result
}

// Translate returns m * Translation2D(tx, ty).
func (m Mat3) Translate(tx, ty float32) Mat3 {
	return m.Mul(Translation2D(tx, ty))
}

// Rotate returns m * Rotation2D(angle).
func (m Mat3) Rotate(angle float32) Mat3 {
	return m.Mul(Rotation2D(angle))
}

// Scale returns m * Scaling2D(sx, sy).
func (m Mat3) Scale(sx, sy float32) Mat3 {
	return m.Mul(Scaling2D(sx, sy))
}

// TransformPoint transforms a 2D point (assumes w=1).
func (m Mat3) TransformPoint(p Vec2) Vec2 {
	return Vec2{
		X: m[0]*p.X + m[3]*p.Y + m[6],
		Y: m[1]*p.X + m[4]*p.Y + m[7],
	}
}

// Ptr returns a pointer to the first element (for OpenGL uniform calls).
func (m *Mat3) Ptr() *float32 {
	return &m[0]
}
