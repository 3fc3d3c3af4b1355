package math

import (
	"math"
	"testing"
)

func TestProjection2DCorners(t *testing.T) {
	m := Projection2D(400, 300)

	tests := []struct {
		name string
		in   Vec2
		want Vec2
	}{
		{"top-left", Vec2{0, 0}, Vec2{-1, 1}},
		{"bottom-right", Vec2{400, 300}, Vec2{1, -1}},
		{"center", Vec2{200, 150}, Vec2{0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := m.TransformPoint(tt.in)
			if abs(got.X-tt.want.X) > 1e-5 || abs(got.Y-tt.want.Y) > 1e-5 {
				t.Errorf("Projection2D(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMat3ComposeOrder(t *testing.T) {
	// translate then rotate: the rotation happens around the translated origin
	m := Identity3().Translate(100, 50).Rotate(float32(math.Pi / 2))
	got := m.TransformPoint(Vec2{10, 0})

	want := Vec2{100, 40}
	if abs(got.X-want.X) > 1e-4 || abs(got.Y-want.Y) > 1e-4 {
		t.Errorf("T*R applied to (10,0) = %v, want %v", got, want)
	}
}

func TestMat3Scale(t *testing.T) {
	m := Identity3().Scale(2, 3)
	got := m.TransformPoint(Vec2{5, 5})
	if got != (Vec2{10, 15}) {
		t.Errorf("Scale(2,3) of (5,5) = %v, want (10, 15)", got)
	}
}

func TestMat3MulIdentity(t *testing.T) {
	m := Translation2D(3, 4).Mul(Scaling2D(2, 2))
	if m.Mul(Identity3()) != m {
		t.Error("M * I should equal M")
	}
	if Identity3().Mul(m) != m {
		t.Error("I * M should equal M")
	}
}
