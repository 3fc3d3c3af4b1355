package debug

// LatticeLines generates line vertices outlining a square lattice on the
// ground plane: n lines along X and n along Z, starting at origin and
// spaced step apart. Vertices are [x, y, z] at the given height.
func LatticeLines(origin, step float32, n int, height float32) []float32 {
	if n <= 0 || !(step > 0) {
		return nil
	}

	last := origin + float32(n-1)*step
	vertices := make([]float32, 0, n*2*2*3)

	// lines of constant X
	for i := 0; i < n; i++ {
		x := origin + float32(i)*step
		vertices = append(vertices,
			x, height, origin,
			x, height, last,
		)
	}

	// lines of constant Z
	for j := 0; j < n; j++ {
		z := origin + float32(j)*step
		vertices = append(vertices,
			origin, height, z,
			last, height, z,
		)
	}

	return vertices
}
