// Package obj decodes Wavefront OBJ geometry (*.obj) into flat, triangulated
// vertex arrays. Faces are split into geometries whenever the object, group
// or material changes, which is how multi-colored models keep their parts
// apart. Materials (*.mtl) are recorded by name only; colors come from the
// caller.
package obj

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/udhos/gwob"

	"github.com/Faultbox/glforest/pkg/math"
)

// Geometry is one drawable part of a model. Every three vertices form a
// triangle.
type Geometry struct {
	Name      string // object or group name
	Material  string
	Positions []float32 // x, y, z per vertex
	Normals   []float32 // x, y, z per vertex
	TexCoords []float32 // u, v per vertex; empty when the file has none
}

// VertexCount returns the number of vertices in the geometry.
func (g *Geometry) VertexCount() int {
	return len(g.Positions) / 3
}

// Model holds all decoded geometries of an OBJ file.
type Model struct {
	Geometries  []Geometry
	MaterialLib string
	Warnings    []string
}

// Extents returns the axis-aligned bounds over every geometry.
// ok is false for a model with no vertices.
func (m *Model) Extents() (min, max math.Vec3, ok bool) {
	for gi := range m.Geometries {
		pos := m.Geometries[gi].Positions
		for i := 0; i+2 < len(pos); i += 3 {
			p := math.Vec3{X: pos[i], Y: pos[i+1], Z: pos[i+2]}
			if !ok {
				min, max, ok = p, p, true
				continue
			}
			min = min.Min(p)
			max = max.Max(p)
		}
	}
	return min, max, ok
}

// ErrMixedAttributes is returned when the faces of a file disagree on which
// vertex attributes they carry and the file cannot be repaired.
var ErrMixedAttributes = errors.New("faces mix vertex attributes")

// Load reads and decodes the OBJ file at path.
func Load(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	m, err := decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Decode reads OBJ text from r.
func Decode(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decode("", data)
}

// report sorts the parser's log lines into errors and warnings. Lines the
// parser skipped are errors, except unknown keywords.
type report struct {
	errs     []string
	warnings []string
}

func (r *report) log(msg string) {
	msg = strings.TrimSpace(msg)
	unknown := strings.HasSuffix(msg, ": unexpected")

	switch {
	case strings.HasPrefix(msg, "readLines: "):
		// unknown keywords are reported again by the second pass
		if !unknown {
			r.errs = append(r.errs, strings.TrimPrefix(msg, "readLines: "))
		}
	case strings.HasPrefix(msg, "scanLines: "):
		msg = strings.TrimPrefix(msg, "scanLines: ")
		if unknown {
			r.warnings = append(r.warnings, msg)
		} else {
			r.errs = append(r.errs, msg)
		}
	default:
		r.warnings = append(r.warnings, msg)
	}
}

func parse(name string, data []byte, ignoreNormals bool) (*gwob.Obj, *report, error) {
	rep := &report{}
	o, err := gwob.NewObjFromBuf(name, data, &gwob.ObjParserOptions{
		Logger:        rep.log,
		IgnoreNormals: ignoreNormals,
	})
	if err != nil {
		return nil, nil, err
	}
	if len(rep.errs) > 0 {
		return nil, nil, errors.New(rep.errs[0])
	}
	return o, rep, nil
}

// uniform reports whether every vertex element carries the full stride.
// Faces that mix textured and untextured corners (or normals) leave short
// elements behind, and the flat coordinate array no longer lines up.
func uniform(o *gwob.Obj) bool {
	elements := 0
	for _, i := range o.Indices {
		elements = max(elements, i+1)
	}
	return len(o.Coord) == elements*o.StrideSize/4
}

func decode(name string, data []byte) (*Model, error) {
	o, rep, err := parse(name, data, false)
	if err != nil {
		return nil, err
	}

	var repairs []string
	if !uniform(o) && o.TextCoordFound {
		data = fillTexCoords(data)
		if o, rep, err = parse(name, data, false); err != nil {
			return nil, err
		}
		repairs = append(repairs, "faces without texture coordinates use (0, 0)")
	}
	if !uniform(o) && o.NormCoordFound {
		if o, rep, err = parse(name, data, true); err != nil {
			return nil, err
		}
		repairs = append(repairs, "faces mix normals, using flat normals")
	}
	if !uniform(o) {
		return nil, ErrMixedAttributes
	}

	m := convert(o)
	m.Warnings = append(rep.warnings, repairs...)
	return m, nil
}

// fillTexCoords appends a (0, 0) texture coordinate and points every face
// corner without one at it.
func fillTexCoords(data []byte) []byte {
	var out bytes.Buffer
	count := 0

	var lines [][]byte
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for sc.Scan() {
		line := sc.Bytes()
		if bytes.HasPrefix(bytes.TrimSpace(line), []byte("vt ")) {
			count++
		}
		lines = append(lines, append([]byte(nil), line...))
	}

	zero := strconv.Itoa(count + 1)
	for _, line := range lines {
		trimmed := strings.TrimSpace(string(line))
		if !strings.HasPrefix(trimmed, "f ") {
			out.Write(line)
			out.WriteByte('\n')
			continue
		}
		fields := strings.Fields(trimmed[2:])
		for i, tok := range fields {
			parts := strings.Split(tok, "/")
			switch {
			case len(parts) == 1:
				fields[i] = tok + "/" + zero
			case parts[1] == "":
				parts[1] = zero
				fields[i] = strings.Join(parts, "/")
			}
		}
		out.WriteString("f " + strings.Join(fields, " ") + "\n")
	}
	out.WriteString("vt 0 0\n")
	return out.Bytes()
}

// convert expands the parser's indexed groups into flat triangle lists.
func convert(o *gwob.Obj) *Model {
	m := &Model{MaterialLib: o.Mtllib}

	stride := o.StrideSize / 4
	texOff := o.StrideOffsetTexture / 4
	normOff := o.StrideOffsetNormal / 4

	for _, grp := range o.Groups {
		if grp.IndexCount < 3 {
			continue
		}
		g := Geometry{Name: grp.Name, Material: grp.Usemtl}

		end := grp.IndexBegin + grp.IndexCount - grp.IndexCount%3
		for k := grp.IndexBegin; k < end; k += 3 {
			var corners [3]math.Vec3
			for c := 0; c < 3; c++ {
				base := o.Indices[k+c] * stride
				corners[c] = math.Vec3{X: o.Coord[base], Y: o.Coord[base+1], Z: o.Coord[base+2]}
				g.Positions = append(g.Positions, corners[c].X, corners[c].Y, corners[c].Z)
				if o.TextCoordFound {
					g.TexCoords = append(g.TexCoords, o.Coord[base+texOff], o.Coord[base+texOff+1])
				}
				if o.NormCoordFound {
					g.Normals = append(g.Normals, o.Coord[base+normOff], o.Coord[base+normOff+1], o.Coord[base+normOff+2])
				}
			}
			if !o.NormCoordFound {
				flat := corners[1].Sub(corners[0]).Cross(corners[2].Sub(corners[0])).Normalize()
				for c := 0; c < 3; c++ {
					g.Normals = append(g.Normals, flat.X, flat.Y, flat.Z)
				}
			}
		}
		m.Geometries = append(m.Geometries, g)
	}
	return m
}
