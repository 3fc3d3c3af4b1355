package debug

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glforest/pkg/math"
)

func TestBoxWireframe(t *testing.T) {
	v := BoxWireframe(math.Vec3{X: 2, Y: 0, Z: 2}, math.Vec3{X: -2, Y: 4, Z: -2}, 1)
	require.Len(t, v, BBoxWireframeVertexCount*3)

	// first vertex is the padded minimum corner
	assert.Equal(t, []float32{-3, -1, -3}, v[:3])

	for i := 0; i < len(v); i += 3 {
		assert.Contains(t, []float32{-3, 3}, v[i])
		assert.Contains(t, []float32{-1, 5}, v[i+1])
		assert.Contains(t, []float32{-3, 3}, v[i+2])
	}
}

func TestLatticeLines(t *testing.T) {
	v := LatticeLines(-1000, 500, 5, 1)
	require.Len(t, v, 5*2*2*3)

	// first line runs along Z at x = -1000
	assert.Equal(t, []float32{-1000, 1, -1000, -1000, 1, 1000}, v[:6])
	// last line runs along X at z = 1000
	assert.Equal(t, []float32{-1000, 1, 1000, 1000, 1, 1000}, v[len(v)-6:])

	assert.Nil(t, LatticeLines(0, 0, 5, 0))
	assert.Nil(t, LatticeLines(0, 10, 0, 0))
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatPNG, false},
		{"PNG", FormatPNG, false},
		{".webp", FormatWebP, false},
		{"jpeg", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	f, err := FormatFromPath("out/forest.webp")
	require.NoError(t, err)
	assert.Equal(t, FormatWebP, f)
}

func TestFlipRGBA(t *testing.T) {
	// two rows: bottom red, top blue (OpenGL order)
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}
	img, err := FlipRGBA(pixels, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0, 0, 255, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(0, 1))

	_, err = FlipRGBA(pixels, 2, 2)
	assert.Error(t, err)
}

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for i := range img.Pix {
		img.Pix[i] = byte(i * 7)
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func TestEncode(t *testing.T) {
	img := testImage()

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, FormatPNG))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	buf.Reset()
	require.NoError(t, Encode(&buf, img, FormatWebP))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("RIFF")))
	assert.Equal(t, "WEBP", string(buf.Bytes()[8:12]))

	assert.Error(t, Encode(&buf, img, Format("gif")))
}

func TestScreenshotCapture(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	sc := NewScreenshotCapture(dir, "forest", FormatWebP)
	sc.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	name := sc.GenerateFilename()
	assert.Equal(t, filepath.Join(dir, "forest_2024-05-01_12-30-00.000.webp"), name)

	pixels := make([]byte, 4*3*4)
	saved, err := sc.CaptureFromPixels(pixels, 4, 3)
	require.NoError(t, err)
	assert.Equal(t, name, saved)

	info, err := os.Stat(saved)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())

	_, err = sc.CaptureFromPixels(pixels, 5, 3)
	assert.Error(t, err)
}

func TestSaveImagePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b.png")
	require.NoError(t, SaveImage(path, testImage(), FormatPNG))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\x89PNG"))
}
