package imaging

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalize_JPEG(t *testing.T) {
	out, err := Normalize(bytes.NewReader(encodeJPEG(t, solid(100, 80, color.RGBA{255, 0, 0, 255}))))
	require.NoError(t, err)
	assert.Equal(t, StoredMIME, out.MIME)
	assert.Equal(t, 100, out.Width)
	assert.Equal(t, 80, out.Height)
	assert.NotEmpty(t, out.Data)
}

func TestNormalize_PNGBecomesJPEG(t *testing.T) {
	out, err := Normalize(bytes.NewReader(encodePNG(t, solid(64, 64, color.RGBA{0, 0, 255, 255}))))
	require.NoError(t, err)
	assert.Equal(t, StoredMIME, out.MIME)

	_, format, err := image.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestNormalize_TransparentIsWhite(t *testing.T) {
	out, err := Normalize(bytes.NewReader(encodePNG(t, solid(8, 8, color.RGBA{}))))
	require.NoError(t, err)

	img, _, err := image.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	r, g, b, _ := img.At(4, 4).RGBA()
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
}

func TestNormalize_Downscales(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"wide", 2048, 1024, 1024, 512},
		{"tall", 500, 2000, 256, 1024},
		{"within bounds", 1024, 300, 1024, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Normalize(bytes.NewReader(encodePNG(t, solid(tt.w, tt.h, color.Black))))
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, out.Width)
			assert.Equal(t, tt.wantH, out.Height)
		})
	}
}

func TestNormalize_Rejects(t *testing.T) {
	_, err := Normalize(strings.NewReader("GIF89a not really"))
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = Normalize(bytes.NewReader(make([]byte, MaxUploadSize+10)))
	assert.ErrorIs(t, err, ErrTooLarge)
}

// withDimensions rewrites the IHDR width and height of an encoded PNG and
// fixes up the chunk checksum.
func withDimensions(data []byte, w, h uint32) []byte {
	out := bytes.Clone(data)
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestNormalize_RejectsHugeDimensions(t *testing.T) {
	huge := withDimensions(encodePNG(t, solid(4, 4, color.Black)), 40000, 40000)
	require.Less(t, len(huge), MaxUploadSize)

	_, err := Normalize(bytes.NewReader(huge))
	assert.ErrorIs(t, err, ErrTooLarge)
}
