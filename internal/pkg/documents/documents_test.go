package documents

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/eventsphere/internal/pkg/apperrors"
)

func pngDataURL(t *testing.T, w, h int) string {
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 30, B: 30, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// forgedPNGDataURL encodes a 1x1 PNG and rewrites the IHDR to declare w x h.
// The header checksum is fixed up so only the pixel data disagrees with it.
func forgedPNGDataURL(t *testing.T, w, h uint32) string {
	img := imaging.New(1, 1, color.NRGBA{A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	raw := buf.Bytes()

	// signature(8) length(4) "IHDR"(4) width(4) height(4)
	binary.BigEndian.PutUint32(raw[16:20], w)
	binary.BigEndian.PutUint32(raw[20:24], h)
	// CRC covers the chunk type and its 13 data bytes
	binary.BigEndian.PutUint32(raw[29:33], crc32.ChecksumIEEE(raw[12:29]))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
}

func TestNormalize_AcceptsWithinPixelLimit(t *testing.T) {
	n := NewNormalizer(Config{MaxPixels: 400, MaxDimension: 100})
	out, err := n.Normalize([]string{pngDataURL(t, 20, 20)})
	require.NoError(t, err)
	assert.Equal(t, image.Pt(20, 20), decodedSize(t, out[0]))
}

func decodedSize(t *testing.T, dataURL string) image.Point {
	d, err := ParseDataURL(dataURL)
	require.NoError(t, err)
	img, err := imaging.Decode(bytes.NewReader(d.Data))
	require.NoError(t, err)
	return img.Bounds().Size()
}

func TestNormalize_DownscalesLargeImages(t *testing.T) {
	n := NewNormalizer(Config{MaxCount: 5, MaxBytes: 1 << 20, MaxDimension: 100})

	out, err := n.Normalize([]string{pngDataURL(t, 400, 200), pngDataURL(t, 50, 40)})
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, image.Pt(100, 50), decodedSize(t, out[0]))
	assert.Equal(t, image.Pt(50, 40), decodedSize(t, out[1]))
}

func TestNormalize_Rejections(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		docs []string
	}{
		{"too many", Config{MaxCount: 1}, []string{pngDataURL(t, 2, 2), pngDataURL(t, 2, 2)}},
		{"not a data url", Config{}, []string{"https://example.com/a.png"}},
		{"not base64", Config{}, []string{"data:image/png;base64,@@@"}},
		{"unsupported type", Config{}, []string{"data:image/tiff;base64,AAAA"}},
		{"not an image", Config{}, []string{"data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("hello"))}},
		{"too large", Config{MaxBytes: 10}, []string{pngDataURL(t, 20, 20)}},
		{"too many pixels", Config{MaxPixels: 399}, []string{pngDataURL(t, 20, 20)}},
		{"forged dimensions", Config{MaxPixels: 1 << 20}, []string{forgedPNGDataURL(t, 12000, 12000)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewNormalizer(tt.cfg).Normalize(tt.docs)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestNormalize_Empty(t *testing.T) {
	out, err := NewNormalizer(Config{MaxCount: 5}).Normalize(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
