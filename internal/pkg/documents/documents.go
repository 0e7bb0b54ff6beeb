package documents

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
)

// Config limits claim attachments
type Config struct {
	MaxCount     int
	MaxBytes     int
	MaxDimension int
	// MaxPixels caps the declared width*height, checked before decoding
	MaxPixels int
}

// Normalizer validates image data URLs and downscales oversized images
type Normalizer struct {
	cfg Config
}

// NewNormalizer creates a Normalizer. Zero limits are not enforced.
func NewNormalizer(cfg Config) *Normalizer {
	return &Normalizer{cfg: cfg}
}

var formats = map[string]imaging.Format{
	"jpeg": imaging.JPEG,
	"jpg":  imaging.JPEG,
	"png":  imaging.PNG,
	"gif":  imaging.GIF,
}

var mimeNames = map[imaging.Format]string{
	imaging.JPEG: "jpeg",
	imaging.PNG:  "png",
	imaging.GIF:  "gif",
}

// DataURL is a decoded "data:image/<fmt>;base64,..." document
type DataURL struct {
	Format imaging.Format
	Data   []byte
}

// ParseDataURL decodes an image data URL
func ParseDataURL(s string) (*DataURL, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:image/")
	if !ok {
		return nil, apperrors.NewValidationError("document must be an image data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, apperrors.NewValidationError("malformed data URL")
	}
	subtype, encoding, ok := strings.Cut(meta, ";")
	if !ok || encoding != "base64" {
		return nil, apperrors.NewValidationError("data URL must be base64 encoded")
	}
	format, ok := formats[strings.ToLower(subtype)]
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unsupported image type %q", subtype))
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, apperrors.NewValidationError("data URL payload is not valid base64")
	}
	return &DataURL{Format: format, Data: data}, nil
}

// String encodes the document back into a data URL
func (d *DataURL) String() string {
	return "data:image/" + mimeNames[d.Format] + ";base64," + base64.StdEncoding.EncodeToString(d.Data)
}

// Normalize checks every document and returns them in the same order,
// re-encoding the ones that exceed the maximum dimension
func (n *Normalizer) Normalize(docs []string) ([]string, error) {
	if n.cfg.MaxCount > 0 && len(docs) > n.cfg.MaxCount {
		return nil, apperrors.NewValidationError(fmt.Sprintf("at most %d documents may be attached", n.cfg.MaxCount))
	}

	out := make([]string, 0, len(docs))
	for i, doc := range docs {
		normalized, err := n.normalizeOne(doc)
		if err != nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("document %d: %s", i+1, apperrors.Message(err, err.Error())))
		}
		out = append(out, normalized)
	}
	return out, nil
}

func (n *Normalizer) normalizeOne(doc string) (string, error) {
	d, err := ParseDataURL(doc)
	if err != nil {
		return "", err
	}
	if n.cfg.MaxBytes > 0 && len(d.Data) > n.cfg.MaxBytes {
		return "", apperrors.NewValidationError(fmt.Sprintf("image is larger than %d bytes", n.cfg.MaxBytes))
	}

	header, _, err := image.DecodeConfig(bytes.NewReader(d.Data))
	if err != nil {
		return "", apperrors.NewValidationError("image could not be decoded")
	}
	if n.cfg.MaxPixels > 0 && int64(header.Width)*int64(header.Height) > int64(n.cfg.MaxPixels) {
		return "", apperrors.NewValidationError(fmt.Sprintf("image is %dx%d, more than %d pixels", header.Width, header.Height, n.cfg.MaxPixels))
	}

	img, err := imaging.Decode(bytes.NewReader(d.Data))
	if err != nil {
		return "", apperrors.NewValidationError("image could not be decoded")
	}

	maxDim := n.cfg.MaxDimension
	bounds := img.Bounds()
	if maxDim <= 0 || (bounds.Dx() <= maxDim && bounds.Dy() <= maxDim) {
		return d.String(), nil
	}

	resized := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, d.Format); err != nil {
		return "", fmt.Errorf("failed to encode resized image: %w", err)
	}
	d.Data = buf.Bytes()
	return d.String(), nil
}
