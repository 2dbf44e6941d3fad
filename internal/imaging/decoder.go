// Package imaging turns inbound data-URI style payloads into validated raw
// image bytes.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"strings"

	_ "image/gif"  // register GIF codec
	_ "image/jpeg" // register JPEG codec
	_ "image/png"  // register PNG codec

	"github.com/sdpro1234/skin-disease-ai/internal/apperr"
)

// Image is a validated image payload. Immutable after Decode returns it.
type Image struct {
	MIMEHint string // the header segment before the comma, e.g. "data:image/png;base64"
	Format   string // codec-sniffed format name: "jpeg", "png", "gif"
	Bytes    []byte
}

// MIMEType returns the media type derived from the sniffed format, not the
// client-supplied hint.
func (i Image) MIMEType() string {
	return "image/" + i.Format
}

// Decode parses a "header,base64-payload" string into an Image. The header is
// kept as a hint only; validation relies on what the bytes actually are.
// maxBytes caps the decoded size before the codec ever sees the data.
// Every failure wraps apperr.ErrInvalidImage with a readable detail.
func Decode(payload string, maxBytes int64) (Image, error) {
	header, encoded, found := strings.Cut(payload, ",")
	if !found {
		return Image{}, fmt.Errorf("%w: missing comma separator in payload", apperr.ErrInvalidImage)
	}

	// base64 expands 3 bytes to 4 chars; reject oversized payloads before
	// decoding so a huge submission never gets buffered in full.
	if maxBytes > 0 && int64(len(encoded))/4*3 > maxBytes {
		return Image{}, fmt.Errorf("%w: encoded payload exceeds %d byte limit", apperr.ErrInvalidImage, maxBytes)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Image{}, fmt.Errorf("%w: malformed base64 data: %v", apperr.ErrInvalidImage, err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Image{}, fmt.Errorf("%w: unrecognized image format: %v", apperr.ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Image{}, fmt.Errorf("%w: image has no pixels", apperr.ErrInvalidImage)
	}

	return Image{MIMEHint: header, Format: format, Bytes: raw}, nil
}
