package document

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidDataURL = errors.New("invalid image data URL")

// DecodeImageDataURL unpacks a "data:image/...;base64," string into its MIME
// type and raw bytes. The signature widget emits answers in this shape.
func DecodeImageDataURL(value string) (string, []byte, error) {
	if !strings.HasPrefix(value, "data:") {
		return "", nil, fmt.Errorf("%w: missing data prefix", ErrInvalidDataURL)
	}

	rest := strings.TrimPrefix(value, "data:")

	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return "", nil, fmt.Errorf("%w: missing payload separator", ErrInvalidDataURL)
	}

	contentType, encoding, found := strings.Cut(meta, ";")
	if !found || encoding != "base64" {
		return "", nil, fmt.Errorf("%w: only base64 encoding is supported", ErrInvalidDataURL)
	}

	if !strings.HasPrefix(contentType, "image/") {
		return "", nil, fmt.Errorf("%w: unexpected content type %s", ErrInvalidDataURL, contentType)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s", ErrInvalidDataURL, err)
	}

	return contentType, data, nil
}
