package imagegen

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedDataURL = errors.New("imagegen: malformed data URL")

// ParseDataURL splits "data:<mime>;base64,<payload>" into its media type
// and decoded bytes.
func ParseDataURL(s string) (mimeType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), "data:")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing data: scheme", ErrMalformedDataURL)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing payload separator", ErrMalformedDataURL)
	}
	mimeType, ok = strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, fmt.Errorf("%w: payload is not base64", ErrMalformedDataURL)
	}
	if mimeType == "" || !strings.Contains(mimeType, "/") {
		return "", nil, fmt.Errorf("%w: invalid media type %q", ErrMalformedDataURL, mimeType)
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformedDataURL, err)
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("%w: empty payload", ErrMalformedDataURL)
	}
	return mimeType, data, nil
}

func EncodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
