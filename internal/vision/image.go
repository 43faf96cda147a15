package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vincent-petithory/dataurl"
)

// maxRemoteImageSize is the largest remote image LoadImage accepts.
const maxRemoteImageSize = 20 * 1024 * 1024

// ImageData is an image decoded into raw bytes, for backends that cannot take
// a URL or data URI directly.
type ImageData struct {
	Data     []byte
	MIMEType string
}

func (i *ImageData) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// IsDataURI reports whether ref carries the image inline.
func IsDataURI(ref string) bool {
	return strings.HasPrefix(ref, "data:")
}

// DataURI encodes raw image bytes as a base64 data URI.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ParseDataURI decodes a "data:[<mime>][;attr=value]*;base64,<payload>"
// reference. Media type parameters are dropped; whitespace and missing padding
// in the payload are tolerated. Without a media type the bytes are sniffed.
func ParseDataURI(ref string) (*ImageData, error) {
	if !IsDataURI(ref) {
		return nil, errors.New("not a data URI")
	}
	header, payload, ok := strings.Cut(strings.TrimPrefix(ref, "data:"), ",")
	if !ok {
		return nil, errors.New("data URI has no payload")
	}

	sniff := header == "" || strings.HasPrefix(header, ";")
	if sniff {
		header = "application/octet-stream" + header
	}
	payload = strings.Join(strings.Fields(payload), "")
	if strings.HasSuffix(header, ";base64") {
		payload = padBase64(payload)
	}

	du, err := dataurl.DecodeString("data:" + header + "," + payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode data URI: %w", err)
	}
	if du.Encoding != dataurl.EncodingBase64 {
		return nil, errors.New("data URI is not base64 encoded")
	}
	if len(du.Data) == 0 {
		return nil, errors.New("image data cannot be empty")
	}

	mimeType := du.MediaType.ContentType()
	if sniff {
		mimeType = http.DetectContentType(du.Data)
	}
	return &ImageData{Data: du.Data, MIMEType: mimeType}, nil
}

func padBase64(s string) string {
	if r := len(s) % 4; r != 0 {
		s += strings.Repeat("=", 4-r)
	}
	return s
}

// LoadImage resolves an image reference to bytes. Data URIs are decoded in
// place; http(s) URLs are downloaded with client.
func LoadImage(ctx context.Context, client *http.Client, ref string) (*ImageData, error) {
	if IsDataURI(ref) {
		return ParseDataURI(ref)
	}
	if !strings.HasPrefix(ref, "http://") && !strings.HasPrefix(ref, "https://") {
		return nil, errors.New("image must be a data URI or an http(s) URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close image response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > maxRemoteImageSize {
		return nil, fmt.Errorf("image exceeds %d bytes", maxRemoteImageSize)
	}
	if len(data) == 0 {
		return nil, errors.New("image data cannot be empty")
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		mimeType = http.DetectContentType(data)
	}
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return &ImageData{Data: data, MIMEType: mimeType}, nil
}
