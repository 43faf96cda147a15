package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vbonduro/mealvision/internal/vision"
)

const maxPhotoSize = 20 * 1024 * 1024 // 20 MB

// maxBodySize leaves room for a maxPhotoSize photo sent base64 encoded inside
// a form field, plus the other fields.
const maxBodySize = maxPhotoSize*4/3 + 1024*1024

var (
	errUnsupportedImage = errors.New("unsupported image format")
	errImageTooLarge    = fmt.Errorf("image exceeds %d bytes", maxPhotoSize)
)

// allowedImageTypes is the set of MIME types accepted for uploaded photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniffing standard (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

// uploadedImage reads the multipart file field "image" and returns it as a
// data URI. It returns http.ErrMissingFile when no file was sent.
func uploadedImage(r *http.Request, logger *slog.Logger) (string, error) {
	file, _, err := r.FormFile("image")
	if err != nil {
		return "", err
	}
	defer closeWithLog(file, "upload file", logger)

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxPhotoSize {
		return "", errImageTooLarge
	}

	mimeType, ok := allowedImageMIME(data)
	if !ok {
		return "", errUnsupportedImage
	}
	return vision.DataURI(mimeType, data), nil
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
