package web

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/vbonduro/mealvision/internal/logging"
	"github.com/vbonduro/mealvision/internal/service"
)

// recognizeForm is the inbound request. It arrives as form fields, multipart
// (with an optional file upload in "image") or a JSON body.
type recognizeForm struct {
	Image       string `json:"image"`
	Description string `json:"description"`
	Detail      string `json:"detail"`
	Language    string `json:"language"`
}

func (s *Server) handleRecognize(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context(), s.logger)
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	form, status, err := s.readRecognizeForm(r)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}

	req := service.NewRequest(form.Image, form.Description, form.Detail, form.Language)
	rec, err := s.service.Recognize(r.Context(), req)
	if err != nil {
		http.Error(w, "failed to analyze image", http.StatusBadGateway)
		logger.Error("meal recognition failed", "error", err)
		return
	}

	s.writeJSON(w, r, http.StatusOK, rec)
}

// readRecognizeForm decodes the request body. On failure it returns the HTTP
// status to answer with.
func (s *Server) readRecognizeForm(r *http.Request) (*recognizeForm, int, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	var form recognizeForm
	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			return nil, http.StatusBadRequest, errors.New("invalid JSON body")
		}
		form.Detail = strings.TrimSpace(form.Detail)
		form.Language = strings.TrimSpace(form.Language)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
			return nil, http.StatusBadRequest, errors.New("failed to parse form")
		}
		form = formValues(r)
		if form.Image == "" {
			image, err := uploadedImage(r, logging.FromContext(r.Context(), s.logger))
			switch {
			case errors.Is(err, http.ErrMissingFile):
			case errors.Is(err, errImageTooLarge):
				return nil, http.StatusRequestEntityTooLarge, err
			case errors.Is(err, errUnsupportedImage):
				return nil, http.StatusBadRequest, err
			case err != nil:
				return nil, http.StatusBadRequest, errors.New("failed to read file")
			default:
				form.Image = image
			}
		}
	default:
		if err := r.ParseForm(); err != nil {
			return nil, http.StatusBadRequest, errors.New("failed to parse form")
		}
		form = formValues(r)
	}

	form.Image = strings.TrimSpace(form.Image)
	if form.Image == "" {
		return nil, http.StatusBadRequest, errors.New("image required")
	}
	return &form, http.StatusOK, nil
}

func formValues(r *http.Request) recognizeForm {
	return recognizeForm{
		Image:       strings.TrimSpace(r.FormValue("image")),
		Description: r.FormValue("description"),
		Detail:      strings.TrimSpace(r.FormValue("detail")),
		Language:    strings.TrimSpace(r.FormValue("language")),
	}
}
