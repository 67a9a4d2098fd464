package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/vbonduro/retrocam/internal/domain"
	"github.com/vbonduro/retrocam/internal/service"
)

const maxFrameSize = 20 * 1024 * 1024 // 20 MB

// allowedImageTypes is the set of MIME types accepted for captured frames.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP"
// at offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is
// an accepted image format, or ("", false) otherwise.
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

// photoResponse adds the download URL the wall UI needs alongside the
// record fields.
type photoResponse struct {
	domain.Photo
	ImageURL string `json:"imageUrl"`
}

func toPhotoResponse(p domain.Photo) photoResponse {
	return photoResponse{Photo: p, ImageURL: "/photos/" + p.ID + "/image"}
}

func (s *Server) handleListPhotos(w http.ResponseWriter, r *http.Request) {
	photos := s.service.List()
	out := make([]photoResponse, 0, len(photos))
	for _, p := range photos {
		out = append(out, toPhotoResponse(p))
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFrameSize); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file required", http.StatusBadRequest)
		return
	}
	defer closeWithLog(file, "capture file", s.logger)

	imageData, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusInternalServerError)
		s.logger.Error("read capture failed", "error", err)
		return
	}

	mimeType, ok := allowedImageMIME(imageData)
	if !ok {
		http.Error(w, "unsupported image format", http.StatusBadRequest)
		return
	}

	photo, err := s.service.Capture(r.Context(), imageData, mimeType)
	if err != nil {
		http.Error(w, "failed to capture photo", http.StatusInternalServerError)
		s.logger.Error("capture failed", "error", err)
		return
	}

	s.respondJSON(w, http.StatusCreated, toPhotoResponse(photo))
}

func (s *Server) handleGetFrame(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	reader, mimeType, err := s.service.OpenFrame(r.Context(), id)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			s.logger.Error("open frame failed", "id", id, "error", err)
		}
		http.NotFound(w, r)
		return
	}
	defer closeWithLog(reader, "frame reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write frame failed", "id", id, "error", err)
	}
}

func (s *Server) handleEditCaption(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var body struct {
		Caption string `json:"caption"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	// Editing an absent photo is a no-op, not an error.
	s.service.EditCaption(id, body.Caption)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	err := s.service.Regenerate(r.Context(), id)
	if errors.Is(err, service.ErrAIDisabled) {
		s.respondJSON(w, http.StatusConflict, map[string]string{
			"error": "Configure an API key in Settings to use AI captions",
		})
		return
	}
	if err != nil {
		http.Error(w, "failed to regenerate caption", http.StatusInternalServerError)
		s.logger.Error("regenerate failed", "id", id, "error", err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var pos domain.Position
	if err := json.NewDecoder(r.Body).Decode(&pos); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	s.service.MoveTo(id, pos)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBringToFront(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	order, ok := s.service.BringToFront(id)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]int64{"stackOrder": order})
}

func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	s.service.Delete(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
