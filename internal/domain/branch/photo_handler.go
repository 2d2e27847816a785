package branch

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/barberqueue/barberqueue-api/internal/pkg/errorhandler"
	"github.com/barberqueue/barberqueue-api/internal/pkg/imaging"
	"github.com/barberqueue/barberqueue-api/internal/pkg/response"
	"github.com/barberqueue/barberqueue-api/internal/pkg/storage"
)

const maxPhotoSize = 10 << 20 // 10 MB

// PhotoHandler handles branch photo uploads
type PhotoHandler struct {
	repo      *Repository
	store     storage.Storage
	processor *imaging.Processor
}

// NewPhotoHandler creates branch photo handler
func NewPhotoHandler(repo *Repository, store storage.Storage, processor *imaging.Processor) *PhotoHandler {
	return &PhotoHandler{repo: repo, store: store, processor: processor}
}

// Upload handles POST /branches/{id}/photo (owner only, multipart)
func (h *PhotoHandler) Upload(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid branch id")
		return
	}

	b, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "BRANCH_GET_FAILED", "Failed to get branch", err)
		return
	}
	if b == nil {
		response.NotFound(w, "Branch not found")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		response.BadRequest(w, "Missing photo file")
		return
	}
	defer file.Close()

	if !imaging.ValidFilename(header.Filename) {
		response.BadRequest(w, "Unsupported image type")
		return
	}

	processed, err := h.processor.Process(file)
	if err != nil {
		response.BadRequest(w, "Could not process image")
		return
	}

	ext := ".jpg"
	if processed.ContentType == "image/png" {
		ext = ".png"
	}
	baseKey := fmt.Sprintf("branches/%d/%s", id, uuid.New().String())
	photoKey := baseKey + ext
	thumbKey := baseKey + "_thumb" + ext

	if err := h.store.Save(r.Context(), photoKey, bytes.NewReader(processed.Original), processed.ContentType); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "PHOTO_UPLOAD_FAILED", "Failed to store photo", err)
		return
	}
	if err := h.store.Save(r.Context(), thumbKey, bytes.NewReader(processed.Thumbnail), processed.ContentType); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "PHOTO_UPLOAD_FAILED", "Failed to store thumbnail", err)
		return
	}

	photoURL := h.store.GetURL(photoKey)
	thumbURL := h.store.GetURL(thumbKey)
	if err := h.repo.UpdatePhoto(r.Context(), id, photoURL, thumbURL); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Branch not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "PHOTO_UPLOAD_FAILED", "Failed to save photo URLs", err)
		return
	}

	response.OK(w, map[string]string{
		"photo_url":     photoURL,
		"thumbnail_url": thumbURL,
	})
}
