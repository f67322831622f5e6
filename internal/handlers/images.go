package handlers

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"lens/internal/database"
	"lens/internal/filesystem"
	"lens/internal/logging"
	"lens/internal/mediatypes"
	"lens/internal/streaming"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

var errOutsideMediaDir = errors.New("path resolves outside the media directory")

// ListImages handles GET /api/images?from=&to=&limit=
func (h *Handlers) ListImages(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	fromStr := query.Get("from")
	if fromStr == "" {
		writeJSONError(w, "from is required", http.StatusBadRequest)
		return
	}
	from, err := time.Parse(time.RFC3339, fromStr)
	if err != nil {
		writeJSONError(w, "from must be an RFC 3339 timestamp", http.StatusBadRequest)
		return
	}

	var to time.Time
	if toStr := query.Get("to"); toStr != "" {
		if to, err = time.Parse(time.RFC3339, toStr); err != nil {
			writeJSONError(w, "to must be an RFC 3339 timestamp", http.StatusBadRequest)
			return
		}
	}

	limit := database.DefaultListLimit
	if limitStr := query.Get("limit"); limitStr != "" {
		if limit, err = strconv.Atoi(limitStr); err != nil || limit < 1 {
			writeJSONError(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
	}

	images, err := h.catalog.ListImages(r.Context(), from, to, limit)
	if err != nil {
		logging.Error("ListImages failed: %v", err)
		writeJSONError(w, "failed to list images", http.StatusInternalServerError)
		return
	}
	if images == nil {
		images = []database.Image{}
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, images)
}

// GetImage handles GET /api/images/{id}
func (h *Handlers) GetImage(w http.ResponseWriter, r *http.Request) {
	img, ok := h.lookup(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, img)
}

// GetImageData handles GET /api/images/{id}/data and streams the original
// file.
func (h *Handlers) GetImageData(w http.ResponseWriter, r *http.Request) {
	img, ok := h.lookup(w, r)
	if !ok {
		return
	}

	fullPath, err := h.resolve(img.Path)
	if err != nil {
		logging.Error("Image %s has an invalid path %q: %v", img.ID, img.Path, err)
		writeJSONError(w, "invalid image path", http.StatusInternalServerError)
		return
	}

	f, err := filesystem.OpenWithRetry(fullPath, h.retry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeJSONError(w, "image file not found", http.StatusNotFound)
			return
		}
		logging.Error("Failed to open %s: %v", fullPath, err)
		writeJSONError(w, "failed to read image", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", mediatypes.GetMimeType(img.Path))
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", path.Base(img.Path)))
	if info, err := f.Stat(); err == nil {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
	}

	if _, err := streaming.Copy(r.Context(), w, f, h.stream); err != nil && !errors.Is(err, streaming.ErrClientGone) {
		logging.Warn("Failed to stream %s: %v", img.Path, err)
	}
}

// GetImagePath returns the absolute path of the file behind a record.
func (h *Handlers) GetImagePath(ctx context.Context, id string) (string, error) {
	img, err := h.catalog.FindImageByID(ctx, id)
	if err != nil {
		return "", err
	}
	return h.resolve(img.Path)
}

func (h *Handlers) lookup(w http.ResponseWriter, r *http.Request) (*database.Image, bool) {
	id := mux.Vars(r)["id"]
	if _, err := uuid.Parse(id); err != nil {
		writeJSONError(w, "invalid image id", http.StatusBadRequest)
		return nil, false
	}

	img, err := h.catalog.FindImageByID(r.Context(), id)
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeJSONError(w, "image not found", http.StatusNotFound)
		return nil, false
	case err != nil:
		logging.Error("FindImageByID(%s) failed: %v", id, err)
		writeJSONError(w, "failed to load image", http.StatusInternalServerError)
		return nil, false
	}
	return img, true
}

// resolve maps a slash-separated catalog path under the media directory.
func (h *Handlers) resolve(relPath string) (string, error) {
	fullPath := filepath.Join(h.mediaDir, filepath.FromSlash(relPath))
	if !isSubPath(h.mediaDir, fullPath) {
		return "", errOutsideMediaDir
	}
	return fullPath, nil
}

func isSubPath(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
