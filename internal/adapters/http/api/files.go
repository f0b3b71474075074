// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/David-MyRaceDay/grid-builder-sub000/internal/adapters/repository"
)

// FileDependencies defines the interface for results file operations.
type FileDependencies interface {
	// UploadFile parses raw file bytes and adds the batch to the session.
	UploadFile(ctx context.Context, name string, data []byte) (FileInfo, error)
	// RemoveFile drops an upload by id.
	RemoveFile(ctx context.Context, id string) error
	// Files lists uploads in upload order.
	Files(ctx context.Context) []FileInfo
}

// FilesHandler handles results file requests.
type FilesHandler struct {
	deps      FileDependencies
	maxUpload int64
}

// NewFilesHandler creates a new files handler with an upload size cap.
func NewFilesHandler(deps FileDependencies, maxUpload int64) *FilesHandler {
	return &FilesHandler{
		deps:      deps,
		maxUpload: maxUpload,
	}
}

// HandleFiles handles POST /files multipart uploads and GET /files listings.
func (h *FilesHandler) HandleFiles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.handleUpload(w, r)
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Files(r.Context()))
	default:
		http.NotFound(w, r)
	}
}

// handleUpload reads the multipart "file" field and feeds it to the parser.
// A file that fails to parse is rejected whole; nothing is merged from it.
func (h *FilesHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "api.upload_file"
	if h.maxUpload > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	info, err := h.deps.UploadFile(r.Context(), header.Filename, data)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateFile) {
			writeError(w, http.StatusConflict, "duplicate_file", Wrap(op, err))
			return
		}
		writeError(w, http.StatusBadRequest, "rejected_file", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// HandleFileByID handles DELETE /files/{id} requests.
func (h *FilesHandler) HandleFileByID(w http.ResponseWriter, r *http.Request) {
	const op = "api.remove_file"
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	id := mux.Vars(r)["id"]
	if err := h.deps.RemoveFile(r.Context(), id); err != nil {
		writeStoreError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "removed"})
}
