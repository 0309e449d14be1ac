package handlers

import (
	"io"
	"net/http"
	"path"
	"strings"

	"reportdesk/internal/storage"
	"reportdesk/internal/utils"
)

const maxUploadBytes = 10 << 20 // 10 MiB

type UploadHTTP struct {
	uploader storage.Uploader
}

func NewUploadHTTP(uploader storage.Uploader) *UploadHTTP {
	return &UploadHTTP{uploader: uploader}
}

// POST /api/uploads takes a multipart form with "file" and an optional "module" tag
// naming the destination folder.
func (h *UploadHTTP) Upload() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.uploader == nil {
			utils.Error(w, http.StatusNotFound, "uploads not configured")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		f, hdr, err := r.FormFile("file")
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "file is required")
			return
		}
		defer f.Close()

		b, err := io.ReadAll(f)
		if err != nil {
			utils.Error(w, http.StatusBadRequest, "could not read file")
			return
		}

		module := strings.TrimSpace(r.FormValue("module"))
		if module == "" {
			module = "general"
		}
		// Folder is module-tagged; keep only the base name of the upload.
		name := path.Base(hdr.Filename)

		url, err := h.uploader.UploadBytes(r.Context(), "reportdesk/"+module, name, b)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, "upload failed")
			return
		}
		utils.JSON(w, http.StatusCreated, map[string]string{
			"fileName": name,
			"url":      url,
		})
	}
}
