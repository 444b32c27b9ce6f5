package controllers

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/dcode-github/hostel_pg_finder/backend/apperrors"
	"github.com/dcode-github/hostel_pg_finder/backend/utils"
)

const sniffLen = 512

// UploadImage accepts a single multipart "image" field of at most 5 MiB and
// returns the media store URL for it.
func UploadImage(store utils.ImageStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, utils.MaxImageSize+(1<<20))

		if err := r.ParseMultipartForm(utils.MaxImageSize); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				utils.WriteError(w, r, apperrors.Validation("File too large, maximum size is 5MB"))
				return
			}
			utils.WriteError(w, r, apperrors.Validation("No file uploaded"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("image")
		if err != nil {
			utils.WriteError(w, r, apperrors.Validation("No file uploaded"))
			return
		}
		defer file.Close()

		if header.Size > utils.MaxImageSize {
			utils.WriteError(w, r, apperrors.Validation("File too large, maximum size is 5MB"))
			return
		}

		head := make([]byte, sniffLen)
		n, err := io.ReadFull(file, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			utils.WriteError(w, r, apperrors.Validation("No file uploaded"))
			return
		}
		head = head[:n]
		if !strings.HasPrefix(http.DetectContentType(head), "image/") {
			utils.WriteError(w, r, apperrors.Validation("Only image files are allowed"))
			return
		}

		res, err := store.Upload(r.Context(), io.MultiReader(bytes.NewReader(head), file))
		if err != nil {
			utils.WriteError(w, r, apperrors.Upstream("Image upload failed", err))
			return
		}

		log.Ctx(r.Context()).Info().Str("public_id", res.PublicID).Int64("size", header.Size).Msg("Image uploaded")
		utils.WriteJSON(w, http.StatusOK, res)
	}
}
