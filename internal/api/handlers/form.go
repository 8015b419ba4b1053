package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/shahwaizSattar/mern-blog/internal/media"
	"github.com/shahwaizSattar/mern-blog/internal/utils"
)

// Multipart forms get a little headroom over the image cap for text fields.
const maxFormSize = media.MaxUploadSize + (1 << 20)

// formValue returns the field value and whether the field was present at all.
// Presence matters: an absent field leaves a column untouched, an empty one
// clears it.
func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	vals, ok := r.MultipartForm.Value[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// saveUpload stores the named file field if one was uploaded and returns its
// URL. A missing file is not an error; the bool reports whether a file came in.
func saveUpload(ctx context.Context, store media.Store, r *http.Request, field string) (string, bool, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	defer file.Close()

	url, err := store.Save(ctx, file, header.Filename)
	if err != nil {
		return "", false, err
	}
	return url, true, nil
}

// mediaErrorResponse maps media intake failures: client mistakes get a 400,
// storage trouble a 500.
func mediaErrorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, media.ErrFileTooLarge):
		utils.JSONError(w, http.StatusBadRequest, "Image exceeds the upload size limit")
	case errors.Is(err, media.ErrUnsupportedType):
		utils.JSONError(w, http.StatusBadRequest, "Unsupported image type")
	default:
		utils.JSONError(w, http.StatusInternalServerError, "Failed to store image")
	}
}
