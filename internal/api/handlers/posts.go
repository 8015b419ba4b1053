package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shahwaizSattar/mern-blog/internal/api/middleware"
	"github.com/shahwaizSattar/mern-blog/internal/media"
	"github.com/shahwaizSattar/mern-blog/internal/repositories"
	"github.com/shahwaizSattar/mern-blog/internal/utils"
)

type PostHandler struct {
	posts repositories.PostRepository
	media media.Store
}

func NewPostHandler(posts repositories.PostRepository, store media.Store) *PostHandler {
	return &PostHandler{posts: posts, media: store}
}

// List godoc
// @Summary List all posts with their authors
// @Tags Posts
// @Produce json
// @Success 200 {object} utils.Payload
// @Router /api/posts [get]
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.List(r.Context())
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Error fetching posts")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Posts fetched successfully",
		Data:    posts,
	})
}

// Get godoc
// @Summary Fetch a single post
// @Tags Posts
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/posts/{id} [get]
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	post, err := h.posts.GetByID(r.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, "Post not found")
		return
	default:
		utils.JSONError(w, http.StatusInternalServerError, "Error fetching post")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Post fetched successfully",
		Data:    post,
	})
}

// Create godoc
// @Summary Create a post
// @Tags Posts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 401 {object} utils.Payload
// @Router /api/posts [post]
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := authorID(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid form")
		return
	}

	var image *string
	if url, uploaded, err := saveUpload(r.Context(), h.media, r, "image"); err != nil {
		mediaErrorResponse(w, err)
		return
	} else if uploaded {
		image = &url
	}

	post, err := h.posts.Create(r.Context(), callerID, r.FormValue("title"), r.FormValue("content"), image)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrValidation):
		utils.JSONError(w, http.StatusBadRequest, "Title and content are required")
		return
	default:
		utils.JSONError(w, http.StatusInternalServerError, "Error creating post")
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "Post created successfully",
		Data:    post,
	})
}

// Update godoc
// @Summary Update an owned post
// @Tags Posts
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/posts/{id} [put]
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := authorID(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid form")
		return
	}

	var upd repositories.PostUpdate
	if v, present := formValue(r, "title"); present {
		upd.Title = &v
	}
	if v, present := formValue(r, "content"); present {
		upd.Content = &v
	}

	// A freshly uploaded file wins; otherwise an explicit image field is
	// honored, which lets clients clear or retain the image without re-upload.
	if url, uploaded, err := saveUpload(r.Context(), h.media, r, "image"); err != nil {
		mediaErrorResponse(w, err)
		return
	} else if uploaded {
		upd.Image = &url
	} else if v, present := formValue(r, "image"); present {
		upd.Image = &v
	}

	post, err := h.posts.Update(r.Context(), id, callerID, upd)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrValidation):
		utils.JSONError(w, http.StatusBadRequest, "Title and content are required")
		return
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, "Post not found or unauthorized")
		return
	default:
		utils.JSONError(w, http.StatusInternalServerError, "Error updating post")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Post updated successfully",
		Data:    post,
	})
}

// Delete godoc
// @Summary Delete an owned post
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/posts/{id} [delete]
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := authorID(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	err = h.posts.Delete(r.Context(), id, callerID)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, "Post not found or unauthorized")
		return
	default:
		utils.JSONError(w, http.StatusInternalServerError, "Error deleting post")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Post deleted successfully",
	})
}

// ListByUser godoc
// @Summary List a user's posts, newest first
// @Tags Posts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Router /api/posts/user/{userId} [get]
func (h *PostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	posts, err := h.posts.ListByAuthor(r.Context(), userID)
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Error fetching user posts")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Posts fetched successfully",
		Data:    posts,
	})
}

// authorID pulls the authenticated caller out of the request context.
func authorID(r *http.Request) (uuid.UUID, bool) {
	raw, ok := middleware.UserID(r.Context())
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
