package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shahwaizSattar/mern-blog/internal/media"
	"github.com/shahwaizSattar/mern-blog/internal/repositories"
	"github.com/shahwaizSattar/mern-blog/internal/utils"
)

type UserHandler struct {
	users repositories.UserRepository
	media media.Store
}

func NewUserHandler(users repositories.UserRepository, store media.Store) *UserHandler {
	return &UserHandler{users: users, media: store}
}

// Get godoc
// @Summary Fetch a user profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/users/{id} [get]
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	user, err := h.users.FindByID(r.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, "User not found")
		return
	default:
		utils.JSONError(w, http.StatusInternalServerError, "Error fetching user")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "User fetched successfully",
		Data:    user,
	})
}

// Update godoc
// @Summary Update your own profile
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/users/{id} [put]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := authorID(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	// Only the owner may touch a profile. A mismatch reads the same as a
	// missing user so callers can't probe which accounts exist.
	if id != callerID {
		utils.JSONError(w, http.StatusNotFound, "User not found or unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxFormSize); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid form")
		return
	}

	var upd repositories.UserUpdate
	if v, present := formValue(r, "username"); present {
		upd.Username = &v
	}
	if v, present := formValue(r, "email"); present {
		upd.Email = &v
	}
	if v, present := formValue(r, "bio"); present {
		upd.Bio = &v
	}

	if url, uploaded, err := saveUpload(r.Context(), h.media, r, "profileImage"); err != nil {
		mediaErrorResponse(w, err)
		return
	} else if uploaded {
		upd.ProfileImage = &url
	} else if v, present := formValue(r, "profileImage"); present {
		upd.ProfileImage = &v
	}

	user, err := h.users.UpdateProfile(r.Context(), id, upd)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, "User not found or unauthorized")
		return
	case errors.Is(err, repositories.ErrDuplicateUsername):
		utils.JSONError(w, http.StatusConflict, "Username is already taken")
		return
	case errors.Is(err, repositories.ErrDuplicateEmail):
		utils.JSONError(w, http.StatusConflict, "User already exists with this email")
		return
	default:
		utils.JSONError(w, http.StatusInternalServerError, "Error updating user")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "User updated successfully",
		Data:    user,
	})
}

// Delete godoc
// @Summary Delete your own account and all of its posts
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload
// @Failure 404 {object} utils.Payload
// @Router /api/users/{id} [delete]
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := authorID(r)
	if !ok {
		utils.JSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if id != callerID {
		utils.JSONError(w, http.StatusNotFound, "User not found or unauthorized")
		return
	}

	err = h.users.Delete(r.Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		utils.JSONError(w, http.StatusNotFound, "User not found or unauthorized")
		return
	default:
		utils.JSONError(w, http.StatusInternalServerError, "Error deleting user")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "User and associated posts deleted successfully",
	})
}
