package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shahwaizSattar/mern-blog/internal/repositories"
	"github.com/shahwaizSattar/mern-blog/internal/utils"
)

// TokenIssuer signs a bearer token for the given user id.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

type AuthHandler struct {
	users  repositories.UserRepository
	tokens TokenIssuer
}

func NewAuthHandler(users repositories.UserRepository, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

// Signup godoc
// @Summary Register a new account
// @Tags Auth
// @Accept json
// @Produce json
// @Success 201 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Failure 409 {object} utils.Payload
// @Router /api/auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.users.Create(r.Context(), input.Username, input.Email, input.Password)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrValidation):
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	case errors.Is(err, repositories.ErrDuplicateUsername):
		utils.JSONError(w, http.StatusConflict, "Username is already taken")
		return
	case errors.Is(err, repositories.ErrDuplicateEmail):
		utils.JSONError(w, http.StatusConflict, "User already exists with this email")
		return
	default:
		utils.JSONError(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	utils.JSONResponse(w, http.StatusCreated, utils.Payload{
		Success: true,
		Message: "User created successfully",
		Data: map[string]any{
			"userId": user.ID,
		},
	})
}

// Login godoc
// @Summary Log in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} utils.Payload
// @Failure 400 {object} utils.Payload
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if input.Email == "" || input.Password == "" {
		utils.JSONError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	user, err := h.users.FindByEmail(r.Context(), input.Email)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrNotFound):
		// Same response as a wrong password: never reveal whether the email exists.
		utils.JSONError(w, http.StatusBadRequest, "Invalid credentials")
		return
	default:
		utils.JSONError(w, http.StatusInternalServerError, "Error logging in")
		return
	}

	if !h.users.CheckPassword(user, input.Password) {
		utils.JSONError(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	tok, err := h.tokens.Issue(user.ID.String())
	if err != nil {
		utils.JSONError(w, http.StatusInternalServerError, "Error logging in")
		return
	}

	utils.JSONResponse(w, http.StatusOK, utils.Payload{
		Success: true,
		Message: "Logged in successfully",
		Data: map[string]any{
			"token":  tok,
			"userId": user.ID,
		},
	})
}
