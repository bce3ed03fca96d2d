package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/rcampos/diapredict-be/internal/auth"
	"github.com/rcampos/diapredict-be/internal/services"
	"github.com/rs/zerolog/log"
)

// UserHandler handles HTTP requests for registration and login.
type UserHandler struct {
	service   services.UserServiceProvider
	eventSvc  services.EventServiceProvider
	jwtSecret []byte
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, eventSvc services.EventServiceProvider, jwtSecret []byte) *UserHandler {
	return &UserHandler{service: service, eventSvc: eventSvc, jwtSecret: jwtSecret}
}

// AuthPayload defines the structure for login requests.
type AuthPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Register(payload.Username, payload.Password, payload.Email, payload.FullName)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			// The message names the violated rule; the store was not touched.
			http.Error(w, verr.Message, http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register user")
		http.Error(w, "Failed to register user", http.StatusInternalServerError)
		return
	}

	h.eventSvc.CreateEvent("user.registered", "info", "New account registered: "+user.Username, &user.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// Login handles user authentication and JWT generation.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload AuthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.Authenticate(payload.Username, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrAuthenticationFailed) {
			// Unknown user and wrong password get the same answer.
			log.Warn().Str("username", payload.Username).Msg("Failed authentication attempt")
			http.Error(w, "Invalid username or password", http.StatusUnauthorized)
			return
		}
		log.Error().Err(err).Str("username", payload.Username).Msg("Authentication lookup failed")
		http.Error(w, "Login failed", http.StatusInternalServerError)
		return
	}

	token, err := auth.GenerateJWT(user, h.jwtSecret)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to generate JWT")
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	h.eventSvc.CreateEvent("user.login", "info", "User logged in: "+user.Username, &user.ID)

	// Set Secure flag based on environment.
	isProd := os.Getenv("APP_ENV") == "production"

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   isProd,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// GetMe retrieves the currently authenticated user from the token.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(auth.UserClaimsKey).(*auth.Claims)
	if !ok {
		log.Error().Msg("Could not retrieve user claims from context")
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	user, err := h.service.GetUserByID(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("User from token not found in DB")
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
