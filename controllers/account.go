package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"
	"storefront/utils"
)

// AccountController handles registration, login and profile requests.
type AccountController struct {
	Auth  *services.AuthService
	Email *utils.EmailService
}

func NewAccountController(auth *services.AuthService, email *utils.EmailService) *AccountController {
	return &AccountController{Auth: auth, Email: email}
}

// Register handles sign-up. The role field is stored as requested; see the
// design notes on self-requested roles.
func (ac *AccountController) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string      `json:"email"`
		Password string      `json:"password"`
		Name     string      `json:"name"`
		Role     models.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	user, err := ac.Auth.SignUp(ctx, req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	if ac.Email != nil {
		go func(email, name string) {
			if err := ac.Email.SendWelcomeEmail(email, name); err != nil {
				logrus.WithError(err).Warnf("failed to send welcome email to %s", email)
			}
		}(user.Email, user.DisplayName)
	}

	writeJSON(w, http.StatusCreated, user)
}

// Login authenticates credentials and returns a JWT.
func (ac *AccountController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	user, err := ac.Auth.SignIn(ctx, creds.Email, creds.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetProfile returns the authenticated caller's profile.
func (ac *AccountController) GetProfile(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())
	if !session.Authenticated() {
		writeError(w, services.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, session.User)
}

// UpdateDisplayName changes the caller's own display name.
func (ac *AccountController) UpdateDisplayName(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	if err := ac.Auth.UpdateDisplayName(ctx, session, req.Name); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "display name updated"})
}
