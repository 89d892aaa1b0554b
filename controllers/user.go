package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/middleware"
	"storefront/models"
	"storefront/services"
)

// UserController handles user administration: listing, role changes, admin
// transfer and account deletion.
type UserController struct {
	Users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{Users: users}
}

// GetUsers lists every account, managers only.
func (uc *UserController) GetUsers(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	ctx, cancel := requestContext(r)
	defer cancel()
	users, err := uc.Users.List(ctx, session)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// ChangeRole promotes or demotes an account.
func (uc *UserController) ChangeRole(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	targetID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Role models.Role `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	if err := uc.Users.ChangeRole(ctx, session, targetID, req.Role); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "role updated"})
}

// SetAdmin grants or revokes the admin flag.
func (uc *UserController) SetAdmin(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	targetID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var req struct {
		IsAdmin bool `json:"is_admin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	if err := uc.Users.SetAdmin(ctx, session, targetID, req.IsAdmin); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "admin status updated"})
}

// DeleteUser removes an account.
func (uc *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	targetID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	if err := uc.Users.Delete(ctx, session, targetID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

// SetupAdmin bootstraps or reassigns the admin manager.
func (uc *UserController) SetupAdmin(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFromContext(r.Context())

	targetID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := requestContext(r)
	defer cancel()
	if err := uc.Users.SetupAdmin(ctx, session, targetID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "admin manager set"})
}
