package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go-storefront/middleware"
	"go-storefront/services"
	"go-storefront/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserController handles account-related requests
type UserController struct {
	Accounts     *services.AccountService
	EmailService *utils.EmailService
}

// NewUserController creates a new UserController
func NewUserController(accounts *services.AccountService, emailService *utils.EmailService) *UserController {
	return &UserController{
		Accounts:     accounts,
		EmailService: emailService,
	}
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := utils.Validate.Struct(input); err != nil {
		writeMessage(w, http.StatusBadRequest, utils.ValidationMessage(err))
		return
	}

	user, err := uc.Accounts.Register(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	go uc.EmailService.SendWelcomeEmail(user.Email, user.FirstName)

	writeMessage(w, http.StatusCreated, "User created successfully")
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := utils.Validate.Struct(creds); err != nil {
		writeMessage(w, http.StatusBadRequest, utils.ValidationMessage(err))
		return
	}

	token, err := uc.Accounts.Login(r.Context(), creds.Email, creds.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"token": token})
}

// Me returns the authenticated user's profile
func (uc *UserController) Me(w http.ResponseWriter, r *http.Request) {
	user, err := uc.Accounts.Profile(r.Context(), middleware.ClaimsFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// UpdateMe updates the authenticated user's details
func (uc *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var input services.UpdateDetailsInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := uc.Accounts.UpdateDetails(r.Context(), middleware.ClaimsFrom(r), input); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "Details updated successfully")
}

// GrantAdmin promotes a user to admin
func (uc *UserController) GrantAdmin(w http.ResponseWriter, r *http.Request) {
	targetID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	firstName, err := uc.Accounts.GrantAdmin(r.Context(), middleware.ClaimsFrom(r), targetID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, fmt.Sprintf("%s is now an admin", firstName))
}
