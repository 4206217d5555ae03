package services

import (
	"context"
	"errors"
	"time"

	"go-storefront/models"
	"go-storefront/repository"
	"go-storefront/utils"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// AccountService handles registration, login, profile management and admin
// grants.
type AccountService struct {
	users      repository.UserRepository
	tokens     *utils.TokenService
	bcryptCost int
	log        *logrus.Logger
}

func NewAccountService(users repository.UserRepository, tokens *utils.TokenService, bcryptCost int, log *logrus.Logger) *AccountService {
	return &AccountService{users: users, tokens: tokens, bcryptCost: bcryptCost, log: log}
}

// RegisterInput is the validated registration payload.
type RegisterInput struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	MobileNo  string `json:"mobile_no" validate:"required"`
	Address   struct {
		Street   string `json:"street" validate:"required"`
		City     string `json:"city" validate:"required"`
		Province string `json:"province" validate:"required"`
		ZipCode  string `json:"zipcode" validate:"required"`
		Country  string `json:"country"`
	} `json:"address"`
}

// UpdateDetailsInput carries the profile fields a user may change.
type UpdateDetailsInput struct {
	FirstName *string         `json:"first_name"`
	LastName  *string         `json:"last_name"`
	MobileNo  *string         `json:"mobile_no"`
	Address   *models.Address `json:"address"`
}

// Register creates a new non-admin account with a hashed password.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	count, err := s.users.CountByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, E(KindConflict, "Email is already registered please log in instead")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Password:  string(hashed),
		MobileNo:  input.MobileNo,
		IsAdmin:   false,
		CreatedOn: time.Now(),
		Address: models.Address{
			Street:   input.Address.Street,
			City:     input.Address.City,
			Province: input.Address.Province,
			ZipCode:  input.Address.ZipCode,
			Country:  input.Address.Country,
		},
		Orders:          []models.CartOrder{},
		CheckOutDetails: []models.CheckoutRecord{},
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, err
	}
	s.log.WithField("email", user.Email).Info("user registered")
	return user, nil
}

// Login checks credentials and mints a session token.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", E(KindNotFound, "User not found")
	}
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", E(KindValidation, "Password incorrect")
	}

	return s.tokens.Generate(user.FullName(), user.ID.Hex(), user.Email, user.IsAdmin)
}

// Profile returns the caller's account with the password stripped.
func (s *AccountService) Profile(ctx context.Context, claims *utils.Claims) (*models.User, error) {
	if claims == nil {
		return nil, E(KindUnauthorized, "Please log in first")
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, E(KindUnauthorized, "Invalid token")
	}
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, E(KindNotFound, "User not found")
	}
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// UpdateDetails changes the caller's own profile fields.
func (s *AccountService) UpdateDetails(ctx context.Context, claims *utils.Claims, input UpdateDetailsInput) error {
	if claims == nil {
		return E(KindUnauthorized, "Please log in first")
	}
	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return E(KindUnauthorized, "Invalid token")
	}

	fields := bson.M{}
	if input.FirstName != nil {
		fields["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		fields["last_name"] = *input.LastName
	}
	if input.MobileNo != nil {
		fields["mobile_no"] = *input.MobileNo
	}
	if input.Address != nil {
		fields["address"] = *input.Address
	}
	if len(fields) == 0 {
		return E(KindValidation, "No valid field to update")
	}

	matched, err := s.users.UpdateDetails(ctx, userID, fields)
	if err != nil {
		return err
	}
	if !matched {
		return E(KindNotFound, "User not found")
	}
	return nil
}

// GrantAdmin promotes another user. Only an existing admin may do this, and
// promoting an admin again is rejected.
func (s *AccountService) GrantAdmin(ctx context.Context, claims *utils.Claims, targetID primitive.ObjectID) (string, error) {
	if claims == nil {
		return "", E(KindUnauthorized, "Please log in first")
	}
	if !claims.IsAdmin {
		return "", E(KindForbidden, "Current user is not authorized")
	}

	user, err := s.users.FindByID(ctx, targetID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", E(KindNotFound, "User not found in the database")
	}
	if err != nil {
		return "", err
	}
	if user.IsAdmin {
		return "", E(KindAlreadyInState, "%s is currently an admin", user.FirstName)
	}

	if err := s.users.SetAdmin(ctx, targetID); err != nil {
		return "", err
	}
	s.log.WithField("user", user.Email).Info("admin granted")
	return user.FirstName, nil
}
