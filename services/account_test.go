package services

import (
	"context"
	"testing"

	"go-storefront/models"
	"go-storefront/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func newAccountFixture(t *testing.T) (*AccountService, *fakeUserRepo, *utils.TokenService) {
	t.Helper()
	users := newFakeUserRepo()
	tokens := utils.NewTokenService([]byte("test-secret"))
	return NewAccountService(users, tokens, bcrypt.MinCost, testLogger()), users, tokens
}

func registerInput(email string) RegisterInput {
	input := RegisterInput{
		FirstName: "Jamie",
		LastName:  "Cruz",
		Email:     email,
		Password:  "correct horse battery",
		MobileNo:  "09171234567",
	}
	input.Address.Street = "1 Main St"
	input.Address.City = "Quezon City"
	input.Address.Province = "Metro Manila"
	input.Address.ZipCode = "1100"
	return input
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, _, _ := newAccountFixture(t)

	user, err := svc.Register(context.Background(), registerInput("jamie@example.com"))
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("correct horse battery")))
	assert.False(t, user.IsAdmin)
	assert.Empty(t, user.Orders)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAccountFixture(t)

	_, err := svc.Register(context.Background(), registerInput("jamie@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerInput("jamie@example.com"))
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Contains(t, err.Error(), "already registered")
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _, tokens := newAccountFixture(t)

	user, err := svc.Register(context.Background(), registerInput("jamie@example.com"))
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "jamie@example.com", "correct horse battery")
	require.NoError(t, err)

	claims, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "Jamie Cruz", claims.FullName)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, "jamie@example.com", claims.Email)
	assert.False(t, claims.IsAdmin)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newAccountFixture(t)

	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAccountFixture(t)

	_, err := svc.Register(context.Background(), registerInput("jamie@example.com"))
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "jamie@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Contains(t, err.Error(), "Password incorrect")
}

func TestProfileStripsPassword(t *testing.T) {
	svc, users, _ := newAccountFixture(t)
	userID := users.add(models.User{FirstName: "Jamie", Email: "jamie@example.com", Password: "hashed"})

	user, err := svc.Profile(context.Background(), shopperClaims(userID))
	require.NoError(t, err)
	assert.Empty(t, user.Password)
	assert.Equal(t, "Jamie", user.FirstName)
}

func TestUpdateDetails(t *testing.T) {
	svc, users, _ := newAccountFixture(t)
	userID := users.add(models.User{FirstName: "Jamie", LastName: "Cruz", MobileNo: "0917"})

	mobile := "0999"
	err := svc.UpdateDetails(context.Background(), shopperClaims(userID), UpdateDetailsInput{MobileNo: &mobile})
	require.NoError(t, err)

	got := users.get(userID)
	assert.Equal(t, "0999", got.MobileNo)
	assert.Equal(t, "Jamie", got.FirstName)

	err = svc.UpdateDetails(context.Background(), shopperClaims(userID), UpdateDetailsInput{})
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestGrantAdmin(t *testing.T) {
	svc, users, _ := newAccountFixture(t)
	targetID := users.add(models.User{FirstName: "Jamie", Email: "jamie@example.com"})

	_, err := svc.GrantAdmin(context.Background(), shopperClaims(primitive.NewObjectID()), targetID)
	assert.Equal(t, KindForbidden, KindOf(err))

	firstName, err := svc.GrantAdmin(context.Background(), adminClaims(primitive.NewObjectID()), targetID)
	require.NoError(t, err)
	assert.Equal(t, "Jamie", firstName)
	assert.True(t, users.get(targetID).IsAdmin)

	_, err = svc.GrantAdmin(context.Background(), adminClaims(primitive.NewObjectID()), targetID)
	require.Error(t, err)
	assert.Equal(t, KindAlreadyInState, KindOf(err))
	assert.Contains(t, err.Error(), "currently an admin")
}

func TestGrantAdminUnknownUser(t *testing.T) {
	svc, _, _ := newAccountFixture(t)

	_, err := svc.GrantAdmin(context.Background(), adminClaims(primitive.NewObjectID()), primitive.NewObjectID())
	assert.Equal(t, KindNotFound, KindOf(err))
}
