package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopapi/internal/domain"
	"shopapi/internal/repos"
	"shopapi/internal/services"
	"shopapi/internal/validate"
)

func TestAuth_SignupLoginAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := services.NewAuthService(f.users, "test-secret", time.Hour)

	tok, u, err := auth.Signup(ctx, services.SignupInput{Name: "Carol", Email: " Carol@Shop.Test ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "carol@shop.test", u.Email)
	assert.Equal(t, domain.RoleCustomer, u.Role)
	assert.NotEmpty(t, tok)

	id, err := auth.Authenticate(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.ID)
	assert.Equal(t, domain.RoleCustomer, id.Role)

	_, _, err = auth.Signup(ctx, services.SignupInput{Name: "Carol", Email: "CAROL@shop.test", Password: "secret1"})
	require.ErrorIs(t, err, repos.ErrDuplicate)

	_, logged, err := auth.Login(ctx, "CAROL@SHOP.TEST", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	_, _, err = auth.Login(ctx, "carol@shop.test", "wrong")
	require.ErrorIs(t, err, services.ErrBadCreds)
	_, _, err = auth.Login(ctx, "nobody@shop.test", "secret1")
	require.ErrorIs(t, err, services.ErrBadCreds)
}

func TestAuth_SignupValidation(t *testing.T) {
	f := newFixture(t)
	auth := services.NewAuthService(f.users, "test-secret", time.Hour)
	var ve *validate.Error

	_, _, err := auth.Signup(context.Background(), services.SignupInput{Name: "Al", Email: "al@shop.test", Password: "secret1"})
	require.ErrorAs(t, err, &ve)
	_, _, err = auth.Signup(context.Background(), services.SignupInput{Name: "Alan", Email: "not-an-email", Password: "secret1"})
	require.ErrorAs(t, err, &ve)
	_, _, err = auth.Signup(context.Background(), services.SignupInput{Name: "Alan", Email: "al@shop.test", Password: "123"})
	require.ErrorAs(t, err, &ve)
}

func TestAuth_RejectsBadTokens(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	auth := services.NewAuthService(f.users, "test-secret", time.Hour)
	u := &domain.User{ID: f.user(t, "u1"), Email: "u1@shop.test", Role: domain.RoleCustomer}

	other := services.NewAuthService(f.users, "other-secret", time.Hour)
	forged, err := other.Issue(u)
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, forged)
	require.ErrorIs(t, err, services.ErrUnauthenticated)

	expired := services.NewAuthService(f.users, "test-secret", time.Nanosecond)
	old, err := expired.Issue(u)
	require.NoError(t, err)
	time.Sleep(time.Second)
	_, err = auth.Authenticate(ctx, old)
	require.ErrorIs(t, err, services.ErrUnauthenticated)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, services.Claims{UserID: u.ID, Role: domain.RoleAdmin}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, none)
	require.ErrorIs(t, err, services.ErrUnauthenticated)

	ghost, err := auth.Issue(&domain.User{ID: "deleted", Role: domain.RoleAdmin})
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, ghost)
	require.ErrorIs(t, err, services.ErrUnauthenticated)

	_, err = auth.Authenticate(ctx, "garbage")
	require.ErrorIs(t, err, services.ErrUnauthenticated)
}
