package store_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/drivetrainer/db/dbtest"
	"github.com/padraicbc/drivetrainer/models"
	"github.com/padraicbc/drivetrainer/store"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	users := store.NewUsers(dbtest.New(t))
	ctx := context.Background()

	id, err := users.Register(ctx, "juan123", "mipassword")
	require.NoError(t, err)
	assert.Positive(t, id)

	got, err := users.Authenticate(ctx, "juan123", "mipassword")
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestRegisterStoresHashNotPassword(t *testing.T) {
	bdb := dbtest.New(t)
	users := store.NewUsers(bdb)
	ctx := context.Background()

	id, err := users.Register(ctx, "ana", "secreto")
	require.NoError(t, err)

	var u models.User
	require.NoError(t, bdb.NewSelect().Model(&u).Where("u.id = ?", id).Scan(ctx))
	assert.NotEqual(t, "secreto", u.Password)
	assert.True(t, strings.HasPrefix(u.Password, "$2a$10$"), "bcrypt hash with cost 10, got %q", u.Password)
}

func TestRegisterDuplicateNickname(t *testing.T) {
	users := store.NewUsers(dbtest.New(t))
	ctx := context.Background()

	_, err := users.Register(ctx, "juan123", "mipassword")
	require.NoError(t, err)

	_, err = users.Register(ctx, "juan123", "otra")
	assert.ErrorIs(t, err, store.ErrDuplicateNickname)
}

func TestRegisterInvalidInput(t *testing.T) {
	users := store.NewUsers(dbtest.New(t))
	ctx := context.Background()

	tests := []struct {
		name     string
		nickname string
		password string
	}{
		{"empty nickname", "", "pw"},
		{"blank nickname", "   ", "pw"},
		{"empty password", "nick", ""},
		{"password too long", "nick", strings.Repeat("x", 73)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := users.Register(ctx, tt.nickname, tt.password)
			assert.ErrorIs(t, err, store.ErrInvalidInput)
		})
	}
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	users := store.NewUsers(dbtest.New(t))
	ctx := context.Background()

	_, err := users.Register(ctx, "juan123", "mipassword")
	require.NoError(t, err)

	_, wrongPassword := users.Authenticate(ctx, "juan123", "incorrecta")
	_, unknownUser := users.Authenticate(ctx, "nadie", "mipassword")

	assert.ErrorIs(t, wrongPassword, store.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, store.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestAuthenticateMissingFields(t *testing.T) {
	users := store.NewUsers(dbtest.New(t))

	_, err := users.Authenticate(context.Background(), "", "pw")
	assert.ErrorIs(t, err, store.ErrInvalidInput)
}
