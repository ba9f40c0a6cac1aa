package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

	"github.com/padraicbc/drivetrainer/models"
)

// Users is the credential store.
type Users struct {
	db bun.IDB
	settings

	// decoy is compared against when a nickname is unknown so both failure
	// paths of Authenticate cost one bcrypt comparison.
	decoy func() []byte
}

// NewUsers returns a credential store on db.
func NewUsers(db bun.IDB, opts ...Option) *Users {
	u := &Users{db: db, settings: newSettings(opts)}
	cost := u.bcryptCost
	u.decoy = sync.OnceValue(func() []byte {
		h, _ := bcrypt.GenerateFromPassword([]byte("decoy-password"), cost)
		return h
	})
	return u
}

// Register hashes password and stores a new user, returning its id.
func (u *Users) Register(ctx context.Context, nickname, password string) (int64, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" || password == "" {
		return 0, invalidInput("nickname and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return 0, invalidInput("password longer than 72 bytes")
		}
		return 0, fmt.Errorf("hashing password: %w", err)
	}

	ctx, cancel := u.bound(ctx)
	defer cancel()

	user := &models.User{Nickname: nickname, Password: string(hash)}
	if _, err := u.db.NewInsert().Model(user).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicateNickname
		}
		return 0, fmt.Errorf("inserting user: %w", err)
	}
	return user.ID, nil
}

// Authenticate returns the id of the user whose nickname and password match.
// An unknown nickname and a wrong password both yield ErrInvalidCredentials.
func (u *Users) Authenticate(ctx context.Context, nickname, password string) (int64, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" || password == "" {
		return 0, invalidInput("nickname and password are required")
	}

	ctx, cancel := u.bound(ctx)
	defer cancel()

	user := new(models.User)
	err := u.db.NewSelect().
		Model(user).
		Column("u.id", "u.password").
		Where("u.nickname = ?", nickname).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		_ = bcrypt.CompareHashAndPassword(u.decoy(), []byte(password))
		return 0, ErrInvalidCredentials
	}
	if err != nil {
		return 0, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return 0, ErrInvalidCredentials
	}
	return user.ID, nil
}
