// Package store persists trainee accounts, race attempts and race error
// events. Every call runs on a connection borrowed from the shared *bun.DB
// and bounded by the configured statement timeout.
package store

import (
	"context"
	"time"

	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

// Option configures the stores.
type Option func(*settings)

type settings struct {
	timeout    time.Duration
	bcryptCost int
	now        func() time.Time
}

func newSettings(opts []Option) settings {
	s := settings{
		timeout:    10 * time.Second,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithStatementTimeout bounds every store call. Zero disables the bound.
func WithStatementTimeout(d time.Duration) Option {
	return func(s *settings) { s.timeout = d }
}

// WithBcryptCost sets the password hashing work factor. Values below
// bcrypt.DefaultCost are ignored.
func WithBcryptCost(cost int) Option {
	return func(s *settings) {
		if cost >= bcrypt.DefaultCost && cost <= bcrypt.MaxCost {
			s.bcryptCost = cost
		}
	}
}

// WithClock replaces the clock used to stamp new races.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

func (s settings) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Stores groups the three stores sharing one database handle.
type Stores struct {
	Users      *Users
	Races      *Races
	RaceErrors *RaceErrors
}

// New builds all stores on db.
func New(db bun.IDB, opts ...Option) Stores {
	return Stores{
		Users:      NewUsers(db, opts...),
		Races:      NewRaces(db, opts...),
		RaceErrors: NewRaceErrors(db, opts...),
	}
}
