package models

import "github.com/uptrace/bun"

// User is a trainee account. Password holds the bcrypt hash and is never serialised.
type User struct {
	bun.BaseModel `bun:"table:usuarios,alias:u"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	Nickname string `bun:"nickname,notnull,unique" json:"nickname"`
	Password string `bun:"password,notnull" json:"-"`
}
