// cmd/adduser/main.go
// Registers a trainee account in the configured database.
//
// Usage:
//
//	go run ./cmd/adduser -nickname juan123 -password mipassword
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/padraicbc/drivetrainer/config"
	"github.com/padraicbc/drivetrainer/db"
	"github.com/padraicbc/drivetrainer/store"
)

func main() {
	nickname := flag.String("nickname", "", "nickname (required)")
	password := flag.String("password", "", "plain-text password (required)")
	flag.Parse()

	if *nickname == "" || *password == "" {
		log.Fatal("both -nickname and -password are required")
	}

	cfg := config.Load()
	bdb, err := db.Setup(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer bdb.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx, bdb); err != nil {
		log.Fatal(err)
	}

	users := store.NewUsers(bdb,
		store.WithStatementTimeout(cfg.DBStatementTimeout),
		store.WithBcryptCost(cfg.BcryptCost),
	)
	id, err := users.Register(ctx, *nickname, *password)
	switch {
	case errors.Is(err, store.ErrDuplicateNickname):
		log.Fatalf("nickname %q already exists", *nickname)
	case err != nil:
		log.Fatal("register:", err)
	}

	fmt.Printf("user %q saved with id %d\n", *nickname, id)
}
