package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/todolists/internal/admin"
	"github.com/dmitrijs2005/todolists/internal/flagx"
	"github.com/dmitrijs2005/todolists/internal/server/config"
	"github.com/dmitrijs2005/todolists/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/todolists/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	args := flagx.Positional(os.Args[1:], config.ValueFlags)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	users := services.NewUserService(db, rm, cfg)
	app := admin.NewApp(users, func(ctx context.Context) error {
		return rm.RunMigrations(ctx, db)
	}, os.Stdout)

	if err := app.Run(ctx, args); err != nil {
		if errors.Is(err, admin.ErrUsage) {
			fmt.Fprintln(os.Stderr, err)
			db.Close()
			os.Exit(2)
		}
		log.Printf("%v", err)
		db.Close()
		os.Exit(1)
	}

}
