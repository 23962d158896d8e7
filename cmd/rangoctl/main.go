// Command rangoctl administers a Rango database: it applies migrations,
// loads the sample directory and creates accounts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"go-rango-app/internal/config"
	"go-rango-app/internal/data"
	"go-rango-app/internal/logger"
	"go-rango-app/internal/service"
	"os"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nCommands:\n")
	fmt.Fprintf(os.Stderr, "  migrate     apply database migrations\n")
	fmt.Fprintf(os.Stderr, "  populate    load the sample categories and pages\n")
	fmt.Fprintf(os.Stderr, "  createuser  create an account, reading the password from the terminal\n")
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  %s populate\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s createuser -username admin -email admin@example.com\n", os.Args[0])
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log, os.Stderr)

	db, err := data.NewDB(cfg.DB.URL)
	if err != nil {
		log.Fatal(err, "Failed to connect to database")
	}
	defer db.Close()

	// Every command needs an up-to-date schema.
	if err := data.ApplyMigrations(db); err != nil {
		log.Fatal(err, "Failed to apply migrations")
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "migrate":
		log.Info("Migrations applied successfully.")

	case "populate":
		if err := populate(ctx, data.NewCategoryRepository(db), data.NewSQLPageRepository(db), log); err != nil {
			log.Fatal(err, "Failed to populate database")
		}

	case "createuser":
		if err := createUser(ctx, db, os.Args[2:], log); err != nil {
			log.Fatal(err, "Failed to create user")
		}

	default:
		usage()
		os.Exit(2)
	}
}

func createUser(ctx context.Context, db *sqlx.DB, args []string, log logger.Logger) error {
	fs := flag.NewFlagSet("createuser", flag.ExitOnError)
	username := fs.String("username", "", "Username of the new account")
	email := fs.String("email", "", "Email address of the new account")
	inactive := fs.Bool("inactive", false, "Create the account disabled")
	fs.Parse(args)

	if *username == "" {
		return errors.New("username is required")
	}

	fmt.Print("Enter password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	fmt.Println()

	fmt.Print("Confirm password: ")
	confirmPassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return fmt.Errorf("failed to read password confirmation: %w", err)
	}
	fmt.Println()

	if string(password) != string(confirmPassword) {
		return errors.New("passwords do not match")
	}

	// Profile pictures are never stored from the command line.
	accounts := service.NewAccountService(data.NewUserRepository(db), nil, 0)
	user, err := accounts.CreateUser(ctx, *username, *email, string(password), !*inactive)
	if err != nil {
		return err
	}
	log.With(map[string]interface{}{"username": user.Username, "active": user.IsActive}).Info("User created")
	return nil
}
