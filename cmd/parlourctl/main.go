package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"parlour-attendance/config"
	"parlour-attendance/pkg/paseto"
	util "parlour-attendance/pkg/utils"
	"parlour-attendance/repository"
	"parlour-attendance/seeder"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "parlourctl",
		Usage: "operator tasks for the parlour attendance API",
		Commands: []*cli.Command{
			genKeyCommand(),
			tokenCommand(),
			seedCommand(),
		},
	}
}

func genKeyCommand() *cli.Command {
	return &cli.Command{
		Name:  "genkey",
		Usage: "print a random base64 PASETO_SECRET",
		Action: func(c *cli.Context) error {
			key, err := util.GenerateBase64Key(util.PasetoKeySize)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, key)
			return nil
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "mint a bearer token for an existing user",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Usage: "user email", Required: true},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime (defaults to TOKEN_TTL)"},
		},
		Action: func(c *cli.Context) error {
			cfg := connect()
			defer config.DisconnectDB()

			ttl := cfg.TokenTTL
			if c.IsSet("ttl") {
				ttl = c.Duration("ttl")
			}
			maker, err := paseto.NewPasetoMaker(cfg.PASETO_SECRET, ttl)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
			defer cancel()

			email := strings.ToLower(strings.TrimSpace(c.String("email")))
			user, err := repository.NewUserRepository(config.GetDatabase()).FindUserByEmail(ctx, email)
			if err != nil {
				return err
			}
			if user == nil {
				return cli.Exit(fmt.Sprintf("no user with email %s", email), 1)
			}

			token, err := maker.GenerateToken(user)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "create the default users and demo employees",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "employees", Usage: "number of demo employees", Value: 10},
		},
		Action: func(c *cli.Context) error {
			connect()
			defer config.DisconnectDB()
			config.InitDatabase()

			ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
			defer cancel()

			db := config.GetDatabase()
			if err := seeder.SeedUsers(ctx, repository.NewUserRepository(db)); err != nil {
				return err
			}
			return seeder.SeedEmployees(ctx, repository.NewEmployeeRepository(db), c.Int("employees"))
		},
	}
}

func connect() *config.AppConfig {
	cfg := config.LoadConfig()
	config.DBName = cfg.DBName
	config.MongoConnect(cfg.MONGOSTRING)
	return cfg
}
