package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/anonto42/nano-social/backend/internal/identity"
)

// tokenCommand issues HS256 credentials for AUTH_MODE=jwt deployments.
func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:      "token",
		Usage:     "Issue a development bearer token for a user id",
		ArgsUsage: "<user-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "secret",
				Sources:  cli.EnvVars("JWT_SECRET"),
				Usage:    "HS256 signing secret",
				Required: true,
			},
			&cli.DurationFlag{
				Name:  "ttl",
				Value: 24 * time.Hour,
				Usage: "Token lifetime",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			userID := cmd.Args().First()
			if userID == "" {
				return errors.New("a user id is required")
			}
			verifier, err := identity.NewJWTVerifier(cmd.String("secret"))
			if err != nil {
				return err
			}
			token, err := verifier.Issue(userID, cmd.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}
}
