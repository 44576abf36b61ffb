// Package cli is the shared bootstrap of the maintenance commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"oxypace/oxypace/config"
	"oxypace/oxypace/sources/psql"
	"oxypace/oxypace/utils/color"
)

// Timeout bounds a whole maintenance run.
const Timeout = 5 * time.Minute

// Open loads configuration and connects to the database. It exits on failure.
func Open(ctx context.Context) (config.Config, *psql.Database) {
	cfg := config.LoadConfig()
	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		Fail(err)
	}
	return cfg, db
}

// Arg returns the first positional argument or fallback.
func Arg(fallback string) string {
	if len(os.Args) > 1 && os.Args[1] != "" {
		return os.Args[1]
	}
	return fallback
}

// Fail prints err and exits with status 1.
func Fail(err error) {
	color.Errorf("error: %v", err)
	os.Exit(1)
}

func Header(title string) {
	fmt.Println(color.ColorHeader(title))
	fmt.Println()
}

// Context returns the bounded context maintenance runs use.
func Context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), Timeout)
}
