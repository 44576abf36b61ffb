// Command migrate-bot-posts files existing bot posts under their portals.
//
//	migrate-bot-posts [bot-username]
package main

import (
	"fmt"

	"oxypace/oxypace/cmd/internal/cli"
	"oxypace/oxypace/services/bots"
	"oxypace/oxypace/utils/color"
)

func main() {
	ctx, cancel := cli.Context()
	defer cancel()

	cfg, db := cli.Open(ctx)
	defer db.Close()
	defs, err := bots.LoadDefinitions(cfg.BotsFile)
	if err != nil {
		cli.Fail(err)
	}

	username := cli.Arg("")
	if username == "" {
		cli.Header("Migrating posts for all bots")
	} else {
		cli.Header("Migrating posts for " + username)
	}
	results, err := bots.NewService(db.DB).MigratePosts(ctx, defs, username)
	var total int64
	for _, res := range results {
		total += res.Modified
		if res.Modified == 0 {
			color.Skipf("  %-20s -> /%s: nothing to update", res.Username, res.Portal)
			continue
		}
		color.Infof("  %-20s -> /%s: %d posts updated", res.Username, res.Portal, res.Modified)
	}
	if err != nil {
		cli.Fail(err)
	}
	fmt.Println()
	color.Successf("Modified %d posts", total)
}
