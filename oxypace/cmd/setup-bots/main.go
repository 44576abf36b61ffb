// Command setup-bots creates the bot accounts and their portals.
//
//	setup-bots [bots.yaml]
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
	path := cli.Arg(cfg.BotsFile)
	defs, err := bots.LoadDefinitions(path)
	if err != nil {
		cli.Fail(err)
	}

	cli.Header(fmt.Sprintf("Setting up %d bots from %s", len(defs), path))
	results, err := bots.NewService(db.DB).Setup(ctx, defs)
	created, skipped, conflicts := 0, 0, 0
	for _, res := range results {
		portal := "existing portal"
		if res.PortalCreated {
			portal = "new portal"
		}
		if res.Conflict {
			conflicts++
			color.Errorf("  conflict %-20s %s", res.Username, res.Reason)
			continue
		}
		if res.Skipped {
			skipped++
			color.Skipf("  skipped  %-20s %s (%s /%s)", res.Username, res.Reason, portal, res.PortalSlug)
			continue
		}
		created++
		color.Infof("  created  %-20s (%s /%s)", res.Username, portal, res.PortalSlug)
	}
	if err != nil {
		cli.Fail(err)
	}
	fmt.Println()
	if conflicts > 0 {
		cli.Fail(fmt.Errorf("%d bot portal(s) clash with regular portals", conflicts))
	}
	color.Successf("Done: %d created, %d skipped", created, skipped)
}
