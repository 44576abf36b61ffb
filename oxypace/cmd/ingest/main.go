// Command ingest runs bot ingestion once.
//
//	ingest [bot-username]
package main

import (
	"fmt"

	"oxypace/oxypace/cmd/internal/cli"
	"oxypace/oxypace/services/bots"
	"oxypace/oxypace/services/ingest"
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
	if username := cli.Arg(""); username != "" {
		def, ok := bots.Find(defs, username)
		if !ok {
			cli.Fail(fmt.Errorf("no bot definition for %s", username))
		}
		defs = []bots.Definition{def}
	}

	cli.Header("Ingesting bot sources")
	failed := 0
	for _, res := range ingest.NewIngester(db.DB, nil, nil).RunAll(ctx, defs) {
		if res.Err != nil {
			failed++
			color.Errorf("  %-20s %v", res.Username, res.Err)
			continue
		}
		color.Infof("  %-20s found %d, created %d, skipped %d", res.Username, res.Found, res.Created, res.Skipped)
	}
	if failed > 0 {
		cli.Fail(fmt.Errorf("%d bots failed", failed))
	}
	color.Successf("Done")
}
