// Command verify-bots reports whether each bot is fully provisioned.
//
//	verify-bots [bots.yaml]
package main

import (
	"fmt"
	"os"

	"oxypace/oxypace/cmd/internal/cli"
	"oxypace/oxypace/services/bots"
	"oxypace/oxypace/utils/color"
)

func main() {
	ctx, cancel := cli.Context()
	defer cancel()

	cfg, db := cli.Open(ctx)
	defer db.Close()
	defs, err := bots.LoadDefinitions(cli.Arg(cfg.BotsFile))
	if err != nil {
		cli.Fail(err)
	}

	reports, err := bots.NewService(db.DB).Verify(ctx, defs)
	if err != nil {
		cli.Fail(err)
	}

	cli.Header("Bot verification")
	fmt.Printf("  %-20s %-8s %-9s %-5s %-7s %-12s %s\n", "USERNAME", "ACCOUNT", "VERIFIED", "BOT", "PORTAL", "BOT CHANNEL", "POSTS")
	failing := 0
	for _, rep := range reports {
		fmt.Printf("  %-20s %-8s %-9s %-5s %-7s %-12s %d\n",
			rep.Username,
			color.Status(rep.AccountExists),
			color.Status(rep.Verified),
			color.Status(rep.IsBot),
			color.Status(rep.PortalExists),
			color.Status(rep.BotChannel),
			rep.Posts,
		)
		if !rep.OK() {
			failing++
		}
	}
	fmt.Println()
	if failing > 0 {
		fmt.Println(color.ColorWarning(fmt.Sprintf("%d of %d bots need attention; run setup-bots", failing, len(reports))))
		os.Exit(1)
	}
	color.Successf("All %d bots are provisioned", len(reports))
}
