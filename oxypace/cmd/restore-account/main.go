// Command restore-account undoes the soft delete of an account.
//
//	restore-account <email-or-username>
package main

import (
	"errors"

	"oxypace/oxypace/cmd/internal/cli"
	"oxypace/oxypace/services/bots"
	"oxypace/oxypace/utils/color"
)

func main() {
	identifier := cli.Arg("")
	if identifier == "" {
		cli.Fail(errors.New("usage: restore-account <email-or-username>"))
	}
	ctx, cancel := cli.Context()
	defer cancel()

	_, db := cli.Open(ctx)
	defer db.Close()

	user, err := bots.NewService(db.DB).Restore(ctx, identifier)
	if err != nil {
		cli.Fail(err)
	}
	color.Successf("Restored %s (%s)", user.Username, user.ID)
}
