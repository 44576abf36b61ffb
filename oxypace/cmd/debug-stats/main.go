// Command debug-stats prints record counts and the newest posts.
package main

import (
	"fmt"

	"oxypace/oxypace/cmd/internal/cli"
	"oxypace/oxypace/sources/psql/dao"
	"oxypace/oxypace/utils/color"
	"oxypace/oxypace/utils/jsonutils"
)

type stats struct {
	Users    int64 `json:"users"`
	Bots     int   `json:"bots"`
	Portals  int   `json:"portals"`
	Posts    int64 `json:"posts"`
	Comments int64 `json:"comments"`
	Messages int64 `json:"messages"`
}

func main() {
	ctx, cancel := cli.Context()
	defer cancel()

	_, db := cli.Open(ctx)
	defer db.Close()

	users := dao.NewUserDAO(db.DB)
	posts := dao.NewPostDAO(db.DB)

	var s stats
	var err error
	if s.Users, err = users.CountUsers(ctx); err != nil {
		cli.Fail(err)
	}
	botList, err := users.ListBots(ctx)
	if err != nil {
		cli.Fail(err)
	}
	s.Bots = len(botList)
	portals, err := dao.NewPortalDAO(db.DB).ListPortals(ctx)
	if err != nil {
		cli.Fail(err)
	}
	s.Portals = len(portals)
	if s.Posts, err = posts.CountPosts(ctx); err != nil {
		cli.Fail(err)
	}
	if s.Comments, err = dao.NewCommentDAO(db.DB).CountComments(ctx); err != nil {
		cli.Fail(err)
	}
	if s.Messages, err = dao.NewMessageDAO(db.DB).CountMessages(ctx); err != nil {
		cli.Fail(err)
	}
	recent, err := posts.ListPosts(ctx, dao.PostFilter{Limit: 5})
	if err != nil {
		cli.Fail(err)
	}

	cli.Header("Counts")
	fmt.Println(jsonutils.ToJSON(s))
	fmt.Println()
	cli.Header("Recent posts")
	fmt.Println(jsonutils.ToJSON(recent))
	if len(recent) == 0 {
		color.Skipf("no posts yet")
	}
}
