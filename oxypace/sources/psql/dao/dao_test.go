package dao

import (
	"context"
	"errors"
	"testing"
	"time"

	"oxypace/oxypace/sources/psql/models"
	"oxypace/oxypace/sources/psql/psqltest"
	"oxypace/oxypace/utils/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, Email: username + "@oxypace.test", PasswordHash: "x"}
	require.NoError(t, NewUserDAO(db).CreateUser(context.Background(), u))
	return u
}

func TestUserDAOLookups(t *testing.T) {
	db := psqltest.NewDB(t)
	users := NewUserDAO(db)
	ctx := context.Background()

	u := &models.User{Username: "Alice", Email: "  Alice@Example.COM ", PasswordHash: "hash"}
	require.NoError(t, users.CreateUser(ctx, u))
	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, models.RoleUser, u.Role)

	byName, err := users.GetUserByIdentifier(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, u.ID, byName.ID)

	byEmail, err := users.GetUserByIdentifier(ctx, "ALICE@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)

	missing, err := users.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserDAODuplicateIsConflict(t *testing.T) {
	db := psqltest.NewDB(t)
	users := NewUserDAO(db)
	ctx := context.Background()

	require.NoError(t, users.CreateUser(ctx, &models.User{Username: "alice", Email: "a@x.io", PasswordHash: "h"}))
	err := users.CreateUser(ctx, &models.User{Username: "alice2", Email: "a@x.io", PasswordHash: "h"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrConflict))
}

func TestUserDAOSoftDeleteAndRestore(t *testing.T) {
	db := psqltest.NewDB(t)
	users := NewUserDAO(db)
	ctx := context.Background()
	u := newUser(t, db, "carol")

	require.NoError(t, users.DeleteUser(ctx, u.ID))
	gone, err := users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	taken, err := users.EmailTaken(ctx, "carol@oxypace.test")
	require.NoError(t, err)
	assert.True(t, taken, "deleted accounts keep their email")

	restored, err := users.RestoreUser(ctx, "carol@oxypace.test")
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.False(t, restored.DeletedAt.Valid)

	back, err := users.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, back)

	none, err := users.RestoreUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestPostDAOListPopulatesAndPaginates(t *testing.T) {
	db := psqltest.NewDB(t)
	ctx := context.Background()
	posts := NewPostDAO(db)
	portals := NewPortalDAO(db)
	author := newUser(t, db, "dave")

	portal := &models.Portal{Slug: "Go", Name: "Go"}
	require.NoError(t, portals.CreatePortal(ctx, portal))
	assert.Equal(t, "go", portal.Slug)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		p := &models.Post{AuthorID: author.ID, Content: "post", CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if i%2 == 0 {
			p.PortalID = &portal.ID
		}
		require.NoError(t, posts.CreatePost(ctx, p))
	}

	all, err := posts.ListPosts(ctx, PostFilter{Limit: 3})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))
	require.NotNil(t, all[0].Author)
	assert.Equal(t, "dave", all[0].Author.Username)

	before := all[2].CreatedAt
	rest, err := posts.ListPosts(ctx, PostFilter{Before: &before})
	require.NoError(t, err)
	assert.Len(t, rest, 2)

	inPortal, err := posts.ListPosts(ctx, PostFilter{PortalID: &portal.ID})
	require.NoError(t, err)
	assert.Len(t, inPortal, 3)
	for _, p := range inPortal {
		require.NotNil(t, p.Portal)
		assert.Equal(t, "go", p.Portal.Slug)
	}
}

func TestAssignPortalToAuthorPostsOnlyTouchesAuthor(t *testing.T) {
	db := psqltest.NewDB(t)
	ctx := context.Background()
	posts := NewPostDAO(db)
	bot := newUser(t, db, "newsbot")
	human := newUser(t, db, "erin")
	portal := &models.Portal{Slug: "news", Name: "News", IsBotChannel: true}
	require.NoError(t, NewPortalDAO(db).CreatePortal(ctx, portal))

	for i := 0; i < 3; i++ {
		require.NoError(t, posts.CreatePost(ctx, &models.Post{AuthorID: bot.ID, Content: "headline"}))
	}
	require.NoError(t, posts.CreatePost(ctx, &models.Post{AuthorID: bot.ID, Content: "already", PortalID: &portal.ID}))
	require.NoError(t, posts.CreatePost(ctx, &models.Post{AuthorID: human.ID, Content: "mine"}))

	n, err := posts.AssignPortalToAuthorPosts(ctx, bot.ID, portal.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	humanPosts, err := posts.ListPosts(ctx, PostFilter{AuthorID: &human.ID})
	require.NoError(t, err)
	require.Len(t, humanPosts, 1)
	assert.Nil(t, humanPosts[0].PortalID)

	again, err := posts.AssignPortalToAuthorPosts(ctx, bot.ID, portal.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), again)
}

func TestDeletePostRemovesComments(t *testing.T) {
	db := psqltest.NewDB(t)
	ctx := context.Background()
	u := newUser(t, db, "frank")
	post := &models.Post{AuthorID: u.ID, Content: "hello"}
	require.NoError(t, NewPostDAO(db).CreatePost(ctx, post))
	comments := NewCommentDAO(db)
	require.NoError(t, comments.CreateComment(ctx, &models.Comment{PostID: post.ID, AuthorID: u.ID, Content: "first"}))

	require.NoError(t, NewPostDAO(db).DeletePost(ctx, post.ID))

	left, err := comments.ListCommentsByPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestMessageDAOThreadAndUnread(t *testing.T) {
	db := psqltest.NewDB(t)
	ctx := context.Background()
	msgs := NewMessageDAO(db)
	a := newUser(t, db, "alice")
	b := newUser(t, db, "bob")
	c := newUser(t, db, "carol")

	base := time.Now().UTC().Add(-time.Minute)
	require.NoError(t, msgs.CreateMessage(ctx, &models.Message{SenderID: a.ID, RecipientID: b.ID, Content: "hi", CreatedAt: base}))
	require.NoError(t, msgs.CreateMessage(ctx, &models.Message{SenderID: b.ID, RecipientID: a.ID, Content: "hey", CreatedAt: base.Add(time.Second)}))
	require.NoError(t, msgs.CreateMessage(ctx, &models.Message{SenderID: c.ID, RecipientID: b.ID, Content: "yo", CreatedAt: base.Add(2 * time.Second)}))

	thread, err := msgs.ListThread(ctx, a.ID, b.ID, 0)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "hi", thread[0].Content)
	assert.Equal(t, "hey", thread[1].Content)

	unread, err := msgs.CountUnread(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	marked, err := msgs.MarkThreadRead(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)

	unread, err = msgs.CountUnread(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)
}

func TestContactMessageDAOStatusFilter(t *testing.T) {
	db := psqltest.NewDB(t)
	ctx := context.Background()
	contacts := NewContactMessageDAO(db)
	u := newUser(t, db, "gina")

	first := &models.ContactMessage{UserID: u.ID, Subject: "bug", Message: "the feed does not load"}
	require.NoError(t, contacts.CreateContactMessage(ctx, first))
	assert.Equal(t, models.ContactStatusUnread, first.Status)
	require.NoError(t, contacts.CreateContactMessage(ctx, &models.ContactMessage{UserID: u.ID, Subject: "other", Message: "just saying hello"}))

	require.NoError(t, contacts.UpdateStatus(ctx, first.ID, models.ContactStatusArchived))

	unread, err := contacts.ListContactMessages(ctx, models.ContactStatusUnread)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "other", unread[0].Subject)
	require.NotNil(t, unread[0].User)

	got, err := contacts.GetContactMessageByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContactStatusArchived, got.Status)
}
