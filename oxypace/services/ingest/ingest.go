// Package ingest turns items on a bot's source page into posts in its portal.
package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"oxypace/oxypace/services/bots"
	"oxypace/oxypace/sources/psql/dao"
	"oxypace/oxypace/sources/psql/models"
	"oxypace/oxypace/types"
	httputils "oxypace/oxypace/utils/http"
	"oxypace/oxypace/utils/linkify"
	"oxypace/oxypace/utils/logging"
	"oxypace/oxypace/utils/metrics"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"gorm.io/gorm"
)

const maxContentChars = 5000

// Item is one entry scraped from a source page.
type Item struct {
	Title    string
	Link     string
	ImageURL string
}

// Publisher is notified of each created post. *realtime.Hub satisfies it.
type Publisher interface {
	Publish(eventType string, payload any)
}

type Ingester struct {
	users   *dao.UserDAO
	portals *dao.PortalDAO
	posts   *dao.PostDAO
	client  *http.Client
	events  Publisher
}

func NewIngester(db *gorm.DB, client *http.Client, events Publisher) *Ingester {
	return &Ingester{
		users:   dao.NewUserDAO(db),
		portals: dao.NewPortalDAO(db),
		posts:   dao.NewPostDAO(db),
		client:  client,
		events:  events,
	}
}

// Result summarises one bot's run.
type Result struct {
	Username string
	Found    int
	Created  int
	Skipped  int
	Err      error
}

// RunAll ingests every definition with a source, one after another. A failing
// bot is recorded in its result and does not stop the others.
func (in *Ingester) RunAll(ctx context.Context, defs []bots.Definition) []Result {
	results := make([]Result, 0, len(defs))
	for _, def := range defs {
		if !def.Ingestible() {
			continue
		}
		if ctx.Err() != nil {
			break
		}
		res, err := in.Run(ctx, def)
		if err != nil {
			res.Err = err
			logging.ErrorLogger.Error("ingest failed", zap.String("bot", def.Username), zap.Error(err))
		}
		results = append(results, res)
	}
	return results
}

// Run fetches one bot's source and creates a post for each unseen item.
func (in *Ingester) Run(ctx context.Context, def bots.Definition) (Result, error) {
	defer logging.LogDuration(ctx, "ingest:"+def.Username)()
	res := Result{Username: def.Username}

	author, err := in.users.GetUserByUsername(ctx, def.Username)
	if err != nil {
		return res, err
	}
	if author == nil {
		return res, fmt.Errorf("bot account %s not found; run setup-bots first", def.Username)
	}
	portal, err := in.portals.GetPortalBySlug(ctx, def.Portal.Slug)
	if err != nil {
		return res, err
	}
	if portal == nil {
		return res, fmt.Errorf("portal %s not found; run setup-bots first", def.Portal.Slug)
	}
	if !portal.IsBotChannel {
		return res, fmt.Errorf("portal %s is not a bot channel", def.Portal.Slug)
	}

	doc, err := httputils.FetchDocument(ctx, in.client, def.Source.URL)
	if err != nil {
		return res, err
	}
	items := ExtractItems(doc, def.Source)
	res.Found = len(items)

	for _, item := range items {
		exists, err := in.posts.ExistsBySourceURL(ctx, item.Link)
		if err != nil {
			return res, err
		}
		if exists {
			res.Skipped++
			continue
		}
		post := buildPost(author.ID, portal.ID, item)
		if err := in.posts.CreatePost(ctx, post); err != nil {
			return res, fmt.Errorf("create post for %s: %w", item.Link, err)
		}
		res.Created++
		if in.events != nil {
			post.Author = author
			post.Portal = portal
			in.events.Publish(types.EventPostCreated, post)
		}
	}

	metrics.RecordIngested(def.Username, res.Created)
	logging.AppLogger.Info("ingest finished",
		zap.String("bot", def.Username),
		zap.Int("found", res.Found),
		zap.Int("created", res.Created),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

func buildPost(authorID, portalID uuid.UUID, item Item) *models.Post {
	content := item.Title
	if runes := []rune(content); len(runes) > maxContentChars {
		content = string(runes[:maxContentChars])
	}
	post := &models.Post{
		AuthorID:  authorID,
		PortalID:  &portalID,
		Content:   content,
		SourceURL: item.Link,
	}
	if item.ImageURL != "" {
		kind, normalized := linkify.Classify(item.ImageURL)
		if kind == "" {
			kind = models.MediaTypeImage
		}
		post.MediaURL, post.MediaType = normalized, kind
	} else if kind, normalized := linkify.Classify(item.Link); kind == models.MediaTypeYouTube {
		post.MediaURL, post.MediaType = normalized, kind
	}
	return post
}

// ExtractItems applies the source selectors to doc. Items without a title or a
// link are dropped; relative links are resolved against the source URL.
func ExtractItems(doc *goquery.Document, src bots.SourceSpec) []Item {
	base, _ := url.Parse(src.URL)
	seen := map[string]bool{}
	var items []Item
	doc.Find(src.Item).EachWithBreak(func(i int, s *goquery.Selection) bool {
		if src.MaxItems > 0 && len(items) >= src.MaxItems {
			return false
		}
		titleSel := s
		if src.Title != "" {
			titleSel = s.Find(src.Title).First()
		}
		title := CleanText(titleSel)

		linkSel := s
		if src.Link != "" {
			linkSel = s.Find(src.Link).First()
		} else if !s.Is("a") {
			linkSel = s.Find("a[href]").First()
		}
		href, _ := linkSel.Attr("href")
		link := resolve(base, href)
		if title == "" || link == "" || seen[link] {
			return true
		}
		seen[link] = true

		item := Item{Title: title, Link: link}
		if src.Image != "" {
			img := s.Find(src.Image).First()
			raw, ok := img.Attr("src")
			if !ok {
				raw, _ = img.Attr("data-src")
			}
			item.ImageURL = resolve(base, raw)
		}
		items = append(items, item)
		return true
	})
	return items
}

func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	ref.Fragment = ""
	return ref.String()
}

// CleanText returns the visible text of the selection with whitespace
// collapsed. Script, style and noscript content is skipped.
func CleanText(sel *goquery.Selection) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
