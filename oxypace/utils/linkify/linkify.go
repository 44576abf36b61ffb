// Package linkify finds URLs in post text and classifies embeddable media.
package linkify

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"mvdan.cc/xurls/v2"
)

const (
	MediaImage   = "image"
	MediaGIF     = "gif"
	MediaYouTube = "youtube"
)

var (
	strict      = xurls.Strict()
	youTubeID   = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	imageSuffix = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}
)

// Extract returns every http(s) URL in text, in order of appearance.
func Extract(text string) []string {
	var out []string
	for _, u := range strict.FindAllString(text, -1) {
		if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
			out = append(out, u)
		}
	}
	return out
}

// YouTubeID returns the video id of a YouTube watch, short or shorts URL.
func YouTubeID(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "youtube-nocookie.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.TrimPrefix(u.Path, "/shorts/")
		case strings.HasPrefix(u.Path, "/embed/"):
			id = strings.TrimPrefix(u.Path, "/embed/")
		}
	}
	id = strings.Trim(id, "/")
	if !youTubeID.MatchString(id) {
		return "", false
	}
	return id, true
}

// EmbedURL is the iframe source for a YouTube video id.
func EmbedURL(id string) string {
	return "https://www.youtube.com/embed/" + id
}

// Classify infers the media type of a URL. Returns "" when the URL is not embeddable.
// YouTube links are rewritten to their embed URL.
func Classify(raw string) (mediaType, normalized string) {
	if id, ok := YouTubeID(raw); ok {
		return MediaYouTube, EmbedURL(id)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", raw
	}
	ext := strings.ToLower(path.Ext(u.Path))
	switch {
	case ext == ".gif":
		return MediaGIF, raw
	case imageSuffix[ext]:
		return MediaImage, raw
	case strings.HasPrefix(u.Path, "/api/media/"):
		return MediaImage, raw
	}
	return "", raw
}

// FirstYouTube returns the embed URL of the first YouTube link in text.
func FirstYouTube(text string) (string, bool) {
	for _, u := range Extract(text) {
		if id, ok := YouTubeID(u); ok {
			return EmbedURL(id), true
		}
	}
	return "", false
}
