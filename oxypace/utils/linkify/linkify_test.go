package linkify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	got := Extract("see https://oxypace.com/p/1 and http://example.org, not ftp://x.y or plain.text")
	assert.Equal(t, []string{"https://oxypace.com/p/1", "http://example.org"}, got)
	assert.Empty(t, Extract("no links here"))
}

func TestYouTubeID(t *testing.T) {
	for _, raw := range []string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ",
		"https://m.youtube.com/watch?v=dQw4w9WgXcQ&t=42",
		"https://youtube.com/shorts/dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
	} {
		id, ok := YouTubeID(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, "dQw4w9WgXcQ", id, raw)
	}

	_, ok := YouTubeID("https://vimeo.com/12345")
	assert.False(t, ok)
	_, ok = YouTubeID("https://www.youtube.com/watch?v=short")
	assert.False(t, ok)
}

func TestClassify(t *testing.T) {
	cases := []struct {
		raw, kind, url string
	}{
		{"https://youtu.be/dQw4w9WgXcQ", MediaYouTube, "https://www.youtube.com/embed/dQw4w9WgXcQ"},
		{"https://media.giphy.com/media/x/giphy.GIF", MediaGIF, "https://media.giphy.com/media/x/giphy.GIF"},
		{"https://cdn.oxypace.com/cat.jpeg", MediaImage, "https://cdn.oxypace.com/cat.jpeg"},
		{"https://oxypace.com/api/media/3f2a.bin", MediaImage, "https://oxypace.com/api/media/3f2a.bin"},
		{"https://example.com/article", "", "https://example.com/article"},
	}
	for _, c := range cases {
		kind, normalized := Classify(c.raw)
		assert.Equal(t, c.kind, kind, c.raw)
		assert.Equal(t, c.url, normalized, c.raw)
	}
}

func TestFirstYouTube(t *testing.T) {
	embed, ok := FirstYouTube("watch this https://example.com then https://youtu.be/dQw4w9WgXcQ")
	assert.True(t, ok)
	assert.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", embed)

	_, ok = FirstYouTube("nothing to embed")
	assert.False(t, ok)
}
