package blog

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/escortde/internal/blog"
	"github.com/yanizio/escortde/internal/component/componenttest"
)

func TestIndex(t *testing.T) {
	h := componenttest.New(t)
	h.Mount(t, New)

	rr := h.Get("/blog")
	require.Equal(t, http.StatusOK, rr.Code)
	doc := componenttest.Doc(t, rr)
	assert.Equal(t, len(blog.All()), doc.Find("ul.posts li").Length())
	assert.Equal(t, "https://example.com/blog", doc.Find(`link[rel="canonical"]`).AttrOr("href", ""))
}

func TestPost(t *testing.T) {
	h := componenttest.New(t)
	h.Mount(t, New)

	first := blog.All()[0]
	rr := h.Get("/blog/" + first.Slug)
	require.Equal(t, http.StatusOK, rr.Code)

	doc := componenttest.Doc(t, rr)
	assert.Equal(t, first.Title, doc.Find("article.post h1").Text())
	assert.Equal(t, 1, doc.Find("article.post ul").Length())
	assert.Equal(t, "/escorts/female/germany", doc.Find(`article.post a[href^="/escorts/"]`).AttrOr("href", ""))
	assert.Contains(t, doc.Find(`script[type="application/ld+json"]`).Text(), "BlogPosting")
}

func TestPostNotFound(t *testing.T) {
	h := componenttest.New(t)
	h.Mount(t, New)

	rr := h.Get("/blog/no-such-post")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "noindex,nofollow", componenttest.Doc(t, rr).Find(`meta[name="robots"]`).AttrOr("content", ""))
}

func TestPostSlugRepair(t *testing.T) {
	h := componenttest.New(t)
	h.Mount(t, New)

	first := blog.All()[0]
	rr := h.Get("/blog/" + strings.ToUpper(first.Slug[:1]) + first.Slug[1:])
	assert.Equal(t, http.StatusPermanentRedirect, rr.Code)
	assert.Equal(t, "/blog/"+first.Slug, rr.Header().Get("Location"))

	rr = h.Get("/blog/" + strings.ReplaceAll(first.Slug, "-", "%20"))
	assert.Equal(t, http.StatusPermanentRedirect, rr.Code)
	assert.Equal(t, "/blog/"+first.Slug, rr.Header().Get("Location"))

	rr = h.Get("/blog/No-Such-Post")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
