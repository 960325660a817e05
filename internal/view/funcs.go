package view

import (
	"html/template"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/yanizio/escortde/internal/ad"
	"github.com/yanizio/escortde/internal/routing"
	"github.com/yanizio/escortde/internal/slug"
)

func funcMap(site Site) template.FuncMap {
	return template.FuncMap{
		"dict":        dict,
		"add":         func(a, b int) int { return a + b },
		"genderLabel": func(g ad.Gender) string { return g.Label() },
		"genderSlug":  routing.GenderToSlug,
		"landing":     routing.BuildLandingPath,
		"adPath": func(a ad.Ad) string {
			p, _ := routing.AdPath(&a)
			return p
		},
		"cover": func(a ad.Ad) string { return a.Cover(site.FallbackImage) },
		"age": func(a ad.Ad) string {
			if n, ok := a.AgeYears(); ok {
				return strconv.Itoa(n)
			}
			return a.Age
		},
		"slugify":  slug.Slugify,
		"truncate": Truncate,
		"date":     func(t time.Time) string { return t.Format("02 Jan 2006") },
		"datetime": func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	}
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

// Truncate shortens s to at most n runes, adding "..." when cut.
func Truncate(n int, s string) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= 3 {
		return string([]rune(s)[:n])
	}
	return string([]rune(s)[:n-3]) + "..."
}
