package render

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/vueland/vuebot/internal/apidocs"
	"github.com/vueland/vuebot/internal/bot"
	"github.com/vueland/vuebot/internal/info"
	"github.com/vueland/vuebot/internal/library"
	"github.com/vueland/vuebot/internal/releases"
)

func TestLibraryPage(t *testing.T) {
	lib, err := library.Validate(library.Library{
		Name:        "Nuxt",
		Description: "The intuitive Vue framework.",
		Colour:      "#00dc82",
		Tags:        []string{"ssr"},
		Fields:      []library.Field{{Name: "Rendering", Value: "SSR"}, {Value: "Plain text"}},
		Author:      &library.Author{Name: "nuxt", Avatar: "nuxt.png"},
		Links:       library.Links{Site: "https://nuxt.com", Repo: "https://github.com/nuxt/nuxt"},
		License:     "MIT",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	embed := LibraryPage(guildMessage(), lib)
	if embed.Title != "Nuxt" || embed.URL != "https://nuxt.com" || embed.Color != 0x00dc82 {
		t.Errorf("unexpected embed header: %q %q %#x", embed.Title, embed.URL, embed.Color)
	}
	if embed.Author == nil || embed.Author.IconURL != library.AvatarBaseURL+"nuxt.png" {
		t.Errorf("expected the library author, got %+v", embed.Author)
	}
	if embed.Footer != "Requested by Evan" {
		t.Errorf("unexpected footer %q", embed.Footer)
	}

	expected := []bot.EmbedField{
		{Name: "Rendering", Value: "SSR"},
		{Name: "\u200b", Value: "Plain text"},
		{Name: "Tags", Value: "`ssr`"},
		{Name: "Links", Value: "[Site](https://nuxt.com) | [Repo](https://github.com/nuxt/nuxt)", Inline: true},
		{Name: "License", Value: "MIT", Inline: true},
	}
	if diff := cmp.Diff(expected, embed.Fields); diff != "" {
		t.Errorf("unexpected fields (-want +got):\n%s", diff)
	}
}

func TestLibraryDisambiguationLimit(t *testing.T) {
	var libs []library.Library
	for i := 0; i < 40; i++ {
		libs = append(libs, library.Library{Name: "lib"})
	}
	embed := LibraryDisambiguation(guildMessage(), "li", libs)
	if count := strings.Count(embed.Fields[0].Value, "`lib`"); count != library.MaxSuggestions {
		t.Errorf("expected %d suggestions, got %d", library.MaxSuggestions, count)
	}
	if embed.Color != WarningColor {
		t.Errorf("expected the warning colour, got %#x", embed.Color)
	}

	notFound := LibraryNotFound(guildMessage(), "react")
	if notFound.Color != ErrorColor || !strings.Contains(notFound.Fields[0].Value, LibraryDataURL) {
		t.Errorf("expected an error embed with the submission link, got %+v", notFound)
	}
}

func TestAPIPage(t *testing.T) {
	embed := APIPage(guildMessage(), apidocs.Entry{
		ID:          "ref",
		Title:       "ref()",
		Description: "Returns a ref.",
		Link:        "https://vuejs.org/api/reactivity-core.html#ref",
		Category:    "Composition API",
	})
	if embed.Title != "ref()" || embed.URL != "https://vuejs.org/api/reactivity-core.html#ref" || embed.Footer != "Composition API" {
		t.Errorf("unexpected embed %+v", embed)
	}

	disambiguation := APIDisambiguation(guildMessage(), "wat", []apidocs.Entry{{ID: "watch"}, {ID: "watcheffect"}})
	if disambiguation.Fields[0].Value != "`watch`, `watcheffect`" {
		t.Errorf("unexpected suggestions %q", disambiguation.Fields[0].Value)
	}
}

func TestInfoPages(t *testing.T) {
	topic := info.Topic{
		Title: "Sharing code",
		Pages: []info.Page{
			{Title: "Code blocks", Description: "Use backticks."},
			{Title: "Playground", Description: "Share a link.", URL: "https://play.vuejs.org"},
		},
	}
	pages := InfoPages(guildMessage(), topic)
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if pages[1].Title != "Sharing code - Playground" || pages[1].URL != "https://play.vuejs.org" || pages[1].Footer != "Page 2 of 2" {
		t.Errorf("unexpected page %+v", pages[1])
	}
}

func TestReleaseAnnouncement(t *testing.T) {
	embed := ReleaseAnnouncement(releases.Release{
		Repository: "vuejs/core",
		Version:    "v3.5.1",
		URL:        "https://github.com/vuejs/core/releases/tag/v3.5.1",
		Published:  time.Date(2026, 10, 1, 10, 0, 0, 0, time.UTC),
	})
	if embed.Title != "vuejs/core v3.5.1" || embed.Footer != "Published 2026-10-01" || embed.Author != nil {
		t.Errorf("unexpected embed %+v", embed)
	}
}
