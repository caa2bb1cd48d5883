package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vueland/vuebot/internal/bot"
	"github.com/vueland/vuebot/internal/rfc"
)

const (
	// rfcSummaryLimit is the longest RFC summary shown on a page
	rfcSummaryLimit = 2040
	// rfcsPerListPage is the number of RFCs listed on one page of a listing
	rfcsPerListPage = 8
	// maxSuggestions is the number of RFC numbers offered when disambiguating
	maxSuggestions = 25

	dateLayout = "2006-01-02"
)

// colouredLabels are the labels whose colour tints an RFC page, in priority order
var colouredLabels = []string{"core", "vuex", "router"}

// RFCPage renders a single RFC. The short variant only carries the title and link.
func RFCPage(msg *bot.Message, item rfc.RFC, short bool) bot.Embed {
	embed := VueTemplate(msg, TemplateOptions{NoLogo: true})
	embed.URL = item.URL
	embed.Title = Truncate(fmt.Sprintf("RFC #%d - %s", item.Number, item.Title), 256)
	if short {
		return embed
	}

	embed.Description = Summary(item.Body, rfcSummaryLimit)
	if embed.Description == "" {
		embed.Description = "_No description provided._"
	}
	embed = embed.AddField("Author", item.Author, true)
	embed = embed.AddField("Status", string(item.State), true)
	if len(item.Labels) > 0 {
		embed = embed.AddField("Labels", strings.Join(item.LabelNames(), ", "), true)
	}
	if !item.CreatedAt.IsZero() {
		embed = embed.AddField("Created", item.CreatedAt.Format(dateLayout), true)
	}
	if !item.UpdatedAt.IsZero() {
		embed = embed.AddField("Updated", item.UpdatedAt.Format(dateLayout), true)
	}
	if color, ok := labelColor(item); ok {
		embed.Color = color
	}
	return embed
}

// RFCPages renders one page per RFC
func RFCPages(msg *bot.Message, items []rfc.RFC, short bool) []bot.Embed {
	pages := make([]bot.Embed, 0, len(items))
	for _, item := range items {
		pages = append(pages, RFCPage(msg, item, short))
	}
	return pages
}

// labelColor returns the colour of the first core, vuex or router label
func labelColor(item rfc.RFC) (int, bool) {
	for _, name := range colouredLabels {
		for _, label := range item.Labels {
			if !strings.EqualFold(label.Name, name) {
				continue
			}
			color, err := strconv.ParseInt(strings.TrimPrefix(label.Color, "#"), 16, 32)
			if err != nil {
				return 0, false
			}
			return int(color), true
		}
	}
	return 0, false
}

// RFCInfoPage explains the pagination controls of an RFC result set
func RFCInfoPage(msg *bot.Message) bot.Embed {
	embed := VueTemplate(msg, TemplateOptions{Title: "VueJS - Requests for Comments"})
	embed.Description = strings.Join([]string{
		"• Use the ⏮, ◀, ▶ & ⏭ buttons to navigate between the pages.",
		"• Cancel pagination using ⏹.",
		"• View this information page with ℹ.",
	}, "\n")
	return embed
}

// RFCNoMatches is shown when a search or filter matched nothing
func RFCNoMatches(msg *bot.Message) bot.Embed {
	embed := VueTemplate(msg, TemplateOptions{Title: "VueJS RFC Search"})
	embed.Description = "No results found!"
	return embed
}

// RFCNotFound is shown when an RFC number does not exist
func RFCNotFound(msg *bot.Message, query string) bot.Embed {
	embed := VueTemplate(msg, TemplateOptions{Title: "RFC Lookup - " + InlineCode(query), NoLogo: true})
	embed.Description = "Sorry, I couldn't find any matches for your query on the RFC repo."
	embed.Color = ErrorColor
	return embed
}

// RFCDisambiguation offers close matches after a query found nothing
func RFCDisambiguation(msg *bot.Message, query string, items []rfc.RFC) bot.Embed {
	embed := VueTemplate(msg, TemplateOptions{Title: "RFC Request - " + InlineCode(query), NoLogo: true})
	embed.Description = "Sorry, I couldn't find an exact match for your query on the RFC repo."
	embed.Color = InfoColor

	numbers := make([]string, 0, min(len(items), maxSuggestions))
	for _, item := range items[:min(len(items), maxSuggestions)] {
		numbers = append(numbers, InlineCode(fmt.Sprintf("#%d", item.Number)))
	}
	return embed.AddField("Perhaps you meant one of these:", strings.Join(numbers, ", "), false)
}

// RFCList renders a listing of RFCs, several per page
func RFCList(msg *bot.Message, filter string, items []rfc.RFC) []bot.Embed {
	var pages []bot.Embed
	for start := 0; start < len(items); start += rfcsPerListPage {
		end := min(start+rfcsPerListPage, len(items))
		page := VueTemplate(msg, TemplateOptions{Title: "Vue.js Requests for Comments"})
		page.Description = fmt.Sprintf("Viewing RFCs filtered by: %s.", filter)
		for _, item := range items[start:end] {
			page = page.AddField(Truncate(fmt.Sprintf("#%d - %s", item.Number, item.Title), 256), item.URL, false)
		}
		pages = append(pages, page)
	}
	if len(pages) == 0 {
		pages = append(pages, RFCNoMatches(msg))
	}
	return pages
}
