package publisher

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"haberliyo/internal/keywords"
	"haberliyo/internal/model"
)

const tweetBudget = 280

// Formatter builds a channel-specific message for one item.
type Formatter func(item *model.NewsItem, hashtags string) string

// HashtagLine builds the hashtag block for an item: the fixed #haber tag,
// the lowercased source name, then the title's keywords.
func HashtagLine(item *model.NewsItem) string {
	tags := []string{"#haber", "#" + strings.ToLower(item.Source)}
	for _, kw := range keywords.Extract(item.Title, keywords.DefaultCount) {
		tags = append(tags, "#"+kw)
	}
	return strings.Join(tags, " ")
}

// TelegramMessage formats an item for the broadcast channel with HTML
// markup.
func TelegramMessage(item *model.NewsItem, hashtags string) string {
	return fmt.Sprintf("<b>%s</b>\n\nKaynak: %s\n%s\n\n%s",
		item.Title, item.Source, item.URL, hashtags)
}

// TwitterMessage formats an item as plain text within the 280-character
// tweet limit, truncating only the title. Source, URL and hashtags are always kept.
func TwitterMessage(item *model.NewsItem, hashtags string) string {
	compose := func(title string) string {
		return fmt.Sprintf("%s\n\nKaynak: %s\n%s\n\n%s",
			title, item.Source, item.URL, hashtags)
	}

	text := compose(item.Title)
	overflow := utf8.RuneCountInString(text) - tweetBudget
	if overflow <= 0 {
		return text
	}

	title := []rune(item.Title)
	cut := len(title) - overflow - 1
	if cut < 0 {
		cut = 0
	}
	return compose(strings.TrimSpace(string(title[:cut])) + "…")
}
