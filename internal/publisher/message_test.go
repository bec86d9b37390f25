package publisher

import (
	"strings"
	"testing"
	"unicode/utf8"

	"haberliyo/internal/model"

	"github.com/go-playground/assert/v2"
)

func TestHashtagLine(t *testing.T) {
	item := &model.NewsItem{Source: "T24", Title: "Ekonomide Yeni Gelişme"}

	line := HashtagLine(item)

	assert.Equal(t, true, strings.HasPrefix(line, "#haber #t24"))
	assert.Equal(t, true, strings.Contains(line, "#ekonomide"))
	assert.Equal(t, true, strings.Contains(line, "#gelişme"))
}

func TestHashtagLine_StopwordOnlyTitle(t *testing.T) {
	item := &model.NewsItem{Source: "T24", Title: "ve ile bir de"}

	assert.Equal(t, "#haber #t24", HashtagLine(item))
}

func TestTelegramMessage(t *testing.T) {
	item := &model.NewsItem{
		Source: "T24",
		Title:  "Ekonomide Yeni Gelişme",
		URL:    "https://x.com/a",
	}

	got := TelegramMessage(item, "#haber #t24")

	assert.Equal(t, "<b>Ekonomide Yeni Gelişme</b>\n\nKaynak: T24\nhttps://x.com/a\n\n#haber #t24", got)
}

func TestTwitterMessage_ShortTitleUntouched(t *testing.T) {
	item := &model.NewsItem{
		Source: "T24",
		Title:  "Ekonomide Yeni Gelişme",
		URL:    "https://x.com/a",
	}

	got := TwitterMessage(item, "#haber #t24")

	assert.Equal(t, true, strings.Contains(got, "Ekonomide Yeni Gelişme"))
	assert.Equal(t, true, strings.Contains(got, "Kaynak: T24"))
	assert.Equal(t, true, strings.Contains(got, "https://x.com/a"))
	assert.Equal(t, false, strings.Contains(got, "<b>"))
}

func TestTwitterMessage_TruncatesLongTitle(t *testing.T) {
	item := &model.NewsItem{
		Source: "T24",
		Title:  strings.Repeat("çok uzun başlık ", 30),
		URL:    "https://x.com/a",
	}

	got := TwitterMessage(item, "#haber #t24")

	assert.Equal(t, true, utf8.RuneCountInString(got) <= 280)
	assert.Equal(t, true, strings.Contains(got, "…"))
	assert.Equal(t, true, strings.Contains(got, "https://x.com/a"))
	assert.Equal(t, true, strings.Contains(got, "#haber #t24"))
}
