package htmlutil

import (
	"strings"

	"golang.org/x/net/html"
)

// StripTags returns the text content of an HTML fragment with tags removed
// and runs of whitespace collapsed to single spaces.
func StripTags(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))

	var parts []string
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			text := strings.TrimSpace(string(tokenizer.Text()))
			if text != "" {
				parts = append(parts, text)
			}
		}
	}

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// FirstImageSrc returns the src attribute of the first <img> tag in an HTML
// fragment, or "" when the fragment contains no image.
func FirstImageSrc(fragment string) string {
	tokenizer := html.NewTokenizer(strings.NewReader(fragment))

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return ""
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		name, hasAttr := tokenizer.TagName()
		if string(name) != "img" || !hasAttr {
			continue
		}

		for {
			key, val, more := tokenizer.TagAttr()
			if string(key) == "src" && len(val) > 0 {
				return string(val)
			}
			if !more {
				break
			}
		}
	}
}
