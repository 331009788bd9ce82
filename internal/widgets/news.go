package widgets

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/mmcdole/gofeed"
)

// NewsList renders feed items as a linked list. Feed content is untrusted
// and escaped. limit <= 0 renders every item.
func NewsList(items []*gofeed.Item, limit int) string {
	if len(items) == 0 {
		return "<p>No news available</p>"
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}

	var buf strings.Builder
	buf.WriteString(`<ul class="news">`)
	for _, item := range items {
		if item == nil {
			continue
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = item.Link
		}
		buf.WriteString("\n<li>")
		if safeLink(item.Link) {
			fmt.Fprintf(&buf, `<a href="%s" target="_blank">%s</a>`,
				html.EscapeString(item.Link), html.EscapeString(title))
		} else {
			buf.WriteString(html.EscapeString(title))
		}
		if item.PublishedParsed != nil {
			fmt.Fprintf(&buf, ` <span class="news-date">%s</span>`, item.PublishedParsed.Format("2006-01-02"))
		}
		buf.WriteString("</li>")
	}
	buf.WriteString("\n</ul>")
	return buf.String()
}

// safeLink reports whether link is an absolute http or https URL
func safeLink(link string) bool {
	if link == "" {
		return false
	}
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}
