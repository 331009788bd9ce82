package reports

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"reportwidgets/internal/logger"
	"reportwidgets/internal/widgets"
)

// FeedFetcher retrieves news feeds for feed sections
type FeedFetcher interface {
	FetchFeeds(ctx context.Context, urls []string) (map[string]*gofeed.Feed, error)
}

// Assembler turns a manifest into a complete HTML report page
type Assembler struct {
	builder *widgets.Builder
	feeds   FeedFetcher
	log     *logger.Logger
	now     func() time.Time
}

// AssemblerOption configures an Assembler
type AssemblerOption func(*Assembler)

// WithLogger overrides the assembler logger
func WithLogger(l *logger.Logger) AssemblerOption {
	return func(a *Assembler) {
		a.log = l
	}
}

// WithClock overrides the clock used for default header date and time
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) {
		a.now = now
	}
}

// NewAssembler creates an assembler. feeds may be nil when no manifest
// uses feed sections.
func NewAssembler(builder *widgets.Builder, feeds FeedFetcher, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		builder: builder,
		feeds:   feeds,
		log:     logger.GetGlobalLogger().WithComponent("reports"),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// assembly carries per-report state while sections render
type assembly struct {
	feeds  map[string]*gofeed.Feed
	charts int
}

// Assemble renders the manifest: header, tab bar, one section per tab,
// the tab script, all wrapped in the report page template.
func (a *Assembler) Assemble(ctx context.Context, m *Manifest) (string, error) {
	if err := m.Validate(); err != nil {
		return "", err
	}

	state := &assembly{feeds: map[string]*gofeed.Feed{}}
	if urls := m.FeedURLs(); len(urls) > 0 {
		if a.feeds == nil {
			return "", fmt.Errorf("manifest uses %d feeds but no feed fetcher is configured", len(urls))
		}
		feeds, err := a.feeds.FetchFeeds(ctx, urls)
		if err != nil {
			a.log.Warn("Some feeds could not be fetched", map[string]interface{}{
				"error":  err.Error(),
				"feeds":  len(urls),
				"loaded": len(feeds),
			})
		}
		if feeds != nil {
			state.feeds = feeds
		}
	}

	titles := make([]string, 0, len(m.Tabs))
	hasSummary := false
	for _, tab := range m.Tabs {
		titles = append(titles, tab.Title)
		hasSummary = hasSummary || tab.Title == widgets.SummaryTab
	}
	if !hasSummary {
		a.log.Warn("Report has no SUMMARY tab; no tab opens on load", map[string]interface{}{
			"title": m.Title,
		})
	}

	var body strings.Builder
	body.WriteString(a.header(m))
	body.WriteString("\n")
	body.WriteString(widgets.TabLinks(titles))

	for _, tab := range m.Tabs {
		content, err := a.renderSections(ctx, state, tab.Sections)
		if err != nil {
			return "", fmt.Errorf("tab %s: %w", tab.Title, err)
		}
		body.WriteString("\n")
		body.WriteString(widgets.Tab(tab.Title, content))
	}
	body.WriteString("\n")
	body.WriteString(widgets.TabSwitchScript())

	stylesheet, err := a.stylesheet(ctx, m.Stylesheet)
	if err != nil {
		return "", err
	}

	page, err := a.builder.ReportPage(ctx, m.Title, stylesheet, body.String())
	if err != nil {
		return "", err
	}

	a.log.Info("Report assembled", map[string]interface{}{
		"title": m.Title,
		"tabs":  len(m.Tabs),
		"bytes": len(page),
	})
	return page, nil
}

func (a *Assembler) header(m *Manifest) string {
	now := a.now()
	date, clock, tz := m.Date, m.Time, m.Timezone
	if date == "" {
		date = now.Format("2006-01-02")
	}
	if clock == "" {
		clock = now.Format("15:04")
	}
	if tz == "" {
		tz = now.Format("MST")
	}

	image := ""
	if m.Image != "" {
		image = fmt.Sprintf(`<img src="%s" alt="logo" style="height:3cm">`, html.EscapeString(m.Image))
	}
	return widgets.Header(image, m.Author, date, clock, tz, m.Title)
}

func (a *Assembler) stylesheet(ctx context.Context, choice string) (string, error) {
	switch choice {
	case StyleCard:
		return a.builder.PriceCardStylesheet(ctx)
	case StyleBoth:
		report, err := a.builder.ReportStylesheet(ctx)
		if err != nil {
			return "", err
		}
		card, err := a.builder.PriceCardStylesheet(ctx)
		if err != nil {
			return "", err
		}
		return report + "\n" + card, nil
	default:
		return a.builder.ReportStylesheet(ctx)
	}
}
