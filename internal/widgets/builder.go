// Package widgets renders the HTML fragments that make up notebook-style
// reports: price cards, rows, headings, KPI lines, tabs and the page shell.
//
// Fragments are plain strings. Values are inserted verbatim, so callers pass
// trusted text or pre-rendered HTML and own any escaping.
package widgets

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"reportwidgets/internal/logger"
	"reportwidgets/internal/templates"
)

// CSS classes understood by the price card stylesheet
const (
	UpColor      = "up_color"
	DownColor    = "down_color"
	NeutralColor = "neutral_color"
)

// StylesheetKind selects one of the bundled stylesheets
type StylesheetKind int

const (
	PriceCardStyle StylesheetKind = iota
	ReportStyle
)

// String returns the resource name backing the stylesheet
func (k StylesheetKind) String() string {
	switch k {
	case PriceCardStyle:
		return templates.CardStylesheet
	case ReportStyle:
		return templates.ReportStylesheet
	default:
		return fmt.Sprintf("StylesheetKind(%d)", int(k))
	}
}

// Builder renders fragments that need template resources
type Builder struct {
	loader   templates.Loader
	log      *logger.Logger
	markdown goldmark.Markdown
}

// Option configures a Builder
type Option func(*Builder)

// WithLogger sets the logger used for diagnostics
func WithLogger(l *logger.Logger) Option {
	return func(b *Builder) {
		b.log = l
	}
}

// NewBuilder creates a builder resolving resources through loader
func NewBuilder(loader templates.Loader, opts ...Option) *Builder {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(), // reports mix raw HTML into markdown
		),
	)

	b := &Builder{
		loader:   loader,
		log:      logger.GetGlobalLogger().WithComponent("widgets"),
		markdown: md,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// LoadStylesheet returns the raw text of a bundled stylesheet
func (b *Builder) LoadStylesheet(ctx context.Context, kind StylesheetKind) (string, error) {
	switch kind {
	case PriceCardStyle, ReportStyle:
	default:
		return "", fmt.Errorf("unknown stylesheet kind %d", int(kind))
	}
	return b.loader.Load(ctx, kind.String())
}

// PriceCardStylesheet returns the price card stylesheet
func (b *Builder) PriceCardStylesheet(ctx context.Context) (string, error) {
	return b.LoadStylesheet(ctx, PriceCardStyle)
}

// ReportStylesheet returns the full report stylesheet
func (b *Builder) ReportStylesheet(ctx context.Context) (string, error) {
	return b.LoadStylesheet(ctx, ReportStyle)
}

// PriceCard renders a 128x128 price card. colorClass is one of UpColor,
// DownColor or NeutralColor; empty means NeutralColor and any other value is
// passed through as a class name.
func (b *Builder) PriceCard(ctx context.Context, ticker, price, colorClass string) (string, error) {
	if colorClass == "" {
		colorClass = NeutralColor
	}
	return b.render(ctx, templates.CardTemplate, struct {
		Ticker     string
		Price      string
		PriceColor string
	}{ticker, price, colorClass})
}

// ReportPage renders a complete HTML document
func (b *Builder) ReportPage(ctx context.Context, title, stylesheet, body string) (string, error) {
	return b.render(ctx, templates.ReportTemplate, struct {
		Title      string
		Stylesheet string
		Body       string
	}{title, stylesheet, body})
}

// Row lays out pre-rendered fragments side by side, in order
func (b *Builder) Row(ctx context.Context, elements []string) (string, error) {
	return b.render(ctx, templates.RowTemplate, struct {
		Elements []string
	}{elements})
}

func (b *Builder) render(ctx context.Context, name string, data interface{}) (string, error) {
	text, err := b.loader.Load(ctx, name)
	if err != nil {
		return "", err
	}
	return templates.Render(name, text, data)
}
