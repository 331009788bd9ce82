package reports

import (
	"context"
	"fmt"
	"strings"

	"reportwidgets/internal/charts"
	"reportwidgets/internal/widgets"
)

const defaultHeadingLevel = 2

func (a *Assembler) renderSections(ctx context.Context, state *assembly, sections []Section) (string, error) {
	parts := make([]string, 0, len(sections))
	for i := range sections {
		part, err := a.renderSection(ctx, state, &sections[i])
		if err != nil {
			return "", fmt.Errorf("section %d (%s): %w", i, sections[i].Kind, err)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "\n"), nil
}

func (a *Assembler) renderSection(ctx context.Context, state *assembly, s *Section) (string, error) {
	switch s.Kind {
	case KindHeading:
		level := s.Level
		if level == 0 {
			level = defaultHeadingLevel
		}
		return widgets.H(level, s.Text), nil

	case KindParagraph:
		return widgets.P(s.Text), nil

	case KindMarkdown:
		return a.builder.Markdown(s.Text)

	case KindHTML:
		return s.Text, nil

	case KindKPI:
		return a.builder.KPI(s.Thresholds, s.Sentences, s.Value), nil

	case KindCards:
		cards := make([]string, 0, len(s.Cards))
		for _, c := range s.Cards {
			card, err := a.builder.PriceCard(ctx, c.Ticker, c.Price, c.Color)
			if err != nil {
				return "", err
			}
			cards = append(cards, card)
		}
		return a.builder.Row(ctx, cards)

	case KindRow:
		elements := make([]string, 0, len(s.Sections))
		for i := range s.Sections {
			el, err := a.renderSection(ctx, state, &s.Sections[i])
			if err != nil {
				return "", fmt.Errorf("row element %d: %w", i, err)
			}
			elements = append(elements, el)
		}
		return a.builder.Row(ctx, elements)

	case KindChart:
		return a.renderChart(state, s.Chart)

	case KindSparkline:
		png, err := charts.Sparkline(s.Values, s.Width, s.Height)
		if err != nil {
			return "", err
		}
		return charts.ImageTag(png, s.Alt), nil

	case KindFeed:
		feed := state.feeds[s.URL]
		if feed == nil {
			return widgets.NewsList(nil, s.Limit), nil
		}
		return widgets.NewsList(feed.Items, s.Limit), nil

	default:
		return "", fmt.Errorf("unknown section kind %q", s.Kind)
	}
}

func (a *Assembler) renderChart(state *assembly, c *Chart) (string, error) {
	state.charts++
	id := c.ID
	if id == "" {
		id = fmt.Sprintf("chart-%d", state.charts)
	}

	series := make([]charts.Series, 0, len(c.Series))
	for _, s := range c.Series {
		series = append(series, charts.Series{Name: s.Name, Values: s.Values})
	}

	var (
		snippet charts.ChartSnippet
		err     error
	)
	switch c.Type {
	case "bar":
		snippet, err = charts.Bar(id, c.Title, c.Labels, series)
	default:
		snippet, err = charts.Line(id, c.Title, c.Labels, series)
	}
	if err != nil {
		return "", err
	}
	return snippet.HTML, nil
}
