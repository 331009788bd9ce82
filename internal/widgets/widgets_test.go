package widgets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportwidgets/internal/logger"
	"reportwidgets/internal/templates"
)

func newTestBuilder(t *testing.T) (*Builder, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: logger.DEBUG, Format: logger.JSONFormat, Output: &buf})
	return NewBuilder(templates.Default(), WithLogger(log)), &buf
}

func TestHeadingAndParagraph(t *testing.T) {
	assert.Equal(t, "<h3>x</h3>", H(3, "x"))
	assert.Equal(t, "<h1>Title</h1>", H(1, "Title"))
	assert.Equal(t, "<h9>odd</h9>", H(9, "odd"), "level is not validated")
	assert.Equal(t, "<p>x</p>", P("x"))
	assert.Equal(t, "<p></p>", P(""))
}

func TestKPITwoBand(t *testing.T) {
	b, _ := newTestBuilder(t)
	thresholds := []float64{10}
	sentences := []string{"low", "high"}

	below := b.KPI(thresholds, sentences, 5)
	assert.Equal(t, `<p style="color:red">&#10060; low. 5 < 10 </p>`, below)

	above := b.KPI(thresholds, sentences, 15)
	assert.Equal(t, `<p style="color:green">&#x2705; high. 15 > 10 </p>`, above)

	boundary := b.KPI(thresholds, sentences, 10)
	assert.Equal(t, `<p style="color:green">&#x2705; high. 10 > 10 </p>`, boundary,
		"a value equal to the threshold is not below it")
}

func TestKPIThreeBand(t *testing.T) {
	b, _ := newTestBuilder(t)
	thresholds := []float64{5, 10}
	sentences := []string{"a", "b", "c"}

	tests := []struct {
		value    float64
		expected string
	}{
		{7, `<p style="color:orange">&#128993; b. 5 < 7 < 10 </p>`},
		{4.5, `<p style="color:red">&#10060; a. 4.5 < 5 </p>`},
		{11, `<p style="color:green">&#x2705; c. 11 > 10 </p>`},
		{5, `<p style="color:orange">&#128993; b. 5 < 5 < 10 </p>`},
		{10, `<p style="color:orange">&#128993; b. 5 < 10 < 10 </p>`},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.value), func(t *testing.T) {
			assert.Equal(t, tt.expected, b.KPI(thresholds, sentences, tt.value))
		})
	}
}

func TestKPIUnsupportedShape(t *testing.T) {
	b, logs := newTestBuilder(t)

	tests := []struct {
		name       string
		thresholds []float64
		sentences  []string
	}{
		{"two thresholds one sentence", []float64{1, 2}, []string{"a"}},
		{"empty", nil, nil},
		{"one threshold three sentences", []float64{1}, []string{"a", "b", "c"}},
		{"three thresholds four sentences", []float64{1, 2, 3}, []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs.Reset()
			var out string
			assert.NotPanics(t, func() {
				out = b.KPI(tt.thresholds, tt.sentences, 1)
			})
			assert.Equal(t, "", out)
			assert.Contains(t, logs.String(), "KPI condition is not correctly set")
			assert.Contains(t, logs.String(), `"level":"warn"`)
		})
	}
}

func TestParseKPI(t *testing.T) {
	bands, err := ParseKPI([]float64{10}, []string{"low", "high"})
	require.NoError(t, err)
	assert.Equal(t, TwoBand{Threshold: 10, Below: "low", Above: "high"}, bands)

	bands, err = ParseKPI([]float64{5, 10}, []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, ThreeBand{Low: 5, High: 10, Below: "a", Between: "b", Above: "c"}, bands)

	_, err = ParseKPI([]float64{1, 2}, []string{"a"})
	assert.True(t, errors.Is(err, ErrKPIShape))
}

func TestRenderKPITyped(t *testing.T) {
	assert.Equal(t, `<p style="color:red">&#10060; Too few. 0.25 < 0.5 </p>`,
		RenderKPI(TwoBand{Threshold: 0.5, Below: "Too few", Above: "Enough"}, 0.25))
	assert.Equal(t, "", RenderKPI(nil, 1))
}

func TestTabLinks(t *testing.T) {
	out := TabLinks([]string{"A", "B", "C", "D", "E", "F"})

	assert.Equal(t, 1, strings.Count(out, "<br/>"))
	assert.Contains(t, out, `<button class="tablinks" onclick="menu(event, 'E')">E</button><br/><button class="tablinks" onclick="menu(event, 'F')">F</button>`)
	assert.True(t, strings.HasPrefix(out, `<div class="tab">`))
	assert.True(t, strings.HasSuffix(out, `</div>`))
	assert.Equal(t, 6, strings.Count(out, `class="tablinks"`))
}

func TestTabLinksBreaks(t *testing.T) {
	tests := []struct {
		tabs   int
		breaks int
	}{
		{0, 0},
		{4, 0},
		{5, 1},
		{10, 2},
		{14, 2},
		{15, 3},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.tabs), func(t *testing.T) {
			tabs := make([]string, tt.tabs)
			for i := range tabs {
				tabs[i] = fmt.Sprintf("T%d", i)
			}
			assert.Equal(t, tt.breaks, strings.Count(TabLinks(tabs), "<br/>"))
		})
	}
}

func TestTab(t *testing.T) {
	out := Tab("SUMMARY", "<p>inner</p>")

	assert.True(t, strings.HasPrefix(out, `<div id="SUMMARY" class="tabcontent">`))
	assert.Contains(t, out, `contentEditable="true"`)
	assert.Contains(t, out, "No comment.")
	assert.True(t, strings.HasSuffix(out, "</p><p>inner</p>\n    </div>"))
}

func TestTabSwitchScript(t *testing.T) {
	script := TabSwitchScript()

	assert.Contains(t, script, "function menu(evt, menu_name)")
	assert.Contains(t, script, `getElementsByClassName("tabcontent")`)
	assert.Contains(t, script, `getElementsByClassName("tablinks")`)
	assert.Contains(t, script, "menu(event, 'SUMMARY');")
	assert.Equal(t, script, TabSwitchScript())
}

func TestHeader(t *testing.T) {
	out := Header(`<img src="logo.png">`, "Jane Doe", "2024-05-01", "09:30", "UTC", "Weekly Report")

	assert.Contains(t, out, `<img src="logo.png">`)
	assert.Contains(t, out, "<p><b>Analyst:</b> Jane Doe</p>")
	assert.Contains(t, out, "<p><b>Date   :</b> 2024-05-01</p>")
	assert.Contains(t, out, "<p><b>Time   :</b> 09:30 UTC</p>")
	assert.Contains(t, out, "<p>Weekly Report</p>")
	assert.Less(t, strings.Index(out, "logo.png"), strings.Index(out, "Analyst"))
}

func TestPriceCard(t *testing.T) {
	b, _ := newTestBuilder(t)
	ctx := context.Background()

	card, err := b.PriceCard(ctx, "AAPL", "189.30", UpColor)
	require.NoError(t, err)
	assert.Contains(t, card, `<div class="ticker">AAPL</div>`)
	assert.Contains(t, card, `<div class="price up_color">189.30</div>`)

	card, err = b.PriceCard(ctx, "TSLA", "170.00", "")
	require.NoError(t, err)
	assert.Contains(t, card, `class="price neutral_color"`)

	card, err = b.PriceCard(ctx, "MSFT", "410.00", "purple")
	require.NoError(t, err)
	assert.Contains(t, card, `class="price purple"`, "unknown classes pass through")
}

func TestReportPage(t *testing.T) {
	b, _ := newTestBuilder(t)

	page, err := b.ReportPage(context.Background(), "My Report", "body { color: red; }", "<h1>Hi</h1>")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>My Report</title>")
	assert.Contains(t, page, "body { color: red; }")
	assert.Contains(t, page, "<h1>Hi</h1>")
}

func TestRowPreservesOrderAndCount(t *testing.T) {
	b, _ := newTestBuilder(t)
	elements := []string{"<p>one</p>", "<p>two</p>", "<p>three</p>", "<p>four</p>"}

	row, err := b.Row(context.Background(), elements)
	require.NoError(t, err)

	assert.Equal(t, len(elements), strings.Count(row, `<div class="column">`))
	last := -1
	for _, el := range elements {
		idx := strings.Index(row, el)
		require.NotEqual(t, -1, idx, el)
		assert.Greater(t, idx, last, "fragments must keep their order")
		last = idx
	}
}

func TestStylesheets(t *testing.T) {
	b, _ := newTestBuilder(t)
	ctx := context.Background()

	card, err := b.PriceCardStylesheet(ctx)
	require.NoError(t, err)
	assert.Contains(t, card, ".neutral_color")

	report, err := b.ReportStylesheet(ctx)
	require.NoError(t, err)
	assert.Contains(t, report, ".tabcontent")

	_, err = b.LoadStylesheet(ctx, StylesheetKind(42))
	assert.Error(t, err)
}

func TestMissingResourcesFailHard(t *testing.T) {
	b := NewBuilder(templates.NewFSLoader(fstest.MapFS{}))
	ctx := context.Background()

	_, err := b.PriceCardStylesheet(ctx)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = b.PriceCard(ctx, "AAPL", "1", UpColor)
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = b.ReportPage(ctx, "t", "", "")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	_, err = b.Row(ctx, []string{"a"})
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestCustomTemplates(t *testing.T) {
	b := NewBuilder(templates.NewFSLoader(fstest.MapFS{
		templates.CardTemplate: &fstest.MapFile{Data: []byte("{{.Ticker}}|{{.Price}}|{{.PriceColor}}")},
	}))

	card, err := b.PriceCard(context.Background(), "BTC", "65000", DownColor)
	require.NoError(t, err)
	assert.Equal(t, "BTC|65000|down_color", card)
}

func TestMarkdown(t *testing.T) {
	b, _ := newTestBuilder(t)

	out, err := b.Markdown("# Outlook\n\nSome **bold** text.\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n<span class=\"raw\">kept</span>\n")
	require.NoError(t, err)
	assert.Contains(t, out, `<h1 id="outlook">Outlook</h1>`)
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, `<span class="raw">kept</span>`)
}

func TestNewsList(t *testing.T) {
	published := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	items := []*gofeed.Item{
		{Title: "Rates <hold>", Link: "https://example.com/a?x=1&y=2", PublishedParsed: &published},
		{Title: "Earnings beat", Link: "https://example.com/b"},
		{Title: "Third"},
	}

	out := NewsList(items, 2)
	assert.Contains(t, out, `<a href="https://example.com/a?x=1&amp;y=2" target="_blank">Rates &lt;hold&gt;</a>`)
	assert.Contains(t, out, `<span class="news-date">2024-05-01</span>`)
	assert.Equal(t, 2, strings.Count(out, "<li>"))
	assert.NotContains(t, out, "Third")

	all := NewsList(items, 0)
	assert.Equal(t, 3, strings.Count(all, "<li>"))
	assert.Contains(t, all, "<li>Third</li>")

	assert.Equal(t, "<p>No news available</p>", NewsList(nil, 5))

	unsafe := NewsList([]*gofeed.Item{
		{Title: "click", Link: "javascript:alert(document.cookie)"},
		{Title: "data", Link: "data:text/html,<script>alert(1)</script>"},
		{Title: "relative", Link: "/local/path"},
		{Title: "upper", Link: "HTTPS://example.com/c"},
	}, 0)
	assert.NotContains(t, unsafe, "javascript:")
	assert.NotContains(t, unsafe, `href="data:`)
	assert.Contains(t, unsafe, "<li>click</li>")
	assert.Contains(t, unsafe, "<li>data</li>")
	assert.Contains(t, unsafe, "<li>relative</li>")
	assert.Contains(t, unsafe, `<a href="HTTPS://example.com/c" target="_blank">upper</a>`)
}
