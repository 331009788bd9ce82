package reports

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportwidgets/internal/logger"
	"reportwidgets/internal/storage"
	"reportwidgets/internal/templates"
	"reportwidgets/internal/widgets"
)

const fullManifest = `
title: Weekly Market Report
author: J. Doe
date: "2024-05-01"
time: "09:30"
timezone: CET
image: https://example.com/logo.png
stylesheet: both
tabs:
  - title: SUMMARY
    sections:
      - kind: heading
        text: Overview
      - kind: paragraph
        text: Markets were calm.
      - kind: kpi
        value: 7.5
        thresholds: [5, 10]
        sentences: [weak, steady, strong]
      - kind: cards
        cards:
          - {ticker: AAPL, price: "189.20", color: up_color}
          - {ticker: MSFT, price: "402.10"}
  - title: DETAILS
    sections:
      - kind: markdown
        text: "## Notes\n\n- item one"
      - kind: row
        sections:
          - kind: paragraph
            text: left
          - kind: sparkline
            values: [1, 3, 2, 5]
            alt: trend
      - kind: chart
        chart:
          type: bar
          title: Volume
          labels: [Mon, Tue]
          series:
            - {name: shares, values: [100, 250]}
      - kind: feed
        url: https://example.com/feed.xml
        limit: 1
      - kind: html
        text: <hr/>
`

type fakeFeeds struct {
	feeds map[string]*gofeed.Feed
	err   error
	calls [][]string
}

func (f *fakeFeeds) FetchFeeds(ctx context.Context, urls []string) (map[string]*gofeed.Feed, error) {
	f.calls = append(f.calls, urls)
	return f.feeds, f.err
}

func newTestAssembler(t *testing.T, feeds FeedFetcher) (*Assembler, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: logger.DEBUG, Format: logger.JSONFormat, Output: &buf})
	builder := widgets.NewBuilder(templates.Default(), widgets.WithLogger(log))
	clock := func() time.Time { return time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC) }
	return NewAssembler(builder, feeds, WithLogger(log), WithClock(clock)), &buf
}

func TestParseManifest(t *testing.T) {
	m, err := ParseManifest([]byte(fullManifest))
	require.NoError(t, err)

	assert.Equal(t, "Weekly Market Report", m.Title)
	assert.Equal(t, StyleBoth, m.Stylesheet)
	require.Len(t, m.Tabs, 2)
	assert.Equal(t, "SUMMARY", m.Tabs[0].Title)
	assert.Equal(t, []float64{5, 10}, m.Tabs[0].Sections[2].Thresholds)
	assert.Equal(t, "bar", m.Tabs[1].Sections[2].Chart.Type)
	assert.Equal(t, []string{"https://example.com/feed.xml"}, m.FeedURLs())
}

func TestParseManifestInvalid(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		contains string
	}{
		{"missing title", "tabs: [{title: SUMMARY}]", "title is required"},
		{"no tabs", "title: x", "at least one tab"},
		{"duplicate tabs", "title: x\ntabs: [{title: A}, {title: A}]", "duplicate tab"},
		{"quoted tab", "title: x\ntabs: [{title: \"it's\"}]", "markup characters"},
		{"unknown kind", "title: x\ntabs: [{title: A, sections: [{kind: video}]}]", "unknown section kind"},
		{"chart without data", "title: x\ntabs: [{title: A, sections: [{kind: chart}]}]", "no chart"},
		{"bad chart type", "title: x\ntabs: [{title: A, sections: [{kind: chart, chart: {type: pie}}]}]", "unknown chart type"},
		{"short sparkline", "title: x\ntabs: [{title: A, sections: [{kind: sparkline, values: [1]}]}]", "at least 2"},
		{"feed without url", "title: x\ntabs: [{title: A, sections: [{kind: feed}]}]", "no url"},
		{"empty row", "title: x\ntabs: [{title: A, sections: [{kind: row}]}]", "no sections"},
		{"bad nested row", "title: x\ntabs: [{title: A, sections: [{kind: row, sections: [{kind: nope}]}]}]", "row element 0"},
		{"unknown stylesheet", "title: x\nstylesheet: dark\ntabs: [{title: A}]", "unknown stylesheet"},
		{"unknown field", "title: x\ncolour: red\ntabs: [{title: A}]", "colour"},
		{"not yaml", "title: [", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseManifest([]byte(tt.manifest))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidManifest)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullManifest), 0644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "J. Doe", m.Author)

	_, err = LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAssemble(t *testing.T) {
	feeds := &fakeFeeds{feeds: map[string]*gofeed.Feed{
		"https://example.com/feed.xml": {Items: []*gofeed.Item{
			{Title: "First", Link: "https://example.com/1"},
			{Title: "Second", Link: "https://example.com/2"},
		}},
	}}
	a, _ := newTestAssembler(t, feeds)

	m, err := ParseManifest([]byte(fullManifest))
	require.NoError(t, err)

	page, err := a.Assemble(context.Background(), m)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>Weekly Market Report</title>")
	// both stylesheets
	assert.Contains(t, page, ".tabcontent")
	assert.Contains(t, page, ".up_color")

	// header
	assert.Contains(t, page, `<img src="https://example.com/logo.png" alt="logo" style="height:3cm">`)
	assert.Contains(t, page, "<p><b>Analyst:</b> J. Doe</p>")
	assert.Contains(t, page, "<p><b>Time   :</b> 09:30 CET</p>")

	// tabs in order, then the script once
	assert.Contains(t, page, widgets.TabLinks([]string{"SUMMARY", "DETAILS"}))
	summary := strings.Index(page, `<div id="SUMMARY" class="tabcontent">`)
	details := strings.Index(page, `<div id="DETAILS" class="tabcontent">`)
	script := strings.Index(page, widgets.TabSwitchScript())
	require.True(t, summary > 0 && details > summary && script > details)
	assert.Equal(t, 1, strings.Count(page, widgets.TabSwitchScript()))

	// sections
	assert.Contains(t, page, "<h2>Overview</h2>")
	assert.Contains(t, page, "<p>Markets were calm.</p>")
	assert.Contains(t, page, `<p style="color:orange">&#128993; steady. 5 < 7.5 < 10 </p>`)
	assert.Contains(t, page, `<div class="price up_color">189.20</div>`)
	assert.Contains(t, page, `<div class="price neutral_color">402.10</div>`)
	assert.Contains(t, page, `<h2 id="notes">Notes</h2>`)
	assert.Contains(t, page, `<div class="column"><p>left</p></div>`)
	assert.Contains(t, page, `<img src="data:image/png;base64,`)
	assert.Contains(t, page, `<iframe class="chart-frame" id="chart-1"`)
	assert.Contains(t, page, `<a href="https://example.com/1" target="_blank">First</a>`)
	assert.NotContains(t, page, "Second", "feed limit applies")
	assert.Contains(t, page, "<hr/>")

	require.Len(t, feeds.calls, 1)
	assert.Equal(t, []string{"https://example.com/feed.xml"}, feeds.calls[0])
}

func TestAssembleDefaults(t *testing.T) {
	a, _ := newTestAssembler(t, nil)
	m := &Manifest{
		Title: "Plain",
		Tabs:  []Tab{{Title: "SUMMARY", Sections: []Section{{Kind: KindParagraph, Text: "hi"}}}},
	}

	page, err := a.Assemble(context.Background(), m)
	require.NoError(t, err)

	assert.Contains(t, page, "<p><b>Date   :</b> 2024-05-01</p>")
	assert.Contains(t, page, "<p><b>Time   :</b> 08:00 UTC</p>")
	assert.Contains(t, page, ".tabcontent", "report stylesheet by default")
	assert.NotContains(t, page, ".up_color")
	assert.NotContains(t, page, "<img")
}

func TestAssembleDefaultTimezoneAbbreviation(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	a, _ := newTestAssembler(t, nil)
	WithClock(func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, paris) })(a)

	page, err := a.Assemble(context.Background(), &Manifest{Title: "T", Tabs: []Tab{{Title: "SUMMARY"}}})
	require.NoError(t, err)
	assert.Contains(t, page, "<p><b>Time   :</b> 09:30 CEST</p>")
	assert.NotContains(t, page, "Europe/Paris")
}

func TestMissingSummaryWarnsOnce(t *testing.T) {
	a, logs := newTestAssembler(t, nil)
	prev := logger.GetGlobalLogger()
	logger.SetGlobalLogger(logger.New(logger.Config{Level: logger.DEBUG, Format: logger.JSONFormat, Output: logs}))
	t.Cleanup(func() { logger.SetGlobalLogger(prev) })

	m, err := ParseManifest([]byte("title: x\ntabs: [{title: OVERVIEW}]"))
	require.NoError(t, err)
	_, err = a.Assemble(context.Background(), m)
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(logs.String(), "no SUMMARY tab"))
}

func TestAssembleKPISoftFailure(t *testing.T) {
	a, logs := newTestAssembler(t, nil)
	m := &Manifest{
		Title: "KPI",
		Tabs: []Tab{{Title: "SUMMARY", Sections: []Section{
			{Kind: KindKPI, Value: 1, Thresholds: []float64{1, 2, 3}, Sentences: []string{"a"}},
			{Kind: KindParagraph, Text: "after"},
		}}},
	}

	page, err := a.Assemble(context.Background(), m)
	require.NoError(t, err)
	assert.Contains(t, page, "<p>after</p>")
	assert.NotContains(t, page, "color:red")
	assert.Contains(t, logs.String(), "KPI condition is not correctly set")
}

func TestAssembleFeedFailures(t *testing.T) {
	m := &Manifest{
		Title: "News",
		Tabs: []Tab{{Title: "SUMMARY", Sections: []Section{
			{Kind: KindFeed, URL: "https://example.com/down.xml"},
		}}},
	}

	a, logs := newTestAssembler(t, &fakeFeeds{feeds: map[string]*gofeed.Feed{}, err: errors.New("boom")})
	page, err := a.Assemble(context.Background(), m)
	require.NoError(t, err)
	assert.Contains(t, page, "<p>No news available</p>")
	assert.Contains(t, logs.String(), "Some feeds could not be fetched")

	noFetcher, _ := newTestAssembler(t, nil)
	_, err = noFetcher.Assemble(context.Background(), m)
	assert.Error(t, err)
}

func TestAssembleMissingTemplate(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: logger.DEBUG, Format: logger.JSONFormat, Output: &buf})
	builder := widgets.NewBuilder(templates.NewDirLoader(t.TempDir()), widgets.WithLogger(log))
	a := NewAssembler(builder, nil, WithLogger(log))

	m := &Manifest{Title: "x", Tabs: []Tab{{Title: "SUMMARY"}}}
	_, err := a.Assemble(context.Background(), m)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPublish(t *testing.T) {
	store, err := storage.NewLocalStorageClient(t.TempDir())
	require.NoError(t, err)

	p := NewPublisher(store)
	ts := time.Date(2024, 5, 1, 9, 30, 15, 0, time.UTC)

	folder, err := p.Publish(context.Background(), "Weekly Market Report", "<html></html>", ts)
	require.NoError(t, err)
	assert.Equal(t, "2024/05/01/weekly-market-report-2024-05-01-09-30-15", folder)

	data, err := store.GetFile(context.Background(), folder+"/index.html")
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(data))

	reports, err := store.ListReports(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{folder + "/index.html"}, reports)
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Weekly Market Report": "weekly-market-report",
		"  Q3 / 2024  ":        "q3-2024",
		"daily_brief":          "daily_brief",
		"Ünïcode!":             "unicode",
		"":                     "report",
		"***":                  "report",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), "Slug(%q)", in)
	}

	cyrillic := Slug("Ежедневный отчёт")
	assert.NotEqual(t, "report", cyrillic)
	assert.Regexp(t, `^[a-z0-9_]+(-[a-z0-9_]+)*$`, cyrillic)
	assert.Contains(t, cyrillic, "-", "words stay separated")
}
