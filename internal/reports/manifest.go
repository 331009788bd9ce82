package reports

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidManifest wraps every manifest validation failure
var ErrInvalidManifest = errors.New("invalid report manifest")

// Section kinds
const (
	KindHeading   = "heading"
	KindParagraph = "paragraph"
	KindMarkdown  = "markdown"
	KindKPI       = "kpi"
	KindCards     = "cards"
	KindRow       = "row"
	KindChart     = "chart"
	KindSparkline = "sparkline"
	KindFeed      = "feed"
	KindHTML      = "html"
)

// Stylesheet choices
const (
	StyleReport = "report"
	StyleCard   = "card"
	StyleBoth   = "both"
)

// Manifest describes one report: header metadata and ordered tabs
type Manifest struct {
	Title      string `yaml:"title"`
	Author     string `yaml:"author"`
	Date       string `yaml:"date"`
	Time       string `yaml:"time"`
	Timezone   string `yaml:"timezone"`
	Image      string `yaml:"image"`
	Stylesheet string `yaml:"stylesheet"`
	Tabs       []Tab  `yaml:"tabs"`
}

// Tab is one switchable page of the report
type Tab struct {
	Title    string    `yaml:"title"`
	Sections []Section `yaml:"sections"`
}

// Section is one fragment inside a tab. Which fields apply depends on Kind.
type Section struct {
	Kind string `yaml:"kind"`

	// heading, paragraph, markdown, html
	Text  string `yaml:"text,omitempty"`
	Level int    `yaml:"level,omitempty"`

	// kpi
	Value      float64   `yaml:"value,omitempty"`
	Thresholds []float64 `yaml:"thresholds,omitempty"`
	Sentences  []string  `yaml:"sentences,omitempty"`

	// cards
	Cards []Card `yaml:"cards,omitempty"`

	// row
	Sections []Section `yaml:"sections,omitempty"`

	// chart
	Chart *Chart `yaml:"chart,omitempty"`

	// sparkline
	Values []float64 `yaml:"values,omitempty"`
	Width  int       `yaml:"width,omitempty"`
	Height int       `yaml:"height,omitempty"`
	Alt    string    `yaml:"alt,omitempty"`

	// feed
	URL   string `yaml:"url,omitempty"`
	Limit int    `yaml:"limit,omitempty"`
}

// Card is a single price card
type Card struct {
	Ticker string `yaml:"ticker"`
	Price  string `yaml:"price"`
	Color  string `yaml:"color,omitempty"`
}

// Chart configures an interactive chart section
type Chart struct {
	Type   string        `yaml:"type"`
	ID     string        `yaml:"id,omitempty"`
	Title  string        `yaml:"title,omitempty"`
	Labels []string      `yaml:"labels"`
	Series []ChartSeries `yaml:"series"`
}

// ChartSeries is one named series of a chart
type ChartSeries struct {
	Name   string    `yaml:"name"`
	Values []float64 `yaml:"values"`
}

// ParseManifest decodes and validates a YAML manifest. Unknown keys are
// rejected.
func ParseManifest(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads and parses a manifest file
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Validate checks the manifest structure. A missing SUMMARY tab is not an
// error; Assemble logs it.
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidManifest)
	}
	switch m.Stylesheet {
	case "", StyleReport, StyleCard, StyleBoth:
	default:
		return fmt.Errorf("%w: unknown stylesheet %q", ErrInvalidManifest, m.Stylesheet)
	}
	if len(m.Tabs) == 0 {
		return fmt.Errorf("%w: at least one tab is required", ErrInvalidManifest)
	}

	seen := make(map[string]bool, len(m.Tabs))
	for i, tab := range m.Tabs {
		if tab.Title == "" {
			return fmt.Errorf("%w: tab %d has no title", ErrInvalidManifest, i)
		}
		// titles land unescaped in an id attribute and a JS string
		if strings.ContainsAny(tab.Title, `'"<>&\`) {
			return fmt.Errorf("%w: tab title %q contains markup characters", ErrInvalidManifest, tab.Title)
		}
		if seen[tab.Title] {
			return fmt.Errorf("%w: duplicate tab title %q", ErrInvalidManifest, tab.Title)
		}
		seen[tab.Title] = true

		for j, s := range tab.Sections {
			if err := s.validate(); err != nil {
				return fmt.Errorf("%w: tab %q section %d: %v", ErrInvalidManifest, tab.Title, j, err)
			}
		}
	}

	return nil
}

func (s *Section) validate() error {
	switch s.Kind {
	case KindHeading, KindParagraph, KindMarkdown, KindHTML:
		return nil
	case KindKPI:
		// shape errors render empty at assembly time
		return nil
	case KindCards:
		if len(s.Cards) == 0 {
			return errors.New("cards section has no cards")
		}
	case KindRow:
		if len(s.Sections) == 0 {
			return errors.New("row section has no sections")
		}
		for i := range s.Sections {
			if err := s.Sections[i].validate(); err != nil {
				return fmt.Errorf("row element %d: %w", i, err)
			}
		}
	case KindChart:
		if s.Chart == nil {
			return errors.New("chart section has no chart")
		}
		if s.Chart.Type != "line" && s.Chart.Type != "bar" {
			return fmt.Errorf("unknown chart type %q", s.Chart.Type)
		}
	case KindSparkline:
		if len(s.Values) < 2 {
			return errors.New("sparkline needs at least 2 values")
		}
	case KindFeed:
		if s.URL == "" {
			return errors.New("feed section has no url")
		}
	case "":
		return errors.New("section kind is required")
	default:
		return fmt.Errorf("unknown section kind %q", s.Kind)
	}
	return nil
}

// FeedURLs returns the distinct feed URLs referenced by the manifest in
// document order.
func (m *Manifest) FeedURLs() []string {
	var urls []string
	seen := map[string]bool{}

	var walk func(sections []Section)
	walk = func(sections []Section) {
		for _, s := range sections {
			if s.Kind == KindFeed && !seen[s.URL] {
				seen[s.URL] = true
				urls = append(urls, s.URL)
			}
			walk(s.Sections)
		}
	}
	for _, tab := range m.Tabs {
		walk(tab.Sections)
	}
	return urls
}
