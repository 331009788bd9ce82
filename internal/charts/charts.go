// Package charts renders chart fragments that can be dropped into report
// tabs: interactive go-echarts charts embedded as self-contained frames and
// static go-chart sparklines embedded as data URIs
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"html"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const (
	defaultWidth  = "100%"
	defaultHeight = "360px"
)

// ErrNoData is returned when a chart has nothing to plot
var ErrNoData = errors.New("chart has no data")

// ChartSnippet is an embeddable chart fragment; HTML holds the complete
// markup ready for template substitution
type ChartSnippet struct {
	ID    string
	Title string
	HTML  string
}

// Series is one named data series over the chart labels
type Series struct {
	Name   string
	Values []float64
}

func validate(labels []string, series []Series) error {
	if len(labels) == 0 {
		return ErrNoData
	}
	if len(series) == 0 {
		return fmt.Errorf("no series: %w", ErrNoData)
	}
	for _, s := range series {
		if len(s.Values) != len(labels) {
			return fmt.Errorf("series %q has %d values for %d labels", s.Name, len(s.Values), len(labels))
		}
	}
	return nil
}

func globalOptions(id, title string) []echarts.GlobalOpts {
	return []echarts.GlobalOpts{
		echarts.WithInitializationOpts(opts.Initialization{
			ChartID: id,
			Theme:   types.ThemeWesteros,
			Width:   defaultWidth,
			Height:  defaultHeight,
		}),
		echarts.WithTitleOpts(opts.Title{
			Title: title,
		}),
	}
}

// Line builds an interactive line chart
func Line(id, title string, labels []string, series []Series) (ChartSnippet, error) {
	if err := validate(labels, series); err != nil {
		return ChartSnippet{}, fmt.Errorf("line chart %s: %w", id, err)
	}

	line := echarts.NewLine()
	line.SetGlobalOptions(globalOptions(id, title)...)
	line.SetXAxis(labels)
	for _, s := range series {
		data := make([]opts.LineData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(s.Name, data)
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		return ChartSnippet{}, fmt.Errorf("failed to render line chart %s: %w", id, err)
	}
	return frame(id, title, buf.String()), nil
}

// Bar builds an interactive bar chart
func Bar(id, title string, labels []string, series []Series) (ChartSnippet, error) {
	if err := validate(labels, series); err != nil {
		return ChartSnippet{}, fmt.Errorf("bar chart %s: %w", id, err)
	}

	bar := echarts.NewBar()
	bar.SetGlobalOptions(globalOptions(id, title)...)
	bar.SetXAxis(labels)
	for _, s := range series {
		data := make([]opts.BarData, len(s.Values))
		for i, v := range s.Values {
			data[i] = opts.BarData{Value: v}
		}
		bar.AddSeries(s.Name, data)
	}

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		return ChartSnippet{}, fmt.Errorf("failed to render bar chart %s: %w", id, err)
	}
	return frame(id, title, buf.String()), nil
}

// frame wraps a full chart page in an iframe so its scripts stay isolated
// from the report's tab script
func frame(id, title, page string) ChartSnippet {
	markup := fmt.Sprintf(`<iframe class="chart-frame" id="%s" title="%s" srcdoc="%s"></iframe>`,
		html.EscapeString(id), html.EscapeString(title), html.EscapeString(page))
	return ChartSnippet{ID: id, Title: title, HTML: markup}
}
