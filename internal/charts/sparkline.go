package charts

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	sparklineWidth  = 160
	sparklineHeight = 40
)

// Sparkline renders values as a small PNG line without axes;
// non-positive dimensions fall back to 160x40
func Sparkline(values []float64, width, height int) ([]byte, error) {
	if len(values) < 2 {
		return nil, fmt.Errorf("sparkline needs at least 2 points, got %d: %w", len(values), ErrNoData)
	}
	if width <= 0 {
		width = sparklineWidth
	}
	if height <= 0 {
		height = sparklineHeight
	}

	xValues := make([]float64, len(values))
	minV, maxV := values[0], values[0]
	for i, v := range values {
		xValues[i] = float64(i)
		minV = min(minV, v)
		maxV = max(maxV, v)
	}

	// go-chart refuses a zero-height range
	if minV == maxV {
		minV--
		maxV++
	}

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 2, Left: 2, Right: 2, Bottom: 2},
		},
		XAxis: chart.XAxis{
			Style: chart.Style{Hidden: true},
		},
		YAxis: chart.YAxis{
			Style: chart.Style{Hidden: true},
			Range: &chart.ContinuousRange{Min: minV, Max: maxV},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeColor: drawing.Color{R: 51, G: 102, B: 204, A: 255},
					StrokeWidth: 2,
				},
				XValues: xValues,
				YValues: values,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render sparkline: %w", err)
	}
	return buf.Bytes(), nil
}

// ImageTag embeds a PNG as a data URI image element
func ImageTag(png []byte, alt string) string {
	return fmt.Sprintf(`<img src="data:image/png;base64,%s" alt="%s">`,
		base64.StdEncoding.EncodeToString(png), html.EscapeString(alt))
}
