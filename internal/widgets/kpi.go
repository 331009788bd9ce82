package widgets

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrKPIShape reports a threshold/sentence combination other than 1/2 or 2/3
var ErrKPIShape = errors.New("KPI condition is not correctly set")

// Bands is a KPI configuration: either TwoBand or ThreeBand
type Bands interface {
	render(value float64) string
}

// TwoBand splits values at a single threshold
type TwoBand struct {
	Threshold float64
	Below     string // value < Threshold
	Above     string // everything else
}

// ThreeBand splits values into low, between and high bands
type ThreeBand struct {
	Low     float64
	High    float64
	Below   string // value < Low
	Between string
	Above   string // value > High
}

// ParseKPI converts list-shaped thresholds and sentences into Bands. Only
// one threshold with two sentences or two thresholds with three sentences
// are supported.
func ParseKPI(thresholds []float64, sentences []string) (Bands, error) {
	switch {
	case len(thresholds) == 1 && len(sentences) == 2:
		return TwoBand{
			Threshold: thresholds[0],
			Below:     sentences[0],
			Above:     sentences[1],
		}, nil
	case len(thresholds) == 2 && len(sentences) == 3:
		return ThreeBand{
			Low:     thresholds[0],
			High:    thresholds[1],
			Below:   sentences[0],
			Between: sentences[1],
			Above:   sentences[2],
		}, nil
	default:
		return nil, fmt.Errorf("%w: %d thresholds, %d sentences", ErrKPIShape, len(thresholds), len(sentences))
	}
}

// RenderKPI renders the colored KPI line for value. Comparisons are strict,
// so a value equal to a threshold falls in the upper band.
func RenderKPI(bands Bands, value float64) string {
	if bands == nil {
		return ""
	}
	return bands.render(value)
}

// KPI renders a KPI from list-shaped input. An unsupported shape is logged
// and yields an empty fragment rather than an error.
func (b *Builder) KPI(thresholds []float64, sentences []string, value float64) string {
	bands, err := ParseKPI(thresholds, sentences)
	if err != nil {
		b.log.Warn("Error. KPI condition is not correctly set", map[string]interface{}{
			"thresholds": len(thresholds),
			"sentences":  len(sentences),
		})
		return ""
	}
	return RenderKPI(bands, value)
}

func (t TwoBand) render(value float64) string {
	if value < t.Threshold {
		return kpiFail(t.Below, value, t.Threshold)
	}
	return kpiPass(t.Above, value, t.Threshold)
}

func (t ThreeBand) render(value float64) string {
	if value < t.Low {
		return kpiFail(t.Below, value, t.Low)
	}
	if value > t.High {
		return kpiPass(t.Above, value, t.High)
	}
	return fmt.Sprintf(`<p style="color:orange">&#128993; %s. %s < %s < %s </p>`,
		t.Between, formatNumber(t.Low), formatNumber(value), formatNumber(t.High))
}

func kpiFail(sentence string, value, threshold float64) string {
	return fmt.Sprintf(`<p style="color:red">&#10060; %s. %s < %s </p>`,
		sentence, formatNumber(value), formatNumber(threshold))
}

func kpiPass(sentence string, value, threshold float64) string {
	return fmt.Sprintf(`<p style="color:green">&#x2705; %s. %s > %s </p>`,
		sentence, formatNumber(value), formatNumber(threshold))
}

// formatNumber prints the shortest representation: 5, 7.5, 0.001
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
