package capability

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	contractx "github.com/roamfit/roamfit/agent/contract"
)

const (
	chartWidth  = 10 * vg.Inch
	chartHeight = 6 * vg.Inch
)

func (s *Stats) Chart(ctx context.Context, kind contractx.ChartKind) (contractx.ChartData, error) {
	switch kind {
	case contractx.ChartFrequency, contractx.ChartEquipment:
	default:
		return contractx.ChartData{}, fmt.Errorf("%w: %q", contractx.ErrUnsupportedChartKind, kind)
	}

	workouts, err := s.store.ListWorkouts(ctx, chartHistoryLimit)
	if err != nil {
		return contractx.ChartData{}, fmt.Errorf("read workouts for chart: %w", err)
	}

	var p *plot.Plot
	switch kind {
	case contractx.ChartFrequency:
		p = frequencyPlot(workouts)
	case contractx.ChartEquipment:
		p = equipmentPlot(workouts)
	}

	img, err := renderPNG(p)
	if err != nil {
		return contractx.ChartData{}, fmt.Errorf("render %s chart: %w", kind, err)
	}

	return contractx.ChartData{
		Kind:        kind,
		Image:       img,
		ImageBase64: base64.StdEncoding.EncodeToString(img),
		Format:      "png",
	}, nil
}

// frequencyPlot charts workouts per week over the stored history.
func frequencyPlot(workouts []contractx.WorkoutRecord) *plot.Plot {
	p := plot.New()
	p.Title.Text = "Workout Frequency"
	if len(workouts) == 0 {
		return placeholderPlot(p)
	}

	counts := map[string]int{}
	for _, w := range workouts {
		y, wk := w.Date.ISOWeek()
		counts[fmt.Sprintf("%d-W%02d", y, wk)]++
	}
	weeks := make([]string, 0, len(counts))
	for wk := range counts {
		weeks = append(weeks, wk)
	}
	sort.Strings(weeks)

	values := make(plotter.Values, len(weeks))
	for i, wk := range weeks {
		values[i] = float64(counts[wk])
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return placeholderPlot(p)
	}
	p.Add(bars)
	p.NominalX(weeks...)
	p.Y.Label.Text = "Workouts"
	return p
}

// equipmentPlot charts how often each piece of equipment appears.
func equipmentPlot(workouts []contractx.WorkoutRecord) *plot.Plot {
	p := plot.New()
	p.Title.Text = "Equipment Usage"

	counts := map[string]int{}
	for _, w := range workouts {
		for _, item := range w.Equipment {
			counts[item]++
		}
	}
	if len(counts) == 0 {
		return placeholderPlot(p)
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] < counts[names[j]]
		}
		return names[i] < names[j]
	})

	values := make(plotter.Values, len(names))
	for i, name := range names {
		values[i] = float64(counts[name])
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return placeholderPlot(p)
	}
	bars.Horizontal = true
	p.Add(bars)
	p.NominalY(names...)
	p.X.Label.Text = "Uses"
	return p
}

// placeholderPlot keeps the chart endpoint total: an empty history still
// yields a valid PNG instead of an error.
func placeholderPlot(p *plot.Plot) *plot.Plot {
	labels, err := plotter.NewLabels(plotter.XYLabels{
		XYs:    []plotter.XY{{X: 0.5, Y: 0.5}},
		Labels: []string{"no data available"},
	})
	if err == nil {
		p.Add(labels)
	}
	p.HideAxes()
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	return p
}

func renderPNG(p *plot.Plot) ([]byte, error) {
	wt, err := p.WriterTo(chartWidth, chartHeight, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
