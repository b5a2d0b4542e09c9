package commands

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/treesketch/pkg/alg/lsh"
)

const (
	plotChartWidth  = "1200px"
	plotChartHeight = "600px"
	plotLabelRotate = 45
)

// writeDedupePlot renders the pair similarities as an HTML bar chart.
func writeDedupePlot(path string, pairs []lsh.Pair) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  plotChartWidth,
			Height: plotChartHeight,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Near-duplicate pairs",
			Subtitle: "estimated Jaccard similarity per document pair",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{
			AxisLabel: &opts.AxisLabel{Rotate: plotLabelRotate, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Similarity", Max: 1}),
	)

	labels := make([]string, len(pairs))
	data := make([]opts.BarData, len(pairs))

	for i, pair := range pairs {
		labels[i] = fmt.Sprintf("%s ~ %s", pair.A, pair.B)
		data[i] = opts.BarData{Value: pair.Similarity}
	}

	bar.SetXAxis(labels)
	bar.AddSeries("Similarity", data)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}

	defer f.Close()

	err = bar.Render(f)
	if err != nil {
		return fmt.Errorf("render plot: %w", err)
	}

	return nil
}
