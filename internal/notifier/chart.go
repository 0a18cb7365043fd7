package notifier

import (
	"bytes"

	"aifinverse-backend/internal/types"
	"aifinverse-backend/lib/helpers"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// renderFeedChart draws a sparkline of the visible feed's prices. The feed
// is static sample data, so the series is synthesized from each record's
// display price with a small RSI-weighted drift to give the line a shape.
func renderFeedChart(market string, records []types.AlertRecord) ([]byte, error) {
	if len(records) == 0 {
		return nil, errors.New("no records to render")
	}

	var xs, ys []float64
	x := 0.0
	for _, rec := range records {
		price := helpers.ParseDisplayPrice(rec.Price)
		rsi := helpers.ParseDisplayPrice(rec.RSI)
		drift := price * (rsi - 50) / 1000

		for i := 0; i < 4; i++ {
			xs = append(xs, x)
			ys = append(ys, price+drift*float64(i))
			x++
		}
	}

	lineColor := drawing.Color{R: 0, G: 122, B: 255, A: 255}

	graph := chart.Chart{
		Title:  market + " alert feed",
		Width:  1200,
		Height: 400,
		Background: chart.Style{
			FillColor: drawing.Color{R: 55, G: 55, B: 55, A: 255},
		},
		Canvas: chart.Style{
			FillColor: drawing.Color{R: 55, G: 55, B: 55, A: 255},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return helpers.FormatPriceUS(f, false)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeColor: lineColor,
					FillColor:   lineColor.WithAlpha(25),
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, errors.Wrap(err, "could not render feed chart")
	}
	return buf.Bytes(), nil
}
