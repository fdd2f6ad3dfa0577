package chart

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/m3rciful/coinbot/bot/catalog"
	"github.com/m3rciful/coinbot/bot/market"
)

// Chart.js v2 configuration, the subset QuickChart needs for a price line.
type (
	Config struct {
		Type    string  `json:"type"`
		Data    Data    `json:"data"`
		Options ConfigOptions `json:"options"`
	}

	Data struct {
		Datasets []Dataset `json:"datasets"`
	}

	Dataset struct {
		Label       string  `json:"label"`
		Data        []XY    `json:"data"`
		Fill        bool    `json:"fill"`
		BorderColor string  `json:"borderColor"`
		Tension     float64 `json:"tension"`
		PointRadius int     `json:"pointRadius"`
	}

	// XY is a sample; X is a Unix timestamp in milliseconds.
	XY struct {
		X int64   `json:"x"`
		Y float64 `json:"y"`
	}

	ConfigOptions struct {
		Legend  Legend  `json:"legend"`
		Scales  Scales  `json:"scales"`
		Plugins Plugins `json:"plugins"`
	}

	Legend struct {
		Labels Ticks `json:"labels"`
	}

	Scales struct {
		XAxes []Axis `json:"xAxes"`
		YAxes []Axis `json:"yAxes"`
	}

	Axis struct {
		Type       string      `json:"type,omitempty"`
		Time       *TimeScale  `json:"time,omitempty"`
		Ticks      Ticks       `json:"ticks"`
		ScaleLabel *ScaleLabel `json:"scaleLabel,omitempty"`
	}

	TimeScale struct {
		Unit           string            `json:"unit"`
		StepSize       int               `json:"stepSize,omitempty"`
		DisplayFormats map[string]string `json:"displayFormats"`
	}

	Ticks struct {
		FontColor string `json:"fontColor"`
	}

	ScaleLabel struct {
		Display     bool   `json:"display"`
		LabelString string `json:"labelString"`
		FontColor   string `json:"fontColor"`
	}

	Plugins struct {
		Annotation AnnotationPlugin `json:"annotation"`
	}

	AnnotationPlugin struct {
		Annotations []Annotation `json:"annotations"`
	}

	Annotation struct {
		Type        string          `json:"type"`
		Mode        string          `json:"mode"`
		ScaleID     string          `json:"scaleID"`
		Value       float64         `json:"value"`
		BorderColor string          `json:"borderColor"`
		BorderWidth int             `json:"borderWidth"`
		Label       AnnotationLabel `json:"label"`
	}

	AnnotationLabel struct {
		Enabled         bool   `json:"enabled"`
		Position        string `json:"position"`
		BackgroundColor string `json:"backgroundColor"`
		Content         string `json:"content"`
		FontColor       string `json:"fontColor"`
	}
)

const (
	lineColor  = "rgb(75, 192, 192)"
	peakColor  = "rgba(0, 255, 0, 0.7)"
	lowColor   = "rgba(255, 0, 0, 0.7)"
	fontColor  = "white"
	yAxisID    = "y-axis-0"
	hourlyDays = 2
)

// Extremes returns the lowest and highest price of a non-empty series.
func Extremes(points []market.Point) (low, high decimal.Decimal) {
	low, high = points[0].Price, points[0].Price
	for _, p := range points[1:] {
		if p.Price.LessThan(low) {
			low = p.Price
		}
		if p.Price.GreaterThan(high) {
			high = p.Price
		}
	}
	return low, high
}

// TimeAxis picks hourly ticks every three hours for up to two days, daily ticks beyond.
func TimeAxis(days int) TimeScale {
	ts := TimeScale{DisplayFormats: map[string]string{"hour": "HH:mm", "day": "MMM D"}}
	if days <= hourlyDays {
		ts.Unit = "hour"
		ts.StepSize = 3
	} else {
		ts.Unit = "day"
	}
	return ts
}

// BuildConfig turns a non-empty series into a line chart with peak and low markers.
func BuildConfig(coin catalog.Crypto, fiat catalog.Fiat, days int, points []market.Point) Config {
	data := make([]XY, len(points))
	for i, p := range points {
		data[i] = XY{X: p.Time.UnixMilli(), Y: p.Price.InexactFloat64()}
	}
	low, high := Extremes(points)
	ts := TimeAxis(days)

	return Config{
		Type: "line",
		Data: Data{Datasets: []Dataset{{
			Label:       coin.Symbol + " to " + fiat.Code,
			Data:        data,
			BorderColor: lineColor,
			Tension:     0.1,
		}}},
		Options: ConfigOptions{
			Legend: Legend{Labels: Ticks{FontColor: fontColor}},
			Scales: Scales{
				XAxes: []Axis{{Type: "time", Time: &ts, Ticks: Ticks{FontColor: fontColor}}},
				YAxes: []Axis{{
					Ticks:      Ticks{FontColor: fontColor},
					ScaleLabel: &ScaleLabel{Display: true, LabelString: fiat.Symbol, FontColor: fontColor},
				}},
			},
			Plugins: Plugins{Annotation: AnnotationPlugin{Annotations: []Annotation{
				marker(high, "Peak: "+amount(fiat, high), peakColor),
				marker(low, "Low: "+amount(fiat, low), lowColor),
			}}},
		},
	}
}

func marker(v decimal.Decimal, content, color string) Annotation {
	return Annotation{
		Type:        "line",
		Mode:        "horizontal",
		ScaleID:     yAxisID,
		Value:       v.InexactFloat64(),
		BorderColor: color,
		BorderWidth: 2,
		Label: AnnotationLabel{
			Enabled:         true,
			Position:        "right",
			BackgroundColor: color,
			Content:         content,
			FontColor:       fontColor,
		},
	}
}

func amount(f catalog.Fiat, v decimal.Decimal) string {
	return message.NewPrinter(f.Locale).Sprint(number.Decimal(v.InexactFloat64(), number.MaxFractionDigits(2)))
}
