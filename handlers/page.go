package handlers

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/Dosada05/livescores-dashboard/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(
	template.New("").Funcs(template.FuncMap{
		"date": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format(models.DateLayout)
		},
		"px": func(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) },
	}).ParseFS(templateFS, "templates/*.html"),
)

// Геометрия SVG-графика в пикселях
const (
	chartPlotHeight = 280.0
	chartTop        = 16.0
	chartLeft       = 48.0
	chartBottom     = 96.0
	chartGroupWidth = 56.0
	chartBarWidth   = 20.0
	chartGroupPad   = 8.0
)

type chartRect struct {
	X, Y, W, H float64
	Color      string
	Title      string
}

type chartLabel struct {
	X, Y float64
	Text string
}

type chartView struct {
	Width, Height float64
	AxisY         float64
	AxisX         float64
	Rects         []chartRect
	Labels        []chartLabel
	Ticks         []chartLabel
}

// newChartView lays out one bar group per chart row, home score first.
func newChartView(chart *models.ScoreChart) *chartView {
	if chart == nil || len(chart.Bars) == 0 {
		return nil
	}

	baseline := chartTop + chartPlotHeight
	view := &chartView{
		Width:  chartLeft + float64(len(chart.Bars))*chartGroupWidth + chartGroupPad,
		Height: baseline + chartBottom,
		AxisY:  baseline,
		AxisX:  chartLeft,
	}
	scale := chartPlotHeight / float64(chart.Max)

	for _, v := range slices.Compact([]int{0, (chart.Max + 1) / 2, chart.Max}) {
		view.Ticks = append(view.Ticks, chartLabel{X: chartLeft - 6, Y: baseline - float64(v)*scale + 4, Text: strconv.Itoa(v)})
	}

	for i, bar := range chart.Bars {
		x := chartLeft + float64(i)*chartGroupWidth + chartGroupPad
		values := []int{bar.HomeScore, bar.AwayScore}
		for s, value := range values {
			// отрицательный счёт рисуется нулевой полосой
			h := max(float64(value)*scale, 0)
			title := fmt.Sprintf("%s: %s %d", bar.Label, chart.Series[s], value)
			if bar.Missing {
				title += " (missing scores plotted as 0)"
			}
			view.Rects = append(view.Rects, chartRect{
				X:     x + float64(s)*chartBarWidth,
				Y:     baseline - h,
				W:     chartBarWidth - 2,
				H:     h,
				Color: chart.Colors[s],
				Title: title,
			})
		}
		view.Labels = append(view.Labels, chartLabel{X: x + chartBarWidth, Y: baseline + 12, Text: bar.Label})
	}
	return view
}

type pageView struct {
	Dashboard *models.Dashboard
	Table     [][]string
	Chart     *chartView
}

func newPageView(dash *models.Dashboard) pageView {
	view := pageView{
		Dashboard: dash,
		Table:     make([][]string, 0, len(dash.Rows)),
		Chart:     newChartView(dash.Chart),
	}
	for i := range dash.Rows {
		row := make([]string, len(dash.Columns))
		for c, col := range dash.Columns {
			row[c] = dash.Rows[i].Field(col)
		}
		view.Table = append(view.Table, row)
	}
	return view
}

type errorView struct {
	Status  int
	Title   string
	Message string
}

// renderHTML executes name into a buffer first so a template failure never
// leaves a half-written page.
func renderHTML(w http.ResponseWriter, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func errorPage(w http.ResponseWriter, r *http.Request, status int, message string) {
	view := errorView{Status: status, Title: http.StatusText(status), Message: message}
	if err := renderHTML(w, status, "error", view); err != nil {
		serverErrorResponse(w, r, err)
	}
}
