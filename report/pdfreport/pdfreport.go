// Package pdfreport renders a report.Data into a one-page PDF summary,
// grounded on the teacher's report-svc PDF generator: a maroto document
// built from a title row, metric-card rows, and bordered data tables.
package pdfreport

import (
	"fmt"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/go-argmin/argmin/report"
)

var (
	headerBgColor  = &props.Color{Red: 44, Green: 62, Blue: 80}
	primaryColor   = &props.Color{Red: 52, Green: 152, Blue: 219}
	successColor   = &props.Color{Red: 39, Green: 174, Blue: 96}
	dangerColor    = &props.Color{Red: 231, Green: 76, Blue: 60}
	lightGrayColor = &props.Color{Red: 236, Green: 240, Blue: 241}
	darkGrayColor  = &props.Color{Red: 127, Green: 140, Blue: 141}

	titleStyle = props.Text{Size: 20, Style: fontstyle.Bold, Align: align.Center, Color: headerBgColor}
	h2Style    = props.Text{Size: 14, Style: fontstyle.Bold, Color: headerBgColor, Top: 4}
	smallStyle = props.Text{Size: 8, Color: darkGrayColor}
	boldStyle  = props.Text{Size: 10, Style: fontstyle.Bold}
	normStyle  = props.Text{Size: 10}

	metricValueStyle = props.Text{Size: 18, Style: fontstyle.Bold, Align: align.Center, Color: primaryColor}
	metricLabelStyle = props.Text{Size: 9, Align: align.Center, Color: darkGrayColor}

	tableHeaderStyle     = &props.Cell{BackgroundColor: primaryColor}
	tableHeaderTextStyle = props.Text{Size: 9, Style: fontstyle.Bold, Color: &props.Color{Red: 255, Green: 255, Blue: 255}, Align: align.Center}
	tableCellStyle       = &props.Cell{BorderType: border.Bottom, BorderColor: lightGrayColor}
	tableCellTextStyle   = props.Text{Size: 9, Align: align.Center}
)

// Build renders data into a one-page PDF and returns its bytes.
func Build(data report.Data) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addSummary(m, data)
	if len(data.Counts) > 0 {
		addCounters(m, data)
	}
	if len(data.History) > 0 {
		addHistory(m, data)
	}
	addFooter(m)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate pdf: %w", err)
	}
	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, data report.Data) {
	m.AddRow(14, text.NewCol(12, "Optimization Run Report", titleStyle))
	m.AddRow(5, line.NewCol(12))
	m.AddRow(6,
		text.NewCol(6, fmt.Sprintf("Run: %s", data.RunID), smallStyle),
		text.NewCol(6, fmt.Sprintf("Generated: %s", time.Now().Format("2006-01-02 15:04:05")),
			props.Text{Size: 8, Color: darkGrayColor, Align: align.Right}),
	)
	m.AddRow(8)
}

func addSummary(m core.Maroto, data report.Data) {
	m.AddRow(10, text.NewCol(12, "Summary", h2Style))
	m.AddRow(2, line.NewCol(12, props.Line{Color: primaryColor}))
	m.AddRow(5)

	statusStyle := metricValueStyle
	if data.TerminationReason == "SolverConverged" || data.TerminationReason == "TargetCostReached" {
		statusStyle.Color = successColor
	} else if data.TerminationReason == "Interrupt" || data.TerminationReason == "Timeout" {
		statusStyle.Color = dangerColor
	}

	m.AddRow(20,
		col.New(4).Add(text.New(data.SolverName, metricValueStyle), text.New("Solver", metricLabelStyle)),
		col.New(4).Add(text.New(fmt.Sprintf("%d", data.Iterations), metricValueStyle), text.New("Iterations", metricLabelStyle)),
		col.New(4).Add(text.New(data.TerminationReason, statusStyle), text.New("Termination", metricLabelStyle)),
	)

	m.AddRow(6,
		text.NewCol(6, "Best Cost", boldStyle),
		text.NewCol(6, fmt.Sprintf("%.6g", data.BestCost), normStyle),
	)
	m.AddRow(6,
		text.NewCol(6, "Elapsed", boldStyle),
		text.NewCol(6, data.Elapsed.String(), normStyle),
	)
}

func addCounters(m core.Maroto, data report.Data) {
	m.AddRow(10, text.NewCol(12, "Evaluation Counters", h2Style))
	m.AddRow(2, line.NewCol(12, props.Line{Color: primaryColor}))

	for name, n := range data.Counts {
		m.AddRow(6,
			text.NewCol(6, name, boldStyle),
			text.NewCol(6, fmt.Sprintf("%d", n), normStyle),
		)
	}
}

func addHistory(m core.Maroto, data report.Data) {
	m.AddRow(10, text.NewCol(12, "Iteration History", h2Style))
	m.AddRow(2, line.NewCol(12, props.Line{Color: primaryColor}))

	m.AddRow(8,
		text.NewCol(4, "Iter", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(4, "Cost", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
		text.NewCol(4, "Best", tableHeaderTextStyle).WithStyle(tableHeaderStyle),
	)

	const maxRows = 40
	records := data.History
	truncated := false
	if len(records) > maxRows {
		records = records[len(records)-maxRows:]
		truncated = true
	}
	if truncated {
		m.AddRow(5, text.NewCol(12, fmt.Sprintf("showing last %d of %d iterations", maxRows, len(data.History)), smallStyle))
	}

	for _, rec := range records {
		m.AddRow(6,
			text.NewCol(4, fmt.Sprintf("%d", rec.Iter), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(4, fmt.Sprintf("%.6g", rec.Cost), tableCellTextStyle).WithStyle(tableCellStyle),
			text.NewCol(4, fmt.Sprintf("%v", rec.IsBest), tableCellTextStyle).WithStyle(tableCellStyle),
		)
	}
}

func addFooter(m core.Maroto) {
	m.AddRow(8)
	m.AddRow(2, line.NewCol(12, props.Line{Color: lightGrayColor}))
	m.AddRow(6, text.NewCol(12, "Generated by argmin", props.Text{Size: 8, Color: darkGrayColor, Align: align.Center}))
}
