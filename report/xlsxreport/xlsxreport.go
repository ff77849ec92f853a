// Package xlsxreport renders a report.Data into a spreadsheet, grounded
// on the teacher's report-svc excel generator: a styled summary sheet
// plus a raw-data sheet, written through excelize's cell-by-cell API.
package xlsxreport

import (
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/go-argmin/argmin/report"
)

func cellAddr(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// Write renders data as an .xlsx workbook at path: a "Summary" sheet
// with the run's terminal facts and counters, and a "History" sheet
// with one row per recorded iteration.
func Write(path string, data report.Data) error {
	f := excelize.NewFile()
	defer f.Close()
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}

	if err := writeSummary(f, data, headerStyle); err != nil {
		return err
	}
	if err := writeHistory(f, data, headerStyle); err != nil {
		return err
	}

	return f.SaveAs(path)
}

func writeSummary(f *excelize.File, data report.Data, headerStyle int) error {
	const sheet = "Summary"
	f.NewSheet(sheet)

	row := 1
	f.SetCellValue(sheet, cellAddr("A", row), "Optimization Run Summary")
	f.MergeCell(sheet, cellAddr("A", row), cellAddr("B", row))
	row += 2

	rows := [][2]any{
		{"Run ID", data.RunID},
		{"Solver", data.SolverName},
		{"Termination Reason", data.TerminationReason},
		{"Iterations", data.Iterations},
		{"Best Cost", data.BestCost},
		{"Elapsed", data.Elapsed.String()},
	}
	for _, r := range rows {
		f.SetCellValue(sheet, cellAddr("A", row), r[0])
		f.SetCellValue(sheet, cellAddr("B", row), r[1])
		row++
	}
	row++

	if len(data.Counts) > 0 {
		f.SetCellValue(sheet, cellAddr("A", row), "Evaluation Counters")
		if err := f.SetCellStyle(sheet, cellAddr("A", row), cellAddr("B", row), headerStyle); err != nil {
			return err
		}
		row++

		names := make([]string, 0, len(data.Counts))
		for name := range data.Counts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			f.SetCellValue(sheet, cellAddr("A", row), name)
			f.SetCellValue(sheet, cellAddr("B", row), data.Counts[name])
			row++
		}
	}

	return f.SetColWidth(sheet, "A", "B", 22)
}

func writeHistory(f *excelize.File, data report.Data, headerStyle int) error {
	const sheet = "History"
	f.NewSheet(sheet)

	headers := []string{"Iter", "Cost", "Is Best"}
	for i, h := range headers {
		f.SetCellValue(sheet, cellAddr(string(rune('A'+i)), 1), h)
	}
	if err := f.SetCellStyle(sheet, "A1", "C1", headerStyle); err != nil {
		return err
	}

	for i, rec := range data.History {
		row := i + 2
		f.SetCellValue(sheet, cellAddr("A", row), rec.Iter)
		f.SetCellValue(sheet, cellAddr("B", row), rec.Cost)
		f.SetCellValue(sheet, cellAddr("C", row), rec.IsBest)
	}

	return f.SetColWidth(sheet, "A", "C", 14)
}
