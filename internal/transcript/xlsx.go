package transcript

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Transcript"

// WriteXLSX writes t as a single-sheet workbook: one block per grade year
// followed by the GPA and credit totals and the marker legend.
func WriteXLSX(w io.Writer, t Transcript) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	credits, err := f.NewStyle(&excelize.Style{NumFmt: 2}) // 0.00
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	sw := &sheetWriter{f: f}
	sw.row(bold, "Official High School Transcript")
	sw.row(0, "Student", t.StudentID)
	sw.skip()

	for _, y := range t.Years {
		sw.row(bold, fmt.Sprintf("Grade %d", y.GradeLevel))
		if len(y.Lines) == 0 {
			sw.row(0, "No courses recorded.")
			sw.skip()
			continue
		}
		sw.row(bold, "Course Title", "Grade", "Credit")
		for _, l := range y.Lines {
			sw.row(0, l.DisplayTitle(), l.Grade, l.Credits)
			sw.style(credits, 3)
		}
		sw.skip()
	}

	sw.row(bold, "Cumulative GPA", t.GPA.String())
	sw.row(bold, "Total Credits", t.TotalCredits)
	sw.style(credits, 2)
	sw.skip()
	for _, n := range Notes {
		sw.row(0, n)
	}
	if sw.err != nil {
		return fmt.Errorf("write transcript sheet: %w", sw.err)
	}

	if err := f.SetColWidth(sheetName, "A", "A", 48); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// sheetWriter appends rows to the transcript sheet, keeping the first
// error.
type sheetWriter struct {
	f   *excelize.File
	r   int
	err error
}

func (s *sheetWriter) skip() { s.r++ }

// row writes values into the next row, styling all of them when style is
// non-zero.
func (s *sheetWriter) row(style int, values ...any) {
	s.r++
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(1, s.r)
	if err != nil {
		s.err = err
		return
	}
	if err := s.f.SetSheetRow(sheetName, cell, &values); err != nil {
		s.err = err
		return
	}
	if style != 0 {
		last, _ := excelize.CoordinatesToCellName(len(values), s.r)
		s.err = s.f.SetCellStyle(sheetName, cell, last, style)
	}
}

// style applies a style to column col of the current row.
func (s *sheetWriter) style(style, col int) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, s.r)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetCellStyle(sheetName, cell, cell, style)
}
