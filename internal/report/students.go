package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"studentrecords/internal/entity"
)

const studentsSheet = "Students"

var studentHeader = []interface{}{"ID", "Name", "Age", "Grade", "Email", "Phone", "Address"}

// WriteStudents writes students as an xlsx workbook with a header row.
func WriteStudents(w io.Writer, students []entity.Student) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", studentsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := f.SetSheetRow(studentsSheet, "A1", &studentHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, s := range students {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{s.ID, s.Name, s.Age, s.Grade, s.Email, s.Phone, s.Address}
		if err := f.SetSheetRow(studentsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write student %d: %w", s.ID, err)
		}
	}

	if err := f.SetColWidth(studentsSheet, "B", "B", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(studentsSheet, "E", "G", 28); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
