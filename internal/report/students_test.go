package report

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"studentrecords/internal/entity"
)

func TestWriteStudents(t *testing.T) {
	students := []entity.Student{
		{ID: 1, Name: "Ada Lovelace", Age: 17, Grade: "11A", Email: "ada@example.com"},
		{ID: 2, Name: "Alan Turing", Age: 18, Grade: "12B", Phone: "555-0100", Address: "Bletchley"},
	}

	var buf bytes.Buffer
	if err := WriteStudents(&buf, students); err != nil {
		t.Fatalf("WriteStudents: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(studentsSheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][1] != "Name" || rows[0][6] != "Address" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "Ada Lovelace" || rows[1][2] != "17" || rows[1][4] != "ada@example.com" {
		t.Errorf("row 1 = %v", rows[1])
	}
	if rows[2][5] != "555-0100" || rows[2][6] != "Bletchley" {
		t.Errorf("row 2 = %v", rows[2])
	}
}

func TestWriteStudentsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteStudents(&buf, nil); err != nil {
		t.Fatalf("WriteStudents: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(studentsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("rows = %d, want header only", len(rows))
	}
}
