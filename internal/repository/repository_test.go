package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"studentrecords/internal/entity"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "postgres"), mock
}

var studentCols = []string{"id", "name", "age", "grade", "email", "phone", "address", "created_at"}

func TestUserCreateDuplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "hash").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), "alice", "hash")
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("Create() error = %v, want ErrDuplicate", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestUserGetByUsernameNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`FROM users\s+WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByUsername() error = %v, want ErrNotFound", err)
	}
}

func TestStudentCreateThenGet(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStudentRepository(db)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	s := &entity.Student{Name: "Ada", Age: 17, Grade: "11A", Email: "ada@example.com"}

	mock.ExpectQuery(`INSERT INTO students`).
		WithArgs("Ada", 17, "11A", "ada@example.com", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(5, now))

	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.ID != 5 || !s.CreatedAt.Equal(now) {
		t.Fatalf("Create did not fill id/created_at: %+v", s)
	}

	mock.ExpectQuery(`FROM students WHERE id = \$1`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(studentCols).
			AddRow(5, "Ada", 17, "11A", "ada@example.com", "", "", now))

	got, err := repo.Get(context.Background(), 5)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if *got != *s {
		t.Errorf("Get() = %+v, want %+v", *got, *s)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestStudentGetNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`FROM students WHERE id = \$1`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(studentCols))

	_, err := repo.Get(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStudentListSearchEscapesPattern(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStudentRepository(db)

	mock.ExpectQuery(`WHERE name ILIKE \$1 ORDER BY id`).
		WithArgs(`%50\%%`).
		WillReturnRows(sqlmock.NewRows(studentCols))

	students, err := repo.List(context.Background(), "50%")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if students == nil || len(students) != 0 {
		t.Errorf("List() = %#v, want empty non-nil slice", students)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestStudentListAll(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStudentRepository(db)
	now := time.Now()

	mock.ExpectQuery(`FROM students ORDER BY id`).
		WillReturnRows(sqlmock.NewRows(studentCols).
			AddRow(1, "Ada", 17, "11A", "", "", "", now).
			AddRow(2, "Alan", 18, "12B", "", "555", "", now))

	students, err := repo.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(students) != 2 || students[1].Phone != "555" {
		t.Errorf("List() = %+v", students)
	}
}

func TestStudentUpdateMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStudentRepository(db)

	mock.ExpectExec(`UPDATE students`).
		WithArgs("Ada", 17, "11A", "", "", "", 9).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &entity.Student{ID: 9, Name: "Ada", Age: 17, Grade: "11A"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestStudentDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStudentRepository(db)

	mock.ExpectExec(`DELETE FROM students WHERE id = \$1`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM students WHERE id = \$1`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), 3); err != nil {
		t.Fatalf("first Delete: %v", err)
	}
	if err := repo.Delete(context.Background(), 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestStudentSetCourses(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec(`DELETE FROM enrollments WHERE student_id = \$1`).WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO enrollments`).WithArgs(4, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	if err := repo.SetCourses(context.Background(), 4, []int{1, 2}); err != nil {
		t.Fatalf("SetCourses: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestStudentSetCoursesMissingStudent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	err := repo.SetCourses(context.Background(), 4, []int{1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("SetCourses() error = %v, want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCourseListWithCounts(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCourseRepository(db)

	mock.ExpectQuery(`LEFT JOIN enrollments`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "student_count"}).
			AddRow(1, "Biology", "Cells", 0).
			AddRow(2, "Physics", "Mechanics", 3))

	courses, err := repo.ListWithCounts(context.Background())
	if err != nil {
		t.Fatalf("ListWithCounts: %v", err)
	}
	if len(courses) != 2 || courses[1].Name != "Physics" || courses[1].StudentCount != 3 {
		t.Errorf("ListWithCounts() = %+v", courses)
	}
}

func TestMarkAddMissingStudent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMarkRepository(db)

	mock.ExpectQuery(`INSERT INTO marks`).
		WithArgs(8, "Math", 90).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := repo.Add(context.Background(), &entity.Mark{StudentID: 8, Subject: "Math", Score: 90})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Add() error = %v, want ErrNotFound", err)
	}
}

func TestMarkDeleteReturnsStudent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMarkRepository(db)

	mock.ExpectQuery(`DELETE FROM marks WHERE id = \$1 RETURNING student_id`).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"student_id"}).AddRow(6))

	studentID, err := repo.Delete(context.Background(), 11)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if studentID != 6 {
		t.Errorf("Delete() student = %d, want 6", studentID)
	}
}

func TestLikePattern(t *testing.T) {
	cases := map[string]string{
		"ann":   "%ann%",
		"a_b":   `%a\_b%`,
		`back\`: `%back\\%`,
		"100%":  `%100\%%`,
	}
	for in, want := range cases {
		if got := likePattern(in); got != want {
			t.Errorf("likePattern(%q) = %q, want %q", in, got, want)
		}
	}
}
