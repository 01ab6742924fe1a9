package entity

import "time"

// Student is a record managed from the dashboard. Email, Phone and Address
// are optional and stored as NULL when empty.
type Student struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Age       int       `json:"age" db:"age"`
	Grade     string    `json:"grade" db:"grade"`
	Email     string    `json:"email,omitempty" db:"email"`
	Phone     string    `json:"phone,omitempty" db:"phone"`
	Address   string    `json:"address,omitempty" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type Course struct {
	ID          int    `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
}

// CourseSummary is a course together with the number of enrolled students.
type CourseSummary struct {
	Course
	StudentCount int `json:"student_count" db:"student_count"`
}

type Mark struct {
	ID        int    `json:"id" db:"id"`
	StudentID int    `json:"student_id" db:"student_id"`
	Subject   string `json:"subject" db:"subject"`
	Score     int    `json:"score" db:"score"`
}

// StudentProfile is everything shown on the student page.
type StudentProfile struct {
	Student Student
	Courses []Course
	Marks   []Mark
}
