package handler

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"studentrecords/internal/entity"
	"studentrecords/internal/repository"
)

type memUsers struct {
	mu     sync.Mutex
	nextID int
	byName map[string]entity.User
}

func newMemUsers() *memUsers {
	return &memUsers{byName: map[string]entity.User{}}
}

func (m *memUsers) Create(_ context.Context, username, hash string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[username]; ok {
		return nil, repository.ErrDuplicate
	}
	m.nextID++
	u := entity.User{ID: m.nextID, Username: username, PasswordHash: hash, CreatedAt: time.Now()}
	m.byName[username] = u
	return &u, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byName[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

// memStore backs students, courses and marks so cascades behave like the database.
type memStore struct {
	mu        sync.Mutex
	nextID    int
	students  map[int]entity.Student
	courses   []entity.Course
	enrolled  map[int]map[int]bool
	marks     map[int]entity.Mark
	nextMark  int
	mutations int
}

func newMemStore() *memStore {
	return &memStore{
		students: map[int]entity.Student{},
		courses: []entity.Course{
			{ID: 1, Name: "Mathematics", Description: "Algebra"},
			{ID: 2, Name: "Physics", Description: "Mechanics"},
		},
		enrolled: map[int]map[int]bool{},
		marks:    map[int]entity.Mark{},
	}
}

type memStudents struct{ *memStore }
type memCourses struct{ *memStore }
type memMarks struct{ *memStore }

func (m memStudents) Create(_ context.Context, s *entity.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations++
	m.nextID++
	s.ID = m.nextID
	s.CreatedAt = time.Now()
	m.students[s.ID] = *s
	return nil
}

func (m memStudents) List(_ context.Context, search string) ([]entity.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Student, 0)
	for _, s := range m.students {
		if search == "" || strings.Contains(strings.ToLower(s.Name), strings.ToLower(search)) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memStudents) Get(_ context.Context, id int) (*entity.Student, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (m memStudents) Update(_ context.Context, s *entity.Student) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations++
	old, ok := m.students[s.ID]
	if !ok {
		return repository.ErrNotFound
	}
	s.CreatedAt = old.CreatedAt
	m.students[s.ID] = *s
	return nil
}

func (m memStudents) Delete(_ context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations++
	if _, ok := m.students[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.students, id)
	delete(m.enrolled, id)
	for mid, mk := range m.marks {
		if mk.StudentID == id {
			delete(m.marks, mid)
		}
	}
	return nil
}

func (m memStudents) Courses(_ context.Context, id int) ([]entity.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Course, 0)
	for _, c := range m.courses {
		if m.enrolled[id][c.ID] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m memStudents) SetCourses(_ context.Context, id int, courseIDs []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations++
	if _, ok := m.students[id]; !ok {
		return repository.ErrNotFound
	}
	set := map[int]bool{}
	for _, cid := range courseIDs {
		for _, c := range m.courses {
			if c.ID == cid {
				set[cid] = true
			}
		}
	}
	m.enrolled[id] = set
	return nil
}

func (m memCourses) List(_ context.Context) ([]entity.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.Course(nil), m.courses...), nil
}

func (m memCourses) ListWithCounts(_ context.Context) ([]entity.CourseSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.CourseSummary, 0, len(m.courses))
	for _, c := range m.courses {
		n := 0
		for _, set := range m.enrolled {
			if set[c.ID] {
				n++
			}
		}
		out = append(out, entity.CourseSummary{Course: c, StudentCount: n})
	}
	return out, nil
}

func (m memMarks) Add(_ context.Context, mk *entity.Mark) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations++
	if _, ok := m.students[mk.StudentID]; !ok {
		return repository.ErrNotFound
	}
	m.nextMark++
	mk.ID = m.nextMark
	m.marks[mk.ID] = *mk
	return nil
}

func (m memMarks) ListByStudent(_ context.Context, studentID int) ([]entity.Mark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]entity.Mark, 0)
	for _, mk := range m.marks {
		if mk.StudentID == studentID {
			out = append(out, mk)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memMarks) Delete(_ context.Context, id int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutations++
	mk, ok := m.marks[id]
	if !ok {
		return 0, repository.ErrNotFound
	}
	delete(m.marks, id)
	return mk.StudentID, nil
}

func seededStudent() entity.Student {
	return entity.Student{ID: 1, Name: "Ada Lovelace", Age: 19, Grade: "A"}
}
