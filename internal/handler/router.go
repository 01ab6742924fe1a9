package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"studentrecords/internal/middleware"
	"studentrecords/internal/session"
	"studentrecords/internal/templates"
)

// Deps are the services the routes are built from.
type Deps struct {
	Credentials Credentials
	Students    StudentStore
	Courses     CourseStore
	Marks       MarkStore
	Sessions    *session.Manager
}

// NewRouter wires every route. Everything except the home, register,
// login, logout, health and static routes requires a logged-in user.
func NewRouter(d Deps) http.Handler {
	p := newPages(d.Sessions)

	homeHandler := NewHomeHandler(p)
	authHandler := NewAuthHandler(d.Credentials, d.Sessions, p)
	studentHandler := NewStudentHandler(d.Students, d.Courses, d.Marks, p)
	courseHandler := NewCourseHandler(d.Courses, p)
	markHandler := NewMarkHandler(d.Marks, p)

	r := mux.NewRouter()
	r.Use(middleware.Logging)

	r.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	r.HandleFunc("/health", Health).Methods(http.MethodGet)
	r.HandleFunc("/register", authHandler.RegisterPage).Methods(http.MethodGet)
	r.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", authHandler.LoginPage).Methods(http.MethodGet)
	r.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	r.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodGet)
	r.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.FS(templates.Static))))

	protected := r.NewRoute().Subrouter()
	protected.Use(middleware.RequireAuth(d.Sessions))

	protected.HandleFunc("/dashboard", studentHandler.Dashboard).Methods(http.MethodGet)
	protected.HandleFunc("/add_student", studentHandler.AddStudentPage).Methods(http.MethodGet)
	protected.HandleFunc("/add_student", studentHandler.AddStudent).Methods(http.MethodPost)
	protected.HandleFunc("/edit_student/{id:[0-9]+}", studentHandler.EditStudentPage).Methods(http.MethodGet)
	protected.HandleFunc("/edit_student/{id:[0-9]+}", studentHandler.EditStudent).Methods(http.MethodPost)
	protected.HandleFunc("/view_student/{id:[0-9]+}", studentHandler.ViewStudent).Methods(http.MethodGet)
	protected.HandleFunc("/delete_student/{id:[0-9]+}", studentHandler.DeleteStudent).Methods(http.MethodGet)
	protected.HandleFunc("/enroll_student/{id:[0-9]+}", studentHandler.EnrollPage).Methods(http.MethodGet)
	protected.HandleFunc("/enroll_student/{id:[0-9]+}", studentHandler.Enroll).Methods(http.MethodPost)
	protected.HandleFunc("/export_students", studentHandler.ExportStudents).Methods(http.MethodGet)
	protected.HandleFunc("/add_mark/{id:[0-9]+}", markHandler.AddMark).Methods(http.MethodPost)
	protected.HandleFunc("/delete_mark/{id:[0-9]+}", markHandler.DeleteMark).Methods(http.MethodGet)
	protected.HandleFunc("/courses", courseHandler.Courses).Methods(http.MethodGet)

	return r
}
