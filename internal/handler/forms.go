package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"studentrecords/internal/entity"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type RegisterForm struct {
	Username string `validate:"required,max=100"`
	Password string `validate:"required"`
}

type LoginForm struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
}

// StudentForm holds the editable student fields; email, phone and
// address are optional.
type StudentForm struct {
	Name    string `validate:"required,max=100"`
	Age     int    `validate:"gte=0,lte=150"`
	Grade   string `validate:"required,max=50"`
	Email   string `validate:"max=120"`
	Phone   string `validate:"max=20"`
	Address string `validate:"max=200"`
}

type MarkForm struct {
	Subject string `validate:"required,max=100"`
	Score   int    `validate:"gte=0,lte=100"`
}

func (f StudentForm) Student(id int) entity.Student {
	return entity.Student{
		ID:      id,
		Name:    f.Name,
		Age:     f.Age,
		Grade:   f.Grade,
		Email:   f.Email,
		Phone:   f.Phone,
		Address: f.Address,
	}
}

// formError is a user-facing problem with submitted form data.
type formError struct {
	msg string
}

func (e *formError) Error() string { return e.msg }

func parseRegisterForm(r *http.Request) (RegisterForm, error) {
	if err := r.ParseForm(); err != nil {
		return RegisterForm{}, &formError{"Could not read the form"}
	}
	f := RegisterForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	return f, check(f)
}

func parseLoginForm(r *http.Request) (LoginForm, error) {
	if err := r.ParseForm(); err != nil {
		return LoginForm{}, &formError{"Could not read the form"}
	}
	f := LoginForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	return f, check(f)
}

func parseStudentForm(r *http.Request) (StudentForm, error) {
	if err := r.ParseForm(); err != nil {
		return StudentForm{}, &formError{"Could not read the form"}
	}
	age, err := formInt(r, "age", "Age")
	if err != nil {
		return StudentForm{}, err
	}
	f := StudentForm{
		Name:    strings.TrimSpace(r.PostFormValue("name")),
		Age:     age,
		Grade:   strings.TrimSpace(r.PostFormValue("grade")),
		Email:   strings.TrimSpace(r.PostFormValue("email")),
		Phone:   strings.TrimSpace(r.PostFormValue("phone")),
		Address: strings.TrimSpace(r.PostFormValue("address")),
	}
	return f, check(f)
}

func parseMarkForm(r *http.Request) (MarkForm, error) {
	if err := r.ParseForm(); err != nil {
		return MarkForm{}, &formError{"Could not read the form"}
	}
	score, err := formInt(r, "score", "Score")
	if err != nil {
		return MarkForm{}, err
	}
	f := MarkForm{
		Subject: strings.TrimSpace(r.PostFormValue("subject")),
		Score:   score,
	}
	return f, check(f)
}

func formInt(r *http.Request, field, label string) (int, error) {
	raw := strings.TrimSpace(r.PostFormValue(field))
	if raw == "" {
		return 0, &formError{label + " is required"}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &formError{label + " must be a whole number"}
	}
	return n, nil
}

// check runs the validator and turns the first failure into a formError.
func check(form interface{}) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return &formError{fmt.Sprintf("%s is required", fe.Field())}
	case "max":
		return &formError{fmt.Sprintf("%s is too long (max %s characters)", fe.Field(), fe.Param())}
	case "gte":
		return &formError{fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())}
	case "lte":
		return &formError{fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())}
	default:
		return &formError{fmt.Sprintf("%s is invalid", fe.Field())}
	}
}

func formMessage(err error) string {
	var fe *formError
	if errors.As(err, &fe) {
		return fe.msg
	}
	return "Invalid form data"
}
