package forms

import "time"

type RegisterInput struct {
	Username       string `form:"username" validate:"required,max=150"`
	Email          string `form:"email" validate:"required,max=200,email"`
	Password       string `form:"password" validate:"required,maxbytes=72"`
	PasswordRepeat string `form:"password_repeat" validate:"required,eqfield=Password"`
}

func (in *RegisterInput) Validate() FieldErrors {
	trim(&in.Username, &in.Email)
	return check(in)
}

type LoginInput struct {
	Username string `form:"username" validate:"required,max=150"`
	Password string `form:"password" validate:"required,maxbytes=72"`
}

func (in *LoginInput) Validate() FieldErrors {
	trim(&in.Username)
	return check(in)
}

// PasswordChangeInput confirms the account by email before a new password is set.
type PasswordChangeInput struct {
	Email          string `form:"email" validate:"required,max=200,email"`
	Password       string `form:"password" validate:"required,maxbytes=72"`
	PasswordRepeat string `form:"password_repeat" validate:"required,eqfield=Password"`
}

func (in *PasswordChangeInput) Validate() FieldErrors {
	trim(&in.Email)
	return check(in)
}

type ListInput struct {
	Title       string `form:"title" validate:"required,max=100"`
	Description string `form:"description" validate:"required,max=300"`
}

func (in *ListInput) Validate() FieldErrors {
	trim(&in.Title, &in.Description)
	return check(in)
}

type TaskInput struct {
	Title       string `form:"title" validate:"required,max=100"`
	Description string `form:"description" validate:"required,max=300"`
	DueDate     string `form:"due_date" validate:"required,datetime=2006-01-02"`
	Priority    string `form:"priority" validate:"required,oneof=high medium low"`
}

// Validate checks the field rules and that the due date is not before today.
func (in *TaskInput) Validate(today time.Time) FieldErrors {
	trim(&in.Title, &in.Description, &in.DueDate, &in.Priority)
	fe := check(in)
	if fe.Get("due_date") == nil {
		checkDue(fe, in.DueDate, today)
	}
	return fe
}

func (in *TaskInput) Due() time.Time {
	d, _ := ParseDate(in.DueDate)
	return d
}

type TaskUpdateInput struct {
	TaskInput
	Status string `form:"status" validate:"required,oneof=done in-progress pending"`
}

// Validate rechecks the due date against today only when it differs from
// current, so tasks already past due can still be edited.
func (in *TaskUpdateInput) Validate(today, current time.Time) FieldErrors {
	trim(&in.Title, &in.Description, &in.DueDate, &in.Priority, &in.Status)
	fe := check(in)
	if fe.Get("due_date") == nil {
		if due := in.Due(); !due.Equal(dateOf(current)) {
			checkDue(fe, in.DueDate, today)
		}
	}
	return fe
}

func checkDue(fe FieldErrors, raw string, today time.Time) {
	due, err := ParseDate(raw)
	if err != nil {
		fe.Add("due_date", "Enter a valid date.")
		return
	}
	if due.Before(dateOf(today)) {
		fe.Add("due_date", "Enter a valid due date.")
	}
}

// dateOf truncates t to its calendar date, expressed in UTC to match ParseDate.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
