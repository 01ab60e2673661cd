package user

import (
	"regexp"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"
	"golang.org/x/crypto/bcrypt"

	"github.com/shulehq/shule/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Registration statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

var AllRoles = []string{RoleStudent, RoleTeacher, RoleAdmin}

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type User struct {
	ID                int          `json:"id" db:"id"`
	RegistrationID    string       `json:"registration_id" db:"registration_id"`
	Name              string       `json:"name" db:"name"`
	Email             string       `json:"email" db:"email"`
	Phone             null.String  `json:"phone" db:"phone"`
	PasswordHash      []byte       `json:"-" db:"password"`
	Role              string       `json:"role" db:"role"`
	Status            string       `json:"status" db:"status"`
	StudentName       null.String  `json:"student_name" db:"student_name"`
	StudentGrade      null.String  `json:"student_grade" db:"student_grade"`
	Gender            null.String  `json:"gender" db:"gender"`
	Documents         null.String  `json:"documents" db:"documents"`
	SelectedClass     null.Int64   `json:"selected_class" db:"selected_class"`
	Paid              null.String  `json:"paid" db:"paid"`
	PaidClass         null.String  `json:"paid_class" db:"paid_class"`
	BankName          null.String  `json:"bank_name" db:"bank_name"`
	AccountNumber     null.String  `json:"account_number" db:"account_number"`
	AccountHolderName null.String  `json:"account_holder_name" db:"account_holder_name"`
	RegistrationFee   null.Float64 `json:"registration_fee" db:"registration_fee"`
	CreatedAt         time.Time    `json:"created_at" db:"created_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsStudent() bool { return u.Role == RoleStudent }

func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }

// PublicUser is the trimmed representation returned by the login endpoint.
type PublicUser struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// NewRegistration contains information needed to register a new User.
type NewRegistration struct {
	RegistrationID  string   `json:"registrationId"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Password        string   `json:"password"`
	Role            string   `json:"role" validate:"omitempty,oneof=student teacher admin"`
	StudentName     string   `json:"studentName"`
	StudentGrade    string   `json:"studentGrade"`
	Gender          string   `json:"gender"`
	Documents       string   `json:"documents"`
	SelectedClass   *int64   `json:"selectedClass"`
	RegistrationFee *float64 `json:"registrationFee"`
}

func (nr *NewRegistration) Validate() error {
	nr.Name = core.CleanString(nr.Name)
	nr.Email = core.CleanString(nr.Email, true /* lower */)
	nr.RegistrationID = core.CleanString(nr.RegistrationID)

	if nr.Name == "" || nr.Email == "" || nr.Password == "" || nr.Role == "" || nr.RegistrationID == "" {
		return core.NewValidationError(errors.New("Missing required fields"))
	}
	if !emailRegex.MatchString(nr.Email) {
		return core.NewValidationError(errors.New("Invalid email format"))
	}
	return core.Validate.Struct(nr)
}

// StudentApplication carries the fields a registered student must submit
// before approval.
type StudentApplication struct {
	SelectedClass     *int64   `json:"selectedClass"`
	Documents         string   `json:"documents"`
	BankName          string   `json:"bankName"`
	AccountNumber     string   `json:"accountNumber"`
	AccountHolderName string   `json:"accountHolderName"`
	RegistrationFee   *float64 `json:"registrationFee"`
}

func (sa *StudentApplication) Validate() error {
	if sa.SelectedClass == nil || sa.Documents == "" || sa.BankName == "" ||
		sa.AccountNumber == "" || sa.AccountHolderName == "" || sa.RegistrationFee == nil {
		return core.NewValidationError(errors.New("Missing required fields"))
	}
	return nil
}

// TeacherApplication carries the credential documents a teacher must submit.
type TeacherApplication struct {
	Documents string `json:"documents" validate:"required,b64doc"`
}

func (ta *TeacherApplication) Validate() error {
	if ta.Documents == "" {
		return core.NewValidationError(errors.New("Missing required fields"))
	}
	if err := core.Validate.Struct(ta); err != nil {
		return core.NewValidationError(errors.New("Invalid document format"))
	}
	return nil
}

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Credentials) Validate() error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	if c.Email == "" || c.Password == "" {
		return core.NewValidationError(errors.New("Email and password are required"))
	}
	return nil
}
