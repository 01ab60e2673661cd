package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/shulehq/shule/core"
)

var (
	ErrNotFound           = core.NewNotFoundError("User not found")
	ErrEmailExists        = core.NewConflictError("This email is already registered")
	ErrInvalidCredentials = core.NewAuthenticationError("Invalid email or password")
	ErrNotApproved        = core.NewPermissionError("Your account is pending approval")
	ErrInvalidStatus      = core.NewValidationError(errors.New("Invalid status"))
)

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		GetUserByID(ctx context.Context, id int, exec ...core.DBExecutor) (User, error)
		GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (User, error)
		GetUserByRegistrationID(ctx context.Context, regID string, exec ...core.DBExecutor) (User, error)
		EmailExists(ctx context.Context, email string, exec ...core.DBExecutor) (bool, error)
		QueryUsersByStatus(ctx context.Context, status string, exec ...core.DBExecutor) ([]User, error)
		UpdateStatus(ctx context.Context, regID, status string, exec ...core.DBExecutor) error
		UpdateStudentApplication(ctx context.Context, userID int, app StudentApplication, exec ...core.DBExecutor) error
		UpdateTeacherApplication(ctx context.Context, userID int, app TeacherApplication, exec ...core.DBExecutor) error
		DeleteUserByID(ctx context.Context, id int, exec ...core.DBExecutor) error
	}

	// CourseCatalog is the slice of the catalog the approval transition needs.
	CourseCatalog interface {
		CourseIDsByClass(ctx context.Context, classID int64, exec ...core.DBExecutor) ([]int, error)
	}

	// EnrollmentLedger covers the enrollment writes cascaded by a status change.
	EnrollmentLedger interface {
		StudentEnrollmentExists(ctx context.Context, studentID, courseID int, exec ...core.DBExecutor) (bool, error)
		CreateStudentEnrollment(ctx context.Context, studentID, courseID int, status string, exec ...core.DBExecutor) error
		DeleteStudentEnrollmentsByStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) error
		DeleteTeacherEnrollmentsByTeacher(ctx context.Context, teacherID int, exec ...core.DBExecutor) error
	}

	// AttendanceLedger covers the attendance writes cascaded by a rejection.
	AttendanceLedger interface {
		DeleteAttendanceByStudent(ctx context.Context, studentID int, exec ...core.DBExecutor) error
	}

	Service struct {
		db      core.DB
		repo    Repository
		courses CourseCatalog
		enrs    EnrollmentLedger
		att     AttendanceLedger
		mailSvc core.EmailService
		conf    *core.Config
	}
)

func NewService(
	db core.DB,
	repo Repository,
	courses CourseCatalog,
	enrs EnrollmentLedger,
	att AttendanceLedger,
	mailSvc core.EmailService,
	conf *core.Config,
) *Service {
	return &Service{
		db:      db,
		repo:    repo,
		courses: courses,
		enrs:    enrs,
		att:     att,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

// Register persists a new pending user application. The email must not be
// taken; the unique index backs up this check under concurrency.
func (svc *Service) Register(ctx context.Context, nr NewRegistration) (User, error) {
	exists, err := svc.repo.EmailExists(ctx, nr.Email)
	if err != nil {
		return User{}, err
	}
	if exists {
		return User{}, ErrEmailExists
	}

	usr := User{
		RegistrationID:  nr.RegistrationID,
		Name:            nr.Name,
		Email:           nr.Email,
		Phone:           null.NewString(nr.Phone, nr.Phone != ""),
		Role:            nr.Role,
		Status:          StatusPending,
		StudentName:     null.NewString(nr.StudentName, nr.StudentName != ""),
		StudentGrade:    null.NewString(nr.StudentGrade, nr.StudentGrade != ""),
		Gender:          null.NewString(nr.Gender, nr.Gender != ""),
		Documents:       null.NewString(nr.Documents, nr.Documents != ""),
		SelectedClass:   null.Int64FromPtr(nr.SelectedClass),
		RegistrationFee: null.Float64FromPtr(nr.RegistrationFee),
		CreatedAt:       time.Now().UTC(),
	}
	if err = usr.SetPassword(nr.Password); err != nil {
		return User{}, errors.Wrap(err, "hashing password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

// Authenticate checks the credentials and that the account has been approved.
func (svc *Service) Authenticate(ctx context.Context, creds Credentials) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, creds.Email)
	if err != nil {
		if _, ok := err.(*core.NotFoundError); ok {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err = usr.CheckPassword(creds.Password); err != nil {
		return User{}, ErrInvalidCredentials
	}
	if usr.Status != StatusApproved {
		return User{}, ErrNotApproved
	}
	return usr, nil
}

func (svc *Service) GetByID(ctx context.Context, id int) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByRegistrationID(ctx context.Context, regID string) (User, error) {
	return svc.repo.GetUserByRegistrationID(ctx, regID)
}

func (svc *Service) PendingRegistrations(ctx context.Context) ([]User, error) {
	return svc.repo.QueryUsersByStatus(ctx, StatusPending)
}

func (svc *Service) ApprovedRegistrations(ctx context.Context) ([]User, error) {
	return svc.repo.QueryUsersByStatus(ctx, StatusApproved)
}

// SubmitStudentApplication records the student's class choice, documents and
// payment details, and puts the account back in the approval queue.
func (svc *Service) SubmitStudentApplication(ctx context.Context, userID int, app StudentApplication) error {
	if _, err := svc.repo.GetUserByID(ctx, userID); err != nil {
		return err
	}
	return svc.repo.UpdateStudentApplication(ctx, userID, app)
}

func (svc *Service) SubmitTeacherApplication(ctx context.Context, userID int, app TeacherApplication) error {
	if _, err := svc.repo.GetUserByID(ctx, userID); err != nil {
		return err
	}
	return svc.repo.UpdateTeacherApplication(ctx, userID, app)
}

// SetStatus transitions a registration to approved or rejected, cascading the
// side effects in one transaction:
//   - approved students are enrolled into every course of their selected class,
//     skipping pairs that already exist;
//   - rejected users lose their enrollments (and attendance, for students) and
//     the user row itself.
func (svc *Service) SetStatus(ctx context.Context, regID, status string) error {
	if status != StatusApproved && status != StatusRejected {
		return ErrInvalidStatus
	}

	var usr User
	err := core.Atomic(ctx, svc.db, func(tx core.DBExecutor) error {
		var err error
		usr, err = svc.repo.GetUserByRegistrationID(ctx, regID, tx)
		if err != nil {
			return err
		}
		if err = svc.repo.UpdateStatus(ctx, regID, status, tx); err != nil {
			return err
		}

		switch status {
		case StatusApproved:
			if usr.IsStudent() && usr.SelectedClass.Valid {
				return svc.enrollInSelectedClass(ctx, usr, tx)
			}
		case StatusRejected:
			return svc.purgeRejected(ctx, usr, tx)
		}
		return nil
	})
	if err != nil {
		return err
	}

	svc.notifyStatusChange(usr, status)
	return nil
}

func (svc *Service) enrollInSelectedClass(ctx context.Context, usr User, tx core.DBExecutor) error {
	courseIDs, err := svc.courses.CourseIDsByClass(ctx, usr.SelectedClass.Int64, tx)
	if err != nil {
		return err
	}
	for _, courseID := range courseIDs {
		exists, err := svc.enrs.StudentEnrollmentExists(ctx, usr.ID, courseID, tx)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err = svc.enrs.CreateStudentEnrollment(ctx, usr.ID, courseID, StatusApproved, tx); err != nil {
			return err
		}
	}
	return nil
}

func (svc *Service) purgeRejected(ctx context.Context, usr User, tx core.DBExecutor) error {
	if usr.IsStudent() {
		if err := svc.enrs.DeleteStudentEnrollmentsByStudent(ctx, usr.ID, tx); err != nil {
			return err
		}
		if err := svc.att.DeleteAttendanceByStudent(ctx, usr.ID, tx); err != nil {
			return err
		}
	}
	if usr.IsTeacher() {
		if err := svc.enrs.DeleteTeacherEnrollmentsByTeacher(ctx, usr.ID, tx); err != nil {
			return err
		}
	}
	return svc.repo.DeleteUserByID(ctx, usr.ID, tx)
}

func (svc *Service) notifyStatusChange(usr User, status string) {
	if svc.mailSvc == nil || usr.Email == "" {
		return
	}
	var body string
	switch status {
	case StatusApproved:
		body = fmt.Sprintf("Hello %s,\n\nYour registration has been approved. You can now log in at %s.", usr.Name, svc.conf.FrontendBaseURL)
	case StatusRejected:
		body = fmt.Sprintf("Hello %s,\n\nWe are sorry to inform you that your registration has been rejected.", usr.Name)
	default:
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Name, Address: usr.Email}},
		Subject: "Registration " + status,
		Body:    body,
	})
}

// DeleteRegistration removes a registration by its registration id.
func (svc *Service) DeleteRegistration(ctx context.Context, regID string) error {
	usr, err := svc.repo.GetUserByRegistrationID(ctx, regID)
	if err != nil {
		if _, ok := err.(*core.NotFoundError); ok {
			return core.NewNotFoundError("Registration not found")
		}
		return err
	}
	return svc.repo.DeleteUserByID(ctx, usr.ID)
}
