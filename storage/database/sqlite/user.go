package sqliterepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/enrollment"
	"github.com/shulehq/shule/core/payment"
	"github.com/shulehq/shule/core/user"
)

type userRepository struct {
	exec core.DBExecutor
}

var (
	_ user.Repository          = (*userRepository)(nil) // interface compliance check
	_ enrollment.UserDirectory = (*userRepository)(nil)
	_ payment.PayerRecords     = (*userRepository)(nil)
)

func NewUserRepository(exec core.DBExecutor) *userRepository {
	return &userRepository{exec: exec}
}

// trapNoRowsErr maps sqlite "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	q := `
INSERT INTO users (registration_id, name, email, phone, password, role, status,
                   student_name, student_grade, gender, documents, selected_class,
                   registration_fee, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id`
	err := getExec(repo.exec, exec).QueryRowxContext(ctx, q,
		usr.RegistrationID, usr.Name, usr.Email, usr.Phone, usr.PasswordHash,
		usr.Role, usr.Status, usr.StudentName, usr.StudentGrade, usr.Gender,
		usr.Documents, usr.SelectedClass, usr.RegistrationFee, usr.CreatedAt,
	).Scan(&usr.ID)
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) GetUserByID(ctx context.Context, id int, exec ...core.DBExecutor) (user.User, error) {
	var usr user.User
	if err := getExec(repo.exec, exec).GetContext(ctx, &usr, `SELECT * FROM users WHERE id = ?`, id); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by ID")
	}
	return usr, nil
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string, exec ...core.DBExecutor) (user.User, error) {
	var usr user.User
	if err := getExec(repo.exec, exec).GetContext(ctx, &usr, `SELECT * FROM users WHERE email = ?`, email); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by email")
	}
	return usr, nil
}

func (repo userRepository) GetUserByRegistrationID(ctx context.Context, regID string, exec ...core.DBExecutor) (user.User, error) {
	var usr user.User
	if err := getExec(repo.exec, exec).GetContext(ctx, &usr, `SELECT * FROM users WHERE registration_id = ?`, regID); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user by registration ID")
	}
	return usr, nil
}

func (repo userRepository) EmailExists(ctx context.Context, email string, exec ...core.DBExecutor) (bool, error) {
	var exists bool
	err := getExec(repo.exec, exec).QueryRowxContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)`, email).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "checking email uniqueness")
	}
	return exists, nil
}

func (repo userRepository) QueryUsersByStatus(ctx context.Context, status string, exec ...core.DBExecutor) ([]user.User, error) {
	users := make([]user.User, 0)
	err := getExec(repo.exec, exec).SelectContext(ctx, &users,
		`SELECT * FROM users WHERE status = ? ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, errors.Wrap(err, "querying users by status")
	}
	return users, nil
}

func (repo userRepository) UpdateStatus(ctx context.Context, regID, status string, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`UPDATE users SET status = ? WHERE registration_id = ?`, status, regID)
	return errors.Wrap(err, "updating user status")
}

func (repo userRepository) UpdateStudentApplication(ctx context.Context, userID int, app user.StudentApplication, exec ...core.DBExecutor) error {
	q := `
UPDATE users
SET selected_class = ?, documents = ?, bank_name = ?, account_number = ?,
    account_holder_name = ?, registration_fee = ?, status = 'pending', paid = 'ok'
WHERE id = ?`
	_, err := getExec(repo.exec, exec).ExecContext(ctx, q,
		app.SelectedClass, app.Documents, app.BankName, app.AccountNumber,
		app.AccountHolderName, app.RegistrationFee, userID)
	return errors.Wrap(err, "updating student application")
}

func (repo userRepository) UpdateTeacherApplication(ctx context.Context, userID int, app user.TeacherApplication, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`UPDATE users SET documents = ?, status = 'pending', paid = 'ok' WHERE id = ?`,
		app.Documents, userID)
	return errors.Wrap(err, "updating teacher application")
}

func (repo userRepository) DeleteUserByID(ctx context.Context, id int, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	return errors.Wrap(err, "deleting user")
}

func (repo userRepository) GetUserRole(ctx context.Context, userID int, exec ...core.DBExecutor) (string, error) {
	var role string
	err := getExec(repo.exec, exec).QueryRowxContext(ctx,
		`SELECT role FROM users WHERE id = ?`, userID).Scan(&role)
	if err != nil {
		return "", repo.trapNoRowsErr(err, "finding user role")
	}
	return role, nil
}

func (repo userRepository) UpdatePaidClass(ctx context.Context, userID int, paidClass string, exec ...core.DBExecutor) error {
	_, err := getExec(repo.exec, exec).ExecContext(ctx,
		`UPDATE users SET paid_class = ? WHERE id = ?`, paidClass, userID)
	return errors.Wrap(err, "updating paid class")
}
