package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/shulehq/shule/core"
	"github.com/shulehq/shule/core/user"
)

// addAdmin creates an approved admin account ready to log in.
func (cli *commandLine) addAdmin(name, email, pwd string) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	exists, err := cli.usrRepo.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return user.ErrEmailExists
	}

	usr := user.User{
		RegistrationID: "ADM-" + uuid.NewString(),
		Name:           name,
		Email:          email,
		Role:           user.RoleAdmin,
		Status:         user.StatusApproved,
		CreatedAt:      time.Now().UTC(),
	}
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	_, err = cli.usrRepo.CreateUser(ctx, usr)
	return err
}
