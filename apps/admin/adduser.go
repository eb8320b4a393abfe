package main

import (
	"context"
	"fmt"

	"github.com/trezcool/darasa/core/user"
)

// addUser creates a user.User with the given role
func (cli *commandLine) addUser(ctx context.Context, uname, role, pwd string) error {
	nu := user.NewUser{
		Username: uname,
		Password: pwd,
		Role:     user.Role(role),
	}
	if err := nu.Validate(cli.validate); err != nil {
		return err
	}

	usr, err := cli.usrSvc.Register(ctx, nu)
	if err != nil {
		return err
	}
	fmt.Printf("%s %q created (id: %d)\n", usr.Role, usr.Username, usr.ID)
	return nil
}
