package main

import (
	"context"
	"fmt"

	"github.com/edusight/edusight/core"
	"github.com/edusight/edusight/core/user"
)

func (cli *commandLine) addUser(name, email, pwd string, isAdmin bool) error {
	roles := []string{user.RoleStudent}
	if isAdmin {
		roles = user.AllRoles
	}

	usr, err := cli.usrSvc.Create(context.Background(), user.NewUser{
		Name:     core.CleanString(name),
		Email:    core.CleanString(email, true /* lower */),
		Password: pwd,
		Roles:    roles,
	})
	if err != nil {
		return err
	}
	fmt.Printf("user %q (%s) created\n", usr.Name, usr.Email)
	return nil
}
