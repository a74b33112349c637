package main

import (
	"context"
	"fmt"

	"github.com/trezcool/shule/core/user"
)

func (cli *commandLine) addUser(name, email, pwd string, isAdmin bool) error {
	role := user.RoleTeacher
	if isAdmin {
		role = user.RoleAdmin
	}

	usr, err := cli.usrSvc.Signup(context.Background(), user.NewUser{
		Name:     name,
		Email:    email,
		Password: pwd,
		Role:     string(role),
	})
	if err != nil {
		return err
	}
	fmt.Printf("created %s user %s (%s)\n", usr.Role, usr.Email, usr.ID)
	return nil
}
