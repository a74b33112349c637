package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
)

// linkStudent attaches the account with the given email to the student.
// A password is only prompted when the account does not exist yet.
func (cli *commandLine) linkStudent(studentID, email string) error {
	ctx := context.Background()

	var pwd string
	if _, err := cli.usrSvc.GetByEmail(ctx, email); err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		var pErr error
		if pwd, pErr = promptPassword(); pErr != nil {
			return pErr
		}
	}

	userID, err := cli.stdSvc.Link(ctx, student.LinkStudent{
		StudentID: studentID,
		Email:     email,
		Password:  pwd,
	})
	if err != nil {
		return err
	}
	fmt.Printf("linked student %s to user %s\n", studentID, userID)
	return nil
}
