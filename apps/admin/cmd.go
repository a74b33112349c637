package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/shule/core/assessment"
	"github.com/trezcool/shule/core/remedial"
	"github.com/trezcool/shule/core/resource"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db     *sqlx.DB
	usrSvc user.Service
	stdSvc student.Service
	assSvc assessment.Service
	remSvc remedial.Service
	resSvc resource.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  adduser -name NAME -email EMAIL [-admin] - create a user; the password is prompted next")
	fmt.Println("  linkstudent -student ID -email EMAIL - link a student to an account; a password is prompted when the account does not exist")
	fmt.Println("  migrate - apply pending database migrations")
	fmt.Println("  seed - load demo data")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserEmail := addUserCmd.String("email", "", "The user's email. The password will be prompted next.")
	addUserAdmin := addUserCmd.Bool("admin", false, "Grant the admin role.")

	linkStudentCmd := flag.NewFlagSet("linkstudent", flag.ExitOnError)
	linkStudentID := linkStudentCmd.String("student", "", "The student's ID.")
	linkStudentEmail := linkStudentCmd.String("email", "", "The account's email.")

	switch args[1] {
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserName == "" || *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd, err := promptPassword()
		if err != nil {
			return err
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserEmail, pwd, *addUserAdmin)
	case "linkstudent":
		if err := linkStudentCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *linkStudentID == "" || *linkStudentEmail == "" {
			linkStudentCmd.Usage()
			return errHelp
		}
		return cli.linkStudent(*linkStudentID, *linkStudentEmail)
	case "migrate":
		return cli.migrate()
	case "seed":
		return cli.seed()
	default:
		cli.printUsage()
		return errHelp
	}
}

func promptPassword() (string, error) {
	fmt.Print("Enter password:")
	pwd, err := readPasswordFunc(syscall.Stdin)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
