package main

import (
	"log"
	"os"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assessment"
	"github.com/trezcool/shule/core/otp"
	"github.com/trezcool/shule/core/remedial"
	"github.com/trezcool/shule/core/resource"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
	emailsvc "github.com/trezcool/shule/services/email"
	"github.com/trezcool/shule/storage/database"
	pgrepos "github.com/trezcool/shule/storage/database/postgres"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(err)

	// connect eagerly; admin commands have no business running against a
	// half-ready store
	lazy := database.NewLazy(conf)
	db, err := lazy.Get()
	errAndDie(err)
	defer lazy.Close()
	errAndDie(db.Ping())

	otpSvc := otp.NewService(pgrepos.NewOTPRepository(lazy), emailsvc.NewConsoleService(conf), conf)
	usrSvc := user.NewService(pgrepos.NewUserRepository(lazy), otpSvc)
	stdSvc := student.NewService(pgrepos.NewStudentRepository(lazy), usrSvc)

	cli := commandLine{
		db:     db,
		usrSvc: usrSvc,
		stdSvc: stdSvc,
		assSvc: assessment.NewService(pgrepos.NewAssessmentRepository(lazy)),
		remSvc: remedial.NewService(pgrepos.NewRemedialRepository(lazy)),
		resSvc: resource.NewService(pgrepos.NewResourceRepository(lazy)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
