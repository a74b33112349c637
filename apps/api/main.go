package main

import (
	"log"
	"os"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assessment"
	"github.com/trezcool/shule/core/otp"
	"github.com/trezcool/shule/core/remedial"
	"github.com/trezcool/shule/core/resource"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
	emailsvc "github.com/trezcool/shule/services/email"
	logsvc "github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/storage/database"
	pgrepos "github.com/trezcool/shule/storage/database/postgres"
)

// TODO:
// - graceful shutdown
// - rate limit /api/otp/send
func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.NewConfig()
	errAndDie(std, err)

	var logger core.Logger
	if conf.Debug {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, conf)
	}

	// the DB connects on first use; requests arriving before that get a 503
	lazy := database.NewLazy(conf)
	defer lazy.Close()

	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	otpSvc := otp.NewService(pgrepos.NewOTPRepository(lazy), mailSvc, conf)
	usrSvc := user.NewService(pgrepos.NewUserRepository(lazy), otpSvc)
	stdSvc := student.NewService(pgrepos.NewStudentRepository(lazy), usrSvc)
	assSvc := assessment.NewService(pgrepos.NewAssessmentRepository(lazy))
	remSvc := remedial.NewService(pgrepos.NewRemedialRepository(lazy))
	resSvc := resource.NewService(pgrepos.NewResourceRepository(lazy))

	validate, translator := core.NewValidator()

	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:          conf.Server.Addr,
			Conf:          conf,
			Logger:        logger,
			Validate:      validate,
			Translator:    translator,
			UserSvc:       usrSvc,
			OTPSvc:        otpSvc,
			StudentSvc:    stdSvc,
			AssessmentSvc: assSvc,
			RemedialSvc:   remSvc,
			ResourceSvc:   resSvc,
			HealthCheck: func() error {
				db, err := lazy.Get()
				if err != nil {
					return err
				}
				return db.Ping()
			},
		},
	)
	app.Start()
}

func errAndDie(std *log.Logger, err error) {
	if err != nil {
		std.Fatal(err)
	}
}
