package inmemdb

import (
	"sync"

	"github.com/trezcool/shule/core/assessment"
	"github.com/trezcool/shule/core/otp"
	"github.com/trezcool/shule/core/remedial"
	"github.com/trezcool/shule/core/resource"
	"github.com/trezcool/shule/core/student"
	"github.com/trezcool/shule/core/user"
)

// DB is a map-backed store for tests and Postgres-less local runs.
type DB struct {
	mutex sync.RWMutex

	users       map[string]*user.User
	codes       map[string]*otp.OneTimeCode
	students    map[string]*student.Student
	assessments map[string]*assessment.Assessment
	plans       map[string]*remedial.Plan
	resources   map[string]*resource.Resource
}

func Open() *DB {
	return &DB{
		users:       make(map[string]*user.User),
		codes:       make(map[string]*otp.OneTimeCode),
		students:    make(map[string]*student.Student),
		assessments: make(map[string]*assessment.Assessment),
		plans:       make(map[string]*remedial.Plan),
		resources:   make(map[string]*resource.Resource),
	}
}
