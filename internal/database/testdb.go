package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "github.com/aspectfv/talento-mvp/internal/model"
	"github.com/aspectfv/talento-mvp/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported seeded fixtures shared by controller tests.
var (
	TestCompanyA m.Company
	TestCompanyB m.Company

	TestSuperadmin     m.User
	TestAdminA         m.User
	TestAdminB         m.User
	TestAdminNoCompany m.User
	TestSeeker1        m.User
	TestSeeker2        m.User

	TestJobActiveA   m.Job
	TestJobInactiveA m.Job
	TestJobActiveB   m.Job

	TestApplicationSeeker1 m.Application

	// Plain password shared by every seeded account
	TestSeedPassword = "SeedPass123!"
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts two companies, scoped admins, seekers, jobs and one
// application, populating the exported fixture variables.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return loadTestData(db)
	}

	companies := []m.Company{
		{Name: "TechNova", Website: "https://technova.example.com", Description: "Innovative platform solutions"},
		{Name: "DataForge", Website: "https://dataforge.example.com", Description: "Data analytics consulting"},
	}
	if err := db.Create(&companies).Error; err != nil {
		return err
	}
	TestCompanyA = companies[0]
	TestCompanyB = companies[1]

	hashedPwd, err := utilities.HashPassword(TestSeedPassword)
	if err != nil {
		return err
	}

	users := []m.User{
		{Email: "root@talento.example.com", Password: hashedPwd, Role: m.RoleSuperadmin},
		{Email: "admin@technova.example.com", Password: hashedPwd, Role: m.RoleAdmin, CompanyID: &TestCompanyA.ID, FirstName: "Ada", LastName: "Novak"},
		{Email: "admin@dataforge.example.com", Password: hashedPwd, Role: m.RoleAdmin, CompanyID: &TestCompanyB.ID, FirstName: "Ben", LastName: "Forge"},
		{Email: "floating.admin@talento.example.com", Password: hashedPwd, Role: m.RoleAdmin},
		{
			Email: "alice@student.example.com", Password: hashedPwd, Role: m.RoleSeeker,
			FirstName: "Alice", LastName: "Nguyen", University: "Chulalongkorn University",
			Skills:    pq.StringArray{"Go", "SQL"},
			Interests: pq.StringArray{"Backend", "Data"},
		},
		{
			Email: "bob@student.example.com", Password: hashedPwd, Role: m.RoleSeeker,
			FirstName: "Bob", LastName: "Somsak", University: "Kasetsart University",
			Skills: pq.StringArray{"TypeScript", "React"},
		},
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}
	assignUsers(users)

	jobs := []m.Job{
		{
			CompanyID: TestCompanyA.ID, CreatedByUserID: TestAdminA.ID,
			Title: "Backend Engineer", Description: "Work on Go services and database layers.",
			Location: "Bangkok (Hybrid)", EmploymentType: m.EmploymentFullTime, IsActive: true,
		},
		{
			CompanyID: TestCompanyA.ID, CreatedByUserID: TestAdminA.ID,
			Title: "Frontend Developer", Description: "Build the component library.",
			Location: "Remote", EmploymentType: m.EmploymentContract, IsActive: false,
		},
		{
			CompanyID: TestCompanyB.ID, CreatedByUserID: TestAdminB.ID,
			Title: "Data Analyst", Description: "Support data cleansing and dashboards.",
			Location: "Chiang Mai", EmploymentType: m.EmploymentInternship, IsActive: true,
		},
	}
	if err := db.Create(&jobs).Error; err != nil {
		return err
	}
	TestJobActiveA = jobs[0]
	TestJobInactiveA = jobs[1]
	TestJobActiveB = jobs[2]

	TestApplicationSeeker1 = m.Application{
		JobID:  TestJobActiveA.ID,
		UserID: TestSeeker1.ID,
		Status: m.ApplicationStatusApplied,
	}
	return db.Create(&TestApplicationSeeker1).Error
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	var companies []m.Company
	if err := db.Where("name IN ?", []string{"TechNova", "DataForge"}).Order("id ASC").Find(&companies).Error; err != nil {
		return err
	}
	for _, c := range companies {
		switch c.Name {
		case "TechNova":
			TestCompanyA = c
		case "DataForge":
			TestCompanyB = c
		}
	}

	var users []m.User
	if err := db.Where("email LIKE ?", "%example.com").Find(&users).Error; err != nil {
		return err
	}
	assignUsers(users)

	var jobs []m.Job
	if err := db.Order("id ASC").Limit(3).Find(&jobs).Error; err != nil {
		return err
	}
	if len(jobs) > 2 {
		TestJobActiveA = jobs[0]
		TestJobInactiveA = jobs[1]
		TestJobActiveB = jobs[2]
	}

	return db.Where("job_id = ? AND user_id = ?", TestJobActiveA.ID, TestSeeker1.ID).
		First(&TestApplicationSeeker1).Error
}

func assignUsers(users []m.User) {
	for _, u := range users {
		switch u.Email {
		case "root@talento.example.com":
			TestSuperadmin = u
		case "admin@technova.example.com":
			TestAdminA = u
		case "admin@dataforge.example.com":
			TestAdminB = u
		case "floating.admin@talento.example.com":
			TestAdminNoCompany = u
		case "alice@student.example.com":
			TestSeeker1 = u
		case "bob@student.example.com":
			TestSeeker2 = u
		}
	}
}
