package job

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/aspectfv/talento-mvp/internal/auth"
	"github.com/aspectfv/talento-mvp/internal/database"
	"github.com/aspectfv/talento-mvp/internal/middleware"
	"github.com/aspectfv/talento-mvp/internal/model"
	"github.com/aspectfv/talento-mvp/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var jobTeardown func(context.Context, ...testcontainers.TerminateOption) error
	jobTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if jobTeardown != nil {
		_ = jobTeardown(ctx)
	}
}

func jobEngine() *gin.Engine {
	r := gin.New()
	jc := NewJobController(testDB)

	r.GET("/jobs", middleware.OptionalAuth(testDB), jc.GetJobsHandler)

	needAuth := r.Group("", middleware.RequireAuth(testDB))
	needAuth.GET("/jobs/:id", jc.GetJobByIDHandler)
	needAuth.GET("/jobs/:id/applications", middleware.CheckRole(model.RoleAdmin, model.RoleSuperadmin), jc.GetJobApplicationsHandler)
	needAuth.POST("/jobs", middleware.CheckRole(model.RoleAdmin, model.RoleSuperadmin), jc.CreateJobHandler)
	needAuth.PUT("/jobs/:id", middleware.CheckRole(model.RoleAdmin, model.RoleSuperadmin), jc.UpdateJobHandler)
	needAuth.DELETE("/jobs/:id", middleware.CheckRole(model.RoleAdmin, model.RoleSuperadmin), jc.DeleteJobHandler)
	return r
}

func token(t *testing.T, email string) string {
	t.Helper()
	tok, err := auth.GetAccessToken(t, testDB, email, database.TestSeedPassword)
	require.NoError(t, err)
	return tok
}

// seedJob inserts a job directly so mutation tests do not disturb the
// shared fixtures.
func seedJob(t *testing.T, companyID, createdBy uint, active bool) model.Job {
	t.Helper()
	j := model.Job{
		CompanyID:       companyID,
		CreatedByUserID: createdBy,
		Title:           fmt.Sprintf("Scratch role %d", time.Now().UnixNano()),
		Description:     "Temporary posting for a test case.",
		EmploymentType:  model.EmploymentFullTime,
		IsActive:        active,
	}
	require.NoError(t, testDB.Create(&j).Error)
	return j
}

func TestGetJobs_anonymousSeesActiveOnly(t *testing.T) {
	r := jobEngine()

	rec, resp := testutil.MakeJSONRequestList("", r, "/jobs")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, resp)
	for _, j := range resp {
		assert.Equal(t, true, j["is_active"], "job %v should be active", j["title"])
	}
}

func TestGetJobs_seekerSeesActiveAcrossCompanies(t *testing.T) {
	r := jobEngine()

	rec, resp := testutil.MakeJSONRequestList(token(t, database.TestSeeker1.Email), r, "/jobs")
	assert.Equal(t, http.StatusOK, rec.Code)

	titles := make(map[string]bool)
	for _, j := range resp {
		assert.Equal(t, true, j["is_active"])
		titles[j["title"].(string)] = true
	}
	assert.True(t, titles[database.TestJobActiveA.Title])
	assert.True(t, titles[database.TestJobActiveB.Title])
	assert.False(t, titles[database.TestJobInactiveA.Title])
}

func TestGetJobs_adminScopedToOwnCompany(t *testing.T) {
	r := jobEngine()

	rec, resp := testutil.MakeJSONRequestList(token(t, database.TestAdminA.Email), r, "/jobs")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, resp)
	for _, j := range resp {
		assert.Equal(t, float64(database.TestCompanyA.ID), j["company_id"])
	}
}

func TestGetJobs_adminWithoutCompanySeesNothing(t *testing.T) {
	r := jobEngine()

	rec, resp := testutil.MakeJSONRequestList(token(t, database.TestAdminNoCompany.Email), r, "/jobs")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, resp)
}

func TestGetJobs_superadminSeesInactive(t *testing.T) {
	r := jobEngine()

	rec, resp := testutil.MakeJSONRequestList(token(t, database.TestSuperadmin.Email), r, "/jobs")
	assert.Equal(t, http.StatusOK, rec.Code)

	var sawInactive bool
	for _, j := range resp {
		if j["is_active"] == false {
			sawInactive = true
		}
	}
	assert.True(t, sawInactive)
}

func TestCreateJob_adminPostsForOwnCompany(t *testing.T) {
	r := jobEngine()

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title":           "Platform Engineer",
		"description":     "Own the deployment pipeline.",
		"location":        "Bangkok",
		"employment_type": model.EmploymentFullTime,
	}, token(t, database.TestAdminA.Email), r, "/jobs", http.MethodPost)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(database.TestCompanyA.ID), resp["company_id"])
	assert.Equal(t, float64(database.TestAdminA.ID), resp["created_by_user_id"])
	assert.Equal(t, true, resp["is_active"])
}

func TestCreateJob_adminWithoutCompanyRejected(t *testing.T) {
	r := jobEngine()

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"title":           "Orphan role",
		"description":     "Should never be created.",
		"employment_type": model.EmploymentFullTime,
	}, token(t, database.TestAdminNoCompany.Email), r, "/jobs", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not associated with a company")
}

func TestCreateJob_seekerForbidden(t *testing.T) {
	r := jobEngine()

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"title":           "Sneaky role",
		"description":     "Seekers cannot post jobs.",
		"employment_type": model.EmploymentFullTime,
	}, token(t, database.TestSeeker1.Email), r, "/jobs", http.MethodPost)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateJob_invalidEmploymentType(t *testing.T) {
	r := jobEngine()

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"title":           "Weird role",
		"description":     "Employment type outside the enum.",
		"employment_type": "gig",
	}, token(t, database.TestAdminA.Email), r, "/jobs", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "employment_type")
}

func TestGetJobByID_seekerReadsActiveJob(t *testing.T) {
	r := jobEngine()

	rec, resp := testutil.MakeJSONRequest(nil, token(t, database.TestSeeker1.Email), r,
		fmt.Sprintf("/jobs/%d", database.TestJobActiveA.ID), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, database.TestJobActiveA.Title, resp["title"])
}

func TestGetJobByID_inactiveHiddenFromSeeker(t *testing.T) {
	r := jobEngine()

	rec, _ := testutil.MakeJSONRequest(nil, token(t, database.TestSeeker1.Email), r,
		fmt.Sprintf("/jobs/%d", database.TestJobInactiveA.ID), http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Job not found")
}

func TestGetJobByID_inactiveVisibleToOwningAdmin(t *testing.T) {
	r := jobEngine()

	rec, _ := testutil.MakeJSONRequest(nil, token(t, database.TestAdminA.Email), r,
		fmt.Sprintf("/jobs/%d", database.TestJobInactiveA.ID), http.MethodGet)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetJobByID_inactiveHiddenFromOtherAdmin(t *testing.T) {
	r := jobEngine()

	rec, _ := testutil.MakeJSONRequest(nil, token(t, database.TestAdminB.Email), r,
		fmt.Sprintf("/jobs/%d", database.TestJobInactiveA.ID), http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetJobByID_malformedID(t *testing.T) {
	r := jobEngine()

	rec, _ := testutil.MakeJSONRequest(nil, token(t, database.TestSeeker1.Email), r,
		"/jobs/abc", http.MethodGet)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateJob_crossCompanyForbidden(t *testing.T) {
	r := jobEngine()
	scratch := seedJob(t, database.TestCompanyA.ID, database.TestAdminA.ID, true)

	rec, _ := testutil.MakeJSONRequest(gin.H{"title": "Hijacked"},
		token(t, database.TestAdminB.Email), r,
		fmt.Sprintf("/jobs/%d", scratch.ID), http.MethodPut)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Insufficient permissions")
}

func TestUpdateJob_partialUpdateKeepsOtherFields(t *testing.T) {
	r := jobEngine()
	scratch := seedJob(t, database.TestCompanyA.ID, database.TestAdminA.ID, true)

	rec, resp := testutil.MakeJSONRequest(gin.H{"location": "Phuket"},
		token(t, database.TestAdminA.Email), r,
		fmt.Sprintf("/jobs/%d", scratch.ID), http.MethodPut)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Phuket", resp["location"])
	assert.Equal(t, scratch.Title, resp["title"])
}

func TestUpdateJob_emptyBodyRejected(t *testing.T) {
	r := jobEngine()
	scratch := seedJob(t, database.TestCompanyA.ID, database.TestAdminA.ID, true)

	rec, _ := testutil.MakeJSONRequest(gin.H{},
		token(t, database.TestAdminA.Email), r,
		fmt.Sprintf("/jobs/%d", scratch.ID), http.MethodPut)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Update body cannot be empty")
}

func TestUpdateJob_reactivateWithIsActive(t *testing.T) {
	r := jobEngine()
	scratch := seedJob(t, database.TestCompanyA.ID, database.TestAdminA.ID, false)

	rec, resp := testutil.MakeJSONRequest(gin.H{"is_active": true},
		token(t, database.TestAdminA.Email), r,
		fmt.Sprintf("/jobs/%d", scratch.ID), http.MethodPut)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, resp["is_active"])
}

func TestDeleteJob_softDeletes(t *testing.T) {
	r := jobEngine()
	scratch := seedJob(t, database.TestCompanyA.ID, database.TestAdminA.ID, true)

	rec, _ := testutil.MakeJSONRequest(nil, token(t, database.TestAdminA.Email), r,
		fmt.Sprintf("/jobs/%d", scratch.ID), http.MethodDelete)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	var reloaded model.Job
	require.NoError(t, testDB.First(&reloaded, scratch.ID).Error)
	assert.False(t, reloaded.IsActive)
}

func TestDeleteJob_crossCompanyForbidden(t *testing.T) {
	r := jobEngine()
	scratch := seedJob(t, database.TestCompanyB.ID, database.TestAdminB.ID, true)

	rec, _ := testutil.MakeJSONRequest(nil, token(t, database.TestAdminA.Email), r,
		fmt.Sprintf("/jobs/%d", scratch.ID), http.MethodDelete)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetJobApplications_owningAdmin(t *testing.T) {
	r := jobEngine()

	rec, resp := testutil.MakeJSONRequestList(token(t, database.TestAdminA.Email), r,
		fmt.Sprintf("/jobs/%d/applications", database.TestJobActiveA.ID))
	assert.Equal(t, http.StatusOK, rec.Code)

	var sawSeeker1 bool
	for _, a := range resp {
		if a["user_id"] == float64(database.TestSeeker1.ID) {
			sawSeeker1 = true
		}
	}
	assert.True(t, sawSeeker1)
}

func TestGetJobApplications_otherAdminGets404(t *testing.T) {
	r := jobEngine()

	rec, _ := testutil.MakeJSONRequest(nil, token(t, database.TestAdminB.Email), r,
		fmt.Sprintf("/jobs/%d/applications", database.TestJobActiveA.ID), http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetJobApplications_statusFilter(t *testing.T) {
	r := jobEngine()

	rec, resp := testutil.MakeJSONRequestList(token(t, database.TestAdminA.Email), r,
		fmt.Sprintf("/jobs/%d/applications?status=rejected", database.TestJobActiveA.ID))
	assert.Equal(t, http.StatusOK, rec.Code)
	for _, a := range resp {
		assert.Equal(t, model.ApplicationStatusRejected, a["status"])
	}
}

func TestGetJobApplications_invalidStatusFilter(t *testing.T) {
	r := jobEngine()

	rec, _ := testutil.MakeJSONRequest(nil, token(t, database.TestAdminA.Email), r,
		fmt.Sprintf("/jobs/%d/applications?status=bogus", database.TestJobActiveA.ID), http.MethodGet)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
