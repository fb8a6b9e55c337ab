// Package job provides HTTP handlers for job posting operations.
package job

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aspectfv/talento-mvp/internal/database"
	"github.com/aspectfv/talento-mvp/internal/model"
	"github.com/aspectfv/talento-mvp/internal/policy"
	"github.com/aspectfv/talento-mvp/internal/utilities"
	"github.com/aspectfv/talento-mvp/internal/validation"
)

// JobController handles job posting related endpoints
type JobController struct {
	DB *database.DBinstanceStruct
}

// NewJobController creates a new instance of JobController
func NewJobController(db *database.DBinstanceStruct) *JobController {
	return &JobController{
		DB: db,
	}
}

type createJobBody struct {
	Title          string `json:"title" binding:"required"`
	Description    string `json:"description" binding:"required"`
	Location       string `json:"location"`
	EmploymentType string `json:"employment_type" binding:"required,oneof=full-time part-time contract internship"`
}

type updateJobBody struct {
	Title          string `json:"title" binding:"omitempty,min=1"`
	Description    string `json:"description" binding:"omitempty,min=1"`
	Location       string `json:"location"`
	EmploymentType string `json:"employment_type" binding:"omitempty,oneof=full-time part-time contract internship"`
	IsActive       *bool  `json:"is_active"`
}

// CreateJobHandler creates a job posting owned by the admin's company.
// @Summary Create job posting
// @Description Only admins affiliated with a company can post jobs
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Job body createJobBody true "Job posting information"
// @Success 201 {object} model.Job
// @Failure 400 {object} validation.ErrorBody "Invalid body or admin without company"
// @Failure 403 {object} utilities.ErrorResponse "Not an admin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [post]
func (jc *JobController) CreateJobHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var body createJobBody
	if !validation.BindJSON(c, &body) {
		return
	}

	if user.CompanyID == nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "User is not associated with a company.",
		})
		return
	}

	job := model.Job{
		CompanyID:       *user.CompanyID,
		CreatedByUserID: user.ID,
		Title:           body.Title,
		Description:     body.Description,
		Location:        body.Location,
		EmploymentType:  body.EmploymentType,
		IsActive:        true,
	}

	if err := jc.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to create job: ", err),
		})
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetJobsHandler lists job postings, scoped by the caller's role: anonymous
// callers and seekers see active jobs, admins see their company's jobs,
// superadmins see everything.
// @Summary List job postings scoped by role
// @Tags Job
// @Produce json
// @Param Authorization header string false "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Job
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs [get]
func (jc *JobController) GetJobsHandler(c *gin.Context) {
	var actor *model.User
	if user, err := utilities.ExtractUser(c); err == nil {
		actor = &user
	}

	jobs := []model.Job{}
	query := jc.DB.Order("id ASC")

	switch {
	case actor == nil || actor.Role == model.RoleSeeker:
		query = query.Where("is_active = ?", true)
	case actor.Role == model.RoleAdmin:
		if actor.CompanyID == nil {
			// admin without a company owns no jobs
			c.JSON(http.StatusOK, jobs)
			return
		}
		query = query.Where("company_id = ?", *actor.CompanyID)
	}
	// superadmin: unrestricted

	if err := query.Find(&jobs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch jobs: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, jobs)
}

// GetJobByIDHandler fetches a single job posting. Out-of-scope jobs are
// reported as missing.
// @Summary Get job posting by ID
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job"
// @Success 200 {object} model.Job
// @Failure 400 {object} validation.ErrorBody "Malformed ID"
// @Failure 404 {object} utilities.ErrorResponse "Job not found or out of scope"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [get]
func (jc *JobController) GetJobByIDHandler(c *gin.Context) {
	id, ok := validation.NumericParam(c, "id")
	if !ok {
		return
	}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, ok := jc.findJob(c, id)
	if !ok {
		return
	}

	res := policy.Resource{CompanyID: &job.CompanyID, Public: job.IsActive}
	if policy.Resolve(&user, policy.VerbRead, res) != policy.Allow {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// UpdateJobHandler mutates a job posting owned by the caller's company.
// @Summary Update job posting
// @Tags Job
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job"
// @Param Job body updateJobBody true "Fields to update"
// @Success 200 {object} model.Job
// @Failure 400 {object} validation.ErrorBody "Malformed ID or empty body"
// @Failure 403 {object} utilities.ErrorResponse "Job owned by another company"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [put]
func (jc *JobController) UpdateJobHandler(c *gin.Context) {
	id, ok := validation.NumericParam(c, "id")
	if !ok {
		return
	}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var body updateJobBody
	if !validation.BindJSON(c, &body) {
		return
	}
	if body == (updateJobBody{}) {
		validation.Fail(c, "body", "Update body cannot be empty")
		return
	}

	job, ok := jc.findJob(c, id)
	if !ok {
		return
	}

	res := policy.Resource{CompanyID: &job.CompanyID}
	if policy.Resolve(&user, policy.VerbUpdate, res) != policy.Allow {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Insufficient permissions"})
		return
	}

	utilities.MergeNonEmpty(&job, &struct {
		Title          string
		Description    string
		Location       string
		EmploymentType string
	}{body.Title, body.Description, body.Location, body.EmploymentType})
	if body.IsActive != nil {
		job.IsActive = *body.IsActive
	}

	if err := jc.DB.Save(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to update job: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, job)
}

// DeleteJobHandler soft-deletes a job posting by clearing its active flag.
// @Summary Soft-delete job posting
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job"
// @Success 204 "Job deactivated"
// @Failure 400 {object} validation.ErrorBody "Malformed ID"
// @Failure 403 {object} utilities.ErrorResponse "Job owned by another company"
// @Failure 404 {object} utilities.ErrorResponse "Job not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id} [delete]
func (jc *JobController) DeleteJobHandler(c *gin.Context) {
	id, ok := validation.NumericParam(c, "id")
	if !ok {
		return
	}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, ok := jc.findJob(c, id)
	if !ok {
		return
	}

	res := policy.Resource{CompanyID: &job.CompanyID}
	if policy.Resolve(&user, policy.VerbDelete, res) != policy.Allow {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Insufficient permissions"})
		return
	}

	job.IsActive = false
	if err := jc.DB.Save(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to delete job: ", err.Error()),
		})
		return
	}

	c.Status(http.StatusNoContent)
}

// GetJobApplicationsHandler lists applications submitted to one job,
// optionally filtered by status.
// @Summary List applications for a job
// @Description Admins see only their own company's jobs
// @Tags Job
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired job"
// @Param status query string false "Filter by application status" Enums(applied, shortlisted, rejected)
// @Success 200 {array} model.Application
// @Failure 400 {object} validation.ErrorBody "Malformed ID or status"
// @Failure 404 {object} utilities.ErrorResponse "Job not found or out of scope"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /jobs/{id}/applications [get]
func (jc *JobController) GetJobApplicationsHandler(c *gin.Context) {
	id, ok := validation.NumericParam(c, "id")
	if !ok {
		return
	}

	status, ok := validation.EnumQuery(c, "status",
		model.ApplicationStatusApplied, model.ApplicationStatusShortlisted, model.ApplicationStatusRejected)
	if !ok {
		return
	}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	job, ok := jc.findJob(c, id)
	if !ok {
		return
	}

	res := policy.Resource{CompanyID: &job.CompanyID}
	if policy.Resolve(&user, policy.VerbRead, res) != policy.Allow {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
		return
	}

	applications := []model.Application{}
	query := jc.DB.Where("job_id = ?", job.ID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("id ASC").Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch applications: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, applications)
}

// findJob fetches a job by id, writing the 404/500 response on failure.
func (jc *JobController) findJob(c *gin.Context, id uint) (model.Job, bool) {
	var job model.Job
	if err := jc.DB.Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job not found"})
			return job, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job: %s", err.Error()),
		})
		return job, false
	}
	return job, true
}
