// Package application provides HTTP handlers for job application operations.
package application

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/aspectfv/talento-mvp/internal/database"
	"github.com/aspectfv/talento-mvp/internal/model"
	"github.com/aspectfv/talento-mvp/internal/policy"
	"github.com/aspectfv/talento-mvp/internal/utilities"
	"github.com/aspectfv/talento-mvp/internal/validation"
)

// ApplicationController handles job application related endpoints
type ApplicationController struct {
	DB *database.DBinstanceStruct
}

// NewApplicationController creates a new instance of ApplicationController with the provided database connection.
func NewApplicationController(db *database.DBinstanceStruct) *ApplicationController {
	return &ApplicationController{
		DB: db,
	}
}

type createApplicationBody struct {
	JobID uint `json:"job_id" binding:"required,gt=0"`
}

type updateApplicationBody struct {
	Status string `json:"status" binding:"required,oneof=applied shortlisted rejected"`
}

// CreateApplicationHandler submits a new application for the calling seeker.
// The datastore's composite unique index enforces one application per
// (job, user) pair.
// @Summary Apply to a job
// @Description Only seekers can apply, and only once per job
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Application body createApplicationBody true "Job to apply to"
// @Success 201 {object} model.Application
// @Failure 400 {object} validation.ErrorBody "Invalid body or unknown job"
// @Failure 403 {object} utilities.ErrorResponse "Not a seeker"
// @Failure 409 {object} utilities.ErrorResponse "Already applied to this job"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications [post]
func (ac *ApplicationController) CreateApplicationHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var body createApplicationBody
	if !validation.BindJSON(c, &body) {
		return
	}

	application := model.Application{
		JobID:  body.JobID,
		UserID: user.ID,
		Status: model.ApplicationStatusApplied,
	}

	if err := ac.DB.Create(&application).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				c.JSON(http.StatusConflict, utilities.ErrorResponse{
					Error: "You have already applied to this job.",
				})
				return
			case "23503":
				c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
					Error: fmt.Sprintf("Invalid job_id: %d", body.JobID),
				})
				return
			}
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, application)
}

// GetApplicationByIDHandler fetches a single application. Seekers see only
// their own, admins only those against their company's jobs.
// @Summary Get application by ID
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired application"
// @Success 200 {object} model.Application
// @Failure 400 {object} validation.ErrorBody "Malformed ID"
// @Failure 404 {object} utilities.ErrorResponse "Application not found or out of scope"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id} [get]
func (ac *ApplicationController) GetApplicationByIDHandler(c *gin.Context) {
	id, ok := validation.NumericParam(c, "id")
	if !ok {
		return
	}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	application, ok := ac.findApplication(c, id)
	if !ok {
		return
	}

	res := policy.Resource{
		CompanyID:   &application.Job.CompanyID,
		OwnerUserID: &application.UserID,
	}
	if policy.Resolve(&user, policy.VerbRead, res) != policy.Allow {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
		return
	}

	c.JSON(http.StatusOK, application)
}

// UpdateApplicationHandler moves an application through its status state
// machine. Transitions are forward-only from "applied"; each terminal
// transition appends one RecruiterAction in the same transaction.
// @Summary Update application status
// @Description Only admins of the owning company and superadmins may update
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired application"
// @Param Status body updateApplicationBody true "Target status"
// @Success 200 {object} model.Application
// @Failure 400 {object} validation.ErrorBody "Malformed ID or status"
// @Failure 403 {object} utilities.ErrorResponse "Application out of company scope"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 409 {object} utilities.ErrorResponse "Application already processed"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /applications/{id} [put]
func (ac *ApplicationController) UpdateApplicationHandler(c *gin.Context) {
	id, ok := validation.NumericParam(c, "id")
	if !ok {
		return
	}

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var body updateApplicationBody
	if !validation.BindJSON(c, &body) {
		return
	}

	application, ok := ac.findApplication(c, id)
	if !ok {
		return
	}

	res := policy.Resource{CompanyID: &application.Job.CompanyID}
	if policy.Resolve(&user, policy.VerbUpdate, res) != policy.Allow {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Insufficient permissions"})
		return
	}

	// repeating the current status is an idempotent no-op
	if body.Status == application.Status {
		c.JSON(http.StatusOK, application)
		return
	}

	if application.Status != model.ApplicationStatusApplied {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: "Application has already been processed",
		})
		return
	}

	application.Status = body.Status

	// status update and audit record land atomically
	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&application).Error; err != nil {
			return err
		}

		actionType, terminal := model.ActionForStatus(body.Status)
		if !terminal {
			return nil
		}

		action := model.RecruiterAction{
			ApplicationID:   application.ID,
			RecruiterUserID: user.ID,
			ActionType:      actionType,
		}
		return tx.Create(&action).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update application: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, application)
}

// findApplication fetches an application with its job preloaded for scope
// checks, writing the 404/500 response on failure.
func (ac *ApplicationController) findApplication(c *gin.Context, id uint) (model.Application, bool) {
	var application model.Application
	if err := ac.DB.Preload("Job").Where("id = ?", id).First(&application).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
			return application, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve application: %s", err.Error()),
		})
		return application, false
	}
	return application, true
}
