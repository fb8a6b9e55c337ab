// Package company provides HTTP handlers for company operations.
package company

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aspectfv/talento-mvp/internal/database"
	"github.com/aspectfv/talento-mvp/internal/model"
	"github.com/aspectfv/talento-mvp/internal/utilities"
	"github.com/aspectfv/talento-mvp/internal/validation"
)

const logoObjectPrefix = "logos"

// CompanyController handles company related endpoints
type CompanyController struct {
	DB      *database.DBinstanceStruct
	Storage StorageClient
}

// NewCompanyController creates a new instance of CompanyController. Storage
// may be nil when remote logo storage is disabled.
func NewCompanyController(db *database.DBinstanceStruct, storage StorageClient) *CompanyController {
	return &CompanyController{
		DB:      db,
		Storage: storage,
	}
}

type createCompanyBody struct {
	Name        string `json:"name" binding:"required"`
	Website     string `json:"website" binding:"omitempty,url"`
	Description string `json:"description"`
}

type updateCompanyBody struct {
	Name        string `json:"name"`
	Website     string `json:"website" binding:"omitempty,url"`
	Description string `json:"description"`
}

// CreateCompanyHandler registers a new company. Superadmin only.
// @Summary Create a company
// @Tags Company
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Company body createCompanyBody true "Company to create"
// @Success 201 {object} model.Company
// @Failure 400 {object} validation.ErrorBody "Invalid body"
// @Failure 403 {object} utilities.ErrorResponse "Not a superadmin"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies [post]
func (cc *CompanyController) CreateCompanyHandler(c *gin.Context) {
	var body createCompanyBody
	if !validation.BindJSON(c, &body) {
		return
	}

	company := model.Company{
		Name:        body.Name,
		Website:     body.Website,
		Description: body.Description,
	}

	if err := cc.DB.Create(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create company: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, company)
}

// GetCompaniesHandler lists all companies. Superadmin only.
// @Summary List companies
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Company
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies [get]
func (cc *CompanyController) GetCompaniesHandler(c *gin.Context) {
	var companies []model.Company
	if err := cc.DB.Order("id ASC").Find(&companies).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve companies: %s", err.Error()),
		})
		return
	}
	c.JSON(http.StatusOK, companies)
}

// GetCompanyByIDHandler fetches a single company. Company profiles are
// readable by any authenticated user.
// @Summary Get company by ID
// @Tags Company
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired company"
// @Success 200 {object} model.Company
// @Failure 400 {object} validation.ErrorBody "Malformed ID"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies/{id} [get]
func (cc *CompanyController) GetCompanyByIDHandler(c *gin.Context) {
	id, ok := validation.NumericParam(c, "id")
	if !ok {
		return
	}

	company, ok := cc.findCompany(c, id)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, company)
}

// UpdateCompanyHandler applies a partial update to a company. Superadmin only.
// @Summary Update company
// @Tags Company
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired company"
// @Param Company body updateCompanyBody true "Fields to update"
// @Success 200 {object} model.Company
// @Failure 400 {object} validation.ErrorBody "Invalid or empty body"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies/{id} [put]
func (cc *CompanyController) UpdateCompanyHandler(c *gin.Context) {
	id, ok := validation.NumericParam(c, "id")
	if !ok {
		return
	}

	var body updateCompanyBody
	if !validation.BindJSON(c, &body) {
		return
	}

	if body == (updateCompanyBody{}) {
		validation.Fail(c, "body", "Update body cannot be empty")
		return
	}

	company, ok := cc.findCompany(c, id)
	if !ok {
		return
	}

	utilities.MergeNonEmpty(&company, &struct {
		Name        string
		Website     string
		Description string
	}{
		Name:        body.Name,
		Website:     body.Website,
		Description: body.Description,
	})

	if err := cc.DB.Save(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update company: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, company)
}

// UploadLogoHandler replaces a company's logo. Superadmin only. Previous
// logo objects for the company are removed from the bucket.
// @Summary Upload company logo
// @Description Only file that smaller than 10 MB with .jpg, .jpeg, or .png extension is permitted
// @Tags Company
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired company"
// @Param logo formData file true "Upload your logo file"
// @Success 200 {object} model.Company "Successfully upload logo"
// @Failure 400 {object} validation.ErrorBody "Malformed ID"
// @Failure 404 {object} utilities.ErrorResponse "Company not found"
// @Failure 413 {object} utilities.ErrorResponse "File size is larger than 10 MB"
// @Failure 415 {object} utilities.ErrorResponse "File extension is not allowed"
// @Failure 503 {object} utilities.ErrorResponse "Remote storage disabled"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /companies/{id}/logo [post]
func (cc *CompanyController) UploadLogoHandler(c *gin.Context) {
	id, ok := validation.NumericParam(c, "id")
	if !ok {
		return
	}

	if cc.Storage == nil {
		c.JSON(http.StatusServiceUnavailable, utilities.ErrorResponse{
			Error: "Logo storage is not configured on this deployment",
		})
		return
	}

	company, ok := cc.findCompany(c, id)
	if !ok {
		return
	}

	rawFile, err := c.FormFile("logo")
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve file: %s", err.Error()),
		})
		return
	}

	allowedExtensions := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
	}
	extension := strings.ToLower(filepath.Ext(rawFile.Filename))
	if !allowedExtensions[extension] {
		c.JSON(http.StatusUnsupportedMediaType, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unsupported file extension: %s", extension),
		})
		return
	}

	f, err := rawFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot open file"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("failed to close uploaded file: %v", err)
		}
	}()

	fileBytes, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot read file"})
		return
	}

	// sweep superseded logos before writing the replacement
	companyPrefix := fmt.Sprintf("%s/%d/", logoObjectPrefix, company.ID)
	if err := cc.Storage.DeleteWithPrefix(companyPrefix); err != nil {
		log.Printf("failed to clean up old logos for company %d: %v", company.ID, err)
	}

	objectName := fmt.Sprintf("%s%s%s", companyPrefix, uuid.NewString(), extension)
	if err := cc.Storage.UploadFile(objectName, bytes.NewReader(fileBytes)); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store logo: %s", err.Error()),
		})
		return
	}

	company.LogoURL = cc.Storage.PublicURL(objectName)
	if err := cc.DB.Save(&company).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update company: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, company)
}

// findCompany fetches a company by primary key, writing the 404/500 response on failure.
func (cc *CompanyController) findCompany(c *gin.Context, id uint) (model.Company, bool) {
	var company model.Company
	if err := cc.DB.Where("id = ?", id).First(&company).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Company not found"})
			return company, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve company: %s", err.Error()),
		})
		return company, false
	}
	return company, true
}
