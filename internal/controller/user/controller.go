// Package user provides HTTP handlers for account operations.
package user

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/aspectfv/talento-mvp/internal/database"
	"github.com/aspectfv/talento-mvp/internal/model"
	"github.com/aspectfv/talento-mvp/internal/policy"
	"github.com/aspectfv/talento-mvp/internal/utilities"
	"github.com/aspectfv/talento-mvp/internal/validation"
)

// UserController handles user account related endpoints
type UserController struct {
	DB *database.DBinstanceStruct
}

// NewUserController creates a new instance of UserController with the provided database connection.
func NewUserController(db *database.DBinstanceStruct) *UserController {
	return &UserController{
		DB: db,
	}
}

type createUserBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`

	// anything beyond a plain seeker account needs a superadmin caller
	Role      model.Role `json:"role" binding:"omitempty,oneof=seeker admin superadmin"`
	CompanyID *uint      `json:"company_id" binding:"omitempty,gt=0"`

	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	University string   `json:"university"`
	Skills     []string `json:"skills"`
	Interests  []string `json:"interests"`
}

type updateUserBody struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6"`

	FirstName  string   `json:"first_name"`
	LastName   string   `json:"last_name"`
	University string   `json:"university"`
	Skills     []string `json:"skills"`
	Interests  []string `json:"interests"`

	// superadmin only
	Role      model.Role `json:"role" binding:"omitempty,oneof=seeker admin superadmin"`
	CompanyID *uint      `json:"company_id" binding:"omitempty,gt=0"`
}

func (b updateUserBody) empty() bool {
	return b.Email == "" && b.Password == "" &&
		b.FirstName == "" && b.LastName == "" && b.University == "" &&
		b.Skills == nil && b.Interests == nil &&
		b.Role == "" && b.CompanyID == nil
}

// CreateUserHandler registers a new account. Anyone may self-register as a
// seeker; requesting an elevated role or a company affiliation requires the
// caller to be a superadmin.
// @Summary Register a user
// @Tags User
// @Accept json
// @Produce json
// @Param Authorization header string false "Insert your access token" default(Bearer <your access token>)
// @Param User body createUserBody true "Account to create"
// @Success 201 {object} model.User
// @Failure 400 {object} validation.ErrorBody "Invalid body"
// @Failure 403 {object} utilities.ErrorResponse "Elevation requires superadmin"
// @Failure 409 {object} utilities.ErrorResponse "Email already registered"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users [post]
func (uc *UserController) CreateUserHandler(c *gin.Context) {
	var body createUserBody
	if !validation.BindJSON(c, &body) {
		return
	}

	elevated := (body.Role != "" && body.Role != model.RoleSeeker) || body.CompanyID != nil
	if elevated {
		actor, err := utilities.ExtractUser(c)
		if err != nil || actor.Role != model.RoleSuperadmin {
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Insufficient permissions"})
			return
		}
	}

	hashed, err := utilities.HashPassword(body.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to hash password: %s", err.Error()),
		})
		return
	}

	role := body.Role
	if role == "" {
		role = model.RoleSeeker
	}

	user := model.User{
		Email:      body.Email,
		Password:   hashed,
		Role:       role,
		CompanyID:  body.CompanyID,
		FirstName:  body.FirstName,
		LastName:   body.LastName,
		University: body.University,
		Skills:     pq.StringArray(body.Skills),
		Interests:  pq.StringArray(body.Interests),
	}

	if err := uc.DB.Create(&user).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				c.JSON(http.StatusConflict, utilities.ErrorResponse{
					Error: "Email already registered",
				})
				return
			case "23503":
				c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
					Error: fmt.Sprintf("Invalid company_id: %d", *body.CompanyID),
				})
				return
			}
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUsersHandler lists accounts visible to the caller. Seekers see only
// themselves, admins the accounts of their company, superadmins everyone.
// @Summary List users
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.User
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users [get]
func (uc *UserController) GetUsersHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	query := uc.DB.Model(&model.User{}).Order("id ASC")
	switch user.Role {
	case model.RoleSuperadmin:
	case model.RoleAdmin:
		if user.CompanyID == nil {
			c.JSON(http.StatusOK, []model.User{})
			return
		}
		query = query.Where("company_id = ? OR id = ?", *user.CompanyID, user.ID)
	default:
		query = query.Where("id = ?", user.ID)
	}

	var users []model.User
	if err := query.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve users: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetMeHandler returns the calling account.
// @Summary Get own account
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.User
// @Router /users/me [get]
func (uc *UserController) GetMeHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateMeHandler applies a partial update to the calling account. Role and
// company affiliation changes are rejected here regardless of caller role.
// @Summary Update own account
// @Tags User
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param User body updateUserBody true "Fields to update"
// @Success 200 {object} model.User
// @Failure 400 {object} validation.ErrorBody "Invalid or empty body"
// @Failure 403 {object} utilities.ErrorResponse "Role change not permitted"
// @Failure 409 {object} utilities.ErrorResponse "Email already registered"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/me [put]
func (uc *UserController) UpdateMeHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var body updateUserBody
	if !validation.BindJSON(c, &body) {
		return
	}

	if body.Role != "" || body.CompanyID != nil {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Role and company changes require a superadmin",
		})
		return
	}

	uc.applyUpdate(c, &user, body, false)
}

// GetUserByIDHandler fetches a single account. Out of scope reads report
// not found rather than forbidden.
// @Summary Get user by ID
// @Tags User
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired user"
// @Success 200 {object} model.User
// @Failure 400 {object} validation.ErrorBody "Malformed ID"
// @Failure 404 {object} utilities.ErrorResponse "User not found or out of scope"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/{id} [get]
func (uc *UserController) GetUserByIDHandler(c *gin.Context) {
	id, ok := validation.NumericParam(c, "id")
	if !ok {
		return
	}

	actor, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	target, ok := uc.findUser(c, id)
	if !ok {
		return
	}

	res := policy.Resource{CompanyID: target.CompanyID, OwnerUserID: &target.ID}
	if policy.Resolve(&actor, policy.VerbRead, res) != policy.Allow {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "User not found"})
		return
	}

	c.JSON(http.StatusOK, target)
}

// UpdateUserByIDHandler applies a partial update to an arbitrary account.
// Only the account owner and superadmins may write; role and company
// changes are reserved for superadmins.
// @Summary Update user by ID
// @Tags User
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired user"
// @Param User body updateUserBody true "Fields to update"
// @Success 200 {object} model.User
// @Failure 400 {object} validation.ErrorBody "Invalid or empty body"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner"
// @Failure 404 {object} utilities.ErrorResponse "User not found"
// @Failure 409 {object} utilities.ErrorResponse "Email already registered"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /users/{id} [put]
func (uc *UserController) UpdateUserByIDHandler(c *gin.Context) {
	id, ok := validation.NumericParam(c, "id")
	if !ok {
		return
	}

	actor, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var body updateUserBody
	if !validation.BindJSON(c, &body) {
		return
	}

	target, ok := uc.findUser(c, id)
	if !ok {
		return
	}

	if actor.Role != model.RoleSuperadmin && actor.ID != target.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "Insufficient permissions"})
		return
	}

	superadmin := actor.Role == model.RoleSuperadmin
	if !superadmin && (body.Role != "" || body.CompanyID != nil) {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Role and company changes require a superadmin",
		})
		return
	}

	uc.applyUpdate(c, &target, body, superadmin)
}

// applyUpdate merges the non-empty body fields into target and persists it,
// writing the response. Role and company fields are only merged when allowed
// by the caller.
func (uc *UserController) applyUpdate(c *gin.Context, target *model.User, body updateUserBody, allowElevation bool) {
	if body.empty() {
		validation.Fail(c, "body", "Update body cannot be empty")
		return
	}

	utilities.MergeNonEmpty(target, &struct {
		Email      string
		FirstName  string
		LastName   string
		University string
	}{
		Email:      body.Email,
		FirstName:  body.FirstName,
		LastName:   body.LastName,
		University: body.University,
	})

	if body.Skills != nil {
		target.Skills = pq.StringArray(body.Skills)
	}
	if body.Interests != nil {
		target.Interests = pq.StringArray(body.Interests)
	}
	if body.Password != "" {
		hashed, err := utilities.HashPassword(body.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to hash password: %s", err.Error()),
			})
			return
		}
		target.Password = hashed
	}
	if allowElevation {
		if body.Role != "" {
			target.Role = body.Role
		}
		if body.CompanyID != nil {
			target.CompanyID = body.CompanyID
		}
	}

	if err := uc.DB.Save(target).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				c.JSON(http.StatusConflict, utilities.ErrorResponse{
					Error: "Email already registered",
				})
				return
			case "23503":
				// a FK violation without a company_id in the body means the
				// stored row itself is inconsistent, so fall through to 500
				if body.CompanyID != nil {
					c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
						Error: fmt.Sprintf("Invalid company_id: %d", *body.CompanyID),
					})
					return
				}
			}
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, target)
}

// findUser fetches a user by primary key, writing the 404/500 response on failure.
func (uc *UserController) findUser(c *gin.Context, id uint) (model.User, bool) {
	var user model.User
	if err := uc.DB.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "User not found"})
			return user, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve user: %s", err.Error()),
		})
		return user, false
	}
	return user, true
}
