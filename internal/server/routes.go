// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	// Init swagger doc
	_ "github.com/aspectfv/talento-mvp/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/aspectfv/talento-mvp/internal/auth"
	"github.com/aspectfv/talento-mvp/internal/controller/application"
	"github.com/aspectfv/talento-mvp/internal/controller/company"
	"github.com/aspectfv/talento-mvp/internal/controller/job"
	"github.com/aspectfv/talento-mvp/internal/controller/user"
	"github.com/aspectfv/talento-mvp/internal/middleware"
	"github.com/aspectfv/talento-mvp/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOriginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrigins := strings.Split(allowOriginsStr, ",")

	googleOauth := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_AUTH_CLIENT"),
		ClientSecret: os.Getenv("GOOGLE_AUTH_SECRET"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint:    google.Endpoint,
		RedirectURL: os.Getenv("OAUTH_REDIRECT_URL"),
	}

	gAuth := auth.NewOauthLoginHandler(s.DB, googleOauth, "https://www.googleapis.com/oauth2/v2/userinfo")
	lAuth := auth.NewAuthHandler(s.DB)
	userCtl := user.NewUserController(s.DB)
	companyCtl := company.NewCompanyController(s.DB, s.Storage)
	jobCtl := job.NewJobController(s.DB)
	applicationCtl := application.NewApplicationController(s.DB)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.GET("/", s.RootHandler)
	r.GET("/health", s.healthHandler)
	api := r.Group("/api")
	{
		authRoute := api.Group("/auth")
		{
			authRoute.Use(middleware.EnvRateLimitMiddleware())
			authRoute.POST("login", lAuth.LoginHandler)
			authRoute.POST("google", gAuth.SeekerGoogleLoginHandler)
			authRoute.GET("google/callback", gAuth.Callback)
			authRoute.GET("me", middleware.RequireAuth(s.DB), lAuth.MeHandler)
		}

		// registration is open, elevation inside is gated on the caller
		api.POST("/users", middleware.OptionalAuth(s.DB), userCtl.CreateUserHandler)

		// public job browsing, anonymous callers see active postings only
		api.GET("/jobs", middleware.OptionalAuth(s.DB), jobCtl.GetJobsHandler)

		needAuth := api.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB))

			userRoute := needAuth.Group("/users")
			{
				userRoute.GET("", userCtl.GetUsersHandler)
				userRoute.GET("me", userCtl.GetMeHandler)
				userRoute.PUT("me", userCtl.UpdateMeHandler)
				userRoute.GET(":id", userCtl.GetUserByIDHandler)
				userRoute.PUT(":id", userCtl.UpdateUserByIDHandler)
			}

			companyRoute := needAuth.Group("/companies")
			{
				companyRoute.GET(":id", companyCtl.GetCompanyByIDHandler)
				companyRoute.Use(middleware.CheckRole(model.RoleSuperadmin))
				companyRoute.GET("", companyCtl.GetCompaniesHandler)
				companyRoute.POST("", companyCtl.CreateCompanyHandler)
				companyRoute.PUT(":id", companyCtl.UpdateCompanyHandler)
				companyRoute.POST(":id/logo", middleware.SizeLimit(10<<20), companyCtl.UploadLogoHandler)
			}

			jobRoute := needAuth.Group("/jobs")
			{
				jobRoute.GET(":id", jobCtl.GetJobByIDHandler)
				jobRoute.GET(":id/applications", middleware.CheckRole(model.RoleAdmin, model.RoleSuperadmin), jobCtl.GetJobApplicationsHandler)
				jobRoute.Use(middleware.CheckRole(model.RoleAdmin, model.RoleSuperadmin))
				jobRoute.POST("", jobCtl.CreateJobHandler)
				jobRoute.PUT(":id", jobCtl.UpdateJobHandler)
				jobRoute.DELETE(":id", jobCtl.DeleteJobHandler)
			}

			applicationRoute := needAuth.Group("/applications")
			{
				applicationRoute.POST("", middleware.CheckRole(model.RoleSeeker), applicationCtl.CreateApplicationHandler)
				applicationRoute.GET(":id", applicationCtl.GetApplicationByIDHandler)
				applicationRoute.PUT(":id", middleware.CheckRole(model.RoleAdmin, model.RoleSuperadmin), applicationCtl.UpdateApplicationHandler)
			}
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RootHandler reports that the service is up.
func (s *MyServer) RootHandler(c *gin.Context) {
	c.String(http.StatusOK, "Talento App is Running!")
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
