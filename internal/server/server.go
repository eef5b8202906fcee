package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tumbluv/tumbluv-api/internal/config"
	"github.com/tumbluv/tumbluv-api/internal/constants"
	"github.com/tumbluv/tumbluv-api/internal/handlers"
	"github.com/tumbluv/tumbluv-api/internal/middleware"
	"github.com/tumbluv/tumbluv-api/internal/repository"
	"github.com/tumbluv/tumbluv-api/internal/services"
	"gorm.io/gorm"
)

// Services bundles the business services behind the router
type Services struct {
	Projects *services.ProjectService
	Auth     *services.AuthService
	Uploads  *services.UploadService
}

// Overrides replaces outside collaborators, mostly in tests
type Overrides struct {
	Clock  services.Clock
	Kakao  services.KakaoProvider
	Mailer services.Mailer
}

// NewServices wires repositories and services over db
func NewServices(ctx context.Context, cfg *config.Config, db *gorm.DB, o Overrides) (*Services, error) {
	tokens, err := services.NewTokenService(cfg.JWT, o.Clock)
	if err != nil {
		return nil, err
	}

	kakao := o.Kakao
	if kakao == nil {
		kakao = services.NewKakaoClient(cfg.Kakao)
	}
	mailer := o.Mailer
	if mailer == nil {
		mailer = services.NewMailer(cfg.Mail)
	}

	uploads, err := services.NewUploadService(ctx, cfg.S3, o.Clock)
	if err != nil {
		return nil, err
	}

	return &Services{
		Projects: services.NewProjectService(
			repository.NewProjectRepository(db),
			repository.NewCategoryRepository(db),
			o.Clock,
		),
		Auth: services.NewAuthService(services.AuthServiceDeps{
			Users:         repository.NewUserRepository(db),
			Verifications: repository.NewVerificationRepository(db),
			Tokens:        tokens,
			Kakao:         kakao,
			Mailer:        mailer,
			CodeWindow:    cfg.Verify.Window,
			Clock:         o.Clock,
		}),
		Uploads: uploads,
	}, nil
}

// NewSessionStore creates the Redis-backed session store
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	store, err := redisStore.NewStore(
		cfg.Redis.PoolSize,
		"tcp",
		cfg.RedisAddr(),
		"",
		cfg.Redis.Password,
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create redis store: %w", err)
	}
	return store, nil
}

// NewRouter builds the gin engine with every route
func NewRouter(cfg *config.Config, svc *Services, store sessions.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   cfg.GinMode == config.ModeRelease,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	projectHandler := handlers.NewProjectHandler(svc.Projects)
	userHandler := handlers.NewUserHandler(svc.Auth)
	uploadHandler := handlers.NewUploadHandler(svc.Uploads)

	requireAuth := middleware.RequireAuth(svc.Auth)
	optionalAuth := middleware.OptionalAuth(svc.Auth)
	requireProject := middleware.RequireProject(svc.Projects)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "tumbluv API is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	project := r.Group("/project")
	{
		project.GET("", optionalAuth, projectHandler.ListProjects)
		project.GET("/category", projectHandler.ListCategories)
		project.GET("/:project_uri", optionalAuth, projectHandler.GetProject)
		project.POST("/register", requireAuth, projectHandler.RegisterProject)
		project.POST("/thumbnail", requireAuth, uploadHandler.PresignThumbnail)
		project.POST("/:project_uri/like", requireAuth, requireProject, projectHandler.ToggleLike)
		project.POST("/:project_uri/community", requireAuth, requireProject, projectHandler.CreateComment)
	}

	user := r.Group("/user")
	{
		user.POST("/signup", userHandler.Signup)
		user.POST("/signup/email-code", userHandler.IssueEmailCode)
		user.POST("/signup/email-validation", userHandler.ValidateEmailCode)
		user.POST("/signin", userHandler.Signin)
		user.GET("/signin/kakao", userHandler.KakaoSignin)
		user.GET("/me", requireAuth, userHandler.GetCurrentUser)
	}

	return r
}
