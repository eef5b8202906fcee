package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/tumbluv/tumbluv-api/internal/constants"
	apierrors "github.com/tumbluv/tumbluv-api/internal/errors"
	"github.com/tumbluv/tumbluv-api/internal/logger"
	"github.com/tumbluv/tumbluv-api/internal/models"
	"github.com/tumbluv/tumbluv-api/internal/services"
)

// ProjectLookup resolves a project slug
type ProjectLookup interface {
	GetProject(ctx context.Context, uri string) (*models.Project, error)
}

// RequireProject loads the project named by :project_uri
func RequireProject(projects ProjectLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, err := projects.GetProject(c.Request.Context(), c.Param("project_uri"))
		if err != nil {
			if errors.Is(err, services.ErrProjectNotFound) {
				apierrors.NotFound(c, apierrors.CodeProjectNotExist)
				return
			}
			logger.New("Middleware").Error("failed to load project", "error", err)
			apierrors.InternalError(c)
			return
		}

		c.Set(constants.ContextKeyProject, project)
		c.Next()
	}
}

// GetProject retrieves the project loaded by RequireProject
func GetProject(c *gin.Context) (*models.Project, bool) {
	value, exists := c.Get(constants.ContextKeyProject)
	if !exists {
		return nil, false
	}
	project, ok := value.(*models.Project)
	return project, ok
}
