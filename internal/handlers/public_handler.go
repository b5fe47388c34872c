package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/folio/internal/models"
	"github.com/joshua-takyi/folio/internal/services"
)

func Health(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "OK",
			"service": service,
		})
	}
}

func Home(pub *services.PublicService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := pub.Home(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(page, ""))
	}
}

func About(pub *services.PublicService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := pub.About(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(page, ""))
	}
}

func PublicProjects(pub *services.PublicService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := pageFromQuery(c)
		filter := services.ProjectFilter{
			Status:   c.Query("status"),
			Featured: c.Query("featured") == "true",
		}
		rows, err := pub.Projects(c.Request.Context(), filter, page)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(rows, ""))
	}
}

func PublicProject(pub *services.PublicService) gin.HandlerFunc {
	return func(c *gin.Context) {
		project, err := pub.Project(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(project, ""))
	}
}

func PublicSkills(pub *services.PublicService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := pub.Skills(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(page, ""))
	}
}

func PublicServices(pub *services.PublicService) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := pub.Services(c.Request.Context(), pageFromQuery(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(rows, ""))
	}
}

func PublicService(pub *services.PublicService) gin.HandlerFunc {
	return func(c *gin.Context) {
		svc, err := pub.Service(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(svc, ""))
	}
}

// SocialRedirect sends the visitor to the site-wide profile on platform.
func SocialRedirect(pub *services.PublicService) gin.HandlerFunc {
	return func(c *gin.Context) {
		url, err := pub.SocialURL(c.Param("platform"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.Redirect(http.StatusFound, url)
	}
}
