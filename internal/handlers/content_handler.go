package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/folio/internal/apperr"
	"github.com/joshua-takyi/folio/internal/models"
	"github.com/joshua-takyi/folio/internal/services"
	"github.com/joshua-takyi/folio/internal/storage"
)

// The owner-facing CRUD handlers are shared by every content type. The
// request body binds into I, which has no owner field, so a submitted
// owner_id is never read.

func ListContent[T any, P models.OwnedPtr[T]](svc *services.ContentService[T, P]) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := pageFromQuery(c)
		rows, total, err := svc.List(c.Request.Context(), principal(c), page)
		if err != nil {
			respondError(c, err)
			return
		}
		paginated(c, rows, page, total)
	}
}

func GetContent[T any, P models.OwnedPtr[T]](svc *services.ContentService[T, P]) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := svc.Get(c.Request.Context(), principal(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(row, ""))
	}
}

func CreateContent[I models.Input[T], T any, P models.OwnedPtr[T]](svc *services.ContentService[T, P]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in I
		if err := c.ShouldBind(&in); err != nil {
			bindError(c, err)
			return
		}
		row, err := svc.Create(c.Request.Context(), principal(c), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(row, capitalize(svc.Name())+" created successfully!"))
	}
}

func UpdateContent[I models.Input[T], T any, P models.OwnedPtr[T]](svc *services.ContentService[T, P]) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in I
		if err := c.ShouldBind(&in); err != nil {
			bindError(c, err)
			return
		}
		row, err := svc.Update(c.Request.Context(), principal(c), c.Param("id"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(row, capitalize(svc.Name())+" updated successfully!"))
	}
}

func DeleteContent[T any, P models.OwnedPtr[T]](svc *services.ContentService[T, P]) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), principal(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, capitalize(svc.Name())+" deleted successfully!"))
	}
}

// UploadProjectImages stores the thumbnail and/or featured image sent with
// the request.
func UploadProjectImages(a *services.AccountService, projects *services.ContentService[models.Project, *models.Project]) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := c.Param("id")
		var (
			project  *models.Project
			received bool
		)
		for _, kind := range []storage.Kind{storage.ProjectImage, storage.FeaturedImage} {
			fh, err := c.FormFile(kind.Field)
			if err != nil {
				continue
			}
			received = true
			up, closeFn, err := openUpload(fh)
			if err != nil {
				respondError(c, err)
				return
			}
			project, err = a.AttachProjectImage(c.Request.Context(), projects, principal(c), ref, kind, up)
			closeFn()
			if err != nil {
				respondError(c, err)
				return
			}
		}
		if !received {
			respondError(c, apperr.Field(storage.ProjectImage.Field, "No file was submitted."))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(project, "Images uploaded successfully."))
	}
}

// SyncProjects mirrors the signed-in owner's GitHub repositories.
func SyncProjects(g *services.GitHubSyncService) gin.HandlerFunc {
	return func(c *gin.Context) {
		activate := c.Query("activate") == "true" || c.PostForm("activate") == "true"
		res, err := g.SyncProfile(c.Request.Context(), principal(c), activate)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(res, "GitHub repositories synced."))
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
