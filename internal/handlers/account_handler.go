package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/folio/internal/models"
	"github.com/joshua-takyi/folio/internal/services"
	"github.com/joshua-takyi/folio/internal/storage"
)

func Dashboard(a *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		dash, err := a.Dashboard(c.Request.Context(), principal(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(dash, ""))
	}
}

func GetSettings(a *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := a.Settings(c.Request.Context(), principal(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(settings, ""))
	}
}

func UpdateSettings(a *services.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.SettingsInput
		if err := c.ShouldBind(&in); err != nil {
			bindError(c, err)
			return
		}
		settings, err := a.UpdateSettings(c.Request.Context(), principal(c), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(settings, "Your profile has been updated successfully!"))
	}
}

func UploadAvatar(a *services.AccountService) gin.HandlerFunc {
	return uploadProfileFile(storage.Avatar.Field, a.UploadAvatar)
}

func UploadResume(a *services.AccountService) gin.HandlerFunc {
	return uploadProfileFile(storage.Resume.Field, a.UploadResume)
}

type profileUploader func(ctx context.Context, p models.Principal, up storage.Upload) (*models.Profile, error)

func uploadProfileFile(field string, upload profileUploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		up, closeFn, err := formUpload(c, field)
		if err != nil {
			respondError(c, err)
			return
		}
		defer closeFn()

		profile, err := upload(c.Request.Context(), principal(c), up)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(profile, "File uploaded successfully."))
	}
}
