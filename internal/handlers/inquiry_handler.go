package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/folio/internal/models"
	"github.com/joshua-takyi/folio/internal/services"
)

func ListInquiries(is *services.InquiryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := pageFromQuery(c)
		rows, total, err := is.List(c.Request.Context(), principal(c), c.Query("status"), page)
		if err != nil {
			respondError(c, err)
			return
		}
		paginated(c, rows, page, total)
	}
}

func GetInquiry(is *services.InquiryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "inquiry")
		if !ok {
			return
		}
		inq, err := is.Get(c.Request.Context(), principal(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(inq, ""))
	}
}

func UpdateInquiry(is *services.InquiryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "inquiry")
		if !ok {
			return
		}
		var in models.InquiryUpdate
		if err := c.ShouldBind(&in); err != nil {
			bindError(c, err)
			return
		}
		inq, err := is.Update(c.Request.Context(), principal(c), id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(inq, "Inquiry updated."))
	}
}
