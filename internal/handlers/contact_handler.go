package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/folio/internal/models"
	"github.com/joshua-takyi/folio/internal/services"
)

func requestOrigin(c *gin.Context) models.Origin {
	return models.Origin{
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func SubmitContact(cs *services.ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.ContactInput
		if err := c.ShouldBind(&in); err != nil {
			bindError(c, err)
			return
		}
		msg, err := cs.Submit(c.Request.Context(), in, requestOrigin(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(gin.H{"id": msg.ID},
			"Thank you for your message! I'll get back to you soon."))
	}
}

func SubmitInquiry(is *services.InquiryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.InquiryInput
		if err := c.ShouldBind(&in); err != nil {
			bindError(c, err)
			return
		}
		inq, err := is.Submit(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(gin.H{"id": inq.ID},
			"Thank you for your inquiry! I'll get back to you soon."))
	}
}

func Subscribe(ns *services.NewsletterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.SubscribeInput
		if err := c.ShouldBind(&in); err != nil {
			bindError(c, err)
			return
		}
		sub, err := ns.Subscribe(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(sub, "Successfully subscribed to newsletter!"))
	}
}

func Unsubscribe(ns *services.NewsletterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in models.UnsubscribeInput
		if err := c.ShouldBind(&in); err != nil {
			bindError(c, err)
			return
		}
		if _, err := ns.Unsubscribe(c.Request.Context(), in); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Successfully unsubscribed from newsletter."))
	}
}

func VerifySubscription(ns *services.NewsletterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, err := ns.Verify(c.Request.Context(), c.Param("token"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(sub, "Your subscription is confirmed."))
	}
}
