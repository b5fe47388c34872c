package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/folio/internal/models"
	"github.com/joshua-takyi/folio/internal/services"
)

// Admin handlers sit behind RequireAdmin.

func ListMessages(cs *services.ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := pageFromQuery(c)
		msgs, total, err := cs.List(c.Request.Context(), models.ContactFilter{
			Status:   c.Query("status"),
			Priority: c.Query("priority"),
			Offset:   page.Offset(),
			Limit:    page.Limit,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		paginated(c, msgs, page, total)
	}
}

func GetMessage(cs *services.ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "contact message")
		if !ok {
			return
		}
		msg, err := cs.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(msg, ""))
	}
}

type messageAction func(ctx context.Context, id uuid.UUID) (*models.ContactMessage, error)

// MessageAction runs one of the status transitions on a message.
func MessageAction(action messageAction, done string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "contact message")
		if !ok {
			return
		}
		msg, err := action(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(msg, done))
	}
}

func UpdateMessage(cs *services.ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "contact message")
		if !ok {
			return
		}
		var in models.ContactUpdate
		if err := c.ShouldBind(&in); err != nil {
			bindError(c, err)
			return
		}
		msg, err := cs.Update(c.Request.Context(), id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(msg, "Message updated."))
	}
}

func DeleteMessage(cs *services.ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "contact message")
		if !ok {
			return
		}
		if err := cs.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Message deleted."))
	}
}

func UnreadMessages(cs *services.ContactService) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := cs.UnreadCount(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(gin.H{"unread": n}, ""))
	}
}

func ListSubscribers(ns *services.NewsletterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := pageFromQuery(c)
		subs, total, err := ns.List(c.Request.Context(), models.NewsletterFilter{
			Active:   boolQuery(c, "active"),
			Verified: boolQuery(c, "verified"),
			Offset:   page.Offset(),
			Limit:    page.Limit,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		paginated(c, subs, page, total)
	}
}

type subscriberAction func(ctx context.Context, id uuid.UUID) (*models.Newsletter, error)

func SubscriberAction(action subscriberAction, done string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := idParam(c, "subscription")
		if !ok {
			return
		}
		sub, err := action(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(sub, done))
	}
}

func boolQuery(c *gin.Context, key string) *bool {
	raw, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}
