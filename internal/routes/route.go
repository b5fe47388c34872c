package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/folio/internal/container"
	"github.com/joshua-takyi/folio/internal/handlers"
	"github.com/joshua-takyi/folio/internal/middleware"
	"github.com/joshua-takyi/folio/internal/models"
	"github.com/joshua-takyi/folio/internal/observability"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(c *container.Container) *gin.Engine {
	cfg := c.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		c.Logger.Warn("ignoring invalid trusted proxies", "proxies", cfg.TrustedProxies, "error", err)
		_ = r.SetTrustedProxies(nil)
	}
	if cfg.Tracing.Enabled {
		r.Use(observability.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(c.Logger))
	r.Use(middleware.ErrorHandler(c.Logger))
	r.Use(gin.Recovery())
	r.Use(middleware.Session(c.Auth, c.Logger))

	cookies := handlers.CookieOptions{Secure: cfg.IsProduction()}

	r.GET("/health", handlers.Health(cfg.Tracing.ServiceName))

	// public surface
	r.GET("/", handlers.Home(c.Public))
	r.GET("/about", handlers.About(c.Public))
	r.GET("/projects", handlers.PublicProjects(c.Public))
	r.GET("/projects/:id", handlers.PublicProject(c.Public))
	r.GET("/skills", handlers.PublicSkills(c.Public))
	r.GET("/services", handlers.PublicServices(c.Public))
	r.GET("/services/:id", handlers.PublicService(c.Public))
	r.POST("/services/:id/inquire", handlers.SubmitInquiry(c.Inquiries))

	accounts := r.Group("/accounts")
	{
		accounts.GET("/login", handlers.LoginStatus())
		accounts.POST("/login", handlers.Login(c.Auth, cookies))
		accounts.POST("/logout", handlers.Logout(cookies))
		accounts.POST("/register", handlers.Register(c.Auth, cookies))

		owner := accounts.Group("/", middleware.RequireAuth())
		owner.GET("/dashboard", handlers.Dashboard(c.Account))
		owner.GET("/settings", handlers.GetSettings(c.Account))
		owner.POST("/settings", handlers.UpdateSettings(c.Account))
		owner.POST("/settings/avatar", handlers.UploadAvatar(c.Account))
		owner.POST("/settings/resume", handlers.UploadResume(c.Account))
	}

	manage := r.Group("/manage", middleware.RequireAuth())
	{
		manage.POST("/projects/sync", handlers.SyncProjects(c.GitHub))
		manage.POST("/projects/:id/images", handlers.UploadProjectImages(c.Account, c.Projects))

		projects := manage.Group("/projects")
		projects.GET("", handlers.ListContent(c.Projects))
		projects.POST("", handlers.CreateContent[models.ProjectInput](c.Projects))
		projects.GET("/:id", handlers.GetContent(c.Projects))
		projects.PUT("/:id", handlers.UpdateContent[models.ProjectInput](c.Projects))
		projects.PATCH("/:id", handlers.UpdateContent[models.ProjectInput](c.Projects))
		projects.DELETE("/:id", handlers.DeleteContent(c.Projects))

		skills := manage.Group("/skills")
		skills.GET("", handlers.ListContent(c.Skills))
		skills.POST("", handlers.CreateContent[models.SkillInput](c.Skills))
		skills.GET("/:id", handlers.GetContent(c.Skills))
		skills.PUT("/:id", handlers.UpdateContent[models.SkillInput](c.Skills))
		skills.PATCH("/:id", handlers.UpdateContent[models.SkillInput](c.Skills))
		skills.DELETE("/:id", handlers.DeleteContent(c.Skills))

		education := manage.Group("/education")
		education.GET("", handlers.ListContent(c.Education))
		education.POST("", handlers.CreateContent[models.EducationInput](c.Education))
		education.GET("/:id", handlers.GetContent(c.Education))
		education.PUT("/:id", handlers.UpdateContent[models.EducationInput](c.Education))
		education.PATCH("/:id", handlers.UpdateContent[models.EducationInput](c.Education))
		education.DELETE("/:id", handlers.DeleteContent(c.Education))

		certs := manage.Group("/certifications")
		certs.GET("", handlers.ListContent(c.Certifications))
		certs.POST("", handlers.CreateContent[models.CertificationInput](c.Certifications))
		certs.GET("/:id", handlers.GetContent(c.Certifications))
		certs.PUT("/:id", handlers.UpdateContent[models.CertificationInput](c.Certifications))
		certs.PATCH("/:id", handlers.UpdateContent[models.CertificationInput](c.Certifications))
		certs.DELETE("/:id", handlers.DeleteContent(c.Certifications))

		svcs := manage.Group("/services")
		svcs.GET("", handlers.ListContent(c.Services))
		svcs.POST("", handlers.CreateContent[models.ServiceInput](c.Services))
		svcs.GET("/:id", handlers.GetContent(c.Services))
		svcs.PUT("/:id", handlers.UpdateContent[models.ServiceInput](c.Services))
		svcs.PATCH("/:id", handlers.UpdateContent[models.ServiceInput](c.Services))
		svcs.DELETE("/:id", handlers.DeleteContent(c.Services))

		links := manage.Group("/social-links")
		links.GET("", handlers.ListContent(c.SocialLinks))
		links.POST("", handlers.CreateContent[models.SocialLinkInput](c.SocialLinks))
		links.GET("/:id", handlers.GetContent(c.SocialLinks))
		links.PUT("/:id", handlers.UpdateContent[models.SocialLinkInput](c.SocialLinks))
		links.PATCH("/:id", handlers.UpdateContent[models.SocialLinkInput](c.SocialLinks))
		links.DELETE("/:id", handlers.DeleteContent(c.SocialLinks))

		testimonials := manage.Group("/testimonials")
		testimonials.GET("", handlers.ListContent(c.Testimonials))
		testimonials.POST("", handlers.CreateContent[models.TestimonialInput](c.Testimonials))
		testimonials.GET("/:id", handlers.GetContent(c.Testimonials))
		testimonials.PUT("/:id", handlers.UpdateContent[models.TestimonialInput](c.Testimonials))
		testimonials.PATCH("/:id", handlers.UpdateContent[models.TestimonialInput](c.Testimonials))
		testimonials.DELETE("/:id", handlers.DeleteContent(c.Testimonials))

		manage.GET("/inquiries", handlers.ListInquiries(c.Inquiries))
		manage.GET("/inquiries/:id", handlers.GetInquiry(c.Inquiries))
		manage.PATCH("/inquiries/:id", handlers.UpdateInquiry(c.Inquiries))
	}

	contact := r.Group("/contact")
	{
		contact.POST("/", handlers.SubmitContact(c.Contact))
		contact.POST("/newsletter/subscribe/", handlers.Subscribe(c.Newsletter))
		contact.POST("/newsletter/unsubscribe/", handlers.Unsubscribe(c.Newsletter))
		contact.GET("/newsletter/verify/:token", handlers.VerifySubscription(c.Newsletter))
		contact.GET("/social/:platform", handlers.SocialRedirect(c.Public))
	}

	admin := r.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/contact/messages", handlers.ListMessages(c.Contact))
		admin.GET("/contact/messages/unread", handlers.UnreadMessages(c.Contact))
		admin.GET("/contact/messages/:id", handlers.GetMessage(c.Contact))
		admin.PATCH("/contact/messages/:id", handlers.UpdateMessage(c.Contact))
		admin.DELETE("/contact/messages/:id", handlers.DeleteMessage(c.Contact))
		admin.POST("/contact/messages/:id/read", handlers.MessageAction(c.Contact.MarkAsRead, "Message marked as read."))
		admin.POST("/contact/messages/:id/replied", handlers.MessageAction(c.Contact.MarkAsReplied, "Message marked as replied."))
		admin.POST("/contact/messages/:id/archive", handlers.MessageAction(c.Contact.Archive, "Message archived."))

		admin.GET("/newsletter", handlers.ListSubscribers(c.Newsletter))
		admin.POST("/newsletter/:id/verify", handlers.SubscriberAction(c.Newsletter.SetVerified, "Subscription verified."))
		admin.POST("/newsletter/:id/deactivate", handlers.SubscriberAction(c.Newsletter.Deactivate, "Subscription deactivated."))
	}

	if c.Local != nil {
		r.GET("/media/*path", handlers.Media(c.Local))
	} else {
		r.GET("/media/*path", handlers.MediaRedirect(c.Store))
	}

	return r
}
