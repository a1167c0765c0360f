package router

import (
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/anonto42/nano-social/backend/internal/handlers"
	"github.com/anonto42/nano-social/backend/internal/identity"
	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/anonto42/nano-social/backend/internal/validators"
)

const multipartOverhead = 64 << 10

// Dependencies are the services the routes are served by.
type Dependencies struct {
	Verifier      identity.Verifier
	Users         *services.UserService
	Follows       *services.FollowService
	Conversations *services.ConversationService
	Notifications *services.NotificationDispatcher
	Posts         *services.PostService
	Media         *services.MediaService
	// MaxUploadBytes bounds request bodies on the media route; zero leaves
	// them unbounded.
	MaxUploadBytes int64
}

// SetupErrorHandling installs the JSON error envelope and the validator.
func SetupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = handlers.ErrorHandler
	e.Validator = validators.NewValidator()
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	SetupErrorHandling(e)

	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api/v1")
	api.Use(middleware.Auth(deps.Verifier))
	log.Info("Bearer authentication middleware applied to /api/v1 group.")

	handlers.NewUserHandler(deps.Users).RegisterProfileRoutes(api)
	log.Info("User profile routes configured.")

	handlers.NewFollowHandler(deps.Follows).RegisterFollowRoutes(api)
	log.Info("Follow routes configured.")

	handlers.NewChatHandler(deps.Conversations).RegisterChatRoutes(api)
	log.Info("Chat routes configured.")

	handlers.NewNotificationHandler(deps.Notifications).RegisterNotificationRoutes(api)
	log.Info("Notification routes configured.")

	handlers.NewPostHandler(deps.Posts).RegisterPostRoutes(api)
	handlers.NewFeedHandler(deps.Posts).RegisterFeedRoutes(api)
	handlers.NewLikeHandler(deps.Posts).RegisterLikeRoutes(api)
	handlers.NewCommentHandler(deps.Posts).RegisterCommentRoutes(api)
	log.Info("Post, feed, like and comment routes configured.")

	var uploadLimits []echo.MiddlewareFunc
	if deps.MaxUploadBytes > 0 {
		// Leave room for the multipart framing around the file itself.
		limit := deps.MaxUploadBytes + multipartOverhead
		uploadLimits = append(uploadLimits, eMiddleware.BodyLimit(strconv.FormatInt(limit, 10)+"B"))
	}
	handlers.NewMediaHandler(deps.Media).RegisterMediaRoutes(api, uploadLimits...)
	log.Info("Media routes configured.")

	log.Info("All routes configured.")
}
