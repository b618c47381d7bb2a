package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/1131tariq/Courts/docs"
	v1 "github.com/1131tariq/Courts/internal/api/handler/v1"
	"github.com/1131tariq/Courts/internal/api/middleware"
	"github.com/1131tariq/Courts/internal/config"
	"github.com/1131tariq/Courts/internal/presence"
	"github.com/1131tariq/Courts/internal/repository"
	"github.com/1131tariq/Courts/internal/repository/dao"
	"github.com/1131tariq/Courts/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

func NewServer(conf *config.AppConfig, db *gorm.DB) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	registry := presence.NewRegistry()

	authHandler := s.initAuthHandler(db)
	userHandler := s.initUserHandler(db)
	courtHandler := s.initCourtHandler(db)
	chatHandler := s.initChatHandler(db, registry)
	s.MountHandlers(authHandler, userHandler, courtHandler, chatHandler)

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initCourtHandler(db *gorm.DB) *v1.CourtHandler {
	courtRepo := repository.NewCourtRepository(dao.NewCourtDAO(db))
	bookingRepo := repository.NewBookingRepository(dao.NewBookingDAO(db))

	courtSvc := service.NewCourtService(courtRepo, bookingRepo, s.Config.Booking.SlotMinutes)
	bookingSvc := service.NewBookingService(bookingRepo, courtRepo)
	handler := v1.NewCourtHandler(courtSvc, bookingSvc)

	return handler
}

func (s *Server) initChatHandler(db *gorm.DB, registry *presence.Registry) *v1.ChatHandler {
	chatRepo := repository.NewChatRepository(dao.NewChatDAO(db))
	svc := service.NewChatService(chatRepo)
	handler := v1.NewChatHandler(svc, registry)

	return handler
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(authHandler *v1.AuthHandler, userHandler *v1.UserHandler, courtHandler *v1.CourtHandler, chatHandler *v1.ChatHandler) {
	auth := s.Router.Group("")
	{
		auth.POST("/auth/signup", authHandler.HandleSignup)
		auth.POST("/auth/login", authHandler.HandleLogin)
	}

	authed := s.Router.Group("", middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT())
	{
		authed.GET("/users/:userID", userHandler.HandleGetUser)
		authed.PUT("/users/:userID", userHandler.HandleUpdateUser)
		authed.DELETE("/users/:userID", userHandler.HandleDeleteUser)

		authed.GET("/courts", courtHandler.HandleGetCourts)
		authed.GET("/court/:courtID/available-slots", courtHandler.HandleGetAvailableSlots)
		authed.POST("/book-slot", courtHandler.HandleBookSlot)

		authed.GET("/chats", chatHandler.HandleGetChats)
		authed.GET("/chats/:chatID/messages", chatHandler.HandleGetChatMessages)
	}

	// The websocket endpoint announces identity with a joinChat frame
	// rather than a bearer header, matching the mobile clients.
	s.Router.GET("/ws", chatHandler.HandleWebSocket)

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = "/"
	docs.SwaggerInfo.Title = "Courts API"
	docs.SwaggerInfo.Description = "Court booking and chat API."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
