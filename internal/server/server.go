package server

import (
	"net/http"
	"time"

	"blogd/internal/config"
	"blogd/internal/handler"
	"blogd/internal/mailer"
	"blogd/internal/middleware"
	"blogd/internal/repository"
	"blogd/internal/service"
	"blogd/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	cfg    *config.Config
	logger *zap.Logger
}

func NewServer(db *sqlx.DB, cfg *config.Config, logger *zap.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router: router,
		db:     db,
		cfg:    cfg,
		logger: logger,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	codec := token.NewCodec(s.cfg.Token.Secret)
	issuer := token.NewIssuer(codec,
		time.Duration(s.cfg.Token.AccessTTLMin)*time.Minute,
		time.Duration(s.cfg.Token.RefreshTTLHours)*time.Hour,
		time.Duration(s.cfg.Token.OneTimeTTLHours)*time.Hour,
	)

	var sender mailer.Sender
	if s.cfg.Mailer.Enabled {
		sender = mailer.NewClient(s.cfg.Mailer.URL, s.logger)
	} else {
		sender = mailer.NewLogSender(s.logger)
	}

	userRepo := repository.NewUserRepository(s.db, s.logger)
	tokenRepo := repository.NewTokenRepository(s.db, s.logger)
	postRepo := repository.NewPostRepository(s.db, s.logger)

	authService := service.NewAuthService(userRepo, tokenRepo, codec, issuer, sender, s.logger)
	postService := service.NewPostService(postRepo, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	userHandler := handler.NewUserHandler(s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)

	s.router.GET("/api/healthchecker", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	authGroup := s.router.Group("/api/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.POST("/refresh", authHandler.Refresh)
	authGroup.POST("/forgot-password", authHandler.ForgotPassword)
	authGroup.POST("/reset-password", authHandler.ResetPassword)
	authGroup.POST("/verify-email", authHandler.VerifyEmail)

	// Public post reads
	s.router.GET("/api/posts", postHandler.ListPosts)
	s.router.GET("/api/post/:id", postHandler.GetPostByID)

	// Authenticated routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware(codec, userRepo, s.logger))
	{
		authRequired.GET("/auth/logout", authHandler.Logout)
		authRequired.GET("/users/me", userHandler.Me)
		authRequired.POST("/post", postHandler.CreatePost)
		authRequired.POST("/post/update", postHandler.UpdatePost)
	}
}

func (s *Server) Run(addr string) {
	s.logger.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.logger.Fatal("Server failed to start", zap.Error(err))
	}
}
