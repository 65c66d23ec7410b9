package server

import (
	"context"
	"net/http"
	"time"

	"fitcenter/internal/auth"
	"fitcenter/internal/class"
	"fitcenter/internal/config"
	"fitcenter/internal/enrollment"
	"fitcenter/internal/flash"
	"fitcenter/internal/member"
	"fitcenter/internal/policy"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
	msgs   *flash.Store
	http   *http.Server
}

func New(db *sqlx.DB, cfg *config.Config, msgs *flash.Store) *Server {
	router := gin.Default()
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	pol := policy.New(class.NewRepository(db), member.NewRepository(db))

	memberHandler := member.NewHandler(db, cfg.JWTSecret, pol, msgs)
	classHandler := class.NewHandler(db, pol, msgs)
	enrollmentHandler := enrollment.NewHandler(db, pol, msgs)

	public := router.Group("/auth")
	{
		public.POST("/signup", memberHandler.Signup)
		public.POST("/login", memberHandler.Login)
	}

	router.GET("/classes", classHandler.List)
	router.GET("/classes/:classID", classHandler.Get)

	authMiddleware := auth.Middleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.POST("/auth/logout", memberHandler.Logout)
		protected.GET("/me", memberHandler.GetMe)
		protected.GET("/me/messages", memberHandler.Messages)

		protected.GET("/members/:memberID", memberHandler.GetMember)
		protected.PUT("/members/:memberID", memberHandler.UpdateMember)
		protected.DELETE("/members/:memberID", memberHandler.DeleteMember)
		protected.GET("/members/:memberID/classes", enrollmentHandler.MemberClasses)

		protected.GET("/classes/:classID/roster", enrollmentHandler.Roster)
		protected.POST("/classes/:classID/enroll", enrollmentHandler.Enroll)
		protected.POST("/classes/:classID/drop", enrollmentHandler.Drop)
	}

	instructorMiddleware := auth.RequireInstructor()
	instructor := router.Group("/")
	instructor.Use(authMiddleware, instructorMiddleware)
	{
		instructor.POST("/classes", classHandler.Create)
		instructor.PUT("/classes/:classID", classHandler.Update)
		instructor.DELETE("/classes/:classID", classHandler.Delete)
		instructor.GET("/members", memberHandler.Directory)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		msgs:   msgs,
	}
}

// Router exposes the underlying engine for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:         ":" + port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
