package api

import (
	"html/template"
	"net/http"
	"time"

	"examtrack/internal/auth"
	"examtrack/internal/config"
	"examtrack/internal/exams"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Server wraps the web server
type Server struct {
	handler *Handler
	router  *gin.Engine
}

// NewServer creates a new web server
func NewServer(cfg *config.Config, authSvc *auth.Service, examSvc *exams.Service, log logrus.FieldLogger) *Server {
	handler := NewHandler(cfg, authSvc, examSvc, log)

	// gin.New() instead of gin.Default(): request logging goes through the
	// application logger, not gin's own.
	router := gin.New()
	router.Use(requestLogger(log))
	router.Use(gin.Recovery())

	router.SetFuncMap(template.FuncMap{
		"formatDate": func(t time.Time) string { return t.Format("2006-01-02") },
	})
	router.LoadHTMLGlob(cfg.TemplateGlob)
	ServeStaticFiles(router, cfg.StaticDir)

	// Public routes
	router.GET("/register", handler.RegisterPage)
	router.POST("/register", handler.Register)
	router.GET("/login", handler.LoginPage)
	router.POST("/login", handler.Login)
	router.GET("/logout", handler.Logout)

	// Protected routes: everything below requires a valid session
	protected := router.Group("")
	protected.Use(SessionRequired([]byte(cfg.SessionSecret)))
	{
		protected.GET("/", handler.Index)
		protected.GET("/add", handler.AddExamPage)
		protected.POST("/add", handler.AddExam)
		protected.GET("/edit/:id", handler.EditExamPage)
		protected.POST("/edit/:id", handler.EditExam)
		protected.GET("/delete/:id", handler.DeleteExam)
	}

	return &Server{
		handler: handler,
		router:  router,
	}
}

// GetRouter returns the router
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestLogger logs one line per request through the application logger.
func requestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"client":  c.ClientIP(),
		}).Info("request")
	}
}
