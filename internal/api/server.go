package api

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/db"
	"github.com/rayofsundays-boop/virginia-contracts-lead-generation-sub001/internal/scrape"
)

type Server struct {
	Store    *db.Store
	Pipeline *scrape.Pipeline
	Echo     *echo.Echo
	Log      *zap.Logger
}

var (
	adminSecretOnce    sync.Once
	adminSecretRuntime string
	adminSecretErr     error
)

func NewServer(store *db.Store, pipeline *scrape.Pipeline, log *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	allowedOrigins := []string{"http://localhost:4200"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Admin-Secret"},
	}))

	s := &Server{
		Store:    store,
		Pipeline: pipeline,
		Echo:     e,
		Log:      log,
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)

	api := s.Echo.Group("/api/v1")
	api.GET("/contracts", s.handleListContracts)
	api.GET("/contracts/:id", s.handleGetContract)
	api.GET("/stats", s.handleGetStats)
	api.GET("/runs", s.handleListRuns)

	admin := api.Group("")
	admin.Use(s.adminMiddleware)
	admin.POST("/scrape", s.handleTriggerScrape)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleListContracts(c echo.Context) error {
	limit := 50
	offset := 0
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 200 {
		limit = l
	}
	if o, err := strconv.Atoi(c.QueryParam("offset")); err == nil && o >= 0 {
		offset = o
	}

	result, err := s.Store.ListContracts(c.Request().Context(), db.ListParams{
		State:  c.QueryParam("state"),
		Source: c.QueryParam("source"),
		Query:  c.QueryParam("q"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.Log.Error("list contracts failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetContract(c echo.Context) error {
	rec, err := s.Store.GetContract(c.Request().Context(), c.Param("id"))
	if errors.Is(err, db.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	}
	if err != nil {
		s.Log.Error("get contract failed", zap.String("id", c.Param("id")), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, rec)
}

func (s *Server) handleGetStats(c echo.Context) error {
	stats, err := s.Store.Stats(c.Request().Context())
	if err != nil {
		s.Log.Error("stats failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) handleListRuns(c echo.Context) error {
	limit := 20
	if l, err := strconv.Atoi(c.QueryParam("limit")); err == nil && l > 0 && l <= 100 {
		limit = l
	}
	runs, err := s.Store.ListRuns(c.Request().Context(), limit)
	if err != nil {
		s.Log.Error("list runs failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
	}
	return c.JSON(http.StatusOK, runs)
}

// handleTriggerScrape runs a full harvest synchronously and returns the run
// summary. parallel defaults to true; ?parallel=false runs the sources one
// at a time, which is easier to follow in the logs.
func (s *Server) handleTriggerScrape(c echo.Context) error {
	parallel := true
	if raw := c.QueryParam("parallel"); raw != "" {
		parallel = !strings.EqualFold(raw, "false")
	}

	summary, err := s.Pipeline.Run(c.Request().Context(), parallel)
	if err != nil {
		// The summary still describes what the harvest found before
		// persistence failed.
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   err.Error(),
			"summary": summary,
		})
	}
	return c.JSON(http.StatusOK, summary)
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}

func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret, err := adminSecret(s.Log)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server admin configuration error"})
		}

		authHeader := c.Request().Header.Get("Authorization")
		adminHeader := c.Request().Header.Get("X-Admin-Secret")

		if adminHeader == secret {
			return next(c)
		}
		if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
			if authHeader[7:] == secret {
				return next(c)
			}
		}

		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized admin access"})
	}
}

func adminSecret(log *zap.Logger) (string, error) {
	adminSecretOnce.Do(func() {
		secret := strings.TrimSpace(os.Getenv("ADMIN_SECRET"))
		if secret != "" {
			adminSecretRuntime = secret
			return
		}

		buf := make([]byte, 48)
		if _, err := rand.Read(buf); err != nil {
			adminSecretErr = fmt.Errorf("failed to generate ADMIN_SECRET fallback: %w", err)
			return
		}

		adminSecretRuntime = base64.RawURLEncoding.EncodeToString(buf)
		log.Warn("ADMIN_SECRET is not set; using ephemeral in-memory fallback secret")
	})

	if adminSecretErr != nil {
		return "", adminSecretErr
	}
	if adminSecretRuntime == "" {
		return "", fmt.Errorf("admin secret unavailable")
	}

	return adminSecretRuntime, nil
}
