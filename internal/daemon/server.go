package daemon

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/1broseidon/foldscreen/internal/config"
	"github.com/1broseidon/foldscreen/internal/cutout"
	"github.com/1broseidon/foldscreen/internal/fold"
	"github.com/1broseidon/foldscreen/internal/geometry"
)

// Server exposes the daemon state over HTTP.
type Server struct {
	echo     *echo.Echo
	fold     *fold.Manager
	monitor  *DisplayMonitor
	apps     *fold.AppStateObserver
	foldable bool
	logger   *slog.Logger
}

// ServerConfig wires the server to the running components. Gatherer
// defaults to prometheus.DefaultGatherer.
type ServerConfig struct {
	Fold     *fold.Manager
	Monitor  *DisplayMonitor
	Apps     *fold.AppStateObserver
	Foldable bool
	Gatherer prometheus.Gatherer
	Logger   *slog.Logger
}

func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Fold == nil || cfg.Monitor == nil || cfg.Apps == nil {
		return nil, errors.New("fold manager, display monitor and app observer are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	gatherer := cfg.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			logger.Debug("http request",
				"method", c.Request().Method,
				"uri", c.Request().RequestURI,
				"status", c.Response().Status,
				"duration", time.Since(start))
			return err
		}
	})

	s := &Server{
		echo:     e,
		fold:     cfg.Fold,
		monitor:  cfg.Monitor,
		apps:     cfg.Apps,
		foldable: cfg.Foldable,
		logger:   logger,
	}
	e.GET("/health", s.handleHealth)
	e.GET("/status", s.handleStatus)
	e.GET("/cutout", s.handleCutout)
	e.POST("/app-state", s.handleAppState)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	return s, nil
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("starting http server", "addr", addr)
	err := s.echo.Start(addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}

type HealthResponse struct {
	Status string `json:"status"`
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	Fold     fold.Snapshot  `json:"fold"`
	Displays []DisplayState `json:"displays"`
}

// CutoutResponse is the body of GET /cutout.
type CutoutResponse struct {
	DisplayID   uint64                 `json:"displayId"`
	Width       uint32                 `json:"width"`
	Height      uint32                 `json:"height"`
	Rotation    int                    `json:"rotation"`
	Mode        config.FoldDisplayMode `json:"mode"`
	Cutout      cutout.Info            `json:"cutout"`
	Compression geometry.RectF         `json:"compression"`
}

// AppStateRequest is the body of POST /app-state.
type AppStateRequest struct {
	Bundle string `json:"bundle"`
	State  string `json:"state"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{
		Fold:     s.fold.Snapshot(),
		Displays: s.monitor.Displays(),
	})
}

func (s *Server) handleCutout(c echo.Context) error {
	width, err := queryUint(c, "width", 0)
	if err != nil || width == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "width must be a positive integer")
	}
	height, err := queryUint(c, "height", 0)
	if err != nil || height == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "height must be a positive integer")
	}
	var id uint64
	if v := c.QueryParam("display"); v != "" {
		if id, err = strconv.ParseUint(v, 10, 64); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "display must be an unsigned integer")
		}
	}
	rot := geometry.Rotation0
	if v := c.QueryParam("rotation"); v != "" {
		if rot, err = geometry.ParseRotation(v); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "rotation must be 0, 90, 180 or 270")
		}
	}

	ctrl := s.monitor.Controller()
	mode := ctrl.ResolveFoldMode(uint32(width), uint32(height))
	if name := c.QueryParam("mode"); name != "" {
		mode = config.ParseFoldDisplayMode(name)
		if mode == config.FoldDisplayModeUnknown && name != "unknown" {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown fold display mode "+strconv.Quote(name))
		}
	}

	w, h := uint32(width), uint32(height)
	return c.JSON(http.StatusOK, CutoutResponse{
		DisplayID:   id,
		Width:       w,
		Height:      h,
		Rotation:    rot.Degrees(),
		Mode:        mode,
		Cutout:      ctrl.ComputeCutoutInfo(id, w, h, rot, mode, s.foldable),
		Compression: ctrl.CalculateCurvedCompression(w, h, rot),
	})
}

func (s *Server) handleAppState(c echo.Context) error {
	var req AppStateRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid app-state request", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Bundle == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "bundle field is required")
	}
	state, ok := fold.ParseAppState(req.State)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "state must be foreground or background")
	}
	s.apps.OnForegroundApplicationChanged(req.Bundle, state)
	s.logger.Debug("app state changed", "bundle", req.Bundle, "state", req.State)
	return c.NoContent(http.StatusNoContent)
}

func queryUint(c echo.Context, name string, def uint64) (uint64, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	return strconv.ParseUint(v, 10, 32)
}
