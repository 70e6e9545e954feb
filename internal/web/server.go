package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/onecho-dev/onecho/internal/bancho"
	"github.com/onecho-dev/onecho/internal/bancho/serverpackets"
	"github.com/onecho-dev/onecho/internal/config"
)

const osuUserAgent = "osu!"

// Server is the Echo application fronting the Bancho protocol: the
// packet endpoint, a landing page and the avatar host.
type Server struct {
	echo    *echo.Echo
	handler *bancho.Handler
	cfg     config.Server
}

// New constructs the Echo app and registers all routes.
func New(handler *bancho.Handler, cfg config.Server) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Debug("http request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"ip", c.RealIP())
			return nil
		},
	}))

	s := &Server{echo: e, handler: handler, cfg: cfg}
	s.registerRoutes()
	return s
}

// Echo exposes the underlying Echo instance for tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) registerRoutes() {
	s.echo.POST("/", s.handleBancho)
	s.echo.GET("/", s.handleIndex)
	s.echo.GET("/:id", s.handleAvatar)
}

// Run starts Echo and blocks until ctx cancellation or startup failure.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		err := s.echo.Start(s.cfg.Addr())
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.echo.Shutdown(shutCtx)
		return nil
	}
}

// handleBancho is the single protocol endpoint. A request without an
// osu-token header is a login; anything else is a packet poll for the
// session the token names.
func (s *Server) handleBancho(c echo.Context) error {
	if !strings.HasPrefix(c.Request().UserAgent(), osuUserAgent) {
		// Not a game client; show the landing page instead.
		return s.handleIndex(c)
	}

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return fmt.Errorf("reading request body: %w", err)
	}

	token := c.Request().Header.Get("osu-token")
	if token == "" {
		return s.handleLogin(c, body)
	}

	session := s.handler.State().Registry.ByToken(token)
	if session == nil {
		// Unknown token: tell the client to reconnect and log in again.
		resp := append(
			serverpackets.Notification("Server has restarted!"),
			serverpackets.Restart(0)...,
		)
		return c.Blob(http.StatusOK, echo.MIMEOctetStream, resp)
	}

	resp := s.handler.Process(c.Request().Context(), session, body)
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, resp)
}

func (s *Server) handleLogin(c echo.Context, body []byte) error {
	token, resp, err := s.handler.State().Login(c.Request().Context(), body, c.RealIP())
	if err != nil {
		slog.Error("login pipeline failed", "ip", c.RealIP(), "err", err)
		c.Response().Header().Set("cho-token", bancho.TokenInvalidRequest)
		resp = append(
			serverpackets.LoginReply(serverpackets.LoginError),
			serverpackets.Notification("onecho!: Something went wrong, try again.")...,
		)
		return c.Blob(http.StatusOK, echo.MIMEOctetStream, resp)
	}

	c.Response().Header().Set("cho-token", token)
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, resp)
}

// handleIndex serves the landing page browsers see.
func (s *Server) handleIndex(c echo.Context) error {
	// Exclude the bot from the public count.
	online := s.handler.State().Registry.Count() - 1
	page := fmt.Sprintf(
		`<html><head><title>onecho</title></head><body>`+
			`<h1>onecho</h1><p>a tiny osu! server. %d user(s) online.</p>`+
			`</body></html>`, online)
	return c.HTML(http.StatusOK, page)
}

// handleAvatar serves avatars on the a.<domain> host; user ids map to
// <id>.png under the avatar directory, with a shared default.
func (s *Server) handleAvatar(c echo.Context) error {
	host := c.Request().Host
	if !strings.HasPrefix(host, "a.") {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusNotFound)
	}

	path := filepath.Join(s.cfg.AvatarDir, fmt.Sprintf("%d.png", id))
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join(s.cfg.AvatarDir, "default.png")
		if _, err := os.Stat(path); err != nil {
			return echo.NewHTTPError(http.StatusNotFound)
		}
	}
	return c.File(path)
}
