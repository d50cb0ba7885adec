package dodkit

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/goccy/go-json"
	fiber "github.com/gofiber/fiber/v3"
	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/dodkit/internal/constants"
	"github.com/hyp3rd/dodkit/internal/libs/serializer"
	"github.com/hyp3rd/dodkit/internal/sentinel"
	"github.com/hyp3rd/dodkit/pkg/limiter"
	"github.com/hyp3rd/dodkit/pkg/stats"
)

// ManagementHTTPOption configures the management HTTP server.
type ManagementHTTPOption func(*ManagementHTTPServer)

// ManagementHTTPServer holds Fiber app and settings.
type ManagementHTTPServer struct {
	addr         string
	app          *fiber.App
	readTimeout  time.Duration
	writeTimeout time.Duration
	authFunc     func(fiber.Ctx) error
	serializers  *serializer.Registry
	ln           net.Listener
	started      bool
}

// WithMgmtAuth sets an auth function (return error to block).
func WithMgmtAuth(fn func(fiber.Ctx) error) ManagementHTTPOption {
	return func(s *ManagementHTTPServer) { s.authFunc = fn }
}

// WithMgmtReadTimeout sets read timeout.
func WithMgmtReadTimeout(d time.Duration) ManagementHTTPOption {
	return func(s *ManagementHTTPServer) { s.readTimeout = d }
}

// WithMgmtWriteTimeout sets write timeout.
func WithMgmtWriteTimeout(d time.Duration) ManagementHTTPOption {
	return func(s *ManagementHTTPServer) { s.writeTimeout = d }
}

// WithMgmtSerializers sets the registry used to encode responses.
func WithMgmtSerializers(registry *serializer.Registry) ManagementHTTPOption {
	return func(s *ManagementHTTPServer) { s.serializers = registry }
}

const (
	defaultReadTimeout  = 5 * time.Second
	defaultWriteTimeout = 5 * time.Second
)

// NewManagementHTTPServer builds an HTTP server holder (lazy start).
func NewManagementHTTPServer(addr string, opts ...ManagementHTTPOption) *ManagementHTTPServer {
	srv := &ManagementHTTPServer{
		addr:         addr,
		readTimeout:  defaultReadTimeout,
		writeTimeout: defaultWriteTimeout,
		serializers:  serializer.NewSerializerRegistry(),
	}
	for _, opt := range opts { // apply options
		opt(srv)
	}

	srv.app = fiber.New(fiber.Config{
		ReadTimeout:  srv.readTimeout,
		WriteTimeout: srv.writeTimeout,
	})

	return srv
}

// managementKit is what the routes need from the Kit.
type managementKit interface {
	Compute(inputs ...any) (stats.Summary, error)
	Collector() *stats.Collector
	Limiters(ctx context.Context) ([]limiter.Snapshot, error)
}

// statsRequest is the body of POST /stats.
type statsRequest struct {
	Values []any    `json:"values"`
	Stats  []string `json:"stats"`
}

// Start launches listener (idempotent). Caller provides the kit for handler wiring.
func (s *ManagementHTTPServer) Start(ctx context.Context, kit managementKit) error {
	if s.started { // idempotent
		return nil
	}

	s.mountRoutes(ctx, kit)

	lc := net.ListenConfig{}

	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return ewrap.Wrap(err, "mgmt listen")
	}

	s.ln = ln

	go func() { // serve in background; the listener error surfaces on Shutdown
		_ = s.app.Listener(ln)
	}()

	s.started = true

	return nil
}

// Address returns the bound address (useful when passing ":0" for ephemeral port). Empty if not started yet.
func (s *ManagementHTTPServer) Address() string {
	if s.ln == nil {
		return ""
	}

	return s.ln.Addr().String()
}

// Shutdown stops the server.
func (s *ManagementHTTPServer) Shutdown(ctx context.Context) error {
	if !s.started {
		return nil
	}

	ch := make(chan error, 1)

	go func() {
		ch <- s.app.Shutdown()
	}()

	select {
	case <-ctx.Done():
		return sentinel.ErrMgmtHTTPShutdownTimeout
	case err := <-ch:
		return err
	}
}

func (s *ManagementHTTPServer) mountRoutes(ctx context.Context, kit managementKit) {
	useAuth := s.wrapAuth
	s.registerBasic(useAuth)
	s.registerStats(useAuth, kit)
	s.registerSeries(ctx, useAuth, kit)
	s.registerLimiters(ctx, useAuth, kit)
}

// wrapAuth returns an auth-wrapped handler if authFunc provided.
func (s *ManagementHTTPServer) wrapAuth(handler fiber.Handler) fiber.Handler { //nolint:ireturn
	if s.authFunc == nil {
		return handler
	}

	return func(fiberCtx fiber.Ctx) error {
		authErr := s.authFunc(fiberCtx)
		if authErr != nil {
			return authErr
		}

		return handler(fiberCtx)
	}
}

// send encodes payload with the serializer picked by the `format` query parameter.
func (s *ManagementHTTPServer) send(fiberCtx fiber.Ctx, status int, payload any) error {
	format := fiberCtx.Query("format", constants.DefaultSerializer)

	ser, err := s.serializers.New(format)
	if err != nil {
		return fiberCtx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	data, err := ser.Marshal(payload)
	if err != nil {
		return ewrap.Wrap(err, "encoding response")
	}

	fiberCtx.Set(fiber.HeaderContentType, ser.ContentType())

	return fiberCtx.Status(status).Send(data)
}

func (s *ManagementHTTPServer) registerBasic(useAuth func(fiber.Handler) fiber.Handler) {
	s.app.Get("/health", useAuth(func(fiberCtx fiber.Ctx) error { return fiberCtx.SendString("ok") }))
}

func (s *ManagementHTTPServer) registerStats(useAuth func(fiber.Handler) fiber.Handler, kit managementKit) {
	s.app.Post("/stats", useAuth(func(fiberCtx fiber.Ctx) error {
		var req statsRequest

		err := json.Unmarshal(fiberCtx.Body(), &req)
		if err != nil {
			return fiberCtx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
		}

		summary, err := kit.Compute(req.Values...)
		if err != nil {
			return s.send(fiberCtx, fiber.StatusUnprocessableEntity, fiber.Map{"error": constants.DefaultErrorMarker})
		}

		return s.send(fiberCtx, fiber.StatusOK, summary.Select(req.Stats...))
	}))
}

func (s *ManagementHTTPServer) registerSeries(ctx context.Context, useAuth func(fiber.Handler) fiber.Handler, kit managementKit) {
	s.app.Get("/series", useAuth(func(fiberCtx fiber.Ctx) error {
		names, err := kit.Collector().Series(ctx)
		if err != nil {
			return err
		}

		return s.send(fiberCtx, fiber.StatusOK, fiber.Map{"series": names})
	}))
	s.app.Get("/series/:name", useAuth(func(fiberCtx fiber.Ctx) error {
		summary, err := kit.Collector().Summary(ctx, fiberCtx.Params("name"))
		if err != nil {
			if errors.Is(err, sentinel.ErrEmptySampleSet) {
				return s.send(fiberCtx, fiber.StatusNotFound, fiber.Map{"error": constants.DefaultErrorMarker})
			}

			return err
		}

		if names := fiberCtx.Query("stats"); names != "" {
			return s.send(fiberCtx, fiber.StatusOK, summary.Select(strings.Split(names, ",")...))
		}

		return s.send(fiberCtx, fiber.StatusOK, summary)
	}))
}

func (s *ManagementHTTPServer) registerLimiters(ctx context.Context, useAuth func(fiber.Handler) fiber.Handler, kit managementKit) {
	s.app.Get("/limiters", useAuth(func(fiberCtx fiber.Ctx) error {
		snapshots, err := kit.Limiters(ctx)
		if err != nil {
			return err
		}

		return s.send(fiberCtx, fiber.StatusOK, snapshots)
	}))
}
