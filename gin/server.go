// Package gin serves the antmaster HTTP surface: the MCP websocket
// endpoint, a JSON query endpoint and the species catalog API.
package gin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/antmaster"
	"github.com/fwojciec/antmaster/catalog"
	"github.com/fwojciec/antmaster/mcp"
	"github.com/fwojciec/antmaster/websocket"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

func init() {
	gin.SetMode(gin.ReleaseMode)
}

// Server routes HTTP requests to the query router and the catalog.
type Server struct {
	asker   antmaster.Asker
	species antmaster.SpeciesService
	logger  *slog.Logger
	wsOpts  []websocket.Option
	engine  *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and transport logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithWebsocketOptions passes options to every accepted MCP connection.
func WithWebsocketOptions(opts ...websocket.Option) Option {
	return func(s *Server) {
		s.wsOpts = append(s.wsOpts, opts...)
	}
}

// NewServer creates a Server answering questions with asker and serving
// the catalog from species.
func NewServer(asker antmaster.Asker, species antmaster.SpeciesService, opts ...Option) *Server {
	s := &Server{
		asker:   asker,
		species: species,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())

	r.GET("/healthz", s.health)
	r.GET("/mcp", s.serveMCP)

	api := r.Group("/api")
	api.POST("/mcp/query", s.query)
	api.GET("/species", s.listSpecies)
	api.POST("/species", s.createSpecies)
	api.POST("/species/batch", s.createSpeciesBatch)
	api.GET("/species/:id", s.getSpecies)
	api.DELETE("/species/:id", s.deleteSpecies)
	api.GET("/species/:id/description", s.getDescription)

	s.engine = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully. Open websocket connections are closed when ctx ends.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func(begin time.Time) {
			s.logger.Info("http",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"status", c.Writer.Status(),
				"duration", time.Since(begin),
			)
		}(time.Now())
		c.Next()
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// serveMCP upgrades to a websocket and serves MCP requests until the peer
// disconnects or the server shuts down.
func (s *Server) serveMCP(c *gin.Context) {
	opts := append([]websocket.Option{
		websocket.WithHandler(mcp.NewServer(s.asker, s.logger)),
		websocket.WithLogger(s.logger),
	}, s.wsOpts...)

	conn, err := websocket.Upgrade(c.Writer, c.Request, opts...)
	if err != nil {
		// The upgrader has already written an HTTP error.
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	s.logger.Info("mcp connected", "remote", c.Request.RemoteAddr)
	if err := conn.Serve(c.Request.Context()); err != nil {
		s.logger.Info("mcp disconnected", "remote", c.Request.RemoteAddr, "err", err)
	}
}

// QueryRequest is the body of POST /api/mcp/query.
type QueryRequest struct {
	Query       string `json:"query"`
	SpeciesName string `json:"speciesName"`
}

func (s *Server) query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, antmaster.Errorf(antmaster.EINVALID, "invalid request body"))
		return
	}
	if req.Query == "" {
		s.fail(c, antmaster.Errorf(antmaster.EINVALID, "query required"))
		return
	}

	answer, err := s.asker.Ask(c.Request.Context(), antmaster.Query{
		Text:           req.Query,
		SpeciesContext: req.SpeciesName,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

// fail writes err as a JSON error with a status derived from its code.
func (s *Server) fail(c *gin.Context, err error) {
	code := antmaster.ErrorCode(err)
	if code == antmaster.EINTERNAL {
		s.logger.Error("request failed", "path", c.FullPath(), "err", err)
	}
	c.AbortWithStatusJSON(statusOf(code), gin.H{"error": antmaster.ErrorMessage(err)})
}

var statuses = map[string]int{
	antmaster.EINVALID:        http.StatusBadRequest,
	antmaster.ENOTFOUND:       http.StatusNotFound,
	antmaster.ECONFLICT:       http.StatusConflict,
	antmaster.EUNAVAILABLE:    http.StatusServiceUnavailable,
	antmaster.ENOTIMPLEMENTED: http.StatusNotImplemented,
}

func statusOf(code string) int {
	if status, ok := statuses[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// importerFor returns an Importer writing to the server's catalog.
func (s *Server) importerFor() *catalog.Importer {
	return &catalog.Importer{
		Species: s.species,
		Logger: func(format string, args ...any) {
			s.logger.Debug("import", "detail", fmt.Sprintf(format, args...))
		},
	}
}
