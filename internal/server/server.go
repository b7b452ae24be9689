package server

import (
	"embed"
	"io/fs"
	"net/http"
	"net/http/pprof"

	"github.com/atikulmunna/warp/internal/aggregator"
	"github.com/atikulmunna/warp/internal/hub"
	"github.com/gin-gonic/gin"
)

//go:embed all:web
var webFS embed.FS

// DataSource provides JSON snapshots of the processing state. The watch
// command implements it with a lock around the processor, since the
// processor itself is single-threaded.
type DataSource interface {
	BuildsJSON() ([]byte, error)
	SummaryJSON() ([]byte, error)
}

// Server holds the Gin engine and dependencies for the live dashboard.
type Server struct {
	engine     *gin.Engine
	hub        *hub.Hub
	aggregator *aggregator.Aggregator
	source     DataSource
	port       string
}

// New creates the dashboard web server for watch mode.
func New(h *hub.Hub, agg *aggregator.Aggregator, source DataSource, port string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := &Server{
		engine:     engine,
		hub:        h,
		aggregator: agg,
		source:     source,
		port:       port,
	}

	s.setupRoutes()
	return s
}

// serveEmbedded reads a file from the embedded FS and writes it with the
// given content type. The file is read once at startup.
func serveEmbedded(webContent fs.FS, name string, contentType string) gin.HandlerFunc {
	data, err := fs.ReadFile(webContent, name)
	return func(c *gin.Context) {
		if err != nil {
			c.String(http.StatusNotFound, "file not found: %s", name)
			return
		}
		c.Data(http.StatusOK, contentType, data)
	}
}

// serveSnapshot renders a DataSource JSON snapshot.
func serveSnapshot(snapshot func() ([]byte, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := snapshot()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", data)
	}
}

func (s *Server) setupRoutes() {
	webContent, _ := fs.Sub(webFS, "web")

	// Dashboard.
	s.engine.GET("/", serveEmbedded(webContent, "index.html", "text/html; charset=utf-8"))
	s.engine.GET("/style.css", serveEmbedded(webContent, "style.css", "text/css; charset=utf-8"))
	s.engine.GET("/app.js", serveEmbedded(webContent, "app.js", "application/javascript; charset=utf-8"))

	// Health check.
	s.engine.GET("/healthz", func(c *gin.Context) {
		stats := s.aggregator.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"uptime":         stats.Uptime,
			"builds":         stats.Builds,
			"eps":            stats.EPS,
			"dropped_events": stats.DroppedEvents,
		})
	})

	// Parsing state.
	s.engine.GET("/api/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.aggregator.Snapshot())
	})
	s.engine.GET("/api/builds", serveSnapshot(s.source.BuildsJSON))
	s.engine.GET("/api/summary", serveSnapshot(s.source.SummaryJSON))

	// WebSocket event stream.
	s.engine.GET("/ws", s.handleWebSocket)

	// pprof profiling endpoints.
	s.engine.GET("/debug/pprof/", gin.WrapF(pprof.Index))
	s.engine.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
	s.engine.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
	s.engine.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
	s.engine.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
	s.engine.GET("/debug/pprof/allocs", gin.WrapH(pprof.Handler("allocs")))
	s.engine.GET("/debug/pprof/heap", gin.WrapH(pprof.Handler("heap")))
	s.engine.GET("/debug/pprof/goroutine", gin.WrapH(pprof.Handler("goroutine")))
}

// Start runs the server. Blocks until the server is stopped.
func (s *Server) Start() error {
	return s.engine.Run(":" + s.port)
}
