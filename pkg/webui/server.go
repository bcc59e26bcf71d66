// Package webui serves an item collection over HTTP: item data, an
// evaluation endpoint, a WebSocket event stream and Prometheus metrics.
package webui

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alantheprice/choices/pkg/events"
	"github.com/alantheprice/choices/pkg/itemfile"
	"github.com/alantheprice/choices/pkg/itemvalue"
	"github.com/alantheprice/choices/pkg/utils"
)

//go:embed static/*
var staticFiles embed.FS

// ConnectionInfo stores metadata about a WebSocket connection
type ConnectionInfo struct {
	SessionID   string
	ConnectedAt time.Time
}

// Server exposes one item document. The collection is owned by an
// events.Owner so property changes reach WebSocket clients.
type Server struct {
	eventBus    *events.EventBus
	owner       *events.Owner
	gatherer    prometheus.Gatherer
	logger      *utils.Logger
	port        int
	server      *http.Server
	upgrader    websocket.Upgrader
	connections sync.Map // map[*websocket.Conn]*ConnectionInfo
	isRunning   bool
	mutex       sync.RWMutex
	startTime   time.Time

	// guarded by itemsMu
	itemsMu    sync.Mutex
	items      *itemvalue.Collection
	context    map[string]any
	properties map[string]any
	source     string
}

// NewServer creates a server for doc. gatherer may be nil, in which case
// /metrics is not registered.
func NewServer(doc *itemfile.Document, eventBus *events.EventBus, gatherer prometheus.Gatherer, port int) *Server {
	if port == 0 {
		port = 8090
	}
	if eventBus == nil {
		eventBus = events.NewEventBus()
	}
	ws := &Server{
		eventBus: eventBus,
		owner:    events.NewOwner(eventBus, doc.Locale),
		gatherer: gatherer,
		logger:   utils.GetLogger(),
		port:     port,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return strings.Contains(origin, "localhost") || strings.Contains(origin, "127.0.0.1")
			},
		},
		startTime: time.Now(),
	}
	ws.setDocument(doc, "")
	return ws
}

// SetLogger replaces the process logger.
func (ws *Server) SetLogger(l *utils.Logger) { ws.logger = l }

// Owner returns the owning context bound to every served item.
func (ws *Server) Owner() *events.Owner { return ws.owner }

// Items returns the served collection. The collection is not safe for
// concurrent use: while the server is handling requests, read or change it
// through WithItems instead.
func (ws *Server) Items() *itemvalue.Collection {
	ws.itemsMu.Lock()
	defer ws.itemsMu.Unlock()
	return ws.items
}

// WithItems runs fn with the served collection while holding the lock the
// HTTP handlers evaluate under. fn must not call back into the server.
func (ws *Server) WithItems(fn func(c *itemvalue.Collection)) {
	ws.itemsMu.Lock()
	defer ws.itemsMu.Unlock()
	fn(ws.items)
}

// LoadDocument replaces the served items and announces the reload.
func (ws *Server) LoadDocument(doc *itemfile.Document, source string) {
	n := ws.setDocument(doc, source)
	ws.eventBus.Publish(events.EventTypeItemsLoaded, events.ItemsLoadedEvent(source, n))
}

func (ws *Server) setDocument(doc *itemfile.Document, source string) int {
	if doc.Locale != "" {
		ws.owner.SetLocale(doc.Locale)
	}
	c := doc.Collection(ws.owner)
	ws.itemsMu.Lock()
	defer ws.itemsMu.Unlock()
	ws.items = c
	ws.context = doc.Context
	ws.properties = doc.Properties
	ws.source = source
	return c.Len()
}

// WatchFile reloads the document whenever path changes until ctx is done.
func (ws *Server) WatchFile(ctx context.Context, path string, debounce time.Duration) error {
	w, err := itemfile.NewWatcher(path, debounce, func(doc *itemfile.Document, err error) {
		ws.eventBus.Publish(events.EventTypeFileChanged, events.FileChangedEvent(path, "write"))
		if err != nil {
			ws.logger.LogError(err)
			ws.eventBus.Publish(events.EventTypeError, events.ErrorEvent("reload failed", err))
			return
		}
		ws.LoadDocument(doc, path)
		ws.logger.Logf("Reloaded %s", path)
	})
	if err != nil {
		return err
	}
	go func() {
		w.Run(ctx)
		w.Stop()
	}()
	return nil
}

// Handler builds the route table.
func (ws *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", ws.handleIndex)
	mux.HandleFunc("/ws", ws.handleWebSocket)
	mux.HandleFunc("/api/items", ws.handleAPIItems)
	mux.HandleFunc("/api/evaluate", ws.handleAPIEvaluate)
	if ws.gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(ws.gatherer, promhttp.HandlerOpts{}))
	}
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{
			"status":      "ok",
			"port":        ws.port,
			"uptime":      time.Since(ws.startTime).String(),
			"connections": ws.countConnections(),
		})
	})
	return mux
}

// Start binds the port and serves until ctx is cancelled.
func (ws *Server) Start(ctx context.Context) error {
	ws.mutex.Lock()
	if ws.isRunning {
		ws.mutex.Unlock()
		return fmt.Errorf("web server is already running")
	}

	listener, err := (&net.ListenConfig{}).Listen(ctx, "tcp", fmt.Sprintf(":%d", ws.port))
	if err != nil {
		ws.mutex.Unlock()
		return utils.NewStructuredError("BIND_ERROR", fmt.Sprintf("cannot listen on port %d", ws.port), utils.CategorySystem, err)
	}
	ws.server = &http.Server{Handler: ws.Handler()}
	ws.isRunning = true
	ws.mutex.Unlock()

	go func() {
		ws.logger.Logf("Web UI starting at http://localhost:%d", ws.port)
		if err := ws.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ws.logger.LogError(fmt.Errorf("web server error: %w", err))
		}
	}()

	go func() {
		<-ctx.Done()
		ws.Shutdown()
	}()

	return nil
}

// Shutdown gracefully shuts down the web server
func (ws *Server) Shutdown() error {
	ws.mutex.Lock()
	if !ws.isRunning {
		ws.mutex.Unlock()
		return nil
	}
	ws.isRunning = false
	ws.mutex.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ws.connections.Range(func(conn, _ any) bool {
		if wsConn, ok := conn.(*websocket.Conn); ok {
			wsConn.Close()
		}
		return true
	})

	return ws.server.Shutdown(ctx)
}

// IsRunning returns true if the web server is running
func (ws *Server) IsRunning() bool {
	ws.mutex.RLock()
	defer ws.mutex.RUnlock()
	return ws.isRunning
}

// GetPort returns the port the web server is running on
func (ws *Server) GetPort() int {
	return ws.port
}

func (ws *Server) countConnections() int {
	count := 0
	ws.connections.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// CheckPortAvailable checks if a port is available to bind to
func CheckPortAvailable(port int) bool {
	listener, err := (&net.ListenConfig{}).Listen(context.Background(), "tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	listener.Close()
	return true
}

// FindAvailablePort finds an available port starting from a base port
func FindAvailablePort(basePort int) int {
	port := basePort
	for port < basePort+100 {
		if CheckPortAvailable(port) {
			return port
		}
		port++
	}
	return basePort + 100
}
