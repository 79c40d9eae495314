package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/ironsheep/image-intake/internal/config"
	"github.com/ironsheep/image-intake/internal/imaging"
	"github.com/ironsheep/image-intake/internal/intake"
)

// Version is reported in the initialize handshake.
var Version = "0.1.0"

// Server handles MCP protocol communication
type Server struct {
	cfg     *config.Config
	log     *zap.Logger
	cache   *imaging.DecodeCache
	session *intake.Session

	ctx    context.Context
	cancel context.CancelFunc

	outMu   sync.Mutex
	encoder *json.Encoder
	pending sync.WaitGroup
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// MCPNotification represents an outgoing notification (no ID)
type MCPNotification struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// New creates a server with one intake session. A nil cfg selects
// config.Default and a nil log discards output.
func New(cfg *config.Config, log *zap.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}

	cache := imaging.NewDecodeCache(0)
	pipeline := intake.NewPipeline(
		&intake.DataURLLoader{MaxSize: cfg.MaxFileSize},
		intake.NewImageDecoder(cache),
		intake.WithLogger(log),
		intake.WithLoadTimeout(cfg.LoadTimeout),
		intake.WithDecodeTimeout(cfg.DecodeTimeout),
	)

	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:     cfg,
		log:     log,
		cache:   cache,
		session: intake.NewSession(ctx, pipeline),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Run serves on stdin/stdout until stdin is closed.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to w.
// tools/call requests run concurrently, so their responses may arrive out of
// order. At EOF any in-flight selection is cancelled and Serve returns once
// every pending response has been written.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	s.outMu.Lock()
	s.encoder = json.NewEncoder(w)
	s.outMu.Unlock()

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Warn("failed to parse request", zap.Error(err))
			continue
		}

		// Tool calls may wait on a selection; the loop keeps reading so a
		// later selection can supersede a stuck one.
		if req.Method == "tools/call" {
			s.pending.Add(1)
			go func() {
				defer s.pending.Done()
				s.respond(&req)
			}()
			continue
		}
		s.respond(&req)
	}

	s.Close()
	s.pending.Wait()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

func (s *Server) respond(req *MCPRequest) {
	if resp := s.handleRequest(req); resp != nil {
		s.write(resp)
	}
}

// Close cancels in-flight selections.
func (s *Server) Close() {
	s.session.Close()
	s.cancel()
}

func (s *Server) write(v interface{}) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	if s.encoder == nil {
		return
	}
	if err := s.encoder.Encode(v); err != nil {
		s.log.Error("failed to encode message", zap.Error(err))
	}
}

// notify sends a notification on the output stream.
func (s *Server) notify(method string, params interface{}) {
	s.write(&MCPNotification{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
	})
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "image-intake",
				"version": Version,
			},
		},
	}
}
