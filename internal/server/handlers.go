package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ironsheep/image-intake/internal/imaging"
	"github.com/ironsheep/image-intake/internal/intake"
)

// StatusNotification is the method used to report a selection that
// resolved after image_select returned.
const StatusNotification = "notifications/image/status"

// errNoImage is returned by image_display when no image is selected.
var errNoImage = errors.New("no image selected")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_select", "image_status").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// StatusResult is the JSON form of an intake status.
type StatusResult struct {
	SelectionID string      `json:"selection_id,omitempty"`
	Status      intake.Kind `json:"status"`
	Message     string      `json:"message"`
	Pending     bool        `json:"pending"`
	Superseded  bool        `json:"superseded,omitempty"`

	// Set only for status "selected".
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
	DisplayWidth  int    `json:"display_width,omitempty"`
	DisplayHeight int    `json:"display_height,omitempty"`
	MediaType     string `json:"media_type,omitempty"`
	Content       string `json:"content,omitempty"`

	// Error describes the failure behind "not_image" and "file_error".
	Error string `json:"error,omitempty"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_select":
		return s.handleImageSelect(args)
	case "image_status":
		return s.handleImageStatus(args)
	case "image_display":
		return s.handleImageDisplay(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments; absent arguments leave v untouched.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	return json.Unmarshal(args, v)
}

// describe renders a status for the wire.
func (s *Server) describe(id string, st intake.Status, includeContent bool) *StatusResult {
	r := &StatusResult{
		SelectionID: id,
		Status:      st.Kind(),
		Message:     st.Message(),
	}

	switch st := st.(type) {
	case intake.NotSelected:
	case intake.NotImage:
		r.Error = errString(st.Err)
	case intake.FileError:
		r.Error = errString(st.Err)
	case intake.Selected:
		r.Width, r.Height = st.Size.Width, st.Size.Height
		r.DisplayWidth, r.DisplayHeight = imaging.DisplaySize(
			st.Size.Width, st.Size.Height, s.cfg.Display.MaxWidth, s.cfg.Display.MaxHeight)
		r.MediaType = st.Content.MediaType()
		if includeContent {
			r.Content = st.Content.String()
		}
	}
	return r
}

func (s *Server) describeSnapshot(snap intake.Snapshot, includeContent bool) *StatusResult {
	r := s.describe(snap.SelectionID, snap.Status, includeContent)
	r.Pending = snap.Pending
	return r
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// === Selection Handlers ===

type imageSelectArgs struct {
	Path           string `json:"path"`
	Wait           *bool  `json:"wait"`
	IncludeContent bool   `json:"include_content"`
}

func (s *Server) handleImageSelect(args json.RawMessage) (interface{}, error) {
	var a imageSelectArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}

	var h intake.FileHandle
	if a.Path != "" {
		h = intake.PathHandle{Path: a.Path}
	}
	t := s.session.Select(h)

	if a.Wait != nil && !*a.Wait {
		s.pending.Add(1)
		go s.notifyWhenDone(t)
		return s.describeSnapshot(s.session.Current(), false), nil
	}

	st, err := t.Wait(s.ctx)
	if err != nil {
		return nil, fmt.Errorf("selection %s abandoned: %w", t.ID(), err)
	}
	r := s.describe(t.ID(), st, a.IncludeContent)
	r.Superseded = t.Superseded()
	return r, nil
}

// notifyWhenDone reports a non-waiting selection once it resolves, unless a
// later selection superseded it or the server is shutting down.
func (s *Server) notifyWhenDone(t *intake.Ticket) {
	defer s.pending.Done()

	st, err := t.Wait(s.ctx)
	if err != nil || t.Superseded() || s.ctx.Err() != nil {
		return
	}
	s.log.Debug("selection resolved", zap.String("selection_id", t.ID()))
	s.notify(StatusNotification, s.describe(t.ID(), st, false))
}

type imageStatusArgs struct {
	IncludeContent bool `json:"include_content"`
}

func (s *Server) handleImageStatus(args json.RawMessage) (interface{}, error) {
	var a imageStatusArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	return s.describeSnapshot(s.session.Current(), a.IncludeContent), nil
}

// === Display Handlers ===

// DisplayResponse is the image_display result.
type DisplayResponse struct {
	SelectionID string `json:"selection_id"`
	*imaging.DisplayResult
}

func (s *Server) handleImageDisplay(args json.RawMessage) (interface{}, error) {
	snap := s.session.Current()
	sel, ok := snap.Status.(intake.Selected)
	if !ok {
		return nil, fmt.Errorf("%w: status is %s", errNoImage, snap.Status.Kind())
	}

	dec, err := s.cache.Decode(sel.Content.Bytes())
	if err != nil {
		return nil, err
	}

	result, err := imaging.RenderDisplay(dec.Image, s.cfg.Display.MaxWidth, s.cfg.Display.MaxHeight)
	if err != nil {
		return nil, err
	}
	return &DisplayResponse{SelectionID: snap.SelectionID, DisplayResult: result}, nil
}
