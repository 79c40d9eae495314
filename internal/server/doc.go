// Package server implements the MCP (Model Context Protocol) server for image intake.
//
// This package provides a JSON-RPC 2.0 server that lets a client pick a local
// file and learn whether it is a displayable image. It holds a single intake
// session, so there is exactly one current status per server.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses and notifications on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - image_select: Select a file (or none) and classify it
//   - image_status: Report the current status
//   - image_display: Render the selected image within the display bounds
//
// Every status carries one of four fixed messages:
//
//	not_selected  "Please select a file."
//	not_image     "Please select an image."
//	file_error    "File loading error."
//	selected      "Image size: WxH px"
//
// # Asynchronous Selections
//
// image_select waits for its result by default. With "wait": false it returns
// at once with pending=true and later sends a notifications/image/status
// message. A newer selection cancels an older one that is still running; the
// older one is never reported.
//
// tools/call requests run on their own goroutines, so a waiting image_select
// never stalls the read loop and responses may arrive out of request order.
// A selection whose file never finishes loading is still superseded by the
// next image_select.
//
// # Error Handling
//
// Unreadable files and non-images are not errors: they are statuses. JSON-RPC
// errors are reserved for protocol problems:
//   - -32601: unknown method
//   - -32602: malformed tools/call params
//   - -32000: tool execution failure (unknown tool, bad arguments, nothing to display)
package server
