package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ironsheep/page-autocrop/internal/imaging"
	"github.com/ironsheep/page-autocrop/internal/log"
)

// Version is reported in the initialize handshake.
const Version = "0.1.0"

const (
	serverName      = "page-autocrop"
	protocolVersion = "2024-11-05"

	// maxLineBytes bounds one request line; base64 previews are not sent
	// inbound, so paths and tuning objects fit comfortably.
	maxLineBytes = 1 << 20
)

// JSON-RPC error codes used by this server.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// Server answers MCP requests for the autocrop tools. Decoded images are
// shared across calls through cache.
type Server struct {
	cache *imaging.ImageCache
}

// MCPRequest is one decoded JSON-RPC request line.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse carries either Result or Error for one request.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError is the JSON-RPC error object.
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type serverInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type initializeResult struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Capabilities    map[string]interface{} `json:"capabilities"`
	ServerInfo      serverInfo             `json:"serverInfo"`
}

// methods maps JSON-RPC method names to their handlers.
var methods = map[string]func(*Server, *MCPRequest) *MCPResponse{
	"initialize": (*Server).handleInitialize,
	"tools/list": (*Server).handleToolsList,
	"tools/call": (*Server).handleToolsCall,
	"ping": func(_ *Server, req *MCPRequest) *MCPResponse {
		return resultResponse(req.ID, struct{}{})
	},
}

// New returns a server with an empty image cache.
func New() *Server {
	return &Server{cache: imaging.NewImageCache()}
}

// Run serves MCP over stdin and stdout.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads newline-delimited requests from r until EOF and writes one
// response line per request to w. Notifications get no reply; a line that
// is not valid JSON gets a parse error with a null id.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	enc := json.NewEncoder(w)

	log.Infof("%s %s serving MCP", serverName, Version)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var resp *MCPResponse
		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Warnf("unparseable request: %v", err)
			resp = errorResponse(nil, codeParseError, "Parse error", err.Error())
		} else {
			resp = s.handleRequest(&req)
		}
		if resp == nil {
			continue
		}
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read request: %w", err)
	}
	return nil
}

// handleRequest dispatches req and returns nil for notifications.
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	if strings.HasPrefix(req.Method, "notifications/") {
		log.Debugf("notification %s", req.Method)
		return nil
	}
	handler, ok := methods[req.Method]
	if !ok {
		return errorResponse(req.ID, codeMethodNotFound, "Method not found", req.Method)
	}
	return handler(s, req)
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return resultResponse(req.ID, initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities:    map[string]interface{}{"tools": map[string]interface{}{}},
		ServerInfo:      serverInfo{Name: serverName, Version: Version},
	})
}

func resultResponse(id, result interface{}) *MCPResponse {
	return &MCPResponse{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &MCPError{Code: code, Message: message, Data: data},
	}
}
