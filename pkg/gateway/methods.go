package gateway

import (
	"context"
	"fmt"

	"github.com/harun/buffettcode-mcp/internal/tracing"
	"github.com/harun/buffettcode-mcp/pkg/dispatcher"
)

// Tool method names, shared with the MCP wire protocol.
const (
	MethodToolsList = "tools/list"
	MethodToolsCall = "tools/call"
)

// registerToolMethods exposes the dispatcher as tools/list and tools/call.
func (s *Server) registerToolMethods() {
	_ = s.RegisterMethod(MethodToolsList, s.handleToolsList)
	_ = s.RegisterMethod(MethodToolsCall, s.handleToolsCall)
}

func (s *Server) handleToolsList(_ context.Context, _ map[string]interface{}) (interface{}, error) {
	return map[string]interface{}{
		"tools": s.dispatcher.List(),
	}, nil
}

func (s *Server) handleToolsCall(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	name, ok := params["name"].(string)
	if !ok || name == "" {
		return nil, &RPCError{
			Code:    InvalidParams,
			Message: "name parameter is required and must be a string",
		}
	}

	var args map[string]interface{}
	if raw, present := params["arguments"]; present && raw != nil {
		args, ok = raw.(map[string]interface{})
		if !ok {
			return nil, &RPCError{
				Code:    InvalidParams,
				Message: "arguments parameter must be an object",
			}
		}
	}

	logger := tracing.LoggerFromContext(ctx, s.logger)
	logger.Debug().
		Str("tool", name).
		Str("clientId", clientIDFromContext(ctx)).
		Msg("Gateway dispatching tool call")

	res, err := s.dispatcher.Call(ctx, name, args)
	if err != nil {
		return nil, toRPCError(err)
	}
	return res, nil
}

// toRPCError maps dispatcher failures onto JSON-RPC codes. The message is
// the dispatcher's caller-facing text.
func toRPCError(err error) *RPCError {
	code := InternalError
	switch dispatcher.KindOf(err) {
	case dispatcher.KindUnknownTool, dispatcher.KindInvalidArguments:
		code = InvalidParams
	}
	return &RPCError{
		Code:    code,
		Message: err.Error(),
		Data:    errorData(err),
	}
}

func errorData(err error) interface{} {
	kind := dispatcher.KindOf(err)
	if kind == "" {
		return nil
	}
	return map[string]interface{}{
		"kind": string(kind),
	}
}

// describeCall is used in log lines for failed websocket frames.
func describeCall(req *RPCRequest) string {
	if req == nil {
		return ""
	}
	if name, ok := req.Params["name"].(string); ok {
		return fmt.Sprintf("%s(%s)", req.Method, name)
	}
	return req.Method
}
