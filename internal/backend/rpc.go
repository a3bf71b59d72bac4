package backend

import (
	"encoding/json"
	"fmt"
)

// rpcRequest is one client-to-server frame.
type rpcRequest struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Params []any  `json:"params,omitempty"`
}

// rpcResponse is one server-to-client frame. Frames with a non-empty ID
// answer a request; frames with an empty ID and a Notify payload are
// change-feed pushes.
type rpcResponse struct {
	ID     string           `json:"id"`
	Result json.RawMessage  `json:"result,omitempty"`
	Error  *rpcError        `json:"error,omitempty"`
	Notify *rpcNotification `json:"notify,omitempty"`
}

// rpcError is a server-reported failure for a single request.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("backend error %d: %s", e.Code, e.Message)
}

// rpcNotification is one change-feed push: the action performed and the
// affected record (the prior record, for deletes).
type rpcNotification struct {
	Action string     `json:"action"`
	Record wireRecord `json:"record"`
}
