package spool

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gowool/spool/protocol"
	"github.com/gowool/spool/render"
)

var _ render.Writer = (*Error)(nil)

// Error is an HTTP error. It is also a render.Writer, so handlers can return
// it directly or as the failure arm of a render.Result.
type Error struct {
	Code      int    `json:"code,omitempty"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Developer string `json:"developer_message,omitempty"`
	RequestID string `json:"request_id,omitempty"`
	Internal  error  `json:"-"`
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("code=")
	b.WriteString(strconv.Itoa(e.Code))
	if e.Message != "" {
		b.WriteString(", message=")
		b.WriteString(e.Message)
	}
	if e.Data != nil {
		b.WriteString(", data=")
		b.WriteString(fmt.Sprint(e.Data))
	}
	if e.Internal != nil {
		b.WriteString(", internal=")
		b.WriteString(e.Internal.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Internal
}

// Write renders the error as JSON with its code as status. The request id
// stored in the depot, if any, is echoed in the body.
func (e *Error) Write(_ context.Context, _ *protocol.Request, depot *protocol.Depot, res *protocol.Response) {
	out := e
	if depot != nil && e.RequestID == "" {
		if id, ok := depot.GetString(DepotKeyRequestID); ok && id != "" {
			cp := *e
			cp.RequestID = id
			out = &cp
		}
	}
	res.SetStatus(out.Code)
	render.JSON[*Error]{Data: out}.Render(res)
}

// NewError builds an *Error for code. The message defaults to the status text.
func NewError(code int, err error, message ...string) *Error {
	e := &Error{Code: code, Message: http.StatusText(code), Internal: err}
	if len(message) > 0 {
		e.Message = message[0]
	}
	return e
}

func errorOf(code int) func(err error, message ...string) *Error {
	return func(err error, message ...string) *Error {
		return NewError(code, err, message...)
	}
}

var (
	NewErrBadRequest            = errorOf(http.StatusBadRequest)
	NewErrUnauthorized          = errorOf(http.StatusUnauthorized)
	NewErrForbidden             = errorOf(http.StatusForbidden)
	NewErrNotFound              = errorOf(http.StatusNotFound)
	NewErrMethodNotAllowed      = errorOf(http.StatusMethodNotAllowed)
	NewErrConflict              = errorOf(http.StatusConflict)
	NewErrRequestEntityTooLarge = errorOf(http.StatusRequestEntityTooLarge)
	NewErrInternalServerError   = errorOf(http.StatusInternalServerError)
)

// NewErrUnprocessableEntity is a 422 carrying data, usually []FailedField.
func NewErrUnprocessableEntity(err error, data any, message ...string) *Error {
	e := NewError(http.StatusUnprocessableEntity, err, message...)
	e.Data = data
	return e
}
