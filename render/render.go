// Package render turns values returned by handlers into response bodies.
//
// Two contracts are involved. A Piece renders itself synchronously onto a
// protocol.Response and never sees the request. A Writer additionally receives
// the request context, the request and its Depot, and is what the framework
// calls once a handler returns. Every built-in Piece is also a Writer; Adapt
// lifts any other Piece into one, and Result dispatches to one of two Writers.
//
// Values are consumed by a single Render or Write call. Rendering the same
// value twice is not supported.
package render

import (
	"context"
	"net/http"

	"github.com/gowool/spool/internal"
	"github.com/gowool/spool/protocol"
	"go.uber.org/zap"
)

var (
	_ HTMLRender = (*HTMLEngine)(nil)

	_ Piece  = Empty{}
	_ Piece  = String("")
	_ Piece  = Formatted{}
	_ Piece  = Text[string]{}
	_ Piece  = JSON[any]{}
	_ Piece  = IndentedJSON[any]{}
	_ Piece  = Blob{}
	_ Piece  = HTML{}
	_ Piece  = Redirect{}
	_ Writer = Empty{}
	_ Writer = String("")
	_ Writer = Formatted{}
	_ Writer = Text[string]{}
	_ Writer = JSON[any]{}
	_ Writer = IndentedJSON[any]{}
	_ Writer = Blob{}
	_ Writer = HTML{}
	_ Writer = Redirect{}
	_ Writer = PieceWriter[Empty]{}
	_ Writer = Result[String, String]{}
)

// Piece renders a value onto res. Implementations must not block.
type Piece interface {
	Render(res *protocol.Response)
}

// Writer writes a value onto res once a handler has returned it. ctx is the
// request context; implementations that block must stop when it is done.
type Writer interface {
	Write(ctx context.Context, req *protocol.Request, depot *protocol.Depot, res *protocol.Response)
}

// PieceWriter is the Writer of a Piece. It ignores everything but the response.
type PieceWriter[P Piece] struct {
	Piece P
}

// Adapt lifts p into a Writer.
func Adapt[P Piece](p P) PieceWriter[P] {
	return PieceWriter[P]{Piece: p}
}

func (w PieceWriter[P]) Write(_ context.Context, _ *protocol.Request, _ *protocol.Depot, res *protocol.Response) {
	w.Piece.Render(res)
}

// Result holds either a success or a failure Writer.
type Result[T, E Writer] struct {
	ok    T
	err   E
	isErr bool
}

func Ok[T, E Writer](v T) Result[T, E] {
	return Result[T, E]{ok: v}
}

func Err[T, E Writer](e E) Result[T, E] {
	return Result[T, E]{err: e, isErr: true}
}

func (r Result[T, E]) IsErr() bool {
	return r.isErr
}

// Write forwards to the populated arm.
func (r Result[T, E]) Write(ctx context.Context, req *protocol.Request, depot *protocol.Depot, res *protocol.Response) {
	if r.isErr {
		r.err.Write(ctx, req, depot, res)
		return
	}
	r.ok.Write(ctx, req, depot, res)
}

// Empty renders nothing.
type Empty struct{}

func (Empty) Render(*protocol.Response) {}

func (e Empty) Write(_ context.Context, _ *protocol.Request, _ *protocol.Depot, res *protocol.Response) {
	e.Render(res)
}

// send sets the body and, once it is accepted, the content type. A rejected
// body is logged and fails the response with 500; the previous body and
// content type are left as they were.
func send(res *protocol.Response, contentType string, body []byte) {
	if err := res.WriteBody(body); err != nil {
		res.Log().Warn("write body", zap.Error(err), zap.Int("size", len(body)))
		res.SetStatus(http.StatusInternalServerError)
		return
	}
	res.SetContentType(contentType)
}

func sendString(res *protocol.Response, contentType, body string) {
	send(res, contentType, internal.StringToBytes(body))
}

func fail(res *protocol.Response, msg string, err error) {
	res.Log().Error(msg, zap.Error(err))
	res.SetStatus(http.StatusInternalServerError)
}
