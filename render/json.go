package render

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/gowool/spool/protocol"
)

// JSON encodes Data. When encoding fails the status is set to 500 and
// neither the content type nor the body is touched.
type JSON[T any] struct {
	Data T
}

func JSONOf[T any](data T) JSON[T] {
	return JSON[T]{Data: data}
}

func (r JSON[T]) Render(res *protocol.Response) {
	data, err := json.Marshal(r.Data)
	if err != nil {
		fail(res, "json render", err)
		return
	}
	send(res, protocol.MIMEApplicationJSONCharsetUTF8, data)
}

func (r JSON[T]) Write(_ context.Context, _ *protocol.Request, _ *protocol.Depot, res *protocol.Response) {
	r.Render(res)
}

// IndentedJSON is JSON indented with four spaces.
type IndentedJSON[T any] struct {
	Data T
}

func (r IndentedJSON[T]) Render(res *protocol.Response) {
	data, err := json.MarshalIndent(r.Data, "", "    ")
	if err != nil {
		fail(res, "indented json render", err)
		return
	}
	send(res, protocol.MIMEApplicationJSONCharsetUTF8, data)
}

func (r IndentedJSON[T]) Write(_ context.Context, _ *protocol.Request, _ *protocol.Depot, res *protocol.Response) {
	r.Render(res)
}
