package render

import (
	"context"

	"github.com/gowool/spool/protocol"
)

// Blob writes raw bytes with an arbitrary content type. An empty content type
// falls back to application/octet-stream.
type Blob struct {
	ContentType string
	Data        []byte
}

func (r Blob) Render(res *protocol.Response) {
	ct := r.ContentType
	if ct == "" {
		ct = protocol.MIMEOctetStream
	}
	send(res, ct, r.Data)
}

func (r Blob) Write(_ context.Context, _ *protocol.Request, _ *protocol.Depot, res *protocol.Response) {
	r.Render(res)
}
