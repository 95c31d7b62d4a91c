package render

import (
	"context"
	"fmt"

	"github.com/gowool/spool/protocol"
)

// String is served as text/plain.
type String string

func (s String) Render(res *protocol.Response) {
	sendString(res, protocol.MIMETextPlainCharsetUTF8, string(s))
}

func (s String) Write(_ context.Context, _ *protocol.Request, _ *protocol.Depot, res *protocol.Response) {
	s.Render(res)
}

// Formatted is a text/plain body built with fmt.Sprintf. Without Data the
// format is written verbatim.
type Formatted struct {
	Format string
	Data   []any
}

func Stringf(format string, data ...any) Formatted {
	return Formatted{Format: format, Data: data}
}

func (r Formatted) Render(res *protocol.Response) {
	if len(r.Data) == 0 {
		String(r.Format).Render(res)
		return
	}
	String(fmt.Sprintf(r.Format, r.Data...)).Render(res)
}

func (r Formatted) Write(_ context.Context, _ *protocol.Request, _ *protocol.Depot, res *protocol.Response) {
	r.Render(res)
}
