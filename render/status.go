package render

import (
	"context"

	"github.com/gowool/spool/protocol"
)

// Status sets the status code and nothing else.
type Status int

func (s Status) Render(res *protocol.Response) {
	res.SetStatus(int(s))
}

func (s Status) Write(_ context.Context, _ *protocol.Request, _ *protocol.Depot, res *protocol.Response) {
	s.Render(res)
}
