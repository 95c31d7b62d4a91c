package render

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gowool/spool/protocol"
)

// Redirect points the client to Location. Code must be a 3xx status or 201.
type Redirect struct {
	Code     int
	Location string
}

func (r Redirect) Render(res *protocol.Response) {
	if (r.Code < http.StatusMultipleChoices || r.Code > http.StatusPermanentRedirect) && r.Code != http.StatusCreated {
		fail(res, "redirect render", fmt.Errorf("cannot redirect with status code %d", r.Code))
		return
	}
	res.Header().Set(protocol.HeaderLocation, r.Location)
	res.SetStatus(r.Code)
}

func (r Redirect) Write(_ context.Context, _ *protocol.Request, _ *protocol.Depot, res *protocol.Response) {
	r.Render(res)
}
