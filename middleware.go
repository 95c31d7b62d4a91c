package spool

import (
	"github.com/google/uuid"
	"github.com/gowool/spool/protocol"
)

// DepotKeyRequestID is the depot key RequestID stores the request id under.
const DepotKeyRequestID = "request_id"

// RequestID reuses the X-Request-Id header of the request or generates a new
// id, stores it in the depot and echoes it on the response.
func RequestID() Middleware {
	return func(next Handler) Handler {
		return func(c Ctx) error {
			id := c.Req().Header.Get(protocol.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set(DepotKeyRequestID, id)
			c.Res().Header().Set(protocol.HeaderXRequestID, id)
			return next(c)
		}
	}
}
