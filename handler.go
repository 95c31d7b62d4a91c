package spool

import (
	"github.com/gowool/spool/render"
)

// Handle turns a function returning a Writer into a Handler. The returned
// value is written onto the response once h returns.
func Handle[W render.Writer](h func(c Ctx) W) Handler {
	return func(c Ctx) error {
		w := h(c)
		w.Write(c.Req().Context(), c.Req(), c.Depot(), c.Res())
		return nil
	}
}

// HandleE is Handle for functions that may fail. A non-nil error goes through
// the application's error handler and the value is not written.
func HandleE[W render.Writer](h func(c Ctx) (W, error)) Handler {
	return func(c Ctx) error {
		w, err := h(c)
		if err != nil {
			return err
		}
		w.Write(c.Req().Context(), c.Req(), c.Depot(), c.Res())
		return nil
	}
}

// HandlePiece is Handle for functions returning a render.Piece.
func HandlePiece[P render.Piece](h func(c Ctx) P) Handler {
	return func(c Ctx) error {
		h(c).Render(c.Res())
		return nil
	}
}
