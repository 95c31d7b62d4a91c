package spool

import (
	"net/http"

	"github.com/gowool/spool/render"
)

// GET also answers HEAD; the buffered body is dropped by net/http for HEAD.
func (wool *Wool) GET(pattern string, handler Handler) {
	wool.Add(pattern, handler, http.MethodGet, http.MethodHead)
}

func (wool *Wool) HEAD(pattern string, handler Handler) {
	wool.Add(pattern, handler, http.MethodHead)
}

func (wool *Wool) POST(pattern string, handler Handler) {
	wool.Add(pattern, handler, http.MethodPost)
}

func (wool *Wool) PUT(pattern string, handler Handler) {
	wool.Add(pattern, handler, http.MethodPut)
}

func (wool *Wool) PATCH(pattern string, handler Handler) {
	wool.Add(pattern, handler, http.MethodPatch)
}

func (wool *Wool) DELETE(pattern string, handler Handler) {
	wool.Add(pattern, handler, http.MethodDelete)
}

func (wool *Wool) OPTIONS(pattern string, handler Handler) {
	wool.Add(pattern, handler, http.MethodOptions)
}

// Any registers handler for every method in DefaultMethods.
func (wool *Wool) Any(pattern string, handler Handler) {
	wool.Add(pattern, handler, DefaultMethods...)
}

// Show registers a GET route whose handler only produces a response.
func Show[W render.Writer](wool *Wool, pattern string, fn func(Ctx) W) {
	wool.GET(pattern, Handle(fn))
}

// MountHealth answers GET /health with 204.
func (wool *Wool) MountHealth() {
	Show(wool, "/health", func(Ctx) render.Status {
		return http.StatusNoContent
	})
}
