package spool

import (
	"net/http"

	"github.com/gowool/spool/protocol"
	"github.com/gowool/spool/render"
	"go.uber.org/zap"
)

var _ Ctx = (*DefaultCtx)(nil)

type Ctx interface {
	CtxBinding
	Debug() bool
	Log() *zap.Logger
	Depot() *protocol.Depot
	Set(key string, value any)
	Get(key string) any
	Req() *protocol.Request
	SetReq(r *protocol.Request)
	Res() *protocol.Response
	Reset(r *http.Request, w http.ResponseWriter)
	// Render renders p onto the response right away.
	Render(p render.Piece)
	// Write hands the request, its depot and the response to w.
	Write(w render.Writer)
	// HTML renders the named template of the application's HTMLRender.
	HTML(name string, data any)
}

type DefaultCtx struct {
	wool  *Wool
	res   *protocol.Response
	req   *protocol.Request
	depot *protocol.Depot
}

func NewCtx(wool *Wool, r *http.Request, w http.ResponseWriter) Ctx {
	c := &DefaultCtx{wool: wool}
	c.Reset(r, w)
	return c
}

func (c *DefaultCtx) Debug() bool {
	return c.wool.Debug
}

func (c *DefaultCtx) Log() *zap.Logger {
	return c.wool.Log
}

func (c *DefaultCtx) Depot() *protocol.Depot {
	return c.depot
}

func (c *DefaultCtx) Set(key string, value any) {
	c.depot.Set(key, value)
}

func (c *DefaultCtx) Get(key string) any {
	return c.depot.Get(key)
}

func (c *DefaultCtx) Req() *protocol.Request {
	return c.req
}

func (c *DefaultCtx) SetReq(req *protocol.Request) {
	c.req = req
}

func (c *DefaultCtx) Res() *protocol.Response {
	return c.res
}

func (c *DefaultCtx) Reset(r *http.Request, w http.ResponseWriter) {
	c.req = protocol.NewRequest(r)

	if c.res == nil {
		c.res = protocol.NewResponse(w)
	} else {
		c.res.Reset(w)
	}
	c.res.SetMaxBodySize(c.wool.MaxBodySize)
	c.res.SetLog(c.wool.Log)
	c.res.SetHeadOnly(r != nil && r.Method == http.MethodHead)

	if c.depot == nil {
		c.depot = protocol.NewDepot()
	} else {
		c.depot.Reset()
	}
}

func (c *DefaultCtx) Render(p render.Piece) {
	p.Render(c.res)
}

func (c *DefaultCtx) Write(w render.Writer) {
	w.Write(c.req.Context(), c.req, c.depot, c.res)
}

func (c *DefaultCtx) HTML(name string, data any) {
	if c.wool.HTMLRender == nil {
		c.Render(render.HTML{Name: name, Data: data})
		return
	}
	c.Render(c.wool.HTMLRender.Instance(name, data, c.Debug()))
}
