package spool

import (
	"errors"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/gowool/spool/protocol"
	"github.com/gowool/spool/render"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	DefaultNotFoundHandler = func(Ctx) error {
		return NewErrNotFound(nil)
	}

	DefaultMethodNotAllowed = func(Ctx) error {
		return NewErrMethodNotAllowed(nil)
	}

	DefaultOptionsHandler = func(c Ctx) error {
		c.Render(render.Status(http.StatusNoContent))
		return nil
	}

	DefaultErrorHandler = func(c Ctx, err *Error) error {
		c.Write(err)
		return nil
	}

	DefaultErrorTransform = func(err error) *Error {
		var e *Error
		if !errors.As(err, &e) {
			e = NewError(http.StatusInternalServerError, err)
		}
		return e
	}
)

type (
	Handler        func(c Ctx) error
	Middleware     func(next Handler) Handler
	ErrorHandler   func(c Ctx, err *Error) error
	ErrorTransform func(err error) *Error
)

type Wool struct {
	Debug            bool
	Log              *zap.Logger
	MaxBodySize      int
	NewCtxFunc       func(wool *Wool, r *http.Request, w http.ResponseWriter) Ctx
	HTMLRender       render.HTMLRender
	NotFoundHandler  Handler
	MethodNotAllowed Handler
	OptionsHandler   Handler
	ErrorHandler     ErrorHandler
	ErrorTransform   ErrorTransform
	Validator        Validator
	middlewares      []Middleware
	ctxPool          *sync.Pool
	routes           *[]route
	prefix           string
}

// ToHandler runs handler against the buffered response of the request.
func ToHandler(handler http.Handler) Handler {
	return func(c Ctx) error {
		handler.ServeHTTP(c.Res(), c.Req().Request)
		return nil
	}
}

func ToMiddleware(wrapper func(http.Handler) http.Handler) Middleware {
	return func(next Handler) Handler {
		return func(c Ctx) (err error) {
			wrapper(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				c.SetReq(c.Req().WithContext(r.Context()))
				err = next(c)
			})).ServeHTTP(c.Res(), c.Req().Request)
			return
		}
	}
}

type Option func(*Wool)

// WithLog sets the application logger. It also receives the renderer
// diagnostics of this application's responses; the process logger in the
// logger package is left alone. Debug mode follows the logger level.
func WithLog(log *zap.Logger) Option {
	return func(w *Wool) {
		w.Debug = log != nil && zapcore.LevelOf(log.Core()) == zapcore.DebugLevel
		w.Log = log
	}
}

func WithDebug(debug bool) Option {
	return func(w *Wool) {
		w.Debug = debug
	}
}

// WithMaxBodySize limits the size of response bodies. Zero disables the limit.
func WithMaxBodySize(n int) Option {
	return func(w *Wool) {
		w.MaxBodySize = n
	}
}

func WithNewCtxFunc(newCtxFunc func(*Wool, *http.Request, http.ResponseWriter) Ctx) Option {
	return func(w *Wool) {
		w.NewCtxFunc = newCtxFunc
	}
}

func WithHTMLRender(r render.HTMLRender) Option {
	return func(w *Wool) {
		w.HTMLRender = r
	}
}

func WithNotFoundHandler(h Handler) Option {
	return func(w *Wool) {
		w.NotFoundHandler = h
	}
}

func WithMethodNotAllowed(h Handler) Option {
	return func(w *Wool) {
		w.MethodNotAllowed = h
	}
}

func WithOptionsHandler(h Handler) Option {
	return func(w *Wool) {
		w.OptionsHandler = h
	}
}

func WithErrorHandler(h ErrorHandler) Option {
	return func(w *Wool) {
		w.ErrorHandler = h
	}
}

func WithErrorTransform(et ErrorTransform) Option {
	return func(w *Wool) {
		w.ErrorTransform = et
	}
}

func WithValidator(v Validator) Option {
	return func(w *Wool) {
		w.Validator = v
	}
}

func WithMiddleware(mw ...Middleware) Option {
	return func(w *Wool) {
		w.Use(mw...)
	}
}

func New(options ...Option) *Wool {
	wool := &Wool{
		Log:              zap.NewNop(),
		NewCtxFunc:       NewCtx,
		NotFoundHandler:  DefaultNotFoundHandler,
		MethodNotAllowed: DefaultMethodNotAllowed,
		OptionsHandler:   DefaultOptionsHandler,
		ErrorHandler:     DefaultErrorHandler,
		ErrorTransform:   DefaultErrorTransform,
		Validator:        NewValidator(),
		ctxPool:          &sync.Pool{},
		routes:           &[]route{},
	}
	wool.ctxPool.New = func() any {
		return wool.NewCtx(nil, nil)
	}
	for _, opt := range options {
		opt(wool)
	}
	if wool.Log == nil {
		wool.Log = zap.NewNop()
	}
	return wool
}

func (wool *Wool) NewCtx(r *http.Request, w http.ResponseWriter) Ctx {
	return wool.NewCtxFunc(wool, r, w)
}

func (wool *Wool) Use(mw ...Middleware) {
	wool.middlewares = append(wool.middlewares, mw...)
}

func (wool *Wool) Group(pattern string, fn func(*Wool)) {
	mm := *wool
	mm.prefix += pattern
	mm.middlewares = append([]Middleware(nil), wool.middlewares...)
	fn(&mm)
}

func (wool *Wool) AcquireCtx() Ctx {
	return wool.ctxPool.Get().(Ctx)
}

func (wool *Wool) ReleaseCtx(c Ctx) {
	wool.ctxPool.Put(c)
}

func (wool *Wool) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := wool.AcquireCtx()
	defer wool.ReleaseCtx(c)

	c.Reset(r, w)
	_ = wool.serve(c)
	wool.commit(c)
}

// commit sends the buffered response unless the client has gone away.
func (wool *Wool) commit(c Ctx) {
	if err := c.Req().Context().Err(); err != nil {
		wool.Log.Debug("request cancelled, response dropped",
			zap.String("path", c.Req().URL.Path),
			zap.Error(err),
		)
		return
	}
	if err := c.Res().Commit(); err != nil && !errors.Is(err, protocol.ErrResponseCommitted) {
		wool.Log.Warn("response commit failed",
			zap.String("path", c.Req().URL.Path),
			zap.Error(err),
		)
	}
}

func (wool *Wool) serve(c Ctx) error {
	urlSegments := strings.Split(c.Req().URL.Path, "/")

	var allowed []string
	for _, route := range *wool.routes {
		ctx, ok := route.match(c.Req().Context(), urlSegments)
		switch {
		case !ok:
			continue
		case c.Req().Method == route.method:
			c.SetReq(c.Req().WithContext(ctx))
			return route.handler(c)
		case !slices.Contains(allowed, route.method):
			allowed = append(allowed, route.method)
		}
	}

	if len(allowed) == 0 {
		return wool.wrap(wool.NotFoundHandler)(c)
	}

	c.Res().Header().Set(protocol.HeaderAllow, strings.Join(append(allowed, http.MethodOptions), ","))
	if c.Req().Method == http.MethodOptions {
		return wool.wrap(wool.OptionsHandler)(c)
	}
	return wool.wrap(wool.MethodNotAllowed)(c)
}

// wrap applies the group middlewares around the error and recover stages.
func (wool *Wool) wrap(handler Handler) Handler {
	handler = wool.Error(wool.Recover(handler))

	for i := len(wool.middlewares) - 1; i >= 0; i-- {
		handler = wool.middlewares[i](handler)
	}

	return handler
}
