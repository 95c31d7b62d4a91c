package spool

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"syscall"

	"go.uber.org/zap"
)

// Error turns a handler error into an *Error and hands it to the
// ErrorHandler, which writes it into the response. The *Error is returned
// to outer middlewares.
func (wool *Wool) Error(next Handler) Handler {
	return func(c Ctx) error {
		err := next(c)
		if err == nil {
			return nil
		}

		e := wool.ErrorTransform(err)
		if c.Debug() && e.Internal != nil {
			e.Developer = e.Internal.Error()
		}
		if e.Code >= http.StatusInternalServerError {
			c.Log().Error("request failed",
				zap.String("path", c.Req().URL.Path),
				zap.Int("status", e.Code),
				zap.Error(err),
			)
		}

		if herr := wool.ErrorHandler(c, e); herr != nil {
			c.Log().Error("error handler failed", zap.Error(herr))
		}
		return e
	}
}

// Recover converts a panic into an error. Panics caused by a client that
// went away are logged without a stack.
func (wool *Wool) Recover(next Handler) Handler {
	return func(c Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			var ok bool
			if err, ok = r.(error); !ok {
				err = fmt.Errorf("%v", r)
			}

			dump, _ := httputil.DumpRequest(c.Req().Request, false)
			if isBrokenPipe(err) {
				c.Log().Warn("connection closed by peer",
					zap.String("path", c.Req().URL.Path),
					zap.Error(err),
				)
				return
			}

			c.Log().Error("recover from panic",
				zap.Error(err),
				zap.ByteString("request", dump),
				zap.StackSkip("stack", 2),
			)
		}()

		return next(c)
	}
}

func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET)
}
