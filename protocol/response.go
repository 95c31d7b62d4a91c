package protocol

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gowool/spool/internal"
	"github.com/gowool/spool/logger"
	"go.uber.org/zap"
)

var _ http.ResponseWriter = (*Response)(nil)

var (
	ErrResponseCommitted = errors.New("protocol: response already committed")
	ErrBodyTooLarge      = errors.New("protocol: response body too large")
)

const defaultStatus = http.StatusOK

var contentHeaders = []string{
	HeaderContentType,
	HeaderContentLength,
	HeaderContentEncoding,
	HeaderContentDisposition,
	HeaderContentRange,
	HeaderETag,
	HeaderLastModified,
}

// Response collects the status, headers and body of one request in memory.
// Nothing reaches the client until Commit is called.
//
// A Response is owned by the goroutine serving the request and is not safe
// for concurrent use.
type Response struct {
	w         http.ResponseWriter
	header    http.Header
	status    int
	body      []byte
	maxBody   int
	committed bool
	rejected  bool
	headOnly  bool
	log       *zap.Logger
}

func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w, header: http.Header{}, status: defaultStatus}
}

// Reset prepares the response for reuse with a new underlying writer.
// The max body size is kept.
func (r *Response) Reset(w http.ResponseWriter) {
	r.w = w
	if r.header == nil {
		r.header = http.Header{}
	} else {
		for k := range r.header {
			delete(r.header, k)
		}
	}
	r.status = defaultStatus
	r.body = nil
	r.committed = false
	r.rejected = false
	r.headOnly = false
}

// SetHeadOnly marks the response of a HEAD request. An empty body then keeps
// the Content-Length set by the handler.
func (r *Response) SetHeadOnly(headOnly bool) {
	r.headOnly = headOnly
}

// Log returns the logger for diagnostics about this response, falling back
// to the process logger.
func (r *Response) Log() *zap.Logger {
	if r.log == nil {
		return logger.L()
	}
	return r.log
}

func (r *Response) SetLog(l *zap.Logger) {
	r.log = l
}

// Rejected reports whether a body was refused for exceeding the size limit.
func (r *Response) Rejected() bool {
	return r.rejected
}

// SetMaxBodySize limits the body size accepted by WriteBody and Write.
// Zero or less disables the limit.
func (r *Response) SetMaxBodySize(n int) {
	r.maxBody = n
}

func (r *Response) Header() http.Header {
	return r.header
}

func (r *Response) Status() int {
	return r.status
}

func (r *Response) SetStatus(status int) {
	if status <= 0 || r.status == status {
		return
	}
	if r.committed {
		r.Log().Warn("response already committed, status change ignored",
			zap.Int("status", r.status),
			zap.Int("wanted", status),
		)
		return
	}
	r.status = status
}

// WriteHeader is an alias of SetStatus, it does not send anything.
func (r *Response) WriteHeader(status int) {
	r.SetStatus(status)
}

func (r *Response) ContentType() string {
	return r.header.Get(HeaderContentType)
}

func (r *Response) SetContentType(value string) {
	r.header.Set(HeaderContentType, value)
}

func (r *Response) Body() []byte {
	return r.body
}

func (r *Response) Size() int {
	return len(r.body)
}

func (r *Response) Committed() bool {
	return r.committed
}

// WriteBody replaces the body with b. The response takes ownership of b.
// On error the previous body is left untouched.
func (r *Response) WriteBody(b []byte) error {
	if err := r.checkWrite(len(b)); err != nil {
		return err
	}
	r.body = b[:len(b):len(b)]
	return nil
}

// Write appends b to the body.
func (r *Response) Write(b []byte) (int, error) {
	if err := r.checkWrite(len(r.body) + len(b)); err != nil {
		return 0, err
	}
	r.body = append(r.body, b...)
	return len(b), nil
}

func (r *Response) WriteString(s string) (int, error) {
	return r.Write(internal.StringToBytes(s))
}

// Commit sends the status, headers and body to the underlying writer.
// It can be called only once. A response that rejected a body is sent as an
// empty 500 without the content headers the handler set.
func (r *Response) Commit() error {
	if r.committed {
		return ErrResponseCommitted
	}
	r.committed = true

	if r.w == nil {
		return nil
	}

	if r.rejected {
		r.status = http.StatusInternalServerError
		r.body = nil
		for _, k := range contentHeaders {
			r.header.Del(k)
		}
	}

	h := r.w.Header()
	for k, v := range r.header {
		h[k] = v
	}

	if !bodyAllowedForStatus(r.status) {
		h.Del(HeaderContentLength)
		r.w.WriteHeader(r.status)
		return nil
	}

	if len(r.body) > 0 || !r.headOnly || h.Get(HeaderContentLength) == "" {
		h.Set(HeaderContentLength, strconv.Itoa(len(r.body)))
	}
	r.w.WriteHeader(r.status)
	if len(r.body) == 0 {
		return nil
	}
	_, err := r.w.Write(r.body)
	return err
}

func (r *Response) checkWrite(size int) error {
	if r.committed {
		return ErrResponseCommitted
	}
	if r.maxBody > 0 && size > r.maxBody {
		r.rejected = true
		return ErrBodyTooLarge
	}
	return nil
}

func bodyAllowedForStatus(status int) bool {
	switch {
	case status >= 100 && status <= 199:
		return false
	case status == http.StatusNoContent:
		return false
	case status == http.StatusNotModified:
		return false
	}
	return true
}
