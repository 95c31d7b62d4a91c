package protocol

import (
	"context"
	"mime"
	"net/http"
	"net/url"
	"strings"
)

// multipart parts above this size are spooled to disk.
const maxFormMemory = 32 << 20

// PathParams holds the values captured by a route pattern, keyed by name.
type PathParams map[string][]string

type paramsKey struct{}

// ParamsFromContext returns the path params stored in ctx, or an empty set.
func ParamsFromContext(ctx context.Context) PathParams {
	if params, ok := ctx.Value(paramsKey{}).(PathParams); ok {
		return params
	}
	return PathParams{}
}

func ContextWithParams(ctx context.Context, params PathParams) context.Context {
	return context.WithValue(ctx, paramsKey{}, params)
}

// Request wraps *http.Request and caches the values parsed from it.
type Request struct {
	*http.Request
	query     url.Values
	mediaType *string
}

func NewRequest(r *http.Request) *Request {
	return &Request{Request: r}
}

// WithContext returns a shallow copy of r carrying ctx. Cached values are
// shared with r.
func (r *Request) WithContext(ctx context.Context) *Request {
	return &Request{
		Request:   r.Request.WithContext(ctx),
		query:     r.query,
		mediaType: r.mediaType,
	}
}

// ContentType returns the lower-cased media type of the request body,
// without parameters.
func (r *Request) ContentType() string {
	if r.mediaType == nil {
		ct := r.Header.Get(HeaderContentType)
		if mt, _, err := mime.ParseMediaType(ct); err == nil {
			ct = mt
		} else {
			ct, _, _ = strings.Cut(ct, ";")
			ct = strings.ToLower(strings.TrimSpace(ct))
		}
		r.mediaType = &ct
	}
	return *r.mediaType
}

func (r *Request) IsJSON() bool {
	return r.ContentType() == MIMEApplicationJSON
}

func (r *Request) IsForm() bool {
	return r.ContentType() == MIMEApplicationForm
}

func (r *Request) IsMultipartForm() bool {
	return r.ContentType() == MIMEMultipartForm
}

func (r *Request) PathParams() PathParams {
	return ParamsFromContext(r.Context())
}

// PathParam returns the first value captured for name.
func (r *Request) PathParam(name string) string {
	if values := r.PathParams()[name]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func (r *Request) PathParamID() string {
	return r.PathParam("id")
}

func (r *Request) QueryParams() url.Values {
	if r.query == nil {
		r.query = r.URL.Query()
	}
	return r.query
}

func (r *Request) QueryParam(name string) string {
	return r.QueryParams().Get(name)
}

// FormValues parses the body as a url-encoded or multipart form and returns
// the merged body and query values.
func (r *Request) FormValues() (url.Values, error) {
	var err error
	if r.IsMultipartForm() {
		err = r.ParseMultipartForm(maxFormMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, err
	}
	return r.Form, nil
}
