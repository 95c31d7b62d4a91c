package spool

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goccy/go-json"
	"github.com/gowool/spool/protocol"
	"github.com/gowool/spool/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type user struct {
	Name string `json:"name"`
}

type brokenJSON struct{}

func (brokenJSON) MarshalJSON() ([]byte, error) {
	return nil, errors.New("cannot encode")
}

func serve(w *Wool, method, target string, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set(protocol.HeaderContentType, protocol.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	w.ServeHTTP(rec, r)
	return rec
}

func TestHandleStaticString(t *testing.T) {
	w := New()
	w.GET("/test", Handle(func(Ctx) render.String {
		return "hello"
	}))

	rec := serve(w, http.MethodGet, "/test", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hello", rec.Body.String())
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("content-type"))
}

func TestHandleHTMLText(t *testing.T) {
	w := New()
	w.GET("/test", Handle(func(Ctx) render.Text[string] {
		return render.HTMLText("<html><body>hello</body></html>")
	}))

	rec := serve(w, http.MethodGet, "/test", "")

	assert.Equal(t, "<html><body>hello</body></html>", rec.Body.String())
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("content-type"))
}

func TestHandleJSON(t *testing.T) {
	w := New()
	w.GET("/test", Handle(func(Ctx) render.JSON[user] {
		return render.JSON[user]{Data: user{Name: "jobs"}}
	}))

	rec := serve(w, http.MethodGet, "/test", "")

	assert.Equal(t, `{"name":"jobs"}`, rec.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("content-type"))
}

func TestHandlePlainText(t *testing.T) {
	w := New()
	w.GET("/plain", HandlePiece(func(Ctx) render.Text[string] {
		return render.Plain("hello")
	}))
	w.GET("/json", HandlePiece(func(Ctx) render.Text[string] {
		return render.JSONText(`{"hello": "world"}`)
	}))

	rec := serve(w, http.MethodGet, "/plain", "")
	assert.Equal(t, "hello", rec.Body.String())
	assert.Equal(t, protocol.MIMETextPlainCharsetUTF8, rec.Header().Get(protocol.HeaderContentType))

	rec = serve(w, http.MethodGet, "/json", "")
	assert.Equal(t, `{"hello": "world"}`, rec.Body.String())
	assert.Equal(t, protocol.MIMEApplicationJSONCharsetUTF8, rec.Header().Get(protocol.HeaderContentType))
}

func TestHandleResult(t *testing.T) {
	type result = render.Result[render.JSON[user], *Error]

	w := New()
	w.GET("/users/:name", Handle(func(c Ctx) result {
		name := c.Req().PathParam("name")
		if name != "jobs" {
			return render.Err[render.JSON[user]](NewErrNotFound(nil, "no such user"))
		}
		return render.Ok[render.JSON[user], *Error](render.JSONOf(user{Name: name}))
	}))

	rec := serve(w, http.MethodGet, "/users/jobs", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"name":"jobs"}`, rec.Body.String())

	rec = serve(w, http.MethodGet, "/users/woz", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, `{"code":404,"message":"no such user"}`, rec.Body.String())
	assert.Equal(t, protocol.MIMEApplicationJSONCharsetUTF8, rec.Header().Get(protocol.HeaderContentType))
}

func TestHandleE(t *testing.T) {
	w := New()
	w.GET("/ok", HandleE(func(Ctx) (render.String, error) {
		return "fine", nil
	}))
	w.GET("/fail", HandleE(func(Ctx) (render.String, error) {
		return "never written", errors.New("boom")
	}))
	w.GET("/conflict", HandleE(func(Ctx) (render.String, error) {
		return "", NewErrConflict(nil)
	}))

	rec := serve(w, http.MethodGet, "/ok", "")
	assert.Equal(t, "fine", rec.Body.String())

	rec = serve(w, http.MethodGet, "/fail", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, `{"code":500,"message":"Internal Server Error"}`, rec.Body.String())

	rec = serve(w, http.MethodGet, "/conflict", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestDebugAddsDeveloperMessage(t *testing.T) {
	w := New(WithDebug(true))
	w.GET("/fail", HandleE(func(Ctx) (render.Empty, error) {
		return render.Empty{}, errors.New("boom")
	}))

	rec := serve(w, http.MethodGet, "/fail", "")

	var e Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Equal(t, "boom", e.Developer)
}

func TestJSONFailureThroughHandler(t *testing.T) {
	w := New()
	w.GET("/broken", Handle(func(Ctx) render.JSON[brokenJSON] {
		return render.JSON[brokenJSON]{}
	}))

	rec := serve(w, http.MethodGet, "/broken", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Header().Get(protocol.HeaderContentType))
	assert.Empty(t, rec.Body.String())
}

func TestRecover(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := New(WithLog(zap.New(core)))
	w.GET("/panic", Handle(func(Ctx) render.String {
		panic("oops")
	}))

	rec := serve(w, http.MethodGet, "/panic", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("recover from panic").Len())
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	w := New()
	w.GET("/items", Handle(func(Ctx) render.String { return "items" }))

	rec := serve(w, http.MethodGet, "/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, `{"code":404,"message":"Not Found"}`, rec.Body.String())

	rec = serve(w, http.MethodPost, "/items", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET,HEAD,OPTIONS", rec.Header().Get(protocol.HeaderAllow))

	rec = serve(w, http.MethodOptions, "/items", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRouteParams(t *testing.T) {
	w := New()
	w.GET("/files/...", Handle(func(c Ctx) render.String {
		return render.String(c.Req().PathParam("..."))
	}))
	w.GET("/n/:id|^[0-9]+$", Handle(func(c Ctx) render.String {
		return render.String("number " + c.Req().PathParamID())
	}))
	w.GET("/n/:name", Handle(func(c Ctx) render.String {
		return render.String("name " + c.Req().PathParam("name"))
	}))

	assert.Equal(t, "a/b/c.txt", serve(w, http.MethodGet, "/files/a/b/c.txt", "").Body.String())
	assert.Equal(t, "number 42", serve(w, http.MethodGet, "/n/42", "").Body.String())
	assert.Equal(t, "name jobs", serve(w, http.MethodGet, "/n/jobs", "").Body.String())
}

func TestGroupAndMiddleware(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(c Ctx) error {
				order = append(order, name)
				return next(c)
			}
		}
	}

	w := New(WithMiddleware(mw("root")))
	w.Group("/api", func(api *Wool) {
		api.Use(mw("api"))
		api.GET("/ping", Handle(func(Ctx) render.String { return "pong" }))
	})
	w.GET("/ping", Handle(func(Ctx) render.String { return "root pong" }))

	assert.Equal(t, "pong", serve(w, http.MethodGet, "/api/ping", "").Body.String())
	assert.Equal(t, []string{"root", "api"}, order)

	order = nil
	assert.Equal(t, "root pong", serve(w, http.MethodGet, "/ping", "").Body.String())
	assert.Equal(t, []string{"root"}, order)
}

func TestRequestID(t *testing.T) {
	w := New(WithMiddleware(RequestID()))
	w.GET("/id", Handle(func(c Ctx) render.String {
		id, _ := c.Depot().GetString(DepotKeyRequestID)
		return render.String(id)
	}))

	rec := serve(w, http.MethodGet, "/id", "")
	id := rec.Header().Get(protocol.HeaderXRequestID)
	assert.Len(t, id, 36)
	assert.Equal(t, id, rec.Body.String())

	r := httptest.NewRequest(http.MethodGet, "/id", nil)
	r.Header.Set(protocol.HeaderXRequestID, "given")
	rec = httptest.NewRecorder()
	w.ServeHTTP(rec, r)
	assert.Equal(t, "given", rec.Body.String())
}

func TestDepotIsPerRequest(t *testing.T) {
	w := New()
	w.GET("/count", Handle(func(c Ctx) render.Formatted {
		n, _ := c.Depot().GetInt("n")
		c.Set("n", n+1)
		return render.Stringf("%d", n+1)
	}))

	for i := 0; i < 3; i++ {
		assert.Equal(t, "1", serve(w, http.MethodGet, "/count", "").Body.String())
	}
}

func TestMaxBodySize(t *testing.T) {
	w := New(WithMaxBodySize(4))
	w.GET("/big", Handle(func(Ctx) render.String { return "too big" }))

	rec := serve(w, http.MethodGet, "/big", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get(protocol.HeaderContentType))
	assert.Equal(t, "0", rec.Header().Get(protocol.HeaderContentLength))
}

func TestMaxBodySizeWithFileServer(t *testing.T) {
	files := fstest.MapFS{
		"big.bin": {Data: make([]byte, 100000)},
		"app.js":  {Data: []byte("console.log(1)")},
	}

	w := New(WithMaxBodySize(1000))
	w.UI("/ui", files)

	rec := serve(w, http.MethodGet, "/ui/big.bin", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
	assert.Equal(t, "0", rec.Header().Get(protocol.HeaderContentLength))
	assert.Empty(t, rec.Header().Get(protocol.HeaderContentType))

	rec = serve(w, http.MethodGet, "/ui/app.js", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log(1)", rec.Body.String())
	assert.Equal(t, "14", rec.Header().Get(protocol.HeaderContentLength))

	rec = serve(w, http.MethodHead, "/ui/app.js", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, "14", rec.Header().Get(protocol.HeaderContentLength))
}

func TestStaleContentLengthIsReplaced(t *testing.T) {
	w := New()
	w.GET("/empty", ToHandler(http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.Header().Set(protocol.HeaderContentLength, "10")
		rw.WriteHeader(http.StatusOK)
	})))

	rec := serve(w, http.MethodGet, "/empty", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get(protocol.HeaderContentLength))
}

func TestRenderDiagnosticsStayWithTheirApp(t *testing.T) {
	coreA, logsA := observer.New(zapcore.DebugLevel)
	coreB, logsB := observer.New(zapcore.DebugLevel)

	a := New(WithLog(zap.New(coreA)))
	b := New(WithLog(zap.New(coreB)))
	for _, app := range []*Wool{a, b} {
		app.GET("/broken", Handle(func(Ctx) render.JSON[brokenJSON] {
			return render.JSON[brokenJSON]{}
		}))
	}

	rec := serve(a, http.MethodGet, "/broken", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, logsA.FilterMessage("json render").Len())
	assert.Zero(t, logsB.FilterMessage("json render").Len())
}

func TestCancelledRequestIsDropped(t *testing.T) {
	w := New()
	w.GET("/slow", Handle(func(Ctx) render.String { return "late" }))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := httptest.NewRequest(http.MethodGet, "/slow", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	w.ServeHTTP(rec, r)

	assert.Empty(t, rec.Body.String())
	assert.Empty(t, rec.Header().Get(protocol.HeaderContentType))
}

func TestMountHealth(t *testing.T) {
	w := New()
	w.MountHealth()

	rec := serve(w, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = serve(w, http.MethodHead, "/health", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCtxHTML(t *testing.T) {
	w := New()
	w.GET("/page", func(c Ctx) error {
		c.HTML("page", nil)
		return nil
	})

	rec := serve(w, http.MethodGet, "/page", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUI(t *testing.T) {
	files := fstest.MapFS{
		"index.html": {Data: []byte("<h1>app</h1>")},
		"app.js":     {Data: []byte("console.log(1)")},
	}

	w := New()
	w.UI("/ui", files)

	rec := serve(w, http.MethodGet, "/ui/app.js", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log(1)", rec.Body.String())

	rec = serve(w, http.MethodGet, "/ui/some/route", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<h1>app</h1>", rec.Body.String())
}

type itemResource struct{}

func (itemResource) List(Ctx) error {
	return nil
}

func (itemResource) Take(c Ctx) error {
	c.Render(render.String("item " + c.Req().PathParamID()))
	return nil
}

func TestCRUD(t *testing.T) {
	w := New()
	w.CRUD("/items", itemResource{})

	assert.Equal(t, "item 7", serve(w, http.MethodGet, "/items/7", "").Body.String())
	assert.Equal(t, http.StatusOK, serve(w, http.MethodGet, "/items", "").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(w, http.MethodDelete, "/items/7", "").Code)
}
