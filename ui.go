package spool

import (
	"errors"
	"io/fs"
	"net/http"
	"strings"
)

// spaFS falls back to index.html for names missing from the underlying
// file system, so client side routed applications can be mounted.
type spaFS struct {
	fsys fs.FS
}

func (s spaFS) Open(name string) (fs.File, error) {
	f, err := s.fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return s.fsys.Open("index.html")
	}
	return f, err
}

// UIHandler serves fsys with the index.html fallback. The prefix is removed
// from the request path before lookup.
func UIHandler(prefix string, fsys fs.FS) http.Handler {
	files := http.FileServer(http.FS(spaFS{fsys: fsys}))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r2 := new(http.Request)
		*r2 = *r
		u := *r.URL
		u.Path = strings.TrimSuffix(strings.TrimPrefix(u.Path, prefix), "/")
		u.RawPath = ""
		r2.URL = &u
		files.ServeHTTP(w, r2)
	})
}

// UI serves fsys under pattern. The files are written into the buffered
// response like any other body.
func (wool *Wool) UI(pattern string, fsys fs.FS, methods ...string) {
	if len(methods) == 0 {
		methods = []string{http.MethodGet}
	}
	handler := ToHandler(UIHandler(pattern, fsys))

	wool.Add(pattern, handler, methods...)
	wool.Add(pattern+"/...", handler, methods...)
}
