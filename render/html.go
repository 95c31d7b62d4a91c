package render

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"sync"

	"github.com/gowool/spool/protocol"
)

var errNoTemplate = errors.New("render: html template is nil")

// HTMLRender produces HTML pieces from named templates.
type HTMLRender interface {
	Instance(name string, data any, debug bool) HTML
}

// HTMLEngine loads templates from Files or, when empty, from Glob.
// Templates are parsed once unless debug is requested.
type HTMLEngine struct {
	Files    []string
	Glob     string
	FuncMap  template.FuncMap
	mu       sync.Mutex
	template *template.Template
}

func NewHTMLRender(funcMap template.FuncMap, files ...string) *HTMLEngine {
	return &HTMLEngine{Files: files, FuncMap: funcMap}
}

func NewGlobHTMLRender(funcMap template.FuncMap, glob string) *HTMLEngine {
	return &HTMLEngine{Glob: glob, FuncMap: funcMap}
}

func (e *HTMLEngine) Instance(name string, data any, debug bool) HTML {
	return HTML{Template: e.loadTemplate(debug), Name: name, Data: data}
}

func (e *HTMLEngine) loadTemplate(debug bool) *template.Template {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.template != nil && !debug {
		return e.template
	}
	if e.FuncMap == nil {
		e.FuncMap = template.FuncMap{}
	}

	switch {
	case len(e.Files) > 0:
		e.template = template.Must(template.New("").Funcs(e.FuncMap).ParseFiles(e.Files...))
	case e.Glob != "":
		e.template = template.Must(template.New("").Funcs(e.FuncMap).ParseGlob(e.Glob))
	default:
		panic("the HTMLEngine was created without files or glob pattern")
	}
	return e.template
}

// HTML executes Template, or its Name template when set, into memory.
// Execution errors are handled like JSON encoding errors.
type HTML struct {
	Template *template.Template
	Name     string
	Data     any
}

func (r HTML) Render(res *protocol.Response) {
	if r.Template == nil {
		fail(res, "html render", errNoTemplate)
		return
	}

	var (
		buf bytes.Buffer
		err error
	)
	if r.Name == "" {
		err = r.Template.Execute(&buf, r.Data)
	} else {
		err = r.Template.ExecuteTemplate(&buf, r.Name, r.Data)
	}
	if err != nil {
		fail(res, "html render", err)
		return
	}

	send(res, protocol.MIMETextHTMLCharsetUTF8, buf.Bytes())
}

func (r HTML) Write(_ context.Context, _ *protocol.Request, _ *protocol.Depot, res *protocol.Response) {
	r.Render(res)
}
