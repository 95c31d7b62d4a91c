package render

import (
	"context"

	"github.com/gowool/spool/protocol"
)

// Kind tags a Text payload with the content type it is served as.
type Kind uint8

const (
	KindPlain Kind = iota
	KindJSON
	KindXML
	KindHTML
	KindJS
	KindCSS
)

var contentTypes = [...]string{
	KindPlain: protocol.MIMETextPlainCharsetUTF8,
	KindJSON:  protocol.MIMEApplicationJSONCharsetUTF8,
	KindXML:   protocol.MIMEApplicationXMLCharsetUTF8,
	KindHTML:  protocol.MIMETextHTMLCharsetUTF8,
	KindJS:    protocol.MIMETextJavaScriptCharsetUTF8,
	KindCSS:   protocol.MIMETextCSSCharsetUTF8,
}

var kindNames = [...]string{
	KindPlain: "plain",
	KindJSON:  "json",
	KindXML:   "xml",
	KindHTML:  "html",
	KindJS:    "js",
	KindCSS:   "css",
}

// ContentType returns the header value for k. Unknown kinds fall back to plain text.
func (k Kind) ContentType() string {
	if int(k) < len(contentTypes) {
		return contentTypes[k]
	}
	return contentTypes[KindPlain]
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Content is the payload of a Text.
type Content interface {
	~string | ~[]byte
}

// Text writes already formed content with the content type of its kind.
// The payload is written as is, a JSON kind is not re-encoded.
type Text[C Content] struct {
	kind    Kind
	content C
}

func Plain[C Content](c C) Text[C] {
	return Text[C]{kind: KindPlain, content: c}
}

func JSONText[C Content](c C) Text[C] {
	return Text[C]{kind: KindJSON, content: c}
}

func XML[C Content](c C) Text[C] {
	return Text[C]{kind: KindXML, content: c}
}

func HTMLText[C Content](c C) Text[C] {
	return Text[C]{kind: KindHTML, content: c}
}

func JS[C Content](c C) Text[C] {
	return Text[C]{kind: KindJS, content: c}
}

func CSS[C Content](c C) Text[C] {
	return Text[C]{kind: KindCSS, content: c}
}

func (t Text[C]) Kind() Kind {
	return t.kind
}

func (t Text[C]) Content() C {
	return t.content
}

func (t Text[C]) Render(res *protocol.Response) {
	ct := t.kind.ContentType()

	switch c := any(t.content).(type) {
	case []byte:
		send(res, ct, c)
	case string:
		sendString(res, ct, c)
	default:
		// named types over string or []byte
		send(res, ct, []byte(t.content))
	}
}

func (t Text[C]) Write(_ context.Context, _ *protocol.Request, _ *protocol.Depot, res *protocol.Response) {
	t.Render(res)
}
