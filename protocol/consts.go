package protocol

const (
	HeaderAllow              = "Allow"
	HeaderCacheControl       = "Cache-Control"
	HeaderContentDisposition = "Content-Disposition"
	HeaderContentEncoding    = "Content-Encoding"
	HeaderContentLength      = "Content-Length"
	HeaderContentRange       = "Content-Range"
	HeaderContentType        = "Content-Type"
	HeaderETag               = "ETag"
	HeaderLastModified       = "Last-Modified"
	HeaderLocation           = "Location"
	HeaderXRequestID         = "X-Request-Id"
)

const (
	MIMEApplicationJSON = "application/json"
	MIMEApplicationXML  = "application/xml"
	MIMEApplicationForm = "application/x-www-form-urlencoded"
	MIMEMultipartForm   = "multipart/form-data"
	MIMETextPlain       = "text/plain"
	MIMETextHTML        = "text/html"
	MIMETextJavaScript  = "text/javascript"
	MIMETextCSS         = "text/css"
	MIMEOctetStream     = "application/octet-stream"

	MIMETextPlainCharsetUTF8       = MIMETextPlain + "; charset=utf-8"
	MIMEApplicationJSONCharsetUTF8 = MIMEApplicationJSON + "; charset=utf-8"
	MIMEApplicationXMLCharsetUTF8  = MIMEApplicationXML + "; charset=utf-8"
	MIMETextHTMLCharsetUTF8        = MIMETextHTML + "; charset=utf-8"
	MIMETextJavaScriptCharsetUTF8  = MIMETextJavaScript + "; charset=utf-8"
	MIMETextCSSCharsetUTF8         = MIMETextCSS + "; charset=utf-8"
)
