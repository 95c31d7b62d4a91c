package spool

import (
	"context"
	"net/http"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/gowool/spool/protocol"
	"go.uber.org/zap"
)

var DefaultMethods = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodConnect,
	http.MethodOptions,
	http.MethodTrace,
}

var compiledRXPatterns sync.Map // map[string]*regexp.Regexp

type route struct {
	method   string
	segments []string
	wildcard bool
	handler  Handler
}

// Add registers handler for pattern. Segments starting with ':' capture a
// parameter, optionally constrained by a regexp after '|' (":id|^[0-9]+$").
// A trailing "/..." matches any remainder. GET routes also answer HEAD.
func (wool *Wool) Add(pattern string, handler Handler, methods ...string) {
	if len(methods) == 0 {
		methods = DefaultMethods
	}

	if slices.Contains(methods, http.MethodGet) && !slices.Contains(methods, http.MethodHead) {
		methods = append(methods, http.MethodHead)
	}

	pattern = wool.prefix + pattern
	segments := strings.Split(pattern, "/")

	for _, segment := range segments {
		if strings.HasPrefix(segment, ":") {
			if _, rxPattern, containsRx := strings.Cut(segment, "|"); containsRx {
				compiledRXPatterns.LoadOrStore(rxPattern, regexp.MustCompile(rxPattern))
			}
		}
	}

	wrapped := wool.wrap(handler)
	for _, method := range methods {
		*wool.routes = append(*wool.routes, route{
			method:   strings.ToUpper(method),
			segments: segments,
			wildcard: strings.HasSuffix(pattern, "/..."),
			handler:  wrapped,
		})
	}

	wool.Log.Info("handler registered", zap.String("pattern", pattern), zap.Strings("methods", methods))
}

func (r *route) match(ctx context.Context, urlSegments []string) (context.Context, bool) {
	if !r.wildcard && len(urlSegments) != len(r.segments) {
		return ctx, false
	}

	var params protocol.PathParams

	for i, routeSegment := range r.segments {
		if i > len(urlSegments)-1 {
			return ctx, false
		}

		if routeSegment == "..." {
			params = setParam(params, "...", strings.Join(urlSegments[i:], "/"))
			break
		}

		if routeSegment != "" && routeSegment[0] == ':' {
			key, rxPattern, containsRx := strings.Cut(routeSegment[1:], "|")
			if !matchParam(urlSegments[i], rxPattern, containsRx) {
				return ctx, false
			}
			params = setParam(params, key, urlSegments[i])
			continue
		}

		if urlSegments[i] != routeSegment {
			return ctx, false
		}
	}

	if len(params) == 0 {
		return ctx, true
	}

	merged := protocol.PathParams{}
	for k, v := range protocol.ParamsFromContext(ctx) {
		merged[k] = v
	}
	for k, v := range params {
		merged[k] = append(merged[k], v...)
	}
	return protocol.ContextWithParams(ctx, merged), true
}

func matchParam(value, rxPattern string, containsRx bool) bool {
	if !containsRx {
		return value != ""
	}
	rx, ok := compiledRXPatterns.Load(rxPattern)
	return ok && rx.(*regexp.Regexp).MatchString(value)
}

func setParam(params protocol.PathParams, key, value string) protocol.PathParams {
	if params == nil {
		params = protocol.PathParams{}
	}
	params[key] = append(params[key], value)
	return params
}
