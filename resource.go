package spool

import "net/http"

const patternID = "/:id"

type (
	List interface {
		List(Ctx) error
	}
	Take interface {
		Take(Ctx) error
	}
	Create interface {
		Create(Ctx) error
	}
	Update interface {
		Update(Ctx) error
	}
	PartiallyUpdate interface {
		PartiallyUpdate(Ctx) error
	}
	Delete interface {
		Delete(Ctx) error
	}
)

// CRUD registers the handlers resource implements under pattern. Collection
// routes live at pattern, item routes at pattern/:id.
func (wool *Wool) CRUD(pattern string, resource any, mw ...Middleware) {
	wool.Group(pattern, func(group *Wool) {
		group.Use(mw...)

		mount(group, resource, "", List.List, http.MethodGet, http.MethodHead)
		mount(group, resource, "", Create.Create, http.MethodPost)
		mount(group, resource, patternID, Take.Take, http.MethodGet, http.MethodHead)
		mount(group, resource, patternID, Update.Update, http.MethodPut)
		mount(group, resource, patternID, PartiallyUpdate.PartiallyUpdate, http.MethodPatch)
		mount(group, resource, patternID, Delete.Delete, http.MethodDelete)
	})
}

func mount[R any](group *Wool, resource any, pattern string, fn func(R, Ctx) error, methods ...string) {
	r, ok := resource.(R)
	if !ok {
		return
	}
	group.Add(pattern, func(c Ctx) error { return fn(r, c) }, methods...)
}
