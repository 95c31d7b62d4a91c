package spool

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gowool/spool/protocol"
	"github.com/gowool/spool/render"
	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	assert.Equal(t, "code=404, message=Not Found", NewErrNotFound(nil).Error())
	assert.Equal(t,
		"code=400, message=bad id, internal=boom",
		NewErrBadRequest(errors.New("boom"), "bad id").Error(),
	)
	assert.Equal(t,
		"code=422, message=Unprocessable Entity, data=[a b]",
		NewErrUnprocessableEntity(nil, []string{"a", "b"}).Error(),
	)
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := error(NewErrConflict(cause))

	assert.ErrorIs(t, err, cause)

	var e *Error
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, http.StatusConflict, e.Code)
}

func TestErrorWrite(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		res := protocol.NewResponse(nil)

		NewErrForbidden(nil).Write(context.Background(), nil, protocol.NewDepot(), res)

		assert.Equal(t, http.StatusForbidden, res.Status())
		assert.Equal(t, protocol.MIMEApplicationJSONCharsetUTF8, res.ContentType())
		assert.Equal(t, `{"code":403,"message":"Forbidden"}`, string(res.Body()))
	})

	t.Run("request id from depot", func(t *testing.T) {
		res := protocol.NewResponse(nil)
		depot := protocol.NewDepot()
		depot.Set(DepotKeyRequestID, "req-1")
		e := NewErrUnauthorized(nil)

		e.Write(context.Background(), nil, depot, res)

		assert.Equal(t, `{"code":401,"message":"Unauthorized","request_id":"req-1"}`, string(res.Body()))
		assert.Empty(t, e.RequestID)
	})

	t.Run("as result arm", func(t *testing.T) {
		res := protocol.NewResponse(nil)

		r := render.Err[render.String](NewErrRequestEntityTooLarge(nil))
		r.Write(context.Background(), nil, nil, res)

		assert.Equal(t, http.StatusRequestEntityTooLarge, res.Status())
	})
}
