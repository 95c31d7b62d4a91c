package spool

import (
	"encoding"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"
)

var _ CtxBinding = (*DefaultCtx)(nil)

var (
	errBindTarget   = errors.New("binding element must be a struct")
	errBindAnonTag  = errors.New("query/path/form tags are not allowed with anonymous struct field")
	errBindKind     = errors.New("unknown type")
	errBindNoSource = errors.New("unsupported content type")
)

// CtxBinding fills structs from the parts of a request. Fields are selected by
// the tag named after the source: path, query, header, form, depot. JSON
// bodies use the json tag.
type CtxBinding interface {
	BindBody(i any) error
	BindJSON(i any) error
	BindForm(i any) error
	BindPath(i any) error
	BindQuery(i any) error
	BindHeaders(i any) error
	BindDepot(i any) error
	Bind(i any) error
	Validate(i any) error
}

func (c *DefaultCtx) BindBody(i any) error {
	switch {
	case c.Req().ContentLength == 0:
		return nil
	case c.Req().IsJSON():
		return c.BindJSON(i)
	case c.Req().IsForm(), c.Req().IsMultipartForm():
		return c.BindForm(i)
	}
	return NewErrBadRequest(errBindNoSource)
}

func (c *DefaultCtx) BindJSON(i any) error {
	if err := json.NewDecoder(c.Req().Body).Decode(i); err != nil {
		return NewErrBadRequest(err)
	}
	return nil
}

func (c *DefaultCtx) BindForm(i any) error {
	values, err := c.Req().FormValues()
	if err == nil {
		err = Bind(i, values, "form")
	}
	if err != nil {
		return NewErrBadRequest(err)
	}
	return nil
}

func (c *DefaultCtx) BindPath(i any) error {
	return badRequest(Bind(i, c.Req().PathParams(), "path"))
}

func (c *DefaultCtx) BindQuery(i any) error {
	return badRequest(Bind(i, c.Req().QueryParams(), "query"))
}

func (c *DefaultCtx) BindHeaders(i any) error {
	return badRequest(Bind(i, c.Req().Header, "header"))
}

// BindDepot binds the values of the request depot that can be cast to strings.
func (c *DefaultCtx) BindDepot(i any) error {
	if c.depot.Len() == 0 {
		return nil
	}
	data := make(map[string][]string, c.depot.Len())
	for k, v := range c.depot.All() {
		if s, err := cast.ToStringE(v); err == nil {
			data[k] = []string{s}
		}
	}
	return badRequest(Bind(i, data, "depot"))
}

// Bind runs path, query (for GET, HEAD and DELETE), header, body and depot
// binding in that order, then validates i when a validator is configured.
func (c *DefaultCtx) Bind(i any) error {
	steps := []func(any) error{c.BindPath}
	switch c.Req().Method {
	case http.MethodGet, http.MethodHead, http.MethodDelete:
		steps = append(steps, c.BindQuery)
	}
	steps = append(steps, c.BindHeaders, c.BindBody, c.BindDepot)

	for _, step := range steps {
		if err := step(i); err != nil {
			return err
		}
	}

	if c.wool.Validator != nil {
		return c.Validate(i)
	}
	return nil
}

func (c *DefaultCtx) Validate(i any) error {
	if c.wool.Validator == nil {
		panic("nil validator")
	}
	return c.wool.Validator.ValidateCtx(c.Req().Context(), i)
}

func badRequest(err error) error {
	if err != nil {
		return NewErrBadRequest(err)
	}
	return nil
}

// Bind copies data into the fields of destination tagged with tag. Keys are
// matched exactly first, then case-insensitively. A map destination is
// allocated when nil and receives every key, see bindMap.
func Bind(destination any, data map[string][]string, tag string) error {
	if destination == nil || len(data) == 0 {
		return nil
	}
	ptr := reflect.ValueOf(destination)
	if ptr.Kind() != reflect.Ptr || ptr.IsNil() {
		return errBindTarget
	}
	typ := ptr.Type().Elem()
	val := ptr.Elem()

	switch typ.Kind() {
	case reflect.Map:
		return bindMap(typ, val, data)
	case reflect.Struct:
		return bindStruct(typ, val, data, tag)
	}

	if tag == "path" || tag == "query" || tag == "header" || tag == "depot" {
		return nil
	}
	return errBindTarget
}

// bindMap fills a map with string keys and string or []string values,
// allocating it when nil.
func bindMap(typ reflect.Type, val reflect.Value, data map[string][]string) error {
	if typ.Key().Kind() != reflect.String {
		return errBindTarget
	}
	elem := typ.Elem()
	multi := elem.Kind() == reflect.Slice && elem.Elem().Kind() == reflect.String
	if elem.Kind() != reflect.String && !multi {
		return errBindTarget
	}

	if val.IsNil() {
		val.Set(reflect.MakeMapWithSize(typ, len(data)))
	}
	for k, v := range data {
		key := reflect.ValueOf(k).Convert(typ.Key())
		if multi {
			val.SetMapIndex(key, reflect.ValueOf(append([]string(nil), v...)).Convert(elem))
			continue
		}
		if len(v) > 0 {
			val.SetMapIndex(key, reflect.ValueOf(v[0]).Convert(elem))
		}
	}
	return nil
}

func bindStruct(typ reflect.Type, val reflect.Value, data map[string][]string, tag string) error {
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		value := val.Field(i)

		if field.Anonymous && value.Kind() == reflect.Ptr {
			value = value.Elem()
		}
		if !value.CanSet() {
			continue
		}

		name := field.Tag.Get(tag)
		if name == "" {
			if value.Kind() == reflect.Struct {
				if err := Bind(value.Addr().Interface(), data, tag); err != nil {
					return err
				}
			}
			continue
		}
		if field.Anonymous && value.Kind() == reflect.Struct {
			return errBindAnonTag
		}

		input, ok := lookupKey(data, name)
		if !ok {
			continue
		}

		if value.Kind() == reflect.Slice && !implementsTextUnmarshaler(value) {
			slice := reflect.MakeSlice(value.Type(), len(input), len(input))
			for j, s := range input {
				if err := setField(slice.Index(j), s); err != nil {
					return err
				}
			}
			value.Set(slice)
			continue
		}

		if err := setField(value, input[0]); err != nil {
			return err
		}
	}
	return nil
}

func lookupKey(data map[string][]string, name string) ([]string, bool) {
	if v, ok := data[name]; ok && len(v) > 0 {
		return v, true
	}
	for k, v := range data {
		if strings.EqualFold(k, name) && len(v) > 0 {
			return v, true
		}
	}
	return nil, false
}

func implementsTextUnmarshaler(field reflect.Value) bool {
	_, ok := field.Addr().Interface().(encoding.TextUnmarshaler)
	return ok
}

func setField(field reflect.Value, s string) error {
	if field.Kind() == reflect.Ptr {
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return setField(field.Elem(), s)
	}

	if u, ok := field.Addr().Interface().(encoding.TextUnmarshaler); ok {
		return u.UnmarshalText([]byte(s))
	}

	switch field.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v, err := cast.ToInt64E(s)
		if err != nil {
			return err
		}
		field.SetInt(v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := cast.ToUint64E(s)
		if err != nil {
			return err
		}
		field.SetUint(v)
	case reflect.Bool:
		v, err := cast.ToBoolE(s)
		if err != nil {
			return err
		}
		field.SetBool(v)
	case reflect.Float32, reflect.Float64:
		v, err := cast.ToFloat64E(s)
		if err != nil {
			return err
		}
		field.SetFloat(v)
	case reflect.String:
		field.SetString(s)
	default:
		return errBindKind
	}
	return nil
}
