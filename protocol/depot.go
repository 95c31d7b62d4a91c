package protocol

import (
	"time"

	"github.com/spf13/cast"
)

// Depot is the per-request state container shared by middleware, handlers and
// writers. It lives for one request and is owned by the goroutine serving it.
type Depot struct {
	values map[string]any
}

func NewDepot() *Depot {
	return &Depot{}
}

func (d *Depot) Set(key string, value any) {
	if d.values == nil {
		d.values = make(map[string]any)
	}
	d.values[key] = value
}

func (d *Depot) Get(key string) any {
	return d.values[key]
}

func (d *Depot) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

func (d *Depot) Delete(key string) {
	delete(d.values, key)
}

func (d *Depot) Len() int {
	return len(d.values)
}

// All returns a copy of the stored values.
func (d *Depot) All() map[string]any {
	all := make(map[string]any, len(d.values))
	for k, v := range d.values {
		all[k] = v
	}
	return all
}

func (d *Depot) Reset() {
	for k := range d.values {
		delete(d.values, k)
	}
}

// GetString converts the stored value to a string. Missing or unconvertible
// values yield "" and false.
func (d *Depot) GetString(key string) (string, bool) {
	return lookup(d, key, cast.ToStringE)
}

func (d *Depot) GetInt(key string) (int, bool) {
	return lookup(d, key, cast.ToIntE)
}

func (d *Depot) GetInt64(key string) (int64, bool) {
	return lookup(d, key, cast.ToInt64E)
}

func (d *Depot) GetBool(key string) (bool, bool) {
	return lookup(d, key, cast.ToBoolE)
}

func (d *Depot) GetFloat64(key string) (float64, bool) {
	return lookup(d, key, cast.ToFloat64E)
}

func (d *Depot) GetDuration(key string) (time.Duration, bool) {
	return lookup(d, key, cast.ToDurationE)
}

// Obtain returns the value stored under key when it has exactly type T.
func Obtain[T any](d *Depot, key string) (T, bool) {
	v, ok := d.values[key].(T)
	return v, ok
}

func lookup[T any](d *Depot, key string, conv func(any) (T, error)) (T, bool) {
	var zero T
	v, ok := d.values[key]
	if !ok {
		return zero, false
	}
	out, err := conv(v)
	if err != nil {
		return zero, false
	}
	return out, true
}
