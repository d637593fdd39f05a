package datasource

import (
	"sync"

	"github.com/golang/groupcache/singleflight"
)

// lazy holds the result of a computation that runs at most once. Concurrent
// callers share the in-flight computation; its result, including an error,
// is kept for all later calls.
type lazy[T any] struct {
	g singleflight.Group

	mtx sync.Mutex
	res *result[T]
}

type result[T any] struct {
	v   T
	err error
}

func (l *lazy[T]) get(fn func() (T, error)) (T, error) {
	if res := l.load(); res != nil {
		return res.v, res.err
	}
	_, _ = l.g.Do("", func() (interface{}, error) {
		// A caller may reach Do after the previous flight has finished
		// and been removed from the group.
		if l.load() != nil {
			return nil, nil
		}
		v, err := fn()
		l.mtx.Lock()
		l.res = &result[T]{v: v, err: err}
		l.mtx.Unlock()
		return nil, nil
	})
	res := l.load()
	return res.v, res.err
}

func (l *lazy[T]) load() *result[T] {
	l.mtx.Lock()
	defer l.mtx.Unlock()
	return l.res
}
