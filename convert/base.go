package convert

import (
	"math"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var (
	baseOnce sync.Once
	base     *Registry
)

// Base returns the process-wide base registry. It holds the numeric
// widening and narrowing converters and the DefaultStyle literal
// converters. Dialect registries are layered on top of it.
func Base() *Registry {
	baseOnce.Do(func() {
		base = NewBase()
	})
	return base
}

// NewBase builds a fresh, unshared base registry.
func NewBase(opts ...Option) *Registry {
	r := NewRegistry(nil, opts...)
	registerNumbers(r)
	registerNarrowing(r)
	DefaultStyle.Install(r)
	return r
}

func registerNumbers(r *Registry) {
	RegisterFunc(r, func(v int64) (Literal, error) {
		return Raw(strconv.FormatInt(v, 10)), nil
	})
	RegisterFunc(r, func(v uint64) (Literal, error) {
		return Raw(strconv.FormatUint(v, 10)), nil
	})
	RegisterFunc(r, func(v float64) (Literal, error) {
		return floatLiteral(v, 64), nil
	})
	RegisterFunc(r, func(v float32) (Literal, error) {
		return floatLiteral(float64(v), 32), nil
	})
	RegisterFunc(r, func(v decimal.Decimal) (Literal, error) {
		return Raw(v.String()), nil
	})
	RegisterFunc(r, func(v time.Duration) (Literal, error) {
		return Raw(strconv.FormatInt(int64(v), 10)), nil
	})

	widen := []*Converter{
		RegisterFunc(r, func(v int) (int64, error) { return int64(v), nil }),
		RegisterFunc(r, func(v int8) (int64, error) { return int64(v), nil }),
		RegisterFunc(r, func(v int16) (int64, error) { return int64(v), nil }),
		RegisterFunc(r, func(v int32) (int64, error) { return int64(v), nil }),
		RegisterFunc(r, func(v uint8) (int64, error) { return int64(v), nil }),
		RegisterFunc(r, func(v uint16) (int64, error) { return int64(v), nil }),
		RegisterFunc(r, func(v uint32) (int64, error) { return int64(v), nil }),
		RegisterFunc(r, func(v uint) (uint64, error) { return uint64(v), nil }),
		RegisterFunc(r, func(v float32) (float64, error) { return float64(v), nil }),
	}
	for _, w := range widen {
		if w.Source == reflect.TypeFor[float32]() {
			continue
		}
		c, err := r.Chain(w, LiteralType)
		if err != nil {
			panic(err)
		}
		r.Add(c)
	}
}

func floatLiteral(v float64, bits int) Literal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Param(v)
	}
	return Raw(strconv.FormatFloat(v, 'g', -1, bits))
}
