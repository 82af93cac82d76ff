package convert

import (
	"math"
	"reflect"
	"time"

	"github.com/golang-sql/civil"
	"github.com/shopspring/decimal"

	"github.com/syssam/sqlweave"
)

// narrow registers S -> D using cast, failing with a PrecisionLossError when
// back(cast(v)) does not give v back.
func narrow[S, D comparable](r *Registry, cast func(S) D, back func(D) S) {
	dest := typeName(reflect.TypeFor[D]())
	RegisterFunc(r, func(v S) (D, error) {
		d := cast(v)
		if back(d) != v {
			var zero D
			return zero, &sqlweave.PrecisionLossError{Value: v, Candidate: d, Dest: dest}
		}
		return d, nil
	})
}

func registerNarrowing(r *Registry) {
	narrow(r, func(v int64) int32 { return int32(v) }, func(d int32) int64 { return int64(d) })
	narrow(r, func(v int64) int16 { return int16(v) }, func(d int16) int64 { return int64(d) })
	narrow(r, func(v int64) int8 { return int8(v) }, func(d int8) int64 { return int64(d) })
	narrow(r, func(v int64) int { return int(v) }, func(d int) int64 { return int64(d) })
	// Sign changes round-trip through the cast, so they are checked by range.
	RegisterFunc(r, func(v int64) (uint64, error) {
		if v < 0 {
			return 0, &sqlweave.PrecisionLossError{Value: v, Candidate: uint64(v), Dest: "uint64"}
		}
		return uint64(v), nil
	})
	RegisterFunc(r, func(v uint64) (int64, error) {
		if v > math.MaxInt64 {
			return 0, &sqlweave.PrecisionLossError{Value: v, Candidate: int64(v), Dest: "int64"}
		}
		return int64(v), nil
	})

	RegisterFunc(r, func(v float64) (float32, error) {
		f := float32(v)
		if math.IsNaN(v) || float64(f) == v {
			return f, nil
		}
		return 0, &sqlweave.PrecisionLossError{Value: v, Candidate: f, Dest: "float32"}
	})
	RegisterFunc(r, func(v float64) (int64, error) {
		if v >= -(1<<63) && v < 1<<63 {
			if i := int64(v); float64(i) == v {
				return i, nil
			}
		}
		return 0, &sqlweave.PrecisionLossError{Value: v, Candidate: math.Trunc(v), Dest: "int64"}
	})

	RegisterFunc(r, func(v decimal.Decimal) (float64, error) {
		f, exact := v.Float64()
		if !exact {
			return 0, &sqlweave.PrecisionLossError{Value: v, Candidate: f, Dest: "float64"}
		}
		return f, nil
	})
	RegisterFunc(r, func(v decimal.Decimal) (int64, error) {
		i := v.IntPart()
		if !decimal.NewFromInt(i).Equal(v) {
			return 0, &sqlweave.PrecisionLossError{Value: v, Candidate: i, Dest: "int64"}
		}
		return i, nil
	})
	RegisterFunc(r, func(v int64) (decimal.Decimal, error) {
		return decimal.NewFromInt(v), nil
	})
	RegisterFunc(r, func(v float64) (decimal.Decimal, error) {
		return decimal.NewFromFloat(v), nil
	})

	RegisterFunc(r, func(v time.Time) (civil.Date, error) {
		d := civil.DateOf(v)
		if !d.In(v.Location()).Equal(v) {
			return d, &sqlweave.PrecisionLossError{Value: v, Candidate: d, Dest: "civil.Date"}
		}
		return d, nil
	})
	RegisterFunc(r, func(v civil.Date) (time.Time, error) {
		return v.In(time.UTC), nil
	})
}
