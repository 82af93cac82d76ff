package sqlweave_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/sqlweave"
)

func TestConversionError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := sqlweave.NewConversionError("int", "convert.Literal", 5)
		assert.Equal(t, "sqlweave: no converter from int to convert.Literal (value=5)", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := sqlweave.NewConversionError("chan int", "string", nil)
		assert.True(t, errors.Is(err, sqlweave.ErrMissingConverter))
		assert.False(t, errors.Is(err, sqlweave.ErrPrecisionLoss))
	})

	t.Run("IsConversionError", func(t *testing.T) {
		err := sqlweave.NewConversionError("a", "b", 1)
		assert.True(t, sqlweave.IsConversionError(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, sqlweave.IsConversionError(wrapped))

		// Sentinel error
		assert.True(t, sqlweave.IsConversionError(sqlweave.ErrMissingConverter))

		// Non-matching error
		assert.False(t, sqlweave.IsConversionError(errors.New("other error")))
		assert.False(t, sqlweave.IsConversionError(nil))
	})
}

func TestPrecisionLossError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := sqlweave.NewPrecisionLossError(int64(300), int8(44), "int8")
		assert.Equal(t, "sqlweave: converting 300 (int64) to int8 loses precision (got 44)", err.Error())
	})

	t.Run("IsPrecisionLoss", func(t *testing.T) {
		err := sqlweave.NewPrecisionLossError(1.5, int64(1), "int64")
		assert.True(t, sqlweave.IsPrecisionLoss(err))
		assert.True(t, sqlweave.IsPrecisionLoss(fmt.Errorf("wrapper: %w", err)))
		assert.True(t, errors.Is(err, sqlweave.ErrPrecisionLoss))
		assert.False(t, sqlweave.IsPrecisionLoss(errors.New("other error")))
		assert.False(t, sqlweave.IsPrecisionLoss(nil))
	})
}

func TestEntityConditionError(t *testing.T) {
	err := sqlweave.NewEntityConditionError("Tag")
	assert.Equal(t, "sqlweave: entity Tag has no key columns", err.Error())
	assert.True(t, errors.Is(err, sqlweave.ErrInvalidEntityCondition))
}

func TestUnsupportedFeatureError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := sqlweave.NewUnsupportedFeatureError("sqlite", "FOR UPDATE")
		assert.Equal(t, "sqlweave: unsupported operation: sqlite does not support FOR UPDATE", err.Error())
	})

	t.Run("IsUnsupported", func(t *testing.T) {
		err := sqlweave.NewUnsupportedFeatureError("standard", "NOWAIT")
		assert.True(t, sqlweave.IsUnsupported(err))
		assert.True(t, sqlweave.IsUnsupported(fmt.Errorf("wrapper: %w", err)))
		assert.True(t, sqlweave.IsUnsupported(sqlweave.ErrUnsupportedFeature))
		assert.False(t, sqlweave.IsUnsupported(errors.New("other error")))
		assert.False(t, sqlweave.IsUnsupported(nil))
	})
}

func TestIllegalStateError(t *testing.T) {
	err := sqlweave.NewIllegalStateError("OrderBy.Desc", "no element to apply the direction to")
	assert.Equal(t, "sqlweave: illegal state for OrderBy.Desc: no element to apply the direction to", err.Error())
	assert.True(t, errors.Is(err, sqlweave.ErrIllegalState))
}

func TestBuilderError(t *testing.T) {
	t.Run("WithOp", func(t *testing.T) {
		err := sqlweave.NewBuilderError("And", "nil condition at index 1")
		assert.Equal(t, "sqlweave: And: nil condition at index 1", err.Error())
	})

	t.Run("WithoutOp", func(t *testing.T) {
		err := sqlweave.NewBuilderError("", "bad input")
		assert.Equal(t, "sqlweave: bad input", err.Error())
		assert.True(t, errors.Is(err, sqlweave.ErrInvalidBuilder))
	})
}

func TestConstraintError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := sqlweave.NewConstraintError("UNIQUE constraint failed", nil)
		assert.Equal(t, "sqlweave: constraint failed: UNIQUE constraint failed", err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		underlying := errors.New("db error")
		err := sqlweave.NewConstraintError("constraint violated", underlying)
		assert.True(t, errors.Is(err, underlying))
	})

	t.Run("IsConstraintError", func(t *testing.T) {
		err := sqlweave.NewConstraintError("check failed", nil)
		assert.True(t, sqlweave.IsConstraintError(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, sqlweave.IsConstraintError(wrapped))

		// Non-matching error
		assert.False(t, sqlweave.IsConstraintError(errors.New("other error")))
		assert.False(t, sqlweave.IsConstraintError(nil))
	})
}

func TestSentinelErrors(t *testing.T) {
	for _, err := range []error{
		sqlweave.ErrMissingConverter,
		sqlweave.ErrPrecisionLoss,
		sqlweave.ErrInvalidEntityCondition,
		sqlweave.ErrUnsupportedFeature,
		sqlweave.ErrIllegalState,
		sqlweave.ErrInvalidBuilder,
	} {
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sqlweave: ")
	}
}

// BenchmarkErrors benchmarks error creation and checking.
func BenchmarkErrors(b *testing.B) {
	b.Run("NewConversionError", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = sqlweave.NewConversionError("int", "string", i)
		}
	})

	b.Run("IsConversionError", func(b *testing.B) {
		err := sqlweave.NewConversionError("int", "string", 1)
		for i := 0; i < b.N; i++ {
			_ = sqlweave.IsConversionError(err)
		}
	})
}
