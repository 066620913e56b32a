package querykit_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/querykit/querykit"
)

func TestInvalidArgumentError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := querykit.NewInvalidArgumentError("WhereIn", "nested slices are not allowed")
		assert.Equal(t, "querykit: WhereIn: nested slices are not allowed", err.Error())
	})

	t.Run("ErrorWithoutOp", func(t *testing.T) {
		err := &querykit.InvalidArgumentError{Reason: "bad input"}
		assert.Equal(t, "querykit: bad input", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := querykit.NewInvalidArgumentError("OrderBy", "order direction must be asc or desc, got %q", "sideways")
		assert.True(t, errors.Is(err, querykit.ErrInvalidArgument))
	})

	t.Run("IsInvalidArgument", func(t *testing.T) {
		err := querykit.NewInvalidArgumentError("Where", "illegal operator and value combination")
		assert.True(t, querykit.IsInvalidArgument(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, querykit.IsInvalidArgument(wrapped))

		// Sentinel error
		assert.True(t, querykit.IsInvalidArgument(querykit.ErrInvalidArgument))

		// Non-matching error
		assert.False(t, querykit.IsInvalidArgument(errors.New("other error")))
		assert.False(t, querykit.IsInvalidArgument(nil))
	})
}

func TestUnsupportedFeatureError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := querykit.NewUnsupportedFeatureError("generic", "upsert")
		assert.Equal(t, "querykit: upsert is not supported by the generic dialect", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := querykit.NewUnsupportedFeatureError("sqlite", "full-text search")
		assert.True(t, errors.Is(err, querykit.ErrUnsupportedFeature))
	})

	t.Run("IsUnsupportedFeature", func(t *testing.T) {
		err := querykit.NewUnsupportedFeatureError("generic", "json operations")
		assert.True(t, querykit.IsUnsupportedFeature(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, querykit.IsUnsupportedFeature(wrapped))

		// Sentinel error
		assert.True(t, querykit.IsUnsupportedFeature(querykit.ErrUnsupportedFeature))

		// Non-matching error
		assert.False(t, querykit.IsUnsupportedFeature(errors.New("other error")))
		assert.False(t, querykit.IsUnsupportedFeature(nil))
	})
}

func TestMissingClauseError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := querykit.NewMissingClauseError("Update", "from")
		assert.Equal(t, "querykit: Update requires a from clause", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := querykit.NewMissingClauseError("Join", "on")
		assert.True(t, errors.Is(err, querykit.ErrMissingClause))
	})

	t.Run("IsMissingClause", func(t *testing.T) {
		err := querykit.NewMissingClauseError("Truncate", "from")
		assert.True(t, querykit.IsMissingClause(err))

		// Wrapped error
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, querykit.IsMissingClause(wrapped))

		// Sentinel error
		assert.True(t, querykit.IsMissingClause(querykit.ErrMissingClause))

		// Non-matching error
		assert.False(t, querykit.IsMissingClause(errors.New("other error")))
		assert.False(t, querykit.IsMissingClause(nil))
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("ErrInvalidArgument", func(t *testing.T) {
		assert.Error(t, querykit.ErrInvalidArgument)
		assert.Contains(t, querykit.ErrInvalidArgument.Error(), "invalid argument")
	})

	t.Run("ErrUnsupportedFeature", func(t *testing.T) {
		assert.Error(t, querykit.ErrUnsupportedFeature)
		assert.Contains(t, querykit.ErrUnsupportedFeature.Error(), "unsupported feature")
	})

	t.Run("ErrMissingClause", func(t *testing.T) {
		assert.Error(t, querykit.ErrMissingClause)
		assert.Contains(t, querykit.ErrMissingClause.Error(), "missing clause")
	})
}

// BenchmarkErrors benchmarks error creation and checking.
func BenchmarkErrors(b *testing.B) {
	b.Run("NewInvalidArgumentError", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = querykit.NewInvalidArgumentError("Where", "bad operator")
		}
	})

	b.Run("IsInvalidArgument", func(b *testing.B) {
		err := querykit.NewInvalidArgumentError("Where", "bad operator")
		for i := 0; i < b.N; i++ {
			_ = querykit.IsInvalidArgument(err)
		}
	})

	b.Run("NewUnsupportedFeatureError", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = querykit.NewUnsupportedFeatureError("generic", "upsert")
		}
	})

	b.Run("IsUnsupportedFeature", func(b *testing.B) {
		err := querykit.NewUnsupportedFeatureError("generic", "upsert")
		for i := 0; i < b.N; i++ {
			_ = querykit.IsUnsupportedFeature(err)
		}
	})
}
