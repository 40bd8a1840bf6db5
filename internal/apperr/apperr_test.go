package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "wrapped validation", err: fmt.Errorf("%w: customerName required", ErrValidation), want: "validation"},
		{name: "double wrapped", err: fmt.Errorf("create: %w", fmt.Errorf("%w: ORD#1", ErrDuplicateOrderNumber)), want: "duplicate_order_number"},
		{name: "ownership", err: ErrUnauthorized, want: "unauthorized"},
		{name: "unknown", err: errors.New("boom"), want: "internal"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Kind(tt.err))
		})
	}
}
