package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("items must not be empty"), http.StatusBadRequest},
		{"conflict", Conflict("table already has an active call"), http.StatusBadRequest},
		{"not found", NotFound("order %d not found", 7), http.StatusNotFound},
		{"store", Store("failed to save order", errors.New("connection reset")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("create: %w", NotFound("table not found")), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestPublicMessageHidesStoreText(t *testing.T) {
	err := Store("failed to save order", errors.New("pq: password authentication failed"))
	assert.Equal(t, "internal server error", PublicMessage(err))
	assert.Contains(t, err.Error(), "password authentication failed")

	assert.Equal(t, "order 3 not found", PublicMessage(NotFound("order %d not found", 3)))
}

func TestIs(t *testing.T) {
	assert.True(t, Is(Conflict("dup"), KindConflict))
	assert.False(t, Is(nil, KindConflict))
	assert.False(t, Is(Validation("bad"), KindConflict))
}
