package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExternalWrite_MatchesKindAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := ExternalWrite("insert payment", cause)

	assert.ErrorIs(t, err, ErrExternalWrite)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "external_write_failure", Code(err))
}

func TestCode(t *testing.T) {
	cases := map[error]string{
		Validation("quantity must be >= %d", 1):                  "validation_error",
		fmt.Errorf("%w: pending -> ready", ErrInvalidTransition): "invalid_transition",
		NotFound("order", "o-1"):                                 "not_found",
		fmt.Errorf("place order: %w", ErrEmptyCart):              "empty_cart",
		ErrAssignmentConflict:                                    "assignment_conflict",
		ErrPermissionDenied:                                      "permission_denied",
		ErrUnauthenticated:                                       "unauthenticated",
		ErrInProgress:                                            "in_progress",
		errors.New("other"):                                      "internal",
	}
	for err, want := range cases {
		assert.Equal(t, want, Code(err), err.Error())
	}
}
