package recipe

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"recipe-catalog/internal/core/catalog"
	"recipe-catalog/internal/pkg/common"

	"github.com/stretchr/testify/assert"
)

func TestToCustomError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("recipe %q: %w", "x", catalog.ErrNotFound), http.StatusNotFound, common.ErrCodeNotFound},
		{fmt.Errorf("%w: unknown sort", catalog.ErrInvalidArgument), http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{fmt.Errorf("catalog: %w", catalog.ErrParse), http.StatusUnprocessableEntity, common.ErrCodeParseError},
		{fmt.Errorf("save: %w: %w", catalog.ErrPersist, errors.New("disk full")), http.StatusInternalServerError, common.ErrCodePersistFailed},
		{common.ErrServiceUnavailable, http.StatusServiceUnavailable, common.ErrCodeServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError, common.ErrCodeInternalError},
	}

	for _, tc := range cases {
		ce := toCustomError(tc.err)
		assert.Equal(t, tc.status, ce.Status, tc.err.Error())
		assert.Equal(t, tc.code, ce.Code, tc.err.Error())
	}
}

func TestToCustomError_KeepsCause(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("recipe %q: %w", "x", catalog.ErrNotFound)
	ce := toCustomError(cause)

	assert.ErrorIs(t, ce, catalog.ErrNotFound)
	assert.Equal(t, `recipe "x": not found`, ce.Response(true).Details)
	assert.Empty(t, ce.Response(false).Details)
}
