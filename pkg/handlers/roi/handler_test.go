package roi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFilter(t *testing.T) {
	filter, err := buildFilter("2025-01-01", "2025-01-31", []string{"Email"})
	require.NoError(t, err)
	require.NotNil(t, filter.From)
	require.NotNil(t, filter.To)
	assert.Equal(t, 31, filter.To.Day())
	assert.Equal(t, []string{"Email"}, filter.Channels)

	empty, err := buildFilter("", "", nil)
	require.NoError(t, err)
	assert.Nil(t, empty.From)
	assert.Nil(t, empty.To)

	_, err = buildFilter("", "31/01/2025", nil)
	assert.EqualError(t, err, "invalid 'to' date format. Expected format: YYYY-MM-DD")
}

func TestParams(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?budget=2500.5&top=4&bad=x", nil)

	budget, err := floatParam(req, "budget", 1)
	require.NoError(t, err)
	assert.Equal(t, 2500.5, budget)

	top, err := intParam(req, "top", 3)
	require.NoError(t, err)
	assert.Equal(t, 4, top)

	review, err := intParam(req, "review", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, review)

	_, err = intParam(req, "bad", 0)
	assert.Error(t, err)
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("load: %w", domain.ErrNoRecords), http.StatusUnprocessableEntity},
		{domain.ErrRunNotFound, http.StatusNotFound},
		{fmt.Errorf("%w: got 0", domain.ErrInvalidBudget), http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		rec := httptest.NewRecorder()
		writeError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
	}
}
