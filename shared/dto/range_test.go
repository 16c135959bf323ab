package dto_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"termin/shared/dto"
	"termin/shared/failure"
)

func TestTimeRangeFromRequest(t *testing.T) {
	t.Run("both bounds", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/?from=2026-11-02T08:00:00Z&to=2026-11-02T18:00:00Z", nil)

		filters, err := dto.TimeRangeFromRequest(r, "start_time", "time_slots")

		require.NoError(t, err)
		require.Len(t, filters, 2)

		group := dto.FilterGroup{Operator: dto.FilterGroupOperatorAnd, Filters: filters}
		where, args := group.GetWhereClause()

		assert.Equal(t, "(time_slots.start_time >= :start_time_from AND time_slots.start_time <= :start_time_to)", where)
		assert.Equal(t, time.Date(2026, 11, 2, 8, 0, 0, 0, time.UTC), args["start_time_from"])
		assert.Equal(t, time.Date(2026, 11, 2, 18, 0, 0, 0, time.UTC), args["start_time_to"])
	})

	t.Run("no bounds", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		filters, err := dto.TimeRangeFromRequest(r, "start_time", "time_slots")

		require.NoError(t, err)
		assert.Empty(t, filters)
	})

	t.Run("malformed bound", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/?to=tomorrow", nil)

		_, err := dto.TimeRangeFromRequest(r, "start_time", "time_slots")

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}
