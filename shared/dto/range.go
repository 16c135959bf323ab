package dto

import (
	"fmt"
	"net/http"
	"time"

	"termin/shared/constant"
	"termin/shared/failure"
)

// TimeRangeFromRequest reads the optional from/to query parameters (RFC3339) and
// returns filters bounding field to [from, to].
func TimeRangeFromRequest(r *http.Request, field, table string) ([]any, error) {
	filters := []any{}
	query := r.URL.Query()

	bounds := []struct {
		param    string
		operator string
	}{
		{constant.RequestParamFrom, FilterOperatorGreaterEq},
		{constant.RequestParamTo, FilterOperatorLessEq},
	}

	for _, bound := range bounds {
		raw := query.Get(bound.param)
		if raw == constant.Empty {
			continue
		}

		value, err := time.Parse(constant.DateFormat, raw)
		if err != nil {
			return nil, failure.BadRequestFromString(fmt.Sprintf("%s must be an RFC3339 timestamp", bound.param)) //nolint:wrapcheck
		}

		filters = append(filters, Filter{
			ArgName:  fmt.Sprintf("%s_%s", field, bound.param),
			Field:    field,
			Operator: bound.operator,
			Value:    value,
			Table:    table,
		})
	}

	return filters, nil
}
