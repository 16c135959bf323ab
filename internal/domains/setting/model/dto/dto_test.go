package dto_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"termin/internal/domains/setting/model"
	"termin/internal/domains/setting/model/dto"
	"termin/shared/failure"
)

func TestValidateValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
	}{
		{name: "min lead", key: model.KeyMinLeadMinutes, value: "90"},
		{name: "negative min lead", key: model.KeyMinLeadMinutes, value: "-1", wantErr: true},
		{name: "min lead beyond a year", key: model.KeyMinLeadMinutes, value: "525601", wantErr: true},
		{name: "max lead", key: model.KeyMaxLeadDays, value: "3650"},
		{name: "zero max lead", key: model.KeyMaxLeadDays, value: "0", wantErr: true},
		{name: "max lead overflowing a duration", key: model.KeyMaxLeadDays, value: "200000", wantErr: true},
		{name: "max lead not a number", key: model.KeyMaxLeadDays, value: "a month", wantErr: true},
		{name: "notification toggle", key: model.KeyNotificationEnabled, value: "false"},
		{name: "free key", key: "school.name", value: "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dto.ValidateValue(tt.key, tt.value)

			if tt.wantErr {
				assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
