package model_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"termin/internal/domains/setting/model"
)

func TestMaxLead(t *testing.T) {
	tests := []struct {
		days   int
		want   time.Duration
		wantOK bool
	}{
		{days: 0},
		{days: 1, want: 24 * time.Hour, wantOK: true},
		{days: model.MaxLeadDaysLimit, want: model.MaxLeadDaysLimit * 24 * time.Hour, wantOK: true},
		{days: model.MaxLeadDaysLimit + 1},
		{days: 200000},
	}

	for _, tt := range tests {
		lead, ok := model.MaxLead(tt.days)

		assert.Equal(t, tt.wantOK, ok, "days=%d", tt.days)
		assert.Equal(t, tt.want, lead, "days=%d", tt.days)
		assert.GreaterOrEqual(t, lead, time.Duration(0))
	}
}

func TestMinLead(t *testing.T) {
	lead, ok := model.MinLead(0)
	assert.True(t, ok)
	assert.Zero(t, lead)

	_, ok = model.MinLead(-1)
	assert.False(t, ok)

	_, ok = model.MinLead(model.MinLeadMinutesLimit + 1)
	assert.False(t, ok)
}
