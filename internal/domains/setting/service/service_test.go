package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"termin/config"
	"termin/infras/otel/mocks"
	settingMocks "termin/internal/domains/setting/mocks"
	"termin/internal/domains/setting/model"
	"termin/internal/domains/setting/model/dto"
	"termin/internal/domains/setting/service"
	"termin/internal/domains/timeslot/lifecycle"
	cacheMocks "termin/shared/cache/mocks"
	"termin/shared/constant"
	gDto "termin/shared/dto"
	"termin/shared/failure"
)

var fixedNow = time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC)

func newService(t *testing.T) (service.Setting, *settingMocks.MockSetting, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	mockRepo := settingMocks.NewMockSetting(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600
	cfg.Booking.MinLeadMinutes = 60
	cfg.Booking.MaxLeadDays = 30
	cfg.Booking.NotificationsEnabled = true

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc := service.New(mockRepo, cfg, mockCache, mocks.NewOtel(), func() time.Time { return fixedNow })

	return svc, mockRepo, mockCache
}

func adminCtx() context.Context {
	return context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-1")
}

func TestSettingService_Snapshot(t *testing.T) {
	tests := []struct {
		name     string
		stored   []model.Setting
		expected model.Policy
	}{
		{
			name: "defaults from config",
			expected: model.Policy{
				Window:               windowOf(time.Hour, 30*24*time.Hour),
				NotificationsEnabled: true,
			},
		},
		{
			name: "stored values override defaults",
			stored: []model.Setting{
				{Key: model.KeyMinLeadMinutes, Value: "120"},
				{Key: model.KeyMaxLeadDays, Value: "14"},
				{Key: model.KeyNotificationEnabled, Value: "false"},
			},
			expected: model.Policy{
				Window:               windowOf(2*time.Hour, 14*24*time.Hour),
				NotificationsEnabled: false,
			},
		},
		{
			name: "out of range values keep defaults",
			stored: []model.Setting{
				{Key: model.KeyMinLeadMinutes, Value: "-5"},
				{Key: model.KeyMaxLeadDays, Value: "200000"},
			},
			expected: model.Policy{
				Window:               windowOf(time.Hour, 30*24*time.Hour),
				NotificationsEnabled: true,
			},
		},
		{
			name: "unparsable values keep defaults",
			stored: []model.Setting{
				{Key: model.KeyMinLeadMinutes, Value: "soon"},
				{Key: model.KeyMaxLeadDays, Value: "0"},
			},
			expected: model.Policy{
				Window:               windowOf(time.Hour, 30*24*time.Hour),
				NotificationsEnabled: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, mockCache := newService(t)

			mockCache.EXPECT().Get(gomock.Any(), "setting:snapshot", gomock.Any()).Return(errors.New("cache miss"))
			mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.stored, nil)

			policy, err := svc.Snapshot(context.Background())

			require.NoError(t, err)
			assert.Equal(t, tt.expected, policy)
		})
	}

	t.Run("repository failure", func(t *testing.T) {
		svc, mockRepo, mockCache := newService(t)

		mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("cache miss"))
		mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("database error"))

		_, err := svc.Snapshot(context.Background())

		assert.Error(t, err)
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		svc, _, mockCache := newService(t)

		mockCache.EXPECT().Get(gomock.Any(), "setting:snapshot", gomock.Any()).Return(nil)

		_, err := svc.Snapshot(context.Background())

		assert.NoError(t, err)
	})
}

func TestSettingService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CreateSettingRequest
		setupMock func(repo *settingMocks.MockSetting)
		wantCode  int
	}{
		{
			name: "successful creation",
			req:  dto.CreateSettingRequest{Key: model.KeyMaxLeadDays, Value: "21"},
			setupMock: func(repo *settingMocks.MockSetting) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, s model.Setting) error {
					assert.Equal(t, "admin-1", s.CreatedBy)
					assert.Equal(t, fixedNow, s.CreatedAt)

					return nil
				})
			},
		},
		{
			name:      "invalid value for known key",
			req:       dto.CreateSettingRequest{Key: model.KeyNotificationEnabled, Value: "sometimes"},
			setupMock: func(_ *settingMocks.MockSetting) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name:      "max lead beyond the accepted range",
			req:       dto.CreateSettingRequest{Key: model.KeyMaxLeadDays, Value: "200000"},
			setupMock: func(_ *settingMocks.MockSetting) {},
			wantCode:  http.StatusBadRequest,
		},
		{
			name: "min lead reaching past max lead",
			req:  dto.CreateSettingRequest{Key: model.KeyMinLeadMinutes, Value: "50000"},
			setupMock: func(repo *settingMocks.MockSetting) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name: "duplicate key",
			req:  dto.CreateSettingRequest{Key: "school.name", Value: "Gymnasium"},
			setupMock: func(repo *settingMocks.MockSetting) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mockRepo, _ := newService(t)
			tt.setupMock(mockRepo)

			err := svc.Create(adminCtx(), tt.req)

			if tt.wantCode == 0 {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))
			}
		})
	}
}

func TestSettingService_Update(t *testing.T) {
	t.Run("empty request", func(t *testing.T) {
		svc, _, _ := newService(t)

		err := svc.Update(adminCtx(), dto.UpdateSettingRequest{}, model.KeyMaxLeadDays)

		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("not found", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)
		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := svc.Update(adminCtx(), dto.UpdateSettingRequest{Value: "10"}, model.KeyMaxLeadDays)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})

	t.Run("max lead below stored min lead", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)
		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Setting{
			{Key: model.KeyMinLeadMinutes, Value: "2880"},
			{Key: model.KeyMaxLeadDays, Value: "30"},
		}, nil)

		err := svc.Update(adminCtx(), dto.UpdateSettingRequest{Value: "2"}, model.KeyMaxLeadDays)

		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("success", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)
		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, "10", fields[model.FieldValue])
				assert.Equal(t, "admin-1", fields[constant.FieldModifiedBy])

				return nil
			})

		err := svc.Update(adminCtx(), dto.UpdateSettingRequest{Value: "10"}, model.KeyMaxLeadDays)

		assert.NoError(t, err)
	})
}

func TestSettingService_Delete(t *testing.T) {
	t.Run("falling back to defaults would empty the window", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)
		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		mockRepo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.Setting{
			{Key: model.KeyMinLeadMinutes, Value: "60480"},
			{Key: model.KeyMaxLeadDays, Value: "90"},
		}, nil)

		err := svc.Delete(adminCtx(), model.KeyMaxLeadDays)

		assert.Equal(t, http.StatusUnprocessableEntity, failure.GetCode(err))
	})

	t.Run("free key", func(t *testing.T) {
		svc, mockRepo, _ := newService(t)
		mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, svc.Delete(adminCtx(), "school.name"))
	})
}

func TestSettingService_Get(t *testing.T) {
	svc, mockRepo, mockCache := newService(t)

	mockCache.EXPECT().Get(gomock.Any(), "setting:get:school.name", gomock.Any()).Return(errors.New("cache miss")).Times(2)
	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Setting{Key: "school.name", Value: "Gymnasium"}, nil)
	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Setting{}, nil)

	res, err := svc.Get(context.Background(), "school.name")
	require.NoError(t, err)
	assert.Equal(t, "Gymnasium", res.Value)

	_, err = svc.Get(context.Background(), "school.name")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func windowOf(minLead, maxLead time.Duration) lifecycle.Window {
	return lifecycle.Window{MinLead: minLead, MaxLead: maxLead}
}
