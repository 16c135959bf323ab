//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"termin/config"
	"termin/infras/jwt"
	"termin/infras/kafka"
	"termin/infras/otel"
	"termin/infras/postgres"
	"termin/infras/redis"
	"termin/infras/s3"
	"termin/permissions"
	"termin/shared/cache"
	gRepo "termin/shared/repository"
	"termin/shared/timezone"
	"termin/transport/http"
	"termin/transport/http/middleware"
	"termin/transport/http/router"

	authService "termin/internal/domains/auth/service"
	bookingRepository "termin/internal/domains/booking/repository"
	bookingService "termin/internal/domains/booking/service"
	consentService "termin/internal/domains/consent/service"
	departmentRepository "termin/internal/domains/department/repository"
	departmentService "termin/internal/domains/department/service"
	emailLogRepository "termin/internal/domains/emaillog/repository"
	emailLogService "termin/internal/domains/emaillog/service"
	eventRepository "termin/internal/domains/event/repository"
	eventService "termin/internal/domains/event/service"
	notificationService "termin/internal/domains/notification/service"
	settingRepository "termin/internal/domains/setting/repository"
	settingService "termin/internal/domains/setting/service"
	teacherRepository "termin/internal/domains/teacher/repository"
	teacherService "termin/internal/domains/teacher/service"
	timeSlotRepository "termin/internal/domains/timeslot/repository"
	timeSlotService "termin/internal/domains/timeslot/service"
	userRepository "termin/internal/domains/user/repository"
	userService "termin/internal/domains/user/service"

	authHandler "termin/internal/handlers/auth"
	bookingHandler "termin/internal/handlers/booking"
	consentHandler "termin/internal/handlers/consent"
	departmentHandler "termin/internal/handlers/department"
	emailLogHandler "termin/internal/handlers/emaillog"
	eventHandler "termin/internal/handlers/event"
	settingHandler "termin/internal/handlers/setting"
	teacherHandler "termin/internal/handlers/teacher"
	timeSlotHandler "termin/internal/handlers/timeslot"
	userHandler "termin/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
	timezone.NewClock,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	gRepo.NewTransactor,
)

var repositories = wire.NewSet(
	userRepository.New,
	departmentRepository.New,
	teacherRepository.New,
	timeSlotRepository.New,
	bookingRepository.New,
	settingRepository.New,
	eventRepository.New,
	emailLogRepository.New,
)

var notificationDomain = wire.NewSet(
	notificationService.NewPublisher,
)

var bookingDomain = wire.NewSet(
	bookingService.NewAuthorizer,
	wire.Bind(new(bookingService.PolicySource), new(settingService.Setting)),
	bookingService.New,
)

var domains = wire.NewSet(
	repositories,
	notificationDomain,
	authService.New,
	userService.New,
	departmentService.New,
	teacherService.New,
	timeSlotService.New,
	settingService.New,
	eventService.New,
	emailLogService.New,
	consentService.New,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	departmentHandler.New,
	teacherHandler.New,
	timeSlotHandler.New,
	bookingHandler.New,
	settingHandler.New,
	eventHandler.New,
	emailLogHandler.New,
	consentHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeNotifier() *notificationService.Consumer {
	wire.Build(
		config.Get,
		timezone.NewClock,
		postgres.New,
		otel.New,
		kafka.New,
		bookingRepository.New,
		emailLogRepository.New,
		emailLogService.New,
		notificationService.NewConsumer,
	)

	return &notificationService.Consumer{}
}
