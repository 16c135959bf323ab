package router

import (
	"github.com/go-chi/chi/v5"

	"termin/internal/handlers/auth"
	"termin/internal/handlers/booking"
	"termin/internal/handlers/consent"
	"termin/internal/handlers/department"
	"termin/internal/handlers/emaillog"
	"termin/internal/handlers/event"
	"termin/internal/handlers/setting"
	"termin/internal/handlers/teacher"
	"termin/internal/handlers/timeslot"
	"termin/internal/handlers/user"
	"termin/transport/http/middleware"
)

type DomainHandlers struct {
	Auth       auth.Handler
	User       user.Handler
	Department department.Handler
	Teacher    teacher.Handler
	TimeSlot   timeslot.Handler
	Booking    booking.Handler
	Setting    setting.Handler
	Event      event.Handler
	EmailLog   emaillog.Handler
	Consent    consent.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
}

// SetupRoutes mounts the versioned API. Route access is resolved per pattern from the permission table.
func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.APIKey)
		routerGroup.Use(r.AuthRole.Auth)
		routerGroup.Use(r.AuthRole.RBAC)

		r.DomainHandlers.Auth.Router(routerGroup)
		r.DomainHandlers.User.Router(routerGroup)
		r.DomainHandlers.Department.Router(routerGroup)
		r.DomainHandlers.Teacher.Router(routerGroup)
		r.DomainHandlers.TimeSlot.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Setting.Router(routerGroup)
		r.DomainHandlers.Event.Router(routerGroup)
		r.DomainHandlers.EmailLog.Router(routerGroup)
		r.DomainHandlers.Consent.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
	}
}
