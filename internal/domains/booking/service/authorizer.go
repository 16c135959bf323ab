package service

import (
	"termin/internal/domains/booking/model"
	"termin/shared/constant"
)

// Authorizer decides whether requester may change booking.
type Authorizer interface {
	CanModify(requester model.Requester, booking model.Booking) bool
}

// AuthorizerFunc adapts a plain predicate to Authorizer.
type AuthorizerFunc func(requester model.Requester, booking model.Booking) bool

func (f AuthorizerFunc) CanModify(requester model.Requester, booking model.Booking) bool {
	return f(requester, booking)
}

// NewAuthorizer lets the owner of a booking and administrators modify it.
func NewAuthorizer() Authorizer {
	return AuthorizerFunc(func(requester model.Requester, booking model.Booking) bool {
		switch requester.Role {
		case constant.RoleSuperAdmin, constant.RoleAdmin:
			return true
		}

		return requester.ID != constant.Empty && requester.ID == booking.RequesterID
	})
}
