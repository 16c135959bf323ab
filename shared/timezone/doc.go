// Package timezone pins wall clock handling to the school's timezone (APP_TIMEZONE).
//
// Slot ranges such as "2026-11-20 14:00" are entered in local time and stored as instants;
// responses and email subjects render them back in the same zone.
package timezone
