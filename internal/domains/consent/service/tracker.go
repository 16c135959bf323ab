package service

//go:generate go run go.uber.org/mock/mockgen -source=./tracker.go -destination=../mocks/tracker_mock.go -package=mocks

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/rs/zerolog/log"

	"termin/config"
	"termin/internal/domains/consent/model"
	"termin/shared/constant"
	"termin/shared/timezone"
)

const (
	hashKeyLength = 64
	day           = 24 * time.Hour
)

// Tracker keeps the consent decision in a signed cookie on the client.
type Tracker interface {
	Load(r *http.Request) model.Record
	Accept(w http.ResponseWriter) (model.Record, error)
	Decline(w http.ResponseWriter) (model.Record, error)
	Reset(w http.ResponseWriter)
}

type trackerImpl struct {
	codec  *securecookie.SecureCookie
	name   string
	maxAge time.Duration
	secure bool
	clock  timezone.Clock
}

func New(cfg *config.Config, clock timezone.Clock) Tracker {
	consent := cfg.Consent

	hashKey := []byte(consent.HashKey)
	if len(hashKey) == 0 {
		log.Warn().Msg("no consent hash key configured, generated keys do not survive a restart")

		hashKey = securecookie.GenerateRandomKey(hashKeyLength)
	}

	var blockKey []byte
	if consent.BlockKey != constant.Empty {
		blockKey = []byte(consent.BlockKey)
	}

	maxAge := time.Duration(consent.MaxAgeDays) * day

	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(int(maxAge.Seconds()))
	codec.SetSerializer(securecookie.JSONEncoder{})

	return &trackerImpl{
		codec:  codec,
		name:   consent.CookieName,
		maxAge: maxAge,
		secure: consent.SecureCookie || cfg.Server.Env == constant.ServerEnvProduction,
		clock:  clock,
	}
}

// Load returns the stored decision. A missing, expired, tampered or unknown value reads as pending.
func (t *trackerImpl) Load(r *http.Request) model.Record {
	cookie, err := r.Cookie(t.name)
	if err != nil {
		return model.Pending()
	}

	var record model.Record
	if err = t.codec.Decode(t.name, cookie.Value, &record); err != nil {
		log.Debug().Err(err).Msg("discarding unreadable consent cookie")

		return model.Pending()
	}

	if record.IsPending() {
		return model.Pending()
	}

	return record
}

func (t *trackerImpl) Accept(w http.ResponseWriter) (model.Record, error) {
	return t.decide(w, model.StatusAccepted)
}

func (t *trackerImpl) Decline(w http.ResponseWriter) (model.Record, error) {
	return t.decide(w, model.StatusDeclined)
}

func (t *trackerImpl) decide(w http.ResponseWriter, status model.Status) (model.Record, error) {
	now := t.clock()
	record := model.Record{Status: status, DecidedAt: &now}

	encoded, err := t.codec.Encode(t.name, record)
	if err != nil {
		log.Error().Err(err).Msg("failed to encode consent cookie")

		return model.Pending(), fmt.Errorf("failed to encode consent cookie: %w", err)
	}

	http.SetCookie(w, t.cookie(encoded, int(t.maxAge.Seconds())))

	return record, nil
}

// Reset removes the stored decision so the next Load is pending.
func (t *trackerImpl) Reset(w http.ResponseWriter) {
	http.SetCookie(w, t.cookie(constant.Empty, -1))
}

func (t *trackerImpl) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     t.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   t.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
