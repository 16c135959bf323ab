package consent

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"termin/infras/otel"
	"termin/internal/domains/consent/model"
	"termin/internal/domains/consent/service"
	"termin/shared/constant"
	"termin/transport/http/response"
)

type Handler struct {
	tracker service.Tracker
	otel    otel.Otel
}

func New(tracker service.Tracker, otel otel.Otel) Handler {
	return Handler{
		tracker: tracker,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/consent", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetConsent)
		routerGroup.Post("/accept", handler.AcceptConsent)
		routerGroup.Post("/decline", handler.DeclineConsent)
		routerGroup.Delete("/", handler.ResetConsent)
	})
}

// GetConsent reports the decision stored in the consent cookie.
// @Summary Get the consent decision
// @Tags Consent
// @Produce json
// @Success 200 {object} response.Data[model.Record] "Consent decision"
// @Router /v1/consent [get]
func (handler *Handler) GetConsent(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetConsent")
	defer scope.End()

	record := handler.tracker.Load(r)
	scope.SetAttribute("consent.status", string(record.Status))

	response.WithJSON(w, http.StatusOK, record)
}

// AcceptConsent stores an accepted decision.
// @Summary Accept cookies
// @Tags Consent
// @Produce json
// @Success 200 {object} response.Data[model.Record] "Consent decision"
// @Failure 500 {object} response.Error
// @Router /v1/consent/accept [post]
func (handler *Handler) AcceptConsent(w http.ResponseWriter, r *http.Request) {
	handler.decide(w, r, "AcceptConsent", handler.tracker.Accept)
}

// DeclineConsent stores a declined decision.
// @Summary Decline cookies
// @Tags Consent
// @Produce json
// @Success 200 {object} response.Data[model.Record] "Consent decision"
// @Failure 500 {object} response.Error
// @Router /v1/consent/decline [post]
func (handler *Handler) DeclineConsent(w http.ResponseWriter, r *http.Request) {
	handler.decide(w, r, "DeclineConsent", handler.tracker.Decline)
}

func (handler *Handler) decide(w http.ResponseWriter, r *http.Request, name string, store func(http.ResponseWriter) (model.Record, error)) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+"."+name)
	defer scope.End()

	record, err := store(w)
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, record)
}

// ResetConsent forgets the decision so the banner is shown again.
// @Summary Reset the consent decision
// @Tags Consent
// @Produce json
// @Success 200 {object} response.Data[model.Record] "Consent decision"
// @Router /v1/consent [delete]
func (handler *Handler) ResetConsent(w http.ResponseWriter, r *http.Request) {
	_, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ResetConsent")
	defer scope.End()

	handler.tracker.Reset(w)

	response.WithJSON(w, http.StatusOK, model.Pending())
}
