package handlers

import (
	"net/http"

	"cosmic-backend/application/queries"
	querybus "cosmic-backend/application/queries/bus"
	"cosmic-backend/domain/core/entities"
	"cosmic-backend/domain/core/specifications"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// EventHandler serves event searches
type EventHandler struct {
	queryBus *querybus.QueryBus
	logger   *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(queryBus *querybus.QueryBus, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		queryBus: queryBus,
		logger:   logger,
	}
}

// FindEvents handles GET /events. Every non-empty query parameter must be
// contained, ignoring case, in the field of the same name. Only the first
// value of a repeated parameter is used.
func (h *EventHandler) FindEvents(w http.ResponseWriter, r *http.Request) {
	filter := specifications.EventFilter{}
	for key, values := range r.URL.Query() {
		if len(values) > 0 && values[0] != "" {
			filter[key] = values[0]
		}
	}

	records, err := querybus.AskFor[[]*entities.EventRecord](r.Context(), h.queryBus, queries.FindEventsQuery{Filter: filter})
	if err != nil {
		h.logger.Error("Event query failed",
			zap.String("method", r.Method),
			zap.String("route", r.URL.Path),
			zap.String("requestID", middleware.GetReqID(r.Context())),
			zap.String("errorKind", errorKind(err)),
			zap.Error(err),
		)
		respondText(w, http.StatusInternalServerError, msgServerError)
		return
	}
	if records == nil {
		records = []*entities.EventRecord{}
	}

	respondJSON(w, h.logger, http.StatusOK, records)
}
