package handlers

import (
	"errors"
	"net/http"

	"cosmic-backend/application/commands"
	"cosmic-backend/application/commands/bus"
	pkgerrors "cosmic-backend/pkg/errors"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Confirmation and rejection texts returned by the submission routes
const (
	MsgContactSaved     = "Contact Data Saved Successfully!"
	MsgEventSaved       = "Event Data Saved Successfully!"
	MsgDashboardSaved   = "Dashboard Data Submitted Successfully!"
	MsgEventInvalid     = "Please fill out all required fields."
	MsgDashboardInvalid = "All fields are required. Please fill out every field before submitting."
)

// SubmissionHandler turns form posts into commands
type SubmissionHandler struct {
	commandBus *bus.CommandBus
	logger     *zap.Logger
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(commandBus *bus.CommandBus, logger *zap.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		commandBus: commandBus,
		logger:     logger,
	}
}

// SubmitContact handles POST /contactone
func (h *SubmissionHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, func(fields map[string]interface{}) bus.Command {
		return commands.SubmitContactCommand{Fields: fields}
	}, MsgContactSaved, "")
}

// SubmitEvent handles POST /formdata
func (h *SubmissionHandler) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, func(fields map[string]interface{}) bus.Command {
		return commands.PlanEventCommand{Fields: fields}
	}, MsgEventSaved, MsgEventInvalid)
}

// SubmitDashboard handles POST /dashboard-submit
func (h *SubmissionHandler) SubmitDashboard(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, func(fields map[string]interface{}) bus.Command {
		return commands.SubmitDashboardEntryCommand{Fields: fields}
	}, MsgDashboardSaved, MsgDashboardInvalid)
}

func (h *SubmissionHandler) submit(
	w http.ResponseWriter,
	r *http.Request,
	build func(map[string]interface{}) bus.Command,
	okMessage, invalidMessage string,
) {
	fields, err := decodeFields(w, r)
	if err != nil {
		h.logger.Warn("Rejected request body",
			zap.String("route", r.URL.Path),
			zap.String("requestID", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		if errors.Is(err, errBodyTooLarge) {
			respondText(w, http.StatusRequestEntityTooLarge, msgPayloadTooLarge)
			return
		}
		respondText(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	if err := h.commandBus.Send(r.Context(), build(fields)); err != nil {
		if pkgerrors.IsValidation(err) && invalidMessage != "" {
			h.logger.Info("Submission failed validation",
				zap.String("route", r.URL.Path),
				zap.String("requestID", middleware.GetReqID(r.Context())),
				zap.Error(err),
			)
			respondText(w, http.StatusBadRequest, invalidMessage)
			return
		}

		h.logger.Error("Submission failed",
			zap.String("method", r.Method),
			zap.String("route", r.URL.Path),
			zap.String("requestID", middleware.GetReqID(r.Context())),
			zap.String("errorKind", errorKind(err)),
			zap.Error(err),
		)
		respondText(w, http.StatusInternalServerError, msgServerError)
		return
	}

	respondText(w, http.StatusOK, okMessage)
}
