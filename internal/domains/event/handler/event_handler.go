package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"events-backend/internal/domains/event/model"
	"events-backend/internal/domains/event/repository"
	eventservice "events-backend/internal/domains/event/service"
	translationmodel "events-backend/internal/domains/translation/model"
	translationservice "events-backend/internal/domains/translation/service"
	"events-backend/internal/shared/actor"
	"events-backend/internal/shared/nonce"
	"events-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler serves the events admin surface.
type Handler struct {
	events       eventservice.Service
	translations *translationservice.Service
	nonces       *nonce.Service
}

func NewHandler(
	events eventservice.Service,
	translations *translationservice.Service,
	nonces *nonce.Service,
) *Handler {
	return &Handler{
		events:       events,
		translations: translations,
		nonces:       nonces,
	}
}

// Display labels for the built-in types and statuses. Types registered by
// extensions fall back to their raw name.
var typeLabels = map[string]string{
	"event":      "Event",
	"conference": "Conference",
	"seminar":    "Seminar",
	"other":      "Other",
	"unknown":    "Unknown",
}

var statusLabels = map[string]string{
	model.StatusPublish: "Published",
	model.StatusDraft:   "Draft",
}

func label(labels map[string]string, value string) string {
	if l, ok := labels[value]; ok {
		return l
	}
	return value
}

// ListRow is one rendered row of the events listing.
type ListRow struct {
	Event       *model.Event                       `json:"event"`
	TypeLabel   string                             `json:"type_label"`
	StatusLabel string                             `json:"status_label"`
	Languages   map[string]translationservice.Cell `json:"languages,omitempty"`
	DeleteToken string                             `json:"delete_token,omitempty"`
}

// ListPage is the full listing payload: rows plus the language column set.
type ListPage struct {
	Columns []translationmodel.Language `json:"columns"`
	Rows    []ListRow                   `json:"rows"`
}

// ListEvents - GET /events
// Query params: page, per_page, lang
func (h *Handler) ListEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))

	var clauses []repository.Clause
	if lang := c.Query("lang"); translationmodel.ValidateCode(lang) == nil {
		clauses = append(clauses, translationservice.FilterClause(lang))
	}

	events, total, err := h.events.List(c.Request.Context(), page, perPage, clauses)
	if err != nil {
		// The listing never errors out: a broken query shows an empty screen.
		log.Error().Err(err).Msg("events listing query failed")
		response.SuccessWithMeta(c, http.StatusOK, ListPage{Rows: []ListRow{}},
			&response.Meta{Page: page, PerPage: perPage, Total: 0})
		return
	}

	columns, err := h.translations.Columns(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("language columns lookup failed")
		columns = nil
	}

	current := actor.FromContext(c.Request.Context())

	rows := make([]ListRow, 0, len(events))
	for _, event := range events {
		row := ListRow{
			Event:       event,
			TypeLabel:   label(typeLabels, event.Type),
			StatusLabel: label(statusLabels, event.Status),
		}

		cells, err := h.translations.Cells(c.Request.Context(), event, columns)
		if err != nil {
			log.Warn().Err(err).Int64("event_id", event.ID).Msg("language cells lookup failed")
		} else {
			row.Languages = cells
		}

		if current.CanPublish() {
			token, err := h.nonces.Issue(c.Request.Context(), nonce.ActionDeleteEvent, current.ID)
			if err != nil {
				log.Warn().Err(err).Msg("delete token issue failed")
			} else {
				row.DeleteToken = token
			}
		}

		rows = append(rows, row)
	}

	response.SuccessWithMeta(c, http.StatusOK, ListPage{Columns: columns, Rows: rows},
		&response.Meta{Page: page, PerPage: perPage, Total: total})
}

// GetEvent - GET /events/:id
func (h *Handler) GetEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid event id")
		return
	}

	event, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrEventNotFound) {
			response.NotFound(c, "event not found")
			return
		}
		log.Error().Err(err).Int64("event_id", id).Msg("event lookup failed")
		response.InternalServerError(c, "event lookup failed")
		return
	}

	response.Success(c, http.StatusOK, event)
}

// CreateEvent - POST /events
// An empty body or empty title creates a randomly generated demo event. The
// lang query param assigns the new event's language.
func (h *Handler) CreateEvent(c *gin.Context) {
	if !h.consumeToken(c, nonce.ActionCreateEvent) {
		return
	}

	var params model.CreateEventParams
	if err := c.ShouldBindJSON(&params); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "invalid request body")
		return
	}

	lang := c.Query("lang")

	var event *model.Event
	var err error
	if params.Title == "" {
		event, err = h.events.CreateDemo(c.Request.Context(), lang)
	} else {
		event, err = h.events.Create(c.Request.Context(), params, lang)
	}
	if err != nil {
		if errors.Is(err, model.ErrInvalidInput) {
			response.BadRequest(c, err.Error())
			return
		}
		log.Error().Err(err).Msg("event creation failed")
		response.Flash(c, http.StatusInternalServerError, nil, response.Notice{
			Kind:    "error",
			Code:    "event_not_created",
			Message: "The event could not be created.",
		})
		return
	}

	response.Flash(c, http.StatusCreated, event, response.Notice{
		Kind:    "updated",
		Code:    "event_created",
		Message: "Event created.",
	})
}

// DeleteEvent - DELETE /events/:id
func (h *Handler) DeleteEvent(c *gin.Context) {
	if !h.consumeToken(c, nonce.ActionDeleteEvent) {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid event id")
		return
	}

	deleted, err := h.events.Delete(c.Request.Context(), id)
	if err != nil {
		log.Error().Err(err).Int64("event_id", id).Msg("event deletion failed")
		response.Flash(c, http.StatusInternalServerError, nil, response.Notice{
			Kind:    "error",
			Code:    "event_not_deleted",
			Message: "The event could not be deleted.",
		})
		return
	}

	response.Flash(c, http.StatusOK, gin.H{"deleted": deleted}, response.Notice{
		Kind:    "updated",
		Code:    "event_deleted",
		Message: "Event deleted.",
	})
}

// IssueToken - GET /actions/token?action=<name>
// Returns a single-use token for one of the known admin actions.
func (h *Handler) IssueToken(c *gin.Context) {
	action := c.Query("action")
	if !nonce.KnownAction(action) {
		response.BadRequest(c, "unknown action")
		return
	}

	current := actor.FromContext(c.Request.Context())

	token, err := h.nonces.Issue(c.Request.Context(), action, current.ID)
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("token issue failed")
		response.InternalServerError(c, "token issue failed")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"action": action, "token": token})
}

// consumeToken verifies and consumes the X-Action-Token header for the named
// action. A missing, foreign, or replayed token fails the request.
func (h *Handler) consumeToken(c *gin.Context, action string) bool {
	current := actor.FromContext(c.Request.Context())

	ok, err := h.nonces.Verify(c.Request.Context(), action, current.ID, c.GetHeader("X-Action-Token"))
	if err != nil {
		log.Error().Err(err).Str("action", action).Msg("token check failed")
		response.InternalServerError(c, "token check failed")
		return false
	}
	if !ok {
		response.Forbidden(c, "invalid or expired action token")
		return false
	}
	return true
}
