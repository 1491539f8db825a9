package handler

import (
	"errors"
	"net/http"
	"strconv"

	eventmodel "events-backend/internal/domains/event/model"
	"events-backend/internal/domains/translation/model"
	"events-backend/internal/domains/translation/service"
	"events-backend/internal/shared/actor"
	"events-backend/internal/shared/nonce"
	"events-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Handler serves the translation actions of the admin surface.
type Handler struct {
	translations *service.Service
	nonces       *nonce.Service
}

func NewHandler(translations *service.Service, nonces *nonce.Service) *Handler {
	return &Handler{translations: translations, nonces: nonces}
}

// AddTranslation - POST /events/:id/translations?lang=<code>
// Clones the event into the target language and links the two rows.
func (h *Handler) AddTranslation(c *gin.Context) {
	current := actor.FromContext(c.Request.Context())

	ok, err := h.nonces.Verify(c.Request.Context(), nonce.ActionAddTranslation, current.ID, c.GetHeader("X-Action-Token"))
	if err != nil {
		log.Error().Err(err).Msg("token check failed")
		response.InternalServerError(c, "token check failed")
		return
	}
	if !ok {
		response.Forbidden(c, "invalid or expired action token")
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid event id")
		return
	}

	translation, err := h.translations.AddTranslation(c.Request.Context(), id, c.Query("lang"))
	if err != nil {
		h.creationFailed(c, id, err)
		return
	}

	response.Flash(c, http.StatusCreated, translation, response.Notice{
		Kind:    "updated",
		Code:    "translation_created",
		Message: "Translation created.",
	})
}

// ListLanguages - GET /languages
func (h *Handler) ListLanguages(c *gin.Context) {
	languages, err := h.translations.Columns(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("languages lookup failed")
		response.InternalServerError(c, "languages lookup failed")
		return
	}

	response.Success(c, http.StatusOK, languages)
}

func (h *Handler) creationFailed(c *gin.Context, id int64, err error) {
	notice := func(status int, message string) {
		response.Flash(c, status, nil, response.Notice{
			Kind:    "error",
			Code:    "translation_not_created",
			Message: message,
		})
	}

	switch {
	case errors.Is(err, model.ErrInvalidLanguage):
		notice(http.StatusUnprocessableEntity, "The target language is not valid.")
	case errors.Is(err, model.ErrDuplicateTranslation):
		notice(http.StatusConflict, "A translation in that language already exists.")
	case errors.Is(err, eventmodel.ErrEventNotFound):
		notice(http.StatusNotFound, "The event to translate does not exist.")
	case errors.Is(err, eventmodel.ErrInvalidInput):
		response.BadRequest(c, err.Error())
	default:
		log.Error().Err(err).Int64("event_id", id).Msg("translation creation failed")
		notice(http.StatusInternalServerError, "The translation could not be created.")
	}
}
