package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "subgen/internal/api/errors"
	"subgen/internal/api/middleware"
	"subgen/internal/api/v1/dto"
	"subgen/internal/app/translate"
)

// TranslationHandler serves the subtitle translation endpoint.
type TranslationHandler struct {
	service *translate.Service
}

// NewTranslationHandler creates a translation handler.
func NewTranslationHandler(service *translate.Service) *TranslationHandler {
	return &TranslationHandler{service: service}
}

// Translate handles POST /api/v1/translate.
func (h *TranslationHandler) Translate(c *gin.Context) {
	var req dto.TranslationRequest
	if err := middleware.ValidateJSON(c, &req); err != nil {
		middleware.HandleError(c, err)
		return
	}

	translations, err := h.service.TranslateBatch(c.Request.Context(),
		req.Subtitles, req.SourceLanguage, req.TargetLanguage)
	if err != nil {
		middleware.HandleError(c, apierrors.NewProviderError(err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.TranslationResponse{Translations: translations})
}
