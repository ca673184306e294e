package routes

import (
	"github.com/gin-gonic/gin"

	"subgen/internal/api/v1/handlers"
)

// HandlerContainer holds all handlers needed by the v1 routes.
type HandlerContainer struct {
	Transcription *handlers.TranscriptionHandler
	Translation   *handlers.TranslationHandler
	Export        *handlers.ExportHandler
}

// RegisterRoutes registers all v1 API routes.
func RegisterRoutes(router *gin.RouterGroup, container *HandlerContainer) {
	router.POST("/transcribe", container.Transcription.Transcribe)
	router.POST("/translate", container.Translation.Translate)
	router.POST("/export", container.Export.Export)
}
