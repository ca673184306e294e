// Package handlers implements the v1 HTTP endpoints.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "subgen/internal/api/errors"
	"subgen/internal/api/middleware"
	"subgen/internal/api/v1/dto"
	"subgen/internal/app/pipeline"
	"subgen/internal/app/stt"
)

// TranscriptionHandler serves the transcription endpoint.
type TranscriptionHandler struct {
	transcriber *pipeline.Transcriber
}

// NewTranscriptionHandler creates a transcription handler.
func NewTranscriptionHandler(transcriber *pipeline.Transcriber) *TranscriptionHandler {
	return &TranscriptionHandler{transcriber: transcriber}
}

// Transcribe handles POST /api/v1/transcribe. The request is multipart:
// an optional `video` file part, an optional `video_url` field and a
// `language` field defaulting to "en". When both sources are present the
// uploaded file wins.
func (h *TranscriptionHandler) Transcribe(c *gin.Context) {
	input, err := readVideoSource(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	input.Language = c.DefaultPostForm("language", "en")

	result, err := h.transcriber.Run(c.Request.Context(), input)
	if err != nil {
		middleware.HandleError(c, mapPipelineError(err))
		return
	}

	c.JSON(http.StatusOK, dto.TranscriptionResponse{
		Segments: result.Segments,
		Language: result.Language,
		Duration: result.Duration,
	})
}

// readVideoSource pulls the uploaded bytes or remote URL out of the
// multipart form.
func readVideoSource(c *gin.Context) (pipeline.TranscribeInput, error) {
	var input pipeline.TranscribeInput

	file, header, err := c.Request.FormFile("video")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			return input, apierrors.NewBadRequestError("failed to read uploaded video")
		}
		input.Upload = data
		input.UploadName = header.Filename
	}

	input.URL = c.PostForm("video_url")

	if len(input.Upload) == 0 && input.URL == "" {
		return input, apierrors.NewBadRequestError("either a video file or a video URL must be provided")
	}

	return input, nil
}

// mapPipelineError translates pipeline failures into the API error
// taxonomy: client input problems, backend failures, and everything else
// as a media processing error.
func mapPipelineError(err error) error {
	var clientErr *pipeline.ClientError
	if errors.As(err, &clientErr) {
		return apierrors.NewBadRequestError(clientErr.Error())
	}
	var provErr *stt.ProviderError
	if errors.As(err, &provErr) {
		return apierrors.NewProviderError(err.Error())
	}
	return apierrors.NewMediaError(err.Error())
}
