package handlers

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	apierrors "subgen/internal/api/errors"
	"subgen/internal/api/middleware"
	"subgen/internal/api/v1/dto"
	"subgen/internal/app/model"
	"subgen/internal/app/pipeline"
	"subgen/internal/app/subtitle"
)

// ExportHandler serves the subtitle burn-in endpoint and the download of
// exported videos.
type ExportHandler struct {
	exporter   *pipeline.Exporter
	outputsDir string
	baseStyle  subtitle.Style
}

// NewExportHandler creates an export handler serving downloads out of
// outputsDir. baseStyle fills in settings a request leaves empty.
func NewExportHandler(exporter *pipeline.Exporter, outputsDir string, baseStyle subtitle.Style) *ExportHandler {
	return &ExportHandler{exporter: exporter, outputsDir: outputsDir, baseStyle: baseStyle.Normalize()}
}

// Export handles POST /api/v1/export. The request is multipart: a video
// source (file or URL), a `subtitles` JSON array, a `settings` JSON
// object and an optional `language`.
func (h *ExportHandler) Export(c *gin.Context) {
	source, err := readVideoSource(c)
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	var subs []dto.ExportSubtitle
	if err := json.Unmarshal([]byte(c.PostForm("subtitles")), &subs); err != nil {
		middleware.HandleError(c, apierrors.NewBadRequestError("malformed subtitles payload"))
		return
	}

	var settings dto.ExportSettings
	if raw := c.PostForm("settings"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &settings); err != nil {
			middleware.HandleError(c, apierrors.NewBadRequestError("malformed settings payload"))
			return
		}
	}

	input := pipeline.ExportInput{
		Upload:     source.Upload,
		UploadName: source.UploadName,
		URL:        source.URL,
		Segments: lo.Map(subs, func(s dto.ExportSubtitle, _ int) model.TranscriptSegment {
			return s.Segment()
		}),
		Style:    mergeStyle(h.baseStyle, settings.Style()),
		Language: c.DefaultPostForm("language", "en"),
	}

	outputPath, err := h.exporter.Run(c.Request.Context(), input)
	if err != nil {
		middleware.HandleError(c, mapPipelineError(err))
		return
	}

	filename := filepath.Base(outputPath)
	c.JSON(http.StatusOK, dto.ExportResponse{
		DownloadURL: "/download/" + filename,
		Filename:    filename,
	})
}

// Download handles GET /download/:filename, serving exported videos.
func (h *ExportHandler) Download(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))
	path := filepath.Join(h.outputsDir, filename)

	if !fileExists(path) {
		middleware.HandleError(c, apierrors.NewNotFoundError("file"))
		return
	}

	c.FileAttachment(path, filename)
}

// mergeStyle overlays the request style on the configured defaults;
// empty request fields keep the default.
func mergeStyle(base, req subtitle.Style) subtitle.Style {
	if req.Quality != "" {
		base.Quality = req.Quality
	}
	if req.FontSize != "" {
		base.FontSize = req.FontSize
	}
	if req.FontColor != "" {
		base.FontColor = req.FontColor
	}
	if req.Position != "" {
		base.Position = req.Position
	}
	return base
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
