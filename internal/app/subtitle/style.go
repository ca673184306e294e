package subtitle

// Quality selects the export encode profile.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// FontSize selects the rendered subtitle size.
type FontSize string

const (
	FontSizeSmall  FontSize = "small"
	FontSizeMedium FontSize = "medium"
	FontSizeLarge  FontSize = "large"
)

// Position selects where subtitles are rendered in the frame.
type Position string

const (
	PositionTop    Position = "top"
	PositionCenter Position = "center"
	PositionBottom Position = "bottom"
)

// Style is the read-only subtitle rendering configuration for an export.
type Style struct {
	Quality   Quality  `json:"quality"`
	FontSize  FontSize `json:"fontSize"`
	FontColor string   `json:"fontColor"`
	Position  Position `json:"position"`
}

// Normalize maps unknown or empty values to defaults instead of failing:
// medium quality, medium font, white, bottom position.
func (s Style) Normalize() Style {
	switch s.Quality {
	case QualityLow, QualityMedium, QualityHigh:
	default:
		s.Quality = QualityMedium
	}

	switch s.FontSize {
	case FontSizeSmall, FontSizeMedium, FontSizeLarge:
	default:
		s.FontSize = FontSizeMedium
	}

	switch s.Position {
	case PositionTop, PositionCenter, PositionBottom:
	default:
		s.Position = PositionBottom
	}

	if s.FontColor == "" {
		s.FontColor = "#ffffff"
	}

	return s
}
