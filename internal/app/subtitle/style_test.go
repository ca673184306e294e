package subtitle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyleNormalize(t *testing.T) {
	testCases := []struct {
		name string
		in   Style
		want Style
	}{
		{
			name: "zero value gets all defaults",
			in:   Style{},
			want: Style{Quality: QualityMedium, FontSize: FontSizeMedium, FontColor: "#ffffff", Position: PositionBottom},
		},
		{
			name: "valid values pass through",
			in:   Style{Quality: QualityHigh, FontSize: FontSizeLarge, FontColor: "#ff0000", Position: PositionTop},
			want: Style{Quality: QualityHigh, FontSize: FontSizeLarge, FontColor: "#ff0000", Position: PositionTop},
		},
		{
			name: "unknown values fall back",
			in:   Style{Quality: "ultra", FontSize: "huge", FontColor: "#00ff00", Position: "left"},
			want: Style{Quality: QualityMedium, FontSize: FontSizeMedium, FontColor: "#00ff00", Position: PositionBottom},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Normalize())
		})
	}
}
