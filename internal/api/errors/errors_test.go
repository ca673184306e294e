package errors

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	testCases := []struct {
		kind ErrorKind
		want int
	}{
		{KindValidation, http.StatusUnprocessableEntity},
		{KindBadRequest, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindProvider, http.StatusBadGateway},
		{KindMediaProcessing, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
		{ErrorKind("?"), http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		err := &APIError{Kind: tc.kind, Message: "m"}
		assert.Equal(t, tc.want, err.HTTPStatus(), "kind=%s", tc.kind)
	}
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, "video not found", NewNotFoundError("video").Error())
	assert.Equal(t, KindValidation, NewValidationError("bad", map[string]string{"f": "is required"}).Kind)
	assert.Equal(t, KindProvider, NewProviderError("backend down").Kind)
	assert.Equal(t, KindMediaProcessing, NewMediaError("ffmpeg failed").Kind)
}
