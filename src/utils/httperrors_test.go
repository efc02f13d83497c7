package utils_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"portfolio/src/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorFromBody(t *testing.T) {
	tests := []struct {
		name string
		code int
		body string
		want string
	}{
		{name: "message field", code: http.StatusBadRequest, body: `{"message":"Insufficient funds"}`, want: "Insufficient funds"},
		{name: "error field", code: http.StatusNotFound, body: `{"error":"Holding not found"}`, want: "Holding not found"},
		{name: "html body", code: http.StatusBadGateway, body: `<html>bad gateway</html>`, want: "Bad Gateway"},
		{name: "empty body", code: http.StatusInternalServerError, body: ``, want: "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := utils.ErrorFromBody(tt.code, []byte(tt.body))
			var httpErr *utils.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tt.code, httpErr.Code)
			assert.Equal(t, tt.want, httpErr.Message)
		})
	}
}

func TestMessageOr(t *testing.T) {
	wrapped := fmt.Errorf("buy: %w", utils.BadRequest("Insufficient funds"))
	assert.Equal(t, "Insufficient funds", utils.MessageOr(wrapped, "fallback"))
	assert.Equal(t, "fallback", utils.MessageOr(utils.ErrorFromBody(http.StatusInternalServerError, nil), "fallback"))
	assert.Equal(t, "fallback", utils.MessageOr(errors.New("dial tcp: connection refused"), "fallback"))
}
