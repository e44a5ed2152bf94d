package response

import (
	"Subfapp/internal/service"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"invalid vote", service.ErrInvalidVoteValue, 400, service.ErrInvalidVoteValue.Error()},
		{"unknown sort", service.ErrUnknownSort, 400, service.ErrUnknownSort.Error()},
		{"not found wrapped", fmt.Errorf("vote: %w", service.ErrPostNotFound), 404, service.ErrPostNotFound.Error()},
		{"job running", service.ErrJobRunning, 409, service.ErrJobRunning.Error()},
		{"store error hides cause", &service.StoreError{Op: "count", Err: errors.New("dial tcp")}, 500, service.ErrStore.Error()},
		{"unknown error", errors.New("something"), 500, service.UnExpectedError.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			Error(c, tt.err)

			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if !strings.Contains(w.Body.String(), tt.wantMsg) {
				t.Errorf("body = %s, want message %q", w.Body.String(), tt.wantMsg)
			}
			if strings.Contains(w.Body.String(), "dial tcp") {
				t.Errorf("internal cause leaked: %s", w.Body.String())
			}
		})
	}
}
