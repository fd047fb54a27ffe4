//go:build unit
// +build unit

package v1

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newJSONContext returns a test context whose request carries body as JSON. An empty body sends no body.
func newJSONContext(t *testing.T, method, url, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req, _ := http.NewRequest(method, url, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c, w
}

func testUser(admin bool) *users.User {
	return &users.User{
		ID:        "0b7e5d0c-1a8f-4d6b-9a53-3c2f1e4d5a6b",
		Username:  "an.nguyen",
		Email:     "an.nguyen@example.com",
		FirstName: "An",
		LastName:  "Nguyen",
		Status:    users.StatusActive,
		IsAdmin:   admin,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		UpdatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}
