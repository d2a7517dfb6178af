package openapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace-api/internal/api/openapi"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	doc, err := openapi.Load(context.Background())
	require.NoError(t, err)

	for _, path := range []string{
		"/auth/login",
		"/auth/validate",
		"/services",
		"/services/available",
		"/services/{id}/complete",
		"/services/pending-evaluations",
		"/services/{id}/messages/read",
	} {
		assert.NotNil(t, doc.Paths.Find(path), path)
	}
	assert.NotNil(t, doc.Paths.Find("/services").Post)
	assert.NotNil(t, doc.Paths.Find("/services/{id}").Patch)
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	doc, err := openapi.Load(context.Background())
	require.NoError(t, err)
	h, err := openapi.Handler(doc)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/openapi.json", h)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "3.0.3", body["openapi"])
	assert.Contains(t, body["paths"], "/services/{id}/payment/confirm")
}
