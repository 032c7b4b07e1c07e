package routes

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"event-marketplace-server/config"
	"event-marketplace-server/testutil"
)

func webhookRouter() *gin.Engine {
	router := gin.New()
	RegisterPaymentWebhook(router.Group("/api/v1"))
	return router
}

func postWebhook(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestPaymentWebhookUnsignedRejectedInRelease(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	config.AppConfig = &config.Config{}
	router := webhookRouter()

	// A forged outcome must not reach the booking when no webhook secret is
	// configured in production
	w := postWebhook(router, `{"type":"checkout.session.completed","data":{"object":{"id":"cs_forged"}}}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPaymentWebhookUnsignedAllowedOutsideRelease(t *testing.T) {
	gin.SetMode(gin.TestMode)
	testutil.SetupDB(t)

	config.AppConfig = &config.Config{}
	router := webhookRouter()

	// Unknown sessions are acknowledged so the gateway stops retrying
	w := postWebhook(router, `{"type":"checkout.session.completed","data":{"object":{"id":"cs_unknown"}}}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"received":true`)
}

func TestPaymentWebhookIgnoresIrrelevantEvents(t *testing.T) {
	gin.SetMode(gin.TestMode)

	config.AppConfig = &config.Config{}
	router := webhookRouter()

	w := postWebhook(router, `{"type":"invoice.paid","data":{"object":{"id":"in_123"}}}`)
	assert.Equal(t, http.StatusOK, w.Code)
}
