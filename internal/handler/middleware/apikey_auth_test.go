package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/seolytics/seo-api/internal/domain/apikey"
	"github.com/seolytics/seo-api/internal/domain/client"
	"github.com/seolytics/seo-api/internal/handler/dto"
	"github.com/seolytics/seo-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubVerifier struct {
	result  service.AuthResult
	lastKey string
	lastIP  string
}

func (s *stubVerifier) Verify(ctx context.Context, rawKey, clientIP string) service.AuthResult {
	s.lastKey = rawKey
	s.lastIP = clientIP
	return s.result
}

func admittedResult() service.AuthResult {
	cli := &client.Client{ID: uuid.New(), IsActive: true}
	key := &apikey.APIKey{
		ID:       uuid.New(),
		ClientID: cli.ID,
		Status:   apikey.StatusActive,
		Scopes:   []apikey.Scope{apikey.ScopeKeywordsRead},
	}
	return service.AuthResult{Client: cli, Key: key}
}

func rejectedResult(code service.RejectCode, msg string) service.AuthResult {
	return service.AuthResult{Rejection: &service.Rejection{Code: code, Message: msg}}
}

func setupRouter(verifier *stubVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", APIKeyAuthMiddleware(verifier, zap.NewNop()), func(c *gin.Context) {
		principal := GetPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"client_id": principal.Client.ID})
	})
	return router
}

func doRequest(router *gin.Engine, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAPIKeyAuthMiddleware_Admitted(t *testing.T) {
	verifier := &stubVerifier{result: admittedResult()}
	router := setupRouter(verifier)

	w := doRequest(router, "sk_live_valid")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "sk_live_valid", verifier.lastKey)
	assert.NotEmpty(t, verifier.lastIP)
}

func TestAPIKeyAuthMiddleware_MissingKey(t *testing.T) {
	verifier := &stubVerifier{result: rejectedResult(service.CodeMissingAPIKey, "API key required. Use the X-API-Key header")}
	router := setupRouter(verifier)

	w := doRequest(router, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "ApiKey", w.Header().Get("WWW-Authenticate"))

	var body dto.APIErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "MISSING_API_KEY", body.Code)
}

func TestAPIKeyAuthMiddleware_StatusMapping(t *testing.T) {
	cases := []struct {
		code       service.RejectCode
		wantStatus int
	}{
		{service.CodeMissingAPIKey, http.StatusUnauthorized},
		{service.CodeMalformedAPIKey, http.StatusUnauthorized},
		{service.CodeInvalidAPIKey, http.StatusUnauthorized},
		{service.CodeClientNotFound, http.StatusForbidden},
		{service.CodeKeyNotActive, http.StatusForbidden},
		{service.CodeKeyExpired, http.StatusForbidden},
		{service.CodeClientInactive, http.StatusForbidden},
		{service.CodeIPNotAllowed, http.StatusForbidden},
		{service.CodeRateLimitExceeded, http.StatusTooManyRequests},
		{service.CodeInternalError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			verifier := &stubVerifier{result: rejectedResult(tc.code, "rejected")}
			router := setupRouter(verifier)

			w := doRequest(router, "sk_live_whatever")

			assert.Equal(t, tc.wantStatus, w.Code)

			var body dto.APIErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, string(tc.code), body.Code)
		})
	}
}

func TestAPIKeyAuthMiddleware_RateLimitHeaders(t *testing.T) {
	result := rejectedResult(service.CodeRateLimitExceeded, "rate limit exceeded: 60 requests per minute")
	result.Rate = &service.RateInfo{
		MinuteLimit:     60,
		DayLimit:        10000,
		MinuteCount:     61,
		DayCount:        500,
		RemainingMinute: 0,
		RemainingDay:    9500,
	}
	verifier := &stubVerifier{result: result}
	router := setupRouter(verifier)

	w := doRequest(router, "sk_live_whatever")

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("X-RateLimit-Limit-Minute"))
	assert.Equal(t, "10000", w.Header().Get("X-RateLimit-Limit-Day"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining-Minute"))
	assert.Equal(t, "9500", w.Header().Get("X-RateLimit-Remaining-Day"))
}

func TestAPIKeyAuthMiddleware_NoRateHeadersOnAdmission(t *testing.T) {
	result := admittedResult()
	result.Rate = &service.RateInfo{MinuteLimit: 60, DayLimit: 10000, RemainingMinute: 59, RemainingDay: 9999}
	verifier := &stubVerifier{result: result}
	router := setupRouter(verifier)

	w := doRequest(router, "sk_live_valid")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit-Minute"))
}

func TestRequireScopes_Allowed(t *testing.T) {
	verifier := &stubVerifier{result: admittedResult()}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/keywords",
		APIKeyAuthMiddleware(verifier, zap.NewNop()),
		RequireScopes(zap.NewNop(), apikey.ScopeKeywordsRead),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	req := httptest.NewRequest(http.MethodGet, "/keywords", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireScopes_MissingScopeListsAll(t *testing.T) {
	verifier := &stubVerifier{result: admittedResult()}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/import",
		APIKeyAuthMiddleware(verifier, zap.NewNop()),
		RequireScopes(zap.NewNop(), apikey.ScopeDataImport, apikey.ScopeRankingsWrite),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	req := httptest.NewRequest(http.MethodPost, "/import", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var body struct {
		Code    string `json:"code"`
		Details struct {
			MissingScopes []string `json:"missing_scopes"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "MISSING_SCOPES", body.Code)
	assert.Equal(t, []string{"data:import", "rankings:write"}, body.Details.MissingScopes)
}

func TestRequireScopes_AdminWildcard(t *testing.T) {
	result := admittedResult()
	result.Key.Scopes = []apikey.Scope{apikey.ScopeAdminFull}
	verifier := &stubVerifier{result: result}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/admin/clients",
		APIKeyAuthMiddleware(verifier, zap.NewNop()),
		RequireScopes(zap.NewNop(), apikey.ScopeAdminFull),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	req := httptest.NewRequest(http.MethodGet, "/admin/clients", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireScopes_WithoutAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/orphan",
		RequireScopes(zap.NewNop(), apikey.ScopeKeywordsRead),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	req := httptest.NewRequest(http.MethodGet, "/orphan", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
