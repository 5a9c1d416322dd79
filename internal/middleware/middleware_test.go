package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/clerkship-scheduler/internal/models"
	"github.com/noah-isme/clerkship-scheduler/internal/service"
)

func newTokenService() *service.TokenService {
	return service.NewTokenService(service.TokenConfig{Secret: "test-secret", Expiry: time.Hour})
}

func protectedRouter(tokens *service.TokenService, roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(tokens), RequireRoles(roles...), func(c *gin.Context) {
		claims, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"user": claims.UserID})
	})
	return r
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestJWTRejectsMissingAndMalformedHeaders(t *testing.T) {
	r := protectedRouter(newTokenService(), models.RoleAdmin)

	cases := map[string]string{
		"missing":    "",
		"no scheme":  "token-only",
		"wrong kind": "Basic abc",
		"empty":      "Bearer   ",
		"garbage":    "Bearer not-a-jwt",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "UNAUTHORIZED", errorCode(t, rec))
		})
	}
}

func TestJWTAndRolesAllowCoordinator(t *testing.T) {
	tokens := newTokenService()
	r := protectedRouter(tokens, models.RoleAdmin, models.RoleCoordinator)

	token, _, err := tokens.Issue("coord-1", "coord@example.edu", models.RoleCoordinator)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":"coord-1"}`, rec.Body.String())
}

func TestRequireRolesForbidsOtherRoles(t *testing.T) {
	tokens := newTokenService()
	r := protectedRouter(tokens, models.RoleAdmin)

	token, _, err := tokens.Issue("prec-1", "prec@example.edu", models.RolePreceptor)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, rec))
}

func TestRBACWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RBAC(string(models.RoleAdmin)), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRBACSelf(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(ContextUserKey, &models.JWTClaims{UserID: "prec-1", Role: models.RolePreceptor})
		c.Next()
	})
	r.GET("/preceptors/:id", RBAC(string(models.RoleAdmin), "SELF"), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/preceptors/prec-1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/preceptors/prec-2", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMetricsMiddlewareRecordsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown", nil))

	assert.Equal(t, uint64(4), metrics.Snapshot().RequestsTotal)

	scrape := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := scrape.Body.String()
	assert.Contains(t, body, `http_requests_total{method="GET",path="/ping",status="204"} 3`)
	assert.Contains(t, body, `http_requests_total{method="GET",path="unmatched",status="404"} 1`)
	assert.NotContains(t, body, `path="/unknown"`)
}

func TestMetricsMiddlewareNilService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(nil))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
