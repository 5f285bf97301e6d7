package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/auth"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/infrastructure/config"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/interfaces/http/dto"
	"github.com/bcaiza/invoicePtoducts-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(h http.Handler, method, path string, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup_MiddlewareScopedToAPI(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	r.Use(func(c *gin.Context) {
		c.Header("X-Api", "1")
		c.Next()
	})
	r.Register(NewDomainGroup("/sales").GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	}))
	r.Setup()
	engine.GET("/outside", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := serve(engine, http.MethodGet, "/api/v1/sales/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, "1", w.Header().Get("X-Api"))

	w = serve(engine, http.MethodGet, "/outside", "")
	assert.Empty(t, w.Header().Get("X-Api"))
}

type registrarFunc func(rg *gin.RouterGroup)

func (f registrarFunc) RegisterRoutes(rg *gin.RouterGroup) { f(rg) }

func TestDomainGroup(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("/production").
		Use(func(c *gin.Context) {
			c.Header("X-Domain", "production")
			c.Next()
		}).
		Mount(registrarFunc(func(rg *gin.RouterGroup) {
			rg.GET("/records/ping", func(c *gin.Context) { c.String(http.StatusOK, "mounted") })
			rg.POST("/records", func(c *gin.Context) { c.Status(http.StatusAccepted) })
		})).
		GET("/summary", func(c *gin.Context) { c.Status(http.StatusOK) })

	NewRouter(engine).Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/production/records/ping", "")
	assert.Equal(t, "mounted", w.Body.String())
	assert.Equal(t, "production", w.Header().Get("X-Domain"))

	assert.Equal(t, http.StatusAccepted, serve(engine, http.MethodPost, "/api/v1/production/records", "").Code)

	w = serve(engine, http.MethodGet, "/api/v1/production/summary", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "production", w.Header().Get("X-Domain"))
}

type stubVerifier struct{}

func (stubVerifier) Verify(token string) (*auth.Claims, error) {
	if token != "good" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "cashier-01"}}, nil
}

func newTestEngine(t *testing.T, opts EngineOptions) *gin.Engine {
	t.Helper()
	health := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "healthy"}) }
	sales := NewDomainGroup("/sales").Mount(registrarFunc(func(rg *gin.RouterGroup) {
		rg.POST("/invoices", func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{
				"user_id":         middleware.GetJWTUserID(c),
				"idempotency_key": middleware.GetIdempotencyKey(c),
			})
		})
	}))
	engine, err := NewEngine(opts, health, sales)
	require.NoError(t, err)
	return engine
}

func TestNewEngine_HealthAndNoRoute(t *testing.T) {
	engine := newTestEngine(t, EngineOptions{ServiceName: "pos-test", Verifier: stubVerifier{}})

	for _, path := range []string{"/health", "/api/v1/health"} {
		w := serve(engine, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader), path)
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"), path)
	}

	w := serve(engine, http.MethodGet, "/api/v1/nope", "", middleware.RequestIDHeader, "req-404")
	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeRouteNotFound, resp.Error.Code)
	assert.Equal(t, "req-404", resp.Error.RequestID)
}

func TestNewEngine_Auth(t *testing.T) {
	engine := newTestEngine(t, EngineOptions{Verifier: stubVerifier{}, IdempotencyEnabled: true})

	w := serve(engine, http.MethodPost, "/api/v1/sales/invoices", "{}")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(engine, http.MethodPost, "/api/v1/sales/invoices", "{}",
		middleware.AuthHeaderKey, middleware.BearerPrefix+"good",
		middleware.IdempotencyKeyHeader, "caja1-000045")
	assert.Equal(t, http.StatusCreated, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "cashier-01", body["user_id"])
	assert.Equal(t, "caja1-000045", body["idempotency_key"])
}

func TestNewEngine_NoAuthNoIdempotency(t *testing.T) {
	engine := newTestEngine(t, EngineOptions{})

	w := serve(engine, http.MethodPost, "/api/v1/sales/invoices", "{}",
		middleware.IdempotencyKeyHeader, "caja1-000045")
	assert.Equal(t, http.StatusCreated, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Empty(t, body["user_id"])
	assert.Empty(t, body["idempotency_key"])
}

func TestNewEngine_BodyLimit(t *testing.T) {
	engine := newTestEngine(t, EngineOptions{HTTP: config.HTTPConfig{MaxBodySize: 16}})

	w := serve(engine, http.MethodPost, "/api/v1/sales/invoices", strings.Repeat("x", 64))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestNewEngine_InvalidTrustedProxy(t *testing.T) {
	_, err := NewEngine(EngineOptions{HTTP: config.HTTPConfig{TrustedProxies: []string{"not-an-ip"}}}, nil)
	assert.Error(t, err)
}
