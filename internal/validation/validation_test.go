package validation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type sampleBody struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

func performJSON(t *testing.T, handler gin.HandlerFunc, payload string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/", handler)

	req, _ := http.NewRequest(http.MethodPost, "/", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func bindHandler(c *gin.Context) {
	var body sampleBody
	if !BindJSON(c, &body) {
		return
	}
	c.JSON(http.StatusOK, body)
}

func TestBindJSONReportsFieldDetails(t *testing.T) {
	rec := performJSON(t, bindHandler, `{"email":"not-an-email"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorBody
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed", body.Error)
	assert.Contains(t, body.Details["email"], "must be a valid email address")
	assert.Contains(t, body.Details["password"], "is required")
}

func TestBindJSONShortPassword(t *testing.T) {
	rec := performJSON(t, bindHandler, `{"email":"a@b.com","password":"abc"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorBody
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Details["password"], "must be at least 6 characters long")
}

func TestBindJSONMalformedBody(t *testing.T) {
	rec := performJSON(t, bindHandler, `{`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorBody
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed", body.Error)
	assert.Empty(t, body.Details)
}

func TestBindJSONAccepts(t *testing.T) {
	rec := performJSON(t, bindHandler, `{"email":"a@b.com","password":"secret1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNumericParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/things/:id", func(c *gin.Context) {
		id, ok := NumericParam(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	for path, want := range map[string]int{
		"/things/12":  http.StatusOK,
		"/things/0":   http.StatusBadRequest,
		"/things/abc": http.StatusBadRequest,
		"/things/-4":  http.StatusBadRequest,
	} {
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, path)
	}
}

func TestEnumQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		status, ok := EnumQuery(c, "status", "applied", "shortlisted", "rejected")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": status})
	})

	for query, want := range map[string]int{
		"":                   http.StatusOK,
		"?status=applied":    http.StatusOK,
		"?status=nonsense":   http.StatusBadRequest,
		"?status=shortlisted": http.StatusOK,
	} {
		req, _ := http.NewRequest(http.MethodGet, "/"+query, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code, query)
	}
}
