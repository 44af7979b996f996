package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dunefest/internal/models"
)

const testSecret = "test-admin-secret"

type fakeAdminLookup struct {
	admins map[string]*models.AdminUser
	err    error
}

func (f *fakeAdminLookup) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.admins[email], nil
}

func adminRouter(lookup AdminLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin/ping", AdminAuth(testSecret, lookup), func(c *gin.Context) {
		email, _ := AdminEmailFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"gin_email": c.GetString("admin_email"),
			"ctx_email": email,
		})
	})
	return r
}

func mintToken(t *testing.T, secret, subject string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: subject})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func adminRequest(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/admin/ping", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminAuthRejectsMissingOrMalformedHeader(t *testing.T) {
	r := adminRouter(&fakeAdminLookup{})

	assert.Equal(t, http.StatusUnauthorized, adminRequest(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, adminRequest(r, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, adminRequest(r, "Bearer not-a-jwt").Code)
}

func TestAdminAuthRejectsWrongSecret(t *testing.T) {
	r := adminRouter(&fakeAdminLookup{})

	token := mintToken(t, "some-other-secret", "ops@dunefest.example")
	assert.Equal(t, http.StatusUnauthorized, adminRequest(r, "Bearer "+token).Code)
}

func TestAdminAuthRejectsNonHMACAlgorithm(t *testing.T) {
	r := adminRouter(&fakeAdminLookup{})

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "ops@dunefest.example"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, adminRequest(r, "Bearer "+signed).Code)
}

func TestAdminAuthRejectsEmptySubject(t *testing.T) {
	r := adminRouter(&fakeAdminLookup{})

	token := mintToken(t, testSecret, "")
	assert.Equal(t, http.StatusUnauthorized, adminRequest(r, "Bearer "+token).Code)
}

func TestAdminAuthForbidsUnknownAdmin(t *testing.T) {
	r := adminRouter(&fakeAdminLookup{admins: map[string]*models.AdminUser{}})

	token := mintToken(t, testSecret, "stranger@example.com")
	assert.Equal(t, http.StatusForbidden, adminRequest(r, "Bearer "+token).Code)
}

func TestAdminAuthForbidsInactiveAdmin(t *testing.T) {
	lookup := &fakeAdminLookup{admins: map[string]*models.AdminUser{
		"former@dunefest.example": {Email: "former@dunefest.example", IsActive: false},
	}}
	r := adminRouter(lookup)

	token := mintToken(t, testSecret, "former@dunefest.example")
	assert.Equal(t, http.StatusForbidden, adminRequest(r, "Bearer "+token).Code)
}

func TestAdminAuthFailsClosedOnLookupError(t *testing.T) {
	r := adminRouter(&fakeAdminLookup{err: errors.New("connection refused")})

	token := mintToken(t, testSecret, "ops@dunefest.example")
	assert.Equal(t, http.StatusInternalServerError, adminRequest(r, "Bearer "+token).Code)
}

func TestAdminAuthPassesActiveAdmin(t *testing.T) {
	lookup := &fakeAdminLookup{admins: map[string]*models.AdminUser{
		"ops@dunefest.example": {Email: "ops@dunefest.example", IsActive: true},
	}}
	r := adminRouter(lookup)

	token := mintToken(t, testSecret, "ops@dunefest.example")
	w := adminRequest(r, "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"gin_email":"ops@dunefest.example"`)
	assert.Contains(t, w.Body.String(), `"ctx_email":"ops@dunefest.example"`)
}
