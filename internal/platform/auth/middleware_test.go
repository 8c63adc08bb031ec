package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

var testKey = []byte("test-signing-key")

func signToken(t *testing.T, subject string, roles []string) string {
	t.Helper()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Roles: roles,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testKey)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, uuid.UUID, []string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotActor uuid.UUID
	var gotRoles []string
	handler := mw(func(c echo.Context) error {
		gotActor = ActorIDFromContext(c.Request().Context())
		gotRoles = RolesFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, gotActor, gotRoles
}

func TestJWTMiddleware_ValidToken(t *testing.T) {
	actorID := uuid.New()
	token := signToken(t, actorID.String(), []string{"doctor"})

	rec, gotActor, gotRoles := doRequest(t, JWTMiddleware(testKey), "Bearer "+token)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotActor != actorID {
		t.Errorf("actor = %s, want %s", gotActor, actorID)
	}
	if len(gotRoles) != 1 || gotRoles[0] != "doctor" {
		t.Errorf("roles = %v, want [doctor]", gotRoles)
	}
}

func TestJWTMiddleware_MissingHeader(t *testing.T) {
	rec, _, _ := doRequest(t, JWTMiddleware(testKey), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestJWTMiddleware_BadSignature(t *testing.T) {
	actorID := uuid.New()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: actorID.String()},
		Roles:            []string{"doctor"},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("some-other-key"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rec, _, _ := doRequest(t, JWTMiddleware(testKey), "Bearer "+signed)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestJWTMiddleware_NonUUIDSubject(t *testing.T) {
	token := signToken(t, "not-a-uuid", []string{"doctor"})
	rec, _, _ := doRequest(t, JWTMiddleware(testKey), "Bearer "+token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	rec, gotActor, gotRoles := doRequest(t, DevAuthMiddleware(), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotActor == uuid.Nil {
		t.Error("dev actor ID should be set")
	}
	if len(gotRoles) != 1 || gotRoles[0] != "admin" {
		t.Errorf("roles = %v, want [admin]", gotRoles)
	}
}

func TestRequireRole(t *testing.T) {
	run := func(userRoles []string, required ...string) int {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		ctx := context.WithValue(c.Request().Context(), UserRolesKey, userRoles)
		c.SetRequest(c.Request().WithContext(ctx))

		handler := RequireRole(required...)(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		if err := handler(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		return rec.Code
	}

	if code := run([]string{"doctor"}, "doctor"); code != http.StatusOK {
		t.Errorf("doctor accessing doctor route: %d", code)
	}
	if code := run([]string{"patient"}, "doctor"); code != http.StatusForbidden {
		t.Errorf("patient accessing doctor route: %d", code)
	}
	if code := run([]string{"admin"}, "doctor"); code != http.StatusOK {
		t.Errorf("admin should pass any role check: %d", code)
	}
	if code := run([]string{"patient"}, "doctor", "patient"); code != http.StatusOK {
		t.Errorf("patient accessing doctor-or-patient route: %d", code)
	}
}
