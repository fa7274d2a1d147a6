package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ThatoMphasane/thato/internal/dto"
	"github.com/ThatoMphasane/thato/internal/handler"
	"github.com/ThatoMphasane/thato/internal/middleware"
	"github.com/ThatoMphasane/thato/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// usersTestRouter mirrors the production wiring for the user routes: signup
// and listing are open, update and delete sit behind the JWT middleware.
func usersTestRouter(repo *stubUserRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewAuthService(repo, newTestCfg())
	usersH := handler.NewUsersHandler(svc)

	r := gin.New()
	r.GET("/api/users", usersH.List)
	r.POST("/api/users", usersH.Create)
	protected := r.Group("/api", middleware.JWTAuth(testSecret))
	protected.PUT("/users/:id", usersH.Update)
	protected.DELETE("/users/:id", usersH.Delete)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestSignup_Success(t *testing.T) {
	r := usersTestRouter(newStubUserRepo())

	w := doJSON(r, http.MethodPost, "/api/users", dto.CreateUserRequest{Username: "Thato", Password: "pass1234"}, "")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "User added successfully")
}

func TestSignup_DuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	r := usersTestRouter(repo)

	w := doJSON(r, http.MethodPost, "/api/users", dto.CreateUserRequest{Username: "Thato", Password: "pass1234"}, "")
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/users", dto.CreateUserRequest{Username: "Thato", Password: "otherpass"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Username already exists")
}

func TestSignup_ShortPassword_Rejected(t *testing.T) {
	r := usersTestRouter(newStubUserRepo())

	w := doJSON(r, http.MethodPost, "/api/users", dto.CreateUserRequest{Username: "Thato", Password: "abc"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListUsers_NoPasswordMaterial(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "Thato", "pass1234")
	r := usersTestRouter(repo)

	w := doJSON(r, http.MethodGet, "/api/users", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	var users []dto.UserResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 1)
	assert.Equal(t, "Thato", users[0].Username)
	assert.NotContains(t, w.Body.String(), "password")
}

func TestUpdateUser_RequiresToken(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(t, repo, "Thato", "pass1234")
	r := usersTestRouter(repo)

	body := dto.UpdateUserRequest{Username: "Renamed", Password: "newpass1"}
	w := doJSON(r, http.MethodPut, "/api/users/1", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	tok := signToken(t, u.ID, u.Username, time.Hour)
	w = doJSON(r, http.MethodPut, "/api/users/1", body, tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Renamed")
}

func TestUpdateUser_DuplicateUsername(t *testing.T) {
	repo := newStubUserRepo()
	a := seedUser(t, repo, "alice", "pass1234")
	seedUser(t, repo, "bob", "pass1234")
	r := usersTestRouter(repo)

	tok := signToken(t, a.ID, a.Username, time.Hour)
	w := doJSON(r, http.MethodPut, "/api/users/1", dto.UpdateUserRequest{Username: "bob", Password: "pass1234"}, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Username already exists")
}

func TestDeleteUser(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(t, repo, "Thato", "pass1234")
	r := usersTestRouter(repo)

	tok := signToken(t, u.ID, u.Username, time.Hour)
	w := doJSON(r, http.MethodDelete, "/api/users/1", nil, tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "User deleted successfully")

	// A second delete of the same id is a clean 404, not a 500.
	w = doJSON(r, http.MethodDelete, "/api/users/1", nil, tok)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
