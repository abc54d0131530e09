package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/collabspace/backend/internal/config"
	"github.com/collabspace/backend/internal/middleware"
	"github.com/collabspace/backend/internal/models"
	"github.com/collabspace/backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("handlers-test-secret")
}

func newTestAPI(t *testing.T) *gin.Engine {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.UserProfile{},
		&models.ProjectDetail{},
		&models.ProjectCollaborator{},
		&models.AuditLog{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT = config.JWTConfig{Secret: "handlers-test-secret", RegisterExpireHour: 1, LoginExpireHour: 24}

	authHandler := NewAuthHandler(db, cfg)
	profileHandler := NewProfileHandler(db)
	projectHandler := NewProjectHandler(db)
	collaboratorHandler := NewCollaboratorHandler(db)

	r := gin.New()
	api := r.Group("/api")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	api.GET("/projects", projectHandler.List)
	api.GET("/projects/user/:address", projectHandler.GetUserProjects)
	api.GET("/projects/:id", projectHandler.GetByID)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	{
		protected.GET("/auth", authHandler.GetCurrentUser)
		protected.GET("/user-data", profileHandler.Get)
		protected.GET("/profile", profileHandler.Get)
		protected.PUT("/profile", profileHandler.Update)
		protected.POST("/projects", projectHandler.Upsert)
		protected.POST("/projects/recover", projectHandler.Recover)
		protected.PUT("/projects/:id/status", projectHandler.UpdateStatus)
		protected.POST("/projects/:id/collaborate", collaboratorHandler.Request)
		protected.PUT("/projects/:id/collaborate/:userId", collaboratorHandler.Respond)
		protected.DELETE("/projects/:id/collaborate/:userId", collaboratorHandler.Remove)
	}

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.HeaderAuthToken, token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

func registerUser(t *testing.T, r *gin.Engine, name, address string) string {
	t.Helper()

	w := doJSON(t, r, "POST", "/api/auth/register", "", gin.H{
		"name":    name,
		"email":   fmt.Sprintf("%s@example.com", name),
		"address": address,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register %s: status %d, body %s", name, w.Code, w.Body.String())
	}
	token, _ := decodeBody(t, w)["token"].(string)
	if token == "" {
		t.Fatalf("register %s: no token in response", name)
	}
	return token
}

func TestRegisterAndCurrentUser(t *testing.T) {
	r := newTestAPI(t)

	w := doJSON(t, r, "POST", "/api/auth/register", "", gin.H{
		"name":    "alice",
		"email":   "alice@example.com",
		"address": "0xAlice",
		"skills":  []string{"go", "solidity"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	token := decodeBody(t, w)["token"].(string)

	w = doJSON(t, r, "GET", "/api/auth", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/auth status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["address"] != "0xAlice" {
		t.Errorf("address = %v", body["address"])
	}
	skills, _ := body["skills"].([]interface{})
	if len(skills) != 2 {
		t.Errorf("skills = %v", body["skills"])
	}
	if body["bio"] != nil {
		t.Errorf("bio = %v, expected null before profile update", body["bio"])
	}
}

func TestRegister_Validation(t *testing.T) {
	r := newTestAPI(t)

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing name", gin.H{"email": "a@example.com", "address": "0xA"}},
		{"missing email", gin.H{"name": "a", "address": "0xA"}},
		{"bad email", gin.H{"name": "a", "email": "nope", "address": "0xA"}},
		{"missing address", gin.H{"name": "a", "email": "a@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, "POST", "/api/auth/register", "", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", w.Code)
			}
			if decodeBody(t, w)["msg"] != "Please provide all required fields" {
				t.Errorf("body = %s", w.Body.String())
			}
		})
	}
}

func TestRegister_Conflict(t *testing.T) {
	r := newTestAPI(t)
	registerUser(t, r, "alice", "0xAlice")

	w := doJSON(t, r, "POST", "/api/auth/register", "", gin.H{
		"name":    "impostor",
		"email":   "impostor@example.com",
		"address": "0xAlice",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, expected 400", w.Code)
	}
	if decodeBody(t, w)["msg"] != "User already exists" {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestLogin(t *testing.T) {
	r := newTestAPI(t)
	registerUser(t, r, "alice", "0xAlice")

	// Case-insensitive address match
	w := doJSON(t, r, "POST", "/api/auth/login", "", gin.H{"address": "0xALICE"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["token"] == "" {
		t.Error("no token in login response")
	}

	w = doJSON(t, r, "POST", "/api/auth/login", "", gin.H{"address": "0xNobody"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown address status = %d, expected 400", w.Code)
	}
	if decodeBody(t, w)["msg"] != "Invalid Address / Not Registered" {
		t.Errorf("body = %s", w.Body.String())
	}

	w = doJSON(t, r, "POST", "/api/auth/login", "", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty body status = %d", w.Code)
	}
	if decodeBody(t, w)["msg"] != "Please provide a wallet address" {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	r := newTestAPI(t)

	for _, route := range []struct{ method, path string }{
		{"GET", "/api/auth"},
		{"GET", "/api/profile"},
		{"PUT", "/api/profile"},
		{"POST", "/api/projects"},
		{"PUT", "/api/projects/1/status"},
	} {
		w := doJSON(t, r, route.method, route.path, "", nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, expected 401", route.method, route.path, w.Code)
		}
	}
}

func TestProfileFlow(t *testing.T) {
	r := newTestAPI(t)
	token := registerUser(t, r, "alice", "0xAlice")

	w := doJSON(t, r, "PUT", "/api/profile", token, gin.H{
		"about":    "building on-chain",
		"imageUrl": "https://img.example/a.png",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("PUT /api/profile status = %d, body %s", w.Code, w.Body.String())
	}

	// user-data is an alias of the profile view
	w = doJSON(t, r, "GET", "/api/user-data", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /api/user-data status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["about"] != "building on-chain" {
		t.Errorf("about = %v", body["about"])
	}
}

func TestProjectUpsertFlow(t *testing.T) {
	r := newTestAPI(t)
	owner := registerUser(t, r, "alice", "0xAlice")
	other := registerUser(t, r, "bob", "0xBob")

	w := doJSON(t, r, "POST", "/api/projects", owner, gin.H{
		"project_id": "42",
		"title":      "Indexer",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["status"] != "Open" {
		t.Errorf("default status = %v", decodeBody(t, w)["status"])
	}

	// Same owner, same id: update
	w = doJSON(t, r, "POST", "/api/projects", owner, gin.H{
		"project_id": "42",
		"title":      "Indexer v2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", w.Code, w.Body.String())
	}

	// Different caller: rejected without touching the row
	w = doJSON(t, r, "POST", "/api/projects", other, gin.H{
		"project_id": "42",
		"title":      "Hijacked",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("hijack status = %d, expected 403", w.Code)
	}
	if decodeBody(t, w)["error"] != "Not authorized to update this project" {
		t.Errorf("body = %s", w.Body.String())
	}

	w = doJSON(t, r, "GET", "/api/projects/42", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["title"] != "Indexer v2" || body["owner_name"] != "alice" {
		t.Errorf("detail = %s", w.Body.String())
	}

	// Missing title fails binding
	w = doJSON(t, r, "POST", "/api/projects", owner, gin.H{"project_id": "43"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing title status = %d", w.Code)
	}
}

func TestProjectStatusFlow(t *testing.T) {
	r := newTestAPI(t)
	owner := registerUser(t, r, "alice", "0xAlice")
	other := registerUser(t, r, "bob", "0xBob")

	doJSON(t, r, "POST", "/api/projects", owner, gin.H{"project_id": "1", "title": "First"})

	// Non-owner update is a 403 no-op
	w := doJSON(t, r, "PUT", "/api/projects/1/status", other, gin.H{"status": "Completed"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-owner status = %d, expected 403", w.Code)
	}

	w = doJSON(t, r, "GET", "/api/projects/1", "", nil)
	if decodeBody(t, w)["status"] != "Open" {
		t.Errorf("status changed by rejected update: %s", w.Body.String())
	}

	w = doJSON(t, r, "PUT", "/api/projects/1/status", owner, gin.H{"status": "In Progress"})
	if w.Code != http.StatusOK {
		t.Fatalf("owner update status = %d, body %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["status"] != "In Progress" {
		t.Errorf("body = %s", w.Body.String())
	}

	// Missing status fails binding
	w = doJSON(t, r, "PUT", "/api/projects/1/status", owner, gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("empty status = %d", w.Code)
	}
	if decodeBody(t, w)["error"] != "status is required" {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestCollaborationFlow(t *testing.T) {
	r := newTestAPI(t)
	owner := registerUser(t, r, "alice", "0xAlice")
	member := registerUser(t, r, "bob", "0xBob")

	doJSON(t, r, "POST", "/api/projects", owner, gin.H{"project_id": "1", "title": "First"})

	// Request to join, empty body
	w := doJSON(t, r, "POST", "/api/projects/1/collaborate", member, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("join status = %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["status"] != "Pending" || body["role"] != "Contributor" {
		t.Errorf("join body = %s", w.Body.String())
	}
	memberID := uint(body["user_id"].(float64))

	// Second request is rejected and reports the current state
	w = doJSON(t, r, "POST", "/api/projects/1/collaborate", member, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate join status = %d", w.Code)
	}
	body = decodeBody(t, w)
	if body["error"] != "You have already requested to join this project" || body["status"] != "Pending" {
		t.Errorf("duplicate body = %s", w.Body.String())
	}

	// Owner cannot join their own project
	w = doJSON(t, r, "POST", "/api/projects/1/collaborate", owner, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("owner join status = %d", w.Code)
	}

	// Only Approved/Rejected pass binding
	respondPath := fmt.Sprintf("/api/projects/1/collaborate/%d", memberID)
	w = doJSON(t, r, "PUT", respondPath, owner, gin.H{"status": "Pending"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid respond status = %d", w.Code)
	}

	// Non-owner cannot respond
	w = doJSON(t, r, "PUT", respondPath, member, gin.H{"status": "Approved"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-owner respond status = %d", w.Code)
	}

	w = doJSON(t, r, "PUT", respondPath, owner, gin.H{"status": "Approved"})
	if w.Code != http.StatusOK {
		t.Fatalf("respond status = %d, body %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["status"] != "Approved" {
		t.Errorf("respond body = %s", w.Body.String())
	}

	// Approved collaborators show up in the public count
	w = doJSON(t, r, "GET", "/api/projects", "", nil)
	var items []map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(items) != 1 || items[0]["collaborator_count"] != float64(1) {
		t.Errorf("list = %s", w.Body.String())
	}

	// Removal, owner only
	w = doJSON(t, r, "DELETE", respondPath, member, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-owner remove status = %d", w.Code)
	}

	w = doJSON(t, r, "DELETE", respondPath, owner, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("remove status = %d, body %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["message"] != "Collaborator removed successfully" {
		t.Errorf("remove body = %s", w.Body.String())
	}
}

func TestUserProjects(t *testing.T) {
	r := newTestAPI(t)
	owner := registerUser(t, r, "alice", "0xAlice")

	doJSON(t, r, "POST", "/api/projects", owner, gin.H{"project_id": "1", "title": "First"})

	w := doJSON(t, r, "GET", "/api/projects/user/0xAlice", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	owned, _ := body["owned"].([]interface{})
	if len(owned) != 1 {
		t.Errorf("owned = %v", body["owned"])
	}

	w = doJSON(t, r, "GET", "/api/projects/user/0xNobody", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown address status = %d, expected 404", w.Code)
	}
	if decodeBody(t, w)["error"] != "User not found" {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestProjectRecover(t *testing.T) {
	r := newTestAPI(t)
	owner := registerUser(t, r, "alice", "0xAlice")
	other := registerUser(t, r, "bob", "0xBob")

	doJSON(t, r, "POST", "/api/projects", owner, gin.H{"project_id": "1", "title": "First"})

	w := doJSON(t, r, "POST", "/api/projects/recover", owner, gin.H{"project_id": "1"})
	if w.Code != http.StatusOK {
		t.Fatalf("recover status = %d, body %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["success"] != true || body["project_id"] != "1" {
		t.Errorf("recover body = %s", w.Body.String())
	}

	w = doJSON(t, r, "POST", "/api/projects/recover", other, gin.H{"project_id": "1"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-owner recover status = %d", w.Code)
	}

	w = doJSON(t, r, "POST", "/api/projects/recover", owner, gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing id status = %d", w.Code)
	}
	if decodeBody(t, w)["error"] != "Project ID is required" {
		t.Errorf("body = %s", w.Body.String())
	}
}
