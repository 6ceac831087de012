package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"rainbow-properties/internal/auth"
	"rainbow-properties/internal/catalog"
	"rainbow-properties/internal/dashboard"
	"rainbow-properties/internal/gallery"
	"rainbow-properties/internal/inbox"
	"rainbow-properties/internal/kvstore"
	"rainbow-properties/internal/models"
	"rainbow-properties/internal/objstore"
	"rainbow-properties/internal/reconcile"
	"rainbow-properties/internal/siteconfig"
)

// stubVerifier accepts exactly one token.
type stubVerifier struct{}

func (stubVerifier) GetUser(_ context.Context, token string) (*auth.User, error) {
	if token != "valid-token" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.User{ID: "admin-1", Email: "admin@example.com"}, nil
}

type stubProvider struct {
	n      int
	emails map[string]bool
}

func (p *stubProvider) SignUp(_ context.Context, email, _, _, _ string) (*auth.User, error) {
	if p.emails == nil {
		p.emails = make(map[string]bool)
	}
	if p.emails[email] {
		return nil, auth.ErrUserExists
	}
	p.emails[email] = true
	p.n++
	return &auth.User{ID: fmt.Sprintf("user-%d", p.n), Email: email}, nil
}

func (p *stubProvider) Login(_ context.Context, email, password string) (string, *auth.User, error) {
	if password != "correct" {
		return "", nil, auth.ErrInvalidToken
	}
	return "issued-token", &auth.User{ID: "user-login", Email: email}, nil
}

func (p *stubProvider) DeleteUser(context.Context, string) error { return nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	kv := kvstore.NewMemoryStore()
	recorder := reconcile.NewRecorder(kv)
	cat := catalog.NewService(kv)
	gal := gallery.NewService(kv, objstore.NewMemoryStore(), recorder)
	inboxSvc := inbox.NewService(kv)
	provider := &stubProvider{}
	site := siteconfig.NewService(kv, provider, recorder)

	r := gin.New()
	Register(r, "/api/v1", &API{
		Auth:      provider,
		Catalog:   cat,
		Gallery:   gal,
		Inbox:     inboxSvc,
		Site:      site,
		Dashboard: dashboard.NewService(cat, gal, site),
	}, stubVerifier{})
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "OK" {
		t.Fatalf("status field = %v", body["status"])
	}
	if body["timestamp"] == nil {
		t.Fatal("timestamp missing")
	}
}

func TestMutationsRequireToken(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/properties", "", map[string]string{})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d", w.Code)
	}
	if decodeBody(t, w)["error"] != "Unauthorized - No token provided" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/properties", "wrong-token", map[string]string{})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d", w.Code)
	}
	if decodeBody(t, w)["error"] != "Unauthorized - Invalid token" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestPropertyCRUDOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/properties", "valid-token", models.Property{
		Title: "Test Home", Location: "1 Test Street", City: "Johannesburg",
		Type: "House", Status: models.StatusAvailable, Price: 1000000,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("create: status = %d body = %s", w.Code, w.Body.String())
	}
	created := decodeBody(t, w)
	if created["message"] != "Property created successfully" {
		t.Fatalf("create message = %v", created["message"])
	}
	property := created["property"].(map[string]interface{})
	id := property["id"].(string)
	if property["createdBy"] != "admin-1" {
		t.Fatalf("createdBy = %v", property["createdBy"])
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/properties/"+id, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPut, "/api/v1/properties/"+id, "valid-token",
		map[string]interface{}{"status": models.StatusSold})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status = %d body = %s", w.Code, w.Body.String())
	}
	updated := decodeBody(t, w)["property"].(map[string]interface{})
	if updated["status"] != models.StatusSold {
		t.Fatalf("status = %v", updated["status"])
	}
	if updated["price"].(float64) != 1000000 {
		t.Fatalf("price changed: %v", updated["price"])
	}

	w = doJSON(t, r, http.MethodDelete, "/api/v1/properties/"+id, "valid-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/properties/"+id, "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: status = %d", w.Code)
	}
}

func TestCreatePropertyValidationError(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/properties", "valid-token",
		map[string]interface{}{"title": "No price"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["error"] == nil {
		t.Fatal("error message missing")
	}
}

func TestUpdatePropertyRejectsUnknownFields(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/properties", "valid-token", models.Property{
		Title: "Test Home", Location: "1 Test Street", City: "Johannesburg",
		Type: "House", Status: models.StatusAvailable, Price: 1000000,
	})
	id := decodeBody(t, w)["property"].(map[string]interface{})["id"].(string)

	w = doJSON(t, r, http.MethodPut, "/api/v1/properties/"+id, "valid-token",
		map[string]interface{}{"nonsense": true})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d body = %s", w.Code, w.Body.String())
	}
}

func TestGetUnknownPropertyReturns404(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/properties/nope", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	if decodeBody(t, w)["error"] != "Property not found" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestContactFlow(t *testing.T) {
	r := newTestRouter(t)

	// Submission is public.
	w := doJSON(t, r, http.MethodPost, "/api/v1/contact", "", map[string]string{
		"name": "Thandi", "email": "t@example.com",
		"subject": "Viewing", "message": "Please call me.",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("submit: status = %d body = %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["message"] != "Message sent successfully" || body["id"] == nil {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	id := body["id"].(string)

	// Missing subject is rejected.
	w = doJSON(t, r, http.MethodPost, "/api/v1/contact", "", map[string]string{
		"name": "Thandi", "email": "t@example.com", "message": "hi",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid submit: status = %d", w.Code)
	}

	// Listing requires auth.
	w = doJSON(t, r, http.MethodGet, "/api/v1/contact-messages", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list: status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/contact-messages/"+id+"/reply", "valid-token",
		map[string]interface{}{"message": "On our way", "sendEmail": false})
	if w.Code != http.StatusOK {
		t.Fatalf("reply: status = %d body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/contact-messages", "valid-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d", w.Code)
	}
	messages := decodeBody(t, w)["messages"].([]interface{})
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	msg := messages[0].(map[string]interface{})
	if msg["status"] != models.MessageStatusInProgress {
		t.Fatalf("status after reply = %v", msg["status"])
	}
}

func TestImageUploadOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "house.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("fake image bytes")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/images/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer valid-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("upload: status = %d body = %s", w.Code, w.Body.String())
	}
	image := decodeBody(t, w)["image"].(map[string]interface{})
	fileName := image["fileName"].(string)
	if !strings.HasSuffix(fileName, ".jpg") {
		t.Fatalf("fileName = %q", fileName)
	}
	if image["url"] == "" {
		t.Fatal("url missing")
	}

	// Missing file part.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/images/upload", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing file: status = %d", w.Code)
	}
	if decodeBody(t, w)["error"] != "No image file provided" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestSiteSettingsFlow(t *testing.T) {
	r := newTestRouter(t)

	// Unset settings read as an empty document.
	w := doJSON(t, r, http.MethodGet, "/api/v1/site-settings", "valid-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/site-settings", "valid-token",
		map[string]string{"siteName": "Rainbow Properties"})
	if w.Code != http.StatusOK {
		t.Fatalf("post: status = %d body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/site-settings", "valid-token", nil)
	doc := decodeBody(t, w)
	if doc["siteName"] != "Rainbow Properties" {
		t.Fatalf("siteName = %v", doc["siteName"])
	}
	if doc["updatedBy"] != "admin-1" {
		t.Fatalf("updatedBy = %v", doc["updatedBy"])
	}
}

func TestSetupEndpoints(t *testing.T) {
	r := newTestRouter(t)

	// Developer seed is public and idempotent.
	w := doJSON(t, r, http.MethodPost, "/api/v1/create-developer", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("create-developer: status = %d body = %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["credentials"] == nil {
		t.Fatal("credentials missing on first seed")
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/create-developer", "", nil)
	if decodeBody(t, w)["message"] != "Developer user already exists" {
		t.Fatalf("second developer seed body: %s", w.Body.String())
	}

	// Sample seeding requires auth and reports the count.
	w = doJSON(t, r, http.MethodPost, "/api/v1/add-sample-properties", "valid-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("add-samples: status = %d body = %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["count"].(float64) != 5 {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/add-sample-properties", "valid-token", nil)
	if decodeBody(t, w)["message"] != "Properties already exist" {
		t.Fatalf("second seed body: %s", w.Body.String())
	}

	// The samples are live in the catalog.
	w = doJSON(t, r, http.MethodGet, "/api/v1/properties?type=House&sort=price-low", "", nil)
	properties := decodeBody(t, w)["properties"].([]interface{})
	if len(properties) != 2 {
		t.Fatalf("expected 2 houses, got %d", len(properties))
	}
	first := properties[0].(map[string]interface{})
	if first["price"].(float64) != 2200000 {
		t.Fatalf("price-low sort: first price = %v", first["price"])
	}
}

func TestSearchEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/add-sample-properties", "valid-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("seed: status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet,
		"/api/v1/properties/search?location=johannesburg&minPrice=2000000", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("search: status = %d", w.Code)
	}
	properties := decodeBody(t, w)["properties"].([]interface{})
	if len(properties) != 1 {
		t.Fatalf("expected 1 match, got %d", len(properties))
	}

	// Without filters, search equals the full list.
	w = doJSON(t, r, http.MethodGet, "/api/v1/properties/search", "", nil)
	if got := len(decodeBody(t, w)["properties"].([]interface{})); got != 5 {
		t.Fatalf("unfiltered search returned %d", got)
	}
}

func TestDashboardStatsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/v1/dashboard/stats", "valid-token", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: status = %d body = %s", w.Code, w.Body.String())
	}
	stats := decodeBody(t, w)["stats"].(map[string]interface{})
	if stats["totalAdmins"].(float64) != 1 {
		t.Fatalf("totalAdmins = %v", stats["totalAdmins"])
	}
}

func TestAuthEndpoints(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": "new@example.com", "password": "correct", "name": "New Admin",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("signup: status = %d body = %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["user"] == nil {
		t.Fatal("user missing from signup response")
	}

	// Duplicate email.
	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"email": "new@example.com", "password": "correct", "name": "New Admin",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup: status = %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "new@example.com", "password": "correct",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status = %d body = %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["access_token"] != "issued-token" || body["user"] == nil {
		t.Fatalf("unexpected login body: %s", w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "new@example.com", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login: status = %d", w.Code)
	}
	if decodeBody(t, w)["error"] != "Invalid credentials" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestContactStatusUpdateOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/contact", "", map[string]string{
		"name": "Thandi", "email": "t@example.com",
		"subject": "Viewing", "message": "Please call me.",
	})
	id := decodeBody(t, w)["id"].(string)

	w = doJSON(t, r, http.MethodPost, "/api/v1/contact-messages/"+id+"/status", "valid-token",
		map[string]string{"status": models.MessageStatusResolved})
	if w.Code != http.StatusOK {
		t.Fatalf("status update: status = %d body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/v1/contact-messages/missing/status", "valid-token",
		map[string]string{"status": models.MessageStatusClosed})
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown id: status = %d", w.Code)
	}
}

func TestAdminUsersEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/admin-users", "valid-token",
		siteconfig.CreateAdminInput{
			Email: "agent@example.com", Name: "Agent",
			Password: "secret", Role: models.RoleAdmin,
		})
	if w.Code != http.StatusOK {
		t.Fatalf("create: status = %d body = %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/admin-users", "valid-token", nil)
	users := decodeBody(t, w)["users"].([]interface{})
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if users[0].(map[string]interface{})["email"] != "agent@example.com" {
		t.Fatalf("unexpected user: %v", users[0])
	}
}
