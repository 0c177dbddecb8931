package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"storeapi/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupIntegration(t *testing.T) (*server, *gin.Engine, *gorm.DB) {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	validatorsOnce.Do(registerValidators)

	cfg := loadConfig()
	cfg.UploadDir = t.TempDir()
	log := zap.NewNop()
	db, err := openDB(cfg, log)
	if err != nil {
		t.Fatalf("openDB: %v", err)
	}
	srv := newServer(cfg, db, log)
	return srv, srv.router(), db
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return m
}

func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

func TestSessionFlows(t *testing.T) {
	_, r, _ := setupIntegration(t)
	email := uniqueEmail("alice")

	// register
	regBody, _ := json.Marshal(map[string]string{
		"name": "Alice", "email": email, "password": "Pass123", "repeat_password": "Pass123",
	})
	resp := performRequest(r, http.MethodPost, "/api/register", bytes.NewReader(regBody), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	tokens := decodeBody(t, resp)
	access, _ := tokens["access_token"].(string)
	refresh, _ := tokens["refresh_token"].(string)
	if access == "" || refresh == "" || access == refresh {
		t.Fatalf("expected two distinct non-empty tokens, got %+v", tokens)
	}

	// duplicate email -> 409
	resp = performRequest(r, http.MethodPost, "/api/register", bytes.NewReader(regBody), "", "application/json")
	if resp.Code != http.StatusConflict {
		t.Fatalf("duplicate register: expected 409 got %d", resp.Code)
	}

	// me with the returned access token
	resp = performRequest(r, http.MethodGet, "/api/me", nil, access, "")
	if resp.Code != 200 {
		t.Fatalf("me failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	me := decodeBody(t, resp)
	if me["role"] != "customer" || me["email"] != email {
		t.Fatalf("unexpected identity: %+v", me)
	}

	// wrong password and unknown email answer identically
	for _, creds := range []map[string]string{
		{"email": email, "password": "Pass124"},
		{"email": uniqueEmail("nobody"), "password": "Pass123"},
	} {
		body, _ := json.Marshal(creds)
		resp = performRequest(r, http.MethodPost, "/api/login", bytes.NewReader(body), "", "application/json")
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 got %d for %v", resp.Code, creds)
		}
		if got := decodeBody(t, resp)["error"]; got != "email or password is wrong" {
			t.Fatalf("credential failures must share one shape, got %v", got)
		}
	}

	// correct login
	loginBody, _ := json.Marshal(map[string]string{"email": email, "password": "Pass123"})
	resp = performRequest(r, http.MethodPost, "/api/login", bytes.NewReader(loginBody), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// refresh yields a usable access token
	refreshBody, _ := json.Marshal(map[string]string{"refresh_token": refresh})
	resp = performRequest(r, http.MethodPost, "/api/refresh", bytes.NewReader(refreshBody), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("refresh failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	newAccess, _ := decodeBody(t, resp)["access_token"].(string)
	if newAccess == "" {
		t.Fatal("refresh returned empty access token")
	}
	resp = performRequest(r, http.MethodGet, "/api/me", nil, newAccess, "")
	if resp.Code != 200 {
		t.Fatalf("me with refreshed token failed status=%d", resp.Code)
	}

	// logout is idempotent
	for i := 0; i < 2; i++ {
		resp = performRequest(r, http.MethodPost, "/api/logout", bytes.NewReader(refreshBody), access, "application/json")
		if resp.Code != 200 {
			t.Fatalf("logout #%d failed status=%d body=%s", i+1, resp.Code, resp.Body.String())
		}
		if got := decodeBody(t, resp)["status"]; got != float64(1) {
			t.Fatalf("logout #%d: expected status 1 got %v", i+1, got)
		}
	}

	// the revoked refresh token no longer refreshes
	resp = performRequest(r, http.MethodPost, "/api/refresh", bytes.NewReader(refreshBody), "", "application/json")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("revoked refresh: expected 401 got %d", resp.Code)
	}
}

// createAdmin writes an admin row directly; registration can only mint customers.
func createAdmin(t *testing.T, db *gorm.DB, email string) {
	t.Helper()
	digest, err := hashPassword("Admin123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	admin := models.User{Name: "Boss", Email: email, Password: digest, Role: "admin"}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}
}

func loginAs(t *testing.T, r http.Handler, email, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp := performRequest(r, http.MethodPost, "/api/login", bytes.NewReader(body), "", "application/json")
	if resp.Code != 200 {
		t.Fatalf("login %s failed status=%d body=%s", email, resp.Code, resp.Body.String())
	}
	tok, _ := decodeBody(t, resp)["access_token"].(string)
	if tok == "" {
		t.Fatalf("empty access token for %s", email)
	}
	return tok
}

// productUpload builds a multipart body with catalog fields and a tiny PNG.
func productUpload(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		_ = mw.WriteField(k, v)
	}
	if withImage {
		w, err := mw.CreateFormFile("image", "product.png")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		if err := png.Encode(w, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
			t.Fatalf("png encode: %v", err)
		}
	}
	_ = mw.Close()
	return buf, mw.FormDataContentType()
}

func TestProductCatalog(t *testing.T) {
	srv, r, db := setupIntegration(t)

	adminEmail := uniqueEmail("admin")
	createAdmin(t, db, adminEmail)
	adminTok := loginAs(t, r, adminEmail, "Admin123")

	customerEmail := uniqueEmail("bob")
	regBody, _ := json.Marshal(map[string]string{
		"name": "Bobby", "email": customerEmail, "password": "Pass123", "repeat_password": "Pass123",
	})
	if resp := performRequest(r, http.MethodPost, "/api/register", bytes.NewReader(regBody), "", "application/json"); resp.Code != 200 {
		t.Fatalf("register customer failed: %d", resp.Code)
	}
	customerTok := loginAs(t, r, customerEmail, "Pass123")

	// customer with a valid token is still forbidden
	body, ct := productUpload(t, map[string]string{"name": "Shoe", "price": "4999", "size": "m"}, true)
	resp := performRequest(r, http.MethodPost, "/api/products", body, customerTok, ct)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("customer create product: expected 403 got %d", resp.Code)
	}

	// missing price fails validation and must not leave the image behind
	body, ct = productUpload(t, map[string]string{"name": "Shoe", "size": "m"}, true)
	resp = performRequest(r, http.MethodPost, "/api/products", body, adminTok, ct)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("invalid product: expected 400 got %d body=%s", resp.Code, resp.Body.String())
	}
	if entries, _ := os.ReadDir(srv.cfg.UploadDir); len(entries) > 1 { // only thumbs/ may remain
		t.Fatalf("validation failure left files behind: %v", entries)
	}

	// admin creates a product
	body, ct = productUpload(t, map[string]string{"name": "Shoe", "price": "4999", "size": "m"}, true)
	resp = performRequest(r, http.MethodPost, "/api/products", body, adminTok, ct)
	if resp.Code != http.StatusCreated {
		t.Fatalf("create product failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	created := decodeBody(t, resp)
	id := fmt.Sprintf("%v", created["id"])

	// public listing maps the image to an absolute URL
	resp = performRequest(r, http.MethodGet, "/api/products", nil, "", "")
	if resp.Code != 200 {
		t.Fatalf("list products failed status=%d", resp.Code)
	}
	var listed []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &listed); err != nil || len(listed) == 0 {
		t.Fatalf("bad product list: %v body=%s", err, resp.Body.String())
	}

	// public single fetch
	resp = performRequest(r, http.MethodGet, "/api/products/"+id, nil, "", "")
	if resp.Code != 200 {
		t.Fatalf("get product failed status=%d", resp.Code)
	}

	// update without a new image
	body, ct = productUpload(t, map[string]string{"name": "Shoe v2", "price": "5999", "size": "l"}, false)
	resp = performRequest(r, http.MethodPut, "/api/products/"+id, body, adminTok, ct)
	if resp.Code != http.StatusCreated {
		t.Fatalf("update product failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	if got := decodeBody(t, resp)["name"]; got != "Shoe v2" {
		t.Fatalf("update did not apply, name=%v", got)
	}

	// delete, then 404
	resp = performRequest(r, http.MethodDelete, "/api/products/"+id, nil, adminTok, "")
	if resp.Code != 200 {
		t.Fatalf("delete product failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, "/api/products/"+id, nil, "", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("deleted product: expected 404 got %d", resp.Code)
	}
}
