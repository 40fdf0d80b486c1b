package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/YaelStO/AlasLatinasNeftify/internal/app/services/catalog"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/services/identity"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/services/payments"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/services/reservations"
	"github.com/YaelStO/AlasLatinasNeftify/internal/app/storage/document"
	"github.com/YaelStO/AlasLatinasNeftify/internal/auth"
	"github.com/YaelStO/AlasLatinasNeftify/internal/rail/card"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := document.NewMemoryStore()
	tokens := auth.NewTokens("test-secret", time.Hour)

	identitySvc := identity.New(store, tokens, nil)
	catalogSvc := catalog.New(store, nil)
	reservationSvc := reservations.New(store, nil)
	paymentSvc := payments.New(store, card.New(), payments.Config{}, nil)

	h := New(identitySvc, catalogSvc, reservationSvc, paymentSvc, nil, Config{
		AllowedOrigins: []string{"*"},
		AuthRateRPS:    1000,
		AuthRateBurst:  1000,
	}, nil)

	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func registerUser(t *testing.T, srv *httptest.Server, name, email string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]any{
		"name":     name,
		"email":    email,
		"password": "secret123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want %d (body %v)", resp.StatusCode, http.StatusCreated, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("register returned no token")
	}
	return token
}

func TestBookingFlow(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "Ana", "ana@example.com")

	resp, dest := doJSON(t, http.MethodPost, srv.URL+"/api/destinations", token, map[string]any{
		"name":        "Test Beach",
		"location":    "Cancun",
		"address":     "Km 9.5 Zona Hotelera",
		"description": "White sand and turquoise water",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create destination status = %d, want %d (body %v)", resp.StatusCode, http.StatusCreated, dest)
	}
	destID := dest["id"].(string)
	if dest["rating"].(float64) != 5 {
		t.Fatalf("default rating = %v, want 5", dest["rating"])
	}

	resp, res := doJSON(t, http.MethodPost, srv.URL+"/api/reservations", token, map[string]any{
		"destinationId": destID,
		"checkInDate":   "2024-06-01",
		"checkOutDate":  "2024-06-05",
		"totalPrice":    500,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create reservation status = %d, want %d (body %v)", resp.StatusCode, http.StatusCreated, res)
	}
	resID := res["id"].(string)
	if res["destinationName"] != "Test Beach" {
		t.Fatalf("destinationName = %v, want Test Beach", res["destinationName"])
	}

	resp, got := doJSON(t, http.MethodGet, srv.URL+"/api/reservations/"+resID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get reservation status = %d, want 200", resp.StatusCode)
	}
	if got["status"] != "confirmed" || got["paymentStatus"] != "pending" {
		t.Fatalf("fresh reservation state = (%v, %v), want (confirmed, pending)", got["status"], got["paymentStatus"])
	}

	resp, paid := doJSON(t, http.MethodPost, srv.URL+"/api/reservations/"+resID+"/pay", token, map[string]any{
		"cardNumber": "4111111111111111",
		"expiryDate": "12/27",
		"cvv":        "123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pay status = %d, want 200 (body %v)", resp.StatusCode, paid)
	}
	if paid["transactionId"] == "" {
		t.Fatal("pay returned no transaction id")
	}

	resp, status := doJSON(t, http.MethodGet, srv.URL+"/api/reservations/"+resID+"/status", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status route status = %d, want 200", resp.StatusCode)
	}
	if status["paymentStatus"] != "completed" {
		t.Fatalf("paymentStatus = %v, want completed", status["paymentStatus"])
	}

	resp, cancelled := doJSON(t, http.MethodPost, srv.URL+"/api/reservations/"+resID+"/cancel", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("cancel status = %d, want 200 (body %v)", resp.StatusCode, cancelled)
	}
	final := cancelled["reservation"].(map[string]any)
	if final["status"] != "cancelled" {
		t.Fatalf("status after cancel = %v, want cancelled", final["status"])
	}
	if final["paymentStatus"] != "completed" {
		t.Fatalf("paymentStatus after cancel = %v, want completed (kept independent)", final["paymentStatus"])
	}
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	srv := newTestServer(t)
	tokenA := registerUser(t, srv, "Ana", "dup@example.com")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/auth/register", "", map[string]any{
		"name":     "Bruno",
		"email":    "dup@example.com",
		"password": "another",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate register status = %d, want %d (body %v)", resp.StatusCode, http.StatusConflict, body)
	}

	// The original account still works.
	resp, profile := doJSON(t, http.MethodGet, srv.URL+"/api/auth/me", tokenA, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("profile status = %d, want 200", resp.StatusCode)
	}
	if profile["name"] != "Ana" {
		t.Fatalf("profile name = %v, want Ana", profile["name"])
	}
	if _, leaked := profile["password"]; leaked {
		t.Fatal("profile response contains a password field")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "Ana", "ana@example.com")

	for _, creds := range []map[string]any{
		{"email": "ana@example.com", "password": "wrong"},
		{"email": "nobody@example.com", "password": "secret123"},
	} {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/auth/login", "", creds)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("login %v status = %d, want 401", creds["email"], resp.StatusCode)
		}
		if body["message"] != "invalid email or password" {
			t.Fatalf("login error message = %v, want a uniform one", body["message"])
		}
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		method, path string
	}{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/reservations"},
		{http.MethodPost, "/api/destinations"},
		{http.MethodPost, "/api/payments"},
	}
	for _, tc := range cases {
		resp, _ := doJSON(t, tc.method, srv.URL+tc.path, "", map[string]any{})
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s status = %d, want 401", tc.method, tc.path, resp.StatusCode)
		}
	}
}

func TestReservationOwnership(t *testing.T) {
	srv := newTestServer(t)
	tokenA := registerUser(t, srv, "Ana", "ana@example.com")
	tokenB := registerUser(t, srv, "Bruno", "bruno@example.com")

	_, dest := doJSON(t, http.MethodPost, srv.URL+"/api/destinations", tokenA, map[string]any{
		"name": "Machu Picchu", "location": "Cusco", "address": "Aguas Calientes", "description": "Inca citadel",
	})
	_, res := doJSON(t, http.MethodPost, srv.URL+"/api/reservations", tokenA, map[string]any{
		"destinationId": dest["id"], "checkInDate": "2024-07-01", "checkOutDate": "2024-07-03", "totalPrice": 800,
	})
	resID := res["id"].(string)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/reservations/"+resID, tokenB, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("foreign get status = %d, want 403", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/reservations/res-missing", tokenB, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("missing get status = %d, want 404", resp.StatusCode)
	}

	// B's list does not contain A's reservation.
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/reservations", nil)
	req.Header.Set("Authorization", "Bearer "+tokenB)
	listResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("list reservations: %v", err)
	}
	defer listResp.Body.Close()
	var list []map[string]any
	if err := json.NewDecoder(listResp.Body).Decode(&list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("foreign list length = %d, want 0", len(list))
	}
}

func TestDoubleCancelAndDoublePayConflicts(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "Ana", "ana@example.com")

	_, dest := doJSON(t, http.MethodPost, srv.URL+"/api/destinations", token, map[string]any{
		"name": "Iguazu", "location": "Misiones", "address": "Parque Nacional", "description": "Waterfalls",
	})
	_, res := doJSON(t, http.MethodPost, srv.URL+"/api/reservations", token, map[string]any{
		"destinationId": dest["id"], "checkInDate": "2024-08-01", "checkOutDate": "2024-08-02", "totalPrice": 300,
	})
	resID := res["id"].(string)

	payBody := map[string]any{"cardNumber": "4111111111111111", "expiryDate": "11/26", "cvv": "321"}
	if resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/reservations/"+resID+"/pay", token, payBody); resp.StatusCode != http.StatusOK {
		t.Fatalf("first pay status = %d, want 200", resp.StatusCode)
	}
	if resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/reservations/"+resID+"/pay", token, payBody); resp.StatusCode != http.StatusConflict {
		t.Fatalf("second pay status = %d, want 409", resp.StatusCode)
	}

	if resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/reservations/"+resID+"/cancel", token, nil); resp.StatusCode != http.StatusOK {
		t.Fatalf("first cancel status = %d, want 200", resp.StatusCode)
	}
	if resp, _ := doJSON(t, http.MethodPost, srv.URL+"/api/reservations/"+resID+"/cancel", token, nil); resp.StatusCode != http.StatusConflict {
		t.Fatalf("second cancel status = %d, want 409", resp.StatusCode)
	}
}

func TestPayValidatesCardShape(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "Ana", "ana@example.com")

	_, dest := doJSON(t, http.MethodPost, srv.URL+"/api/destinations", token, map[string]any{
		"name": "Atacama", "location": "Antofagasta", "address": "San Pedro", "description": "Desert",
	})
	_, res := doJSON(t, http.MethodPost, srv.URL+"/api/reservations", token, map[string]any{
		"destinationId": dest["id"], "checkInDate": "2024-09-01", "checkOutDate": "2024-09-04", "totalPrice": 450,
	})
	resID := res["id"].(string)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/reservations/"+resID+"/pay", token, map[string]any{
		"cardNumber": "1234", "expiryDate": "10/26", "cvv": "999",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("bad card status = %d, want 400 (body %v)", resp.StatusCode, body)
	}

	resp, got := doJSON(t, http.MethodGet, srv.URL+"/api/reservations/"+resID, token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get status = %d, want 200", resp.StatusCode)
	}
	if got["paymentStatus"] != "pending" {
		t.Fatalf("paymentStatus after rejected card = %v, want pending", got["paymentStatus"])
	}
}

func TestDestinationSearch(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "Ana", "ana@example.com")

	names := []string{"Cartagena Old Town", "Patagonia Trek", "Cartago Valley"}
	for i, name := range names {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/destinations", token, map[string]any{
			"name":        name,
			"location":    fmt.Sprintf("Place %d", i),
			"address":     "Somewhere 1",
			"description": "A place worth visiting",
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create %q status = %d (body %v)", name, resp.StatusCode, body)
		}
	}

	get := func(url string) []map[string]any {
		resp, err := http.Get(url)
		if err != nil {
			t.Fatalf("GET %s: %v", url, err)
		}
		defer resp.Body.Close()
		var list []map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			t.Fatalf("decode list: %v", err)
		}
		return list
	}

	all := get(srv.URL + "/api/destinations")
	if len(all) != 3 {
		t.Fatalf("unfiltered list length = %d, want 3", len(all))
	}

	matched := get(srv.URL + "/api/destinations?search=cartag")
	if len(matched) != 2 {
		t.Fatalf("search list length = %d, want 2", len(matched))
	}
}

func TestAddCommentRecomputesRating(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "Ana", "ana@example.com")

	_, dest := doJSON(t, http.MethodPost, srv.URL+"/api/destinations", token, map[string]any{
		"name": "Salar de Uyuni", "location": "Potosi", "address": "Uyuni", "description": "Salt flat",
	})
	destID := dest["id"].(string)

	for _, rating := range []float64{5, 3, 4} {
		resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/destinations/"+destID+"/comments", token, map[string]any{
			"text":   "great trip",
			"rating": rating,
		})
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("add comment status = %d (body %v)", resp.StatusCode, body)
		}
	}

	resp, got := doJSON(t, http.MethodGet, srv.URL+"/api/destinations/"+destID, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get destination status = %d, want 200", resp.StatusCode)
	}
	if got["rating"].(float64) != 4.0 {
		t.Fatalf("rating = %v, want 4.0", got["rating"])
	}
}

func TestDeleteDestinationIdempotent(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "Ana", "ana@example.com")

	for i := 0; i < 2; i++ {
		resp, _ := doJSON(t, http.MethodDelete, srv.URL+"/api/destinations/dest-gone", token, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("delete attempt %d status = %d, want 200", i+1, resp.StatusCode)
		}
	}
}

func TestHealthRoute(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d, want 200", resp.StatusCode)
	}
	if body["status"] != "ok" {
		t.Fatalf("health body = %v, want status ok", body)
	}
}
