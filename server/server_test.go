package server

import (
	"encoding/json"
	"go/types"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"goji.io"
	"goji.io/pat"
)

func TestHumanPayloadJSON(t *testing.T) {
	hp := HumanPayload{T: types.Float64, Float: 1.5}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	hp.EncodeAndRespond(w, r)
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %s", ct)
	}
	var f FloatT
	if err := json.NewDecoder(w.Body).Decode(&f); err != nil {
		t.Fatal(err)
	}
	if f.F64 != 1.5 {
		t.Errorf("payload = %v, expected 1.5", f.F64)
	}
}

func TestHumanPayloadPlainText(t *testing.T) {
	hp := HumanPayload{T: types.Bool, Bool: true}
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept", "text/plain")
	hp.EncodeAndRespond(w, r)
	if got := strings.TrimSpace(w.Body.String()); got != "true" {
		t.Errorf("body = %q, expected true", got)
	}
}

func TestSetFloatParsesBody(t *testing.T) {
	var got float64
	h := SetFloat(func(f float64) error { got = f; return nil })
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"f64": -20}`))
	h(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if got != -20 {
		t.Errorf("handler received %v, expected -20", got)
	}
}

func TestSetIntRejectsGarbage(t *testing.T) {
	h := SetInt(func(int) error { return nil })
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not json"))
	h(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status %d, expected 400", w.Code)
	}
}

func TestRouteTableBindAddsEndpoints(t *testing.T) {
	rt := RouteTable{
		pat.Get("/thing"): func(w http.ResponseWriter, r *http.Request) {},
	}
	mux := goji.NewMux()
	rt.Bind(mux)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/endpoints", nil)
	mux.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/thing") {
		t.Errorf("endpoint listing missing route, got %q", w.Body.String())
	}
}
