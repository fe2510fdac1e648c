package locker

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckBlocksWhenLocked(t *testing.T) {
	l := New()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := l.Check(inner)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/image", nil))
	if w.Code != http.StatusOK {
		t.Errorf("unlocked request got %d", w.Code)
	}

	l.Lock()
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/image", nil))
	if w.Code != http.StatusLocked {
		t.Errorf("locked request got %d, expected 423", w.Code)
	}

	// the lock route itself stays reachable so the operator can unlock
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/lock", nil))
	if w.Code != http.StatusOK {
		t.Errorf("lock route got %d while locked", w.Code)
	}
}
