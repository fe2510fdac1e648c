// Package locker lets an operator reserve an instrument's route table,
// answering 423 to everyone else until it is released.
package locker

import (
	"encoding/json"
	"go/types"
	"net/http"
	"strings"

	"github.com/openobs/asihttp/server"

	"goji.io/pat"
)

// Inject binds GET and POST /lock routes on the HTTPer so clients can
// inspect and flip the lock
func Inject(other server.HTTPer, l *Locker) {
	rt := other.RT()
	rt[pat.Get("/lock")] = l.HTTPGet
	rt[pat.Post("/lock")] = l.HTTPSet
}

// Locker is a non-blocking flavor of mutex for HTTP routes.  Paths whose
// URL contains any DoNotProtect fragment bypass the lock.
type Locker struct {
	isLocked bool

	// DoNotProtect is a list of paths not to apply the lock to
	DoNotProtect []string
}

// New returns a Locker whose own lock routes are exempt, so a locked
// server can still be unlocked
func New() *Locker {
	return &Locker{DoNotProtect: []string{"lock"}}
}

// Lock engages the lockout
func (l *Locker) Lock() {
	l.isLocked = true
}

// Unlock releases the lockout
func (l *Locker) Unlock() {
	l.isLocked = false
}

// Locked reports whether the lockout is engaged
func (l *Locker) Locked() bool {
	return l.isLocked
}

// Check is the middleware.  While the lockout is engaged, protected
// requests get http.StatusLocked; everything else flows through.
func (l *Locker) Check(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.Locked() {
			protected := true
			url := r.URL.Path
			for _, str := range l.DoNotProtect {
				if strings.Contains(url, str) {
					protected = false
				}
			}
			if protected {
				w.WriteHeader(http.StatusLocked)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// HTTPSet engages or releases the lockout from a {"bool": value} body
func (l *Locker) HTTPSet(w http.ResponseWriter, r *http.Request) {
	b := server.BoolT{}
	err := json.NewDecoder(r.Body).Decode(&b)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if b.Bool {
		l.Lock()
	} else {
		l.Unlock()
	}
	w.WriteHeader(http.StatusOK)
}

// HTTPGet reports the lockout state as {"bool": value}
func (l *Locker) HTTPGet(w http.ResponseWriter, r *http.Request) {
	hp := server.HumanPayload{T: types.Bool, Bool: l.Locked()}
	hp.EncodeAndRespond(w, r)
}
