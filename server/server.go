// Package server contains the plumbing shared by all HTTP-adapted devices:
// a route table bound to a goji mux, typed JSON payload shims, and the
// HumanPayload response encoder.
package server

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"go/types"
	"log"
	"net/http"
	"strconv"

	"goji.io"
	"goji.io/pat"
)

// StrT is a struct with a single Str field, used for JSON string payloads
type StrT struct {
	Str string `json:"str"`
}

// IntT is a struct with a single Int field, used for JSON int payloads
type IntT struct {
	Int int `json:"int"`
}

// FloatT is a struct with a single F64 field, used for JSON float payloads
type FloatT struct {
	F64 float64 `json:"f64"`
}

// BoolT is a struct with a single Bool field, used for JSON bool payloads
type BoolT struct {
	Bool bool `json:"bool"`
}

// HumanPayload is a struct containing the basic types and a type tag
// indicating which of them is populated.  It knows how to encode itself
// to an HTTP response in either JSON or text form.
type HumanPayload struct {
	// Bool holds a binary value
	Bool bool

	// Int holds an integer value
	Int int

	// Float holds a floating point value
	Float float64

	// String holds a string value
	String string

	// T is the type tag, one of types.Bool, types.Int, types.Float64,
	// types.String
	T types.BasicKind
}

// EncodeAndRespond writes the payload to w.  If the request carries
// Accept: text/plain, the bare value is written; otherwise the value is
// wrapped in the matching single-key JSON object ({"bool": ...} and so on).
func (hp *HumanPayload) EncodeAndRespond(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Accept") == "text/plain" {
		w.Header().Set("Content-Type", "text/plain")
		var s string
		switch hp.T {
		case types.Bool:
			s = strconv.FormatBool(hp.Bool)
		case types.Int:
			s = strconv.Itoa(hp.Int)
		case types.Float64:
			s = strconv.FormatFloat(hp.Float, 'G', -1, 64)
		case types.String:
			s = hp.String
		}
		fmt.Fprintln(w, s)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	var obj interface{}
	switch hp.T {
	case types.Bool:
		obj = BoolT{Bool: hp.Bool}
	case types.Int:
		obj = IntT{Int: hp.Int}
	case types.Float64:
		obj = FloatT{F64: hp.Float}
	case types.String:
		obj = StrT{Str: hp.String}
	}
	err := json.NewEncoder(w).Encode(obj)
	if err != nil {
		fstr := fmt.Sprintf("error encoding payload to json %q", err)
		log.Println(fstr)
		http.Error(w, fstr, http.StatusInternalServerError)
	}
}

// RouteTable maps goji patterns to handler funcs
type RouteTable map[goji.Pattern]http.HandlerFunc

// Endpoints returns the URL fragments bound in the table
func (rt RouteTable) Endpoints() []string {
	routes := make([]string, 0, len(rt))
	for k := range rt {
		if p, ok := k.(*pat.Pattern); ok {
			routes = append(routes, p.String())
		}
	}
	return routes
}

// Bind attaches each route in the table to mux, plus an
// endpoints route which lists the others
func (rt RouteTable) Bind(mux *goji.Mux) {
	for ptrn, handler := range rt {
		mux.Handle(ptrn, handler)
	}
	mux.Handle(pat.Get("/endpoints"), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		cw := csv.NewWriter(w)
		for _, route := range rt.Endpoints() {
			cw.Write([]string{route})
		}
		cw.Flush()
	}))
}

// HTTPer is an object which can yield its route table for binding or
// injection by middleware
type HTTPer interface {
	// RT yields the route table
	RT() RouteTable
}
