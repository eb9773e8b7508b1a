package middleware

import "net/http"

// overrideField is the form field HTML forms use to spoof PUT and DELETE.
const overrideField = "_method"

// MethodOverride returns middleware that rewrites POST requests carrying a
// _method form field to the method it names. Plain HTML forms can only
// submit GET and POST; this lets them drive PUT and DELETE routes.
// Only PUT, PATCH, and DELETE are honored.
func MethodOverride() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				switch method(r) {
				case http.MethodPut:
					r.Method = http.MethodPut
				case http.MethodPatch:
					r.Method = http.MethodPatch
				case http.MethodDelete:
					r.Method = http.MethodDelete
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func method(r *http.Request) string {
	// PostFormValue parses and caches the body, so handlers can still
	// read form fields and uploaded files afterwards.
	if v := r.URL.Query().Get(overrideField); v != "" {
		return v
	}
	if v := r.PostFormValue(overrideField); v != "" {
		return v
	}
	return ""
}
