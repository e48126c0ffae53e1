package content

import "net/http"

// Register registers the content import endpoint with the given mux.
func Register(mux *http.ServeMux, svc Runner) {
	mux.Handle("POST /contents/import", ImportHandler{Svc: svc})
}
