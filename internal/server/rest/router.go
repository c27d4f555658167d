package rest

import (
	"net/http"

	"github.com/dmitrijs2005/medreminder/internal/common"
	"github.com/gorilla/mux"
)

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(s.instrument, s.recoverer)

	r.HandleFunc("/user/create-account", s.createAccount).Methods(http.MethodPost)
	r.HandleFunc("/user/login", s.login).Methods(http.MethodPost)

	r.Handle("/medicine/create-medicine", s.authenticate(http.HandlerFunc(s.createMedicine))).Methods(http.MethodPost)
	r.Handle("/medicine/decrease-medicine", s.requireDevice(http.HandlerFunc(s.decreaseMedicine))).Methods(http.MethodPost)
	r.HandleFunc("/medicine/get-medicine", s.getMedicine).Methods(http.MethodPost)
	r.HandleFunc("/medicine/get-user-medicine", s.getUserMedicine).Methods(http.MethodPost)
	r.HandleFunc("/medicine/", s.getReminders).Methods(http.MethodGet)
	r.HandleFunc("/medicine", s.getReminders).Methods(http.MethodGet)
	r.Handle("/medicine/delete", s.requireDevice(http.HandlerFunc(s.deleteMedicine))).Methods(http.MethodPost)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	// Router middleware only wraps matched routes. A known path with the
	// wrong method is treated as an unknown route.
	notFound := s.instrument(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{"success": false, "error": common.CodeNotFound})
	}))
	r.NotFoundHandler = notFound
	r.MethodNotAllowedHandler = notFound

	return r
}
