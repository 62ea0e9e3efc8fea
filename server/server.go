package server

import (
	"log"
	"net"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"launchpad/bootstrap"
	"launchpad/config"
)

// Server owns the router and the one-time sidecar bootstrap.
type Server struct {
	cfg      *config.Config
	launcher *bootstrap.Launcher
	router   *mux.Router
}

func New(cfg *config.Config, launcher *bootstrap.Launcher) *Server {
	s := &Server{
		cfg:      cfg,
		launcher: launcher,
		router:   mux.NewRouter(),
	}
	// Traversal is neutralized in the SPA handler; mux's cleaning
	// redirect would answer 301 where the contract is 200 for any path.
	s.router.SkipClean(true)
	s.routes()
	return s
}

func (s *Server) routes() {
	spa := SPAHandler{Root: s.cfg.StaticDir, Index: s.cfg.IndexFile}
	s.router.PathPrefix("/").Handler(spa)
}

// Handler returns the full chain: logging outermost, then the bootstrap
// gate, then the router.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.router)
	if s.launcher != nil {
		h = s.ensureSidecar(h)
	}
	return LoggingMiddleware(h)
}

// ensureSidecar launches the sidecar before the first request is handled.
// The first request absorbs the startup delay; everyone later passes
// straight through.
func (s *Server) ensureSidecar(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.launcher.Ensure()
		next.ServeHTTP(w, r)
	})
}

// Run serves HTTP until the listener fails.
func (s *Server) Run() error {
	addr := net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.cfg.Port))
	log.Printf("server: listening on http://%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}
