package keepalive

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Server answers hosting-platform health pings so the process is not put
// to sleep between duty commands.
type Server struct {
	addr string
}

func NewServer(addr string) *Server {
	return &Server{addr: addr}
}

func (s *Server) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "Duty Bot is running!")
	})
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		slog.Info("keep-alive server listening", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("keep-alive server failed", "error", err, "addr", s.addr)
		}
	}()
}
