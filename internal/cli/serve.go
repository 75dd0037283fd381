package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/pipeline"
	"github.com/ppiankov/veracity/internal/report"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the credibility analysis HTTP service",
	Long: `Serve exposes the pipeline over HTTP:

  POST /v1/analyze  {"content": "...", "timeout_ms": 5000}  -> report JSON
  GET  /healthz                                             -> service status

Invalid input returns 400; internal failures return 500. Lookup timeouts
degrade to unverified items, never to errors.

Example:
  veracity serve
  veracity serve --addr :9000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(ctx, cfg)

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           newServeMux(p, cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "Listening on %s\n", cfg.Server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type analyzeRequest struct {
	Content   string `json:"content"`
	TimeoutMS int    `json:"timeout_ms"`
}

func newServeMux(p *pipeline.Pipeline, cfg *model.Config) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/analyze", handleAnalyze(p, cfg))
	mux.HandleFunc("GET /healthz", handleHealth(p))
	return mux
}

func handleAnalyze(p *pipeline.Pipeline, cfg *model.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// leave headroom for the JSON envelope around the content
		r.Body = http.MaxBytesReader(w, r.Body, int64(cfg.Input.MaxBytes)+64*1024)

		var req analyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
			return
		}

		timeout := cfg.Server.RequestTimeout
		if req.TimeoutMS > 0 && time.Duration(req.TimeoutMS)*time.Millisecond < timeout {
			timeout = time.Duration(req.TimeoutMS) * time.Millisecond
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		rep, err := p.Analyze(ctx, req.Content)
		if err != nil {
			var inputErr *pipeline.InputError
			if errors.As(err, &inputErr) {
				writeError(w, http.StatusBadRequest, inputErr.Error())
				return
			}
			fmt.Fprintf(os.Stderr, "Error: analyze request failed: %v\n", err)
			writeError(w, http.StatusInternalServerError, "analysis failed")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := report.WriteJSON(w, rep); err != nil {
			fmt.Fprintf(os.Stderr, "Error: write response: %v\n", err)
		}
	}
}

func handleHealth(p *pipeline.Pipeline) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":     "ok",
			"recognizer": p.RecognizerName(),
			"knowledge":  p.SourceName(),
		})
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
