package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/chazz/pkg/convert"
	"github.com/aretw0/chazz/pkg/markup"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxBodyBytes = 1 << 20

// TextPayload is the body of POST /v1/transform and its response.
type TextPayload struct {
	Text string `json:"text"`
}

// DocumentResult is the response of POST /v1/documents/{key}.
type DocumentResult struct {
	Text    string `json:"text"`
	Skipped bool   `json:"skipped"`
	Reason  string `json:"reason,omitempty"`
}

// Server serves the markup engine over HTTP.
type Server struct {
	engine   *markup.Engine
	doc      *openapi3.T
	schemas  map[string]*openapi3.Schema
	logger   *slog.Logger
	version  string
	registry *prometheus.Registry
	requests *prometheus.CounterVec
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the application version reported by /v1/info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithRegistry registers the HTTP collectors on reg and exposes reg at /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

// NewHandler creates the HTTP handler for engine.
// It fails when the embedded OpenAPI document does not validate.
func NewHandler(engine *markup.Engine, opts ...Option) (http.Handler, error) {
	doc, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}

	s := &Server{
		engine:  engine,
		doc:     doc,
		schemas: requestSchemas(doc),
		logger:  slog.New(slog.DiscardHandler),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = markup.NewEngine()
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}

	s.requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chazz_http_requests_total",
			Help: "HTTP requests served, by route and status code",
		},
		[]string{"route", "code"},
	)
	if err := s.registry.Register(s.requests); err != nil {
		return nil, fmt.Errorf("failed to register http metrics: %w", err)
	}

	r := chi.NewRouter()
	r.Use(withRequestID, s.instrument, middleware.Recoverer)

	r.Get("/openapi.yaml", s.getSpec)
	r.Get("/healthz", s.getHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/transform", s.transform)
		r.Post("/documents/{key}", s.convertDocument)
		r.Get("/rules", s.listRules)
		r.Get("/info", s.getInfo)
	})

	return enableCORS(r), nil
}

func (s *Server) getSpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(rawSpec)
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "chazz-http",
		"version":     s.version,
		"api_version": s.doc.Info.Version,
	})
}

func (s *Server) listRules(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.Table().Describe())
}

// transform handles POST /v1/transform.
func (s *Server) transform(w http.ResponseWriter, r *http.Request) {
	var body TextPayload
	if !s.decode(w, r, "transform", &body) {
		return
	}
	s.writeJSON(w, http.StatusOK, TextPayload{Text: s.engine.Transform(body.Text)})
}

// convertDocument handles POST /v1/documents/{key}.
func (s *Server) convertDocument(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	format, err := convert.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var value any
	if !s.decode(w, r, "convertDocument", &value) {
		return
	}

	field, err := convert.SelectField(value, key)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	switch f := field.(type) {
	case convert.Missing:
		s.writeJSON(w, http.StatusOK, DocumentResult{Skipped: true, Reason: f.Reason})
	case convert.Text:
		out, err := format.Render(s.engine.Transform(string(f)))
		if err != nil {
			s.logger.Error("Render failed", "err", err, "request_id", RequestID(r.Context()))
			s.writeError(w, r, http.StatusInternalServerError, "render failed")
			return
		}
		s.writeJSON(w, http.StatusOK, DocumentResult{Text: out})
	}
}

// decode reads a JSON body, validates it against the operation's schema and
// unmarshals it into dst. On failure it writes a 400 and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, operationID string, dst any) bool {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		s.writeError(w, r, http.StatusBadRequest, "failed to read request body")
		return false
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}

	if schema, ok := s.schemas[operationID]; ok {
		if err := schema.VisitJSON(raw); err != nil {
			s.writeError(w, r, http.StatusBadRequest, "request does not match schema: "+err.Error())
			return false
		}
	}

	// Numbers stay json.Number so selected fields re-encode as sent.
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.logger.Warn("Request rejected", "status", status, "err", msg, "request_id", RequestID(r.Context()))
	s.writeJSON(w, status, map[string]string{
		"error":      msg,
		"request_id": RequestID(r.Context()),
	})
}
