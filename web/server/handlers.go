package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/panyam/fermi/core"
	"github.com/panyam/fermi/decl"
	"github.com/panyam/fermi/parser"
	"github.com/panyam/fermi/runtime"
	"github.com/panyam/fermi/viz"
)

const maxBodyBytes = 1 << 20

type parseRequest struct {
	Formula string `json:"formula"`
}

type parseResponse struct {
	Expr      string   `json:"expr"`
	Variables []string `json:"variables"`
}

type evalRequest struct {
	Formula string             `json:"formula"`
	Vars    map[string]float64 `json:"vars"`
}

type evalResponse struct {
	// Value is null when the result is NaN or infinite; Display always
	// carries a printable form.
	Value   *float64 `json:"value"`
	Display string   `json:"display"`
}

type simulateRequest struct {
	Name          string         `json:"name,omitempty"`
	Formula       string         `json:"formula"`
	Distributions *core.Bindings `json:"distributions"`
	Samples       int            `json:"samples,omitempty"`
	Bins          int            `json:"bins,omitempty"`
	Seed          uint64         `json:"seed,omitempty"`
}

type simulateResponse struct {
	*runtime.SimulationResult
	Seed          uint64         `json:"seed"`
	Distributions *core.Bindings `json:"distributions"`
}

type batchRequest struct {
	Seed      uint64            `json:"seed,omitempty"`
	Scenarios []simulateRequest `json:"scenarios"`
}

type batchItem struct {
	Name   string                    `json:"name"`
	Seed   uint64                    `json:"seed"`
	Result *runtime.SimulationResult `json:"result,omitempty"`
	Error  *errorResponse            `json:"error,omitempty"`
}

type batchResponse struct {
	Seed    uint64      `json:"seed"`
	Results []batchItem `json:"results"`
}

type errorResponse struct {
	Error    string `json:"error"`
	Kind     string `json:"kind"`
	Position *int   `json:"position,omitempty"`
}

// FermiApi serves the parse, evaluate and simulate operations over JSON.
type FermiApi struct {
	config  Config
	logger  *slog.Logger
	plotter *viz.HistogramPlotter
	router  *mux.Router
}

func NewFermiApi(config Config, logger *slog.Logger) *FermiApi {
	if logger == nil {
		logger = slog.Default()
	}
	out := &FermiApi{
		config:  config,
		logger:  logger,
		plotter: viz.NewHistogramPlotter(viz.DefaultHistogramConfig()),
		router:  mux.NewRouter(),
	}
	out.RegisterRoutes(out.router)
	return out
}

// RegisterRoutes registers all API routes with the router.
func (a *FermiApi) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/healthz", a.handleHealth).Methods("GET")
	router.HandleFunc("/v1/distributions", a.handleListDistributions).Methods("GET")
	router.HandleFunc("/v1/distributions/{kind}", a.handleGetDistribution).Methods("GET")
	router.HandleFunc("/v1/parse", a.handleParse).Methods("POST")
	router.HandleFunc("/v1/eval", a.handleEval).Methods("POST")
	router.HandleFunc("/v1/simulate", a.handleSimulate).Methods("POST")
	router.HandleFunc("/v1/histogram.svg", a.handleHistogram).Methods("POST")
	router.HandleFunc("/v1/batch", a.handleBatch).Methods("POST")
}

func (a *FermiApi) Handler() http.Handler {
	return withRequestLogging(a.logger, a.router)
}

func (a *FermiApi) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListDistributions returns the supported families with their
// starting parameters, in display order.
func (a *FermiApi) handleListDistributions(w http.ResponseWriter, r *http.Request) {
	out := make([]core.Distribution, 0, len(core.Kinds))
	for _, kind := range core.Kinds {
		d, err := core.DefaultFor(kind)
		if err != nil {
			a.writeError(w, err)
			return
		}
		out = append(out, d)
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *FermiApi) handleGetDistribution(w http.ResponseWriter, r *http.Request) {
	d, err := core.DefaultFor(core.Kind(mux.Vars(r)["kind"]))
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Kind: "InvalidDistribution"})
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (a *FermiApi) handleParse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if !a.decode(w, r, &req) {
		return
	}
	expr, err := parser.Parse(req.Formula)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, parseResponse{Expr: expr.String(), Variables: decl.ExtractVariables(expr)})
}

func (a *FermiApi) handleEval(w http.ResponseWriter, r *http.Request) {
	var req evalRequest
	if !a.decode(w, r, &req) {
		return
	}
	expr, err := parser.Parse(req.Formula)
	if err != nil {
		a.writeError(w, err)
		return
	}
	value, err := decl.Evaluate(expr, req.Vars)
	if err != nil {
		a.writeError(w, err)
		return
	}
	resp := evalResponse{Display: viz.FormatNumber(value)}
	if !math.IsNaN(value) && !math.IsInf(value, 0) {
		resp.Value = &value
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *FermiApi) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if !a.decode(w, r, &req) {
		return
	}
	resp, err := a.simulate(req)
	if err != nil {
		a.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *FermiApi) handleHistogram(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if !a.decode(w, r, &req) {
		return
	}
	resp, err := a.simulate(req)
	if err != nil {
		a.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := a.plotter.Render(w, resp.SimulationResult); err != nil {
		a.logger.Error("Failed to render histogram", "error", err)
	}
}

func (a *FermiApi) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if !a.decode(w, r, &req) {
		return
	}
	seed, err := a.seedFor(req.Seed)
	if err != nil {
		a.writeError(w, err)
		return
	}

	scenarios := make([]runtime.Scenario, len(req.Scenarios))
	for i, sr := range req.Scenarios {
		expr, bindings, n, err := a.prepare(sr)
		if err != nil {
			a.writeError(w, fmt.Errorf("scenario %d: %w", i, err))
			return
		}
		name := sr.Name
		if name == "" {
			name = sr.Formula
		}
		scenarios[i] = runtime.Scenario{
			Name:     name,
			Expr:     expr,
			Bindings: bindings,
			Samples:  n,
			Bins:     sr.Bins,
			Seed:     sr.Seed,
		}
	}

	results, err := runtime.SimulateAll(r.Context(), seed, scenarios, runtime.WithLogger(a.logger))
	if err != nil {
		a.writeError(w, err)
		return
	}
	resp := batchResponse{Seed: seed, Results: make([]batchItem, len(results))}
	for i, res := range results {
		resp.Results[i] = batchItem{Name: res.Name, Seed: res.Seed, Result: res.Result}
		if res.Err != nil {
			_, body := classifyError(res.Err)
			resp.Results[i].Error = &body
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// prepare parses the formula and aligns the bindings with its variables,
// filling unbound ones with the default distribution.
func (a *FermiApi) prepare(req simulateRequest) (decl.Expr, *core.Bindings, int, error) {
	expr, err := parser.Parse(req.Formula)
	if err != nil {
		return nil, nil, 0, err
	}
	vars := decl.ExtractVariables(expr)
	for _, name := range req.Distributions.Missing(vars) {
		a.logger.Debug("Using default distribution", "variable", name)
	}
	bindings := req.Distributions.Sync(vars)
	for _, name := range bindings.Names() {
		d, _ := bindings.Get(name)
		if err := core.Validate(d); err != nil {
			a.logger.Warn("Suspicious distribution", "variable", name, "error", err)
		}
	}

	n := req.Samples
	if n == 0 {
		n = a.config.DefaultSamples
	}
	if n < 0 || n > a.config.MaxSamples {
		return nil, nil, 0, fmt.Errorf("%w: samples must be between 1 and %d, got %d", errBadRequest, a.config.MaxSamples, n)
	}
	return expr, bindings, n, nil
}

func (a *FermiApi) simulate(req simulateRequest) (*simulateResponse, error) {
	expr, bindings, n, err := a.prepare(req)
	if err != nil {
		return nil, err
	}
	seed, err := a.seedFor(req.Seed)
	if err != nil {
		return nil, err
	}
	result, err := runtime.Simulate(expr, bindings, n,
		runtime.WithSeed(seed),
		runtime.WithBins(req.Bins),
		runtime.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	return &simulateResponse{SimulationResult: result, Seed: seed, Distributions: bindings}, nil
}

func (a *FermiApi) seedFor(requested uint64) (uint64, error) {
	if requested != 0 {
		return requested, nil
	}
	if a.config.Seed != 0 {
		return a.config.Seed, nil
	}
	return core.NewSeed()
}

var errBadRequest = errors.New("bad request")

func (a *FermiApi) decode(w http.ResponseWriter, r *http.Request, into any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(into); err != nil {
		a.writeError(w, fmt.Errorf("%w: %w", errBadRequest, err))
		return false
	}
	return true
}

func (a *FermiApi) writeError(w http.ResponseWriter, err error) {
	status, body := classifyError(err)
	if status >= 500 {
		a.logger.Error("Request failed", "error", err)
	}
	writeJSON(w, status, body)
}

// classifyError maps engine errors onto HTTP status codes and a kind tag.
func classifyError(err error) (int, errorResponse) {
	body := errorResponse{Error: err.Error(), Kind: "Internal"}
	var syntaxErr *parser.SyntaxError
	var evalErr *decl.EvalError
	switch {
	case errors.As(err, &syntaxErr):
		body.Kind = "SyntaxError"
		body.Position = &syntaxErr.Pos
		return http.StatusBadRequest, body
	case errors.As(err, &evalErr):
		body.Kind = evalErr.Kind.String()
		return http.StatusBadRequest, body
	case errors.Is(err, core.ErrInvalidDistribution):
		body.Kind = "InvalidDistribution"
		return http.StatusBadRequest, body
	case errors.Is(err, errBadRequest):
		body.Kind = "BadRequest"
		return http.StatusBadRequest, body
	case errors.Is(err, runtime.ErrNoValidSamples):
		body.Kind = "NoValidSamples"
		return http.StatusUnprocessableEntity, body
	}
	return http.StatusInternalServerError, body
}

// writeJSON encodes v before committing the status, so an unencodable value
// becomes a 500 instead of an empty response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Error: fmt.Sprintf("encoding response: %v", err), Kind: "Internal"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}
