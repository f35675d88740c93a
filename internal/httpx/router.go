package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/AngelCh415/MMM_GO/internal/curve"
	"github.com/AngelCh415/MMM_GO/internal/export"
	"github.com/AngelCh415/MMM_GO/internal/forecast"
	"github.com/AngelCh415/MMM_GO/internal/funnel"
	"github.com/AngelCh415/MMM_GO/internal/models"
	"github.com/AngelCh415/MMM_GO/internal/observability"
	"github.com/AngelCh415/MMM_GO/internal/panels"
	"github.com/AngelCh415/MMM_GO/internal/store"
	"github.com/AngelCh415/MMM_GO/internal/utils"
)

type MediaSource interface {
	Media() []models.MediaChannel
	Channel(name string) (models.MediaChannel, error)
}

type Deps struct {
	Funnel       *funnel.Service
	Media        MediaSource
	Exporter     *export.Exporter
	Metrics      *observability.Metrics
	ForecastSeed int64
}

type simulateRequest struct {
	Allocation models.Allocation `json:"allocation"`
}

type effectResponse struct {
	Investment float64            `json:"investment"`
	Effect     float64            `json:"effect"`
	Sample     models.CurveSample `json:"sample"`
}

type mediaCurveResponse struct {
	Channel models.MediaChannel  `json:"channel"`
	Point   models.CurveSample   `json:"point"`
	Series  []models.CurveSample `json:"series"`
}

func NewRouter(log *slog.Logger, d Deps) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(middleware.Recoverer)
	mux.Use(d.Metrics.Middleware)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ready")) })
	if d.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	mux.Get("/profiles", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Funnel.Profiles())
	})

	mux.Get("/profiles/{name}", func(w http.ResponseWriter, r *http.Request) {
		p, err := d.Funnel.Profile(chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	})

	mux.Get("/profiles/{name}/kpis", func(w http.ResponseWriter, r *http.Request) {
		k, err := d.Funnel.KPIs(chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, k)
	})

	simulate := func(r *http.Request) (models.Simulation, error) {
		var req simulateRequest
		if r.ContentLength != 0 {
			dec := json.NewDecoder(r.Body)
			dec.DisallowUnknownFields()
			if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
				return models.Simulation{}, badRequest{err}
			}
		}
		return d.Funnel.Simulate(chi.URLParam(r, "name"), req.Allocation)
	}

	mux.Post("/simulate/{name}", func(w http.ResponseWriter, r *http.Request) {
		sim, err := simulate(r)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sim)
	})

	mux.Post("/simulate/{name}/export", func(w http.ResponseWriter, r *http.Request) {
		if !d.Exporter.Configured() {
			writeError(w, export.ErrSinkNotConfigured)
			return
		}
		sim, err := simulate(r)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := d.Exporter.Push(r.Context(), sim); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{"exported": sim.Profile, "rid": utils.RID(r.Context())})
	})

	mux.Get("/curve", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		min, err1 := floatDef(q.Get("min"), curve.ReferenceMin)
		max, err2 := floatDef(q.Get("max"), curve.ReferenceMax)
		count, err3 := intDef(q.Get("count"), curve.ReferenceCount)
		if err := errors.Join(err1, err2, err3); err != nil {
			writeError(w, badRequest{err})
			return
		}
		if err := curve.CheckDomain(min, max, count); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, curve.Series(min, max, count))
	})

	mux.Get("/curve/effect", func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("investment")
		if raw == "" {
			writeError(w, badRequest{errors.New("investment required")})
			return
		}
		x, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, badRequest{err})
			return
		}
		resp, err := effectAt(x)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})

	mux.Get("/media", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Media.Media())
	})

	mux.Get("/media/{channel}/curve", func(w http.ResponseWriter, r *http.Request) {
		ch, err := d.Media.Channel(chi.URLParam(r, "channel"))
		if err != nil {
			writeError(w, err)
			return
		}
		resp, err := effectAt(ch.Investment)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, mediaCurveResponse{
			Channel: ch,
			Point:   models.CurveSample{Investment: ch.Investment, Effect: resp.Effect},
			Series:  curve.ReferenceSeries(),
		})
	})

	mux.Get("/forecast", func(w http.ResponseWriter, r *http.Request) {
		seed := d.ForecastSeed
		if v := r.URL.Query().Get("seed"); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				writeError(w, badRequest{err})
				return
			}
			seed = n
		}
		writeJSON(w, http.StatusOK, forecast.Generate(seed))
	})

	mux.Get("/panels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, panels.Names())
	})

	mux.Get("/panels/{name}", func(w http.ResponseWriter, r *http.Request) {
		p, err := panels.Get(chi.URLParam(r, "name"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	})

	return mux
}

func effectAt(x float64) (effectResponse, error) {
	e, err := curve.EffectAtPoint(x)
	if err != nil {
		return effectResponse{}, err
	}
	s, err := curve.SampleAt(int(x))
	if err != nil {
		return effectResponse{}, err
	}
	return effectResponse{Investment: x, Effect: e, Sample: s}, nil
}

type badRequest struct{ err error }

func (b badRequest) Error() string { return b.err.Error() }
func (b badRequest) Unwrap() error { return b.err }

func statusFor(err error) int {
	var br badRequest
	switch {
	case errors.As(err, &br),
		errors.Is(err, funnel.ErrUnknownCategory),
		errors.Is(err, funnel.ErrOutOfBounds),
		errors.Is(err, curve.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrProfileNotFound),
		errors.Is(err, store.ErrChannelNotFound),
		errors.Is(err, panels.ErrPanelNotFound):
		return http.StatusNotFound
	case errors.Is(err, curve.ErrOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, export.ErrSinkNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// writeJSON codifica antes de escribir el header: un error de encoding
// termina en 500 y no en un 200 vacío.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", " ")
	if err := enc.Encode(v); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		b, _ := json.Marshal(map[string]string{"error": err.Error()})
		w.Write(b)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func floatDef(s string, d float64) (float64, error) {
	if s == "" {
		return d, nil
	}
	return strconv.ParseFloat(s, 64)
}

func intDef(s string, d int) (int, error) {
	if s == "" {
		return d, nil
	}
	return strconv.Atoi(s)
}
