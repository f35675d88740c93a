package export

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/AngelCh415/MMM_GO/internal/models"
)

const SignatureHeader = "X-Signature"

var (
	ErrSinkNotConfigured = errors.New("sink not configured")
	ErrSinkRejected      = errors.New("export sink non-2xx")
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Recorder interface {
	Exported(ok bool)
}

// Exporter empuja snapshots de simulación firmados con HMAC-SHA256.
type Exporter struct {
	c      HTTPClient
	url    string
	secret string
	log    *slog.Logger
	rec    Recorder
}

func NewExporter(c HTTPClient, url, secret string, log *slog.Logger, rec Recorder) *Exporter {
	return &Exporter{c: c, url: url, secret: secret, log: log, rec: rec}
}

func (e *Exporter) Configured() bool { return e != nil && e.url != "" && e.secret != "" }

func (e *Exporter) Push(ctx context.Context, sim models.Simulation) error {
	if !e.Configured() {
		return ErrSinkNotConfigured
	}
	err := e.push(ctx, sim)
	if e.rec != nil {
		e.rec.Exported(err == nil)
	}
	if err != nil {
		e.log.Warn("export failed", slog.String("profile", sim.Profile), slog.String("err", err.Error()))
		return err
	}
	e.log.Info("export complete", slog.String("profile", sim.Profile))
	return nil
}

func (e *Exporter) push(ctx context.Context, sim models.Simulation) error {
	b, err := json.Marshal(sim)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, Sign(e.secret, b))
	resp, err := e.c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: %d body=%s", ErrSinkRejected, resp.StatusCode, string(body))
	}
	return nil
}

// Sign returns hex(HMAC-SHA256(secret, body)).
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
