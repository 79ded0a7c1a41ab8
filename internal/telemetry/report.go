// pattern: Imperative Shell

package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Patrick-Luo-THR/piksi-tools/internal/logging"
)

// DefaultEndpoint is the settings collection endpoint.
const DefaultEndpoint = "https://w096929iy3.execute-api.us-east-1.amazonaws.com/prof/catchConsole"

// requestTimeout bounds the synchronous POST so a dead endpoint cannot
// hang the caller indefinitely.
const requestTimeout = 30 * time.Second

// Reporter sends a one-shot, best-effort settings snapshot to the
// collection endpoint. Reporting never fails the caller: every problem,
// from a malformed snapshot to a 5xx response, is logged and swallowed.
type Reporter struct {
	endpoint string
	client   *http.Client
	log      *logging.ScopedLogger
}

// NewReporter creates a reporter posting to the given endpoint.
// An empty endpoint selects DefaultEndpoint.
func NewReporter(endpoint string, log *logging.ScopedLogger) *Reporter {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if log == nil {
		log = logging.NopLogger()
	}
	return &Reporter{
		endpoint: endpoint,
		client:   &http.Client{Timeout: requestTimeout},
		log:      log,
	}
}

// Report validates and flattens the settings snapshot, then issues a single
// synchronous POST. Malformed input aborts before any network traffic.
func (r *Reporter) Report(ctx context.Context, settings map[string]any) {
	r.log.Info("reporting settings")

	id, err := DeviceUUID(settings)
	if err != nil {
		r.log.Warn("failed to report settings", "error", err.Error())
		return
	}
	if _, err := uuid.Parse(id); err != nil {
		r.log.Warn("failed to report settings", "error", fmt.Sprintf("invalid device uuid: %v", err))
		return
	}

	flattened, err := Flatten(settings)
	if err != nil {
		r.log.Warn("failed to report settings", "error", err.Error())
		return
	}

	if err := r.post(ctx, id, flattened); err != nil {
		r.log.Warn("failed to report settings", "error", err.Error())
		return
	}

	r.log.Info("reported settings")
}

// post sends the two-element payload [uuid, settings].
func (r *Reporter) post(ctx context.Context, id string, settings map[string]any) error {
	body, err := json.Marshal([2]any{id, settings})
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-amz-docs-region", "us-east-1")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post settings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("settings endpoint returned %s", resp.Status)
	}
	return nil
}
