// Package sheet talks to the spreadsheet automation webhook. The endpoint
// is an opaque external script: pushes are fire-and-forget and pulls are
// consumed defensively, record by record.
package sheet

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/migueltaller/Commagra-Planing/internal/model"
)

// Action discriminates the push payload on the script side.
type Action string

const (
	ActionAdd    Action = "add"
	ActionUpdate Action = "update"
	ActionTest   Action = "test"
)

// endpointMarker distinguishes a deployed Apps Script execution URL from a
// pasted editor or share link. URLs without it are rejected before any
// network call.
const endpointMarker = "/exec"

var (
	ErrNoEndpoint    = errors.New("sheet: webhook url not configured")
	ErrMalformedFeed = errors.New("sheet: feed is not a job array")
)

// SettingsSource yields the current settings at call time, so saved
// changes take effect immediately without rebuilding the client.
type SettingsSource interface {
	Get() model.Settings
}

type Client struct {
	source SettingsSource
	httpc  *http.Client
	logger logrus.FieldLogger
}

func NewClient(source SettingsSource, logger logrus.FieldLogger) *Client {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Client{
		source: source,
		httpc:  &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// ValidEndpoint reports whether url looks like a deployed script endpoint.
func ValidEndpoint(rawURL string) bool {
	rawURL = strings.TrimSpace(rawURL)
	return rawURL != "" && strings.Contains(rawURL, endpointMarker)
}

// Push submits one job to the configured webhook. The transport is
// fire-and-forget: the response is deliberately not inspected, so true
// means only "dispatched without a transport error", never confirmed
// server-side acceptance. Failures are swallowed; the caller sees them
// only through the job's sync flag staying false.
func (c *Client) Push(ctx context.Context, j model.Job, action Action) bool {
	s := c.source.Get()
	if action != ActionTest && !s.SheetEnabled {
		return false
	}
	return c.send(ctx, s.SheetWebhookURL, payloadFor(j, action))
}

// TestEndpoint checks an explicit URL before it is saved in settings, by
// pushing a synthetic test record through the same path real jobs take.
func (c *Client) TestEndpoint(ctx context.Context, rawURL string) bool {
	return c.send(ctx, rawURL, testPayload(time.Now()))
}

func (c *Client) send(ctx context.Context, rawURL string, p payload) bool {
	if !ValidEndpoint(rawURL) {
		return false
	}
	body, err := json.Marshal(p)
	if err != nil {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimSpace(rawURL), bytes.NewReader(body))
	if err != nil {
		return false
	}
	// text/plain keeps the script side from choking on CORS preflight
	// when the same endpoint is hit from a browser.
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"job":    p.ID,
			"action": p.Action,
		}).Warn("sheet push failed")
		return false
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	c.logger.WithFields(logrus.Fields{
		"job":    p.ID,
		"action": p.Action,
	}).Debug("sheet push dispatched")
	return true
}

// Pull fetches the script's full job list and maps it into local records.
// A malformed or non-array response fails the whole pull; individual odd
// records are tolerated via defensive field mapping.
func (c *Client) Pull(ctx context.Context) ([]model.Job, error) {
	s := c.source.Get()
	if !ValidEndpoint(s.SheetWebhookURL) {
		return nil, ErrNoEndpoint
	}
	readURL, err := withReadAction(s.SheetWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("sheet: pull: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, readURL, nil)
	if err != nil {
		return nil, fmt.Errorf("sheet: pull: %w", err)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sheet: pull: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("sheet: pull: unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sheet: pull: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ErrMalformedFeed
	}

	jobs := make([]model.Job, 0, len(raw))
	for _, entry := range raw {
		var rec map[string]any
		if err := json.Unmarshal(entry, &rec); err != nil {
			// One bad row must not lose the rest of the sheet.
			continue
		}
		jobs = append(jobs, jobFromRemote(rec))
	}
	return jobs, nil
}

func withReadAction(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("action", "read")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// payload is the fixed field set the script expects: Spanish column keys
// plus the inline attachment contents.
type payload struct {
	Action      Action `json:"action"`
	ID          string `json:"id"`
	Montador    string `json:"montador"`
	Cliente     string `json:"cliente"`
	Material    string `json:"material"`
	Estado      string `json:"estado"`
	Descripcion string `json:"descripcion"`
	Fecha       string `json:"fecha"`
	Entrega     string `json:"entrega"`
	Hora        string `json:"hora"`
	Pedido      string `json:"pedido"`
	Color       string `json:"color"`
	FileName    string `json:"fileName"`
	FileData    string `json:"fileData"`
	DxfFileName string `json:"dxfFileName"`
	DxfFileData string `json:"dxfFileData"`
}

func payloadFor(j model.Job, action Action) payload {
	return payload{
		Action:      action,
		ID:          fallback(j.ID, "TEST-"+fmt.Sprint(time.Now().UnixMilli())),
		Montador:    fallback(j.WorkerLabel(), "SISTEMA"),
		Cliente:     fallback(j.ClientName, "PRUEBA"),
		Material:    fallback(j.Material, "-"),
		Estado:      string(fallbackStatus(j.Status)),
		Descripcion: j.Description,
		Fecha:       fallback(j.CreationDate, time.Now().Format("2006-01-02")),
		Entrega:     j.DeliveryDate,
		Hora:        j.TimeOfDay,
		Pedido:      j.OrderNumber,
		Color:       j.Color,
		FileName:    j.Drawing.Name,
		FileData:    j.Drawing.Data,
		DxfFileName: j.Exchange.Name,
		DxfFileData: j.Exchange.Data,
	}
}

func testPayload(now time.Time) payload {
	p := payloadFor(model.Job{}, ActionTest)
	p.ID = fmt.Sprintf("TEST-%d", now.UnixMilli())
	p.Descripcion = "Prueba de conexión"
	return p
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func fallbackStatus(s model.Status) model.Status {
	if s == "" {
		return model.StatusPending
	}
	return s
}
