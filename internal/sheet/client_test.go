package sheet

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migueltaller/Commagra-Planing/internal/model"
)

type stubSettings struct{ s model.Settings }

func (st stubSettings) Get() model.Settings { return st.s }

func enabledSettings(url string) stubSettings {
	return stubSettings{s: model.Settings{SheetEnabled: true, SheetWebhookURL: url}}
}

func sampleJob() model.Job {
	return model.Job{
		ID:           "ABC123",
		Workers:      []string{"Juan", "Pedro"},
		CreationDate: "2026-08-01",
		DeliveryDate: "2026-09-01",
		TimeOfDay:    "Mañana",
		OrderNumber:  "P-42",
		ClientName:   "Marmoles Lopez",
		Material:     "Granito",
		Color:        "2cm",
		Description:  "Encimera",
		Status:       model.StatusCutting,
		Drawing:      model.Attachment{Name: "plano.pdf", Data: "data:application/pdf;base64,AAA"},
		Exchange:     model.Attachment{Name: "corte.dxf", Data: "data:application/dxf;base64,BBB"},
	}
}

func TestValidEndpoint(t *testing.T) {
	assert.True(t, ValidEndpoint("https://script.google.com/macros/s/abc/exec"))
	assert.True(t, ValidEndpoint("  https://script.google.com/macros/s/abc/exec?x=1 "))
	assert.False(t, ValidEndpoint(""))
	assert.False(t, ValidEndpoint("https://script.google.com/macros/s/abc/edit"))
	assert.False(t, ValidEndpoint("https://docs.google.com/spreadsheets/d/xyz"))
}

func TestPush_SendsSpanishColumnPayload(t *testing.T) {
	var got payload
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(enabledSettings(srv.URL+"/exec"), nil)
	ok := c.Push(context.Background(), sampleJob(), ActionUpdate)
	require.True(t, ok)

	assert.Equal(t, "text/plain", contentType)
	assert.Equal(t, ActionUpdate, got.Action)
	assert.Equal(t, "ABC123", got.ID)
	assert.Equal(t, "Juan / Pedro", got.Montador)
	assert.Equal(t, "Marmoles Lopez", got.Cliente)
	assert.Equal(t, "En Corte", got.Estado)
	assert.Equal(t, "2026-09-01", got.Entrega)
	assert.Equal(t, "plano.pdf", got.FileName)
	assert.Equal(t, "corte.dxf", got.DxfFileName)
}

func TestPush_DisabledSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := NewClient(stubSettings{s: model.Settings{SheetEnabled: false, SheetWebhookURL: srv.URL + "/exec"}}, nil)
	assert.False(t, c.Push(context.Background(), sampleJob(), ActionAdd))
	assert.Zero(t, calls.Load())
}

func TestPush_InvalidEndpointSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	// No /exec marker: the pasted URL is not a deployed script.
	c := NewClient(enabledSettings(srv.URL+"/edit"), nil)
	assert.False(t, c.Push(context.Background(), sampleJob(), ActionAdd))
	assert.Zero(t, calls.Load())
}

func TestPush_IgnoresResponseStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	// Fire-and-forget: a dispatched request counts even when the script
	// answers with an error.
	c := NewClient(enabledSettings(srv.URL+"/exec"), nil)
	assert.True(t, c.Push(context.Background(), sampleJob(), ActionAdd))
}

func TestPush_TransportErrorReturnsFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(enabledSettings(srv.URL+"/exec"), nil)
	assert.False(t, c.Push(context.Background(), sampleJob(), ActionAdd))
}

func TestTestEndpoint_BypassesEnabledFlag(t *testing.T) {
	var got payload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
	}))
	defer srv.Close()

	// Sync disabled in settings, but an explicit test still goes out.
	c := NewClient(stubSettings{s: model.Settings{SheetEnabled: false}}, nil)
	ok := c.TestEndpoint(context.Background(), srv.URL+"/exec")
	require.True(t, ok)
	assert.Equal(t, ActionTest, got.Action)
	assert.Contains(t, got.ID, "TEST-")
	assert.Equal(t, "SISTEMA", got.Montador)
}

func TestPull_ReplacesFromFeed(t *testing.T) {
	feed := `[
		{"id":"REMOT1","cliente":"Acme","estado":"Pendiente","montador":"Juan / Pedro","fecha":"2026-08-01"},
		{"clientName":"Beta","status":"urgent","workers":["Ana"]}
	]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "read", r.URL.Query().Get("action"))
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	c := NewClient(enabledSettings(srv.URL+"/exec"), nil)
	jobs, err := c.Pull(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, "REMOT1", jobs[0].ID)
	assert.Equal(t, "Acme", jobs[0].ClientName)
	assert.Equal(t, model.StatusPending, jobs[0].Status)
	assert.Equal(t, []string{"Juan", "Pedro"}, jobs[0].Workers)
	assert.True(t, jobs[0].SyncedToSheet)

	assert.Equal(t, "Beta", jobs[1].ClientName)
	assert.Equal(t, model.StatusUrgent, jobs[1].Status)
	assert.Len(t, jobs[1].ID, 6) // generated locally
}

func TestPull_NoEndpointConfigured(t *testing.T) {
	c := NewClient(stubSettings{}, nil)
	_, err := c.Pull(context.Background())
	assert.ErrorIs(t, err, ErrNoEndpoint)
}

func TestPull_NonArrayFeedFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":"quota exceeded"}`))
	}))
	defer srv.Close()

	c := NewClient(enabledSettings(srv.URL+"/exec"), nil)
	_, err := c.Pull(context.Background())
	assert.ErrorIs(t, err, ErrMalformedFeed)
}

func TestPull_BadRecordSkipped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`["just a string", {"cliente":"Acme"}]`))
	}))
	defer srv.Close()

	c := NewClient(enabledSettings(srv.URL+"/exec"), nil)
	jobs, err := c.Pull(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "Acme", jobs[0].ClientName)
}

func TestPull_NonOKStatusFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(enabledSettings(srv.URL+"/exec"), nil)
	_, err := c.Pull(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}
