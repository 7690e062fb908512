package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/migueltaller/Commagra-Planing/internal/model"
)

func TestJobFromRemote_SpanishKeys(t *testing.T) {
	j := jobFromRemote(map[string]any{
		"id":          "REMOT1",
		"cliente":     "Acme",
		"estado":      "En Corte",
		"montador":    "Juan / Pedro",
		"fecha":       "2026-08-01",
		"entrega":     "2026-09-01",
		"hora":        "Tarde",
		"pedido":      "P-7",
		"material":    "Granito",
		"color":       "3cm",
		"descripcion": "Encimera",
		"fileName":    "plano.pdf",
		"fileData":    "data:application/pdf;base64,AAA",
	})

	assert.Equal(t, "REMOT1", j.ID)
	assert.Equal(t, "Acme", j.ClientName)
	assert.Equal(t, model.StatusCutting, j.Status)
	assert.Equal(t, []string{"Juan", "Pedro"}, j.Workers)
	assert.Equal(t, "2026-08-01", j.CreationDate)
	assert.Equal(t, "2026-09-01", j.DeliveryDate)
	assert.Equal(t, "Tarde", j.TimeOfDay)
	assert.Equal(t, "P-7", j.OrderNumber)
	assert.Equal(t, "plano.pdf", j.Drawing.Name)
	assert.True(t, j.Exchange.IsZero())
	assert.True(t, j.SyncedToSheet)
}

func TestJobFromRemote_EnglishKeysAndStructuredFields(t *testing.T) {
	j := jobFromRemote(map[string]any{
		"id":           "REMOT2",
		"clientName":   "Beta",
		"status":       "urgent",
		"workers":      []any{"Ana", "  ", "Luis"},
		"creationDate": "2026-08-02",
		"deliveryDate": "2026-08-20",
		"drawing":      map[string]any{"name": "b.pdf", "data": "data:application/pdf;base64,BBB"},
		"createdAt":    float64(1756200000000),
	})

	assert.Equal(t, "Beta", j.ClientName)
	assert.Equal(t, model.StatusUrgent, j.Status)
	assert.Equal(t, []string{"Ana", "Luis"}, j.Workers)
	assert.Equal(t, "b.pdf", j.Drawing.Name)
	assert.Equal(t, int64(1756200000000), j.CreatedAt)
}

func TestJobFromRemote_EmptyRecordGetsDefaults(t *testing.T) {
	j := jobFromRemote(map[string]any{})

	assert.Len(t, j.ID, 6)
	assert.Equal(t, model.StatusPending, j.Status)
	assert.NotNil(t, j.Workers)
	assert.Empty(t, j.Workers)
	assert.NotZero(t, j.CreatedAt)
	assert.True(t, j.SyncedToSheet)
}

func TestJobFromRemote_UnknownStatusFallsBackToPending(t *testing.T) {
	j := jobFromRemote(map[string]any{"estado": "¿¿??"})
	assert.Equal(t, model.StatusPending, j.Status)
}
