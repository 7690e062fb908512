package sheet

import (
	"strings"
	"time"

	"github.com/migueltaller/Commagra-Planing/internal/model"
)

// jobFromRemote maps one loosely-typed remote record onto a fully-typed
// Job. The script's schema drifts (Spanish vs English keys, missing
// columns, stringly-typed numbers), so every field is read with a fallback
// default instead of failing the pull on a single odd record. Pulled jobs
// are by definition already on the sheet, so they come back synced.
func jobFromRemote(rec map[string]any) model.Job {
	j := model.Job{
		ID:            str(rec, "id"),
		Workers:       workers(rec),
		CreationDate:  str(rec, "creationDate", "fecha"),
		DeliveryDate:  str(rec, "deliveryDate", "entrega", "fechaEntrega"),
		TimeOfDay:     str(rec, "time", "hora"),
		OrderNumber:   str(rec, "orderNumber", "pedido"),
		ClientName:    str(rec, "clientName", "cliente"),
		Material:      str(rec, "material"),
		Color:         str(rec, "color"),
		Description:   str(rec, "description", "descripcion"),
		Status:        model.ParseStatus(str(rec, "status", "estado")),
		Drawing:       attachment(rec, "drawing", "fileName", "fileData"),
		Exchange:      attachment(rec, "exchange", "dxfFileName", "dxfFileData"),
		CreatedAt:     millis(rec, "createdAt"),
		SyncedToSheet: true,
	}
	if j.ID == "" {
		j.ID = model.NewJobID()
	}
	if j.CreatedAt == 0 {
		j.CreatedAt = time.Now().UnixMilli()
	}
	return j
}

func str(rec map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := rec[k].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// workers accepts either the structured list or the joined display string
// older payloads carry.
func workers(rec map[string]any) []string {
	if raw, ok := rec["workers"].([]any); ok {
		out := make([]string, 0, len(raw))
		for _, v := range raw {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	if joined := str(rec, "montador", "operario"); joined != "" {
		parts := strings.Split(joined, "/")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return []string{}
}

func attachment(rec map[string]any, objKey, nameKey, dataKey string) model.Attachment {
	if obj, ok := rec[objKey].(map[string]any); ok {
		a := model.Attachment{
			Name: str(obj, "name"),
			Data: str(obj, "data"),
		}
		if !a.IsZero() {
			return a
		}
	}
	return model.Attachment{
		Name: str(rec, nameKey),
		Data: str(rec, dataKey),
	}
}

func millis(rec map[string]any, key string) int64 {
	switch v := rec[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	default:
		return 0
	}
}
