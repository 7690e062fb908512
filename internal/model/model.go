package model

import (
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Status drives both the workshop workflow and the visual grouping in the
// UI. Wire values are the Spanish labels the sheet script and any persisted
// data already use.
type Status string

const (
	StatusPending  Status = "Pendiente"
	StatusCutting  Status = "En Corte"
	StatusFinished Status = "Acabado"
	StatusUrgent   Status = "Urgente"

	// StatusArchived is the soft-delete terminal state. Archived jobs stay
	// in storage but are excluded from default views and counts.
	StatusArchived Status = "Archivada"
)

// Statuses lists the workflow statuses in display order, archive excluded.
func Statuses() []Status {
	return []Status{StatusPending, StatusCutting, StatusFinished, StatusUrgent}
}

// ParseStatus maps loose remote/user input onto a canonical status. The
// sheet endpoint is an opaque script, so English synonyms and arbitrary
// casing are tolerated; anything unrecognized falls back to pending.
func ParseStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pendiente", "pending":
		return StatusPending
	case "en corte", "encorte", "corte", "cutting":
		return StatusCutting
	case "acabado", "finished", "done":
		return StatusFinished
	case "urgente", "urgent":
		return StatusUrgent
	case "archivada", "archivado", "archived":
		return StatusArchived
	default:
		return StatusPending
	}
}

const (
	idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	idLength   = 6
)

// NewJobID returns a random 6-char upper-alphanumeric token. Not globally
// unique across devices; collisions are accepted at this scale.
func NewJobID() string {
	return gonanoid.MustGenerate(idAlphabet, idLength)
}

// Attachment is a drawing file embedded inline as a data URL. The zero
// value means "no attachment"; there is no external file storage.
type Attachment struct {
	Name string `json:"name"`
	Data string `json:"data,omitempty"`
}

func (a Attachment) IsZero() bool {
	return a.Name == "" && a.Data == ""
}

// Job is a single work order tracked by the workshop.
type Job struct {
	ID           string     `json:"id"`
	Workers      []string   `json:"workers"`
	CreationDate string     `json:"creationDate"`
	DeliveryDate string     `json:"deliveryDate"`
	TimeOfDay    string     `json:"time,omitempty"`
	OrderNumber  string     `json:"orderNumber,omitempty"`
	ClientName   string     `json:"clientName"`
	Material     string     `json:"material,omitempty"`
	Color        string     `json:"color,omitempty"` // color or slab thickness
	Description  string     `json:"description,omitempty"`
	Status       Status     `json:"status"`
	Drawing      Attachment `json:"drawing"`  // PDF plan
	Exchange     Attachment `json:"exchange"` // DXF cut file
	CreatedAt    int64      `json:"createdAt"` // unix millis, set once

	// SyncedToSheet is eventually consistent: false immediately after any
	// local mutation, true only once a push was dispatched successfully.
	SyncedToSheet bool `json:"syncedToSheet"`
}

// WorkerLabel joins the assigned workers into the single display string
// used on boards, messages and the sheet.
func (j Job) WorkerLabel() string {
	return strings.Join(j.Workers, " / ")
}

func (j Job) Archived() bool {
	return j.Status == StatusArchived
}

// Contact is a named WhatsApp recipient.
type Contact struct {
	Label  string `json:"label"`
	Number string `json:"number"`
}

func (c Contact) Configured() bool {
	return strings.TrimSpace(c.Number) != ""
}

// Settings is the user-configurable record persisted alongside the job
// list. It is replaced wholesale on every save; fields added later simply
// default when absent from older persisted data.
type Settings struct {
	ContactOne           Contact `json:"contactOne"`
	ContactTwo           Contact `json:"contactTwo"`
	ManualSendEnabled    bool    `json:"manualSendEnabled"`
	NotificationsEnabled bool    `json:"notificationsEnabled"`
	SheetEnabled         bool    `json:"sheetEnabled"`
	SheetWebhookURL      string  `json:"sheetWebhookUrl"`
}

func DefaultSettings() Settings {
	return Settings{NotificationsEnabled: true}
}

// Recipients returns the configured contacts in slot order.
func (s Settings) Recipients() []Contact {
	out := make([]Contact, 0, 2)
	if s.ContactOne.Configured() {
		out = append(out, s.ContactOne)
	}
	if s.ContactTwo.Configured() {
		out = append(out, s.ContactTwo)
	}
	return out
}
