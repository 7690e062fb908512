// Package notify builds the WhatsApp workshop report and decides where it
// should go. The server never sends anything itself: it returns deep links
// and the client opens one after the user confirms, so a status mutation
// never depends on a blocking prompt.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/migueltaller/Commagra-Planing/internal/model"
)

// Mode tells the client how to deliver the plan.
type Mode string

const (
	// ModeAuto: exactly one destination, open it directly.
	ModeAuto Mode = "auto"
	// ModeChoose: several destinations configured, the user picks one.
	ModeChoose Mode = "choose"
	// ModeOff: notifications disabled, nothing to open.
	ModeOff Mode = "off"
)

type Option struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type Plan struct {
	Mode    Mode     `json:"mode"`
	Message string   `json:"message"`
	Options []Option `json:"options"`
}

const manualLabel = "Envío libre"

// BuildMessage renders the fixed multi-line report for a job. The template
// is deliberately stable: the shop floor reads these on small screens.
func BuildMessage(j model.Job) string {
	order := j.OrderNumber
	if order == "" {
		order = "S/N"
	}
	material := j.Material
	if j.Color != "" {
		material = fmt.Sprintf("%s (%s)", j.Material, j.Color)
	}
	var b strings.Builder
	b.WriteString("*COMMAGRA - REPORTE TALLER* ⚒️\n\n")
	fmt.Fprintf(&b, "*Estado:* %s 🚨\n", strings.ToUpper(string(j.Status)))
	fmt.Fprintf(&b, "*Cliente:* %s\n", j.ClientName)
	fmt.Fprintf(&b, "*Material:* %s\n", material)
	fmt.Fprintf(&b, "*Operario:* %s\n", j.WorkerLabel())
	fmt.Fprintf(&b, "*Pedido:* %s\n", order)
	if j.DeliveryDate != "" {
		fmt.Fprintf(&b, "*Entrega:* %s\n", j.DeliveryDate)
	}
	b.WriteString("\n_Mensaje enviado desde la App Interna Commagra_")
	return b.String()
}

// DirectLink opens a chat with one phone number, message pre-filled.
func DirectLink(number, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", digitsOnly(number), url.QueryEscape(message))
}

// ComposeLink opens the generic composer so the user picks a contact or
// group manually.
func ComposeLink(message string) string {
	return "https://wa.me/?text=" + url.QueryEscape(message)
}

// BuildPlan applies exactly one of three policies based on what is
// configured: one destination → auto direct send, manual-only → auto
// generic compose, several options → present a choice.
func BuildPlan(j model.Job, s model.Settings) Plan {
	if !s.NotificationsEnabled {
		return Plan{Mode: ModeOff, Options: []Option{}}
	}

	msg := BuildMessage(j)
	opts := []Option{}
	for i, c := range s.Recipients() {
		label := strings.TrimSpace(c.Label)
		if label == "" {
			label = fmt.Sprintf("Contacto %d", i+1)
		}
		opts = append(opts, Option{Label: label, URL: DirectLink(c.Number, msg)})
	}
	if s.ManualSendEnabled || len(opts) == 0 {
		opts = append(opts, Option{Label: manualLabel, URL: ComposeLink(msg)})
	}

	mode := ModeAuto
	if len(opts) > 1 {
		mode = ModeChoose
	}
	return Plan{Mode: mode, Message: msg, Options: opts}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
