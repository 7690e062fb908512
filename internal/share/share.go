// Package share builds the remote-access surface: the app URL as a QR
// image plus a copyable WhatsApp link, so phones on the shop floor can
// reach the same instance.
package share

import "net/url"

const qrEndpoint = "https://api.qrserver.com/v1/create-qr-code/"

// Info is what the share modal needs to render.
type Info struct {
	URL      string `json:"url"`
	QR       string `json:"qr"`
	WhatsApp string `json:"whatsapp"`
}

func InfoFor(pageURL string) Info {
	return Info{
		URL:      pageURL,
		QR:       QRImageURL(pageURL),
		WhatsApp: "https://wa.me/?text=" + url.QueryEscape(pageURL),
	}
}

// QRImageURL points at the third-party QR generator; the image itself is
// never stored.
func QRImageURL(pageURL string) string {
	return qrEndpoint + "?size=300x300&data=" + url.QueryEscape(pageURL)
}
