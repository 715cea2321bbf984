package service

import (
	"encoding/base64"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// buildPublicURL joins the configured public base with the QR landing
// path for a company/code pair.
func buildPublicURL(base, companyCode, code string) string {
	return strings.TrimRight(base, "/") + "/public/" + companyCode + "/" + code
}

// qrDataURL renders url as a 256px PNG data URL, ready for an <img> tag.
func qrDataURL(url string) (string, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
