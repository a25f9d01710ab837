// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package auth

import (
	"encoding/base64"
	"fmt"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

// Issuer is shown in authenticator apps next to the account name.
const Issuer = "BizDir"

// Enrollment is a freshly generated TOTP secret and its QR code.
type Enrollment struct {
	Secret    string `json:"secret"`
	URL       string `json:"otpauth_url"`
	QRCodePNG string `json:"qr_code_png"` // base64
}

// NewEnrollment generates a TOTP secret for account and renders its
// otpauth URL as a 256px QR code.
func NewEnrollment(account string) (*Enrollment, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      Issuer,
		AccountName: account,
	})
	if err != nil {
		return nil, fmt.Errorf("totp generate: %w", err)
	}

	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}

	return &Enrollment{
		Secret:    key.Secret(),
		URL:       key.URL(),
		QRCodePNG: base64.StdEncoding.EncodeToString(png),
	}, nil
}

// ValidateCode checks a TOTP code against secret.
func ValidateCode(code, secret string) bool {
	return totp.Validate(code, secret)
}
