// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mailer

import (
	"fmt"
	"html"
	"net/url"
	"time"
)

// ResetMail composes the password reset email. link is the front-end reset
// page; the token is appended as the "token" query parameter.
func ResetMail(to, link, token string, ttl time.Duration) Message {
	u := resetLink(link, token)
	mins := int(ttl.Minutes())

	text := fmt.Sprintf(
		"A password reset was requested for your BizDir account.\n\n"+
			"Open this link to choose a new password:\n%s\n\n"+
			"The link expires in %d minutes and can be used once. "+
			"If you did not ask for this, ignore this email.\n", u, mins)

	body := fmt.Sprintf(
		"<p>A password reset was requested for your BizDir account.</p>"+
			"<p><a href=\"%s\">Choose a new password</a></p>"+
			"<p>The link expires in %d minutes and can be used once. "+
			"If you did not ask for this, ignore this email.</p>", html.EscapeString(u), mins)

	return Message{
		To:      to,
		Subject: "Reset your BizDir password",
		Text:    text,
		HTML:    body,
	}
}

// resetLink appends token to link, keeping any existing query.
func resetLink(link, token string) string {
	u, err := url.Parse(link)
	if err != nil {
		return link + "?token=" + url.QueryEscape(token)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}
