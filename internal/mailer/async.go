// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mailer

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Async hands messages to a wrapped Sender in the background so callers
// return in the same time whether or not mail goes out. Delivery errors
// are logged, never returned.
type Async struct {
	next    Sender
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewAsync wraps next. Each delivery gets at most timeout.
func NewAsync(next Sender, timeout time.Duration) *Async {
	return &Async{next: next, timeout: timeout}
}

// Send queues msg and returns immediately. The delivery outlives ctx's
// cancellation but keeps its values.
func (a *Async) Send(ctx context.Context, msg Message) error {
	ctx = context.WithoutCancel(ctx)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, a.timeout)
		defer cancel()
		if err := a.next.Send(ctx, msg); err != nil {
			slog.Error("mail delivery failed", "to", msg.To, "subject", msg.Subject, "error", err)
		}
	}()
	return nil
}

// Wait blocks until every queued delivery has finished.
func (a *Async) Wait() {
	a.wg.Wait()
}
