// Package mail sends transactional email.
//
// Mail is the provider contract; SMTP implements it over a relay. Dispatcher
// sits in front of a Mail and delivers messages off the request path.
package mail

import (
	"context"
	"io"
)

// Message is a single plaintext email.
type Message struct {
	From     string
	To       []string
	Subject  string
	TextBody string
}

type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}

// Sender is what business code depends on. Dispatch must not block on
// delivery.
type Sender interface {
	Dispatch(msg Message)
}
