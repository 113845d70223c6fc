package notify

import (
	"context"
	"log"
)

// Event names a lifecycle transition worth telling the profile owner about.
type Event string

const (
	EventProfileApproved Event = "profile_approved"
	EventProfileFrozen   Event = "profile_frozen"
	EventProfileUnfrozen Event = "profile_unfrozen"
)

// Notifier delivers lifecycle notifications. Delivery failures must never
// fail the transition that triggered them.
type Notifier interface {
	Notify(ctx context.Context, ev Event, email, name string)
}

// LogNotifier writes notifications to the process log. The default in dev
// and in tests.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, ev Event, email, name string) {
	log.Printf("notify %s -> %s (%s)", ev, email, name)
}

// Async decorates a Notifier so delivery happens off the request goroutine.
type Async struct {
	Inner Notifier
}

func (a Async) Notify(ctx context.Context, ev Event, email, name string) {
	go a.Inner.Notify(context.WithoutCancel(ctx), ev, email, name)
}
