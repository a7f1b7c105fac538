// Package identity defines the port to the external identity directory.
// The engine never inspects template contents; it only matches a live
// sample against opaque enrolled templates and receives back the token of
// the matched identity.
package identity

import (
	"bytes"
	"context"
	"time"

	id "rollcall/pkg/domain"
	"rollcall/pkg/platform/sentinel"
)

//go:generate mockgen -source=directory.go -destination=mocks/mocks.go -package=mocks Directory

// EnrolledTemplate pairs an identity token with the opaque biometric
// template registered for it.
type EnrolledTemplate struct {
	Token    id.IdentityToken
	Template []byte
}

// Directory is the external identity collaborator. Mock implementations
// use deterministic data and a configurable latency to mimic real-world
// calls.
type Directory interface {
	// ListEnrolled returns every template currently registered.
	ListEnrolled(ctx context.Context) ([]EnrolledTemplate, error)

	// Verify matches liveSample against the given templates and returns
	// the token of the matched identity, or sentinel.ErrNoMatch.
	Verify(ctx context.Context, liveSample []byte, templates []EnrolledTemplate) (id.IdentityToken, error)
}

// MockDirectory serves a fixed template set and matches by byte equality.
type MockDirectory struct {
	Latency   time.Duration
	Templates []EnrolledTemplate
	// Unavailable makes every call fail, for exercising failure paths.
	Unavailable bool
}

func (d MockDirectory) ListEnrolled(ctx context.Context) ([]EnrolledTemplate, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	if d.Unavailable {
		return nil, sentinel.ErrUnavailable
	}
	return d.Templates, nil
}

func (d MockDirectory) Verify(ctx context.Context, liveSample []byte, templates []EnrolledTemplate) (id.IdentityToken, error) {
	if err := d.wait(ctx); err != nil {
		return "", err
	}
	if d.Unavailable {
		return "", sentinel.ErrUnavailable
	}
	for _, t := range templates {
		if bytes.Equal(liveSample, t.Template) {
			return t.Token, nil
		}
	}
	return "", sentinel.ErrNoMatch
}

// wait sleeps for the configured latency but respects cancellation, so a
// caller-imposed deadline is observable in tests.
func (d MockDirectory) wait(ctx context.Context) error {
	if d.Latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d.Latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
