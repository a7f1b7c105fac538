package member

import (
	"context"
	"errors"
	"log/slog"

	id "rollcall/pkg/domain"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/audit"
	"rollcall/pkg/platform/sentinel"
	"rollcall/pkg/requestcontext"
)

// Service owns the membership operations the reconciliation flow depends
// on: creation, enrollment binding, and token resolution.
type Service struct {
	store          Store
	logger         *slog.Logger
	auditPublisher audit.Publisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) { s.auditPublisher = publisher }
}

func NewService(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("member store is required")
	}
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) Create(ctx context.Context, fullName string) (*Member, error) {
	m := &Member{
		ID:        id.NewMemberID(),
		FullName:  fullName,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, m); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create member")
	}
	return m, nil
}

func (s *Service) Get(ctx context.Context, memberID id.MemberID) (*Member, error) {
	m, err := s.store.Get(ctx, memberID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "member not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get member")
	}
	return m, nil
}

// FindByToken resolves a verified identity token back to its member.
func (s *Service) FindByToken(ctx context.Context, token id.IdentityToken) (*Member, error) {
	return s.store.FindByToken(ctx, token)
}

// Enroll binds the identity token assigned by the directory at enrollment.
// A token already bound elsewhere is a conflict.
func (s *Service) Enroll(ctx context.Context, memberID id.MemberID, token id.IdentityToken) (*Member, error) {
	if _, err := s.Get(ctx, memberID); err != nil {
		return nil, err
	}
	err := s.store.BindToken(ctx, memberID, token)
	if errors.Is(err, sentinel.ErrConflict) {
		return nil, dErrors.New(dErrors.CodeConflict, "identity token is already bound to another member")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to bind identity token")
	}

	audit.Log(ctx, s.logger, s.auditPublisher, audit.Event{
		Category:  audit.CategorySecurity,
		Timestamp: requestcontext.Now(ctx),
		Action:    audit.ActionMemberEnrolled,
		MemberID:  memberID.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
	return s.Get(ctx, memberID)
}
