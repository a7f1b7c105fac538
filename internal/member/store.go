package member

import (
	"context"

	id "rollcall/pkg/domain"
)

// Store persists members. Missing members surface as sentinel.ErrNotFound;
// FindByToken with an unknown token likewise.
type Store interface {
	Create(ctx context.Context, m *Member) error
	Get(ctx context.Context, memberID id.MemberID) (*Member, error)
	// FindByToken resolves a verified identity token back to the member it
	// belongs to.
	FindByToken(ctx context.Context, token id.IdentityToken) (*Member, error)
	// BindToken records the identity token assigned at enrollment. A token
	// belongs to at most one member.
	BindToken(ctx context.Context, memberID id.MemberID, token id.IdentityToken) error
}
