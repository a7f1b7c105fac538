// Package member exposes the read side of the membership subsystem that
// reconciliation needs: the member identifier and, when enrolled, the
// opaque identity token binding the member to a biometric template.
package member

import (
	"time"

	id "rollcall/pkg/domain"
)

// Member is a person eligible to check in.
type Member struct {
	ID       id.MemberID
	FullName string
	// IdentityToken is nil until the member enrolls in the identity
	// directory. Members without one cannot use face check-in.
	IdentityToken *id.IdentityToken
	CreatedAt     time.Time
}

// IsEnrolled reports whether the member has an identity template on file.
func (m *Member) IsEnrolled() bool {
	return m.IdentityToken != nil && *m.IdentityToken != ""
}
