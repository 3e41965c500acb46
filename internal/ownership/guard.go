// Package ownership decides read/write permission over already-loaded
// records by comparing the ownership chain (seller -> client -> order).
package ownership

import "github.com/vendora/salesdesk/internal/domain"

// Owned is any record attributable to a single owning seller.
type Owned interface {
	OwnerID() int64
}

// Authorize allows the action iff the actor owns the entity. Callers
// must handle not-found before invoking it; a missing record is never
// reported as unauthorized.
func Authorize(actorID int64, entity Owned) error {
	if entity == nil || entity.OwnerID() != actorID {
		return domain.ErrUnauthorized
	}
	return nil
}
