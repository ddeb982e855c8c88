package queries

import (
	"context"
	"time"

	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
	"councilwatch/contexts/legislation/reconciliation-engine/ports"
)

// MembershipResolver answers "who belonged to this group on this date". It is
// the only component that performs the temporal interval query; expansion and
// roll-call reconciliation both go through it.
type MembershipResolver struct {
	Memberships ports.MembershipRepository
}

// ActiveMembers returns all memberships of the group whose interval covers
// asOf (start_date <= asOf <= end_date, open-ended when end_date is null).
func (r MembershipResolver) ActiveMembers(ctx context.Context, groupID int64, asOf time.Time) ([]entities.Membership, error) {
	return r.Memberships.GetActiveByGroup(ctx, groupID, asOf)
}

// ActivePoliticianIDs is a convenience over ActiveMembers returning the
// distinct politician ids.
func (r MembershipResolver) ActivePoliticianIDs(ctx context.Context, groupID int64, asOf time.Time) ([]int64, error) {
	members, err := r.ActiveMembers(ctx, groupID, asOf)
	if err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{}, len(members))
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		if _, ok := seen[m.PoliticianID]; ok {
			continue
		}
		seen[m.PoliticianID] = struct{}{}
		ids = append(ids, m.PoliticianID)
	}
	return ids, nil
}
