package queries_test

import (
	"context"
	"testing"
	"time"

	"councilwatch/contexts/legislation/reconciliation-engine/adapters/memory"
	"councilwatch/contexts/legislation/reconciliation-engine/application/queries"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestActivePoliticianIDsIntervalBoundaries(t *testing.T) {
	store := memory.NewStore()
	end := date(2024, 6, 30)
	store.SetMembership(entities.Membership{
		ID: 1, PoliticianID: 501, GroupID: 8,
		StartDate: date(2024, 1, 1), EndDate: &end,
	})

	resolver := queries.MembershipResolver{Memberships: store}
	ctx := context.Background()

	cases := []struct {
		asOf   time.Time
		active bool
	}{
		{date(2023, 12, 31), false},
		{date(2024, 1, 1), true},
		{date(2024, 3, 15), true},
		{date(2024, 6, 30), true},
		{date(2024, 7, 1), false},
	}
	for _, c := range cases {
		ids, err := resolver.ActivePoliticianIDs(ctx, 8, c.asOf)
		if err != nil {
			t.Fatalf("resolve at %s: %v", c.asOf.Format("2006-01-02"), err)
		}
		if got := len(ids) == 1; got != c.active {
			t.Fatalf("active at %s = %v, want %v", c.asOf.Format("2006-01-02"), got, c.active)
		}
	}
}

func TestActivePoliticianIDsOpenEndedMembership(t *testing.T) {
	store := memory.NewStore()
	store.SetMembership(entities.Membership{
		ID: 1, PoliticianID: 501, GroupID: 8, StartDate: date(2024, 1, 1),
	})

	resolver := queries.MembershipResolver{Memberships: store}
	ids, err := resolver.ActivePoliticianIDs(context.Background(), 8, date(2030, 1, 1))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("open-ended membership must stay active, got %v", ids)
	}
}

func TestActivePoliticianIDsDeduplicates(t *testing.T) {
	store := memory.NewStore()
	// Two overlapping membership rows for the same politician.
	store.SetMembership(entities.Membership{ID: 1, PoliticianID: 501, GroupID: 8, StartDate: date(2024, 1, 1)})
	store.SetMembership(entities.Membership{ID: 2, PoliticianID: 501, GroupID: 8, StartDate: date(2024, 2, 1)})

	resolver := queries.MembershipResolver{Memberships: store}
	ids, err := resolver.ActivePoliticianIDs(context.Background(), 8, date(2024, 3, 1))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected deduplicated ids, got %v", ids)
	}
}

func TestActivePoliticianIDsScopedToGroup(t *testing.T) {
	store := memory.NewStore()
	store.SetMembership(entities.Membership{ID: 1, PoliticianID: 501, GroupID: 8, StartDate: date(2024, 1, 1)})
	store.SetMembership(entities.Membership{ID: 2, PoliticianID: 502, GroupID: 9, StartDate: date(2024, 1, 1)})

	resolver := queries.MembershipResolver{Memberships: store}
	ids, err := resolver.ActivePoliticianIDs(context.Background(), 8, date(2024, 3, 1))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(ids) != 1 || ids[0] != 501 {
		t.Fatalf("expected only group 8 members, got %v", ids)
	}
}
