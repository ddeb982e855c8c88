package commands_test

import (
	"context"
	"testing"
	"time"

	"councilwatch/contexts/legislation/reconciliation-engine/adapters/memory"
	"councilwatch/contexts/legislation/reconciliation-engine/application/commands"
	"councilwatch/contexts/legislation/reconciliation-engine/application/queries"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
)

func newExpansionUseCase(store *memory.Store) commands.VoteExpansionUseCase {
	return commands.VoteExpansionUseCase{
		Proposals:      store,
		Meetings:       store,
		GroupJudgments: store,
		Individuals:    store,
		Members:        queries.MembershipResolver{Memberships: store},
		Clock:          store,
		IDGen:          store,
	}
}

// seedExpansionFixture builds a proposal decided 2024-03-15 with two groups:
// group 8 has politicians 1 and 2, group 18 has politicians 1 and 3. One
// group judgment covers both groups.
func seedExpansionFixture(store *memory.Store) {
	meetingDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	meetingID := int64(40)
	store.SetMeeting(entities.Meeting{ID: meetingID, ConferenceID: 12, Date: &meetingDate})
	store.SetProposal(entities.Proposal{
		ID:        "proposal-1",
		Key:       entities.ProposalKey{GoverningBodyID: 3, SessionNumber: 1, ProposalNumber: 5, ProposalType: "議案"},
		MeetingID: &meetingID,
	})

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	store.SetMembership(entities.Membership{ID: 100, PoliticianID: 1, GroupID: 8, StartDate: start})
	store.SetMembership(entities.Membership{ID: 101, PoliticianID: 2, GroupID: 8, StartDate: start})
	store.SetMembership(entities.Membership{ID: 102, PoliticianID: 1, GroupID: 18, StartDate: start})
	store.SetMembership(entities.Membership{ID: 103, PoliticianID: 3, GroupID: 18, StartDate: start})

	store.SetGroupJudgment(entities.GroupJudgment{
		ID:         "gj-1",
		ProposalID: "proposal-1",
		Judgment:   entities.JudgmentApprove,
		JudgeType:  entities.JudgeTypeGroup,
		GroupIDs:   []int64{8, 18},
	})
}

func TestExpandUnionsMembersAcrossGroups(t *testing.T) {
	store := memory.NewStore()
	seedExpansionFixture(store)

	uc := newExpansionUseCase(store)
	result, err := uc.Expand(context.Background(), commands.ExpandCommand{GroupJudgmentID: "gj-1"})
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if result.MembersFound != 3 {
		t.Fatalf("politician 1 sits in both groups and must expand once, got %d members", result.MembersFound)
	}
	if result.Created != 3 || result.Skipped != 0 {
		t.Fatalf("expected 3 creations, got %+v", result)
	}

	rows, err := store.ListIndividualJudgmentsByProposal(context.Background(), "proposal-1")
	if err != nil {
		t.Fatalf("list individuals: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 individual judgments, got %d", len(rows))
	}
	for _, row := range rows {
		if row.Judgment != entities.JudgmentApprove {
			t.Fatalf("expected approve, got %s for politician %d", row.Judgment, row.PoliticianID)
		}
		if row.SourceType != entities.SourceTypeGroupExpansion {
			t.Fatalf("expected GROUP_EXPANSION source, got %s", row.SourceType)
		}
		if row.SourceGroupJudgmentID == nil || *row.SourceGroupJudgmentID != "gj-1" {
			t.Fatalf("expected source judgment gj-1, got %v", row.SourceGroupJudgmentID)
		}
	}
}

func TestExpandIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	seedExpansionFixture(store)

	uc := newExpansionUseCase(store)
	if _, err := uc.Expand(context.Background(), commands.ExpandCommand{GroupJudgmentID: "gj-1"}); err != nil {
		t.Fatalf("first expand failed: %v", err)
	}
	second, err := uc.Expand(context.Background(), commands.ExpandCommand{GroupJudgmentID: "gj-1"})
	if err != nil {
		t.Fatalf("second expand failed: %v", err)
	}
	if second.Created != 0 || second.Skipped != 3 {
		t.Fatalf("re-run must skip every existing row: %+v", second)
	}
}

func TestExpandForceOverwriteResetsDefectionFlag(t *testing.T) {
	store := memory.NewStore()
	seedExpansionFixture(store)

	uc := newExpansionUseCase(store)
	if _, err := uc.Expand(context.Background(), commands.ExpandCommand{GroupJudgmentID: "gj-1"}); err != nil {
		t.Fatalf("expand failed: %v", err)
	}

	// Simulate a roll call having marked politician 1 a defector.
	rows, _ := store.ListIndividualJudgmentsByProposal(context.Background(), "proposal-1")
	defected := rows[0]
	defected.Judgment = entities.JudgmentOppose
	defected.IsDefection = boolPtr(true)
	if err := store.BulkUpdateIndividualJudgments(context.Background(), []entities.IndividualJudgment{defected}); err != nil {
		t.Fatalf("seed defection: %v", err)
	}

	result, err := uc.Expand(context.Background(), commands.ExpandCommand{GroupJudgmentID: "gj-1", ForceOverwrite: true})
	if err != nil {
		t.Fatalf("force expand failed: %v", err)
	}
	if result.Overwritten != 3 || result.Created != 0 {
		t.Fatalf("expected 3 overwrites, got %+v", result)
	}

	rows, _ = store.ListIndividualJudgmentsByProposal(context.Background(), "proposal-1")
	for _, row := range rows {
		if row.Judgment != entities.JudgmentApprove {
			t.Fatalf("overwrite must restore the group judgment, got %s", row.Judgment)
		}
		if row.IsDefection != nil {
			t.Fatalf("overwrite must reset the defection flag, got %v", *row.IsDefection)
		}
	}
}

func TestExpandUnresolvableDecisionDate(t *testing.T) {
	store := memory.NewStore()
	seedExpansionFixture(store)
	// Proposal with neither meeting date nor voted date.
	store.SetProposal(entities.Proposal{
		ID:  "proposal-1",
		Key: entities.ProposalKey{GoverningBodyID: 3, SessionNumber: 1, ProposalNumber: 5, ProposalType: "議案"},
	})

	uc := newExpansionUseCase(store)
	result, err := uc.Expand(context.Background(), commands.ExpandCommand{GroupJudgmentID: "gj-1"})
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if result.DateUnresolved != 1 {
		t.Fatalf("expected 1 date-unresolved target, got %d", result.DateUnresolved)
	}
	if result.Created != 0 {
		t.Fatalf("no rows may land without a decision date, got %d", result.Created)
	}
}

func TestExpandVotedDateFallback(t *testing.T) {
	store := memory.NewStore()
	seedExpansionFixture(store)
	votedDate := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	store.SetProposal(entities.Proposal{
		ID:        "proposal-1",
		Key:       entities.ProposalKey{GoverningBodyID: 3, SessionNumber: 1, ProposalNumber: 5, ProposalType: "議案"},
		VotedDate: &votedDate,
	})

	uc := newExpansionUseCase(store)
	result, err := uc.Expand(context.Background(), commands.ExpandCommand{GroupJudgmentID: "gj-1"})
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if result.Created != 3 {
		t.Fatalf("voted date must serve as fallback, got %+v", result)
	}
}

func boolPtr(b bool) *bool { return &b }
