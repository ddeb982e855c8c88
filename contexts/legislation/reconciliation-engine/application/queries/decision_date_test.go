package queries_test

import (
	"context"
	"testing"

	"councilwatch/contexts/legislation/reconciliation-engine/adapters/memory"
	"councilwatch/contexts/legislation/reconciliation-engine/application/queries"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
)

func TestDecisionDatePrefersMeetingDate(t *testing.T) {
	store := memory.NewStore()
	meetingDate := date(2024, 3, 15)
	votedDate := date(2024, 3, 20)
	meetingID := int64(40)
	store.SetMeeting(entities.Meeting{ID: meetingID, ConferenceID: 12, Date: &meetingDate})

	got, ok, err := queries.DecisionDate(context.Background(), store, entities.Proposal{
		MeetingID: &meetingID,
		VotedDate: &votedDate,
	})
	if err != nil || !ok {
		t.Fatalf("expected resolved date, got ok=%v err=%v", ok, err)
	}
	if !got.Equal(meetingDate) {
		t.Fatalf("meeting date must win, got %s", got.Format("2006-01-02"))
	}
}

func TestDecisionDateFallsBackToVotedDate(t *testing.T) {
	store := memory.NewStore()
	votedDate := date(2024, 3, 20)

	// No meeting link at all.
	got, ok, err := queries.DecisionDate(context.Background(), store, entities.Proposal{VotedDate: &votedDate})
	if err != nil || !ok || !got.Equal(votedDate) {
		t.Fatalf("expected voted date fallback, got %v ok=%v err=%v", got, ok, err)
	}

	// Dangling meeting link.
	missingID := int64(99)
	got, ok, err = queries.DecisionDate(context.Background(), store, entities.Proposal{
		MeetingID: &missingID,
		VotedDate: &votedDate,
	})
	if err != nil || !ok || !got.Equal(votedDate) {
		t.Fatalf("dangling meeting link must fall back, got %v ok=%v err=%v", got, ok, err)
	}

	// Meeting exists but carries no date.
	datelessID := int64(41)
	store.SetMeeting(entities.Meeting{ID: datelessID, ConferenceID: 12})
	got, ok, err = queries.DecisionDate(context.Background(), store, entities.Proposal{
		MeetingID: &datelessID,
		VotedDate: &votedDate,
	})
	if err != nil || !ok || !got.Equal(votedDate) {
		t.Fatalf("dateless meeting must fall back, got %v ok=%v err=%v", got, ok, err)
	}
}

func TestDecisionDateUnresolvable(t *testing.T) {
	store := memory.NewStore()
	_, ok, err := queries.DecisionDate(context.Background(), store, entities.Proposal{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("proposal without meeting or voted date must not resolve")
	}
}
