package commands_test

import (
	"context"
	"errors"
	"testing"

	"councilwatch/contexts/legislation/reconciliation-engine/adapters/memory"
	"councilwatch/contexts/legislation/reconciliation-engine/application/analyzer"
	"councilwatch/contexts/legislation/reconciliation-engine/application/commands"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
	domainerrors "councilwatch/contexts/legislation/reconciliation-engine/domain/errors"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/matching"
)

func newSubmitterUseCase(store *memory.Store) commands.SubmitterUseCase {
	return commands.SubmitterUseCase{
		Analyzer: analyzer.RuleBased{
			Conferences: store,
			Groups:      store,
			Politicians: store,
			Rules:       matching.DefaultRules(),
		},
		Submitters: store,
		Clock:      store,
		IDGen:      store,
	}
}

func seedSubmitterFixture(store *memory.Store) {
	store.SetConference(entities.Conference{ID: 12, GoverningBodyID: 3, Name: "本会議"})
	store.SetGroup(entities.ParliamentaryGroup{ID: 10, GoverningBodyID: 3, Name: "自由民主党", Active: true})
	store.SetConferenceMember(12, entities.Politician{ID: 501, Name: "田中太郎"})
}

func TestRegisterSubmittersSplitsAndOrders(t *testing.T) {
	store := memory.NewStore()
	seedSubmitterFixture(store)

	uc := newSubmitterUseCase(store)
	result, err := uc.RegisterSubmitters(context.Background(), commands.RegisterSubmittersCommand{
		ProposalID:   "proposal-1",
		ConferenceID: 12,
		RawText:      "市長、田中太郎議員、匿名希望",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if len(result.Submitters) != 3 {
		t.Fatalf("expected 3 submitters, got %d", len(result.Submitters))
	}

	first := result.Submitters[0]
	if first.SubmitterType != entities.SubmitterTypeMayor || first.DisplayOrder != 0 {
		t.Fatalf("unexpected first submitter: %+v", first)
	}

	second := result.Submitters[1]
	if second.SubmitterType != entities.SubmitterTypePolitician || second.DisplayOrder != 1 {
		t.Fatalf("unexpected second submitter: %+v", second)
	}
	if second.MatchedPoliticianID == nil || *second.MatchedPoliticianID != 501 {
		t.Fatalf("confident match must promote the politician id, got %v", second.MatchedPoliticianID)
	}

	third := result.Submitters[2]
	if third.SubmitterType != entities.SubmitterTypeOther || third.DisplayOrder != 2 {
		t.Fatalf("unexpected third submitter: %+v", third)
	}
	if third.MatchedPoliticianID != nil || third.MatchedGroupID != nil {
		t.Fatalf("unclassified submitter must not carry entity ids")
	}

	stored := store.Submitters()
	if len(stored) != 3 {
		t.Fatalf("expected 3 persisted rows, got %d", len(stored))
	}
}

func TestRegisterSubmittersPromotionGate(t *testing.T) {
	store := memory.NewStore()
	seedSubmitterFixture(store)
	// "自由民主党市議団" contains the group name: scores 0.8, above the gate.
	uc := newSubmitterUseCase(store)
	result, err := uc.RegisterSubmitters(context.Background(), commands.RegisterSubmittersCommand{
		ProposalID:   "proposal-1",
		ConferenceID: 12,
		RawText:      "自由民主党市議団",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	s := result.Submitters[0]
	if s.SubmitterType != entities.SubmitterTypeParliamentaryGroup {
		t.Fatalf("expected group type, got %s", s.SubmitterType)
	}
	if s.MatchedGroupID == nil || *s.MatchedGroupID != 10 {
		t.Fatalf("expected promoted group 10, got %v", s.MatchedGroupID)
	}
	if s.Confidence != 0.8 {
		t.Fatalf("expected 0.8 confidence, got %f", s.Confidence)
	}
}

func TestRegisterSubmittersEmptyText(t *testing.T) {
	store := memory.NewStore()
	seedSubmitterFixture(store)

	uc := newSubmitterUseCase(store)
	_, err := uc.RegisterSubmitters(context.Background(), commands.RegisterSubmittersCommand{
		ProposalID:   "proposal-1",
		ConferenceID: 12,
		RawText:      "、、",
	})
	if !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
