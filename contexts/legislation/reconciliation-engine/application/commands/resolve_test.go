package commands_test

import (
	"context"
	"errors"
	"testing"

	"councilwatch/contexts/legislation/reconciliation-engine/adapters/memory"
	"councilwatch/contexts/legislation/reconciliation-engine/application/commands"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
	domainerrors "councilwatch/contexts/legislation/reconciliation-engine/domain/errors"
)

func seedResolveFixture(store *memory.Store, status entities.MatchingStatus) {
	store.SetExtracted(entities.ExtractedJudgment{
		ID: "ex-1", ProposalID: "proposal-1",
		RawGroupName: "未来の会", RawJudgment: "賛成",
		MatchingStatus: status,
	})
}

func TestResolveMatchManualMatch(t *testing.T) {
	store := memory.NewStore()
	seedResolveFixture(store, entities.MatchingStatusUnmatched)

	uc := commands.MatchResolutionUseCase{Extracted: store}
	groupID := int64(10)
	if err := uc.ResolveMatch(context.Background(), commands.ResolveMatchCommand{
		ExtractedJudgmentID: "ex-1",
		GroupID:             &groupID,
		Status:              entities.MatchingStatusMatched,
	}); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	record, _ := store.GetExtractedJudgment("ex-1")
	if record.MatchingStatus != entities.MatchingStatusMatched {
		t.Fatalf("expected matched, got %s", record.MatchingStatus)
	}
	if record.MatchedGroupID == nil || *record.MatchedGroupID != 10 {
		t.Fatalf("expected group id 10, got %v", record.MatchedGroupID)
	}
	if record.MatchingConfidence != 1.0 {
		t.Fatalf("manual matches carry confidence 1.0, got %f", record.MatchingConfidence)
	}
}

func TestResolveMatchNeedsReview(t *testing.T) {
	store := memory.NewStore()
	seedResolveFixture(store, entities.MatchingStatusUnmatched)

	uc := commands.MatchResolutionUseCase{Extracted: store}
	if err := uc.ResolveMatch(context.Background(), commands.ResolveMatchCommand{
		ExtractedJudgmentID: "ex-1",
		Status:              entities.MatchingStatusNeedsReview,
	}); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	record, _ := store.GetExtractedJudgment("ex-1")
	if record.MatchingStatus != entities.MatchingStatusNeedsReview {
		t.Fatalf("expected needs_review, got %s", record.MatchingStatus)
	}
}

func TestResolveMatchValidation(t *testing.T) {
	store := memory.NewStore()
	seedResolveFixture(store, entities.MatchingStatusUnmatched)
	uc := commands.MatchResolutionUseCase{Extracted: store}
	groupID := int64(10)

	// matched without a group id
	err := uc.ResolveMatch(context.Background(), commands.ResolveMatchCommand{
		ExtractedJudgmentID: "ex-1",
		Status:              entities.MatchingStatusMatched,
	})
	if !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// needs_review with a group id
	err = uc.ResolveMatch(context.Background(), commands.ResolveMatchCommand{
		ExtractedJudgmentID: "ex-1",
		GroupID:             &groupID,
		Status:              entities.MatchingStatusNeedsReview,
	})
	if !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// pending is not reachable manually
	err = uc.ResolveMatch(context.Background(), commands.ResolveMatchCommand{
		ExtractedJudgmentID: "ex-1",
		Status:              entities.MatchingStatusPending,
	})
	if !errors.Is(err, domainerrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResolveMatchProcessedIsTerminal(t *testing.T) {
	store := memory.NewStore()
	seedResolveFixture(store, entities.MatchingStatusProcessed)

	uc := commands.MatchResolutionUseCase{Extracted: store}
	err := uc.ResolveMatch(context.Background(), commands.ResolveMatchCommand{
		ExtractedJudgmentID: "ex-1",
		Status:              entities.MatchingStatusNeedsReview,
	})
	if !errors.Is(err, domainerrors.ErrStatusTransition) {
		t.Fatalf("expected status transition error, got %v", err)
	}
}

func TestResolveMatchUnknownRecord(t *testing.T) {
	store := memory.NewStore()
	uc := commands.MatchResolutionUseCase{Extracted: store}
	err := uc.ResolveMatch(context.Background(), commands.ResolveMatchCommand{
		ExtractedJudgmentID: "missing",
		Status:              entities.MatchingStatusNeedsReview,
	})
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
