package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "councilwatch/contexts/legislation/reconciliation-engine/application"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
	domainerrors "councilwatch/contexts/legislation/reconciliation-engine/domain/errors"
	"councilwatch/contexts/legislation/reconciliation-engine/ports"
)

// ResolveMatchCommand records a reviewer's decision on a Bronze record:
// either a manual match to a group (confidence 1.0) or parking the record as
// needs_review.
type ResolveMatchCommand struct {
	ExtractedJudgmentID string
	GroupID             *int64
	Status              entities.MatchingStatus
}

// MatchResolutionUseCase applies manual review decisions while preserving the
// one-way status progression: processed records never change again.
type MatchResolutionUseCase struct {
	Extracted ports.ExtractedJudgmentRepository
	Logger    *slog.Logger
}

func (uc MatchResolutionUseCase) ResolveMatch(ctx context.Context, cmd ResolveMatchCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ExtractedJudgmentID) == "" {
		return fmt.Errorf("%w: extracted judgment id is required", domainerrors.ErrDataIntegrity)
	}
	switch cmd.Status {
	case entities.MatchingStatusMatched:
		if cmd.GroupID == nil {
			return fmt.Errorf("%w: matched status requires a group id", domainerrors.ErrValidation)
		}
	case entities.MatchingStatusNeedsReview, entities.MatchingStatusUnmatched:
		if cmd.GroupID != nil {
			return fmt.Errorf("%w: %s status cannot carry a group id", domainerrors.ErrValidation, cmd.Status)
		}
	default:
		return fmt.Errorf("%w: status %q not reachable by manual resolution", domainerrors.ErrValidation, cmd.Status)
	}

	record, err := uc.Extracted.GetExtracted(ctx, cmd.ExtractedJudgmentID)
	if err != nil {
		return err
	}
	if record.MatchingStatus == entities.MatchingStatusProcessed {
		return domainerrors.ErrStatusTransition
	}

	confidence := 0.0
	if cmd.Status == entities.MatchingStatusMatched {
		confidence = 1.0
	}
	if err := uc.Extracted.UpdateMatchingResult(ctx, record.ID, cmd.GroupID, confidence, cmd.Status); err != nil {
		return err
	}
	logger.Info("extracted judgment resolved manually",
		"event", "match_resolved_manually",
		"module", "legislation/reconciliation-engine",
		"layer", "application",
		"extracted_judgment_id", record.ID,
		"status", string(cmd.Status),
	)
	return nil
}
