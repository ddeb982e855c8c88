package queries

import (
	"context"

	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
	"councilwatch/contexts/legislation/reconciliation-engine/ports"
)

// ReviewQueueUseCase lists Bronze records waiting on a human: unmatched rows
// and rows parked as needs_review. Feeds external review surfaces.
type ReviewQueueUseCase struct {
	Extracted ports.ExtractedJudgmentRepository
}

func (uc ReviewQueueUseCase) ListForReview(ctx context.Context, governingBodyID int64) ([]entities.ExtractedJudgment, error) {
	return uc.Extracted.ListForReview(ctx, governingBodyID)
}
