package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "councilwatch/contexts/legislation/reconciliation-engine/application"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
	domainerrors "councilwatch/contexts/legislation/reconciliation-engine/domain/errors"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/matching"
	"councilwatch/contexts/legislation/reconciliation-engine/ports"
)

// RegisterSubmittersCommand classifies one raw submitter string for a
// proposal. Comma-separated names are split into independent analyses.
type RegisterSubmittersCommand struct {
	ProposalID   string
	ConferenceID int64
	RawText      string
}

type RegisterSubmittersResult struct {
	Submitters []entities.Submitter
	Analyses   []ports.AnalysisResult
}

// SubmitterUseCase runs the configured analyzer over each sub-name, applies
// the promotion gate, and persists Submitter rows in original order.
type SubmitterUseCase struct {
	Analyzer   ports.SubmitterAnalyzer
	Submitters ports.SubmitterRepository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc SubmitterUseCase) RegisterSubmitters(ctx context.Context, cmd RegisterSubmittersCommand) (RegisterSubmittersResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ProposalID) == "" {
		return RegisterSubmittersResult{}, fmt.Errorf("%w: proposal id is required", domainerrors.ErrValidation)
	}
	names := matching.SplitNames(cmd.RawText)
	if len(names) == 0 {
		return RegisterSubmittersResult{}, fmt.Errorf("%w: submitter text is empty", domainerrors.ErrValidation)
	}

	now := uc.Clock.Now()
	result := RegisterSubmittersResult{
		Submitters: make([]entities.Submitter, 0, len(names)),
		Analyses:   make([]ports.AnalysisResult, 0, len(names)),
	}
	for order, name := range names {
		analysis, err := uc.Analyzer.Analyze(ctx, name, cmd.ConferenceID)
		if err != nil {
			return RegisterSubmittersResult{}, err
		}
		result.Analyses = append(result.Analyses, analysis)

		id, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return RegisterSubmittersResult{}, err
		}
		submitter := entities.Submitter{
			ID:            id,
			ProposalID:    cmd.ProposalID,
			SubmitterType: analysis.SubmitterType,
			RawName:       analysis.RawName,
			DisplayOrder:  order,
			Confidence:    analysis.Confidence,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		// Entity ids are only promoted at or above the confidence gate.
		if len(analysis.Candidates) > 0 && analysis.Confidence >= matching.PromotionThreshold {
			best := analysis.Candidates[0]
			submitter.MatchedPoliticianID = best.PoliticianID
			submitter.MatchedGroupID = best.GroupID
		}
		result.Submitters = append(result.Submitters, submitter)
	}

	if err := uc.Submitters.BulkCreateSubmitters(ctx, result.Submitters); err != nil {
		return RegisterSubmittersResult{}, err
	}
	logger.Info("submitters registered",
		"event", "submitters_registered",
		"module", "legislation/reconciliation-engine",
		"layer", "application",
		"proposal_id", cmd.ProposalID,
		"count", len(result.Submitters),
	)
	return result, nil
}
