package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	application "councilwatch/contexts/legislation/reconciliation-engine/application"
	"councilwatch/contexts/legislation/reconciliation-engine/application/queries"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
	"councilwatch/contexts/legislation/reconciliation-engine/ports"
)

// ExpandCommand selects expansion targets: one judgment by id, every group
// judgment of one proposal, or all group judgments system-wide when both
// selectors are empty.
type ExpandCommand struct {
	GroupJudgmentID string
	ProposalID      string
	ForceOverwrite  bool
}

type ExpandItemSummary struct {
	GroupJudgmentID string
	ProposalID      string
	Members         int
	Created         int
	Skipped         int
	Overwritten     int
	Error           string
}

type ExpandResult struct {
	JudgmentsProcessed int
	MembersFound       int
	Created            int
	Skipped            int
	Overwritten        int
	DateUnresolved     int
	Items              []ExpandItemSummary
}

// VoteExpansionUseCase expands Gold-layer group judgments into one
// IndividualJudgment per group member active on the decision date. Re-running
// without force overwrite is idempotent: existing rows are skipped.
type VoteExpansionUseCase struct {
	Proposals      ports.ProposalRepository
	Meetings       ports.MeetingRepository
	GroupJudgments ports.GroupJudgmentRepository
	Individuals    ports.IndividualJudgmentRepository
	Members        queries.MembershipResolver
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	Logger         *slog.Logger
}

func (uc VoteExpansionUseCase) Expand(ctx context.Context, cmd ExpandCommand) (ExpandResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	targets, err := uc.resolveTargets(ctx, cmd)
	if err != nil {
		return ExpandResult{}, err
	}

	result := ExpandResult{}
	for _, judgment := range targets {
		if judgment.JudgeType != entities.JudgeTypeGroup {
			continue
		}
		item, err := uc.expandOne(ctx, judgment, cmd.ForceOverwrite)
		if err != nil {
			// One bad target must not abort the others; the error is
			// carried on the per-judgment summary.
			item = ExpandItemSummary{
				GroupJudgmentID: judgment.ID,
				ProposalID:      judgment.ProposalID,
				Error:           err.Error(),
			}
			logger.Warn("group judgment expansion failed",
				"event", "expansion_target_failed",
				"module", "legislation/reconciliation-engine",
				"layer", "application",
				"group_judgment_id", judgment.ID,
				"error", err.Error(),
			)
		}
		if item.Error == errDecisionDateUnresolved {
			result.DateUnresolved++
		}
		result.JudgmentsProcessed++
		result.MembersFound += item.Members
		result.Created += item.Created
		result.Skipped += item.Skipped
		result.Overwritten += item.Overwritten
		result.Items = append(result.Items, item)
	}

	logger.Info("vote expansion finished",
		"event", "expansion_finished",
		"module", "legislation/reconciliation-engine",
		"layer", "application",
		"judgments", result.JudgmentsProcessed,
		"created", result.Created,
		"skipped", result.Skipped,
		"overwritten", result.Overwritten,
		"date_unresolved", result.DateUnresolved,
	)
	return result, nil
}

const errDecisionDateUnresolved = "decision date unresolved"

func (uc VoteExpansionUseCase) resolveTargets(ctx context.Context, cmd ExpandCommand) ([]entities.GroupJudgment, error) {
	switch {
	case strings.TrimSpace(cmd.GroupJudgmentID) != "":
		judgment, err := uc.GroupJudgments.GetGroupJudgment(ctx, cmd.GroupJudgmentID)
		if err != nil {
			return nil, err
		}
		return []entities.GroupJudgment{judgment}, nil
	case strings.TrimSpace(cmd.ProposalID) != "":
		return uc.GroupJudgments.ListGroupJudgmentsByProposal(ctx, cmd.ProposalID)
	default:
		return uc.GroupJudgments.ListGroupJudgments(ctx)
	}
}

func (uc VoteExpansionUseCase) expandOne(ctx context.Context, judgment entities.GroupJudgment, forceOverwrite bool) (ExpandItemSummary, error) {
	item := ExpandItemSummary{
		GroupJudgmentID: judgment.ID,
		ProposalID:      judgment.ProposalID,
	}

	proposal, err := uc.Proposals.GetByID(ctx, judgment.ProposalID)
	if err != nil {
		return item, err
	}
	decisionDate, ok, err := queries.DecisionDate(ctx, uc.Meetings, proposal)
	if err != nil {
		return item, err
	}
	if !ok {
		item.Error = errDecisionDateUnresolved
		return item, nil
	}

	// Union members across the judgment's group set; a politician in two
	// judged groups expands exactly once.
	seen := make(map[int64]struct{})
	var politicianIDs []int64
	for _, groupID := range judgment.GroupIDs {
		ids, err := uc.Members.ActivePoliticianIDs(ctx, groupID, decisionDate)
		if err != nil {
			return item, fmt.Errorf("resolve members of group %d: %w", groupID, err)
		}
		for _, id := range ids {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			politicianIDs = append(politicianIDs, id)
		}
	}
	sort.Slice(politicianIDs, func(i, j int) bool { return politicianIDs[i] < politicianIDs[j] })
	item.Members = len(politicianIDs)

	existing, err := uc.Individuals.ListIndividualJudgmentsByProposal(ctx, judgment.ProposalID)
	if err != nil {
		return item, err
	}
	byPolitician := make(map[int64]entities.IndividualJudgment, len(existing))
	for _, row := range existing {
		byPolitician[row.PoliticianID] = row
	}

	now := uc.Clock.Now()
	sourceID := judgment.ID
	var creates []entities.IndividualJudgment
	var updates []entities.IndividualJudgment
	for _, politicianID := range politicianIDs {
		current, exists := byPolitician[politicianID]
		if !exists {
			id, err := uc.IDGen.NewID(ctx)
			if err != nil {
				return item, err
			}
			creates = append(creates, entities.IndividualJudgment{
				ID:                    id,
				ProposalID:            judgment.ProposalID,
				PoliticianID:          politicianID,
				Judgment:              judgment.Judgment,
				SourceType:            entities.SourceTypeGroupExpansion,
				SourceGroupJudgmentID: &sourceID,
				CreatedAt:             now,
				UpdatedAt:             now,
			})
			continue
		}
		if !forceOverwrite {
			item.Skipped++
			continue
		}
		current.Judgment = judgment.Judgment
		current.SourceType = entities.SourceTypeGroupExpansion
		current.SourceGroupJudgmentID = &sourceID
		// The defection flag was computed against the vote value this
		// overwrite replaces; reset it so the next roll-call application
		// recomputes rather than carrying a stale conclusion.
		current.IsDefection = nil
		current.UpdatedAt = now
		updates = append(updates, current)
	}

	if len(creates) > 0 {
		if err := uc.Individuals.BulkCreateIndividualJudgments(ctx, creates); err != nil {
			return item, err
		}
		item.Created = len(creates)
	}
	if len(updates) > 0 {
		if err := uc.Individuals.BulkUpdateIndividualJudgments(ctx, updates); err != nil {
			return item, err
		}
		item.Overwritten = len(updates)
	}
	return item, nil
}
