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
	domainerrors "councilwatch/contexts/legislation/reconciliation-engine/domain/errors"
	"councilwatch/contexts/legislation/reconciliation-engine/ports"
)

type RollCallVote struct {
	PoliticianID int64
	Judgment     entities.Judgment
}

type ApplyRollCallCommand struct {
	ProposalID string
	Votes      []RollCallVote
}

type DefectionEntry struct {
	PoliticianID   int64
	PoliticianName string
	IndividualVote entities.Judgment
	GroupJudgment  entities.Judgment
	GroupName      string
}

type ApplyRollCallResult struct {
	Created    int
	Updated    int
	Defections []DefectionEntry
}

// RollCallUseCase applies authoritative per-politician votes over expanded
// judgments and recomputes defection status against each member's group
// judgment at the proposal's decision date.
type RollCallUseCase struct {
	Proposals      ports.ProposalRepository
	Meetings       ports.MeetingRepository
	Groups         ports.GroupRepository
	Politicians    ports.PoliticianRepository
	GroupJudgments ports.GroupJudgmentRepository
	Individuals    ports.IndividualJudgmentRepository
	Members        queries.MembershipResolver
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	Logger         *slog.Logger
}

func (uc RollCallUseCase) ApplyRollCall(ctx context.Context, cmd ApplyRollCallCommand) (ApplyRollCallResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ProposalID) == "" {
		return ApplyRollCallResult{}, fmt.Errorf("%w: proposal id is required", domainerrors.ErrValidation)
	}
	if len(cmd.Votes) == 0 {
		return ApplyRollCallResult{}, fmt.Errorf("%w: no votes supplied", domainerrors.ErrValidation)
	}
	// Reject invalid input before any repository access.
	seen := make(map[int64]struct{}, len(cmd.Votes))
	for _, vote := range cmd.Votes {
		if !vote.Judgment.Valid() {
			return ApplyRollCallResult{}, fmt.Errorf("%w: %q", domainerrors.ErrJudgmentVocabulary, vote.Judgment)
		}
		if _, dup := seen[vote.PoliticianID]; dup {
			return ApplyRollCallResult{}, fmt.Errorf("%w: politician %d", domainerrors.ErrDuplicateVote, vote.PoliticianID)
		}
		seen[vote.PoliticianID] = struct{}{}
	}

	groupContext, err := uc.resolveGroupContext(ctx, cmd.ProposalID)
	if err != nil {
		return ApplyRollCallResult{}, err
	}

	existing, err := uc.Individuals.ListIndividualJudgmentsByProposal(ctx, cmd.ProposalID)
	if err != nil {
		return ApplyRollCallResult{}, err
	}
	byPolitician := make(map[int64]entities.IndividualJudgment, len(existing))
	for _, row := range existing {
		byPolitician[row.PoliticianID] = row
	}

	now := uc.Clock.Now()
	result := ApplyRollCallResult{}
	var creates []entities.IndividualJudgment
	var updates []entities.IndividualJudgment
	var defectorIDs []int64
	for _, vote := range cmd.Votes {
		groupJudgment, affiliated := groupContext.judgmentFor(vote.PoliticianID)
		var isDefection *bool
		if affiliated {
			defected := vote.Judgment != groupJudgment
			isDefection = &defected
			if defected {
				defectorIDs = append(defectorIDs, vote.PoliticianID)
				result.Defections = append(result.Defections, DefectionEntry{
					PoliticianID:   vote.PoliticianID,
					IndividualVote: vote.Judgment,
					GroupJudgment:  groupJudgment,
					GroupName:      groupContext.groupNameFor(vote.PoliticianID),
				})
			}
		}

		if current, exists := byPolitician[vote.PoliticianID]; exists {
			current.Judgment = vote.Judgment
			current.SourceType = entities.SourceTypeRollCall
			current.IsDefection = isDefection
			current.UpdatedAt = now
			updates = append(updates, current)
			continue
		}
		id, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return ApplyRollCallResult{}, err
		}
		creates = append(creates, entities.IndividualJudgment{
			ID:           id,
			ProposalID:   cmd.ProposalID,
			PoliticianID: vote.PoliticianID,
			Judgment:     vote.Judgment,
			SourceType:   entities.SourceTypeRollCall,
			IsDefection:  isDefection,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if len(defectorIDs) > 0 {
		politicians, err := uc.Politicians.GetByIDs(ctx, defectorIDs)
		if err != nil {
			return ApplyRollCallResult{}, err
		}
		names := make(map[int64]string, len(politicians))
		for _, p := range politicians {
			names[p.ID] = p.Name
		}
		for i := range result.Defections {
			result.Defections[i].PoliticianName = names[result.Defections[i].PoliticianID]
		}
	}

	if len(creates) > 0 {
		if err := uc.Individuals.BulkCreateIndividualJudgments(ctx, creates); err != nil {
			return ApplyRollCallResult{}, err
		}
		result.Created = len(creates)
	}
	if len(updates) > 0 {
		if err := uc.Individuals.BulkUpdateIndividualJudgments(ctx, updates); err != nil {
			return ApplyRollCallResult{}, err
		}
		result.Updated = len(updates)
	}

	logger.Info("roll call applied",
		"event", "rollcall_applied",
		"module", "legislation/reconciliation-engine",
		"layer", "application",
		"proposal_id", cmd.ProposalID,
		"created", result.Created,
		"updated", result.Updated,
		"defections", len(result.Defections),
	)
	return result, nil
}

// rollCallGroupContext carries the per-proposal maps used for defection
// checks: group id -> judgment, group id -> display name, politician id ->
// group id at the decision date.
type rollCallGroupContext struct {
	judgmentByGroup   map[int64]entities.Judgment
	nameByGroup       map[int64]string
	groupByPolitician map[int64]int64
}

func (c rollCallGroupContext) judgmentFor(politicianID int64) (entities.Judgment, bool) {
	groupID, ok := c.groupByPolitician[politicianID]
	if !ok {
		return "", false
	}
	judgment, ok := c.judgmentByGroup[groupID]
	return judgment, ok
}

func (c rollCallGroupContext) groupNameFor(politicianID int64) string {
	return c.nameByGroup[c.groupByPolitician[politicianID]]
}

func (uc RollCallUseCase) resolveGroupContext(ctx context.Context, proposalID string) (rollCallGroupContext, error) {
	groupContext := rollCallGroupContext{
		judgmentByGroup:   make(map[int64]entities.Judgment),
		nameByGroup:       make(map[int64]string),
		groupByPolitician: make(map[int64]int64),
	}

	judgments, err := uc.GroupJudgments.ListGroupJudgmentsByProposal(ctx, proposalID)
	if err != nil {
		return rollCallGroupContext{}, err
	}
	var groupIDs []int64
	for _, judgment := range judgments {
		if judgment.JudgeType != entities.JudgeTypeGroup {
			continue
		}
		for _, groupID := range judgment.GroupIDs {
			if _, exists := groupContext.judgmentByGroup[groupID]; exists {
				continue
			}
			groupContext.judgmentByGroup[groupID] = judgment.Judgment
			groupIDs = append(groupIDs, groupID)
		}
	}
	if len(groupIDs) == 0 {
		return groupContext, nil
	}
	sort.Slice(groupIDs, func(i, j int) bool { return groupIDs[i] < groupIDs[j] })

	groups, err := uc.Groups.GetGroupsByIDs(ctx, groupIDs)
	if err != nil {
		return rollCallGroupContext{}, err
	}
	for _, group := range groups {
		groupContext.nameByGroup[group.ID] = group.Name
	}

	proposal, err := uc.Proposals.GetByID(ctx, proposalID)
	if err != nil {
		return rollCallGroupContext{}, err
	}
	decisionDate, ok, err := queries.DecisionDate(ctx, uc.Meetings, proposal)
	if err != nil {
		return rollCallGroupContext{}, err
	}
	if !ok {
		// Without a decision date no membership can be resolved; every
		// vote's defection status stays undetermined.
		return groupContext, nil
	}

	// Lowest group id wins when a politician somehow belongs to two judged
	// groups on the same date, keeping the mapping deterministic.
	for _, groupID := range groupIDs {
		ids, err := uc.Members.ActivePoliticianIDs(ctx, groupID, decisionDate)
		if err != nil {
			return rollCallGroupContext{}, err
		}
		for _, politicianID := range ids {
			if _, exists := groupContext.groupByPolitician[politicianID]; !exists {
				groupContext.groupByPolitician[politicianID] = groupID
			}
		}
	}
	return groupContext, nil
}
