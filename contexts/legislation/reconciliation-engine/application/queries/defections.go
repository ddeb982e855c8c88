package queries

import (
	"context"
	"sort"

	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
	"councilwatch/contexts/legislation/reconciliation-engine/ports"
)

type Defection struct {
	PoliticianID   int64
	PoliticianName string
	IndividualVote entities.Judgment
	GroupJudgment  entities.Judgment
	GroupName      string
}

// DefectionAuditUseCase re-checks stored individual judgments against group
// judgments without writing anything. It audits data already reconciled, as
// opposed to the roll-call command which works from a fresh vote submission.
type DefectionAuditUseCase struct {
	Proposals      ports.ProposalRepository
	Meetings       ports.MeetingRepository
	Groups         ports.GroupRepository
	Politicians    ports.PoliticianRepository
	GroupJudgments ports.GroupJudgmentRepository
	Individuals    ports.IndividualJudgmentRepository
	Members        MembershipResolver
}

func (uc DefectionAuditUseCase) DetectDefections(ctx context.Context, proposalID string) ([]Defection, error) {
	judgments, err := uc.GroupJudgments.ListGroupJudgmentsByProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	judgmentByGroup := make(map[int64]entities.Judgment)
	var groupIDs []int64
	for _, judgment := range judgments {
		if judgment.JudgeType != entities.JudgeTypeGroup {
			continue
		}
		for _, groupID := range judgment.GroupIDs {
			if _, exists := judgmentByGroup[groupID]; !exists {
				judgmentByGroup[groupID] = judgment.Judgment
				groupIDs = append(groupIDs, groupID)
			}
		}
	}
	if len(groupIDs) == 0 {
		return nil, nil
	}
	sort.Slice(groupIDs, func(i, j int) bool { return groupIDs[i] < groupIDs[j] })

	proposal, err := uc.Proposals.GetByID(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	asOf, ok, err := DecisionDate(ctx, uc.Meetings, proposal)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	groupByPolitician := make(map[int64]int64)
	for _, groupID := range groupIDs {
		ids, err := uc.Members.ActivePoliticianIDs(ctx, groupID, asOf)
		if err != nil {
			return nil, err
		}
		for _, politicianID := range ids {
			if _, exists := groupByPolitician[politicianID]; !exists {
				groupByPolitician[politicianID] = groupID
			}
		}
	}

	rows, err := uc.Individuals.ListIndividualJudgmentsByProposal(ctx, proposalID)
	if err != nil {
		return nil, err
	}
	var defections []Defection
	var defectorIDs []int64
	for _, row := range rows {
		groupID, affiliated := groupByPolitician[row.PoliticianID]
		if !affiliated {
			continue
		}
		groupJudgment, ok := judgmentByGroup[groupID]
		if !ok || row.Judgment == groupJudgment {
			continue
		}
		defectorIDs = append(defectorIDs, row.PoliticianID)
		defections = append(defections, Defection{
			PoliticianID:   row.PoliticianID,
			IndividualVote: row.Judgment,
			GroupJudgment:  groupJudgment,
		})
	}
	if len(defections) == 0 {
		return nil, nil
	}

	groups, err := uc.Groups.GetGroupsByIDs(ctx, groupIDs)
	if err != nil {
		return nil, err
	}
	nameByGroup := make(map[int64]string, len(groups))
	for _, group := range groups {
		nameByGroup[group.ID] = group.Name
	}
	politicians, err := uc.Politicians.GetByIDs(ctx, defectorIDs)
	if err != nil {
		return nil, err
	}
	nameByPolitician := make(map[int64]string, len(politicians))
	for _, politician := range politicians {
		nameByPolitician[politician.ID] = politician.Name
	}
	for i := range defections {
		defections[i].PoliticianName = nameByPolitician[defections[i].PoliticianID]
		defections[i].GroupName = nameByGroup[groupByPolitician[defections[i].PoliticianID]]
	}
	return defections, nil
}
