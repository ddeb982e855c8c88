package analyzer

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	application "councilwatch/contexts/legislation/reconciliation-engine/application"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/matching"
	"councilwatch/contexts/legislation/reconciliation-engine/ports"
)

// RuleBased classifies a submitter name by short-circuiting checks in strict
// priority order: mayor keywords, committee keywords, parliamentary groups of
// the conference's governing body, active conference members, then other.
type RuleBased struct {
	Conferences ports.ConferenceRepository
	Groups      ports.GroupRepository
	Politicians ports.PoliticianRepository
	Rules       matching.KeywordRules
	Logger      *slog.Logger
}

func (a RuleBased) Analyze(ctx context.Context, name string, conferenceID int64) (ports.AnalysisResult, error) {
	logger := application.ResolveLogger(a.Logger)
	raw := strings.TrimSpace(name)
	result := ports.AnalysisResult{
		RawName:       raw,
		SubmitterType: entities.SubmitterTypeOther,
	}
	if raw == "" {
		return result, nil
	}

	if a.Rules.IsMayor(raw) {
		result.SubmitterType = entities.SubmitterTypeMayor
		result.Confidence = 1.0
		return result, nil
	}
	if a.Rules.IsCommittee(raw) {
		result.SubmitterType = entities.SubmitterTypeCommittee
		result.Confidence = 1.0
		return result, nil
	}

	conference, err := a.Conferences.GetConference(ctx, conferenceID)
	if err != nil {
		return ports.AnalysisResult{}, err
	}

	groups, err := a.Groups.ListByGoverningBody(ctx, conference.GoverningBodyID, true)
	if err != nil {
		return ports.AnalysisResult{}, err
	}
	groupCandidates := make([]ports.MatchCandidate, 0, len(groups))
	for _, group := range groups {
		score := matching.Score(raw, group.Name)
		if score < matching.PromotionThreshold {
			continue
		}
		groupID := group.ID
		groupCandidates = append(groupCandidates, ports.MatchCandidate{
			GroupID:    &groupID,
			Name:       group.Name,
			Confidence: score,
		})
	}
	if len(groupCandidates) > 0 {
		sortCandidates(groupCandidates)
		result.SubmitterType = entities.SubmitterTypeParliamentaryGroup
		result.Confidence = groupCandidates[0].Confidence
		result.Candidates = groupCandidates
		return result, nil
	}

	politicians, err := a.Politicians.ListActiveByConference(ctx, conferenceID)
	if err != nil {
		return ports.AnalysisResult{}, err
	}
	politicianCandidates := make([]ports.MatchCandidate, 0, len(politicians))
	for _, politician := range politicians {
		score := matching.Score(raw, politician.Name)
		if score < matching.PromotionThreshold {
			continue
		}
		politicianID := politician.ID
		politicianCandidates = append(politicianCandidates, ports.MatchCandidate{
			PoliticianID: &politicianID,
			Name:         politician.Name,
			Confidence:   score,
		})
	}
	if len(politicianCandidates) > 0 {
		sortCandidates(politicianCandidates)
		result.SubmitterType = entities.SubmitterTypePolitician
		result.Confidence = politicianCandidates[0].Confidence
		result.Candidates = politicianCandidates
		return result, nil
	}

	logger.Debug("submitter name unclassified",
		"event", "analyzer_name_unclassified",
		"module", "legislation/reconciliation-engine",
		"layer", "application",
		"conference_id", conferenceID,
	)
	return result, nil
}

// sortCandidates orders by confidence descending, stable so equal scores keep
// repository return order. Determinism here feeds the tie-breaking rule.
func sortCandidates(candidates []ports.MatchCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
}
