package commands

import (
	"context"
	"log/slog"
	"sort"

	application "councilwatch/contexts/legislation/reconciliation-engine/application"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/matching"
	"councilwatch/contexts/legislation/reconciliation-engine/ports"
)

// MatchGroupJudgmentsCommand matches pending Bronze records against the
// governing body's groups and promotes matches into Gold rows. DryRun still
// marks records matched/unmatched but writes no Gold rows and never marks
// processed.
type MatchGroupJudgmentsCommand struct {
	GoverningBodyID int64
	DryRun          bool
}

type MatchGroupJudgmentsResult struct {
	Total          int
	Matched        int
	Unmatched      int
	Errors         int
	Promoted       int
	Processed      int
	UnmatchedNames []string
}

type GroupJudgmentMatchUseCase struct {
	Groups         ports.GroupRepository
	Extracted      ports.ExtractedJudgmentRepository
	GroupJudgments ports.GroupJudgmentRepository
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	Logger         *slog.Logger
}

type matchedRecord struct {
	record   entities.ExtractedJudgment
	groupID  int64
	judgment entities.Judgment
}

type promotionKey struct {
	proposalID string
	judgment   entities.Judgment
}

func (uc GroupJudgmentMatchUseCase) MatchGroupJudgments(ctx context.Context, cmd MatchGroupJudgmentsCommand) (MatchGroupJudgmentsResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	groups, err := uc.Groups.ListByGoverningBody(ctx, cmd.GoverningBodyID, false)
	if err != nil {
		return MatchGroupJudgmentsResult{}, err
	}
	nameToID := make(map[string]int64, len(groups))
	for _, group := range groups {
		normalized := matching.Normalize(group.Name)
		if normalized == "" {
			continue
		}
		if _, exists := nameToID[normalized]; !exists {
			nameToID[normalized] = group.ID
		}
	}

	records, err := uc.Extracted.ListPendingByGoverningBody(ctx, cmd.GoverningBodyID)
	if err != nil {
		return MatchGroupJudgmentsResult{}, err
	}

	result := MatchGroupJudgmentsResult{}
	var matched []matchedRecord
	seenUnmatched := make(map[string]struct{})
	for _, record := range records {
		normalized := matching.Normalize(record.RawGroupName)
		if normalized == "" {
			// Whitespace-only names are excluded from consideration
			// entirely; they do not count as pending.
			continue
		}
		result.Total++

		groupID, found := nameToID[normalized]
		if !found {
			if err := uc.Extracted.UpdateMatchingResult(ctx, record.ID, nil, 0, entities.MatchingStatusUnmatched); err != nil {
				return MatchGroupJudgmentsResult{}, err
			}
			result.Unmatched++
			if _, seen := seenUnmatched[record.RawGroupName]; !seen {
				seenUnmatched[record.RawGroupName] = struct{}{}
				result.UnmatchedNames = append(result.UnmatchedNames, record.RawGroupName)
			}
			continue
		}

		judgment, ok := matching.ParseJudgment(record.RawJudgment)
		if !ok {
			// Group name resolved but the judgment label is outside the
			// vocabulary; the record cannot be promoted. It stays pending
			// for the review queue and is tallied as an error.
			result.Errors++
			logger.Warn("judgment label outside vocabulary",
				"event", "group_match_label_invalid",
				"module", "legislation/reconciliation-engine",
				"layer", "application",
				"extracted_judgment_id", record.ID,
				"raw_judgment", record.RawJudgment,
			)
			continue
		}

		if err := uc.Extracted.UpdateMatchingResult(ctx, record.ID, &groupID, 1.0, entities.MatchingStatusMatched); err != nil {
			return MatchGroupJudgmentsResult{}, err
		}
		result.Matched++
		matched = append(matched, matchedRecord{record: record, groupID: groupID, judgment: judgment})
	}

	if cmd.DryRun || len(matched) == 0 {
		logger.Info("group judgment matching finished",
			"event", "group_match_finished",
			"module", "legislation/reconciliation-engine",
			"layer", "application",
			"governing_body_id", cmd.GoverningBodyID,
			"dry_run", cmd.DryRun,
			"total", result.Total,
			"matched", result.Matched,
			"unmatched", result.Unmatched,
		)
		return result, nil
	}

	now := uc.Clock.Now()
	grouped := make(map[promotionKey][]matchedRecord)
	var keys []promotionKey
	for _, m := range matched {
		key := promotionKey{proposalID: m.record.ProposalID, judgment: m.judgment}
		if _, exists := grouped[key]; !exists {
			keys = append(keys, key)
		}
		grouped[key] = append(grouped[key], m)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].proposalID != keys[j].proposalID {
			return keys[i].proposalID < keys[j].proposalID
		}
		return keys[i].judgment < keys[j].judgment
	})

	judgments := make([]entities.GroupJudgment, 0, len(keys))
	var processedIDs []string
	for _, key := range keys {
		var groupIDs []int64
		seen := make(map[int64]struct{})
		for _, m := range grouped[key] {
			if _, dup := seen[m.groupID]; dup {
				continue
			}
			seen[m.groupID] = struct{}{}
			groupIDs = append(groupIDs, m.groupID)
		}
		sort.Slice(groupIDs, func(i, j int) bool { return groupIDs[i] < groupIDs[j] })

		id, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return MatchGroupJudgmentsResult{}, err
		}
		judgments = append(judgments, entities.GroupJudgment{
			ID:         id,
			ProposalID: key.proposalID,
			Judgment:   key.judgment,
			JudgeType:  entities.JudgeTypeGroup,
			GroupIDs:   groupIDs,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		for _, m := range grouped[key] {
			processedIDs = append(processedIDs, m.record.ID)
		}
	}

	if err := uc.GroupJudgments.BulkCreateGroupJudgments(ctx, judgments); err != nil {
		return MatchGroupJudgmentsResult{}, err
	}
	if err := uc.Extracted.MarkProcessed(ctx, processedIDs); err != nil {
		return MatchGroupJudgmentsResult{}, err
	}
	result.Promoted = len(judgments)
	result.Processed = len(processedIDs)

	logger.Info("group judgment matching finished",
		"event", "group_match_finished",
		"module", "legislation/reconciliation-engine",
		"layer", "application",
		"governing_body_id", cmd.GoverningBodyID,
		"dry_run", false,
		"total", result.Total,
		"matched", result.Matched,
		"unmatched", result.Unmatched,
		"promoted", result.Promoted,
	)
	return result, nil
}
