package httpadapter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"councilwatch/contexts/legislation/reconciliation-engine/application/commands"
	"councilwatch/contexts/legislation/reconciliation-engine/application/queries"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
	domainerrors "councilwatch/contexts/legislation/reconciliation-engine/domain/errors"
	httptransport "councilwatch/contexts/legislation/reconciliation-engine/transport/http"
)

// Handler maps transport DTOs onto use cases. Route registration and status
// code mapping live in the platform http server.
type Handler struct {
	Submitters  commands.SubmitterUseCase
	GroupMatch  commands.GroupJudgmentMatchUseCase
	Expansion   commands.VoteExpansionUseCase
	RollCall    commands.RollCallUseCase
	Import      commands.ProposalImportUseCase
	Resolution  commands.MatchResolutionUseCase
	Defections  queries.DefectionAuditUseCase
	ReviewQueue queries.ReviewQueueUseCase
	Logger      *slog.Logger
}

func (h Handler) MatchGroupJudgmentsHandler(ctx context.Context, req httptransport.MatchGroupJudgmentsRequest) (httptransport.MatchGroupJudgmentsResponse, error) {
	result, err := h.GroupMatch.MatchGroupJudgments(ctx, commands.MatchGroupJudgmentsCommand{
		GoverningBodyID: req.GoverningBodyID,
		DryRun:          req.DryRun,
	})
	if err != nil {
		return httptransport.MatchGroupJudgmentsResponse{}, err
	}
	return httptransport.MatchGroupJudgmentsResponse{
		Total:          result.Total,
		Matched:        result.Matched,
		Unmatched:      result.Unmatched,
		Errors:         result.Errors,
		Promoted:       result.Promoted,
		Processed:      result.Processed,
		UnmatchedNames: result.UnmatchedNames,
	}, nil
}

func (h Handler) ExpandHandler(ctx context.Context, req httptransport.ExpandRequest) (httptransport.ExpandResponse, error) {
	result, err := h.Expansion.Expand(ctx, commands.ExpandCommand{
		GroupJudgmentID: req.GroupJudgmentID,
		ProposalID:      req.ProposalID,
		ForceOverwrite:  req.ForceOverwrite,
	})
	if err != nil {
		return httptransport.ExpandResponse{}, err
	}
	resp := httptransport.ExpandResponse{
		JudgmentsProcessed: result.JudgmentsProcessed,
		MembersFound:       result.MembersFound,
		Created:            result.Created,
		Skipped:            result.Skipped,
		Overwritten:        result.Overwritten,
		DateUnresolved:     result.DateUnresolved,
	}
	for _, item := range result.Items {
		resp.Items = append(resp.Items, httptransport.ExpandItem{
			GroupJudgmentID: item.GroupJudgmentID,
			ProposalID:      item.ProposalID,
			Members:         item.Members,
			Created:         item.Created,
			Skipped:         item.Skipped,
			Overwritten:     item.Overwritten,
			Error:           item.Error,
		})
	}
	return resp, nil
}

func (h Handler) ApplyRollCallHandler(ctx context.Context, proposalID string, req httptransport.ApplyRollCallRequest) (httptransport.ApplyRollCallResponse, error) {
	votes := make([]commands.RollCallVote, 0, len(req.Votes))
	for _, item := range req.Votes {
		votes = append(votes, commands.RollCallVote{
			PoliticianID: item.PoliticianID,
			Judgment:     entities.Judgment(item.Judgment),
		})
	}
	result, err := h.RollCall.ApplyRollCall(ctx, commands.ApplyRollCallCommand{
		ProposalID: proposalID,
		Votes:      votes,
	})
	if err != nil {
		return httptransport.ApplyRollCallResponse{}, err
	}
	return httptransport.ApplyRollCallResponse{
		Created:    result.Created,
		Updated:    result.Updated,
		Defections: defectionItems(result.Defections),
	}, nil
}

func defectionItems(defections []commands.DefectionEntry) []httptransport.DefectionItem {
	items := make([]httptransport.DefectionItem, 0, len(defections))
	for _, d := range defections {
		items = append(items, httptransport.DefectionItem{
			PoliticianID:   d.PoliticianID,
			PoliticianName: d.PoliticianName,
			IndividualVote: string(d.IndividualVote),
			GroupJudgment:  string(d.GroupJudgment),
			GroupName:      d.GroupName,
		})
	}
	return items
}

func (h Handler) DefectionReportHandler(ctx context.Context, proposalID string) (httptransport.DefectionReportResponse, error) {
	defections, err := h.Defections.DetectDefections(ctx, proposalID)
	if err != nil {
		return httptransport.DefectionReportResponse{}, err
	}
	resp := httptransport.DefectionReportResponse{ProposalID: proposalID}
	for _, d := range defections {
		resp.Defections = append(resp.Defections, httptransport.DefectionItem{
			PoliticianID:   d.PoliticianID,
			PoliticianName: d.PoliticianName,
			IndividualVote: string(d.IndividualVote),
			GroupJudgment:  string(d.GroupJudgment),
			GroupName:      d.GroupName,
		})
	}
	return resp, nil
}

func (h Handler) RegisterSubmittersHandler(ctx context.Context, req httptransport.RegisterSubmittersRequest) (httptransport.RegisterSubmittersResponse, error) {
	result, err := h.Submitters.RegisterSubmitters(ctx, commands.RegisterSubmittersCommand{
		ProposalID:   req.ProposalID,
		ConferenceID: req.ConferenceID,
		RawText:      req.RawText,
	})
	if err != nil {
		return httptransport.RegisterSubmittersResponse{}, err
	}
	resp := httptransport.RegisterSubmittersResponse{}
	for i, submitter := range result.Submitters {
		item := httptransport.SubmitterItem{
			RawName:             submitter.RawName,
			SubmitterType:       string(submitter.SubmitterType),
			Confidence:          submitter.Confidence,
			DisplayOrder:        submitter.DisplayOrder,
			MatchedPoliticianID: submitter.MatchedPoliticianID,
			MatchedGroupID:      submitter.MatchedGroupID,
		}
		for _, candidate := range result.Analyses[i].Candidates {
			item.Candidates = append(item.Candidates, httptransport.SubmitterCandidateItem{
				PoliticianID: candidate.PoliticianID,
				GroupID:      candidate.GroupID,
				Name:         candidate.Name,
				Confidence:   candidate.Confidence,
			})
		}
		resp.Submitters = append(resp.Submitters, item)
	}
	return resp, nil
}

func (h Handler) ImportProposalsHandler(ctx context.Context, req httptransport.ImportProposalsRequest) (httptransport.ImportProposalsResponse, error) {
	records := make([]commands.ProposalRecord, 0, len(req.Records))
	for i, row := range req.Records {
		record := commands.ProposalRecord{
			Key: entities.ProposalKey{
				GoverningBodyID: row.GoverningBodyID,
				SessionNumber:   row.SessionNumber,
				ProposalNumber:  row.ProposalNumber,
				ProposalType:    row.ProposalType,
			},
			Title:      row.Title,
			ExternalID: row.ExternalID,
		}
		var err error
		if record.SubmittedDate, err = parseDate(row.SubmittedDate); err != nil {
			return httptransport.ImportProposalsResponse{}, fmt.Errorf("%w: record %d: submitted_date", domainerrors.ErrValidation, i+1)
		}
		if record.VotedDate, err = parseDate(row.VotedDate); err != nil {
			return httptransport.ImportProposalsResponse{}, fmt.Errorf("%w: record %d: voted_date", domainerrors.ErrValidation, i+1)
		}
		records = append(records, record)
	}
	result, err := h.Import.ImportProposals(ctx, commands.ImportProposalsCommand{
		Records:   records,
		ChunkSize: req.ChunkSize,
	})
	if err != nil {
		return httptransport.ImportProposalsResponse{}, err
	}
	return httptransport.ImportProposalsResponse{
		Total:   result.Total,
		Created: result.Created,
		Skipped: result.Skipped,
		Updated: result.Updated,
		Errors:  result.Errors,
	}, nil
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (h Handler) ReviewQueueHandler(ctx context.Context, governingBodyID int64) (httptransport.ReviewQueueResponse, error) {
	records, err := h.ReviewQueue.ListForReview(ctx, governingBodyID)
	if err != nil {
		return httptransport.ReviewQueueResponse{}, err
	}
	resp := httptransport.ReviewQueueResponse{}
	for _, record := range records {
		resp.Items = append(resp.Items, httptransport.ReviewItem{
			ID:                 record.ID,
			ProposalID:         record.ProposalID,
			RawGroupName:       record.RawGroupName,
			RawJudgment:        record.RawJudgment,
			MatchingStatus:     string(record.MatchingStatus),
			MatchingConfidence: record.MatchingConfidence,
		})
	}
	return resp, nil
}

func (h Handler) ResolveMatchHandler(ctx context.Context, extractedJudgmentID string, req httptransport.ResolveMatchRequest) error {
	return h.Resolution.ResolveMatch(ctx, commands.ResolveMatchCommand{
		ExtractedJudgmentID: extractedJudgmentID,
		GroupID:             req.GroupID,
		Status:              entities.MatchingStatus(req.Status),
	})
}
