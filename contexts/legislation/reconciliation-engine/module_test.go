package reconciliationengine_test

import (
	"context"
	"testing"
	"time"

	reconciliationengine "councilwatch/contexts/legislation/reconciliation-engine"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
	httptransport "councilwatch/contexts/legislation/reconciliation-engine/transport/http"
)

// TestReconciliationPipeline walks the full Bronze-to-individual flow through
// the handler: import the proposal, match extracted judgments, expand the
// promoted group judgment, apply a roll call, and read the defection report.
func TestReconciliationPipeline(t *testing.T) {
	module := reconciliationengine.NewInMemoryModule(nil)
	ctx := context.Background()

	// Master data the engine only reads.
	meetingDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	meetingID := int64(40)
	module.Store.SetConference(entities.Conference{ID: 12, GoverningBodyID: 3, Name: "本会議"})
	module.Store.SetMeeting(entities.Meeting{ID: meetingID, ConferenceID: 12, Date: &meetingDate})
	module.Store.SetGroup(entities.ParliamentaryGroup{ID: 8, GoverningBodyID: 3, Name: "自由民主党", Active: true})
	module.Store.SetPolitician(entities.Politician{ID: 501, Name: "田中太郎"})
	module.Store.SetPolitician(entities.Politician{ID: 502, Name: "山田花子"})
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	module.Store.SetMembership(entities.Membership{ID: 1, PoliticianID: 501, GroupID: 8, StartDate: start})
	module.Store.SetMembership(entities.Membership{ID: 2, PoliticianID: 502, GroupID: 8, StartDate: start})
	module.Store.SetProposal(entities.Proposal{
		ID:        "proposal-1",
		Key:       entities.ProposalKey{GoverningBodyID: 3, SessionNumber: 1, ProposalNumber: 5, ProposalType: "議案"},
		Title:     "市税条例の一部改正",
		MeetingID: &meetingID,
	})

	// Importing the same proposal again is a no-op.
	importResp, err := module.Handler.ImportProposalsHandler(ctx, httptransport.ImportProposalsRequest{
		Records: []httptransport.ImportProposalRow{
			{GoverningBodyID: 3, SessionNumber: 1, ProposalNumber: 5, ProposalType: "議案", Title: "市税条例の一部改正"},
		},
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if importResp.Skipped != 1 || importResp.Created != 0 {
		t.Fatalf("re-import must skip the existing proposal: %+v", importResp)
	}

	module.Store.SetExtracted(entities.ExtractedJudgment{
		ID: "ex-1", ProposalID: "proposal-1",
		RawGroupName: "自由民主党", RawJudgment: "賛成",
		MatchingStatus: entities.MatchingStatusPending,
	})
	module.Store.SetExtracted(entities.ExtractedJudgment{
		ID: "ex-2", ProposalID: "proposal-1",
		RawGroupName: "未来の会", RawJudgment: "賛成",
		MatchingStatus: entities.MatchingStatusPending,
	})

	matchResp, err := module.Handler.MatchGroupJudgmentsHandler(ctx, httptransport.MatchGroupJudgmentsRequest{GoverningBodyID: 3})
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if matchResp.Matched != 1 || matchResp.Unmatched != 1 || matchResp.Promoted != 1 {
		t.Fatalf("unexpected match response: %+v", matchResp)
	}

	// The unmatched record surfaces on the review queue and can be parked.
	review, err := module.Handler.ReviewQueueHandler(ctx, 3)
	if err != nil {
		t.Fatalf("review queue failed: %v", err)
	}
	if len(review.Items) != 1 || review.Items[0].ID != "ex-2" {
		t.Fatalf("expected ex-2 on the review queue, got %+v", review.Items)
	}
	if err := module.Handler.ResolveMatchHandler(ctx, "ex-2", httptransport.ResolveMatchRequest{Status: "needs_review"}); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	expandResp, err := module.Handler.ExpandHandler(ctx, httptransport.ExpandRequest{ProposalID: "proposal-1"})
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if expandResp.Created != 2 || expandResp.MembersFound != 2 {
		t.Fatalf("unexpected expand response: %+v", expandResp)
	}

	rollCallResp, err := module.Handler.ApplyRollCallHandler(ctx, "proposal-1", httptransport.ApplyRollCallRequest{
		Votes: []httptransport.RollCallVoteItem{
			{PoliticianID: 501, Judgment: "oppose"},
			{PoliticianID: 502, Judgment: "approve"},
		},
	})
	if err != nil {
		t.Fatalf("roll call failed: %v", err)
	}
	if rollCallResp.Updated != 2 || rollCallResp.Created != 0 {
		t.Fatalf("roll call must override expanded rows: %+v", rollCallResp)
	}
	if len(rollCallResp.Defections) != 1 || rollCallResp.Defections[0].PoliticianName != "田中太郎" {
		t.Fatalf("unexpected defections: %+v", rollCallResp.Defections)
	}

	report, err := module.Handler.DefectionReportHandler(ctx, "proposal-1")
	if err != nil {
		t.Fatalf("defection report failed: %v", err)
	}
	if len(report.Defections) != 1 || report.Defections[0].PoliticianID != 501 {
		t.Fatalf("unexpected report: %+v", report)
	}
}

func TestSubmitterRegistrationThroughHandler(t *testing.T) {
	module := reconciliationengine.NewInMemoryModule(nil)
	ctx := context.Background()

	module.Store.SetConference(entities.Conference{ID: 12, GoverningBodyID: 3, Name: "本会議"})
	module.Store.SetConferenceMember(12, entities.Politician{ID: 501, Name: "田中太郎"})
	module.Store.SetProposal(entities.Proposal{ID: "proposal-1"})

	resp, err := module.Handler.RegisterSubmittersHandler(ctx, httptransport.RegisterSubmittersRequest{
		ProposalID:   "proposal-1",
		ConferenceID: 12,
		RawText:      "市長、田中太郎議員",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if len(resp.Submitters) != 2 {
		t.Fatalf("expected 2 submitters, got %d", len(resp.Submitters))
	}
	if resp.Submitters[0].SubmitterType != "mayor" {
		t.Fatalf("expected mayor first, got %+v", resp.Submitters[0])
	}
	second := resp.Submitters[1]
	if second.SubmitterType != "politician" || second.MatchedPoliticianID == nil || *second.MatchedPoliticianID != 501 {
		t.Fatalf("expected matched politician, got %+v", second)
	}
}
