package commands_test

import (
	"context"
	"testing"
	"time"

	"councilwatch/contexts/legislation/reconciliation-engine/adapters/memory"
	"councilwatch/contexts/legislation/reconciliation-engine/application/commands"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
)

func newImportUseCase(store *memory.Store) commands.ProposalImportUseCase {
	return commands.ProposalImportUseCase{
		Proposals: store,
		Clock:     store,
		IDGen:     store,
	}
}

func importKey(number int) entities.ProposalKey {
	return entities.ProposalKey{GoverningBodyID: 3, SessionNumber: 1, ProposalNumber: number, ProposalType: "議案"}
}

func TestImportProposalsDeduplicatesByBusinessKey(t *testing.T) {
	store := memory.NewStore()
	store.SetProposal(entities.Proposal{ID: "existing-1", Key: importKey(5), Title: "既存議案"})

	uc := newImportUseCase(store)
	result, err := uc.ImportProposals(context.Background(), commands.ImportProposalsCommand{
		Records: []commands.ProposalRecord{
			{Key: importKey(5), Title: "既存議案"},
			{Key: importKey(6), Title: "新規議案"},
		},
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Total != 2 || result.Created != 1 || result.Skipped != 1 || result.Updated != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}
}

func TestImportProposalsDeduplicatesWithinOneBatch(t *testing.T) {
	store := memory.NewStore()
	submitted := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	uc := newImportUseCase(store)
	result, err := uc.ImportProposals(context.Background(), commands.ImportProposalsCommand{
		Records: []commands.ProposalRecord{
			{Key: importKey(5), Title: "新規議案"},
			{Key: importKey(5), Title: "新規議案", SubmittedDate: &submitted},
		},
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Total != 2 || result.Created != 1 || result.Skipped != 1 || result.Updated != 0 {
		t.Fatalf("unexpected counts: %+v", result)
	}

	proposal, found, err := store.FindByIdentifier(context.Background(), importKey(5))
	if err != nil || !found {
		t.Fatalf("find created proposal: found=%v err=%v", found, err)
	}
	if proposal.SubmittedDate == nil || !proposal.SubmittedDate.Equal(submitted) {
		t.Fatalf("date from the in-batch duplicate must land on the created row, got %v", proposal.SubmittedDate)
	}
}

func TestImportProposalsDeduplicatesByExternalIDWithinOneBatch(t *testing.T) {
	store := memory.NewStore()

	uc := newImportUseCase(store)
	result, err := uc.ImportProposals(context.Background(), commands.ImportProposalsCommand{
		Records: []commands.ProposalRecord{
			{ExternalID: "https://example.org/p/9", Title: "請願"},
			{ExternalID: "https://example.org/p/9", Title: "請願"},
		},
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Created != 1 || result.Skipped != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
}

func TestImportProposalsDeduplicatesByExternalID(t *testing.T) {
	store := memory.NewStore()
	store.SetProposal(entities.Proposal{ID: "existing-1", ExternalID: "https://example.org/p/5"})

	uc := newImportUseCase(store)
	result, err := uc.ImportProposals(context.Background(), commands.ImportProposalsCommand{
		Records: []commands.ProposalRecord{
			{ExternalID: "https://example.org/p/5", Title: "既存議案"},
		},
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Created != 0 || result.Skipped != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
}

func TestImportProposalsBackfillsMissingDates(t *testing.T) {
	store := memory.NewStore()
	stored := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	store.SetProposal(entities.Proposal{ID: "existing-1", Key: importKey(5), SubmittedDate: &stored})

	incomingSubmitted := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	incomingVoted := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	uc := newImportUseCase(store)
	result, err := uc.ImportProposals(context.Background(), commands.ImportProposalsCommand{
		Records: []commands.ProposalRecord{
			{Key: importKey(5), SubmittedDate: &incomingSubmitted, VotedDate: &incomingVoted},
		},
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Skipped != 1 || result.Updated != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}

	proposal, err := store.GetByID(context.Background(), "existing-1")
	if err != nil {
		t.Fatalf("get proposal: %v", err)
	}
	if proposal.SubmittedDate == nil || !proposal.SubmittedDate.Equal(stored) {
		t.Fatalf("stored submitted date must never be overwritten, got %v", proposal.SubmittedDate)
	}
	if proposal.VotedDate == nil || !proposal.VotedDate.Equal(incomingVoted) {
		t.Fatalf("missing voted date must be backfilled, got %v", proposal.VotedDate)
	}
}

func TestImportProposalsWithoutIdentifierAlwaysCreates(t *testing.T) {
	store := memory.NewStore()

	uc := newImportUseCase(store)
	result, err := uc.ImportProposals(context.Background(), commands.ImportProposalsCommand{
		Records: []commands.ProposalRecord{
			{Title: "請願その一"},
			{Title: "請願その一"},
		},
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Created != 2 {
		t.Fatalf("identifier-less records are always created, got %+v", result)
	}
}

func TestImportProposalsChunks(t *testing.T) {
	store := memory.NewStore()

	records := make([]commands.ProposalRecord, 7)
	for i := range records {
		records[i] = commands.ProposalRecord{Key: importKey(i + 1), Title: "議案"}
	}
	uc := newImportUseCase(store)
	result, err := uc.ImportProposals(context.Background(), commands.ImportProposalsCommand{
		Records:   records,
		ChunkSize: 3,
	})
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if result.Created != 7 {
		t.Fatalf("expected all 7 created across chunks, got %+v", result)
	}
}

func TestParseProposalRows(t *testing.T) {
	rows := [][]string{
		{"3", "1", "5", "議案", "市税条例の一部改正", "https://example.org/p/5", "2024-02-01", "2024-03-15"},
		{"", "", "", "", "陳情", "", "", ""},
	}
	records, err := commands.ParseProposalRows(rows)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if !first.Key.Complete() {
		t.Fatalf("expected complete business key, got %+v", first.Key)
	}
	if first.Title != "市税条例の一部改正" || first.ExternalID != "https://example.org/p/5" {
		t.Fatalf("unexpected record: %+v", first)
	}
	if first.SubmittedDate == nil || first.SubmittedDate.Format("2006-01-02") != "2024-02-01" {
		t.Fatalf("unexpected submitted date: %v", first.SubmittedDate)
	}
	if records[1].Key.Complete() || records[1].SubmittedDate != nil {
		t.Fatalf("empty columns must stay unset: %+v", records[1])
	}
}

func TestParseProposalRowsRejectsShortRow(t *testing.T) {
	if _, err := commands.ParseProposalRows([][]string{{"3", "1"}}); err == nil {
		t.Fatalf("expected error for short row")
	}
}

func TestParseProposalRowsRejectsBadDate(t *testing.T) {
	rows := [][]string{{"3", "1", "5", "議案", "t", "", "02/01/2024", ""}}
	if _, err := commands.ParseProposalRows(rows); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}
