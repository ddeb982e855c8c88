package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	application "councilwatch/contexts/legislation/reconciliation-engine/application"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
	domainerrors "councilwatch/contexts/legislation/reconciliation-engine/domain/errors"
	"councilwatch/contexts/legislation/reconciliation-engine/ports"
)

const defaultImportChunkSize = 100

// ProposalRecord is one incoming proposal from the legacy tabular export.
type ProposalRecord struct {
	Key           entities.ProposalKey
	ExternalID    string
	Title         string
	MeetingID     *int64
	SubmittedDate *time.Time
	VotedDate     *time.Time
}

type ImportProposalsCommand struct {
	Records   []ProposalRecord
	ChunkSize int
}

type ImportResult struct {
	Total   int
	Created int
	Skipped int
	Updated int
	Errors  int
}

// ProposalImportUseCase deduplicates bulk-imported proposals by business key
// or external id and backfills missing dates on duplicates. Records without
// either identifier cannot be duplicate-checked and are always created.
type ProposalImportUseCase struct {
	Proposals ports.ProposalRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc ProposalImportUseCase) ImportProposals(ctx context.Context, cmd ImportProposalsCommand) (ImportResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	chunkSize := cmd.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultImportChunkSize
	}

	result := ImportResult{Total: len(cmd.Records)}
	for start := 0; start < len(cmd.Records); start += chunkSize {
		end := start + chunkSize
		if end > len(cmd.Records) {
			end = len(cmd.Records)
		}
		if err := uc.importChunk(ctx, cmd.Records[start:end], &result, logger); err != nil {
			// Storage failures abort the batch; prior chunks stay
			// committed (no cross-batch transaction).
			return result, err
		}
	}

	logger.Info("proposal import finished",
		"event", "proposal_import_finished",
		"module", "legislation/reconciliation-engine",
		"layer", "application",
		"total", result.Total,
		"created", result.Created,
		"skipped", result.Skipped,
		"updated", result.Updated,
		"errors", result.Errors,
	)
	return result, nil
}

func (uc ProposalImportUseCase) importChunk(ctx context.Context, records []ProposalRecord, result *ImportResult, logger *slog.Logger) error {
	now := uc.Clock.Now()
	var creates []entities.Proposal
	var updates []entities.Proposal
	// Rows queued for creation in this chunk are not visible to the
	// repository yet, so duplicates inside one chunk are tracked here.
	pendingByKey := make(map[entities.ProposalKey]int)
	pendingByURL := make(map[string]int)
	for _, record := range records {
		if idx, ok := uc.findPending(record, pendingByKey, pendingByURL); ok {
			result.Skipped++
			queued := &creates[idx]
			if queued.SubmittedDate == nil && record.SubmittedDate != nil {
				queued.SubmittedDate = record.SubmittedDate
			}
			if queued.VotedDate == nil && record.VotedDate != nil {
				queued.VotedDate = record.VotedDate
			}
			continue
		}
		existing, found, err := uc.findExisting(ctx, record)
		if err != nil {
			if isRepositoryFailure(err) {
				return err
			}
			result.Errors++
			logger.Warn("proposal record rejected",
				"event", "proposal_import_record_failed",
				"module", "legislation/reconciliation-engine",
				"layer", "application",
				"title", record.Title,
				"error", err.Error(),
			)
			continue
		}
		if !found {
			id, err := uc.IDGen.NewID(ctx)
			if err != nil {
				return err
			}
			creates = append(creates, entities.Proposal{
				ID:            id,
				Key:           record.Key,
				ExternalID:    record.ExternalID,
				Title:         record.Title,
				MeetingID:     record.MeetingID,
				SubmittedDate: record.SubmittedDate,
				VotedDate:     record.VotedDate,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
			if record.Key.Complete() {
				pendingByKey[record.Key] = len(creates) - 1
			}
			if url := strings.TrimSpace(record.ExternalID); url != "" {
				pendingByURL[url] = len(creates) - 1
			}
			result.Created++
			continue
		}

		result.Skipped++
		// Backfill only missing dates; a stored non-null date is never
		// overwritten.
		changed := false
		if existing.SubmittedDate == nil && record.SubmittedDate != nil {
			existing.SubmittedDate = record.SubmittedDate
			changed = true
		}
		if existing.VotedDate == nil && record.VotedDate != nil {
			existing.VotedDate = record.VotedDate
			changed = true
		}
		if changed {
			existing.UpdatedAt = now
			updates = append(updates, existing)
			result.Updated++
		}
	}

	if len(creates) > 0 {
		if err := uc.Proposals.BulkCreate(ctx, creates); err != nil {
			return err
		}
	}
	if len(updates) > 0 {
		if err := uc.Proposals.BulkUpdate(ctx, updates); err != nil {
			return err
		}
	}
	return nil
}

// findPending mirrors findExisting's identifier precedence against the rows
// queued for creation earlier in the same chunk.
func (uc ProposalImportUseCase) findPending(record ProposalRecord, byKey map[entities.ProposalKey]int, byURL map[string]int) (int, bool) {
	if record.Key.Complete() {
		idx, ok := byKey[record.Key]
		return idx, ok
	}
	if url := strings.TrimSpace(record.ExternalID); url != "" {
		idx, ok := byURL[url]
		return idx, ok
	}
	return 0, false
}

func (uc ProposalImportUseCase) findExisting(ctx context.Context, record ProposalRecord) (entities.Proposal, bool, error) {
	if record.Key.Complete() {
		return uc.Proposals.FindByIdentifier(ctx, record.Key)
	}
	if strings.TrimSpace(record.ExternalID) != "" {
		return uc.Proposals.FindByURL(ctx, record.ExternalID)
	}
	// No identifier at all: duplicate checking is impossible.
	return entities.Proposal{}, false, nil
}

func isRepositoryFailure(err error) bool {
	return errors.Is(err, domainerrors.ErrRepository)
}

// Positional column contract with the upstream exporter. The indices are
// fixed; changing them breaks the legacy export.
const (
	colGoverningBodyID = 0
	colSessionNumber   = 1
	colProposalNumber  = 2
	colProposalType    = 3
	colTitle           = 4
	colExternalID      = 5
	colSubmittedDate   = 6
	colVotedDate       = 7

	proposalRowWidth = 8
)

// ParseProposalRows converts legacy tabular export rows into import records.
// A malformed row fails the whole parse call.
func ParseProposalRows(rows [][]string) ([]ProposalRecord, error) {
	records := make([]ProposalRecord, 0, len(rows))
	for i, row := range rows {
		if len(row) < proposalRowWidth {
			return nil, fmt.Errorf("%w: row %d: expected %d columns, got %d", domainerrors.ErrValidation, i+1, proposalRowWidth, len(row))
		}
		record := ProposalRecord{
			Title:      strings.TrimSpace(row[colTitle]),
			ExternalID: strings.TrimSpace(row[colExternalID]),
		}
		var err error
		if record.Key.GoverningBodyID, err = parseOptionalInt64(row[colGoverningBodyID]); err != nil {
			return nil, fmt.Errorf("%w: row %d: governing body id: %v", domainerrors.ErrValidation, i+1, err)
		}
		if record.Key.SessionNumber, err = parseOptionalInt(row[colSessionNumber]); err != nil {
			return nil, fmt.Errorf("%w: row %d: session number: %v", domainerrors.ErrValidation, i+1, err)
		}
		if record.Key.ProposalNumber, err = parseOptionalInt(row[colProposalNumber]); err != nil {
			return nil, fmt.Errorf("%w: row %d: proposal number: %v", domainerrors.ErrValidation, i+1, err)
		}
		record.Key.ProposalType = strings.TrimSpace(row[colProposalType])
		if record.SubmittedDate, err = parseOptionalDate(row[colSubmittedDate]); err != nil {
			return nil, fmt.Errorf("%w: row %d: submitted date: %v", domainerrors.ErrValidation, i+1, err)
		}
		if record.VotedDate, err = parseOptionalDate(row[colVotedDate]); err != nil {
			return nil, fmt.Errorf("%w: row %d: voted date: %v", domainerrors.ErrValidation, i+1, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func parseOptionalInt64(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

func parseOptionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func parseOptionalDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
