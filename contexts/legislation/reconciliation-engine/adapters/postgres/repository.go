package postgresadapter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
	domainerrors "councilwatch/contexts/legislation/reconciliation-engine/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository implements every reconciliation-engine port on top of gorm.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

// ProposalRepository

func (r *Repository) GetByID(ctx context.Context, id string) (entities.Proposal, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(id)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, domainerrors.ErrNotFound
		}
		return entities.Proposal{}, r.logError("repo_get_proposal_failed", err, "proposal_id", id)
	}
	return row.toEntity(), nil
}

func (r *Repository) FindByIdentifier(ctx context.Context, key entities.ProposalKey) (entities.Proposal, bool, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).
		Where("governing_body_id = ?", key.GoverningBodyID).
		Where("session_number = ?", key.SessionNumber).
		Where("proposal_number = ?", key.ProposalNumber).
		Where("proposal_type = ?", key.ProposalType).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, false, nil
		}
		return entities.Proposal{}, false, r.logError("repo_find_proposal_by_key_failed", err,
			"governing_body_id", key.GoverningBodyID,
			"session_number", key.SessionNumber,
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) FindByURL(ctx context.Context, externalID string) (entities.Proposal, bool, error) {
	var row proposalModel
	err := r.db.WithContext(ctx).Where("external_id = ?", strings.TrimSpace(externalID)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Proposal{}, false, nil
		}
		return entities.Proposal{}, false, r.logError("repo_find_proposal_by_url_failed", err, "external_id", externalID)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) BulkCreate(ctx context.Context, proposals []entities.Proposal) error {
	if len(proposals) == 0 {
		return nil
	}
	rows := make([]proposalModel, 0, len(proposals))
	for _, proposal := range proposals {
		rows = append(rows, proposalModelFromEntity(proposal))
	}
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("repo_bulk_create_proposals_failed", err, "count", len(rows))
	}
	return nil
}

func (r *Repository) BulkUpdate(ctx context.Context, proposals []entities.Proposal) error {
	for _, proposal := range proposals {
		if strings.TrimSpace(proposal.ID) == "" {
			return fmt.Errorf("%w: proposal update without id", domainerrors.ErrDataIntegrity)
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, proposal := range proposals {
			row := proposalModelFromEntity(proposal)
			if err := tx.Model(&proposalModel{}).Where("id = ?", row.ID).Updates(map[string]any{
				"title":               row.Title,
				"meeting_id":          row.MeetingID,
				"submitted_date":      row.SubmittedDate,
				"voted_date":          row.VotedDate,
				"deliberation_result": row.DeliberationResult,
				"deliberation_status": row.DeliberationStatus,
				"updated_at":          row.UpdatedAt,
			}).Error; err != nil {
				return r.logError("repo_bulk_update_proposals_failed", err, "proposal_id", row.ID)
			}
		}
		return nil
	})
}

// ConferenceRepository / MeetingRepository

func (r *Repository) GetConference(ctx context.Context, id int64) (entities.Conference, error) {
	var row conferenceModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Conference{}, domainerrors.ErrNotFound
		}
		return entities.Conference{}, r.logError("repo_get_conference_failed", err, "conference_id", id)
	}
	return entities.Conference{ID: row.ID, GoverningBodyID: row.GoverningBodyID, Name: row.Name}, nil
}

func (r *Repository) GetMeeting(ctx context.Context, id int64) (entities.Meeting, error) {
	var row meetingModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Meeting{}, domainerrors.ErrNotFound
		}
		return entities.Meeting{}, r.logError("repo_get_meeting_failed", err, "meeting_id", id)
	}
	return entities.Meeting{ID: row.ID, ConferenceID: row.ConferenceID, Date: row.Date, Name: row.Name}, nil
}

// PoliticianRepository

func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]entities.Politician, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []politicianModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, r.logError("repo_get_politicians_failed", err, "count", len(ids))
	}
	out := make([]entities.Politician, 0, len(rows))
	for _, row := range rows {
		out = append(out, entities.Politician{ID: row.ID, Name: row.Name, NameReading: row.NameReading})
	}
	return out, nil
}

func (r *Repository) ListActiveByConference(ctx context.Context, conferenceID int64) ([]entities.Politician, error) {
	// Single join keeps this free of N+1 lookups.
	var rows []politicianModel
	err := r.db.WithContext(ctx).
		Model(&politicianModel{}).
		Joins("JOIN conference_members ON conference_members.politician_id = politicians.id").
		Where("conference_members.conference_id = ?", conferenceID).
		Where("conference_members.active = ?", true).
		Order("politicians.id").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("repo_list_conference_members_failed", err, "conference_id", conferenceID)
	}
	out := make([]entities.Politician, 0, len(rows))
	for _, row := range rows {
		out = append(out, entities.Politician{ID: row.ID, Name: row.Name, NameReading: row.NameReading})
	}
	return out, nil
}

// GroupRepository

func (r *Repository) GetGroupsByIDs(ctx context.Context, ids []int64) ([]entities.ParliamentaryGroup, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []groupModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, r.logError("repo_get_groups_failed", err, "count", len(ids))
	}
	return groupsToEntities(rows), nil
}

func (r *Repository) ListByGoverningBody(ctx context.Context, governingBodyID int64, activeOnly bool) ([]entities.ParliamentaryGroup, error) {
	tx := r.db.WithContext(ctx).Where("governing_body_id = ?", governingBodyID)
	if activeOnly {
		tx = tx.Where("active = ?", true)
	}
	var rows []groupModel
	if err := tx.Order("id").Find(&rows).Error; err != nil {
		return nil, r.logError("repo_list_groups_failed", err, "governing_body_id", governingBodyID)
	}
	return groupsToEntities(rows), nil
}

func groupsToEntities(rows []groupModel) []entities.ParliamentaryGroup {
	out := make([]entities.ParliamentaryGroup, 0, len(rows))
	for _, row := range rows {
		out = append(out, entities.ParliamentaryGroup{
			ID:              row.ID,
			GoverningBodyID: row.GoverningBodyID,
			Name:            row.Name,
			Active:          row.Active,
		})
	}
	return out
}

// MembershipRepository

func (r *Repository) GetActiveByGroup(ctx context.Context, groupID int64, asOf time.Time) ([]entities.Membership, error) {
	var rows []membershipModel
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Where("start_date <= ?", asOf).
		Where("end_date IS NULL OR end_date >= ?", asOf).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("repo_list_memberships_failed", err, "group_id", groupID)
	}
	out := make([]entities.Membership, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// ExtractedJudgmentRepository

func (r *Repository) GetExtracted(ctx context.Context, id string) (entities.ExtractedJudgment, error) {
	var row extractedJudgmentModel
	err := r.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(id)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.ExtractedJudgment{}, domainerrors.ErrNotFound
		}
		return entities.ExtractedJudgment{}, r.logError("repo_get_extracted_failed", err, "extracted_judgment_id", id)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListPendingByGoverningBody(ctx context.Context, governingBodyID int64) ([]entities.ExtractedJudgment, error) {
	return r.listExtracted(ctx, governingBodyID, []string{string(entities.MatchingStatusPending)}, true)
}

func (r *Repository) ListForReview(ctx context.Context, governingBodyID int64) ([]entities.ExtractedJudgment, error) {
	statuses := []string{
		string(entities.MatchingStatusUnmatched),
		string(entities.MatchingStatusNeedsReview),
	}
	return r.listExtracted(ctx, governingBodyID, statuses, false)
}

func (r *Repository) listExtracted(ctx context.Context, governingBodyID int64, statuses []string, requireGroupName bool) ([]entities.ExtractedJudgment, error) {
	tx := r.db.WithContext(ctx).
		Model(&extractedJudgmentModel{}).
		Joins("JOIN proposals ON proposals.id = extracted_judgments.proposal_id").
		Where("proposals.governing_body_id = ?", governingBodyID).
		Where("extracted_judgments.matching_status IN ?", statuses)
	if requireGroupName {
		tx = tx.Where("extracted_judgments.raw_group_name <> ''")
	}
	var rows []extractedJudgmentModel
	if err := tx.Order("extracted_judgments.id").Find(&rows).Error; err != nil {
		return nil, r.logError("repo_list_extracted_failed", err, "governing_body_id", governingBodyID)
	}
	out := make([]entities.ExtractedJudgment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *Repository) UpdateMatchingResult(ctx context.Context, id string, groupID *int64, confidence float64, status entities.MatchingStatus) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: matching result update without id", domainerrors.ErrDataIntegrity)
	}
	result := r.db.WithContext(ctx).Model(&extractedJudgmentModel{}).
		Where("id = ?", strings.TrimSpace(id)).
		Updates(map[string]any{
			"matched_group_id":    groupID,
			"matching_confidence": confidence,
			"matching_status":     string(status),
			"updated_at":          time.Now().UTC(),
		})
	if result.Error != nil {
		return r.logError("repo_update_matching_result_failed", result.Error, "extracted_judgment_id", id)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *Repository) MarkProcessed(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Model(&extractedJudgmentModel{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"matching_status": string(entities.MatchingStatusProcessed),
			"updated_at":      time.Now().UTC(),
		}).Error
	if err != nil {
		return r.logError("repo_mark_processed_failed", err, "count", len(ids))
	}
	return nil
}

// GroupJudgmentRepository

func (r *Repository) GetGroupJudgment(ctx context.Context, id string) (entities.GroupJudgment, error) {
	var row groupJudgmentModel
	err := r.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(id)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.GroupJudgment{}, domainerrors.ErrNotFound
		}
		return entities.GroupJudgment{}, r.logError("repo_get_group_judgment_failed", err, "group_judgment_id", id)
	}
	judgments, err := r.attachLinks(ctx, []groupJudgmentModel{row})
	if err != nil {
		return entities.GroupJudgment{}, err
	}
	return judgments[0], nil
}

func (r *Repository) ListGroupJudgmentsByProposal(ctx context.Context, proposalID string) ([]entities.GroupJudgment, error) {
	var rows []groupJudgmentModel
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", strings.TrimSpace(proposalID)).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("repo_list_group_judgments_failed", err, "proposal_id", proposalID)
	}
	return r.attachLinks(ctx, rows)
}

func (r *Repository) ListGroupJudgments(ctx context.Context) ([]entities.GroupJudgment, error) {
	var rows []groupJudgmentModel
	err := r.db.WithContext(ctx).
		Where("judge_type = ?", string(entities.JudgeTypeGroup)).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("repo_list_all_group_judgments_failed", err)
	}
	return r.attachLinks(ctx, rows)
}

// attachLinks loads the group/politician id sets for a page of judgments in
// two batched queries.
func (r *Repository) attachLinks(ctx context.Context, rows []groupJudgmentModel) ([]entities.GroupJudgment, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}

	var groupLinks []judgmentGroupLinkModel
	if err := r.db.WithContext(ctx).Where("group_judgment_id IN ?", ids).Find(&groupLinks).Error; err != nil {
		return nil, r.logError("repo_load_judgment_group_links_failed", err, "count", len(ids))
	}
	var politicianLinks []judgmentPoliticianLinkModel
	if err := r.db.WithContext(ctx).Where("group_judgment_id IN ?", ids).Find(&politicianLinks).Error; err != nil {
		return nil, r.logError("repo_load_judgment_politician_links_failed", err, "count", len(ids))
	}

	groupsByJudgment := make(map[string][]int64)
	for _, link := range groupLinks {
		groupsByJudgment[link.GroupJudgmentID] = append(groupsByJudgment[link.GroupJudgmentID], link.GroupID)
	}
	politiciansByJudgment := make(map[string][]int64)
	for _, link := range politicianLinks {
		politiciansByJudgment[link.GroupJudgmentID] = append(politiciansByJudgment[link.GroupJudgmentID], link.PoliticianID)
	}

	out := make([]entities.GroupJudgment, 0, len(rows))
	for _, row := range rows {
		groupIDs := groupsByJudgment[row.ID]
		sort.Slice(groupIDs, func(i, j int) bool { return groupIDs[i] < groupIDs[j] })
		politicianIDs := politiciansByJudgment[row.ID]
		sort.Slice(politicianIDs, func(i, j int) bool { return politicianIDs[i] < politicianIDs[j] })
		out = append(out, entities.GroupJudgment{
			ID:            row.ID,
			ProposalID:    row.ProposalID,
			Judgment:      entities.Judgment(row.Judgment),
			JudgeType:     entities.JudgeType(row.JudgeType),
			GroupIDs:      groupIDs,
			PoliticianIDs: politicianIDs,
			CreatedAt:     row.CreatedAt,
			UpdatedAt:     row.UpdatedAt,
		})
	}
	return out, nil
}

func (r *Repository) BulkCreateGroupJudgments(ctx context.Context, judgments []entities.GroupJudgment) error {
	if len(judgments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows := make([]groupJudgmentModel, 0, len(judgments))
		var groupLinks []judgmentGroupLinkModel
		var politicianLinks []judgmentPoliticianLinkModel
		for _, judgment := range judgments {
			rows = append(rows, groupJudgmentModel{
				ID:         judgment.ID,
				ProposalID: judgment.ProposalID,
				Judgment:   string(judgment.Judgment),
				JudgeType:  string(judgment.JudgeType),
				CreatedAt:  judgment.CreatedAt,
				UpdatedAt:  judgment.UpdatedAt,
			})
			for _, groupID := range judgment.GroupIDs {
				groupLinks = append(groupLinks, judgmentGroupLinkModel{GroupJudgmentID: judgment.ID, GroupID: groupID})
			}
			for _, politicianID := range judgment.PoliticianIDs {
				politicianLinks = append(politicianLinks, judgmentPoliticianLinkModel{GroupJudgmentID: judgment.ID, PoliticianID: politicianID})
			}
		}
		if err := tx.Create(&rows).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrConflict
			}
			return r.logError("repo_bulk_create_group_judgments_failed", err, "count", len(rows))
		}
		if len(groupLinks) > 0 {
			if err := tx.Create(&groupLinks).Error; err != nil {
				return r.logError("repo_bulk_create_group_links_failed", err, "count", len(groupLinks))
			}
		}
		if len(politicianLinks) > 0 {
			if err := tx.Create(&politicianLinks).Error; err != nil {
				return r.logError("repo_bulk_create_politician_links_failed", err, "count", len(politicianLinks))
			}
		}
		return nil
	})
}

// IndividualJudgmentRepository

func (r *Repository) GetByProposalAndPolitician(ctx context.Context, proposalID string, politicianID int64) (entities.IndividualJudgment, bool, error) {
	var row individualJudgmentModel
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", strings.TrimSpace(proposalID)).
		Where("politician_id = ?", politicianID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.IndividualJudgment{}, false, nil
		}
		return entities.IndividualJudgment{}, false, r.logError("repo_get_individual_failed", err,
			"proposal_id", proposalID,
			"politician_id", politicianID,
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) ListIndividualJudgmentsByProposal(ctx context.Context, proposalID string) ([]entities.IndividualJudgment, error) {
	var rows []individualJudgmentModel
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", strings.TrimSpace(proposalID)).
		Order("politician_id").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("repo_list_individuals_failed", err, "proposal_id", proposalID)
	}
	out := make([]entities.IndividualJudgment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

func (r *Repository) BulkCreateIndividualJudgments(ctx context.Context, judgments []entities.IndividualJudgment) error {
	if len(judgments) == 0 {
		return nil
	}
	rows := make([]individualJudgmentModel, 0, len(judgments))
	for _, judgment := range judgments {
		rows = append(rows, individualJudgmentModelFromEntity(judgment))
	}
	// Concurrent expansions race on (proposal_id, politician_id); the unique
	// index is the arbiter and the losing writer sees a conflict.
	if err := r.db.WithContext(ctx).Create(&rows).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("repo_bulk_create_individuals_failed", err, "count", len(rows))
	}
	return nil
}

func (r *Repository) BulkUpdateIndividualJudgments(ctx context.Context, judgments []entities.IndividualJudgment) error {
	for _, judgment := range judgments {
		if strings.TrimSpace(judgment.ID) == "" {
			return fmt.Errorf("%w: individual judgment update without id", domainerrors.ErrDataIntegrity)
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, judgment := range judgments {
			row := individualJudgmentModelFromEntity(judgment)
			if err := tx.Model(&individualJudgmentModel{}).Where("id = ?", row.ID).Updates(map[string]any{
				"judgment":                 row.Judgment,
				"source_type":              row.SourceType,
				"source_group_judgment_id": row.SourceGroupJudgmentID,
				"is_defection":             row.IsDefection,
				"updated_at":               row.UpdatedAt,
			}).Error; err != nil {
				return r.logError("repo_bulk_update_individuals_failed", err, "individual_judgment_id", row.ID)
			}
		}
		return nil
	})
}

// SubmitterRepository

func (r *Repository) ListSubmittersByProposal(ctx context.Context, proposalID string) ([]entities.Submitter, error) {
	var rows []submitterModel
	err := r.db.WithContext(ctx).
		Where("proposal_id = ?", strings.TrimSpace(proposalID)).
		Order("display_order").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("repo_list_submitters_failed", err, "proposal_id", proposalID)
	}
	out := make([]entities.Submitter, 0, len(rows))
	for _, row := range rows {
		out = append(out, entities.Submitter{
			ID:                  row.ID,
			ProposalID:          row.ProposalID,
			SubmitterType:       entities.SubmitterType(row.SubmitterType),
			RawName:             row.RawName,
			MatchedPoliticianID: row.MatchedPoliticianID,
			MatchedGroupID:      row.MatchedGroupID,
			DisplayOrder:        row.DisplayOrder,
			Confidence:          row.Confidence,
			CreatedAt:           row.CreatedAt,
			UpdatedAt:           row.UpdatedAt,
		})
	}
	return out, nil
}

func (r *Repository) BulkCreateSubmitters(ctx context.Context, submitters []entities.Submitter) error {
	if len(submitters) == 0 {
		return nil
	}
	rows := make([]submitterModel, 0, len(submitters))
	for _, submitter := range submitters {
		rows = append(rows, submitterModel{
			ID:                  submitter.ID,
			ProposalID:          submitter.ProposalID,
			SubmitterType:       string(submitter.SubmitterType),
			RawName:             submitter.RawName,
			MatchedPoliticianID: submitter.MatchedPoliticianID,
			MatchedGroupID:      submitter.MatchedGroupID,
			DisplayOrder:        submitter.DisplayOrder,
			Confidence:          submitter.Confidence,
			CreatedAt:           submitter.CreatedAt,
			UpdatedAt:           submitter.UpdatedAt,
		})
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&rows)
	if create.Error != nil {
		return r.logError("repo_bulk_create_submitters_failed", create.Error, "count", len(rows))
	}
	return nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "legislation/reconciliation-engine",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("repository operation failed", fields...)
	return fmt.Errorf("%w: %v", domainerrors.ErrRepository, err)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
