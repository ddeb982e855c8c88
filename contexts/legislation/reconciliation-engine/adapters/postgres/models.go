package postgresadapter

import (
	"time"

	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
)

type proposalModel struct {
	ID                 string     `gorm:"primaryKey;column:id"`
	GoverningBodyID    int64      `gorm:"column:governing_body_id;index:idx_proposals_business_key,unique"`
	SessionNumber      int        `gorm:"column:session_number;index:idx_proposals_business_key,unique"`
	ProposalNumber     int        `gorm:"column:proposal_number;index:idx_proposals_business_key,unique"`
	ProposalType       string     `gorm:"column:proposal_type;index:idx_proposals_business_key,unique"`
	ExternalID         string     `gorm:"column:external_id;index"`
	Title              string     `gorm:"column:title"`
	ConferenceID       *int64     `gorm:"column:conference_id"`
	MeetingID          *int64     `gorm:"column:meeting_id"`
	SubmittedDate      *time.Time `gorm:"column:submitted_date"`
	VotedDate          *time.Time `gorm:"column:voted_date"`
	DeliberationResult string     `gorm:"column:deliberation_result"`
	DeliberationStatus string     `gorm:"column:deliberation_status"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (proposalModel) TableName() string { return "proposals" }

func (m proposalModel) toEntity() entities.Proposal {
	return entities.Proposal{
		ID: m.ID,
		Key: entities.ProposalKey{
			GoverningBodyID: m.GoverningBodyID,
			SessionNumber:   m.SessionNumber,
			ProposalNumber:  m.ProposalNumber,
			ProposalType:    m.ProposalType,
		},
		ExternalID:         m.ExternalID,
		Title:              m.Title,
		ConferenceID:       m.ConferenceID,
		MeetingID:          m.MeetingID,
		SubmittedDate:      m.SubmittedDate,
		VotedDate:          m.VotedDate,
		DeliberationResult: m.DeliberationResult,
		DeliberationStatus: m.DeliberationStatus,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

func proposalModelFromEntity(p entities.Proposal) proposalModel {
	return proposalModel{
		ID:                 p.ID,
		GoverningBodyID:    p.Key.GoverningBodyID,
		SessionNumber:      p.Key.SessionNumber,
		ProposalNumber:     p.Key.ProposalNumber,
		ProposalType:       p.Key.ProposalType,
		ExternalID:         p.ExternalID,
		Title:              p.Title,
		ConferenceID:       p.ConferenceID,
		MeetingID:          p.MeetingID,
		SubmittedDate:      p.SubmittedDate,
		VotedDate:          p.VotedDate,
		DeliberationResult: p.DeliberationResult,
		DeliberationStatus: p.DeliberationStatus,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

type conferenceModel struct {
	ID              int64  `gorm:"primaryKey;column:id"`
	GoverningBodyID int64  `gorm:"column:governing_body_id"`
	Name            string `gorm:"column:name"`
}

func (conferenceModel) TableName() string { return "conferences" }

type meetingModel struct {
	ID           int64      `gorm:"primaryKey;column:id"`
	ConferenceID int64      `gorm:"column:conference_id"`
	Date         *time.Time `gorm:"column:date"`
	Name         string     `gorm:"column:name"`
}

func (meetingModel) TableName() string { return "meetings" }

type politicianModel struct {
	ID          int64  `gorm:"primaryKey;column:id"`
	Name        string `gorm:"column:name"`
	NameReading string `gorm:"column:name_reading"`
}

func (politicianModel) TableName() string { return "politicians" }

type conferenceMemberModel struct {
	ID           int64 `gorm:"primaryKey;column:id"`
	ConferenceID int64 `gorm:"column:conference_id;index"`
	PoliticianID int64 `gorm:"column:politician_id"`
	Active       bool  `gorm:"column:active"`
}

func (conferenceMemberModel) TableName() string { return "conference_members" }

type groupModel struct {
	ID              int64  `gorm:"primaryKey;column:id"`
	GoverningBodyID int64  `gorm:"column:governing_body_id;index"`
	Name            string `gorm:"column:name"`
	Active          bool   `gorm:"column:active"`
}

func (groupModel) TableName() string { return "parliamentary_groups" }

type membershipModel struct {
	ID           int64      `gorm:"primaryKey;column:id"`
	PoliticianID int64      `gorm:"column:politician_id"`
	GroupID      int64      `gorm:"column:group_id;index"`
	StartDate    time.Time  `gorm:"column:start_date"`
	EndDate      *time.Time `gorm:"column:end_date"`
}

func (membershipModel) TableName() string { return "memberships" }

func (m membershipModel) toEntity() entities.Membership {
	return entities.Membership{
		ID:           m.ID,
		PoliticianID: m.PoliticianID,
		GroupID:      m.GroupID,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
	}
}

type extractedJudgmentModel struct {
	ID                 string    `gorm:"primaryKey;column:id"`
	ProposalID         string    `gorm:"column:proposal_id;index"`
	RawGroupName       string    `gorm:"column:raw_group_name"`
	RawPoliticianName  string    `gorm:"column:raw_politician_name"`
	RawJudgment        string    `gorm:"column:raw_judgment"`
	MatchedGroupID     *int64    `gorm:"column:matched_group_id"`
	MatchingStatus     string    `gorm:"column:matching_status;index"`
	MatchingConfidence float64   `gorm:"column:matching_confidence"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (extractedJudgmentModel) TableName() string { return "extracted_judgments" }

func (m extractedJudgmentModel) toEntity() entities.ExtractedJudgment {
	return entities.ExtractedJudgment{
		ID:                 m.ID,
		ProposalID:         m.ProposalID,
		RawGroupName:       m.RawGroupName,
		RawPoliticianName:  m.RawPoliticianName,
		RawJudgment:        m.RawJudgment,
		MatchedGroupID:     m.MatchedGroupID,
		MatchingStatus:     entities.MatchingStatus(m.MatchingStatus),
		MatchingConfidence: m.MatchingConfidence,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
}

type groupJudgmentModel struct {
	ID         string    `gorm:"primaryKey;column:id"`
	ProposalID string    `gorm:"column:proposal_id;index"`
	Judgment   string    `gorm:"column:judgment"`
	JudgeType  string    `gorm:"column:judge_type;index"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (groupJudgmentModel) TableName() string { return "group_judgments" }

// judgmentGroupLinkModel models the judgment's group-id set as join rows
// instead of a serialized list column.
type judgmentGroupLinkModel struct {
	GroupJudgmentID string `gorm:"primaryKey;column:group_judgment_id"`
	GroupID         int64  `gorm:"primaryKey;column:group_id"`
}

func (judgmentGroupLinkModel) TableName() string { return "judgment_group_links" }

type judgmentPoliticianLinkModel struct {
	GroupJudgmentID string `gorm:"primaryKey;column:group_judgment_id"`
	PoliticianID    int64  `gorm:"primaryKey;column:politician_id"`
}

func (judgmentPoliticianLinkModel) TableName() string { return "judgment_politician_links" }

type individualJudgmentModel struct {
	ID                    string    `gorm:"primaryKey;column:id"`
	ProposalID            string    `gorm:"column:proposal_id;index:idx_individual_judgments_identity,unique"`
	PoliticianID          int64     `gorm:"column:politician_id;index:idx_individual_judgments_identity,unique"`
	Judgment              string    `gorm:"column:judgment"`
	SourceType            string    `gorm:"column:source_type"`
	SourceGroupJudgmentID *string   `gorm:"column:source_group_judgment_id"`
	IsDefection           *bool     `gorm:"column:is_defection"`
	CreatedAt             time.Time `gorm:"column:created_at"`
	UpdatedAt             time.Time `gorm:"column:updated_at"`
}

func (individualJudgmentModel) TableName() string { return "individual_judgments" }

func (m individualJudgmentModel) toEntity() entities.IndividualJudgment {
	return entities.IndividualJudgment{
		ID:                    m.ID,
		ProposalID:            m.ProposalID,
		PoliticianID:          m.PoliticianID,
		Judgment:              entities.Judgment(m.Judgment),
		SourceType:            entities.SourceType(m.SourceType),
		SourceGroupJudgmentID: m.SourceGroupJudgmentID,
		IsDefection:           m.IsDefection,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}

func individualJudgmentModelFromEntity(j entities.IndividualJudgment) individualJudgmentModel {
	return individualJudgmentModel{
		ID:                    j.ID,
		ProposalID:            j.ProposalID,
		PoliticianID:          j.PoliticianID,
		Judgment:              string(j.Judgment),
		SourceType:            string(j.SourceType),
		SourceGroupJudgmentID: j.SourceGroupJudgmentID,
		IsDefection:           j.IsDefection,
		CreatedAt:             j.CreatedAt,
		UpdatedAt:             j.UpdatedAt,
	}
}

type submitterModel struct {
	ID                  string    `gorm:"primaryKey;column:id"`
	ProposalID          string    `gorm:"column:proposal_id;index"`
	SubmitterType       string    `gorm:"column:submitter_type"`
	RawName             string    `gorm:"column:raw_name"`
	MatchedPoliticianID *int64    `gorm:"column:matched_politician_id"`
	MatchedGroupID      *int64    `gorm:"column:matched_group_id"`
	DisplayOrder        int       `gorm:"column:display_order"`
	Confidence          float64   `gorm:"column:confidence"`
	CreatedAt           time.Time `gorm:"column:created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at"`
}

func (submitterModel) TableName() string { return "submitters" }
