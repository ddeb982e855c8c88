package ports

import (
	"context"
	"time"

	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
)

type ProposalRepository interface {
	GetByID(ctx context.Context, id string) (entities.Proposal, error)
	FindByIdentifier(ctx context.Context, key entities.ProposalKey) (entities.Proposal, bool, error)
	FindByURL(ctx context.Context, externalID string) (entities.Proposal, bool, error)
	BulkCreate(ctx context.Context, proposals []entities.Proposal) error
	BulkUpdate(ctx context.Context, proposals []entities.Proposal) error
}

type ConferenceRepository interface {
	GetConference(ctx context.Context, id int64) (entities.Conference, error)
}

type MeetingRepository interface {
	GetMeeting(ctx context.Context, id int64) (entities.Meeting, error)
}

type PoliticianRepository interface {
	GetByIDs(ctx context.Context, ids []int64) ([]entities.Politician, error)
	ListActiveByConference(ctx context.Context, conferenceID int64) ([]entities.Politician, error)
}

type GroupRepository interface {
	GetGroupsByIDs(ctx context.Context, ids []int64) ([]entities.ParliamentaryGroup, error)
	// ListByGoverningBody returns every group of the governing body when
	// activeOnly is false, active groups otherwise.
	ListByGoverningBody(ctx context.Context, governingBodyID int64, activeOnly bool) ([]entities.ParliamentaryGroup, error)
}

type MembershipRepository interface {
	// GetActiveByGroup returns memberships whose interval covers asOf.
	GetActiveByGroup(ctx context.Context, groupID int64, asOf time.Time) ([]entities.Membership, error)
}

type ExtractedJudgmentRepository interface {
	GetExtracted(ctx context.Context, id string) (entities.ExtractedJudgment, error)
	// ListPendingByGoverningBody returns pending records with a non-null
	// raw group name, scoped through the proposal's governing body.
	ListPendingByGoverningBody(ctx context.Context, governingBodyID int64) ([]entities.ExtractedJudgment, error)
	ListForReview(ctx context.Context, governingBodyID int64) ([]entities.ExtractedJudgment, error)
	UpdateMatchingResult(ctx context.Context, id string, groupID *int64, confidence float64, status entities.MatchingStatus) error
	MarkProcessed(ctx context.Context, ids []string) error
}

type GroupJudgmentRepository interface {
	GetGroupJudgment(ctx context.Context, id string) (entities.GroupJudgment, error)
	ListGroupJudgmentsByProposal(ctx context.Context, proposalID string) ([]entities.GroupJudgment, error)
	// ListGroupJudgments returns every judgment with judge_type=group,
	// system-wide. Expansion is idempotent so re-listing is safe.
	ListGroupJudgments(ctx context.Context) ([]entities.GroupJudgment, error)
	BulkCreateGroupJudgments(ctx context.Context, judgments []entities.GroupJudgment) error
}

type IndividualJudgmentRepository interface {
	GetByProposalAndPolitician(ctx context.Context, proposalID string, politicianID int64) (entities.IndividualJudgment, bool, error)
	ListIndividualJudgmentsByProposal(ctx context.Context, proposalID string) ([]entities.IndividualJudgment, error)
	BulkCreateIndividualJudgments(ctx context.Context, judgments []entities.IndividualJudgment) error
	BulkUpdateIndividualJudgments(ctx context.Context, judgments []entities.IndividualJudgment) error
}

type SubmitterRepository interface {
	ListSubmittersByProposal(ctx context.Context, proposalID string) ([]entities.Submitter, error)
	BulkCreateSubmitters(ctx context.Context, submitters []entities.Submitter) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// MatchCandidate is one scored canonical candidate for a raw name. Exactly
// one of PoliticianID or GroupID is set for entity candidates.
type MatchCandidate struct {
	PoliticianID *int64
	GroupID      *int64
	Name         string
	Confidence   float64
}

// AnalysisResult is the outcome for one sub-name of a submitter string. The
// full ranked candidate list is carried for downstream review surfaces, not
// just the winner.
type AnalysisResult struct {
	RawName       string
	SubmitterType entities.SubmitterType
	Confidence    float64
	Candidates    []MatchCandidate
}

// SubmitterAnalyzer classifies a single raw submitter name within a
// conference scope. Implementations are selected at construction time.
type SubmitterAnalyzer interface {
	Analyze(ctx context.Context, name string, conferenceID int64) (AnalysisResult, error)
}
