package entities

import "time"

type Judgment string

const (
	JudgmentApprove Judgment = "approve"
	JudgmentOppose  Judgment = "oppose"
	JudgmentAbstain Judgment = "abstain"
	JudgmentAbsent  Judgment = "absent"
)

func (j Judgment) Valid() bool {
	switch j {
	case JudgmentApprove, JudgmentOppose, JudgmentAbstain, JudgmentAbsent:
		return true
	}
	return false
}

type MatchingStatus string

const (
	MatchingStatusPending     MatchingStatus = "pending"
	MatchingStatusMatched     MatchingStatus = "matched"
	MatchingStatusUnmatched   MatchingStatus = "unmatched"
	MatchingStatusNeedsReview MatchingStatus = "needs_review"
	MatchingStatusProcessed   MatchingStatus = "processed"
)

type JudgeType string

const (
	JudgeTypeGroup      JudgeType = "group"
	JudgeTypePolitician JudgeType = "politician"
)

type SourceType string

const (
	SourceTypeGroupExpansion SourceType = "GROUP_EXPANSION"
	SourceTypeRollCall       SourceType = "ROLL_CALL"
)

// ExtractedJudgment is a Bronze-layer record produced by the extraction
// collaborator. Raw names are free text and may be absent.
type ExtractedJudgment struct {
	ID                 string
	ProposalID         string
	RawGroupName       string
	RawPoliticianName  string
	RawJudgment        string
	MatchedGroupID     *int64
	MatchingStatus     MatchingStatus
	MatchingConfidence float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// GroupJudgment is a Gold-layer record: one (proposal, judgment) row carrying
// the deduplicated set of judging entities. The id set is persisted as join
// rows in relational stores; the entity carries it as a sorted slice.
type GroupJudgment struct {
	ID            string
	ProposalID    string
	Judgment      Judgment
	JudgeType     JudgeType
	GroupIDs      []int64
	PoliticianIDs []int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type IndividualJudgment struct {
	ID                    string
	ProposalID            string
	PoliticianID          int64
	Judgment              Judgment
	SourceType            SourceType
	SourceGroupJudgmentID *string
	// IsDefection is nil while undetermined, e.g. when no group judgment
	// exists for the politician's group.
	IsDefection *bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
