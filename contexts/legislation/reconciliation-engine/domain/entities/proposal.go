package entities

import "time"

// ProposalKey is the business key used to deduplicate proposals when no
// external id is available.
type ProposalKey struct {
	GoverningBodyID int64
	SessionNumber   int
	ProposalNumber  int
	ProposalType    string
}

func (k ProposalKey) Complete() bool {
	return k.GoverningBodyID > 0 && k.SessionNumber > 0 && k.ProposalNumber > 0 && k.ProposalType != ""
}

type Proposal struct {
	ID                 string
	Key                ProposalKey
	ExternalID         string
	Title              string
	ConferenceID       *int64
	MeetingID          *int64
	SubmittedDate      *time.Time
	VotedDate          *time.Time
	DeliberationResult string
	DeliberationStatus string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type SubmitterType string

const (
	SubmitterTypeMayor              SubmitterType = "mayor"
	SubmitterTypeCommittee          SubmitterType = "committee"
	SubmitterTypeParliamentaryGroup SubmitterType = "parliamentary_group"
	SubmitterTypePolitician         SubmitterType = "politician"
	SubmitterTypeOther              SubmitterType = "other"
)

type Submitter struct {
	ID                  string
	ProposalID          string
	SubmitterType       SubmitterType
	RawName             string
	MatchedPoliticianID *int64
	MatchedGroupID      *int64
	DisplayOrder        int
	Confidence          float64
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
