package httptransport

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type MatchGroupJudgmentsRequest struct {
	GoverningBodyID int64 `json:"governing_body_id"`
	DryRun          bool  `json:"dry_run"`
}

type MatchGroupJudgmentsResponse struct {
	Total          int      `json:"total"`
	Matched        int      `json:"matched"`
	Unmatched      int      `json:"unmatched"`
	Errors         int      `json:"errors"`
	Promoted       int      `json:"promoted"`
	Processed      int      `json:"processed"`
	UnmatchedNames []string `json:"unmatched_names,omitempty"`
}

type ExpandRequest struct {
	GroupJudgmentID string `json:"group_judgment_id,omitempty"`
	ProposalID      string `json:"proposal_id,omitempty"`
	ForceOverwrite  bool   `json:"force_overwrite"`
}

type ExpandItem struct {
	GroupJudgmentID string `json:"group_judgment_id"`
	ProposalID      string `json:"proposal_id"`
	Members         int    `json:"members"`
	Created         int    `json:"created"`
	Skipped         int    `json:"skipped"`
	Overwritten     int    `json:"overwritten"`
	Error           string `json:"error,omitempty"`
}

type ExpandResponse struct {
	JudgmentsProcessed int          `json:"judgments_processed"`
	MembersFound       int          `json:"members_found"`
	Created            int          `json:"created"`
	Skipped            int          `json:"skipped"`
	Overwritten        int          `json:"overwritten"`
	DateUnresolved     int          `json:"date_unresolved"`
	Items              []ExpandItem `json:"items,omitempty"`
}

type RollCallVoteItem struct {
	PoliticianID int64  `json:"politician_id"`
	Judgment     string `json:"judgment"`
}

type ApplyRollCallRequest struct {
	Votes []RollCallVoteItem `json:"votes"`
}

type DefectionItem struct {
	PoliticianID   int64  `json:"politician_id"`
	PoliticianName string `json:"politician_name"`
	IndividualVote string `json:"individual_vote"`
	GroupJudgment  string `json:"group_judgment"`
	GroupName      string `json:"group_name"`
}

type ApplyRollCallResponse struct {
	Created    int             `json:"created"`
	Updated    int             `json:"updated"`
	Defections []DefectionItem `json:"defections,omitempty"`
}

type DefectionReportResponse struct {
	ProposalID string          `json:"proposal_id"`
	Defections []DefectionItem `json:"defections,omitempty"`
}

type RegisterSubmittersRequest struct {
	ProposalID   string `json:"proposal_id"`
	ConferenceID int64  `json:"conference_id"`
	RawText      string `json:"raw_text"`
}

type SubmitterCandidateItem struct {
	PoliticianID *int64  `json:"politician_id,omitempty"`
	GroupID      *int64  `json:"group_id,omitempty"`
	Name         string  `json:"name"`
	Confidence   float64 `json:"confidence"`
}

type SubmitterItem struct {
	RawName             string                   `json:"raw_name"`
	SubmitterType       string                   `json:"submitter_type"`
	Confidence          float64                  `json:"confidence"`
	DisplayOrder        int                      `json:"display_order"`
	MatchedPoliticianID *int64                   `json:"matched_politician_id,omitempty"`
	MatchedGroupID      *int64                   `json:"matched_group_id,omitempty"`
	Candidates          []SubmitterCandidateItem `json:"candidates,omitempty"`
}

type RegisterSubmittersResponse struct {
	Submitters []SubmitterItem `json:"submitters"`
}

type ImportProposalRow struct {
	GoverningBodyID int64  `json:"governing_body_id"`
	SessionNumber   int    `json:"session_number"`
	ProposalNumber  int    `json:"proposal_number"`
	ProposalType    string `json:"proposal_type"`
	Title           string `json:"title"`
	ExternalID      string `json:"external_id,omitempty"`
	SubmittedDate   string `json:"submitted_date,omitempty"`
	VotedDate       string `json:"voted_date,omitempty"`
}

type ImportProposalsRequest struct {
	Records   []ImportProposalRow `json:"records"`
	ChunkSize int                 `json:"chunk_size,omitempty"`
}

type ImportProposalsResponse struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Updated int `json:"updated"`
	Errors  int `json:"errors"`
}

type ReviewItem struct {
	ID                 string  `json:"id"`
	ProposalID         string  `json:"proposal_id"`
	RawGroupName       string  `json:"raw_group_name"`
	RawJudgment        string  `json:"raw_judgment"`
	MatchingStatus     string  `json:"matching_status"`
	MatchingConfidence float64 `json:"matching_confidence"`
}

type ReviewQueueResponse struct {
	Items []ReviewItem `json:"items"`
}

type ResolveMatchRequest struct {
	GroupID *int64 `json:"group_id,omitempty"`
	Status  string `json:"status"`
}
