package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
	domainerrors "councilwatch/contexts/legislation/reconciliation-engine/domain/errors"

	"github.com/google/uuid"
)

// Store is a mutex-guarded in-memory implementation of every repository
// port, plus Clock and IDGenerator. Used by tests and NewInMemoryModule.
type Store struct {
	mu sync.RWMutex

	proposals   map[string]entities.Proposal
	conferences map[int64]entities.Conference
	meetings    map[int64]entities.Meeting
	politicians map[int64]entities.Politician
	groups      map[int64]entities.ParliamentaryGroup
	memberships map[int64]entities.Membership

	extracted   map[string]entities.ExtractedJudgment
	groupJuds   map[string]entities.GroupJudgment
	individuals map[string]entities.IndividualJudgment
	submitters  map[string]entities.Submitter

	// conference members for classifier lookups, conference id -> ids
	conferenceMembers map[int64][]int64
}

func NewStore() *Store {
	return &Store{
		proposals:         make(map[string]entities.Proposal),
		conferences:       make(map[int64]entities.Conference),
		meetings:          make(map[int64]entities.Meeting),
		politicians:       make(map[int64]entities.Politician),
		groups:            make(map[int64]entities.ParliamentaryGroup),
		memberships:       make(map[int64]entities.Membership),
		extracted:         make(map[string]entities.ExtractedJudgment),
		groupJuds:         make(map[string]entities.GroupJudgment),
		individuals:       make(map[string]entities.IndividualJudgment),
		submitters:        make(map[string]entities.Submitter),
		conferenceMembers: make(map[int64][]int64),
	}
}

// Seeding helpers for tests and in-memory wiring.

func (s *Store) SetConference(conference entities.Conference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conferences[conference.ID] = conference
}

func (s *Store) SetMeeting(meeting entities.Meeting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.meetings[meeting.ID] = meeting
}

func (s *Store) SetPolitician(politician entities.Politician) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.politicians[politician.ID] = politician
}

// SetConferenceMember registers a politician as an active member of a
// conference for classifier lookups.
func (s *Store) SetConferenceMember(conferenceID int64, politician entities.Politician) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.politicians[politician.ID] = politician
	s.conferenceMembers[conferenceID] = append(s.conferenceMembers[conferenceID], politician.ID)
}

func (s *Store) SetGroup(group entities.ParliamentaryGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[group.ID] = group
}

func (s *Store) SetMembership(membership entities.Membership) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberships[membership.ID] = membership
}

func (s *Store) SetProposal(proposal entities.Proposal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proposals[proposal.ID] = proposal
}

func (s *Store) SetExtracted(record entities.ExtractedJudgment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.extracted[record.ID] = record
}

func (s *Store) SetGroupJudgment(judgment entities.GroupJudgment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groupJuds[judgment.ID] = judgment
}

// Read accessors for test assertions.

func (s *Store) GetExtractedJudgment(id string) (entities.ExtractedJudgment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.extracted[id]
	return record, ok
}

func (s *Store) GroupJudgments() []entities.GroupJudgment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.GroupJudgment, 0, len(s.groupJuds))
	for _, judgment := range s.groupJuds {
		out = append(out, judgment)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Submitters() []entities.Submitter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Submitter, 0, len(s.submitters))
	for _, submitter := range s.submitters {
		out = append(out, submitter)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out
}

// ProposalRepository

func (s *Store) GetByID(_ context.Context, id string) (entities.Proposal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	proposal, ok := s.proposals[strings.TrimSpace(id)]
	if !ok {
		return entities.Proposal{}, domainerrors.ErrNotFound
	}
	return proposal, nil
}

func (s *Store) FindByIdentifier(_ context.Context, key entities.ProposalKey) (entities.Proposal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, proposal := range s.proposals {
		if proposal.Key == key {
			return proposal, true, nil
		}
	}
	return entities.Proposal{}, false, nil
}

func (s *Store) FindByURL(_ context.Context, externalID string) (entities.Proposal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, proposal := range s.proposals {
		if proposal.ExternalID != "" && proposal.ExternalID == externalID {
			return proposal, true, nil
		}
	}
	return entities.Proposal{}, false, nil
}

func (s *Store) BulkCreate(_ context.Context, proposals []entities.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, proposal := range proposals {
		s.proposals[proposal.ID] = proposal
	}
	return nil
}

func (s *Store) BulkUpdate(_ context.Context, proposals []entities.Proposal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, proposal := range proposals {
		if proposal.ID == "" {
			return domainerrors.ErrDataIntegrity
		}
		if _, ok := s.proposals[proposal.ID]; !ok {
			return domainerrors.ErrNotFound
		}
		s.proposals[proposal.ID] = proposal
	}
	return nil
}

// ConferenceRepository / MeetingRepository

func (s *Store) GetConference(_ context.Context, id int64) (entities.Conference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conference, ok := s.conferences[id]
	if !ok {
		return entities.Conference{}, domainerrors.ErrNotFound
	}
	return conference, nil
}

func (s *Store) GetMeeting(_ context.Context, id int64) (entities.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meeting, ok := s.meetings[id]
	if !ok {
		return entities.Meeting{}, domainerrors.ErrNotFound
	}
	return meeting, nil
}

// PoliticianRepository

func (s *Store) GetByIDs(_ context.Context, ids []int64) ([]entities.Politician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.Politician, 0, len(ids))
	for _, id := range ids {
		if politician, ok := s.politicians[id]; ok {
			out = append(out, politician)
		}
	}
	return out, nil
}

func (s *Store) ListActiveByConference(_ context.Context, conferenceID int64) ([]entities.Politician, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.conferenceMembers[conferenceID]
	out := make([]entities.Politician, 0, len(ids))
	for _, id := range ids {
		if politician, ok := s.politicians[id]; ok {
			out = append(out, politician)
		}
	}
	return out, nil
}

// GroupRepository

func (s *Store) GetGroupsByIDs(_ context.Context, ids []int64) ([]entities.ParliamentaryGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.ParliamentaryGroup, 0, len(ids))
	for _, id := range ids {
		if group, ok := s.groups[id]; ok {
			out = append(out, group)
		}
	}
	return out, nil
}

func (s *Store) ListByGoverningBody(_ context.Context, governingBodyID int64, activeOnly bool) ([]entities.ParliamentaryGroup, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.ParliamentaryGroup
	for _, group := range s.groups {
		if group.GoverningBodyID != governingBodyID {
			continue
		}
		if activeOnly && !group.Active {
			continue
		}
		out = append(out, group)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MembershipRepository

func (s *Store) GetActiveByGroup(_ context.Context, groupID int64, asOf time.Time) ([]entities.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.Membership
	for _, membership := range s.memberships {
		if membership.GroupID == groupID && membership.ActiveOn(asOf) {
			out = append(out, membership)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ExtractedJudgmentRepository

func (s *Store) GetExtracted(_ context.Context, id string) (entities.ExtractedJudgment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.extracted[strings.TrimSpace(id)]
	if !ok {
		return entities.ExtractedJudgment{}, domainerrors.ErrNotFound
	}
	return record, nil
}

func (s *Store) ListPendingByGoverningBody(_ context.Context, governingBodyID int64) ([]entities.ExtractedJudgment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.ExtractedJudgment
	for _, record := range s.extracted {
		if record.MatchingStatus != entities.MatchingStatusPending || record.RawGroupName == "" {
			continue
		}
		if proposal, ok := s.proposals[record.ProposalID]; !ok || proposal.Key.GoverningBodyID != governingBodyID {
			continue
		}
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListForReview(_ context.Context, governingBodyID int64) ([]entities.ExtractedJudgment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.ExtractedJudgment
	for _, record := range s.extracted {
		if record.MatchingStatus != entities.MatchingStatusUnmatched && record.MatchingStatus != entities.MatchingStatusNeedsReview {
			continue
		}
		if proposal, ok := s.proposals[record.ProposalID]; !ok || proposal.Key.GoverningBodyID != governingBodyID {
			continue
		}
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateMatchingResult(_ context.Context, id string, groupID *int64, confidence float64, status entities.MatchingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.extracted[strings.TrimSpace(id)]
	if !ok {
		return domainerrors.ErrNotFound
	}
	record.MatchedGroupID = groupID
	record.MatchingConfidence = confidence
	record.MatchingStatus = status
	s.extracted[record.ID] = record
	return nil
}

func (s *Store) MarkProcessed(_ context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		record, ok := s.extracted[strings.TrimSpace(id)]
		if !ok {
			return domainerrors.ErrNotFound
		}
		record.MatchingStatus = entities.MatchingStatusProcessed
		s.extracted[record.ID] = record
	}
	return nil
}

// GroupJudgmentRepository

func (s *Store) GetGroupJudgment(_ context.Context, id string) (entities.GroupJudgment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	judgment, ok := s.groupJuds[strings.TrimSpace(id)]
	if !ok {
		return entities.GroupJudgment{}, domainerrors.ErrNotFound
	}
	return judgment, nil
}

func (s *Store) ListGroupJudgmentsByProposal(_ context.Context, proposalID string) ([]entities.GroupJudgment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.GroupJudgment
	for _, judgment := range s.groupJuds {
		if judgment.ProposalID == proposalID {
			out = append(out, judgment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListGroupJudgments(_ context.Context) ([]entities.GroupJudgment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.GroupJudgment
	for _, judgment := range s.groupJuds {
		if judgment.JudgeType == entities.JudgeTypeGroup {
			out = append(out, judgment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) BulkCreateGroupJudgments(_ context.Context, judgments []entities.GroupJudgment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, judgment := range judgments {
		s.groupJuds[judgment.ID] = judgment
	}
	return nil
}

// IndividualJudgmentRepository

func (s *Store) GetByProposalAndPolitician(_ context.Context, proposalID string, politicianID int64) (entities.IndividualJudgment, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, row := range s.individuals {
		if row.ProposalID == proposalID && row.PoliticianID == politicianID {
			return row, true, nil
		}
	}
	return entities.IndividualJudgment{}, false, nil
}

func (s *Store) ListIndividualJudgmentsByProposal(_ context.Context, proposalID string) ([]entities.IndividualJudgment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.IndividualJudgment
	for _, row := range s.individuals {
		if row.ProposalID == proposalID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PoliticianID < out[j].PoliticianID })
	return out, nil
}

func (s *Store) BulkCreateIndividualJudgments(_ context.Context, judgments []entities.IndividualJudgment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Enforce (proposal_id, politician_id) uniqueness the way a relational
	// store's constraint would: the whole bulk call fails, nothing lands.
	type identity struct {
		proposalID   string
		politicianID int64
	}
	existing := make(map[identity]struct{}, len(s.individuals))
	for _, row := range s.individuals {
		existing[identity{row.ProposalID, row.PoliticianID}] = struct{}{}
	}
	for _, judgment := range judgments {
		key := identity{judgment.ProposalID, judgment.PoliticianID}
		if _, dup := existing[key]; dup {
			return domainerrors.ErrConflict
		}
		existing[key] = struct{}{}
	}
	for _, judgment := range judgments {
		s.individuals[judgment.ID] = judgment
	}
	return nil
}

func (s *Store) BulkUpdateIndividualJudgments(_ context.Context, judgments []entities.IndividualJudgment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, judgment := range judgments {
		if judgment.ID == "" {
			return domainerrors.ErrDataIntegrity
		}
		if _, ok := s.individuals[judgment.ID]; !ok {
			return domainerrors.ErrNotFound
		}
		s.individuals[judgment.ID] = judgment
	}
	return nil
}

// SubmitterRepository

func (s *Store) ListSubmittersByProposal(_ context.Context, proposalID string) ([]entities.Submitter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entities.Submitter
	for _, submitter := range s.submitters {
		if submitter.ProposalID == proposalID {
			out = append(out, submitter)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (s *Store) BulkCreateSubmitters(_ context.Context, submitters []entities.Submitter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, submitter := range submitters {
		s.submitters[submitter.ID] = submitter
	}
	return nil
}

// Clock / IDGenerator

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
