package queries

import (
	"context"
	"errors"
	"time"

	"councilwatch/contexts/legislation/reconciliation-engine/domain/entities"
	domainerrors "councilwatch/contexts/legislation/reconciliation-engine/domain/errors"
	"councilwatch/contexts/legislation/reconciliation-engine/ports"
)

// DecisionDate returns the date used to resolve group membership for a
// proposal: the linked meeting's date, falling back to the proposal's own
// voted date. ok is false when neither is available.
func DecisionDate(ctx context.Context, meetings ports.MeetingRepository, proposal entities.Proposal) (time.Time, bool, error) {
	if proposal.MeetingID != nil {
		meeting, err := meetings.GetMeeting(ctx, *proposal.MeetingID)
		switch {
		case err == nil:
			if meeting.Date != nil {
				return *meeting.Date, true, nil
			}
		case errors.Is(err, domainerrors.ErrNotFound):
			// Dangling meeting link; fall through to voted date.
		default:
			return time.Time{}, false, err
		}
	}
	if proposal.VotedDate != nil {
		return *proposal.VotedDate, true, nil
	}
	return time.Time{}, false, nil
}
