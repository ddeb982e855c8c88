package commands

import (
	"fmt"
	"strconv"
	"strings"

	domainerrors "councilwatch/contexts/legislation/reconciliation-engine/domain/errors"
	"councilwatch/contexts/legislation/reconciliation-engine/domain/matching"
)

// ParseRollCall parses plain-text roll-call input: one
// "politician_id,judgment_label" pair per line. Labels may be canonical or
// localized display strings. Any malformed line fails the whole parse; lines
// are never silently skipped.
func ParseRollCall(input string) ([]RollCallVote, error) {
	var votes []RollCallVote
	for i, line := range strings.Split(input, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, ",", 3)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d: expected politician_id,judgment_label", domainerrors.ErrValidation, i+1)
		}
		politicianID, err := strconv.ParseInt(strings.TrimSpace(fields[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: malformed politician id %q", domainerrors.ErrValidation, i+1, fields[0])
		}
		judgment, ok := matching.ParseJudgment(fields[1])
		if !ok {
			return nil, fmt.Errorf("%w: line %d: %q", domainerrors.ErrJudgmentVocabulary, i+1, strings.TrimSpace(fields[1]))
		}
		votes = append(votes, RollCallVote{PoliticianID: politicianID, Judgment: judgment})
	}
	return votes, nil
}
