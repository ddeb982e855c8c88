package matching

import "strings"

// PromotionThreshold is the minimum confidence at which a match may be
// promoted to a canonical entity id. Below it, records stay unmatched.
const PromotionThreshold = 0.7

// Score rates the similarity between a raw extracted string and a canonical
// candidate name. Both sides are normalized first. Rules, first match wins:
//
//  1. exact normalized equality -> 1.0
//  2. one string contains the other -> 0.8
//  3. shared-character ratio over the longer string
//
// Empty strings never match anything.
func Score(raw, candidate string) float64 {
	a := Normalize(raw)
	b := Normalize(candidate)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1.0
	}
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return 0.8
	}
	return sharedRatio(a, b)
}

func sharedRatio(a, b string) float64 {
	bset := make(map[rune]struct{})
	blen := 0
	for _, r := range b {
		bset[r] = struct{}{}
		blen++
	}
	shared := 0
	alen := 0
	for _, r := range a {
		alen++
		if _, ok := bset[r]; ok {
			shared++
		}
	}
	longest := alen
	if blen > longest {
		longest = blen
	}
	if longest == 0 {
		return 0
	}
	return float64(shared) / float64(longest)
}
