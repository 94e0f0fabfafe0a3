package types

import (
	"encoding/json"
	"fmt"
	"sort"
)

// StatusSet is a non-empty set of acceptable status codes. On the wire it
// accepts either a bare integer or an array of integers, which is how both
// callers and the model tend to write it.
type StatusSet []int

// UnmarshalJSON accepts 200, [200, 201], or a numeric string like "200".
func (s *StatusSet) UnmarshalJSON(data []byte) error {
	var single int
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StatusSet{single}
		return nil
	}

	var many []int
	if err := json.Unmarshal(data, &many); err == nil {
		*s = StatusSet(many)
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		var code int
		if _, err := fmt.Sscanf(text, "%d", &code); err == nil {
			*s = StatusSet{code}
			return nil
		}
	}

	return fmt.Errorf("status must be an integer or an array of integers, got %s", data)
}

// MarshalJSON renders a single-element set as a bare integer.
func (s StatusSet) MarshalJSON() ([]byte, error) {
	if len(s) == 1 {
		return json.Marshal(s[0])
	}
	return json.Marshal([]int(s))
}

// Contains reports membership; order of the set is irrelevant.
func (s StatusSet) Contains(code int) bool {
	for _, c := range s {
		if c == code {
			return true
		}
	}
	return false
}

// Primary returns the first code, or 0 for an empty set.
func (s StatusSet) Primary() int {
	if len(s) == 0 {
		return 0
	}
	return s[0]
}

// Union returns the sorted, de-duplicated union of the set and code.
func (s StatusSet) Union(code int) []int {
	seen := map[int]bool{code: true}
	merged := []int{code}
	for _, c := range s {
		if !seen[c] {
			seen[c] = true
			merged = append(merged, c)
		}
	}
	sort.Ints(merged)
	return merged
}
