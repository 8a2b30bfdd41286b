// Gamescout - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gamescout

package recommend

// MatchReason labels why a candidate was recommended. Codes are stable and
// part of the public result format.
type MatchReason int

// Match reason codes. Code 9 is unassigned.
const (
	ReasonGenre        MatchReason = 1
	ReasonGameplay     MatchReason = 2
	ReasonTheme        MatchReason = 3
	ReasonPrice        MatchReason = 4
	ReasonDeveloper    MatchReason = 5
	ReasonSeries       MatchReason = 6
	ReasonPopular      MatchReason = 7
	ReasonTag          MatchReason = 8
	ReasonPlatform     MatchReason = 10
	ReasonDescription  MatchReason = 11
	ReasonVisual       MatchReason = 12
	ReasonCategory     MatchReason = 13
	ReasonContentMatch MatchReason = 14
	ReasonExcluded     MatchReason = 15
	ReasonMultiGame    MatchReason = 16
)

var reasonDescriptions = map[MatchReason]string{
	ReasonGenre:        "Similar genre",
	ReasonGameplay:     "Similar gameplay",
	ReasonTheme:        "Similar theme",
	ReasonPrice:        "Similar price",
	ReasonDeveloper:    "Same developer",
	ReasonSeries:       "Same series",
	ReasonPopular:      "Popular game",
	ReasonTag:          "Similar tags",
	ReasonPlatform:     "Platform compatible",
	ReasonDescription:  "Similar description",
	ReasonVisual:       "Visual similarity",
	ReasonCategory:     "Similar category",
	ReasonContentMatch: "Content match",
	ReasonExcluded:     "Excluded content",
	ReasonMultiGame:    "Shared recommendation",
}

// Code returns the numeric reason code.
func (r MatchReason) Code() int { return int(r) }

// Description returns the human-readable label.
func (r MatchReason) Description() string {
	if d, ok := reasonDescriptions[r]; ok {
		return d
	}
	return "Unknown"
}

// String implements fmt.Stringer.
func (r MatchReason) String() string { return r.Description() }

// View returns the serialized form.
func (r MatchReason) View() ReasonView {
	return ReasonView{Code: r.Code(), Description: r.Description()}
}

// ReasonViews converts a reason list to its serialized form.
func ReasonViews(reasons []MatchReason) []ReasonView {
	out := make([]ReasonView, len(reasons))
	for i, r := range reasons {
		out[i] = r.View()
	}
	return out
}
