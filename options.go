package swisskit

// SortBy selects how players inside a team, and teams themselves, are ranked.
type SortBy string

const (
	SortByRank  SortBy = "rank"
	SortByScore SortBy = "score"
)

// ParseSortBy maps user input to a SortBy, defaulting to SortByRank.
func ParseSortBy(s string) SortBy {
	if SortBy(s) == SortByScore {
		return SortByScore
	}
	return SortByRank
}

// DefaultTop is the number of players counted per team.
const DefaultTop = 2

// Options holds configuration shared by the exports and the team summary.
type Options struct {
	group  string
	sortBy SortBy
	top    int
}

func defaultOptions() *Options {
	return &Options{
		sortBy: SortByRank,
		top:    DefaultTop,
	}
}

// Option configures an export or a summary.
type Option func(*Options)

// WithGroup restricts the players export to one group.
func WithGroup(group string) Option {
	return func(o *Options) { o.group = group }
}

// WithSortBy sets the ranking criterion for Summarize (default: rank).
func WithSortBy(s SortBy) Option {
	return func(o *Options) { o.sortBy = s }
}

// WithTop sets how many players count towards a team result (default: 2).
// Values below one are ignored.
func WithTop(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.top = n
		}
	}
}
