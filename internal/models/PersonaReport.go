package models

// Citation points a derived statistic back at the specific input record
// that justifies it.
type Citation struct {
	Kind      ActivityKind `json:"kind"`
	Snippet   string       `json:"snippet"`
	Subreddit string       `json:"subreddit"`
	Permalink string       `json:"permalink"`
}

type SubredditStat struct {
	Name     string   `json:"name"`
	Count    int      `json:"count"`
	Citation Citation `json:"citation"`
}

// KeywordStat carries a citation only when some comment contains the word;
// keywords sourced purely from post titles have none.
type KeywordStat struct {
	Word     string    `json:"word"`
	Count    int       `json:"count"`
	Citation *Citation `json:"citation,omitempty"`
}

type Interests struct {
	TopSubreddits  []SubredditStat `json:"top_subreddits"`
	CommonKeywords []KeywordStat   `json:"common_keywords"`
}

type Behavior struct {
	AvgCommentLength float64  `json:"avg_comment_length"`
	CommentRatio     float64  `json:"comment_ratio"`
	PostRatio        float64  `json:"post_ratio"`
	ActiveHours      []string `json:"active_hours"`
	Engagement       string   `json:"engagement"`
}

type Demographics struct {
	LikelyTimezone   string `json:"likely_timezone,omitempty"`
	PossibleLocation string `json:"possible_location,omitempty"`
}

// SampleRecord is a fully rendered sample for the SOURCES section; the
// excerpt already carries its ellipsis when truncated.
type SampleRecord struct {
	Subreddit string `json:"subreddit"`
	Score     int    `json:"score"`
	Title     string `json:"title,omitempty"`
	Excerpt   string `json:"excerpt"`
	Permalink string `json:"permalink"`
}

type Sources struct {
	CommentCount  int           `json:"comment_count"`
	PostCount     int           `json:"post_count"`
	SampleComment *SampleRecord `json:"sample_comment,omitempty"`
	SamplePost    *SampleRecord `json:"sample_post,omitempty"`
}

// PersonaReport is the aggregation result. Built once, never mutated after
// construction. Contains no wall-clock fields so identical input yields an
// identical report.
type PersonaReport struct {
	Username     string       `json:"username"`
	Profile      UserProfile  `json:"profile"`
	Interests    Interests    `json:"interests"`
	Behavior     Behavior     `json:"behavior"`
	Traits       []string     `json:"traits"`
	Demographics Demographics `json:"demographics"`
	Sources      Sources      `json:"sources"`
}
