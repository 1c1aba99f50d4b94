package reddit

// Wire shapes for the subset of the Reddit JSON API the daemon reads.
// Listings wrap "things"; kind t1 is a comment, t3 is a submission.

type aboutResponse struct {
	Kind string    `json:"kind"`
	Data aboutData `json:"data"`
}

type aboutData struct {
	Name         string  `json:"name"`
	CreatedUTC   float64 `json:"created_utc"`
	CommentKarma int     `json:"comment_karma"`
	LinkKarma    int     `json:"link_karma"`
	IsGold       bool    `json:"is_gold"`
	IsMod        bool    `json:"is_mod"`
}

type listingResponse struct {
	Kind string      `json:"kind"`
	Data listingData `json:"data"`
}

type listingData struct {
	After    string  `json:"after"`
	Children []thing `json:"children"`
}

type thing struct {
	Kind string    `json:"kind"`
	Data thingData `json:"data"`
}

// thingData holds the union of comment and submission fields. CreatedUTC is
// left untyped: the API serves float64 but suspended or mangled records have
// been seen with null and string values.
type thingData struct {
	ID         string      `json:"id"`
	Subreddit  string      `json:"subreddit"`
	Title      string      `json:"title"`
	SelfText   string      `json:"selftext"`
	Body       string      `json:"body"`
	Score      int         `json:"score"`
	CreatedUTC interface{} `json:"created_utc"`
	Permalink  string      `json:"permalink"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}
