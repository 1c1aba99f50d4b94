package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"rpd/internal/models"
	"rpd/internal/structures"
	"rpd/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func personaConfig() *structures.Config {
	return &structures.Config{
		Persona: structures.PersonaConfig{
			TopSubreddits: 3,
			TopKeywords:   10,
			TopHours:      2,
			SnippetLength: 30,
		},
	}
}

func newTestPersonaService() (PersonaServiceInterface, *testutil.MockLogger, *testutil.MockMetrics) {
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	return NewPersonaService(personaConfig(), logger, metrics), logger, metrics
}

func at(hour int) time.Time {
	return time.Date(2024, 1, 15, hour, 30, 0, 0, time.UTC)
}

func comment(id, subreddit, body string, hour int) models.Activity {
	return models.Activity{
		Kind:      models.KindComment,
		ID:        id,
		Subreddit: subreddit,
		Body:      body,
		Score:     1,
		CreatedAt: at(hour),
		Permalink: "https://reddit.com/r/" + subreddit + "/comments/" + id,
	}
}

func post(id, subreddit, title, body string, hour int) models.Activity {
	return models.Activity{
		Kind:      models.KindPost,
		ID:        id,
		Subreddit: subreddit,
		Title:     title,
		Body:      body,
		Score:     1,
		CreatedAt: at(hour),
		Permalink: "https://reddit.com/r/" + subreddit + "/comments/" + id,
	}
}

func scoredComments(n, score int) []models.Activity {
	acts := make([]models.Activity, 0, n)
	for i := 0; i < n; i++ {
		a := comment(fmt.Sprintf("c%d", i), "golang", "steady contribution here", 10)
		a.Score = score
		acts = append(acts, a)
	}
	return acts
}

func mustAggregate(t *testing.T, svc PersonaServiceInterface, acts []models.Activity) *models.PersonaReport {
	t.Helper()
	report, err := svc.Aggregate(&models.UserProfile{Username: "testuser"}, acts)
	require.NoError(t, err)
	return report
}

// --- Aggregate tests ---

func TestPersonaService_Aggregate_NoActivity(t *testing.T) {
	svc, _, _ := newTestPersonaService()

	report, err := svc.Aggregate(&models.UserProfile{Username: "ghost"}, nil)
	require.Error(t, err)
	assert.Nil(t, report)

	var insufficient *models.InsufficientDataError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "ghost", insufficient.Username)
}

func TestPersonaService_Aggregate_Idempotent(t *testing.T) {
	svc, _, metrics := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", "I love the great tooling around here", 9),
		comment("c2", "rust", "borrow checker fights again", 9),
		post("p1", "golang", "Compilers weekly thread", "discussion of compilers", 14),
	}

	first := mustAggregate(t, svc, acts)
	second := mustAggregate(t, svc, acts)

	assert.Equal(t, first, second)
	assert.Equal(t, "testuser", first.Username)
	assert.Equal(t, 2, metrics.PersonasBuilt)
}

// --- top subreddit tests ---

func TestPersonaService_TopSubreddits_CountThenFirstSeen(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", "one", 9),
		comment("c2", "rust", "two", 9),
		comment("c3", "golang", "three", 9),
		comment("c4", "rust", "four", 9),
		comment("c5", "python", "five", 9),
	}

	report := mustAggregate(t, svc, acts)

	subs := report.Interests.TopSubreddits
	require.Len(t, subs, 3)
	assert.Equal(t, "golang", subs[0].Name)
	assert.Equal(t, "rust", subs[1].Name)
	assert.Equal(t, "python", subs[2].Name)
	assert.Equal(t, 2, subs[0].Count)
	assert.Equal(t, 2, subs[1].Count)
	assert.Equal(t, 1, subs[2].Count)
}

func TestPersonaService_TopSubreddits_Limit(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	var acts []models.Activity
	for i, sub := range []string{"first", "second", "third", "fourth"} {
		for j := 0; j <= 4-i; j++ {
			acts = append(acts, comment(fmt.Sprintf("c%d_%d", i, j), sub, "body", 9))
		}
	}

	report := mustAggregate(t, svc, acts)

	subs := report.Interests.TopSubreddits
	require.Len(t, subs, 3)
	assert.Equal(t, "first", subs[0].Name)
	assert.Equal(t, "second", subs[1].Name)
	assert.Equal(t, "third", subs[2].Name)
}

func TestPersonaService_TopSubreddits_EveryEntryCited(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", "first golang comment", 9),
		post("p1", "askreddit", "What is your favorite compiler?", "", 9),
		comment("c2", "golang", "second golang comment", 9),
		comment("c3", "rust", "rust comment", 9),
	}

	report := mustAggregate(t, svc, acts)

	subs := report.Interests.TopSubreddits
	require.Len(t, subs, 3)

	assert.Equal(t, "golang", subs[0].Name)
	assert.Equal(t, models.KindComment, subs[0].Citation.Kind)
	assert.Equal(t, "first golang comment", subs[0].Citation.Snippet)
	assert.Equal(t, "golang", subs[0].Citation.Subreddit)
	assert.Equal(t, "https://reddit.com/r/golang/comments/c1", subs[0].Citation.Permalink)

	// A subreddit first seen through a submission cites the submission title.
	assert.Equal(t, "askreddit", subs[1].Name)
	assert.Equal(t, models.KindPost, subs[1].Citation.Kind)
	assert.Equal(t, "What is your favorite compiler", subs[1].Citation.Snippet)

	assert.Equal(t, "rust", subs[2].Name)
	assert.Equal(t, models.KindComment, subs[2].Citation.Kind)
}

func TestPersonaService_Citation_SnippetCollapsesWhitespace(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", "lots\n\nof   spread\tout fairly long whitespace heavy text", 9),
	}

	report := mustAggregate(t, svc, acts)

	require.Len(t, report.Interests.TopSubreddits, 1)
	// 30 runes of the collapsed text, no ellipsis at this layer.
	assert.Equal(t, "lots of spread out fairly long", report.Interests.TopSubreddits[0].Citation.Snippet)
}

// --- keyword tests ---

func TestKeywordTokens(t *testing.T) {
	got := keywordTokens("The quick-witted fox, and go, IS running AROUND the base")
	assert.Equal(t, []string{"running", "around", "base"}, got)
}

func TestPersonaService_CommonKeywords_CountThenFirstSeen(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", "The programming tools are great and programming helps", 9),
	}

	report := mustAggregate(t, svc, acts)

	words := report.Interests.CommonKeywords
	require.Len(t, words, 4)
	assert.Equal(t, "programming", words[0].Word)
	assert.Equal(t, 2, words[0].Count)
	assert.Equal(t, "tools", words[1].Word)
	assert.Equal(t, "great", words[2].Word)
	assert.Equal(t, "helps", words[3].Word)

	require.NotNil(t, words[0].Citation)
	assert.Equal(t, models.KindComment, words[0].Citation.Kind)
	assert.Equal(t, "golang", words[0].Citation.Subreddit)
	assert.Nil(t, words[1].Citation)
	assert.Nil(t, words[2].Citation)
	assert.Nil(t, words[3].Citation)
}

func TestPersonaService_CommonKeywords_PostBodyBeforeTitle(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		post("p1", "golang", "tooling thread", "rust tooling", 9),
	}

	report := mustAggregate(t, svc, acts)

	words := report.Interests.CommonKeywords
	require.Len(t, words, 3)
	assert.Equal(t, "tooling", words[0].Word)
	assert.Equal(t, 2, words[0].Count)
	assert.Equal(t, "rust", words[1].Word)
	assert.Equal(t, "thread", words[2].Word)
	// No comment contains the word, so even the leading keyword goes uncited.
	assert.Nil(t, words[0].Citation)
}

func TestPersonaService_CommonKeywords_CitationFindsFirstComment(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "rust", "nothing relevant here", 9),
		comment("c2", "golang", "compilers fascinate compilers people compilers", 9),
		comment("c3", "golang", "more compilers talk", 9),
	}

	report := mustAggregate(t, svc, acts)

	words := report.Interests.CommonKeywords
	require.NotEmpty(t, words)
	assert.Equal(t, "compilers", words[0].Word)
	require.NotNil(t, words[0].Citation)
	assert.Equal(t, "https://reddit.com/r/golang/comments/c2", words[0].Citation.Permalink)
}

// --- behavior tests ---

func TestPersonaService_AvgCommentLength(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", strings.Repeat("a", 10), 9),
		comment("c2", "golang", strings.Repeat("b", 20), 9),
		comment("c3", "golang", strings.Repeat("c", 30), 9),
		post("p1", "golang", "title", strings.Repeat("d", 500), 9),
	}

	report := mustAggregate(t, svc, acts)

	assert.Equal(t, 20.0, report.Behavior.AvgCommentLength)
}

func TestPersonaService_AvgCommentLength_NoComments(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		post("p1", "golang", "only a submission", "", 9),
	}

	report := mustAggregate(t, svc, acts)

	assert.Equal(t, 0.0, report.Behavior.AvgCommentLength)
}

func TestPersonaService_ActivityRatio(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", "one", 9),
		comment("c2", "golang", "two", 9),
		comment("c3", "golang", "three", 9),
		post("p1", "golang", "four", "", 9),
	}

	report := mustAggregate(t, svc, acts)

	assert.Equal(t, 0.75, report.Behavior.CommentRatio)
	assert.Equal(t, 0.25, report.Behavior.PostRatio)
}

func TestPersonaService_ActiveHours(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", "one", 9),
		comment("c2", "golang", "two", 9),
		comment("c3", "golang", "three", 9),
		comment("c4", "golang", "four", 14),
		comment("c5", "golang", "five", 14),
		comment("c6", "golang", "six", 20),
	}

	report := mustAggregate(t, svc, acts)

	assert.Equal(t, []string{"09:00-10:00", "14:00-15:00"}, report.Behavior.ActiveHours)
}

func TestPersonaService_ActiveHours_TiesAscend(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", "one", 5),
		comment("c2", "golang", "two", 2),
		comment("c3", "golang", "three", 5),
		comment("c4", "golang", "four", 2),
	}

	report := mustAggregate(t, svc, acts)

	assert.Equal(t, []string{"02:00-03:00", "05:00-06:00"}, report.Behavior.ActiveHours)
}

func TestPersonaService_ActiveHours_WrapsMidnight(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", "one", 23),
		comment("c2", "golang", "two", 23),
		comment("c3", "golang", "three", 7),
	}

	report := mustAggregate(t, svc, acts)

	assert.Equal(t, []string{"23:00-00:00", "07:00-08:00"}, report.Behavior.ActiveHours)
}

func TestPersonaService_Engagement(t *testing.T) {
	svc, _, _ := newTestPersonaService()

	cases := []struct {
		name  string
		count int
		score int
		want  string
	}{
		{"high volume and score", 51, 11, "Highly Engaged"},
		{"volume alone", 21, 1, "Active"},
		{"score alone", 5, 6, "Active"},
		{"low volume and score", 5, 1, "Occasional"},
	}
	for _, tc := range cases {
		report := mustAggregate(t, svc, scoredComments(tc.count, tc.score))
		assert.Equal(t, tc.want, report.Behavior.Engagement, tc.name)
	}
}

// --- skip semantics tests ---

func TestPersonaService_ZeroTimestampSkippedFromHoursOnly(t *testing.T) {
	svc, logger, _ := newTestPersonaService()

	broken := comment("c2", "golang", "restored from an old archive", 10)
	broken.CreatedAt = time.Time{}
	acts := []models.Activity{
		comment("c1", "golang", "fresh record", 10),
		broken,
	}

	report := mustAggregate(t, svc, acts)

	require.Len(t, report.Interests.TopSubreddits, 1)
	assert.Equal(t, 2, report.Interests.TopSubreddits[0].Count)
	assert.Equal(t, []string{"10:00-11:00"}, report.Behavior.ActiveHours)
	assert.Equal(t, 1, logger.CountByLevel("warn"))
}

func TestPersonaService_EmptySubredditSkippedFromInterestsOnly(t *testing.T) {
	svc, logger, _ := newTestPersonaService()

	broken := comment("c2", "golang", "stray record", 15)
	broken.Subreddit = ""
	acts := []models.Activity{
		comment("c1", "golang", "fresh record", 9),
		broken,
	}

	report := mustAggregate(t, svc, acts)

	require.Len(t, report.Interests.TopSubreddits, 1)
	assert.Equal(t, "golang", report.Interests.TopSubreddits[0].Name)
	assert.Equal(t, 1, report.Interests.TopSubreddits[0].Count)
	assert.Equal(t, []string{"09:00-10:00", "15:00-16:00"}, report.Behavior.ActiveHours)
	assert.Equal(t, 1, logger.CountByLevel("warn"))
}

// --- trait tests ---

func TestPersonaService_Traits_Positive(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", "love "+strings.Repeat("a", 95), 9),
		comment("c2", "golang", "great "+strings.Repeat("a", 94), 9),
	}

	report := mustAggregate(t, svc, acts)

	assert.Equal(t, []string{"Positive"}, report.Traits)
}

func TestPersonaService_Traits_Negative(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", "hate "+strings.Repeat("a", 95), 9),
		comment("c2", "golang", "awful "+strings.Repeat("a", 94), 9),
	}

	report := mustAggregate(t, svc, acts)

	assert.Equal(t, []string{"Negative"}, report.Traits)
}

func TestPersonaService_Traits_SentimentThresholdNotMet(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	// Three positive against two negative: 3 is not strictly above 2*1.5.
	acts := []models.Activity{
		comment("c1", "golang", "love "+strings.Repeat("a", 95), 9),
		comment("c2", "golang", "nice "+strings.Repeat("a", 95), 9),
		comment("c3", "golang", "great "+strings.Repeat("a", 94), 9),
		comment("c4", "golang", "hate "+strings.Repeat("a", 95), 9),
		comment("c5", "golang", "angry "+strings.Repeat("a", 94), 9),
	}

	report := mustAggregate(t, svc, acts)

	assert.Empty(t, report.Traits)
}

func TestPersonaService_Traits_Detailed(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", strings.Repeat("a", 151), 9),
	}

	report := mustAggregate(t, svc, acts)

	assert.Equal(t, []string{"Detailed/Thoughtful"}, report.Traits)
}

func TestPersonaService_Traits_Concise(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", "tiny", 9),
	}

	report := mustAggregate(t, svc, acts)

	assert.Equal(t, []string{"Concise"}, report.Traits)
}

func TestPersonaService_Traits_NoneAtMiddleLength(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", strings.Repeat("a", 100), 9),
	}

	report := mustAggregate(t, svc, acts)

	assert.Empty(t, report.Traits)
}

// --- demographics tests ---

func TestTimezoneGuess_Buckets(t *testing.T) {
	assert.Equal(t, "UTC-5 to UTC-8 (Americas night time)", timezoneGuess(3))
	assert.Equal(t, "UTC+0 to UTC+5 (Europe morning)", timezoneGuess(6))
	assert.Equal(t, "UTC+0 to UTC+5 (Europe morning)", timezoneGuess(8))
	assert.Equal(t, "UTC+8 to UTC+10 (Asia afternoon)", timezoneGuess(13))
	assert.Equal(t, "UTC+1 to UTC+3 (Europe evening)", timezoneGuess(20))
}

func TestPersonaService_Demographics_TimezoneMeanOfTopHours(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", "one", 1),
		comment("c2", "golang", "two", 1),
		comment("c3", "golang", "three", 2),
		comment("c4", "golang", "four", 2),
		comment("c5", "golang", "five", 3),
		comment("c6", "golang", "six", 3),
		comment("c7", "golang", "seven", 10),
	}

	report := mustAggregate(t, svc, acts)

	// Mean of the three busiest hours (1, 2, 3) lands in the night bucket.
	assert.Equal(t, "UTC-5 to UTC-8 (Americas night time)", report.Demographics.LikelyTimezone)
}

func TestPersonaService_Demographics_LocationUK(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", "I visited London last year", 9),
	}

	report := mustAggregate(t, svc, acts)

	assert.Equal(t, "United Kingdom", report.Demographics.PossibleLocation)
}

func TestPersonaService_Demographics_LocationFirstMatchWins(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", "nothing relevant here", 9),
		comment("c2", "golang", "london fog all week", 9),
		comment("c3", "golang", "my usa trip", 9),
	}

	report := mustAggregate(t, svc, acts)

	assert.Equal(t, "United Kingdom", report.Demographics.PossibleLocation)
}

func TestPersonaService_Demographics_LocationSubstringMatch(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	// "because" contains "us".
	acts := []models.Activity{
		comment("c1", "golang", "that happened because of the weather", 9),
	}

	report := mustAggregate(t, svc, acts)

	assert.Equal(t, "United States", report.Demographics.PossibleLocation)
}

func TestPersonaService_Demographics_LocationIgnoresPosts(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		post("p1", "golang", "Thread", "moving to london soon", 9),
	}

	report := mustAggregate(t, svc, acts)

	assert.Empty(t, report.Demographics.PossibleLocation)
}

// --- sources tests ---

func TestPersonaService_Sources(t *testing.T) {
	svc, _, _ := newTestPersonaService()
	acts := []models.Activity{
		comment("c1", "golang", strings.Repeat("ab", 125), 9),
		comment("c2", "rust", "second comment", 9),
		post("p1", "golang", "First post", "short body", 14),
		post("p2", "rust", "Second post", "", 14),
	}

	report := mustAggregate(t, svc, acts)

	src := report.Sources
	assert.Equal(t, 2, src.CommentCount)
	assert.Equal(t, 2, src.PostCount)

	require.NotNil(t, src.SampleComment)
	assert.Equal(t, "golang", src.SampleComment.Subreddit)
	assert.Equal(t, 1, src.SampleComment.Score)
	assert.Equal(t, strings.Repeat("ab", 100)+"...", src.SampleComment.Excerpt)
	assert.Equal(t, "https://reddit.com/r/golang/comments/c1", src.SampleComment.Permalink)

	require.NotNil(t, src.SamplePost)
	assert.Equal(t, "First post", src.SamplePost.Title)
	assert.Equal(t, "short body", src.SamplePost.Excerpt)
	assert.Equal(t, "https://reddit.com/r/golang/comments/p1", src.SamplePost.Permalink)
}
