package services

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"rpd/internal/models"
	"rpd/internal/providers"
	"rpd/internal/structures"
)

const sampleExcerptLimit = 200

var (
	stopWords = map[string]struct{}{
		"the": {}, "and": {}, "but": {}, "are": {},
		"is": {}, "i": {}, "you": {}, "me": {},
	}

	positiveWords = []string{"love", "great", "awesome", "happy", "nice"}
	negativeWords = []string{"hate", "awful", "terrible", "bad", "angry"}

	usIndicators = []string{"america", "usa", "us", "united states"}
	ukIndicators = []string{"uk", "britain", "england", "london"}
)

type PersonaServiceInterface interface {
	Aggregate(profile *models.UserProfile, acts []models.Activity) (*models.PersonaReport, error)
}

// PersonaService turns a user's raw activity into a PersonaReport. Pure over
// its inputs: no clock, no randomness, no network, so identical input always
// produces an identical report. Records with a missing subreddit or zero
// timestamp are skipped per dimension instead of failing the whole run.
type PersonaService struct {
	conf    *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func (ps *PersonaService) Aggregate(profile *models.UserProfile, acts []models.Activity) (*models.PersonaReport, error) {
	if len(acts) == 0 {
		return nil, &models.InsufficientDataError{Username: profile.Username}
	}

	ranked := ps.rankedHours(acts)

	report := &models.PersonaReport{
		Username: profile.Username,
		Profile:  *profile,
		Interests: models.Interests{
			TopSubreddits:  ps.topSubreddits(acts),
			CommonKeywords: ps.commonKeywords(acts),
		},
		Behavior: models.Behavior{
			AvgCommentLength: avgCommentLength(acts),
			ActiveHours:      formatHours(ranked, ps.conf.Persona.TopHours),
			Engagement:       engagementLevel(acts),
		},
		Traits:       personalityTraits(acts),
		Demographics: demographics(acts, ranked),
		Sources:      collectSources(acts),
	}
	report.Behavior.CommentRatio, report.Behavior.PostRatio = activityRatio(acts)

	ps.metrics.IncPersonasBuilt()

	return report, nil
}

// topSubreddits counts all records per subreddit and keeps the top N, count
// descending with first-encountered winning ties. Each entry cites the first
// record seen in that subreddit.
func (ps *PersonaService) topSubreddits(acts []models.Activity) []models.SubredditStat {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	firstRecord := make(map[string]*models.Activity)

	for i := range acts {
		sub := acts[i].Subreddit
		if sub == "" {
			ps.logger.Warnf(providers.TypeApp, "record %q carries no subreddit, excluded from interest counts", acts[i].ID)
			continue
		}
		if _, seen := counts[sub]; !seen {
			firstSeen[sub] = i
			firstRecord[sub] = &acts[i]
		}
		counts[sub]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(a, b int) bool {
		if counts[names[a]] != counts[names[b]] {
			return counts[names[a]] > counts[names[b]]
		}
		return firstSeen[names[a]] < firstSeen[names[b]]
	})

	if len(names) > ps.conf.Persona.TopSubreddits {
		names = names[:ps.conf.Persona.TopSubreddits]
	}

	stats := make([]models.SubredditStat, 0, len(names))
	for _, name := range names {
		stats = append(stats, models.SubredditStat{
			Name:     name,
			Count:    counts[name],
			Citation: ps.cite(firstRecord[name]),
		})
	}

	return stats
}

// commonKeywords tokenizes comment bodies first, then each post's selftext
// and title, keeping lowercased fully-alphabetic tokens longer than three
// runes minus stop words. The leading keyword cites the first comment that
// contains it; keywords appearing only in titles go uncited.
func (ps *PersonaService) commonKeywords(acts []models.Activity) []models.KeywordStat {
	var words []string
	for i := range acts {
		if acts[i].Kind == models.KindComment {
			words = append(words, keywordTokens(acts[i].Body)...)
		}
	}
	for i := range acts {
		if acts[i].Kind != models.KindPost {
			continue
		}
		if acts[i].Body != "" {
			words = append(words, keywordTokens(acts[i].Body)...)
		}
		words = append(words, keywordTokens(acts[i].Title)...)
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	for i, word := range words {
		if _, seen := counts[word]; !seen {
			firstSeen[word] = i
		}
		counts[word]++
	}

	unique := make([]string, 0, len(counts))
	for word := range counts {
		unique = append(unique, word)
	}
	sort.Slice(unique, func(a, b int) bool {
		if counts[unique[a]] != counts[unique[b]] {
			return counts[unique[a]] > counts[unique[b]]
		}
		return firstSeen[unique[a]] < firstSeen[unique[b]]
	})

	if len(unique) > ps.conf.Persona.TopKeywords {
		unique = unique[:ps.conf.Persona.TopKeywords]
	}

	stats := make([]models.KeywordStat, 0, len(unique))
	for i, word := range unique {
		stat := models.KeywordStat{Word: word, Count: counts[word]}
		if i == 0 {
			stat.Citation = ps.keywordCitation(acts, word)
		}
		stats = append(stats, stat)
	}

	return stats
}

func (ps *PersonaService) keywordCitation(acts []models.Activity, word string) *models.Citation {
	for i := range acts {
		if acts[i].Kind != models.KindComment {
			continue
		}
		if strings.Contains(strings.ToLower(acts[i].Body), word) {
			c := ps.cite(&acts[i])
			return &c
		}
	}
	return nil
}

func (ps *PersonaService) cite(act *models.Activity) models.Citation {
	return models.Citation{
		Kind:      act.Kind,
		Snippet:   snippet(act.Text(), ps.conf.Persona.SnippetLength),
		Subreddit: act.Subreddit,
		Permalink: act.Permalink,
	}
}

// rankedHours returns every observed UTC hour ordered by record count
// descending, hour ascending on ties. Records without a usable timestamp
// are excluded here and only here.
func (ps *PersonaService) rankedHours(acts []models.Activity) []int {
	counts := make(map[int]int)
	for i := range acts {
		if acts[i].CreatedAt.IsZero() {
			ps.logger.Warnf(providers.TypeApp, "record %q carries no usable timestamp, excluded from hour counts", acts[i].ID)
			continue
		}
		counts[acts[i].CreatedAt.UTC().Hour()]++
	}

	hours := make([]int, 0, len(counts))
	for hour := range counts {
		hours = append(hours, hour)
	}
	sort.Slice(hours, func(a, b int) bool {
		if counts[hours[a]] != counts[hours[b]] {
			return counts[hours[a]] > counts[hours[b]]
		}
		return hours[a] < hours[b]
	})

	return hours
}

func formatHours(ranked []int, top int) []string {
	if len(ranked) > top {
		ranked = ranked[:top]
	}
	out := make([]string, 0, len(ranked))
	for _, hour := range ranked {
		out = append(out, fmt.Sprintf("%02d:00-%02d:00", hour, (hour+1)%24))
	}
	return out
}

func avgCommentLength(acts []models.Activity) float64 {
	var total, n int
	for i := range acts {
		if acts[i].Kind != models.KindComment {
			continue
		}
		total += utf8.RuneCountInString(acts[i].Body)
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

func activityRatio(acts []models.Activity) (comments float64, posts float64) {
	var c, p int
	for i := range acts {
		if acts[i].Kind == models.KindComment {
			c++
		} else {
			p++
		}
	}
	total := c + p
	if total == 0 {
		return 0, 0
	}
	return float64(c) / float64(total), float64(p) / float64(total)
}

func engagementLevel(acts []models.Activity) string {
	total := len(acts)
	if total == 0 {
		return "Inactive"
	}

	var scoreSum int
	for i := range acts {
		scoreSum += acts[i].Score
	}
	avgScore := float64(scoreSum) / float64(total)

	switch {
	case total > 50 && avgScore > 10:
		return "Highly Engaged"
	case total > 20 || avgScore > 5:
		return "Active"
	default:
		return "Occasional"
	}
}

// personalityTraits counts sentiment word occurrences over comment bodies
// (each distinct word present in a comment adds one) and labels the user
// when one side outweighs the other by half again. Comment length adds a
// verbosity trait.
func personalityTraits(acts []models.Activity) []string {
	var positive, negative int
	for i := range acts {
		if acts[i].Kind != models.KindComment {
			continue
		}
		body := strings.ToLower(acts[i].Body)
		for _, word := range positiveWords {
			if strings.Contains(body, word) {
				positive++
			}
		}
		for _, word := range negativeWords {
			if strings.Contains(body, word) {
				negative++
			}
		}
	}

	var traits []string
	if float64(positive) > float64(negative)*1.5 {
		traits = append(traits, "Positive")
	} else if float64(negative) > float64(positive)*1.5 {
		traits = append(traits, "Negative")
	}

	avg := avgCommentLength(acts)
	if avg > 150 {
		traits = append(traits, "Detailed/Thoughtful")
	} else if avg < 50 {
		traits = append(traits, "Concise")
	}

	return traits
}

func demographics(acts []models.Activity, ranked []int) models.Demographics {
	var demo models.Demographics

	if len(ranked) > 0 {
		top := ranked
		if len(top) > 3 {
			top = top[:3]
		}
		sum := 0
		for _, hour := range top {
			sum += hour
		}
		demo.LikelyTimezone = timezoneGuess(float64(sum) / float64(len(top)))
	}

	for i := range acts {
		if acts[i].Kind != models.KindComment {
			continue
		}
		body := strings.ToLower(acts[i].Body)
		if containsAny(body, usIndicators) {
			demo.PossibleLocation = "United States"
			break
		}
		if containsAny(body, ukIndicators) {
			demo.PossibleLocation = "United Kingdom"
			break
		}
	}

	return demo
}

func timezoneGuess(avgHour float64) string {
	switch {
	case avgHour < 6:
		return "UTC-5 to UTC-8 (Americas night time)"
	case avgHour < 12:
		return "UTC+0 to UTC+5 (Europe morning)"
	case avgHour < 18:
		return "UTC+8 to UTC+10 (Asia afternoon)"
	default:
		return "UTC+1 to UTC+3 (Europe evening)"
	}
}

func collectSources(acts []models.Activity) models.Sources {
	var src models.Sources
	for i := range acts {
		switch acts[i].Kind {
		case models.KindComment:
			src.CommentCount++
			if src.SampleComment == nil {
				src.SampleComment = sampleOf(&acts[i])
			}
		case models.KindPost:
			src.PostCount++
			if src.SamplePost == nil {
				src.SamplePost = sampleOf(&acts[i])
			}
		}
	}
	return src
}

func sampleOf(act *models.Activity) *models.SampleRecord {
	return &models.SampleRecord{
		Subreddit: act.Subreddit,
		Score:     act.Score,
		Title:     act.Title,
		Excerpt:   excerpt(act.Body, sampleExcerptLimit),
		Permalink: act.Permalink,
	}
}

// snippet collapses runs of whitespace to single spaces and keeps the first
// limit runes. The ellipsis is the renderer's job.
func snippet(text string, limit int) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return collapsed
}

// excerpt keeps the text as written, including line breaks, appending an
// ellipsis only when it had to cut.
func excerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) > limit {
		return string(runes[:limit]) + "..."
	}
	return text
}

func keywordTokens(text string) []string {
	var out []string
	for _, word := range strings.Fields(text) {
		if !isAlpha(word) {
			continue
		}
		lowered := strings.ToLower(word)
		if _, stop := stopWords[lowered]; stop {
			continue
		}
		if utf8.RuneCountInString(lowered) <= 3 {
			continue
		}
		out = append(out, lowered)
	}
	return out
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func containsAny(text string, words []string) bool {
	for _, word := range words {
		if strings.Contains(text, word) {
			return true
		}
	}
	return false
}

func NewPersonaService(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) PersonaServiceInterface {
	return &PersonaService{
		conf:    conf,
		logger:  logger,
		metrics: metrics,
	}
}
