package report

import (
	"fmt"
	"strings"

	"rpd/internal/models"
)

// Renderer turns a PersonaReport into the plain-text report format. Pure
// string assembly: the same report always renders to identical bytes.
type Renderer struct {
}

func NewRenderer() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Render(p *models.PersonaReport) string {
	var b strings.Builder

	name := p.Username
	if name == "" {
		name = "N/A"
	}

	fmt.Fprintf(&b, "Reddit User Persona Analysis for %s\n", name)
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	b.WriteString("BASIC INFORMATION:\n")
	fmt.Fprintf(&b, "- Username: %s\n", name)
	fmt.Fprintf(&b, "- Account created: %s UTC\n", p.Profile.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "- Comment karma: %d\n", p.Profile.CommentKarma)
	fmt.Fprintf(&b, "- Post karma: %d\n", p.Profile.PostKarma)
	fmt.Fprintf(&b, "- Premium: %s\n", yesNo(p.Profile.Premium))
	fmt.Fprintf(&b, "- Moderator: %s\n\n", yesNo(p.Profile.Moderator))

	b.WriteString("INTERESTS:\n")
	if len(p.Interests.TopSubreddits) > 0 {
		names := make([]string, 0, len(p.Interests.TopSubreddits))
		for i := range p.Interests.TopSubreddits {
			names = append(names, p.Interests.TopSubreddits[i].Name)
		}
		fmt.Fprintf(&b, "- Top subreddits: %s\n", strings.Join(names, ", "))
		for i := range p.Interests.TopSubreddits {
			fmt.Fprintf(&b, "  %s\n", citationLine(&p.Interests.TopSubreddits[i].Citation))
		}
	}
	if len(p.Interests.CommonKeywords) > 0 {
		words := make([]string, 0, len(p.Interests.CommonKeywords))
		for i := range p.Interests.CommonKeywords {
			words = append(words, p.Interests.CommonKeywords[i].Word)
		}
		fmt.Fprintf(&b, "- Common keywords: %s\n", strings.Join(words, ", "))
		if c := p.Interests.CommonKeywords[0].Citation; c != nil {
			fmt.Fprintf(&b, "  %s\n", citationLine(c))
		}
	}
	b.WriteString("\n")

	b.WriteString("BEHAVIOR PATTERNS:\n")
	fmt.Fprintf(&b, "- Average comment length: %.1f characters\n", p.Behavior.AvgCommentLength)
	fmt.Fprintf(&b, "- Comment to post ratio: %.1f%% comments, %.1f%% submissions\n",
		p.Behavior.CommentRatio*100, p.Behavior.PostRatio*100)
	if len(p.Behavior.ActiveHours) > 0 {
		fmt.Fprintf(&b, "- Most active hours: %s\n", strings.Join(p.Behavior.ActiveHours, ", "))
	}
	fmt.Fprintf(&b, "- Engagement level: %s\n\n", p.Behavior.Engagement)

	b.WriteString("PERSONALITY TRAITS:\n")
	if len(p.Traits) > 0 {
		for _, trait := range p.Traits {
			fmt.Fprintf(&b, "- %s\n", trait)
		}
	} else {
		b.WriteString("- Could not determine significant personality traits\n")
	}
	b.WriteString("\n")

	b.WriteString("POTENTIAL DEMOGRAPHICS:\n")
	if p.Demographics.LikelyTimezone != "" {
		fmt.Fprintf(&b, "- Likely timezone: %s\n", p.Demographics.LikelyTimezone)
	}
	if p.Demographics.PossibleLocation != "" {
		fmt.Fprintf(&b, "- Possible location: %s\n", p.Demographics.PossibleLocation)
	}
	if p.Demographics.LikelyTimezone == "" && p.Demographics.PossibleLocation == "" {
		b.WriteString("- Could not infer demographics\n")
	}
	b.WriteString("\n")

	b.WriteString("SOURCES:\n")
	fmt.Fprintf(&b, "- Analyzed %d comments and %d submissions\n", p.Sources.CommentCount, p.Sources.PostCount)

	if sc := p.Sources.SampleComment; sc != nil {
		b.WriteString("\nSAMPLE COMMENT:\n")
		fmt.Fprintf(&b, "From r/%s (Score: %d):\n", sc.Subreddit, sc.Score)
		b.WriteString(sc.Excerpt + "\n")
		fmt.Fprintf(&b, "Permalink: %s\n", sc.Permalink)
	}

	if sp := p.Sources.SamplePost; sp != nil {
		b.WriteString("\nSAMPLE POST:\n")
		fmt.Fprintf(&b, "From r/%s (Score: %d):\n", sp.Subreddit, sp.Score)
		fmt.Fprintf(&b, "Title: %s\n", sp.Title)
		if sp.Excerpt != "" {
			b.WriteString(sp.Excerpt + "\n")
		}
		fmt.Fprintf(&b, "Permalink: %s\n", sp.Permalink)
	}

	return b.String()
}

func citationLine(c *models.Citation) string {
	return fmt.Sprintf("(Source: %s '%s...' in r/%s)", c.Kind.SourceLabel(), c.Snippet, c.Subreddit)
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
