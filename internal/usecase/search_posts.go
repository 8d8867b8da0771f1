package usecase

import (
	"sort"
	"strings"

	"github.com/agentflow/agentflow-api/internal/entity"
)

const minSearchTermLength = 3

// SearchTerms splits a raw query into lower-cased terms of at least three
// characters. An empty result means the query is not searchable.
func SearchTerms(query string) []string {
	var terms []string
	for _, t := range strings.Fields(strings.ToLower(query)) {
		if len(t) >= minSearchTermLength {
			terms = append(terms, t)
		}
	}
	return terms
}

// SearchPosts ranks posts by in-memory relevance: a term hit in the title
// outweighs one in the excerpt or tags, which outweigh hits in the body.
// Posts with zero score are excluded; ties keep the input (recency) order.
func SearchPosts(posts []*entity.BlogPost, terms []string) []*entity.BlogPost {
	type scored struct {
		post  *entity.BlogPost
		score int
		pos   int
	}

	var matches []scored
	for i, post := range posts {
		title := strings.ToLower(post.Title)
		excerpt := strings.ToLower(post.Excerpt)
		content := strings.ToLower(post.Content)
		tags := strings.ToLower(strings.Join(post.Tags, " "))

		score := 0
		for _, term := range terms {
			if strings.Contains(title, term) {
				score += 10
			}
			if strings.Contains(excerpt, term) {
				score += 5
			}
			if strings.Contains(tags, term) {
				score += 3
			}
			if strings.Contains(content, term) {
				score += 1
			}
		}
		if score > 0 {
			matches = append(matches, scored{post: post, score: score, pos: i})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].pos < matches[j].pos
	})

	results := make([]*entity.BlogPost, 0, len(matches))
	for _, m := range matches {
		results = append(results, m.post)
	}
	return results
}
