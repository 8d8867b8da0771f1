package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentflow/agentflow-api/internal/entity"
)

func TestSearchTermsDropShortWords(t *testing.T) {
	assert.Equal(t, []string{"automation", "crm"}, SearchTerms("AI Automation of CRM"))
	assert.Nil(t, SearchTerms("ai of it"))
	assert.Nil(t, SearchTerms(""))
}

func TestSearchRanksTitleAboveContent(t *testing.T) {
	posts := []*entity.BlogPost{
		{Slug: "p2", Title: "Scaling support teams", Content: "automation is the answer"},
		{Slug: "p1", Title: "Automation for small teams", Content: "nothing relevant"},
		{Slug: "p3", Title: "Unrelated", Content: "also unrelated"},
	}

	results := SearchPosts(posts, []string{"automation"})

	assert.Len(t, results, 2)
	assert.Equal(t, "p1", results[0].Slug, "title match outranks content match")
	assert.Equal(t, "p2", results[1].Slug)
}

func TestSearchTiesKeepInputOrder(t *testing.T) {
	posts := []*entity.BlogPost{
		{Slug: "newer", Title: "Chatbot basics"},
		{Slug: "older", Title: "Chatbot patterns"},
	}

	results := SearchPosts(posts, []string{"chatbot"})
	assert.Equal(t, "newer", results[0].Slug)
	assert.Equal(t, "older", results[1].Slug)
}

func TestSearchMultipleTermsAccumulate(t *testing.T) {
	posts := []*entity.BlogPost{
		{Slug: "both", Title: "Chatbot automation guide"},
		{Slug: "one", Title: "Chatbot guide", Content: "no second term"},
	}

	results := SearchPosts(posts, []string{"chatbot", "automation"})
	assert.Equal(t, "both", results[0].Slug)
}
