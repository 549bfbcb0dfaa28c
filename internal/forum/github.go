package forum

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// listPageSize is the GraphQL page size for discussion listing. 100 is
// the API maximum.
const listPageSize = 100

// GitHubClient implements Client against GitHub Discussions.
//
// Repository and category node IDs are resolved once in NewGitHubClient
// and are immutable afterwards, so the client is safe to share across
// concurrent reconciliations.
type GitHubClient struct {
	gql        *githubv4.Client
	owner      string
	name       string
	repoID     githubv4.ID
	categoryID githubv4.ID
}

// NewGitHubClient builds a Discussions client for owner/name, scoped to
// the named discussion category. The token needs repo + discussion write
// scope. Fails if the repository or category cannot be resolved.
func NewGitHubClient(ctx context.Context, token, owner, name, category string) (*GitHubClient, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	gql := githubv4.NewClient(oauth2.NewClient(ctx, src))

	var q struct {
		Repository struct {
			ID                   githubv4.ID
			DiscussionCategories struct {
				Nodes []struct {
					ID   githubv4.ID
					Name githubv4.String
				}
			} `graphql:"discussionCategories(first: 25)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	}
	if err := gql.Query(ctx, &q, vars); err != nil {
		return nil, fmt.Errorf("resolve repository %s/%s: %w", owner, name, err)
	}

	c := &GitHubClient{
		gql:    gql,
		owner:  owner,
		name:   name,
		repoID: q.Repository.ID,
	}
	for _, node := range q.Repository.DiscussionCategories.Nodes {
		if string(node.Name) == category {
			c.categoryID = node.ID
			return c, nil
		}
	}
	return nil, fmt.Errorf("repository %s/%s has no discussion category %q", owner, name, category)
}

// ListAll fetches every discussion in the category, one page at a time.
func (c *GitHubClient) ListAll(ctx context.Context) ([]DiscussionRef, error) {
	var q struct {
		Repository struct {
			Discussions struct {
				Nodes []struct {
					ID  githubv4.ID
					URL githubv4.URI
				}
				PageInfo struct {
					EndCursor   githubv4.String
					HasNextPage bool
				}
			} `graphql:"discussions(first: $first, after: $cursor, categoryId: $categoryID)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]interface{}{
		"owner":      githubv4.String(c.owner),
		"name":       githubv4.String(c.name),
		"categoryID": c.categoryID,
		"first":      githubv4.Int(listPageSize),
		"cursor":     (*githubv4.String)(nil),
	}

	var refs []DiscussionRef
	for {
		if err := c.gql.Query(ctx, &q, vars); err != nil {
			return nil, fmt.Errorf("list discussions: %w", err)
		}
		for _, node := range q.Repository.Discussions.Nodes {
			refs = append(refs, DiscussionRef{
				ID:  fmt.Sprint(node.ID),
				URL: node.URL.String(),
			})
		}
		if !q.Repository.Discussions.PageInfo.HasNextPage {
			return refs, nil
		}
		vars["cursor"] = githubv4.NewString(q.Repository.Discussions.PageInfo.EndCursor)
	}
}

// Create opens a new discussion in the configured category.
func (c *GitHubClient) Create(ctx context.Context, title, body string) (DiscussionRef, error) {
	var m struct {
		CreateDiscussion struct {
			Discussion struct {
				ID  githubv4.ID
				URL githubv4.URI
			}
		} `graphql:"createDiscussion(input: $input)"`
	}
	input := githubv4.CreateDiscussionInput{
		RepositoryID: c.repoID,
		CategoryID:   c.categoryID,
		Title:        githubv4.String(title),
		Body:         githubv4.String(body),
	}
	if err := c.gql.Mutate(ctx, &m, input, nil); err != nil {
		return DiscussionRef{}, fmt.Errorf("create discussion %q: %w", title, err)
	}
	return DiscussionRef{
		ID:  fmt.Sprint(m.CreateDiscussion.Discussion.ID),
		URL: m.CreateDiscussion.Discussion.URL.String(),
	}, nil
}

// Update replaces the body of an existing discussion.
func (c *GitHubClient) Update(ctx context.Context, id, body string) error {
	var m struct {
		UpdateDiscussion struct {
			Discussion struct {
				ID githubv4.ID
			}
		} `graphql:"updateDiscussion(input: $input)"`
	}
	input := githubv4.UpdateDiscussionInput{
		DiscussionID: githubv4.ID(id),
		Body:         githubv4.NewString(githubv4.String(body)),
	}
	if err := c.gql.Mutate(ctx, &m, input, nil); err != nil {
		return fmt.Errorf("update discussion %s: %w", id, err)
	}
	return nil
}
