package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/vueland/vuebot/internal/flagutil"
	"github.com/vueland/vuebot/internal/rfc"
)

const pageSize = 100

// Client wraps the go-github client with our specific functionality
type Client struct {
	client *github.Client
	owner  string
	name   string
}

// NewClient creates a new GitHub client using the flagutil options
func NewClient(opts flagutil.GitHubOptions) (*Client, error) {
	return newClient(opts, http.DefaultClient)
}

func newClient(opts flagutil.GitHubOptions, httpClient *http.Client) (*Client, error) {
	owner, name, err := opts.OwnerAndName()
	if err != nil {
		return nil, err
	}

	token, err := opts.Token()
	if err != nil {
		return nil, fmt.Errorf("failed to load GitHub token: %w", err)
	}

	client := github.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if opts.Endpoint != "" {
		endpoint := opts.Endpoint
		if !strings.HasSuffix(endpoint, "/") {
			endpoint += "/"
		}
		baseURL, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to parse GitHub endpoint: %w", err)
		}
		client.BaseURL = baseURL
	}

	return &Client{
		client: client,
		owner:  owner,
		name:   name,
	}, nil
}

// Repository returns the owner/name of the repository the client reads from
func (c *Client) Repository() string {
	return c.owner + "/" + c.name
}

// FetchRFCs lists every pull request of the repository, in any state, and
// converts them to RFCs. Any failure wraps rfc.ErrFetchFailed.
func (c *Client) FetchRFCs(ctx context.Context) ([]rfc.RFC, error) {
	opts := &github.PullRequestListOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: pageSize},
	}

	result := make([]rfc.RFC, 0)
	for {
		pulls, resp, err := c.client.PullRequests.List(ctx, c.owner, c.name, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list pull requests of %s: %w", rfc.ErrFetchFailed, c.Repository(), err)
		}
		for _, pull := range pulls {
			result = append(result, convertPullRequest(pull))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

// convertPullRequest converts a go-github PullRequest to our RFC
func convertPullRequest(pull *github.PullRequest) rfc.RFC {
	labels := make([]rfc.Label, 0, len(pull.Labels))
	for _, label := range pull.Labels {
		labels = append(labels, rfc.Label{Name: label.GetName(), Color: label.GetColor()})
	}

	item := rfc.RFC{
		Number:    pull.GetNumber(),
		Title:     pull.GetTitle(),
		Body:      pull.GetBody(),
		Author:    pull.GetUser().GetLogin(),
		State:     rfc.StateOpen,
		Labels:    labels,
		URL:       pull.GetHTMLURL(),
		CreatedAt: pull.GetCreatedAt().Time,
		UpdatedAt: pull.GetUpdatedAt().Time,
	}

	if pull.ClosedAt != nil {
		closed := pull.GetClosedAt().Time
		item.ClosedAt = &closed
	}
	if pull.MergedAt != nil {
		merged := pull.GetMergedAt().Time
		item.MergedAt = &merged
	}

	if pull.GetState() == "closed" {
		item.State = rfc.StateClosed
		if item.MergedAt != nil {
			item.State = rfc.StateMerged
		}
	}

	return item
}
