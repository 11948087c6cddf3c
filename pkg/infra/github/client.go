package github

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/kuroba-ex/shipper/pkg/domain/interfaces"
	"github.com/kuroba-ex/shipper/pkg/domain/model"
	"github.com/kuroba-ex/shipper/pkg/domain/types"
)

const octetStream = "application/octet-stream"

type client struct {
	githubClient *github.Client
	repo         model.Repository
}

type options struct {
	httpClient *http.Client
	baseURL    string
	uploadURL  string
}

// Option configures the GitHub client
type Option func(*options)

// WithHTTPClient sets the underlying HTTP client
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithBaseURL sets the REST API endpoint, e.g. for GitHub Enterprise
func WithBaseURL(u string) Option {
	return func(o *options) {
		o.baseURL = u
	}
}

// WithUploadURL sets the asset upload endpoint
func WithUploadURL(u string) Option {
	return func(o *options) {
		o.uploadURL = u
	}
}

// NewClient creates a GitHub client for repo authenticated with a bearer token
func NewClient(token types.GitHubToken, repo model.Repository, opts ...Option) (interfaces.GitHubClient, error) {
	if token == "" {
		return nil, goerr.Wrap(model.ErrMissingToken, "cannot create GitHub client")
	}
	if repo.Owner == "" || repo.Name == "" {
		return nil, goerr.New("repository must be owner/name", goerr.V("repo", repo.String()))
	}

	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}

	githubClient := github.NewClient(cfg.httpClient).WithAuthToken(token.String())

	if cfg.baseURL != "" {
		u, err := parseEndpoint(cfg.baseURL)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub API base URL", goerr.V("url", cfg.baseURL))
		}
		githubClient.BaseURL = u
	}
	if cfg.uploadURL != "" {
		u, err := parseEndpoint(cfg.uploadURL)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid GitHub upload URL", goerr.V("url", cfg.uploadURL))
		}
		githubClient.UploadURL = u
	}

	return &client{
		githubClient: githubClient,
		repo:         repo,
	}, nil
}

// ParseRepository splits "owner/name" into a Repository
func ParseRepository(s string) (model.Repository, error) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return model.Repository{}, goerr.New("repository must be owner/name", goerr.V("repo", s))
	}
	return model.Repository{Owner: parts[0], Name: parts[1]}, nil
}

// go-github requires endpoints with a trailing slash
func parseEndpoint(raw string) (*url.URL, error) {
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}
	return url.Parse(raw)
}

// LatestReleaseTag returns the tag name of the latest published release
func (c *client) LatestReleaseTag(ctx context.Context) (string, error) {
	release, resp, err := c.githubClient.Repositories.GetLatestRelease(ctx, c.repo.Owner, c.repo.Name)
	if err != nil {
		return "", c.apiError(ctx, err, "failed to get latest release")
	}
	if err := expectStatus(resp, http.StatusOK); err != nil {
		return "", goerr.Wrap(err, "failed to get latest release", goerr.V("repo", c.repo.String()))
	}

	tag := release.GetTagName()
	if tag == "" {
		return "", goerr.New("latest release has no tag", goerr.V("repo", c.repo.String()), goerr.V("release_id", release.GetID()))
	}
	return tag, nil
}

// ResolveTag returns the commit SHA a tag points to. Annotated tags are
// dereferenced to the commit they annotate.
func (c *client) ResolveTag(ctx context.Context, tag string) (string, error) {
	ref, _, err := c.githubClient.Git.GetRef(ctx, c.repo.Owner, c.repo.Name, "tags/"+tag)
	if err != nil {
		return "", c.apiError(ctx, err, "failed to resolve tag ref", goerr.V("tag", tag))
	}

	obj := ref.GetObject()
	sha := obj.GetSHA()

	if obj.GetType() == "tag" && sha != "" {
		annotated, _, err := c.githubClient.Git.GetTag(ctx, c.repo.Owner, c.repo.Name, sha)
		if err != nil {
			return "", c.apiError(ctx, err, "failed to get annotated tag", goerr.V("tag", tag), goerr.V("sha", sha))
		}
		sha = annotated.GetObject().GetSHA()
	}

	if sha == "" {
		return "", goerr.Wrap(model.ErrMissingCommit, "tag ref has no object", goerr.V("tag", tag))
	}
	return sha, nil
}

// CreateRelease creates a new release
func (c *client) CreateRelease(ctx context.Context, spec *model.ReleaseSpec) (*model.Release, error) {
	created, resp, err := c.githubClient.Repositories.CreateRelease(ctx, c.repo.Owner, c.repo.Name, &github.RepositoryRelease{
		TagName:    github.Ptr(spec.TagName),
		Name:       github.Ptr(spec.Name),
		Body:       github.Ptr(spec.Body),
		Draft:      github.Ptr(spec.Draft),
		Prerelease: github.Ptr(spec.Prerelease),
	})
	if err != nil {
		return nil, c.apiError(ctx, err, "failed to create release", goerr.V("tag", spec.TagName))
	}
	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return nil, goerr.Wrap(err, "failed to create release", goerr.V("tag", spec.TagName))
	}

	return &model.Release{
		ID:        created.GetID(),
		TagName:   created.GetTagName(),
		Name:      created.GetName(),
		Body:      created.GetBody(),
		HTMLURL:   created.GetHTMLURL(),
		UploadURL: created.GetUploadURL(),
	}, nil
}

// UploadAsset attaches a file to an existing release as application/octet-stream.
// The upload goes to the release's upload_url when the API returned one.
func (c *client) UploadAsset(ctx context.Context, release *model.Release, asset *model.Asset) (*model.UploadedAsset, error) {
	file, err := os.Open(asset.Path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open asset", goerr.V("path", asset.Path))
	}
	defer file.Close()

	var (
		uploaded *github.ReleaseAsset
		resp     *github.Response
	)
	if release.UploadURL != "" {
		uploaded, resp, err = c.uploadToReleaseURL(ctx, release.UploadURL, asset.FileName(), file)
	} else {
		uploaded, resp, err = c.githubClient.Repositories.UploadReleaseAsset(ctx, c.repo.Owner, c.repo.Name, release.ID, &github.UploadOptions{
			Name:      asset.FileName(),
			MediaType: octetStream,
		}, file)
	}
	if err != nil {
		return nil, c.apiError(ctx, err, "failed to upload asset", goerr.V("name", asset.FileName()), goerr.V("release_id", release.ID))
	}
	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return nil, goerr.Wrap(err, "failed to upload asset", goerr.V("name", asset.FileName()))
	}

	return &model.UploadedAsset{
		ID:          uploaded.GetID(),
		Name:        uploaded.GetName(),
		Size:        uploaded.GetSize(),
		DownloadURL: uploaded.GetBrowserDownloadURL(),
	}, nil
}

func (c *client) uploadToReleaseURL(ctx context.Context, template, name string, file *os.File) (*github.ReleaseAsset, *github.Response, error) {
	stat, err := file.Stat()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to stat asset", goerr.V("path", file.Name()))
	}
	if stat.IsDir() {
		return nil, nil, goerr.New("asset is a directory", goerr.V("path", file.Name()))
	}

	endpoint := expandUploadURL(template) + "?name=" + url.QueryEscape(name)
	req, err := c.githubClient.NewUploadRequest(endpoint, file, stat.Size(), octetStream)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to build upload request", goerr.V("url", endpoint))
	}

	asset := new(github.ReleaseAsset)
	resp, err := c.githubClient.Do(ctx, req, asset)
	if err != nil {
		return nil, resp, err
	}
	return asset, resp, nil
}

// expandUploadURL drops the RFC 6570 query template, e.g. "{?name,label}"
func expandUploadURL(template string) string {
	if i := strings.Index(template, "{"); i >= 0 {
		return template[:i]
	}
	return template
}

// apiError logs status and body of a failed API call and wraps err
func (c *client) apiError(ctx context.Context, err error, msg string, opts ...goerr.Option) error {
	opts = append(opts, goerr.V("repo", c.repo.String()))

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		var endpoint string
		if errResp.Response.Request != nil {
			endpoint = errResp.Response.Request.URL.String()
		}
		ctxlog.From(ctx).Error("GitHub API call failed",
			"status", errResp.Response.StatusCode,
			"body", errResp.Message,
			"url", endpoint,
		)
		opts = append(opts,
			goerr.V("status", errResp.Response.StatusCode),
			goerr.V("body", errResp.Message),
		)
		return goerr.Wrap(errors.Join(model.ErrUnexpectedStatus, err), msg, opts...)
	}

	return goerr.Wrap(err, msg, opts...)
}

func expectStatus(resp *github.Response, want int) error {
	if resp == nil || resp.Response == nil {
		return goerr.Wrap(model.ErrUnexpectedStatus, "no HTTP response", goerr.V("want", want))
	}
	if resp.StatusCode != want {
		return goerr.Wrap(model.ErrUnexpectedStatus, "unexpected status code",
			goerr.V("status", resp.StatusCode),
			goerr.V("want", want),
		)
	}
	return nil
}
