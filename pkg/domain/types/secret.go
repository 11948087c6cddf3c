package types

// GitHubToken is a bearer token for the GitHub REST API. Values of this type
// are redacted from logs.
type GitHubToken string

// String returns the raw token value
func (t GitHubToken) String() string {
	return string(t)
}
