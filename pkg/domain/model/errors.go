package model

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrInvalidTag is returned when a tag does not follow the v<major>.<minor>.<patch>[.<build>]-beta form
	ErrInvalidTag = goerr.New("invalid release tag")

	// ErrMissingToken is returned when no GitHub token is configured
	ErrMissingToken = goerr.New("GitHub token is not configured")

	// ErrMissingCommit is returned when a tag cannot be resolved to a commit
	ErrMissingCommit = goerr.New("commit hash not found for tag")

	// ErrUnexpectedStatus is returned when the GitHub API answers with a status other than the expected one
	ErrUnexpectedStatus = goerr.New("unexpected HTTP status")
)
