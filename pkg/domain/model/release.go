package model

import "path/filepath"

// Repository identifies a GitHub repository
type Repository struct {
	Owner string
	Name  string
}

// String returns owner/name
func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// ReleaseSpec is the payload used to create a release
type ReleaseSpec struct {
	TagName    string
	Name       string
	Body       string
	Draft      bool
	Prerelease bool
}

// Release is a release created on GitHub
type Release struct {
	ID        int64
	TagName   string
	Name      string
	Body      string
	HTMLURL   string
	UploadURL string // URL template, e.g. https://uploads.github.com/.../assets{?name,label}
}

// Asset is a local file attached to a release
type Asset struct {
	Path string
	Name string // Defaults to the base name of Path
}

// FileName returns the name the asset is uploaded as
func (a Asset) FileName() string {
	if a.Name != "" {
		return a.Name
	}
	return filepath.Base(a.Path)
}

// UploadedAsset is an asset stored on GitHub
type UploadedAsset struct {
	ID          int64
	Name        string
	Size        int
	DownloadURL string
}

// Plan is the outcome of planning a release without publishing it
type Plan struct {
	LatestTag string
	NextTag   string
	CommitSHA string
	Changelog string
}
