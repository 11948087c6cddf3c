package toolchain

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/kuroba-ex/shipper/pkg/domain/interfaces"
)

// Fetcher downloads zip archives over HTTP and extracts them
type Fetcher struct {
	httpClient *http.Client
}

var _ interfaces.ToolchainFetcher = (*Fetcher)(nil)

// Option configures Fetcher
type Option func(*Fetcher)

// WithHTTPClient sets the HTTP client used for downloads
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// New creates a Fetcher
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		httpClient: &http.Client{Timeout: 30 * time.Minute},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads the zip archive at url and extracts it into destDir
func (f *Fetcher) Fetch(ctx context.Context, url, destDir string) error {
	logger := ctxlog.From(ctx)

	archive, err := os.CreateTemp("", "shipper-toolchain-*.zip")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary file")
	}
	defer func() {
		archive.Close()
		if err := os.Remove(archive.Name()); err != nil {
			logger.Warn("Failed to remove temporary archive", "path", archive.Name(), "error", err)
		}
	}()

	logger.Info("Downloading toolchain", "url", url)

	size, err := f.download(ctx, url, archive)
	if err != nil {
		return err
	}

	logger.Info("Downloaded toolchain", "url", url, "size_bytes", size)

	files, err := extractZip(archive, size, destDir)
	if err != nil {
		return goerr.Wrap(err, "failed to extract toolchain", goerr.V("url", url), goerr.V("dest", destDir))
	}

	logger.Info("Extracted toolchain", "dest", destDir, "file_count", files)
	return nil
}

func (f *Fetcher) download(ctx context.Context, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create download request", goerr.V("url", url))
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to download toolchain", goerr.V("url", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, goerr.New("unexpected status code", goerr.V("url", url), goerr.V("status", resp.StatusCode))
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to read response body", goerr.V("url", url))
	}
	return n, nil
}

// ErrUnsafeEntry is returned for archive entries that would be written outside
// the destination directory
var ErrUnsafeEntry = goerr.New("archive entry escapes destination")

// extractZip extracts the zip archive read from r into destDir and returns
// the number of entries written. All writes go through an os.Root scoped to
// destDir.
func extractZip(r io.ReaderAt, size int64, destDir string) (int, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, goerr.Wrap(err, "failed to create toolchain directory", goerr.V("dest", destDir))
	}

	root, err := os.OpenRoot(destDir)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to open toolchain directory", goerr.V("dest", destDir))
	}
	defer root.Close()

	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to read zip archive")
	}

	for _, file := range zipReader.File {
		if err := extractEntry(root, file); err != nil {
			return 0, goerr.Wrap(err, "failed to extract archive entry", goerr.V("entry", file.Name))
		}
	}

	return len(zipReader.File), nil
}

func extractEntry(root *os.Root, file *zip.File) error {
	name := filepath.Clean(filepath.FromSlash(file.Name))
	if !filepath.IsLocal(name) {
		return goerr.Wrap(ErrUnsafeEntry, "entry name is not local", goerr.V("entry", file.Name))
	}

	mode := file.FileInfo().Mode()
	if mode.IsDir() {
		return root.MkdirAll(name, 0o755)
	}

	if err := root.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create parent directory", goerr.V("entry", file.Name))
	}

	rc, err := file.Open()
	if err != nil {
		return goerr.Wrap(err, "failed to open archive entry", goerr.V("entry", file.Name))
	}
	defer rc.Close()

	// NDK archives ship the clang wrappers as relative symlinks
	if mode&os.ModeSymlink != 0 {
		raw, err := io.ReadAll(rc)
		if err != nil {
			return goerr.Wrap(err, "failed to read symlink target", goerr.V("entry", file.Name))
		}
		target := filepath.FromSlash(string(raw))
		if filepath.IsAbs(target) || !filepath.IsLocal(filepath.Join(filepath.Dir(name), target)) {
			return goerr.Wrap(ErrUnsafeEntry, "symlink target leaves toolchain directory",
				goerr.V("entry", file.Name),
				goerr.V("target", string(raw)),
			)
		}
		return root.Symlink(target, name)
	}

	perm := mode.Perm()
	if perm == 0 {
		perm = 0o644
	}

	out, err := root.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return goerr.Wrap(err, "failed to create extracted file", goerr.V("entry", file.Name))
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return goerr.Wrap(err, "failed to write extracted file", goerr.V("entry", file.Name))
	}
	return nil
}
