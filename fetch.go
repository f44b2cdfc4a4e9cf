package texprinter

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	defaultBufferSize   = 1024
	defaultFetchTimeout = 30 * time.Second
	defaultUserAgent    = "curl/7.84.0"

	// Images wider than scaleThreshold pixels are drawn at scaleFactor in PDF output.
	scaleThreshold = 500
	scaleFactor    = 0.5
)

var (
	placeholderOnce  sync.Once
	placeholderBytes []byte
	placeholderErr   error
)

// FallbackImage returns the placeholder PNG written for images that could not be fetched.
func FallbackImage() ([]byte, error) {
	placeholderOnce.Do(func() {
		placeholderBytes, placeholderErr = base64.StdEncoding.DecodeString(placeholderPNG)
	})
	return placeholderBytes, placeholderErr
}

// ScaleFor returns the scale applied to an image of the given pixel width in PDF output.
func ScaleFor(width int) float64 {
	if width > scaleThreshold {
		return scaleFactor
	}
	return 1
}

// FetchWarning reports an image that was replaced by the placeholder.
type FetchWarning struct {
	URL string
	Err error
}

func (w *FetchWarning) Error() string {
	return fmt.Sprintf("image %s replaced by placeholder: %v", w.URL, w.Err)
}

func (w *FetchWarning) Unwrap() error {
	return w.Err
}

// FetchResult describes the local file produced for an image.
type FetchResult struct {
	Path     string
	Fallback bool
	Warning  *FetchWarning
}

// Fetcher downloads images into a directory.
type Fetcher struct {
	Client     *http.Client
	Dir        string
	BufferSize int
	UserAgent  string
	Logger     *slog.Logger
}

// NewFetcher returns a Fetcher writing into dir with the default client.
func NewFetcher(dir string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = discardLogger()
	}
	return &Fetcher{
		Client:     &http.Client{Timeout: defaultFetchTimeout},
		Dir:        dir,
		BufferSize: defaultBufferSize,
		UserAgent:  defaultUserAgent,
		Logger:     logger,
	}
}

// Path returns the file an image reference is stored under.
func (f *Fetcher) Path(ref ImageReference) string {
	return filepath.Join(f.Dir, ref.LocalName)
}

// Fetch downloads ref.URL to its local name. When the download fails the
// placeholder image is written instead and the result carries a warning; the
// returned error is set only when no file at all could be produced.
func (f *Fetcher) Fetch(ctx context.Context, ref ImageReference) (FetchResult, error) {
	path := f.Path(ref)
	f.Logger.Info("downloading image", "url", ref.URL, "file", path)

	err := f.download(ctx, ref.URL, path)
	if err == nil {
		f.Logger.Debug("image downloaded", "file", path)
		return FetchResult{Path: path}, nil
	}

	f.Logger.Warn("image download failed, writing placeholder", "url", ref.URL, "err", err)
	placeholder, perr := FallbackImage()
	if perr != nil {
		return FetchResult{}, fmt.Errorf("decoding placeholder image: %w", perr)
	}
	if werr := os.WriteFile(path, placeholder, 0o644); werr != nil {
		return FetchResult{}, fmt.Errorf("writing placeholder for %s: %w", ref.URL, werr)
	}
	return FetchResult{
		Path:     path,
		Fallback: true,
		Warning:  &FetchWarning{URL: ref.URL, Err: err},
	}, nil
}

func (f *Fetcher) download(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if f.UserAgent != "" {
		req.Header.Add("User-Agent", f.UserAgent)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	response, err := client.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return errors.New("Received non 200 response code: " + fmt.Sprintf("HTTP %d", response.StatusCode))
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	size := f.BufferSize
	if size <= 0 {
		size = defaultBufferSize
	}
	if _, err := io.CopyBuffer(onlyWriter{file}, onlyReader{response.Body}, make([]byte, size)); err != nil {
		return err
	}
	return file.Close()
}

// onlyReader and onlyWriter hide ReadFrom/WriteTo so io.CopyBuffer always
// goes through the fixed-size buffer.
type onlyReader struct{ io.Reader }

type onlyWriter struct{ io.Writer }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
