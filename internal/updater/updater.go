// Package updater checks GitHub releases for new versions, downloads the
// matching binary with progress reporting and swaps it in place.
//
// Feed failures never reach the caller: they are logged and reported as
// "no update".
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/battlewithbytes/skin-studio/internal/apperr"
	"github.com/battlewithbytes/skin-studio/internal/config"
)

// DefaultFeedURL is the latest-release endpoint of the project.
const DefaultFeedURL = "https://api.github.com/repos/battlewithbytes/skin-studio/releases/latest"

// Prefs persists the ignore-updates preference.
type Prefs interface {
	Load() config.Config
	SetIgnoreUpdates(ignore bool) (config.Config, error)
}

// Status is the result of an update check.
type Status struct {
	HasUpdate   bool      `json:"has_update"`
	Current     string    `json:"current"`
	Latest      string    `json:"latest,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	URL         string    `json:"url,omitempty"`
	DownloadURL string    `json:"download_url,omitempty"`
	AssetSize   int64     `json:"asset_size,omitempty"`
	Ignored     bool      `json:"ignored,omitempty"`
	CheckedAt   time.Time `json:"checked_at"`
}

// Progress is one download progress notification.
type Progress struct {
	Downloaded int64   `json:"downloaded"`
	Total      int64   `json:"total"`
	Percent    float64 `json:"percent"`
	Text       string  `json:"text"`
	Done       bool    `json:"done"`
}

// Updater manages update checks with caching.
type Updater struct {
	mu         sync.Mutex
	current    string
	feedURL    string
	client     *http.Client
	ttl        time.Duration
	cached     *Status
	prefs      Prefs
	log        *zap.Logger
	dir        string
	downloaded string

	executable func() (string, error)
	relaunch   func(exe string, args []string) error
	exit       func(code int)
}

// Option configures an Updater.
type Option func(*Updater)

// WithFeedURL points the updater at another release feed.
func WithFeedURL(url string) Option { return func(u *Updater) { u.feedURL = url } }

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option { return func(u *Updater) { u.client = c } }

// WithTTL sets how long a successful check is reused.
func WithTTL(d time.Duration) Option { return func(u *Updater) { u.ttl = d } }

// WithDownloadDir sets where downloaded binaries are staged.
func WithDownloadDir(dir string) Option { return func(u *Updater) { u.dir = dir } }

// New creates an Updater with a 1-hour cache TTL.
func New(current string, prefs Prefs, log *zap.Logger, opts ...Option) *Updater {
	u := &Updater{
		current:    current,
		feedURL:    DefaultFeedURL,
		client:     &http.Client{Timeout: 15 * time.Second},
		ttl:        time.Hour,
		prefs:      prefs,
		log:        log.Named("updater"),
		dir:        os.TempDir(),
		executable: os.Executable,
		relaunch:   startDetached,
		exit:       os.Exit,
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// githubRelease is the subset of the GitHub API response we need.
type githubRelease struct {
	TagName string        `json:"tag_name"`
	Body    string        `json:"body"`
	HTMLURL string        `json:"html_url"`
	Assets  []githubAsset `json:"assets"`
}

type githubAsset struct {
	Name               string `json:"name"`
	Size               int64  `json:"size"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// CheckNow checks the feed, reusing a successful result for the TTL.
func (u *Updater) CheckNow(ctx context.Context) Status {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.cached != nil && time.Since(u.cached.CheckedAt) < u.ttl {
		s := *u.cached
		s.HasUpdate = s.DownloadURL != "" && isNewerVersion(s.Latest, u.current)
		return s
	}

	rel, err := u.fetchLatestRelease(ctx)
	if err != nil {
		u.log.Warn("update check failed", zap.Error(err))
		return Status{Current: u.current, CheckedAt: time.Now().UTC()}
	}

	s := Status{
		Current:   u.current,
		Latest:    strings.TrimPrefix(rel.TagName, "v"),
		Notes:     rel.Body,
		URL:       rel.HTMLURL,
		CheckedAt: time.Now().UTC(),
	}
	if a, ok := pickAsset(rel.Assets); ok {
		s.DownloadURL = a.BrowserDownloadURL
		s.AssetSize = a.Size
	}
	s.HasUpdate = s.DownloadURL != "" && isNewerVersion(s.Latest, u.current)
	u.cached = &s
	u.log.Debug("update check", zap.String("latest", s.Latest), zap.Bool("available", s.HasUpdate))
	return s
}

// CheckOnStartup is CheckNow unless the user chose to ignore updates.
func (u *Updater) CheckOnStartup(ctx context.Context) Status {
	if u.Ignored() {
		return Status{Current: u.current, Ignored: true, CheckedAt: time.Now().UTC()}
	}
	return u.CheckNow(ctx)
}

// InvalidateCache clears the cached update check.
func (u *Updater) InvalidateCache() {
	u.mu.Lock()
	u.cached = nil
	u.mu.Unlock()
}

// Ignored reports the persisted ignore preference.
func (u *Updater) Ignored() bool {
	return u.prefs.Load().UpdatePreferences.IgnoreUpdates
}

// IgnoreFuture stops startup checks from reporting updates.
func (u *Updater) IgnoreFuture() error {
	_, err := u.prefs.SetIgnoreUpdates(true)
	return err
}

// Reenable turns startup checks back on.
func (u *Updater) Reenable() error {
	_, err := u.prefs.SetIgnoreUpdates(false)
	return err
}

// Download fetches the release binary found by the last check, calling
// progress as bytes arrive. It returns the staged file path.
func (u *Updater) Download(ctx context.Context, progress func(Progress)) (string, error) {
	s := u.CheckNow(ctx)
	if !s.HasUpdate {
		return "", apperr.Invalid("no update is available")
	}
	if progress == nil {
		progress = func(Progress) {}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.DownloadURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("downloading update: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download returned HTTP %d", resp.StatusCode)
	}

	total := resp.ContentLength
	if total <= 0 {
		total = s.AssetSize
	}
	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating download dir: %w", err)
	}
	dest := filepath.Join(u.dir, fmt.Sprintf("skin-studio-%s.download", s.Latest))
	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	pw := &progressWriter{total: total, report: progress}
	if _, err := io.Copy(io.MultiWriter(f, pw), resp.Body); err != nil {
		f.Close()
		os.Remove(dest)
		return "", fmt.Errorf("writing binary: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("writing binary: %w", err)
	}
	pw.finish()

	u.mu.Lock()
	u.downloaded = dest
	u.mu.Unlock()
	u.log.Info("update downloaded", zap.String("version", s.Latest), zap.String("path", dest), zap.Int64("bytes", pw.n))
	return dest, nil
}

// Staged returns the path of the last downloaded binary, or "".
func (u *Updater) Staged() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.downloaded
}

// Install swaps the downloaded binary in place of the running one (keeping
// a .bak copy), starts the new binary with the same arguments and exits.
func (u *Updater) Install() error {
	u.mu.Lock()
	staged := u.downloaded
	u.mu.Unlock()
	if staged == "" {
		return apperr.Invalid("download the update before installing it")
	}

	exe, err := u.executable()
	if err != nil {
		return fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	if err := swapBinary(staged, exe); err != nil {
		return err
	}
	u.log.Info("update installed, relaunching", zap.String("exe", exe))
	if err := u.relaunch(exe, os.Args[1:]); err != nil {
		return fmt.Errorf("relaunching: %w", err)
	}
	u.exit(0)
	return nil
}

// swapBinary moves target to target.bak and puts staged in its place,
// restoring the backup if the second step fails.
func swapBinary(staged, target string) error {
	backup := target + ".bak"
	_ = os.Remove(backup)
	if err := os.Rename(target, backup); err != nil {
		return fmt.Errorf("backing up current binary: %w", err)
	}
	if err := moveFile(staged, target); err != nil {
		_ = os.Rename(backup, target)
		return fmt.Errorf("installing new binary: %w", err)
	}
	return os.Chmod(target, 0o755)
}

// moveFile renames src to dst, copying when they are on different devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	if err := os.WriteFile(dst, data, 0o755); err != nil {
		return err
	}
	return os.Remove(src)
}

func startDetached(exe string, args []string) error {
	cmd := exec.Command(exe, args...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	return cmd.Start()
}

type progressWriter struct {
	n, total int64
	report   func(Progress)
	last     time.Time
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.n += int64(len(b))
	if time.Since(p.last) >= 100*time.Millisecond {
		p.last = time.Now()
		p.report(p.snapshot(false))
	}
	return len(b), nil
}

func (p *progressWriter) finish() { p.report(p.snapshot(true)) }

func (p *progressWriter) snapshot(done bool) Progress {
	pr := Progress{Downloaded: p.n, Total: p.total, Done: done}
	if p.total > 0 {
		pr.Percent = float64(p.n) * 100 / float64(p.total)
		pr.Text = fmt.Sprintf("%s / %s", humanize.Bytes(uint64(p.n)), humanize.Bytes(uint64(p.total)))
	} else {
		pr.Text = humanize.Bytes(uint64(p.n))
	}
	return pr
}

// fetchLatestRelease fetches the latest release from the feed.
func (u *Updater) fetchLatestRelease(ctx context.Context) (*githubRelease, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "skin-studio-updater")

	resp, err := u.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GitHub API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GitHub API returned HTTP %d", resp.StatusCode)
	}

	var rel githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decoding GitHub response: %w", err)
	}
	return &rel, nil
}

// pickAsset finds the binary built for this platform.
func pickAsset(assets []githubAsset) (githubAsset, bool) {
	suffix := platformSuffix()
	for _, a := range assets {
		if strings.Contains(strings.ToLower(a.Name), suffix) {
			return a, true
		}
	}
	return githubAsset{}, false
}

func platformSuffix() string {
	return runtime.GOOS + "-" + runtime.GOARCH
}

// isNewerVersion returns true if latest is strictly greater than current.
// Parses "major.minor.patch" semver (strips leading "v").
func isNewerVersion(latest, current string) bool {
	parse := func(s string) (int, int, int, bool) {
		s = strings.TrimPrefix(s, "v")
		parts := strings.SplitN(s, ".", 3)
		if len(parts) != 3 {
			return 0, 0, 0, false
		}
		major, e1 := strconv.Atoi(parts[0])
		minor, e2 := strconv.Atoi(parts[1])
		patch, e3 := strconv.Atoi(strings.SplitN(parts[2], "-", 2)[0])
		if e1 != nil || e2 != nil || e3 != nil {
			return 0, 0, 0, false
		}
		return major, minor, patch, true
	}

	lMaj, lMin, lPat, lok := parse(latest)
	cMaj, cMin, cPat, cok := parse(current)
	if !lok || !cok {
		return false
	}
	if lMaj != cMaj {
		return lMaj > cMaj
	}
	if lMin != cMin {
		return lMin > cMin
	}
	return lPat > cPat
}
