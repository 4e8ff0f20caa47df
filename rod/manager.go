package rod

import (
	"fmt"
	"sync"

	"github.com/fwojciec/docprimer"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// BrowserManager hands out a shared headless browser and replaces it after
// a fixed number of pages. Chrome's memory baseline keeps growing under
// load even with proper page cleanup, so long crawls need fresh processes.
//
// A recycled browser is shut down only after every page leased from it has
// been released. BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu        sync.Mutex
	current   *instance
	pageCount int64
	maxPages  int64
	closed    bool
}

// instance is one launched browser process.
type instance struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	active   int
	retired  bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the maximum number of pages before the browser is recycled.
// Defaults to 75 if not specified.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		if n > 0 {
			bm.maxPages = n
		}
	}
}

// NewBrowserManager launches a headless Chrome browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(bm)
	}

	inst, err := launch()
	if err != nil {
		return nil, err
	}
	bm.current = inst
	return bm, nil
}

// Acquire leases the current browser for one page, recycling it first when
// the page budget is spent. The returned release func must be called once
// the page is closed.
func (bm *BrowserManager) Acquire() (*rod.Browser, func(), error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, nil, docprimer.Errorf(docprimer.EINVALID, "browser closed")
	}
	if bm.pageCount >= bm.maxPages {
		bm.recycle()
	}

	inst := bm.current
	inst.active++
	bm.pageCount++

	var once sync.Once
	release := func() {
		once.Do(func() { bm.release(inst) })
	}
	return inst.browser, release, nil
}

// Close releases browser resources. Close is safe to call multiple times.
// Pages still leased keep the browser alive until they are released.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true
	bm.current.retired = true
	if bm.current.active == 0 {
		return bm.current.shutdown()
	}
	return nil
}

// LauncherPID returns the process ID of the current browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.current == nil || bm.current.launcher == nil {
		return 0
	}
	return bm.current.launcher.PID()
}

func (bm *BrowserManager) release(inst *instance) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	inst.active--
	if inst.retired && inst.active == 0 {
		_ = inst.shutdown()
	}
}

// recycle starts a fresh browser and retires the old one.
// If launching fails, the old browser stays current.
// Must be called with mu held.
func (bm *BrowserManager) recycle() {
	next, err := launch()
	if err != nil {
		return
	}

	old := bm.current
	old.retired = true
	if old.active == 0 {
		_ = old.shutdown()
	}
	bm.current = next
	bm.pageCount = 0
}

// launch starts a new browser instance with stability flags.
func launch() (*instance, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &instance{browser: browser, launcher: l}, nil
}

// shutdown closes the browser and kills its process.
func (i *instance) shutdown() error {
	var err error
	if i.browser != nil {
		err = i.browser.Close()
		i.browser = nil
	}
	if i.launcher != nil {
		i.launcher.Kill()
		i.launcher = nil
	}
	return err
}
