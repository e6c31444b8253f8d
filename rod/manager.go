package rod

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/noteandcode/sitelinks"
)

// DefaultMaxPages is the default number of sessions a browser serves before
// it is replaced.
const DefaultMaxPages = 75

// DefaultUserAgent is sent with every page request. Some sites serve a
// reduced page to the stock headless Chrome user agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// BrowserManager hands out leases on a headless Chrome browser and replaces
// the browser after it has served maxPages sessions, since Chrome's memory
// baseline keeps growing even with proper page cleanup.
//
// A replaced browser stays up until every lease on it is released, so
// sessions running concurrently with a replacement are never cut off.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	maxPages  int64
	userAgent string
	launch    func() (*instance, error)

	mu      sync.Mutex
	current *instance
	retired map[*instance]struct{}
	closed  bool
}

// instance is one launched browser and the leases held on it.
type instance struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	close    func() error

	served int64 // leases ever handed out
	active int   // leases not yet released
}

// Lease grants use of a browser until Release is called.
type Lease struct {
	Browser *rod.Browser

	manager  *BrowserManager
	instance *instance
	once     sync.Once
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets how many sessions a browser serves before it is replaced.
// Defaults to 75 if not specified.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithUserAgent overrides the user agent Chrome reports.
func WithUserAgent(ua string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.userAgent = ua
	}
}

// NewBrowserManager launches a headless Chrome browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages:  DefaultMaxPages,
		userAgent: DefaultUserAgent,
		retired:   make(map[*instance]struct{}),
	}
	for _, opt := range opts {
		opt(bm)
	}
	if bm.launch == nil {
		bm.launch = bm.launchBrowser
	}

	inst, err := bm.launch()
	if err != nil {
		return nil, err
	}
	bm.current = inst

	return bm, nil
}

// Acquire leases the current browser, first replacing it if it has served
// maxPages sessions. If a replacement cannot be launched the old browser
// keeps serving. The lease must be released when the session ends.
func (bm *BrowserManager) Acquire() (*Lease, error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, sitelinks.Errorf(sitelinks.EINVALID, "browser manager is closed")
	}

	if bm.maxPages > 0 && bm.current.served >= bm.maxPages {
		if next, err := bm.launch(); err == nil {
			old := bm.current
			bm.current = next
			if old.active == 0 {
				_ = old.close()
			} else {
				bm.retired[old] = struct{}{}
			}
		}
	}

	inst := bm.current
	inst.served++
	inst.active++

	return &Lease{Browser: inst.browser, manager: bm, instance: inst}, nil
}

// Release returns the lease. The last release on a replaced browser shuts
// it down. Release is safe to call multiple times.
func (l *Lease) Release() {
	l.once.Do(func() {
		l.manager.release(l.instance)
	})
}

func (bm *BrowserManager) release(inst *instance) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	inst.active--
	if _, ok := bm.retired[inst]; ok && inst.active == 0 {
		delete(bm.retired, inst)
		_ = inst.close()
	}
}

// Close shuts down every browser, including replaced ones with sessions
// still open. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	errs := []error{bm.current.close()}
	for inst := range bm.retired {
		errs = append(errs, inst.close())
		delete(bm.retired, inst)
	}
	return errors.Join(errs...)
}

// launchBrowser starts a new browser instance with stability flags.
func (bm *BrowserManager) launchBrowser() (*instance, error) {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-gpu").
		Set("no-sandbox").
		Set("user-agent", bm.userAgent).
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &instance{
		browser:  browser,
		launcher: lnchr,
		close: func() error {
			err := browser.Close()
			lnchr.Kill()
			return err
		},
	}, nil
}

// LauncherPID returns the process ID of the current browser's launcher.
// This method exists for testing purposes to verify proper cleanup.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.current == nil || bm.current.launcher == nil {
		return 0
	}
	return bm.current.launcher.PID()
}
