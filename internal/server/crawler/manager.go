// Package crawler загружает одну страницу сайта и превращает её в markdown.
//
// Состав:
//   - RodFetcher: headless Chrome (go-rod), рендерит JavaScript;
//   - HTTPFetcher: простой GET для статических сайтов;
//   - LoggingFetcher: логирование каждой загрузки (zap);
//   - TrafilaturaExtractor / ReadabilityExtractor: вырезают основной контент;
//   - MarkdownConverter: HTML -> markdown.
package crawler

import (
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
)

// DefaultMaxPages: после скольких страниц браузер перезапускается.
const DefaultMaxPages = 75

// DefaultBrowserArgs: флаги запуска Chrome в контейнере без sandbox.
var DefaultBrowserArgs = []string{
	"no-sandbox",
	"disable-gpu",
	"disable-setuid-sandbox",
	"disable-webrtc",
	"disable-dev-shm-usage",
}

// browserInstance: один запущенный Chrome и число страниц, открытых в нём сейчас.
type browserInstance struct {
	browser  *rod.Browser
	close    func() error
	inflight int
	retired  bool
	done     bool
}

// shutdown закрывает браузер не более одного раза.
func (i *browserInstance) shutdown() error {
	if i.done {
		return nil
	}
	i.done = true
	return i.close()
}

// BrowserManager управляет жизненным циклом Chrome.
//
// Chrome со временем накапливает память, поэтому браузер
// периодически перезапускается (каждые maxPages страниц).
// Старый браузер закрывается только после того, как в нём завершится
// последняя начатая загрузка. Безопасен для конкурентного использования.
type BrowserManager struct {
	current   *browserInstance
	launch    func() (*browserInstance, error)
	pageCount int64
	maxPages  int64
	args      []string
	bin       string
	mu        sync.Mutex
	closed    bool
}

// ManagerOption настраивает BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages задаёт порог перезапуска браузера.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		if n > 0 {
			bm.maxPages = n
		}
	}
}

// WithBrowserArgs задаёт флаги запуска (без ведущих "--").
func WithBrowserArgs(args []string) ManagerOption {
	return func(bm *BrowserManager) {
		if len(args) > 0 {
			bm.args = args
		}
	}
}

// WithBrowserBin задаёт путь к бинарнику Chrome/Chromium.
func WithBrowserBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// NewBrowserManager запускает headless Chrome.
// Close обязателен при остановке сервера.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	return newBrowserManager(nil, opts...)
}

// newBrowserManager: launch == nil значит настоящий Chrome.
func newBrowserManager(launch func() (*browserInstance, error), opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
		args:     DefaultBrowserArgs,
	}
	for _, opt := range opts {
		opt(bm)
	}
	bm.launch = launch
	if bm.launch == nil {
		bm.launch = bm.launchChrome
	}

	inst, err := bm.launch()
	if err != nil {
		return nil, err
	}
	bm.current = inst
	return bm, nil
}

// Acquire возвращает текущий браузер и release, который нужно вызвать,
// когда страница закрыта. При достижении порога сначала запускается новый браузер.
// Пока release не вызван, браузер не будет закрыт перезапуском.
func (bm *BrowserManager) Acquire() (*rod.Browser, func(), error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed || bm.current == nil {
		return nil, nil, fmt.Errorf("browser is closed")
	}
	if bm.pageCount >= bm.maxPages {
		bm.recycle()
	}

	inst := bm.current
	inst.inflight++
	return inst.browser, sync.OnceFunc(func() { bm.release(inst) }), nil
}

// release отмечает конец загрузки в inst.
func (bm *BrowserManager) release(inst *browserInstance) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	inst.inflight--
	if inst == bm.current {
		bm.pageCount++
	}
	if inst.retired && inst.inflight == 0 {
		_ = inst.shutdown()
	}
}

// Close освобождает ресурсы браузера. Повторный вызов безопасен.
// Браузеры, выведенные перезапуском, закроются на последнем release.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	if bm.current == nil {
		return nil
	}
	inst := bm.current
	bm.current = nil
	inst.retired = true
	return inst.shutdown()
}

func (bm *BrowserManager) launchChrome() (*browserInstance, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)
	for _, arg := range bm.args {
		l = l.Set(flags.Flag(arg))
	}
	if bm.bin != "" {
		l = l.Bin(bm.bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &browserInstance{
		browser: browser,
		close: func() error {
			err := browser.Close()
			l.Kill()
			return err
		},
	}, nil
}

// recycle запускает новый браузер вместо текущего. Вызывается под mu.
// Старый закрывается сразу, если в нём ничего не грузится, иначе на последнем release.
// Если запуск не удался, остаётся старый.
func (bm *BrowserManager) recycle() {
	next, err := bm.launch()
	if err != nil {
		return
	}

	old := bm.current
	bm.current = next
	bm.pageCount = 0

	old.retired = true
	if old.inflight == 0 {
		_ = old.shutdown()
	}
}
