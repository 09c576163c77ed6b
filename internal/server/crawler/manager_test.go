package crawler

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeLaunches считает запуски и закрытия браузеров без Chrome.
type fakeLaunches struct {
	mu        sync.Mutex
	instances []*browserInstance
	closed    []int
	fail      bool
}

func (f *fakeLaunches) launch() (*browserInstance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		return nil, errors.New("no chrome")
	}
	idx := len(f.instances)
	inst := &browserInstance{close: func() error {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.closed = append(f.closed, idx)
		return nil
	}}
	f.instances = append(f.instances, inst)
	return inst, nil
}

func (f *fakeLaunches) closedIDs() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.closed...)
}

func (f *fakeLaunches) launched() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.instances)
}

func (f *fakeLaunches) setFail(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = v
}

func TestBrowserManager_RecycleWaitsForInflightPage(t *testing.T) {
	fl := &fakeLaunches{}
	bm, err := newBrowserManager(fl.launch, WithMaxPages(1))
	require.NoError(t, err)

	// долгая загрузка в первом браузере
	_, slow, err := bm.Acquire()
	require.NoError(t, err)

	// короткая загрузка завершилась: порог достигнут
	_, fast, err := bm.Acquire()
	require.NoError(t, err)
	fast()

	// следующий Acquire перезапускает браузер, пока slow ещё идёт
	_, next, err := bm.Acquire()
	require.NoError(t, err)
	require.Equal(t, 2, fl.launched())
	require.Empty(t, fl.closedIDs(), "browser with an open page must stay alive")

	slow()
	require.Equal(t, []int{0}, fl.closedIDs())

	next()
	require.NoError(t, bm.Close())
	require.Equal(t, []int{0, 1}, fl.closedIDs())
}

func TestBrowserManager_IdleBrowserClosedOnRecycle(t *testing.T) {
	fl := &fakeLaunches{}
	bm, err := newBrowserManager(fl.launch, WithMaxPages(1))
	require.NoError(t, err)

	_, release, err := bm.Acquire()
	require.NoError(t, err)
	release()

	_, release, err = bm.Acquire()
	require.NoError(t, err)
	require.Equal(t, 2, fl.launched())
	require.Equal(t, []int{0}, fl.closedIDs())
	release()
}

func TestBrowserManager_ConcurrentFetchesSurviveRecycle(t *testing.T) {
	fl := &fakeLaunches{}
	bm, err := newBrowserManager(fl.launch, WithMaxPages(2))
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, release, err := bm.Acquire()
			if err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			defer release()
		}()
	}
	wg.Wait()

	// все браузеры, кроме текущего, закрыты ровно один раз
	launched := fl.launched()
	closed := fl.closedIDs()
	require.Len(t, closed, launched-1)

	seen := map[int]bool{}
	for _, id := range closed {
		require.False(t, seen[id], "browser %d closed twice", id)
		seen[id] = true
	}

	for _, inst := range fl.instances {
		require.Zero(t, inst.inflight)
	}
	require.NoError(t, bm.Close())
}

func TestBrowserManager_ReleaseIsIdempotent(t *testing.T) {
	fl := &fakeLaunches{}
	bm, err := newBrowserManager(fl.launch, WithMaxPages(1))
	require.NoError(t, err)

	_, release, err := bm.Acquire()
	require.NoError(t, err)
	release()
	release()

	require.Zero(t, fl.instances[0].inflight)
	require.EqualValues(t, 1, bm.pageCount)
}

func TestBrowserManager_LaunchFailureKeepsOldBrowser(t *testing.T) {
	fl := &fakeLaunches{}
	bm, err := newBrowserManager(fl.launch, WithMaxPages(1))
	require.NoError(t, err)

	_, release, err := bm.Acquire()
	require.NoError(t, err)
	release()

	fl.setFail(true)
	_, release, err = bm.Acquire()
	require.NoError(t, err)
	release()

	require.Equal(t, 1, fl.launched())
	require.Empty(t, fl.closedIDs())
}

func TestBrowserManager_AcquireAfterClose(t *testing.T) {
	fl := &fakeLaunches{}
	bm, err := newBrowserManager(fl.launch)
	require.NoError(t, err)

	_, release, err := bm.Acquire()
	require.NoError(t, err)

	require.NoError(t, bm.Close())
	require.NoError(t, bm.Close())

	_, _, err = bm.Acquire()
	require.Error(t, err)

	// страница, начатая до Close, не закрывает браузер повторно
	release()
	require.Equal(t, []int{0}, fl.closedIDs())
}
