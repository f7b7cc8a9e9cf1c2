package reconcile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const greenhouseURL = "https://boards.greenhouse.io/acme/jobs/1"

const greenhouseHTML = `<html><head>
  <meta property="og:site_name" content="Acme Corp">
</head><body>
  <h1 class="app-title">Backend Engineer</h1>
  <div class="location">Remote - US</div>
</body></html>`

func TestSyncCreatesThenUpdates(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	syncer := newTestSyncer(stubFetcher{body: greenhouseHTML}, store)
	ctx := context.Background()
	opts := Options{}

	first, err := syncer.Sync(ctx, greenhouseURL, opts)
	require.NoError(t, err)
	assert.Equal(t, ActionCreated, first.Action)
	require.NotEmpty(t, first.ID)

	second, err := syncer.Sync(ctx, greenhouseURL, opts)
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, second.Action)
	assert.Equal(t, first.ID, second.ID, "update must target the created row")

	rec := store.get(t, first.ID)
	assert.Equal(t, "Acme Corp", rec.Company)
	assert.Equal(t, "Backend Engineer", rec.Position)
	assert.Equal(t, "Remote - US", rec.Location)
	assert.Equal(t, greenhouseURL, rec.JobURL)
	assert.Equal(t, "Not Started", rec.Status)
	assert.Nil(t, rec.AppliedDate)
	assert.Equal(t, 1, store.rowCount(), "idempotent sync must not create a second row")
}

func TestSyncTitleFallback(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		html string
		want string
	}{
		{
			name: "company wins",
			html: greenhouseHTML,
			want: "Acme Corp",
		},
		{
			name: "position when company empty",
			html: `<html><body><h1 class="app-title">Staff Engineer</h1></body></html>`,
			want: "Staff Engineer",
		},
		{
			name: "literal fallback when both empty",
			html: `<html><body></body></html>`,
			want: "Job",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			store := newFakeStore()
			syncer := newTestSyncer(stubFetcher{body: tc.html}, store)

			result, err := syncer.Sync(context.Background(), greenhouseURL, Options{})
			require.NoError(t, err)
			assert.Equal(t, tc.want, store.get(t, result.ID).Title)
		})
	}
}

func TestSyncAppliedDateDefaultsToToday(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	syncer := newTestSyncer(stubFetcher{body: greenhouseHTML}, store)
	syncer.now = func() time.Time {
		return time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	}

	result, err := syncer.Sync(context.Background(), greenhouseURL, Options{Applied: true})
	require.NoError(t, err)

	rec := store.get(t, result.ID)
	require.NotNil(t, rec.AppliedDate)
	assert.Equal(t, "2026-08-30", *rec.AppliedDate)
}

func TestSyncExplicitAppliedDateWins(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	syncer := newTestSyncer(stubFetcher{body: greenhouseHTML}, store)

	result, err := syncer.Sync(context.Background(), greenhouseURL, Options{
		Applied:     true,
		AppliedDate: "2026-08-01",
	})
	require.NoError(t, err)

	rec := store.get(t, result.ID)
	require.NotNil(t, rec.AppliedDate)
	assert.Equal(t, "2026-08-01", *rec.AppliedDate)
}

func TestSyncRejectsMalformedAppliedDate(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	syncer := newTestSyncer(stubFetcher{body: greenhouseHTML}, store)

	_, err := syncer.Sync(context.Background(), greenhouseURL, Options{
		Applied:     true,
		AppliedDate: "08/01/2026",
	})
	require.Error(t, err)
	assert.Equal(t, 0, store.rowCount(), "no mutation on invalid input")
}

func TestSyncNotAppliedOmitsAppliedPair(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	syncer := newTestSyncer(stubFetcher{body: greenhouseHTML}, store)

	result, err := syncer.Sync(context.Background(), greenhouseURL, Options{Applied: false})
	require.NoError(t, err)
	assert.Nil(t, store.get(t, result.ID).AppliedDate)
}

func TestSyncStatusOverride(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	syncer := newTestSyncer(stubFetcher{body: greenhouseHTML}, store)

	result, err := syncer.Sync(context.Background(), greenhouseURL, Options{Status: "Interviewing"})
	require.NoError(t, err)
	assert.Equal(t, "Interviewing", store.get(t, result.ID).Status)
}

func TestSyncFetchErrorPropagatesWithoutMutation(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	fetchErr := errors.New("connection refused")
	syncer := newTestSyncer(stubFetcher{err: fetchErr}, store)

	_, err := syncer.Sync(context.Background(), greenhouseURL, Options{})
	require.ErrorIs(t, err, fetchErr)
	assert.Equal(t, 0, store.rowCount())
}

func TestSyncQueryErrorPreventsMutation(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.findErr = errors.New("store unavailable")
	syncer := newTestSyncer(stubFetcher{body: greenhouseHTML}, store)

	_, err := syncer.Sync(context.Background(), greenhouseURL, Options{})
	require.ErrorIs(t, err, store.findErr)
	assert.Equal(t, 0, store.rowCount())
	assert.Zero(t, store.createCalls)
	assert.Zero(t, store.updateCalls)
}

type stubFetcher struct {
	body string
	err  error
}

func (f stubFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.body), nil
}

// fakeStore provides an in-memory Store for reconciler tests.
type fakeStore struct {
	mu          sync.Mutex
	rows        map[string]Record
	nextID      int
	findErr     error
	createCalls int
	updateCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]Record)}
}

func (s *fakeStore) FindByURL(_ context.Context, url string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return "", false, s.findErr
	}
	for id, rec := range s.rows {
		if rec.JobURL == url {
			return id, true, nil
		}
	}
	return "", false, nil
}

func (s *fakeStore) CreateRecord(_ context.Context, rec Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.createCalls++
	s.nextID++
	id := fmt.Sprintf("row-%d", s.nextID)
	s.rows[id] = rec
	return id, nil
}

func (s *fakeStore) UpdateRecord(_ context.Context, rowID string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	if _, ok := s.rows[rowID]; !ok {
		return errors.New("row not found")
	}
	s.rows[rowID] = rec
	return nil
}

func (s *fakeStore) get(t *testing.T, rowID string) Record {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rows[rowID]
	if !ok {
		t.Fatalf("row %q not found", rowID)
	}
	return rec
}

func (s *fakeStore) rowCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func newTestSyncer(fetcher Fetcher, store Store) *Syncer {
	return New(fetcher, store, zap.NewNop())
}
