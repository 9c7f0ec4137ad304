package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"bento-navi/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*────────────────────  インメモリスタブ  ────────────────────*/

type stubBackend struct {
	mu      sync.Mutex
	catalog *entity.Catalog
	err     error // 強制エラー注入用

	added   []entity.Item
	updated []entity.Item
	deleted []string
	terms   []entity.Term
}

func (b *stubBackend) Setup(context.Context) (SetupResult, error) {
	return SetupResult{Message: "ok", SpreadsheetID: "sid"}, b.err
}

func (b *stubBackend) GetAll(context.Context) (*entity.Catalog, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.catalog, nil
}

func (b *stubBackend) AddItem(_ context.Context, _ entity.Kind, item entity.Item) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.added = append(b.added, item)
	return b.err
}

func (b *stubBackend) UpdateItem(_ context.Context, _ entity.Kind, item entity.Item) error {
	b.updated = append(b.updated, item)
	return b.err
}

func (b *stubBackend) DeleteItem(_ context.Context, _ entity.Kind, id string) error {
	b.deleted = append(b.deleted, id)
	return b.err
}

func (b *stubBackend) AddTerm(_ context.Context, _ entity.Kind, _ entity.Axis, term entity.Term) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.terms = append(b.terms, term)
	return b.err
}

func (b *stubBackend) DeleteTerm(_ context.Context, _ entity.Kind, _ entity.Axis, id string) error {
	b.deleted = append(b.deleted, id)
	return b.err
}

func (b *stubBackend) TestConnection(context.Context) (bool, error) {
	return b.err == nil, nil
}

type stubResolver struct {
	result entity.OgpResult
	calls  int
}

func (r *stubResolver) Resolve(context.Context, string) entity.OgpResult {
	r.calls++
	return r.result
}

func newTestService(b Backend, r Resolver) *Service {
	s := NewService(b, r, DefaultConfig())
	s.newID = func() string { return "fixed-id" }
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("JST", 9*3600)) }
	return s
}

/*────────────────────  テストケース  ────────────────────*/

func TestService_DemoMode(t *testing.T) {
	s := NewService(nil, nil, Config{})
	ctx := context.Background()

	assert.True(t, s.Demo())

	view, err := s.Load(ctx)
	require.NoError(t, err)
	assert.True(t, view.Demo)
	assert.Empty(t, view.Catalog.BentoShops)
	assert.Len(t, view.Catalog.BentoCategories, 7)
	assert.Len(t, view.Taxonomy.PriceRanges, 4)

	_, err = s.AddItem(ctx, entity.KindBento, entity.Item{Name: "x"})
	assert.ErrorIs(t, err, ErrBackendNotConfigured)
	assert.ErrorIs(t, s.UpdateItem(ctx, entity.KindBento, entity.Item{ID: "1", Name: "x"}), ErrBackendNotConfigured)
	assert.ErrorIs(t, s.DeleteItem(ctx, entity.KindBento, "1"), ErrBackendNotConfigured)
	_, err = s.AddTerm(ctx, entity.KindBento, entity.AxisArea, "渋谷")
	assert.ErrorIs(t, err, ErrBackendNotConfigured)
	assert.ErrorIs(t, s.DeleteTerm(ctx, entity.KindBento, entity.AxisArea, "cat_1"), ErrBackendNotConfigured)
	_, err = s.Setup(ctx)
	assert.ErrorIs(t, err, ErrBackendNotConfigured)

	ok, err := s.TestConnection(ctx)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestService_Load(t *testing.T) {
	b := &stubBackend{catalog: &entity.Catalog{
		BentoShops: []entity.Item{
			{ID: "1", Name: "A", Area: "渋谷"},
			{ID: "2", Name: "B", Area: "新宿"},
			{ID: "3", Name: "C", Area: "渋谷"},
		},
		Locations:       []entity.Item{{ID: "4", Name: "D"}},
		BentoCategories: []entity.Term{{ID: "cat_x", Name: "和食"}},
		BentoAreas:      []entity.Term{{ID: "cat_y", Name: "渋谷"}},
	}}
	s := newTestService(b, nil)

	view, err := s.Load(context.Background())
	require.NoError(t, err)

	assert.False(t, view.Demo)
	assert.Equal(t, []string{"新宿", "渋谷"}, view.BentoAreas)
	assert.Empty(t, view.LocationAreas)
	assert.Equal(t, "和食", s.Taxonomy().Label(entity.KindBento, entity.AxisCategory, "cat_x"))
	assert.Equal(t, "渋谷", s.Taxonomy().Label(entity.KindBento, entity.AxisArea, "cat_y"))
	assert.Len(t, s.Taxonomy().PriceRanges, 4)
}

func TestService_Load_BackendError(t *testing.T) {
	b := &stubBackend{err: ErrBackendUnavailable}
	s := newTestService(b, nil)

	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, ErrBackendUnavailable)

	// 失敗時はデフォルトのまま
	assert.Len(t, s.Taxonomy().BentoCategories, 7)
}

func TestService_ListItems(t *testing.T) {
	b := &stubBackend{catalog: &entity.Catalog{
		BentoShops: []entity.Item{
			{ID: "1", Name: "A", Category: "meat"},
			{ID: "2", Name: "B", Category: "curry"},
		},
		Locations: []entity.Item{{ID: "3", Name: "Studio", Category: "meat"}},
	}}
	s := newTestService(b, nil)

	items, err := s.ListItems(context.Background(), entity.KindBento, Criteria{Category: "meat"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].ID)
}

func TestService_AddItem(t *testing.T) {
	b := &stubBackend{}
	s := newTestService(b, nil)

	got, err := s.AddItem(context.Background(), entity.KindBento, entity.Item{
		ID:   "client-supplied",
		Name: "  ほっかほっか亭 ",
		URL:  "https://hokka.example.jp",
	})
	require.NoError(t, err)

	assert.Equal(t, "fixed-id", got.ID)
	assert.Equal(t, "ほっかほっか亭", got.Name)
	assert.Equal(t, "2024-05-01T03:00:00Z", got.CreatedAt)
	require.Len(t, b.added, 1)
	assert.Equal(t, got, b.added[0])
}

func TestService_AddItem_Validation(t *testing.T) {
	tests := []struct {
		name string
		item entity.Item
	}{
		{name: "missing name", item: entity.Item{URL: "https://example.com"}},
		{name: "bad url", item: entity.Item{Name: "x", URL: "javascript:alert(1)"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &stubBackend{}
			s := newTestService(b, nil)

			_, err := s.AddItem(context.Background(), entity.KindBento, tt.item)

			var vErr *entity.ValidationError
			assert.True(t, errors.As(err, &vErr))
			assert.ErrorIs(t, err, entity.ErrInvalidInput)
			assert.Empty(t, b.added)
		})
	}
}

func TestService_AddItem_FillsFromPageMetadata(t *testing.T) {
	b := &stubBackend{}
	r := &stubResolver{result: entity.OgpResult{Title: "Resolved", Description: "desc", Image: "https://example.com/a.png"}}
	s := newTestService(b, r)

	got, err := s.AddItem(context.Background(), entity.KindLocation, entity.Item{
		URL:         "https://example.com",
		Description: "mine",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, r.calls)
	assert.Equal(t, "Resolved", got.Name)
	assert.Equal(t, "mine", got.Description)
	assert.Equal(t, "https://example.com/a.png", got.Image)
}

func TestService_AddItem_SkipsResolverWhenComplete(t *testing.T) {
	r := &stubResolver{}
	s := newTestService(&stubBackend{}, r)

	_, err := s.AddItem(context.Background(), entity.KindBento, entity.Item{
		URL: "https://example.com", Name: "n", Description: "d", Image: "https://example.com/i.png",
	})
	require.NoError(t, err)
	assert.Zero(t, r.calls)
}

func TestService_AddItem_BackendFailure(t *testing.T) {
	s := newTestService(&stubBackend{err: ErrBackendFailure}, nil)

	_, err := s.AddItem(context.Background(), entity.KindBento, entity.Item{Name: "x"})
	assert.ErrorIs(t, err, ErrBackendFailure)
}

func TestService_UpdateItem(t *testing.T) {
	b := &stubBackend{}
	s := newTestService(b, nil)

	err := s.UpdateItem(context.Background(), entity.KindBento, entity.Item{Name: "x"})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	require.NoError(t, s.UpdateItem(context.Background(), entity.KindBento, entity.Item{ID: "7", Name: "x", CreatedAt: "2024-01-01T00:00:00Z"}))
	require.Len(t, b.updated, 1)
	assert.Equal(t, "2024-01-01T00:00:00Z", b.updated[0].CreatedAt)
}

func TestService_DeleteItem(t *testing.T) {
	b := &stubBackend{}
	s := newTestService(b, nil)

	assert.ErrorIs(t, s.DeleteItem(context.Background(), entity.KindBento, " "), entity.ErrInvalidInput)
	require.NoError(t, s.DeleteItem(context.Background(), entity.KindBento, "9"))
	assert.Equal(t, []string{"9"}, b.deleted)
}

func TestService_Terms(t *testing.T) {
	b := &stubBackend{}
	s := newTestService(b, nil)
	ctx := context.Background()

	before := s.Taxonomy()

	term, err := s.AddTerm(ctx, entity.KindBento, entity.AxisArea, " 渋谷 ")
	require.NoError(t, err)
	assert.Equal(t, entity.Term{ID: "cat_fixed-id", Name: "渋谷"}, term)
	assert.Equal(t, "渋谷", s.Taxonomy().Label(entity.KindBento, entity.AxisArea, "cat_fixed-id"))

	// 以前のスナップショットは変更されない
	assert.Empty(t, before.BentoAreas)

	require.NoError(t, s.DeleteTerm(ctx, entity.KindBento, entity.AxisArea, "cat_fixed-id"))
	assert.Empty(t, s.Taxonomy().BentoAreas)

	_, err = s.AddTerm(ctx, entity.KindBento, entity.AxisArea, "")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	err = s.DeleteTerm(ctx, entity.KindBento, entity.AxisCategory, "meat")
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestService_AddTerm_BackendFailureLeavesTaxonomy(t *testing.T) {
	s := newTestService(&stubBackend{err: ErrBackendFailure}, nil)

	_, err := s.AddTerm(context.Background(), entity.KindLocation, entity.AxisCategory, "ドラマ")
	assert.ErrorIs(t, err, ErrBackendFailure)
	assert.Empty(t, s.Taxonomy().LocationCategories)
}

func TestService_AddTerm_Concurrent(t *testing.T) {
	b := &stubBackend{}
	s := NewService(b, nil, DefaultConfig())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AddTerm(context.Background(), entity.KindBento, entity.AxisArea, "area")
		}()
	}
	wg.Wait()

	assert.Len(t, s.Taxonomy().BentoAreas, 20)
}

func TestService_SetupAndConnection(t *testing.T) {
	s := newTestService(&stubBackend{}, nil)

	res, err := s.Setup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sid", res.SpreadsheetID)

	ok, err := s.TestConnection(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

// slowResolver blocks until the lookup context ends, then answers with a
// URL-derived title the way the OGP resolver does after exhausting proxies.
type slowResolver struct{}

func (slowResolver) Resolve(ctx context.Context, _ string) entity.OgpResult {
	<-ctx.Done()
	return entity.OgpResult{Title: "Example"}
}

type ctxRecordingBackend struct {
	stubBackend
	writeCtxErr error
}

func (b *ctxRecordingBackend) AddItem(ctx context.Context, kind entity.Kind, item entity.Item) error {
	b.writeCtxErr = ctx.Err()
	return b.stubBackend.AddItem(ctx, kind, item)
}

func TestService_AddItem_EnrichTimeoutLeavesWriteBudget(t *testing.T) {
	b := &ctxRecordingBackend{}
	s := NewService(b, slowResolver{}, Config{EnrichTimeout: 30 * time.Millisecond})
	s.newID = func() string { return "fixed-id" }

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	start := time.Now()
	got, err := s.AddItem(ctx, entity.KindBento, entity.Item{URL: "https://www.example.com/shop"})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second, "lookup must stop at EnrichTimeout")
	assert.Equal(t, "Example", got.Name)
	assert.NoError(t, b.writeCtxErr, "write must run on the request context, not the expired lookup context")
	require.Len(t, b.added, 1)
}

func TestNewService_DefaultEnrichTimeout(t *testing.T) {
	s := NewService(nil, nil, Config{})
	assert.Equal(t, DefaultConfig().EnrichTimeout, s.cfg.EnrichTimeout)
}
