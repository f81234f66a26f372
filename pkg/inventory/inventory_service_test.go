package inventory

import (
	"StockCount-Backend/domain"
	"StockCount-Backend/entities"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeItemRepo struct {
	items map[string]*entities.InventoryItem
	order []string
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: map[string]*entities.InventoryItem{}}
}

func (f *fakeItemRepo) UpsertItem(ctx context.Context, item *entities.InventoryItem) error {
	for id, existing := range f.items {
		if existing.SessionID == item.SessionID && existing.ProductID == item.ProductID {
			stored := *item
			stored.ID = existing.ID
			f.items[id] = &stored
			return nil
		}
	}
	stored := *item
	f.items[stored.ID.String()] = &stored
	f.order = append(f.order, stored.ID.String())
	return nil
}

func (f *fakeItemRepo) GetItemByID(ctx context.Context, id string) (*entities.InventoryItem, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *item
	return &found, nil
}

func (f *fakeItemRepo) GetItemBySessionProduct(ctx context.Context, sessionID, productID string) (*entities.InventoryItem, error) {
	for _, item := range f.items {
		if item.SessionID.String() == sessionID && item.ProductID.String() == productID {
			found := *item
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeItemRepo) GetItemsBySession(ctx context.Context, sessionID string) ([]*entities.InventoryItem, error) {
	var items []*entities.InventoryItem
	for _, id := range f.order {
		item, ok := f.items[id]
		if !ok || item.SessionID.String() != sessionID {
			continue
		}
		found := *item
		items = append(items, &found)
	}
	return items, nil
}

func (f *fakeItemRepo) UpdateItem(ctx context.Context, item *entities.InventoryItem) error {
	stored := *item
	f.items[stored.ID.String()] = &stored
	return nil
}

func (f *fakeItemRepo) DeleteItem(ctx context.Context, id string) error {
	delete(f.items, id)
	for i, stored := range f.order {
		if stored == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

type fakeSessionRepo struct {
	sessions map[string]*entities.InventorySession
	items    *fakeItemRepo
}

func (f *fakeSessionRepo) CreateSession(ctx context.Context, session *entities.InventorySession) error {
	f.sessions[session.ID.String()] = session
	return nil
}

func (f *fakeSessionRepo) GetSessionByID(ctx context.Context, id string) (*entities.InventorySession, error) {
	session, ok := f.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (f *fakeSessionRepo) GetSessions(ctx context.Context, userID string, locationID string, page, limit int) ([]*entities.InventorySession, int64, error) {
	return nil, 0, nil
}

func (f *fakeSessionRepo) UpdateSession(ctx context.Context, session *entities.InventorySession) error {
	f.sessions[session.ID.String()] = session
	return nil
}

func (f *fakeSessionRepo) GetLastCompletedSession(ctx context.Context, locationID string) (*entities.InventorySession, error) {
	return nil, nil
}

func (f *fakeSessionRepo) GetSessionItems(ctx context.Context, sessionID string) ([]*entities.InventoryItem, error) {
	return f.items.GetItemsBySession(ctx, sessionID)
}

func (f *fakeSessionRepo) CreateItems(ctx context.Context, items []*entities.InventoryItem) error {
	for _, item := range items {
		if err := f.items.UpsertItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

type fakeProductRepo struct {
	products map[string]*entities.Product
}

func (f *fakeProductRepo) CreateProduct(ctx context.Context, product *entities.Product) error {
	f.products[product.ID.String()] = product
	return nil
}

func (f *fakeProductRepo) GetProductByID(ctx context.Context, id string) (*entities.Product, error) {
	product, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (f *fakeProductRepo) GetProductByBarcode(ctx context.Context, barcode string) (*entities.Product, error) {
	for _, product := range f.products {
		if product.Barcode == barcode {
			return product, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) SearchProducts(ctx context.Context, query string, page, limit int) ([]*entities.Product, int64, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) UpdateProduct(ctx context.Context, product *entities.Product) error {
	f.products[product.ID.String()] = product
	return nil
}

type fakeAuditRepo struct {
	entries []*entities.AuditLogEntry
}

func (f *fakeAuditRepo) CreateEntry(ctx context.Context, entry *entities.AuditLogEntry) error {
	f.entries = append(f.entries, entry)
	return nil
}

func (f *fakeAuditRepo) GetEntriesBySession(ctx context.Context, sessionID string) ([]*entities.AuditLogEntry, error) {
	var entries []*entities.AuditLogEntry
	for _, entry := range f.entries {
		if entry.SessionID.String() == sessionID {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (f *fakeAuditRepo) CountEntries(ctx context.Context, sessionID string, action string) (int64, error) {
	var count int64
	for _, entry := range f.entries {
		if entry.SessionID.String() == sessionID && (action == "" || entry.Action == action) {
			count++
		}
	}
	return count, nil
}

type fixture struct {
	service  InventoryService
	items    *fakeItemRepo
	sessions *fakeSessionRepo
	products *fakeProductRepo
	audits   *fakeAuditRepo
	session  *entities.InventorySession
	product  *entities.Product
	userID   string
}

func newFixture() *fixture {
	items := newFakeItemRepo()
	sessions := &fakeSessionRepo{sessions: map[string]*entities.InventorySession{}, items: items}
	products := &fakeProductRepo{products: map[string]*entities.Product{}}
	audits := &fakeAuditRepo{}

	userID := uuid.New()
	lastPrice := 3.5
	product := &entities.Product{
		ID:        uuid.New(),
		Name:      "Wheat Flour 1kg",
		Barcode:   "8991002100015",
		LastPrice: &lastPrice,
	}
	products.products[product.ID.String()] = product

	session := &entities.InventorySession{
		ID:         uuid.New(),
		UserID:     userID,
		LocationID: uuid.New(),
		Status:     domain.SessionStatusActive,
		StartedAt:  time.Now(),
	}
	sessions.sessions[session.ID.String()] = session

	return &fixture{
		service:  NewInventoryService(items, sessions, products, audits),
		items:    items,
		sessions: sessions,
		products: products,
		audits:   audits,
		session:  session,
		product:  product,
		userID:   userID.String(),
	}
}

func (f *fixture) addItemRequest(fullUnits int, partialPercent float64, unitPrice *float64, mergeMode string) domain.AddItemRequest {
	return domain.AddItemRequest{
		ProductID: f.product.ID.String(),
		Quantity:  domain.QuantityRequest{FullUnits: fullUnits, PartialPercent: partialPercent},
		UnitPrice: unitPrice,
		MergeMode: mergeMode,
	}
}

func floatPtr(v float64) *float64 { return &v }

func TestAddItemCreatesItemWithCatalogPriceDefault(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, err := f.service.AddItem(ctx, f.session.ID.String(), f.addItemRequest(2, 50, nil, ""), f.userID)
	require.NoError(t, err)

	assert.Equal(t, 2, res.FullUnits)
	assert.Equal(t, 50, res.PartialPercent)
	assert.False(t, res.Merged)
	require.NotNil(t, res.UnitPrice)
	assert.InDelta(t, 3.5, *res.UnitPrice, 1e-9)
	require.NotNil(t, res.TotalPrice)
	assert.InDelta(t, 8.75, *res.TotalPrice, 1e-9)

	assert.Equal(t, 1, f.session.TotalItems)
	assert.InDelta(t, 8.75, f.session.TotalValue, 1e-9)

	require.Len(t, f.audits.entries, 1)
	assert.Equal(t, domain.AuditActionCreateItem, f.audits.entries[0].Action)
}

func TestAddItemDuplicateWithoutMergeModeFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.AddItem(ctx, f.session.ID.String(), f.addItemRequest(2, 50, floatPtr(3), ""), f.userID)
	require.NoError(t, err)

	_, err = f.service.AddItem(ctx, f.session.ID.String(), f.addItemRequest(1, 25, nil, ""), f.userID)
	require.ErrorIs(t, err, domain.ErrDuplicateConflict)

	// The rejected attempt left no trace.
	item, err := f.items.GetItemBySessionProduct(ctx, f.session.ID.String(), f.product.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity.FullUnits)
	assert.Equal(t, 50, item.Quantity.PartialHundredths)
	require.Len(t, f.audits.entries, 1)
}

func TestAddItemMergeAdd(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.AddItem(ctx, f.session.ID.String(), f.addItemRequest(2, 50, floatPtr(3), ""), f.userID)
	require.NoError(t, err)

	res, err := f.service.AddItem(ctx, f.session.ID.String(), f.addItemRequest(1, 25, nil, domain.MergeModeAdd), f.userID)
	require.NoError(t, err)

	assert.True(t, res.Merged)
	assert.Equal(t, 3, res.FullUnits)
	assert.Equal(t, 75, res.PartialPercent)
	// Existing price is kept when the merge carries none; the catalog
	// default never applies to merges.
	require.NotNil(t, res.UnitPrice)
	assert.InDelta(t, 3.0, *res.UnitPrice, 1e-9)
	require.NotNil(t, res.TotalPrice)
	assert.InDelta(t, 11.25, *res.TotalPrice, 1e-9)

	assert.Equal(t, 1, f.session.TotalItems)
	assert.InDelta(t, 11.25, f.session.TotalValue, 1e-9)

	require.Len(t, f.audits.entries, 2)
	assert.Equal(t, domain.AuditActionCreateItem, f.audits.entries[0].Action)
	assert.Equal(t, domain.AuditActionUpdateItem, f.audits.entries[1].Action)
}

func TestAddItemMergeReplace(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	first := f.addItemRequest(2, 50, floatPtr(3), "")
	first.Notes = "back shelf"
	_, err := f.service.AddItem(ctx, f.session.ID.String(), first, f.userID)
	require.NoError(t, err)

	res, err := f.service.AddItem(ctx, f.session.ID.String(), f.addItemRequest(1, 25, floatPtr(4), domain.MergeModeReplace), f.userID)
	require.NoError(t, err)

	assert.True(t, res.Merged)
	assert.Equal(t, 1, res.FullUnits)
	assert.Equal(t, 25, res.PartialPercent)
	require.NotNil(t, res.UnitPrice)
	assert.InDelta(t, 4.0, *res.UnitPrice, 1e-9)
	require.NotNil(t, res.TotalPrice)
	assert.InDelta(t, 5.0, *res.TotalPrice, 1e-9)
	assert.Equal(t, "back shelf", res.Notes)
}

func TestAddItemInvalidMergeMode(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.service.AddItem(ctx, f.session.ID.String(), f.addItemRequest(2, 50, nil, ""), f.userID)
	require.NoError(t, err)

	_, err = f.service.AddItem(ctx, f.session.ID.String(), f.addItemRequest(1, 0, nil, "overwrite"), f.userID)
	require.ErrorIs(t, err, domain.ErrInvalidMergeMode)
}

func TestAddItemRejectsCompletedSession(t *testing.T) {
	f := newFixture()
	f.session.Status = domain.SessionStatusCompleted

	_, err := f.service.AddItem(context.Background(), f.session.ID.String(), f.addItemRequest(1, 0, nil, ""), f.userID)
	require.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestAddItemRejectsForeignSession(t *testing.T) {
	f := newFixture()

	_, err := f.service.AddItem(context.Background(), f.session.ID.String(), f.addItemRequest(1, 0, nil, ""), uuid.NewString())
	require.ErrorIs(t, err, domain.ErrUserNotAllowed)
}

func TestAddItemUnknownProduct(t *testing.T) {
	f := newFixture()

	req := f.addItemRequest(1, 0, nil, "")
	req.ProductID = uuid.NewString()
	_, err := f.service.AddItem(context.Background(), f.session.ID.String(), req, f.userID)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestAddItemInvalidQuantity(t *testing.T) {
	f := newFixture()

	_, err := f.service.AddItem(context.Background(), f.session.ID.String(), f.addItemRequest(1, 150, nil, ""), f.userID)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestAddItemCopiesBaselineFromPreviousSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	previous := &entities.InventorySession{
		ID:         uuid.New(),
		UserID:     f.session.UserID,
		LocationID: f.session.LocationID,
		Status:     domain.SessionStatusCompleted,
	}
	f.sessions.sessions[previous.ID.String()] = previous
	previousID := previous.ID
	f.session.PreviousSessionID = &previousID

	require.NoError(t, f.items.UpsertItem(ctx, &entities.InventoryItem{
		ID:        uuid.New(),
		SessionID: previous.ID,
		ProductID: f.product.ID,
		Quantity:  entities.NewQuantity(5, 0),
	}))

	res, err := f.service.AddItem(ctx, f.session.ID.String(), f.addItemRequest(8, 0, nil, ""), f.userID)
	require.NoError(t, err)

	require.NotNil(t, res.PreviousQuantity)
	assert.InDelta(t, 5.0, *res.PreviousQuantity, 1e-9)
	require.NotNil(t, res.QuantityDifference)
	assert.InDelta(t, 3.0, *res.QuantityDifference, 1e-9)
}

func TestUpdateItemRecomputesDerivedValues(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.AddItem(ctx, f.session.ID.String(), f.addItemRequest(2, 0, floatPtr(3), ""), f.userID)
	require.NoError(t, err)

	res, err := f.service.UpdateItem(ctx, f.session.ID.String(), created.ID, domain.UpdateItemRequest{
		Quantity:  &domain.QuantityRequest{FullUnits: 4, PartialPercent: 50},
		UnitPrice: floatPtr(2),
	}, f.userID)
	require.NoError(t, err)

	assert.Equal(t, 4, res.FullUnits)
	assert.Equal(t, 50, res.PartialPercent)
	require.NotNil(t, res.TotalPrice)
	assert.InDelta(t, 9.0, *res.TotalPrice, 1e-9)

	assert.InDelta(t, 9.0, f.session.TotalValue, 1e-9)

	require.Len(t, f.audits.entries, 2)
	assert.Equal(t, domain.AuditActionUpdateItem, f.audits.entries[1].Action)
}

func TestUpdateItemFromAnotherSessionNotFound(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	other := &entities.InventorySession{
		ID:         uuid.New(),
		UserID:     f.session.UserID,
		LocationID: f.session.LocationID,
		Status:     domain.SessionStatusActive,
		StartedAt:  time.Now(),
	}
	f.sessions.sessions[other.ID.String()] = other

	foreign := &entities.InventoryItem{
		ID:        uuid.New(),
		SessionID: other.ID,
		ProductID: f.product.ID,
		Quantity:  entities.NewQuantity(1, 0),
	}
	require.NoError(t, f.items.UpsertItem(ctx, foreign))

	_, err := f.service.UpdateItem(ctx, f.session.ID.String(), foreign.ID.String(), domain.UpdateItemRequest{}, f.userID)
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestDeleteItemClearsAggregatesAndWritesAudit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.AddItem(ctx, f.session.ID.String(), f.addItemRequest(2, 0, floatPtr(3), ""), f.userID)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteItem(ctx, f.session.ID.String(), created.ID, f.userID))

	items, err := f.items.GetItemsBySession(ctx, f.session.ID.String())
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.Equal(t, 0, f.session.TotalItems)
	assert.InDelta(t, 0.0, f.session.TotalValue, 1e-9)

	require.Len(t, f.audits.entries, 2)
	assert.Equal(t, domain.AuditActionDeleteItem, f.audits.entries[1].Action)
}

func TestEveryMutationWritesExactlyOneAuditRow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.service.AddItem(ctx, f.session.ID.String(), f.addItemRequest(2, 50, floatPtr(3), ""), f.userID)
	require.NoError(t, err)

	_, err = f.service.AddItem(ctx, f.session.ID.String(), f.addItemRequest(1, 0, nil, domain.MergeModeAdd), f.userID)
	require.NoError(t, err)

	_, err = f.service.UpdateItem(ctx, f.session.ID.String(), created.ID, domain.UpdateItemRequest{
		Notes: func() *string { s := "recount"; return &s }(),
	}, f.userID)
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteItem(ctx, f.session.ID.String(), created.ID, f.userID))

	actions := make([]string, 0, len(f.audits.entries))
	for _, entry := range f.audits.entries {
		actions = append(actions, entry.Action)
	}
	assert.Equal(t, []string{
		domain.AuditActionCreateItem,
		domain.AuditActionUpdateItem,
		domain.AuditActionUpdateItem,
		domain.AuditActionDeleteItem,
	}, actions)
}

func TestGetItemsReturnsSessionItems(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	second := &entities.Product{ID: uuid.New(), Name: "Olive Oil 500ml"}
	f.products.products[second.ID.String()] = second

	_, err := f.service.AddItem(ctx, f.session.ID.String(), f.addItemRequest(2, 0, nil, ""), f.userID)
	require.NoError(t, err)

	req := f.addItemRequest(1, 50, nil, "")
	req.ProductID = second.ID.String()
	_, err = f.service.AddItem(ctx, f.session.ID.String(), req, f.userID)
	require.NoError(t, err)

	items, err := f.service.GetItems(ctx, f.session.ID.String(), f.userID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
