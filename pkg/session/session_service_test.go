package session

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

type stubSessionRepo struct {
	sessions      map[string]*entities.InventorySession
	items         map[string][]*entities.InventoryItem
	lastCompleted map[string]*entities.InventorySession
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{
		sessions:      map[string]*entities.InventorySession{},
		items:         map[string][]*entities.InventoryItem{},
		lastCompleted: map[string]*entities.InventorySession{},
	}
}

func (s *stubSessionRepo) CreateSession(ctx context.Context, session *entities.InventorySession) error {
	s.sessions[session.ID.String()] = session
	return nil
}

func (s *stubSessionRepo) GetSessionByID(ctx context.Context, id string) (*entities.InventorySession, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return session, nil
}

func (s *stubSessionRepo) GetSessions(ctx context.Context, userID string, locationID string, page, limit int) ([]*entities.InventorySession, int64, error) {
	var sessions []*entities.InventorySession
	for _, session := range s.sessions {
		if session.UserID.String() == userID {
			sessions = append(sessions, session)
		}
	}
	return sessions, int64(len(sessions)), nil
}

func (s *stubSessionRepo) UpdateSession(ctx context.Context, session *entities.InventorySession) error {
	s.sessions[session.ID.String()] = session
	return nil
}

func (s *stubSessionRepo) GetLastCompletedSession(ctx context.Context, locationID string) (*entities.InventorySession, error) {
	return s.lastCompleted[locationID], nil
}

func (s *stubSessionRepo) GetSessionItems(ctx context.Context, sessionID string) ([]*entities.InventoryItem, error) {
	return s.items[sessionID], nil
}

func (s *stubSessionRepo) CreateItems(ctx context.Context, items []*entities.InventoryItem) error {
	for _, item := range items {
		key := item.SessionID.String()
		s.items[key] = append(s.items[key], item)
	}
	return nil
}

type stubUserRepo struct {
	owner            *entities.User
	allowedLocations []string
}

func (s *stubUserRepo) RegisterUser(ctx context.Context, user *entities.User) error { return nil }

func (s *stubUserRepo) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubUserRepo) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	if s.owner == nil || s.owner.ID.String() != id {
		return nil, gorm.ErrRecordNotFound
	}
	owner := *s.owner
	return &owner, nil
}

func (s *stubUserRepo) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	return false, nil
}

func (s *stubUserRepo) GetAllowedLocationIDs(ctx context.Context, userID string) ([]string, error) {
	return s.allowedLocations, nil
}

func (s *stubUserRepo) CreateLocation(ctx context.Context, location *entities.Location) error {
	return nil
}

func (s *stubUserRepo) AssignLocation(ctx context.Context, userID string, locationID string) error {
	return nil
}

type stubAuditRepo struct {
	entries []*entities.AuditLogEntry
}

func (s *stubAuditRepo) CreateEntry(ctx context.Context, entry *entities.AuditLogEntry) error {
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubAuditRepo) GetEntriesBySession(ctx context.Context, sessionID string) ([]*entities.AuditLogEntry, error) {
	return s.entries, nil
}

func (s *stubAuditRepo) CountEntries(ctx context.Context, sessionID string, action string) (int64, error) {
	var count int64
	for _, entry := range s.entries {
		if action == "" || entry.Action == action {
			count++
		}
	}
	return count, nil
}

type sessionFixture struct {
	service  SessionService
	sessions *stubSessionRepo
	audits   *stubAuditRepo
	user     *entities.User
	location uuid.UUID
}

func newSessionFixture() *sessionFixture {
	sessions := newStubSessionRepo()
	audits := &stubAuditRepo{}

	location := uuid.New()
	user := &entities.User{
		ID:    uuid.New(),
		Email: "counter@example.com",
	}
	users := &stubUserRepo{
		owner:            user,
		allowedLocations: []string{location.String()},
	}

	return &sessionFixture{
		service:  NewSessionService(sessions, users, audits),
		sessions: sessions,
		audits:   audits,
		user:     user,
		location: location,
	}
}

func (f *sessionFixture) seedSession(status string) *entities.InventorySession {
	session := &entities.InventorySession{
		ID:         uuid.New(),
		UserID:     f.user.ID,
		LocationID: f.location,
		Status:     status,
		StartedAt:  time.Now(),
	}
	if status == domain.SessionStatusCompleted {
		now := time.Now()
		session.CompletedAt = &now
	}
	f.sessions.sessions[session.ID.String()] = session
	return session
}

func (f *sessionFixture) seedItem(session *entities.InventorySession, product *entities.Product, quantity entities.Quantity, unitPrice *float64) *entities.InventoryItem {
	item := &entities.InventoryItem{
		ID:        uuid.New(),
		SessionID: session.ID,
		ProductID: product.ID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Product:   product,
	}
	item.RecalculateTotalPrice()
	key := session.ID.String()
	f.sessions.items[key] = append(f.sessions.items[key], item)
	return item
}

func price(v float64) *float64 { return &v }

func TestCreateSessionPinsPreviousCompletedSession(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	previous := f.seedSession(domain.SessionStatusCompleted)
	f.sessions.lastCompleted[f.location.String()] = previous

	res, err := f.service.CreateSession(ctx, domain.CreateSessionRequest{
		LocationID: f.location.String(),
		Name:       "September count",
	}, f.user.ID.String())
	require.NoError(t, err)

	assert.Equal(t, domain.SessionStatusActive, res.Status)
	require.NotNil(t, res.PreviousSessionID)
	assert.Equal(t, previous.ID.String(), *res.PreviousSessionID)
}

func TestCreateSessionWithoutPredecessor(t *testing.T) {
	f := newSessionFixture()

	res, err := f.service.CreateSession(context.Background(), domain.CreateSessionRequest{
		LocationID: f.location.String(),
	}, f.user.ID.String())
	require.NoError(t, err)
	assert.Nil(t, res.PreviousSessionID)
}

func TestCreateSessionDisallowedLocation(t *testing.T) {
	f := newSessionFixture()

	_, err := f.service.CreateSession(context.Background(), domain.CreateSessionRequest{
		LocationID: uuid.NewString(),
	}, f.user.ID.String())
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCompleteSessionSnapshotsTotals(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	session := f.seedSession(domain.SessionStatusActive)
	flour := &entities.Product{ID: uuid.New(), Name: "Flour"}
	oil := &entities.Product{ID: uuid.New(), Name: "Oil"}
	f.seedItem(session, flour, entities.NewQuantity(2, 50), price(3))
	f.seedItem(session, oil, entities.NewQuantity(1, 0), price(10))

	res, err := f.service.CompleteSession(ctx, session.ID.String(), f.user.ID.String())
	require.NoError(t, err)

	assert.Equal(t, domain.SessionStatusCompleted, res.Status)
	require.NotNil(t, res.CompletedAt)
	assert.Equal(t, 2, res.TotalItems)
	assert.InDelta(t, 17.5, res.TotalValue, 1e-9)

	count, err := f.audits.CountEntries(ctx, session.ID.String(), domain.AuditActionCompleteSession)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCompleteSessionTwiceFails(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	session := f.seedSession(domain.SessionStatusActive)

	_, err := f.service.CompleteSession(ctx, session.ID.String(), f.user.ID.String())
	require.NoError(t, err)

	_, err = f.service.CompleteSession(ctx, session.ID.String(), f.user.ID.String())
	require.ErrorIs(t, err, domain.ErrSessionAlreadyCompleted)

	// The rejected retry must not add another audit row.
	count, err := f.audits.CountEntries(ctx, session.ID.String(), domain.AuditActionCompleteSession)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCompleteSessionOfAnotherUser(t *testing.T) {
	f := newSessionFixture()
	session := f.seedSession(domain.SessionStatusActive)

	_, err := f.service.CompleteSession(context.Background(), session.ID.String(), uuid.NewString())
	require.ErrorIs(t, err, domain.ErrUserNotAllowed)
}

func TestComputeDifferencesAgainstBaseline(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	previous := f.seedSession(domain.SessionStatusCompleted)
	current := f.seedSession(domain.SessionStatusActive)
	previousID := previous.ID
	current.PreviousSessionID = &previousID

	flour := &entities.Product{ID: uuid.New(), Name: "Flour"}
	sugar := &entities.Product{ID: uuid.New(), Name: "Sugar"}
	salt := &entities.Product{ID: uuid.New(), Name: "Salt"}

	// Flour was counted both times, sugar only before, salt only now.
	f.seedItem(previous, flour, entities.NewQuantity(5, 0), nil)
	f.seedItem(previous, sugar, entities.NewQuantity(2, 0), nil)
	f.seedItem(current, flour, entities.NewQuantity(8, 0), nil)
	f.seedItem(current, salt, entities.NewQuantity(3, 0), nil)

	records, err := f.service.ComputeDifferences(ctx, current.ID.String(), f.user.ID.String())
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, flour.ID.String(), records[0].ProductID)
	assert.Equal(t, "Flour", records[0].ProductName)
	assert.InDelta(t, 5.0, records[0].PreviousQuantity, 1e-9)
	assert.InDelta(t, 8.0, records[0].CurrentQuantity, 1e-9)
	assert.InDelta(t, 3.0, records[0].QuantityDifference, 1e-9)
}

func TestComputeDifferencesWithoutPredecessor(t *testing.T) {
	f := newSessionFixture()
	session := f.seedSession(domain.SessionStatusActive)

	records, err := f.service.ComputeDifferences(context.Background(), session.ID.String(), f.user.ID.String())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestValidateForExportFlagsMissingPrices(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	session := f.seedSession(domain.SessionStatusActive)
	flour := &entities.Product{ID: uuid.New(), Name: "Flour"}
	sugar := &entities.Product{ID: uuid.New(), Name: "Sugar"}
	salt := &entities.Product{ID: uuid.New(), Name: "Salt"}
	f.seedItem(session, flour, entities.NewQuantity(1, 0), price(3))
	unpriced := f.seedItem(session, sugar, entities.NewQuantity(2, 0), nil)
	f.seedItem(session, salt, entities.NewQuantity(3, 0), price(1))

	res, err := f.service.ValidateForExport(ctx, session.ID.String(), f.user.ID.String())
	require.NoError(t, err)

	assert.False(t, res.Valid)
	assert.Equal(t, 1, res.MissingCount)
	assert.Equal(t, []string{unpriced.ID.String()}, res.MissingItemIDs)

	// The gate is advisory: completion still goes through.
	_, err = f.service.CompleteSession(ctx, session.ID.String(), f.user.ID.String())
	require.NoError(t, err)
}

func TestValidateForExportAllPriced(t *testing.T) {
	f := newSessionFixture()

	session := f.seedSession(domain.SessionStatusActive)
	flour := &entities.Product{ID: uuid.New(), Name: "Flour"}
	f.seedItem(session, flour, entities.NewQuantity(1, 0), price(3))

	res, err := f.service.ValidateForExport(context.Background(), session.ID.String(), f.user.ID.String())
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, 0, res.MissingCount)
	assert.Empty(t, res.MissingItemIDs)
}

func TestPrefillFromPreviousCopiesItemsWithZeroQuantities(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	previous := f.seedSession(domain.SessionStatusCompleted)
	current := f.seedSession(domain.SessionStatusActive)
	previousID := previous.ID
	current.PreviousSessionID = &previousID

	flour := &entities.Product{ID: uuid.New(), Name: "Flour"}
	f.seedItem(previous, flour, entities.NewQuantity(5, 50), price(3))

	items, err := f.service.PrefillFromPrevious(ctx, current.ID.String(), f.user.ID.String())
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, flour.ID.String(), items[0].ProductID)
	assert.Equal(t, 0, items[0].FullUnits)
	assert.Equal(t, 0, items[0].PartialPercent)
	require.NotNil(t, items[0].UnitPrice)
	assert.InDelta(t, 3.0, *items[0].UnitPrice, 1e-9)
	require.NotNil(t, items[0].PreviousQuantity)
	assert.InDelta(t, 5.5, *items[0].PreviousQuantity, 1e-9)

	count, err := f.audits.CountEntries(ctx, current.ID.String(), domain.AuditActionPrefill)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPrefillRequiresEmptySession(t *testing.T) {
	f := newSessionFixture()
	ctx := context.Background()

	previous := f.seedSession(domain.SessionStatusCompleted)
	current := f.seedSession(domain.SessionStatusActive)
	previousID := previous.ID
	current.PreviousSessionID = &previousID

	flour := &entities.Product{ID: uuid.New(), Name: "Flour"}
	f.seedItem(previous, flour, entities.NewQuantity(5, 0), nil)
	f.seedItem(current, flour, entities.NewQuantity(1, 0), nil)

	_, err := f.service.PrefillFromPrevious(ctx, current.ID.String(), f.user.ID.String())
	require.ErrorIs(t, err, domain.ErrSessionNotEmpty)
}

func TestPrefillRejectsCompletedSession(t *testing.T) {
	f := newSessionFixture()

	session := f.seedSession(domain.SessionStatusCompleted)
	previousID := uuid.New()
	session.PreviousSessionID = &previousID

	_, err := f.service.PrefillFromPrevious(context.Background(), session.ID.String(), f.user.ID.String())
	require.ErrorIs(t, err, domain.ErrSessionClosed)
}

func TestPrefillWithoutPredecessorIsNoop(t *testing.T) {
	f := newSessionFixture()
	session := f.seedSession(domain.SessionStatusActive)

	items, err := f.service.PrefillFromPrevious(context.Background(), session.ID.String(), f.user.ID.String())
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestGetSessionByIDNotFound(t *testing.T) {
	f := newSessionFixture()

	_, err := f.service.GetSessionByID(context.Background(), uuid.NewString(), f.user.ID.String())
	require.ErrorIs(t, err, domain.ErrSessionNotFound)
}
