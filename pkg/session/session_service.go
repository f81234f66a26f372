package session

import (
	"StockCount-Backend/domain"
	"StockCount-Backend/entities"
	"StockCount-Backend/internal/utils/mailing"
	"StockCount-Backend/pkg/audit"
	"StockCount-Backend/pkg/user"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	SessionService interface {
		CreateSession(ctx context.Context, req domain.CreateSessionRequest, userID string) (domain.SessionResponse, error)
		GetSessions(ctx context.Context, userID string, locationID string, page, limit int) ([]domain.SessionResponse, int64, error)
		GetSessionByID(ctx context.Context, id string, userID string) (domain.SessionResponse, error)
		CompleteSession(ctx context.Context, id string, userID string) (domain.SessionResponse, error)
		PrefillFromPrevious(ctx context.Context, id string, userID string) ([]domain.ItemResponse, error)
		ComputeDifferences(ctx context.Context, id string, userID string) ([]domain.DifferenceRecord, error)
		ValidateForExport(ctx context.Context, id string, userID string) (domain.ExportValidationResponse, error)
	}

	sessionService struct {
		sessionRepository SessionRepository
		userRepository    user.UserRepository
		auditRepository   audit.AuditRepository
	}
)

func NewSessionService(
	sessionRepository SessionRepository,
	userRepository user.UserRepository,
	auditRepository audit.AuditRepository,
) SessionService {
	return &sessionService{
		sessionRepository: sessionRepository,
		userRepository:    userRepository,
		auditRepository:   auditRepository,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, req domain.CreateSessionRequest, userID string) (domain.SessionResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.SessionResponse{}, domain.ErrParseUUID
	}

	locationUUID, err := uuid.Parse(req.LocationID)
	if err != nil {
		return domain.SessionResponse{}, domain.ErrParseUUID
	}

	allowed, err := s.locationAllowed(ctx, userID, req.LocationID)
	if err != nil {
		return domain.SessionResponse{}, err
	}
	if !allowed {
		return domain.SessionResponse{}, domain.ErrForbidden
	}

	session := &entities.InventorySession{
		ID:         uuid.New(),
		UserID:     userUUID,
		LocationID: locationUUID,
		Name:       req.Name,
		Status:     domain.SessionStatusActive,
		StartedAt:  time.Now(),
	}

	// The predecessor is pinned at creation time so later counts at the
	// same location do not shift this session's baseline.
	previous, err := s.sessionRepository.GetLastCompletedSession(ctx, req.LocationID)
	if err != nil {
		return domain.SessionResponse{}, err
	}
	if previous != nil {
		previousID := previous.ID
		session.PreviousSessionID = &previousID
	}

	if err := s.sessionRepository.CreateSession(ctx, session); err != nil {
		return domain.SessionResponse{}, err
	}

	return toSessionResponse(session), nil
}

func (s *sessionService) GetSessions(ctx context.Context, userID string, locationID string, page, limit int) ([]domain.SessionResponse, int64, error) {
	sessions, count, err := s.sessionRepository.GetSessions(ctx, userID, locationID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	var response []domain.SessionResponse
	for _, session := range sessions {
		response = append(response, toSessionResponse(session))
	}
	return response, count, nil
}

func (s *sessionService) GetSessionByID(ctx context.Context, id string, userID string) (domain.SessionResponse, error) {
	session, err := s.ownedSession(ctx, id, userID)
	if err != nil {
		return domain.SessionResponse{}, err
	}
	return toSessionResponse(session), nil
}

func (s *sessionService) CompleteSession(ctx context.Context, id string, userID string) (domain.SessionResponse, error) {
	session, err := s.ownedSession(ctx, id, userID)
	if err != nil {
		return domain.SessionResponse{}, err
	}

	if session.Status == domain.SessionStatusCompleted {
		return domain.SessionResponse{}, domain.ErrSessionAlreadyCompleted
	}

	items, err := s.sessionRepository.GetSessionItems(ctx, id)
	if err != nil {
		return domain.SessionResponse{}, err
	}

	totalItems, totalValue := Aggregate(items)
	now := time.Now()
	session.TotalItems = totalItems
	session.TotalValue = totalValue
	session.Status = domain.SessionStatusCompleted
	session.CompletedAt = &now

	if err := s.sessionRepository.UpdateSession(ctx, session); err != nil {
		return domain.SessionResponse{}, err
	}

	entry := audit.NewEntry(session.ID, session.UserID, domain.AuditActionCompleteSession, map[string]any{
		"total_items": totalItems,
		"total_value": totalValue,
	})
	if err := s.auditRepository.CreateEntry(ctx, entry); err != nil {
		return domain.SessionResponse{}, err
	}

	go s.sendCompletionMail(session)

	return toSessionResponse(session), nil
}

func (s *sessionService) PrefillFromPrevious(ctx context.Context, id string, userID string) ([]domain.ItemResponse, error) {
	session, err := s.ownedSession(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if session.Status == domain.SessionStatusCompleted {
		return nil, domain.ErrSessionClosed
	}
	if session.PreviousSessionID == nil {
		return nil, nil
	}

	existing, err := s.sessionRepository.GetSessionItems(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, domain.ErrSessionNotEmpty
	}

	previousItems, err := s.sessionRepository.GetSessionItems(ctx, session.PreviousSessionID.String())
	if err != nil {
		return nil, err
	}

	var items []*entities.InventoryItem
	for _, prev := range previousItems {
		previousTotal := prev.Quantity.Total()
		item := &entities.InventoryItem{
			ID:               uuid.New(),
			SessionID:        session.ID,
			ProductID:        prev.ProductID,
			Quantity:         entities.NewQuantity(0, 0),
			UnitPrice:        prev.UnitPrice,
			PreviousQuantity: &previousTotal,
			Product:          prev.Product,
		}
		item.RecalculateTotalPrice()
		items = append(items, item)
	}

	if err := s.sessionRepository.CreateItems(ctx, items); err != nil {
		return nil, err
	}

	entry := audit.NewEntry(session.ID, session.UserID, domain.AuditActionPrefill, map[string]any{
		"previous_session_id": session.PreviousSessionID.String(),
		"item_count":          len(items),
	})
	if err := s.auditRepository.CreateEntry(ctx, entry); err != nil {
		return nil, err
	}

	var response []domain.ItemResponse
	for _, item := range items {
		response = append(response, ToItemResponse(item, false))
	}
	return response, nil
}

// ComputeDifferences compares the session against its pinned predecessor.
// Products without a baseline in the previous count produce no record;
// positive deltas mean stock increased since the prior count.
func (s *sessionService) ComputeDifferences(ctx context.Context, id string, userID string) ([]domain.DifferenceRecord, error) {
	session, err := s.ownedSession(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if session.PreviousSessionID == nil {
		return []domain.DifferenceRecord{}, nil
	}

	previousItems, err := s.sessionRepository.GetSessionItems(ctx, session.PreviousSessionID.String())
	if err != nil {
		return nil, err
	}

	previousByProduct := make(map[uuid.UUID]float64, len(previousItems))
	for _, item := range previousItems {
		previousByProduct[item.ProductID] = item.Quantity.Total()
	}

	currentItems, err := s.sessionRepository.GetSessionItems(ctx, id)
	if err != nil {
		return nil, err
	}

	records := []domain.DifferenceRecord{}
	for _, item := range currentItems {
		previousTotal, ok := previousByProduct[item.ProductID]
		if !ok {
			continue
		}

		record := domain.DifferenceRecord{
			ProductID:          item.ProductID.String(),
			PreviousQuantity:   previousTotal,
			CurrentQuantity:    item.Quantity.Total(),
			QuantityDifference: item.Quantity.Total() - previousTotal,
		}
		if item.Product != nil {
			record.ProductName = item.Product.Name
		}
		records = append(records, record)
	}

	return records, nil
}

// ValidateForExport is advisory: a false result warns the caller, it never
// blocks completion or export.
func (s *sessionService) ValidateForExport(ctx context.Context, id string, userID string) (domain.ExportValidationResponse, error) {
	if _, err := s.ownedSession(ctx, id, userID); err != nil {
		return domain.ExportValidationResponse{}, err
	}

	items, err := s.sessionRepository.GetSessionItems(ctx, id)
	if err != nil {
		return domain.ExportValidationResponse{}, err
	}

	response := domain.ExportValidationResponse{
		Valid:          true,
		MissingItemIDs: []string{},
	}
	for _, item := range items {
		if item.UnitPrice == nil {
			response.MissingCount++
			response.MissingItemIDs = append(response.MissingItemIDs, item.ID.String())
		}
	}
	response.Valid = response.MissingCount == 0

	return response, nil
}

func (s *sessionService) ownedSession(ctx context.Context, id string, userID string) (*entities.InventorySession, error) {
	session, err := s.sessionRepository.GetSessionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	if session.UserID.String() != userID {
		return nil, domain.ErrUserNotAllowed
	}
	return session, nil
}

func (s *sessionService) locationAllowed(ctx context.Context, userID string, locationID string) (bool, error) {
	locationIDs, err := s.userRepository.GetAllowedLocationIDs(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range locationIDs {
		if id == locationID {
			return true, nil
		}
	}
	return false, nil
}

func (s *sessionService) sendCompletionMail(session *entities.InventorySession) {
	owner, err := s.userRepository.GetUserByID(context.Background(), session.UserID.String())
	if err != nil {
		log.Printf("completion mail skipped, owner lookup failed: %v", err)
		return
	}

	subject := "Inventory count completed"
	body := fmt.Sprintf(
		"<p>Your inventory session <b>%s</b> was completed at %s.</p><p>Items counted: %d<br>Total value: %.2f</p>",
		session.Name,
		session.CompletedAt.Format("2006-01-02 15:04"),
		session.TotalItems,
		session.TotalValue,
	)
	if err := mailing.SendMail(owner.Email, subject, body); err != nil {
		log.Printf("failed to send completion mail: %v", err)
	}
}

// Aggregate recomputes session totals from the full item set. Items without
// a price contribute zero to the value, they only trip the export gate.
func Aggregate(items []*entities.InventoryItem) (int, float64) {
	totalItems := len(items)
	totalValue := 0.0
	for _, item := range items {
		if item.TotalPrice != nil {
			totalValue += *item.TotalPrice
		}
	}
	return totalItems, totalValue
}

func toSessionResponse(session *entities.InventorySession) domain.SessionResponse {
	response := domain.SessionResponse{
		ID:          session.ID.String(),
		LocationID:  session.LocationID.String(),
		Name:        session.Name,
		Status:      session.Status,
		StartedAt:   session.StartedAt,
		CompletedAt: session.CompletedAt,
		TotalItems:  session.TotalItems,
		TotalValue:  session.TotalValue,
	}
	if session.PreviousSessionID != nil {
		previousID := session.PreviousSessionID.String()
		response.PreviousSessionID = &previousID
	}
	return response
}

// ToItemResponse is shared with the ledger so both packages render items the
// same way.
func ToItemResponse(item *entities.InventoryItem, merged bool) domain.ItemResponse {
	response := domain.ItemResponse{
		ID:                 item.ID.String(),
		SessionID:          item.SessionID.String(),
		ProductID:          item.ProductID.String(),
		FullUnits:          item.Quantity.FullUnits,
		PartialPercent:     item.Quantity.Percent(),
		TotalQuantity:      item.Quantity.Total(),
		UnitPrice:          item.UnitPrice,
		TotalPrice:         item.TotalPrice,
		PreviousQuantity:   item.PreviousQuantity,
		QuantityDifference: item.QuantityDifference(),
		ScanMethod:         item.ScanMethod,
		AIConfidence:       item.AIConfidence,
		Notes:              item.Notes,
		Merged:             merged,
		CreatedAt:          item.CreatedAt,
	}
	if item.Product != nil {
		response.ProductName = item.Product.Name
	}
	return response
}
