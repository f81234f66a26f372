package inventory

import (
	"StockCount-Backend/domain"
	"StockCount-Backend/entities"
	"StockCount-Backend/pkg/audit"
	"StockCount-Backend/pkg/product"
	"StockCount-Backend/pkg/session"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// InventoryService is the item ledger: every item mutation flows
	// through it so audit rows and aggregate recomputation can never be
	// skipped.
	InventoryService interface {
		AddItem(ctx context.Context, sessionID string, req domain.AddItemRequest, userID string) (domain.ItemResponse, error)
		UpdateItem(ctx context.Context, sessionID, itemID string, req domain.UpdateItemRequest, userID string) (domain.ItemResponse, error)
		DeleteItem(ctx context.Context, sessionID, itemID string, userID string) error
		GetItems(ctx context.Context, sessionID string, userID string) ([]domain.ItemResponse, error)
	}

	inventoryService struct {
		itemRepository    ItemRepository
		sessionRepository session.SessionRepository
		productRepository product.ProductRepository
		auditRepository   audit.AuditRepository
	}
)

func NewInventoryService(
	itemRepository ItemRepository,
	sessionRepository session.SessionRepository,
	productRepository product.ProductRepository,
	auditRepository audit.AuditRepository,
) InventoryService {
	return &inventoryService{
		itemRepository:    itemRepository,
		sessionRepository: sessionRepository,
		productRepository: productRepository,
		auditRepository:   auditRepository,
	}
}

func (s *inventoryService) AddItem(ctx context.Context, sessionID string, req domain.AddItemRequest, userID string) (domain.ItemResponse, error) {
	sess, err := s.ownedActiveSession(ctx, sessionID, userID)
	if err != nil {
		return domain.ItemResponse{}, err
	}

	quantity := entities.QuantityFromPercent(req.Quantity.FullUnits, req.Quantity.PartialPercent)
	if !quantity.Valid() {
		return domain.ItemResponse{}, domain.ErrInvalidQuantity
	}
	if req.UnitPrice != nil && *req.UnitPrice < 0 {
		return domain.ItemResponse{}, domain.ErrInvalidUnitPrice
	}

	prod, err := s.productRepository.GetProductByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ItemResponse{}, domain.ErrProductNotFound
		}
		return domain.ItemResponse{}, err
	}

	incoming := incomingEntry{
		Quantity:     quantity,
		UnitPrice:    req.UnitPrice,
		ScanMethod:   req.ScanMethod,
		AIConfidence: req.AIConfidence,
		Notes:        req.Notes,
	}

	existing, err := s.itemRepository.GetItemBySessionProduct(ctx, sessionID, req.ProductID)
	if err != nil {
		return domain.ItemResponse{}, err
	}

	if existing != nil {
		if err := resolveDuplicate(existing, incoming, req.MergeMode); err != nil {
			return domain.ItemResponse{}, err
		}

		if err := s.itemRepository.UpsertItem(ctx, existing); err != nil {
			return domain.ItemResponse{}, err
		}

		entry := audit.NewEntry(sess.ID, sess.UserID, domain.AuditActionUpdateItem, map[string]any{
			"item_id":    existing.ID.String(),
			"product_id": existing.ProductID.String(),
			"merge_mode": req.MergeMode,
			"after":      existing,
		})
		if err := s.auditRepository.CreateEntry(ctx, entry); err != nil {
			return domain.ItemResponse{}, err
		}

		if err := s.recomputeAggregates(ctx, sess); err != nil {
			return domain.ItemResponse{}, err
		}

		existing.Product = prod
		return session.ToItemResponse(existing, true), nil
	}

	item := &entities.InventoryItem{
		ID:           uuid.New(),
		SessionID:    sess.ID,
		ProductID:    prod.ID,
		Quantity:     quantity,
		UnitPrice:    req.UnitPrice,
		ScanMethod:   req.ScanMethod,
		AIConfidence: req.AIConfidence,
		Notes:        req.Notes,
	}

	// Catalog price is only a default for fresh items, never for merges.
	if item.UnitPrice == nil && prod.LastPrice != nil {
		item.UnitPrice = prod.LastPrice
	}
	item.RecalculateTotalPrice()

	if sess.PreviousSessionID != nil {
		prev, err := s.itemRepository.GetItemBySessionProduct(ctx, sess.PreviousSessionID.String(), req.ProductID)
		if err != nil {
			return domain.ItemResponse{}, err
		}
		if prev != nil {
			previousTotal := prev.Quantity.Total()
			item.PreviousQuantity = &previousTotal
		}
	}

	if err := s.itemRepository.UpsertItem(ctx, item); err != nil {
		return domain.ItemResponse{}, err
	}

	entry := audit.NewEntry(sess.ID, sess.UserID, domain.AuditActionCreateItem, map[string]any{
		"item_id":    item.ID.String(),
		"product_id": item.ProductID.String(),
		"after":      item,
	})
	if err := s.auditRepository.CreateEntry(ctx, entry); err != nil {
		return domain.ItemResponse{}, err
	}

	if err := s.recomputeAggregates(ctx, sess); err != nil {
		return domain.ItemResponse{}, err
	}

	item.Product = prod
	return session.ToItemResponse(item, false), nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, sessionID, itemID string, req domain.UpdateItemRequest, userID string) (domain.ItemResponse, error) {
	sess, err := s.ownedActiveSession(ctx, sessionID, userID)
	if err != nil {
		return domain.ItemResponse{}, err
	}

	item, err := s.sessionItem(ctx, sess, itemID)
	if err != nil {
		return domain.ItemResponse{}, err
	}

	before := *item

	if req.Quantity != nil {
		quantity := entities.QuantityFromPercent(req.Quantity.FullUnits, req.Quantity.PartialPercent)
		if !quantity.Valid() {
			return domain.ItemResponse{}, domain.ErrInvalidQuantity
		}
		item.Quantity = quantity
	}
	if req.UnitPrice != nil {
		if *req.UnitPrice < 0 {
			return domain.ItemResponse{}, domain.ErrInvalidUnitPrice
		}
		item.UnitPrice = req.UnitPrice
	}
	if req.ScanMethod != nil {
		item.ScanMethod = *req.ScanMethod
	}
	if req.AIConfidence != nil {
		item.AIConfidence = req.AIConfidence
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}
	item.RecalculateTotalPrice()

	if err := s.itemRepository.UpdateItem(ctx, item); err != nil {
		return domain.ItemResponse{}, err
	}

	entry := audit.NewEntry(sess.ID, sess.UserID, domain.AuditActionUpdateItem, map[string]any{
		"item_id": item.ID.String(),
		"before":  before,
		"after":   item,
	})
	if err := s.auditRepository.CreateEntry(ctx, entry); err != nil {
		return domain.ItemResponse{}, err
	}

	if err := s.recomputeAggregates(ctx, sess); err != nil {
		return domain.ItemResponse{}, err
	}

	return session.ToItemResponse(item, false), nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, sessionID, itemID string, userID string) error {
	sess, err := s.ownedActiveSession(ctx, sessionID, userID)
	if err != nil {
		return err
	}

	item, err := s.sessionItem(ctx, sess, itemID)
	if err != nil {
		return err
	}

	if err := s.itemRepository.DeleteItem(ctx, itemID); err != nil {
		return err
	}

	entry := audit.NewEntry(sess.ID, sess.UserID, domain.AuditActionDeleteItem, map[string]any{
		"item_id": item.ID.String(),
		"before":  item,
	})
	if err := s.auditRepository.CreateEntry(ctx, entry); err != nil {
		return err
	}

	return s.recomputeAggregates(ctx, sess)
}

func (s *inventoryService) GetItems(ctx context.Context, sessionID string, userID string) ([]domain.ItemResponse, error) {
	sess, err := s.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.itemRepository.GetItemsBySession(ctx, sess.ID.String())
	if err != nil {
		return nil, err
	}

	var response []domain.ItemResponse
	for _, item := range items {
		response = append(response, session.ToItemResponse(item, false))
	}
	return response, nil
}

func (s *inventoryService) ownedSession(ctx context.Context, sessionID string, userID string) (*entities.InventorySession, error) {
	sess, err := s.sessionRepository.GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	if sess.UserID.String() != userID {
		return nil, domain.ErrUserNotAllowed
	}
	return sess, nil
}

func (s *inventoryService) ownedActiveSession(ctx context.Context, sessionID string, userID string) (*entities.InventorySession, error) {
	sess, err := s.ownedSession(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	if sess.Status == domain.SessionStatusCompleted {
		return nil, domain.ErrSessionClosed
	}
	return sess, nil
}

func (s *inventoryService) sessionItem(ctx context.Context, sess *entities.InventorySession, itemID string) (*entities.InventoryItem, error) {
	item, err := s.itemRepository.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrItemNotFound
		}
		return nil, err
	}

	if item.SessionID != sess.ID {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

// recomputeAggregates always derives totals from the full item set instead
// of patching them incrementally, so they cannot drift.
func (s *inventoryService) recomputeAggregates(ctx context.Context, sess *entities.InventorySession) error {
	items, err := s.itemRepository.GetItemsBySession(ctx, sess.ID.String())
	if err != nil {
		return err
	}

	sess.TotalItems, sess.TotalValue = session.Aggregate(items)
	return s.sessionRepository.UpdateSession(ctx, sess)
}
