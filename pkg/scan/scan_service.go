package scan

import (
	"StockCount-Backend/domain"
	"StockCount-Backend/entities"
	"StockCount-Backend/internal/utils/storage"
	"StockCount-Backend/pkg/inventory"
	"StockCount-Backend/pkg/product"
	"StockCount-Backend/pkg/session"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ScanService interface {
		ProcessScan(ctx context.Context, req domain.UploadScanRequest, userID string) (domain.ScanOutcome, error)
		ConfirmScan(ctx context.Context, req domain.ConfirmScanRequest, userID string) (domain.ItemResponse, error)
		GetScanCapture(ctx context.Context, scanID string, userID string) (domain.ScanCaptureResponse, error)
	}

	scanService struct {
		scanRepository    ScanRepository
		sessionRepository session.SessionRepository
		itemRepository    inventory.ItemRepository
		productRepository product.ProductRepository
		inventoryService  inventory.InventoryService
		recognizer        Recognizer
		s3                storage.AwsS3
	}
)

func NewScanService(
	scanRepository ScanRepository,
	sessionRepository session.SessionRepository,
	itemRepository inventory.ItemRepository,
	productRepository product.ProductRepository,
	inventoryService inventory.InventoryService,
	recognizer Recognizer,
	s3 storage.AwsS3,
) ScanService {
	return &scanService{
		scanRepository:    scanRepository,
		sessionRepository: sessionRepository,
		itemRepository:    itemRepository,
		productRepository: productRepository,
		inventoryService:  inventoryService,
		recognizer:        recognizer,
		s3:                s3,
	}
}

// ProcessScan stores the photo, asks the recognizer for a candidate and
// normalizes the answer into a ScanOutcome. It only reads the ledger (for
// the duplicate probe); recording the count happens in ConfirmScan.
func (s *scanService) ProcessScan(ctx context.Context, req domain.UploadScanRequest, userID string) (domain.ScanOutcome, error) {
	sess, err := s.ownedActiveSession(ctx, req.SessionID, userID)
	if err != nil {
		return domain.ScanOutcome{}, err
	}

	scanID := uuid.New()
	fileName := fmt.Sprintf("scan-%s", scanID.String())
	objectKey, err := s.s3.UploadFile(fileName, req.Image, "scans", storage.AllowImage...)
	if err != nil {
		return domain.ScanOutcome{}, domain.ErrInvalidImageFormat
	}

	capture := &entities.ScanCapture{
		ID:        scanID,
		SessionID: sess.ID,
		UserID:    sess.UserID,
		ImageURL:  s.s3.GetPublicLinkKey(objectKey),
		Status:    "Pending",
	}
	if err := s.scanRepository.CreateScanCapture(ctx, capture); err != nil {
		_ = s.s3.DeleteFile(objectKey)
		return domain.ScanOutcome{}, err
	}

	result, err := s.recognizer.Recognize(ctx, req.Image)
	if err != nil {
		capture.Status = "Failed"
		capture.RecognitionResults = err.Error()
		_ = s.scanRepository.UpdateScanCapture(ctx, capture)
		return domain.ScanOutcome{}, err
	}

	outcome, err := s.buildOutcome(ctx, sess, scanID, result)
	if err != nil {
		return domain.ScanOutcome{}, err
	}

	resultsJSON, _ := json.Marshal(result)
	capture.Status = "Processed"
	capture.RecognitionResults = string(resultsJSON)
	if err := s.scanRepository.UpdateScanCapture(ctx, capture); err != nil {
		return domain.ScanOutcome{}, err
	}

	return outcome, nil
}

// buildOutcome matches the recognized candidate against the catalog and
// probes the ledger for a duplicate. It never creates a product; an
// unmatched candidate is flagged so the caller can create or pick one.
func (s *scanService) buildOutcome(ctx context.Context, sess *entities.InventorySession, scanID uuid.UUID, result domain.RecognitionResult) (domain.ScanOutcome, error) {
	outcome := domain.ScanOutcome{
		ScanID: scanID.String(),
		RecognizedProduct: domain.RecognizedProduct{
			Name:        result.ProductName,
			Brand:       result.Brand,
			SizeDisplay: result.SizeDisplay,
			Category:    result.Category,
			Confidence:  result.Confidence,
		},
		IsNewProduct: true,
	}

	matched, err := s.matchProduct(ctx, result)
	if err != nil {
		return domain.ScanOutcome{}, err
	}
	if matched == nil {
		return outcome, nil
	}

	matchedID := matched.ID.String()
	outcome.MatchedProductID = &matchedID
	outcome.IsNewProduct = false

	if result.SuggestedFullUnits != nil || result.SuggestedPartialUnits != nil {
		suggested := domain.QuantityRequest{}
		if result.SuggestedFullUnits != nil {
			suggested.FullUnits = *result.SuggestedFullUnits
		}
		if result.SuggestedPartialUnits != nil {
			suggested.PartialPercent = math.Round(*result.SuggestedPartialUnits)
		}
		outcome.SuggestedQuantity = &suggested
	}

	existing, err := s.itemRepository.GetItemBySessionProduct(ctx, sess.ID.String(), matchedID)
	if err != nil {
		return domain.ScanOutcome{}, err
	}
	if existing != nil {
		outcome.DuplicateInSession = &domain.DuplicateInSession{
			ExistingItemID:         existing.ID.String(),
			ExistingFullUnits:      existing.Quantity.FullUnits,
			ExistingPartialPercent: existing.Quantity.Percent(),
			ExistingTotal:          existing.Quantity.Total(),
		}
	}

	return outcome, nil
}

func (s *scanService) ConfirmScan(ctx context.Context, req domain.ConfirmScanRequest, userID string) (domain.ItemResponse, error) {
	addReq := domain.AddItemRequest{
		ProductID:    req.ProductID,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		ScanMethod:   domain.ScanMethodPhoto,
		AIConfidence: req.AIConfidence,
		MergeMode:    req.MergeMode,
	}
	return s.inventoryService.AddItem(ctx, req.SessionID, addReq, userID)
}

func (s *scanService) GetScanCapture(ctx context.Context, scanID string, userID string) (domain.ScanCaptureResponse, error) {
	capture, err := s.scanRepository.GetScanCaptureByID(ctx, scanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ScanCaptureResponse{}, domain.ErrScanNotFound
		}
		return domain.ScanCaptureResponse{}, err
	}

	if capture.UserID.String() != userID {
		return domain.ScanCaptureResponse{}, domain.ErrUserNotAllowed
	}

	return domain.ScanCaptureResponse{
		ScanID:             capture.ID.String(),
		SessionID:          capture.SessionID.String(),
		ImageURL:           capture.ImageURL,
		Status:             capture.Status,
		RecognitionResults: capture.RecognitionResults,
	}, nil
}

func (s *scanService) matchProduct(ctx context.Context, result domain.RecognitionResult) (*entities.Product, error) {
	if result.MatchedProductID != "" {
		matched, err := s.productRepository.GetProductByID(ctx, result.MatchedProductID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if matched != nil {
			return matched, nil
		}
	}

	if result.Barcode != "" {
		matched, err := s.productRepository.GetProductByBarcode(ctx, result.Barcode)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if matched != nil {
			return matched, nil
		}
	}

	return nil, nil
}

func (s *scanService) ownedActiveSession(ctx context.Context, sessionID string, userID string) (*entities.InventorySession, error) {
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
	if sess.Status == domain.SessionStatusCompleted {
		return nil, domain.ErrSessionClosed
	}
	return sess, nil
}
