package inventory

import (
	"StockCount-Backend/domain"
	"StockCount-Backend/entities"
)

// incomingEntry is a normalized scan or manual entry about to hit the
// ledger.
type incomingEntry struct {
	Quantity     entities.Quantity
	UnitPrice    *float64
	ScanMethod   string
	AIConfidence *float64
	Notes        string
}

// resolveDuplicate applies the caller-chosen merge strategy onto the
// existing row. The ledger never stores a second row for the same product;
// the caller must pick a mode, an empty one fails with ErrDuplicateConflict
// so the client can prompt the user.
func resolveDuplicate(existing *entities.InventoryItem, incoming incomingEntry, mergeMode string) error {
	switch mergeMode {
	case domain.MergeModeAdd:
		existing.Quantity = existing.Quantity.Add(incoming.Quantity)
		if incoming.UnitPrice != nil {
			existing.UnitPrice = incoming.UnitPrice
		}
		// Most recent evidence wins for scan metadata.
		existing.ScanMethod = incoming.ScanMethod
		existing.AIConfidence = incoming.AIConfidence
		if incoming.Notes != "" {
			existing.Notes = incoming.Notes
		}
	case domain.MergeModeReplace:
		existing.Quantity = incoming.Quantity
		if incoming.UnitPrice != nil {
			existing.UnitPrice = incoming.UnitPrice
		}
		existing.ScanMethod = incoming.ScanMethod
		existing.AIConfidence = incoming.AIConfidence
		// Notes survive a replace unless explicitly rewritten.
		if incoming.Notes != "" {
			existing.Notes = incoming.Notes
		}
	case "":
		return domain.ErrDuplicateConflict
	default:
		return domain.ErrInvalidMergeMode
	}

	existing.RecalculateTotalPrice()
	return nil
}
