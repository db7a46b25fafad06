package inventory

import "github.com/jhoicas/inventario-sucursales/internal/domain/entity"

// transferTransitions: pending -> in_transit -> received; pending|in_transit -> cancelled.
var transferTransitions = map[string][]string{
	entity.TransferStatusPending:   {entity.TransferStatusInTransit, entity.TransferStatusCancelled},
	entity.TransferStatusInTransit: {entity.TransferStatusReceived, entity.TransferStatusCancelled},
}

// CanTransitionTransfer indica si el traslado puede pasar de from a to.
func CanTransitionTransfer(from, to string) bool {
	for _, next := range transferTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
