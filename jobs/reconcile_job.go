package jobs

import (
	"log"
	"time"

	"github.com/beinghouse/miniapp-backend/database"
	"github.com/beinghouse/miniapp-backend/models"
)

// Pending transactions whose payment window expired long ago are failed by
// this sweep. The client's own validity window is 5 minutes; a full day of
// grace covers clients that crashed before reporting and may still retry.
const stalePendingAge = 24 * time.Hour

func ReconcileStaleTransactions() {
	log.Println("Running job: ReconcileStaleTransactions...")

	cutoff := time.Now().Add(-stalePendingAge)

	res := database.DB.Model(&models.WalletTransaction{}).
		Where("status = ? AND created_at < ?", models.TransactionStatusPending, cutoff).
		UpdateColumn("status", models.TransactionStatusFailed)
	if res.Error != nil {
		log.Printf("Error reconciling stale transactions: %v", res.Error)
		return
	}

	if res.RowsAffected > 0 {
		log.Printf("Marked %d stale pending transactions as failed", res.RowsAffected)
	}
}
