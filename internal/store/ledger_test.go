package store_test

import (
	"errors"
	"testing"
	"time"

	"github.com/hassaanshah24/minute2.0/internal/apperrors"
	"github.com/hassaanshah24/minute2.0/internal/models"
	"github.com/hassaanshah24/minute2.0/internal/store"
	"gorm.io/gorm"
)

// seedMinute creates a Draft minute linked to a fresh chain of the users.
func seedMinute(t *testing.T, db *gorm.DB, name string, userIDs []uint64) (*models.Minute, *models.ApprovalChain) {
	chain := seedChain(t, db, name+"-chain", userIDs)
	minute := models.Minute{
		Title:       name,
		Description: "test minute",
		CreatedByID: userIDs[0],
		UniqueID:    "TEST/" + name,
		Status:      models.MinuteDraft,
		ChainID:     &chain.ChainID,
	}
	if err := db.Create(&minute).Error; err != nil {
		t.Fatalf("Failed to create minute: %v", err)
	}
	if err := db.Model(chain).Update("minute_id", minute.MinuteID).Error; err != nil {
		t.Fatalf("Failed to link chain: %v", err)
	}
	return &minute, chain
}

func currentCount(t *testing.T, db *gorm.DB, minuteID uint64) int64 {
	var count int64
	db.Model(&models.MinuteApproval{}).
		Where("minute_id = ? AND current_approver = ?", minuteID, true).
		Count(&count)
	return count
}

func TestCreateEntryRejectsDuplicates(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db, 2)
	minute, chain := seedMinute(t, db, "dup-entry", users)
	ledger := store.LedgerStore{}

	if _, err := ledger.CreateEntry(db, minute.MinuteID, chain.ChainID, users[0], 1, true); err != nil {
		t.Fatalf("First entry failed: %v", err)
	}
	_, err := ledger.CreateEntry(db, minute.MinuteID, chain.ChainID, users[0], 1, false)
	if !errors.Is(err, apperrors.ErrDuplicateEntry) {
		t.Errorf("Expected duplicate entry error, got: %v", err)
	}
}

func TestCreateEntryKeepsSingleCurrent(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db, 3)
	minute, chain := seedMinute(t, db, "single-current", users)
	ledger := store.LedgerStore{}

	if _, err := ledger.CreateEntry(db, minute.MinuteID, chain.ChainID, users[0], 1, true); err != nil {
		t.Fatalf("First entry failed: %v", err)
	}
	if _, err := ledger.CreateEntry(db, minute.MinuteID, chain.ChainID, users[1], 2, true); err != nil {
		t.Fatalf("Second entry failed: %v", err)
	}

	if n := currentCount(t, db, minute.MinuteID); n != 1 {
		t.Errorf("Expected exactly one current entry, got %d", n)
	}
	current, err := ledger.FindCurrent(db, minute.MinuteID)
	if err != nil {
		t.Fatalf("FindCurrent failed: %v", err)
	}
	if current == nil || current.ApproverID != users[1] {
		t.Errorf("Expected user %d current, got %+v", users[1], current)
	}
}

func TestMarkResultAndReopen(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db, 2)
	minute, chain := seedMinute(t, db, "mark-reopen", users)
	ledger := store.LedgerStore{}

	entry, err := ledger.CreateEntry(db, minute.MinuteID, chain.ChainID, users[0], 1, true)
	if err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	now := time.Now().UTC()
	err = ledger.MarkResult(db, entry, models.StatusApproved, models.ActionApprove, "fine", nil, now)
	if err != nil {
		t.Fatalf("MarkResult failed: %v", err)
	}

	reloaded, _ := ledger.GetEntry(db, entry.ApprovalID)
	if reloaded.Status != models.StatusApproved || reloaded.CurrentApprover {
		t.Errorf("Expected Approved non-current, got %s current=%v", reloaded.Status, reloaded.CurrentApprover)
	}
	if reloaded.Action == nil || *reloaded.Action != models.ActionApprove {
		t.Errorf("Expected approve action recorded, got %v", reloaded.Action)
	}

	if err := ledger.Reopen(db, reloaded); err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	reloaded, _ = ledger.GetEntry(db, entry.ApprovalID)
	if reloaded.Status != models.StatusPending || !reloaded.CurrentApprover {
		t.Errorf("Expected Pending current after reopen, got %s current=%v", reloaded.Status, reloaded.CurrentApprover)
	}
	if n := currentCount(t, db, minute.MinuteID); n != 1 {
		t.Errorf("Expected one current after reopen, got %d", n)
	}
}

func TestRejectPendingSparesActingEntry(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db, 3)
	minute, chain := seedMinute(t, db, "bulk-reject", users)
	ledger := store.LedgerStore{}

	acting, _ := ledger.CreateEntry(db, minute.MinuteID, chain.ChainID, users[0], 1, true)
	other, _ := ledger.CreateEntry(db, minute.MinuteID, chain.ChainID, users[1], 2, false)

	if err := ledger.RejectPending(db, minute.MinuteID, acting.ApprovalID); err != nil {
		t.Fatalf("RejectPending failed: %v", err)
	}

	reloaded, _ := ledger.GetEntry(db, other.ApprovalID)
	if reloaded.Status != models.StatusRejected {
		t.Errorf("Expected other entry Rejected, got %s", reloaded.Status)
	}
	reloaded, _ = ledger.GetEntry(db, acting.ApprovalID)
	if reloaded.Status != models.StatusPending {
		t.Errorf("Expected acting entry untouched, got %s", reloaded.Status)
	}
}

func TestLedgerShiftOrdersMirrorsChain(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db, 3)
	minute, chain := seedMinute(t, db, "shift-mirror", users)
	ledger := store.LedgerStore{}

	for i, id := range users {
		if _, err := ledger.CreateEntry(db, minute.MinuteID, chain.ChainID, id, i+1, false); err != nil {
			t.Fatalf("CreateEntry failed: %v", err)
		}
	}

	if err := ledger.ShiftOrders(db, minute.MinuteID, 2); err != nil {
		t.Fatalf("ShiftOrders failed: %v", err)
	}

	entries, err := ledger.ForMinute(db, minute.MinuteID)
	if err != nil {
		t.Fatalf("ForMinute failed: %v", err)
	}
	wantOrders := map[uint64]int{users[0]: 1, users[1]: 3, users[2]: 4}
	for _, e := range entries {
		if wantOrders[e.ApproverID] != e.Order {
			t.Errorf("Expected user %d at order %d, got %d", e.ApproverID, wantOrders[e.ApproverID], e.Order)
		}
	}
}

func TestPendingForUser(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db, 2)
	minute, chain := seedMinute(t, db, "pending-list", users)
	ledger := store.LedgerStore{}

	if _, err := ledger.CreateEntry(db, minute.MinuteID, chain.ChainID, users[0], 1, true); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	entries, err := ledger.PendingForUser(db, users[0])
	if err != nil {
		t.Fatalf("PendingForUser failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 pending entry, got %d", len(entries))
	}
	if entries[0].Minute == nil || entries[0].Minute.MinuteID != minute.MinuteID {
		t.Error("Expected minute preloaded on pending entry")
	}

	// The non-current user has nothing pending
	entries, err = ledger.PendingForUser(db, users[1])
	if err != nil {
		t.Fatalf("PendingForUser failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no pending entries, got %d", len(entries))
	}
}
