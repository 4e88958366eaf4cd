package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/hassaanshah24/minute2.0/internal/database"
	"github.com/hassaanshah24/minute2.0/internal/handlers"
	"github.com/hassaanshah24/minute2.0/internal/middleware"
	"github.com/hassaanshah24/minute2.0/internal/models"
	"github.com/hassaanshah24/minute2.0/internal/services"
	"github.com/hassaanshah24/minute2.0/internal/workflow"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestApp wires a fiber app the way the server does, on an in-memory
// database.
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	engine := workflow.NewEngine(db, zerolog.Nop())
	minutes := services.NewMinuteService(db, "TEST", zerolog.Nop())

	minuteHandler := &handlers.MinuteHandler{Minutes: minutes, Engine: engine}
	approvalHandler := &handlers.ApprovalHandler{Engine: engine}

	app := fiber.New()
	api := app.Group("/api", middleware.ActorMiddleware(db))
	api.Post("/minutes", minuteHandler.Create)
	api.Get("/minutes/pending", minuteHandler.Pending)
	api.Get("/minutes/:id", minuteHandler.Get)
	api.Post("/minutes/:id/submit", minuteHandler.Submit)
	api.Get("/minutes/:id/track", minuteHandler.Track)
	api.Post("/approvals/:id/approve", approvalHandler.Approve)
	api.Post("/approvals/:id/reject", approvalHandler.Reject)

	return app, db
}

// seedWorld creates a department plus n users belonging to it.
func seedWorld(t *testing.T, db *gorm.DB, n int) []uint64 {
	dept := models.Department{Name: t.Name() + " Dept", Code: "ENG"}
	if err := db.Create(&dept).Error; err != nil {
		t.Fatalf("Failed to create department: %v", err)
	}
	ids := make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		user := models.User{
			Username:     fmt.Sprintf("api-user-%d", i+1),
			Role:         models.RoleFaculty,
			DepartmentID: &dept.DepartmentID,
		}
		if err := db.Create(&user).Error; err != nil {
			t.Fatalf("Failed to create user: %v", err)
		}
		ids = append(ids, user.UserID)
	}
	return ids
}

// seedSubmittedMinute creates a minute with a two-member chain and submits it
// through the engine, returning the minute and the current approval entry id.
func seedSubmittedMinute(t *testing.T, db *gorm.DB, users []uint64) (*models.Minute, uint64) {
	chain := models.ApprovalChain{Name: t.Name() + "-chain", CreatedByID: users[0], Status: models.ChainActive}
	if err := db.Create(&chain).Error; err != nil {
		t.Fatalf("Failed to create chain: %v", err)
	}
	for i, id := range users[1:3] {
		member := models.Approver{ChainID: chain.ChainID, UserID: id, Order: i + 1, Status: models.StatusPending}
		if err := db.Create(&member).Error; err != nil {
			t.Fatalf("Failed to create member: %v", err)
		}
	}
	minute := models.Minute{
		Title:       t.Name(),
		Description: "handler test minute",
		CreatedByID: users[0],
		UniqueID:    "TEST/" + t.Name(),
		Status:      models.MinuteDraft,
		ChainID:     &chain.ChainID,
	}
	if err := db.Create(&minute).Error; err != nil {
		t.Fatalf("Failed to create minute: %v", err)
	}
	if err := db.Model(&chain).Update("minute_id", minute.MinuteID).Error; err != nil {
		t.Fatalf("Failed to link chain: %v", err)
	}

	engine := workflow.NewEngine(db, zerolog.Nop())
	if _, err := engine.Submit(context.Background(), users[0], minute.MinuteID, ""); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	var entry models.MinuteApproval
	err := db.Where("minute_id = ? AND current_approver = ?", minute.MinuteID, true).First(&entry).Error
	if err != nil {
		t.Fatalf("Failed to find current entry: %v", err)
	}
	return &minute, entry.ApprovalID
}

func doRequest(t *testing.T, app *fiber.App, method, path string, actorID uint64, body interface{}) *http.Response {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actorID != 0 {
		req.Header.Set("X-Actor-Id", fmt.Sprintf("%d", actorID))
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func TestActorHeaderRequired(t *testing.T) {
	app, db := setupTestApp(t)
	seedWorld(t, db, 1)

	resp := doRequest(t, app, "GET", "/api/minutes/pending", 0, nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 without actor header, got %d", resp.StatusCode)
	}

	// A well-formed header naming a nonexistent user is also rejected
	resp = doRequest(t, app, "GET", "/api/minutes/pending", 99999, nil)
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Errorf("Expected 401 for unknown actor, got %d", resp.StatusCode)
	}
}

func TestCreateMinuteEndpoint(t *testing.T) {
	app, db := setupTestApp(t)
	users := seedWorld(t, db, 1)

	resp := doRequest(t, app, "POST", "/api/minutes", users[0], map[string]interface{}{
		"title":       "Budget proposal",
		"description": "FY budget for review",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("Expected 201, got %d", resp.StatusCode)
	}

	var minute models.Minute
	decodeBody(t, resp, &minute)
	if !strings.HasPrefix(minute.UniqueID, "TEST/ENG/") || !strings.HasSuffix(minute.UniqueID, "/1") {
		t.Errorf("Expected generated reference id TEST/ENG/<month>/1, got %q", minute.UniqueID)
	}
	if minute.Status != models.MinuteDraft {
		t.Errorf("Expected Draft status, got %s", minute.Status)
	}

	// Missing required fields
	resp = doRequest(t, app, "POST", "/api/minutes", users[0], map[string]interface{}{
		"title": "no description",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("Expected 400 for missing description, got %d", resp.StatusCode)
	}
}

func TestApproveEndpoint(t *testing.T) {
	app, db := setupTestApp(t)
	users := seedWorld(t, db, 4)
	_, approvalID := seedSubmittedMinute(t, db, users)

	// A user outside the chain cannot act
	resp := doRequest(t, app, "POST", fmt.Sprintf("/api/approvals/%d/approve", approvalID), users[3], nil)
	if resp.StatusCode != fiber.StatusForbidden {
		t.Errorf("Expected 403 for non-approver, got %d", resp.StatusCode)
	}
	var envelope struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Ok      bool   `json:"ok"`
	}
	decodeBody(t, resp, &envelope)
	if envelope.Type != "not_authorized" || envelope.Ok {
		t.Errorf("Expected not_authorized envelope, got %+v", envelope)
	}

	// The current approver succeeds
	resp = doRequest(t, app, "POST", fmt.Sprintf("/api/approvals/%d/approve", approvalID), users[1],
		map[string]interface{}{"remarks": "looks good"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var entry models.MinuteApproval
	decodeBody(t, resp, &entry)
	if entry.Status != models.StatusApproved {
		t.Errorf("Expected Approved entry, got %s", entry.Status)
	}

	// Acting twice on the same entry conflicts
	resp = doRequest(t, app, "POST", fmt.Sprintf("/api/approvals/%d/approve", approvalID), users[1], nil)
	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("Expected 409 for repeated action, got %d", resp.StatusCode)
	}
}

func TestRejectEndpoint(t *testing.T) {
	app, db := setupTestApp(t)
	users := seedWorld(t, db, 3)
	minute, approvalID := seedSubmittedMinute(t, db, users)

	resp := doRequest(t, app, "POST", fmt.Sprintf("/api/approvals/%d/reject", approvalID), users[1],
		map[string]interface{}{"remarks": "not viable"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, "GET", fmt.Sprintf("/api/minutes/%d", minute.MinuteID), users[0], nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var reloaded models.Minute
	decodeBody(t, resp, &reloaded)
	if reloaded.Status != models.MinuteRejected || !reloaded.Archived {
		t.Errorf("Expected Rejected archived minute, got %s archived=%v", reloaded.Status, reloaded.Archived)
	}
}

func TestTrackEndpoint(t *testing.T) {
	app, db := setupTestApp(t)
	users := seedWorld(t, db, 3)
	minute, approvalID := seedSubmittedMinute(t, db, users)

	resp := doRequest(t, app, "POST", fmt.Sprintf("/api/approvals/%d/approve", approvalID), users[1], nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}

	resp = doRequest(t, app, "GET", fmt.Sprintf("/api/minutes/%d/track", minute.MinuteID), users[0], nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var track services.MinuteTrack
	decodeBody(t, resp, &track)
	if len(track.Approvals) != 2 {
		t.Errorf("Expected 2 ledger entries, got %d", len(track.Approvals))
	}
	if len(track.Actions) != 2 {
		t.Errorf("Expected submit and approve in the trail, got %d rows", len(track.Actions))
	}

	resp = doRequest(t, app, "GET", "/api/minutes/99999/track", users[0], nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("Expected 404 for unknown minute, got %d", resp.StatusCode)
	}
}

func TestPendingEndpoint(t *testing.T) {
	app, db := setupTestApp(t)
	users := seedWorld(t, db, 3)
	seedSubmittedMinute(t, db, users)

	resp := doRequest(t, app, "GET", "/api/minutes/pending", users[1], nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var entries []models.MinuteApproval
	decodeBody(t, resp, &entries)
	if len(entries) != 1 {
		t.Errorf("Expected 1 pending entry for first approver, got %d", len(entries))
	}

	resp = doRequest(t, app, "GET", "/api/minutes/pending", users[2], nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	entries = nil
	decodeBody(t, resp, &entries)
	if len(entries) != 0 {
		t.Errorf("Expected no pending entries for later approver, got %d", len(entries))
	}
}
