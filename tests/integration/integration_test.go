package integration_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/hassaanshah24/minute2.0/internal/config"
	"github.com/hassaanshah24/minute2.0/internal/database"
	"github.com/hassaanshah24/minute2.0/internal/models"
	"github.com/hassaanshah24/minute2.0/internal/services"
	"github.com/hassaanshah24/minute2.0/internal/workflow"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// TestWithMariaDB tests the workflow with a real MariaDB container
func TestWithMariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	// Start MariaDB container
	mariadbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        os.Getenv("DB_IMAGE"),
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "testdb",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	defer func() {
		if err := mariadbContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB container: %v", err)
		}
	}()

	host, err := mariadbContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := mariadbContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &config.Config{
		DBType:            "mysql",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "testdb",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 5,
		OrgPrefix:         "DHA/DSU",
	}

	// Wait for database to be ready
	time.Sleep(5 * time.Second)

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Run("FullApprovalFlow", func(t *testing.T) {
		testFullApprovalFlow(t, db, cfg)
	})

	t.Run("HealthCheck", func(t *testing.T) {
		result := services.HealthCheck(cfg, db)
		if result.Status != "healthy" {
			t.Errorf("Expected healthy, got: %s (%s)", result.Status, result.ErrorMessage)
		}
		if result.Database != "ok" {
			t.Errorf("Expected database ok, got: %s", result.Database)
		}
	})
}

// TestWithPostgreSQL tests the workflow with a real PostgreSQL container
func TestWithPostgreSQL(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        os.Getenv("POSTGRES_IMAGE"),
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_PASSWORD": "testpass",
				"POSTGRES_USER":     "testuser",
				"POSTGRES_DB":       "testdb",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	defer func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}()

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	port, err := postgresContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	cfg := &config.Config{
		DBType:            "postgres",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "testdb",
		DBUser:            "testuser",
		DBPassword:        "testpass",
		DBConnectionLimit: 5,
		OrgPrefix:         "DHA/DSU",
	}

	time.Sleep(2 * time.Second)

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	t.Run("FullApprovalFlow", func(t *testing.T) {
		testFullApprovalFlow(t, db, cfg)
	})
}

// testFullApprovalFlow exercises create, chain, submit, and a full approve
// progression on a real database with real row locking.
func testFullApprovalFlow(t *testing.T, db *gorm.DB, cfg *config.Config) {
	ctx := context.Background()
	log := zerolog.Nop()

	dept := models.Department{Name: "Integration Dept", Code: "INT"}
	if err := db.Create(&dept).Error; err != nil {
		t.Fatalf("Failed to create department: %v", err)
	}
	author := models.User{Username: "int-author", Role: models.RoleFaculty, DepartmentID: &dept.DepartmentID}
	first := models.User{Username: "int-approver-1", Role: models.RoleAdmin}
	second := models.User{Username: "int-approver-2", Role: models.RoleAdmin}
	for _, u := range []*models.User{&author, &first, &second} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("Failed to create user: %v", err)
		}
	}

	engine := workflow.NewEngine(db, log)
	minutes := services.NewMinuteService(db, cfg.OrgPrefix, log)
	chains := services.NewChainService(db, log)

	minute, err := minutes.Create(ctx, author.UserID, services.CreateMinuteInput{
		Title:       "Integration minute",
		Description: "End to end approval flow",
	})
	if err != nil {
		t.Fatalf("Failed to create minute: %v", err)
	}
	if minute.Status != models.MinuteDraft {
		t.Errorf("Expected Draft, got %s", minute.Status)
	}

	_, err = chains.Create(ctx, author.UserID, "integration-chain", &minute.MinuteID,
		[]uint64{first.UserID, second.UserID})
	if err != nil {
		t.Fatalf("Failed to create chain: %v", err)
	}

	if _, err := engine.Submit(ctx, author.UserID, minute.MinuteID, ""); err != nil {
		t.Fatalf("Failed to submit minute: %v", err)
	}

	var entry models.MinuteApproval
	err = db.Where("minute_id = ? AND current_approver = ?", minute.MinuteID, true).First(&entry).Error
	if err != nil {
		t.Fatalf("Failed to find current entry: %v", err)
	}
	if entry.ApproverID != first.UserID {
		t.Fatalf("Expected first approver current, got user %d", entry.ApproverID)
	}

	if _, err := engine.Approve(ctx, first.UserID, entry.ApprovalID, "looks fine"); err != nil {
		t.Fatalf("First approve failed: %v", err)
	}

	err = db.Where("minute_id = ? AND current_approver = ?", minute.MinuteID, true).First(&entry).Error
	if err != nil {
		t.Fatalf("Failed to find second current entry: %v", err)
	}
	if _, err := engine.Approve(ctx, second.UserID, entry.ApprovalID, ""); err != nil {
		t.Fatalf("Second approve failed: %v", err)
	}

	var final models.Minute
	if err := db.First(&final, minute.MinuteID).Error; err != nil {
		t.Fatalf("Failed to reload minute: %v", err)
	}
	if final.Status != models.MinuteApproved || !final.Archived {
		t.Errorf("Expected Approved and archived, got %s archived=%v", final.Status, final.Archived)
	}

	var logCount int64
	db.Model(&models.MinuteActionLog{}).Where("minute_id = ?", minute.MinuteID).Count(&logCount)
	if logCount != 3 {
		t.Errorf("Expected 3 action log rows (submit + 2 approves), got %d", logCount)
	}
}
