package database

import (
	"testing"

	"orderdesk-backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestConnectEmptyDSN(t *testing.T) {
	if _, err := Connect(""); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestCloseReleasesPool(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Exec(`CREATE TABLE "order_submissions" ("id" TEXT PRIMARY KEY, "status" TEXT)`).Error; err != nil {
		t.Fatal(err)
	}

	if err := Close(db); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := db.Create(&models.OrderSubmission{Status: models.SubmissionFailed}).Error; err == nil {
		t.Error("expected writes to fail after Close")
	}
}
