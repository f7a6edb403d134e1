package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lms/models"
)

// Store is the local sqlite cache: the last known progress per course,
// buffered video watch samples and daily study-time rollups
type Store struct {
	db *gorm.DB
}

// Open connects the cache file and runs migrations
func Open(dbName string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache db: %w", err)
	}

	if err := runMigrations(db); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// runMigrations performs cache schema migrations
func runMigrations(db *gorm.DB) error {
	log.Println("Running cache migrations...")

	err := db.AutoMigrate(
		&models.ProgressSnapshot{},
		&models.WatchSample{},
		&models.DailyWatchStat{},
	)
	if err != nil {
		return fmt.Errorf("cache migration failed: %w", err)
	}
	return nil
}

// SaveProgress overwrites the cached snapshot for the course with the
// server's latest Progress. The snapshot is replaced whole, never
// merged; the server stays authoritative.
func (s *Store) SaveProgress(p models.Progress) error {
	completed, err := json.Marshal(p.CompletedLessons)
	if err != nil {
		return fmt.Errorf("failed to encode completed lessons: %w", err)
	}

	var snap models.ProgressSnapshot
	if err := s.db.Where("course_id = ?", p.CourseID).First(&snap).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to read progress snapshot: %w", err)
		}
		snap = models.ProgressSnapshot{CourseID: p.CourseID}
	}

	snap.CompletedLessons = string(completed)
	snap.ProgressPercentage = p.ProgressPercentage
	if err := s.db.Save(&snap).Error; err != nil {
		return fmt.Errorf("failed to save progress snapshot: %w", err)
	}
	return nil
}

// LoadProgress returns the cached snapshot for the course, or nil when
// nothing has been cached yet
func (s *Store) LoadProgress(courseID string) (*models.Progress, error) {
	var snap models.ProgressSnapshot
	if err := s.db.Where("course_id = ?", courseID).First(&snap).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read progress snapshot: %w", err)
	}

	progress := models.Progress{
		CourseID:           snap.CourseID,
		ProgressPercentage: snap.ProgressPercentage,
	}
	if snap.CompletedLessons != "" {
		if err := json.Unmarshal([]byte(snap.CompletedLessons), &progress.CompletedLessons); err != nil {
			return nil, fmt.Errorf("failed to decode completed lessons: %w", err)
		}
	}
	return &progress, nil
}
