package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"gorm.io/gorm"

	"lms/models"
)

// RecordWatch buffers a video watch position locally and bumps the
// day's study-time rollup. The sample reaches the backend later via
// the autosave flusher.
func (s *Store) RecordWatch(courseID, lessonID string, seconds int, percentage float64) error {
	sample := models.WatchSample{
		SampleID:        uuid.NewString(),
		CourseID:        courseID,
		LessonID:        lessonID,
		WatchTime:       seconds,
		WatchPercentage: percentage,
	}
	if err := s.db.Create(&sample).Error; err != nil {
		return fmt.Errorf("failed to buffer watch sample: %w", err)
	}
	return s.bumpDailyStat(time.Now(), seconds)
}

// WatchSummary aggregates buffered samples for a lesson: total seconds
// watched and the furthest percentage reached. Feeds the
// complete-lesson payload.
func (s *Store) WatchSummary(courseID, lessonID string) (int, float64, error) {
	var samples []models.WatchSample
	if err := s.db.
		Where("course_id = ? AND lesson_id = ?", courseID, lessonID).
		Find(&samples).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to read watch samples: %w", err)
	}

	totalSeconds := 0
	maxPercentage := float64(0)
	for _, sample := range samples {
		totalSeconds += sample.WatchTime
		if sample.WatchPercentage > maxPercentage {
			maxPercentage = sample.WatchPercentage
		}
	}
	return totalSeconds, maxPercentage, nil
}

// UnflushedSamples returns buffered samples not yet shipped to the
// backend, oldest first
func (s *Store) UnflushedSamples(limit int) ([]models.WatchSample, error) {
	var samples []models.WatchSample
	if err := s.db.
		Where("flushed = ?", false).
		Order("created_at asc").
		Limit(limit).
		Find(&samples).Error; err != nil {
		return nil, fmt.Errorf("failed to read unflushed samples: %w", err)
	}
	return samples, nil
}

// MarkFlushed flags a shipped sample so it is not sent twice
func (s *Store) MarkFlushed(id uint) error {
	if err := s.db.
		Model(&models.WatchSample{}).
		Where("id = ?", id).
		Update("flushed", true).Error; err != nil {
		return fmt.Errorf("failed to mark sample flushed: %w", err)
	}
	return nil
}

// DailyWatchTime returns the accumulated study seconds for the day
// containing t
func (s *Store) DailyWatchTime(t time.Time) (int, error) {
	day := now.New(t).BeginningOfDay()

	var stat models.DailyWatchStat
	if err := s.db.Where("day = ?", day).First(&stat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read daily watch stat: %w", err)
	}
	return stat.Seconds, nil
}

// bumpDailyStat adds watched seconds into t's calendar-day bucket
func (s *Store) bumpDailyStat(t time.Time, seconds int) error {
	day := now.New(t).BeginningOfDay()

	var stat models.DailyWatchStat
	if err := s.db.Where("day = ?", day).First(&stat).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to read daily watch stat: %w", err)
		}
		stat = models.DailyWatchStat{Day: day}
	}

	stat.Seconds += seconds
	if err := s.db.Save(&stat).Error; err != nil {
		return fmt.Errorf("failed to save daily watch stat: %w", err)
	}
	return nil
}
