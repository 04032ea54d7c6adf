package store

import (
	"errors"
	"fmt"

	"examtrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sentinel errors shared by every Store implementation, including the
// in-memory fakes used in tests.
var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateUsername = errors.New("username already exists")
)

// Store persists users and exams in the relational database.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new store instance
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateUser persists a new user, assigning its id. The username conflict
// check is an exact, case-sensitive match against stored usernames.
func (s *Store) CreateUser(user *models.User) error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return ErrDuplicateUsername
	}

	user.ID = uuid.New().String()
	if err := s.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UserByUsername looks a user up by exact username.
func (s *Store) UserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// CreateExam persists a new exam, assigning its id.
func (s *Store) CreateExam(exam *models.Exam) error {
	exam.ID = uuid.New().String()
	if err := s.db.Create(exam).Error; err != nil {
		return fmt.Errorf("failed to create exam: %w", err)
	}
	return nil
}

// ExamsByOwner returns the owner's exams ordered ascending by exam date.
func (s *Store) ExamsByOwner(ownerID string) ([]models.Exam, error) {
	var exams []models.Exam
	if err := s.db.Where("owner_id = ?", ownerID).Order("exam_date ASC").Find(&exams).Error; err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}
	return exams, nil
}

// ExamByID loads a single exam regardless of owner. Callers are responsible
// for the ownership check.
func (s *Store) ExamByID(id string) (*models.Exam, error) {
	var exam models.Exam
	if err := s.db.Where("id = ?", id).First(&exam).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load exam: %w", err)
	}
	return &exam, nil
}

// SaveExam overwrites all fields of an existing exam.
func (s *Store) SaveExam(exam *models.Exam) error {
	if err := s.db.Save(exam).Error; err != nil {
		return fmt.Errorf("failed to save exam: %w", err)
	}
	return nil
}

// DeleteExam removes an exam by id.
func (s *Store) DeleteExam(id string) error {
	if err := s.db.Where("id = ?", id).Delete(&models.Exam{}).Error; err != nil {
		return fmt.Errorf("failed to delete exam: %w", err)
	}
	return nil
}
