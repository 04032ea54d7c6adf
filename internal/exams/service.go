package exams

import (
	"errors"
	"fmt"
	"time"

	"examtrack/internal/models"
	"examtrack/internal/store"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNotFound is returned when the referenced exam id does not exist.
	ErrNotFound = errors.New("exam not found")

	// ErrForbidden is returned when the exam exists but belongs to another
	// user. Handlers turn it into a silent redirect rather than a 403, so a
	// caller probing ids cannot tell other users' exams from nothing.
	ErrForbidden = errors.New("exam owned by another user")

	// ErrValidation is wrapped by every input validation failure.
	ErrValidation = errors.New("invalid exam")
)

// dateLayout is the calendar-date format used by forms and storage.
const dateLayout = "2006-01-02"

// Input carries the raw form fields for a create or full-overwrite update.
type Input struct {
	ExamName string
	ExamType string
	ExamDate string
	Deadline string
	Notes    string
	Link     string
}

// ExamStore is the persistence the exam service needs. Implementations signal
// misses with store.ErrNotFound.
type ExamStore interface {
	CreateExam(exam *models.Exam) error
	ExamsByOwner(ownerID string) ([]models.Exam, error)
	ExamByID(id string) (*models.Exam, error)
	SaveExam(exam *models.Exam) error
	DeleteExam(id string) error
}

// Service owns exam CRUD and the derived listing view. Every operation is
// scoped to an owner id taken from the caller's session.
type Service struct {
	store ExamStore
	log   logrus.FieldLogger
}

// NewService creates a new exam service
func NewService(st ExamStore, log logrus.FieldLogger) *Service {
	return &Service{store: st, log: log}
}

// List returns the owner's exams ascending by exam date, each with status and
// days-left computed as of today.
func (s *Service) List(ownerID string, today time.Time) ([]models.ExamView, error) {
	exams, err := s.store.ExamsByOwner(ownerID)
	if err != nil {
		return nil, err
	}

	views := make([]models.ExamView, 0, len(exams))
	for _, exam := range exams {
		views = append(views, exam.View(today))
	}
	return views, nil
}

// Create validates the input and persists a new exam for the owner.
func (s *Service) Create(ownerID string, in Input) (string, error) {
	exam, err := in.validate()
	if err != nil {
		return "", err
	}
	exam.OwnerID = ownerID

	if err := s.store.CreateExam(exam); err != nil {
		return "", err
	}
	s.log.WithFields(logrus.Fields{"exam_id": exam.ID, "owner_id": ownerID}).Info("exam created")
	return exam.ID, nil
}

// GetForEdit loads an exam for the edit form. Unknown ids are ErrNotFound;
// exams owned by someone else are ErrForbidden.
func (s *Service) GetForEdit(examID, ownerID string) (*models.Exam, error) {
	exam, err := s.store.ExamByID(examID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if exam.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return exam, nil
}

// Update overwrites all mutable fields of the exam. There are no
// partial-update semantics: every field must be resupplied.
func (s *Service) Update(examID, ownerID string, in Input) error {
	updated, err := in.validate()
	if err != nil {
		return err
	}

	exam, err := s.GetForEdit(examID, ownerID)
	if err != nil {
		return err
	}

	exam.ExamName = updated.ExamName
	exam.ExamType = updated.ExamType
	exam.ExamDate = updated.ExamDate
	exam.Deadline = updated.Deadline
	exam.Notes = updated.Notes
	exam.Link = updated.Link

	if err := s.store.SaveExam(exam); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"exam_id": examID, "owner_id": ownerID}).Info("exam updated")
	return nil
}

// Delete removes the exam if the caller owns it. A miss or an ownership
// mismatch is a silent no-op: at this interface, authorization failure is
// indistinguishable from success.
func (s *Service) Delete(examID, ownerID string) error {
	exam, err := s.store.ExamByID(examID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}
	if exam.OwnerID != ownerID {
		return nil
	}

	if err := s.store.DeleteExam(examID); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"exam_id": examID, "owner_id": ownerID}).Info("exam deleted")
	return nil
}

// validate checks required fields and parses the dates. Deadline after the
// exam date is legal: that is the caller's mistake to make, not ours to
// reject.
func (in Input) validate() (*models.Exam, error) {
	if in.ExamName == "" {
		return nil, fmt.Errorf("%w: exam name is required", ErrValidation)
	}
	if in.ExamDate == "" {
		return nil, fmt.Errorf("%w: exam date is required", ErrValidation)
	}
	if in.Deadline == "" {
		return nil, fmt.Errorf("%w: deadline is required", ErrValidation)
	}

	examDate, err := time.Parse(dateLayout, in.ExamDate)
	if err != nil {
		return nil, fmt.Errorf("%w: exam date must be a date in YYYY-MM-DD form", ErrValidation)
	}
	deadline, err := time.Parse(dateLayout, in.Deadline)
	if err != nil {
		return nil, fmt.Errorf("%w: deadline must be a date in YYYY-MM-DD form", ErrValidation)
	}

	return &models.Exam{
		ExamName: in.ExamName,
		ExamType: in.ExamType,
		ExamDate: examDate,
		Deadline: deadline,
		Notes:    in.Notes,
		Link:     in.Link,
	}, nil
}
