package store

import (
	"sort"
	"sync"

	"examtrack/internal/models"

	"github.com/google/uuid"
)

// Memory is an in-memory implementation of the store, used by tests in place
// of the relational one. It honors the same sentinel errors and ordering.
type Memory struct {
	mu    sync.Mutex
	users map[string]models.User
	exams map[string]models.Exam
	seq   []string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users: make(map[string]models.User),
		exams: make(map[string]models.Exam),
	}
}

func (m *Memory) CreateUser(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return ErrDuplicateUsername
		}
	}
	user.ID = uuid.New().String()
	m.users[user.ID] = *user
	return nil
}

func (m *Memory) UserByUsername(username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateExam(exam *models.Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	exam.ID = uuid.New().String()
	m.exams[exam.ID] = *exam
	m.seq = append(m.seq, exam.ID)
	return nil
}

func (m *Memory) ExamsByOwner(ownerID string) ([]models.Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var exams []models.Exam
	for _, id := range m.seq {
		if exam, ok := m.exams[id]; ok && exam.OwnerID == ownerID {
			exams = append(exams, exam)
		}
	}
	sort.SliceStable(exams, func(i, j int) bool {
		return exams[i].ExamDate.Before(exams[j].ExamDate)
	})
	return exams, nil
}

func (m *Memory) ExamByID(id string) (*models.Exam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exam, ok := m.exams[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &exam, nil
}

func (m *Memory) SaveExam(exam *models.Exam) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.exams[exam.ID]; !ok {
		return ErrNotFound
	}
	m.exams[exam.ID] = *exam
	return nil
}

func (m *Memory) DeleteExam(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.exams, id)
	return nil
}
