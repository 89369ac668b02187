package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/classpilot/analytics-service/internal/models"
	"github.com/classpilot/analytics-service/internal/repositories"
)

// fakeRepository is an in-memory repositories.Repository for service tests.
// Lookup maps are keyed the way the postgres layer would query them; session
// lists are pre-filtered to countable sessions like the real queries are.
type fakeRepository struct {
	classes            map[uint]*models.Class
	assignments        map[uint]*models.Assignment
	assignmentsByClass map[uint][]*models.Assignment
	questions          map[uint][]*models.Question
	sessions           map[uint][]*models.StudentSession
	sessionByID        map[uint]*models.StudentSession
	progress           map[uint][]*models.StudentProgress
	progressBySession  map[uint][]*models.StudentProgress
	messages           map[uint][]*models.ChatMessage
	messagesBySession  map[uint][]*models.ChatMessage
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		classes:            make(map[uint]*models.Class),
		assignments:        make(map[uint]*models.Assignment),
		assignmentsByClass: make(map[uint][]*models.Assignment),
		questions:          make(map[uint][]*models.Question),
		sessions:           make(map[uint][]*models.StudentSession),
		sessionByID:        make(map[uint]*models.StudentSession),
		progress:           make(map[uint][]*models.StudentProgress),
		progressBySession:  make(map[uint][]*models.StudentProgress),
		messages:           make(map[uint][]*models.ChatMessage),
		messagesBySession:  make(map[uint][]*models.ChatMessage),
	}
}

func (r *fakeRepository) addClass(class *models.Class) {
	r.classes[class.ID] = class
}

func (r *fakeRepository) addAssignment(assignment *models.Assignment) {
	r.assignments[assignment.ID] = assignment
	r.assignmentsByClass[assignment.ClassID] = append(r.assignmentsByClass[assignment.ClassID], assignment)
}

func (r *fakeRepository) addSession(session *models.StudentSession) {
	r.sessions[session.AssignmentID] = append(r.sessions[session.AssignmentID], session)
	r.sessionByID[session.ID] = session
}

func (r *fakeRepository) addProgress(assignmentID uint, record *models.StudentProgress) {
	record.AssignmentID = &assignmentID
	r.progress[assignmentID] = append(r.progress[assignmentID], record)
	r.progressBySession[record.SessionID] = append(r.progressBySession[record.SessionID], record)
}

func (r *fakeRepository) addMessage(assignmentID uint, msg *models.ChatMessage) {
	msg.AssignmentID = &assignmentID
	msg.Role = models.MessageRoleStudent
	r.messages[assignmentID] = append(r.messages[assignmentID], msg)
	r.messagesBySession[msg.SessionID] = append(r.messagesBySession[msg.SessionID], msg)
}

// Repository interface

func (r *fakeRepository) Class() repositories.ClassRepository         { return &fakeClassRepo{r} }
func (r *fakeRepository) Assignment() repositories.AssignmentRepository {
	return &fakeAssignmentRepo{r}
}
func (r *fakeRepository) Question() repositories.QuestionRepository { return &fakeQuestionRepo{r} }
func (r *fakeRepository) Session() repositories.SessionRepository   { return &fakeSessionRepo{r} }
func (r *fakeRepository) Progress() repositories.ProgressRepository { return &fakeProgressRepo{r} }
func (r *fakeRepository) Message() repositories.MessageRepository   { return &fakeMessageRepo{r} }
func (r *fakeRepository) User() repositories.UserRepository         { return nil }

func (r *fakeRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(r)
}

func (r *fakeRepository) Ping(ctx context.Context) error { return nil }
func (r *fakeRepository) Close() error                   { return nil }

// Sub-repositories

type fakeClassRepo struct{ r *fakeRepository }

func (f *fakeClassRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Class, error) {
	class, ok := f.r.classes[id]
	if !ok {
		return nil, fmt.Errorf("class not found with ID %d: %w", id, gorm.ErrRecordNotFound)
	}
	return class, nil
}

func (f *fakeClassRepo) GetByTeacher(ctx context.Context, tx *gorm.DB, teacherID string) ([]*models.Class, error) {
	var classes []*models.Class
	for _, class := range f.r.classes {
		if class.TeacherID == teacherID {
			classes = append(classes, class)
		}
	}
	return classes, nil
}

func (f *fakeClassRepo) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	_, ok := f.r.classes[id]
	return ok, nil
}

func (f *fakeClassRepo) IsOwnedBy(ctx context.Context, tx *gorm.DB, id uint, teacherID string) (bool, error) {
	class, ok := f.r.classes[id]
	return ok && class.TeacherID == teacherID, nil
}

type fakeAssignmentRepo struct{ r *fakeRepository }

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) {
	assignment, ok := f.r.assignments[id]
	if !ok {
		return nil, fmt.Errorf("assignment not found with ID %d: %w", id, gorm.ErrRecordNotFound)
	}
	return assignment, nil
}

func (f *fakeAssignmentRepo) GetByIDWithClass(ctx context.Context, tx *gorm.DB, id uint) (*models.Assignment, error) {
	assignment, err := f.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if assignment.Class == nil {
		assignment.Class = f.r.classes[assignment.ClassID]
	}
	return assignment, nil
}

func (f *fakeAssignmentRepo) ListByClass(ctx context.Context, tx *gorm.DB, classID uint, filters repositories.AssignmentFilters) ([]*models.Assignment, error) {
	return f.r.assignmentsByClass[classID], nil
}

func (f *fakeAssignmentRepo) CountByClass(ctx context.Context, tx *gorm.DB, classID uint, filters repositories.AssignmentFilters) (int64, error) {
	return int64(len(f.r.assignmentsByClass[classID])), nil
}

type fakeQuestionRepo struct{ r *fakeRepository }

func (f *fakeQuestionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Question, error) {
	for _, questions := range f.r.questions {
		for _, question := range questions {
			if question.ID == id {
				return question, nil
			}
		}
	}
	return nil, fmt.Errorf("question not found with ID %d: %w", id, gorm.ErrRecordNotFound)
}

func (f *fakeQuestionRepo) ListCountable(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.Question, error) {
	return f.r.questions[assignmentID], nil
}

func (f *fakeQuestionRepo) CountCountable(ctx context.Context, tx *gorm.DB, assignmentID uint) (int64, error) {
	return int64(len(f.r.questions[assignmentID])), nil
}

func (f *fakeQuestionRepo) ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.Question, error) {
	return f.r.questions[assignmentID], nil
}

type fakeSessionRepo struct{ r *fakeRepository }

func (f *fakeSessionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentSession, error) {
	session, ok := f.r.sessionByID[id]
	if !ok {
		return nil, fmt.Errorf("session not found with ID %d: %w", id, gorm.ErrRecordNotFound)
	}
	return session, nil
}

func (f *fakeSessionRepo) ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint, filters repositories.SessionFilters) ([]*models.StudentSession, error) {
	sessions := f.r.sessions[assignmentID]
	if filters.IncludePreviews {
		return sessions, nil
	}
	return CountableSessions(sessions), nil
}

func (f *fakeSessionRepo) ListByAssignments(ctx context.Context, tx *gorm.DB, assignmentIDs []uint, filters repositories.SessionFilters) ([]*models.StudentSession, error) {
	var all []*models.StudentSession
	for _, id := range assignmentIDs {
		sessions, err := f.ListByAssignment(ctx, tx, id, filters)
		if err != nil {
			return nil, err
		}
		all = append(all, sessions...)
	}
	return all, nil
}

func (f *fakeSessionRepo) CountByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint, filters repositories.SessionFilters) (int64, error) {
	sessions, err := f.ListByAssignment(ctx, tx, assignmentID, filters)
	if err != nil {
		return 0, err
	}
	return int64(len(sessions)), nil
}

type fakeProgressRepo struct{ r *fakeRepository }

func (f *fakeProgressRepo) ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.StudentProgress, error) {
	return f.r.progress[assignmentID], nil
}

func (f *fakeProgressRepo) ListBySession(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.StudentProgress, error) {
	return f.r.progressBySession[sessionID], nil
}

type fakeMessageRepo struct{ r *fakeRepository }

func (f *fakeMessageRepo) ListStudentByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.ChatMessage, error) {
	return f.r.messages[assignmentID], nil
}

func (f *fakeMessageRepo) ListStudentBySession(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.ChatMessage, error) {
	return f.r.messagesBySession[sessionID], nil
}
