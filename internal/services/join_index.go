package services

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"

	"github.com/classpilot/analytics-service/internal/models"
)

// Narrow fetch interfaces so the index builders can be exercised without a
// database. ProgressRepository and MessageRepository satisfy them.

type progressLister interface {
	ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.StudentProgress, error)
	ListBySession(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.StudentProgress, error)
}

type messageLister interface {
	ListStudentByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uint) ([]*models.ChatMessage, error)
	ListStudentBySession(ctx context.Context, tx *gorm.DB, sessionID uint) ([]*models.ChatMessage, error)
}

// buildProgressIndex groups an assignment's progress rows by session ID in
// two phases. The first phase buckets one bulk query through the denormalized
// assignment_id column; rows for sessions outside the requested set are
// dropped. The second phase re-queries per session for every bucket the bulk
// query left empty, which also covers legacy rows with a NULL assignment_id.
//
// The result always contains exactly one key per requested session ID, so
// downstream aggregation can index it without existence checks. Sessions with
// no rows at all keep their empty bucket: the fallback query for them returns
// nothing and is harmless.
func buildProgressIndex(ctx context.Context, repo progressLister, assignmentID uint, ids []uint) (map[uint][]*models.StudentProgress, error) {
	index := make(map[uint][]*models.StudentProgress, len(ids))
	for _, id := range ids {
		index[id] = []*models.StudentProgress{}
	}

	bulk, err := repo.ListByAssignment(ctx, nil, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk fetch progress: %w", err)
	}
	for _, record := range bulk {
		if _, requested := index[record.SessionID]; requested {
			index[record.SessionID] = append(index[record.SessionID], record)
		}
	}

	var pending []uint
	for _, id := range ids {
		if len(index[id]) == 0 {
			pending = append(pending, id)
		}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, id := range pending {
		wg.Add(1)
		go func(sessionID uint) {
			defer wg.Done()
			records, err := repo.ListBySession(ctx, nil, sessionID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to fetch progress for session %d: %w", sessionID, err)
				}
				return
			}
			index[sessionID] = records
		}(id)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return index, nil
}

// buildMessageIndex is the message-side counterpart of buildProgressIndex
// with the same two-phase contract.
func buildMessageIndex(ctx context.Context, repo messageLister, assignmentID uint, ids []uint) (map[uint][]*models.ChatMessage, error) {
	index := make(map[uint][]*models.ChatMessage, len(ids))
	for _, id := range ids {
		index[id] = []*models.ChatMessage{}
	}

	bulk, err := repo.ListStudentByAssignment(ctx, nil, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to bulk fetch messages: %w", err)
	}
	for _, msg := range bulk {
		if _, requested := index[msg.SessionID]; requested {
			index[msg.SessionID] = append(index[msg.SessionID], msg)
		}
	}

	var pending []uint
	for _, id := range ids {
		if len(index[id]) == 0 {
			pending = append(pending, id)
		}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for _, id := range pending {
		wg.Add(1)
		go func(sessionID uint) {
			defer wg.Done()
			messages, err := repo.ListStudentBySession(ctx, nil, sessionID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("failed to fetch messages for session %d: %w", sessionID, err)
				}
				return
			}
			index[sessionID] = messages
		}(id)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return index, nil
}
