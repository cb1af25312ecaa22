package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/bookdeck/internal/domain"
	"github.com/phrazzld/bookdeck/internal/store"
)

// ExerciseStore implements the store.ExerciseStore interface using a sqlite
// database as the storage backend.
type ExerciseStore struct {
	db *sql.DB
}

// NewExerciseStore creates a sqlite implementation of the ExerciseStore interface.
func NewExerciseStore(db *sql.DB) *ExerciseStore {
	return &ExerciseStore{db: db}
}

// Ensure ExerciseStore implements store.ExerciseStore interface
var _ store.ExerciseStore = (*ExerciseStore)(nil)

// CreateMultiple implements store.ExerciseStore.CreateMultiple. All
// exercises and their questions are written in one transaction so a failure
// never leaves a partial batch behind.
func (s *ExerciseStore) CreateMultiple(ctx context.Context, exercises []*domain.Exercise) error {
	for _, exercise := range exercises {
		if err := exercise.Validate(); err != nil {
			return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, exercise := range exercises {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO exercises (id, book_id, page_number, title, instructions, extracted_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			exercise.ID.String(), exercise.BookID, exercise.PageNumber,
			exercise.Title, exercise.Instructions, exercise.ExtractedAt.Unix(),
		)
		if err != nil {
			return fmt.Errorf("failed to create exercise: %w", err)
		}

		for i, question := range exercise.Questions {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO exercise_questions (exercise_id, position, question)
				 VALUES (?, ?, ?)`,
				exercise.ID.String(), i, question,
			)
			if err != nil {
				return fmt.Errorf("failed to create exercise question: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit exercises: %w", err)
	}

	return nil
}

// ListForPage implements store.ExerciseStore.ListForPage
func (s *ExerciseStore) ListForPage(ctx context.Context, bookID string, pageNumber int) ([]*domain.Exercise, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, instructions, extracted_at FROM exercises
		 WHERE book_id = ? AND page_number = ?
		 ORDER BY extracted_at, id`,
		bookID, pageNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var exercises []*domain.Exercise
	for rows.Next() {
		var (
			idText      string
			exercise    domain.Exercise
			extractedAt int64
		)
		if err := rows.Scan(&idText, &exercise.Title, &exercise.Instructions, &extractedAt); err != nil {
			return nil, fmt.Errorf("failed to scan exercise: %w", err)
		}

		id, err := uuid.Parse(idText)
		if err != nil {
			return nil, fmt.Errorf("failed to parse exercise ID: %w", err)
		}

		exercise.ID = id
		exercise.BookID = bookID
		exercise.PageNumber = pageNumber
		exercise.ExtractedAt = time.Unix(extractedAt, 0).UTC()
		exercises = append(exercises, &exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}

	for _, exercise := range exercises {
		questions, err := s.questionsFor(ctx, exercise.ID)
		if err != nil {
			return nil, err
		}
		exercise.Questions = questions
	}

	return exercises, nil
}

func (s *ExerciseStore) questionsFor(ctx context.Context, exerciseID uuid.UUID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question FROM exercise_questions
		 WHERE exercise_id = ? ORDER BY position`,
		exerciseID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list exercise questions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var questions []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("failed to scan exercise question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list exercise questions: %w", err)
	}

	return questions, nil
}
