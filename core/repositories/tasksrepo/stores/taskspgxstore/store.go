// Package taskspgxstore provides postgres access for tasks. Every
// statement's WHERE clause carries both the task id and the owner id, so
// the ownership check and the operation are one atomic step; there is no
// read-check-mutate window anywhere in this package.
package taskspgxstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo"
	"github.com/jrazmi/taskdeck/infrastructure/postgresdb"
	"github.com/jrazmi/taskdeck/sdk/logger"
)

type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

func (s *Store) List(ctx context.Context, ownerID string) ([]tasksrepo.Task, error) {
	query := `SELECT task_id, owner_id, title, description, completed, created_at, seq
		FROM tasks
		WHERE owner_id = @owner_id
		ORDER BY created_at DESC, seq DESC`

	args := pgx.NamedArgs{"owner_id": ownerID}
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	sl, err := pgx.CollectRows(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}

	return sl, nil
}

func (s *Store) GetByID(ctx context.Context, taskID string, ownerID string) (tasksrepo.Task, error) {
	query := `SELECT task_id, owner_id, title, description, completed, created_at, seq
		FROM tasks
		WHERE task_id = @task_id AND owner_id = @owner_id`

	args := pgx.NamedArgs{
		"task_id":  taskID,
		"owner_id": ownerID,
	}

	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	task, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return tasksrepo.Task{}, tasksrepo.ErrNotFound
		}
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}

	return task, nil
}

func (s *Store) Create(ctx context.Context, task tasksrepo.Task) (tasksrepo.Task, error) {
	query := `INSERT INTO tasks (task_id, owner_id, title, description, completed, created_at)
		VALUES (@task_id, @owner_id, @title, @description, @completed, @created_at)
		RETURNING task_id, owner_id, title, description, completed, created_at, seq`

	args := pgx.NamedArgs{
		"task_id":     task.TaskID,
		"owner_id":    task.OwnerID,
		"title":       task.Title,
		"description": task.Description,
		"completed":   task.Completed,
		"created_at":  task.CreatedAt,
	}

	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[tasksrepo.Task])
	if err != nil {
		return tasksrepo.Task{}, postgresdb.HandlePgError(err)
	}

	return created, nil
}

// Update builds the SET list from the non-nil patch fields only, so
// concurrent patches touching disjoint fields never clobber each other.
// Returns the number of rows that matched both predicates.
func (s *Store) Update(ctx context.Context, taskID string, ownerID string, update tasksrepo.UpdateTask) (int64, error) {
	sets := make([]string, 0, 3)
	args := pgx.NamedArgs{
		"task_id":  taskID,
		"owner_id": ownerID,
	}

	if update.Title != nil {
		sets = append(sets, "title = @title")
		args["title"] = *update.Title
	}
	if update.Description != nil {
		sets = append(sets, "description = @description")
		args["description"] = *update.Description
	}
	if update.Completed != nil {
		sets = append(sets, "completed = @completed")
		args["completed"] = *update.Completed
	}

	if len(sets) == 0 {
		return 0, fmt.Errorf("update tasks: empty patch")
	}

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE task_id = @task_id AND owner_id = @owner_id`, strings.Join(sets, ", "))

	tag, err := s.pool.Exec(ctx, query, args)
	if err != nil {
		return 0, postgresdb.HandlePgError(err)
	}

	return tag.RowsAffected(), nil
}

func (s *Store) Delete(ctx context.Context, taskID string, ownerID string) (int64, error) {
	query := `DELETE FROM tasks
		WHERE task_id = @task_id AND owner_id = @owner_id`

	args := pgx.NamedArgs{
		"task_id":  taskID,
		"owner_id": ownerID,
	}

	tag, err := s.pool.Exec(ctx, query, args)
	if err != nil {
		return 0, postgresdb.HandlePgError(err)
	}

	return tag.RowsAffected(), nil
}
