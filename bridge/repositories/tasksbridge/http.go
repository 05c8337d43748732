package tasksbridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/jrazmi/taskdeck/bridge/scaffolding/errs"
	"github.com/jrazmi/taskdeck/bridge/scaffolding/mid"
	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo"
	"github.com/jrazmi/taskdeck/infrastructure/web"
)

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.Newf(errs.Unauthenticated, "unauthorized")
	}

	tasks, err := b.taskRepository.List(ctx, userID)
	if err != nil {
		return errs.Newf(errs.InternalOnlyLog, "list tasks: %s", err)
	}

	return web.NewJSONResponse(MarshalListToBridge(tasks))
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.Newf(errs.Unauthenticated, "unauthorized")
	}

	var input CreateTaskInput
	if err := web.Decode(r, &input); err != nil {
		return errs.Newf(errs.InvalidArgument, "decode: %s", err)
	}

	task, err := b.taskRepository.Create(ctx, userID, MarshalCreateToRepository(input))
	if err != nil {
		if errors.Is(err, tasksrepo.ErrInvalidTitle) {
			return errs.New(errs.InvalidArgument, tasksrepo.ErrInvalidTitle)
		}
		return errs.Newf(errs.InternalOnlyLog, "create task: %s", err)
	}

	return web.NewJSONResponseWithStatus(MarshalToBridge(task), http.StatusCreated)
}

func (b *bridge) httpGetByID(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.Newf(errs.Unauthenticated, "unauthorized")
	}

	taskID := web.Param(r, "task_id")

	task, err := b.taskRepository.GetByID(ctx, taskID, userID)
	if err != nil {
		if errors.Is(err, tasksrepo.ErrNotFound) {
			return errs.Newf(errs.NotFound, "task not found")
		}
		return errs.Newf(errs.InternalOnlyLog, "get task: %s", err)
	}

	return web.NewJSONResponse(MarshalToBridge(task))
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.Newf(errs.Unauthenticated, "unauthorized")
	}

	taskID := web.Param(r, "task_id")

	// An absent body is treated as the empty patch: a no-op that still
	// 404s when the task is not the caller's.
	var input UpdateTaskInput
	if err := web.Decode(r, &input); err != nil && !errors.Is(err, web.ErrEmptyBody) {
		return errs.Newf(errs.InvalidArgument, "decode: %s", err)
	}

	if err := b.taskRepository.Update(ctx, taskID, userID, MarshalUpdateToRepository(input)); err != nil {
		switch {
		case errors.Is(err, tasksrepo.ErrNotFound):
			return errs.Newf(errs.NotFound, "task not found")
		case errors.Is(err, tasksrepo.ErrInvalidTitle):
			return errs.New(errs.InvalidArgument, tasksrepo.ErrInvalidTitle)
		default:
			return errs.Newf(errs.InternalOnlyLog, "update task: %s", err)
		}
	}

	return web.NewJSONResponse(SuccessResponse{Success: true})
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.Newf(errs.Unauthenticated, "unauthorized")
	}

	taskID := web.Param(r, "task_id")

	if err := b.taskRepository.Delete(ctx, taskID, userID); err != nil {
		if errors.Is(err, tasksrepo.ErrNotFound) {
			return errs.Newf(errs.NotFound, "task not found")
		}
		return errs.Newf(errs.InternalOnlyLog, "delete task: %s", err)
	}

	return web.NewJSONResponse(SuccessResponse{Success: true})
}
