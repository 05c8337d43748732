// Package tasksbridge exposes the task repository over HTTP. Every route
// sits behind the authenticate middleware; handlers read the resolved
// user id from context and pass it into owner-scoped repository calls,
// never trusting anything in the payload to name an owner.
package tasksbridge

import (
	"github.com/jrazmi/taskdeck/bridge/scaffolding/mid"
	"github.com/jrazmi/taskdeck/core/identity"
	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo"
	"github.com/jrazmi/taskdeck/infrastructure/web"
)

// Config holds configuration for the task bridge
type Config struct {
	Repository *tasksrepo.Repository
	Resolver   identity.Resolver
}

// AddHttpRoutes registers all HTTP routes for tasks
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg.Repository)

	authed := group.Group("", mid.Authenticate(cfg.Resolver))

	authed.GET("/tasks", b.httpList)
	authed.POST("/tasks", b.httpCreate)
	authed.GET("/tasks/{task_id}", b.httpGetByID)
	authed.PATCH("/tasks/{task_id}", b.httpUpdate)
	authed.DELETE("/tasks/{task_id}", b.httpDelete)
}

// bridge provides HTTP handlers for task operations.
type bridge struct {
	taskRepository *tasksrepo.Repository
}

// newBridge creates a new task bridge
func newBridge(taskRepository *tasksrepo.Repository) *bridge {
	return &bridge{
		taskRepository: taskRepository,
	}
}
