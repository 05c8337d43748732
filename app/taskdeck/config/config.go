package config

import (
	"github.com/jrazmi/taskdeck/core/identity"
	"github.com/jrazmi/taskdeck/core/repositories/tasksrepo"
	"github.com/jrazmi/taskdeck/sdk/logger"
	"github.com/jrazmi/taskdeck/sdk/telemetry"
)

// site wide globals.
const (
	ApiRoute = "/api"
)

// Repositories represents the specific repositories that this instance
// of taskdeck needs.
type Repositories struct {
	Tasks *tasksrepo.Repository
}

// Taskdeck is the overall configuration for the taskdeck application.
type Taskdeck struct {
	Build  string
	Logger *logger.Logger

	Repositories Repositories
	Resolver     identity.Resolver
	Telemetry    telemetry.Telemetry
}
