package ui

import (
	"context"

	"github.com/nhath/ezdv/internal/config"
	"github.com/nhath/ezdv/internal/dataverse"
	"github.com/nhath/ezdv/internal/guided"
	"github.com/nhath/ezdv/internal/ui/components/entitydetail"
	"github.com/nhath/ezdv/internal/ui/components/solutionlist"
	"github.com/nhath/ezdv/internal/ui/components/userlist"
)

// Service is everything the UI needs from an environment.
// *dataverse.Client satisfies it.
type Service interface {
	guided.Executor
	entitydetail.MetadataSource
	solutionlist.Source
	userlist.Source

	EnvironmentURL() string
	Entities(ctx context.Context) ([]dataverse.EntityMetadata, error)
	Record(ctx context.Context, entitySet, id string) ([]byte, error)
	ExecuteFetchXML(ctx context.Context, fetchXML string, sets dataverse.EntitySetResolver) (dataverse.FetchResult, error)
}

// Connector builds a Service for an environment picked in the switcher.
type Connector func(env config.Environment) (Service, error)

var _ Service = (*dataverse.Client)(nil)
