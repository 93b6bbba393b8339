package tracking

import (
	"context"

	"github.com/google/uuid"

	"github.com/mosaicintel/mosaic/pkg/pagination"
)

// System defines the public contract for run tracking operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Run], error)

	Find(ctx context.Context, id uuid.UUID) (*Run, error)
	Record(ctx context.Context, run Run) (*Run, error)
}
