package commercial

import (
	"context"

	"github.com/warp/commission-engine/generic"
)

// Store persists commercial activities.
//
// Stores never hold an eligibility flag. Callers load the complete period
// with ListByPeriod after any mutation and run Evaluate on the result.
type Store interface {
	SaveCommercial(ctx context.Context, a Activity) error
	GetCommercial(ctx context.Context, id generic.RecordID) (*Activity, error)
	DeleteCommercial(ctx context.Context, id generic.RecordID) error

	// ListCommercialByPeriod returns one salesperson's activities of a month.
	ListCommercialByPeriod(ctx context.Context, salesperson generic.SalespersonID, period generic.Period) ([]Activity, error)

	// ListCommercialByYear returns one salesperson's activities of a year.
	ListCommercialByYear(ctx context.Context, salesperson generic.SalespersonID, year int) ([]Activity, error)
}
