package medicines

import (
	"context"

	"github.com/dmitrijs2005/medreminder/internal/server/models"
)

type Repository interface {
	// Replace stores m in its compartment, atomically evicting whatever was there.
	Replace(ctx context.Context, m *models.Medicine) (*models.Medicine, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Medicine, error)
	// Decrement lowers the count of the user's medicine in compartment by one.
	// With floorAtZero a count of zero or less is left as is.
	Decrement(ctx context.Context, userID string, compartment int, floorAtZero bool) (*models.Medicine, error)
	DeleteByCompartment(ctx context.Context, compartment int) (int64, error)
}
