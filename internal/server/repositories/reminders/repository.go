package reminders

import (
	"context"

	"github.com/dmitrijs2005/medreminder/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, compartment int) (*models.Reminder, error)
	List(ctx context.Context) ([]*models.Reminder, error)
}
