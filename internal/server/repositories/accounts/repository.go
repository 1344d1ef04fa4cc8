package accounts

import (
	"context"

	"github.com/dmitrijs2005/keeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, acc *models.Account) (*models.Account, error)
	GetByHandle(ctx context.Context, handle string) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
}
