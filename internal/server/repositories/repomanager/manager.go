package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/medreminder/internal/dbx"
	"github.com/dmitrijs2005/medreminder/internal/server/repositories/medicines"
	"github.com/dmitrijs2005/medreminder/internal/server/repositories/reminders"
	"github.com/dmitrijs2005/medreminder/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can hand
// either the pool or a transaction to the same constructors.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Medicines(db dbx.DBTX) medicines.Repository
	Reminders(db dbx.DBTX) reminders.Repository
}
