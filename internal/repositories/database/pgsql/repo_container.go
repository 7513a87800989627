package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/sahulatfin/microfin_backoffice/internal/core/ports/repositories"
)

// NewRepositoryContainer wires all pgsql repositories over a shared pool.
func NewRepositoryContainer(pool *pgxpool.Pool) *portsrepo.RepositoryContainer {
	return &portsrepo.RepositoryContainer{
		Account:   NewAccountRepository(pool),
		Journal:   NewJournalRepository(pool),
		DayBook:   NewDayBookRepository(pool),
		Reporting: NewReportingRepository(pool),
	}
}
