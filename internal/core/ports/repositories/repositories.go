package repositories

// RepositoryContainer bundles all repository implementations behind their
// ports for service wiring.
type RepositoryContainer struct {
	Account   AccountRepository
	Journal   JournalRepository
	DayBook   DayBookRepository
	Reporting ReportingRepository
}
