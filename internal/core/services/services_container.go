package services

import (
	portsrepo "github.com/sahulatfin/microfin_backoffice/internal/core/ports/repositories"
	portssvc "github.com/sahulatfin/microfin_backoffice/internal/core/ports/services"
)

// ServicesContainer bundles all core services for handler registration.
type ServicesContainer struct {
	Account   portssvc.AccountService
	Journal   portssvc.JournalService
	DayBook   portssvc.DayBookService
	Reporting portssvc.ReportingService
	Loan      portssvc.LoanService
}

// NewServicesContainer wires the services over the repository container.
func NewServicesContainer(repos *portsrepo.RepositoryContainer) *ServicesContainer {
	return &ServicesContainer{
		Account:   NewAccountService(repos.Account),
		Journal:   NewJournalService(repos.Journal, repos.Account),
		DayBook:   NewDayBookService(repos.DayBook, repos.Account),
		Reporting: NewReportingService(repos.Reporting),
		Loan:      NewLoanService(),
	}
}
