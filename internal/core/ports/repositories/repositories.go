package repositories

// RepositoryProvider bundles all repositories for dependency injection.
type RepositoryProvider struct {
	OrderRepo       OrderRepositoryFacade
	AccountRepo     AccountRepositoryFacade
	CrewRepo        CrewRepositoryFacade
	IncassationRepo IncassationRepositoryFacade
}
