package repositories

// Repositories holds all the repository instances over one record store
type Repositories struct {
	Store                  RecordStore
	UserRepository         *UserRepository
	EventRepository        *EventRepository
	RegistrationRepository *RegistrationRepository
	ClaimRepository        *ClaimRepository
}

// NewRepositories initializes all repositories
func NewRepositories(store RecordStore) *Repositories {
	return &Repositories{
		Store:                  store,
		UserRepository:         NewUserRepository(store),
		EventRepository:        NewEventRepository(store),
		RegistrationRepository: NewRegistrationRepository(store),
		ClaimRepository:        NewClaimRepository(store),
	}
}
