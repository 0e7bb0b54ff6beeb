package services

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/eventsphere/internal/app/auth"
	"github.com/yigit/eventsphere/internal/app/repositories"
	"github.com/yigit/eventsphere/internal/pkg/documents"
	"github.com/yigit/eventsphere/internal/pkg/auth"
	"github.com/yigit/eventsphere/internal/pkg/notify"
)

// Deps are the collaborators shared by all services
type Deps struct {
	Repos              *repositories.Repositories
	Authz              *appauth.AuthorizationService
	JWT                *auth.JWTService
	Notifier           *notify.Dispatcher
	Documents          *documents.Normalizer
	InstitutionDomain  string
	LegacyEmailDomains []string
	Logger             zerolog.Logger
	// Now defaults to time.Now
	Now func() time.Time
}

// Services holds all service instances
type Services struct {
	AuthService         *AuthService
	EventService        *EventService
	RegistrationService *RegistrationService
	ClaimService        *ClaimService
	StudentService      *StudentService
	MaintenanceService  *MaintenanceService
}

// NewServices wires every service. Event and registration writes share one
// lock so capacity checks and the writes that follow them are atomic.
func NewServices(d Deps) *Services {
	if d.Now == nil {
		d.Now = time.Now
	}
	lock := &sync.Mutex{}

	return &Services{
		AuthService:         NewAuthService(d.Repos.UserRepository, d.JWT, d.InstitutionDomain, d.Now, d.Logger),
		EventService:        NewEventService(d.Repos, d.Authz, d.Notifier, lock, d.Now, d.Logger),
		RegistrationService: NewRegistrationService(d.Repos, d.Authz, d.Notifier, lock, d.InstitutionDomain, d.Now, d.Logger),
		ClaimService:        NewClaimService(d.Repos, d.Authz, d.Documents, d.Notifier, d.Now, d.Logger),
		StudentService:      NewStudentService(d.Repos, d.Authz, d.InstitutionDomain, d.Now, d.Logger),
		MaintenanceService:  NewMaintenanceService(d.Repos, d.Authz, lock, d.InstitutionDomain, d.LegacyEmailDomains, d.Now, d.Logger),
	}
}
