package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	appauth "github.com/yigit/eventsphere/internal/app/auth"
	"github.com/yigit/eventsphere/internal/app/models"
	"github.com/yigit/eventsphere/internal/app/models/dto"
	"github.com/yigit/eventsphere/internal/app/repositories"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
	"github.com/yigit/eventsphere/internal/pkg/helpers"
	"github.com/yigit/eventsphere/internal/pkg/validation"
	"golang.org/x/text/cases"
)

// StudentCSVHeader is the first line of an export
const StudentCSVHeader = "Name,Roll Number,Email,Department,Year,Course,Total Events,Attended Events"

// importColumns is the minimum number of columns an import row needs
const importColumns = 6

// StudentService handles student lookup, statistics and CSV exchange
type StudentService struct {
	repos             *repositories.Repositories
	authz             *appauth.AuthorizationService
	institutionDomain string
	now               func() time.Time
	logger            zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(repos *repositories.Repositories, authz *appauth.AuthorizationService, institutionDomain string, now func() time.Time, logger zerolog.Logger) *StudentService {
	return &StudentService{
		repos:             repos,
		authz:             authz,
		institutionDomain: institutionDomain,
		now:               now,
		logger:            logger,
	}
}

// ParticipationStats aggregates the registrations of the student with the
// given roll number. An unknown roll number yields empty stats, not an error.
func (s *StudentService) ParticipationStats(ctx context.Context, rollNumber string, admin *models.User) (*models.ParticipationStats, error) {
	if err := s.authz.Require(admin, appauth.ManageStudents); err != nil {
		return nil, err
	}

	stats := &models.ParticipationStats{Registrations: []models.Registration{}}

	student, err := s.repos.UserRepository.GetByRollNumber(ctx, strings.TrimSpace(rollNumber))
	if repositories.IsNotFound(err) {
		return stats, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load student: %w", err)
	}

	all, err := s.repos.RegistrationRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load registrations: %w", err)
	}

	now := s.now()
	public := student.Public()
	stats.Student = &public
	for _, reg := range all {
		if !strings.EqualFold(reg.StudentEmail, student.Email) {
			continue
		}
		stats.Registrations = append(stats.Registrations, reg)
		stats.TotalEvents++
		if reg.HasAttended() {
			stats.AttendedEvents++
		} else if helpers.IsAfter(reg.EventDate, now) {
			stats.UpcomingEvents++
		}
	}
	return stats, nil
}

// SearchStudents returns students matching every given filter. The query is
// a case-insensitive substring match on name, roll number, course or email.
func (s *StudentService) SearchStudents(ctx context.Context, q dto.StudentSearchQuery, admin *models.User) ([]models.User, error) {
	if err := s.authz.Require(admin, appauth.ManageStudents); err != nil {
		return nil, err
	}

	users, err := s.repos.UserRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	// Casers keep state and are not shared between calls
	fold := cases.Fold()
	query := fold.String(strings.TrimSpace(q.Query))
	students := []models.User{}
	for _, u := range users {
		if u.Role != models.RoleStudent {
			continue
		}
		if q.Department != "" && !strings.EqualFold(u.Department, q.Department) {
			continue
		}
		if q.Year != "" && u.Year != q.Year {
			continue
		}
		if query != "" && !matches(fold, &u, query) {
			continue
		}
		students = append(students, u.Public())
	}
	return students, nil
}

func matches(fold cases.Caser, u *models.User, query string) bool {
	for _, field := range []string{u.Name, u.RollNumber, u.Course, u.Email} {
		if strings.Contains(fold.String(field), query) {
			return true
		}
	}
	return false
}

// ExportStudents renders every student with their registration totals as CSV.
// Fields are written verbatim without quoting.
func (s *StudentService) ExportStudents(ctx context.Context, admin *models.User) (string, error) {
	if err := s.authz.Require(admin, appauth.ManageStudents); err != nil {
		return "", err
	}

	users, err := s.repos.UserRepository.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load users: %w", err)
	}
	regs, err := s.repos.RegistrationRepository.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load registrations: %w", err)
	}

	type totals struct{ total, attended int }
	byEmail := make(map[string]*totals)
	for _, reg := range regs {
		key := strings.ToLower(reg.StudentEmail)
		t, ok := byEmail[key]
		if !ok {
			t = &totals{}
			byEmail[key] = t
		}
		t.total++
		if reg.HasAttended() {
			t.attended++
		}
	}

	lines := []string{StudentCSVHeader}
	for _, u := range users {
		if u.Role != models.RoleStudent {
			continue
		}
		t := byEmail[strings.ToLower(u.Email)]
		if t == nil {
			t = &totals{}
		}
		lines = append(lines, strings.Join([]string{
			u.Name,
			u.RollNumber,
			u.Email,
			u.Department,
			u.Year,
			u.Course,
			strconv.Itoa(t.total),
			strconv.Itoa(t.attended),
		}, ","))
	}

	s.logger.Info().Int("students", len(lines)-1).Msg("Students exported")
	return strings.Join(lines, "\n"), nil
}

// ImportStudents creates a student for every acceptable CSV row. Rows that
// are short, use another email domain or repeat an existing email or roll
// number are skipped.
func (s *StudentService) ImportStudents(ctx context.Context, csv string, admin *models.User) (*dto.ImportResult, error) {
	if err := s.authz.Require(admin, appauth.ManageStudents); err != nil {
		return nil, err
	}

	lines := strings.Split(strings.ReplaceAll(csv, "\r\n", "\n"), "\n")
	if len(lines) == 0 || len(strings.Split(strings.TrimSpace(lines[0]), ",")) < importColumns {
		return nil, apperrors.NewValidationError(fmt.Sprintf("CSV header must have at least %d columns", importColumns))
	}

	result := &dto.ImportResult{}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		imported, err := s.importRow(ctx, strings.Split(line, ","))
		if err != nil {
			return nil, err
		}
		if imported {
			result.Imported++
		} else {
			result.Skipped++
		}
	}

	s.logger.Info().Int("imported", result.Imported).Int("skipped", result.Skipped).Msg("Students imported")
	return result, nil
}

func (s *StudentService) importRow(ctx context.Context, cols []string) (bool, error) {
	if len(cols) < importColumns {
		return false, nil
	}
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}

	student := &models.User{
		ID:         uuid.New().String(),
		Name:       cols[0],
		RollNumber: cols[1],
		Email:      strings.ToLower(cols[2]),
		Department: cols[3],
		Year:       cols[4],
		Course:     cols[5],
		Role:       models.RoleStudent,
		CreatedAt:  s.now(),
	}

	if !validation.HasInstitutionDomain(student.Email, s.institutionDomain) {
		return false, nil
	}

	if _, err := s.repos.UserRepository.GetByEmail(ctx, student.Email); err == nil {
		return false, nil
	} else if !repositories.IsNotFound(err) {
		return false, fmt.Errorf("failed to check email: %w", err)
	}

	if student.RollNumber != "" {
		if _, err := s.repos.UserRepository.GetByRollNumber(ctx, student.RollNumber); err == nil {
			return false, nil
		} else if !repositories.IsNotFound(err) {
			return false, fmt.Errorf("failed to check roll number: %w", err)
		}
	}

	if err := s.repos.UserRepository.Create(ctx, student); err != nil {
		if apperrors.Is(err, apperrors.ErrDuplicate) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create student: %w", err)
	}
	return true, nil
}
