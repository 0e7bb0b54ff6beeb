package services

import (
	"context"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/eventsphere/internal/app/models"
	"github.com/yigit/eventsphere/internal/app/models/dto"
	"github.com/yigit/eventsphere/internal/app/repositories"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
)

// participation registers s1 for three events, one in the past, and marks
// the first as attended
func participation(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	f.student(t, "s1", "s1@klu.ac.in", "R1")
	f.student(t, "s2", "s2@klu.ac.in", "R2")
	f.event(t, "e1", 5)
	past := f.event(t, "e2", 5)
	past.Date = "2025-01-10"
	require.NoError(t, f.repos.EventRepository.Save(ctx, past))
	f.event(t, "e3", 5)

	var first *models.Registration
	for _, id := range []string{"e1", "e2", "e3"} {
		reg, err := f.svc.RegistrationService.RegisterForEvent(ctx, id, "s1")
		require.NoError(t, err)
		if first == nil {
			first = reg
		}
	}
	_, err := f.svc.RegistrationService.UpdateAttendance(ctx, first.ID, true, f.admin)
	require.NoError(t, err)
}

func TestParticipationStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	participation(t, f)

	stats, err := f.svc.StudentService.ParticipationStats(ctx, "R1", f.admin)
	require.NoError(t, err)
	require.NotNil(t, stats.Student)
	assert.Equal(t, "s1", stats.Student.ID)
	assert.Empty(t, stats.Student.PasswordHash)
	assert.Equal(t, 3, stats.TotalEvents)
	assert.Equal(t, 1, stats.AttendedEvents)
	assert.Equal(t, 1, stats.UpcomingEvents)
	assert.Len(t, stats.Registrations, 3)
}

func TestParticipationStats_UnknownRollNumber(t *testing.T) {
	f := newFixture(t)

	stats, err := f.svc.StudentService.ParticipationStats(context.Background(), "NOPE", f.admin)
	require.NoError(t, err)
	assert.Nil(t, stats.Student)
	assert.Zero(t, stats.TotalEvents)
	assert.Zero(t, stats.AttendedEvents)
	assert.Zero(t, stats.UpcomingEvents)
	assert.Empty(t, stats.Registrations)
}

func TestSearchStudents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.student(t, "s1", "s1@klu.ac.in", "CS21001")
	other := &models.User{ID: "s2", Name: "Straße Müller", Email: "mueller@klu.ac.in", Role: models.RoleStudent, RollNumber: "ME22002", Department: "Mechanical", Year: "2"}
	require.NoError(t, f.repos.UserRepository.Create(ctx, other))

	tests := []struct {
		name  string
		query dto.StudentSearchQuery
		want  []string
	}{
		{"all", dto.StudentSearchQuery{}, []string{"s1", "s2"}},
		{"roll number", dto.StudentSearchQuery{Query: "cs21"}, []string{"s1"}},
		{"case folded name", dto.StudentSearchQuery{Query: "STRASSE"}, []string{"s2"}},
		{"department", dto.StudentSearchQuery{Department: "mechanical"}, []string{"s2"}},
		{"year", dto.StudentSearchQuery{Year: "3"}, []string{"s1"}},
		{"no match", dto.StudentSearchQuery{Query: "zzz"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.StudentService.SearchStudents(ctx, tt.query, f.admin)
			require.NoError(t, err)
			ids := []string{}
			for _, u := range got {
				ids = append(ids, u.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}

	_, err := f.svc.StudentService.SearchStudents(ctx, dto.StudentSearchQuery{}, other)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestExportStudents(t *testing.T) {
	f := newFixture(t)
	participation(t, f)

	csv, err := f.svc.StudentService.ExportStudents(context.Background(), f.admin)
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "students_export", []byte(csv))
}

func TestImportStudents(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.student(t, "existing", "taken@klu.ac.in", "R9")

	csv := strings.Join([]string{
		"Name,Roll Number,Email,Department,Year,Course",
		"Asha,R1,asha@klu.ac.in,CSE,2,B.Tech",
		"",
		"Short,R2,short@klu.ac.in",
		"Outsider,R3,out@gmail.com,CSE,2,B.Tech",
		"Taken Email,R4,TAKEN@klu.ac.in,CSE,2,B.Tech",
		"Taken Roll,R9,new@klu.ac.in,CSE,2,B.Tech",
		"Repeat Roll,R1,other@klu.ac.in,CSE,2,B.Tech",
		"No Roll,,noroll@klu.ac.in,ECE,1,B.Tech",
		"  Ravi , R5 , ravi@klu.ac.in , EEE , 4 , B.Tech  ",
	}, "\r\n")

	res, err := f.svc.StudentService.ImportStudents(ctx, csv, f.admin)
	require.NoError(t, err)
	assert.Equal(t, &dto.ImportResult{Imported: 3, Skipped: 5}, res)

	ravi, err := f.repos.UserRepository.GetByRollNumber(ctx, "R5")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", ravi.Name)
	assert.Equal(t, "ravi@klu.ac.in", ravi.Email)
	assert.Equal(t, models.RoleStudent, ravi.Role)
	assert.Equal(t, "B.Tech", ravi.Course)

	_, err = f.svc.StudentService.ImportStudents(ctx, "Name,Email\nA,a@klu.ac.in", f.admin)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newFixture(t)
	participation(t, src)

	csv, err := src.svc.StudentService.ExportStudents(ctx, src.admin)
	require.NoError(t, err)

	dst := newFixture(t)
	res, err := dst.svc.StudentService.ImportStudents(ctx, csv, dst.admin)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Imported)
	assert.Zero(t, res.Skipped)

	want := studentFields(t, src.repos)
	got := studentFields(t, dst.repos)
	assert.Equal(t, want, got)
}

func studentFields(t *testing.T, repos *repositories.Repositories) [][]string {
	t.Helper()
	users, err := repos.UserRepository.List(context.Background())
	require.NoError(t, err)
	var out [][]string
	for _, u := range users {
		if u.Role == models.RoleStudent {
			out = append(out, []string{u.Name, u.RollNumber, u.Email, u.Department, u.Year, u.Course})
		}
	}
	return out
}
