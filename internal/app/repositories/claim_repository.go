package repositories

import (
	"context"

	"github.com/yigit/eventsphere/internal/app/models"
)

// ClaimRepository stores Non-CGPA claims
type ClaimRepository struct {
	store RecordStore
}

// NewClaimRepository creates a new ClaimRepository
func NewClaimRepository(store RecordStore) *ClaimRepository {
	return &ClaimRepository{store: store}
}

// Save creates or overwrites a claim
func (r *ClaimRepository) Save(ctx context.Context, claim *models.NonCGPAClaim) error {
	return putRecord(ctx, r.store, models.CollectionClaims, claim.ID, claim)
}

// Get retrieves a claim
func (r *ClaimRepository) Get(ctx context.Context, id string) (*models.NonCGPAClaim, error) {
	return getRecord[models.NonCGPAClaim](ctx, r.store, models.CollectionClaims, id)
}

// List returns all claims, optionally filtered by status
func (r *ClaimRepository) List(ctx context.Context, status models.ApprovalStatus) ([]models.NonCGPAClaim, error) {
	return r.filter(ctx, func(c *models.NonCGPAClaim) bool {
		return status == "" || c.Status == status
	})
}

// ListByStudent returns the claims filed by one student
func (r *ClaimRepository) ListByStudent(ctx context.Context, studentID string) ([]models.NonCGPAClaim, error) {
	return r.filter(ctx, func(c *models.NonCGPAClaim) bool {
		return c.StudentID == studentID
	})
}

func (r *ClaimRepository) filter(ctx context.Context, keep func(*models.NonCGPAClaim) bool) ([]models.NonCGPAClaim, error) {
	all, err := listRecords[models.NonCGPAClaim](ctx, r.store, models.CollectionClaims)
	if err != nil {
		return nil, err
	}
	out := make([]models.NonCGPAClaim, 0, len(all))
	for i := range all {
		if keep(&all[i]) {
			out = append(out, all[i])
		}
	}
	return out, nil
}
