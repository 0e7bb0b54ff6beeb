package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/eventsphere/internal/app/models"
	"github.com/yigit/eventsphere/internal/app/models/dto"
	"github.com/yigit/eventsphere/internal/pkg/apperrors"
	"github.com/yigit/eventsphere/internal/pkg/documents"
	"github.com/yigit/eventsphere/internal/pkg/notify"
)

func pngDocument(t *testing.T, w, h int) string {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{G: 120, B: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestCreateClaim(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	student := f.student(t, "s1", "s1@klu.ac.in", "R1")

	claim, err := f.svc.ClaimService.CreateClaim(ctx, &dto.CreateClaimRequest{
		Description: "Won the inter-college hackathon",
		Documents:   []string{pngDocument(t, 256, 128)},
	}, student)
	require.NoError(t, err)
	assert.Equal(t, DefaultClaimReason, claim.Reason)
	assert.Equal(t, models.ApprovalPending, claim.Status)
	assert.Equal(t, "R1", claim.RollNumber)
	assert.Equal(t, testNow, claim.CreatedAt)

	require.Len(t, claim.Documents, 1)
	doc, err := documents.ParseDataURL(claim.Documents[0])
	require.NoError(t, err)
	img, err := imaging.Decode(bytes.NewReader(doc.Data))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())

	_, err = f.svc.ClaimService.CreateClaim(ctx, &dto.CreateClaimRequest{Description: "  "}, student)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.ClaimService.CreateClaim(ctx, &dto.CreateClaimRequest{Description: "x", Documents: []string{"data:text/plain;base64,aGk="}}, student)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.ClaimService.CreateClaim(ctx, &dto.CreateClaimRequest{Description: "x"}, &models.User{ID: "ghost"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	mine, err := f.svc.ClaimService.MyClaims(ctx, student)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestReviewClaim(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	student := f.student(t, "s1", "s1@klu.ac.in", "R1")

	claim, err := f.svc.ClaimService.CreateClaim(ctx, &dto.CreateClaimRequest{Reason: "Sports", Description: "State level athletics"}, student)
	require.NoError(t, err)
	assert.Equal(t, []string{}, claim.Documents)

	_, err = f.svc.ClaimService.ReviewClaim(ctx, claim.ID, models.ApprovalApproved, "", student)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.svc.ClaimService.ReviewClaim(ctx, claim.ID, models.ApprovalPending, "", f.admin)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.ClaimService.ReviewClaim(ctx, "missing", models.ApprovalApproved, "", f.admin)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	reviewed, err := f.svc.ClaimService.ReviewClaim(ctx, claim.ID, models.ApprovalRejected, "Need certificate", f.admin)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalRejected, reviewed.Status)
	assert.Equal(t, "admin-1", reviewed.ReviewedBy)
	assert.Equal(t, "Need certificate", reviewed.AdminComments)
	require.NotNil(t, reviewed.ReviewedAt)

	reviewed, err = f.svc.ClaimService.ReviewClaim(ctx, claim.ID, models.ApprovalApproved, "Certificate received", f.admin)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalApproved, reviewed.Status)

	approved, err := f.svc.ClaimService.ListClaims(ctx, models.ApprovalApproved, f.admin)
	require.NoError(t, err)
	assert.Len(t, approved, 1)

	pending, err := f.svc.ClaimService.ListClaims(ctx, models.ApprovalPending, f.admin)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = f.svc.ClaimService.ListClaims(ctx, "bogus", f.admin)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.Equal(t, []notify.Kind{notify.ClaimSubmitted, notify.ClaimReviewed, notify.ClaimReviewed}, f.recorder.Kinds())
}
