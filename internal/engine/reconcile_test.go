// ABOUTME: Tests for the Orphan Reconciler.
// ABOUTME: Covers substring backing, empty active sets, and idempotence.
package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/harperreed/dose/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compound(name string) models.Compound {
	return *models.NewCompound(name)
}

func scheduleIDs(schedules []models.Schedule) []string {
	ids := make([]string, 0, len(schedules))
	for _, s := range schedules {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestReconcileRemovesUntrackedCompound(t *testing.T) {
	tirz := weekly("Tirzepatide 10mg", 1)
	bpc := weekly("BPC-157", 2)
	active := []models.Compound{compound("BPC-157 250mcg")}

	got := Reconcile([]models.Schedule{tirz, bpc}, active)

	assert.Equal(t, []string{bpc.ID}, scheduleIDs(got.Kept))
	assert.Equal(t, []string{tirz.ID}, scheduleIDs(got.Removed))
}

func TestReconcileEmptyActiveRemovesAll(t *testing.T) {
	schedules := []models.Schedule{weekly("A", 1), weekly("B", 2)}

	got := Reconcile(schedules, nil)

	assert.Empty(t, got.Kept)
	assert.NotNil(t, got.Kept)
	assert.Len(t, got.Removed, 2)
}

func TestReconcileNoSchedules(t *testing.T) {
	got := Reconcile(nil, []models.Compound{compound("A")})

	assert.Empty(t, got.Kept)
	assert.Empty(t, got.Removed)
}

func TestReconcileIsIdempotent(t *testing.T) {
	schedules := []models.Schedule{
		weekly("Tirzepatide 10mg", 1),
		weekly("BPC-157", 2),
		weekly("TB-500", 3),
		weekly("Semaglutide", 4),
	}
	active := []models.Compound{compound("bpc-157"), compound("TB-500 5mg")}

	first := Reconcile(schedules, active)
	second := Reconcile(first.Kept, active)

	assert.Equal(t, scheduleIDs(first.Kept), scheduleIDs(second.Kept))
	assert.Empty(t, second.Removed)
	for _, s := range second.Kept {
		assert.NotNil(t, MatchCompound(s.PeptideName, active), s.PeptideName)
	}
}

func TestReconcilePrefersCompoundID(t *testing.T) {
	c := compound("Tirzepatide")
	otherID := uuid.New().String()

	linked := weekly("Mounjaro", 1)
	linked.CompoundID = c.ID.String()
	stale := weekly("Tirzepatide", 2)
	stale.CompoundID = otherID
	legacy := weekly("Tirzepatide 10mg", 3)

	got := Reconcile([]models.Schedule{linked, stale, legacy}, []models.Compound{c})

	assert.Equal(t, []string{linked.ID, legacy.ID}, scheduleIDs(got.Kept))
	assert.Equal(t, []string{stale.ID}, scheduleIDs(got.Removed))
}

func TestReconcileNilCompoundIDUsesName(t *testing.T) {
	c := models.Compound{Name: "BPC-157"}
	s := weekly("BPC-157", 1)
	s.CompoundID = uuid.New().String()

	got := Reconcile([]models.Schedule{s}, []models.Compound{c})

	require.Len(t, got.Kept, 1)
}

func TestMatchCompound(t *testing.T) {
	compounds := []models.Compound{compound("BPC-157"), compound("TB-500")}

	got := MatchCompound("tb-500 5mg", compounds)
	require.NotNil(t, got)
	assert.Equal(t, "TB-500", got.Name)
	assert.Nil(t, MatchCompound("Semaglutide", compounds))
}
