package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"biostack/internal/db/mock"
	"biostack/models"
)

func newTestStore(t *testing.T) (*Gorm, *models.User) {
	t.Helper()
	db, err := mock.New(context.Background())
	if err != nil {
		t.Fatalf("mock.New returned error: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	user := &models.User{}
	if err := db.Where("email = ?", "riley@biostack.app").First(user).Error; err != nil {
		t.Fatalf("seeded user not found: %v", err)
	}
	return New(db), user
}

func TestLogsWindowAndOrdering(t *testing.T) {
	s, user := newTestStore(t)
	ctx := context.Background()

	end := time.Now().UTC()
	start := end.Add(-24 * time.Hour)
	logs, err := s.Logs(ctx, user.ID, start, end)
	if err != nil {
		t.Fatalf("Logs returned error: %v", err)
	}
	if len(logs) == 0 {
		t.Fatal("expected seeded logs inside the window")
	}
	for i := 1; i < len(logs); i++ {
		if logs[i].LoggedAt.Before(logs[i-1].LoggedAt) {
			t.Fatal("expected logs sorted oldest first")
		}
	}

	// A window in the far past excludes everything.
	past, err := s.Logs(ctx, user.ID, end.Add(-72*time.Hour), end.Add(-48*time.Hour))
	if err != nil {
		t.Fatalf("Logs returned error: %v", err)
	}
	if len(past) != 0 {
		t.Errorf("expected empty window, got %d logs", len(past))
	}
}

func TestProfilesToleratesUnknownIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	all, err := s.AllProfiles(ctx)
	if err != nil {
		t.Fatalf("AllProfiles returned error: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("expected a seeded catalog")
	}

	unknown := uuid.New()
	lookup, err := s.Profiles(ctx, []uuid.UUID{all[0].ID, unknown})
	if err != nil {
		t.Fatalf("Profiles returned error: %v", err)
	}
	if _, ok := lookup[all[0].ID]; !ok {
		t.Error("expected known id in lookup")
	}
	if _, ok := lookup[unknown]; ok {
		t.Error("unknown id should be absent, not an error")
	}

	empty, err := s.Profiles(ctx, nil)
	if err != nil {
		t.Fatalf("Profiles returned error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty map for no ids, got %d entries", len(empty))
	}
}

func TestAppendLogRoundTrip(t *testing.T) {
	s, user := newTestStore(t)
	ctx := context.Background()

	var zinc models.SupplementProfile
	profiles, err := s.AllProfiles(ctx)
	if err != nil {
		t.Fatalf("AllProfiles returned error: %v", err)
	}
	for _, p := range profiles {
		if p.Name == "Zinc Picolinate" {
			zinc = p
		}
	}
	if zinc.ID == uuid.Nil {
		t.Fatal("seeded zinc profile not found")
	}

	entry := &models.IntakeLog{
		UserID:       user.ID,
		SupplementID: zinc.ID,
		Dosage:       15,
		Unit:         models.UnitMG,
		LoggedAt:     time.Now().UTC(),
	}
	if err := s.AppendLog(ctx, entry); err != nil {
		t.Fatalf("AppendLog returned error: %v", err)
	}
	if entry.ID == uuid.Nil {
		t.Fatal("expected a generated log id")
	}

	end := time.Now().UTC().Add(time.Minute)
	logs, err := s.Logs(ctx, user.ID, end.Add(-time.Hour), end)
	if err != nil {
		t.Fatalf("Logs returned error: %v", err)
	}
	found := false
	for _, log := range logs {
		if log.ID == entry.ID {
			found = true
		}
	}
	if !found {
		t.Error("appended log missing from the window")
	}
}

func TestRuleTables(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	timing, err := s.TimingRules(ctx)
	if err != nil {
		t.Fatalf("TimingRules returned error: %v", err)
	}
	if len(timing) == 0 {
		t.Error("expected seeded timing rules")
	}

	ratios, err := s.RatioRules(ctx)
	if err != nil {
		t.Fatalf("RatioRules returned error: %v", err)
	}
	if len(ratios) == 0 {
		t.Error("expected seeded ratio rules")
	}

	synergies, err := s.SynergyInteractions(ctx)
	if err != nil {
		t.Fatalf("SynergyInteractions returned error: %v", err)
	}
	for _, interaction := range synergies {
		if interaction.Type != models.InteractionSynergy {
			t.Errorf("expected only synergy interactions, got %q", interaction.Type)
		}
	}

	limits, err := s.SafetyLimits(ctx)
	if err != nil {
		t.Fatalf("SafetyLimits returned error: %v", err)
	}
	if len(limits) == 0 {
		t.Error("expected seeded safety limits")
	}
}

func TestUserByID(t *testing.T) {
	s, user := newTestStore(t)
	ctx := context.Background()

	loaded, err := s.UserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("UserByID returned error: %v", err)
	}
	if loaded.Email != user.Email {
		t.Errorf("email = %q, want %q", loaded.Email, user.Email)
	}

	if _, err := s.UserByID(ctx, uuid.New()); err == nil {
		t.Error("expected error for unknown user")
	}
}
