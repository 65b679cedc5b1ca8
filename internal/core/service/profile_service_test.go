package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/taskboard/taskboard-api/internal/core/domain"
)

func seedProfile(users *stubUserRepo, id string) *domain.User {
	u := &domain.User{
		ID:                 id,
		Name:               "Original Name",
		Email:              id + "@example.com",
		Theme:              domain.ThemeSystem,
		EmailNotifications: true,
		TaskReminders:      true,
	}
	users.users[id] = u
	return u
}

func TestProfileService_Get(t *testing.T) {
	users := newStubUserRepo()
	seedProfile(users, "user_1")
	svc := NewProfileService(users, discardLogger)

	got, err := svc.Get(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "user_1" || got.Name != "Original Name" {
		t.Errorf("profile: %+v", got)
	}
}

func TestProfileService_Get_Missing(t *testing.T) {
	svc := NewProfileService(newStubUserRepo(), discardLogger)

	_, err := svc.Get(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestProfileService_Update_Strings(t *testing.T) {
	users := newStubUserRepo()
	seedProfile(users, "user_1")
	svc := NewProfileService(users, discardLogger)

	got, err := svc.Update(context.Background(), "user_1", domain.ProfilePatch{
		Name:       domain.Some("New Name"),
		Bio:        domain.Some("Go developer"),
		Role:       domain.Some("Engineer"),
		Department: domain.Some("Platform"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Name != "New Name" || got.Bio != "Go developer" || got.Role != "Engineer" || got.Department != "Platform" {
		t.Errorf("updated profile: %+v", got)
	}
}

func TestProfileService_Update_EmptyStringsIgnored(t *testing.T) {
	users := newStubUserRepo()
	seedProfile(users, "user_1")
	svc := NewProfileService(users, discardLogger)

	got, err := svc.Update(context.Background(), "user_1", domain.ProfilePatch{
		Name: domain.Some(""),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "Original Name" {
		t.Errorf("empty string must not overwrite the name, got %q", got.Name)
	}
}

func TestProfileService_Update_FalseBooleansAreWritten(t *testing.T) {
	users := newStubUserRepo()
	seedProfile(users, "user_1")
	svc := NewProfileService(users, discardLogger)

	got, err := svc.Update(context.Background(), "user_1", domain.ProfilePatch{
		EmailNotifications: domain.Some(false),
		TaskReminders:      domain.Some(false),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.EmailNotifications {
		t.Error("emailNotifications=false must be persisted")
	}
	if got.TaskReminders {
		t.Error("taskReminders=false must be persisted")
	}
}

func TestProfileService_Update_AbsentBooleansUntouched(t *testing.T) {
	users := newStubUserRepo()
	seedProfile(users, "user_1")
	svc := NewProfileService(users, discardLogger)

	got, err := svc.Update(context.Background(), "user_1", domain.ProfilePatch{
		Name: domain.Some("Someone Else"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !got.EmailNotifications || !got.TaskReminders {
		t.Error("absent booleans must keep their stored values")
	}
}

func TestProfileService_Update_NullRejected(t *testing.T) {
	users := newStubUserRepo()
	seedProfile(users, "user_1")
	svc := NewProfileService(users, discardLogger)

	for _, patch := range []domain.ProfilePatch{
		{Name: domain.Null[string]()},
		{Bio: domain.Null[string]()},
		{Theme: domain.Null[domain.Theme]()},
		{EmailNotifications: domain.Null[bool]()},
	} {
		_, err := svc.Update(context.Background(), "user_1", patch)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("patch %+v: expected ErrValidation, got %v", patch, err)
		}
	}
}

func TestProfileService_Update_NameTooShort(t *testing.T) {
	users := newStubUserRepo()
	seedProfile(users, "user_1")
	svc := NewProfileService(users, discardLogger)

	_, err := svc.Update(context.Background(), "user_1", domain.ProfilePatch{
		Name: domain.Some("x"),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for one-character name, got %v", err)
	}
}

func TestProfileService_Update_BioTooLong(t *testing.T) {
	users := newStubUserRepo()
	seedProfile(users, "user_1")
	svc := NewProfileService(users, discardLogger)

	_, err := svc.Update(context.Background(), "user_1", domain.ProfilePatch{
		Bio: domain.Some(strings.Repeat("a", maxBioLength+1)),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for oversized bio, got %v", err)
	}

	// Exactly at the limit is fine.
	_, err = svc.Update(context.Background(), "user_1", domain.ProfilePatch{
		Bio: domain.Some(strings.Repeat("a", maxBioLength)),
	})
	if err != nil {
		t.Errorf("bio at the limit must pass, got %v", err)
	}
}

func TestProfileService_Update_Theme(t *testing.T) {
	users := newStubUserRepo()
	seedProfile(users, "user_1")
	svc := NewProfileService(users, discardLogger)

	got, err := svc.Update(context.Background(), "user_1", domain.ProfilePatch{
		Theme: domain.Some(domain.ThemeDark),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Theme != domain.ThemeDark {
		t.Errorf("theme: want dark, got %q", got.Theme)
	}

	_, err = svc.Update(context.Background(), "user_1", domain.ProfilePatch{
		Theme: domain.Some(domain.Theme("neon")),
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation for unknown theme, got %v", err)
	}
}

func TestProfileService_Update_MissingUser(t *testing.T) {
	svc := NewProfileService(newStubUserRepo(), discardLogger)

	_, err := svc.Update(context.Background(), "ghost", domain.ProfilePatch{
		Name: domain.Some("Anyone"),
	})
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
