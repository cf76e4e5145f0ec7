package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/order-service/internal/domain"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

type fakeProfileRepo struct {
	profiles map[int64]*domain.Profile
	assigned map[int64]int
	nextID   int64
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		profiles: make(map[int64]*domain.Profile),
		assigned: make(map[int64]int),
	}
}

func (f *fakeProfileRepo) Create(_ context.Context, profile *domain.Profile) error {
	f.nextID++
	profile.ID = f.nextID
	clone := *profile
	f.profiles[profile.ID] = &clone
	return nil
}

func (f *fakeProfileRepo) Update(_ context.Context, profile *domain.Profile) error {
	if _, ok := f.profiles[profile.ID]; !ok {
		return pgx.ErrNoRows
	}
	clone := *profile
	f.profiles[profile.ID] = &clone
	return nil
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id int64) (*domain.Profile, error) {
	profile, ok := f.profiles[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *profile
	return &clone, nil
}

func (f *fakeProfileRepo) List(_ context.Context) ([]domain.Profile, error) {
	out := make([]domain.Profile, 0, len(f.profiles))
	for _, profile := range f.profiles {
		out = append(out, *profile)
	}
	return out, nil
}

func (f *fakeProfileRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.profiles[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.profiles, id)
	return nil
}

func (f *fakeProfileRepo) CountUsers(_ context.Context, profileID int64) (int, error) {
	return f.assigned[profileID], nil
}

func TestCreateProfileResolvesCatalogPermissions(t *testing.T) {
	svc := NewProfileService(newFakeProfileRepo())

	profile, err := svc.CreateProfile(context.Background(), ProfileInput{
		Name: "Atendente",
		Permissions: map[string]bool{
			"verPedidos":          true,
			"alterarStatusPedido": true,
			"excluirUsuarios":     false,
		},
	})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	if !profile.Permissions.Granted(domain.PermViewOrders) {
		t.Fatal("verPedidos not granted")
	}
	if profile.Permissions.Granted(domain.PermDeleteUsers) {
		t.Fatal("excluirUsuarios granted despite false value")
	}
	if profile.Permissions.Granted(domain.PermSelectAnyStatus) {
		t.Fatal("unlisted permission granted")
	}
}

func TestCreateProfileRejectsUnknownPermission(t *testing.T) {
	svc := NewProfileService(newFakeProfileRepo())

	_, err := svc.CreateProfile(context.Background(), ProfileInput{
		Name:        "Gerente",
		Permissions: map[string]bool{"voarDrone": true},
	})
	if err == nil {
		t.Fatal("expected validation error for unknown permission")
	}
	if apperrors.ToDomainError(err).Code != "VALIDATION_FAILED" {
		t.Fatalf("error code = %s", apperrors.ToDomainError(err).Code)
	}
}

func TestDeleteProfileBlockedWhileAssigned(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := NewProfileService(repo)
	ctx := context.Background()

	profile, err := svc.CreateProfile(ctx, ProfileInput{Name: "Entregador"})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}

	repo.assigned[profile.ID] = 2
	if err := svc.DeleteProfile(ctx, profile.ID); err == nil {
		t.Fatal("expected conflict while users reference the profile")
	}

	repo.assigned[profile.ID] = 0
	if err := svc.DeleteProfile(ctx, profile.ID); err != nil {
		t.Fatalf("delete profile: %v", err)
	}
}
