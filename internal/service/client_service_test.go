package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/MinkyAI/reviews-platform-sub001/internal/domain"
	"github.com/MinkyAI/reviews-platform-sub001/internal/util"
)

func seedRosterUser(t *testing.T, users *memUserRepo, clientID uuid.UUID, email string, role domain.UserRole) *domain.User {
	t.Helper()

	hash, salt, err := util.DerivePassword("initpass123")
	if err != nil {
		t.Fatalf("derive password: %v", err)
	}
	user, err := users.Create(context.Background(), clientID, email, nil, role, hash, salt)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestClientListUsers(t *testing.T) {
	ctx := context.Background()

	clients := newMemClientRepo()
	client := seedClient(clients, "Acme Dental", "acme-dental")
	other := seedClient(clients, "Bakery", "bakery")

	users := newMemUserRepo()
	seedRosterUser(t, users, client.ID, "owner@acme-dental.com", domain.UserRoleOwner)
	seedRosterUser(t, users, client.ID, "member@acme-dental.com", domain.UserRoleMember)
	seedRosterUser(t, users, other.ID, "owner@bakery.com", domain.UserRoleOwner)

	svc := NewClientService(clients, users, nil, nil, "logos", 0, 0)

	roster, err := svc.ListUsers(ctx, client.ID, 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(roster) != 2 {
		t.Fatalf("expected the tenant's two accounts, got %d", len(roster))
	}
	for _, user := range roster {
		if user.ClientID != client.ID {
			t.Fatalf("roster leaked a foreign account: %s belongs to %s", user.Email, user.ClientID)
		}
	}
}
