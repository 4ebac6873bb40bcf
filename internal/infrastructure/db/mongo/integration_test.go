package mongo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

// setupTestDB connects to MONGO_URI and hands out a throwaway database with
// indexes and default roles in place. Tests skip when MONGO_URI is unset.
func setupTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set")
	}

	ctx := context.Background()
	name := fmt.Sprintf("accounts_test_%d", time.Now().UnixNano())
	client, db, err := Connect(ctx, Config{URI: uri, Database: name})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	if err := EnsureIndexes(ctx, db); err != nil {
		t.Fatalf("indexes: %v", err)
	}
	if err := NewRoleRepository(db).EnsureDefaults(ctx); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	return db
}

func newUser(username string) *domain.User {
	return &domain.User{
		Username:     username,
		FirstName:    "First",
		LastName:     "Last",
		PasswordHash: "$2a$04$hash",
		IsActive:     true,
		RoleID:       2,
	}
}

func strPtr(s string) *string { return &s }

func TestMongoUserRepository_SaveAndFind(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	u := newUser("alice1")
	u.Email = strPtr("alice@example.com")
	first, err := repo.Save(ctx, u)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	second, err := repo.Save(ctx, newUser("bobby1"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Fatalf("expected sequential ids 1 and 2, got %d and %d", first.ID, second.ID)
	}

	got, err := repo.FindByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if got.Username != "alice1" || got.Email == nil || *got.Email != "alice@example.com" || !got.IsActive || got.RoleID != 2 {
		t.Fatalf("unexpected user: %+v", got)
	}

	byName, err := repo.FindByUsername(ctx, "bobby1")
	if err != nil || byName.ID != second.ID {
		t.Fatalf("find by username: %v %+v", err, byName)
	}

	all, err := repo.FindAll(ctx)
	if err != nil || len(all) != 2 || all[0].ID != 1 || all[1].ID != 2 {
		t.Fatalf("find all: %v %+v", err, all)
	}
}

func TestMongoUserRepository_UnknownRole(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))

	u := newUser("alice1")
	u.RoleID = 99
	if _, err := repo.Save(context.Background(), u); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestMongoUserRepository_UniqueAmongLiveUsers(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	a := newUser("alice1")
	a.Email = strPtr("same@example.com")
	saved, err := repo.Save(ctx, a)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	var ce *domain.ConflictError
	if _, err := repo.Save(ctx, newUser("alice1")); !errors.As(err, &ce) || ce.Field != "username" {
		t.Fatalf("expected username conflict, got %v", err)
	}

	b := newUser("bobby1")
	b.Email = strPtr("same@example.com")
	if _, err := repo.Save(ctx, b); !errors.As(err, &ce) || ce.Field != "email" {
		t.Fatalf("expected email conflict, got %v", err)
	}

	// users without an email never collide
	if _, err := repo.Save(ctx, newUser("carol1")); err != nil {
		t.Fatalf("save carol: %v", err)
	}
	if _, err := repo.Save(ctx, newUser("dave01")); err != nil {
		t.Fatalf("save dave: %v", err)
	}

	// deleting frees both the username and the email
	if err := repo.SoftDelete(ctx, saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	again := newUser("alice1")
	again.Email = strPtr("same@example.com")
	if _, err := repo.Save(ctx, again); err != nil {
		t.Fatalf("username and email should be reusable after delete: %v", err)
	}
}

func TestMongoUserRepository_Update(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()

	a := newUser("alice1")
	a.Email = strPtr("alice@example.com")
	_, _ = repo.Save(ctx, a)
	b, _ := repo.Save(ctx, newUser("bobby1"))

	updated, err := repo.Update(ctx, b.ID, domain.UserChanges{
		FirstName:    strPtr("Bob"),
		PasswordHash: strPtr("$2a$04$other"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FirstName != "Bob" || updated.LastName != "Last" || updated.PasswordHash != "$2a$04$other" {
		t.Fatalf("unexpected update result: %+v", updated)
	}
	if updated.UpdatedAt.Before(b.UpdatedAt) {
		t.Errorf("updatedAt went backwards")
	}

	if _, err := repo.Update(ctx, b.ID, domain.UserChanges{Email: strPtr("alice@example.com")}); !domain.IsConflict(err) {
		t.Fatalf("expected email conflict, got %v", err)
	}
	if _, err := repo.Update(ctx, 999, domain.UserChanges{FirstName: strPtr("X")}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMongoUserRepository_ToggleActive(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	ctx := context.Background()
	saved, _ := repo.Save(ctx, newUser("alice1"))

	off, err := repo.ToggleActive(ctx, saved.ID)
	if err != nil || off.IsActive {
		t.Fatalf("first toggle: %v %+v", err, off)
	}
	on, err := repo.ToggleActive(ctx, saved.ID)
	if err != nil || !on.IsActive {
		t.Fatalf("second toggle: %v %+v", err, on)
	}

	const n = 10
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := repo.ToggleActive(ctx, saved.ID); err != nil {
				t.Errorf("toggle: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := repo.FindByID(ctx, saved.ID)
	if !got.IsActive {
		t.Fatal("an even number of toggles must leave the user active")
	}
}

func TestMongoUserRepository_SoftDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	saved, _ := repo.Save(ctx, newUser("alice1"))

	if err := repo.SoftDelete(ctx, saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := repo.FindByID(ctx, saved.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("find by id: expected not found, got %v", err)
	}
	if _, err := repo.FindByUsername(ctx, "alice1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("find by username: expected not found, got %v", err)
	}
	if _, err := repo.ToggleActive(ctx, saved.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("toggle: expected not found, got %v", err)
	}
	if _, err := repo.Update(ctx, saved.ID, domain.UserChanges{FirstName: strPtr("X")}); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("update: expected not found, got %v", err)
	}
	if err := repo.SoftDelete(ctx, saved.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("second delete: expected not found, got %v", err)
	}
	if all, _ := repo.FindAll(ctx); len(all) != 0 {
		t.Errorf("deleted users must not be listed, got %d", len(all))
	}

	// the document is kept with its deletion marker
	var doc userDoc
	if err := db.Collection(collectionUsers).FindOne(ctx, bson.M{"_id": saved.ID}).Decode(&doc); err != nil {
		t.Fatalf("raw read: %v", err)
	}
	if doc.Live || doc.DeletedAt == nil {
		t.Fatalf("expected live=false and deleted_at set, got %+v", doc)
	}
}

func TestMongoRoleRepository(t *testing.T) {
	db := setupTestDB(t)
	roles := NewRoleRepository(db)
	ctx := context.Background()

	if err := roles.EnsureDefaults(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	all, err := roles.FindAll(ctx)
	if err != nil || len(all) != 2 || all[0].Label != domain.RoleAdmin || all[1].Label != domain.RoleUser {
		t.Fatalf("unexpected roles: %v %+v", err, all)
	}

	role, err := roles.FindByID(ctx, 2)
	if err != nil || role.Label != domain.RoleUser {
		t.Fatalf("find role 2: %v %+v", err, role)
	}
	if _, err := roles.FindByID(ctx, 99); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}
