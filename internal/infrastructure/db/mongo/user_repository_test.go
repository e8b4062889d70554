package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/Sirpyerre/user-management/internal/core/domain"
)

const usersNS = "test.users"

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("find by name decodes roles", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "name", Value: "alice"},
			{Key: "email", Value: "alice@example.com"},
			{Key: "password_hash", Value: "$2a$10$hash"},
			{Key: "roles", Value: bson.A{bson.D{{Key: "id", Value: "r1"}, {Key: "name", Value: "ADMIN"}}}},
			{Key: "enabled", Value: true},
			{Key: "created_at", Value: int64(1_700_000_000)},
		}))

		user, err := repo.FindByName(context.Background(), "alice")
		if err != nil {
			mt.Fatalf("FindByName returned error: %v", err)
		}
		if user.ID != oid.Hex() || user.Email != "alice@example.com" || !user.Enabled {
			mt.Fatalf("unexpected user: %+v", user)
		}
		if !user.HasRole(domain.RoleAdmin) {
			mt.Fatalf("expected ADMIN role, got %+v", user.Roles)
		}
		if !user.CreatedAt.Equal(time.Unix(1_700_000_000, 0)) {
			mt.Fatalf("unexpected created_at %v", user.CreatedAt)
		}
	})

	mt.Run("find by name not found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch))

		if _, err := repo.FindByName(context.Background(), "ghost"); !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("find by malformed id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		if _, err := repo.FindByID(context.Background(), "not-an-object-id"); !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("save assigns id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		saved, err := repo.Save(context.Background(), &domain.User{Name: "alice", Email: "alice@example.com", Enabled: true})
		if err != nil {
			mt.Fatalf("Save returned error: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(saved.ID); err != nil {
			mt.Fatalf("expected ObjectID hex id, got %q", saved.ID)
		}
	})

	mt.Run("save maps duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: `E11000 duplicate key error collection: test.users index: uniq_email dup key: { email: "alice@example.com" }`,
		}))

		_, err := repo.Save(context.Background(), &domain.User{Name: "bob", Email: "alice@example.com"})
		if !errors.Is(err, domain.ErrEmailTaken) {
			mt.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})

	mt.Run("save maps duplicate name", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: `E11000 duplicate key error collection: test.users index: uniq_name dup key: { name: "alice" }`,
		}))

		_, err := repo.Save(context.Background(), &domain.User{Name: "alice", Email: "other@example.com"})
		if !errors.Is(err, domain.ErrNameTaken) {
			mt.Fatalf("expected ErrNameTaken, got %v", err)
		}
	})

	mt.Run("exists by email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}))

		ok, err := repo.ExistsByEmail(context.Background(), "alice@example.com")
		if err != nil || !ok {
			mt.Fatalf("expected existing email, got %v (%v)", ok, err)
		}
	})

	mt.Run("delete missing user", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		if !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "admin"}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "user"}},
		))

		users, err := repo.List(context.Background())
		if err != nil {
			mt.Fatalf("List returned error: %v", err)
		}
		if len(users) != 2 || users[0].Name != "admin" {
			mt.Fatalf("unexpected users: %+v", users)
		}
	})
}

func TestRoleRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing role is a configuration error", func(mt *mtest.T) {
		repo := NewRoleRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.roles", mtest.FirstBatch))

		_, err := repo.FindByName(context.Background(), domain.RoleAdmin)
		if !errors.Is(err, domain.ErrRoleNotFound) || !errors.Is(err, domain.ErrConfiguration) {
			mt.Fatalf("expected ErrRoleNotFound, got %v", err)
		}
	})

	mt.Run("save", func(mt *mtest.T) {
		repo := NewRoleRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		role, err := repo.Save(context.Background(), &domain.Role{Name: domain.RoleUser})
		if err != nil {
			mt.Fatalf("Save returned error: %v", err)
		}
		if role.ID == "" || role.Name != domain.RoleUser {
			mt.Fatalf("unexpected role: %+v", role)
		}
	})
}

func TestAuditRepository_Insert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert", func(mt *mtest.T) {
		repo := NewAuditRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		err := repo.Insert(context.Background(), &domain.AuthEvent{
			Type:      domain.EventSigninFailure,
			Name:      "alice",
			Reason:    "bad_credentials",
			Timestamp: time.Now(),
		})
		if err != nil {
			mt.Fatalf("Insert returned error: %v", err)
		}
	})
}
