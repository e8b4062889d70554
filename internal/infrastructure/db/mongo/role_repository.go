package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Sirpyerre/user-management/internal/core/domain"
)

const rolesCollection = "roles"

// RoleRepository implements ports.RoleRepository using MongoDB.
type RoleRepository struct {
	coll *mongo.Collection
}

func NewRoleRepository(db *mongo.Database) *RoleRepository {
	return &RoleRepository{coll: db.Collection(rolesCollection)}
}

type roleDocument struct {
	ID   primitive.ObjectID `bson:"_id,omitempty"`
	Name string             `bson:"name"`
}

// EnsureIndexes creates the unique index on role name.
func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *RoleRepository) FindByName(ctx context.Context, name domain.RoleName) (*domain.Role, error) {
	var doc roleDocument
	if err := r.coll.FindOne(ctx, bson.M{"name": string(name)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", domain.ErrRoleNotFound, name)
		}
		return nil, fmt.Errorf("find role: %w", err)
	}
	return &domain.Role{ID: doc.ID.Hex(), Name: domain.RoleName(doc.Name)}, nil
}

func (r *RoleRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count roles: %w", err)
	}
	return n, nil
}

// Save inserts a role. A role that already exists is returned as stored.
func (r *RoleRepository) Save(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	res, err := r.coll.InsertOne(ctx, roleDocument{Name: string(role.Name)})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return r.FindByName(ctx, role.Name)
		}
		return nil, fmt.Errorf("insert role: %w", err)
	}
	oid, _ := res.InsertedID.(primitive.ObjectID)
	return &domain.Role{ID: oid.Hex(), Name: role.Name}, nil
}
