package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/99minutos/accounts-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository on MongoDB. Ids are
// int64 values handed out by a counter document.
type UserRepository struct {
	users    *mongo.Collection
	roles    *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		users:    db.Collection(collectionUsers),
		roles:    db.Collection(collectionRoles),
		counters: db.Collection(collectionCounters),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (r *UserRepository) Save(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.roles.CountDocuments(ctx, bson.M{"_id": user.RoleID})
	if err != nil {
		return nil, fmt.Errorf("check role %d: %w", user.RoleID, err)
	}
	if n == 0 {
		return nil, domain.ErrRoleNotFound
	}

	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	now := r.now().Truncate(time.Millisecond)
	doc := userDoc{
		ID:        id,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Password:  user.PasswordHash,
		IsActive:  user.IsActive,
		RoleID:    user.RoleID,
		Live:      true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert user %s: %w", user.Username, translateError(err))
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id, "live": true})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username, "live": true})
}

func (r *UserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.users.Find(ctx, bson.M{"live": true}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	var docs []userDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, len(docs))
	for i := range docs {
		users[i] = docs[i].toDomain()
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, changes domain.UserChanges) (*domain.User, error) {
	set := bson.M{"updated_at": r.now()}
	if changes.FirstName != nil {
		set["first_name"] = *changes.FirstName
	}
	if changes.LastName != nil {
		set["last_name"] = *changes.LastName
	}
	if changes.Email != nil {
		set["email"] = *changes.Email
	}
	if changes.PasswordHash != nil {
		set["password"] = *changes.PasswordHash
	}

	u, err := r.findOneAndUpdate(ctx, id, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return u, nil
}

// ToggleActive negates is_active server side with a pipeline update.
func (r *UserRepository) ToggleActive(ctx context.Context, id int64) (*domain.User, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "is_active", Value: bson.D{{Key: "$not", Value: bson.A{"$is_active"}}}},
			{Key: "updated_at", Value: "$$NOW"},
		}}},
	}
	u, err := r.findOneAndUpdate(ctx, id, pipeline)
	if err != nil {
		return nil, fmt.Errorf("toggle user %d: %w", id, err)
	}
	return u, nil
}

func (r *UserRepository) SoftDelete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := r.now()
	res, err := r.users.UpdateOne(ctx,
		bson.M{"_id": id, "live": true},
		bson.M{"$set": bson.M{"live": false, "deleted_at": now, "updated_at": now}},
	)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) findOneAndUpdate(ctx context.Context, id int64, update any) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc userDoc
	err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": id, "live": true}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, translateError(err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) nextID(ctx context.Context) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var c counterDoc
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collectionUsers},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("next user id: %w", err)
	}
	return c.Seq, nil
}

func translateError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return &domain.ConflictError{Field: conflictField(err.Error()), Err: err}
	}
	return err
}

// conflictField picks the field out of a duplicate key message, which names
// the violated index.
func conflictField(msg string) string {
	switch {
	case strings.Contains(msg, indexUsernameLive):
		return "username"
	case strings.Contains(msg, indexEmailLive):
		return "email"
	}
	return ""
}
