package directory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/lernhub/platform/pkg/hierarchy"
	"github.com/lernhub/platform/pkg/roles"
)

// MongoStore implements Store on MongoDB. Identifiers are stored as
// their string form; uniqueness of emails and identity links relies on
// the unique indexes created by EnsureIndexes.
type MongoStore struct {
	users       *mongo.Collection
	identities  *mongo.Collection
	groups      *mongo.Collection
	memberships *mongo.Collection
}

// NewMongoStore creates a directory store over the given database.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		users:       db.Collection("users"),
		identities:  db.Collection("identities"),
		groups:      db.Collection("groups"),
		memberships: db.Collection("memberships"),
	}
}

// EnsureIndexes creates the unique indexes the store's contracts
// depend on. Called once at startup.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	_, err = s.identities.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "provider", Value: 1}, {Key: "provider_user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}

	_, err = s.memberships.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "group_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

type userDoc struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	Name         string    `bson:"name"`
	PasswordHash string    `bson:"password_hash,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d userDoc) toUser() (*User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return &User{
		ID:           id,
		Email:        d.Email,
		Name:         d.Name,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}, nil
}

// CreateUser inserts a new account.
func (s *MongoStore) CreateUser(ctx context.Context, u *User) error {
	doc := userDoc{
		ID:           u.ID.String(),
		Email:        NormalizeEmail(u.Email),
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now()
	}

	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrEmailTaken
		}
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// GetUserByID loads an account.
func (s *MongoStore) GetUserByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.findUser(ctx, bson.M{"_id": id.String()})
}

// GetUserByEmail loads an account by normalized email.
func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.findUser(ctx, bson.M{"email": NormalizeEmail(email)})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return doc.toUser()
}

// GetUserByIdentity resolves an external identity to its linked account.
func (s *MongoStore) GetUserByIdentity(ctx context.Context, provider, providerUserID string) (*User, error) {
	var link struct {
		UserID string `bson:"user_id"`
	}
	err := s.identities.FindOne(ctx, bson.M{
		"provider":         provider,
		"provider_user_id": providerUserID,
	}).Decode(&link)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	return s.findUser(ctx, bson.M{"_id": link.UserID})
}

// LinkIdentity attaches an external identity to an account.
func (s *MongoStore) LinkIdentity(ctx context.Context, userID uuid.UUID, provider, providerUserID string) error {
	_, err := s.identities.InsertOne(ctx, bson.M{
		"user_id":          userID.String(),
		"provider":         provider,
		"provider_user_id": providerUserID,
		"linked_at":        time.Now(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Re-linking the same pair to the same user is idempotent.
			existing, lookupErr := s.GetUserByIdentity(ctx, provider, providerUserID)
			if lookupErr == nil && existing.ID == userID {
				return nil
			}
			return ErrIdentityLinked
		}
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

type groupDoc struct {
	ID       string  `bson:"_id"`
	Name     string  `bson:"name"`
	ParentID *string `bson:"parent_id,omitempty"`
}

// ListGroups returns every group with parent references set.
func (s *MongoStore) ListGroups(ctx context.Context) ([]hierarchy.Group, error) {
	cursor, err := s.groups.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	defer cursor.Close(ctx)

	var groups []hierarchy.Group
	for cursor.Next(ctx) {
		var doc groupDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Join(ErrStoreUnavailable, err)
		}

		id, err := uuid.Parse(doc.ID)
		if err != nil {
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
		g := hierarchy.Group{ID: id, Name: doc.Name}
		if doc.ParentID != nil {
			parentID, err := uuid.Parse(*doc.ParentID)
			if err != nil {
				return nil, errors.Join(ErrStoreUnavailable, err)
			}
			g.ParentID = &parentID
		}
		groups = append(groups, g)
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return groups, nil
}

// CreateGroup inserts a group.
func (s *MongoStore) CreateGroup(ctx context.Context, g hierarchy.Group) error {
	doc := groupDoc{ID: g.ID.String(), Name: g.Name}
	if g.ParentID != nil {
		parent := g.ParentID.String()
		doc.ParentID = &parent
	}

	if _, err := s.groups.InsertOne(ctx, doc); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// SetParent records a new parent edge.
func (s *MongoStore) SetParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error {
	update := bson.M{"$unset": bson.M{"parent_id": ""}}
	if parentID != nil {
		update = bson.M{"$set": bson.M{"parent_id": parentID.String()}}
	}

	res, err := s.groups.UpdateOne(ctx, bson.M{"_id": id.String()}, update)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return hierarchy.ErrGroupNotFound
	}
	return nil
}

type membershipDoc struct {
	UserID  string `bson:"user_id"`
	GroupID string `bson:"group_id"`
	Role    string `bson:"role"`
}

// ListByUser returns the user's memberships.
func (s *MongoStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]roles.Membership, error) {
	cursor, err := s.memberships.Find(ctx, bson.M{"user_id": userID.String()})
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	defer cursor.Close(ctx)

	var memberships []roles.Membership
	for cursor.Next(ctx) {
		var doc membershipDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, errors.Join(ErrStoreUnavailable, err)
		}

		groupID, err := uuid.Parse(doc.GroupID)
		if err != nil {
			return nil, errors.Join(ErrStoreUnavailable, err)
		}
		role, err := roles.Parse(doc.Role)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, roles.Membership{
			UserID:  userID,
			GroupID: groupID,
			Role:    role,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return memberships, nil
}

// Upsert sets the user's single role within a group.
func (s *MongoStore) Upsert(ctx context.Context, m roles.Membership) error {
	_, err := s.memberships.UpdateOne(ctx,
		bson.M{"user_id": m.UserID.String(), "group_id": m.GroupID.String()},
		bson.M{"$set": bson.M{"role": m.Role.String()}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Remove deletes the user's membership in a group.
func (s *MongoStore) Remove(ctx context.Context, userID, groupID uuid.UUID) error {
	_, err := s.memberships.DeleteOne(ctx, bson.M{
		"user_id":  userID.String(),
		"group_id": groupID.String(),
	})
	if err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
