package mongodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/castroh/pdi-agent/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const usersCollection = "pdi_users"

// UserRepository persists user records, one document per e-mail.
type UserRepository struct {
	coll *mongo.Collection
}

// NewUserRepository creates a new user repository
func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{coll: client.Database().Collection(usersCollection)}
}

// GetByEmail loads the whole record, or (nil, nil) when it does not exist.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserRecord, error) {
	var rec domain.UserRecord
	err := r.coll.FindOne(ctx, bson.M{"_id": email}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	rec.AIAnalysis = normalizeMap(rec.AIAnalysis)
	return &rec, nil
}

// Exists reports whether a record is stored under the e-mail.
func (r *UserRepository) Exists(ctx context.Context, email string) (bool, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"_id": email})
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new record. Fails if the e-mail is already registered.
func (r *UserRepository) Create(ctx context.Context, rec *domain.UserRecord) error {
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errors.New("email already registered")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Save replaces the stored record wholesale. Callers load the full record
// first, so untouched sections round-trip unchanged (last write wins).
func (r *UserRepository) Save(ctx context.Context, rec *domain.UserRecord) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": rec.Email}, rec)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// UpdateProfile merge-writes only the profile section.
func (r *UserRepository) UpdateProfile(ctx context.Context, email string, profile domain.Profile) error {
	return r.setFields(ctx, email, bson.M{"profile": profile})
}

// UpdatePlan merge-writes only the career plan section.
func (r *UserRepository) UpdatePlan(ctx context.Context, email string, plan domain.CareerPlan) error {
	return r.setFields(ctx, email, bson.M{"pdi_plan": plan})
}

// SetResetToken stores a password-reset token with its expiry.
func (r *UserRepository) SetResetToken(ctx context.Context, email, token, expiry string) error {
	return r.setFields(ctx, email, bson.M{
		"security.reset_token":        token,
		"security.reset_token_expiry": expiry,
	})
}

// FindByResetToken looks a record up by equality on the stored reset token.
func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (*domain.UserRecord, error) {
	var rec domain.UserRecord
	err := r.coll.FindOne(ctx, bson.M{"security.reset_token": token}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up reset token: %w", err)
	}
	return &rec, nil
}

// ResetPassword sets a new password hash and clears the reset token fields.
func (r *UserRepository) ResetPassword(ctx context.Context, email, passwordHash string) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": email}, bson.M{
		"$set":   bson.M{"security.password_hash": passwordHash},
		"$unset": bson.M{"security.reset_token": "", "security.reset_token_expiry": ""},
	})
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return nil
}

func (r *UserRepository) setFields(ctx context.Context, email string, fields bson.M) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": email}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// normalizeMap converts BSON container types (primitive.M, primitive.A) into
// plain maps and slices so the analysis walkers see one shape regardless of
// whether a value came from Mongo or from JSON.
func normalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = normalizeValue(v)
	}
	return out
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case primitive.M:
		return normalizeMap(map[string]any(t))
	case map[string]any:
		return normalizeMap(t)
	case primitive.A:
		return normalizeSlice([]any(t))
	case []any:
		return normalizeSlice(t)
	default:
		return v
	}
}

func normalizeSlice(s []any) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = normalizeValue(v)
	}
	return out
}
