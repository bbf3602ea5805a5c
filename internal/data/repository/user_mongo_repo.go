package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"advance-auth/internal/data/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const usersCollection = "users"

// userDocument keeps the field names of the existing users collection.
type userDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Name              string             `bson:"name"`
	Email             string             `bson:"email"`
	Password          string             `bson:"password"`
	IsAccountVerified bool               `bson:"isAccountVerified"`
	VerifyOtp         string             `bson:"verifyOtp"`
	VerifyOtpExpireAt int64              `bson:"verifyOtpExpireAt"`
	ResetOtp          string             `bson:"resetOtp"`
	ResetOtpExpireAt  int64              `bson:"resetOtpExpireAt"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

func (d *userDocument) toEntity() *entity.User {
	return &entity.User{
		ID:                d.ID.Hex(),
		Name:              d.Name,
		Email:             d.Email,
		PasswordHash:      d.Password,
		IsAccountVerified: d.IsAccountVerified,
		VerifyOTP:         d.VerifyOtp,
		VerifyOTPExpireAt: d.VerifyOtpExpireAt,
		ResetOTP:          d.ResetOtp,
		ResetOTPExpireAt:  d.ResetOtpExpireAt,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

type mongoUserRepository struct {
	col *mongo.Collection
	log *zap.Logger
}

func NewMongoUserRepository(db *mongo.Database, log *zap.Logger) UserRepository {
	return &mongoUserRepository{
		col: db.Collection(usersCollection),
		log: log.With(zap.String("repository", "user"), zap.String("driver", "mongo")),
	}
}

func (r *mongoUserRepository) Migrate(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

func (r *mongoUserRepository) Create(ctx context.Context, user *entity.User) error {
	doc := userDocument{
		ID:                primitive.NewObjectID(),
		Name:              user.Name,
		Email:             user.Email,
		Password:          user.PasswordHash,
		IsAccountVerified: user.IsAccountVerified,
		VerifyOtp:         user.VerifyOTP,
		VerifyOtpExpireAt: user.VerifyOTPExpireAt,
		ResetOtp:          user.ResetOTP,
		ResetOtpExpireAt:  user.ResetOTPExpireAt,
		CreatedAt:         user.CreatedAt,
		UpdatedAt:         user.UpdatedAt,
	}

	_, err := r.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		r.log.Error("Failed to create user", zap.Error(err), zap.String("email", user.Email))
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	user.ID = doc.ID.Hex()
	return nil
}

func (r *mongoUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	user, err := r.findOne(ctx, bson.M{"_id": oid})
	if err != nil && !errors.Is(err, ErrNotFound) {
		r.log.Error("Failed to find user by ID", zap.Error(err), zap.String("user_id", id))
		return nil, fmt.Errorf("find user by ID %s: %w", id, err)
	}
	return user, err
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := r.findOne(ctx, bson.M{"email": email})
	if err != nil && !errors.Is(err, ErrNotFound) {
		r.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}
	return user, err
}

func (r *mongoUserRepository) SetOTP(ctx context.Context, id string, purpose entity.OTPPurpose, code string, expireAt int64, now time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	codeField, expireField := otpFields(purpose)
	result, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{codeField: code, expireField: expireAt, "updatedAt": now}},
	)
	if err != nil {
		r.log.Error("Failed to set OTP",
			zap.Error(err),
			zap.String("user_id", id),
			zap.String("purpose", string(purpose)),
		)
		return fmt.Errorf("set %s OTP for user %s: %w", purpose, id, err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *mongoUserRepository) ConsumeVerifyOTP(ctx context.Context, id, code string, now time.Time) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil || code == "" {
		return false, nil
	}

	result, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "verifyOtp": code, "verifyOtpExpireAt": bson.M{"$gt": now.UnixMilli()}},
		bson.M{"$set": bson.M{
			"isAccountVerified": true,
			"verifyOtp":         "",
			"verifyOtpExpireAt": int64(0),
			"updatedAt":         now,
		}},
	)
	if err != nil {
		r.log.Error("Failed to consume verify OTP", zap.Error(err), zap.String("user_id", id))
		return false, fmt.Errorf("consume verify OTP for user %s: %w", id, err)
	}

	return result.MatchedCount == 1, nil
}

func (r *mongoUserRepository) ConsumeResetOTP(ctx context.Context, id, code string, now time.Time, passwordHash string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil || code == "" {
		return false, nil
	}

	result, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "resetOtp": code, "resetOtpExpireAt": bson.M{"$gt": now.UnixMilli()}},
		bson.M{"$set": bson.M{
			"password":         passwordHash,
			"resetOtp":         "",
			"resetOtpExpireAt": int64(0),
			"updatedAt":        now,
		}},
	)
	if err != nil {
		r.log.Error("Failed to consume reset OTP", zap.Error(err), zap.String("user_id", id))
		return false, fmt.Errorf("consume reset OTP for user %s: %w", id, err)
	}

	return result.MatchedCount == 1, nil
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var doc userDocument
	err := r.col.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toEntity(), nil
}

func otpFields(purpose entity.OTPPurpose) (code, expireAt string) {
	if purpose == entity.OTPPurposeReset {
		return "resetOtp", "resetOtpExpireAt"
	}
	return "verifyOtp", "verifyOtpExpireAt"
}
