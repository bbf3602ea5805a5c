package repository

import (
	"context"
	"testing"
	"time"

	"advance-auth/internal/data/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"
)

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns object id", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u := &entity.User{Name: "Alice", Email: "a@x.com", PasswordHash: "hash"}
		require.NoError(mt, repo.Create(context.Background(), u))

		_, err := primitive.ObjectIDFromHex(u.ID)
		assert.NoError(mt, err)
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Create(context.Background(), &entity.User{Email: "a@x.com"})
		assert.ErrorIs(mt, err, ErrDuplicate)
	})

	mt.Run("find by email", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB, zap.NewNop())
		oid := primitive.NewObjectID()
		ns := mt.DB.Name() + "." + usersCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "name", Value: "Alice"},
			{Key: "email", Value: "a@x.com"},
			{Key: "password", Value: "hash"},
			{Key: "isAccountVerified", Value: false},
			{Key: "verifyOtp", Value: "482193"},
			{Key: "verifyOtpExpireAt", Value: int64(1234)},
			{Key: "resetOtp", Value: ""},
			{Key: "resetOtpExpireAt", Value: int64(0)},
		}))

		u, err := repo.FindByEmail(context.Background(), "a@x.com")
		require.NoError(mt, err)
		assert.Equal(mt, oid.Hex(), u.ID)
		assert.Equal(mt, "Alice", u.Name)
		assert.Equal(mt, "hash", u.PasswordHash)
		assert.Equal(mt, "482193", u.VerifyOTP)
		assert.Equal(mt, int64(1234), u.VerifyOTPExpireAt)
	})

	mt.Run("find by email not found", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB, zap.NewNop())
		ns := mt.DB.Name() + "." + usersCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := repo.FindByEmail(context.Background(), "nobody@x.com")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("find by malformed id", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB, zap.NewNop())

		_, err := repo.FindByID(context.Background(), "not-an-object-id")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("set otp on missing account", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := repo.SetOTP(context.Background(), primitive.NewObjectID().Hex(), entity.OTPPurposeVerify, "482193", 1, time.Now())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("consume verify otp applied", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		ok, err := repo.ConsumeVerifyOTP(context.Background(), primitive.NewObjectID().Hex(), "482193", time.Now())
		require.NoError(mt, err)
		assert.True(mt, ok)
	})

	mt.Run("consume reset otp not matched", func(mt *mtest.T) {
		repo := NewMongoUserRepository(mt.DB, zap.NewNop())
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		ok, err := repo.ConsumeResetOTP(context.Background(), primitive.NewObjectID().Hex(), "000000", time.Now(), "hash")
		require.NoError(mt, err)
		assert.False(mt, ok)
	})
}
