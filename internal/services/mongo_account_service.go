package services

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"github.com/officialyou/backend/internal/models"
)

type MongoAccountService struct {
	client      *mongo.Client
	db          *mongo.Database
	accountsCol *mongo.Collection
}

func NewMongoAccountService(ctx context.Context, mongoURI, dbName string) (*MongoAccountService, error) {
	tlsCfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		MaxVersion: tls.VersionTLS12,
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI).SetTLSConfig(tlsCfg))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(dbName)
	accounts := db.Collection("accounts")

	// Best-effort indexes.
	_, _ = accounts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})

	return &MongoAccountService{
		client:      client,
		db:          db,
		accountsCol: accounts,
	}, nil
}

func (s *MongoAccountService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoAccountService) Register(ctx context.Context, email, password string) (*models.Account, error) {
	email = normalizeEmail(email)

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Provider:     "password",
		CreatedAt:    time.Now().UTC(),
	}

	if _, err := s.accountsCol.InsertOne(ctx, account); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}

	return account, nil
}

func (s *MongoAccountService) Authenticate(ctx context.Context, email, password string) (*models.Account, error) {
	var account models.Account
	err := s.accountsCol.FindOne(ctx, bson.M{"email": normalizeEmail(email)}).Decode(&account)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}

	return &account, nil
}

func (s *MongoAccountService) GetByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := s.accountsCol.FindOne(ctx, bson.M{"_id": id}).Decode(&account); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (s *MongoAccountService) EnsureFederated(ctx context.Context, uid, email string) (*models.Account, bool, error) {
	var existing models.Account
	err := s.accountsCol.FindOne(ctx, bson.M{"_id": uid}).Decode(&existing)
	if err == nil {
		return &existing, false, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, false, err
	}

	account := &models.Account{
		ID:        uid,
		Email:     normalizeEmail(email),
		Provider:  "google",
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.accountsCol.InsertOne(ctx, account); err != nil {
		// A racing first sign-in created it; fetch again.
		if mongo.IsDuplicateKeyError(err) {
			var retry models.Account
			if err2 := s.accountsCol.FindOne(ctx, bson.M{"_id": uid}).Decode(&retry); err2 == nil {
				return &retry, false, nil
			}
		}
		return nil, false, err
	}

	return account, true, nil
}

func (s *MongoAccountService) Delete(ctx context.Context, id string) error {
	res, err := s.accountsCol.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrAccountNotFound
	}
	return nil
}
