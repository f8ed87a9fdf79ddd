package services

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/officialyou/backend/internal/models"
)

type MongoWaitlistService struct {
	client      *mongo.Client
	db          *mongo.Database
	waitlistCol *mongo.Collection
}

func NewMongoWaitlistService(ctx context.Context, mongoURI, dbName string) (*MongoWaitlistService, error) {
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
	return &MongoWaitlistService{
		client:      client,
		db:          db,
		waitlistCol: db.Collection("waitlist"),
	}, nil
}

func (s *MongoWaitlistService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoWaitlistService) Add(ctx context.Context, req *models.JoinWaitlistRequest) (*models.WaitlistEntry, error) {
	entry := &models.WaitlistEntry{
		ID:          uuid.New().String(),
		FirstName:   strings.TrimSpace(req.FirstName),
		Email:       strings.TrimSpace(req.Email),
		Reason:      strings.TrimSpace(req.Reason),
		SubmittedAt: time.Now().UTC(),
	}

	if _, err := s.waitlistCol.InsertOne(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
