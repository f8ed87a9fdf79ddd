package services

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/officialyou/backend/internal/models"
)

type MongoReferralService struct {
	client   *mongo.Client
	db       *mongo.Database
	codesCol *mongo.Collection
}

func NewMongoReferralService(ctx context.Context, mongoURI, dbName string) (*MongoReferralService, error) {
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
	return &MongoReferralService{
		client:   client,
		db:       db,
		codesCol: db.Collection("referralCodes"),
	}, nil
}

func (s *MongoReferralService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoReferralService) BulkCreate(ctx context.Context, createdBy string, codes []string) ([]models.CodeResult, error) {
	results := make([]models.CodeResult, 0, len(codes))
	for _, code := range codes {
		rec := models.ReferralCode{
			Code:      code,
			Used:      false,
			CreatedBy: createdBy,
			CreatedAt: time.Now().UTC(),
		}
		_, err := s.codesCol.InsertOne(ctx, rec)
		switch {
		case err == nil:
			results = append(results, models.CodeResult{Code: code, Status: "created", Success: true})
		case mongo.IsDuplicateKeyError(err):
			results = append(results, models.CodeResult{Code: code, Status: "already exists", Success: false})
		default:
			results = append(results, models.CodeResult{Code: code, Status: "error: " + err.Error(), Success: false})
		}
	}
	return results, nil
}

func (s *MongoReferralService) Redeem(ctx context.Context, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))

	res, err := s.codesCol.UpdateOne(ctx,
		bson.M{"_id": code, "used": false},
		bson.M{"$set": bson.M{"used": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Distinguish missing from already-used for a useful error message.
		if err := s.codesCol.FindOne(ctx, bson.M{"_id": code}).Err(); err == mongo.ErrNoDocuments {
			return ErrCodeNotFound
		}
		return ErrCodeUsed
	}
	return nil
}
