package services

import (
	"context"
	"crypto/tls"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/officialyou/backend/internal/models"
)

type MongoProfileService struct {
	client       *mongo.Client
	db           *mongo.Database
	profilesCol  *mongo.Collection
	usernamesCol *mongo.Collection
}

// usernameDoc is the reservation record: keyed by the username itself,
// pointing at the owning user.
type usernameDoc struct {
	Username string `bson:"_id"`
	UserID   string `bson:"uid"`
}

func NewMongoProfileService(ctx context.Context, mongoURI, dbName string) (*MongoProfileService, error) {
	// Atlas occasionally fails TLS negotiation in some environments unless we force TLS 1.2.
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
	profiles := db.Collection("users")
	usernames := db.Collection("usernames")

	// Best-effort indexes.
	_, _ = profiles.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}},
	})

	log.Printf("MongoDB connected: db=%s", dbName)
	return &MongoProfileService{
		client:       client,
		db:           db,
		profilesCol:  profiles,
		usernamesCol: usernames,
	}, nil
}

func (s *MongoProfileService) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoProfileService) Create(ctx context.Context, prof *models.Profile) error {
	username := strings.ToLower(prof.Username)
	now := time.Now().UTC()

	// Reserve first. The _id insert is atomic, so two racing signups for the
	// same name cannot both get past this point.
	_, err := s.usernamesCol.InsertOne(ctx, usernameDoc{Username: username, UserID: prof.UserID})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrUsernameTaken
		}
		return err
	}

	p := *prof
	p.Username = username
	p.CreatedAt = now
	p.UpdatedAt = now

	if _, err := s.profilesCol.InsertOne(ctx, p); err != nil {
		// Release the reservation so a failed signup doesn't squat the name.
		if _, derr := s.usernamesCol.DeleteOne(ctx, bson.M{"_id": username}); derr != nil {
			log.Printf("[ProfileCreate] orphaned username reservation %q: %v", username, derr)
		}
		return err
	}

	*prof = p
	return nil
}

func (s *MongoProfileService) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	var prof models.Profile
	if err := s.profilesCol.FindOne(ctx, bson.M{"user_id": userID}).Decode(&prof); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &prof, nil
}

func (s *MongoProfileService) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	var prof models.Profile
	err := s.profilesCol.FindOne(ctx, bson.M{"username": strings.ToLower(username)}).Decode(&prof)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &prof, nil
}

func (s *MongoProfileService) Update(ctx context.Context, userID string, req *models.UpdateProfileRequest) (*models.Profile, error) {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if req.FullName != nil {
		set["full_name"] = *req.FullName
	}
	if req.Motto != nil {
		set["motto"] = *req.Motto
	}
	if req.Location != nil {
		set["location"] = *req.Location
	}
	if req.Email != nil {
		set["email"] = *req.Email
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}

	res, err := s.profilesCol.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": set})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrProfileNotFound
	}

	return s.GetByUserID(ctx, userID)
}

func (s *MongoProfileService) SetLinks(ctx context.Context, userID string, list []models.LinkEntry) (*models.Profile, error) {
	if list == nil {
		list = []models.LinkEntry{}
	}

	res, err := s.profilesCol.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{
		"$set": bson.M{
			"links":      list,
			"updated_at": time.Now().UTC(),
		},
		// Once the canonical shape is written the legacy fields are dropped
		// so the document never carries both.
		"$unset": bson.M{
			"social_links": "",
			"custom_links": "",
		},
	})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrProfileNotFound
	}

	return s.GetByUserID(ctx, userID)
}

func (s *MongoProfileService) SetPhotoURL(ctx context.Context, userID, photoURL string) (*models.Profile, error) {
	res, err := s.profilesCol.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{
		"$set": bson.M{
			"photo_url":  photoURL,
			"updated_at": time.Now().UTC(),
		},
	})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrProfileNotFound
	}

	return s.GetByUserID(ctx, userID)
}

func (s *MongoProfileService) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	err := s.usernamesCol.FindOne(ctx, bson.M{"_id": strings.ToLower(username)}).Err()
	if err == mongo.ErrNoDocuments {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

func (s *MongoProfileService) Delete(ctx context.Context, userID string) (string, error) {
	prof, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return "", err
	}

	_, _ = s.usernamesCol.DeleteOne(ctx, bson.M{"_id": prof.Username})
	if _, err := s.profilesCol.DeleteOne(ctx, bson.M{"user_id": userID}); err != nil {
		return "", err
	}
	return prof.PhotoURL, nil
}
