package repository

import (
	"access-service/internal/config"
	"access-service/internal/repository/model"
	"access-service/internal/repository/registrytypes"
	"context"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
	"sync"
	"time"
)

const (
	databaseName         = "access-service"
	memberCollectionName = "members"
	schemeCollectionName = "schemes"

	queryTimeout = 5 * time.Second
)

type mongoRepository struct {
	database *mongo.Database

	memberCollection *mongo.Collection
	schemeCollection *mongo.Collection
}

// NewMongoRepository connects to MongoDB and disconnects once ctx is cancelled.
func NewMongoRepository(ctx context.Context, logger *zap.SugaredLogger, wg *sync.WaitGroup, cfg config.MongoDBConfig) (Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI).SetRegistry(createCodecRegistry()))
	if err != nil {
		return nil, err
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		logger.Info("disconnecting from mongodb")
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Errorw("failed to disconnect from mongodb", "error", err)
		}
	}()

	return newMongoRepository(client.Database(databaseName)), nil
}

func newMongoRepository(database *mongo.Database) *mongoRepository {
	return &mongoRepository{
		database:         database,
		memberCollection: database.Collection(memberCollectionName),
		schemeCollection: database.Collection(schemeCollectionName),
	}
}

func (m *mongoRepository) GetMember(ctx context.Context, memberId uuid.UUID) (*model.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var member model.Member
	if err := m.memberCollection.FindOne(ctx, bson.M{"_id": memberId}).Decode(&member); err != nil {
		return nil, err
	}

	return &member, nil
}

func (m *mongoRepository) GetMembers(ctx context.Context, memberIds []uuid.UUID) ([]*model.Member, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if len(memberIds) == 0 {
		return []*model.Member{}, nil
	}

	cursor, err := m.memberCollection.Find(ctx, bson.M{"_id": bson.M{"$in": memberIds}})
	if err != nil {
		return nil, err
	}

	var mongoResult []model.Member
	if err := cursor.All(ctx, &mongoResult); err != nil {
		return nil, err
	}

	slice := make([]*model.Member, len(mongoResult))
	for i := range mongoResult {
		slice[i] = &mongoResult[i]
	}

	return slice, nil
}

func (m *mongoRepository) UpdateMemberPermissions(ctx context.Context, memberId uuid.UUID, permissions []string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if permissions == nil {
		permissions = []string{}
	}

	result, err := m.memberCollection.UpdateOne(ctx, bson.M{"_id": memberId}, bson.M{"$set": bson.M{"permissions": permissions}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func (m *mongoRepository) GetScheme(ctx context.Context, schemeId uuid.UUID) (*model.Scheme, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var scheme model.Scheme
	if err := m.schemeCollection.FindOne(ctx, bson.M{"_id": schemeId}).Decode(&scheme); err != nil {
		return nil, err
	}

	return &scheme, nil
}

func (m *mongoRepository) GetAllSchemes(ctx context.Context) ([]*model.Scheme, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := m.schemeCollection.Find(ctx, bson.D{})
	if err != nil {
		return nil, err
	}

	var mongoResult []model.Scheme
	if err := cursor.All(ctx, &mongoResult); err != nil {
		return nil, err
	}

	slice := make([]*model.Scheme, len(mongoResult))
	for i := range mongoResult {
		slice[i] = &mongoResult[i]
	}

	return slice, nil
}

func (m *mongoRepository) UpdateSchemeCommission(ctx context.Context, schemeId uuid.UUID, commission map[string]float64) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := m.schemeCollection.UpdateOne(ctx, bson.M{"_id": schemeId}, bson.M{"$set": bson.M{"commission": commission}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func createCodecRegistry() *bsoncodec.Registry {
	return bson.NewRegistryBuilder().
		RegisterTypeEncoder(registrytypes.UUIDType, bsoncodec.ValueEncoderFunc(registrytypes.UuidEncodeValue)).
		RegisterTypeDecoder(registrytypes.UUIDType, bsoncodec.ValueDecoderFunc(registrytypes.UuidDecodeValue)).
		Build()
}
