package docstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoConfig holds connection parameters for the mongo-backed store.
type MongoConfig struct {
	ConnectionURL   string        `env:"MONGODB_URL,required"`                     // ConnectionURL is the URL of the database.
	Database        string        `env:"MONGODB_DATABASE" envDefault:"records"`    // Database holding the records collection.
	Collection      string        `env:"MONGODB_COLLECTION" envDefault:"records"`  // Collection holding the record documents.
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"` // ConnectTimeout is the timeout for connecting to the database.
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`   // MaxPoolSize caps the connection pool.
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`    // RetryAttempts is the number of connection attempts.
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`   // RetryInterval is the pause between attempts.
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"300s"`
}

// ConnectMongo connects to mongo with retries and returns the records
// collection.
func ConnectMongo(ctx context.Context, cfg MongoConfig) (*mongo.Collection, error) {
	for range cfg.RetryAttempts {
		client, err := mongo.Connect(
			options.Client().
				ApplyURI(cfg.ConnectionURL).
				SetConnectTimeout(cfg.ConnectTimeout).
				SetMaxPoolSize(cfg.MaxPoolSize).
				SetMaxConnIdleTime(cfg.MaxConnIdleTime),
		)
		if err == nil {
			if err := client.Ping(ctx, nil); err == nil {
				return client.Database(cfg.Database).Collection(cfg.Collection), nil
			}
		}

		time.Sleep(cfg.RetryInterval)
	}

	return nil, ErrMongoConnectionFailed
}

// MongoStore serves keyed index lookups and document multi-gets from a
// records collection. Each stored record carries a search_keys array with
// one entry per indexed attribute; the collection is expected to have an
// index on that field.
type MongoStore struct {
	col *mongo.Collection
}

// NewMongoStore wraps an existing records collection.
func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{col: col}
}

// QueryView returns the ids of records whose search_keys contain key.
func (s *MongoStore) QueryView(ctx context.Context, view, key string) ([]Row, error) {
	if view != ViewRecordsByKey {
		return nil, errors.Join(ErrUnknownView, errors.New(view))
	}

	cursor, err := s.col.Find(ctx,
		bson.M{"search_keys": key},
		options.Find().SetProjection(bson.M{"_id": 1}),
	)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	defer cursor.Close(ctx)

	var hits []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &hits); err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}

	rows := make([]Row, len(hits))
	for i, h := range hits {
		rows[i] = Row{ID: h.ID}
	}
	return rows, nil
}

// FetchDocs returns the full documents for the given ids. Missing ids are
// silently absent from the result.
func (s *MongoStore) FetchDocs(ctx context.Context, ids []string) ([]Doc, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := s.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}
	defer cursor.Close(ctx)

	var docs []Doc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}
	return docs, nil
}
