package mongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/kennedykori/credrails-reconciler/internal"
)

// Source streams the documents of a collection as records. Document key
// order is preserved, so the first key of each document carries the
// record identity. The connection URI names the database in its path and
// the collection in the "collection" query parameter, e.g.
// mongodb://localhost:27017/test?collection=users.
type Source struct {
	client     *mongo.Client
	connURI    *url.URL
	database   string
	collection string
	logger     *zap.Logger

	cursor *mongo.Cursor
}

func NewSource(uri *url.URL, logger *zap.Logger) (*Source, error) {
	database := strings.TrimPrefix(uri.Path, "/")
	collection := uri.Query().Get("collection")

	if database == "" {
		return nil, fmt.Errorf("database must be specified in URL path")
	}
	if collection == "" {
		return nil, fmt.Errorf("collection must be specified in URL query")
	}

	return &Source{
		connURI:    uri,
		database:   database,
		collection: collection,
		logger:     logger,
	}, nil
}

func (s *Source) connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.connURI.String()))
	if err != nil {
		return err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, nil); err != nil {
		return err
	}

	cursor, err := client.Database(s.database).Collection(s.collection).Find(ctx, bson.D{})
	if err != nil {
		return err
	}

	s.client = client
	s.cursor = cursor

	s.logger.Info("mongo source connected",
		zap.String("database", s.database),
		zap.String("collection", s.collection))
	return nil
}

// Next returns the next document as a record, connecting and opening the
// cursor on the first call.
func (s *Source) Next(ctx context.Context) (*internal.Record, error) {
	if s.cursor == nil {
		if err := s.connect(ctx); err != nil {
			return nil, err
		}
	}

	if !s.cursor.Next(ctx) {
		if err := s.cursor.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}

	var doc bson.D
	if err := s.cursor.Decode(&doc); err != nil {
		return nil, err
	}

	columns := make([]string, len(doc))
	values := make([]string, len(doc))
	for i, element := range doc {
		columns[i] = element.Key
		values[i] = formatValue(element.Value)
	}

	return internal.NewRecord(columns, values), nil
}

func (s *Source) Close() error {
	ctx := context.Background()

	var errs []error
	if s.cursor != nil {
		errs = append(errs, s.cursor.Close(ctx))
	}
	if s.client != nil {
		errs = append(errs, s.client.Disconnect(ctx))
	}
	return errors.Join(errs...)
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
