package store

import (
	"context"
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/portindex/pkg/catalog"
	"github.com/matzehuels/portindex/pkg/errors"
)

// Mongo mirrors the structured catalog into a MongoDB collection.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo connects to uri and selects database.collection.
func OpenMongo(ctx context.Context, uri, database, collection string) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodePersist, err, "connect mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodePersist, err, "ping mongodb")
	}
	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

// Close disconnects from the server.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ReplacePackages removes every document in the collection and inserts one
// document per package, keyed by the canonical JSON field names.
func (m *Mongo) ReplacePackages(ctx context.Context, pkgs []catalog.Package) error {
	docs, err := Documents(pkgs)
	if err != nil {
		return err
	}
	if _, err := m.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return errors.Wrap(errors.ErrCodePersist, err, "clear collection")
	}
	if len(docs) == 0 {
		return nil
	}
	if _, err := m.coll.InsertMany(ctx, docs); err != nil {
		return errors.Wrap(errors.ErrCodePersist, err, "insert packages")
	}
	return nil
}

// Documents converts packages to BSON documents with the same field names
// and nesting as the JSON snapshot.
func Documents(pkgs []catalog.Package) ([]any, error) {
	docs := make([]any, 0, len(pkgs))
	for _, p := range pkgs {
		data, err := json.Marshal(p)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodePersist, err, "encode %s", p.Name)
		}
		var doc bson.D
		if err := bson.UnmarshalExtJSON(data, false, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodePersist, err, "convert %s", p.Name)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
