//-------------------------------------------------------------------------
//
// commercegen - relational vs document benchmark fixture generator
//
// Copyright (c) 2025 - 2026, the commercegen authors
// This software is released under the MIT License
//
//-------------------------------------------------------------------------

package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/commercebench/commercegen/internal/emit"
	"github.com/commercebench/commercegen/internal/logging"
)

// Sale documents are inserted in chunks so a large run does not build
// one oversized InsertMany payload.
const mongoInsertChunk = 2000

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	logging.Debug().Str("uri", uri).Msg("connected to MongoDB")
	return client, nil
}

func loadMongoCatalog(ctx context.Context, cfg Config) error {
	return loadMongoCollection(ctx, cfg, emit.CatalogFileName, "stores")
}

func loadMongoSales(ctx context.Context, cfg Config) error {
	return loadMongoCollection(ctx, cfg, emit.SalesFileName, "sales")
}

// loadMongoCollection drops the target collection and inserts every
// document from the named artifact. The extended-JSON date wrappers are
// decoded through bson so timestamps land as real BSON dates.
func loadMongoCollection(ctx context.Context, cfg Config, artifact, collection string) error {
	if err := requireArtifacts(cfg, artifact); err != nil {
		return err
	}
	data, err := os.ReadFile(artifactPath(cfg, artifact))
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", artifact, err)
	}

	// The artifact is a JSON array; UnmarshalExtJSON wants one document
	// at a time, so split the array first.
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse %s: %w", artifact, err)
	}
	docs := make([]any, 0, len(raw))
	for i, msg := range raw {
		var doc bson.D
		if err := bson.UnmarshalExtJSON(msg, false, &doc); err != nil {
			return fmt.Errorf("failed to parse %s document %d: %w", artifact, i, err)
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return fmt.Errorf("%s contains no documents", artifact)
	}

	client, err := connectMongo(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() { _ = client.Disconnect(ctx) }()

	coll := client.Database(cfg.MongoDatabase).Collection(collection)
	if err := coll.Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop collection %s: %w", collection, err)
	}

	for start := 0; start < len(docs); start += mongoInsertChunk {
		end := start + mongoInsertChunk
		if end > len(docs) {
			end = len(docs)
		}
		if _, err := coll.InsertMany(ctx, docs[start:end]); err != nil {
			return fmt.Errorf("failed to insert into %s: %w", collection, err)
		}
	}

	logging.Debug().
		Str("collection", collection).
		Int("documents", len(docs)).
		Msg("loaded MongoDB collection")
	return nil
}
