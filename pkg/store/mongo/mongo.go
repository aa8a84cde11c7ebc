// Package mongo implements the module graph store against MongoDB, the
// platform's system of record.
//
// Collections:
//
//	modules              catalog entries, _id = module ID
//	module_dependencies  one document per directed edge, unique on (from_id, to_id)
//	module_installations one document per (target_id, module_id) with enabled flag
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dramac-main/dramac-cms-sub010/pkg/observability"
	"github.com/dramac-main/dramac-cms-sub010/pkg/registry"
)

// Store is a MongoDB-backed [registry.Store]. Create instances with
// [Connect]; safe for concurrent use.
type Store struct {
	client        *mongo.Client
	modules       *mongo.Collection
	dependencies  *mongo.Collection
	installations *mongo.Collection
}

// Connect dials MongoDB and binds the store to the given database. The
// connection is verified with a ping before the store is returned.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	db := client.Database(database)
	s := &Store{
		client:        client,
		modules:       db.Collection("modules"),
		dependencies:  db.Collection("module_dependencies"),
		installations: db.Collection("module_installations"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// ensureIndexes creates the unique edge index and the installation lookup
// index. The unique (from_id, to_id) index is what gives UpsertEdge its
// last-write-wins semantics under concurrent writers.
func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.dependencies.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "from_id", Value: 1}, {Key: "to_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create dependency index: %w", err)
	}
	_, err = s.installations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "target_id", Value: 1}, {Key: "enabled", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create installation index: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Module implements [registry.Source].
func (s *Store) Module(ctx context.Context, id string) (registry.Module, error) {
	start := time.Now()
	var m registry.Module
	err := s.modules.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	observability.Store().OnQuery(ctx, "module", time.Since(start), err)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return registry.Module{}, fmt.Errorf("%w: %s", registry.ErrModuleNotFound, id)
	}
	if err != nil {
		return registry.Module{}, fmt.Errorf("find module %s: %w", id, err)
	}
	return m, nil
}

// Edges implements [registry.Source].
func (s *Store) Edges(ctx context.Context, moduleID string) ([]registry.Dependency, error) {
	start := time.Now()
	cur, err := s.dependencies.Find(ctx, bson.M{"from_id": moduleID})
	observability.Store().OnQuery(ctx, "edges", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("find edges for %s: %w", moduleID, err)
	}
	defer cur.Close(ctx)

	var edges []registry.Dependency
	if err := cur.All(ctx, &edges); err != nil {
		return nil, fmt.Errorf("decode edges for %s: %w", moduleID, err)
	}
	return edges, nil
}

// installationDoc is the persisted shape of one installation record.
type installationDoc struct {
	TargetID string `bson:"target_id"`
	ModuleID string `bson:"module_id"`
	Version  string `bson:"version,omitempty"`
	Enabled  bool   `bson:"enabled"`
}

// Installed implements [registry.Source], returning enabled modules only.
func (s *Store) Installed(ctx context.Context, targetID string) (map[string]bool, error) {
	docs, err := s.installedDocs(ctx, targetID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(docs))
	for _, d := range docs {
		out[d.ModuleID] = true
	}
	return out, nil
}

// InstalledVersions implements [registry.VersionedSource].
func (s *Store) InstalledVersions(ctx context.Context, targetID string) (map[string]string, error) {
	docs, err := s.installedDocs(ctx, targetID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(docs))
	for _, d := range docs {
		if d.Version != "" {
			out[d.ModuleID] = d.Version
		}
	}
	return out, nil
}

func (s *Store) installedDocs(ctx context.Context, targetID string) ([]installationDoc, error) {
	start := time.Now()
	cur, err := s.installations.Find(ctx, bson.M{"target_id": targetID, "enabled": true})
	observability.Store().OnQuery(ctx, "installed", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("find installations for %s: %w", targetID, err)
	}
	defer cur.Close(ctx)

	var docs []installationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode installations for %s: %w", targetID, err)
	}
	return docs, nil
}

// UpsertEdge implements [registry.Mutator]. The unique (from_id, to_id)
// index makes concurrent upserts of the same pair last-write-wins.
func (s *Store) UpsertEdge(ctx context.Context, dep registry.Dependency) error {
	start := time.Now()
	_, err := s.dependencies.UpdateOne(ctx,
		bson.M{"from_id": dep.FromID, "to_id": dep.ToID},
		bson.M{
			"$set": bson.M{
				"type":        dep.Type,
				"min_version": dep.MinVersion,
				"max_version": dep.MaxVersion,
				"updated_at":  time.Now().UTC(),
			},
			"$setOnInsert": bson.M{
				"_id":        uuid.NewString(),
				"created_at": time.Now().UTC(),
			},
		},
		options.Update().SetUpsert(true),
	)
	observability.Store().OnMutation(ctx, "upsert_edge", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("upsert edge %s → %s: %w", dep.FromID, dep.ToID, err)
	}
	return nil
}

// DeleteEdge implements [registry.Mutator]. Deleting a missing edge is not
// an error.
func (s *Store) DeleteEdge(ctx context.Context, fromID, toID string) error {
	start := time.Now()
	_, err := s.dependencies.DeleteOne(ctx, bson.M{"from_id": fromID, "to_id": toID})
	observability.Store().OnMutation(ctx, "delete_edge", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("delete edge %s → %s: %w", fromID, toID, err)
	}
	return nil
}

var (
	_ registry.Store           = (*Store)(nil)
	_ registry.VersionedSource = (*Store)(nil)
)
