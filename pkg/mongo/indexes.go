package mongo

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/prodigypm/pkg/logger"
)

// IndexDirection is the sort order (or index type) of a single key.
type IndexDirection int

const (
	Ascending IndexDirection = iota + 1
	Descending
	Text
)

// Value returns the representation the server expects in an index key document.
func (d IndexDirection) Value() any {
	switch d {
	case Descending:
		return int32(-1)
	case Text:
		return "text"
	default:
		return int32(1)
	}
}

func (d IndexDirection) String() string {
	switch d {
	case Descending:
		return "-1"
	case Text:
		return "text"
	default:
		return "1"
	}
}

// IndexKey is one field of a compound index.
type IndexKey struct {
	Field     string
	Direction IndexDirection
}

// IndexSpec declares an index the application relies on.
// Background is kept for readability only; servers since 4.2 ignore it.
type IndexSpec struct {
	Collection string
	Keys       []IndexKey
	Unique     bool
	Sparse     bool
	Background bool
}

// Name returns the index name the server would generate, e.g. "projectId_1_key_1".
func (s IndexSpec) Name() string {
	parts := make([]string, 0, len(s.Keys)*2)
	for _, k := range s.Keys {
		parts = append(parts, k.Field, k.Direction.String())
	}
	return strings.Join(parts, "_")
}

// KeysDocument returns the ordered key document.
func (s IndexSpec) KeysDocument() bson.D {
	doc := make(bson.D, 0, len(s.Keys))
	for _, k := range s.Keys {
		doc = append(doc, bson.E{Key: k.Field, Value: k.Direction.Value()})
	}
	return doc
}

func (s IndexSpec) String() string {
	return fmt.Sprintf("%s.%s", s.Collection, s.Name())
}

// IndexCreator creates a single index. Creating an index that already exists
// with the same definition must succeed.
type IndexCreator interface {
	CreateIndex(ctx context.Context, spec IndexSpec) (string, error)
}

// Provisioner creates the declared indexes after every successful connect.
type Provisioner struct {
	specs []IndexSpec
	log   Logger
}

// NewProvisioner returns a provisioner for the given specs, in order.
func NewProvisioner(log Logger, specs ...IndexSpec) *Provisioner {
	if log == nil {
		log = discardLogger()
	}
	return &Provisioner{specs: specs, log: log}
}

// Specs returns a copy of the declared index list.
func (p *Provisioner) Specs() []IndexSpec {
	return append([]IndexSpec(nil), p.specs...)
}

// Provision creates every index in declaration order and stops at the first
// failure. Indexes created before the failure are left in place.
func (p *Provisioner) Provision(ctx context.Context, c IndexCreator) error {
	for _, spec := range p.specs {
		name, err := c.CreateIndex(ctx, spec)
		if err != nil {
			return &IndexCreationError{Spec: spec, Err: err}
		}
		p.log.InfoContext(ctx, "Index ensured",
			logger.Component(component),
			logger.Collection(spec.Collection),
			logger.Index(name),
		)
	}
	return nil
}

func asc(field string) IndexKey  { return IndexKey{Field: field, Direction: Ascending} }
func desc(field string) IndexKey { return IndexKey{Field: field, Direction: Descending} }
func text(field string) IndexKey { return IndexKey{Field: field, Direction: Text} }

// DefaultIndexes is the index set required by the product collections.
func DefaultIndexes() []IndexSpec {
	return []IndexSpec{
		{Collection: "users", Keys: []IndexKey{asc("email")}, Unique: true, Background: true},
		{Collection: "users", Keys: []IndexKey{asc("githubId")}, Unique: true, Sparse: true, Background: true},

		{Collection: "projects", Keys: []IndexKey{asc("key")}, Unique: true, Background: true},
		{Collection: "projects", Keys: []IndexKey{asc("ownerId"), desc("createdAt")}, Background: true},

		{Collection: "issues", Keys: []IndexKey{asc("projectId"), asc("key")}, Unique: true, Background: true},
		{Collection: "issues", Keys: []IndexKey{asc("projectId"), asc("status"), asc("rank")}, Background: true},
		{Collection: "issues", Keys: []IndexKey{asc("sprintId")}, Sparse: true, Background: true},
		{Collection: "issues", Keys: []IndexKey{asc("assigneeId")}, Sparse: true, Background: true},
		{Collection: "issues", Keys: []IndexKey{text("title"), text("description")}, Background: true},

		{Collection: "sprints", Keys: []IndexKey{asc("projectId"), desc("startDate")}, Background: true},
		{Collection: "sprints", Keys: []IndexKey{asc("projectId"), asc("status")}, Background: true},

		{Collection: "github_syncs", Keys: []IndexKey{asc("projectId"), asc("repository")}, Unique: true, Background: true},

		{Collection: "ai_generations", Keys: []IndexKey{asc("projectId"), desc("createdAt")}, Background: true},
	}
}
