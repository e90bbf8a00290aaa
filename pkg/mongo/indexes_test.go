package mongo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/prodigypm/pkg/mongo"
)

func TestIndexSpec(t *testing.T) {
	t.Parallel()

	spec := mongo.IndexSpec{
		Collection: "projects",
		Keys: []mongo.IndexKey{
			{Field: "ownerId", Direction: mongo.Ascending},
			{Field: "createdAt", Direction: mongo.Descending},
		},
	}
	assert.Equal(t, "ownerId_1_createdAt_-1", spec.Name())
	assert.Equal(t, "projects.ownerId_1_createdAt_-1", spec.String())
	assert.Equal(t, bson.D{
		{Key: "ownerId", Value: int32(1)},
		{Key: "createdAt", Value: int32(-1)},
	}, spec.KeysDocument())

	textSpec := mongo.IndexSpec{
		Collection: "issues",
		Keys: []mongo.IndexKey{
			{Field: "title", Direction: mongo.Text},
			{Field: "description", Direction: mongo.Text},
		},
	}
	assert.Equal(t, "title_text_description_text", textSpec.Name())
	assert.Equal(t, "text", textSpec.KeysDocument()[0].Value)
}

func TestProvisioner_Provision(t *testing.T) {
	t.Parallel()

	t.Run("creates indexes in declared order", func(t *testing.T) {
		t.Parallel()
		conn := newFakeConn()
		p := mongo.NewProvisioner(nil, testIndexes()...)

		require.NoError(t, p.Provision(context.Background(), conn))
		assert.Equal(t, []string{
			"users.email_1",
			"issues.projectId_1_key_1",
			"sprints.projectId_1_startDate_-1",
		}, conn.Created())
	})

	t.Run("reapplying is safe", func(t *testing.T) {
		t.Parallel()
		conn := newFakeConn()
		p := mongo.NewProvisioner(nil, testIndexes()...)

		require.NoError(t, p.Provision(context.Background(), conn))
		require.NoError(t, p.Provision(context.Background(), conn))
		assert.Len(t, conn.Created(), 6)
	})

	t.Run("stops at first failure and identifies the index", func(t *testing.T) {
		t.Parallel()
		conn := newFakeConn()
		cause := errors.New("duplicate key")
		conn.indexErrs["issues.projectId_1_key_1"] = cause
		p := mongo.NewProvisioner(nil, testIndexes()...)

		err := p.Provision(context.Background(), conn)
		require.Error(t, err)

		var idxErr *mongo.IndexCreationError
		require.ErrorAs(t, err, &idxErr)
		assert.Equal(t, "issues", idxErr.Spec.Collection)
		assert.Equal(t, "projectId_1_key_1", idxErr.Spec.Name())
		assert.ErrorIs(t, err, mongo.ErrIndexCreation)
		assert.ErrorIs(t, err, cause)
		assert.Contains(t, err.Error(), "issues.projectId_1_key_1")

		assert.Equal(t, []string{"users.email_1"}, conn.Created(), "earlier indexes are kept")
	})

	t.Run("specs are copied", func(t *testing.T) {
		t.Parallel()
		p := mongo.NewProvisioner(nil, testIndexes()...)
		specs := p.Specs()
		specs[0].Collection = "changed"
		assert.Equal(t, "users", p.Specs()[0].Collection)
	})
}

func TestDefaultIndexes(t *testing.T) {
	t.Parallel()

	specs := mongo.DefaultIndexes()
	require.NotEmpty(t, specs)

	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		assert.NotEmpty(t, s.Collection)
		assert.NotEmpty(t, s.Keys, s.String())
		assert.False(t, seen[s.String()], "duplicate index %s", s)
		seen[s.String()] = true
	}

	assert.True(t, seen["users.email_1"])
	assert.True(t, seen["issues.projectId_1_key_1"])
	assert.True(t, seen["issues.title_text_description_text"])
}
