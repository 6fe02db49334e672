package repository

import (
	"context"
	"errors"
	"fmt"
	"linklet/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// InsertWorkflow stores a new workflow record. All fields are supplied by
// the caller, nothing is assigned here.
func (m *MongoDB) InsertWorkflow(ctx context.Context, workflow *entity.Workflow) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(workflowsCollection)
	_, err = collection.InsertOne(ctx, workflow)
	if err != nil {
		return fmt.Errorf("mongodb insert error: %w", err)
	}
	return nil
}

// GetWorkflow returns the workflow with the given UUID, or nil when no
// record exists.
func (m *MongoDB) GetWorkflow(ctx context.Context, uuid string) (*entity.Workflow, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(workflowsCollection)
	filter := bson.D{{Key: "uuid", Value: uuid}}

	var workflow entity.Workflow
	err = collection.FindOne(ctx, filter).Decode(&workflow)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, m.findError(err)
	}
	return &workflow, nil
}

// GetWorkflowsByOwner returns all workflows of one owner in creation order.
func (m *MongoDB) GetWorkflowsByOwner(ctx context.Context, ownerID int64) ([]entity.Workflow, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(workflowsCollection)
	filter := bson.D{{Key: "owner_id", Value: ownerID}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	var workflows []entity.Workflow
	if err = cursor.All(ctx, &workflows); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}
	return workflows, nil
}

// UpdateWorkflow replaces the stored record. Single-document writes are
// atomic in Mongo, which is the only serialization this layer promises.
func (m *MongoDB) UpdateWorkflow(ctx context.Context, workflow *entity.Workflow) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(workflowsCollection)
	filter := bson.D{{Key: "uuid", Value: workflow.UUID}}

	_, err = collection.ReplaceOne(ctx, filter, workflow)
	if err != nil {
		return fmt.Errorf("mongodb update error: %w", err)
	}
	return nil
}

// DeleteWorkflow removes the record. Deleting an absent record is not an
// error.
func (m *MongoDB) DeleteWorkflow(ctx context.Context, uuid string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(workflowsCollection)
	filter := bson.D{{Key: "uuid", Value: uuid}}

	_, err = collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("mongodb delete error: %w", err)
	}
	return nil
}
