package repository

import (
	"context"
	"time"

	"github.com/example/freshmart/pkg/config"
	"github.com/example/freshmart/pkg/order"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Mongo struct {
	client   *mongo.Client
	database *mongo.Database
	config   *config.MongoDBConfig
}

func NewMongo(cfg *config.MongoDBConfig) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, err
	}

	return &Mongo{
		client:   client,
		database: client.Database(cfg.Database),
		config:   cfg,
	}, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// OrderEvent is one audit entry in the order lifecycle.
type OrderEvent struct {
	ID        string    `bson:"_id,omitempty"`
	Action    string    `bson:"action"`
	OrderID   string    `bson:"order_id"`
	Data      bson.M    `bson:"data"`
	CreatedAt time.Time `bson:"created_at"`
}

// RecordOrderEvent appends an audit entry for the order. Satisfies
// order.AuditLog.
func (m *Mongo) RecordOrderEvent(ctx context.Context, action string, o *order.Order) error {
	collection := m.database.Collection(m.config.Collection)
	event := &OrderEvent{
		Action:  action,
		OrderID: o.ID,
		Data: bson.M{
			"customer_id": o.CustomerID,
			"status":      string(o.Status),
			"total":       o.Total.StringFixed(2),
		},
		CreatedAt: time.Now(),
	}
	_, err := collection.InsertOne(ctx, event)
	return err
}

// OrderEvents returns the most recent audit entries for an order.
func (m *Mongo) OrderEvents(ctx context.Context, orderID string, limit int64) ([]*OrderEvent, error) {
	collection := m.database.Collection(m.config.Collection)

	filter := bson.M{"order_id": orderID}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*OrderEvent
	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	return events, nil
}
