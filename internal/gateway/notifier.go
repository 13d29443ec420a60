package gateway

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
)

// mongoNotifier implements Notifier on top of MongoDB change streams.
// Events are coalesced: the consumer only ever needs to know that the table
// changed, so an undelivered signal is not queued behind another.
type mongoNotifier struct {
	db *mongo.Database
}

// NewMongoNotifier creates the production Notifier.
func NewMongoNotifier(database *mongo.Database) Notifier {
	return &mongoNotifier{db: database}
}

// Subscribe opens a change stream on the named collection and pumps one
// ChangeEvent per stream event into the returned channel. The channel closes
// when the stream dies; the caller is expected to resubscribe.
func (n *mongoNotifier) Subscribe(ctx context.Context, table string) (<-chan ChangeEvent, error) {
	stream, err := n.db.Collection(table).Watch(ctx, mongo.Pipeline{})
	if err != nil {
		return nil, fmt.Errorf("failed to open change stream on %s: %w", table, err)
	}

	ch := make(chan ChangeEvent, 1)
	go func() {
		defer close(ch)
		defer func() {
			if err := stream.Close(context.Background()); err != nil {
				log.Printf("error closing change stream on %s: %v", table, err)
			}
		}()

		for stream.Next(ctx) {
			select {
			case ch <- ChangeEvent{Table: table}:
			default:
				// A signal is already pending; the reload it triggers will
				// observe this change too.
			}
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			log.Printf("change stream on %s ended: %v", table, err)
		}
	}()

	return ch, nil
}
