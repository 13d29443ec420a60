package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/config"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/db"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/models"
)

const (
	itemsCollection    = "items"
	profilesCollection = "profiles"
	marksCollection    = "interest_marks"
	offersCollection   = "offers"
	messagesCollection = "messages"
)

// mongoGateway implements Gateway against MongoDB, with a Redis read-through
// cache in front of the profile batch lookup.
type mongoGateway struct {
	db  *mongo.Database
	rdb *redis.Client
	cfg *config.Config
}

// NewMongo creates the production Gateway.
func NewMongo(database *mongo.Database, rdb *redis.Client, cfg *config.Config) Gateway {
	return &mongoGateway{db: database, rdb: rdb, cfg: cfg}
}

// --- Items ---

// FetchItemsPage returns one page of non-deleted items ordered by recency.
// The order is stable across pages absent concurrent writes.
func (g *mongoGateway) FetchItemsPage(ctx context.Context, page, pageSize int) ([]models.Item, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(page * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := g.db.Collection(itemsCollection).Find(ctx, bson.M{"deleted": false}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items page %d: %w", page, err)
	}
	defer cursor.Close(ctx)

	var items []models.Item
	if err = cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode items page %d: %w", page, err)
	}
	return items, nil
}

// FetchItemsByIDs is the batch lookup used for hydration; one $in query no
// matter how many ids.
func (g *mongoGateway) FetchItemsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	filter := bson.M{"_id": bson.M{"$in": ids}, "deleted": false}
	cursor, err := g.db.Collection(itemsCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to batch-fetch %d items: %w", len(ids), err)
	}
	defer cursor.Close(ctx)

	var items []models.Item
	if err = cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode batch-fetched items: %w", err)
	}
	return items, nil
}

func (g *mongoGateway) FetchItemByID(ctx context.Context, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := g.db.Collection(itemsCollection).FindOne(ctx, bson.M{"_id": id, "deleted": false}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding item %s: %w", id, err)
	}
	return &item, nil
}

func (g *mongoGateway) InsertItem(ctx context.Context, item *models.Item) error {
	operation := func() error {
		_, insertErr := g.db.Collection(itemsCollection).InsertOne(ctx, item)
		return insertErr
	}
	if err := db.Try(operation); err != nil {
		return fmt.Errorf("failed to insert item %s after multiple retries: %w", item.ID, err)
	}
	return nil
}

// DeleteItem soft-deletes an item; only the owner's delete matches.
func (g *mongoGateway) DeleteItem(ctx context.Context, itemID, ownerID uuid.UUID) error {
	now := time.Now().UTC()
	filter := bson.M{"_id": itemID, "owner_id": ownerID, "deleted": false}
	update := bson.M{"$set": bson.M{"deleted": true, "deleted_at": now}}

	result, err := g.db.Collection(itemsCollection).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("db error deleting item %s: %w", itemID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("item %s not found or not owned by user %s", itemID, ownerID)
	}
	return nil
}

// --- Profiles ---

func profileCacheKey(id uuid.UUID) string {
	return "profile:" + id.String()
}

// FetchProfilesByIDs batch-fetches profiles, serving what it can from the
// Redis cache and issuing one $in query for the misses. Cache errors are
// logged and ignored; the store is authoritative.
func (g *mongoGateway) FetchProfilesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	profiles := make([]models.Profile, 0, len(ids))
	missing := make([]uuid.UUID, 0, len(ids))

	if g.rdb != nil {
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = profileCacheKey(id)
		}
		cached, err := g.rdb.MGet(ctx, keys...).Result()
		if err != nil {
			log.Printf("profile cache read failed, falling through to store: %v", err)
			missing = append(missing, ids...)
		} else {
			for i, raw := range cached {
				s, ok := raw.(string)
				if !ok {
					missing = append(missing, ids[i])
					continue
				}
				var p models.Profile
				if err := json.Unmarshal([]byte(s), &p); err != nil {
					missing = append(missing, ids[i])
					continue
				}
				profiles = append(profiles, p)
			}
		}
	} else {
		missing = append(missing, ids...)
	}

	if len(missing) > 0 {
		filter := bson.M{"_id": bson.M{"$in": missing}}
		cursor, err := g.db.Collection(profilesCollection).Find(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to batch-fetch %d profiles: %w", len(missing), err)
		}
		defer cursor.Close(ctx)

		var fetched []models.Profile
		if err = cursor.All(ctx, &fetched); err != nil {
			return nil, fmt.Errorf("failed to decode batch-fetched profiles: %w", err)
		}

		if g.rdb != nil {
			for i := range fetched {
				data, err := json.Marshal(&fetched[i])
				if err != nil {
					continue
				}
				if err := g.rdb.Set(ctx, profileCacheKey(fetched[i].ID), data, g.cfg.ProfileCacheTTL).Err(); err != nil {
					log.Printf("profile cache write failed for %s: %v", fetched[i].ID, err)
				}
			}
		}
		profiles = append(profiles, fetched...)
	}

	return profiles, nil
}

func (g *mongoGateway) FetchProfileByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	err := g.db.Collection(profilesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding profile %s: %w", id, err)
	}
	return &profile, nil
}

// FetchRating returns the user's rating. Ratings are fetched per user rather
// than as part of the profile batch; see the feed pipeline.
func (g *mongoGateway) FetchRating(ctx context.Context, userID uuid.UUID) (float64, error) {
	opts := options.FindOne().SetProjection(bson.D{{Key: "rating", Value: 1}})
	var doc struct {
		Rating float64 `bson:"rating"`
	}
	err := g.db.Collection(profilesCollection).FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, fmt.Errorf("error fetching rating for %s: %w", userID, err)
	}
	return doc.Rating, nil
}

func (g *mongoGateway) IncrementTradeCount(ctx context.Context, userID uuid.UUID) error {
	update := bson.M{
		"$inc": bson.M{"trade_count": 1},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	result, err := g.db.Collection(profilesCollection).UpdateByID(ctx, userID, update)
	if err != nil {
		return fmt.Errorf("db error incrementing trade count for %s: %w", userID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("profile %s not found", userID)
	}
	// The cached copy is now stale; drop it rather than waiting out the TTL.
	if g.rdb != nil {
		if err := g.rdb.Del(ctx, profileCacheKey(userID)).Err(); err != nil {
			log.Printf("failed to invalidate cached profile %s: %v", userID, err)
		}
	}
	return nil
}

// --- Interest marks ---

// FetchInterestMarks resolves the user's marks into the marked items
// themselves. Marks pointing at deleted items are silently dropped.
func (g *mongoGateway) FetchInterestMarks(ctx context.Context, userID uuid.UUID) ([]models.Item, error) {
	cursor, err := g.db.Collection(marksCollection).Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch interest marks for %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var marks []models.InterestMark
	if err = cursor.All(ctx, &marks); err != nil {
		return nil, fmt.Errorf("failed to decode interest marks for %s: %w", userID, err)
	}
	if len(marks) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(marks))
	for i, m := range marks {
		ids[i] = m.ItemID
	}
	return g.FetchItemsByIDs(ctx, ids)
}

// SaveInterestMark inserts a mark. A duplicate of the (user, item) pair is
// treated as success: the mark already exists and the invariant holds.
func (g *mongoGateway) SaveInterestMark(ctx context.Context, userID, itemID uuid.UUID) error {
	mark := models.InterestMark{
		ID:        uuid.New(),
		UserID:    userID,
		ItemID:    itemID,
		CreatedAt: time.Now().UTC(),
	}
	_, err := g.db.Collection(marksCollection).InsertOne(ctx, mark)
	if err != nil {
		if db.IsMongoDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to save interest mark (%s, %s): %w", userID, itemID, err)
	}
	return nil
}

func (g *mongoGateway) DeleteInterestMark(ctx context.Context, userID, itemID uuid.UUID) error {
	_, err := g.db.Collection(marksCollection).DeleteOne(ctx, bson.M{"user_id": userID, "item_id": itemID})
	if err != nil {
		return fmt.Errorf("failed to delete interest mark (%s, %s): %w", userID, itemID, err)
	}
	return nil
}

// --- Offers ---

func (g *mongoGateway) FetchIncomingOffers(ctx context.Context, userID uuid.UUID) ([]models.Offer, error) {
	filter := bson.M{"receiver_id": userID, "status": models.OfferPending}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := g.db.Collection(offersCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch incoming offers for %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var offers []models.Offer
	if err = cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("failed to decode incoming offers for %s: %w", userID, err)
	}
	return offers, nil
}

// FetchActiveOffers returns accepted and completed offers involving the user,
// newest first. Completed ones are included so CompleteTrade can be idempotent.
func (g *mongoGateway) FetchActiveOffers(ctx context.Context, userID uuid.UUID) ([]models.Offer, error) {
	filter := bson.M{
		"$or":    bson.A{bson.M{"sender_id": userID}, bson.M{"receiver_id": userID}},
		"status": bson.M{"$in": bson.A{models.OfferAccepted, models.OfferCompleted}},
	}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})

	cursor, err := g.db.Collection(offersCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch active offers for %s: %w", userID, err)
	}
	defer cursor.Close(ctx)

	var offers []models.Offer
	if err = cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("failed to decode active offers for %s: %w", userID, err)
	}
	return offers, nil
}

func (g *mongoGateway) FetchOfferByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	err := g.db.Collection(offersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&offer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, mongo.ErrNoDocuments
		}
		return nil, fmt.Errorf("error finding offer %s: %w", id, err)
	}
	return &offer, nil
}

// FetchOfferForPair returns the active (pending or accepted) offer for the
// primary item pair, or nil when none exists. This backs the advisory
// duplicate-offer check; it holds no lock against concurrent creates.
func (g *mongoGateway) FetchOfferForPair(ctx context.Context, offeredItemID, wantedItemID uuid.UUID) (*models.Offer, error) {
	filter := bson.M{
		"offered_item_id": offeredItemID,
		"wanted_item_id":  wantedItemID,
		"status":          bson.M{"$in": bson.A{models.OfferPending, models.OfferAccepted}},
	}
	var offer models.Offer
	err := g.db.Collection(offersCollection).FindOne(ctx, filter).Decode(&offer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error checking offer pair (%s, %s): %w", offeredItemID, wantedItemID, err)
	}
	return &offer, nil
}

func (g *mongoGateway) CreateOffer(ctx context.Context, offer *models.Offer) error {
	operation := func() error {
		_, insertErr := g.db.Collection(offersCollection).InsertOne(ctx, offer)
		return insertErr
	}
	if err := db.Try(operation); err != nil {
		return fmt.Errorf("failed to insert offer %s after multiple retries: %w", offer.ID, err)
	}
	return nil
}

func (g *mongoGateway) UpdateOfferStatus(ctx context.Context, offerID uuid.UUID, status models.OfferStatus) error {
	update := bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}}
	result, err := g.db.Collection(offersCollection).UpdateByID(ctx, offerID, update)
	if err != nil {
		return fmt.Errorf("db error updating offer %s to %s: %w", offerID, status, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("offer %s not found", offerID)
	}
	return nil
}

// ExpireStaleOffers rejects pending offers created before the cutoff and
// returns how many were swept.
func (g *mongoGateway) ExpireStaleOffers(ctx context.Context, olderThan time.Time) (int64, error) {
	filter := bson.M{"status": models.OfferPending, "created_at": bson.M{"$lt": olderThan}}
	update := bson.M{"$set": bson.M{"status": models.OfferRejected, "updated_at": time.Now().UTC()}}

	result, err := g.db.Collection(offersCollection).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("db error expiring stale offers: %w", err)
	}
	return result.ModifiedCount, nil
}

// --- Messages ---

func (g *mongoGateway) SaveMessage(ctx context.Context, msg *models.Message) error {
	operation := func() error {
		_, insertErr := g.db.Collection(messagesCollection).InsertOne(ctx, msg)
		return insertErr
	}
	if err := db.Try(operation); err != nil {
		return fmt.Errorf("failed to insert message %s after multiple retries: %w", msg.ID, err)
	}
	return nil
}

func (g *mongoGateway) FetchMessages(ctx context.Context, offerID uuid.UUID) ([]models.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := g.db.Collection(messagesCollection).Find(ctx, bson.M{"offer_id": offerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages for offer %s: %w", offerID, err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode messages for offer %s: %w", offerID, err)
	}
	return messages, nil
}
