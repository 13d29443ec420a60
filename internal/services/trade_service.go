package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/gateway"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/models"
)

// acceptedSystemMessage opens the chat when a trade is agreed.
const acceptedSystemMessage = "Trade accepted. You can discuss the details here."

// TradesView is the read-only pair of offer lists exposed to the
// presentation layer.
type TradesView struct {
	Incoming []models.Offer `json:"incoming"`
	Active   []models.Offer `json:"active"`
}

// TaskEnqueuer decouples the trade engine from the background queue.
type TaskEnqueuer interface {
	EnqueueTradeCompleted(ctx context.Context, senderID, receiverID uuid.UUID) error
}

// ITradeService defines the interface for trade-offer operations.
type ITradeService interface {
	CreateOffer(ctx context.Context, senderID uuid.UUID, offeredItemIDs, wantedItemIDs []uuid.UUID) (*models.Offer, error)
	RespondToOffer(ctx context.Context, callerID, offerID uuid.UUID, accept bool) (*models.Offer, error)
	SendCounterOffer(ctx context.Context, callerID, originalOfferID, newWantedItemID uuid.UUID) (*models.Offer, error)
	CompleteTrade(ctx context.Context, callerID, partnerID uuid.UUID) (*models.Offer, error)
	MarkInterested(ctx context.Context, userID, itemID uuid.UUID) error
	RemoveInterest(ctx context.Context, userID, itemID uuid.UUID) error
	LoadTradesData(ctx context.Context, userID uuid.UUID)
	ReloadCached(ctx context.Context)
	TradesView(userID uuid.UUID) TradesView
	Interests(userID uuid.UUID) []models.Item
}

// tradeView holds a user's cached trade state. Both UI actions and
// realtime-triggered reloads mutate it through the service, never directly.
// Every mutation bumps generation; a reload merge only applies when the
// generation it started from is still current.
type tradeView struct {
	incoming   []models.Offer
	active     []models.Offer
	interests  []models.Item
	loading    bool
	generation uint64
}

// tradeService implements ITradeService.
type tradeService struct {
	gw    gateway.Gateway
	tasks TaskEnqueuer // may be nil

	mu    sync.Mutex
	views map[uuid.UUID]*tradeView

	// pairMu serializes offer creation for a (sender, primary wanted item)
	// pair. The duplicate-offer check is advisory: this closes the race
	// within the process, not across processes.
	pairMu    sync.Mutex
	pairLocks map[string]*sync.Mutex
}

// NewTradeService creates a new TradeService. tasks may be nil when no
// background queue is wired (tests, tools).
func NewTradeService(gw gateway.Gateway, tasks TaskEnqueuer) ITradeService {
	return &tradeService{
		gw:        gw,
		tasks:     tasks,
		views:     make(map[uuid.UUID]*tradeView),
		pairLocks: make(map[string]*sync.Mutex),
	}
}

func (s *tradeService) view(userID uuid.UUID) *tradeView {
	v, ok := s.views[userID]
	if !ok {
		v = &tradeView{}
		s.views[userID] = v
	}
	return v
}

func (s *tradeService) pairLock(senderID, wantedItemID uuid.UUID) *sync.Mutex {
	key := senderID.String() + "|" + wantedItemID.String()
	s.pairMu.Lock()
	defer s.pairMu.Unlock()
	l, ok := s.pairLocks[key]
	if !ok {
		l = &sync.Mutex{}
		s.pairLocks[key] = l
	}
	return l
}

// CreateOffer validates and persists a new pending offer. The first offered
// and wanted IDs become the primary pair; the rest go to the additional-item
// lists. Offering an item supersedes merely liking it, so the sender's
// interest mark on the primary wanted item is removed.
func (s *tradeService) CreateOffer(ctx context.Context, senderID uuid.UUID, offeredItemIDs, wantedItemIDs []uuid.UUID) (*models.Offer, error) {
	if len(offeredItemIDs) == 0 || len(wantedItemIDs) == 0 {
		return nil, ErrEmptyOffer
	}

	// One batch fetch covers every referenced item.
	allIDs := make([]uuid.UUID, 0, len(offeredItemIDs)+len(wantedItemIDs))
	allIDs = append(allIDs, offeredItemIDs...)
	allIDs = append(allIDs, wantedItemIDs...)
	items, err := s.gw.FetchItemsByIDs(ctx, allIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load offer items: %w", err)
	}
	byID := make(map[uuid.UUID]*models.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	for _, id := range offeredItemIDs {
		item, ok := byID[id]
		if !ok {
			return nil, ErrItemNotFound
		}
		if item.OwnerID != senderID {
			return nil, ErrNotOwner
		}
	}

	var receiverID uuid.UUID
	for i, id := range wantedItemIDs {
		item, ok := byID[id]
		if !ok {
			return nil, ErrItemNotFound
		}
		if item.OwnerID == senderID {
			return nil, ErrSelfTrade
		}
		if i == 0 {
			receiverID = item.OwnerID
		} else if item.OwnerID != receiverID {
			return nil, ErrWantedNotOwned
		}
	}

	// Advisory duplicate check, serialized in-process for this pair.
	lock := s.pairLock(senderID, wantedItemIDs[0])
	lock.Lock()
	defer lock.Unlock()

	existing, err := s.gw.FetchOfferForPair(ctx, offeredItemIDs[0], wantedItemIDs[0])
	if err != nil {
		return nil, fmt.Errorf("failed duplicate-offer check: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateOffer
	}

	now := time.Now().UTC()
	offer := &models.Offer{
		ID:            uuid.New(),
		SenderID:      senderID,
		ReceiverID:    receiverID,
		OfferedItemID: offeredItemIDs[0],
		WantedItemID:  wantedItemIDs[0],
		ExtraOffered:  offeredItemIDs[1:],
		ExtraWanted:   wantedItemIDs[1:],
		Status:        models.OfferPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.gw.CreateOffer(ctx, offer); err != nil {
		return nil, fmt.Errorf("failed to persist offer: %w", err)
	}

	// The offer supersedes the interest mark. Removal is best-effort: the
	// offer already exists either way.
	if err := s.gw.DeleteInterestMark(ctx, senderID, wantedItemIDs[0]); err != nil {
		log.Printf("failed to remove superseded interest mark (%s, %s): %v", senderID, wantedItemIDs[0], err)
	}
	s.dropCachedInterest(senderID, wantedItemIDs[0])

	return offer, nil
}

// RespondToOffer lets the receiver accept or reject a pending offer. On
// acceptance a system chat message opens the conversation between the
// parties.
func (s *tradeService) RespondToOffer(ctx context.Context, callerID, offerID uuid.UUID, accept bool) (*models.Offer, error) {
	offer, err := s.gw.FetchOfferByID(ctx, offerID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to load offer %s: %w", offerID, err)
	}
	if offer.ReceiverID != callerID {
		return nil, ErrNotReceiver
	}
	if offer.Status != models.OfferPending {
		return nil, ErrNotPending
	}

	status := models.OfferRejected
	if accept {
		status = models.OfferAccepted
	}
	if err := s.gw.UpdateOfferStatus(ctx, offerID, status); err != nil {
		return nil, fmt.Errorf("failed to update offer %s: %w", offerID, err)
	}
	offer.Status = status
	offer.UpdatedAt = time.Now().UTC()

	if accept {
		msg := &models.Message{
			ID:        uuid.New(),
			OfferID:   offer.ID,
			SenderID:  offer.SenderID,
			Text:      acceptedSystemMessage,
			System:    true,
			CreatedAt: time.Now().UTC(),
		}
		if err := s.gw.SaveMessage(ctx, msg); err != nil {
			// The trade is accepted regardless; the chat opener is cosmetic.
			log.Printf("failed to create system message for offer %s: %v", offer.ID, err)
		}
	}

	// The offer leaves the incoming list either way; an accepted one joins
	// the active trades. It is never in both. The generation bump makes any
	// reload that started before this mutation discard its merge.
	s.mu.Lock()
	v := s.view(callerID)
	v.generation++
	v.incoming = removeOffer(v.incoming, offer.ID)
	if accept {
		v.active = append([]models.Offer{*offer}, v.active...)
	}
	s.mu.Unlock()

	return offer, nil
}

// SendCounterOffer marks the original offer countered and creates one new
// pending offer with the roles reversed: the counter-proposer becomes the
// sender, offering the item the original sender asked for and wanting
// newWantedItemID instead.
func (s *tradeService) SendCounterOffer(ctx context.Context, callerID, originalOfferID, newWantedItemID uuid.UUID) (*models.Offer, error) {
	orig, err := s.gw.FetchOfferByID(ctx, originalOfferID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOfferNotFound
		}
		return nil, fmt.Errorf("failed to load offer %s: %w", originalOfferID, err)
	}
	if orig.ReceiverID != callerID {
		return nil, ErrNotReceiver
	}
	if orig.Status != models.OfferPending {
		return nil, ErrNotPending
	}

	wanted, err := s.gw.FetchItemByID(ctx, newWantedItemID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to load item %s: %w", newWantedItemID, err)
	}
	if wanted.OwnerID != orig.SenderID {
		return nil, ErrNotOwner
	}

	if err := s.gw.UpdateOfferStatus(ctx, orig.ID, models.OfferCountered); err != nil {
		return nil, fmt.Errorf("failed to mark offer %s countered: %w", orig.ID, err)
	}

	now := time.Now().UTC()
	counter := &models.Offer{
		ID:            uuid.New(),
		SenderID:      orig.ReceiverID,
		ReceiverID:    orig.SenderID,
		OfferedItemID: orig.WantedItemID,
		WantedItemID:  newWantedItemID,
		Status:        models.OfferPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.gw.CreateOffer(ctx, counter); err != nil {
		return nil, fmt.Errorf("failed to persist counter offer: %w", err)
	}

	if err := s.gw.DeleteInterestMark(ctx, callerID, newWantedItemID); err != nil {
		log.Printf("failed to remove superseded interest mark (%s, %s): %v", callerID, newWantedItemID, err)
	}
	s.dropCachedInterest(callerID, newWantedItemID)

	s.mu.Lock()
	v := s.view(callerID)
	v.generation++
	v.incoming = removeOffer(v.incoming, orig.ID)
	s.mu.Unlock()

	return counter, nil
}

// CompleteTrade finds the most recent accepted or completed offer between the
// caller and the partner. An accepted one transitions to completed; an
// already-completed one makes this call idempotent.
func (s *tradeService) CompleteTrade(ctx context.Context, callerID, partnerID uuid.UUID) (*models.Offer, error) {
	offers, err := s.gw.FetchActiveOffers(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active offers for %s: %w", callerID, err)
	}

	for i := range offers {
		offer := &offers[i]
		if offer.Counterparty(callerID) != partnerID {
			continue
		}
		if offer.Status == models.OfferCompleted {
			return offer, nil
		}
		if err := s.gw.UpdateOfferStatus(ctx, offer.ID, models.OfferCompleted); err != nil {
			return nil, fmt.Errorf("failed to complete offer %s: %w", offer.ID, err)
		}
		offer.Status = models.OfferCompleted
		offer.UpdatedAt = time.Now().UTC()

		if s.tasks != nil {
			if err := s.tasks.EnqueueTradeCompleted(ctx, offer.SenderID, offer.ReceiverID); err != nil {
				log.Printf("failed to enqueue trade-completed task for offer %s: %v", offer.ID, err)
			}
		}
		return offer, nil
	}
	return nil, ErrNoAcceptedOffer
}

// MarkInterested applies the mark optimistically: the cached interest view
// gains the item before the write is issued and loses it again if the write
// fails.
func (s *tradeService) MarkInterested(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.gw.FetchItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to load item %s: %w", itemID, err)
	}

	s.mu.Lock()
	v := s.view(userID)
	already := false
	for i := range v.interests {
		if v.interests[i].ID == itemID {
			already = true
			break
		}
	}
	if !already {
		v.generation++
		v.interests = append(v.interests, *item)
	}
	s.mu.Unlock()

	if err := s.gw.SaveInterestMark(ctx, userID, itemID); err != nil {
		// Roll back the tentative mutation.
		s.dropCachedInterest(userID, itemID)
		return fmt.Errorf("failed to save interest mark: %w", err)
	}
	return nil
}

// RemoveInterest deletes the mark. Persistence is authoritative here: the
// cached view only changes once the delete is confirmed.
func (s *tradeService) RemoveInterest(ctx context.Context, userID, itemID uuid.UUID) error {
	if err := s.gw.DeleteInterestMark(ctx, userID, itemID); err != nil {
		return fmt.Errorf("failed to delete interest mark: %w", err)
	}
	s.dropCachedInterest(userID, itemID)
	return nil
}

func (s *tradeService) dropCachedInterest(userID, itemID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.view(userID)
	for i := range v.interests {
		if v.interests[i].ID == itemID {
			v.generation++
			v.interests = append(v.interests[:i], v.interests[i+1:]...)
			return
		}
	}
}

// LoadTradesData reloads the user's incoming offers, active trades and
// interest marks in one pass. Fetches run concurrently; the cached view is
// replaced only after all of them have completed, so partial merges are never
// observable. A second reload for the same user while one is in flight is
// dropped. Read failures leave the view unchanged.
func (s *tradeService) LoadTradesData(ctx context.Context, userID uuid.UUID) {
	s.mu.Lock()
	v := s.view(userID)
	if v.loading {
		s.mu.Unlock()
		return
	}
	v.loading = true
	gen := v.generation
	s.mu.Unlock()

	var (
		viewer      *models.Profile
		incoming    []models.Offer
		active      []models.Offer
		interests   []models.Item
		viewerErr   error
		incomingErr error
		activeErr   error
		marksErr    error
	)
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		viewer, viewerErr = s.gw.FetchProfileByID(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		incoming, incomingErr = s.gw.FetchIncomingOffers(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		active, activeErr = s.gw.FetchActiveOffers(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		interests, marksErr = s.gw.FetchInterestMarks(ctx, userID)
	}()
	wg.Wait()

	finish := func() {
		s.mu.Lock()
		v.loading = false
		s.mu.Unlock()
	}

	if viewerErr != nil || incomingErr != nil || activeErr != nil || marksErr != nil {
		log.Printf("trades reload for %s failed, view unchanged: %v %v %v %v",
			userID, viewerErr, incomingErr, activeErr, marksErr)
		finish()
		return
	}

	// Blocked counterparties are filtered out before hydration so their
	// items are never fetched.
	incoming = filterBlockedOffers(viewer, incoming)
	active = filterBlockedOffers(viewer, active)

	// One batched item fetch across every offer on display.
	combined := make([]models.Offer, 0, len(incoming)+len(active))
	combined = append(combined, incoming...)
	combined = append(combined, active...)
	if err := HydrateOffers(ctx, s.gw, combined); err != nil {
		log.Printf("offer hydration for %s failed, view unchanged: %v", userID, err)
		finish()
		return
	}
	incoming = combined[:len(incoming)]
	active = combined[len(incoming):]

	s.mu.Lock()
	v.loading = false
	if v.generation == gen {
		v.generation++
		v.incoming = incoming
		v.active = active
		v.interests = interests
	}
	s.mu.Unlock()
}

// ReloadCached re-runs LoadTradesData for every user with cached trade state.
// The realtime layer calls this on any change signal for the offers table.
func (s *tradeService) ReloadCached(ctx context.Context) {
	s.mu.Lock()
	userIDs := make([]uuid.UUID, 0, len(s.views))
	for id := range s.views {
		userIDs = append(userIDs, id)
	}
	s.mu.Unlock()

	for _, id := range userIDs {
		s.LoadTradesData(ctx, id)
	}
}

// TradesView returns a read-only copy of the user's offer lists.
func (s *tradeService) TradesView(userID uuid.UUID) TradesView {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.view(userID)
	out := TradesView{
		Incoming: make([]models.Offer, len(v.incoming)),
		Active:   make([]models.Offer, len(v.active)),
	}
	copy(out.Incoming, v.incoming)
	copy(out.Active, v.active)
	return out
}

// Interests returns a read-only copy of the user's interest-marked items.
func (s *tradeService) Interests(userID uuid.UUID) []models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.view(userID)
	out := make([]models.Item, len(v.interests))
	copy(out, v.interests)
	return out
}

// HydrateOffers resolves the item-ID references of every offer in the slice
// into full Item records using a single batch fetch, regardless of how many
// offers or items are involved. This is the one place offer hydration
// happens; call sites share it rather than fetching per offer.
func HydrateOffers(ctx context.Context, gw gateway.Gateway, offers []models.Offer) error {
	if len(offers) == 0 {
		return nil
	}

	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for i := range offers {
		for _, id := range offers[i].ItemIDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	items, err := gw.FetchItemsByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to batch-fetch offer items: %w", err)
	}
	byID := make(map[uuid.UUID]*models.Item, len(items))
	for i := range items {
		byID[items[i].ID] = &items[i]
	}

	for i := range offers {
		o := &offers[i]
		o.OfferedItem = byID[o.OfferedItemID]
		o.WantedItem = byID[o.WantedItemID]
		o.ExtraOfferedItem = lookupItems(byID, o.ExtraOffered)
		o.ExtraWantedItem = lookupItems(byID, o.ExtraWanted)
	}
	return nil
}

func lookupItems(byID map[uuid.UUID]*models.Item, ids []uuid.UUID) []models.Item {
	if len(ids) == 0 {
		return nil
	}
	out := make([]models.Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			out = append(out, *item)
		}
	}
	return out
}

// filterBlockedOffers drops offers whose counterparty is on the viewer's
// block list.
func filterBlockedOffers(viewer *models.Profile, offers []models.Offer) []models.Offer {
	out := make([]models.Offer, 0, len(offers))
	for _, o := range offers {
		if viewer.HasBlocked(o.Counterparty(viewer.ID)) {
			continue
		}
		out = append(out, o)
	}
	return out
}

func removeOffer(offers []models.Offer, id uuid.UUID) []models.Offer {
	for i := range offers {
		if offers[i].ID == id {
			return append(offers[:i], offers[i+1:]...)
		}
	}
	return offers
}
