package services

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/config"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/gateway"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/models"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/utils"
)

// IFeedService defines the interface for the discovery feed.
type IFeedService interface {
	Refresh(ctx context.Context, viewerID uuid.UUID)
	RequestMore(ctx context.Context, viewerID uuid.UUID)
	Dismiss(ctx context.Context, viewerID, itemID uuid.UUID)
	Window(viewerID uuid.UUID) []models.Item
	CanLoadMore(viewerID uuid.UUID) bool
}

// feedSession is the per-viewer feed state: the ranked window exposed to the
// presentation layer plus the pagination cursor behind it. All access goes
// through the service mutex.
type feedSession struct {
	window     []models.Item
	page       int
	exhausted  bool
	inFlight   bool
	refreshing bool
	generation uint64
}

// feedService implements IFeedService.
type feedService struct {
	gw  gateway.Gateway
	cfg *config.Config

	mu       sync.Mutex
	sessions map[uuid.UUID]*feedSession
}

// NewFeedService creates a new FeedService.
func NewFeedService(gw gateway.Gateway, cfg *config.Config) IFeedService {
	return &feedService{
		gw:       gw,
		cfg:      cfg,
		sessions: make(map[uuid.UUID]*feedSession),
	}
}

func (s *feedService) session(viewerID uuid.UUID) *feedSession {
	sess, ok := s.sessions[viewerID]
	if !ok {
		sess = &feedSession{}
		s.sessions[viewerID] = sess
	}
	return sess
}

// Refresh resets the viewer's feed to the start of the catalog and loads the
// first page. A refresh already in flight drops this call; a refresh over an
// in-flight RequestMore invalidates that fetch via the generation counter, so
// its stale result is discarded on arrival. Transport errors degrade to an
// empty window; a stale feed is preferable to a crashed one.
func (s *feedService) Refresh(ctx context.Context, viewerID uuid.UUID) {
	s.mu.Lock()
	sess := s.session(viewerID)
	if sess.refreshing {
		s.mu.Unlock()
		return
	}
	sess.generation++
	gen := sess.generation
	sess.window = nil
	sess.page = 0
	sess.exhausted = false
	sess.refreshing = true
	sess.inFlight = true
	s.mu.Unlock()

	batch, nextPage, exhausted, err := s.fetchRankedPage(ctx, viewerID, 0)

	s.mu.Lock()
	defer s.mu.Unlock()
	sess.refreshing = false
	if sess.generation != gen {
		return
	}
	sess.inFlight = false
	if err != nil {
		log.Printf("feed refresh for %s failed, serving empty window: %v", viewerID, err)
		return
	}
	sess.window = batch
	sess.page = nextPage
	sess.exhausted = exhausted
}

// RequestMore fetches the next page. It is a no-op while another fetch is in
// flight or once the catalog is exhausted.
func (s *feedService) RequestMore(ctx context.Context, viewerID uuid.UUID) {
	s.mu.Lock()
	sess := s.session(viewerID)
	if sess.inFlight || sess.exhausted {
		s.mu.Unlock()
		return
	}
	sess.inFlight = true
	gen := sess.generation
	page := sess.page
	s.mu.Unlock()

	batch, nextPage, exhausted, err := s.fetchRankedPage(ctx, viewerID, page)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess.generation != gen {
		// A refresh superseded this fetch; drop the stale result.
		return
	}
	sess.inFlight = false
	if err != nil {
		log.Printf("feed page fetch for %s failed, window unchanged: %v", viewerID, err)
		return
	}
	sess.window = append(sess.window, batch...)
	sess.page = nextPage
	sess.exhausted = exhausted
}

// Dismiss removes an item the viewer skipped or acted on and tops the window
// up when it falls below the low-water mark.
func (s *feedService) Dismiss(ctx context.Context, viewerID, itemID uuid.UUID) {
	s.mu.Lock()
	sess := s.session(viewerID)
	for i := range sess.window {
		if sess.window[i].ID == itemID {
			sess.window = append(sess.window[:i], sess.window[i+1:]...)
			break
		}
	}
	belowMark := len(sess.window) < s.cfg.FeedLowWaterMark && !sess.exhausted
	s.mu.Unlock()

	if belowMark {
		s.RequestMore(ctx, viewerID)
	}
}

// Window returns a read-only copy of the viewer's ranked feed window.
func (s *feedService) Window(viewerID uuid.UUID) []models.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.session(viewerID)
	out := make([]models.Item, len(sess.window))
	copy(out, sess.window)
	return out
}

// CanLoadMore reports whether more catalog pages remain for the viewer.
func (s *feedService) CanLoadMore(viewerID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.session(viewerID).exhausted
}

// fetchRankedPage pulls catalog pages starting at startPage until one of them
// survives filtering (or the catalog runs out), hydrates the survivors with
// owner context and distance, and ranks them. A page that filters to empty
// with more pages upstream is never surfaced; the loop continues so the
// caller cannot observe a non-final empty page.
//
// Returns the ranked batch, the next page cursor, and whether the catalog is
// exhausted.
func (s *feedService) fetchRankedPage(ctx context.Context, viewerID uuid.UUID, startPage int) ([]models.Item, int, bool, error) {
	pageSize := s.cfg.FeedPageSize

	// The viewer's profile (block list, interests, location) and full
	// interest-mark set are needed for filtering; fetch them alongside the
	// first page rather than sequentially.
	var (
		viewer    *models.Profile
		marks     []models.Item
		firstPage []models.Item
		viewerErr error
		marksErr  error
		pageErr   error
	)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		viewer, viewerErr = s.gw.FetchProfileByID(ctx, viewerID)
	}()
	go func() {
		defer wg.Done()
		marks, marksErr = s.gw.FetchInterestMarks(ctx, viewerID)
	}()
	go func() {
		defer wg.Done()
		firstPage, pageErr = s.gw.FetchItemsPage(ctx, startPage, pageSize)
	}()
	wg.Wait()

	if viewerErr != nil {
		return nil, startPage, false, viewerErr
	}
	if marksErr != nil {
		return nil, startPage, false, marksErr
	}
	if pageErr != nil {
		return nil, startPage, false, pageErr
	}

	markedIDs := make(map[uuid.UUID]bool, len(marks))
	for _, m := range marks {
		markedIDs[m.ID] = true
	}

	page := startPage
	raw := firstPage
	for {
		short := len(raw) < pageSize
		page++

		candidates := s.filterCandidates(viewer, markedIDs, raw)
		if len(candidates) > 0 {
			ranked := s.hydrateAndRank(ctx, viewer, candidates)
			if len(ranked) > 0 {
				return ranked, page, short, nil
			}
		}
		if short {
			// Catalog exhausted with nothing left to show.
			return nil, page, true, nil
		}

		var err error
		raw, err = s.gw.FetchItemsPage(ctx, page, pageSize)
		if err != nil {
			return nil, page, false, err
		}
	}
}

// filterCandidates drops items the viewer must never see: their own items,
// items they already marked, and items owned by someone they blocked. The
// reverse block direction is checked after profile hydration.
func (s *feedService) filterCandidates(viewer *models.Profile, markedIDs map[uuid.UUID]bool, items []models.Item) []models.Item {
	out := make([]models.Item, 0, len(items))
	for _, item := range items {
		if item.OwnerID == viewer.ID {
			continue
		}
		if markedIDs[item.ID] {
			continue
		}
		if viewer.HasBlocked(item.OwnerID) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// hydrateAndRank attaches owner context and distance to the candidates and
// ranks them within the page. Owner profiles come from one batch fetch;
// ratings are fetched per owner (an accepted, isolated exception to the
// batching rule). Owners who blocked the viewer are dropped here, once their
// block lists are known.
func (s *feedService) hydrateAndRank(ctx context.Context, viewer *models.Profile, candidates []models.Item) []models.Item {
	ownerSet := make(map[uuid.UUID]bool, len(candidates))
	ownerIDs := make([]uuid.UUID, 0, len(candidates))
	for _, item := range candidates {
		if !ownerSet[item.OwnerID] {
			ownerSet[item.OwnerID] = true
			ownerIDs = append(ownerIDs, item.OwnerID)
		}
	}

	profilesByID := make(map[uuid.UUID]*models.Profile, len(ownerIDs))
	profiles, err := s.gw.FetchProfilesByIDs(ctx, ownerIDs)
	if err != nil {
		// Owner context is best-effort; fall back to placeholders rather
		// than dropping the page.
		log.Printf("owner profile batch failed, using placeholders: %v", err)
	} else {
		for i := range profiles {
			profilesByID[profiles[i].ID] = &profiles[i]
		}
	}

	var wg sync.WaitGroup
	for i := range candidates {
		wg.Add(1)
		go func(item *models.Item) {
			defer wg.Done()

			owner, ok := profilesByID[item.OwnerID]
			if !ok {
				owner = models.PlaceholderProfile(item.OwnerID)
			}
			ownerCopy := *owner

			rating, err := s.gw.FetchRating(ctx, item.OwnerID)
			if err != nil {
				log.Printf("rating fetch for %s failed: %v", item.OwnerID, err)
			} else {
				ownerCopy.Rating = rating
			}
			item.Owner = &ownerCopy
			item.DistanceKm = distanceKm(viewer.LastLocation, item.Location)
		}(&candidates[i])
	}
	wg.Wait()

	survivors := make([]models.Item, 0, len(candidates))
	for _, item := range candidates {
		if item.Owner != nil && item.Owner.HasBlocked(viewer.ID) {
			continue
		}
		survivors = append(survivors, item)
	}

	// Rank within the page: interested categories first, then nearest first.
	// Stable so catalog recency breaks ties.
	sort.SliceStable(survivors, func(i, j int) bool {
		iInterested := viewer.InterestedInCategory(survivors[i].Category)
		jInterested := viewer.InterestedInCategory(survivors[j].Category)
		if iInterested != jInterested {
			return iInterested
		}
		return survivors[i].DistanceKm < survivors[j].DistanceKm
	})
	return survivors
}

// distanceKm computes viewer-to-item distance. A missing coordinate on either
// side yields the zero sentinel, not an error.
func distanceKm(from, to *models.GeoPoint) float64 {
	if from == nil || to == nil {
		return 0
	}
	return utils.HaversineKm(from.Lat, from.Lng, to.Lat, to.Lng)
}
