// Package app wires the session, catalog, library, and presenters into
// one client-facing view model.
package app

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/eflixapp/eflix-server/internal/catalog"
	"github.com/eflixapp/eflix-server/internal/domain"
	"github.com/eflixapp/eflix-server/internal/logger"
	"github.com/eflixapp/eflix-server/internal/presenter"
	"github.com/eflixapp/eflix-server/internal/service"
)

const historyWriteTimeout = 10 * time.Second

// Controller owns one client's application state: the session, the
// loaded catalog with its loading/error flags, the selected category,
// and local mirrors of the my-list and history collections. A mutex
// serializes access since the controller is driven from HTTP handlers
// rather than a single UI thread.
//
// The mirrors are mutated only after the backing store confirms an
// operation; a failed write leaves the mirror untouched.
type Controller struct {
	sessions *service.SessionService
	catalogs *service.CatalogService
	library  *service.LibraryService
	logger   *logger.Logger

	mu sync.Mutex

	session  *domain.Session
	category string

	// loadGen stamps each catalog load; responses from a superseded
	// load are discarded instead of clobbering newer state.
	loadGen        uint64
	catalogLoading bool
	catalogErr     error
	catalogVideos  []domain.Video

	myList  []domain.Video
	history []domain.HistoryEntry

	player         *presenter.Player
	myListBrowser  *presenter.Browser
	historyBrowser *presenter.Browser
}

// NewController creates a controller in the signed-out state.
// It subscribes to session events so a sign-out performed elsewhere
// (token revocation, another handler) also clears this client's state.
func NewController(
	sessions *service.SessionService,
	catalogs *service.CatalogService,
	library *service.LibraryService,
	log *logger.Logger,
) *Controller {
	c := &Controller{
		sessions:       sessions,
		catalogs:       catalogs,
		library:        library,
		logger:         log,
		category:       domain.CategoryAll,
		player:         presenter.NewPlayer(),
		myListBrowser:  presenter.NewBrowser(domain.CollectionMyList),
		historyBrowser: presenter.NewBrowser(domain.CollectionHistory),
	}

	sessions.Subscribe(func(e service.SessionEvent) {
		if e.Type != service.SessionEnded || e.Session == nil {
			return
		}
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.session != nil && c.session.ID == e.Session.ID {
			c.resetLocked()
		}
	})

	return c
}

// SignIn exchanges an identity-provider token for a session and loads
// the catalog and library mirrors.
func (c *Controller) SignIn(ctx context.Context, idToken string) (*service.SignInResponse, error) {
	resp, err := c.sessions.SignIn(ctx, service.SignInRequest{IDToken: idToken})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.resetLocked()
	c.session = resp.Session
	c.mu.Unlock()

	c.LoadCatalog(ctx)
	if err := c.RefreshLibrary(ctx); err != nil {
		c.logger.Warn("initial library load failed", "error", err)
	}

	return resp, nil
}

// SignOut revokes the session and clears all client state.
func (c *Controller) SignOut(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if session == nil {
		return nil
	}

	// The session-ended event from the service performs the reset.
	return c.sessions.SignOut(ctx, session)
}

// Resume adopts an already-verified session, as when a returning
// client presents a valid bearer token.
func (c *Controller) Resume(session *domain.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != nil && session != nil && c.session.ID == session.ID {
		return
	}
	c.resetLocked()
	c.session = session
}

// LoadCatalog fetches the catalog. The loading flag is visible while
// the fetch runs; if another load (or a sign-out) supersedes this one
// before it lands, its response is dropped.
func (c *Controller) LoadCatalog(ctx context.Context) {
	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return
	}
	c.loadGen++
	gen := c.loadGen
	c.catalogLoading = true
	c.catalogErr = nil
	c.mu.Unlock()

	videos, err := c.catalogs.Browse(ctx, domain.CategoryAll)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.loadGen {
		// A newer load or a sign-out owns the state now.
		return
	}
	c.catalogLoading = false
	if err != nil {
		c.catalogErr = err
		return
	}
	c.catalogVideos = videos
}

// RefreshLibrary reloads both collection mirrors from the store.
func (c *Controller) RefreshLibrary(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	myList, err := c.library.FetchMyList(ctx, session)
	if err != nil {
		return err
	}
	history, err := c.library.FetchHistory(ctx, session)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session != session {
		return nil
	}
	c.myList = myList
	c.history = history
	return nil
}

// SetCategory changes the category selector. Filtering is local to the
// already-loaded catalog; no refetch happens.
func (c *Controller) SetCategory(category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if category == "" {
		category = domain.CategoryAll
	}
	c.category = category
}

// Category returns the current category selector.
func (c *Controller) Category() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.category
}

// Videos returns the loaded catalog filtered by the selected category.
// The result is a copy; later mirror updates never reach it.
func (c *Controller) Videos() []domain.Video {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(catalog.Filter(c.catalogVideos, c.category))
}

// CatalogState reports the loading flag and last load error.
func (c *Controller) CatalogState() (loading bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.catalogLoading, c.catalogErr
}

// Session returns the active session, or nil when signed out.
func (c *Controller) Session() *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// MyList returns a copy of the local my-list mirror, so deletions
// applied afterwards never rewrite a slice a caller already holds.
func (c *Controller) MyList() []domain.Video {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.myList)
}

// History returns a copy of the local history mirror, most recent first.
func (c *Controller) History() []domain.HistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.history)
}

// OpenVideo shows the detail view for a video.
func (c *Controller) OpenVideo(v domain.Video) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.player.Open(v)
}

// ClosePlayer dismisses the detail view.
func (c *Controller) ClosePlayer() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.player.Close()
}

// Play starts playback of the open video. The history write the
// player emits is issued fire-and-forget: playback never waits on it
// and a failed write only logs. The history mirror refreshes once the
// write is confirmed.
func (c *Controller) Play() {
	c.mu.Lock()
	cmd := c.player.Play()
	session := c.session
	c.mu.Unlock()

	if cmd == nil || session == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), historyWriteTimeout)
		defer cancel()

		if err := c.library.AddToHistory(ctx, session, cmd.Video); err != nil {
			c.logger.Warn("history write failed", "video_id", cmd.Video.Identity(), "error", err)
			return
		}

		history, err := c.library.FetchHistory(ctx, session)
		if err != nil {
			c.logger.Warn("history refresh failed", "error", err)
			return
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.session == session {
			c.history = history
		}
	}()
}

// PlayerState returns the player view state and the open video.
func (c *Controller) PlayerState() (presenter.PlayerState, domain.Video) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player.State(), c.player.Video()
}

// AddToMyList saves a video and refreshes the mirror on success.
func (c *Controller) AddToMyList(ctx context.Context, v domain.Video) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if err := c.library.AddToMyList(ctx, session, v); err != nil {
		return err
	}

	myList, err := c.library.FetchMyList(ctx, session)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == session {
		c.myList = myList
	}
	return nil
}

// Browser returns the presenter for a collection, or nil for an
// unknown collection name.
func (c *Controller) Browser(collection string) *presenter.Browser {
	switch collection {
	case domain.CollectionMyList:
		return c.myListBrowser
	case domain.CollectionHistory:
		return c.historyBrowser
	default:
		return nil
	}
}

// SetSelectMode toggles a browser's multi-select mode.
func (c *Controller) SetSelectMode(collection string, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b := c.Browser(collection); b != nil {
		b.SetSelectMode(on)
	}
}

// ToggleSelect flips one entry's selection in a browser.
func (c *Controller) ToggleSelect(collection, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b := c.Browser(collection); b != nil {
		b.ToggleSelect(id)
	}
}

// DeleteSelected deletes the browser's selected entries. Only ids
// whose backing delete succeeded are removed from the local mirror;
// failed ids stay visible. The selection clears and select mode exits
// either way.
func (c *Controller) DeleteSelected(ctx context.Context, collection string) (*service.DeleteResult, error) {
	c.mu.Lock()
	browser := c.Browser(collection)
	if browser == nil || !browser.CanDelete() {
		c.mu.Unlock()
		return &service.DeleteResult{Deleted: []string{}, Failed: []string{}}, nil
	}
	ids := browser.Selected()
	session := c.session
	c.mu.Unlock()

	result, err := c.library.DeleteEntries(ctx, session, collection, ids)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == session {
		c.removeFromMirrorLocked(collection, result.Deleted)
	}
	browser.CompleteDelete()
	return result, nil
}

// removeFromMirrorLocked drops the given ids from a collection mirror.
// Caller holds the mutex.
func (c *Controller) removeFromMirrorLocked(collection string, ids []string) {
	if len(ids) == 0 {
		return
	}
	gone := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		gone[id] = struct{}{}
	}

	// Build fresh slices rather than compacting in place; the old
	// backing arrays may still be visible through earlier accessor
	// results.
	switch collection {
	case domain.CollectionMyList:
		kept := make([]domain.Video, 0, len(c.myList))
		for _, v := range c.myList {
			if _, ok := gone[v.Identity()]; !ok {
				kept = append(kept, v)
			}
		}
		c.myList = kept
	case domain.CollectionHistory:
		kept := make([]domain.HistoryEntry, 0, len(c.history))
		for _, e := range c.history {
			if _, ok := gone[e.Identity()]; !ok {
				kept = append(kept, e)
			}
		}
		c.history = kept
	}
}

// resetLocked returns the controller to the signed-out state. Caller
// holds the mutex.
func (c *Controller) resetLocked() {
	c.session = nil
	c.category = domain.CategoryAll
	c.loadGen++ // in-flight catalog loads land on a stale generation
	c.catalogLoading = false
	c.catalogErr = nil
	c.catalogVideos = nil
	c.myList = nil
	c.history = nil
	c.player.Close()
	c.myListBrowser.SetSelectMode(false)
	c.historyBrowser.SetSelectMode(false)
}
