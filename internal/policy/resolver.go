package policy

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/diewo77/faculty-records/internal/models"
	"gorm.io/gorm"
)

// ActorResolver turns a session user id into an Actor.
type ActorResolver interface {
	Resolve(ctx context.Context, userID uint) (Actor, error)
}

// DBResolver builds actors from the database, preloading roles and looking up
// the user's own faculty profile when one exists.
type DBResolver struct {
	DB *gorm.DB
}

func NewDBResolver(db *gorm.DB) *DBResolver {
	return &DBResolver{DB: db}
}

func (r *DBResolver) Resolve(ctx context.Context, userID uint) (Actor, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Preload("Roles").First(&user, userID).Error; err != nil {
		return Actor{}, err
	}
	actor := Actor{
		UserID:    user.ID,
		Admin:     user.IsAdmin(),
		Principal: user.IsPrincipal(),
		Hod:       user.IsHOD(),
		Faculty:   user.IsFaculty(),
	}
	var f models.Faculty
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&f).Error
	switch {
	case err == nil:
		actor.FacultyID = f.ID
		actor.DepartmentID = f.DepartmentID
	case errors.Is(err, gorm.ErrRecordNotFound):
		// user has no profile of their own; actor keeps zero identity
	default:
		return Actor{}, err
	}
	return actor, nil
}

// CachedResolver wraps an ActorResolver with TTL-based caching so the
// per-request authorization lookup does not hit the database every time.
type CachedResolver struct {
	inner ActorResolver
	cache map[uint]*cacheEntry
	mu    sync.RWMutex
	ttl   time.Duration
}

type cacheEntry struct {
	actor     Actor
	expiresAt time.Time
}

// NewCachedResolver wraps a resolver with caching. ttl is how long actors are
// cached before re-fetching.
func NewCachedResolver(inner ActorResolver, ttl time.Duration) *CachedResolver {
	return &CachedResolver{
		inner: inner,
		cache: make(map[uint]*cacheEntry),
		ttl:   ttl,
	}
}

// Resolve returns the actor for the given user, using the cache if fresh.
func (r *CachedResolver) Resolve(ctx context.Context, userID uint) (Actor, error) {
	r.mu.RLock()
	entry, ok := r.cache[userID]
	r.mu.RUnlock()

	if ok && time.Now().Before(entry.expiresAt) {
		return entry.actor, nil
	}

	actor, err := r.inner.Resolve(ctx, userID)
	if err != nil {
		return Actor{}, err
	}

	r.mu.Lock()
	r.cache[userID] = &cacheEntry{
		actor:     actor,
		expiresAt: time.Now().Add(r.ttl),
	}
	r.mu.Unlock()

	return actor, nil
}

// Invalidate removes a user from the cache. Call this when the user's roles
// or faculty profile change.
func (r *CachedResolver) Invalidate(userID uint) {
	r.mu.Lock()
	delete(r.cache, userID)
	r.mu.Unlock()
}

// InvalidateAll clears the entire cache.
func (r *CachedResolver) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[uint]*cacheEntry)
	r.mu.Unlock()
}
