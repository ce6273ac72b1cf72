// Package hooks is the per-resource data layer used by the dashboards. Each
// resource exposes keyed queries and invalidating mutations over one shared
// cache, with role checks and input validation applied before the network.
package hooks

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"time"

	"churchportal/internal/access"
	"churchportal/internal/auth"
	"churchportal/internal/cache"
	"churchportal/internal/config"
	"churchportal/internal/models"
	"churchportal/internal/query"
	"churchportal/internal/service"
)

// Client binds the services to a cache and a signed-in session
type Client struct {
	store    *cache.Store
	services *service.Services
	cfg      config.CacheConfig
	logger   *slog.Logger

	mu      sync.RWMutex
	session *auth.Session

	Members     *Members
	Attendance  *Attendance
	Committee   *Committee
	Choirs      *Choirs
	Blog        *Blog
	Gallery     *Gallery
	Testimonies *Testimonies
	Resources   *Resources
	Passwords   *Passwords
}

type Option func(*Client)

// WithStore shares an existing cache; by default each client gets its own
func WithStore(store *cache.Store) Option {
	return func(c *Client) { c.store = store }
}

func WithSession(s *auth.Session) Option {
	return func(c *Client) { c.session = s }
}

func WithCacheConfig(cfg config.CacheConfig) Option {
	return func(c *Client) { c.cfg = cfg }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client over services. Without options it acts as a guest
// with the default staleness windows.
func New(services *service.Services, opts ...Option) *Client {
	c := &Client{
		services: services,
		cfg:      config.Default().Cache,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = cache.New(cache.WithLogger(c.logger))
	}
	if c.session == nil {
		c.session = auth.Guest()
	}

	c.Members = &Members{c: c}
	c.Attendance = &Attendance{c: c}
	c.Committee = &Committee{c: c}
	c.Choirs = &Choirs{c: c}
	c.Blog = &Blog{c: c}
	c.Gallery = &Gallery{c: c}
	c.Testimonies = &Testimonies{c: c}
	c.Resources = &Resources{c: c}
	c.Passwords = &Passwords{c: c}
	return c
}

// Store exposes the shared cache
func (c *Client) Store() *cache.Store {
	return c.store
}

// Session returns the current session; never nil
func (c *Client) Session() *auth.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// SetSession switches identity. Cached data is discarded when the member or
// role changes so one role never sees another's results.
func (c *Client) SetSession(s *auth.Session) {
	if s == nil {
		s = auth.Guest()
	}
	c.mu.Lock()
	prev := c.session
	c.session = s
	c.mu.Unlock()

	if prev.MemberID != s.MemberID || prev.Role != s.Role || prev.Family != s.Family {
		c.logger.Info("session changed, clearing cache", "role", s.Role, "member_id", s.MemberID)
		c.store.Reset()
	}
}

// Reset discards every cached result, e.g. on logout
func (c *Client) Reset() {
	c.store.Reset()
}

// Dashboards lists the resources the current session can change
func (c *Client) Dashboards() []access.Resource {
	return access.Dashboards(c.Session().Role)
}

func (c *Client) check(res access.Resource, act access.Action) error {
	return access.Check(c.Session(), res, act)
}

func (c *Client) checkFamily(res access.Resource, act access.Action, family models.Family) error {
	return access.CheckFamily(c.Session(), res, act, family)
}

// familyScoped reports whether mutations need an ownership lookup
func (c *Client) familyScoped() bool {
	return c.Session().Role.FamilyScoped()
}

// read builds a query whose fetch is refused with 403 when the session may not
// read res
func read[T any](c *Client, res access.Resource, key cache.Key, staleTime time.Duration, fetch query.Fetcher[T], opts ...query.Option) *query.Query[T] {
	guarded := func(ctx context.Context) (T, error) {
		if err := c.check(res, access.Read); err != nil {
			var zero T
			return zero, err
		}
		return fetch(ctx)
	}
	opts = append([]query.Option{query.WithStaleTime(staleTime)}, opts...)
	return query.New(c.store, key, guarded, opts...)
}

// guard is an extra authorization step that may need the input, e.g. to look
// up which family a record belongs to
type guard[I any] func(ctx context.Context, in I) error

// write builds a mutation that checks the role, validates the input and runs
// any guards before calling fn. An empty res skips the role check.
func write[I, O any](c *Client, res access.Resource, act access.Action, fn query.MutateFunc[I, O], keys query.InvalidateFunc[I, O], guards ...guard[I]) *query.Mutation[I, O] {
	checked := func(ctx context.Context, in I) (O, error) {
		var zero O
		if res != "" {
			if err := c.check(res, act); err != nil {
				return zero, err
			}
		}
		if err := validateInput(in); err != nil {
			return zero, err
		}
		for _, g := range guards {
			if err := g(ctx, in); err != nil {
				return zero, err
			}
		}
		return fn(ctx, in)
	}
	return query.NewMutation(c.store, checked, keys)
}

// validateInput validates struct inputs by their tags; bare string inputs are
// identifiers and must not be blank
func validateInput(in any) error {
	if s, ok := in.(string); ok {
		if strings.TrimSpace(s) == "" {
			return &models.ValidationError{
				Err:    models.ErrInvalidInput,
				Fields: []models.FieldError{{Field: "id", Error: "id is a required field"}},
			}
		}
		return nil
	}

	v := reflect.ValueOf(in)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}
	return models.Validate(in)
}

// drop adapts a delete call to the mutation signature
func drop[I any](fn func(ctx context.Context, in I) error) query.MutateFunc[I, struct{}] {
	return func(ctx context.Context, in I) (struct{}, error) {
		return struct{}{}, fn(ctx, in)
	}
}

// idSet reports whether an id is present; queries on a missing id stay disabled
func idSet(id string) bool {
	return strings.TrimSpace(id) != ""
}
