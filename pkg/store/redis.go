package store

import (
	"context"
	"fmt"

	"github.com/example/freshmart/pkg/catalog"
)

// JSONCache is the slice of repository.Redis this store uses. It is declared
// here rather than importing repository, which would close an import cycle
// (repository depends on order, which depends on store).
type JSONCache interface {
	SetJSON(ctx context.Context, key string, value interface{}) error
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisStore keeps carts and sessions in Redis so they survive a restart.
// Same contract as MemoryStore; the dialogue engine picks whichever it is
// handed.
type RedisStore struct {
	redis   JSONCache
	catalog *catalog.Catalog
}

func NewRedisStore(r JSONCache, cat *catalog.Catalog) *RedisStore {
	return &RedisStore{redis: r, catalog: cat}
}

func cartKey(customerID int64) string {
	return fmt.Sprintf("cart:%d", customerID)
}

func sessionKey(customerID int64) string {
	return fmt.Sprintf("session:%d", customerID)
}

func (s *RedisStore) AddItem(ctx context.Context, customerID int64, itemName string) (Line, error) {
	item, ok := s.catalog.Find(itemName)
	if !ok {
		return Line{}, ErrItemNotFound
	}

	cart, err := s.Cart(ctx, customerID)
	if err != nil {
		return Line{}, err
	}

	line, ok := cart[itemName]
	if ok {
		line.Quantity++
	} else {
		line = Line{
			Item:     item.Name,
			Price:    item.Price,
			Unit:     item.Unit,
			Quantity: 1,
		}
	}
	cart[itemName] = line

	if err := s.redis.SetJSON(ctx, cartKey(customerID), cart); err != nil {
		return Line{}, fmt.Errorf("failed to store cart: %w", err)
	}
	return line, nil
}

func (s *RedisStore) Cart(ctx context.Context, customerID int64) (Cart, error) {
	cart := make(Cart)
	if _, err := s.redis.GetJSON(ctx, cartKey(customerID), &cart); err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}

func (s *RedisStore) ClearCart(ctx context.Context, customerID int64) error {
	return s.redis.Del(ctx, cartKey(customerID))
}

func (s *RedisStore) Session(ctx context.Context, customerID int64) (Session, error) {
	var sess Session
	if _, err := s.redis.GetJSON(ctx, sessionKey(customerID), &sess); err != nil {
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	return sess, nil
}

func (s *RedisStore) SetSession(ctx context.Context, customerID int64, sess Session) error {
	return s.redis.SetJSON(ctx, sessionKey(customerID), sess)
}
