package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"refshare/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// User caching (auth lookups)
func (s *CacheService) CacheUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("cannot cache nil user")
	}

	keys := []string{
		s.GenerateKey("user", "id", user.ID),
		s.GenerateKey("user", "email", user.Email),
	}
	for _, key := range keys {
		if err := s.Set(ctx, key, user); err != nil {
			return err
		}
	}
	return nil
}

func (s *CacheService) GetUser(ctx context.Context, key string) (*models.User, error) {
	var user models.User
	found, err := s.Get(ctx, key, &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("user not found in cache")
	}
	return &user, nil
}

func (s *CacheService) InvalidateUser(ctx context.Context, userID uint, email string) error {
	return s.Delete(ctx,
		s.GenerateKey("user", "id", userID),
		s.GenerateKey("user", "email", email),
	)
}

// Affiliate caching
func (s *CacheService) CacheAffiliate(ctx context.Context, affiliate *models.Affiliate) error {
	if affiliate == nil {
		return errors.New("cannot cache nil affiliate")
	}

	keys := []string{
		s.GenerateKey("affiliate", "id", affiliate.ID),
		s.GenerateKey("affiliate", "code", affiliate.ReferralCode),
	}
	for _, key := range keys {
		if err := s.Set(ctx, key, affiliate); err != nil {
			return err
		}
	}
	return nil
}

func (s *CacheService) GetAffiliate(ctx context.Context, key string) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	found, err := s.Get(ctx, key, &affiliate)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("affiliate not found in cache")
	}
	return &affiliate, nil
}

func (s *CacheService) InvalidateAffiliate(ctx context.Context, affiliateID uint, referralCode string) error {
	return s.Delete(ctx,
		s.GenerateKey("affiliate", "id", affiliateID),
		s.GenerateKey("affiliate", "code", referralCode),
	)
}

// Referral caching. Payment webhooks resolve referrals by referred user id on
// every event, so that lookup is the hot path.
func (s *CacheService) CacheReferral(ctx context.Context, referral *models.Referral) error {
	if referral == nil {
		return errors.New("cannot cache nil referral")
	}
	key := s.GenerateKey("referral", "user", referral.ReferredUserID)
	return s.Set(ctx, key, referral)
}

func (s *CacheService) GetReferralByUser(ctx context.Context, referredUserID uint) (*models.Referral, error) {
	key := s.GenerateKey("referral", "user", referredUserID)
	var referral models.Referral
	found, err := s.Get(ctx, key, &referral)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("referral not found in cache")
	}
	return &referral, nil
}

func (s *CacheService) InvalidateReferral(ctx context.Context, referredUserID uint) error {
	return s.Delete(ctx, s.GenerateKey("referral", "user", referredUserID))
}

// FlushAll flushes all keys from the cache
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
