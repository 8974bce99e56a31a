package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// aliveTokenKey is the set of currently-honored session tokens. Membership
// here, not the token's own expiry, decides whether a token authenticates.
const aliveTokenKey = "alive_token"

// TokenStore keeps the alive-token set in a redis SET. SADD/SREM are atomic
// per operation, which is all the concurrency the set needs.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

func (s *TokenStore) Add(ctx context.Context, token string) error {
	if err := s.client.SAdd(ctx, aliveTokenKey, token).Err(); err != nil {
		return fmt.Errorf("add alive token: %w", err)
	}
	return nil
}

func (s *TokenStore) Contains(ctx context.Context, token string) (bool, error) {
	ok, err := s.client.SIsMember(ctx, aliveTokenKey, token).Result()
	if err != nil {
		return false, fmt.Errorf("check alive token: %w", err)
	}
	return ok, nil
}

// Remove is idempotent; removing an absent token is not an error.
func (s *TokenStore) Remove(ctx context.Context, token string) error {
	if err := s.client.SRem(ctx, aliveTokenKey, token).Err(); err != nil {
		return fmt.Errorf("remove alive token: %w", err)
	}
	return nil
}

func (s *TokenStore) Members(ctx context.Context) ([]string, error) {
	tokens, err := s.client.SMembers(ctx, aliveTokenKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list alive tokens: %w", err)
	}
	return tokens, nil
}
