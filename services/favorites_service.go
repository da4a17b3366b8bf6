package services

import (
	"context"
	"encoding/json"
	"log"
	"regexp"
	"sort"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"breizh-server/utils/errors"
)

const favoritesKeyPrefix = "favorites:"

// favoriteIDPattern keeps ids out of storage-key injection territory.
var favoriteIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// FavoritesBackend is the key-value store holding each user's favorites
// entry. Get reports absence with ok=false rather than an error.
type FavoritesBackend interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

type redisFavoritesBackend struct {
	client *redis.Client
}

func (b redisFavoritesBackend) Get(ctx context.Context, key string) (string, bool, error) {
	raw, err := b.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return raw, true, nil
}

func (b redisFavoritesBackend) Set(ctx context.Context, key, value string) error {
	return b.client.Set(ctx, key, value, 0).Err()
}

// FavoritesService persists each user's set of favorite POI ids. Redis
// holds the authoritative JSON array under favorites:<userID>; the Mongo
// user document mirrors it so favorites survive a Redis flush.
type FavoritesService struct {
	backend FavoritesBackend
	users   *mongo.Collection
}

func NewFavoritesService(redisClient *redis.Client, users *mongo.Collection) *FavoritesService {
	return &FavoritesService{backend: redisFavoritesBackend{client: redisClient}, users: users}
}

// NewFavoritesServiceWithBackend wires an alternative key-value backend.
func NewFavoritesServiceWithBackend(backend FavoritesBackend, users *mongo.Collection) *FavoritesService {
	return &FavoritesService{backend: backend, users: users}
}

// ValidFavoriteID reports whether id is safe to use as part of a storage
// key: letters, digits, hyphen, underscore, at most 64 chars.
func ValidFavoriteID(id string) bool {
	return favoriteIDPattern.MatchString(id)
}

// List returns the user's favorite POI ids, sorted for a stable response.
func (s *FavoritesService) List(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// IsFavorite reports membership for a single POI id.
func (s *FavoritesService) IsFavorite(ctx context.Context, userID, poiID string) (bool, error) {
	if !ValidFavoriteID(poiID) {
		return false, nil
	}
	ids, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	return ids[poiID], nil
}

// Add inserts poiID into the user's favorites. Returns false when the id
// was already present or is invalid; invalid ids are logged and rejected,
// never stored.
func (s *FavoritesService) Add(ctx context.Context, userID, poiID string) (bool, error) {
	if !ValidFavoriteID(poiID) {
		log.Printf("Rejected invalid favorite id %q for user %s", poiID, userID)
		return false, errors.ErrInvalidFavoriteID
	}
	ids, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	if ids[poiID] {
		return false, nil
	}
	ids[poiID] = true
	if err := s.store(ctx, userID, ids); err != nil {
		return false, err
	}
	s.mirrorMongo(ctx, userID, poiID, true)
	return true, nil
}

// Remove deletes poiID from the user's favorites. Returns false when the
// id was absent or invalid.
func (s *FavoritesService) Remove(ctx context.Context, userID, poiID string) (bool, error) {
	if !ValidFavoriteID(poiID) {
		log.Printf("Rejected invalid favorite id %q for user %s", poiID, userID)
		return false, errors.ErrInvalidFavoriteID
	}
	ids, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	if !ids[poiID] {
		return false, nil
	}
	delete(ids, poiID)
	if err := s.store(ctx, userID, ids); err != nil {
		return false, err
	}
	s.mirrorMongo(ctx, userID, poiID, false)
	return true, nil
}

// Toggle flips membership and returns the new state.
func (s *FavoritesService) Toggle(ctx context.Context, userID, poiID string) (bool, error) {
	if !ValidFavoriteID(poiID) {
		log.Printf("Rejected invalid favorite id %q for user %s", poiID, userID)
		return false, errors.ErrInvalidFavoriteID
	}
	present, err := s.IsFavorite(ctx, userID, poiID)
	if err != nil {
		return false, err
	}
	if present {
		_, err = s.Remove(ctx, userID, poiID)
		return false, err
	}
	_, err = s.Add(ctx, userID, poiID)
	return err == nil, err
}

func (s *FavoritesService) load(ctx context.Context, userID string) (map[string]bool, error) {
	raw, ok, err := s.backend.Get(ctx, favoritesKeyPrefix+userID)
	if err != nil {
		return nil, errors.Wrap(err, "FAVORITES_STORE_ERROR", "Failed to read favorites", 500)
	}
	if !ok {
		return map[string]bool{}, nil
	}
	ids, err := decodeFavorites([]byte(raw))
	if err != nil {
		// Unreadable state is treated as empty rather than poisoning
		// every later operation.
		log.Printf("Corrupt favorites entry for user %s: %v", userID, err)
		return map[string]bool{}, nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (s *FavoritesService) store(ctx context.Context, userID string, ids map[string]bool) error {
	list := make([]string, 0, len(ids))
	for id := range ids {
		list = append(list, id)
	}
	sort.Strings(list)
	raw, err := json.Marshal(list)
	if err != nil {
		return errors.Wrap(err, "FAVORITES_STORE_ERROR", "Failed to encode favorites", 500)
	}
	if err := s.backend.Set(ctx, favoritesKeyPrefix+userID, string(raw)); err != nil {
		return errors.Wrap(err, "FAVORITES_STORE_ERROR", "Failed to write favorites", 500)
	}
	return nil
}

// mirrorMongo keeps the user document's favorite_pois array in sync.
// Best effort: the Redis copy is authoritative.
func (s *FavoritesService) mirrorMongo(ctx context.Context, userID, poiID string, add bool) {
	if s.users == nil {
		return
	}
	op := "$pull"
	if add {
		op = "$addToSet"
	}
	update := bson.M{op: bson.M{"favorite_pois": poiID}}
	if _, err := s.users.UpdateOne(ctx, bson.M{"public_id": userID}, update); err != nil {
		log.Printf("Failed to mirror favorite %s for user %s: %v", poiID, userID, err)
	}
}

// decodeFavorites accepts both the current representation (an array of id
// strings) and the legacy one where entries may be {"id": "..."} objects.
func decodeFavorites(raw []byte) ([]string, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		var id string
		if err := json.Unmarshal(entry, &id); err == nil {
			if id != "" {
				ids = append(ids, id)
			}
			continue
		}
		var obj struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(entry, &obj); err == nil && obj.ID != "" {
			ids = append(ids, obj.ID)
		}
	}
	return ids, nil
}
