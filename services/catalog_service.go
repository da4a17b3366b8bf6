package services

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"os"
	"sync"

	"github.com/asim/quadtree"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"breizh-server/models"
)

const (
	defaultDataFile = "./data/bretagne-pois.json"
	geoIndexKey     = "pois:geo"
	poiHashPrefix   = "poi:"
)

// CatalogService owns the POI store: the dataset is loaded once per
// process, normalized, seeded into MongoDB and the Redis geo index, and
// held in memory (plus a quadtree) for the pure query pipeline. The
// in-memory slice is immutable after load; proximity results are
// annotated copies.
type CatalogService struct {
	collection  *mongo.Collection
	RedisClient *redis.Client

	mu       sync.RWMutex
	pois     []models.POI
	bySlug   map[string]int
	tree     *quadtree.QuadTree
	loadOnce sync.Once
}

// NewCatalogService connects storage and loads the POI dataset. Infra
// connection failures are fatal; a missing or malformed dataset is not —
// the catalog stays empty and every query degrades to "no results".
func NewCatalogService() *CatalogService {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default configuration")
	}
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Fatal("MONGODB_URI environment variable is not set")
	}
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("MongoDB connection failed: %v", err)
	}
	if err := client.Ping(context.Background(), nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}
	log.Println("Connected to MongoDB")

	service := &CatalogService{
		collection: client.Database("breizh").Collection("pois"),
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		log.Fatal("REDIS_ADDR environment variable is not set")
	}
	service.RedisClient = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	if err := service.RedisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	service.Load()
	return service
}

// NewCatalogFromPOIs builds a storage-free catalog over an already
// normalized dataset. Used when serving a pre-baked dataset and by
// handler tests; proximity queries answer from the quadtree only.
func NewCatalogFromPOIs(pois []models.POI) *CatalogService {
	service := &CatalogService{}
	normalized := make([]models.POI, 0, len(pois))
	for _, p := range pois {
		if !normalizePOI(&p) {
			continue
		}
		normalized = append(normalized, p)
	}
	service.setPOIs(normalized)
	return service
}

// Load reads and indexes the dataset exactly once; concurrent callers
// share the single load instead of issuing duplicate reads.
func (s *CatalogService) Load() {
	s.loadOnce.Do(func() {
		path := os.Getenv("POI_DATA_FILE")
		if path == "" {
			path = defaultDataFile
		}
		pois, err := loadDataset(path)
		if err != nil {
			log.Printf("POI dataset load failed, catalog stays empty: %v", err)
			return
		}
		s.setPOIs(pois)
		log.Printf("Loaded %d POIs from %s", len(pois), path)

		if s.collection != nil {
			s.seedMongo(context.Background(), pois)
		}
		if s.RedisClient != nil {
			s.seedRedisGeo(context.Background(), pois)
		}
	})
}

// loadDataset decodes {"pois": [...]} and normalizes each record; records
// missing an id or title are skipped rather than failing the whole load.
func loadDataset(path string) ([]models.POI, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var doc struct {
		POIs []models.POI `json:"pois"`
	}
	if err := json.NewDecoder(file).Decode(&doc); err != nil {
		return nil, err
	}

	pois := make([]models.POI, 0, len(doc.POIs))
	for _, p := range doc.POIs {
		if !normalizePOI(&p) {
			log.Printf("Skipping invalid POI record (id=%q title=%q)", p.ID, p.Title)
			continue
		}
		pois = append(pois, p)
	}
	return pois, nil
}

// normalizePOI fills derived fields in place and reports whether the
// record is usable. Slugs are derived from the title when absent; an
// empty category list gets the generic fallback; non-finite coordinates
// are dropped so the POI stays filterable but leaves proximity queries.
func normalizePOI(p *models.POI) bool {
	if p.ID == "" || p.Title == "" {
		return false
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if len(p.Categories) == 0 {
		p.Categories = []string{fallbackCategory}
	}
	if p.HasCoordinates() {
		if !isFinite(*p.Lat) || !isFinite(*p.Lng) {
			p.Lat, p.Lng = nil, nil
		}
	} else {
		p.Lat, p.Lng = nil, nil
	}
	p.Distance = 0
	return true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// setPOIs installs the dataset and builds the slug map and quadtree.
func (s *CatalogService) setPOIs(pois []models.POI) {
	bySlug := make(map[string]int, len(pois))
	// World-covering quadtree, same bounds convention as the geo index.
	center := quadtree.NewPoint(0, 0, nil)
	half := quadtree.NewPoint(90, 180, nil)
	tree := quadtree.New(quadtree.NewAABB(center, half), 0, nil)
	for i := range pois {
		bySlug[pois[i].Slug] = i
		if pois[i].HasCoordinates() {
			tree.Insert(quadtree.NewPoint(*pois[i].Lat, *pois[i].Lng, &pois[i]))
		}
	}

	s.mu.Lock()
	s.pois = pois
	s.bySlug = bySlug
	s.tree = tree
	s.mu.Unlock()
}

func (s *CatalogService) seedMongo(ctx context.Context, pois []models.POI) {
	count, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Printf("Failed to count POI documents: %v", err)
		return
	}
	if count > 0 {
		return
	}
	docs := make([]any, 0, len(pois))
	for _, p := range pois {
		docs = append(docs, p)
	}
	result, err := s.collection.InsertMany(ctx, docs)
	if err != nil {
		log.Printf("Failed to seed POIs into MongoDB: %v", err)
		return
	}
	log.Printf("Inserted %d POIs into MongoDB", len(result.InsertedIDs))
}

// seedRedisGeo rebuilds the geo index. Only POI keys are removed; the
// Redis DB also holds favorites and cached users.
func (s *CatalogService) seedRedisGeo(ctx context.Context, pois []models.POI) {
	if err := s.RedisClient.Del(ctx, geoIndexKey).Err(); err != nil {
		log.Printf("Failed to clear POI geo index: %v", err)
		return
	}
	seeded := 0
	for _, p := range pois {
		poiJSON, err := json.Marshal(p)
		if err != nil {
			log.Printf("Failed to marshal POI %s: %v", p.ID, err)
			continue
		}
		if err := s.RedisClient.HSet(ctx, poiHashPrefix+p.ID, "data", poiJSON).Err(); err != nil {
			log.Printf("Failed to store POI %s in Redis: %v", p.ID, err)
			continue
		}
		if !p.HasCoordinates() {
			continue
		}
		err = s.RedisClient.GeoAdd(ctx, geoIndexKey, &redis.GeoLocation{
			Name:      p.ID,
			Longitude: *p.Lng,
			Latitude:  *p.Lat,
		}).Err()
		if err != nil {
			log.Printf("Failed to add POI %s to geo index: %v", p.ID, err)
			continue
		}
		seeded++
	}
	log.Printf("Seeded %d POIs into the Redis geo index", seeded)
}

// All returns the full dataset in source order. Callers treat it as
// read-only.
func (s *CatalogService) All() []models.POI {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pois
}

// BySlug looks a POI up by its URL-safe slug.
func (s *CatalogService) BySlug(slug string) (models.POI, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.bySlug[slug]
	if !ok {
		return models.POI{}, false
	}
	return s.pois[i], true
}

// ByID looks a POI up by its identifier.
func (s *CatalogService) ByID(id string) (models.POI, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.pois {
		if s.pois[i].ID == id {
			return s.pois[i], true
		}
	}
	return models.POI{}, false
}

// Filter applies criteria to the full dataset.
func (s *CatalogService) Filter(criteria FilterCriteria) []models.POI {
	return FilterPOIs(s.All(), criteria)
}

// Suggest computes autocomplete candidates against the full dataset.
func (s *CatalogService) Suggest(query string, maxResults int) []Suggestion {
	return Suggest(s.All(), query, maxResults)
}

// FindNearby returns up to limit POIs within radiusKm of the origin,
// ascending by distance, each annotated with its distance. Redis
// GeoRadius is the primary backend; when it errors (or no client is
// wired) the in-memory quadtree answers instead.
func (s *CatalogService) FindNearby(ctx context.Context, lat, lng, radiusKm float64, limit int) []models.POI {
	if !isFinite(lat) || !isFinite(lng) || radiusKm <= 0 {
		return nil
	}
	if s.RedisClient != nil {
		results, err := s.nearbyRedis(ctx, lat, lng, radiusKm, limit)
		if err == nil {
			return results
		}
		log.Printf("Redis GeoRadius failed, falling back to local index: %v", err)
	}
	return s.nearbyLocal(lat, lng, radiusKm, limit)
}

func (s *CatalogService) nearbyRedis(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]models.POI, error) {
	geoResults, err := s.RedisClient.GeoRadius(ctx, geoIndexKey, lng, lat, &redis.GeoRadiusQuery{
		Radius:   radiusKm,
		Unit:     "km",
		WithDist: true,
		Sort:     "ASC",
		Count:    limit,
	}).Result()
	if err != nil {
		return nil, err
	}

	results := make([]models.POI, 0, len(geoResults))
	for _, geoResult := range geoResults {
		poi, ok := s.ByID(geoResult.Name)
		if !ok {
			continue
		}
		poi.Distance = geoResult.Dist
		results = append(results, poi)
	}
	return results, nil
}

// nearbyLocal queries the quadtree with an approximate bounding box and
// filters to the exact Haversine radius.
func (s *CatalogService) nearbyLocal(lat, lng, radiusKm float64, limit int) []models.POI {
	s.mu.RLock()
	tree := s.tree
	s.mu.RUnlock()
	if tree == nil {
		return nil
	}

	center := quadtree.NewPoint(lat, lng, nil)
	half := center.HalfPoint(radiusKm * 1000)
	points := tree.Search(quadtree.NewAABB(center, half))

	candidates := make([]models.POI, 0, len(points))
	for _, pt := range points {
		if p, ok := pt.Data().(*models.POI); ok {
			candidates = append(candidates, *p)
		}
	}
	results := Nearby(candidates, lat, lng, radiusKm)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// NearbyOf returns up to limit neighbours of the POI with the given slug,
// excluding the POI itself.
func (s *CatalogService) NearbyOf(ctx context.Context, slug string, radiusKm float64, limit int) ([]models.POI, bool) {
	subject, ok := s.BySlug(slug)
	if !ok {
		return nil, false
	}
	if !subject.HasCoordinates() {
		return nil, true
	}
	// Fetch one extra so dropping the subject still fills the limit.
	nearby := s.FindNearby(ctx, *subject.Lat, *subject.Lng, radiusKm, limit+1)
	results := make([]models.POI, 0, len(nearby))
	for _, p := range nearby {
		if p.ID == subject.ID {
			continue
		}
		results = append(results, p)
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, true
}
