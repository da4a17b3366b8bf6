package services

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"breizh-server/utils/errors"
)

// memBackend is an in-memory FavoritesBackend for tests.
type memBackend struct {
	entries map[string]string
}

func newMemBackend() *memBackend {
	return &memBackend{entries: map[string]string{}}
}

func (b *memBackend) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := b.entries[key]
	return v, ok, nil
}

func (b *memBackend) Set(_ context.Context, key, value string) error {
	b.entries[key] = value
	return nil
}

func TestValidFavoriteID(t *testing.T) {
	tests := []struct {
		id    string
		valid bool
	}{
		{"pointe-du-raz", true},
		{"Phare_Eckmuhl-29", true},
		{"a", true},
		{"", false},
		{"id with spaces", false},
		{"café", false},
		{"a:b", false},
		{strings.Repeat("x", 64), true},
		{strings.Repeat("x", 65), false},
	}
	for _, tt := range tests {
		if got := ValidFavoriteID(tt.id); got != tt.valid {
			t.Errorf("ValidFavoriteID(%q) = %v, want %v", tt.id, got, tt.valid)
		}
	}
}

func TestDecodeFavoritesLegacyShapes(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{`["a","b"]`, []string{"a", "b"}},
		{`[{"id":"a"},{"id":"b"}]`, []string{"a", "b"}},
		{`["a",{"id":"b"},"c"]`, []string{"a", "b", "c"}},
		{`[]`, []string{}},
		{`[{"name":"no-id"},""]`, []string{}},
	}
	for _, tt := range tests {
		got, err := decodeFavorites([]byte(tt.raw))
		if err != nil {
			t.Errorf("decodeFavorites(%s) error: %v", tt.raw, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("decodeFavorites(%s) = %v, want %v", tt.raw, got, tt.want)
		}
	}

	if _, err := decodeFavorites([]byte(`{"not":"an array"}`)); err == nil {
		t.Error("expected an error for a non-array entry")
	}
}

func TestFavoritesRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewFavoritesServiceWithBackend(newMemBackend(), nil)
	const user = "user-1"

	state, err := svc.Toggle(ctx, user, "pointe-du-raz")
	if err != nil || state != true {
		t.Fatalf("first toggle = (%v, %v), want (true, nil)", state, err)
	}
	state, err = svc.Toggle(ctx, user, "pointe-du-raz")
	if err != nil || state != false {
		t.Fatalf("second toggle = (%v, %v), want (false, nil)", state, err)
	}
	present, err := svc.IsFavorite(ctx, user, "pointe-du-raz")
	if err != nil || present {
		t.Errorf("after toggling twice membership = (%v, %v), want (false, nil)", present, err)
	}
}

func TestFavoritesAddTwice(t *testing.T) {
	ctx := context.Background()
	svc := NewFavoritesServiceWithBackend(newMemBackend(), nil)
	const user = "user-1"

	added, err := svc.Add(ctx, user, "brehat")
	if err != nil || !added {
		t.Fatalf("first add = (%v, %v), want (true, nil)", added, err)
	}
	added, err = svc.Add(ctx, user, "brehat")
	if err != nil || added {
		t.Fatalf("duplicate add = (%v, %v), want (false, nil)", added, err)
	}
	list, err := svc.List(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(list, []string{"brehat"}) {
		t.Errorf("list = %v, no duplicate expected", list)
	}
}

func TestFavoritesRemoveAbsent(t *testing.T) {
	ctx := context.Background()
	svc := NewFavoritesServiceWithBackend(newMemBackend(), nil)

	removed, err := svc.Remove(ctx, "user-1", "never-added")
	if err != nil || removed {
		t.Errorf("remove of absent id = (%v, %v), want (false, nil)", removed, err)
	}
}

func TestFavoritesInvalidIDRejected(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()
	svc := NewFavoritesServiceWithBackend(backend, nil)

	_, err := svc.Add(ctx, "user-1", "bad id!")
	if err != errors.ErrInvalidFavoriteID {
		t.Errorf("expected ErrInvalidFavoriteID, got %v", err)
	}
	if len(backend.entries) != 0 {
		t.Error("invalid id must not reach storage")
	}
}

func TestFavoritesLegacyEntryReadable(t *testing.T) {
	ctx := context.Background()
	backend := newMemBackend()
	backend.entries["favorites:user-1"] = `["raz",{"id":"brehat"}]`
	svc := NewFavoritesServiceWithBackend(backend, nil)

	present, err := svc.IsFavorite(ctx, "user-1", "brehat")
	if err != nil || !present {
		t.Errorf("legacy object entry not readable: (%v, %v)", present, err)
	}
	list, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(list, []string{"brehat", "raz"}) {
		t.Errorf("list = %v, want [brehat raz]", list)
	}
}
