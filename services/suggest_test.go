package services

import (
	"testing"

	"breizh-server/models"
)

func TestSuggestWordMatchOutranksSubstring(t *testing.T) {
	pois := []models.POI{
		{ID: "charrues", Title: "Festival des Vieilles Charrues", Categories: []string{"festival"}},
		{ID: "vieux", Title: "Vieux Port", Categories: []string{"port"}},
	}
	got := Suggest(pois, "vieilles", 8)
	if len(got) == 0 {
		t.Fatal("expected at least one suggestion")
	}
	if got[0].Text != "Festival des Vieilles Charrues" {
		t.Errorf("first suggestion = %q, want the word-matched title", got[0].Text)
	}
}

func TestSuggestTitlePrefixFirst(t *testing.T) {
	pois := []models.POI{
		{ID: "a", Title: "Grand Phare de Belle-Île", Categories: []string{"phare"}},
		{ID: "b", Title: "Phare d'Eckmühl", Categories: []string{"phare"}},
	}
	got := Suggest(pois, "phare", 8)
	if len(got) < 2 {
		t.Fatalf("expected at least 2 suggestions, got %d", len(got))
	}
	if got[0].Text != "Phare d'Eckmühl" {
		t.Errorf("prefix match must rank first, got %q", got[0].Text)
	}
	if got[0].Priority >= got[1].Priority {
		t.Errorf("priorities not ascending: %d then %d", got[0].Priority, got[1].Priority)
	}
}

func TestSuggestCap(t *testing.T) {
	var pois []models.POI
	// More candidates than the cap across several tiers.
	prefix := []string{"Port-Louis", "Port Manec'h", "Port Navalo", "Port Haliguen"}
	word := []string{"Vieux Port", "Le Grand Port", "Château du Port", "Anse du Portzic", "Tour du Port-Blanc"}
	for i, title := range append(prefix, word...) {
		pois = append(pois, models.POI{ID: string(rune('a' + i)), Title: title, Categories: []string{"port"}})
	}
	pois = append(pois, models.POI{
		ID: "desc", Title: "Saint-Goustan", Categories: []string{"village"},
		ShortDescription: "Petit port médiéval au fond de la ria.",
	})

	got := Suggest(pois, "port", 8)
	if len(got) > 8 {
		t.Errorf("suggestion list exceeds the cap: %d", len(got))
	}
	if len(got) != 8 {
		t.Errorf("expected a full list of 8, got %d", len(got))
	}
}

func TestSuggestTierCaps(t *testing.T) {
	var pois []models.POI
	for _, title := range []string{"Plage A", "Plage B", "Plage C", "Plage D", "Plage E"} {
		pois = append(pois, models.POI{ID: title, Title: title, Categories: []string{"plage"}})
	}
	got := Suggest(pois, "plage ", 8)
	poiCount := 0
	for _, s := range got {
		if s.Priority == 1 {
			poiCount++
		}
	}
	if poiCount > 3 {
		t.Errorf("title-prefix tier returned %d results, cap is 3", poiCount)
	}
}

func TestSuggestDepartmentAndCategoryTiers(t *testing.T) {
	got := Suggest(nil, "fini", 8)
	if len(got) != 1 {
		t.Fatalf("expected exactly the department suggestion, got %v", got)
	}
	if got[0].Text != "Finistère" || got[0].Category != "Département" || got[0].Priority != 5 {
		t.Errorf("unexpected department suggestion: %+v", got[0])
	}

	got = Suggest(nil, "musée", 8)
	if len(got) != 1 {
		t.Fatalf("expected exactly the category suggestion, got %v", got)
	}
	if got[0].Text != "Musée" || got[0].Category != "Catégorie" || got[0].Priority != 6 {
		t.Errorf("unexpected category suggestion: %+v", got[0])
	}
}

func TestSuggestEachPOIAppearsOnce(t *testing.T) {
	pois := []models.POI{
		{ID: "a", Title: "Port de Vannes", Categories: []string{"port"}, Tags: []string{"port"}},
	}
	got := Suggest(pois, "port", 8)
	seen := 0
	for _, s := range got {
		if s.Text == "Port de Vannes" {
			seen++
		}
	}
	if seen != 1 {
		t.Errorf("POI appeared %d times across tiers, want 1", seen)
	}
}

func TestSuggestEmptyQuery(t *testing.T) {
	pois := []models.POI{{ID: "a", Title: "Pointe du Raz", Categories: []string{"lieu"}}}
	if got := Suggest(pois, "   ", 8); got != nil {
		t.Errorf("blank query must yield no suggestions, got %v", got)
	}
}

func TestSuggestTieBreakAlphabetical(t *testing.T) {
	pois := []models.POI{
		{ID: "b", Title: "Plage du Sillon", Categories: []string{"plage"}},
		{ID: "a", Title: "Plage Bonaparte", Categories: []string{"plage"}},
	}
	got := Suggest(pois, "plage", 8)
	if len(got) < 2 {
		t.Fatalf("expected two suggestions, got %d", len(got))
	}
	if got[0].Text != "Plage Bonaparte" || got[1].Text != "Plage du Sillon" {
		t.Errorf("same-tier suggestions not alphabetical: %q, %q", got[0].Text, got[1].Text)
	}
}
