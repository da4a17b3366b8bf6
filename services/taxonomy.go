package services

import "sort"

// CategoryInfo is the single authoritative description of a POI category.
// Icon is a symbolic identifier the front-end maps to an actual glyph;
// Color is the marker tint.
type CategoryInfo struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// categoryTable covers all known categories. Unknown keys fall back to
// "lieu" (generic pin). Every consumer goes through CategoryLookup so the
// table cannot drift between the filter UI, suggestions and markers.
var categoryTable = map[string]CategoryInfo{
	"plage":      {Key: "plage", DisplayName: "Plage", Icon: "umbrella-beach", Color: "#e8b931"},
	"ile":        {Key: "ile", DisplayName: "Île", Icon: "island", Color: "#2a9d8f"},
	"phare":      {Key: "phare", DisplayName: "Phare", Icon: "lighthouse", Color: "#d62828"},
	"port":       {Key: "port", DisplayName: "Port", Icon: "anchor", Color: "#1d6fa5"},
	"monument":   {Key: "monument", DisplayName: "Monument", Icon: "landmark", Color: "#8d6a4f"},
	"chateau":    {Key: "chateau", DisplayName: "Château", Icon: "castle", Color: "#6d597a"},
	"musee":      {Key: "musee", DisplayName: "Musée", Icon: "museum", Color: "#457b9d"},
	"randonnee":  {Key: "randonnee", DisplayName: "Randonnée", Icon: "hiking", Color: "#588157"},
	"parc":       {Key: "parc", DisplayName: "Parc & jardin", Icon: "tree", Color: "#40916c"},
	"village":    {Key: "village", DisplayName: "Village de caractère", Icon: "home-group", Color: "#bc6c25"},
	"festival":   {Key: "festival", DisplayName: "Festival", Icon: "music", Color: "#9b2226"},
	"restaurant": {Key: "restaurant", DisplayName: "Restaurant", Icon: "utensils", Color: "#e07a5f"},
	"creperie":   {Key: "creperie", DisplayName: "Crêperie", Icon: "cookie", Color: "#f2cc8f"},
	"hotel":      {Key: "hotel", DisplayName: "Hôtel", Icon: "bed", Color: "#3d5a80"},
	"lieu":       {Key: "lieu", DisplayName: "Lieu", Icon: "map-pin", Color: "#6c757d"},
}

const fallbackCategory = "lieu"

// Departments is the closed set of the five Breton departments, in the
// order the filter UI lists them.
var Departments = []string{
	"Finistère",
	"Côtes-d'Armor",
	"Morbihan",
	"Ille-et-Vilaine",
	"Loire-Atlantique",
}

// CategoryLookup resolves a category key to its display info, falling back
// to the generic "lieu" entry for unknown keys.
func CategoryLookup(key string) CategoryInfo {
	if info, ok := categoryTable[key]; ok {
		return info
	}
	return categoryTable[fallbackCategory]
}

// CategoryDisplayName returns the human name for a category key.
func CategoryDisplayName(key string) string {
	return CategoryLookup(key).DisplayName
}

// Categories returns every known category, sorted by key for a stable
// response shape.
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, 0, len(categoryTable))
	for _, info := range categoryTable {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// IsKnownDepartment reports whether name is one of the five departments.
func IsKnownDepartment(name string) bool {
	for _, d := range Departments {
		if d == name {
			return true
		}
	}
	return false
}
