package models

// POI mirrors one entry of the dataset document {"pois": [...]}.
// Distance is ephemeral: attached to a copy during proximity queries,
// never stored.
type POI struct {
	ID               string   `json:"id" bson:"_id,omitempty"`
	Title            string   `json:"title" bson:"title"`
	Slug             string   `json:"slug" bson:"slug"`
	Department       string   `json:"department" bson:"department"`
	Categories       []string `json:"categories" bson:"categories"`
	Lat              *float64 `json:"lat,omitempty" bson:"lat,omitempty"`
	Lng              *float64 `json:"lng,omitempty" bson:"lng,omitempty"`
	ShortDescription string   `json:"shortDescription" bson:"short_description"`
	Description      string   `json:"description" bson:"description"`
	Image            string   `json:"image" bson:"image"`
	Images           []string `json:"images,omitempty" bson:"images,omitempty"`
	Tested           bool     `json:"tested" bson:"tested"`
	CoupDeCoeur      bool     `json:"coupDeCoeur" bson:"coup_de_coeur"`
	Address          string   `json:"address,omitempty" bson:"address,omitempty"`
	Website          string   `json:"website,omitempty" bson:"website,omitempty"`
	Phone            string   `json:"phone,omitempty" bson:"phone,omitempty"`
	Tags             []string `json:"tags,omitempty" bson:"tags,omitempty"`
	Distance         float64  `json:"distance,omitempty" bson:"-"`
}

// HasCoordinates reports whether the POI can take part in proximity queries.
func (p *POI) HasCoordinates() bool {
	return p.Lat != nil && p.Lng != nil
}

// PrimaryCategory is the first category tag, used for icon/color lookup.
func (p *POI) PrimaryCategory() string {
	if len(p.Categories) == 0 {
		return ""
	}
	return p.Categories[0]
}
