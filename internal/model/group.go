package model

// EntityGroup is a candidate canonical brand: every record the engine
// believes belongs to the same company. Groups are owned exclusively by the
// resolution run that created them; LocationCount always equals
// len(Locations) when records are added through Add and Absorb.
type EntityGroup struct {
	NormalizedName string      `json:"normalized_name"`
	OriginalNames  []string    `json:"original_names"`
	LocationCount  int         `json:"location_count"`
	Locations      []RawRecord `json:"locations"`
	Website        string      `json:"website,omitempty"`
	Cities         []string    `json:"cities,omitempty"`
}

// Add appends one record to the group, keeping the first non-empty website
// and insertion-ordered unique cities.
func (g *EntityGroup) Add(rec RawRecord) {
	g.OriginalNames = append(g.OriginalNames, rec.Name)
	g.Locations = append(g.Locations, rec)
	g.LocationCount++
	if g.Website == "" && rec.Website != "" {
		g.Website = rec.Website
	}
	if rec.City != "" {
		g.addCity(rec.City)
	}
}

// Absorb folds another group's records into this one. The absorbed group
// must not be used afterwards.
func (g *EntityGroup) Absorb(other *EntityGroup) {
	g.OriginalNames = append(g.OriginalNames, other.OriginalNames...)
	g.Locations = append(g.Locations, other.Locations...)
	g.LocationCount += other.LocationCount
	if g.Website == "" {
		g.Website = other.Website
	}
	for _, city := range other.Cities {
		g.addCity(city)
	}
}

func (g *EntityGroup) addCity(city string) {
	for _, c := range g.Cities {
		if c == city {
			return
		}
	}
	g.Cities = append(g.Cities, city)
}

// ResolvedEntity is the outbound shape handed to qualification and export
// collaborators.
type ResolvedEntity struct {
	NormalizedName string      `json:"normalized_name"`
	DisplayName    string      `json:"display_name"`
	LocationCount  int         `json:"location_count"`
	Website        string      `json:"website,omitempty"`
	Cities         []string    `json:"cities,omitempty"`
	Locations      []RawRecord `json:"locations"`
	Qualified      bool        `json:"qualified"`
}
