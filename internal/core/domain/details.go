package domain

// DetailField is one "Key : Value" line of a tool's package description,
// in the order the tool printed it.
type DetailField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// PackageDetails describes a single package from one source.
type PackageDetails struct {
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	Description string     `json:"description"`
	Source      SourceKind `json:"source"`
	Installed   bool       `json:"installed"`

	URL         string `json:"url,omitempty"`
	License     string `json:"license,omitempty"`
	Size        string `json:"size,omitempty"`
	Maintainer  string `json:"maintainer,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`

	// Fields holds every line the tool printed, including the ones
	// copied into the named fields above.
	Fields []DetailField `json:"fields,omitempty"`
}

// Field returns the value printed under key, or "".
func (d PackageDetails) Field(key string) string {
	for _, f := range d.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// Record returns the search-result form of the details.
func (d PackageDetails) Record() PackageRecord {
	return PackageRecord{
		Name:        d.Name,
		Version:     d.Version,
		Description: d.Description,
		Source:      d.Source,
		Installed:   d.Installed,
	}
}
