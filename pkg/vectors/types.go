package vectors

// SymbolRarity is the rarity suffix of a set symbol file.
type SymbolRarity string

const (
	RarityEighty      SymbolRarity = "80"
	RarityBonus       SymbolRarity = "B"
	RarityCommon      SymbolRarity = "C"
	RarityHalf        SymbolRarity = "H"
	RarityMythic      SymbolRarity = "M"
	RarityRare        SymbolRarity = "R"
	RaritySpecial     SymbolRarity = "S"
	RarityTimeshifted SymbolRarity = "T"
	RarityUncommon    SymbolRarity = "U"
	RarityWatermark   SymbolRarity = "WM"
)

// RarityNameMap maps rarity names to their symbol suffix.
var RarityNameMap = map[string]SymbolRarity{
	"EIGHTY":      RarityEighty,
	"BONUS":       RarityBonus,
	"COMMON":      RarityCommon,
	"HALF":        RarityHalf,
	"MYTHIC":      RarityMythic,
	"RARE":        RarityRare,
	"SPECIAL":     RaritySpecial,
	"TIMESHIFTED": RarityTimeshifted,
	"UNCOMMON":    RarityUncommon,
	"WATERMARK":   RarityWatermark,
}

// MetaSchema describes one versioned resource.
type MetaSchema struct {
	Resource string  `json:"resource"`
	Version  string  `json:"version"`
	Date     string  `json:"date"`
	URI      *string `json:"uri"`
}

// ManifestMeta is the version block of the manifest.
type ManifestMeta struct {
	Version string  `json:"version"`
	Date    string  `json:"date"`
	URI     *string `json:"uri,omitempty"`
}

// Manifest lists the symbols in the vectors package.
type Manifest struct {
	Meta ManifestMeta `json:"meta"`

	// Set maps a set code to the rarities it has symbols for.
	Set map[string][]string `json:"set"`

	// Watermark maps a watermark group to its symbol names.
	Watermark map[string][]string `json:"watermark"`
}

// Resource is the resource name used in MetaSchema.
const Resource = "vectors"

// MetaSchema reports the manifest version as a resource descriptor.
func (m *Manifest) MetaSchema() MetaSchema {
	return MetaSchema{
		Resource: Resource,
		Version:  m.Meta.Version,
		Date:     m.Meta.Date,
		URI:      m.Meta.URI,
	}
}
