package mtgjson

import "encoding/json"

// Meta is the MTGJSON build metadata.
type Meta struct {
	Date    string `json:"date"`
	Version string `json:"version"`
}

// Translations maps a set name into other languages.
type Translations struct {
	AncientGreek       *string `json:"Ancient Greek,omitempty"`
	Arabic             *string `json:"Arabic,omitempty"`
	ChineseSimplified  *string `json:"Chinese Simplified,omitempty"`
	ChineseTraditional *string `json:"Chinese Traditional,omitempty"`
	French             *string `json:"French,omitempty"`
	German             *string `json:"German,omitempty"`
	Hebrew             *string `json:"Hebrew,omitempty"`
	Italian            *string `json:"Italian,omitempty"`
	Japanese           *string `json:"Japanese,omitempty"`
	Korean             *string `json:"Korean,omitempty"`
	Latin              *string `json:"Latin,omitempty"`
	Phyrexian          *string `json:"Phyrexian,omitempty"`
	PortugueseBrazil   *string `json:"Portuguese (Brazil),omitempty"`
	Russian            *string `json:"Russian,omitempty"`
	Sanskrit           *string `json:"Sanskrit,omitempty"`
	Spanish            *string `json:"Spanish,omitempty"`
}

// Identifiers links a card or product to external catalogues.
type Identifiers struct {
	CardKingdomEtchedID     *string `json:"cardKingdomEtchedId,omitempty"`
	CardKingdomFoilID       *string `json:"cardKingdomFoilId,omitempty"`
	CardKingdomID           *string `json:"cardKingdomId,omitempty"`
	CardsphereID            *string `json:"cardsphereId,omitempty"`
	MCMID                   *string `json:"mcmId,omitempty"`
	MCMMetaID               *string `json:"mcmMetaId,omitempty"`
	MTGArenaID              *string `json:"mtgArenaId,omitempty"`
	MTGJSONFoilVersionID    *string `json:"mtgjsonFoilVersionId,omitempty"`
	MTGJSONNonFoilVersionID *string `json:"mtgjsonNonFoilVersionId,omitempty"`
	MTGJSONV4ID             *string `json:"mtgjsonV4Id,omitempty"`
	MTGOFoilID              *string `json:"mtgoFoilId,omitempty"`
	MTGOID                  *string `json:"mtgoId,omitempty"`
	MultiverseID            *string `json:"multiverseId,omitempty"`
	ScryfallID              *string `json:"scryfallId,omitempty"`
	ScryfallOracleID        *string `json:"scryfallOracleId,omitempty"`
	ScryfallIllustrationID  *string `json:"scryfallIllustrationId,omitempty"`
	TCGPlayerProductID      *string `json:"tcgplayerProductId,omitempty"`
	TCGPlayerEtchedID       *string `json:"tcgplayerEtchedProductId,omitempty"`
}

// PurchaseURLs are marketplace links for a product.
type PurchaseURLs struct {
	CardKingdom       *string `json:"cardKingdom,omitempty"`
	CardKingdomEtched *string `json:"cardKingdomEtched,omitempty"`
	CardKingdomFoil   *string `json:"cardKingdomFoil,omitempty"`
	Cardmarket        *string `json:"cardmarket,omitempty"`
	TCGPlayer         *string `json:"tcgplayer,omitempty"`
	TCGPlayerEtched   *string `json:"tcgplayerEtched,omitempty"`
}

// SealedProductCard is a single card inside a sealed product.
type SealedProductCard struct {
	Foil   bool   `json:"foil"`
	Name   string `json:"name"`
	Number string `json:"number"`
	Set    string `json:"set"`
	UUID   string `json:"uuid"`
}

// SealedProductDeck is a preconstructed deck inside a sealed product.
type SealedProductDeck struct {
	Name string `json:"name"`
	Set  string `json:"set"`
}

// SealedProductOther is anything MTGJSON does not model further.
type SealedProductOther struct {
	Name string `json:"name"`
}

// SealedProductPack is a booster pack inside a sealed product.
type SealedProductPack struct {
	Code string `json:"code"`
	Set  string `json:"set"`
}

// SealedProductSealed is a nested sealed product.
type SealedProductSealed struct {
	Count int    `json:"count"`
	Name  string `json:"name"`
	Set   string `json:"set"`
	UUID  string `json:"uuid"`
}

// SealedProductVariable lists alternative configurations of a product.
type SealedProductVariable struct {
	Configs []SealedProductContents `json:"configs"`
}

// SealedProductContents describes what a sealed product contains.
type SealedProductContents struct {
	Card     []SealedProductCard     `json:"card,omitempty"`
	Deck     []SealedProductDeck     `json:"deck,omitempty"`
	Other    []SealedProductOther    `json:"other,omitempty"`
	Pack     []SealedProductPack     `json:"pack,omitempty"`
	Sealed   []SealedProductSealed   `json:"sealed,omitempty"`
	Variable []SealedProductVariable `json:"variable,omitempty"`
}

// SealedProduct is a purchasable product of a set.
type SealedProduct struct {
	CardCount    *int                   `json:"cardCount,omitempty"`
	Category     *string                `json:"category,omitempty"`
	Contents     *SealedProductContents `json:"contents,omitempty"`
	Identifiers  Identifiers            `json:"identifiers"`
	Name         string                 `json:"name"`
	ProductSize  *int                   `json:"productSize,omitempty"`
	PurchaseURLs PurchaseURLs           `json:"purchaseUrls"`
	ReleaseDate  *string                `json:"releaseDate,omitempty"`
	Subtype      *string                `json:"subtype,omitempty"`
	UUID         string                 `json:"uuid"`
}

// SetList is the summary of one set in SetList.json.
type SetList struct {
	BaseSetSize      int             `json:"baseSetSize"`
	Block            *string         `json:"block,omitempty"`
	Code             string          `json:"code"`
	CodeV3           *string         `json:"codeV3,omitempty"`
	IsForeignOnly    *bool           `json:"isForeignOnly,omitempty"`
	IsFoilOnly       bool            `json:"isFoilOnly"`
	IsNonFoilOnly    *bool           `json:"isNonFoilOnly,omitempty"`
	IsOnlineOnly     bool            `json:"isOnlineOnly"`
	IsPaperOnly      *bool           `json:"isPaperOnly,omitempty"`
	IsPartialPreview *bool           `json:"isPartialPreview,omitempty"`
	KeyruneCode      string          `json:"keyruneCode"`
	MCMID            *int            `json:"mcmId,omitempty"`
	MCMIDExtras      *int            `json:"mcmIdExtras,omitempty"`
	MCMName          *string         `json:"mcmName,omitempty"`
	MTGOCode         *string         `json:"mtgoCode,omitempty"`
	Name             string          `json:"name"`
	ParentCode       *string         `json:"parentCode,omitempty"`
	ReleaseDate      string          `json:"releaseDate"`
	SealedProduct    []SealedProduct `json:"sealedProduct"`
	TCGPlayerGroupID *int            `json:"tcgplayerGroupId,omitempty"`
	TotalSetSize     int             `json:"totalSetSize"`
	Translations     Translations    `json:"translations"`
	Type             string          `json:"type"`
}

// Set is a full set file. Cards, tokens, decks and booster configs are
// kept raw; their schemas are large and change between MTGJSON releases.
type Set struct {
	SetList

	Booster         map[string]json.RawMessage `json:"booster,omitempty"`
	Cards           []json.RawMessage          `json:"cards"`
	CardsphereSetID *int                       `json:"cardsphereSetId,omitempty"`
	Decks           []json.RawMessage          `json:"decks"`
	Languages       []string                   `json:"languages,omitempty"`
	Tokens          []json.RawMessage          `json:"tokens"`
	TokenSetCode    *string                    `json:"tokenSetCode,omitempty"`
}
