package scryfall

// SetType classifies a Scryfall set.
type SetType string

const (
	SetTypeCore            SetType = "core"
	SetTypeExpansion       SetType = "expansion"
	SetTypeMasters         SetType = "masters"
	SetTypeAlchemy         SetType = "alchemy"
	SetTypeMasterpiece     SetType = "masterpiece"
	SetTypeArsenal         SetType = "arsenal"
	SetTypeFromTheVault    SetType = "from_the_vault"
	SetTypeSpellbook       SetType = "spellbook"
	SetTypePremiumDeck     SetType = "premium_deck"
	SetTypeDuelDeck        SetType = "duel_deck"
	SetTypeDraftInnovation SetType = "draft_innovation"
	SetTypeTreasureChest   SetType = "treasure_chest"
	SetTypeCommander       SetType = "commander"
	SetTypePlanechase      SetType = "planechase"
	SetTypeArchenemy       SetType = "archenemy"
	SetTypeVanguard        SetType = "vanguard"
	SetTypeFunny           SetType = "funny"
	SetTypeStarter         SetType = "starter"
	SetTypeBox             SetType = "box"
	SetTypePromo           SetType = "promo"
	SetTypeToken           SetType = "token"
	SetTypeMemorabilia     SetType = "memorabilia"
	SetTypeMinigame        SetType = "minigame"
)

// Set is a Scryfall set object.
type Set struct {
	Object        string  `json:"object"`
	ID            string  `json:"id"`
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	SetType       SetType `json:"set_type"`
	ArenaCode     *string `json:"arena_code,omitempty"`
	MTGOCode      *string `json:"mtgo_code,omitempty"`
	Block         *string `json:"block,omitempty"`
	BlockCode     *string `json:"block_code,omitempty"`
	ParentSetCode *string `json:"parent_set_code,omitempty"`
	CardCount     int     `json:"card_count"`
	PrintedSize   *int    `json:"printed_size,omitempty"`
	ReleasedAt    *string `json:"released_at,omitempty"`
	Digital       bool    `json:"digital"`
	FoilOnly      bool    `json:"foil_only"`
	NonfoilOnly   bool    `json:"nonfoil_only"`
	TCGPlayerID   *int    `json:"tcgplayer_id,omitempty"`
	IconSVGURI    string  `json:"icon_svg_uri"`
	ScryfallURI   string  `json:"scryfall_uri"`
	SearchURI     string  `json:"search_uri"`
	URI           string  `json:"uri"`
}

// Legality is a card's status in one format.
type Legality string

const (
	LegalityLegal      Legality = "legal"
	LegalityNotLegal   Legality = "not_legal"
	LegalityRestricted Legality = "restricted"
	LegalityBanned     Legality = "banned"
)

// CardLegalities maps formats to a card's legality.
type CardLegalities struct {
	Standard        Legality `json:"standard"`
	Future          Legality `json:"future"`
	Historic        Legality `json:"historic"`
	Timeless        Legality `json:"timeless"`
	Gladiator       Legality `json:"gladiator"`
	Pioneer         Legality `json:"pioneer"`
	Explorer        Legality `json:"explorer"`
	Modern          Legality `json:"modern"`
	Legacy          Legality `json:"legacy"`
	Pauper          Legality `json:"pauper"`
	Vintage         Legality `json:"vintage"`
	Penny           Legality `json:"penny"`
	Commander       Legality `json:"commander"`
	Oathbreaker     Legality `json:"oathbreaker"`
	StandardBrawl   Legality `json:"standardbrawl"`
	Brawl           Legality `json:"brawl"`
	Alchemy         Legality `json:"alchemy"`
	PauperCommander Legality `json:"paupercommander"`
	Duel            Legality `json:"duel"`
	OldSchool       Legality `json:"oldschool"`
	Premodern       Legality `json:"premodern"`
	PreDH           Legality `json:"predh"`
}

// RelatedCard links a card to a token, meld part or combo piece.
type RelatedCard struct {
	Object    string `json:"object"`
	ID        string `json:"id"`
	Component string `json:"component"`
	Name      string `json:"name"`
	TypeLine  string `json:"type_line"`
	URI       string `json:"uri"`
}

// Card is a Scryfall card object. Only the stable core, gameplay and
// print fields are modelled.
type Card struct {
	Object          string  `json:"object"`
	ID              string  `json:"id"`
	Lang            string  `json:"lang"`
	Layout          string  `json:"layout"`
	URI             string  `json:"uri"`
	PrintsSearchURI string  `json:"prints_search_uri"`
	RulingsURI      string  `json:"rulings_uri"`
	ScryfallURI     string  `json:"scryfall_uri"`
	ArenaID         *int    `json:"arena_id,omitempty"`
	MTGOID          *int    `json:"mtgo_id,omitempty"`
	MTGOFoilID      *int    `json:"mtgo_foil_id,omitempty"`
	MultiverseIDs   []int   `json:"multiverse_ids,omitempty"`
	TCGPlayerID     *int    `json:"tcgplayer_id,omitempty"`
	TCGPlayerEtched *int    `json:"tcgplayer_etched_id,omitempty"`
	CardmarketID    *int    `json:"cardmarket_id,omitempty"`
	OracleID        *string `json:"oracle_id,omitempty"`

	CMC           float64        `json:"cmc"`
	ColorIdentity []string       `json:"color_identity"`
	Keywords      []string       `json:"keywords"`
	Legalities    CardLegalities `json:"legalities"`
	Name          string         `json:"name"`
	Reserved      bool           `json:"reserved"`
	TypeLine      string         `json:"type_line"`
	AllParts      []RelatedCard  `json:"all_parts,omitempty"`

	Booster         bool    `json:"booster"`
	CollectorNumber string  `json:"collector_number"`
	Rarity          string  `json:"rarity"`
	Set             string  `json:"set"`
	SetName         string  `json:"set_name"`
	Artist          *string `json:"artist,omitempty"`
}
