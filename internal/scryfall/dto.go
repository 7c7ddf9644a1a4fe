package scryfall

import "strings"

// Card is a single printing as returned by the card search.
type Card struct {
	Name            string     `json:"name"`
	Set             string     `json:"set"`
	SetName         string     `json:"set_name"`
	SetType         string     `json:"set_type"`
	CollectorNumber string     `json:"collector_number"`
	ReleasedAt      string     `json:"released_at"`
	ManaCost        string     `json:"mana_cost"`
	ColorIdentity   []string   `json:"color_identity"`
	TypeLine        string     `json:"type_line"`
	Rarity          string     `json:"rarity"`
	Faces           []CardFace `json:"card_faces"`
}

type CardFace struct {
	Name     string `json:"name"`
	ManaCost string `json:"mana_cost"`
	TypeLine string `json:"type_line"`
}

// FullManaCost returns the mana cost of the card, multi faced cards without a top level cost
// join the costs of their faces with " // ".
func (c Card) FullManaCost() string {
	if c.ManaCost != "" || len(c.Faces) == 0 {
		return c.ManaCost
	}

	costs := make([]string, 0, len(c.Faces))
	for _, f := range c.Faces {
		costs = append(costs, f.ManaCost)
	}

	return strings.Join(costs, " // ")
}

type SearchResult struct {
	TotalCards int    `json:"total_cards"`
	HasMore    bool   `json:"has_more"`
	NextPage   string `json:"next_page"`
	Data       []Card `json:"data"`
}

type Set struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	SetType    string `json:"set_type"`
	ReleasedAt string `json:"released_at"`
	IconSvgURI string `json:"icon_svg_uri"`
}

type SetList struct {
	HasMore  bool   `json:"has_more"`
	NextPage string `json:"next_page"`
	Data     []Set  `json:"data"`
}

type Symbol struct {
	Symbol             string   `json:"symbol"`
	SvgURI             string   `json:"svg_uri"`
	English            string   `json:"english"`
	RepresentsMana     bool     `json:"represents_mana"`
	AppearsInManaCosts bool     `json:"appears_in_mana_costs"`
	Cmc                *float64 `json:"cmc"`
}

type SymbolList struct {
	HasMore  bool     `json:"has_more"`
	NextPage string   `json:"next_page"`
	Data     []Symbol `json:"data"`
}

// APIError is the error body returned for failed requests.
type APIError struct {
	Object   string   `json:"object"`
	Code     string   `json:"code"`
	Status   int      `json:"status"`
	Details  string   `json:"details"`
	Warnings []string `json:"warnings"`
}
