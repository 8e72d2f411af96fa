package entities

import "go-acquire/utils"

type Player struct {
	Name   string         `json:"name"`
	Money  int            `json:"money"`
	Tiles  []string       `json:"tiles"`
	Stocks map[string]int `json:"stocks"`
}

func NewPlayer(name string) *Player {
	return &Player{
		Name:   name,
		Money:  StartMoney,
		Stocks: make(map[string]int),
	}
}

func (p *Player) HasTile(tileID string) bool {
	return utils.StringInSlice(tileID, p.Tiles)
}

func (p *Player) RemoveTile(tileID string) {
	p.Tiles = utils.RemoveString(p.Tiles, tileID)
}
