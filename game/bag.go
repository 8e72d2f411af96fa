package game

import (
	"math/rand/v2"

	"go-acquire/entities"
)

// NewBag 生成一副打乱的 tile 牌堆，同一 seed 得到同一顺序
func NewBag(seed uint64) []string {
	tiles := entities.AllTileIDs()
	rng := rand.New(rand.NewPCG(seed, seed<<32|0x2545f491))
	rng.Shuffle(len(tiles), func(i, j int) {
		tiles[i], tiles[j] = tiles[j], tiles[i]
	})
	return tiles
}
