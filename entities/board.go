package entities

import (
	"fmt"
	"sort"
	"strconv"
)

// 盘面为 12 列 × 9 行，tile 编号 "1A" ~ "12I"
const (
	BoardCols = 12
	BoardRows = 9
)

// Belong 取值约定：
//   ""      —— 尚未放置
//   "Blank" —— 已放置但不属于任何公司
//   其他    —— 所属公司名
const BelongBlank = "Blank"

type Tile struct {
	ID     string `json:"id"`
	Belong string `json:"belong"`
}

type Board struct {
	Tiles map[string]Tile `json:"tiles"`
}

func NewBoard() *Board {
	b := &Board{Tiles: make(map[string]Tile, BoardCols*BoardRows)}
	for _, id := range AllTileIDs() {
		b.Tiles[id] = Tile{ID: id, Belong: ""}
	}
	return b
}

func AllTileIDs() []string {
	ids := make([]string, 0, BoardCols*BoardRows)
	for col := 1; col <= BoardCols; col++ {
		for row := 'A'; row <= 'I'; row++ {
			ids = append(ids, fmt.Sprintf("%d%c", col, row))
		}
	}
	return ids
}

// AdjacentTileKeys 获取指定 tileKey 上下左右邻接的 tileKey 列表
func AdjacentTileKeys(tileKey string) []string {
	if len(tileKey) < 2 {
		return nil
	}
	col := tileKey[:len(tileKey)-1] // 例如 "6"
	row := tileKey[len(tileKey)-1:] // 例如 "A"

	colNum, err := strconv.Atoi(col)
	if err != nil {
		return nil
	}

	var adjacent []string

	// 左 (col-1)
	if colNum > 1 {
		adjacent = append(adjacent, fmt.Sprintf("%d%s", colNum-1, row))
	}
	// 右 (col+1)
	if colNum < BoardCols {
		adjacent = append(adjacent, fmt.Sprintf("%d%s", colNum+1, row))
	}
	// 上 (row-1)
	if row[0] > 'A' {
		adjacent = append(adjacent, fmt.Sprintf("%d%s", colNum, string(row[0]-1)))
	}
	// 下 (row+1)
	if row[0] < 'I' {
		adjacent = append(adjacent, fmt.Sprintf("%d%s", colNum, string(row[0]+1)))
	}

	return adjacent
}

func (b *Board) Belong(tileID string) string {
	return b.Tiles[tileID].Belong
}

func (b *Board) SetBelong(tileID, belong string) {
	t := b.Tiles[tileID]
	t.Belong = belong
	b.Tiles[tileID] = t
}

func (b *Board) Placed(tileID string) bool {
	return b.Tiles[tileID].Belong != ""
}

// ConnectedTiles 从 startTileKey 开始递归查找相邻、归属一致的 tile
func (b *Board) ConnectedTiles(startTileKey string) []string {
	visited := make(map[string]bool)
	queue := []string{startTileKey}
	var connected []string

	owner := b.Belong(startTileKey)

	for len(queue) > 0 {
		tile := queue[0]
		queue = queue[1:]

		if visited[tile] {
			continue
		}
		visited[tile] = true
		connected = append(connected, tile)

		for _, neighbor := range AdjacentTileKeys(tile) {
			if visited[neighbor] {
				continue
			}
			if b.Belong(neighbor) == owner {
				queue = append(queue, neighbor)
			}
		}
	}

	sort.Strings(connected)
	return connected
}

// ChainSize 公司当前占据的 tile 数
func (b *Board) ChainSize(company string) int {
	count := 0
	for _, t := range b.Tiles {
		if t.Belong == company {
			count++
		}
	}
	return count
}

// ChainTiles 公司当前占据的全部 tile，按编号排序
func (b *Board) ChainTiles(company string) []string {
	var tiles []string
	for id, t := range b.Tiles {
		if t.Belong == company {
			tiles = append(tiles, id)
		}
	}
	sort.Strings(tiles)
	return tiles
}

// ActiveChains 当前在场的公司，按固定公司顺序排列
func (b *Board) ActiveChains() []string {
	seen := make(map[string]bool)
	for _, t := range b.Tiles {
		if t.Belong != "" && t.Belong != BelongBlank {
			seen[t.Belong] = true
		}
	}
	var chains []string
	for _, c := range CompanyOrder {
		if seen[c] {
			chains = append(chains, c)
		}
	}
	return chains
}

// NeighborChains 邻接的不同公司，按连锁规模降序（同规模按固定公司顺序）
func (b *Board) NeighborChains(tileID string) []string {
	seen := make(map[string]bool)
	for _, neighbor := range AdjacentTileKeys(tileID) {
		belong := b.Belong(neighbor)
		if belong != "" && belong != BelongBlank {
			seen[belong] = true
		}
	}
	var chains []string
	for c := range seen {
		chains = append(chains, c)
	}
	sort.Slice(chains, func(i, j int) bool {
		si, sj := b.ChainSize(chains[i]), b.ChainSize(chains[j])
		if si != sj {
			return si > sj
		}
		return CompanyIndex(chains[i]) < CompanyIndex(chains[j])
	})
	return chains
}

func (b *Board) adjacentBlanks(tileID string) []string {
	var blanks []string
	for _, neighbor := range AdjacentTileKeys(tileID) {
		if b.Belong(neighbor) == BelongBlank {
			blanks = append(blanks, neighbor)
		}
	}
	return blanks
}

// FoundingGroup tile 及与其连通的无主 tile 群，放置前后均可调用
func (b *Board) FoundingGroup(tileID string) []string {
	group := map[string]bool{tileID: true}
	for _, neighbor := range AdjacentTileKeys(tileID) {
		if b.Belong(neighbor) == BelongBlank {
			for _, t := range b.ConnectedTiles(neighbor) {
				group[t] = true
			}
		}
	}
	tiles := make([]string, 0, len(group))
	for t := range group {
		tiles = append(tiles, t)
	}
	sort.Strings(tiles)
	return tiles
}

// PlacementKind 放置一块 tile 可能触发的局面
type PlacementKind int

const (
	PlacementSingle   PlacementKind = iota // 孤立 tile
	PlacementFounding                      // 与无主 tile 相连，创建新公司
	PlacementExtend                        // 并入唯一相邻公司
	PlacementMerger                        // 触发两家以上公司合并
	PlacementIllegal                       // 会合并两家安全公司，永久废牌
)

type Placement struct {
	Kind   PlacementKind
	Chains []string // 相邻公司，规模降序
}

// Classify 判定在 tileID 放置会触发哪种局面
func (b *Board) Classify(tileID string) Placement {
	chains := b.NeighborChains(tileID)
	switch {
	case len(chains) == 0:
		if len(b.adjacentBlanks(tileID)) > 0 {
			return Placement{Kind: PlacementFounding}
		}
		return Placement{Kind: PlacementSingle}
	case len(chains) == 1:
		return Placement{Kind: PlacementExtend, Chains: chains}
	default:
		safe := 0
		for _, c := range chains {
			if b.ChainSize(c) >= SafeChainSize {
				safe++
			}
		}
		if safe >= 2 {
			return Placement{Kind: PlacementIllegal, Chains: chains}
		}
		return Placement{Kind: PlacementMerger, Chains: chains}
	}
}

// DeadTile 判断 tile 是否为永久废牌（放置会合并两家安全公司）
func (b *Board) DeadTile(tileID string) bool {
	return b.Classify(tileID).Kind == PlacementIllegal
}
