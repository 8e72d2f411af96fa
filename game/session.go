package game

import (
	"fmt"

	"go-acquire/dto"
	"go-acquire/entities"
	"go-acquire/utils"
)

// Phase 回合内的阶段
type Phase string

const (
	PhaseAwaitPlacement      Phase = "awaitPlacement"
	PhaseAwaitSurvivorChoice Phase = "awaitSurvivorChoice"
	PhaseAwaitMergerDecision Phase = "awaitMergerDecision"
	PhaseAwaitPurchase       Phase = "awaitPurchase"
	PhaseGameOver            Phase = "gameOver"
)

// MergerState 一次未完结合并的清算进度
type MergerState struct {
	Tile       string   // 触发合并的落子
	Survivor   string   // 幸存公司，规模并列时先为空
	Candidates []string // 等待落子者挑选的幸存候选
	Pending    []string // 尚未清算的被吞公司，按清算顺序
	Current    string   // 正在清算的被吞公司
	Remaining  []int    // Current 的持股玩家中尚未表态者，按顺位
	Maker      int      // 落子触发合并的玩家下标
}

// Session 一局游戏的全部状态。事件是唯一的状态入口：
// 主机通过 Propose 校验操作并生成事件，再经 Apply 落地；
// 副本只调用 Apply，按 Seq 顺序重放同一事件流即可得到同一状态。
type Session struct {
	RoomID  string
	Players []*entities.Player
	Board   *entities.Board
	Market  *entities.StockMarket
	Bag     []string
	Turn    int // 当前回合玩家下标
	Phase   Phase
	Merger  *MergerState
	Bought  int // 本回合已购股数
	Seq     int64
	Log     []dto.Event
	Over    bool
}

// NewSession 创建一局新游戏：发 6 块 tile、每人 6000 起始资金
func NewSession(roomID string, names []string, seed uint64) *Session {
	s := &Session{
		RoomID: roomID,
		Board:  entities.NewBoard(),
		Market: entities.NewStockMarket(),
		Bag:    NewBag(seed),
		Phase:  PhaseAwaitPlacement,
	}
	for _, name := range names {
		p := entities.NewPlayer(name)
		p.Tiles = append(p.Tiles, s.Bag[:entities.HandSize]...)
		s.Bag = s.Bag[entities.HandSize:]
		s.Players = append(s.Players, p)
	}
	return s
}

func (s *Session) CurrentPlayer() *entities.Player {
	return s.Players[s.Turn]
}

func (s *Session) PlayerIndex(name string) int {
	for i, p := range s.Players {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// holdersFrom 从 start 顺位起，持有该公司股票的玩家下标
func (s *Session) holdersFrom(company string, start int) []int {
	var holders []int
	n := len(s.Players)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if s.Players[idx].Stocks[company] > 0 {
			holders = append(holders, idx)
		}
	}
	return holders
}

// beginChain 进入下一家被吞公司的清算
func (s *Session) beginChain(m *MergerState) {
	if len(m.Pending) == 0 {
		m.Current = ""
		m.Remaining = nil
		return
	}
	m.Current = m.Pending[0]
	m.Pending = m.Pending[1:]
	m.Remaining = s.holdersFrom(m.Current, m.Maker)
}

// ApplyAll 按顺序应用一批事件并追加到日志
func (s *Session) ApplyAll(events []dto.Event) error {
	for _, evt := range events {
		if err := s.Apply(evt); err != nil {
			return err
		}
	}
	return nil
}

// Apply 应用单个事件。事件必须严格按 Seq 递增到达，
// 出现跳号说明副本落后，应当请求快照重建。
func (s *Session) Apply(evt dto.Event) error {
	if evt.Seq != s.Seq+1 {
		return dto.RejectSequenceGap
	}

	switch evt.Kind {
	case dto.EventTilePlaced:
		p := s.Players[s.PlayerIndex(evt.Player)]
		p.RemoveTile(evt.Tile)
		s.Board.SetBelong(evt.Tile, evt.Belong)
		s.Phase = PhaseAwaitPurchase

	case dto.EventChainExtended:
		for _, t := range evt.Tiles {
			s.Board.SetBelong(t, evt.Company)
		}

	case dto.EventCompanyFounded:
		for _, t := range evt.Tiles {
			s.Board.SetBelong(t, evt.Company)
		}
		if evt.FreeShare {
			s.Players[s.PlayerIndex(evt.Player)].Stocks[evt.Company]++
			s.Market.Take(evt.Company, 1)
		}

	case dto.EventMergerStarted:
		m := &MergerState{
			Tile:  evt.Tile,
			Maker: s.PlayerIndex(evt.Player),
		}
		if evt.Survivor == "" {
			// 规模并列，等待落子者挑选幸存公司
			m.Candidates = s.survivorCandidates(evt.Tile)
			s.Phase = PhaseAwaitSurvivorChoice
		} else {
			m.Survivor = evt.Survivor
			m.Pending = append([]string{}, evt.Defunct...)
			s.beginChain(m)
			s.Phase = PhaseAwaitMergerDecision
		}
		s.Merger = m

	case dto.EventMergerSurvivorChosen:
		m := s.Merger
		m.Survivor = evt.Company
		m.Candidates = nil
		for _, c := range s.Board.NeighborChains(m.Tile) {
			if c != m.Survivor {
				m.Pending = append(m.Pending, c)
			}
		}
		s.beginChain(m)
		s.Phase = PhaseAwaitMergerDecision

	case dto.EventBonusPaid:
		s.Players[s.PlayerIndex(evt.Player)].Money += evt.Amount

	case dto.EventStockSold:
		p := s.Players[s.PlayerIndex(evt.Player)]
		p.Stocks[evt.Company] -= evt.Count
		p.Money += evt.Amount
		s.Market.Return(evt.Company, evt.Count)

	case dto.EventStockTraded:
		p := s.Players[s.PlayerIndex(evt.Player)]
		p.Stocks[evt.Company] -= evt.Give
		s.Market.Return(evt.Company, evt.Give)
		p.Stocks[evt.Survivor] += evt.Get
		s.Market.Take(evt.Survivor, evt.Get)

	case dto.EventShareKept:
		// 清算表态以 share_kept 收尾，据此推进顺位
		if m := s.Merger; m != nil && len(m.Remaining) > 0 {
			m.Remaining = m.Remaining[1:]
		}

	case dto.EventCompanyAbsorbed:
		for _, t := range evt.Tiles {
			s.Board.SetBelong(t, evt.Survivor)
		}
		if m := s.Merger; m != nil {
			s.beginChain(m)
		}

	case dto.EventMergerFinished:
		for _, t := range evt.Tiles {
			s.Board.SetBelong(t, evt.Survivor)
		}
		s.Merger = nil
		s.Phase = PhaseAwaitPurchase

	case dto.EventStockBought:
		p := s.Players[s.PlayerIndex(evt.Player)]
		p.Money -= evt.Amount
		p.Stocks[evt.Company] += evt.Count
		s.Market.Take(evt.Company, evt.Count)
		s.Bought += evt.Count

	case dto.EventTileDiscarded:
		// 废牌移出游戏，不回牌堆
		s.Players[s.PlayerIndex(evt.Player)].RemoveTile(evt.Tile)

	case dto.EventTileDrawn:
		s.Bag = utils.RemoveString(s.Bag, evt.Tile)
		s.Players[s.PlayerIndex(evt.Player)].Tiles = append(s.Players[s.PlayerIndex(evt.Player)].Tiles, evt.Tile)

	case dto.EventTurnAdvanced:
		s.Turn = s.PlayerIndex(evt.Player)
		s.Phase = PhaseAwaitPlacement
		s.Bought = 0

	case dto.EventGameEnded:
		s.Over = true
		s.Phase = PhaseGameOver

	default:
		return fmt.Errorf("未知事件类型: %s", evt.Kind)
	}

	s.Seq = evt.Seq
	s.Log = append(s.Log, evt)
	return nil
}

// survivorCandidates 触发合并的落子周边规模并列最大的公司
func (s *Session) survivorCandidates(tileID string) []string {
	chains := s.Board.NeighborChains(tileID)
	if len(chains) == 0 {
		return nil
	}
	top := s.Board.ChainSize(chains[0])
	var candidates []string
	for _, c := range chains {
		if s.Board.ChainSize(c) == top {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// Snapshot 导出完整状态，供新加入或掉线重连的副本重建
func (s *Session) Snapshot() *dto.Snapshot {
	snap := &dto.Snapshot{
		Seq:    s.Seq,
		RoomID: s.RoomID,
		Tiles:  make(map[string]string),
		Bank:   make(map[string]int),
		Bag:    append([]string{}, s.Bag...),
		Turn:   s.Turn,
		Phase:  string(s.Phase),
		Bought: s.Bought,
		Over:   s.Over,
	}
	for id, t := range s.Board.Tiles {
		snap.Tiles[id] = t.Belong
	}
	for c, n := range s.Market.BankShares {
		snap.Bank[c] = n
	}
	for _, p := range s.Players {
		ps := dto.PlayerState{
			Name:   p.Name,
			Money:  p.Money,
			Tiles:  append([]string{}, p.Tiles...),
			Stocks: make(map[string]int),
		}
		for c, n := range p.Stocks {
			ps.Stocks[c] = n
		}
		snap.Players = append(snap.Players, ps)
	}
	if m := s.Merger; m != nil {
		snap.Merger = &dto.MergerSnapshot{
			Tile:       m.Tile,
			Survivor:   m.Survivor,
			Candidates: append([]string{}, m.Candidates...),
			Pending:    append([]string{}, m.Pending...),
			Current:    m.Current,
			Remaining:  append([]int{}, m.Remaining...),
			Maker:      m.Maker,
		}
	}
	return snap
}

// Restore 用快照重建会话，之后从 snap.Seq+1 继续应用事件
func Restore(snap *dto.Snapshot) *Session {
	s := &Session{
		RoomID: snap.RoomID,
		Board:  entities.NewBoard(),
		Market: &entities.StockMarket{BankShares: make(map[string]int)},
		Bag:    append([]string{}, snap.Bag...),
		Turn:   snap.Turn,
		Phase:  Phase(snap.Phase),
		Bought: snap.Bought,
		Seq:    snap.Seq,
		Over:   snap.Over,
	}
	for id, belong := range snap.Tiles {
		s.Board.SetBelong(id, belong)
	}
	for c, n := range snap.Bank {
		s.Market.BankShares[c] = n
	}
	for _, ps := range snap.Players {
		p := &entities.Player{
			Name:   ps.Name,
			Money:  ps.Money,
			Tiles:  append([]string{}, ps.Tiles...),
			Stocks: make(map[string]int),
		}
		for c, n := range ps.Stocks {
			p.Stocks[c] = n
		}
		s.Players = append(s.Players, p)
	}
	if sm := snap.Merger; sm != nil {
		s.Merger = &MergerState{
			Tile:       sm.Tile,
			Survivor:   sm.Survivor,
			Candidates: append([]string{}, sm.Candidates...),
			Pending:    append([]string{}, sm.Pending...),
			Current:    sm.Current,
			Remaining:  append([]int{}, sm.Remaining...),
			Maker:      sm.Maker,
		}
	}
	return s
}
