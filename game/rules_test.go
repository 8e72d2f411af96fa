package game

import (
	"fmt"
	"testing"

	"go-acquire/dto"
	"go-acquire/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(t *testing.T, names ...string) *Session {
	t.Helper()
	if len(names) == 0 {
		names = []string{"alice", "bob"}
	}
	return NewSession("room1", names, 1)
}

// mustApply 提交操作并立即落地，返回事件批次
func mustApply(t *testing.T, s *Session, player string, act dto.Action) []dto.Event {
	t.Helper()
	events, err := s.Propose(player, "a1", act)
	require.NoError(t, err)
	require.NoError(t, s.ApplyAll(events))
	return events
}

func setChain(s *Session, company string, tiles ...string) {
	for _, tile := range tiles {
		s.Board.SetBelong(tile, company)
	}
}

func giveTile(s *Session, idx int, tile string) {
	s.Players[idx].Tiles = append(s.Players[idx].Tiles, tile)
}

func TestNewSession(t *testing.T) {
	s := testSession(t)
	require.Len(t, s.Players, 2)
	for _, p := range s.Players {
		assert.Equal(t, entities.StartMoney, p.Money)
		assert.Len(t, p.Tiles, entities.HandSize)
	}
	assert.Len(t, s.Bag, 108-2*entities.HandSize)
	assert.Equal(t, PhaseAwaitPlacement, s.Phase)
	assert.Equal(t, 0, s.Turn)
}

func TestPlaceSingleTile(t *testing.T) {
	s := testSession(t)
	tile := s.Players[0].Tiles[0]

	events := mustApply(t, s, "alice", dto.Action{Kind: dto.ActionPlaceTile, Tile: tile})
	require.Len(t, events, 1)
	assert.Equal(t, dto.EventTilePlaced, events[0].Kind)
	assert.Equal(t, int64(1), events[0].Seq)
	assert.Equal(t, entities.BelongBlank, events[0].Belong)

	assert.Equal(t, entities.BelongBlank, s.Board.Belong(tile))
	assert.False(t, s.Players[0].HasTile(tile))
	assert.Equal(t, PhaseAwaitPurchase, s.Phase)
}

func TestPlaceRejections(t *testing.T) {
	s := testSession(t)
	tile := s.Players[0].Tiles[0]

	// 不是自己的回合
	_, err := s.Propose("bob", "a1", dto.Action{Kind: dto.ActionPlaceTile, Tile: s.Players[1].Tiles[0]})
	assert.ErrorIs(t, err, dto.RejectNotYourTurn)

	// tile 不在手里
	_, err = s.Propose("alice", "a1", dto.Action{Kind: dto.ActionPlaceTile, Tile: s.Players[1].Tiles[0]})
	assert.ErrorIs(t, err, dto.RejectTileNotInHand)

	// 阶段不对
	mustApply(t, s, "alice", dto.Action{Kind: dto.ActionPlaceTile, Tile: tile})
	_, err = s.Propose("alice", "a1", dto.Action{Kind: dto.ActionPlaceTile, Tile: s.Players[0].Tiles[0]})
	assert.ErrorIs(t, err, dto.RejectInvalidPhaseForAction)
}

func TestOutOfTurnBeatsWrongPhase(t *testing.T) {
	s := testSession(t)
	mustApply(t, s, "alice", dto.Action{Kind: dto.ActionPlaceTile, Tile: s.Players[0].Tiles[0]})
	require.Equal(t, PhaseAwaitPurchase, s.Phase)

	// alice 在购股阶段时 bob 抢放、抢弃、抢买，一律按不是你的回合拒绝
	_, err := s.Propose("bob", "a1", dto.Action{Kind: dto.ActionPlaceTile, Tile: s.Players[1].Tiles[0]})
	assert.ErrorIs(t, err, dto.RejectNotYourTurn)

	_, err = s.Propose("bob", "a1", dto.Action{Kind: dto.ActionDiscardDeadTile, Tile: s.Players[1].Tiles[0]})
	assert.ErrorIs(t, err, dto.RejectNotYourTurn)

	// 回到 bob 的放置阶段后，alice 抢买同样先按回合拒绝
	mustApply(t, s, "alice", dto.Action{Kind: dto.ActionEndTurn})
	require.Equal(t, PhaseAwaitPlacement, s.Phase)
	require.Equal(t, 1, s.Turn)
	_, err = s.Propose("alice", "a1", dto.Action{Kind: dto.ActionBuyStock, Company: "Sackson", Count: 1})
	assert.ErrorIs(t, err, dto.RejectNotYourTurn)
}

func TestFoundCompany(t *testing.T) {
	s := testSession(t)
	setChain(s, entities.BelongBlank, "1A")
	giveTile(s, 0, "2A")

	events := mustApply(t, s, "alice", dto.Action{
		Kind: dto.ActionPlaceTile, Tile: "2A", Company: "Sackson",
	})
	require.Len(t, events, 2)
	assert.Equal(t, dto.EventCompanyFounded, events[1].Kind)
	assert.Equal(t, []string{"1A", "2A"}, events[1].Tiles)
	assert.True(t, events[1].FreeShare)

	// 创始人得一股赠股
	assert.Equal(t, "Sackson", s.Board.Belong("1A"))
	assert.Equal(t, "Sackson", s.Board.Belong("2A"))
	assert.Equal(t, 1, s.Players[0].Stocks["Sackson"])
	assert.Equal(t, 24, s.Market.BankShares["Sackson"])
}

func TestFoundCompanyNameTaken(t *testing.T) {
	s := testSession(t)
	setChain(s, "Tower", "5E", "6E")
	setChain(s, entities.BelongBlank, "1A")
	giveTile(s, 0, "2A")

	// 在场公司不能再被创建
	_, err := s.Propose("alice", "a1", dto.Action{Kind: dto.ActionPlaceTile, Tile: "2A", Company: "Tower"})
	assert.ErrorIs(t, err, dto.RejectNoCompanyIdentityAvailable)

	// 名字乱写按消息格式错误处理
	_, err = s.Propose("alice", "a1", dto.Action{Kind: dto.ActionPlaceTile, Tile: "2A", Company: "Nonsense"})
	assert.ErrorIs(t, err, dto.RejectMalformedMessage)
}

func TestFoundCompanyAllSevenActive(t *testing.T) {
	s := testSession(t)
	// 七家公司都在场，A、C 两行各摆几对，彼此隔开
	for i, c := range entities.CompanyOrder {
		col := (i%4)*3 + 1
		row := 'A' + rune(i/4)*2
		setChain(s, c, fmt.Sprintf("%d%c", col, row), fmt.Sprintf("%d%c", col+1, row))
	}
	setChain(s, entities.BelongBlank, "1I")
	giveTile(s, 0, "2I")

	_, err := s.Propose("alice", "a1", dto.Action{Kind: dto.ActionPlaceTile, Tile: "2I", Company: "Sackson"})
	assert.ErrorIs(t, err, dto.RejectNoCompanyIdentityAvailable)
}

func TestExtendChain(t *testing.T) {
	s := testSession(t)
	setChain(s, "Tower", "1A", "2A")
	setChain(s, entities.BelongBlank, "3B")
	giveTile(s, 0, "3A")

	events := mustApply(t, s, "alice", dto.Action{Kind: dto.ActionPlaceTile, Tile: "3A"})
	require.Len(t, events, 2)
	assert.Equal(t, dto.EventChainExtended, events[1].Kind)
	assert.Equal(t, []string{"3B"}, events[1].Tiles)

	// 落子和相邻的无主 tile 一起并入
	assert.Equal(t, "Tower", s.Board.Belong("3A"))
	assert.Equal(t, "Tower", s.Board.Belong("3B"))
	assert.Equal(t, 4, s.Board.ChainSize("Tower"))
}

func TestPlaceDeadTileRejected(t *testing.T) {
	s := testSession(t)
	for col := 1; col <= 11; col++ {
		setChain(s, "Sackson", fmt.Sprintf("%dA", col))
		setChain(s, "Tower", fmt.Sprintf("%dC", col))
	}
	giveTile(s, 0, "1B")

	_, err := s.Propose("alice", "a1", dto.Action{Kind: dto.ActionPlaceTile, Tile: "1B"})
	assert.ErrorIs(t, err, dto.RejectTileIllegalPlacement)

	// 永久废牌可以弃掉并补一块
	bagTop := s.Bag[0]
	events := mustApply(t, s, "alice", dto.Action{Kind: dto.ActionDiscardDeadTile, Tile: "1B"})
	require.Len(t, events, 2)
	assert.Equal(t, dto.EventTileDiscarded, events[0].Kind)
	assert.Equal(t, dto.EventTileDrawn, events[1].Kind)
	assert.Equal(t, bagTop, events[1].Tile)

	assert.False(t, s.Players[0].HasTile("1B"))
	assert.True(t, s.Players[0].HasTile(bagTop))
	assert.Equal(t, PhaseAwaitPlacement, s.Phase)
}

func TestDiscardLiveTileRejected(t *testing.T) {
	s := testSession(t)
	tile := s.Players[0].Tiles[0]
	_, err := s.Propose("alice", "a1", dto.Action{Kind: dto.ActionDiscardDeadTile, Tile: tile})
	assert.ErrorIs(t, err, dto.RejectTileIllegalPlacement)
}

func TestBuyStock(t *testing.T) {
	s := testSession(t)
	setChain(s, "Continental", "1A", "2A", "3A")
	s.Phase = PhaseAwaitPurchase

	events := mustApply(t, s, "alice", dto.Action{Kind: dto.ActionBuyStock, Company: "Continental", Count: 2})
	require.Len(t, events, 1)
	// 高档公司规模 3 股价 500
	assert.Equal(t, 1000, events[0].Amount)

	assert.Equal(t, entities.StartMoney-1000, s.Players[0].Money)
	assert.Equal(t, 2, s.Players[0].Stocks["Continental"])
	assert.Equal(t, 23, s.Market.BankShares["Continental"])
	assert.Equal(t, 2, s.Bought)
}

func TestBuyStockRejections(t *testing.T) {
	s := testSession(t)
	setChain(s, "Sackson", "1A", "2A")
	s.Phase = PhaseAwaitPurchase

	// 不在场的公司买不了
	_, err := s.Propose("alice", "a1", dto.Action{Kind: dto.ActionBuyStock, Company: "Tower", Count: 1})
	assert.ErrorIs(t, err, dto.RejectInvalidPhaseForAction)

	// 超过每回合 3 股上限
	_, err = s.Propose("alice", "a1", dto.Action{Kind: dto.ActionBuyStock, Company: "Sackson", Count: 4})
	assert.ErrorIs(t, err, dto.RejectInvalidPhaseForAction)

	// 银行存量不足
	s.Market.BankShares["Sackson"] = 1
	_, err = s.Propose("alice", "a1", dto.Action{Kind: dto.ActionBuyStock, Company: "Sackson", Count: 2})
	assert.ErrorIs(t, err, dto.RejectInsufficientBankShares)

	// 钱不够
	s.Market.BankShares["Sackson"] = 25
	s.Players[0].Money = 100
	_, err = s.Propose("alice", "a1", dto.Action{Kind: dto.ActionBuyStock, Company: "Sackson", Count: 1})
	assert.ErrorIs(t, err, dto.RejectInsufficientFunds)
}

func TestBuyLimitAcrossPurchases(t *testing.T) {
	s := testSession(t)
	setChain(s, "Sackson", "1A", "2A")
	s.Phase = PhaseAwaitPurchase

	mustApply(t, s, "alice", dto.Action{Kind: dto.ActionBuyStock, Company: "Sackson", Count: 2})
	mustApply(t, s, "alice", dto.Action{Kind: dto.ActionBuyStock, Company: "Sackson", Count: 1})

	_, err := s.Propose("alice", "a1", dto.Action{Kind: dto.ActionBuyStock, Company: "Sackson", Count: 1})
	assert.ErrorIs(t, err, dto.RejectInvalidPhaseForAction)
}

func TestEndTurn(t *testing.T) {
	s := testSession(t)
	tile := s.Players[0].Tiles[0]
	mustApply(t, s, "alice", dto.Action{Kind: dto.ActionPlaceTile, Tile: tile})

	events := mustApply(t, s, "alice", dto.Action{Kind: dto.ActionEndTurn})
	require.Len(t, events, 2)
	assert.Equal(t, dto.EventTileDrawn, events[0].Kind)
	assert.Equal(t, dto.EventTurnAdvanced, events[1].Kind)
	assert.Equal(t, "bob", events[1].Player)

	// 手牌补回 6 张，轮到下家，购股计数清零
	assert.Len(t, s.Players[0].Tiles, entities.HandSize)
	assert.Equal(t, 1, s.Turn)
	assert.Equal(t, PhaseAwaitPlacement, s.Phase)
	assert.Equal(t, 0, s.Bought)
}

func TestEndTurnWithoutPlacingRejected(t *testing.T) {
	s := testSession(t)
	_, err := s.Propose("alice", "a1", dto.Action{Kind: dto.ActionEndTurn})
	assert.ErrorIs(t, err, dto.RejectInvalidPhaseForAction)
}

func TestEndTurnWhenNoTilePlayable(t *testing.T) {
	s := testSession(t)
	for col := 1; col <= 11; col++ {
		setChain(s, "Sackson", fmt.Sprintf("%dA", col))
		setChain(s, "Tower", fmt.Sprintf("%dC", col))
	}
	// 手里全是废牌时允许直接结束回合
	s.Players[0].Tiles = []string{"1B", "2B", "3B", "4B", "5B", "6B"}

	events := mustApply(t, s, "alice", dto.Action{Kind: dto.ActionEndTurn})
	assert.Equal(t, dto.EventTurnAdvanced, events[len(events)-1].Kind)
}

func TestActionAfterGameOver(t *testing.T) {
	s := testSession(t)
	s.Over = true
	_, err := s.Propose("alice", "a1", dto.Action{Kind: dto.ActionEndTurn})
	assert.ErrorIs(t, err, dto.RejectActionAfterGameOver)
}

func TestDeclareEndgame(t *testing.T) {
	s := testSession(t)
	// 在场公司全部安全即可宣布终局
	tiles := make([]string, 0, 11)
	for col := 1; col <= 11; col++ {
		tiles = append(tiles, fmt.Sprintf("%dA", col))
	}
	setChain(s, "Sackson", tiles...)
	s.Players[0].Stocks["Sackson"] = 2
	s.Players[1].Stocks["Sackson"] = 1
	s.Market.BankShares["Sackson"] = 22
	s.Phase = PhaseAwaitPurchase

	require.True(t, s.EndConditionMet())
	events := mustApply(t, s, "alice", dto.Action{Kind: dto.ActionEndTurn, Declare: true})

	last := events[len(events)-1]
	require.Equal(t, dto.EventGameEnded, last.Kind)
	assert.Equal(t, EndReasonAllSafe, last.Reason)
	assert.Equal(t, []string{"alice"}, last.Winners)

	// 规模 11 股价 700：alice 大红利 7000 + 卖股 1400，bob 小红利 3500 + 卖股 700
	assert.Equal(t, entities.StartMoney+7000+1400, s.Players[0].Money)
	assert.Equal(t, entities.StartMoney+3500+700, s.Players[1].Money)
	assert.True(t, s.Over)
	assert.Equal(t, PhaseGameOver, s.Phase)

	// 股票全部回到银行
	assert.Equal(t, entities.SharesPerCompany, s.Market.BankShares["Sackson"])
}

func TestDeclareEndgameTooEarly(t *testing.T) {
	s := testSession(t)
	setChain(s, "Sackson", "1A", "2A")
	s.Phase = PhaseAwaitPurchase

	_, err := s.Propose("alice", "a1", dto.Action{Kind: dto.ActionEndTurn, Declare: true})
	assert.ErrorIs(t, err, dto.RejectInvalidPhaseForAction)
}

func TestEndsWhenNoPlacementLeft(t *testing.T) {
	s := testSession(t)
	for col := 1; col <= 11; col++ {
		setChain(s, "Sackson", fmt.Sprintf("%dA", col))
		setChain(s, "Tower", fmt.Sprintf("%dC", col))
	}
	// American 还不安全，够不上主动宣布的条件
	setChain(s, "American", "1I", "2I")
	s.Players[0].Stocks["American"] = 1
	s.Market.BankShares["American"] = 24

	// 牌堆见底，两边手里全是废牌：换人也放不出任何 tile
	s.Players[0].Tiles = []string{"1B", "2B", "3B"}
	s.Players[1].Tiles = []string{"4B", "5B", "6B"}
	s.Bag = nil

	require.True(t, s.EndConditionMet())
	events := mustApply(t, s, "alice", dto.Action{Kind: dto.ActionEndTurn})

	last := events[len(events)-1]
	require.Equal(t, dto.EventGameEnded, last.Kind)
	assert.Equal(t, EndReasonNoPlacement, last.Reason)
	assert.Equal(t, []string{"alice"}, last.Winners)
	assert.True(t, s.Over)
	assert.Equal(t, PhaseGameOver, s.Phase)
}

func TestDeclareBlockedWhileFoundingPossible(t *testing.T) {
	s := testSession(t)
	var tiles []string
	for col := 1; col <= 11; col++ {
		tiles = append(tiles, fmt.Sprintf("%dA", col))
	}
	setChain(s, "Sackson", tiles...)
	// 盘面上有无主 tile，剩余 tile 里必然还有能创建公司的落点
	setChain(s, entities.BelongBlank, "5E")
	s.Phase = PhaseAwaitPurchase

	require.False(t, s.EndConditionMet())
	_, err := s.Propose("alice", "a1", dto.Action{Kind: dto.ActionEndTurn, Declare: true})
	assert.ErrorIs(t, err, dto.RejectInvalidPhaseForAction)
}

func TestEndConditionChainLimit(t *testing.T) {
	s := testSession(t)
	var tiles []string
	for col := 1; col <= 12; col++ {
		for _, row := range []rune{'A', 'B', 'C', 'D'} {
			tiles = append(tiles, fmt.Sprintf("%d%c", col, row))
		}
	}
	setChain(s, "Imperial", tiles[:41]...)
	// 另一家公司还不安全也不妨碍
	setChain(s, "Sackson", "1I", "2I")

	assert.True(t, s.EndConditionMet())
}
