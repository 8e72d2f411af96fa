package game

import (
	"go-acquire/dto"
	"go-acquire/entities"
)

// Propose 校验一个操作并生成对应的事件批次，不修改任何状态。
// 返回的事件已按 Seq 连续编号，调用方确认后经 ApplyAll 落地。
func (s *Session) Propose(player, actionID string, act dto.Action) ([]dto.Event, error) {
	if s.Over {
		return nil, dto.RejectActionAfterGameOver
	}
	idx := s.PlayerIndex(player)
	if idx < 0 {
		return nil, dto.RejectMalformedMessage
	}

	var events []dto.Event
	var err error
	switch act.Kind {
	case dto.ActionPlaceTile:
		events, err = s.proposePlace(idx, act)
	case dto.ActionDiscardDeadTile:
		events, err = s.proposeDiscard(idx, act)
	case dto.ActionBuyStock:
		events, err = s.proposeBuy(idx, act)
	case dto.ActionSellStock:
		events, err = s.proposeSellStock(idx, act)
	case dto.ActionTradeStock:
		events, err = s.proposeTradeStock(idx, act)
	case dto.ActionChooseSurvivor:
		events, err = s.proposeChooseSurvivor(idx, act)
	case dto.ActionResolveShares:
		events, err = s.proposeResolveShares(idx, act)
	case dto.ActionEndTurn:
		events, err = s.proposeEndTurn(idx, act)
	default:
		return nil, dto.RejectMalformedMessage
	}
	if err != nil {
		return nil, err
	}
	return s.stamp(actionID, events), nil
}

func (s *Session) stamp(actionID string, events []dto.Event) []dto.Event {
	for i := range events {
		events[i].Seq = s.Seq + int64(i) + 1
		events[i].ActionID = actionID
	}
	return events
}

func (s *Session) proposePlace(idx int, act dto.Action) ([]dto.Event, error) {
	if idx != s.Turn {
		return nil, dto.RejectNotYourTurn
	}
	if s.Phase != PhaseAwaitPlacement {
		return nil, dto.RejectInvalidPhaseForAction
	}
	p := s.Players[idx]
	if !p.HasTile(act.Tile) {
		return nil, dto.RejectTileNotInHand
	}

	placement := s.Board.Classify(act.Tile)
	switch placement.Kind {
	case entities.PlacementIllegal:
		return nil, dto.RejectTileIllegalPlacement

	case entities.PlacementSingle:
		return []dto.Event{{
			Kind:   dto.EventTilePlaced,
			Player: p.Name,
			Tile:   act.Tile,
			Belong: entities.BelongBlank,
		}}, nil

	case entities.PlacementExtend:
		chain := placement.Chains[0]
		events := []dto.Event{{
			Kind:   dto.EventTilePlaced,
			Player: p.Name,
			Tile:   act.Tile,
			Belong: chain,
		}}
		// 落子连带吸收相邻的无主 tile 群
		var blanks []string
		for _, t := range s.Board.FoundingGroup(act.Tile) {
			if t != act.Tile {
				blanks = append(blanks, t)
			}
		}
		if len(blanks) > 0 {
			events = append(events, dto.Event{
				Kind:    dto.EventChainExtended,
				Company: chain,
				Tiles:   blanks,
			})
		}
		return events, nil

	case entities.PlacementFounding:
		return s.proposeFounding(idx, act)

	default: // PlacementMerger
		return s.proposeMerger(idx, act.Tile, placement.Chains)
	}
}

func (s *Session) proposeFounding(idx int, act dto.Action) ([]dto.Event, error) {
	p := s.Players[idx]
	active := s.Board.ActiveChains()
	if len(active) == len(entities.CompanyOrder) {
		// 七家公司都在场，无法创建新公司，此 tile 暂时不可放
		return nil, dto.RejectNoCompanyIdentityAvailable
	}
	if !entities.IsCompany(act.Company) {
		return nil, dto.RejectMalformedMessage
	}
	for _, c := range active {
		if c == act.Company {
			return nil, dto.RejectNoCompanyIdentityAvailable
		}
	}

	return []dto.Event{
		{
			Kind:   dto.EventTilePlaced,
			Player: p.Name,
			Tile:   act.Tile,
			Belong: entities.BelongBlank,
		},
		{
			Kind:      dto.EventCompanyFounded,
			Player:    p.Name,
			Company:   act.Company,
			Tiles:     s.Board.FoundingGroup(act.Tile),
			FreeShare: s.Market.BankShares[act.Company] > 0,
		},
	}, nil
}

func (s *Session) proposeDiscard(idx int, act dto.Action) ([]dto.Event, error) {
	if idx != s.Turn {
		return nil, dto.RejectNotYourTurn
	}
	if s.Phase != PhaseAwaitPlacement {
		return nil, dto.RejectInvalidPhaseForAction
	}
	p := s.Players[idx]
	if !p.HasTile(act.Tile) {
		return nil, dto.RejectTileNotInHand
	}
	if !s.Board.DeadTile(act.Tile) {
		return nil, dto.RejectTileIllegalPlacement
	}

	events := []dto.Event{{
		Kind:   dto.EventTileDiscarded,
		Player: p.Name,
		Tile:   act.Tile,
	}}
	if len(s.Bag) > 0 {
		events = append(events, dto.Event{
			Kind:   dto.EventTileDrawn,
			Player: p.Name,
			Tile:   s.Bag[0],
		})
	}
	return events, nil
}

func (s *Session) proposeBuy(idx int, act dto.Action) ([]dto.Event, error) {
	if idx != s.Turn {
		return nil, dto.RejectNotYourTurn
	}
	if s.Phase != PhaseAwaitPurchase {
		return nil, dto.RejectInvalidPhaseForAction
	}
	if !entities.IsCompany(act.Company) || act.Count < 1 {
		return nil, dto.RejectMalformedMessage
	}
	size := s.Board.ChainSize(act.Company)
	if size < 2 {
		// 公司不在场，股票不可交易
		return nil, dto.RejectInvalidPhaseForAction
	}
	if s.Bought+act.Count > entities.BuyLimitPerTurn {
		return nil, dto.RejectInvalidPhaseForAction
	}
	if s.Market.BankShares[act.Company] < act.Count {
		return nil, dto.RejectInsufficientBankShares
	}
	p := s.Players[idx]
	amount := entities.StockPrice(act.Company, size) * act.Count
	if p.Money < amount {
		return nil, dto.RejectInsufficientFunds
	}

	return []dto.Event{{
		Kind:    dto.EventStockBought,
		Player:  p.Name,
		Company: act.Company,
		Count:   act.Count,
		Amount:  amount,
	}}, nil
}

func (s *Session) proposeEndTurn(idx int, act dto.Action) ([]dto.Event, error) {
	if idx != s.Turn {
		return nil, dto.RejectNotYourTurn
	}
	switch s.Phase {
	case PhaseAwaitPurchase:
	case PhaseAwaitPlacement:
		// 只有手里没有任何可放的 tile 时才允许直接结束回合
		if s.hasPlayableTile(idx) {
			return nil, dto.RejectInvalidPhaseForAction
		}
	default:
		return nil, dto.RejectInvalidPhaseForAction
	}

	if act.Declare {
		if !s.EndConditionMet() {
			return nil, dto.RejectInvalidPhaseForAction
		}
		return s.endgameEvents(), nil
	}

	// 全场（各家手牌加牌堆）都放不出一块 tile 时，换人也无济于事，直接终局
	if s.noPlacementLeft() {
		return s.endgameEvents(), nil
	}

	p := s.Players[idx]
	var events []dto.Event
	need := entities.HandSize - len(p.Tiles)
	for i := 0; i < need && i < len(s.Bag); i++ {
		events = append(events, dto.Event{
			Kind:   dto.EventTileDrawn,
			Player: p.Name,
			Tile:   s.Bag[i],
		})
	}
	next := (s.Turn + 1) % len(s.Players)
	events = append(events, dto.Event{
		Kind:   dto.EventTurnAdvanced,
		Player: s.Players[next].Name,
		Phase:  string(PhaseAwaitPlacement),
	})
	return events, nil
}

// playableTile 该 tile 当前能否合法放置。永久废牌不行；
// 会创建公司的落点在七家满员时也不行
func (s *Session) playableTile(tile string) bool {
	switch s.Board.Classify(tile).Kind {
	case entities.PlacementIllegal:
		return false
	case entities.PlacementFounding:
		return len(s.Board.ActiveChains()) < len(entities.CompanyOrder)
	}
	return true
}

// hasPlayableTile 手里是否还有当前可以合法放置的 tile
func (s *Session) hasPlayableTile(idx int) bool {
	for _, t := range s.Players[idx].Tiles {
		if s.playableTile(t) {
			return true
		}
	}
	return false
}

// noPlacementLeft 各家手牌连同牌堆里再没有任何能放的 tile
func (s *Session) noPlacementLeft() bool {
	for _, p := range s.Players {
		for _, t := range p.Tiles {
			if s.playableTile(t) {
				return false
			}
		}
	}
	for _, t := range s.Bag {
		if s.playableTile(t) {
			return false
		}
	}
	return true
}

// foundingPossible 还有公司名可用，且剩余 tile 中存在会创建公司的落点
func (s *Session) foundingPossible() bool {
	if len(s.Board.ActiveChains()) == len(entities.CompanyOrder) {
		return false
	}
	for _, p := range s.Players {
		for _, t := range p.Tiles {
			if s.Board.Classify(t).Kind == entities.PlacementFounding {
				return true
			}
		}
	}
	for _, t := range s.Bag {
		if s.Board.Classify(t).Kind == entities.PlacementFounding {
			return true
		}
	}
	return false
}

// EndConditionMet 终局条件：任一公司规模达到 41；在场公司全部安全
// 且没有新公司可创建；或全场再无一块 tile 能放
func (s *Session) EndConditionMet() bool {
	chains := s.Board.ActiveChains()
	allSafe := len(chains) > 0
	for _, c := range chains {
		size := s.Board.ChainSize(c)
		if size >= entities.EndChainSize {
			return true
		}
		if size < entities.SafeChainSize {
			allSafe = false
		}
	}
	if allSafe && !s.foundingPossible() {
		return true
	}
	return s.noPlacementLeft()
}
