package game

import (
	"go-acquire/dto"
	"go-acquire/entities"
	"go-acquire/utils"
)

// proposeMerger 落子触发合并。规模并列最大时先等落子者挑选幸存公司，
// 否则立即付红利并进入清算
func (s *Session) proposeMerger(idx int, tile string, chains []string) ([]dto.Event, error) {
	p := s.Players[idx]
	events := []dto.Event{{
		Kind:   dto.EventTilePlaced,
		Player: p.Name,
		Tile:   tile,
		Belong: entities.BelongBlank,
	}}

	top := s.Board.ChainSize(chains[0])
	tied := 0
	for _, c := range chains {
		if s.Board.ChainSize(c) == top {
			tied++
		}
	}
	if tied > 1 {
		events = append(events, dto.Event{
			Kind:   dto.EventMergerStarted,
			Player: p.Name,
			Tile:   tile,
		})
		return events, nil
	}

	survivor := chains[0]
	defunct := chains[1:]
	events = append(events, dto.Event{
		Kind:     dto.EventMergerStarted,
		Player:   p.Name,
		Tile:     tile,
		Survivor: survivor,
		Defunct:  defunct,
	})
	events = append(events, s.mergerOpening(tile, survivor, defunct, idx)...)
	return events, nil
}

func (s *Session) proposeChooseSurvivor(idx int, act dto.Action) ([]dto.Event, error) {
	if s.Phase != PhaseAwaitSurvivorChoice {
		return nil, dto.RejectInvalidPhaseForAction
	}
	m := s.Merger
	if idx != m.Maker {
		return nil, dto.RejectNotYourTurn
	}
	if !utils.StringInSlice(act.Company, m.Candidates) {
		return nil, dto.RejectInvalidMergerChoice
	}

	var defunct []string
	for _, c := range s.Board.NeighborChains(m.Tile) {
		if c != act.Company {
			defunct = append(defunct, c)
		}
	}
	events := []dto.Event{{
		Kind:    dto.EventMergerSurvivorChosen,
		Player:  s.Players[idx].Name,
		Company: act.Company,
	}}
	events = append(events, s.mergerOpening(m.Tile, act.Company, defunct, m.Maker)...)
	return events, nil
}

func (s *Session) proposeResolveShares(idx int, act dto.Action) ([]dto.Event, error) {
	if s.Phase != PhaseAwaitMergerDecision {
		return nil, dto.RejectInvalidPhaseForAction
	}
	m := s.Merger
	if len(m.Remaining) == 0 || idx != m.Remaining[0] {
		return nil, dto.RejectNotYourTurn
	}
	p := s.Players[idx]
	holding := p.Stocks[m.Current]
	if act.Sell < 0 || act.Trade < 0 || act.Keep < 0 {
		return nil, dto.RejectInvalidMergerChoice
	}
	if act.Sell+act.Trade+act.Keep != holding {
		return nil, dto.RejectInvalidMergerChoice
	}
	if act.Trade%2 != 0 {
		return nil, dto.RejectInvalidMergerChoice
	}
	if act.Trade/2 > s.Market.BankShares[m.Survivor] {
		return nil, dto.RejectInsufficientBankShares
	}

	var events []dto.Event
	price := entities.StockPrice(m.Current, s.Board.ChainSize(m.Current))
	if act.Sell > 0 {
		events = append(events, dto.Event{
			Kind:    dto.EventStockSold,
			Player:  p.Name,
			Company: m.Current,
			Count:   act.Sell,
			Amount:  price * act.Sell,
		})
	}
	if act.Trade > 0 {
		events = append(events, dto.Event{
			Kind:     dto.EventStockTraded,
			Player:   p.Name,
			Company:  m.Current,
			Survivor: m.Survivor,
			Give:     act.Trade,
			Get:      act.Trade / 2,
		})
	}
	// 表态一律以 share_kept 收尾，副本据此推进清算顺位
	events = append(events, dto.Event{
		Kind:    dto.EventShareKept,
		Player:  p.Name,
		Company: m.Current,
		Count:   act.Keep,
	})

	if len(m.Remaining) == 1 {
		// 本公司清算完毕，易主并继续后面的公司
		events = append(events, dto.Event{
			Kind:     dto.EventCompanyAbsorbed,
			Company:  m.Current,
			Survivor: m.Survivor,
			Tiles:    s.Board.ChainTiles(m.Current),
		})
		events = append(events, s.absorbCascade(m.Tile, m.Survivor, m.Pending, m.Maker)...)
	}
	return events, nil
}

// proposeSellStock 清算中的单步卖出。不收尾也不推进顺位，
// 本轮表态仍由 resolve_merger_share 的 share_kept 结束
func (s *Session) proposeSellStock(idx int, act dto.Action) ([]dto.Event, error) {
	if s.Phase != PhaseAwaitMergerDecision {
		return nil, dto.RejectInvalidPhaseForAction
	}
	m := s.Merger
	if len(m.Remaining) == 0 || idx != m.Remaining[0] {
		return nil, dto.RejectNotYourTurn
	}
	p := s.Players[idx]
	if act.Count < 1 || act.Count > p.Stocks[m.Current] {
		return nil, dto.RejectInvalidMergerChoice
	}

	price := entities.StockPrice(m.Current, s.Board.ChainSize(m.Current))
	return []dto.Event{{
		Kind:    dto.EventStockSold,
		Player:  p.Name,
		Company: m.Current,
		Count:   act.Count,
		Amount:  price * act.Count,
	}}, nil
}

// proposeTradeStock 清算中的单步换股，2 股被吞方换 1 股幸存方
func (s *Session) proposeTradeStock(idx int, act dto.Action) ([]dto.Event, error) {
	if s.Phase != PhaseAwaitMergerDecision {
		return nil, dto.RejectInvalidPhaseForAction
	}
	m := s.Merger
	if len(m.Remaining) == 0 || idx != m.Remaining[0] {
		return nil, dto.RejectNotYourTurn
	}
	p := s.Players[idx]
	if act.Count < 2 || act.Count%2 != 0 || act.Count > p.Stocks[m.Current] {
		return nil, dto.RejectInvalidMergerChoice
	}
	if act.Count/2 > s.Market.BankShares[m.Survivor] {
		return nil, dto.RejectInsufficientBankShares
	}

	return []dto.Event{{
		Kind:     dto.EventStockTraded,
		Player:   p.Name,
		Company:  m.Current,
		Survivor: m.Survivor,
		Give:     act.Count,
		Get:      act.Count / 2,
	}}, nil
}

// mergerOpening 合并开局：为每家被吞公司付红利，再跳过无人持股的公司
func (s *Session) mergerOpening(tile, survivor string, defunct []string, maker int) []dto.Event {
	var events []dto.Event
	for _, c := range defunct {
		events = append(events, s.bonusEvents(c)...)
	}
	events = append(events, s.absorbCascade(tile, survivor, defunct, maker)...)
	return events
}

// absorbCascade 依次吞掉队列中无人持股的公司；队列清空则合并完结，
// 触发合并的落子连同相邻无主 tile 一并归入幸存公司
func (s *Session) absorbCascade(tile, survivor string, queue []string, maker int) []dto.Event {
	var events []dto.Event
	i := 0
	for ; i < len(queue); i++ {
		if len(s.holdersFrom(queue[i], maker)) > 0 {
			break
		}
		events = append(events, dto.Event{
			Kind:     dto.EventCompanyAbsorbed,
			Company:  queue[i],
			Survivor: survivor,
			Tiles:    s.Board.ChainTiles(queue[i]),
		})
	}
	if i == len(queue) {
		events = append(events, dto.Event{
			Kind:     dto.EventMergerFinished,
			Survivor: survivor,
			Tiles:    s.Board.FoundingGroup(tile),
		})
	}
	return events
}

// bonusEvents 结算一家公司的大小股东红利。
// 第一并列时两笔红利合并均分，第二并列时均分小红利，均向上取整到百位；
// 只有一名股东时独得两笔
func (s *Session) bonusEvents(company string) []dto.Event {
	size := s.Board.ChainSize(company)
	majority := entities.MajorityBonus(company, size)
	minority := entities.MinorityBonus(company, size)

	topCount := 0
	for _, p := range s.Players {
		if p.Stocks[company] > topCount {
			topCount = p.Stocks[company]
		}
	}
	if topCount == 0 {
		return nil
	}
	secondCount := 0
	for _, p := range s.Players {
		if n := p.Stocks[company]; n < topCount && n > secondCount {
			secondCount = n
		}
	}

	var top, second []int
	for i, p := range s.Players {
		switch p.Stocks[company] {
		case topCount:
			top = append(top, i)
		case secondCount:
			if secondCount > 0 {
				second = append(second, i)
			}
		}
	}

	var events []dto.Event
	pay := func(idx, amount int, rank string) {
		events = append(events, dto.Event{
			Kind:    dto.EventBonusPaid,
			Player:  s.Players[idx].Name,
			Company: company,
			Amount:  amount,
			Rank:    rank,
		})
	}

	if len(top) > 1 {
		share := roundUp100((majority + minority + len(top) - 1) / len(top))
		for _, idx := range top {
			pay(idx, share, dto.RankMajority)
		}
		return events
	}

	pay(top[0], majority, dto.RankMajority)
	switch {
	case len(second) == 0:
		// 唯一股东独得两笔红利
		pay(top[0], minority, dto.RankMinority)
	case len(second) == 1:
		pay(second[0], minority, dto.RankMinority)
	default:
		share := roundUp100((minority + len(second) - 1) / len(second))
		for _, idx := range second {
			pay(idx, share, dto.RankMinority)
		}
	}
	return events
}

func roundUp100(x int) int {
	return (x + 99) / 100 * 100
}
