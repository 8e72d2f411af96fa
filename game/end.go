package game

import (
	"go-acquire/dto"
	"go-acquire/entities"
)

// 终局原因
const (
	EndReasonChainLimit  = "chainLimit"  // 有公司规模达到 41
	EndReasonAllSafe     = "allSafe"     // 在场公司全部安全且无新公司可创建
	EndReasonNoPlacement = "noPlacement" // 全场再无一块 tile 能放
)

// endgameEvents 终局结算：每家在场公司付红利，所有持股按现价兑现，
// 不在场公司的股票一文不值。最后按现金多少定胜负
func (s *Session) endgameEvents() []dto.Event {
	var events []dto.Event
	chains := s.Board.ActiveChains()

	for _, c := range chains {
		events = append(events, s.bonusEvents(c)...)
	}

	for _, p := range s.Players {
		for _, c := range chains {
			count := p.Stocks[c]
			if count == 0 {
				continue
			}
			price := entities.StockPrice(c, s.Board.ChainSize(c))
			events = append(events, dto.Event{
				Kind:    dto.EventStockSold,
				Player:  p.Name,
				Company: c,
				Count:   count,
				Amount:  price * count,
			})
		}
	}

	// 沿事件累计各家进账，算出最终现金
	final := make(map[string]int, len(s.Players))
	for _, p := range s.Players {
		final[p.Name] = p.Money
	}
	for _, evt := range events {
		final[evt.Player] += evt.Amount
	}

	best := 0
	for _, money := range final {
		if money > best {
			best = money
		}
	}
	var winners []string
	for _, p := range s.Players {
		if final[p.Name] == best {
			winners = append(winners, p.Name)
		}
	}

	reason := EndReasonNoPlacement
	allSafe := len(chains) > 0
	for _, c := range chains {
		if s.Board.ChainSize(c) < entities.SafeChainSize {
			allSafe = false
		}
	}
	if allSafe {
		reason = EndReasonAllSafe
	}
	for _, c := range chains {
		if s.Board.ChainSize(c) >= entities.EndChainSize {
			reason = EndReasonChainLimit
			break
		}
	}

	events = append(events, dto.Event{
		Kind:    dto.EventGameEnded,
		Reason:  reason,
		Winners: winners,
	})
	return events
}
