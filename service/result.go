package service

import (
	"go-acquire/dto"
	"go-acquire/game"
	"go-acquire/repository"
	"go-acquire/utils"
)

// SaveResult 终局回调：把各家最终现金与胜负写入战绩库
func SaveResult(s *game.Session) {
	var winners []string
	for i := len(s.Log) - 1; i >= 0; i-- {
		if s.Log[i].Kind == dto.EventGameEnded {
			winners = s.Log[i].Winners
			break
		}
	}
	isWinner := make(map[string]bool, len(winners))
	for _, w := range winners {
		isWinner[w] = true
	}

	results := make([]dto.GameResult, 0, len(s.Players))
	for _, p := range s.Players {
		results = append(results, dto.GameResult{
			RoomID:   s.RoomID,
			Player:   p.Name,
			Money:    p.Money,
			IsWinner: isWinner[p.Name],
		})
	}

	if err := repository.SaveGameResults(results); err != nil {
		utils.Log.Errorf("❌ 房间 %s 战绩落库失败: %v", s.RoomID, err)
		return
	}
	utils.Log.Infof("✅ 房间 %s 战绩已落库，胜者 %v", s.RoomID, winners)
}

// ListResults 查询历史战绩
func ListResults(roomID string, limit int) ([]dto.GameResult, error) {
	return repository.ListGameResults(roomID, limit)
}
