package repository

import (
	"database/sql"
	"fmt"

	"go-acquire/dto"
	"go-acquire/utils"

	_ "github.com/go-sql-driver/mysql"
)

var DB *sql.DB

const createResultsTable = `
CREATE TABLE IF NOT EXISTS game_results (
	id        BIGINT AUTO_INCREMENT PRIMARY KEY,
	room_id   VARCHAR(32)  NOT NULL,
	player    VARCHAR(64)  NOT NULL,
	money     INT          NOT NULL,
	is_winner TINYINT(1)   NOT NULL,
	ended_at  TIMESTAMP    DEFAULT CURRENT_TIMESTAMP,
	INDEX idx_room (room_id)
)`

// InitMySQL 初始化战绩库。dsn 为空时跳过，终局只落日志
func InitMySQL(dsn string) {
	if dsn == "" {
		utils.Log.Warnf("⚠️ 未配置 MySQL，终局战绩不落库")
		return
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		utils.Log.Fatalf("❌ MySQL 打开失败: %v", err)
	}
	if err := db.Ping(); err != nil {
		utils.Log.Fatalf("❌ MySQL 连接失败: %v", err)
	}
	if _, err := db.Exec(createResultsTable); err != nil {
		utils.Log.Fatalf("❌ 初始化 game_results 表失败: %v", err)
	}
	DB = db
	utils.Log.Infof("✅ MySQL 连接成功")
}

// SaveGameResults 一局的战绩整批写入，同一事务
func SaveGameResults(results []dto.GameResult) error {
	if DB == nil {
		return nil
	}
	tx, err := DB.Begin()
	if err != nil {
		return fmt.Errorf("开启事务失败: %w", err)
	}
	stmt, err := tx.Prepare("INSERT INTO game_results (room_id, player, money, is_winner) VALUES (?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("预编译插入失败: %w", err)
	}
	defer stmt.Close()

	for _, r := range results {
		if _, err := stmt.Exec(r.RoomID, r.Player, r.Money, r.IsWinner); err != nil {
			tx.Rollback()
			return fmt.Errorf("写入战绩失败: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("提交战绩失败: %w", err)
	}
	return nil
}

// ListGameResults 查询历史战绩，最近的在前。roomID 为空时不过滤
func ListGameResults(roomID string, limit int) ([]dto.GameResult, error) {
	if DB == nil {
		return nil, nil
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	query := "SELECT room_id, player, money, is_winner, ended_at FROM game_results"
	args := []interface{}{}
	if roomID != "" {
		query += " WHERE room_id = ?"
		args = append(args, roomID)
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询战绩失败: %w", err)
	}
	defer rows.Close()

	var results []dto.GameResult
	for rows.Next() {
		var r dto.GameResult
		if err := rows.Scan(&r.RoomID, &r.Player, &r.Money, &r.IsWinner, &r.EndedAt); err != nil {
			return nil, fmt.Errorf("读取战绩失败: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历战绩失败: %w", err)
	}
	return results, nil
}
