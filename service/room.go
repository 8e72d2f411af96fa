package service

import (
	"fmt"
	"strings"
	"time"

	"go-acquire/dto"
	"go-acquire/repository"
	"go-acquire/utils"
	"go-acquire/ws"

	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
)

// roomMeta 房间在 redis 里的元信息
type roomMeta struct {
	MaxPlayers int   `mapstructure:"maxPlayers"`
	CreatedAt  int64 `mapstructure:"createdAt"`
}

// decodeRoomMeta redis hash 的字段全是字符串，借 mapstructure 弱类型转回来
func decodeRoomMeta(data map[string]string) (*roomMeta, error) {
	var meta roomMeta
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &meta,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("解析房间信息失败: %w", err)
	}
	return &meta, nil
}

func getRoomMeta(roomID string) (*roomMeta, error) {
	roomInfoKey := fmt.Sprintf("room:%s:roomInfo", roomID)
	data, err := repository.Rdb.HGetAll(repository.Ctx, roomInfoKey).Result()
	if err != nil {
		return nil, fmt.Errorf("读取房间信息失败: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("房间 %s 不存在", roomID)
	}
	return decodeRoomMeta(data)
}

// CreateRoom 创建房间：redis 记录房间元信息，同时拉起主机中枢
func CreateRoom(params dto.CreateRoomRequest) (string, error) {
	if params.MaxPlayers < 2 || params.MaxPlayers > 6 {
		return "", fmt.Errorf("人数必须在 2~6 之间")
	}

	// 生成唯一 Room ID（8位）
	uuidStr := uuid.New().String()
	roomID := strings.ReplaceAll(uuidStr, "-", "")[:8]

	roomInfoKey := fmt.Sprintf("room:%s:roomInfo", roomID)
	err := repository.Rdb.HSet(repository.Ctx, roomInfoKey, map[string]interface{}{
		"maxPlayers": params.MaxPlayers,
		"createdAt":  time.Now().Unix(),
	}).Err()
	if err != nil {
		return "", fmt.Errorf("初始化房间信息失败: %w", err)
	}

	hub := ws.CreateHub(roomID, params.MaxPlayers)
	hub.OnGameEnd = SaveResult
	return roomID, nil
}

func DeleteRoom(params dto.DeleteRoomRequest) error {
	ctx := repository.Ctx
	rdb := repository.Rdb

	// 用 SCAN 查找所有以 room:{RoomID}: 开头的 key
	prefix := fmt.Sprintf("room:%s:", params.RoomID)
	var cursor uint64
	var keysToDelete []string

	for {
		keys, cur, err := rdb.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return fmt.Errorf("扫描房间相关 key 失败: %w", err)
		}
		keysToDelete = append(keysToDelete, keys...)
		cursor = cur
		if cursor == 0 {
			break
		}
	}

	if len(keysToDelete) > 0 {
		if _, err := rdb.Del(ctx, keysToDelete...).Result(); err != nil {
			return fmt.Errorf("删除房间相关 key 失败: %w", err)
		}
	}
	ws.RemoveHub(params.RoomID)
	return nil
}

// GetRoomList 房间座次、开局与否来自中枢，人数上限与建房时间以 redis 为准
func GetRoomList() ([]dto.RoomInfo, error) {
	var rooms []dto.RoomInfo
	for _, hub := range ws.AllHubs() {
		info := dto.RoomInfo{
			RoomID:     hub.RoomID,
			MaxPlayers: hub.MaxPlayers,
			Started:    hub.Started(),
			Players:    hub.Players(),
		}
		meta, err := getRoomMeta(hub.RoomID)
		if err != nil {
			utils.Log.Warnf("⚠️ 房间 %s 元信息读取失败: %v", hub.RoomID, err)
		} else {
			info.MaxPlayers = meta.MaxPlayers
			info.CreatedAt = meta.CreatedAt
		}
		rooms = append(rooms, info)
	}
	return rooms, nil
}

func GetRoomInfo(roomID string) (*dto.RoomInfo, error) {
	hub := ws.GetHub(roomID)
	if hub == nil {
		return nil, fmt.Errorf("房间不存在")
	}
	meta, err := getRoomMeta(roomID)
	if err != nil {
		return nil, err
	}
	return &dto.RoomInfo{
		RoomID:     hub.RoomID,
		MaxPlayers: meta.MaxPlayers,
		CreatedAt:  meta.CreatedAt,
		Started:    hub.Started(),
		Players:    hub.Players(),
	}, nil
}
