package dto

type RoomPlayer struct {
	PlayerID string `json:"playerID"`
	Online   bool   `json:"online"`
}

type RoomInfo struct {
	RoomID     string       `json:"roomID"`
	MaxPlayers int          `json:"maxPlayers"`
	CreatedAt  int64        `json:"createdAt,omitempty"`
	Started    bool         `json:"started"`
	Players    []RoomPlayer `json:"players"`
}

type CreateRoomRequest struct {
	MaxPlayers int `json:"maxPlayers" binding:"required"`
}

type CreateRoomResponse struct {
	RoomID string `json:"room_id"`
}

type DeleteRoomRequest struct {
	RoomID string `json:"roomID" binding:"required"`
}

type GetRoomList struct {
	Rooms []RoomInfo `json:"rooms"`
}

type LoginRequest struct {
	Name string `json:"name" binding:"required"`
}

type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userID"`
}

// GameResult 结果库的一条战绩，EndedAt 只在查询时回填
type GameResult struct {
	RoomID   string `json:"roomID"`
	Player   string `json:"player"`
	Money    int    `json:"money"`
	IsWinner bool   `json:"isWinner"`
	EndedAt  string `json:"endedAt,omitempty"`
}
