package dto

// 客户端消息类型
const (
	ClientHello           = "hello"
	ClientAction          = "action"
	ClientSnapshotRequest = "snapshot_request"
)

// 服务端消息类型
const (
	ServerWelcome  = "welcome"
	ServerEvent    = "event"
	ServerReject   = "reject"
	ServerSnapshot = "snapshot"
	ServerError    = "error"
)

// ClientMessage 客户端 -> 主机。Payload 按 Type 解码成具体结构
type ClientMessage struct {
	Type     string                 `json:"type"`
	PlayerID string                 `json:"playerID,omitempty"`
	ActionID string                 `json:"actionID,omitempty"`
	Payload  map[string]interface{} `json:"payload,omitempty"`
}

// ServerMessage 主机 -> 客户端
type ServerMessage struct {
	Type     string    `json:"type"`
	PlayerID string    `json:"playerID,omitempty"` // welcome：分配/确认的玩家ID
	Event    *Event    `json:"event,omitempty"`
	Reject   *Reject   `json:"reject,omitempty"`
	Snapshot *Snapshot `json:"snapshot,omitempty"`
	Message  string    `json:"message,omitempty"` // error：出错说明
}

// PlayerState 快照中的单个玩家
type PlayerState struct {
	Name   string         `json:"name"`
	Money  int            `json:"money"`
	Tiles  []string       `json:"tiles"`
	Stocks map[string]int `json:"stocks"`
}

// MergerSnapshot 快照中未完结的合并清算进度
type MergerSnapshot struct {
	Tile       string   `json:"tile"`
	Survivor   string   `json:"survivor,omitempty"`
	Candidates []string `json:"candidates,omitempty"` // 等待落子者挑选的幸存候选
	Pending    []string `json:"pending,omitempty"`    // 尚未清算的被吞公司
	Current    string   `json:"current,omitempty"`    // 正在清算的被吞公司
	Remaining  []int    `json:"remaining,omitempty"`  // 尚未表态的持股玩家下标
	Maker      int      `json:"maker"`                // 落子触发合并的玩家下标
}

// Snapshot 完整对局状态，Seq 为生成快照时的最新事件序号
type Snapshot struct {
	Seq     int64             `json:"seq"`
	RoomID  string            `json:"roomID"`
	Players []PlayerState     `json:"players"`
	Tiles   map[string]string `json:"tiles"` // tileID -> belong
	Bank    map[string]int    `json:"bank"`
	Bag     []string          `json:"bag"`
	Turn    int               `json:"turn"`
	Phase   string            `json:"phase"`
	Bought  int               `json:"bought"`
	Merger  *MergerSnapshot   `json:"merger,omitempty"`
	Over    bool              `json:"over"`
}
