package dto

// EventKind 主机确认操作后产生的事件类型
type EventKind string

const (
	EventTilePlaced           EventKind = "tile_placed"
	EventTileDiscarded        EventKind = "tile_discarded"
	EventTileDrawn            EventKind = "tile_drawn"
	EventCompanyFounded       EventKind = "company_founded"
	EventChainExtended        EventKind = "chain_extended"
	EventMergerStarted        EventKind = "merger_started"
	EventMergerSurvivorChosen EventKind = "merger_survivor_chosen"
	EventBonusPaid            EventKind = "bonus_paid"
	EventStockSold            EventKind = "stock_sold"
	EventStockTraded          EventKind = "stock_traded"
	EventShareKept            EventKind = "share_kept"
	EventCompanyAbsorbed      EventKind = "company_absorbed"
	EventMergerFinished       EventKind = "merger_finished"
	EventStockBought          EventKind = "stock_bought"
	EventTurnAdvanced         EventKind = "turn_advanced"
	EventGameEnded            EventKind = "game_ended"
)

// 红利名次
const (
	RankMajority = "majority"
	RankMinority = "minority"
)

// Event 带序号的已确认事件，所有副本按 Seq 顺序重放
type Event struct {
	Seq      int64     `json:"seq"`
	Kind     EventKind `json:"kind"`
	ActionID string    `json:"actionID,omitempty"` // 触发本事件的操作，便于客户端对账

	Player    string   `json:"player,omitempty"`
	Tile      string   `json:"tile,omitempty"`
	Belong    string   `json:"belong,omitempty"`   // tile_placed：落子后的归属
	Company   string   `json:"company,omitempty"`  // 事件涉及的公司（合并时为被吞方）
	Survivor  string   `json:"survivor,omitempty"` // 合并的幸存方
	Defunct   []string `json:"defunct,omitempty"`  // merger_started：被吞公司，清算顺序
	Tiles     []string `json:"tiles,omitempty"`    // 成立/吞并时归入公司的 tile
	Count     int      `json:"count,omitempty"`
	Amount    int      `json:"amount,omitempty"` // 金钱变动
	Give      int      `json:"give,omitempty"`   // stock_traded：交出的被吞方股数
	Get       int      `json:"get,omitempty"`    // stock_traded：换得的幸存方股数
	Rank      string   `json:"rank,omitempty"`   // bonus_paid：majority / minority
	Phase     string   `json:"phase,omitempty"`  // turn_advanced：进入的阶段
	Reason    string   `json:"reason,omitempty"` // game_ended：终局原因
	Winners   []string `json:"winners,omitempty"`
	FreeShare bool     `json:"freeShare,omitempty"` // company_founded：创始人是否获得赠股
}
