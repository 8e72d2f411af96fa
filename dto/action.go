package dto

// ActionKind 客户端可提交的操作类型
type ActionKind string

const (
	ActionPlaceTile       ActionKind = "place_tile"
	ActionDiscardDeadTile ActionKind = "discard_dead_tile"
	ActionBuyStock        ActionKind = "buy_stock"
	ActionSellStock       ActionKind = "sell_stock"  // 清算中的单步卖出
	ActionTradeStock      ActionKind = "trade_stock" // 清算中的单步换股
	ActionChooseSurvivor  ActionKind = "choose_merger_survivor"
	ActionResolveShares   ActionKind = "resolve_merger_share"
	ActionEndTurn         ActionKind = "end_turn"
)

// Action 操作载荷，不同 Kind 使用不同字段
type Action struct {
	Kind    ActionKind `json:"kind" mapstructure:"kind"`
	Tile    string     `json:"tile,omitempty" mapstructure:"tile"`       // place_tile / discard_dead_tile
	Company string     `json:"company,omitempty" mapstructure:"company"` // 新公司 / 买入公司 / 幸存公司
	Count   int        `json:"count,omitempty" mapstructure:"count"`     // buy_stock 买入数量
	Sell    int        `json:"sell,omitempty" mapstructure:"sell"`       // 合并清算：卖出数
	Trade   int        `json:"trade,omitempty" mapstructure:"trade"`     // 合并清算：换股消耗数（2 换 1，须为偶数）
	Keep    int        `json:"keep,omitempty" mapstructure:"keep"`       // 合并清算：保留数
	Declare bool       `json:"declare,omitempty" mapstructure:"declare"` // end_turn 时宣布终局
}
