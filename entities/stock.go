package entities

const (
	SharesPerCompany = 25 // 每家公司股票总量
	SafeChainSize    = 11 // 达到该规模后公司不可再被吞并
	EndChainSize     = 41 // 任一公司达到该规模即可宣布终局
	StartMoney       = 6000
	HandSize         = 6
	BuyLimitPerTurn  = 3
)

// 股价阶梯，低档公司从 200 起步，中档、高档公司依次整体上移一档
var priceLadder = []int{200, 300, 400, 500, 600, 700, 800, 900, 1000, 1100, 1200}

// 连锁规模 -> 阶梯下标；规模不足 2 时公司尚不存在
func ladderIndex(size int) int {
	switch {
	case size < 2:
		return -1
	case size <= 5:
		return size - 2
	case size <= 10:
		return 4
	case size <= 20:
		return 5
	case size <= 30:
		return 6
	case size <= 40:
		return 7
	default:
		return 8
	}
}

// StockPrice 根据公司档次和当前连锁规模计算股价
func StockPrice(company string, size int) int {
	idx := ladderIndex(size)
	if idx < 0 {
		return 0
	}
	return priceLadder[idx+int(companyTiers[company])]
}

// MajorityBonus 第一大股东红利，为股价的 10 倍
func MajorityBonus(company string, size int) int {
	return StockPrice(company, size) * 10
}

// MinorityBonus 第二大股东红利，为股价的 5 倍
func MinorityBonus(company string, size int) int {
	return StockPrice(company, size) * 5
}

// StockMarket 银行持有的股票存量
type StockMarket struct {
	BankShares map[string]int `json:"bankShares"`
}

func NewStockMarket() *StockMarket {
	m := &StockMarket{BankShares: make(map[string]int, len(CompanyOrder))}
	for _, c := range CompanyOrder {
		m.BankShares[c] = SharesPerCompany
	}
	return m
}

func (m *StockMarket) Take(company string, n int) {
	m.BankShares[company] -= n
}

func (m *StockMarket) Return(company string, n int) {
	m.BankShares[company] += n
}
