package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockPrice(t *testing.T) {
	cases := []struct {
		company string
		size    int
		price   int
	}{
		{"Sackson", 2, 200},
		{"Sackson", 5, 500},
		{"Sackson", 11, 700},
		{"Sackson", 40, 900},
		{"Sackson", 41, 1000},
		{"Tower", 6, 600},
		{"American", 2, 300},
		{"American", 4, 500},
		{"Festival", 20, 800},
		{"Worldwide", 41, 1100},
		{"Continental", 2, 400},
		{"Imperial", 4, 600},
		{"Imperial", 20, 900},
		{"Imperial", 41, 1200},
	}
	for _, c := range cases {
		assert.Equal(t, c.price, StockPrice(c.company, c.size), "%s 规模 %d", c.company, c.size)
	}
}

func TestStockPriceBeforeFounding(t *testing.T) {
	// 规模不足 2 时公司尚不存在，股价为 0
	assert.Equal(t, 0, StockPrice("Sackson", 0))
	assert.Equal(t, 0, StockPrice("Imperial", 1))
}

func TestBonuses(t *testing.T) {
	// 红利固定为股价的 10 倍与 5 倍
	assert.Equal(t, 2000, MajorityBonus("Sackson", 2))
	assert.Equal(t, 1000, MinorityBonus("Sackson", 2))
	assert.Equal(t, 9000, MajorityBonus("Imperial", 20))
	assert.Equal(t, 4500, MinorityBonus("Imperial", 20))
}

func TestNewStockMarket(t *testing.T) {
	m := NewStockMarket()
	for _, c := range CompanyOrder {
		assert.Equal(t, SharesPerCompany, m.BankShares[c])
	}

	m.Take("Tower", 3)
	assert.Equal(t, 22, m.BankShares["Tower"])
	m.Return("Tower", 1)
	assert.Equal(t, 23, m.BankShares["Tower"])
}
