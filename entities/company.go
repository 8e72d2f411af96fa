package entities

// 七家公司，平局裁决时按此固定顺序
var CompanyOrder = []string{
	"Sackson",
	"Tower",
	"American",
	"Festival",
	"Worldwide",
	"Continental",
	"Imperial",
}

// CompanyTier 公司档次，决定股价表的整体偏移
type CompanyTier int

const (
	TierLow CompanyTier = iota
	TierMedium
	TierHigh
)

var companyTiers = map[string]CompanyTier{
	"Sackson": TierLow,
	"Tower":   TierLow,

	"American":  TierMedium,
	"Festival":  TierMedium,
	"Worldwide": TierMedium,

	"Continental": TierHigh,
	"Imperial":    TierHigh,
}

func IsCompany(name string) bool {
	_, ok := companyTiers[name]
	return ok
}

// CompanyIndex 返回公司在固定顺序中的下标，用于平局时排序
func CompanyIndex(name string) int {
	for i, c := range CompanyOrder {
		if c == name {
			return i
		}
	}
	return len(CompanyOrder)
}
