package urlutil

import (
	"errors"
	"net/url"
	"strings"

	"scout_dev_v1_202609/internal/model"
)

// ==================== 校验 ====================

// 错误值即前端本地化文案的 key
var (
	ErrEmptyURL   = errors.New("errors.emptyUrl")
	ErrInvalidURL = errors.New("errors.invalidUrl")
)

// ValidateProductURL 校验商品链接
// 只要求语法合法的绝对 URL，不限定协议和域名白名单
func ValidateProductURL(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ErrEmptyURL
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}

// ==================== 平台识别 ====================

// 按固定优先级做大小写不敏感的 host 子串匹配，先命中先得
var marketplaceRules = []struct {
	Needle      string
	Marketplace model.Marketplace
}{
	{"amazon", model.MarketplaceAmazon},
	{"ebay", model.MarketplaceEbay},
	{"etsy", model.MarketplaceEtsy},
	{"shopify", model.MarketplaceShopify},
	{"walmart", model.MarketplaceWalmart},
	{"target", model.MarketplaceTarget},
}

// ExtractProductInfo 根据链接的 host 识别商品来源平台
// 未命中任何规则时归为通用在线商店
func ExtractProductInfo(raw string) model.Marketplace {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return model.MarketplaceGeneric
	}

	host := strings.ToLower(u.Hostname())
	for _, rule := range marketplaceRules {
		if strings.Contains(host, rule.Needle) {
			return rule.Marketplace
		}
	}
	return model.MarketplaceGeneric
}
