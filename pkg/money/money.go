package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ==================== 货币符号表 ====================

// currencyEntry 货币符号条目
// 解析按切片顺序做子串匹配，先匹配先得，
// 所以带前缀的符号（C$/A$）必须排在 $ 之前
type currencyEntry struct {
	Code   string
	Symbol string
	// Suffix 为 true 时符号放在金额之后（北欧克朗习惯）
	Suffix bool
}

var currencyTable = []currencyEntry{
	{Code: "CAD", Symbol: "C$"},
	{Code: "AUD", Symbol: "A$"},
	{Code: "USD", Symbol: "$"},
	{Code: "EUR", Symbol: "€"},
	{Code: "GBP", Symbol: "£"},
	{Code: "JPY", Symbol: "¥"},
	{Code: "KRW", Symbol: "₩"},
	{Code: "INR", Symbol: "₹"},
	{Code: "SEK", Symbol: "kr ", Suffix: true},
	{Code: "NOK", Symbol: "kr ", Suffix: true},
	{Code: "DKK", Symbol: "kr ", Suffix: true},
}

func lookupByCode(code string) (currencyEntry, bool) {
	for _, e := range currencyTable {
		if e.Code == code {
			return e, true
		}
	}
	return currencyEntry{}, false
}

// ==================== 金额换算 ====================

// AmountFromFloat 把抓取结果里的浮点价格换算为两位小数的 decimal
func AmountFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// ==================== 格式化 ====================

// Format 按货币习惯格式化金额
// 金额固定两位小数，整数部分按千位逗号分组；
// 未知货币代码退化为 "<code> " 伪符号前缀
func Format(amount decimal.Decimal, code string) string {
	number := groupThousands(amount.StringFixed(2))

	entry, ok := lookupByCode(code)
	if !ok {
		return code + " " + number
	}
	if entry.Suffix {
		return number + entry.Symbol
	}
	return entry.Symbol + number
}

// groupThousands 给定点小数字符串的整数部分插入千位逗号
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String()
	if fracPart != "" {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// ==================== 解析 ====================

// Parse 尽力解析带货币符号的价格字符串
// 命中符号表时返回对应代码，剩余部分去掉符号/逗号/空白后按 decimal 解析；
// 解析失败金额记 0。无符号命中时只保留数字和小数点，货币代码为空
func Parse(s string) (decimal.Decimal, string) {
	for _, entry := range currencyTable {
		needle := strings.TrimSpace(entry.Symbol)
		if needle == "" || !strings.Contains(s, needle) {
			continue
		}

		cleaned := strings.ReplaceAll(s, needle, "")
		cleaned = strings.ReplaceAll(cleaned, ",", "")
		cleaned = strings.TrimSpace(cleaned)

		amount, err := decimal.NewFromString(cleaned)
		if err != nil {
			amount = decimal.Zero
		}
		return amount, entry.Code
	}

	// 没有符号兜底：只留数字和小数点
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	amount, err := decimal.NewFromString(b.String())
	if err != nil {
		amount = decimal.Zero
	}
	return amount, ""
}
