// Package variable 订单变量替换。
// 模板里的占位符（%order_id%、{{Amount}} 这类）在发送前被替换为订单里的真实值
package variable

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gitee.com/flycash/whatsapp-notify/internal/domain"
)

// SubstitutionMap 占位符到取值的有序映射。
// 每条消息构建时新建一份，不做缓存，两次触发之间订单数据可能已经变了
type SubstitutionMap struct {
	tokens []string
	values map[string]string
}

// Tokens 构建时固定下来的占位符顺序
func (m SubstitutionMap) Tokens() []string {
	return m.tokens
}

// Value 占位符对应的取值
func (m SubstitutionMap) Value(token string) (string, bool) {
	v, ok := m.values[token]
	return v, ok
}

func (m *SubstitutionMap) add(token, value string) {
	m.tokens = append(m.tokens, token)
	m.values[token] = value
}

// BuildSubstitutionMap 根据订单构建完整的变量表。
// %first_product_*% 和 %product_*% 是同义词，都指第一个行项目
func BuildSubstitutionMap(order domain.Order) SubstitutionMap {
	m := SubstitutionMap{values: make(map[string]string)}

	var productList strings.Builder
	for _, it := range order.Items {
		productList.WriteString(fmt.Sprintf("%s (Qty: %d) - %s\n", it.Name, it.Quantity, money(it.Total, order.Currency)))
	}

	var firstName, firstQty, firstTotal string
	if len(order.Items) > 0 {
		first := order.Items[0]
		firstName = first.Name
		firstQty = strconv.Itoa(first.Quantity)
		firstTotal = money(first.Total, order.Currency)
	}

	// 订单
	m.add("%order_id%", strconv.FormatInt(order.ID, 10))
	m.add("%order_total%", money(order.Total, order.Currency))
	m.add("%order_subtotal%", money(order.Subtotal, order.Currency))
	m.add("%order_currency%", order.Currency)
	m.add("{{Amount}}", money(order.Total, order.Currency))
	m.add("%order_status%", order.Status)
	// 客户
	m.add("%billing_first_name%", order.BillingFirstName)
	m.add("%billing_last_name%", order.BillingLastName)
	m.add("%billing_full_name%", order.BillingFullName())
	m.add("%billing_email%", order.BillingEmail)
	m.add("%billing_phone%", order.BillingPhone)
	// 商品
	m.add("%product_list%", productList.String())
	m.add("%total_items%", strconv.Itoa(order.TotalItems()))
	m.add("%first_product_name%", firstName)
	m.add("%first_product_quantity%", firstQty)
	m.add("%first_product_total%", firstTotal)
	m.add("%product_name%", firstName)
	m.add("%product_quantity%", firstQty)
	m.add("%product_total%", firstTotal)
	return m
}

// Substitute 单遍替换。
// 始终在原始文本上做匹配，替换出来的值不会再被当作文本二次替换
func Substitute(text string, m SubstitutionMap) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		token, ok := matchToken(text[i:], m)
		if !ok {
			b.WriteByte(text[i])
			i++
			continue
		}
		b.WriteString(m.values[token])
		i += len(token)
	}
	return b.String()
}

func matchToken(rest string, m SubstitutionMap) (string, bool) {
	for _, token := range m.tokens {
		if strings.HasPrefix(rest, token) {
			return token, true
		}
	}
	return "", false
}

// SubstituteDeep 递归处理整棵JSON树，只改写字符串叶子，返回新树不动原树
func SubstituteDeep(tree any, m SubstitutionMap) any {
	switch v := tree.(type) {
	case string:
		return Substitute(v, m)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, child := range v {
			out[k] = SubstituteDeep(child, m)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = SubstituteDeep(child, m)
		}
		return out
	default:
		return tree
	}
}

// 形如 %xxx% 或 {{Xxx}} 的残留占位符
var tokenShape = regexp.MustCompile(`%[a-z_]+%|\{\{[A-Za-z]+\}\}`)

// Unresolved 收集替换后仍残留的占位符，残留不致命，只用于告警日志
func Unresolved(tree any) []string {
	var leftover []string
	switch v := tree.(type) {
	case string:
		leftover = append(leftover, tokenShape.FindAllString(v, -1)...)
	case map[string]any:
		for _, child := range v {
			leftover = append(leftover, Unresolved(child)...)
		}
	case []any:
		for _, child := range v {
			leftover = append(leftover, Unresolved(child)...)
		}
	}
	return leftover
}

func money(amount float64, currency string) string {
	return fmt.Sprintf("%.2f %s", amount, currency)
}
