package live

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxCommentOrderQuantity is the largest quantity accepted from a chat order
const MaxCommentOrderQuantity = 99

var orderKeywords = map[string]struct{}{
	"order": {},
	"buy":   {},
	"beli":  {},
	"pesan": {},
}

var (
	qtyTokenPattern = regexp.MustCompile(`^(?:x(\d+)|(\d+)x|(\d+))$`)
	skuTokenPattern = regexp.MustCompile(`^#?([a-z0-9][a-z0-9_-]*)$`)
)

// CommentOrder is an order request parsed from a chat message.
// An empty SKU means the pinned product.
type CommentOrder struct {
	SKU      string
	Quantity int
}

// ParseCommentOrder parses chat messages such as "order #TSHIRT-01 x2",
// "order TSHIRT-RED 2", "buy KAOS x3", "beli 3" or "buy sku12 qty 4". The
// keyword must come first; the product reference and quantity are optional
// and may appear in either order.
// It returns false for messages that are not an order or whose quantity is
// out of range.
func ParseCommentOrder(message string) (CommentOrder, bool) {
	original := strings.Fields(message)
	if len(original) == 0 {
		return CommentOrder{}, false
	}
	tokens := make([]string, len(original))
	for i, tok := range original {
		tokens[i] = strings.ToLower(tok)
	}
	keyword := strings.TrimRight(tokens[0], ":!.,")
	if _, ok := orderKeywords[keyword]; !ok {
		return CommentOrder{}, false
	}

	result := CommentOrder{}
	qtySet := false
	for i := 1; i < len(tokens); i++ {
		tok := strings.Trim(tokens[i], ",.!")
		if tok == "" {
			continue
		}
		if tok == "qty" || tok == "qty:" {
			if i+1 >= len(tokens) || qtySet {
				return CommentOrder{}, false
			}
			n, err := strconv.Atoi(strings.Trim(tokens[i+1], ",.!"))
			if err != nil {
				return CommentOrder{}, false
			}
			result.Quantity = n
			qtySet = true
			i++
			continue
		}
		if m := qtyTokenPattern.FindStringSubmatch(tok); m != nil && !qtySet {
			n, err := strconv.Atoi(firstNonEmpty(m[1:]...))
			if err != nil {
				return CommentOrder{}, false
			}
			result.Quantity = n
			qtySet = true
			continue
		}
		if result.SKU == "" {
			if m := skuTokenPattern.FindStringSubmatch(tok); m != nil && isSKUToken(strings.Trim(original[i], ",.!"), m[1]) {
				result.SKU = strings.ToUpper(m[1])
				continue
			}
		}
	}

	if !qtySet {
		result.Quantity = 1
	}
	if result.Quantity < 1 || result.Quantity > MaxCommentOrderQuantity {
		return CommentOrder{}, false
	}
	return result, true
}

// isSKUToken accepts "#anything", a bare token carrying a digit or a
// separator, or one written in capitals. Lowercase filler words like
// "please" are not read as product codes.
func isSKUToken(raw, sku string) bool {
	if strings.HasPrefix(raw, "#") {
		return true
	}
	if strings.ContainsAny(sku, "0123456789-_") {
		return true
	}
	return len(raw) > 1 && raw == strings.ToUpper(raw)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
