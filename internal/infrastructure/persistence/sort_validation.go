package persistence

import (
	"strings"

	"github.com/livecommerce/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField if whitelisted, otherwise defaultField.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

var (
	AdminSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true, "email": true,
		"role": true, "status": true, "last_login_at": true,
	}
	UserSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "name": true, "phone": true,
		"status": true, "last_login_at": true,
	}
	ProductSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "sku": true, "name": true,
		"price": true, "stock": true, "status": true,
	}
	OrderSortFields = map[string]bool{
		"created_at": true, "updated_at": true, "order_number": true,
		"total": true, "status": true, "customer_name": true,
	}
	PaymentSortFields = map[string]bool{
		"created_at": true, "amount": true, "status": true, "paid_at": true,
	}
	ShipmentSortFields = map[string]bool{
		"created_at": true, "status": true, "shipped_at": true, "courier": true,
	}
	LiveStreamSortFields = map[string]bool{
		"created_at": true, "scheduled_at": true, "started_at": true,
		"title": true, "status": true, "peak_viewers": true,
	}
	MessageSortFields = map[string]bool{
		"created_at": true, "phone": true, "status": true,
	}
	AutoReplySortFields = map[string]bool{
		"created_at": true, "name": true, "priority": true,
	}
)

// paginate applies whitelisted ordering and page/limit to query
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// likePattern builds a case-insensitive LIKE pattern, escaping wildcards
func likePattern(search string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(strings.TrimSpace(search))) + "%"
}
