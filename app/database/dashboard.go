package database

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// DashboardStats is the tenant-wide overview shown after login.
type DashboardStats struct {
	ActiveStudents     int             `json:"active_students"`
	CollectedThisMonth decimal.Decimal `json:"collected_this_month"`
	OutstandingTotal   decimal.Decimal `json:"outstanding_total"`
	PresentToday       int             `json:"present_today"`
	AbsentToday        int             `json:"absent_today"`
	DormOccupied       int             `json:"dorm_occupied"`
	DormCapacity       int             `json:"dorm_capacity"`
	UnreadMessages     int             `json:"unread_messages"`
}

// GetDashboardStats aggregates the tenant counters in one round trip each.
// Individual failures zero the counter rather than failing the page.
func GetDashboardStats(db *sql.DB, tenantID, userID string, now time.Time) *DashboardStats {
	stats := &DashboardStats{
		CollectedThisMonth: decimal.Zero,
		OutstandingTotal:   decimal.Zero,
	}

	db.QueryRow(`SELECT COUNT(*) FROM students
				 WHERE tenant_id = $1 AND is_active = true AND deleted_at IS NULL`,
		tenantID).Scan(&stats.ActiveStudents)

	db.QueryRow(`SELECT COALESCE(SUM(paid_amount), 0)
				 FROM payments
				 WHERE tenant_id = $1 AND payment_month = $2 AND payment_year = $3 AND deleted_at IS NULL`,
		tenantID, int(now.Month()), now.Year()).Scan(&stats.CollectedThisMonth)

	db.QueryRow(`SELECT COALESCE(SUM(remaining_amount), 0)
				 FROM payments
				 WHERE tenant_id = $1 AND status IN ('pending', 'partially_paid') AND deleted_at IS NULL`,
		tenantID).Scan(&stats.OutstandingTotal)

	db.QueryRow(`SELECT COUNT(*) FILTER (WHERE status = 'present'),
				 COUNT(*) FILTER (WHERE status = 'absent')
				 FROM attendance WHERE tenant_id = $1 AND date = $2`,
		tenantID, now.Format("2006-01-02")).Scan(&stats.PresentToday, &stats.AbsentToday)

	db.QueryRow(`SELECT COALESCE(SUM(r.capacity), 0),
				 COUNT(a.id) FILTER (WHERE a.released_at IS NULL)
				 FROM dorm_rooms r
				 LEFT JOIN dorm_assignments a ON a.room_id = r.id
				 WHERE r.tenant_id = $1 AND r.deleted_at IS NULL`,
		tenantID).Scan(&stats.DormCapacity, &stats.DormOccupied)

	db.QueryRow(`SELECT COUNT(*) FROM messages
				 WHERE tenant_id = $1 AND recipient_id = $2 AND read_at IS NULL`,
		tenantID, userID).Scan(&stats.UnreadMessages)

	return stats
}
