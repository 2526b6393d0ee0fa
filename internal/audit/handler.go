package audit

import (
	"fmt"

	"cafepos-backend/internal/auth"
	"cafepos-backend/internal/database"
	"cafepos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AuditLogResponse struct {
	ID          uint               `json:"id"`
	CreatedAt   string             `json:"created_at"`
	BranchID    *uint              `json:"branch_id"`
	UserID      uint               `json:"user_id"`
	UserName    string             `json:"user_name"`
	EntityType  string             `json:"entity_type"`
	EntityID    uint               `json:"entity_id"`
	Action      models.AuditAction `json:"action"`
	Description string             `json:"description"`
}

// GET /api/audit-logs?entity_type=table&entity_id=1&branch_id=1
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(auth.CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "Role information missing")
		}

		// Branch admins only see their own branch; super admin may filter.
		var branchID *uint
		if role == models.RoleBranchAdmin {
			bVal := c.Locals(auth.CtxBranchIDKey)
			if bPtr, ok := bVal.(*uint); ok && bPtr != nil {
				branchID = bPtr
			}
		} else {
			if bidStr := c.Query("branch_id"); bidStr != "" {
				var bid uint
				if _, err := fmt.Sscan(bidStr, &bid); err == nil && bid > 0 {
					branchID = &bid
				}
			}
		}

		dbq := database.DB.Model(&models.AuditLog{})
		if branchID != nil {
			dbq = dbq.Where("branch_id = ?", *branchID)
		}
		if entityType := c.Query("entity_type"); entityType != "" {
			dbq = dbq.Where("entity_type = ?", entityType)
		}
		if entityIDStr := c.Query("entity_id"); entityIDStr != "" {
			var eid uint
			if _, err := fmt.Sscan(entityIDStr, &eid); err == nil && eid > 0 {
				dbq = dbq.Where("entity_id = ?", eid)
			}
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC").Limit(200).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list audit logs")
		}

		res := make([]AuditLogResponse, 0, len(logs))
		for _, l := range logs {
			res = append(res, AuditLogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
				BranchID:    l.BranchID,
				UserID:      l.UserID,
				UserName:    l.UserName,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      l.Action,
				Description: l.Description,
			})
		}

		return c.JSON(res)
	}
}
